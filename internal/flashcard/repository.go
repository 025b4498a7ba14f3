package flashcard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a referenced card no longer exists.
// Use errors.Is to check.
var ErrNotFound = errors.New("flashcard: not found")

// ScoreFunc ranks a card for due-set ordering at the given time.
type ScoreFunc func(card Flashcard, now time.Time) float64

//go:generate mockgen -source=repository.go -destination=../mocks/flashcard/mock_repository.go -package=mock_flashcard Repository

// Repository defines operations for managing flashcards and their
// scheduling state.
type Repository interface {
	Create(ctx context.Context, term, definition, example, tag string, now time.Time) (int64, error)
	FindByID(ctx context.Context, id int64) (*Flashcard, error)
	FindDue(ctx context.Context, limit int, now time.Time) ([]Flashcard, error)
	FindTopPriority(ctx context.Context, limit int, now time.Time) ([]Flashcard, error)
	FindAll(ctx context.Context) ([]Flashcard, error)
	ApplyReview(ctx context.Context, card Flashcard) error
	ContextualTerms(ctx context.Context, excludeID int64, count int) ([]string, error)
	ContextualDefinitions(ctx context.Context, excludeID int64, count int) ([]string, error)
	CountDue(ctx context.Context, now time.Time) (int, error)
	EarliestUpcoming(ctx context.Context, now time.Time) (*time.Time, error)
	Stats(ctx context.Context) (*Stats, error)
}

// Stats aggregates review counters across the whole store.
type Stats struct {
	TotalCards   int `db:"total_cards"`
	TotalReviews int `db:"total_reviews"`
	TotalCorrect int `db:"total_correct"`
	TotalWrong   int `db:"total_wrong"`
	CardsByStage map[int]int
}

// DBRepository implements Repository using an embedded SQLite database
// through sqlx.
type DBRepository struct {
	db      *sqlx.DB
	scoreFn ScoreFunc
}

// NewDBRepository creates a new DBRepository. scoreFn is used to
// recompute priority scores before every due-set query.
func NewDBRepository(db *sqlx.DB, scoreFn ScoreFunc) *DBRepository {
	return &DBRepository{db: db, scoreFn: scoreFn}
}

// Create inserts a new card at stage 1, due half an hour from now, with
// the seed priority that favors fresh vocabulary.
func (r *DBRepository) Create(ctx context.Context, term, definition, example, tag string, now time.Time) (int64, error) {
	card := NewCard(term, definition, example, tag, now)
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO flashcards (term, definition, example, tag, stage, created_at, next_due_at, priority_score, interval_hours)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		card.Term, card.Definition, card.Example, card.Tag, card.Stage,
		card.CreatedAt, card.NextDueAt.Time, card.PriorityScore, card.IntervalHours)
	if err != nil {
		return 0, fmt.Errorf("db.ExecContext(insert flashcard) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("result.LastInsertId() > %w", err)
	}
	return id, nil
}

// FindByID returns a card by id, or nil if it does not exist.
func (r *DBRepository) FindByID(ctx context.Context, id int64) (*Flashcard, error) {
	var card Flashcard
	err := r.db.GetContext(ctx, &card, "SELECT * FROM flashcards WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(flashcard) > %w", err)
	}
	return &card, nil
}

// FindDue returns up to limit cards whose review time has passed,
// ordered by priority score descending, earlier stages first, most
// overdue first. Every card's score is recomputed before selection so
// the ordering never relies on a stale cached value.
func (r *DBRepository) FindDue(ctx context.Context, limit int, now time.Time) ([]Flashcard, error) {
	if err := r.refreshPriorityScores(ctx, now); err != nil {
		return nil, err
	}

	var cards []Flashcard
	if err := r.db.SelectContext(ctx, &cards,
		`SELECT * FROM flashcards
		WHERE next_due_at IS NOT NULL AND next_due_at <= ?
		ORDER BY priority_score DESC, stage ASC, next_due_at ASC
		LIMIT ?`,
		now, limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(due flashcards) > %w", err)
	}
	return cards, nil
}

// FindTopPriority returns up to limit cards by priority regardless of
// due-ness, for a forced review pass.
func (r *DBRepository) FindTopPriority(ctx context.Context, limit int, now time.Time) ([]Flashcard, error) {
	if err := r.refreshPriorityScores(ctx, now); err != nil {
		return nil, err
	}

	var cards []Flashcard
	if err := r.db.SelectContext(ctx, &cards,
		"SELECT * FROM flashcards ORDER BY priority_score DESC, created_at DESC LIMIT ?",
		limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(top priority flashcards) > %w", err)
	}
	return cards, nil
}

// FindAll returns every card ordered by id.
func (r *DBRepository) FindAll(ctx context.Context) ([]Flashcard, error) {
	var cards []Flashcard
	if err := r.db.SelectContext(ctx, &cards, "SELECT * FROM flashcards ORDER BY id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(flashcards) > %w", err)
	}
	return cards, nil
}

// refreshPriorityScores recomputes and persists the priority score of
// every card in one transaction, anchored at now.
func (r *DBRepository) refreshPriorityScores(ctx context.Context, now time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTxx() > %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var cards []Flashcard
	if err := tx.SelectContext(ctx, &cards, "SELECT * FROM flashcards"); err != nil {
		return fmt.Errorf("tx.SelectContext(flashcards) > %w", err)
	}
	for _, card := range cards {
		score := r.scoreFn(card, now)
		if _, err := tx.ExecContext(ctx,
			"UPDATE flashcards SET priority_score = ? WHERE id = ?", score, card.ID); err != nil {
			return fmt.Errorf("tx.ExecContext(update priority_score) > %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit() > %w", err)
	}
	return nil
}

// ApplyReview persists a card's full post-review state atomically.
// Returns ErrNotFound if the card no longer exists.
func (r *DBRepository) ApplyReview(ctx context.Context, card Flashcard) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE flashcards
		SET stage = ?, last_correct = ?, last_reviewed_at = ?, next_due_at = ?,
			review_count = ?, correct_count = ?, wrong_count = ?,
			priority_score = ?, interval_hours = ?
		WHERE id = ?`,
		card.Stage, card.LastCorrect, card.LastReviewedAt, card.NextDueAt,
		card.ReviewCount, card.CorrectCount, card.WrongCount,
		card.PriorityScore, card.IntervalHours, card.ID)
	if err != nil {
		return fmt.Errorf("db.ExecContext(update flashcard) > %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("flashcard %d: %w", card.ID, ErrNotFound)
	}
	return nil
}

// ContextualTerms returns up to count terms drawn from cards created
// around the same time as the excluded card, topped up with random
// terms and finally the built-in fallback vocabulary.
func (r *DBRepository) ContextualTerms(ctx context.Context, excludeID int64, count int) ([]string, error) {
	candidates, err := r.contextualColumn(ctx, "term", excludeID, count)
	if err != nil {
		return nil, err
	}
	return padAndShuffle(candidates, fallbackTerms, count), nil
}

// ContextualDefinitions is the definition-side counterpart of
// ContextualTerms.
func (r *DBRepository) ContextualDefinitions(ctx context.Context, excludeID int64, count int) ([]string, error) {
	candidates, err := r.contextualColumn(ctx, "definition", excludeID, count)
	if err != nil {
		return nil, err
	}
	return padAndShuffle(candidates, fallbackDefinitions, count), nil
}

// contextualColumn selects values of one content column from cards in
// the id window around excludeID, topping up with a random sample when
// the window is too sparse. Ids are assigned in creation order, so the
// window approximates "studied around the same time".
func (r *DBRepository) contextualColumn(ctx context.Context, column string, excludeID int64, count int) ([]string, error) {
	lower := excludeID - contextualIDWindow
	if lower < 1 {
		lower = 1
	}
	upper := excludeID + contextualIDWindow

	var values []string
	if err := r.db.SelectContext(ctx, &values,
		fmt.Sprintf(`SELECT %s FROM flashcards
		WHERE id != ? AND id >= ? AND id <= ?
		ORDER BY id`, column),
		excludeID, lower, upper); err != nil {
		return nil, fmt.Errorf("db.SelectContext(contextual %s window) > %w", column, err)
	}
	if len(values) >= count {
		return values, nil
	}

	query := fmt.Sprintf("SELECT %s FROM flashcards WHERE id != ? ORDER BY RANDOM() LIMIT ?", column)
	args := []interface{}{excludeID, count - len(values)}
	if len(values) > 0 {
		inQuery, inArgs, err := sqlx.In(
			fmt.Sprintf("SELECT %s FROM flashcards WHERE id != ? AND %s NOT IN (?) ORDER BY RANDOM() LIMIT ?", column, column),
			excludeID, values, count-len(values))
		if err != nil {
			return nil, fmt.Errorf("sqlx.In(contextual %s top-up) > %w", column, err)
		}
		query, args = r.db.Rebind(inQuery), inArgs
	}

	var extra []string
	if err := r.db.SelectContext(ctx, &extra, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(contextual %s top-up) > %w", column, err)
	}
	return append(values, extra...), nil
}

// CountDue returns how many cards are due at the given time.
func (r *DBRepository) CountDue(ctx context.Context, now time.Time) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM flashcards WHERE next_due_at IS NOT NULL AND next_due_at <= ?",
		now); err != nil {
		return 0, fmt.Errorf("db.GetContext(due count) > %w", err)
	}
	return count, nil
}

// EarliestUpcoming returns the soonest review time still in the future,
// or nil when nothing is scheduled.
func (r *DBRepository) EarliestUpcoming(ctx context.Context, now time.Time) (*time.Time, error) {
	var next time.Time
	err := r.db.GetContext(ctx, &next,
		"SELECT next_due_at FROM flashcards WHERE next_due_at > ? ORDER BY next_due_at ASC LIMIT 1", now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(earliest upcoming) > %w", err)
	}
	return &next, nil
}

// Stats returns aggregate counters across the whole store.
func (r *DBRepository) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := r.db.GetContext(ctx, &stats,
		`SELECT COUNT(*) AS total_cards,
			COALESCE(SUM(review_count), 0) AS total_reviews,
			COALESCE(SUM(correct_count), 0) AS total_correct,
			COALESCE(SUM(wrong_count), 0) AS total_wrong
		FROM flashcards`); err != nil {
		return nil, fmt.Errorf("db.GetContext(flashcard stats) > %w", err)
	}

	rows, err := r.db.QueryxContext(ctx,
		"SELECT stage, COUNT(*) FROM flashcards GROUP BY stage ORDER BY stage")
	if err != nil {
		return nil, fmt.Errorf("db.QueryxContext(stage counts) > %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	stats.CardsByStage = make(map[int]int)
	for rows.Next() {
		var stage, count int
		if err := rows.Scan(&stage, &count); err != nil {
			return nil, fmt.Errorf("rows.Scan(stage count) > %w", err)
		}
		stats.CardsByStage[stage] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err() > %w", err)
	}
	return &stats, nil
}
