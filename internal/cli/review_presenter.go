// Package cli implements the interactive terminal front end for review
// sessions.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/LeDat98/Drip/internal/flashcard"
	"github.com/LeDat98/Drip/internal/review"
	"github.com/LeDat98/Drip/internal/statistics"
)

// errQuit is returned by prompts when the user abandons the session.
var errQuit = errors.New("quit")

// errPromptTimeout is returned by prompts when no input arrives before
// the stage timeout.
var errPromptTimeout = errors.New("prompt timeout")

// promptLine is an input line tagged with the prompt it was read for.
type promptLine struct {
	text string
	gen  uint64
}

// ReviewPresenter runs review batches on a terminal. It reads answers
// line by line and grades each card according to its stage.
type ReviewPresenter struct {
	requests        chan uint64
	lines           chan promptLine
	gen             uint64
	pending         bool
	stdoutWriter    io.Writer
	bold            *color.Color
	italic          *color.Color
	distractorCount int
	sound           bool
}

// NewReviewPresenter creates a presenter reading answers from in and
// writing prompts to out. A single goroutine reads one line per prompt
// and tags it with the prompt that asked for it, so an answer typed
// after a prompt's timeout is discarded instead of being graded
// against the next card.
func NewReviewPresenter(in io.Reader, out io.Writer, distractorCount int, sound bool) *ReviewPresenter {
	p := &ReviewPresenter{
		requests:        make(chan uint64, 1),
		lines:           make(chan promptLine),
		stdoutWriter:    out,
		bold:            color.New(color.Bold),
		italic:          color.New(color.Italic),
		distractorCount: distractorCount,
		sound:           sound,
	}
	go p.readLines(in)
	return p
}

func (p *ReviewPresenter) readLines(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for gen := range p.requests {
		if !scanner.Scan() {
			close(p.lines)
			return
		}
		p.lines <- promptLine{text: scanner.Text(), gen: gen}
	}
}

// PresentBatch shows every card in order and collects an outcome per
// card. Quitting cancels the current card and leaves the rest of the
// batch without outcomes.
func (p *ReviewPresenter) PresentBatch(
	ctx context.Context,
	cards []flashcard.Flashcard,
	timeouts review.StageTimeouts,
	termPool []string,
	definitionPool []string,
) (map[int64]flashcard.Outcome, error) {
	if p.sound {
		fmt.Fprint(p.stdoutWriter, "\a")
	}
	fmt.Fprintf(p.stdoutWriter, "Review session: %d cards. Type q to quit.\n", len(cards))

	outcomes := make(map[int64]flashcard.Outcome, len(cards))
	for i, card := range cards {
		fmt.Fprintf(p.stdoutWriter, "\nCard %d/%d (stage %d)\n", i+1, len(cards), card.Stage)

		outcome, err := p.presentCard(ctx, card, timeouts.For(card.Stage), termPool, definitionPool)
		if err != nil {
			if errors.Is(err, errQuit) {
				outcomes[card.ID] = flashcard.OutcomeCancelled
				fmt.Fprintln(p.stdoutWriter, "Session abandoned.")
				break
			}
			return nil, err
		}
		outcomes[card.ID] = outcome
	}

	if len(outcomes) > 0 {
		summary := statistics.Summarize(outcomes)
		fmt.Fprintf(p.stdoutWriter, "\nSession summary: %d reviewed, %d correct, %d wrong, accuracy %.1f%%\n",
			summary.TotalReviews, summary.CorrectAnswers, summary.WrongAnswers, summary.AccuracyPercent)
	}
	return outcomes, nil
}

// ConfirmSession asks whether the user wants to review now. Timing out
// or answering anything but yes declines.
func (p *ReviewPresenter) ConfirmSession(ctx context.Context, dueCount int, timeout time.Duration) (bool, error) {
	if p.sound {
		fmt.Fprint(p.stdoutWriter, "\a")
	}
	_, _ = p.bold.Fprintf(p.stdoutWriter, "%d cards are due. Review now? [Y/n]: ", dueCount)

	answer, err := p.readLine(ctx, timeout)
	if err != nil {
		if errors.Is(err, errPromptTimeout) || errors.Is(err, errQuit) {
			fmt.Fprintln(p.stdoutWriter)
			return false, nil
		}
		return false, err
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "" || answer == "y" || answer == "yes", nil
}

func (p *ReviewPresenter) presentCard(
	ctx context.Context,
	card flashcard.Flashcard,
	timeout time.Duration,
	termPool []string,
	definitionPool []string,
) (flashcard.Outcome, error) {
	switch card.Stage {
	case 1:
		return p.presentInfo(ctx, card, timeout)
	case 2:
		return p.presentChoice(ctx, card.Term, card.Definition, definitionPool, timeout)
	case 3:
		return p.presentChoice(ctx, card.Definition, card.Term, termPool, timeout)
	default:
		return p.presentRecall(ctx, card, timeout)
	}
}

// presentInfo shows a new card in full. Acknowledging it counts as a
// correct answer.
func (p *ReviewPresenter) presentInfo(ctx context.Context, card flashcard.Flashcard, timeout time.Duration) (flashcard.Outcome, error) {
	_, _ = p.bold.Fprintf(p.stdoutWriter, "%s\n", card.Term)
	_, _ = p.italic.Fprintf(p.stdoutWriter, "%s\n", card.Definition)
	if card.Example != "" {
		fmt.Fprintf(p.stdoutWriter, "Example: %s\n", card.Example)
	}
	fmt.Fprint(p.stdoutWriter, "Press Enter when done: ")

	if _, err := p.readLine(ctx, timeout); err != nil {
		if errors.Is(err, errPromptTimeout) {
			fmt.Fprintln(p.stdoutWriter, "\nTime is up.")
			return flashcard.OutcomeTimeout, nil
		}
		return 0, err
	}
	return flashcard.OutcomeCorrect, nil
}

// presentChoice shows a multiple-choice question: the prompt text plus
// numbered options, one of which is the expected answer.
func (p *ReviewPresenter) presentChoice(
	ctx context.Context,
	prompt string,
	expected string,
	pool []string,
	timeout time.Duration,
) (flashcard.Outcome, error) {
	options := buildOptions(expected, pool, p.distractorCount)

	_, _ = p.bold.Fprintf(p.stdoutWriter, "%s\n", prompt)
	for i, option := range options {
		fmt.Fprintf(p.stdoutWriter, "  %d) %s\n", i+1, option)
	}
	fmt.Fprintf(p.stdoutWriter, "Your choice [1-%d]: ", len(options))

	answer, err := p.readLine(ctx, timeout)
	if err != nil {
		if errors.Is(err, errPromptTimeout) {
			fmt.Fprintln(p.stdoutWriter, "\nTime is up.")
			return flashcard.OutcomeTimeout, nil
		}
		return 0, err
	}

	choice, convErr := strconv.Atoi(strings.TrimSpace(answer))
	correct := convErr == nil && choice >= 1 && choice <= len(options) && options[choice-1] == expected
	p.showFeedback(correct, expected)
	if correct {
		return flashcard.OutcomeCorrect, nil
	}
	return flashcard.OutcomeIncorrect, nil
}

// presentRecall asks for the term from its definition. The comparison
// ignores case and surrounding whitespace.
func (p *ReviewPresenter) presentRecall(ctx context.Context, card flashcard.Flashcard, timeout time.Duration) (flashcard.Outcome, error) {
	_, _ = p.bold.Fprintf(p.stdoutWriter, "%s\n", card.Definition)
	fmt.Fprint(p.stdoutWriter, "Enter the term: ")

	answer, err := p.readLine(ctx, timeout)
	if err != nil {
		if errors.Is(err, errPromptTimeout) {
			fmt.Fprintln(p.stdoutWriter, "\nTime is up.")
			return flashcard.OutcomeTimeout, nil
		}
		return 0, err
	}

	correct := strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(card.Term))
	p.showFeedback(correct, card.Term)
	if correct {
		return flashcard.OutcomeCorrect, nil
	}
	return flashcard.OutcomeIncorrect, nil
}

func (p *ReviewPresenter) showFeedback(correct bool, expected string) {
	if correct {
		fmt.Fprintf(p.stdoutWriter, "✅ %s\n", color.GreenString("Correct."))
		return
	}
	fmt.Fprintf(p.stdoutWriter, "❌ %s The answer is %s.\n",
		color.RedString("Wrong."),
		p.bold.Sprintf("%s", expected),
	)
}

// readLine waits for an input line for the current prompt, the stage
// timeout, or context cancellation, whichever comes first. A line that
// answers an earlier, timed-out prompt is discarded. Quit commands
// surface as errQuit.
func (p *ReviewPresenter) readLine(ctx context.Context, timeout time.Duration) (string, error) {
	p.gen++
	if !p.pending {
		p.requests <- p.gen
		p.pending = true
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case line, ok := <-p.lines:
			if !ok {
				return "", errQuit
			}
			p.pending = false
			if line.gen != p.gen {
				p.requests <- p.gen
				p.pending = true
				continue
			}
			if isQuitCommand(line.text) {
				return "", errQuit
			}
			return line.text, nil
		case <-timer.C:
			return "", errPromptTimeout
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func isQuitCommand(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "q", "quit", "esc":
		return true
	}
	return false
}

// buildOptions combines the expected answer with distractors drawn from
// the pool and shuffles them. The pool never contributes the expected
// answer or a duplicate.
func buildOptions(expected string, pool []string, distractors int) []string {
	options := make([]string, 0, distractors+1)
	options = append(options, expected)

	seen := map[string]struct{}{expected: {}}
	for _, value := range pool {
		if len(options) > distractors {
			break
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		options = append(options, value)
	}

	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}
