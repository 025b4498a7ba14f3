package review

import "time"

// SetNowFunc overrides the orchestrator clock in tests.
func (o *Orchestrator) SetNowFunc(fn func() time.Time) {
	o.nowFn = fn
}
