package schedule

import (
	"time"

	"github.com/javiermolinar/pacer/internal/debounce"
	"github.com/javiermolinar/pacer/internal/task"
)

// DefaultDebounceDelay is the quiet period before a debounced recalculation.
const DefaultDebounceDelay = 300 * time.Millisecond

type calcRequest struct {
	tasks    []task.Task
	cfg      Config
	callback func(Result)
}

// DebouncedCalculator rate-limits Calculate for rapid-fire edits such as
// nudging the start time. Only the last inputs of a burst are calculated.
type DebouncedCalculator struct {
	now func() time.Time
	d   *debounce.Debouncer[calcRequest]
}

// NewDebouncedCalculator returns a calculator that waits delay after the last
// request. now is sampled once per calculation; nil means time.Now.
func NewDebouncedCalculator(delay time.Duration, now func() time.Time) *DebouncedCalculator {
	if now == nil {
		now = time.Now
	}
	c := &DebouncedCalculator{now: now}
	c.d = debounce.New(delay, func(req calcRequest) {
		req.callback(Calculate(req.tasks, req.cfg, c.now()))
	})
	return c
}

// Calculate schedules a calculation of tasks with cfg and delivers it to
// callback once requests stop arriving. Calling the returned cancel before
// the delay elapses guarantees callback is not invoked for this request.
// The cancel only ever affects this request, so calling it after the result
// was delivered, or after a newer request replaced it, is harmless.
func (c *DebouncedCalculator) Calculate(tasks []task.Task, cfg Config, callback func(Result)) (cancel func()) {
	snapshot := append([]task.Task(nil), tasks...)
	return c.d.Call(calcRequest{tasks: snapshot, cfg: cfg, callback: callback})
}

// Cancel drops any pending calculation.
func (c *DebouncedCalculator) Cancel() {
	c.d.Cancel()
}
