package player

import "time"

// TickSource abstracts the fixed-interval timer that drives scheduler
// evaluation, so tests can substitute a deterministic source instead of real
// timers.
type TickSource interface {
	Ticks() <-chan time.Time
	Stop()
}

// IntervalTicker is the production tick source backed by time.Ticker.
type IntervalTicker struct {
	ticker *time.Ticker
}

// NewIntervalTicker creates a tick source firing at the given interval.
// Sub-second intervals are expected; anything coarser risks missing a
// checkpoint's fire window during normal playback.
func NewIntervalTicker(interval time.Duration) *IntervalTicker {
	return &IntervalTicker{ticker: time.NewTicker(interval)}
}

// Ticks returns the tick channel.
func (t *IntervalTicker) Ticks() <-chan time.Time {
	return t.ticker.C
}

// Stop releases the underlying timer.
func (t *IntervalTicker) Stop() {
	t.ticker.Stop()
}
