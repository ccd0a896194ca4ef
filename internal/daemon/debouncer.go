package daemon

import (
	"sync"
	"time"

	ferrors "git.home.luguber.info/inful/blogindex/internal/foundation/errors"
)

// DebouncerConfig controls how bursts of change notifications are coalesced.
type DebouncerConfig struct {
	// QuietWindow is how long notifications must pause before firing.
	QuietWindow time.Duration
	// MaxDelay bounds how long a steady stream of notifications can
	// postpone firing.
	MaxDelay time.Duration
}

// Debouncer coalesces bursts of Trigger calls into a single call of fire:
//   - quiet window debounce
//   - max delay (cannot postpone indefinitely)
//
// It is safe for concurrent use.
type Debouncer struct {
	cfg  DebouncerConfig
	fire func()

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	first   time.Time
	stopped bool
}

// NewDebouncer returns a Debouncer calling fire once per burst.
func NewDebouncer(cfg DebouncerConfig, fire func()) (*Debouncer, error) {
	if fire == nil {
		return nil, ferrors.ValidationError("fire callback is required").Build()
	}
	if cfg.QuietWindow <= 0 {
		return nil, ferrors.ValidationError("quiet window must be > 0").Build()
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 10 * cfg.QuietWindow
	}
	if cfg.MaxDelay < cfg.QuietWindow {
		return nil, ferrors.ValidationError("max delay must not be shorter than the quiet window").Build()
	}
	return &Debouncer{cfg: cfg, fire: fire}, nil
}

// Trigger records a notification and (re)arms the timer.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	now := time.Now()
	if d.timer == nil {
		d.first = now
	} else {
		d.timer.Stop()
	}

	wait := d.cfg.QuietWindow
	if remaining := d.cfg.MaxDelay - now.Sub(d.first); remaining < wait {
		wait = max(remaining, 0)
	}

	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(wait, func() { d.flush(gen) })
}

func (d *Debouncer) flush(gen uint64) {
	d.mu.Lock()
	// A Trigger that raced with this timer re-armed a newer one.
	if gen != d.gen || d.stopped {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fire()
}

// Stop cancels any pending fire. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
