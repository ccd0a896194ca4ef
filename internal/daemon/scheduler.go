package daemon

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/blogindex/internal/foundation/errors"
)

// ticker fires a trigger on a fixed interval. A tick that arrives while the
// previous one is still running is rescheduled rather than stacked.
type ticker struct {
	scheduler gocron.Scheduler
	jobID     string
}

func newTicker(name string, interval time.Duration, logger *slog.Logger, fire func()) (*ticker, error) {
	if interval <= 0 {
		return nil, ferrors.ValidationError("interval must be > 0").
			WithContext("interval", interval.String()).
			Build()
	}

	s, err := gocron.NewScheduler(gocron.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	job, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fire),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create periodic job: %w", err)
	}
	return &ticker{scheduler: s, jobID: job.ID().String()}, nil
}

func (t *ticker) start() { t.scheduler.Start() }

func (t *ticker) stop() error { return t.scheduler.Shutdown() }
