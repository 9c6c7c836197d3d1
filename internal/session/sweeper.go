package session

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// DefaultSweepSchedule runs the sweeper every ten minutes.
const DefaultSweepSchedule = "*/10 * * * *"

// Sweeper is anything with a Sweep method, such as *Memory.
type Sweeper interface {
	Sweep() int
}

// StartSweeper schedules s.Sweep on the standard five-field cron spec and
// starts the scheduler. Stop the returned cron on shutdown.
func StartSweeper(spec string, s Sweeper) (*cron.Cron, error) {
	if spec == "" {
		spec = DefaultSweepSchedule
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if n := s.Sweep(); n > 0 {
			slog.Debug("session sweep", "expired", n)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	c.Start()

	slog.Info("session sweeper started", "schedule", spec)
	return c, nil
}
