package session

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Cleaner periodically drops expired and idle sessions.
type Cleaner struct {
	cron *cron.Cron
}

// StartCleaner schedules m.Cleanup with a cron spec such as "@every 1m".
func StartCleaner(m *Manager, spec string, log *zap.Logger) (*Cleaner, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if n := m.Cleanup(); n > 0 {
			log.Info("expired sessions removed", zap.Int("count", n), zap.Int("live", m.Len()))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule session cleanup %q: %w", spec, err)
	}
	c.Start()
	return &Cleaner{cron: c}, nil
}

// Stop stops the schedule and waits for a running cleanup to finish.
func (c *Cleaner) Stop() {
	<-c.cron.Stop().Done()
}
