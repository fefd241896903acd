// FILE: internal/service/eviction_service.go
package service

import (
	"context"
	"time"

	"docqa-chat-be/internal/pkg/logger"
	"docqa-chat-be/internal/repository/memory"
	"docqa-chat-be/pkg/events"
)

type IEvictionService interface {
	Run(ctx context.Context)
}

// evictionService sweeps idle sessions on a fixed interval. Sessions only
// ever leave the store through here or a process restart.
type evictionService struct {
	sessions         memory.ISessionStore
	publisherService IPublisherService
	logger           logger.ILogger
	maxAge           time.Duration
	sweepInterval    time.Duration
}

func NewEvictionService(
	sessions memory.ISessionStore,
	publisherService IPublisherService,
	log logger.ILogger,
	maxAge time.Duration,
	sweepInterval time.Duration,
) IEvictionService {
	return &evictionService{
		sessions:         sessions,
		publisherService: publisherService,
		logger:           log,
		maxAge:           maxAge,
		sweepInterval:    sweepInterval,
	}
}

// Run blocks until ctx is done. A non-positive interval disables sweeping
// entirely.
func (c *evictionService) Run(ctx context.Context) {
	if c.sweepInterval <= 0 {
		c.logger.Info("EvictionService", "Sweeping disabled", nil)
		return
	}

	c.logger.Info("EvictionService", "Sweeping started", map[string]interface{}{
		"interval": c.sweepInterval.String(),
		"max_age":  c.maxAge.String(),
	})

	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("EvictionService", "Sweeping stopped", nil)
			return
		case <-ticker.C:
			c.sweepOnce(ctx)
		}
	}
}

func (c *evictionService) sweepOnce(ctx context.Context) int {
	evicted := c.sessions.EvictOlderThan(c.maxAge)
	if evicted > 0 {
		c.logger.Info("EvictionService", "Evicted idle sessions", map[string]interface{}{"count": evicted})
		publishActivity(ctx, c.publisherService, "", events.NewSessionsEvictedEvent(evicted, int(c.maxAge.Seconds())))
	}
	return evicted
}
