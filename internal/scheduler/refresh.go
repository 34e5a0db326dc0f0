// internal/scheduler/refresh.go
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ruafit/ruafit/internal/notify"
	"github.com/ruafit/ruafit/internal/offline"
)

const refreshJobTimeout = 2 * time.Minute

// RegisterRefreshJob registers the periodic offline-cache refresh.
// Each run re-fetches the core assets into the current cache generation
// and tells connected pages to reload. A zero interval disables the job.
func RegisterRefreshJob(svc *offline.Service, hub *notify.Hub, interval time.Duration) error {
	if svc == nil {
		return fmt.Errorf("refresh job requires an offline service")
	}
	if interval == 0 {
		log.Info().Msg("Offline refresh job disabled")
		return nil
	}

	jobLogger := log.With().
		Str("component", "offline_refresh_job").
		Dur("interval", interval).
		Logger()

	_, err := AddIntervalJob("offline_refresh", interval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshJobTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		svc.Refresh(ctx)
		if hub != nil {
			hub.NotifyReload(offline.StaticCacheName)
		}
	})
	if err != nil {
		return fmt.Errorf("add offline refresh job: %w", err)
	}

	jobLogger.Info().Msg("Offline refresh job registered")
	return nil
}
