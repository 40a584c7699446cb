package jobs

import (
	"context"
	"fmt"

	"github.com/ratiohq/ratio/internal/rankings"
	"github.com/ratiohq/ratio/pkg/logger"
)

// RefreshJob recomputes the ranking snapshot for one universe on a fixed
// cadence. Each universe gets its own job so a slow or failing universe
// never delays the others.
type RefreshJob struct {
	service    *rankings.Service
	universeID string
	schedule   string
	logger     *logger.Logger
}

// NewRefreshJob creates a refresh job for a universe. intervalHours sets
// the cadence.
func NewRefreshJob(svc *rankings.Service, universeID string, intervalHours int, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		service:    svc,
		universeID: universeID,
		schedule:   fmt.Sprintf("@every %dh", intervalHours),
		logger:     log,
	}
}

// Name returns the job name, unique per universe.
func (j *RefreshJob) Name() string {
	return "rankings_refresh_" + j.universeID
}

// Schedule returns the cron schedule expression.
func (j *RefreshJob) Schedule() string {
	return j.schedule
}

// Run refreshes the universe's ranking snapshot.
func (j *RefreshJob) Run(ctx context.Context) error {
	j.logger.WithField("universe", j.universeID).Info("Starting scheduled rankings refresh")

	snap, err := j.service.Refresh(ctx, j.universeID)
	if err != nil {
		return fmt.Errorf("refresh %s: %w", j.universeID, err)
	}

	j.logger.WithFields(map[string]interface{}{
		"universe": j.universeID,
		"assets":   snap.AssetCount,
	}).Info("Scheduled rankings refresh completed")
	return nil
}
