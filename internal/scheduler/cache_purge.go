package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/aristath/climrisk/internal/modules/calculations"
)

// CachePurgeJob removes expired entries from the calculation cache.
// It should be scheduled to run daily.
type CachePurgeJob struct {
	cache *calculations.Cache
	log   zerolog.Logger
}

// NewCachePurgeJob creates a new cache purge job.
func NewCachePurgeJob(cache *calculations.Cache, log zerolog.Logger) *CachePurgeJob {
	return &CachePurgeJob{
		cache: cache,
		log:   log.With().Str("job", "cache_purge").Logger(),
	}
}

// Run deletes all expired cache rows.
func (j *CachePurgeJob) Run() error {
	deleted, err := j.cache.Purge()
	if err != nil {
		j.log.Error().Err(err).Msg("Failed to purge expired cache entries")
		return err
	}

	if deleted > 0 {
		j.log.Info().
			Int64("deleted", deleted).
			Msg("Cache purge completed")
	}

	return nil
}

// Name returns the job name for scheduling and logging.
func (j *CachePurgeJob) Name() string {
	return "cache_purge"
}
