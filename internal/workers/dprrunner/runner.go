package dprrunner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"dossier/internal/domain"
	"dossier/internal/ports"
)

// JobProcessor drives one claimed job through the pipeline. It converts
// every failure into a terminal persisted state and never returns an error.
type JobProcessor interface {
	Process(ctx context.Context, rec *domain.JobRecord)
}

// Run starts worker goroutines that claim uploaded jobs and process them.
// Claiming is atomic in the repository, so multiple runner instances are
// safe; jobs have no ordering guarantee between each other.
func Run(ctx context.Context, repo ports.JobRepository, processor JobProcessor, concurrency int, pollInterval time.Duration, log *zap.Logger) {
	if concurrency < 1 {
		return
	}
	jobsCh := make(chan domain.JobRecord, concurrency)

	// dispatcher loop
	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				close(jobsCh)
				return
			case <-ticker.C:
				for {
					rec, found, err := repo.ClaimNext(ctx)
					if err != nil {
						log.Error("job claim failed", zap.Error(err))
						break
					}
					if !found {
						break
					}
					jobsCh <- *rec
				}
			}
		}
	}()

	// workers
	for i := 0; i < concurrency; i++ {
		go func(idx int) {
			for rec := range jobsCh {
				log.Info("worker picked up job",
					zap.Int("worker", idx), zap.String("job_token", rec.JobToken))
				processor.Process(ctx, &rec)
			}
		}(i)
	}
}
