package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/classhub/examly-backend/internal/repository"
	"github.com/classhub/examly-backend/internal/service"
)

const (
	ExpirySweepInterval = 30 * time.Second
	ExpirySweepLimit    = 200
)

// ExpiryWorker periodically sweeps in-progress attempts whose deadline has
// passed and finalizes them as expired. The on-access check in the service is
// authoritative; the sweeper only closes sessions no client touches anymore,
// so listings and results converge without waiting for a request.
type ExpiryWorker struct {
	attemptRepo    *repository.AttemptRepository
	attemptService *service.AttemptService
	log            zerolog.Logger
}

// NewExpiryWorker creates a new ExpiryWorker.
func NewExpiryWorker(attemptRepo *repository.AttemptRepository, attemptService *service.AttemptService, log zerolog.Logger) *ExpiryWorker {
	return &ExpiryWorker{
		attemptRepo:    attemptRepo,
		attemptService: attemptService,
		log:            log.With().Str("component", "expiry_worker").Logger(),
	}
}

// Start begins the sweep loop. Call in a goroutine.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	ticker := time.NewTicker(ExpirySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	overdue, err := w.attemptRepo.ListOverdue(ctx, time.Now(), ExpirySweepLimit)
	if err != nil {
		w.log.Error().Err(err).Msg("List overdue error")
		return
	}
	if len(overdue) == 0 {
		return
	}

	expired := 0
	for i := range overdue {
		if _, err := w.attemptService.ExpireOverdue(ctx, &overdue[i]); err != nil {
			w.log.Error().Err(err).
				Str("attempt_id", overdue[i].ID.String()).
				Msg("Expire error")
			continue
		}
		expired++
	}

	w.log.Info().
		Int("expired", expired).
		Int("found", len(overdue)).
		Msg("Expiry sweep complete")
}
