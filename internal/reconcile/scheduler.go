package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/josh-kwaku/ledger-reconciler/internal/logging"
)

type runner interface {
	Run(ctx context.Context) (*Report, error)
}

// Scheduler runs reconciliations on a fixed interval and logs what it
// finds. It reports discrepancies; it never corrects them.
type Scheduler struct {
	engine   runner
	logger   *slog.Logger
	interval time.Duration
	timeout  time.Duration
}

func NewScheduler(engine runner, logger *slog.Logger, interval, timeout time.Duration) *Scheduler {
	return &Scheduler{
		engine:   engine,
		logger:   logger,
		interval: interval,
		timeout:  timeout,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("reconciliation scheduler started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reconciliation scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	ctx = logging.WithLogger(ctx, s.logger)

	report, err := s.engine.Run(ctx)
	if err != nil {
		s.logger.Error("scheduled reconciliation failed", "error", err)
		return
	}

	for _, e := range report.Discrepant() {
		s.logger.Warn("balance discrepancy",
			"run_id", report.RunID,
			"user_id", e.UserID,
			"user_key", e.Key,
			"discrepancy", e.Discrepancy.String(),
			"derived", e.Derived.String(),
			"stored", e.Stored.String(),
		)
	}
}
