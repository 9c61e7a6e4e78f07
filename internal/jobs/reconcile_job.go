package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ReconcileJobName is the name of the itinerary totals reconcile job
const ReconcileJobName = "itinerary_totals_reconcile"

// TotalsReconciler sweeps stored itinerary totals against their item sums
// and repairs any drift. Defined here so the job does not import the
// service package directly.
type TotalsReconciler interface {
	ReconcileTotals(ctx context.Context) (checked int, drifted int, err error)
}

// ReconcileJob periodically verifies that every itinerary's stored total
// equals the sum of its line items. Drift should never happen with the
// transactional aggregate write; this job exists to surface it loudly if
// it ever does.
type ReconcileJob struct {
	reconciler TotalsReconciler
	logger     *zap.Logger
	timeout    time.Duration
}

// NewReconcileJob creates a new totals reconcile job.
// The timeout bounds one full sweep.
func NewReconcileJob(reconciler TotalsReconciler, logger *zap.Logger, timeout time.Duration) *ReconcileJob {
	if timeout == 0 {
		timeout = 10 * time.Minute
	}
	return &ReconcileJob{
		reconciler: reconciler,
		logger:     logger,
		timeout:    timeout,
	}
}

// Run executes one reconcile sweep
func (j *ReconcileJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	checked, drifted, err := j.reconciler.ReconcileTotals(ctx)
	if err != nil {
		j.logger.Error("totals reconcile sweep failed",
			zap.Int("checked", checked),
			zap.Error(err),
		)
		return
	}

	if drifted > 0 {
		j.logger.Warn("totals reconcile repaired drifted itineraries",
			zap.Int("checked", checked),
			zap.Int("drifted", drifted),
			zap.Duration("duration", time.Since(start)),
		)
		return
	}

	j.logger.Info("totals reconcile sweep clean",
		zap.Int("checked", checked),
		zap.Duration("duration", time.Since(start)),
	)
}
