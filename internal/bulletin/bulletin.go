// Package bulletin runs a scheduled risk assessment for the current day.
package bulletin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/couchcryptid/tpa-methane-risk/internal/domain"
	"github.com/couchcryptid/tpa-methane-risk/internal/observability"
)

// Assessor evaluates one risk query.
type Assessor interface {
	Assess(ctx context.Context, q domain.Query) (domain.Assessment, error)
}

// Saver records completed assessments.
type Saver interface {
	Save(ctx context.Context, a domain.Assessment) error
}

// Bulletin assesses today on a cron schedule and logs the verdict.
type Bulletin struct {
	cron     *cron.Cron
	assessor Assessor
	store    Saver
	metrics  *observability.Metrics
	logger   *slog.Logger
	timeout  time.Duration
}

// New creates a Bulletin. A nil store skips persistence.
func New(assessor Assessor, store Saver, metrics *observability.Metrics, logger *slog.Logger) *Bulletin {
	return &Bulletin{
		cron:     cron.New(),
		assessor: assessor,
		store:    store,
		metrics:  metrics,
		logger:   logger,
		timeout:  30 * time.Second,
	}
}

// Schedule registers the daily run with a standard five-field cron spec.
func (b *Bulletin) Schedule(spec string) error {
	_, err := b.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()
		if _, err := b.RunOnce(ctx); err != nil {
			b.logger.Error("daily assessment failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule daily assessment %q: %w", spec, err)
	}
	b.logger.Info("daily assessment scheduled", "schedule", spec)
	return nil
}

// Start runs the scheduler in its own goroutine.
func (b *Bulletin) Start() {
	b.cron.Start()
}

// Stop halts the scheduler and waits for a running job until ctx ends.
func (b *Bulletin) Stop(ctx context.Context) error {
	done := b.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce assesses today with predicted climate values.
func (b *Bulletin) RunOnce(ctx context.Context) (domain.Assessment, error) {
	start := time.Now()
	a, err := b.assessor.Assess(ctx, domain.Query{})
	if err != nil {
		if b.metrics != nil {
			b.metrics.RecordAssessmentError(err)
		}
		return domain.Assessment{}, err
	}
	if b.metrics != nil {
		b.metrics.RecordAssessment(a, time.Since(start))
	}

	if b.store != nil {
		if err := b.store.Save(ctx, a); err != nil {
			return a, fmt.Errorf("store daily assessment: %w", err)
		}
	}

	b.logger.Info("daily assessment",
		"id", a.ID,
		"date", a.Date.Format(domain.QueryDateLayout),
		"risk", a.Verdict.Risk,
		"methane", a.Verdict.MethaneLevel,
		"warnings", len(a.Warnings),
		"message", a.Verdict.Message,
	)
	return a, nil
}
