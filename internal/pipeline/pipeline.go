package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/tpa-methane-risk/internal/domain"
	"github.com/couchcryptid/tpa-methane-risk/internal/observability"
)

// BatchExtractor reads up to batchSize query messages from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer assesses one query message and serializes the result.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error)
}

// BatchLoader writes serialized assessments to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

// Pipeline answers risk queries from the source topic and publishes the
// assessments. Offsets are committed only once an assessment is published or
// the query is rejected for good.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	running     atomic.Bool
	healthy     atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil while the loop is running and the last broker
// round trip succeeded. An idle topic is still ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.running.Load() {
		return errors.New("query pipeline is not running")
	}
	if !p.healthy.Load() {
		return errors.New("query pipeline is retrying after a broker error")
	}
	return nil
}

// Run answers queries until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("query pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	p.running.Store(true)
	p.healthy.Store(true)
	defer func() {
		p.running.Store(false)
		p.metrics.PipelineRunning.Set(0)
	}()

	retry := newRetryDelay(200*time.Millisecond, 5*time.Second)
	for ctx.Err() == nil {
		err := p.answerBatch(ctx)
		if err == nil {
			p.healthy.Store(true)
			retry.reset()
			continue
		}
		if ctx.Err() != nil {
			break
		}
		p.healthy.Store(false)
		p.logger.Error("broker round trip failed", "error", err, "retry_in", retry.current)
		if !retry.wait(ctx) {
			break
		}
	}
	p.logger.Info("query pipeline stopping", "reason", ctx.Err())
	return nil
}

// answerBatch reads one batch of queries, assesses them, and publishes the
// results. A non-nil error is a broker failure worth retrying; rejected
// queries are not errors.
func (p *Pipeline) answerBatch(ctx context.Context) error {
	start := time.Now()

	queries, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		return nil
	}
	p.metrics.MessagesConsumed.Add(float64(len(queries)))
	p.metrics.BatchSize.Observe(float64(len(queries)))

	assessments, answered := p.assessAll(ctx, queries)
	if len(assessments) == 0 {
		return nil
	}

	if err := p.loader.LoadBatch(ctx, assessments); err != nil {
		return err
	}
	p.metrics.MessagesProduced.Add(float64(len(assessments)))
	for _, raw := range answered {
		p.commit(ctx, raw)
	}

	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.logger.Debug("assessments published",
		"count", len(assessments),
		"by_risk", countByRisk(assessments),
		"rejected", len(queries)-len(answered),
	)
	return nil
}

// assessAll assesses every query in the batch. Rejected queries are committed
// immediately so they are never redelivered. It returns the serialized
// assessments alongside the queries that produced them.
func (p *Pipeline) assessAll(ctx context.Context, queries []domain.RawEvent) ([]domain.OutputEvent, []domain.RawEvent) {
	out := make([]domain.OutputEvent, 0, len(queries))
	answered := make([]domain.RawEvent, 0, len(queries))

	for _, raw := range queries {
		a, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			level := slog.LevelError
			if domain.IsValidationError(err) {
				level = slog.LevelWarn
			}
			p.logger.Log(ctx, level, "query rejected, skipping message",
				"error", err,
				"key", string(raw.Key),
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commit(ctx, raw)
			continue
		}
		out = append(out, a)
		answered = append(answered, raw)
	}
	return out, answered
}

func (p *Pipeline) commit(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func countByRisk(events []domain.OutputEvent) map[string]int {
	counts := make(map[string]int)
	for _, e := range events {
		counts[e.Headers["risk_level"]]++
	}
	return counts
}

// retryDelay doubles from base up to limit between failed broker round trips.
type retryDelay struct {
	base, limit, current time.Duration
}

func newRetryDelay(base, limit time.Duration) *retryDelay {
	return &retryDelay{base: base, limit: limit, current: base}
}

func (r *retryDelay) reset() { r.current = r.base }

// wait sleeps for the current delay and doubles it. It returns false when ctx
// ends first.
func (r *retryDelay) wait(ctx context.Context) bool {
	timer := time.NewTimer(r.current)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
	}
	r.current = min(r.current*2, r.limit)
	return true
}
