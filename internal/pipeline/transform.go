package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/tpa-methane-risk/internal/domain"
	"github.com/couchcryptid/tpa-methane-risk/internal/observability"
)

// Assessor evaluates one risk query.
type Assessor interface {
	Assess(ctx context.Context, q domain.Query) (domain.Assessment, error)
}

// AssessmentSaver records completed assessments.
type AssessmentSaver interface {
	Save(ctx context.Context, a domain.Assessment) error
}

// AssessmentTransformer implements Transformer by parsing a query message,
// assessing it, and serializing the assessment.
type AssessmentTransformer struct {
	assessor Assessor
	store    AssessmentSaver
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewTransformer creates an AssessmentTransformer. Pass a nil store to skip
// history persistence.
func NewTransformer(assessor Assessor, store AssessmentSaver, metrics *observability.Metrics, logger *slog.Logger) *AssessmentTransformer {
	return &AssessmentTransformer{
		assessor: assessor,
		store:    store,
		metrics:  metrics,
		logger:   logger,
	}
}

func (t *AssessmentTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	q, err := domain.ParseQueryMessage(raw)
	if err != nil {
		if domain.IsValidationError(err) {
			t.metrics.ValidationErrors.Inc()
		}
		return domain.OutputEvent{}, err
	}

	start := time.Now()
	a, err := t.assessor.Assess(ctx, q)
	if err != nil {
		t.metrics.RecordAssessmentError(err)
		return domain.OutputEvent{}, err
	}
	t.metrics.RecordAssessment(a, time.Since(start))

	if t.store != nil {
		if err := t.store.Save(ctx, a); err != nil {
			t.logger.Error("store assessment", "id", a.ID, "error", err)
		}
	}

	return domain.SerializeAssessment(a)
}
