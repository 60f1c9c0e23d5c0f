// Package estimator provides the regression prediction mode: linear models
// fitted offline, stored as msgpack artifacts, and served read-only behind the
// domain predictor interfaces.
package estimator

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrFeatureMismatch is returned when a feature vector does not match the model.
	ErrFeatureMismatch = errors.New("feature vector does not match model")

	// ErrInsufficientData is returned when there are fewer samples than parameters.
	ErrInsufficientData = errors.New("not enough samples to fit model")
)

// Model is a fitted linear regression: Intercept + Σ Coefficients[i]·x[i].
type Model struct {
	Name         string    `msgpack:"name"`
	Features     []string  `msgpack:"features"`
	Intercept    float64   `msgpack:"intercept"`
	Coefficients []float64 `msgpack:"coefficients"`
	Samples      int       `msgpack:"samples"`
	TrainedAt    time.Time `msgpack:"trained_at"`
}

// Predict returns the scalar prediction for one feature vector.
func (m *Model) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Coefficients) {
		return 0, fmt.Errorf("%s: got %d features, want %d: %w", m.Name, len(features), len(m.Coefficients), ErrFeatureMismatch)
	}
	return m.Intercept + floats.Dot(m.Coefficients, features), nil
}

func (m *Model) validate() error {
	if len(m.Coefficients) == 0 {
		return fmt.Errorf("model %q has no coefficients", m.Name)
	}
	if len(m.Features) != 0 && len(m.Features) != len(m.Coefficients) {
		return fmt.Errorf("model %q lists %d features for %d coefficients", m.Name, len(m.Features), len(m.Coefficients))
	}
	return nil
}

// Encode writes the model as msgpack.
func Encode(w io.Writer, m *Model) error {
	if err := msgpack.NewEncoder(w).Encode(m); err != nil {
		return fmt.Errorf("encode model %q: %w", m.Name, err)
	}
	return nil
}

// Decode reads a msgpack model and checks its shape.
func Decode(r io.Reader) (*Model, error) {
	var m Model
	if err := msgpack.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads a model artifact from disk.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model artifact: %w", err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return m, nil
}

// Save writes a model artifact to disk, replacing any existing file.
func Save(path string, m *Model) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create model artifact: %w", err)
	}
	if err := Encode(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
