package estimator

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Fit estimates an ordinary least squares model for rows X and targets y.
// A single feature uses simple linear regression; more features are solved
// with a QR decomposition of the design matrix.
func Fit(name string, features []string, X [][]float64, y []float64, trainedAt time.Time) (*Model, error) {
	n := len(X)
	if n != len(y) {
		return nil, fmt.Errorf("fit %s: %d rows for %d targets", name, n, len(y))
	}
	p := len(features)
	if p == 0 {
		return nil, fmt.Errorf("fit %s: no features", name)
	}
	if n < p+1 {
		return nil, fmt.Errorf("fit %s: %d samples for %d parameters: %w", name, n, p+1, ErrInsufficientData)
	}
	for i, row := range X {
		if len(row) != p {
			return nil, fmt.Errorf("fit %s: row %d has %d features, want %d: %w", name, i, len(row), p, ErrFeatureMismatch)
		}
	}

	m := &Model{
		Name:      name,
		Features:  append([]string(nil), features...),
		Samples:   n,
		TrainedAt: trainedAt,
	}

	if p == 1 {
		xs := make([]float64, n)
		for i, row := range X {
			xs[i] = row[0]
		}
		alpha, beta := stat.LinearRegression(xs, y, nil, false)
		m.Intercept = alpha
		m.Coefficients = []float64{beta}
		return m, nil
	}

	design := mat.NewDense(n, p+1, nil)
	for i, row := range X {
		design.Set(i, 0, 1)
		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}
	target := mat.NewVecDense(n, append([]float64(nil), y...))

	var qr mat.QR
	qr.Factorize(design)

	coeffs := mat.NewVecDense(p+1, nil)
	if err := qr.SolveVecTo(coeffs, false, target); err != nil {
		return nil, fmt.Errorf("fit %s: %w", name, err)
	}

	m.Intercept = coeffs.AtVec(0)
	m.Coefficients = make([]float64, p)
	for j := 0; j < p; j++ {
		m.Coefficients[j] = coeffs.AtVec(j + 1)
	}
	return m, nil
}
