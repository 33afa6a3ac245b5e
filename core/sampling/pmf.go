package sampling

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// sumTolerance bounds how far the probability mass may drift from 1 before
// the model is rejected as a configuration error.
const sumTolerance = 1e-6

// ProbabilityModel is a discrete distribution over a finite integer support.
type ProbabilityModel struct {
	Values        []int     `json:"values"`
	Probabilities []float64 `json:"probabilities"`
}

// NewProbabilityModel validates and returns a model. Probabilities must be
// non-negative, match the support length and sum to 1 within tolerance.
func NewProbabilityModel(values []int, probabilities []float64) (*ProbabilityModel, error) {
	m := &ProbabilityModel{Values: values, Probabilities: probabilities}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks the invariants the sampler relies on.
func (m *ProbabilityModel) Validate() error {
	if len(m.Values) == 0 {
		return fmt.Errorf("sampling: empty support")
	}
	if len(m.Values) != len(m.Probabilities) {
		return fmt.Errorf("sampling: %d values but %d probabilities", len(m.Values), len(m.Probabilities))
	}
	sum := 0.0
	for i, p := range m.Probabilities {
		if p < 0 {
			return fmt.Errorf("sampling: negative probability %g at index %d", p, i)
		}
		sum += p
	}
	if math.Abs(sum-1) > sumTolerance {
		return fmt.Errorf("sampling: probabilities sum to %g, want 1", sum)
	}
	return nil
}

// CumulativeMass returns C with C[0]=0 and C[i]=C[i-1]+p[i-1] for i=1..k.
// The last entry equals the sum of all probabilities.
func (m *ProbabilityModel) CumulativeMass() []float64 {
	cmf := make([]float64, len(m.Probabilities)+1)
	floats.CumSum(cmf[1:], m.Probabilities)
	return cmf
}

// Sample draws a value by inverse-transform sampling: with U uniform in
// [0,1), the largest index i satisfying U >= C[i] wins. A draw landing
// exactly on a boundary rounds up to the higher index, and when the mass
// does not reach 1 the largest feasible index still wins.
func (m *ProbabilityModel) Sample(src *Source) int {
	return m.SampleAt(src.Float64())
}

// SampleAt resolves the draw u against the cumulative mass. Exposed so the
// boundary behaviour can be pinned down in tests.
func (m *ProbabilityModel) SampleAt(u float64) int {
	cmf := m.CumulativeMass()
	idx := 0
	for i := 0; i < len(m.Values); i++ {
		if u >= cmf[i] {
			idx = i
		}
	}
	return m.Values[idx]
}
