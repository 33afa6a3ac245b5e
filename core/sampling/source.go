package sampling

import (
	"math"
	"math/rand"
)

// Source is the single pseudo-random stream feeding every sampling decision
// in a run. Retries and substitutions consume additional draws, so exact
// reproducibility under a fixed seed requires identical traversal order on
// every branch. The engine is single-threaded; Source is not safe for
// concurrent use.
type Source struct {
	rng *rand.Rand
}

// NewSource returns a stream seeded deterministically.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Float64 draws a uniform value in [0,1).
func (s *Source) Float64() float64 { return s.rng.Float64() }

// IntBetween draws an integer uniformly from the inclusive range [a,b]
// as a + floor((b-a+1)*U).
func (s *Source) IntBetween(a, b int) int {
	u := s.rng.Float64()
	return a + int(math.Floor(float64(b-a+1)*u))
}
