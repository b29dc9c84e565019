package sim

import "math/rand/v2"

// A RandSource provides uniformly distributed random integers. Components
// that make randomized decisions take a RandSource so that runs can be
// seeded and tests can script the draws.
type RandSource interface {
	// IntN returns a uniformly distributed integer in [0, n). It panics if
	// n <= 0.
	IntN(n int) int
}

type pcgRandSource struct {
	rng *rand.Rand
}

// NewRandSource creates a RandSource with a fixed seed. Two sources created
// with the same seed produce the same sequence.
func NewRandSource(seed uint64) RandSource {
	return &pcgRandSource{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (s *pcgRandSource) IntN(n int) int {
	return s.rng.IntN(n)
}
