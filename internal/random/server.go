package random

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/vk/naosoccer/internal/ctxlog"
)

// Server is a mutex-guarded PCG generator.
type Server struct {
	mu   sync.Mutex
	rng  *rand.Rand
	seed int64
	// newSeed is swapped in tests.
	newSeed func() (int64, error)
}

// NewServer returns a generator seeded deterministically with 1 until Seed
// is called.
func NewServer() *Server {
	s := &Server{newSeed: NewSeed}
	s.reseed(1)
	return s
}

func (s *Server) reseed(seed int64) {
	s.seed = seed
	s.rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// Seed reseeds the generator. A seed of 0 requests a random seed.
func (s *Server) Seed(ctx context.Context, seed int64) error {
	logger := ctxlog.FromContext(ctx)
	if seed == 0 {
		fresh, err := s.newSeed()
		if err != nil {
			return fmt.Errorf("seed random server: %w", err)
		}
		// 0 is reserved for the randomize request
		if fresh == 0 {
			fresh = 1
		}
		seed = fresh
		logger.Debug("Random server seeded from entropy.", "seed", seed)
	} else {
		logger.Debug("Random server seeded.", "seed", seed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reseed(seed)
	return nil
}

// CurrentSeed returns the seed in effect.
func (s *Server) CurrentSeed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seed
}

// Float64 returns a value in [0, 1).
func (s *Server) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// IntN returns a value in [0, n). It panics if n <= 0.
func (s *Server) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}
