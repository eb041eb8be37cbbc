package rng

import (
	"math/rand"
	"time"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_roller.go github.com/wombatlabs/wombat-combat/internal/rng Roller

// Roller provides the randomness used by the game: coin flips, bounded
// draws and deck shuffles.
type Roller interface {
	// Roll returns a uniform value in [1, sides]
	Roll(sides int) int

	// Coin returns a uniform 50/50 flip
	Coin() bool

	// Perm returns a uniform permutation of [0, n)
	Perm(n int) []int
}

// roller implements Roller using math/rand
type roller struct {
	random *rand.Rand
}

// Config for the roller
type Config struct {
	// Optional seed for testing
	Seed int64
}

// New creates a new roller
func New(cfg *Config) *roller {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	source := rand.NewSource(seed)

	return &roller{
		random: rand.New(source),
	}
}

// Roll generates a random value in [1, sides]
func (r *roller) Roll(sides int) int {
	if sides < 1 {
		sides = 6
	}
	return r.random.Intn(sides) + 1
}

// Coin flips a fair coin
func (r *roller) Coin() bool {
	return r.random.Intn(2) == 0
}

// Perm returns a random permutation of [0, n)
func (r *roller) Perm(n int) []int {
	return r.random.Perm(n)
}
