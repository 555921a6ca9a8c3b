// Package harness provides the randomized simulation harness for the
// streaming CRC engine: a stimulus generator, an in-order scoreboard of
// expected results, and a single-threaded driver loop with a step-budget
// watchdog.
//
// The harness replays a scripted sequence of steps against the engine and
// cross-checks every valid result against a byte-serial reference model.
package harness

import (
	"math/rand"

	"github.com/google/uuid"
)

// Frame is one generated unit of stimulus.
type Frame struct {
	// ID correlates the frame across logs and scoreboard entries
	ID uuid.UUID

	// Words is the frame payload, first word to last
	Words []uint32
}

// Generator produces randomized frames from a seeded source, so any failing
// run can be reproduced from its seed.
type Generator struct {
	rng      *rand.Rand
	minWords int
	maxWords int
}

// NewGenerator creates a generator producing frames of minWords..maxWords
// words. minWords is clamped to at least 1.
func NewGenerator(seed int64, minWords, maxWords int) *Generator {
	if minWords < 1 {
		minWords = 1
	}
	if maxWords < minWords {
		maxWords = minWords
	}
	return &Generator{
		rng:      rand.New(rand.NewSource(seed)),
		minWords: minWords,
		maxWords: maxWords,
	}
}

// Frame generates the next frame.
func (g *Generator) Frame() Frame {
	n := g.minWords + g.rng.Intn(g.maxWords-g.minWords+1)
	words := make([]uint32, n)
	for i := range words {
		words[i] = g.rng.Uint32()
	}
	return Frame{ID: uuid.New(), Words: words}
}

// Chance returns true with probability p.
func (g *Generator) Chance(p float64) bool {
	return g.rng.Float64() < p
}
