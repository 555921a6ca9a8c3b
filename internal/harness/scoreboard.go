package harness

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Errors reported by the scoreboard and driver.
var (
	// ErrScoreboardEmpty indicates a valid result arrived with no
	// outstanding expected frame.
	ErrScoreboardEmpty = errors.New("crcstream: scoreboard underflow")

	// ErrResultMismatch indicates a result disagreed with the reference model.
	ErrResultMismatch = errors.New("crcstream: result mismatch")

	// ErrWatchdogExpired indicates the simulation exceeded its step budget.
	ErrWatchdogExpired = errors.New("crcstream: watchdog expired")
)

// expectation is one outstanding expected result, in submission order.
type expectation struct {
	frameID uuid.UUID
	want    uint32
}

// Scoreboard is an in-order queue of expected results. Because the engine
// emits exactly one valid pulse per completed frame, in submission order,
// every observed result must match the head of the queue.
type Scoreboard struct {
	pending []expectation
}

// NewScoreboard creates an empty scoreboard.
func NewScoreboard() *Scoreboard {
	return &Scoreboard{}
}

// Expect enqueues an expected result for a submitted frame.
func (s *Scoreboard) Expect(frameID uuid.UUID, want uint32) {
	s.pending = append(s.pending, expectation{frameID: frameID, want: want})
}

// Observe pops the oldest expectation and compares it with got.
// Returns ErrScoreboardEmpty on underflow and ErrResultMismatch when the
// result disagrees with the reference model.
func (s *Scoreboard) Observe(got uint32) error {
	if len(s.pending) == 0 {
		return fmt.Errorf("%w: unexpected result %08X", ErrScoreboardEmpty, got)
	}

	exp := s.pending[0]
	s.pending = s.pending[1:]

	if got != exp.want {
		return fmt.Errorf("%w: frame %s: got %08X, want %08X",
			ErrResultMismatch, exp.frameID, got, exp.want)
	}
	return nil
}

// Outstanding returns the number of expected results not yet observed.
func (s *Scoreboard) Outstanding() int {
	return len(s.pending)
}
