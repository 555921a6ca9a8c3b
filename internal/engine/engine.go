// Package engine implements the streaming CRC32 step machine.
//
// The engine folds one 32-bit word into the accumulator per step and exposes
// the result through a latched, one-step-delayed handshake:
//   - Input capture: raw inputs are latched into a pipeline snapshot each
//     step, so the update always operates on the previous step's inputs
//   - Update: a pure 32-fold CRC update over the captured word, seeded at
//     the start of each frame
//   - Output stage: the accumulator register and a one-step valid latch,
//     plus sequencing checks over the raw inputs
//
// A word presented at step N is folded during step N+1; in multi-word mode
// the valid flag follows an enabled end-of-frame word by exactly one step.
// Back-to-back frames need no idle step between them.
//
// Basic usage:
//
//	eng, err := engine.New(engine.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	words := []uint32{0x12345678, 0x9ABCDEF0}
//	for i, w := range words {
//	    out, _ := eng.Step(engine.Input{
//	        Word:         w,
//	        Enable:       true,
//	        StartOfFrame: i == 0,
//	        EndOfFrame:   i == len(words)-1,
//	    })
//	    _ = out
//	}
//	out, _ := eng.Step(engine.Input{}) // flush step
//	fmt.Printf("%08X\n", out.Result)   // valid here
//
// An Engine is owned by a single caller; Step and Reset are not safe for
// concurrent use.
package engine

import (
	"errors"
	"fmt"

	"github.com/vnykmshr/crcstream/internal/crc"
	"github.com/vnykmshr/crcstream/internal/logging"
)

// ErrSequencing indicates a control-flag sequencing violation while the
// engine is in strict mode.
var ErrSequencing = errors.New("crcstream: sequencing violation")

// Violation identifies a control-flag sequencing violation. Violations are
// advisory: the engine keeps processing the inputs it was given.
type Violation uint8

const (
	// ViolationStartWithoutEnable: start-of-frame asserted while enable is not.
	ViolationStartWithoutEnable Violation = iota

	// ViolationEndWithoutEnable: end-of-frame asserted while enable is not.
	ViolationEndWithoutEnable
)

// String returns the string representation of the violation.
func (v Violation) String() string {
	switch v {
	case ViolationStartWithoutEnable:
		return "start-without-enable"
	case ViolationEndWithoutEnable:
		return "end-without-enable"
	default:
		return "unknown"
	}
}

// Input is the set of raw inputs presented to the engine for one step.
type Input struct {
	// Word is the 32-bit data word
	Word uint32

	// Enable marks the word as part of the stream
	Enable bool

	// StartOfFrame marks the first word of a frame
	StartOfFrame bool

	// EndOfFrame marks the last word of a frame.
	// Ignored in single-word mode.
	EndOfFrame bool
}

// Output is what the engine reports for one step.
type Output struct {
	// Result is the finalized checksum. Only meaningful when Valid is true;
	// it must be consumed this step or it will be superseded.
	Result uint32

	// Valid is true for exactly one step per completed frame
	Valid bool

	// Violations lists sequencing violations detected on this step's raw
	// inputs (nil when none)
	Violations []Violation
}

// snapshot is the pipeline register between the raw inputs and the update:
// the captured copies of the word and flags for the step currently being
// processed.
type snapshot struct {
	word   uint32
	enable bool
	start  bool
	end    bool
}

// Engine is the streaming CRC32 step machine. The accumulator and pipeline
// snapshot are the entirety of its state.
type Engine struct {
	opts *Options

	acc   uint32
	valid bool
	snap  snapshot

	// counters for Stats
	steps      uint64
	words      uint64
	frames     uint64
	violations uint64
}

// New creates an engine with the given options. A nil opts uses
// DefaultOptions (the Ethernet preset).
func New(opts *Options) (*Engine, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine options: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoopLogger{}
	}

	e := &Engine{opts: opts, acc: opts.Seed}

	e.opts.Logger.Debug("engine created",
		logging.F("form", opts.Form.String()),
		logging.F("mode", opts.Mode.String()),
		logging.F("finalize", opts.Finalize.String()))

	return e, nil
}

// Reset forces the accumulator to the seed value, clears the valid latch and
// discards any in-flight pipeline content. It is non-deferrable: the effect
// is applied immediately, before the next step is processed.
func (e *Engine) Reset() {
	e.acc = e.opts.Seed
	e.valid = false
	e.snap = snapshot{}

	if e.opts.Metrics != nil {
		e.opts.Metrics.RecordReset()
	}
	e.opts.Logger.Debug("engine reset")
}

// Step advances the engine by one clock step: it folds the previously
// captured word into the accumulator, updates the valid latch, checks the
// raw inputs for sequencing violations and captures them for the next step.
//
// The returned error is non-nil only in strict mode when a violation is
// detected; the Output is complete and usable either way.
func (e *Engine) Step(in Input) (Output, error) {
	e.steps++

	violations := e.checkSequencing(in)

	// Update stage: fold the captured word. A disabled snapshot is an idle
	// step and holds the accumulator.
	folded := e.snap.enable
	if folded {
		base := e.acc
		if e.snap.start {
			base = e.opts.Seed
		}
		e.acc = e.fold(base, e.snap.word)
		e.words++
	}

	// Output stage: the valid latch follows the captured flags by one step.
	switch e.opts.Mode {
	case SingleWord:
		e.valid = e.snap.enable
	case MultiWordFrame:
		e.valid = e.snap.enable && e.snap.end
	}

	// Input capture: latch the raw inputs for the next step.
	e.snap = snapshot{
		word:   in.Word,
		enable: in.Enable,
		start:  in.StartOfFrame,
		end:    in.EndOfFrame,
	}

	out := Output{Valid: e.valid, Violations: violations}
	if e.valid {
		out.Result = e.finalize(e.acc)
		e.frames++
	}

	if e.opts.Metrics != nil {
		e.opts.Metrics.RecordStep(e.valid)
		if folded {
			e.opts.Metrics.RecordWord()
		}
		if e.valid {
			e.opts.Metrics.RecordFrame()
		}
	}

	if len(violations) > 0 && e.opts.Strict {
		return out, fmt.Errorf("%w: %v", ErrSequencing, violations)
	}
	return out, nil
}

// checkSequencing evaluates the protocol assertions against the raw,
// un-captured inputs. It reports violations without mutating engine state.
func (e *Engine) checkSequencing(in Input) []Violation {
	var violations []Violation

	if in.StartOfFrame && !in.Enable {
		violations = append(violations, ViolationStartWithoutEnable)
	}
	if e.opts.Mode == MultiWordFrame && in.EndOfFrame && !in.Enable {
		violations = append(violations, ViolationEndWithoutEnable)
	}

	for _, v := range violations {
		e.violations++
		e.opts.Logger.Warn("sequencing violation",
			logging.F("kind", v.String()),
			logging.F("step", e.steps))
		if e.opts.Metrics != nil {
			e.opts.Metrics.RecordViolation(v.String())
		}
	}

	return violations
}

func (e *Engine) fold(acc, word uint32) uint32 {
	if e.opts.Form == Forward {
		return crc.FoldWordMSB(acc, word)
	}
	return crc.FoldWordLSB(acc, word)
}

func (e *Engine) finalize(acc uint32) uint32 {
	if e.opts.Finalize == Complement {
		return crc.Finalize(acc)
	}
	return acc
}

// Accumulator returns the current (un-finalized) accumulator value.
// Exposed for inspection and tests; between frame words it holds the
// partially folded value of all prior words in the open frame.
func (e *Engine) Accumulator() uint32 {
	return e.acc
}

// Stats contains engine counters.
type Stats struct {
	// Steps is the number of Step calls since creation
	Steps uint64

	// WordsFolded is the number of enabled words folded into the accumulator
	WordsFolded uint64

	// FramesCompleted is the number of valid results produced
	FramesCompleted uint64

	// Violations is the number of sequencing violations detected
	Violations uint64
}

// Stats returns current engine statistics.
func (e *Engine) Stats() *Stats {
	return &Stats{
		Steps:           e.steps,
		WordsFolded:     e.words,
		FramesCompleted: e.frames,
		Violations:      e.violations,
	}
}
