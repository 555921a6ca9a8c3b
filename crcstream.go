// Package crcstream provides a streaming IEEE 802.3 CRC32 engine that folds
// one 32-bit word per clock step.
//
// The engine is a bit-parallel re-derivation of the bit-serial LFSR
// recurrence: each step folds a full word into the accumulator, and results
// are exposed through a latched, one-step-delayed valid handshake that
// supports back-to-back frames with no idle gaps.
//
// Example usage:
//
//	eng, err := crcstream.New(nil) // Ethernet preset
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	words := []uint32{0x12345678, 0x9ABCDEF0}
//	for i, w := range words {
//	    eng.Step(crcstream.Input{
//	        Word:         w,
//	        Enable:       true,
//	        StartOfFrame: i == 0,
//	        EndOfFrame:   i == len(words)-1,
//	    })
//	}
//	out, _ := eng.Step(crcstream.Input{}) // flush step
//	if out.Valid {
//	    fmt.Printf("CRC32: %08X\n", out.Result)
//	}
package crcstream

import (
	"encoding/binary"
	"fmt"

	"github.com/vnykmshr/crcstream/internal/crc"
	"github.com/vnykmshr/crcstream/internal/engine"
)

// Version is the current version of crcstream.
// This is the single source of truth for the application version.
const Version = "1.0.0"

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
	// consume it this step or it will be superseded by the next frame.
	Result uint32

	// Valid is true for exactly one step per completed frame
	Valid bool

	// Violations lists sequencing violations detected on this step's raw
	// inputs (nil when none)
	Violations []Violation
}

// Violation identifies a control-flag sequencing violation. Violations are
// advisory unless the engine is in strict mode.
type Violation uint8

const (
	// ViolationStartWithoutEnable: start-of-frame asserted while enable is not.
	ViolationStartWithoutEnable Violation = Violation(engine.ViolationStartWithoutEnable)

	// ViolationEndWithoutEnable: end-of-frame asserted while enable is not.
	ViolationEndWithoutEnable Violation = Violation(engine.ViolationEndWithoutEnable)
)

// String returns the string representation of the violation.
func (v Violation) String() string {
	return engine.Violation(v).String()
}

// Engine is a streaming CRC32 engine instance. It is owned by a single
// caller; Step and Reset are not safe for concurrent use.
type Engine struct {
	eng *engine.Engine
}

// New creates an engine with the given options. A nil opts uses
// DefaultOptions (the Ethernet preset).
func New(opts *Options) (*Engine, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	eng, err := engine.New(opts.internal())
	if err != nil {
		return nil, err
	}
	return &Engine{eng: eng}, nil
}

// Step advances the engine by one clock step. The word presented here is
// folded into the accumulator on the following step; in multi-word mode the
// valid flag follows an enabled end-of-frame word by exactly one step.
//
// The returned error is non-nil only in strict mode when a sequencing
// violation is detected; the Output is complete and usable either way.
func (e *Engine) Step(in Input) (Output, error) {
	out, err := e.eng.Step(engine.Input{
		Word:         in.Word,
		Enable:       in.Enable,
		StartOfFrame: in.StartOfFrame,
		EndOfFrame:   in.EndOfFrame,
	})

	pub := Output{Result: out.Result, Valid: out.Valid}
	if len(out.Violations) > 0 {
		pub.Violations = make([]Violation, len(out.Violations))
		for i, v := range out.Violations {
			pub.Violations[i] = Violation(v)
		}
	}
	return pub, err
}

// Reset forces the accumulator to the seed value, clears the valid latch
// and discards any in-flight pipeline content. It is non-deferrable: the
// effect is applied immediately, before the next step is processed.
func (e *Engine) Reset() {
	e.eng.Reset()
}

// Accumulator returns the current (un-finalized) accumulator value.
func (e *Engine) Accumulator() uint32 {
	return e.eng.Accumulator()
}

// ChecksumWords resets the engine, drives words through it as a single
// frame and returns the frame's result. It requires multi-word-frame mode.
func (e *Engine) ChecksumWords(words []uint32) (uint32, error) {
	if len(words) == 0 {
		return 0, ErrEmptyFrame
	}

	e.eng.Reset()

	for i, w := range words {
		if _, err := e.Step(Input{
			Word:         w,
			Enable:       true,
			StartOfFrame: i == 0,
			EndOfFrame:   i == len(words)-1,
		}); err != nil {
			return 0, err
		}
	}

	out, err := e.Step(Input{})
	if err != nil {
		return 0, err
	}
	if !out.Valid {
		// Single-word mode asserts valid after every word, so the flush
		// step here is still valid; only a misconfigured engine gets here.
		return 0, ErrWrongMode
	}
	return out.Result, nil
}

// ChecksumBytes computes the standard Ethernet CRC32 of data by streaming
// it through an engine in the Ethernet preset, 32 bits per step, in
// little-endian word order. The length of data must be a multiple of 4.
//
// The result matches hash/crc32's ChecksumIEEE.
func ChecksumBytes(data []byte) (uint32, error) {
	if len(data) == 0 {
		return 0, ErrEmptyFrame
	}
	if len(data)%4 != 0 {
		return 0, fmt.Errorf("%w: %d bytes", ErrWordAlignment, len(data))
	}

	eng, err := New(DefaultOptions())
	if err != nil {
		return 0, err
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return eng.ChecksumWords(words)
}

// Reference computes the standard Ethernet CRC32 of data through the
// byte-serial reference path, without the streaming engine. It exists so
// callers can cross-check engine results the way the simulation harness
// does.
func Reference(data []byte) uint32 {
	return crc.Checksum(data)
}
