package engine

import (
	"fmt"

	"github.com/vnykmshr/crcstream/internal/crc"
	"github.com/vnykmshr/crcstream/internal/logging"
)

// PolynomialForm selects the generator polynomial representation and,
// with it, the bit order of the word fold.
type PolynomialForm uint8

const (
	// Forward uses the forward polynomial 0x04C11DB7 with MSB-first folding.
	Forward PolynomialForm = iota

	// Reversed uses the bit-reversed polynomial 0xEDB88320 with LSB-first
	// folding. This is the representation that matches the standard
	// byte-serial Ethernet CRC32 over little-endian word bytes.
	Reversed
)

// String returns the string representation of the polynomial form.
func (f PolynomialForm) String() string {
	switch f {
	case Forward:
		return "forward"
	case Reversed:
		return "reversed"
	default:
		return "unknown"
	}
}

// Mode selects the valid/result handshake shape.
type Mode uint8

const (
	// SingleWord produces a valid result one step after every enabled word.
	// There is no end-of-frame flag in this mode.
	SingleWord Mode = iota

	// MultiWordFrame produces a valid result only one step after an enabled
	// word whose end-of-frame flag was set.
	MultiWordFrame
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case SingleWord:
		return "single-word"
	case MultiWordFrame:
		return "multi-word-frame"
	default:
		return "unknown"
	}
}

// FinalizeMode selects the transformation applied to the accumulator when
// producing a result.
type FinalizeMode uint8

const (
	// Identity emits the raw accumulator.
	Identity FinalizeMode = iota

	// Complement emits the bitwise complement of the accumulator, per the
	// Ethernet standard.
	Complement
)

// String returns the string representation of the finalize mode.
func (f FinalizeMode) String() string {
	switch f {
	case Identity:
		return "identity"
	case Complement:
		return "complement"
	default:
		return "unknown"
	}
}

// Collector defines the interface for recording engine metrics.
type Collector interface {
	RecordStep(valid bool)
	RecordWord()
	RecordFrame()
	RecordViolation(kind string)
	RecordReset()
}

// Options configures engine behavior. All fields are fixed at construction.
type Options struct {
	// Form selects the polynomial representation and bit order
	Form PolynomialForm

	// Seed is the accumulator value at reset and at the start of each frame
	// Default: 0xFFFFFFFF
	Seed uint32

	// Mode selects the valid/result handshake shape
	Mode Mode

	// Finalize selects the output transformation
	Finalize FinalizeMode

	// Strict makes Step return an error on sequencing violations instead of
	// only reporting them in the output
	Strict bool

	// Logger for structured logging (nil = no logging)
	Logger logging.Logger

	// Metrics for collecting engine metrics (nil = no metrics)
	Metrics Collector
}

// DefaultOptions returns the Ethernet preset: reversed polynomial,
// multi-word frames, complemented output, seed 0xFFFFFFFF.
func DefaultOptions() *Options {
	return &Options{
		Form:     Reversed,
		Seed:     crc.Seed,
		Mode:     MultiWordFrame,
		Finalize: Complement,
	}
}

// SingleWordOptions returns the single-word preset: forward polynomial,
// a result after every word, raw accumulator output, seed 0xFFFFFFFF.
func SingleWordOptions() *Options {
	return &Options{
		Form:     Forward,
		Seed:     crc.Seed,
		Mode:     SingleWord,
		Finalize: Identity,
	}
}

// Validate checks if the options are valid.
func (o *Options) Validate() error {
	if o.Form != Forward && o.Form != Reversed {
		return fmt.Errorf("invalid polynomial form: %d", o.Form)
	}
	if o.Mode != SingleWord && o.Mode != MultiWordFrame {
		return fmt.Errorf("invalid mode: %d", o.Mode)
	}
	if o.Finalize != Identity && o.Finalize != Complement {
		return fmt.Errorf("invalid finalize mode: %d", o.Finalize)
	}
	return nil
}
