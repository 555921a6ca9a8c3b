package crcstream

import (
	"github.com/vnykmshr/crcstream/internal/engine"
	"github.com/vnykmshr/crcstream/internal/logging"
)

// PolynomialForm selects the generator polynomial representation and, with
// it, the bit order of the word fold.
type PolynomialForm uint8

const (
	// Forward is the forward polynomial 0x04C11DB7, folded MSB-first.
	Forward PolynomialForm = PolynomialForm(engine.Forward)

	// Reversed is the bit-reversed polynomial 0xEDB88320, folded LSB-first.
	// This representation matches the standard byte-serial Ethernet CRC32
	// over little-endian word bytes.
	Reversed PolynomialForm = PolynomialForm(engine.Reversed)
)

// Mode selects the valid/result handshake shape.
type Mode uint8

const (
	// SingleWord produces a valid result one step after every enabled word;
	// there is no end-of-frame flag in this mode.
	SingleWord Mode = Mode(engine.SingleWord)

	// MultiWordFrame produces a valid result only one step after an enabled
	// word whose end-of-frame flag was set.
	MultiWordFrame Mode = Mode(engine.MultiWordFrame)
)

// FinalizeMode selects the transformation applied to the accumulator when
// producing a result.
type FinalizeMode uint8

const (
	// Identity emits the raw accumulator.
	Identity FinalizeMode = FinalizeMode(engine.Identity)

	// Complement emits the bitwise complement of the accumulator, per the
	// Ethernet standard.
	Complement FinalizeMode = FinalizeMode(engine.Complement)
)

// Options configures engine behavior. All fields are fixed at construction.
type Options struct {
	// Form selects the polynomial representation and bit order
	// Default: Reversed
	Form PolynomialForm

	// Seed is the accumulator value at reset and at the start of each frame
	// Default: 0xFFFFFFFF
	Seed uint32

	// Mode selects the valid/result handshake shape
	// Default: MultiWordFrame
	Mode Mode

	// Finalize selects the output transformation
	// Default: Complement
	Finalize FinalizeMode

	// Strict makes Step return an error on sequencing violations instead of
	// only reporting them in the output
	// Default: false (advisory)
	Strict bool

	// Logger for structured logging (nil = no logging)
	Logger Logger

	// MetricsCollector for collecting engine metrics (nil = no metrics)
	MetricsCollector MetricsCollector
}

// DefaultOptions returns the Ethernet preset: reversed polynomial,
// multi-word frames, complemented output, seed 0xFFFFFFFF.
func DefaultOptions() *Options {
	return &Options{
		Form:     Reversed,
		Seed:     0xFFFFFFFF,
		Mode:     MultiWordFrame,
		Finalize: Complement,
	}
}

// SingleWordOptions returns the single-word preset: forward polynomial, a
// result after every word, raw accumulator output, seed 0xFFFFFFFF.
func SingleWordOptions() *Options {
	return &Options{
		Form:     Forward,
		Seed:     0xFFFFFFFF,
		Mode:     SingleWord,
		Finalize: Identity,
	}
}

// MetricsCollector defines the interface for recording engine metrics.
type MetricsCollector interface {
	RecordStep(valid bool)
	RecordWord()
	RecordFrame()
	RecordViolation(kind string)
	RecordReset()
}

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, fields ...LogField)
	Info(msg string, fields ...LogField)
	Warn(msg string, fields ...LogField)
	Error(msg string, fields ...LogField)
}

// LogField represents a structured logging field.
type LogField struct {
	Key   string
	Value interface{}
}

func (o *Options) internal() *engine.Options {
	return &engine.Options{
		Form:     engine.PolynomialForm(o.Form),
		Seed:     o.Seed,
		Mode:     engine.Mode(o.Mode),
		Finalize: engine.FinalizeMode(o.Finalize),
		Strict:   o.Strict,
		Logger:   convertLogger(o.Logger),
		Metrics:  o.MetricsCollector,
	}
}

func convertLogger(l Logger) logging.Logger {
	if l == nil {
		return logging.NoopLogger{}
	}
	return &loggerAdapter{l: l}
}

// loggerAdapter adapts a public Logger to the internal logging.Logger.
type loggerAdapter struct {
	l Logger
}

func (a *loggerAdapter) Debug(msg string, fields ...logging.Field) {
	a.l.Debug(msg, convertFields(fields)...)
}

func (a *loggerAdapter) Info(msg string, fields ...logging.Field) {
	a.l.Info(msg, convertFields(fields)...)
}

func (a *loggerAdapter) Warn(msg string, fields ...logging.Field) {
	a.l.Warn(msg, convertFields(fields)...)
}

func (a *loggerAdapter) Error(msg string, fields ...logging.Field) {
	a.l.Error(msg, convertFields(fields)...)
}

func convertFields(fields []logging.Field) []LogField {
	out := make([]LogField, len(fields))
	for i, f := range fields {
		out[i] = LogField{Key: f.Key, Value: f.Value}
	}
	return out
}
