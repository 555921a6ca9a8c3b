package crcstream

import (
	"errors"

	"github.com/vnykmshr/crcstream/internal/engine"
	"github.com/vnykmshr/crcstream/internal/harness"
)

// Common errors returned by crcstream operations.
var (
	// ErrSequencing indicates a control-flag sequencing violation while the
	// engine is in strict mode.
	ErrSequencing = engine.ErrSequencing

	// ErrScoreboardEmpty indicates a valid result arrived with no
	// outstanding expected frame.
	ErrScoreboardEmpty = harness.ErrScoreboardEmpty

	// ErrResultMismatch indicates a result disagreed with the reference model.
	ErrResultMismatch = harness.ErrResultMismatch

	// ErrWatchdogExpired indicates a simulation exceeded its step budget.
	ErrWatchdogExpired = harness.ErrWatchdogExpired

	// ErrWordAlignment indicates a byte buffer whose length is not a
	// multiple of the 32-bit word size.
	ErrWordAlignment = errors.New("crcstream: input not 32-bit word aligned")

	// ErrEmptyFrame indicates a frame with no words.
	ErrEmptyFrame = errors.New("crcstream: empty frame")

	// ErrWrongMode indicates an operation unsupported by the engine's
	// configured handshake mode.
	ErrWrongMode = errors.New("crcstream: operation not supported in this mode")
)
