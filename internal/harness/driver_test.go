package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnykmshr/crcstream/internal/engine"
)

func TestDriver_RunEthernetPreset(t *testing.T) {
	opts := DefaultOptions()
	opts.Frames = 150
	opts.Seed = 7

	d, err := NewDriver(opts)
	require.NoError(t, err)

	report, err := d.Run()
	require.NoError(t, err)

	assert.Equal(t, uint64(150), report.FramesChecked)
	assert.Zero(t, report.Mismatches)
	assert.Zero(t, report.Violations)
	assert.GreaterOrEqual(t, report.WordsDriven, uint64(150))
}

func TestDriver_RunBackToBack(t *testing.T) {
	opts := DefaultOptions()
	opts.Frames = 50
	opts.IdleProbability = 0 // no idle steps anywhere
	opts.Seed = 11

	d, err := NewDriver(opts)
	require.NoError(t, err)

	report, err := d.Run()
	require.NoError(t, err)
	assert.Equal(t, uint64(50), report.FramesChecked)

	// Back-to-back frames need no idle steps beyond the final flush.
	assert.Equal(t, report.WordsDriven+1, report.StepsRun)
}

func TestDriver_RunSingleWordPreset(t *testing.T) {
	opts := DefaultOptions()
	opts.Engine = engine.SingleWordOptions()
	opts.Frames = 40
	opts.Seed = 13

	d, err := NewDriver(opts)
	require.NoError(t, err)

	report, err := d.Run()
	require.NoError(t, err)

	// Every word produces a checked result in single-word mode.
	assert.Equal(t, report.WordsDriven, report.FramesChecked)
	assert.Zero(t, report.Mismatches)
}

func TestDriver_RunForwardMultiWord(t *testing.T) {
	opts := DefaultOptions()
	opts.Engine = &engine.Options{
		Form:     engine.Forward,
		Seed:     0xFFFFFFFF,
		Mode:     engine.MultiWordFrame,
		Finalize: engine.Identity,
	}
	opts.Frames = 40
	opts.Seed = 17

	d, err := NewDriver(opts)
	require.NoError(t, err)

	report, err := d.Run()
	require.NoError(t, err)
	assert.Equal(t, uint64(40), report.FramesChecked)
	assert.Zero(t, report.Mismatches)
}

func TestDriver_WatchdogExpires(t *testing.T) {
	opts := DefaultOptions()
	opts.Frames = 100
	opts.MaxSteps = 10

	d, err := NewDriver(opts)
	require.NoError(t, err)

	_, err = d.Run()
	require.ErrorIs(t, err, ErrWatchdogExpired)
}

func TestDriver_Reproducible(t *testing.T) {
	run := func() *Report {
		opts := DefaultOptions()
		opts.Frames = 30
		opts.Seed = 21
		d, err := NewDriver(opts)
		require.NoError(t, err)
		report, err := d.Run()
		require.NoError(t, err)
		return report
	}

	a, b := run(), run()
	assert.Equal(t, a, b)
}

func TestDriver_RejectsNonPositiveFrameCount(t *testing.T) {
	opts := DefaultOptions()
	opts.Frames = 0
	_, err := NewDriver(opts)
	require.Error(t, err)
}
