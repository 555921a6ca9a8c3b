package engine

import (
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnykmshr/crcstream/internal/crc"
)

// driveFrame presents the words of one frame on consecutive steps and
// returns the per-step outputs. It does not flush the pipeline.
func driveFrame(t *testing.T, e *Engine, words []uint32) []Output {
	t.Helper()

	outs := make([]Output, 0, len(words))
	for i, w := range words {
		out, err := e.Step(Input{
			Word:         w,
			Enable:       true,
			StartOfFrame: i == 0,
			EndOfFrame:   i == len(words)-1,
		})
		require.NoError(t, err)
		outs = append(outs, out)
	}
	return outs
}

// flush advances the engine one idle step so the last captured word is
// folded and the valid latch settles.
func flush(t *testing.T, e *Engine) Output {
	t.Helper()

	out, err := e.Step(Input{})
	require.NoError(t, err)
	return out
}

func TestEngine_GoldenVector_EthernetPreset(t *testing.T) {
	e, err := New(DefaultOptions())
	require.NoError(t, err)

	outs := driveFrame(t, e, []uint32{0x12345678})
	assert.False(t, outs[0].Valid, "valid must not assert on the capture step")

	out := flush(t, e)
	require.True(t, out.Valid)
	assert.Equal(t, uint32(0xAF6D87D2), out.Result)
}

func TestEngine_GoldenVector_SingleWordPreset(t *testing.T) {
	e, err := New(SingleWordOptions())
	require.NoError(t, err)

	out, err := e.Step(Input{Word: 0x12345678, Enable: true, StartOfFrame: true})
	require.NoError(t, err)
	assert.False(t, out.Valid)

	out = flush(t, e)
	require.True(t, out.Valid)
	assert.Equal(t, uint32(0xDF8A8A2B), out.Result, "raw accumulator, no finalization")
}

func TestEngine_SingleWordMode_ValidEveryWord(t *testing.T) {
	e, err := New(SingleWordOptions())
	require.NoError(t, err)

	words := []uint32{0x00000001, 0x00000002, 0x00000003}
	for i, w := range words {
		out, err := e.Step(Input{Word: w, Enable: true, StartOfFrame: i == 0})
		require.NoError(t, err)
		if i == 0 {
			assert.False(t, out.Valid)
		} else {
			assert.True(t, out.Valid, "word %d should have produced a result", i-1)
		}
	}
	out := flush(t, e)
	assert.True(t, out.Valid)
}

func TestEngine_MultiWordFrame(t *testing.T) {
	tests := []struct {
		name  string
		words []uint32
	}{
		{"single word", []uint32{0x12345678}},
		{"two words", []uint32{0x12345678, 0x9ABCDEF0}},
		{"five words", []uint32{1, 2, 3, 4, 5}},
		{"all zero word", []uint32{0x00000000}},
		{"all ones word", []uint32{0xFFFFFFFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(DefaultOptions())
			require.NoError(t, err)

			outs := driveFrame(t, e, tt.words)
			for i, out := range outs {
				assert.False(t, out.Valid,
					"valid asserted at step %d before end-of-frame settled", i)
			}

			out := flush(t, e)
			require.True(t, out.Valid)

			stream := make([]byte, 0, len(tt.words)*4)
			for _, w := range tt.words {
				stream = binary.LittleEndian.AppendUint32(stream, w)
			}
			assert.Equal(t, crc.Checksum(stream), out.Result)
		})
	}
}

// Randomized cross-check against the byte-serial reference: frames of
// 1-10 words over little-endian byte order.
func TestEngine_EquivalenceRandomFrames(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	e, err := New(DefaultOptions())
	require.NoError(t, err)

	for trial := 0; trial < 150; trial++ {
		n := 1 + rng.Intn(10)
		words := make([]uint32, n)
		stream := make([]byte, 0, n*4)
		for i := range words {
			words[i] = rng.Uint32()
			stream = binary.LittleEndian.AppendUint32(stream, words[i])
		}

		driveFrame(t, e, words)
		out := flush(t, e)
		require.True(t, out.Valid, "trial %d", trial)
		require.Equal(t, crc.Checksum(stream), out.Result, "trial %d", trial)
	}
}

// A word presented at step N affects the accumulator exactly one step later,
// and valid follows an enabled end-of-frame word by exactly one step.
func TestEngine_LatencyInvariant(t *testing.T) {
	e, err := New(DefaultOptions())
	require.NoError(t, err)

	before := e.Accumulator()
	_, err = e.Step(Input{Word: 0xDEADBEEF, Enable: true, StartOfFrame: true, EndOfFrame: true})
	require.NoError(t, err)
	assert.Equal(t, before, e.Accumulator(), "accumulator changed on the capture step")

	out := flush(t, e)
	assert.NotEqual(t, before, e.Accumulator(), "accumulator unchanged one step after capture")
	assert.True(t, out.Valid, "valid not asserted exactly one step after end-of-frame")

	out = flush(t, e)
	assert.False(t, out.Valid, "valid held for more than one step")
}

// Frame B's start word on the very step after frame A's end word must not
// corrupt either result.
func TestEngine_BackToBackFrames(t *testing.T) {
	e, err := New(DefaultOptions())
	require.NoError(t, err)

	frameA := []uint32{0x12345678, 0x9ABCDEF0}
	frameB := []uint32{0xCAFEBABE}

	driveFrame(t, e, frameA)

	// B's start word goes in on the same step A's valid comes out.
	out, err := e.Step(Input{Word: frameB[0], Enable: true, StartOfFrame: true, EndOfFrame: true})
	require.NoError(t, err)
	require.True(t, out.Valid)
	assert.Equal(t, uint32(0x86829DEB), out.Result, "frame A result corrupted")

	out = flush(t, e)
	require.True(t, out.Valid)

	wantB := crc.Checksum(binary.LittleEndian.AppendUint32(nil, frameB[0]))
	assert.Equal(t, wantB, out.Result, "frame B result corrupted")
}

func TestEngine_IdleStepsHoldAccumulator(t *testing.T) {
	e, err := New(DefaultOptions())
	require.NoError(t, err)

	// Open a frame, fold one word, then idle.
	_, err = e.Step(Input{Word: 0x11111111, Enable: true, StartOfFrame: true})
	require.NoError(t, err)
	flush(t, e)

	held := e.Accumulator()
	for i := 0; i < 3; i++ {
		out := flush(t, e)
		assert.False(t, out.Valid)
		assert.Equal(t, held, e.Accumulator(), "idle step %d mutated the accumulator", i)
	}

	// The open frame keeps absorbing subsequent words.
	_, err = e.Step(Input{Word: 0x22222222, Enable: true, EndOfFrame: true})
	require.NoError(t, err)
	out := flush(t, e)
	require.True(t, out.Valid)

	stream := binary.LittleEndian.AppendUint32(nil, 0x11111111)
	stream = binary.LittleEndian.AppendUint32(stream, 0x22222222)
	assert.Equal(t, crc.Checksum(stream), out.Result)
}

func TestEngine_ResetOverridesInFlight(t *testing.T) {
	e, err := New(DefaultOptions())
	require.NoError(t, err)

	// Capture a word and an end flag, then reset before they take effect.
	_, err = e.Step(Input{Word: 0xDEADBEEF, Enable: true, StartOfFrame: true, EndOfFrame: true})
	require.NoError(t, err)

	e.Reset()
	assert.Equal(t, crc.Seed, e.Accumulator())

	out := flush(t, e)
	assert.False(t, out.Valid, "in-flight end-of-frame survived reset")
	assert.Equal(t, crc.Seed, e.Accumulator(), "in-flight word survived reset")

	// The engine is fully usable after reset.
	driveFrame(t, e, []uint32{0x12345678})
	out = flush(t, e)
	require.True(t, out.Valid)
	assert.Equal(t, uint32(0xAF6D87D2), out.Result)
}

func TestEngine_ViolationReporting(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want []Violation
	}{
		{
			"start without enable",
			Input{Word: 1, StartOfFrame: true},
			[]Violation{ViolationStartWithoutEnable},
		},
		{
			"end without enable",
			Input{Word: 1, EndOfFrame: true},
			[]Violation{ViolationEndWithoutEnable},
		},
		{
			"both without enable",
			Input{Word: 1, StartOfFrame: true, EndOfFrame: true},
			[]Violation{ViolationStartWithoutEnable, ViolationEndWithoutEnable},
		},
		{
			"enabled flags are legal",
			Input{Word: 1, Enable: true, StartOfFrame: true, EndOfFrame: true},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(DefaultOptions())
			require.NoError(t, err)

			before := e.Accumulator()
			out, err := e.Step(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Violations)

			if !tt.in.Enable {
				// Advisory only: the flagged word must not reach the accumulator.
				flush(t, e)
				assert.Equal(t, before, e.Accumulator())
			}
		})
	}
}

func TestEngine_ViolationIgnoresEndFlagInSingleWordMode(t *testing.T) {
	e, err := New(SingleWordOptions())
	require.NoError(t, err)

	out, err := e.Step(Input{Word: 1, EndOfFrame: true})
	require.NoError(t, err)
	assert.Empty(t, out.Violations, "end-of-frame does not exist in single-word mode")
}

func TestEngine_StrictMode(t *testing.T) {
	opts := DefaultOptions()
	opts.Strict = true
	e, err := New(opts)
	require.NoError(t, err)

	out, err := e.Step(Input{Word: 1, StartOfFrame: true})
	require.ErrorIs(t, err, ErrSequencing)
	assert.Equal(t, []Violation{ViolationStartWithoutEnable}, out.Violations)

	// The engine keeps running after a strict failure.
	driveFrame(t, e, []uint32{0x12345678})
	res := flush(t, e)
	require.True(t, res.Valid)
	assert.Equal(t, uint32(0xAF6D87D2), res.Result)
}

func TestEngine_Stats(t *testing.T) {
	e, err := New(DefaultOptions())
	require.NoError(t, err)

	driveFrame(t, e, []uint32{1, 2, 3})
	flush(t, e)
	_, err = e.Step(Input{Word: 9, StartOfFrame: true}) // violation
	require.NoError(t, err)

	stats := e.Stats()
	assert.Equal(t, uint64(5), stats.Steps)
	assert.Equal(t, uint64(3), stats.WordsFolded)
	assert.Equal(t, uint64(1), stats.FramesCompleted)
	assert.Equal(t, uint64(1), stats.Violations)
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"defaults", func(*Options) {}, false},
		{"single-word preset", func(o *Options) { *o = *SingleWordOptions() }, false},
		{"bad form", func(o *Options) { o.Form = 9 }, true},
		{"bad mode", func(o *Options) { o.Mode = 9 }, true},
		{"bad finalize", func(o *Options) { o.Finalize = 9 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(opts)
			err := opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew_NilOptionsUsesDefaults(t *testing.T) {
	e, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, crc.Seed, e.Accumulator())
}
