package harness

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/vnykmshr/crcstream/internal/crc"
	"github.com/vnykmshr/crcstream/internal/engine"
	"github.com/vnykmshr/crcstream/internal/logging"
)

// Collector defines the harness-side metrics interface.
type Collector interface {
	RecordMismatch()
	SetScoreboardDepth(depth int)
	ObserveStepDuration(d time.Duration)
}

// Options configures a simulation run.
type Options struct {
	// Engine configures the engine under test (nil = Ethernet preset)
	Engine *engine.Options

	// Frames is the number of frames to drive
	// Default: 100
	Frames int

	// MinWords and MaxWords bound the frame length in words
	// Default: 1..10
	MinWords int
	MaxWords int

	// Seed seeds the stimulus generator, for reproducible runs
	Seed int64

	// IdleProbability is the chance of inserting an idle step between
	// frames. Zero drives every frame back-to-back.
	IdleProbability float64

	// MaxSteps is the watchdog budget; the run aborts with
	// ErrWatchdogExpired when exceeded. Zero derives a budget from the
	// frame count.
	MaxSteps uint64

	// Logger for structured logging (nil = no logging)
	Logger logging.Logger

	// Metrics for harness metrics (nil = no metrics)
	Metrics Collector
}

// DefaultOptions returns sensible defaults for a simulation run.
func DefaultOptions() *Options {
	return &Options{
		Engine:          engine.DefaultOptions(),
		Frames:          100,
		MinWords:        1,
		MaxWords:        10,
		Seed:            1,
		IdleProbability: 0.25,
	}
}

// Report summarizes a completed simulation run.
type Report struct {
	// FramesChecked is the number of frames whose results were verified
	FramesChecked uint64

	// StepsRun is the number of engine steps driven
	StepsRun uint64

	// WordsDriven is the number of enabled words presented
	WordsDriven uint64

	// Violations is the number of sequencing violations the engine flagged
	Violations uint64

	// Mismatches is the number of results disagreeing with the reference
	Mismatches uint64
}

// Driver owns an engine instance and replays generated stimulus against it,
// checking every valid result against the scoreboard.
type Driver struct {
	opts *Options
	eng  *engine.Engine
	gen  *Generator
	sb   *Scoreboard
	log  logging.Logger

	report Report
}

// NewDriver creates a driver and the engine under test.
func NewDriver(opts *Options) (*Driver, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Engine == nil {
		opts.Engine = engine.DefaultOptions()
	}
	if opts.Frames <= 0 {
		return nil, fmt.Errorf("frame count must be positive, got %d", opts.Frames)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoopLogger{}
	}
	if opts.MaxSteps == 0 {
		// Generous budget: every word plus idle gaps plus the pipeline flush.
		opts.MaxSteps = uint64(opts.Frames)*uint64(opts.MaxWords+2) + 16
	}

	eng, err := engine.New(opts.Engine)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine under test: %w", err)
	}

	return &Driver{
		opts: opts,
		eng:  eng,
		gen:  NewGenerator(opts.Seed, opts.MinWords, opts.MaxWords),
		sb:   NewScoreboard(),
		log:  opts.Logger,
	}, nil
}

// Run drives the configured number of frames through the engine and checks
// every valid result in order. It returns the report and the first fatal
// error: scoreboard underflow, watchdog expiry, or (after the run) a
// non-zero mismatch count.
func (d *Driver) Run() (*Report, error) {
	for i := 0; i < d.opts.Frames; i++ {
		frame := d.gen.Frame()

		for _, want := range d.expectations(frame.Words) {
			d.sb.Expect(frame.ID, want)
		}
		if d.opts.Metrics != nil {
			d.opts.Metrics.SetScoreboardDepth(d.sb.Outstanding())
		}

		d.log.Debug("driving frame",
			logging.F("frame_id", frame.ID.String()),
			logging.F("words", len(frame.Words)))

		// Optional idle gap; frames are back-to-back otherwise.
		for d.opts.IdleProbability > 0 && d.gen.Chance(d.opts.IdleProbability) {
			if err := d.step(engine.Input{}); err != nil {
				return &d.report, err
			}
		}

		for j, w := range frame.Words {
			in := engine.Input{
				Word:         w,
				Enable:       true,
				StartOfFrame: j == 0,
				EndOfFrame:   j == len(frame.Words)-1,
			}
			d.report.WordsDriven++
			if err := d.step(in); err != nil {
				return &d.report, err
			}
		}
	}

	// Flush the pipeline until the scoreboard drains. Two idle steps cover
	// the capture and fold latency; the watchdog bounds the loop regardless.
	for d.sb.Outstanding() > 0 {
		if err := d.step(engine.Input{}); err != nil {
			return &d.report, err
		}
	}

	d.report.Violations = d.eng.Stats().Violations

	d.log.Info("simulation complete",
		logging.F("frames", d.report.FramesChecked),
		logging.F("steps", d.report.StepsRun),
		logging.F("mismatches", d.report.Mismatches))

	if d.report.Mismatches > 0 {
		return &d.report, fmt.Errorf("%w: %d of %d results",
			ErrResultMismatch, d.report.Mismatches, d.report.FramesChecked)
	}
	return &d.report, nil
}

// step advances the engine by one step under the watchdog and routes any
// valid result to the scoreboard.
func (d *Driver) step(in engine.Input) error {
	if d.report.StepsRun >= d.opts.MaxSteps {
		return fmt.Errorf("%w: %d steps with %d expectations outstanding",
			ErrWatchdogExpired, d.report.StepsRun, d.sb.Outstanding())
	}
	d.report.StepsRun++

	start := time.Now()
	out, err := d.eng.Step(in)
	if d.opts.Metrics != nil {
		d.opts.Metrics.ObserveStepDuration(time.Since(start))
	}
	if err != nil {
		return fmt.Errorf("engine step failed: %w", err)
	}

	if !out.Valid {
		return nil
	}

	d.report.FramesChecked++
	if err := d.sb.Observe(out.Result); err != nil {
		if !errors.Is(err, ErrResultMismatch) {
			return err // underflow is fatal
		}
		d.report.Mismatches++
		if d.opts.Metrics != nil {
			d.opts.Metrics.RecordMismatch()
		}
		d.log.Error("result mismatch", logging.F("error", err.Error()))
	}
	if d.opts.Metrics != nil {
		d.opts.Metrics.SetScoreboardDepth(d.sb.Outstanding())
	}
	return nil
}

// expectations computes the reference results for one frame through an
// independent byte-serial path: one expectation per word in single-word
// mode, one per frame in multi-word mode.
func (d *Driver) expectations(words []uint32) []uint32 {
	acc := d.opts.Engine.Seed
	var out []uint32

	for _, w := range words {
		var buf [4]byte
		if d.opts.Engine.Form == engine.Forward {
			binary.BigEndian.PutUint32(buf[:], w)
			acc = crc.UpdateMSB(acc, buf[:])
		} else {
			binary.LittleEndian.PutUint32(buf[:], w)
			acc = crc.UpdateLSB(acc, buf[:])
		}
		if d.opts.Engine.Mode == engine.SingleWord {
			out = append(out, d.finalize(acc))
		}
	}

	if d.opts.Engine.Mode == engine.MultiWordFrame {
		out = append(out, d.finalize(acc))
	}
	return out
}

func (d *Driver) finalize(acc uint32) uint32 {
	if d.opts.Engine.Finalize == engine.Complement {
		return crc.Finalize(acc)
	}
	return acc
}

