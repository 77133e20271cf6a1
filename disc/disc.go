/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

/*
Package disc implements a clock discipline engine.

It collects jittery absolute timestamps from an external time source
(typically a GNSS receiver ticking at 10Hz), filters the offset between
the source and the local clock with an EWMA, and corrects the local clock
at most once per discipline interval. Large offsets are corrected with a
hard step, small ones are handed to the kernel as a gradual slew, so the
clock converges without oscillating or jumping around on every tick.

The engine never talks to the kernel directly; the clock being disciplined
is injected through the SystemClock interface. With the default interval
of one second it behaves like a very simplified NTP discipline loop.

The engine is not safe for concurrent use. It assumes a single producer
of ticks; callers delivering ticks from multiple goroutines must serialize
calls to OnTick externally.
*/
package disc

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/eclesh/welford"
	log "github.com/sirupsen/logrus"

	"github.com/facebook/gnssdisc/stats"
)

// Defaults for Config values
const (
	// DefaultAlpha is the default EWMA smoothing factor. Smaller values
	// reject more jitter but react slower to genuine offset changes.
	DefaultAlpha = 0.2
	// DefaultStepThreshold is the filtered offset magnitude above which
	// the clock is stepped instead of slewed
	DefaultStepThreshold = 3 * time.Millisecond
	// DefaultDisciplineInterval limits how often a correction is issued
	DefaultDisciplineInterval = time.Second
)

// maxSourceMS is the largest source timestamp that still converts
// to nanoseconds without overflowing int64
const maxSourceMS = uint64(math.MaxInt64 / int64(time.Millisecond))

// ErrSampleRange is returned when a source timestamp cannot be
// represented as nanoseconds
var ErrSampleRange = errors.New("source timestamp overflows nanosecond range")

// SystemClock is the boundary between the engine and the clock it
// disciplines. Production code uses clock.Realtime, tests substitute
// a fake and assert on the corrections the engine requested.
type SystemClock interface {
	// Now returns current time of the disciplined clock
	Now() (time.Time, error)
	// Step sets the clock to the absolute target time
	Step(target time.Time) error
	// AdjOffsetUS requests kernel-driven gradual correction by offset microseconds
	AdjOffsetUS(offsetUS int64) error
	// SetSync marks the clock as synchronized
	SetSync() error
}

// Correction is the outcome of a single discipline decision
type Correction uint8

// All the corrections the engine can decide on
const (
	// CorrectionNone means the tick only updated the filter
	CorrectionNone Correction = iota
	// CorrectionStep means the clock was set to an absolute target
	CorrectionStep
	// CorrectionSlew means a gradual adjustment was handed to the kernel
	CorrectionSlew
)

func (c Correction) String() string {
	switch c {
	case CorrectionNone:
		return "NONE"
	case CorrectionStep:
		return "STEP"
	case CorrectionSlew:
		return "SLEW"
	}
	return "UNSUPPORTED"
}

// Config holds the discipline policy knobs
type Config struct {
	// Alpha is the EWMA smoothing factor, must be in (0, 1]
	Alpha float64
	// StepThreshold is the filtered offset magnitude above which we step.
	// At or below it we slew.
	StepThreshold time.Duration
	// DisciplineInterval is the minimum width of a discipline cycle.
	// At most one correction is issued per cycle.
	DisciplineInterval time.Duration
}

// DefaultConfig generates default engine config
func DefaultConfig() Config {
	return Config{
		Alpha:              DefaultAlpha,
		StepThreshold:      DefaultStepThreshold,
		DisciplineInterval: DefaultDisciplineInterval,
	}
}

// Validate checks config for obvious mistakes
func (c Config) Validate() error {
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("smoothing factor %v must be in (0, 1]", c.Alpha)
	}
	if c.StepThreshold <= 0 {
		return fmt.Errorf("step threshold %v must be positive", c.StepThreshold)
	}
	if c.DisciplineInterval <= 0 {
		return fmt.Errorf("discipline interval %v must be positive", c.DisciplineInterval)
	}
	return nil
}

// Engine disciplines a single clock against a single external reference
// stream. It keeps the EWMA offset estimate between ticks and issues at
// most one correction per discipline cycle.
type Engine struct {
	cfg   Config
	sys   SystemClock
	stats stats.Stats

	// EWMA of (source time - local time), nanoseconds
	offsetNS    int64
	sampleCount uint64
	// index of the discipline cycle in which we last attempted a correction
	lastCycle int64
	// running stats over raw offsets, observability only
	jitter *welford.Stats
}

// New creates an Engine disciplining sys under the given config
func New(cfg Config, sys SystemClock, stts stats.Stats) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sys == nil {
		return nil, fmt.Errorf("no system clock to discipline")
	}
	if stts == nil {
		stts = &stats.NoopStats{}
	}
	return &Engine{
		cfg:       cfg,
		sys:       sys,
		stats:     stts,
		lastCycle: -1,
		jitter:    welford.New(),
	}, nil
}

// OnTick must be called once per external time source tick, with the
// absolute source time in milliseconds since epoch. It folds the tick
// into the offset filter and, at most once per discipline interval,
// corrects the system clock.
//
// A returned error means the tick was dropped and no state changed;
// failures to write the clock are reported via logs and counters only.
func (e *Engine) OnTick(sourceMS uint64) error {
	if sourceMS > maxSourceMS {
		e.stats.IncBadTicks()
		return fmt.Errorf("rejecting tick %d: %w", sourceMS, ErrSampleRange)
	}
	now, err := e.sys.Now()
	if err != nil {
		e.stats.IncReadErrors()
		return fmt.Errorf("reading local clock: %w", err)
	}
	e.stats.IncTicks()

	// source and local time compared at millisecond resolution,
	// matching the resolution of the input
	rawNS := (int64(sourceMS) - now.UnixMilli()) * int64(time.Millisecond)
	e.update(rawNS)
	e.disciplineIfNeeded(now)
	return nil
}

// update folds a raw offset observation into the EWMA. The very first
// sample seeds the estimate directly, so there is no cold start biased
// towards zero.
func (e *Engine) update(rawNS int64) {
	if e.sampleCount == 0 {
		e.offsetNS = rawNS
	} else {
		e.offsetNS = int64((1.0-e.cfg.Alpha)*float64(e.offsetNS) + e.cfg.Alpha*float64(rawNS))
	}
	e.sampleCount++
	// no outlier rejection here: a wild sample moves the estimate
	// proportionally to Alpha. jitter stats only feed monitoring.
	e.jitter.Add(float64(rawNS))
	e.stats.SetFilteredOffsetNS(e.offsetNS)
	if e.sampleCount > 1 {
		e.stats.SetOffsetJitterNS(int64(e.jitter.Stddev()))
	}
	log.Debugf("sample %d, raw offset %dus, filtered offset %.3fms", e.sampleCount-1, rawNS/1000, float64(e.offsetNS)/1e6)
}

// disciplineIfNeeded corrects the clock at most once per discipline cycle
func (e *Engine) disciplineIfNeeded(now time.Time) Correction {
	cycle := now.UnixNano() / int64(e.cfg.DisciplineInterval)
	if cycle == e.lastCycle {
		return CorrectionNone
	}
	e.lastCycle = cycle

	absOffsetNS := e.offsetNS
	if absOffsetNS < 0 {
		absOffsetNS = -absOffsetNS
	}
	log.Infof("filtered offset %.3fms", float64(e.offsetNS)/1e6)

	if absOffsetNS > e.cfg.StepThreshold.Nanoseconds() {
		e.step()
		return CorrectionStep
	}
	e.slew()
	return CorrectionSlew
}

// step sets the clock to local time plus the filtered offset. The
// estimate is forgotten after the attempt whether or not the write
// succeeded: the next cycle gets a fresh chance one interval later,
// and re-applying a stale multi-millisecond estimate on top of a
// possibly corrected clock is worse than starting over.
func (e *Engine) step() {
	stepped := time.Duration(e.offsetNS)
	e.offsetNS = 0
	e.stats.IncSteps()
	now, err := e.sys.Now()
	if err != nil {
		e.stats.IncStepErrors()
		log.Errorf("reading clock before step: %v", err)
		return
	}
	if err := e.sys.Step(now.Add(stepped)); err != nil {
		e.stats.IncStepErrors()
		log.Errorf("stepping clock by %.3fms: %v", float64(stepped)/1e6, err)
		return
	}
	log.Infof("clock stepped by %.3fms", float64(stepped)/1e6)
}

// slew hands the filtered offset to the kernel as a bounded gradual
// adjustment. The estimate is kept: the kernel consumes the requested
// offset over time, and fresh ticks keep superseding the estimate.
func (e *Engine) slew() {
	e.stats.IncSlews()
	if err := e.sys.AdjOffsetUS(e.offsetNS / 1000); err != nil {
		e.stats.IncSlewErrors()
		log.Errorf("slewing clock by %.3fms: %v", float64(e.offsetNS)/1e6, err)
		return
	}
	if err := e.sys.SetSync(); err != nil {
		log.Debugf("failed to set clock sync state: %v", err)
	}
	log.Infof("clock slewed by %.3fms", float64(e.offsetNS)/1e6)
}

// Offset returns the current filtered offset estimate
func (e *Engine) Offset() time.Duration {
	return time.Duration(e.offsetNS)
}

// SampleCount returns how many ticks the filter consumed
func (e *Engine) SampleCount() uint64 {
	return e.sampleCount
}

// Jitter returns the standard deviation of raw offsets seen so far
func (e *Engine) Jitter() time.Duration {
	if e.sampleCount < 2 {
		return 0
	}
	return time.Duration(e.jitter.Stddev())
}
