package main

import (
	"fmt"
	"strings"
	"time"
)

// reportInterval is the wall-clock window over which throughput is measured.
const reportInterval = time.Second

// pacingPolicy chooses the per-tick movement delta from measured throughput.
type pacingPolicy interface {
	// initial returns the delta used before the first report.
	initial(targetTPS int) float64
	// next returns the delta after a report window that completed frames ticks.
	next(frames int, current float64) float64
}

// adaptivePacing scales movement by the inverse of the measured frame count,
// so a slower machine takes larger steps.
type adaptivePacing struct {
	scale float64
}

func (a adaptivePacing) initial(targetTPS int) float64 {
	return a.next(targetTPS, 0)
}

func (a adaptivePacing) next(frames int, current float64) float64 {
	if frames <= 0 {
		return current
	}
	return (1 / float64(frames)) * a.scale
}

// fixedPacing always reports the same delta.
type fixedPacing struct {
	delta float64
}

func (f fixedPacing) initial(int) float64 { return f.delta }

func (f fixedPacing) next(int, float64) float64 { return f.delta }

func newPacingPolicy(name string, scale, fixedDelta float64) (pacingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "adaptive":
		return adaptivePacing{scale: scale}, nil
	case "fixed":
		return fixedPacing{delta: fixedDelta}, nil
	default:
		return nil, fmt.Errorf("%w: pacing policy %q (want adaptive or fixed)", ErrInvalidConfig, name)
	}
}

// pacerStep describes what one pacer iteration did.
type pacerStep struct {
	ticked   bool
	reported bool
	fps      int
	delta    float64
}

// framePacer is a fixed-timestep accumulator. At most one tick runs per
// step; any backlog stays in the accumulator for later steps.
type framePacer struct {
	running     bool
	timePerTick time.Duration
	lastTime    time.Time
	accumulator float64
	timer       time.Duration
	frames      int
	tickDelta   float64
	lastFPS     int
	policy      pacingPolicy
}

func newFramePacer(targetTPS int, policy pacingPolicy, now time.Time) *framePacer {
	return &framePacer{
		running:     true,
		timePerTick: time.Second / time.Duration(targetTPS),
		lastTime:    now,
		tickDelta:   policy.initial(targetTPS),
		policy:      policy,
	}
}

// Running reports whether the pacer has not been stopped.
func (p *framePacer) Running() bool { return p.running }

// Stop moves the pacer to its terminal state.
func (p *framePacer) Stop() { p.running = false }

// Delta returns the per-tick delta currently handed to ticks.
func (p *framePacer) Delta() float64 { return p.tickDelta }

// LastFPS returns the frame count of the most recent report window.
func (p *framePacer) LastFPS() int { return p.lastFPS }

// Step folds the time since the previous step into the accumulator and, when
// a whole tick is owed, runs frame once with the current delta. A frame error
// stops the pacer and is returned.
func (p *framePacer) Step(now time.Time, frame func(delta float64) error) (pacerStep, error) {
	var res pacerStep
	if !p.running {
		return res, nil
	}
	elapsed := now.Sub(p.lastTime)
	if elapsed < 0 {
		elapsed = 0
	}
	p.accumulator += float64(elapsed) / float64(p.timePerTick)
	p.timer += elapsed
	p.lastTime = now

	if p.accumulator >= 1 {
		if err := frame(p.tickDelta); err != nil {
			p.Stop()
			return res, err
		}
		p.accumulator--
		p.frames++
		res.ticked = true
	}

	if p.timer >= reportInterval {
		p.lastFPS = p.frames
		p.tickDelta = p.policy.next(p.frames, p.tickDelta)
		p.timer = 0
		p.frames = 0
		res.reported = true
		res.fps = p.lastFPS
	}
	res.delta = p.tickDelta
	return res, nil
}
