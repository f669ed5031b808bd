package main

import (
	"context"
	"fmt"
	"time"
)

// engine owns the run state and executes loop iterations: poll input, run a
// pacer step that ticks and renders when a tick is owed, present.
type engine struct {
	screenW, screenH int
	fov              float64
	tuning           bool

	floor   *Plane
	ceiling *Plane
	camera  Camera
	motion  cameraMotion
	pacer   *framePacer

	renderer planeRenderer
	sink     pixelSink
	input    inputSource
	clock    func() time.Time

	rendered int
	closed   bool
}

// newEngine loads the planes named by cfg. A texture failure is returned
// before any loop state exists.
func newEngine(cfg Config, renderer planeRenderer, sink pixelSink, input inputSource, clock func() time.Time) (*engine, error) {
	policy, err := newPacingPolicy(cfg.Pacing, cfg.PacingScale, cfg.FixedDelta)
	if err != nil {
		return nil, err
	}
	floor, err := loadPlane(cfg.FloorTexture, cfg.FloorNear, cfg.FloorFar, Floor)
	if err != nil {
		return nil, fmt.Errorf("loading floor: %w", err)
	}
	var ceiling *Plane
	if cfg.CeilingTexture != "" {
		ceiling, err = loadPlane(cfg.CeilingTexture, cfg.CeilingNear, cfg.CeilingFar, Ceiling)
		if err != nil {
			floor.Destroy()
			return nil, fmt.Errorf("loading ceiling: %w", err)
		}
	}
	e := newEngineWithPlanes(cfg, floor, ceiling, policy, renderer, sink, input, clock)
	return e, nil
}

func newEngineWithPlanes(cfg Config, floor, ceiling *Plane, policy pacingPolicy, renderer planeRenderer, sink pixelSink, input inputSource, clock func() time.Time) *engine {
	if clock == nil {
		clock = time.Now
	}
	return &engine{
		screenW:  cfg.ScreenWidth,
		screenH:  cfg.ScreenHeight,
		fov:      cfg.FOV,
		tuning:   cfg.Debug,
		floor:    floor,
		ceiling:  ceiling,
		camera:   Camera{X: cfg.StartX, Y: cfg.StartY, Angle: cfg.StartAngle},
		motion:   cameraMotion{moveSpeed: cfg.MoveSpeed, turnSpeed: cfg.TurnSpeed},
		pacer:    newFramePacer(cfg.TPS, policy, clock()),
		renderer: renderer,
		sink:     sink,
		input:    input,
		clock:    clock,
	}
}

// Running reports whether the loop should keep iterating.
func (e *engine) Running() bool { return e.pacer.Running() }

// Stop requests an orderly shutdown at the next iteration.
func (e *engine) Stop() { e.pacer.Stop() }

// Rendered returns the number of frames presented so far.
func (e *engine) Rendered() int { return e.rendered }

// iterate runs one loop iteration.
func (e *engine) iterate() error {
	if !e.pacer.Running() {
		return nil
	}
	in := e.input.Poll()
	if in.Held(ActionQuit) {
		logger.Info().Msg("quit requested")
		e.pacer.Stop()
		return nil
	}
	step, err := e.pacer.Step(e.clock(), func(delta float64) error {
		if err := e.tick(in, delta); err != nil {
			return fmt.Errorf("tick: %w", err)
		}
		if err := e.render(); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("stopping loop")
		return err
	}
	if step.reported {
		logger.Info().Int("fps", step.fps).Float64("delta", step.delta).Msg("frame report")
	}
	return nil
}

func (e *engine) tick(in InputState, delta float64) error {
	e.camera = e.motion.apply(e.camera, in, delta)
	if e.tuning {
		e.tuneDistances(in, delta)
	}
	return nil
}

// tuneDistances nudges the floor plane distances from the tuning actions.
// Changes that would break 0 < near < far are ignored.
func (e *engine) tuneDistances(in InputState, delta float64) {
	near, far := e.floor.Near(), e.floor.Far()
	step := distanceTuningStep * delta
	switch {
	case in.Held(ActionFarIncrease):
		far += step
	case in.Held(ActionFarDecrease):
		far -= step
	}
	switch {
	case in.Held(ActionNearIncrease):
		near += step
	case in.Held(ActionNearDecrease):
		near -= step
	}
	if near == e.floor.Near() && far == e.floor.Far() {
		return
	}
	if err := e.floor.SetDistances(near, far); err != nil {
		logger.Debug().Err(err).Msg("plane distance change rejected")
		return
	}
	logger.Info().Float64("near", near).Float64("far", far).Msg("floor plane distances")
}

func (e *engine) render() error {
	e.sink.Clear(black)
	if err := e.renderer.RenderPlane(e.floor, e.camera, e.fov, e.screenW, e.screenH, e.sink); err != nil {
		return err
	}
	if e.ceiling != nil {
		if err := e.renderer.RenderPlane(e.ceiling, e.camera, e.fov, e.screenW, e.screenH, e.sink); err != nil {
			return err
		}
	}
	if err := e.sink.Present(); err != nil {
		return err
	}
	e.rendered++
	return nil
}

// run iterates until the pacer stops, ctx is done, or maxFrames frames have
// been presented (0 means no limit). The engine is closed on return.
func (e *engine) run(ctx context.Context, maxFrames int) error {
	defer e.Close()
	for e.pacer.Running() {
		select {
		case <-ctx.Done():
			logger.Info().Msg("loop cancelled")
			e.pacer.Stop()
			return nil
		default:
		}
		if err := e.iterate(); err != nil {
			return err
		}
		if maxFrames > 0 && e.rendered >= maxFrames {
			e.pacer.Stop()
		}
	}
	return nil
}

// Close destroys the planes and the renderer backend. It is safe to call
// more than once.
func (e *engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.floor.Destroy()
	if e.ceiling != nil {
		e.ceiling.Destroy()
	}
	e.renderer.Close()
}
