package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

func main() {
	pflag.Parse()
	if err := run(); err != nil {
		logger.Error().Err(err).Msg("mode7 exited with error")
		os.Exit(1)
	}
}

func run() error {
	if err := bindFlags(pflag.CommandLine); err != nil {
		return err
	}
	cfg, err := loadConfig(*configFileFlag)
	if err != nil {
		setupLogging(os.Stderr, defaultLogLevel)
		return err
	}
	setupLogging(os.Stderr, cfg.LogLevel)

	if cfg.CPUProfile != "" {
		stop, err := startCPUProfile(cfg.CPUProfile)
		if err != nil {
			return err
		}
		defer stop()
		logger.Info().Str("path", cfg.CPUProfile).Msg("recording CPU profile")
	}

	renderer, err := selectRenderer(cfg)
	if err != nil {
		return err
	}
	fb := newFramebuffer(cfg.ScreenWidth, cfg.ScreenHeight)
	var sink pixelSink = fb

	var input inputSource = keyboardInput{tuning: cfg.Debug}
	var term *terminalDisplay
	var termLog bytes.Buffer
	closeTerm := func() {
		term.Close()
		setupLogging(os.Stderr, cfg.LogLevel)
		_, _ = os.Stderr.Write(termLog.Bytes())
	}
	switch {
	case cfg.Headless:
		held, err := parseActions(cfg.Hold)
		if err != nil {
			renderer.Close()
			return err
		}
		input = scriptedInput{state: held}
	case cfg.Terminal:
		term, err = newTerminalDisplay(fb, cfg.Debug, nil)
		if err != nil {
			if !cfg.DisplayFallback {
				renderer.Close()
				return err
			}
			logger.Error().Err(err).Msg("continuing without a display")
			input = scriptedInput{}
		} else {
			sink, input = term, term
			// Log lines would draw over the screen; replay them on exit.
			setupLogging(&termLog, cfg.LogLevel)
		}
	}

	e, err := newEngine(cfg, renderer, sink, input, nil)
	if err != nil {
		if term != nil {
			closeTerm()
		}
		renderer.Close()
		return err
	}
	logger.Info().
		Int("width", cfg.ScreenWidth).
		Int("height", cfg.ScreenHeight).
		Int("tps", cfg.TPS).
		Str("pacing", cfg.Pacing).
		Str("floor", cfg.FloorTexture).
		Msg("renderer initialized")

	switch {
	case term != nil:
		err = runHeadless(cfg, e, fb)
		closeTerm()
	case cfg.Headless || cfg.Terminal:
		err = runHeadless(cfg, e, fb)
	default:
		err = runWindowed(cfg, newGame(e, fb, cfg.Debug))
		if errors.Is(err, ErrDisplayInit) && cfg.DisplayFallback {
			logger.Error().Err(err).Msg("continuing without a display")
			e.input = scriptedInput{}
			err = runHeadless(cfg, e, fb)
		}
	}
	e.Close()
	return err
}

// selectRenderer returns the OpenCL projector when requested and available,
// and the CPU projector otherwise.
func selectRenderer(cfg Config) (planeRenderer, error) {
	edge, err := parseEdgeBound(cfg.TextureEdge)
	if err != nil {
		return nil, err
	}
	if cfg.OpenCL {
		p, err := newOpenCLProjector(edge)
		if err == nil {
			logger.Info().Str("device", p.DeviceName()).Msg("OpenCL projector enabled")
			return p, nil
		}
		logger.Warn().Err(err).Msg("OpenCL projector unavailable, using CPU")
	}
	return cpuProjector{edge: edge}, nil
}

// runHeadless drives the engine on the calling goroutine until it stops, the
// frame limit is reached or the process is interrupted.
func runHeadless(cfg Config, e *engine, fb *framebuffer) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := e.run(ctx, cfg.Frames); err != nil {
		return err
	}
	logger.Info().Int("frames", e.Rendered()).Msg("headless run finished")
	if cfg.Snapshot != "" {
		return writeSnapshot(cfg.Snapshot, fb)
	}
	return nil
}

func writeSnapshot(path string, fb *framebuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot %q: %w", path, err)
	}
	if err := png.Encode(f, fb.Image()); err != nil {
		f.Close()
		return fmt.Errorf("encoding snapshot %q: %w", path, err)
	}
	return f.Close()
}
