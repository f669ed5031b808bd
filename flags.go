package main

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// configFileFlag names an optional json, yaml or toml config file.
var configFileFlag = pflag.String("config", "", "path to a config file (json, yaml or toml)")

// Command-line flags mapped onto config keys. Only flags set explicitly
// override the config file and environment.
var flagBindings = []struct {
	key  string
	name string
}{
	{"screen.width", "width"},
	{"screen.height", "height"},
	{"screen.aspect", "aspect"},
	{"screen.scale", "scale"},
	{"loop.tps", "tps"},
	{"loop.pacing", "pacing"},
	{"loop.pacingScale", "pacing-scale"},
	{"loop.fixedDelta", "fixed-delta"},
	{"floor.texture", "texture"},
	{"floor.near", "near"},
	{"floor.far", "far"},
	{"ceiling.texture", "ceiling-texture"},
	{"ceiling.near", "ceiling-near"},
	{"ceiling.far", "ceiling-far"},
	{"camera.fov", "fov"},
	{"camera.angle", "angle"},
	{"render.textureEdge", "texture-edge"},
	{"render.opencl", "opencl"},
	{"logLevel", "log-level"},
	{"debug", "debug"},
	{"headless", "headless"},
	{"terminal", "terminal"},
	{"frames", "frames"},
	{"hold", "hold"},
	{"snapshot", "snapshot"},
	{"displayFallback", "display-fallback"},
	{"cpuProfile", "cpuprofile"},
}

func init() {
	defineFlags(pflag.CommandLine)
}

// defineFlags registers every flag in flagBindings on fs.
func defineFlags(fs *pflag.FlagSet) {
	fs.Int("width", defaultScreenWidth, "logical screen width in pixels")
	fs.Int("height", defaultScreenHeight, "logical screen height in pixels")
	fs.Float64("aspect", defaultAspectRatio, "window aspect ratio (width/height)")
	fs.Int("scale", defaultWindowScale, "window scale factor")
	fs.Int("tps", defaultTPS, "target simulation ticks per second")
	fs.String("pacing", defaultPacingPolicy, "per-tick delta policy: adaptive or fixed")
	fs.Float64("pacing-scale", defaultPacingScale, "adaptive policy scale (delta = scale / measured fps)")
	fs.Float64("fixed-delta", defaultFixedDelta, "per-tick delta for the fixed policy")
	fs.String("texture", defaultFloorTexture, "floor texture image")
	fs.Float64("near", defaultNear, "floor near distance in world units")
	fs.Float64("far", defaultFar, "floor far distance in world units")
	fs.String("ceiling-texture", "", "optional ceiling texture image")
	fs.Float64("ceiling-near", defaultNear, "ceiling near distance in world units")
	fs.Float64("ceiling-far", defaultFar, "ceiling far distance in world units")
	fs.Float64("fov", defaultFOV, "camera field of view in radians")
	fs.Float64("angle", defaultStartAngle, "initial camera heading in radians")
	fs.String("texture-edge", defaultTextureEdge, "upper texture bound test: inclusive (tx > w rejected) or exclusive (tx >= w rejected)")
	fs.Bool("opencl", false, "project planes with the OpenCL backend (requires -tags opencl)")
	fs.String("log-level", defaultLogLevel, "log level: trace, debug, info, warn or error")
	fs.Bool("debug", false, "show the debug overlay and enable near/far tuning with the arrow keys")
	fs.Bool("headless", false, "run without a window")
	fs.Bool("terminal", false, "draw into the terminal instead of a window (w/a/s/d to move, q or esc to quit)")
	fs.Int("frames", 0, "stop after this many rendered frames (0 = run until quit)")
	fs.StringSlice("hold", nil, "actions held for the whole headless run, e.g. forward,turn-right")
	fs.String("snapshot", "", "write the last presented frame to this PNG file on exit")
	fs.Bool("display-fallback", false, "continue headless when the window cannot be created")
	fs.String("cpuprofile", "", "write a CPU profile to this file")
}

// bindFlags attaches the parsed command-line flags to their config keys.
func bindFlags(fs *pflag.FlagSet) error {
	for _, b := range flagBindings {
		f := fs.Lookup(b.name)
		if f == nil {
			return fmt.Errorf("flag %q is not defined", b.name)
		}
		if err := viper.BindPFlag(b.key, f); err != nil {
			return fmt.Errorf("binding flag %q: %w", b.name, err)
		}
	}
	return nil
}
