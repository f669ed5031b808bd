package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"
)

// Defaults for the renderer. These match the values the renderer was tuned
// with; every one can be overridden from a config file, the environment or a
// flag.
const (
	defaultScreenWidth  = 800
	defaultScreenHeight = 600
	defaultAspectRatio  = 1.33
	defaultWindowScale  = 1
	defaultTPS          = 72
	defaultPacingScale  = 25.0
	defaultFloorTexture = "res/gfx/floor.bmp"
	defaultNear         = 0.001
	defaultFar          = 0.06
	defaultFOV          = 1.57
	defaultStartAngle   = 0.1
	defaultMoveSpeed    = 0.01
	defaultTurnSpeed    = 0.1
	distanceTuningStep  = 0.001
	envPrefix           = "MODE7"
	defaultLogLevel     = "info"
	defaultPacingPolicy = "adaptive"
	defaultTextureEdge  = "inclusive"
	defaultWindowTitle  = "Mode7"
	defaultFixedDelta   = defaultPacingScale / defaultTPS
)

// Config holds every startup input of the renderer.
type Config struct {
	ScreenWidth  int
	ScreenHeight int
	AspectRatio  float64
	WindowScale  int

	TPS         int
	Pacing      string
	PacingScale float64
	FixedDelta  float64

	FloorTexture   string
	FloorNear      float64
	FloorFar       float64
	CeilingTexture string
	CeilingNear    float64
	CeilingFar     float64

	StartX     float64
	StartY     float64
	StartAngle float64
	FOV        float64
	MoveSpeed  float64
	TurnSpeed  float64

	TextureEdge string
	OpenCL      bool

	LogLevel        string
	Debug           bool
	Headless        bool
	Terminal        bool
	Frames          int
	Hold            []string
	Snapshot        string
	DisplayFallback bool
	CPUProfile      string
}

func setConfigDefaults() {
	viper.SetDefault("screen.width", defaultScreenWidth)
	viper.SetDefault("screen.height", defaultScreenHeight)
	viper.SetDefault("screen.aspect", defaultAspectRatio)
	viper.SetDefault("screen.scale", defaultWindowScale)

	viper.SetDefault("loop.tps", defaultTPS)
	viper.SetDefault("loop.pacing", defaultPacingPolicy)
	viper.SetDefault("loop.pacingScale", defaultPacingScale)
	viper.SetDefault("loop.fixedDelta", defaultFixedDelta)

	viper.SetDefault("floor.texture", defaultFloorTexture)
	viper.SetDefault("floor.near", defaultNear)
	viper.SetDefault("floor.far", defaultFar)
	viper.SetDefault("ceiling.texture", "")
	viper.SetDefault("ceiling.near", defaultNear)
	viper.SetDefault("ceiling.far", defaultFar)

	viper.SetDefault("camera.x", 0.0)
	viper.SetDefault("camera.y", 0.0)
	viper.SetDefault("camera.angle", defaultStartAngle)
	viper.SetDefault("camera.fov", defaultFOV)
	viper.SetDefault("camera.moveSpeed", defaultMoveSpeed)
	viper.SetDefault("camera.turnSpeed", defaultTurnSpeed)

	viper.SetDefault("render.textureEdge", defaultTextureEdge)
	viper.SetDefault("render.opencl", false)

	viper.SetDefault("logLevel", defaultLogLevel)
	viper.SetDefault("debug", false)
	viper.SetDefault("headless", false)
	viper.SetDefault("terminal", false)
	viper.SetDefault("frames", 0)
	viper.SetDefault("hold", []string{})
	viper.SetDefault("snapshot", "")
	viper.SetDefault("displayFallback", false)
	viper.SetDefault("cpuProfile", "")
}

// loadConfig resolves the configuration from defaults, the optional file at
// path, MODE7_* environment variables and any flags bound to viper.
func loadConfig(path string) (Config, error) {
	setConfigDefaults()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := Config{
		ScreenWidth:  viper.GetInt("screen.width"),
		ScreenHeight: viper.GetInt("screen.height"),
		AspectRatio:  viper.GetFloat64("screen.aspect"),
		WindowScale:  viper.GetInt("screen.scale"),

		TPS:         viper.GetInt("loop.tps"),
		Pacing:      viper.GetString("loop.pacing"),
		PacingScale: viper.GetFloat64("loop.pacingScale"),
		FixedDelta:  viper.GetFloat64("loop.fixedDelta"),

		FloorTexture:   viper.GetString("floor.texture"),
		FloorNear:      viper.GetFloat64("floor.near"),
		FloorFar:       viper.GetFloat64("floor.far"),
		CeilingTexture: viper.GetString("ceiling.texture"),
		CeilingNear:    viper.GetFloat64("ceiling.near"),
		CeilingFar:     viper.GetFloat64("ceiling.far"),

		StartX:     viper.GetFloat64("camera.x"),
		StartY:     viper.GetFloat64("camera.y"),
		StartAngle: viper.GetFloat64("camera.angle"),
		FOV:        viper.GetFloat64("camera.fov"),
		MoveSpeed:  viper.GetFloat64("camera.moveSpeed"),
		TurnSpeed:  viper.GetFloat64("camera.turnSpeed"),

		TextureEdge: viper.GetString("render.textureEdge"),
		OpenCL:      viper.GetBool("render.opencl"),

		LogLevel:        viper.GetString("logLevel"),
		Debug:           viper.GetBool("debug"),
		Headless:        viper.GetBool("headless"),
		Terminal:        viper.GetBool("terminal"),
		Frames:          viper.GetInt("frames"),
		Hold:            viper.GetStringSlice("hold"),
		Snapshot:        viper.GetString("snapshot"),
		DisplayFallback: viper.GetBool("displayFallback"),
		CPUProfile:      viper.GetString("cpuProfile"),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validate reports the first out-of-range value.
func (c Config) validate() error {
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return fmt.Errorf("%w: screen size %dx%d", ErrInvalidConfig, c.ScreenWidth, c.ScreenHeight)
	}
	if c.ScreenHeight < 4 {
		return fmt.Errorf("%w: screen height %d leaves no rows to project", ErrInvalidConfig, c.ScreenHeight)
	}
	if !(c.AspectRatio > 0) {
		return fmt.Errorf("%w: aspect ratio %g", ErrInvalidConfig, c.AspectRatio)
	}
	if c.WindowScale <= 0 {
		return fmt.Errorf("%w: window scale %d", ErrInvalidConfig, c.WindowScale)
	}
	if c.TPS <= 0 {
		return fmt.Errorf("%w: ticks per second %d", ErrInvalidConfig, c.TPS)
	}
	if _, err := newPacingPolicy(c.Pacing, c.PacingScale, c.FixedDelta); err != nil {
		return err
	}
	if c.FloorTexture == "" {
		return fmt.Errorf("%w: floor texture path is empty", ErrInvalidConfig)
	}
	if err := checkDistances(c.FloorNear, c.FloorFar); err != nil {
		return fmt.Errorf("floor: %w", err)
	}
	if c.CeilingTexture != "" {
		if err := checkDistances(c.CeilingNear, c.CeilingFar); err != nil {
			return fmt.Errorf("ceiling: %w", err)
		}
	}
	if !(c.FOV > 0 && c.FOV < math.Pi) {
		return fmt.Errorf("%w: field of view %g must be in (0, pi)", ErrInvalidConfig, c.FOV)
	}
	if _, err := parseEdgeBound(c.TextureEdge); err != nil {
		return err
	}
	if _, err := parseActions(c.Hold); err != nil {
		return err
	}
	if c.Headless && c.Terminal {
		return fmt.Errorf("%w: headless and terminal modes are exclusive", ErrInvalidConfig)
	}
	if c.Frames < 0 {
		return fmt.Errorf("%w: frame limit %d", ErrInvalidConfig, c.Frames)
	}
	return nil
}

// windowSize returns the outer window size for the logical screen.
func (c Config) windowSize() (int, int) {
	h := c.ScreenHeight * c.WindowScale
	return int(math.Round(float64(h) * c.AspectRatio)), h
}
