// Package config provides configuration loading and access for the ornament scene.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is wrapped by every validation failure returned from Load.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all scene configuration parameters.
type Config struct {
	Screen     ScreenConfig              `yaml:"screen"`
	Camera     CameraConfig              `yaml:"camera"`
	Tree       TreeConfig                `yaml:"tree"`
	Transition TransitionConfig          `yaml:"transition"`
	Motion     MotionConfig              `yaml:"motion"`
	Palette    map[string]string         `yaml:"palette"`
	Ornaments  map[string]OrnamentConfig `yaml:"ornaments"`
	Idle       IdleConfig                `yaml:"idle"`
	Scene      SceneConfig               `yaml:"scene"`
	Snow       SnowConfig                `yaml:"snow"`
	Parallel   ParallelConfig            `yaml:"parallel"`
	Telemetry  TelemetryConfig           `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// CameraConfig holds orbit camera limits.
type CameraConfig struct {
	Distance        float64 `yaml:"distance"`
	MinDistance     float64 `yaml:"min_distance"`
	MaxDistance     float64 `yaml:"max_distance"`
	FovY            float64 `yaml:"fov_y"`             // degrees
	MinPolar        float64 `yaml:"min_polar"`         // radians from +Y
	MaxPolar        float64 `yaml:"max_polar"`         // radians from +Y
	AutoRotateSpeed float64 `yaml:"auto_rotate_speed"` // radians per second while assembled
}

// TreeConfig holds the dimensions of the assembled cone and the dispersed cloud.
type TreeConfig struct {
	Height        float64 `yaml:"height"`
	Radius        float64 `yaml:"radius"`
	ScatterRadius float64 `yaml:"scatter_radius"`
	ViewerBias    float64 `yaml:"viewer_bias"` // 0.5 = uniform sphere, 1 = camera hemisphere only
}

// TransitionConfig holds progress damping parameters.
type TransitionConfig struct {
	AssembleRate float64 `yaml:"assemble_rate"`
	DisperseRate float64 `yaml:"disperse_rate"`
	InitialMode  string  `yaml:"initial_mode"` // "assembled" or "dispersed"
}

// MotionConfig holds per-instance evaluation constants.
type MotionConfig struct {
	FloatAmp      float64 `yaml:"float_amp"`
	BaseIdleRate  float64 `yaml:"base_idle_rate"`
	SpinGain      float64 `yaml:"spin_gain"`
	AlignPower    float64 `yaml:"align_power"`
	ApexRiseStart float64 `yaml:"apex_rise_start"`
	ApexSpinStart float64 `yaml:"apex_spin_start"`
	ApexScaleEnd  float64 `yaml:"apex_scale_end"`
	ApexBobStart  float64 `yaml:"apex_bob_start"`
	ApexBobAmp    float64 `yaml:"apex_bob_amp"`
	ApexBobSpeed  float64 `yaml:"apex_bob_speed"`
	ApexSpinRate  float64 `yaml:"apex_spin_rate"`
}

// OrnamentConfig describes one ornament type: where it sits, how it is oriented and colored.
type OrnamentConfig struct {
	Placement string `yaml:"placement"` // volume | surface | base_ring | apex

	// Cone placements
	HeightInset float64 `yaml:"height_inset"`
	RadiusInset float64 `yaml:"radius_inset"`
	YOffset     float64 `yaml:"y_offset"`
	PushOut     float64 `yaml:"push_out"` // 0 = unset (treated as 1)

	// Base ring placement
	RingRadiusMin float64 `yaml:"ring_radius_min"`
	RingRadiusMax float64 `yaml:"ring_radius_max"`
	HeightMin     float64 `yaml:"height_min"`
	HeightMax     float64 `yaml:"height_max"`

	// Apex placement
	ApexLift float64 `yaml:"apex_lift"`

	ScaleMin float64 `yaml:"scale_min"`
	ScaleMax float64 `yaml:"scale_max"`

	Orientation string  `yaml:"orientation"` // none | random_yaw | face_axis | face_outward
	TiltX       float64 `yaml:"tilt_x"`
	TiltZ       float64 `yaml:"tilt_z"`
	WiggleZ     float64 `yaml:"wiggle_z"`

	Palette []PaletteWeight `yaml:"palette"`
}

// PaletteWeight is one weighted entry of an ornament's color choice.
type PaletteWeight struct {
	Color  string  `yaml:"color"`
	Weight float64 `yaml:"weight"`
}

// IdleConfig holds the idle oscillation parameter ranges.
type IdleConfig struct {
	SpeedMin  float64 `yaml:"speed_min"`
	SpeedSpan float64 `yaml:"speed_span"`
}

// SceneConfig lists the populations created at startup.
type SceneConfig struct {
	Populations []PopulationConfig `yaml:"populations"`
}

// PopulationConfig describes one population and its rendered layers.
type PopulationConfig struct {
	Type   string   `yaml:"type"`
	Count  int      `yaml:"count"`
	Layers []string `yaml:"layers"` // empty = single default layer
}

// SnowConfig holds the falling snow dressing parameters.
type SnowConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Count          int     `yaml:"count"`
	SpreadX        float64 `yaml:"spread_x"`
	SpreadZ        float64 `yaml:"spread_z"`
	Floor          float64 `yaml:"floor"`
	Ceiling        float64 `yaml:"ceiling"`
	SpawnMin       float64 `yaml:"spawn_min"`
	SpawnMax       float64 `yaml:"spawn_max"`
	FallScale      float64 `yaml:"fall_scale"`
	WobbleMax      float64 `yaml:"wobble_max"`
	WobbleSpeedMax float64 `yaml:"wobble_speed_max"`
	SpeedMin       float64 `yaml:"speed_min"`
	SpeedSpan      float64 `yaml:"speed_span"`
	ScaleMin       float64 `yaml:"scale_min"`
	ScaleSpan      float64 `yaml:"scale_span"`
}

// ParallelConfig holds worker pool parameters.
type ParallelConfig struct {
	Threshold int `yaml:"threshold"` // minimum instances before evaluation is split across workers
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32     float32
	ScreenH32     float32
	TreeHeight32  float32
	TreeRadius32  float32
	ScatterR32    float32
	OrnamentNames []string // sorted keys of Ornaments
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return Parse(data)
}

// Parse decodes a YAML document over the embedded defaults.
// Only fields present in data are overwritten; an ornament entry named in data
// replaces the default entry wholesale.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks the values that would otherwise surface as NaN or a silent fallback at tick time.
func (c *Config) Validate() error {
	if !finiteNonNegative(c.Transition.AssembleRate) {
		return fmt.Errorf("%w: transition.assemble_rate must be >= 0, got %v", ErrInvalidConfig, c.Transition.AssembleRate)
	}
	if !finiteNonNegative(c.Transition.DisperseRate) {
		return fmt.Errorf("%w: transition.disperse_rate must be >= 0, got %v", ErrInvalidConfig, c.Transition.DisperseRate)
	}
	switch c.Transition.InitialMode {
	case "", "assembled", "dispersed":
	default:
		return fmt.Errorf("%w: transition.initial_mode %q", ErrInvalidConfig, c.Transition.InitialMode)
	}
	if c.Tree.Height <= 0 || c.Tree.Radius <= 0 || c.Tree.ScatterRadius <= 0 {
		return fmt.Errorf("%w: tree dimensions must be positive", ErrInvalidConfig)
	}
	if c.Tree.ViewerBias < 0 || c.Tree.ViewerBias > 1 {
		return fmt.Errorf("%w: tree.viewer_bias must be in [0,1], got %v", ErrInvalidConfig, c.Tree.ViewerBias)
	}

	for name, hex := range c.Palette {
		if _, err := parseHex(hex); err != nil {
			return fmt.Errorf("%w: palette.%s: %v", ErrInvalidConfig, name, err)
		}
	}

	for name, o := range c.Ornaments {
		if err := c.validateOrnament(name, o); err != nil {
			return err
		}
	}

	for i, p := range c.Scene.Populations {
		if p.Count < 0 {
			return fmt.Errorf("%w: scene.populations[%d]: negative count %d", ErrInvalidConfig, i, p.Count)
		}
	}

	if c.Snow.Count < 0 {
		return fmt.Errorf("%w: snow.count must be >= 0", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) validateOrnament(name string, o OrnamentConfig) error {
	switch o.Placement {
	case "volume", "surface", "base_ring", "apex":
	default:
		return fmt.Errorf("%w: ornaments.%s: unknown placement %q", ErrInvalidConfig, name, o.Placement)
	}
	switch o.Orientation {
	case "", "none", "random_yaw", "face_axis", "face_outward":
	default:
		return fmt.Errorf("%w: ornaments.%s: unknown orientation %q", ErrInvalidConfig, name, o.Orientation)
	}
	if o.ScaleMax < o.ScaleMin {
		return fmt.Errorf("%w: ornaments.%s: scale_max < scale_min", ErrInvalidConfig, name)
	}
	if len(o.Palette) == 0 {
		return fmt.Errorf("%w: ornaments.%s: empty palette", ErrInvalidConfig, name)
	}
	var total float64
	for _, pw := range o.Palette {
		if _, ok := c.Palette[pw.Color]; !ok {
			return fmt.Errorf("%w: ornaments.%s: undefined palette color %q", ErrInvalidConfig, name, pw.Color)
		}
		if pw.Weight < 0 {
			return fmt.Errorf("%w: ornaments.%s: negative weight for %q", ErrInvalidConfig, name, pw.Color)
		}
		total += pw.Weight
	}
	if total <= 0 {
		return fmt.Errorf("%w: ornaments.%s: palette weights sum to zero", ErrInvalidConfig, name)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.TreeHeight32 = float32(c.Tree.Height)
	c.Derived.TreeRadius32 = float32(c.Tree.Radius)
	c.Derived.ScatterR32 = float32(c.Tree.ScatterRadius)

	if c.Transition.InitialMode == "" {
		c.Transition.InitialMode = "assembled"
	}

	c.Derived.OrnamentNames = make([]string, 0, len(c.Ornaments))
	for name := range c.Ornaments {
		c.Derived.OrnamentNames = append(c.Derived.OrnamentNames, name)
	}
	sort.Strings(c.Derived.OrnamentNames)
}

// PaletteRGB resolves a named palette color to its RGB bytes.
func (c *Config) PaletteRGB(name string) (r, g, b uint8, err error) {
	hex, ok := c.Palette[name]
	if !ok {
		return 0, 0, 0, fmt.Errorf("undefined palette color %q", name)
	}
	v, err := parseHex(hex)
	if err != nil {
		return 0, 0, 0, err
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// parseHex parses "#RRGGBB" into a packed 0xRRGGBB value.
func parseHex(s string) (uint32, error) {
	if len(s) != 7 || s[0] != '#' {
		return 0, fmt.Errorf("color %q: want #RRGGBB", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return uint32(v), nil
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
