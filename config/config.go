// Package config loads the game configuration: window, audio, scene tuning and
// key bindings. A default document is embedded in the binary; a file on disk
// overrides any field it sets.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/gameframe/input"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalid is returned when a loaded document fails validation.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Window     WindowConfig  `yaml:"window"`
	StartScene string        `yaml:"start_scene"`
	Audio      AudioConfig   `yaml:"audio"`
	Input      InputConfig   `yaml:"input"`
	Lander     LanderConfig  `yaml:"lander"`
	Sandbox    SandboxConfig `yaml:"sandbox"`
	Golf       GolfConfig    `yaml:"golf"`
	Pinball    PinballConfig `yaml:"pinball"`

	// Path is the file the config was read from, empty for the embedded
	// default.
	Path string `yaml:"-"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"`
}

type InputConfig struct {
	ReleasePolicy string              `yaml:"release_policy"`
	Bindings      map[string][]string `yaml:"bindings"`
}

type LanderConfig struct {
	Thrust          float64 `yaml:"thrust"`
	MaxLandingSpeed float64 `yaml:"max_landing_speed"`
	MaxLandingAngle float64 `yaml:"max_landing_angle"`
	MinZoom         float64 `yaml:"min_zoom"`
	MaxZoom         float64 `yaml:"max_zoom"`
	ZoomDistance    float64 `yaml:"zoom_distance"`
}

type SandboxConfig struct {
	MoveSpeed     float64 `yaml:"move_speed"`
	JumpSpeed     float64 `yaml:"jump_speed"`
	Crates        int     `yaml:"crates"`
	TeleportRange float64 `yaml:"teleport_range"`
}

type GolfConfig struct {
	MaxPower int `yaml:"max_power"`
	// PowerInterval is how long Jump must stay held per power level.
	PowerInterval   float64 `yaml:"power_interval"`
	ImpulsePerPower float64 `yaml:"impulse_per_power"`
	AimSpeed        float64 `yaml:"aim_speed"`
	Trees           int     `yaml:"trees"`
}

type PinballConfig struct {
	FlipperSpeed  float64 `yaml:"flipper_speed"`
	FlipperTorque float64 `yaml:"flipper_torque"`
}

// Default returns the embedded configuration.
func Default() *Config {
	cfg, err := Parse(nil)
	if err != nil {
		panic("config: embedded default: " + err.Error())
	}
	return cfg
}

// Parse decodes data on top of the embedded default. Nil data yields the
// default unchanged. A binding list in data replaces the default list for
// that action only.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal default: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: unmarshal: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads path and layers it over the default. An empty path returns the
// default; an empty file is rejected with ErrInvalid.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	// an editor mid-save can leave the file empty; that is not "all defaults"
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("config: load %s: %w: empty file", path, ErrInvalid)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Validate checks ranges and that every binding and policy name parses.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("%w: audio volume %.2f outside [0,1]", ErrInvalid, c.Audio.Volume)
	}
	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		return fmt.Errorf("%w: audio sample rate %d", ErrInvalid, c.Audio.SampleRate)
	}
	if c.Lander.MinZoom <= 0 || c.Lander.MaxZoom < c.Lander.MinZoom {
		return fmt.Errorf("%w: lander zoom range [%.2f,%.2f]", ErrInvalid, c.Lander.MinZoom, c.Lander.MaxZoom)
	}
	if c.Golf.MaxPower <= 0 || c.Golf.PowerInterval <= 0 {
		return fmt.Errorf("%w: golf power %d every %.2fs", ErrInvalid, c.Golf.MaxPower, c.Golf.PowerInterval)
	}
	if c.Golf.Trees < 0 {
		return fmt.Errorf("%w: golf trees %d", ErrInvalid, c.Golf.Trees)
	}
	if c.Pinball.FlipperTorque <= 0 {
		return fmt.Errorf("%w: pinball flipper torque %.2f", ErrInvalid, c.Pinball.FlipperTorque)
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if _, err := c.KeyMap(); err != nil {
		return err
	}
	return nil
}

// Policy returns the configured release policy.
func (c *Config) Policy() (input.ReleasePolicy, error) {
	p, err := input.ParseReleasePolicy(c.Input.ReleasePolicy)
	if err != nil {
		return 0, fmt.Errorf("config: input.release_policy: %w", err)
	}
	return p, nil
}

// KeyMap builds the key map from the bindings section.
func (c *Config) KeyMap() (*input.KeyMap, error) {
	names := make([]string, 0, len(c.Input.Bindings))
	for name := range c.Input.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	km := input.NewKeyMap()
	for _, name := range names {
		action, err := input.ParseAction(name)
		if err != nil {
			return nil, fmt.Errorf("config: input.bindings: %w", err)
		}
		for _, s := range c.Input.Bindings[name] {
			b, err := input.ParseBinding(s)
			if err != nil {
				return nil, fmt.Errorf("config: input.bindings.%s: %w", name, err)
			}
			if prev, ok := km.Lookup(b); ok && prev != action {
				return nil, fmt.Errorf("%w: %s bound to both %s and %s", ErrInvalid, b, prev, action)
			}
			km.Bind(b, action)
		}
	}
	return km, nil
}
