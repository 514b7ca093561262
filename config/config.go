// Package config unmarshals the YAML document that drives a simulation run
// (SPEC_FULL §6 configuration keys) using gopkg.in/yaml.v3, the same library
// orneryd/nornicdb uses for its own config. Defaults and bounds validation
// live beside the struct, in the teacher's sentinel-error style
// (builder/errors.go: errors.New values wrapped with a method-name prefix,
// branched on with errors.Is).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rdmnet/rdmsim/mirror"
	"github.com/rdmnet/rdmsim/strategy"
	"github.com/rdmnet/rdmsim/topology"
)

// Config is the root of a simulation run's YAML document.
type Config struct {
	NumMirrors int `yaml:"numMirrors"`
	SimTime    int `yaml:"simTime"`

	StartupTimeMin int `yaml:"startupTimeMin"`
	StartupTimeMax int `yaml:"startupTimeMax"`
	ReadyTimeMin   int `yaml:"readyTimeMin"`
	ReadyTimeMax   int `yaml:"readyTimeMax"`
	StopTimeMin    int `yaml:"stopTimeMin"`
	StopTimeMax    int `yaml:"stopTimeMax"`

	LinkActivationTimeMin int `yaml:"linkActivationTimeMin"`
	LinkActivationTimeMax int `yaml:"linkActivationTimeMax"`

	// FileDataSize and FileUpdateIntervalMin/Max are loaded, and the
	// interval pair is bounds-checked by Validate, but neither the engine
	// nor the probes read them.
	FileDataSize          int `yaml:"fileDataSize"`
	FileUpdateIntervalMin int `yaml:"fileUpdateIntervalMin"`
	FileUpdateIntervalMax int `yaml:"fileUpdateIntervalMax"`

	// Strategy selects the initial topology strategy by its
	// topology.StructureType string (e.g. "TREE", "RING", "SNOWFLAKE").
	Strategy StrategyConfig `yaml:"strategy"`

	// Seed seeds the engine's *rand.Rand. Zero means the caller should
	// fall back to a nil RNG (deterministic midpoint delays).
	Seed int64 `yaml:"seed"`

	// Actions is the scripted effector timeline cmd/rdmsim run submits
	// before stepping the simulation (SPEC_FULL §6's "submit scripted
	// effector actions"); each entry names one of setMirrors, setStrategy,
	// or setTargetLinksPerMirror.
	Actions []ActionConfig `yaml:"actions"`
}

// ActionConfig is one entry of the config document's scripted effector
// timeline.
type ActionConfig struct {
	Kind     string         `yaml:"kind"`
	AtTick   int            `yaml:"atTick"`
	Count    int            `yaml:"count"`
	Strategy StrategyConfig `yaml:"strategy"`
}

// StrategyConfig resolves to one concrete strategy.Strategy. Only the
// fields relevant to Kind are read; the rest are ignored.
type StrategyConfig struct {
	Kind string `yaml:"kind"`

	// BalancedTree
	TargetLinksPerNode int     `yaml:"targetLinksPerNode"`
	Tolerance          float64 `yaml:"tolerance"`

	// DepthLimitTree
	MaxDepth    int `yaml:"maxDepth"`
	MaxChildren int `yaml:"maxChildren"`

	// NConnected
	N int `yaml:"n"`

	// Snowflake
	Rotation       []string `yaml:"rotation"`
	Density        float64  `yaml:"density"`
	BridgeDistance int      `yaml:"bridgeDistance"`
}

// Default returns a Config with the distilled spec's suggested defaults:
// no jitter (min == max for every delay bound), strategy TREE, zero seed.
func Default() Config {
	return Config{
		NumMirrors:            0,
		SimTime:               100,
		StartupTimeMin:        1,
		StartupTimeMax:        1,
		ReadyTimeMin:          1,
		ReadyTimeMax:          1,
		StopTimeMin:           1,
		StopTimeMax:           1,
		LinkActivationTimeMin: 1,
		LinkActivationTimeMax: 1,
		FileDataSize:          0,
		FileUpdateIntervalMin: 0,
		FileUpdateIntervalMax: 0,
		Strategy:              StrategyConfig{Kind: string(topology.TypeTree)},
	}
}

// Load reads and unmarshals the YAML document at path over Default(), then
// validates the result.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: Load: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: Load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every bound pair is non-inverted and every count/duration
// is within its legal range.
func (c Config) Validate() error {
	if c.NumMirrors < 0 {
		return fmt.Errorf("config: Validate: %w", ErrNegativeMirrors)
	}
	if c.SimTime <= 0 {
		return fmt.Errorf("config: Validate: %w", ErrNonPositiveSimTime)
	}

	bounds := [][2]int{
		{c.StartupTimeMin, c.StartupTimeMax},
		{c.ReadyTimeMin, c.ReadyTimeMax},
		{c.StopTimeMin, c.StopTimeMax},
		{c.LinkActivationTimeMin, c.LinkActivationTimeMax},
		{c.FileUpdateIntervalMin, c.FileUpdateIntervalMax},
	}
	for _, b := range bounds {
		if b[0] > b[1] {
			return fmt.Errorf("config: Validate: %w", ErrInvalidBounds)
		}
	}

	if _, err := c.Strategy.Resolve(); err != nil {
		return err
	}

	for _, a := range c.Actions {
		if a.AtTick < 0 || a.AtTick > c.SimTime {
			return fmt.Errorf("config: Validate: tick %d: %w", a.AtTick, ErrActionOutOfRange)
		}
		switch a.Kind {
		case "setMirrors", "setStrategy", "setTargetLinksPerMirror":
		default:
			return fmt.Errorf("config: Validate: %q: %w", a.Kind, ErrUnknownActionKind)
		}
		if a.Kind == "setStrategy" {
			if _, err := a.Strategy.Resolve(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Props builds the mirror.Props lifecycle bounds this Config describes.
func (c Config) Props() mirror.Props {
	return mirror.Props{
		StartupTimeMin:        c.StartupTimeMin,
		StartupTimeMax:        c.StartupTimeMax,
		ReadyTimeMin:          c.ReadyTimeMin,
		ReadyTimeMax:          c.ReadyTimeMax,
		StopTimeMin:           c.StopTimeMin,
		StopTimeMax:           c.StopTimeMax,
		LinkActivationTimeMin: c.LinkActivationTimeMin,
		LinkActivationTimeMax: c.LinkActivationTimeMax,
	}
}

// Resolve builds the concrete strategy.Strategy this StrategyConfig
// describes. Snowflake substructures are always resolved without their own
// nested Snowflake (no recursive snowflakes).
func (s StrategyConfig) Resolve() (strategy.Strategy, error) {
	switch topology.StructureType(s.Kind) {
	case topology.TypeTree:
		return strategy.TreeStrategy{}, nil
	case topology.TypeBalancedTree:
		return strategy.BalancedTreeStrategy{TargetLinksPerNode: s.TargetLinksPerNode, Tolerance: s.Tolerance}, nil
	case topology.TypeDepthLimitTree:
		return strategy.DepthLimitTreeStrategy{MaxDepth: s.MaxDepth, MaxChildren: s.MaxChildren}, nil
	case topology.TypeLine:
		return strategy.LineStrategy{}, nil
	case topology.TypeRing:
		return strategy.RingStrategy{}, nil
	case topology.TypeStar:
		return strategy.StarStrategy{}, nil
	case topology.TypeFullyConnected:
		return strategy.FullyConnectedStrategy{}, nil
	case topology.TypeNConnected:
		return strategy.NConnectedStrategy{N: s.N}, nil
	case topology.TypeSnowflake:
		rotation := make([]topology.StructureType, 0, len(s.Rotation))
		factory := strategy.SubstructureFactory{}
		for _, name := range s.Rotation {
			t := topology.StructureType(name)
			rotation = append(rotation, t)
			if _, ok := factory[t]; ok {
				continue
			}
			sub := StrategyConfig{Kind: name}
			built, err := sub.Resolve()
			if err != nil {
				return nil, err
			}
			factory[t] = func() strategy.Strategy { return built }
		}
		return strategy.SnowflakeStrategy{
			Rotation:       rotation,
			Density:        s.Density,
			BridgeDistance: s.BridgeDistance,
			Factory:        factory,
		}, nil
	default:
		return nil, fmt.Errorf("config: Resolve: %q: %w", s.Kind, ErrUnknownStrategy)
	}
}
