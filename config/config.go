// Package config provides configuration loading and access for the solver.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation and training parameters.
type Config struct {
	Physics     PhysicsConfig    `yaml:"physics"`
	Actor       ActorConfig      `yaml:"actor"`
	Projectiles ProjectileConfig `yaml:"projectiles"`
	Planner     PlannerConfig    `yaml:"planner"`
	Fitness     FitnessConfig    `yaml:"fitness"`
	Training    TrainingConfig   `yaml:"training"`
	Replay      ReplayConfig     `yaml:"replay"`
	Screen      ScreenConfig     `yaml:"screen"`
	Telemetry   TelemetryConfig  `yaml:"telemetry"`
	Storage     StorageConfig    `yaml:"storage"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// PhysicsConfig holds the fixed-timestep kinematics constants.
type PhysicsConfig struct {
	DT                 float64 `yaml:"dt"`
	Gravity            float64 `yaml:"gravity"`
	MaxFallSpeed       float64 `yaml:"max_fall_speed"`
	MoveSpeed          float64 `yaml:"move_speed"`
	JumpSpeed          float64 `yaml:"jump_speed"`
	BounceSpeed        float64 `yaml:"bounce_speed"`
	PinchMaxNudge      float64 `yaml:"pinch_max_nudge"`
	WallPushIterations int     `yaml:"wall_push_iterations"`
}

// ActorConfig holds the actor's collision box.
type ActorConfig struct {
	HalfWidth      float64 `yaml:"half_width"`
	HalfHeight     float64 `yaml:"half_height"`
	CollisionInset float64 `yaml:"collision_inset"`
}

// ProjectileConfig holds turret fire parameters.
type ProjectileConfig struct {
	FireInterval  int     `yaml:"fire_interval"`
	Speed         float64 `yaml:"speed"`
	HalfLength    float64 `yaml:"half_length"`
	HalfThickness float64 `yaml:"half_thickness"`
}

// PlannerConfig holds coarse A* parameters.
type PlannerConfig struct {
	Stride           int `yaml:"stride"`
	StandDepth       int `yaml:"stand_depth"`
	MaxJumpRise      int `yaml:"max_jump_rise"`
	CheckpointStride int `yaml:"checkpoint_stride"`
}

// FitnessConfig holds reward-shaping weights. These are not normalized
// against the distance term; see cmd/calibrate.
type FitnessConfig struct {
	ExplorationBonus float64 `yaml:"exploration_bonus"`
	CheckpointScale  float64 `yaml:"checkpoint_scale"`
}

// TrainingConfig holds evolution parameters.
type TrainingConfig struct {
	Representation    string  `yaml:"representation"`
	PopulationSize    int     `yaml:"population_size"`
	HorizonTicks      int     `yaml:"horizon_ticks"`
	MutationRate      float64 `yaml:"mutation_rate"`
	MutationMagnitude float64 `yaml:"mutation_magnitude"`
	EliteCount        int     `yaml:"elite_count"`
	TopK              int     `yaml:"top_k"`
	MaxGenerations    int     `yaml:"max_generations"`
	MacroTicks        int     `yaml:"macro_ticks"`
	CurriculumStart   int     `yaml:"curriculum_start"`
	CurriculumGrowth  int     `yaml:"curriculum_growth"`
	Workers           int     `yaml:"workers"`
	Seed              int64   `yaml:"seed"`
}

// ReplayConfig holds real-time playback settings.
type ReplayConfig struct {
	MaxCatchUpTicks int `yaml:"max_catch_up_ticks"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// TelemetryConfig holds experiment output settings.
type TelemetryConfig struct {
	OutputDir string `yaml:"output_dir"`
}

// StorageConfig holds the solution database location.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	SequenceLength int // Training.HorizonTicks / MacroTicks, rounded up
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

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file are overwritten
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

// Validate rejects parameter combinations the engine cannot run with.
func (c *Config) Validate() error {
	t := c.Training
	var errs []error
	if t.PopulationSize <= 0 {
		errs = append(errs, fmt.Errorf("training.population_size must be positive, got %d", t.PopulationSize))
	}
	if t.EliteCount < 0 || t.EliteCount > t.PopulationSize {
		errs = append(errs, fmt.Errorf("training.elite_count must be in [0, population_size], got %d", t.EliteCount))
	}
	if t.TopK <= 0 || t.TopK > t.PopulationSize {
		errs = append(errs, fmt.Errorf("training.top_k must be in [1, population_size], got %d", t.TopK))
	}
	if t.MutationRate < 0 || t.MutationRate > 1 {
		errs = append(errs, fmt.Errorf("training.mutation_rate must be in [0, 1], got %g", t.MutationRate))
	}
	if t.HorizonTicks <= 0 {
		errs = append(errs, fmt.Errorf("training.horizon_ticks must be positive, got %d", t.HorizonTicks))
	}
	if t.MacroTicks <= 0 {
		errs = append(errs, fmt.Errorf("training.macro_ticks must be positive, got %d", t.MacroTicks))
	}
	if t.MaxGenerations <= 0 {
		errs = append(errs, fmt.Errorf("training.max_generations must be positive, got %d", t.MaxGenerations))
	}
	if t.Representation != "actions" && t.Representation != "neural" {
		errs = append(errs, fmt.Errorf("training.representation must be actions or neural, got %q", t.Representation))
	}
	if c.Planner.Stride < 2 {
		errs = append(errs, fmt.Errorf("planner.stride must be at least 2, got %d", c.Planner.Stride))
	}
	if c.Physics.DT <= 0 {
		errs = append(errs, fmt.Errorf("physics.dt must be positive, got %g", c.Physics.DT))
	}
	if c.Projectiles.FireInterval <= 0 {
		errs = append(errs, fmt.Errorf("projectiles.fire_interval must be positive, got %d", c.Projectiles.FireInterval))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	t := c.Training
	c.Derived.SequenceLength = (t.HorizonTicks + t.MacroTicks - 1) / t.MacroTicks
}

// Recompute refreshes derived values after fields were edited in code.
func (c *Config) Recompute() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	out := *c
	return &out
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
