package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/gravsim/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultScenario  = "solar"
	DefaultBodyCount = 20000
	DefaultSeed      = 1
	DefaultTicks     = 500
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Scenario          string  `yaml:"scenario"`
	BodyCount         int     `yaml:"body_count"`
	DeltaTime         float64 `yaml:"dt"`
	CollisionsEnabled bool    `yaml:"collisions"`
	UseKnownCatalog   bool    `yaml:"use_known_catalog"`
	ShowComets        bool    `yaml:"show_comets"`
	Seed              int64   `yaml:"seed"`

	Partitions        int    `yaml:"partitions"`
	Workers           int    `yaml:"workers"`
	Ticks             int    `yaml:"ticks"`
	RebalanceInterval uint64 `yaml:"rebalance_interval"`

	// empty paths use the embedded catalogs
	CometsFile    string `yaml:"comets_file,omitempty"`
	AsteroidsFile string `yaml:"asteroids_file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:          DefaultScenario,
		BodyCount:         DefaultBodyCount,
		DeltaTime:         physics.DefaultConstants().DefaultDt,
		CollisionsEnabled: true,
		Seed:              DefaultSeed,
		Ticks:             DefaultTicks,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate brings c within the limits of the engine: the body count is
// clamped to [0, MaxBodies] and an out-of-range timestep falls back to the
// default. Settings that cannot be repaired are reported as errors.
func (c *Config) Validate(pc physics.Constants) error {
	c.BodyCount = pc.ClampBodies(c.BodyCount)
	if !pc.ValidDt(c.DeltaTime) {
		c.DeltaTime = pc.DefaultDt
	}
	if c.Scenario == "" {
		c.Scenario = DefaultScenario
	}

	var problems []string
	if c.Partitions < 0 {
		problems = append(problems, fmt.Sprintf("partitions must be non-negative, got %d", c.Partitions))
	}
	if c.Workers < 0 {
		problems = append(problems, fmt.Sprintf("workers must be non-negative, got %d", c.Workers))
	}
	if c.Ticks < 0 {
		problems = append(problems, fmt.Sprintf("ticks must be non-negative, got %d", c.Ticks))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// ParseBodyCount reads a body count typed by a user. Anything that is not an
// integer counts as zero; range clamping is left to Validate.
func ParseBodyCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
