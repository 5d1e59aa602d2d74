package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Match    MatchConfig    `toml:"match"`
	Tuning   TuningConfig   `toml:"tuning"`
	Data     DataConfig     `toml:"data"`
	Scenario ScenarioConfig `toml:"scenario"`
	Replay   ReplayConfig   `toml:"replay"`
	Logging  LoggingConfig  `toml:"logging"`
}

type MatchConfig struct {
	TickRate     time.Duration `toml:"tick_rate"`
	TimeLimit    float64       `toml:"time_limit"`    // seconds; 0 = no limit
	Arena        string        `toml:"arena"`         // arena key from arena_list.yaml
	Bases        []string      `toml:"bases"`         // base type per owner, from base_list.yaml
	EnabledUnits []string      `toml:"enabled_units"` // empty = every loaded type
}

// TuningConfig carries the simulation balance knobs shared by every match.
type TuningConfig struct {
	QueueCap           int     `toml:"queue_cap"`           // max queued commands per unit
	PromotionThreshold float64 `toml:"promotion_threshold"` // meters of credit per promotion
	PromotionFactor    float64 `toml:"promotion_factor"`    // damage multiplier per promotion
	QueueBonus         float64 `toml:"queue_bonus"`         // credit weight per queued move node
	ShieldFactor       float64 `toml:"shield_factor"`       // incoming damage scale under a shield (0-1)
	IncomeStep         float64 `toml:"income_step"`         // seconds per +1 income rate
	StartingPhotons    float64 `toml:"starting_photons"`
}

type DataConfig struct {
	Units  string `toml:"units"`
	Bases  string `toml:"bases"`
	Arenas string `toml:"arenas"`
}

type ScenarioConfig struct {
	Dir string `toml:"dir"`
}

type ReplayConfig struct {
	Dir string `toml:"dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Defaults returns the baseline configuration a missing or partial TOML file
// overlays onto.
func Defaults() *Config {
	return &Config{
		Match: MatchConfig{
			TickRate:  50 * time.Millisecond,
			TimeLimit: 180,
			Arena:     "meridian",
			Bases:     []string{"core", "core"},
		},
		Tuning: TuningConfig{
			QueueCap:           5,
			PromotionThreshold: 25,
			PromotionFactor:    1.15,
			QueueBonus:         0.25,
			ShieldFactor:       0.5,
			IncomeStep:         10,
			StartingPhotons:    40,
		},
		Data: DataConfig{
			Units:  "data/yaml/unit_list.yaml",
			Bases:  "data/yaml/base_list.yaml",
			Arenas: "data/yaml/arena_list.yaml",
		},
		Scenario: ScenarioConfig{
			Dir: "scripts/scenario",
		},
		Replay: ReplayConfig{
			Dir: "replays",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c *Config) validate() error {
	if c.Match.TickRate <= 0 {
		return fmt.Errorf("match.tick_rate must be positive, got %s", c.Match.TickRate)
	}
	if len(c.Match.Bases) != 2 {
		return fmt.Errorf("match.bases must list exactly two base types, got %d", len(c.Match.Bases))
	}
	if c.Tuning.QueueCap < 1 {
		return fmt.Errorf("tuning.queue_cap must be at least 1, got %d", c.Tuning.QueueCap)
	}
	if c.Tuning.PromotionThreshold <= 0 {
		return fmt.Errorf("tuning.promotion_threshold must be positive, got %v", c.Tuning.PromotionThreshold)
	}
	if c.Tuning.PromotionFactor < 1 {
		return fmt.Errorf("tuning.promotion_factor must be >= 1, got %v", c.Tuning.PromotionFactor)
	}
	if c.Tuning.ShieldFactor < 0 || c.Tuning.ShieldFactor > 1 {
		return fmt.Errorf("tuning.shield_factor must be in [0,1], got %v", c.Tuning.ShieldFactor)
	}
	if c.Tuning.IncomeStep <= 0 {
		return fmt.Errorf("tuning.income_step must be positive, got %v", c.Tuning.IncomeStep)
	}
	return nil
}
