package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Base ability keys. Each base type carries at most one.
const (
	BaseShieldDome = "shield_dome"
	BaseAutogun    = "autogun"
	BaseRegenPulse = "regen_pulse"
)

// BaseDefinition holds static stats for a base type loaded from YAML.
type BaseDefinition struct {
	Key    string  `yaml:"key"`
	Name   string  `yaml:"name"`
	HP     float64 `yaml:"hp"`
	Armor  float64 `yaml:"armor"`
	Radius float64 `yaml:"radius"`
	Speed  float64 `yaml:"speed"` // meters per second toward the movement target

	LaserDamage   float64 `yaml:"laser_damage"`
	LaserRange    float64 `yaml:"laser_range"`
	LaserRadius   float64 `yaml:"laser_radius"` // beam half-width
	LaserCooldown float64 `yaml:"laser_cooldown"`

	Ability string `yaml:"ability"` // shield_dome, autogun, regen_pulse, or empty

	ShieldInterval float64 `yaml:"shield_interval"` // seconds per dome cycle
	ShieldDuration float64 `yaml:"shield_duration"` // active window within a cycle
	ShieldRadius   float64 `yaml:"shield_radius"`

	GunCooldown float64 `yaml:"gun_cooldown"`
	GunRange    float64 `yaml:"gun_range"`
	GunDamage   float64 `yaml:"gun_damage"` // per shot

	RegenInterval float64 `yaml:"regen_interval"`
	RegenRadius   float64 `yaml:"regen_radius"`
	RegenSelf     float64 `yaml:"regen_self"` // hp restored to the base per pulse
	RegenAlly     float64 `yaml:"regen_ally"` // hp restored to each allied unit per pulse
}

type baseListFile struct {
	Bases []BaseDefinition `yaml:"bases"`
}

// BaseTable holds all base definitions indexed by type key.
type BaseTable struct {
	bases map[string]*BaseDefinition
}

// NewBaseTable builds a table from already-constructed definitions.
func NewBaseTable(defs ...*BaseDefinition) *BaseTable {
	t := &BaseTable{bases: make(map[string]*BaseDefinition, len(defs))}
	for _, b := range defs {
		t.bases[b.Key] = b
	}
	return t
}

// LoadBaseTable loads base definitions from a YAML file.
func LoadBaseTable(path string) (*BaseTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read base_list: %w", err)
	}
	var f baseListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse base_list: %w", err)
	}
	t := &BaseTable{bases: make(map[string]*BaseDefinition, len(f.Bases))}
	for i := range f.Bases {
		b := &f.Bases[i]
		if err := validateBase(b); err != nil {
			return nil, fmt.Errorf("base_list entry %d: %w", i, err)
		}
		if _, dup := t.bases[b.Key]; dup {
			return nil, fmt.Errorf("base_list: duplicate key %q", b.Key)
		}
		t.bases[b.Key] = b
	}
	return t, nil
}

func validateBase(b *BaseDefinition) error {
	if b.Key == "" {
		return fmt.Errorf("missing key")
	}
	if b.HP <= 0 {
		return fmt.Errorf("base %q: hp must be positive, got %v", b.Key, b.HP)
	}
	switch b.Ability {
	case "", BaseShieldDome, BaseAutogun, BaseRegenPulse:
	default:
		return fmt.Errorf("base %q: unknown ability %q", b.Key, b.Ability)
	}
	if b.Ability == BaseShieldDome && b.ShieldDuration > b.ShieldInterval {
		return fmt.Errorf("base %q: shield_duration exceeds shield_interval", b.Key)
	}
	return nil
}

// Get returns a base definition by type key, or nil if not found.
func (t *BaseTable) Get(key string) *BaseDefinition {
	return t.bases[key]
}

// Count returns the number of loaded base definitions.
func (t *BaseTable) Count() int {
	return len(t.bases)
}
