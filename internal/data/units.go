package data

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Attack type keys used by unit definitions.
const (
	AttackRanged = "ranged"
	AttackMelee  = "melee"
	AttackNone   = "none"
)

// Ability keys used by unit definitions.
const (
	AbilityBurstFire  = "burst_fire"
	AbilityDashStrike = "dash_strike"
	AbilityLineJump   = "line_jump"
	AbilityShield     = "shield"
	AbilityCloak      = "cloak"
	AbilityBombard    = "bombardment"
	AbilityHealPulse  = "heal_pulse"
	AbilityMissiles   = "missile_barrage"
)

// UnitDefinition holds static stats for a unit type loaded from YAML.
type UnitDefinition struct {
	Key             string  `yaml:"key"`
	Name            string  `yaml:"name"`
	Cost            float64 `yaml:"cost"`
	HP              float64 `yaml:"hp"`
	Armor           float64 `yaml:"armor"` // flat damage-per-second reduction
	Speed           float64 `yaml:"speed"` // meters per second
	Radius          float64 `yaml:"radius"`
	AttackType      string  `yaml:"attack_type"` // ranged, melee, none
	AttackRange     float64 `yaml:"attack_range"`
	AttackDamage    float64 `yaml:"attack_damage"`
	AttackRate      float64 `yaml:"attack_rate"`
	HitsBases       bool    `yaml:"hits_bases"` // may auto-target enemy bases
	Ability         string  `yaml:"ability"`
	AbilityCooldown float64 `yaml:"ability_cooldown"` // seconds
}

type unitListFile struct {
	Units []UnitDefinition `yaml:"units"`
}

// UnitTable holds all unit definitions indexed by type key.
type UnitTable struct {
	units map[string]*UnitDefinition
	keys  []string // sorted, for deterministic iteration
}

// NewUnitTable builds a table from already-constructed definitions.
func NewUnitTable(defs ...*UnitDefinition) *UnitTable {
	t := &UnitTable{units: make(map[string]*UnitDefinition, len(defs))}
	for _, u := range defs {
		if _, dup := t.units[u.Key]; !dup {
			t.keys = append(t.keys, u.Key)
		}
		t.units[u.Key] = u
	}
	sort.Strings(t.keys)
	return t
}

// LoadUnitTable loads unit definitions from a YAML file.
func LoadUnitTable(path string) (*UnitTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read unit_list: %w", err)
	}
	var f unitListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse unit_list: %w", err)
	}
	t := &UnitTable{units: make(map[string]*UnitDefinition, len(f.Units))}
	for i := range f.Units {
		u := &f.Units[i]
		if err := validateUnit(u); err != nil {
			return nil, fmt.Errorf("unit_list entry %d: %w", i, err)
		}
		if _, dup := t.units[u.Key]; dup {
			return nil, fmt.Errorf("unit_list: duplicate key %q", u.Key)
		}
		t.units[u.Key] = u
		t.keys = append(t.keys, u.Key)
	}
	sort.Strings(t.keys)
	return t, nil
}

func validateUnit(u *UnitDefinition) error {
	if u.Key == "" {
		return fmt.Errorf("missing key")
	}
	if u.HP <= 0 {
		return fmt.Errorf("unit %q: hp must be positive, got %v", u.Key, u.HP)
	}
	if u.Cost < 0 || u.Speed < 0 || u.Armor < 0 {
		return fmt.Errorf("unit %q: negative stat", u.Key)
	}
	switch u.AttackType {
	case AttackRanged, AttackMelee, AttackNone:
	default:
		return fmt.Errorf("unit %q: unknown attack_type %q", u.Key, u.AttackType)
	}
	switch u.Ability {
	case "", AbilityBurstFire, AbilityDashStrike, AbilityLineJump, AbilityShield,
		AbilityCloak, AbilityBombard, AbilityHealPulse, AbilityMissiles:
	default:
		return fmt.Errorf("unit %q: unknown ability %q", u.Key, u.Ability)
	}
	return nil
}

// Get returns a unit definition by type key, or nil if not found.
func (t *UnitTable) Get(key string) *UnitDefinition {
	return t.units[key]
}

// Keys returns all unit type keys in sorted order.
func (t *UnitTable) Keys() []string {
	return t.keys
}

// Count returns the number of loaded unit definitions.
func (t *UnitTable) Count() int {
	return len(t.units)
}
