package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/photonfront/server/internal/geom"
)

// Obstacle kinds.
const (
	ObstacleCircle = "circle"
	ObstacleRect   = "rect"
)

// Obstacle is one piece of static blocking geometry inside an arena.
type Obstacle struct {
	Kind string  `yaml:"kind"`
	X    float64 `yaml:"x"` // center
	Y    float64 `yaml:"y"`
	R    float64 `yaml:"r"` // circle radius
	W    float64 `yaml:"w"` // rect full width
	H    float64 `yaml:"h"` // rect full height
}

// ArenaDefinition holds one arena's bounds, obstacle geometry and the
// per-owner base and spawn anchors loaded from YAML.
type ArenaDefinition struct {
	Key       string     `yaml:"key"`
	Name      string     `yaml:"name"`
	Width     float64    `yaml:"width"`
	Height    float64    `yaml:"height"`
	Base0X    float64    `yaml:"base0_x"`
	Base0Y    float64    `yaml:"base0_y"`
	Base1X    float64    `yaml:"base1_x"`
	Base1Y    float64    `yaml:"base1_y"`
	Spawn0X   float64    `yaml:"spawn0_x"`
	Spawn0Y   float64    `yaml:"spawn0_y"`
	Spawn1X   float64    `yaml:"spawn1_x"`
	Spawn1Y   float64    `yaml:"spawn1_y"`
	Obstacles []Obstacle `yaml:"obstacles"`
}

// BasePos returns the base anchor for an owner (0 or 1).
func (a *ArenaDefinition) BasePos(owner int) geom.Vec {
	if owner == 0 {
		return geom.V(a.Base0X, a.Base0Y)
	}
	return geom.V(a.Base1X, a.Base1Y)
}

// SpawnPos returns the default unit spawn anchor for an owner (0 or 1).
func (a *ArenaDefinition) SpawnPos(owner int) geom.Vec {
	if owner == 0 {
		return geom.V(a.Spawn0X, a.Spawn0Y)
	}
	return geom.V(a.Spawn1X, a.Spawn1Y)
}

// Blocked reports whether a body of the given radius centered at p collides
// with arena bounds or any obstacle. The arena interior is [0,Width]x[0,Height].
func (a *ArenaDefinition) Blocked(p geom.Vec, radius float64) bool {
	if p.X-radius < 0 || p.Y-radius < 0 || p.X+radius > a.Width || p.Y+radius > a.Height {
		return true
	}
	for i := range a.Obstacles {
		if a.Obstacles[i].hits(p, radius) {
			return true
		}
	}
	return false
}

func (o *Obstacle) hits(p geom.Vec, radius float64) bool {
	switch o.Kind {
	case ObstacleCircle:
		return p.Dist(geom.V(o.X, o.Y)) < o.R+radius
	case ObstacleRect:
		// distance from p to the closest point on the rect
		cx := geom.Clamp(p.X, o.X-o.W/2, o.X+o.W/2)
		cy := geom.Clamp(p.Y, o.Y-o.H/2, o.Y+o.H/2)
		return p.Dist(geom.V(cx, cy)) < radius
	}
	return false
}

type arenaListFile struct {
	Arenas []ArenaDefinition `yaml:"arenas"`
}

// ArenaTable holds all arena definitions indexed by key.
type ArenaTable struct {
	arenas map[string]*ArenaDefinition
}

// LoadArenaTable loads arena definitions from a YAML file.
func LoadArenaTable(path string) (*ArenaTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read arena_list: %w", err)
	}
	var f arenaListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse arena_list: %w", err)
	}
	t := &ArenaTable{arenas: make(map[string]*ArenaDefinition, len(f.Arenas))}
	for i := range f.Arenas {
		a := &f.Arenas[i]
		if err := validateArena(a); err != nil {
			return nil, fmt.Errorf("arena_list entry %d: %w", i, err)
		}
		if _, dup := t.arenas[a.Key]; dup {
			return nil, fmt.Errorf("arena_list: duplicate key %q", a.Key)
		}
		t.arenas[a.Key] = a
	}
	return t, nil
}

func validateArena(a *ArenaDefinition) error {
	if a.Key == "" {
		return fmt.Errorf("missing key")
	}
	if a.Width <= 0 || a.Height <= 0 {
		return fmt.Errorf("arena %q: non-positive bounds %vx%v", a.Key, a.Width, a.Height)
	}
	for j := range a.Obstacles {
		switch a.Obstacles[j].Kind {
		case ObstacleCircle, ObstacleRect:
		default:
			return fmt.Errorf("arena %q obstacle %d: unknown kind %q", a.Key, j, a.Obstacles[j].Kind)
		}
	}
	return nil
}

// Get returns an arena definition by key, or nil if not found.
func (t *ArenaTable) Get(key string) *ArenaDefinition {
	return t.arenas[key]
}

// Count returns the number of loaded arena definitions.
func (t *ArenaTable) Count() int {
	return len(t.arenas)
}
