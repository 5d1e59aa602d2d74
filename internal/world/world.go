// Package world holds the mutable match state the tick systems advance in
// place: units, bases, player economies, deferred ability effects and match
// outcome. Single-goroutine access only (the simulation loop).
package world

import (
	"github.com/photonfront/server/internal/core/event"
	"github.com/photonfront/server/internal/data"
	"github.com/photonfront/server/internal/geom"
)

// ObstacleQuery reports collision against static arena geometry.
// Implemented by data.ArenaDefinition; pure, no internal state.
type ObstacleQuery interface {
	Blocked(p geom.Vec, radius float64) bool
}

// Tuning carries the balance knobs the simulation reads every tick. The
// config layer maps its TOML section onto this struct at match setup.
type Tuning struct {
	QueueCap           int
	PromotionThreshold float64
	PromotionFactor    float64
	QueueBonus         float64
	ShieldFactor       float64 // damage scale under a shield, 0..1
	IncomeStep         float64 // seconds per +1 income rate
	StartingPhotons    float64
}

// DefaultTuning returns the stock balance values.
func DefaultTuning() Tuning {
	return Tuning{
		QueueCap:           5,
		PromotionThreshold: 25,
		PromotionFactor:    1.15,
		QueueBonus:         0.25,
		ShieldFactor:       0.5,
		IncomeStep:         10,
		StartingPhotons:    40,
	}
}

// World is the single shared aggregate every system mutates. There is exactly
// one writer per tick, so no locking anywhere in the simulation.
type World struct {
	Now float64 // accumulated simulation seconds; the only clock the rules see

	Finished bool
	Winner   int // owner index, -1 for a draw; meaningful once Finished

	Players [2]*Player
	Bases   [2]*Base

	UnitDefs  *data.UnitTable
	Obstacles ObstacleQuery
	Tuning    Tuning

	Stats *MatchStats
	Bus   *event.Bus

	// Economy grant accumulator: whole seconds trigger grants.
	IncomeAcc float64

	units      map[int32]*Unit
	unitList   []*Unit // insertion order, the iteration order every system uses
	nextUnitID int32
}

// New builds an empty two-player world. IDs restart at 1 for every world so
// identical input streams reproduce identical states.
func New(defs *data.UnitTable, obstacles ObstacleQuery, tuning Tuning, bus *event.Bus) *World {
	w := &World{
		Winner:    -1,
		UnitDefs:  defs,
		Obstacles: obstacles,
		Tuning:    tuning,
		Stats:     &MatchStats{},
		Bus:       bus,
		units:     make(map[int32]*Unit),
	}
	for i := range w.Players {
		w.Players[i] = &Player{Index: i, Photons: tuning.StartingPhotons}
	}
	return w
}

// AddBase places an owner's base at match setup.
func (w *World) AddBase(owner int, def *data.BaseDefinition, pos geom.Vec) *Base {
	b := &Base{
		Owner:   owner,
		TypeKey: def.Key,
		Def:     def,
		Pos:     pos,
		HP:      def.HP,
		MaxHP:   def.HP,
	}
	w.Bases[owner] = b
	return b
}

// NextUnitID returns a fresh unit identifier.
func (w *World) NextUnitID() int32 {
	w.nextUnitID++
	return w.nextUnitID
}

// AddUnit registers a unit. Spawn validation lives in SpawnUnit; this is the
// raw insertion used by spawning and by replay reconstruction.
func (w *World) AddUnit(u *Unit) {
	w.units[u.ID] = u
	w.unitList = append(w.unitList, u)
}

// GetUnit returns a unit by ID, or nil if not found.
func (w *World) GetUnit(id int32) *Unit {
	return w.units[id]
}

// Units returns the live unit slice in insertion order. Callers iterate it;
// they must not append or reorder.
func (w *World) Units() []*Unit {
	return w.unitList
}

// UnitCount returns the number of live units.
func (w *World) UnitCount() int {
	return len(w.unitList)
}

// RemoveUnit deletes a unit by ID, preserving the iteration order of the
// remaining units.
func (w *World) RemoveUnit(id int32) *Unit {
	u, ok := w.units[id]
	if !ok {
		return nil
	}
	delete(w.units, id)
	for i, v := range w.unitList {
		if v.ID == id {
			w.unitList = append(w.unitList[:i], w.unitList[i+1:]...)
			break
		}
	}
	return u
}

// SweepDead removes every unit with hp <= 0, in iteration order, invoking
// report for each before removal.
func (w *World) SweepDead(report func(*Unit)) {
	kept := w.unitList[:0]
	for _, u := range w.unitList {
		if u.HP > 0 {
			kept = append(kept, u)
			continue
		}
		if report != nil {
			report(u)
		}
		delete(w.units, u.ID)
	}
	// Zero the tail so removed units are collectable.
	for i := len(kept); i < len(w.unitList); i++ {
		w.unitList[i] = nil
	}
	w.unitList = kept
}

// EnemyOf returns the opposing owner index.
func EnemyOf(owner int) int {
	return 1 - owner
}

// Decide marks the match finished. The first decision wins; later calls are
// ignored so the outcome is terminal.
func (w *World) Decide(winner int) {
	if w.Finished {
		return
	}
	w.Finished = true
	w.Winner = winner
	event.Emit(w.Bus, event.MatchDecided{Winner: winner, Elapsed: w.Now})
}

// BlockedAt is a nil-safe obstacle probe: a world without arena geometry is
// unobstructed (tests build such worlds).
func (w *World) BlockedAt(p geom.Vec, radius float64) bool {
	return w.Obstacles != nil && w.Obstacles.Blocked(p, radius)
}
