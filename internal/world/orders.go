package world

import (
	"github.com/photonfront/server/internal/core/event"
	"github.com/photonfront/server/internal/geom"
)

// IssueCommand appends a command to a unit's queue. Unknown unit IDs and full
// queues reject silently; illegal orders are expected traffic, not errors.
func (w *World) IssueCommand(unitID int32, node CommandNode) bool {
	if w.Finished {
		return false
	}
	u := w.GetUnit(unitID)
	if u == nil {
		return false
	}
	return u.PushCommand(node)
}

// SetBaseTarget points an owner's base at a movement destination.
func (w *World) SetBaseTarget(owner int, pos geom.Vec) bool {
	if w.Finished || owner < 0 || owner > 1 || w.Bases[owner] == nil {
		return false
	}
	w.Bases[owner].SetTarget(pos)
	return true
}

// ClearBaseTarget stops an owner's base.
func (w *World) ClearBaseTarget(owner int) {
	if owner < 0 || owner > 1 || w.Bases[owner] == nil {
		return
	}
	w.Bases[owner].ClearTarget()
}

// FireLaser triggers an owner's base laser along dir. Gated by the base's
// laser cooldown; firing while on cooldown or with a zero aim is a silent
// no-op. The beam runs from the base edge out to the laser range, damaging
// every enemy unit it crosses at most once, and the enemy base if the beam
// reaches it.
func (w *World) FireLaser(owner int, dir geom.Vec) bool {
	if w.Finished || owner < 0 || owner > 1 {
		return false
	}
	b := w.Bases[owner]
	if b == nil || b.LaserCooldown > 0 {
		return false
	}
	aim := dir.Norm()
	if aim.IsZero() {
		return false
	}
	def := b.Def
	b.LaserCooldown = def.LaserCooldown
	origin := b.Pos.Add(aim.Scale(def.Radius))

	for _, u := range w.unitList {
		if u.Owner == owner || !u.Alive() {
			continue
		}
		along, perp := geom.RayDist(origin, aim, u.Pos)
		if along >= 0 && along <= def.LaserRange && perp < def.LaserRadius+u.Def.Radius {
			w.HitUnit(u, def.LaserDamage, owner)
		}
	}
	if enemy := w.Bases[EnemyOf(owner)]; enemy != nil && enemy.HP > 0 {
		along, perp := geom.RayDist(origin, aim, enemy.Pos)
		if along >= 0 && along <= def.LaserRange && perp < def.LaserRadius+enemy.Def.Radius {
			w.HitBase(enemy, def.LaserDamage, owner)
		}
	}

	event.Emit(w.Bus, event.LaserFired{Owner: owner, Direction: aim})
	return true
}
