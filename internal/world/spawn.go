package world

import (
	"github.com/photonfront/server/internal/core/event"
	"github.com/photonfront/server/internal/geom"
)

// SpawnUnit validates and performs a spawn request: the type must exist and
// be enabled for the owner, and the owner must afford its cost. On success
// the cost is deducted (the sole currency decrease in the simulation) and the
// unit enters the world with one queued move to the rally point. Rejections
// leave all state untouched.
func (w *World) SpawnUnit(owner int, typeKey string, spawnPos, rallyPos geom.Vec) bool {
	if w.Finished || owner < 0 || owner > 1 {
		return false
	}
	def := w.UnitDefs.Get(typeKey)
	if def == nil {
		return false
	}
	p := w.Players[owner]
	if !p.UnitEnabled(typeKey) || !p.CanAfford(def.Cost) {
		return false
	}
	p.Photons -= def.Cost

	u := &Unit{
		ID:               w.NextUnitID(),
		TypeKey:          typeKey,
		Def:              def,
		Owner:            owner,
		Pos:              spawnPos,
		HP:               def.HP,
		MaxHP:            def.HP,
		QueueCap:         w.Tuning.QueueCap,
		DamageMultiplier: 1,
		LastHitOwner:     -1,
	}
	u.PushCommand(MoveTo(rallyPos))
	w.AddUnit(u)

	if w.Stats != nil {
		w.Stats.UnitsTrained[owner]++
	}
	event.Emit(w.Bus, event.UnitSpawned{
		UnitID:   u.ID,
		TypeKey:  typeKey,
		Owner:    owner,
		Position: spawnPos,
	})
	return true
}
