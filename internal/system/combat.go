package system

import (
	"github.com/photonfront/server/internal/core/event"
	coresys "github.com/photonfront/server/internal/core/system"
	"github.com/photonfront/server/internal/data"
	"github.com/photonfront/server/internal/world"
)

// CombatSystem resolves auto-attacks and sweeps the dead (Phase 3). Each
// attacking unit picks the nearest alive, non-cloaked enemy unit in range;
// failing that, a structure hitter falls back to the enemy base within
// range + base radius. Damage follows
//
//	max(attackDamage*attackRate - armor, 0) * dt * damageMultiplier
//
// with shield scaling applied inside the shared damage path. Deaths are
// swept only after every unit has attacked, so resolution order inside one
// tick cannot save a unit that traded kills.
type CombatSystem struct {
	world *world.World
}

func NewCombatSystem(w *world.World) *CombatSystem {
	return &CombatSystem{world: w}
}

func (s *CombatSystem) Phase() coresys.Phase { return coresys.PhaseCombat }

func (s *CombatSystem) Update(dt float64) {
	w := s.world
	if w.Finished {
		return
	}
	// A unit brought to zero earlier in the tick still attacks here: removal
	// happens only in the sweep below, so trades are honest both ways.
	for _, u := range w.Units() {
		if u.Def.AttackType == data.AttackNone {
			continue
		}
		if target := nearestEnemyUnit(w, u.Owner, u.Pos, u.Def.AttackRange); target != nil {
			raw := u.Def.AttackDamage*u.Def.AttackRate - target.Def.Armor
			if raw > 0 {
				w.ApplyUnitDamage(target, raw*dt*u.DamageMultiplier, u.Owner)
			}
			continue
		}
		if !u.Def.HitsBases {
			continue
		}
		eb := w.Bases[world.EnemyOf(u.Owner)]
		if eb == nil || eb.HP <= 0 {
			continue
		}
		if u.Pos.Dist(eb.Pos) > u.Def.AttackRange+eb.Def.Radius {
			continue
		}
		raw := u.Def.AttackDamage*u.Def.AttackRate - eb.Def.Armor
		if raw > 0 {
			w.ApplyBaseDamage(eb, raw*dt*u.DamageMultiplier, u.Owner)
		}
	}

	w.SweepDead(func(u *world.Unit) {
		if w.Stats != nil {
			w.Stats.UnitsLost[u.Owner]++
			if u.LastHitOwner >= 0 && u.LastHitOwner != u.Owner {
				w.Stats.UnitsKilled[u.LastHitOwner]++
			}
		}
		event.Emit(w.Bus, event.UnitDied{
			UnitID: u.ID, TypeKey: u.TypeKey, Owner: u.Owner, Killer: u.LastHitOwner,
		})
	})
}
