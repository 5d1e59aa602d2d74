package system

import (
	coresys "github.com/photonfront/server/internal/core/system"
	"github.com/photonfront/server/internal/data"
	"github.com/photonfront/server/internal/world"
)

// BaseSystem advances both bases (Phase 2): laser cooldown, optional slow
// movement toward a target, and the base type's automatic ability.
type BaseSystem struct {
	world *world.World
}

func NewBaseSystem(w *world.World) *BaseSystem {
	return &BaseSystem{world: w}
}

func (s *BaseSystem) Phase() coresys.Phase { return coresys.PhaseBases }

func (s *BaseSystem) Update(dt float64) {
	w := s.world
	if w.Finished {
		return
	}
	for _, b := range w.Bases {
		if b == nil || b.HP <= 0 {
			continue
		}
		b.LaserCooldown -= dt
		if b.LaserCooldown < 0 {
			b.LaserCooldown = 0
		}
		s.move(b, dt)
		switch b.Def.Ability {
		case data.BaseShieldDome:
			b.DomeTimer += dt
			for b.DomeTimer >= b.Def.ShieldInterval {
				b.DomeTimer -= b.Def.ShieldInterval
			}
		case data.BaseAutogun:
			s.tickAutogun(b, dt)
		case data.BaseRegenPulse:
			s.tickRegen(b, dt)
		}
	}
}

// move steps the base toward its target at its slow speed. Same arrival
// epsilon as units; a blocked step clears the target instead of re-routing.
func (s *BaseSystem) move(b *world.Base, dt float64) {
	if b.MoveTarget == nil {
		return
	}
	w := s.world
	target := *b.MoveTarget
	delta := target.Sub(b.Pos)
	remaining := delta.Len()
	if remaining < arriveEpsilon {
		b.ClearTarget()
		return
	}
	stepLen := b.Def.Speed * dt
	if stepLen > remaining {
		stepLen = remaining
	}
	next := b.Pos.Add(delta.Norm().Scale(stepLen))
	if w.BlockedAt(next, b.Def.Radius) {
		b.ClearTarget()
		return
	}
	b.Pos = next
	if target.Sub(b.Pos).Len() < arriveEpsilon {
		b.ClearTarget()
	}
}

// tickAutogun fires a discrete shot at the nearest enemy unit in range every
// cooldown. Same nearest-target policy as units: cloaked enemies are skipped.
func (s *BaseSystem) tickAutogun(b *world.Base, dt float64) {
	w := s.world
	b.GunCooldown -= dt
	if b.GunCooldown > 0 {
		return
	}
	b.GunCooldown = 0
	target := nearestEnemyUnit(w, b.Owner, b.Pos, b.Def.GunRange)
	if target == nil {
		return
	}
	w.HitUnit(target, b.Def.GunDamage, b.Owner)
	b.GunCooldown = b.Def.GunCooldown
}

// tickRegen heals the base and nearby allied units every pulse interval.
func (s *BaseSystem) tickRegen(b *world.Base, dt float64) {
	w := s.world
	b.RegenTimer += dt
	for b.RegenTimer >= b.Def.RegenInterval {
		b.RegenTimer -= b.Def.RegenInterval
		w.HealBase(b, b.Def.RegenSelf)
		for _, ally := range w.Units() {
			if ally.Owner != b.Owner || !ally.Alive() {
				continue
			}
			if b.Pos.Dist(ally.Pos) <= b.Def.RegenRadius {
				w.HealUnit(ally, b.Def.RegenAlly)
			}
		}
	}
}
