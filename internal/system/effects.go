package system

import (
	coresys "github.com/photonfront/server/internal/core/system"
	"github.com/photonfront/server/internal/world"
)

// EffectSystem advances per-unit timers and deferred ability effects
// (Phase 1, after the mover). It runs for every unit regardless of queue
// state: cooldowns drain and armed effects progress even mid-move. Slots are
// cleared synchronously the moment they resolve, so a resolution instant
// fires exactly once no matter how the delta is split across ticks.
type EffectSystem struct {
	world *world.World
}

func NewEffectSystem(w *world.World) *EffectSystem {
	return &EffectSystem{world: w}
}

func (s *EffectSystem) Phase() coresys.Phase { return coresys.PhaseUnits }

func (s *EffectSystem) Update(dt float64) {
	w := s.world
	if w.Finished {
		return
	}
	now := w.Now
	for _, u := range w.Units() {
		if !u.Alive() {
			continue
		}
		u.AbilityCooldown -= dt
		if u.AbilityCooldown < 0 {
			u.AbilityCooldown = 0
		}

		if u.Shield != nil && now >= u.Shield.Until {
			u.Shield = nil
		}
		if u.Cloak != nil && now >= u.Cloak.Until {
			u.Cloak = nil
		}
		if u.HealGlow != nil && now >= u.HealGlow.Until {
			u.HealGlow = nil
		}
		if u.Bombard != nil {
			s.tickBombard(u, dt)
		}
		if u.Barrage != nil && now >= u.Barrage.ResolveAt {
			s.resolveBarrage(u)
		}
		if u.Jump != nil && now >= u.Jump.ResolveAt {
			s.resolveJump(u)
		}
	}
}

// tickBombard applies the windowed area damage: nothing before impact,
// damage-per-second until the end time, then the slot clears. Cloak is no
// protection from area damage.
func (s *EffectSystem) tickBombard(u *world.Unit, dt float64) {
	w := s.world
	b := u.Bombard
	if w.Now >= b.Until {
		u.Bombard = nil
		return
	}
	if w.Now < b.Impact {
		return
	}
	for _, e := range w.Units() {
		if e.Owner == u.Owner || !e.Alive() {
			continue
		}
		if b.Pos.Dist(e.Pos) > b.Radius {
			continue
		}
		raw := b.DPS - e.Def.Armor
		if raw > 0 {
			w.ApplyUnitDamage(e, raw*dt, u.Owner)
		}
	}
	if eb := w.Bases[world.EnemyOf(u.Owner)]; eb != nil && eb.HP > 0 {
		if b.Pos.Dist(eb.Pos) <= b.Radius+eb.Def.Radius {
			raw := b.DPS - eb.Def.Armor
			if raw > 0 {
				w.ApplyBaseDamage(eb, raw*dt, u.Owner)
			}
		}
	}
}

// resolveBarrage lands every deferred missile at once: each hits the enemy
// nearest its locked position, or misses if nobody is inside the hit radius
// anymore.
func (s *EffectSystem) resolveBarrage(u *world.Unit) {
	w := s.world
	br := u.Barrage
	u.Barrage = nil
	for _, locked := range br.Targets {
		var target *world.Unit
		best := 0.0
		for _, e := range w.Units() {
			if e.Owner == u.Owner || !e.Alive() {
				continue
			}
			d := locked.Dist(e.Pos)
			if d > br.HitRadius {
				continue
			}
			if target == nil || d < best {
				target = e
				best = d
			}
		}
		if target != nil {
			w.HitUnit(target, br.Damage, u.Owner)
		}
	}
}

// resolveJump sweeps the telegraphed segment at a fixed step, damaging each
// enemy at most once, then relocates the caster to the endpoint.
func (s *EffectSystem) resolveJump(u *world.Unit) {
	w := s.world
	j := u.Jump
	u.Jump = nil

	dir := j.End.Sub(j.Origin).Norm()
	length := j.Origin.Dist(j.End)
	hit := make(map[int32]bool)
	for travelled := 0.0; travelled <= length; travelled += jumpSweepStep {
		point := j.Origin.Add(dir.Scale(travelled))
		for _, e := range w.Units() {
			if e.Owner == u.Owner || !e.Alive() || hit[e.ID] {
				continue
			}
			if point.Dist(e.Pos) <= j.HitRadius {
				hit[e.ID] = true
				w.HitUnit(e, j.Damage, u.Owner)
			}
		}
	}
	u.Pos = j.End
}
