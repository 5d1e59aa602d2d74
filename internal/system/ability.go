package system

import (
	"sort"

	"github.com/photonfront/server/internal/core/event"
	"github.com/photonfront/server/internal/data"
	"github.com/photonfront/server/internal/geom"
	"github.com/photonfront/server/internal/world"
)

// Per-ability tuning. Cooldowns live in the unit definitions; everything else
// is fixed here.
const (
	burstShots     = 10  // shots per burst, each independently targeted
	burstRange     = 9.0 // meters along the aimed ray
	burstTolerance = 1.0 // max perpendicular offset from the ray

	dashSearchRadius = 4.0 // target search radius around the anchor point
	dashFactor       = 3.0 // one-time damage multiplier on the dash hit
	dashMark         = 0.4 // cosmetic "dashing" marker duration, seconds

	jumpLength    = 8.0
	jumpDelay     = 0.5 // telegraph arm time before the sweep resolves
	jumpHitRadius = 1.2
	jumpSweepStep = 0.5 // discretization step along the swept segment
	jumpFactor    = 2.0

	shieldDuration = 6.0
	shieldRadius   = 6.0

	cloakDuration = 5.0

	bombardDelay  = 1.5 // seconds from cast to first damage
	bombardWindow = 2.5 // damage window length after impact
	bombardDPS    = 20.0
	bombardRadius = 3.5

	healAmount    = 18.0 // per allied unit
	healStructure = 60.0 // per allied base
	healRadius    = 7.0
	healGlow      = 1.0 // cosmetic display slot duration

	missileCount     = 4
	missileDelay     = 1.2 // seconds from cast to impact
	missileRange     = 12.0
	missileHitRadius = 1.5 // kill radius around each locked position
	missileFactor    = 2.5
)

// castAbility dispatches the unit's ability from an executed ability node.
// Precondition: the cooldown must have run out, otherwise the cast is a
// silent no-op. The cooldown is spent only when the ability actually fires;
// of the eight, only dash strike can decline (no target in reach).
func castAbility(w *world.World, u *world.Unit, anchor, aim geom.Vec) bool {
	if u.AbilityCooldown > 0 {
		return false
	}
	var ok bool
	switch u.Def.Ability {
	case data.AbilityBurstFire:
		ok = castBurstFire(w, u, aim)
	case data.AbilityDashStrike:
		ok = castDashStrike(w, u, anchor)
	case data.AbilityLineJump:
		ok = castLineJump(w, u, aim)
	case data.AbilityShield:
		u.Shield = &world.ShieldEffect{Until: w.Now + shieldDuration, Radius: shieldRadius}
		ok = true
	case data.AbilityCloak:
		u.Cloak = &world.CloakEffect{Until: w.Now + cloakDuration}
		ok = true
	case data.AbilityBombard:
		u.Bombard = &world.BombardEffect{
			Pos:    anchor,
			Impact: w.Now + bombardDelay,
			Until:  w.Now + bombardDelay + bombardWindow,
			DPS:    bombardDPS * u.DamageMultiplier,
			Radius: bombardRadius,
		}
		ok = true
	case data.AbilityHealPulse:
		castHealPulse(w, u)
		ok = true
	case data.AbilityMissiles:
		ok = castMissileBarrage(w, u, aim)
	default:
		return false
	}
	if ok {
		u.AbilityCooldown = u.Def.AbilityCooldown
		event.Emit(w.Bus, event.AbilityCast{
			UnitID: u.ID, TypeKey: u.TypeKey, Owner: u.Owner, Ability: u.Def.Ability,
		})
	}
	return ok
}

// castBurstFire fires burstShots instant shots along the aimed ray. Every
// shot independently picks the nearest alive, non-cloaked enemy that lies
// ahead of the caster within range and tolerance, so a burst can finish one
// target and walk onto the next.
func castBurstFire(w *world.World, u *world.Unit, aim geom.Vec) bool {
	for shot := 0; shot < burstShots; shot++ {
		var target *world.Unit
		best := 0.0
		for _, e := range w.Units() {
			if e.Owner == u.Owner || !e.Alive() || e.Cloaked(w.Now) {
				continue
			}
			along, perp := geom.RayDist(u.Pos, aim, e.Pos)
			if along <= 0 || along > burstRange || perp >= burstTolerance {
				continue
			}
			if target == nil || along < best {
				target = e
				best = along
			}
		}
		if target == nil {
			continue
		}
		w.HitUnit(target, u.Def.AttackDamage*u.DamageMultiplier, u.Owner)
	}
	return true
}

// castDashStrike teleports the caster onto the nearest enemy around the
// anchor point and lands one heavy hit. With nothing in reach the dash
// declines and keeps its cooldown.
func castDashStrike(w *world.World, u *world.Unit, anchor geom.Vec) bool {
	target := nearestEnemyUnit(w, u.Owner, anchor, dashSearchRadius)
	if target == nil {
		return false
	}
	u.Pos = target.Pos
	w.HitUnit(target, u.Def.AttackDamage*dashFactor*u.DamageMultiplier, u.Owner)
	u.DashingUntil = w.Now + dashMark
	return true
}

// castLineJump arms a telegraph from the caster's current position along the
// aim; the effect ticker sweeps the segment and relocates the caster when it
// resolves.
func castLineJump(w *world.World, u *world.Unit, aim geom.Vec) bool {
	if aim.IsZero() {
		return false
	}
	u.Jump = &world.LineJump{
		Origin:    u.Pos,
		End:       u.Pos.Add(aim.Scale(jumpLength)),
		ResolveAt: w.Now + jumpDelay,
		Damage:    u.Def.AttackDamage * jumpFactor * u.DamageMultiplier,
		HitRadius: jumpHitRadius,
	}
	return true
}

// castHealPulse is immediate: allied units near the caster are healed, an
// allied base in reach gets the larger structure amount, and a cosmetic glow
// slot marks the pulse.
func castHealPulse(w *world.World, u *world.Unit) {
	for _, ally := range w.Units() {
		if ally.Owner != u.Owner || !ally.Alive() {
			continue
		}
		if u.Pos.Dist(ally.Pos) <= healRadius {
			w.HealUnit(ally, healAmount)
		}
	}
	if b := w.Bases[u.Owner]; b != nil {
		if u.Pos.Dist(b.Pos) <= healRadius+b.Def.Radius {
			w.HealBase(b, healStructure)
		}
	}
	u.HealGlow = &world.HealGlow{Until: w.Now + healGlow}
}

// castMissileBarrage locks the positions of up to missileCount nearest
// enemies ahead of the caster. Each missile later damages whatever enemy is
// nearest its locked position, or misses if everyone moved away.
func castMissileBarrage(w *world.World, u *world.Unit, aim geom.Vec) bool {
	type candidate struct {
		unit *world.Unit
		dist float64
	}
	var cands []candidate
	for _, e := range w.Units() {
		if e.Owner == u.Owner || !e.Alive() || e.Cloaked(w.Now) {
			continue
		}
		along, _ := geom.RayDist(u.Pos, aim, e.Pos)
		d := u.Pos.Dist(e.Pos)
		if along <= 0 || d > missileRange {
			continue
		}
		cands = append(cands, candidate{unit: e, dist: d})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	if len(cands) > missileCount {
		cands = cands[:missileCount]
	}
	if len(cands) == 0 {
		return true // fired into the void; the cooldown is spent anyway
	}
	targets := make([]geom.Vec, len(cands))
	for i, c := range cands {
		targets[i] = c.unit.Pos
	}
	u.Barrage = &world.MissileBarrage{
		ResolveAt: w.Now + missileDelay,
		Targets:   targets,
		Damage:    u.Def.AttackDamage * missileFactor * u.DamageMultiplier,
		HitRadius: missileHitRadius,
	}
	return true
}

// nearestEnemyUnit returns the closest alive, non-cloaked enemy unit within
// radius of p, or nil.
func nearestEnemyUnit(w *world.World, owner int, p geom.Vec, radius float64) *world.Unit {
	var best *world.Unit
	bestDist := 0.0
	for _, e := range w.Units() {
		if e.Owner == owner || !e.Alive() || e.Cloaked(w.Now) {
			continue
		}
		d := p.Dist(e.Pos)
		if d > radius {
			continue
		}
		if best == nil || d < bestDist {
			best = e
			bestDist = d
		}
	}
	return best
}
