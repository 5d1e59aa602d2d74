package world

import "github.com/photonfront/server/internal/core/event"

// ShieldScale returns the damage multiplier for a unit under allied shield
// coverage: the tuning shield factor when any allied warden aura or friendly
// bastion dome covers the target, otherwise 1. Shields reduce, never block.
func (w *World) ShieldScale(target *Unit) float64 {
	for _, ally := range w.unitList {
		if ally.Owner != target.Owner || !ally.Alive() || !ally.Shielded(w.Now) {
			continue
		}
		if ally.Pos.Dist(target.Pos) <= ally.Shield.Radius {
			return w.Tuning.ShieldFactor
		}
	}
	if b := w.Bases[target.Owner]; b != nil && b.DomeActive() {
		if b.Pos.Dist(target.Pos) <= b.Def.ShieldRadius {
			return w.Tuning.ShieldFactor
		}
	}
	return 1
}

// ApplyUnitDamage applies post-armor damage to a unit, scaled by shield
// coverage, and records attribution. Hit points may go negative; the death
// sweep at the end of combat resolution removes the corpse. Returns the
// damage actually applied.
func (w *World) ApplyUnitDamage(target *Unit, dmg float64, attackerOwner int) float64 {
	if dmg <= 0 {
		return 0
	}
	dmg *= w.ShieldScale(target)
	target.HP -= dmg
	target.LastHitOwner = attackerOwner
	if w.Stats != nil && attackerOwner >= 0 {
		w.Stats.DamageDealt[attackerOwner] += dmg
	}
	return dmg
}

// HitUnit applies one discrete hit: flat armor comes off the raw amount
// first, then the shield-scaled remainder lands. Used by ability strikes,
// lasers and autoguns; continuous combat pre-scales by armor and delta time
// before calling ApplyUnitDamage directly.
func (w *World) HitUnit(target *Unit, raw float64, attackerOwner int) float64 {
	eff := raw - target.Def.Armor
	if eff <= 0 {
		return 0
	}
	return w.ApplyUnitDamage(target, eff, attackerOwner)
}

// ApplyBaseDamage applies post-armor damage to a base. A bastion's own active
// dome scales damage to the base itself. Emits BaseDamaged and decides the
// match when hp reaches 0.
func (w *World) ApplyBaseDamage(b *Base, dmg float64, attackerOwner int) float64 {
	if dmg <= 0 || b == nil {
		return 0
	}
	if b.DomeActive() {
		dmg *= w.Tuning.ShieldFactor
	}
	b.HP -= dmg
	if b.HP < 0 {
		b.HP = 0
	}
	if w.Stats != nil {
		if attackerOwner >= 0 {
			w.Stats.DamageDealt[attackerOwner] += dmg
		}
		w.Stats.BaseDamage[b.Owner] += dmg
	}
	event.Emit(w.Bus, event.BaseDamaged{Owner: b.Owner, Amount: dmg, HP: b.HP})
	if b.HP <= 0 {
		w.Decide(EnemyOf(b.Owner))
	}
	return dmg
}

// HitBase applies one discrete hit to a base after flat armor reduction.
func (w *World) HitBase(b *Base, raw float64, attackerOwner int) float64 {
	if b == nil {
		return 0
	}
	eff := raw - b.Def.Armor
	if eff <= 0 {
		return 0
	}
	return w.ApplyBaseDamage(b, eff, attackerOwner)
}

// HealUnit restores hit points, clamped to the unit's maximum.
func (w *World) HealUnit(u *Unit, amount float64) {
	if amount <= 0 || !u.Alive() {
		return
	}
	u.HP += amount
	if u.HP > u.MaxHP {
		u.HP = u.MaxHP
	}
}

// HealBase restores base hit points, clamped to the maximum.
func (w *World) HealBase(b *Base, amount float64) {
	if b == nil || amount <= 0 || b.HP <= 0 {
		return
	}
	b.HP += amount
	if b.HP > b.MaxHP {
		b.HP = b.MaxHP
	}
}
