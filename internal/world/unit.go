package world

import (
	"github.com/photonfront/server/internal/data"
	"github.com/photonfront/server/internal/geom"
)

// Unit is one mobile combatant. Mutated in place by the tick systems;
// accessed only from the simulation goroutine, so no locks.
type Unit struct {
	ID      int32
	TypeKey string
	Def     *data.UnitDefinition // shared static stats, never mutated
	Owner   int                  // 0 or 1
	Pos     geom.Vec
	HP      float64 // may dip below 0 within a tick; the death sweep removes it
	MaxHP   float64

	Queue    []CommandNode // FIFO, head first; length capped at QueueCap
	QueueCap int

	DamageMultiplier float64 // starts at 1.0, only ever increases
	DistanceTraveled float64 // cumulative meters moved
	DistanceCredit   float64 // accumulator toward the next promotion
	AbilityCooldown  float64 // seconds remaining; 0 = ready

	// Deferred-effect slots. At most one instance of each; re-triggering an
	// ability overwrites its slot rather than stacking.
	Shield   *ShieldEffect
	Cloak    *CloakEffect
	Bombard  *BombardEffect
	HealGlow *HealGlow
	Barrage  *MissileBarrage
	Jump     *LineJump

	DashingUntil float64 // cosmetic marker set by dash strike, sim-time expiry

	LastHitOwner int // owner index of the most recent damage source, -1 = none
}

// ShieldEffect is a timed aura: allied units inside Radius take scaled damage
// while the simulation clock is before Until.
type ShieldEffect struct {
	Until  float64
	Radius float64
}

// CloakEffect removes the unit from auto-targeting until it expires.
type CloakEffect struct {
	Until float64
}

// BombardEffect is a delayed-impact area effect at Pos: damage per second is
// applied to enemies inside Radius only between Impact and Until.
type BombardEffect struct {
	Pos    geom.Vec
	Impact float64
	Until  float64
	DPS    float64
	Radius float64
}

// HealGlow is the cosmetic display slot left behind by a heal pulse.
type HealGlow struct {
	Until float64
}

// MissileBarrage defers one missile per locked target position, all resolving
// at the same instant. Damage is fixed at cast time.
type MissileBarrage struct {
	ResolveAt float64
	Targets   []geom.Vec
	Damage    float64
	HitRadius float64
}

// LineJump is an armed telegraph: at ResolveAt the Origin→End segment is swept
// for enemies and the caster relocates to End. Resolves exactly once.
type LineJump struct {
	Origin    geom.Vec
	End       geom.Vec
	ResolveAt float64
	Damage    float64
	HitRadius float64
}

// Alive reports whether the unit has positive hit points.
func (u *Unit) Alive() bool {
	return u.HP > 0
}

// Cloaked reports whether the unit is hidden from auto-targeting at sim time now.
func (u *Unit) Cloaked(now float64) bool {
	return u.Cloak != nil && now < u.Cloak.Until
}

// Shielded reports whether the unit's own shield aura is active at sim time now.
func (u *Unit) Shielded(now float64) bool {
	return u.Shield != nil && now < u.Shield.Until
}

// PushCommand appends a command to the queue. Pushing past the cap is a
// rejected no-op.
func (u *Unit) PushCommand(n CommandNode) bool {
	if len(u.Queue) >= u.QueueCap {
		return false
	}
	u.Queue = append(u.Queue, n)
	return true
}

// Head returns the command currently being executed, or nil for an idle unit.
func (u *Unit) Head() *CommandNode {
	if len(u.Queue) == 0 {
		return nil
	}
	return &u.Queue[0]
}

// RetireHead drops the head command.
func (u *Unit) RetireHead() {
	if len(u.Queue) == 0 {
		return
	}
	u.Queue = u.Queue[1:]
}

// ClearQueue drops every queued command.
func (u *Unit) ClearQueue() {
	u.Queue = u.Queue[:0]
}

// QueuedMoves counts the movement-kind commands waiting behind the head.
// Deeper queued plans earn faster promotion credit.
func (u *Unit) QueuedMoves() int {
	n := 0
	for i := 1; i < len(u.Queue); i++ {
		switch u.Queue[i].Kind {
		case CommandMove, CommandAttackMove, CommandPatrol:
			n++
		}
	}
	return n
}
