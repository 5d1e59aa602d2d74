package world

import (
	"github.com/photonfront/server/internal/data"
	"github.com/photonfront/server/internal/geom"
)

// Base is one side's structure. Created at match setup, never recreated; its
// hp reaching 0 decides the match.
type Base struct {
	Owner   int
	TypeKey string
	Def     *data.BaseDefinition
	Pos     geom.Vec
	HP      float64
	MaxHP   float64

	MoveTarget *geom.Vec // nil = holding position
	Selected   bool      // UI selection marker, not simulation state

	LaserCooldown float64 // seconds until the laser can fire again

	// Base-type ability state, advanced by the base system.
	GunCooldown float64 // citadel autogun
	RegenTimer  float64 // sanctum pulse accumulator
	DomeTimer   float64 // bastion dome position within its cycle
}

// DamageTaken returns cumulative damage for the victory tie-break.
func (b *Base) DamageTaken() float64 {
	return b.MaxHP - b.HP
}

// DomeActive reports whether a bastion dome is in the active window of its
// cycle. The window opens at the start of each cycle.
func (b *Base) DomeActive() bool {
	return b.Def.Ability == data.BaseShieldDome && b.DomeTimer < b.Def.ShieldDuration
}

// SetTarget points the base at a movement destination.
func (b *Base) SetTarget(pos geom.Vec) {
	p := pos
	b.MoveTarget = &p
}

// ClearTarget stops base movement.
func (b *Base) ClearTarget() {
	b.MoveTarget = nil
}
