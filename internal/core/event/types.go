package event

import "github.com/photonfront/server/internal/geom"

// Simulation hook events. All are fire-and-forget notifications: the match is
// correct with zero subscribers, and handlers must not mutate world state.

// UnitSpawned fires when a spawn request passes validation and the unit enters
// the world.
type UnitSpawned struct {
	UnitID   int32
	TypeKey  string
	Owner    int
	Position geom.Vec
}

// UnitDied fires from the death sweep, once per removed unit.
type UnitDied struct {
	UnitID   int32
	TypeKey  string
	Owner    int
	Position geom.Vec
	Killer   int // owner index credited with the kill, -1 when unattributed
}

// BaseDamaged fires whenever a base loses hit points.
type BaseDamaged struct {
	Owner  int
	Amount float64
	HP     float64
}

// AbilityCast fires when an ability executor actually starts an effect
// (cooldown rejections do not fire it).
type AbilityCast struct {
	UnitID  int32
	TypeKey string
	Owner   int
	Ability string
}

// LaserFired fires when a base laser discharges.
type LaserFired struct {
	Owner     int
	Direction geom.Vec
}

// MatchDecided fires exactly once, on the tick the victory evaluator settles
// the outcome. Winner is an owner index, or -1 for a draw.
type MatchDecided struct {
	Winner  int
	Elapsed float64
}
