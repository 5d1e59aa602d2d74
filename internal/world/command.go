package world

import "github.com/photonfront/server/internal/geom"

// CommandKind discriminates the queued command union.
type CommandKind int

const (
	CommandMove CommandKind = iota
	CommandAbility
	CommandAttackMove
	CommandPatrol
)

func (k CommandKind) String() string {
	switch k {
	case CommandMove:
		return "move"
	case CommandAbility:
		return "ability"
	case CommandAttackMove:
		return "attack_move"
	case CommandPatrol:
		return "patrol"
	}
	return "unknown"
}

// CommandNode is one queued order. Pos is the movement anchor for every kind;
// Dir is the aim direction for ability nodes; Return is the remembered
// position for patrol nodes (reused by the order-issuing layer, not the mover).
type CommandNode struct {
	Kind   CommandKind
	Pos    geom.Vec
	Dir    geom.Vec
	Return geom.Vec
}

// MoveTo builds a plain movement command.
func MoveTo(pos geom.Vec) CommandNode {
	return CommandNode{Kind: CommandMove, Pos: pos}
}

// AbilityAt builds an ability command anchored at pos and aimed along dir.
// The direction is normalized here so executors can assume a unit vector.
func AbilityAt(pos, dir geom.Vec) CommandNode {
	return CommandNode{Kind: CommandAbility, Pos: pos, Dir: dir.Norm()}
}

// AttackMoveTo builds an attack-move command.
func AttackMoveTo(pos geom.Vec) CommandNode {
	return CommandNode{Kind: CommandAttackMove, Pos: pos}
}

// PatrolTo builds a patrol command that remembers where the unit came from.
func PatrolTo(pos, ret geom.Vec) CommandNode {
	return CommandNode{Kind: CommandPatrol, Pos: pos, Return: ret}
}
