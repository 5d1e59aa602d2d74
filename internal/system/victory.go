package system

import (
	coresys "github.com/photonfront/server/internal/core/system"
	"github.com/photonfront/server/internal/world"
)

// VictorySystem decides the match (Phase 4, last). Triggers, in order: a dead
// base loses immediately; at the time limit the side whose base took less
// damage wins, ties fall back to total damage dealt, and an unresolved tie is
// a draw (winner -1). Both transitions are terminal.
type VictorySystem struct {
	world     *world.World
	timeLimit float64 // seconds; 0 disables the limit
}

func NewVictorySystem(w *world.World, timeLimit float64) *VictorySystem {
	return &VictorySystem{world: w, timeLimit: timeLimit}
}

func (s *VictorySystem) Phase() coresys.Phase { return coresys.PhaseOutcome }

func (s *VictorySystem) Update(_ float64) {
	w := s.world
	if w.Finished {
		return
	}
	for owner, b := range w.Bases {
		if b != nil && b.HP <= 0 {
			w.Decide(world.EnemyOf(owner))
			return
		}
	}
	if s.timeLimit <= 0 || w.Now < s.timeLimit {
		return
	}

	taken := [2]float64{}
	for owner, b := range w.Bases {
		if b != nil {
			taken[owner] = b.DamageTaken()
		}
	}
	switch {
	case taken[0] < taken[1]:
		w.Decide(0)
	case taken[1] < taken[0]:
		w.Decide(1)
	case w.Stats != nil && w.Stats.DamageDealt[0] > w.Stats.DamageDealt[1]:
		w.Decide(0)
	case w.Stats != nil && w.Stats.DamageDealt[1] > w.Stats.DamageDealt[0]:
		w.Decide(1)
	default:
		w.Decide(-1)
	}
}
