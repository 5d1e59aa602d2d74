package system

import (
	coresys "github.com/photonfront/server/internal/core/system"
	"github.com/photonfront/server/internal/world"
)

// EconomySystem grants photon income on a whole-second cadence (Phase 0).
// The income rate is a step function of elapsed match time, identical for
// both players: floor(elapsed / income step) + 1. Grants are discrete so the
// economy stays auditable; a large delta loops and grants once per whole
// second it covers.
type EconomySystem struct {
	world *world.World
}

func NewEconomySystem(w *world.World) *EconomySystem {
	return &EconomySystem{world: w}
}

func (s *EconomySystem) Phase() coresys.Phase { return coresys.PhaseIncome }

func (s *EconomySystem) Update(dt float64) {
	w := s.world
	if w.Finished {
		return
	}
	rate := float64(int(w.Now/w.Tuning.IncomeStep) + 1)
	for i := range w.Players {
		w.Players[i].IncomeRate = rate
	}
	w.IncomeAcc += dt
	for w.IncomeAcc >= 1 {
		w.IncomeAcc--
		for i := range w.Players {
			w.Players[i].Photons += rate
		}
	}
}
