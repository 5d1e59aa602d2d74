package system

import (
	coresys "github.com/photonfront/server/internal/core/system"
	"github.com/photonfront/server/internal/world"
)

// Coordinator drives one simulation tick in the fixed, load-bearing order:
// income, unit movement and effect ticking, bases, combat resolution, then
// outcome. It is the only place the simulation clock advances.
type Coordinator struct {
	world  *world.World
	runner *coresys.Runner
}

// NewCoordinator wires the standard system set over a world. timeLimit <= 0
// runs the match without a clock limit.
func NewCoordinator(w *world.World, timeLimit float64) *Coordinator {
	r := coresys.NewRunner()
	r.Register(NewEconomySystem(w))
	r.Register(NewMoverSystem(w))
	r.Register(NewEffectSystem(w))
	r.Register(NewBaseSystem(w))
	r.Register(NewCombatSystem(w))
	r.Register(NewVictorySystem(w, timeLimit))
	return &Coordinator{world: w, runner: r}
}

// Advance runs one tick of dt simulation seconds and flushes the event bus.
// A decided match is a no-op: callers are expected to stop driving ticks, but
// the coordinator does not rely on it and stays idempotent.
func (c *Coordinator) Advance(dt float64) {
	if dt <= 0 || c.world.Finished {
		return
	}
	c.world.Now += dt
	c.runner.Tick(dt)
	if c.world.Bus != nil {
		c.world.Bus.Flush()
	}
}
