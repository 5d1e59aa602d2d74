package system

// Phase defines execution ordering within a single simulation tick. The order
// is load-bearing: income must land before units move, units before bases,
// bases before combat, and the outcome check always runs last so the time
// limit and base destruction see the finished tick.
type Phase int

const (
	PhaseIncome  Phase = iota // 0: economy grants
	PhaseUnits                // 1: command queue mover + ability effect ticker
	PhaseBases                // 2: base movement + base-type abilities
	PhaseCombat               // 3: auto-combat resolution + death sweep
	PhaseOutcome              // 4: time limit, then victory evaluation
)

// System is the interface every simulation system implements. Update receives
// the tick's delta in simulation seconds.
type System interface {
	Phase() Phase
	Update(dt float64)
}
