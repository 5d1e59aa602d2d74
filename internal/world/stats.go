package world

// MatchStats accumulates running combat totals. Combat and spawn paths mutate
// it; the victory evaluator reads it for tie-breaks. Optional: a nil stats
// pointer on the world simply skips aggregation.
type MatchStats struct {
	DamageDealt  [2]float64 // total damage each owner's units and lasers dealt
	BaseDamage   [2]float64 // damage absorbed by each owner's base
	UnitsTrained [2]int
	UnitsKilled  [2]int // kills credited to each owner
	UnitsLost    [2]int
}
