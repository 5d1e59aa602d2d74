package world

// Player holds one side's economy and identity.
type Player struct {
	Index   int
	Name    string
	Color   string
	Photons float64

	// IncomeRate caches the current grant size for display; the economy
	// system recomputes it from elapsed match time each tick.
	IncomeRate float64

	// EnabledUnits restricts which unit types this player may spawn.
	// nil means every loaded type is allowed.
	EnabledUnits map[string]bool
}

// CanAfford reports whether the player's photon balance covers cost.
func (p *Player) CanAfford(cost float64) bool {
	return p.Photons >= cost
}

// UnitEnabled reports whether the player may spawn units of the given type.
func (p *Player) UnitEnabled(key string) bool {
	if p.EnabledUnits == nil {
		return true
	}
	return p.EnabledUnits[key]
}
