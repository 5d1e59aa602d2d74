package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM running one scenario script.
// Single-goroutine access only (match loop). One scenario per VM; load a
// fresh engine to switch scripts.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads the scenario at path. The script
// defines scenario_setup() and scenario_tick(ctx); either may be omitted.
func NewEngine(path string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	if err := vm.DoFile(path); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scenario %s: %w", path, err)
	}
	log.Debug("loaded scenario script", zap.String("file", path))

	return &Engine{vm: vm, log: log}, nil
}

// Setup holds match parameters declared by the scenario. Zero-value fields
// defer to the config; a nil EnabledUnits list enables every unit type.
type Setup struct {
	Name         string
	Arena        string
	EnabledUnits []string
}

// Setup calls Lua scenario_setup() if the script defines it.
func (e *Engine) Setup() *Setup {
	fn := e.vm.GetGlobal("scenario_setup")
	if fn == lua.LNil {
		return nil
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}); err != nil {
		e.log.Error("lua scenario_setup error", zap.Error(err))
		return nil
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil
	}

	s := &Setup{
		Name:  lStr(rt, "name"),
		Arena: lStr(rt, "arena"),
	}
	if unitsVal, ok := rt.RawGetString("enabled_units").(*lua.LTable); ok {
		unitsVal.ForEach(func(_, v lua.LValue) {
			s.EnabledUnits = append(s.EnabledUnits, lua.LVAsString(v))
		})
	}
	return s
}

// UnitView is one unit row passed into the scenario tick context.
type UnitView struct {
	ID       int32
	Owner    int
	TypeKey  string
	X, Y     float64
	HP       float64
	MaxHP    float64
	Cooldown float64
	QueueLen int
}

// BaseView is one base row passed into the scenario tick context.
type BaseView struct {
	X, Y       float64
	HP, MaxHP  float64
	LaserReady bool
}

// TickContext holds the world snapshot handed to Lua each tick. Owner o
// indexes the per-player arrays at o+1, Lua-style.
type TickContext struct {
	Tick    int
	Now     float64
	Photons [2]int
	Income  [2]int
	Bases   [2]*BaseView
	Units   []UnitView
}

// Directive is a single order returned by the scenario. The match runner
// translates it into the corresponding world call; the simulation still
// validates everything, so a bad directive is a silent no-op.
type Directive struct {
	Type       string  // "spawn", "move", "attack_move", "patrol", "ability", "base_move", "laser"
	Owner      int     // spawn, base_move, laser
	Unit       string  // spawn: unit type key
	ID         int32   // move, attack_move, patrol, ability: unit id
	X, Y       float64 // destination, rally point or ability anchor
	DirX, DirY float64 // ability aim or laser direction
}

// Tick calls Lua scenario_tick(ctx) and returns the directives for this tick.
func (e *Engine) Tick(ctx TickContext) []Directive {
	fn := e.vm.GetGlobal("scenario_tick")
	if fn == lua.LNil {
		return nil
	}

	// Build context table
	t := e.vm.NewTable()
	t.RawSetString("tick", lua.LNumber(ctx.Tick))
	t.RawSetString("now", lua.LNumber(ctx.Now))

	photons := e.vm.NewTable()
	income := e.vm.NewTable()
	for i := 0; i < 2; i++ {
		photons.RawSetInt(i+1, lua.LNumber(ctx.Photons[i]))
		income.RawSetInt(i+1, lua.LNumber(ctx.Income[i]))
	}
	t.RawSetString("photons", photons)
	t.RawSetString("income", income)

	bases := e.vm.NewTable()
	for i, b := range ctx.Bases {
		if b == nil {
			continue
		}
		row := e.vm.NewTable()
		row.RawSetString("x", lua.LNumber(b.X))
		row.RawSetString("y", lua.LNumber(b.Y))
		row.RawSetString("hp", lua.LNumber(b.HP))
		row.RawSetString("max_hp", lua.LNumber(b.MaxHP))
		if b.LaserReady {
			row.RawSetString("laser_ready", lua.LTrue)
		} else {
			row.RawSetString("laser_ready", lua.LFalse)
		}
		bases.RawSetInt(i+1, row)
	}
	t.RawSetString("bases", bases)

	units := e.vm.NewTable()
	for i, u := range ctx.Units {
		row := e.vm.NewTable()
		row.RawSetString("id", lua.LNumber(u.ID))
		row.RawSetString("owner", lua.LNumber(u.Owner))
		row.RawSetString("type", lua.LString(u.TypeKey))
		row.RawSetString("x", lua.LNumber(u.X))
		row.RawSetString("y", lua.LNumber(u.Y))
		row.RawSetString("hp", lua.LNumber(u.HP))
		row.RawSetString("max_hp", lua.LNumber(u.MaxHP))
		row.RawSetString("cooldown", lua.LNumber(u.Cooldown))
		row.RawSetString("queue_len", lua.LNumber(u.QueueLen))
		units.RawSetInt(i+1, row)
	}
	t.RawSetString("units", units)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua scenario_tick error", zap.Error(err), zap.Int("tick", ctx.Tick))
		return nil
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil
	}

	// Parse directives array
	var dirs []Directive
	rt.ForEach(func(_, v lua.LValue) {
		if row, ok := v.(*lua.LTable); ok {
			dirs = append(dirs, Directive{
				Type:  lStr(row, "type"),
				Owner: lInt(row, "owner"),
				Unit:  lStr(row, "unit"),
				ID:    int32(lInt(row, "id")),
				X:     lFloat(row, "x"),
				Y:     lFloat(row, "y"),
				DirX:  lFloat(row, "dir_x"),
				DirY:  lFloat(row, "dir_y"),
			})
		}
	})
	return dirs
}

// --- Lua helpers ---

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// lFloat reads a float field from a Lua table.
func lFloat(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
