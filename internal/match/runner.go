// Package match orchestrates one simulated match: it owns the world, drives
// the fixed-timestep coordinator, pumps scenario directives in between ticks
// and records everything it applied into a replay journal. The simulation
// itself lives in world and system; this package only sequences them.
package match

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/photonfront/server/internal/config"
	"github.com/photonfront/server/internal/core/event"
	"github.com/photonfront/server/internal/data"
	"github.com/photonfront/server/internal/geom"
	"github.com/photonfront/server/internal/replay"
	"github.com/photonfront/server/internal/scripting"
	"github.com/photonfront/server/internal/system"
	"github.com/photonfront/server/internal/world"
)

// Tables bundles the static data a match needs. Loaded once at startup and
// shared read-only between live matches and replay verification.
type Tables struct {
	Units  *data.UnitTable
	Bases  *data.BaseTable
	Arenas *data.ArenaTable
}

// LoadTables reads the three YAML tables named by the data config section.
func LoadTables(cfg config.DataConfig) (*Tables, error) {
	units, err := data.LoadUnitTable(cfg.Units)
	if err != nil {
		return nil, fmt.Errorf("load unit table: %w", err)
	}
	bases, err := data.LoadBaseTable(cfg.Bases)
	if err != nil {
		return nil, fmt.Errorf("load base table: %w", err)
	}
	arenas, err := data.LoadArenaTable(cfg.Arenas)
	if err != nil {
		return nil, fmt.Errorf("load arena table: %w", err)
	}
	return &Tables{Units: units, Bases: bases, Arenas: arenas}, nil
}

// Runner drives one match from setup to decision.
type Runner struct {
	log      *zap.Logger
	cfg      *config.Config
	tables   *Tables
	scenario *scripting.Engine
	journal  *replay.Journal

	id           uuid.UUID
	scenarioName string
	arena        *data.ArenaDefinition
	baseKeys     [2]string
	enabled      []string

	world *world.World
	coord *system.Coordinator
	tick  int
	done  bool
}

// New assembles a runner from configuration. The scenario engine may be nil
// for a scriptless match. A scenario's setup block overrides the configured
// arena and enabled-unit set, mirroring how the recording side of a replay
// resolved them.
func New(cfg *config.Config, tables *Tables, scenario *scripting.Engine, log *zap.Logger) (*Runner, error) {
	arenaKey := cfg.Match.Arena
	enabled := cfg.Match.EnabledUnits
	scenarioName := ""
	if scenario != nil {
		if setup := scenario.Setup(); setup != nil {
			scenarioName = setup.Name
			if setup.Arena != "" {
				arenaKey = setup.Arena
			}
			if len(setup.EnabledUnits) > 0 {
				enabled = setup.EnabledUnits
			}
		}
	}

	var baseKeys [2]string
	copy(baseKeys[:], cfg.Match.Bases)

	w, arena, err := buildWorld(tables, arenaKey, baseKeys, enabled, tuningFromConfig(cfg.Tuning), event.NewBus())
	if err != nil {
		return nil, err
	}

	r := &Runner{
		log:          log,
		cfg:          cfg,
		tables:       tables,
		scenario:     scenario,
		id:           uuid.New(),
		scenarioName: scenarioName,
		arena:        arena,
		baseKeys:     baseKeys,
		enabled:      enabled,
		world:        w,
		coord:        system.NewCoordinator(w, cfg.Match.TimeLimit),
	}

	event.Subscribe(w.Bus, func(ev event.MatchDecided) {
		log.Info("match decided",
			zap.Int("winner", ev.Winner),
			zap.Float64("elapsed", ev.Elapsed))
	})
	event.Subscribe(w.Bus, func(ev event.UnitDied) {
		log.Debug("unit destroyed",
			zap.Int32("unit", ev.UnitID),
			zap.String("type", ev.TypeKey),
			zap.Int("owner", ev.Owner),
			zap.Int("killer", ev.Killer))
	})
	return r, nil
}

// buildWorld constructs a fresh world for the given setup. Shared with replay
// verification, which rebuilds the exact world the recording side started
// from.
func buildWorld(tables *Tables, arenaKey string, baseKeys [2]string, enabled []string, tuning world.Tuning, bus *event.Bus) (*world.World, *data.ArenaDefinition, error) {
	arena := tables.Arenas.Get(arenaKey)
	if arena == nil {
		return nil, nil, fmt.Errorf("unknown arena %q", arenaKey)
	}
	w := world.New(tables.Units, arena, tuning, bus)
	for owner := 0; owner < 2; owner++ {
		def := tables.Bases.Get(baseKeys[owner])
		if def == nil {
			return nil, nil, fmt.Errorf("unknown base type %q for owner %d", baseKeys[owner], owner)
		}
		w.AddBase(owner, def, arena.BasePos(owner))
	}
	if len(enabled) > 0 {
		set := make(map[string]bool, len(enabled))
		for _, key := range enabled {
			if tables.Units.Get(key) == nil {
				return nil, nil, fmt.Errorf("unknown unit type %q in enabled set", key)
			}
			set[key] = true
		}
		for _, p := range w.Players {
			p.EnabledUnits = set
		}
	}
	return w, arena, nil
}

// ID returns the match identifier minted at construction.
func (r *Runner) ID() uuid.UUID { return r.id }

// World exposes the live simulation state. Read-only for callers; the
// simulation loop is the single writer.
func (r *Runner) World() *world.World { return r.world }

// Tick returns the number of steps advanced so far.
func (r *Runner) Tick() int { return r.tick }

// Header describes this match for the replay journal: everything verification
// needs to rebuild an identical starting world.
func (r *Runner) Header() replay.Header {
	return replay.Header{
		MatchID:      r.id.String(),
		Arena:        r.arena.Key,
		Scenario:     r.scenarioName,
		TickRate:     r.cfg.Match.TickRate,
		TimeLimit:    r.cfg.Match.TimeLimit,
		Bases:        r.baseKeys,
		EnabledUnits: r.enabled,
		Tuning:       r.world.Tuning,
	}
}

// AttachJournal starts recording applied directives to w. Must be called
// before the first step; a journal attached mid-match would miss the prefix
// and never verify.
func (r *Runner) AttachJournal(w io.Writer) error {
	if r.tick > 0 {
		return fmt.Errorf("journal attached after tick %d", r.tick)
	}
	j, err := replay.NewJournal(w, r.Header())
	if err != nil {
		return fmt.Errorf("start journal: %w", err)
	}
	r.journal = j
	return nil
}

// Step runs one fixed-dt tick: scenario directives first, then the
// simulation advance. Steps after the match decides are no-ops so the tick
// counter always matches the journal.
func (r *Runner) Step(dt float64) {
	if r.world.Finished {
		return
	}
	if r.scenario != nil {
		for _, d := range r.scenario.Tick(r.tickContext()) {
			r.Apply(d)
		}
	}
	r.coord.Advance(dt)
	r.tick++
}

// Apply journals a directive and hands it to the world. Recording happens
// before validation: rejections are deterministic, so replaying a rejected
// directive rejects it again and the streams stay aligned.
func (r *Runner) Apply(d scripting.Directive) {
	if r.journal != nil {
		if err := r.journal.Record(r.tick, d); err != nil {
			r.log.Error("journal write failed, recording stopped", zap.Error(err))
			r.journal = nil
		}
	}
	applyDirective(r.world, r.arena, d)
}

// applyDirective translates one directive into a world entry point. The world
// validates everything; malformed directives are silent no-ops on both the
// live and the replay side.
func applyDirective(w *world.World, arena *data.ArenaDefinition, d scripting.Directive) {
	switch d.Type {
	case "spawn":
		if d.Owner < 0 || d.Owner > 1 {
			return
		}
		w.SpawnUnit(d.Owner, d.Unit, arena.SpawnPos(d.Owner), geom.V(d.X, d.Y))
	case "move":
		w.IssueCommand(d.ID, world.MoveTo(geom.V(d.X, d.Y)))
	case "attack_move":
		w.IssueCommand(d.ID, world.AttackMoveTo(geom.V(d.X, d.Y)))
	case "patrol":
		// The return leg anchors where the unit stands when the order lands.
		if u := w.GetUnit(d.ID); u != nil {
			w.IssueCommand(d.ID, world.PatrolTo(geom.V(d.X, d.Y), u.Pos))
		}
	case "ability":
		w.IssueCommand(d.ID, world.AbilityAt(geom.V(d.X, d.Y), geom.V(d.DirX, d.DirY)))
	case "base_move":
		w.SetBaseTarget(d.Owner, geom.V(d.X, d.Y))
	case "laser":
		w.FireLaser(d.Owner, geom.V(d.DirX, d.DirY))
	}
}

// tickContext snapshots the world into the plain structs the scripting
// bridge marshals into Lua.
func (r *Runner) tickContext() scripting.TickContext {
	ctx := scripting.TickContext{
		Tick: r.tick,
		Now:  r.world.Now,
	}
	for i, p := range r.world.Players {
		ctx.Photons[i] = int(p.Photons)
		ctx.Income[i] = int(p.IncomeRate)
	}
	for i, b := range r.world.Bases {
		if b == nil {
			continue
		}
		ctx.Bases[i] = &scripting.BaseView{
			X:          b.Pos.X,
			Y:          b.Pos.Y,
			HP:         b.HP,
			MaxHP:      b.MaxHP,
			LaserReady: b.LaserCooldown <= 0,
		}
	}
	units := r.world.Units()
	ctx.Units = make([]scripting.UnitView, 0, len(units))
	for _, u := range units {
		ctx.Units = append(ctx.Units, scripting.UnitView{
			ID:       u.ID,
			Owner:    u.Owner,
			TypeKey:  u.TypeKey,
			X:        u.Pos.X,
			Y:        u.Pos.Y,
			HP:       u.HP,
			MaxHP:    u.MaxHP,
			Cooldown: u.AbilityCooldown,
			QueueLen: len(u.Queue),
		})
	}
	return ctx
}

// Run drives the match in real time until it decides or ctx is cancelled.
// Returns the winner index (-1 for a draw or an undecided abort).
func (r *Runner) Run(ctx context.Context) (int, error) {
	dt := r.cfg.Match.TickRate.Seconds()
	ticker := time.NewTicker(r.cfg.Match.TickRate)
	defer ticker.Stop()

	r.log.Info("match started",
		zap.String("match", r.id.String()),
		zap.String("arena", r.arena.Key),
		zap.String("scenario", r.scenarioName),
		zap.Duration("tick_rate", r.cfg.Match.TickRate),
		zap.Float64("time_limit", r.cfg.Match.TimeLimit))

	for !r.world.Finished {
		select {
		case <-ctx.Done():
			r.finish()
			return r.world.Winner, ctx.Err()
		case <-ticker.C:
			r.Step(dt)
		}
	}
	r.finish()
	return r.world.Winner, nil
}

// RunHeadless advances fixed-dt ticks as fast as possible and returns the
// winner. maxTicks <= 0 derives a cap from the match time limit; a match
// without a limit needs an explicit cap.
func (r *Runner) RunHeadless(maxTicks int) int {
	dt := r.cfg.Match.TickRate.Seconds()
	if maxTicks <= 0 {
		maxTicks = headlessCap(r.cfg.Match.TimeLimit, dt)
	}
	for i := 0; i < maxTicks && !r.world.Finished; i++ {
		r.Step(dt)
	}
	r.finish()
	return r.world.Winner
}

// headlessCap is one tick past the moment the time limit forces a decision,
// with a generous fallback for limitless matches.
func headlessCap(limit, dt float64) int {
	if limit <= 0 {
		return 1 << 20
	}
	return int(limit/dt) + 2
}

// finish seals the journal and logs the outcome. Idempotent: Run and
// RunHeadless both land here, and an aborted Run may be followed by a
// deliberate second call.
func (r *Runner) finish() {
	if r.done {
		return
	}
	r.done = true

	w := r.world
	digest := w.Digest()
	if r.journal != nil {
		if err := r.journal.Finish(w.Winner, r.tick, digest); err != nil {
			r.log.Error("journal end record failed", zap.Error(err))
		}
	}
	if w.Finished {
		r.log.Info("match finished",
			zap.Int("winner", w.Winner),
			zap.Int("ticks", r.tick),
			zap.Float64("elapsed", w.Now),
			zap.Uint64("digest", digest))
	} else {
		r.log.Warn("match halted before decision",
			zap.Int("ticks", r.tick),
			zap.Float64("elapsed", w.Now))
	}
}

// tuningFromConfig maps the TOML tuning section onto the simulation knobs.
func tuningFromConfig(c config.TuningConfig) world.Tuning {
	return world.Tuning{
		QueueCap:           c.QueueCap,
		PromotionThreshold: c.PromotionThreshold,
		PromotionFactor:    c.PromotionFactor,
		QueueBonus:         c.QueueBonus,
		ShieldFactor:       c.ShieldFactor,
		IncomeStep:         c.IncomeStep,
		StartingPhotons:    c.StartingPhotons,
	}
}
