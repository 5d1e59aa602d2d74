package match

import (
	"bytes"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/photonfront/server/internal/config"
	"github.com/photonfront/server/internal/geom"
	"github.com/photonfront/server/internal/replay"
	"github.com/photonfront/server/internal/scripting"
)

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Match.TickRate = 50 * time.Millisecond
	cfg.Match.TimeLimit = 60
	cfg.Match.Arena = "pit"
	cfg.Match.Bases = []string{"citadel", "core"}
	cfg.Data = config.DataConfig{
		Units:  "testdata/unit_list.yaml",
		Bases:  "testdata/base_list.yaml",
		Arenas: "testdata/arena_list.yaml",
	}
	return cfg
}

func testTables(t *testing.T) *Tables {
	t.Helper()
	tables, err := LoadTables(testConfig().Data)
	if err != nil {
		t.Fatalf("LoadTables: %v", err)
	}
	return tables
}

func TestLoadTablesMissingFile(t *testing.T) {
	cfg := testConfig().Data
	cfg.Units = "testdata/no_such.yaml"
	if _, err := LoadTables(cfg); err == nil {
		t.Fatal("expected error for missing unit table")
	}
}

func TestNewRejectsBadSetup(t *testing.T) {
	tables := testTables(t)

	cfg := testConfig()
	cfg.Match.Arena = "nowhere"
	if _, err := New(cfg, tables, nil, zap.NewNop()); err == nil {
		t.Fatal("expected error for unknown arena")
	}

	cfg = testConfig()
	cfg.Match.Bases = []string{"citadel", "palace"}
	if _, err := New(cfg, tables, nil, zap.NewNop()); err == nil {
		t.Fatal("expected error for unknown base type")
	}

	cfg = testConfig()
	cfg.Match.EnabledUnits = []string{"striker", "ogre"}
	if _, err := New(cfg, tables, nil, zap.NewNop()); err == nil {
		t.Fatal("expected error for unknown enabled unit")
	}
}

func TestScenarioSetupOverridesConfig(t *testing.T) {
	tables := testTables(t)
	eng, err := scripting.NewEngine("testdata/override.lua", zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer eng.Close()

	cfg := testConfig()
	cfg.Match.Arena = "pit"
	cfg.Match.EnabledUnits = []string{"striker", "medic"}
	r, err := New(cfg, tables, eng, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	h := r.Header()
	if h.Arena != "yard" {
		t.Fatalf("arena = %q, setup block should override to yard", h.Arena)
	}
	if h.Scenario != "override" {
		t.Fatalf("scenario name = %q, want override", h.Scenario)
	}
	if len(h.EnabledUnits) != 1 || h.EnabledUnits[0] != "striker" {
		t.Fatalf("enabled units = %v, want [striker]", h.EnabledUnits)
	}

	w := r.World()
	if w.SpawnUnit(0, "medic", geom.V(16, 30), geom.V(16, 30)) {
		t.Fatal("medic spawn should be rejected outside the enabled set")
	}
	if !w.SpawnUnit(0, "striker", geom.V(16, 30), geom.V(16, 30)) {
		t.Fatal("striker spawn should pass")
	}
}

func TestAttachJournalAfterStartFails(t *testing.T) {
	r, err := New(testConfig(), testTables(t), nil, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.Step(0.05)
	if err := r.AttachJournal(&bytes.Buffer{}); err == nil {
		t.Fatal("expected error attaching a journal mid-match")
	}
}

// The full loop: a scripted match runs headless to a decision, the journal it
// wrote parses back, and re-driving it reproduces the exact digest.
func TestHeadlessMatchRecordsAndVerifies(t *testing.T) {
	tables := testTables(t)
	eng, err := scripting.NewEngine("testdata/rush.lua", zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer eng.Close()

	cfg := testConfig()
	r, err := New(cfg, tables, eng, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var buf bytes.Buffer
	if err := r.AttachJournal(&buf); err != nil {
		t.Fatalf("AttachJournal: %v", err)
	}

	winner := r.RunHeadless(0)
	if winner != 0 {
		t.Fatalf("winner = %d, the scripted laser should take player 0's match", winner)
	}
	if !r.World().Finished {
		t.Fatal("world should be finished")
	}
	ticks := r.Tick()
	if ticks == 0 {
		t.Fatal("no ticks advanced")
	}

	// Steps after the decision must not move the counter: the journal's tick
	// count has to stay truthful.
	r.Step(0.05)
	if r.Tick() != ticks {
		t.Fatalf("tick advanced to %d after the match decided", r.Tick())
	}

	rec, err := replay.Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !rec.Complete {
		t.Fatal("journal should carry an end record")
	}
	if rec.End.Winner != 0 || rec.End.Ticks != ticks {
		t.Fatalf("end record = %+v, want winner 0 over %d ticks", rec.End, ticks)
	}
	if rec.End.Digest != r.World().Digest() {
		t.Fatal("sealed digest differs from the live world's")
	}
	if len(rec.Events) == 0 {
		t.Fatal("no directives journaled")
	}

	res, err := Verify(rec, tables, zap.NewNop())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !res.Clean {
		t.Fatalf("re-drive diverged: got digest %d winner %d, recorded %d winner %d",
			res.Digest, res.Winner, rec.End.Digest, rec.End.Winner)
	}
}

// Rejected directives are journaled too; both sides discard them the same
// way, so the streams stay aligned.
func TestRejectedDirectiveIsJournaled(t *testing.T) {
	tables := testTables(t)
	r, err := New(testConfig(), tables, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var buf bytes.Buffer
	if err := r.AttachJournal(&buf); err != nil {
		t.Fatalf("AttachJournal: %v", err)
	}

	r.Apply(scripting.Directive{Type: "spawn", Owner: 0, Unit: "ogre", X: 12, Y: 20})
	if r.World().UnitCount() != 0 {
		t.Fatal("unknown unit type must not spawn")
	}
	r.RunHeadless(1)

	rec, err := replay.Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rec.Events) != 1 || rec.Events[0].Directive.Unit != "ogre" {
		t.Fatalf("events = %+v, want the rejected spawn on record", rec.Events)
	}

	res, err := Verify(rec, tables, zap.NewNop())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !res.Clean {
		t.Fatal("re-drive with a rejected directive should still match")
	}
}

func TestHeadlessTimeLimitDraw(t *testing.T) {
	cfg := testConfig()
	cfg.Match.TimeLimit = 0.3
	r, err := New(cfg, testTables(t), nil, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	winner := r.RunHeadless(0)
	if winner != -1 {
		t.Fatalf("winner = %d, an idle match at the limit is a draw", winner)
	}
	if !r.World().Finished {
		t.Fatal("time limit should finish the match")
	}
}

func TestVerifyRejectsIncompleteJournal(t *testing.T) {
	rec := &replay.Recording{Complete: false}
	if _, err := Verify(rec, testTables(t), zap.NewNop()); err == nil {
		t.Fatal("expected error for incomplete journal")
	}
}

func TestVerifyUnknownArena(t *testing.T) {
	rec := &replay.Recording{
		Header: replay.Header{
			Arena:    "nowhere",
			TickRate: 50 * time.Millisecond,
			Bases:    [2]string{"citadel", "core"},
		},
		Complete: true,
	}
	if _, err := Verify(rec, testTables(t), zap.NewNop()); err == nil {
		t.Fatal("expected error for unknown arena in header")
	}
}

func TestVerifyFlagsTampering(t *testing.T) {
	tables := testTables(t)
	r, err := New(testConfig(), tables, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var buf bytes.Buffer
	if err := r.AttachJournal(&buf); err != nil {
		t.Fatalf("AttachJournal: %v", err)
	}
	r.Apply(scripting.Directive{Type: "spawn", Owner: 1, Unit: "striker", X: 38, Y: 20})
	r.RunHeadless(4)

	rec, err := replay.Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rec.End.Digest ^= 1

	res, err := Verify(rec, tables, zap.NewNop())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if res.Clean {
		t.Fatal("a forged digest must not verify clean")
	}
}
