package match

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/photonfront/server/internal/core/event"
	"github.com/photonfront/server/internal/replay"
	"github.com/photonfront/server/internal/system"
)

// VerifyResult reports one replay re-drive against its journal's end record.
type VerifyResult struct {
	Winner int
	Ticks  int
	Digest uint64

	// Clean means the re-driven world reached the exact digest and winner the
	// recording side sealed into the journal.
	Clean bool
}

// Verify re-drives a recorded match and compares the final world digest with
// the one in the journal's end record. The caller supplies the same data
// tables the recording side loaded; the header carries everything else needed
// to rebuild an identical starting world. A divergence is the result being
// reported, not an error; a journal that cannot be re-driven at all is one.
func Verify(rec *replay.Recording, tables *Tables, log *zap.Logger) (*VerifyResult, error) {
	if !rec.Complete {
		return nil, fmt.Errorf("journal is incomplete, nothing to verify against")
	}
	if rec.Header.TickRate <= 0 {
		return nil, fmt.Errorf("journal header has no tick rate")
	}

	w, arena, err := buildWorld(tables, rec.Header.Arena, rec.Header.Bases,
		rec.Header.EnabledUnits, rec.Header.Tuning, event.NewBus())
	if err != nil {
		return nil, err
	}
	coord := system.NewCoordinator(w, rec.Header.TimeLimit)
	dt := rec.Header.TickRate.Seconds()

	next := 0
	for tick := 0; tick < rec.End.Ticks; tick++ {
		for next < len(rec.Events) && rec.Events[next].Tick == tick {
			applyDirective(w, arena, rec.Events[next].Directive)
			next++
		}
		coord.Advance(dt)
	}
	if next < len(rec.Events) {
		return nil, fmt.Errorf("journal has directives past its %d recorded ticks", rec.End.Ticks)
	}

	digest := w.Digest()
	res := &VerifyResult{
		Winner: w.Winner,
		Ticks:  rec.End.Ticks,
		Digest: digest,
		Clean:  digest == rec.End.Digest && w.Winner == rec.End.Winner,
	}
	if res.Clean {
		log.Info("replay verified",
			zap.String("match", rec.Header.MatchID),
			zap.Int("winner", res.Winner),
			zap.Int("ticks", res.Ticks),
			zap.Uint64("digest", res.Digest))
	} else {
		log.Warn("replay diverged",
			zap.String("match", rec.Header.MatchID),
			zap.Int("winner", res.Winner),
			zap.Int("recorded_winner", rec.End.Winner),
			zap.Uint64("digest", res.Digest),
			zap.Uint64("recorded_digest", rec.End.Digest))
	}
	return res, nil
}
