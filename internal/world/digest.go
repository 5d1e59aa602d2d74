package world

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// Digest returns an FNV-1a hash of the canonical simulation state. Worlds
// driven by identical inputs produce identical digests tick for tick; the
// replay verifier and the determinism tests compare them.
func (w *World) Digest() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	putF := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	putI := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}

	putF(w.Now)
	if w.Finished {
		putI(1)
	} else {
		putI(0)
	}
	putI(int64(w.Winner))
	for _, p := range w.Players {
		putF(p.Photons)
	}
	for _, b := range w.Bases {
		if b == nil {
			putI(-1)
			continue
		}
		putF(b.HP)
		putF(b.Pos.X)
		putF(b.Pos.Y)
		putF(b.LaserCooldown)
	}
	for _, u := range w.unitList {
		putI(int64(u.ID))
		putI(int64(u.Owner))
		h.Write([]byte(u.TypeKey))
		putF(u.Pos.X)
		putF(u.Pos.Y)
		putF(u.HP)
		putF(u.DamageMultiplier)
		putF(u.DistanceCredit)
		putF(u.AbilityCooldown)
		putI(int64(len(u.Queue)))
	}
	return h.Sum64()
}
