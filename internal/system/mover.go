package system

import (
	coresys "github.com/photonfront/server/internal/core/system"
	"github.com/photonfront/server/internal/geom"
	"github.com/photonfront/server/internal/world"
)

// arriveEpsilon is the arrival distance for every movement target, units and
// bases alike.
const arriveEpsilon = 0.1

// MoverSystem advances each unit toward the head of its command queue
// (Phase 1, before the effect ticker). Strictly FIFO: only the head node is
// inspected. Movement earns promotion credit weighted by the depth of queued
// movement orders; an obstacle-blocked step retires the node instead of
// re-routing; there is no pathfinding.
type MoverSystem struct {
	world *world.World
}

func NewMoverSystem(w *world.World) *MoverSystem {
	return &MoverSystem{world: w}
}

func (s *MoverSystem) Phase() coresys.Phase { return coresys.PhaseUnits }

func (s *MoverSystem) Update(dt float64) {
	w := s.world
	if w.Finished {
		return
	}
	for _, u := range w.Units() {
		if !u.Alive() {
			continue
		}
		head := u.Head()
		if head == nil {
			continue
		}
		switch head.Kind {
		case world.CommandMove, world.CommandAttackMove, world.CommandPatrol:
			arrived, blocked := s.step(u, head.Pos, dt)
			if arrived || blocked {
				u.RetireHead()
			}
		case world.CommandAbility:
			if u.Pos.Dist(head.Pos) > arriveEpsilon {
				_, blocked := s.step(u, head.Pos, dt)
				if blocked {
					u.RetireHead()
				}
				break
			}
			// In position: fire and retire the node whether or not the
			// ability actually went off (it may still be on cooldown).
			castAbility(w, u, head.Pos, head.Dir)
			u.RetireHead()
		}
	}
}

// step moves u toward target by speed*dt, clamped to not overshoot, and
// applies credit/promotion accounting on success. A blocked step leaves the
// position untouched.
func (s *MoverSystem) step(u *world.Unit, target geom.Vec, dt float64) (arrived, blocked bool) {
	w := s.world
	delta := target.Sub(u.Pos)
	remaining := delta.Len()
	if remaining < arriveEpsilon {
		return true, false
	}
	stepLen := u.Def.Speed * dt
	if stepLen > remaining {
		stepLen = remaining
	}
	dir := delta.Norm()
	if dir.IsZero() || stepLen <= 0 {
		return false, false
	}
	next := u.Pos.Add(dir.Scale(stepLen))
	if w.BlockedAt(next, u.Def.Radius) {
		return false, true
	}
	u.Pos = next
	u.DistanceTraveled += stepLen

	// Deeper queued movement plans earn credit faster.
	weight := 1 + w.Tuning.QueueBonus*float64(u.QueuedMoves())
	u.DistanceCredit += stepLen * weight
	for u.DistanceCredit >= w.Tuning.PromotionThreshold {
		u.DistanceCredit -= w.Tuning.PromotionThreshold
		u.DamageMultiplier *= w.Tuning.PromotionFactor
	}
	return target.Sub(u.Pos).Len() < arriveEpsilon, false
}
