package system

import (
	"testing"

	"github.com/photonfront/server/internal/geom"
	"github.com/photonfront/server/internal/world"
)

// wallEast blocks everything at or past X.
type wallEast struct {
	X float64
}

func (wl wallEast) Blocked(p geom.Vec, radius float64) bool {
	return p.X+radius >= wl.X
}

func TestMoverStepsTowardHead(t *testing.T) {
	w := buildWorld()
	u := put(w, 0, "striker", geom.V(0, 0)) // speed 3.2
	u.PushCommand(world.MoveTo(geom.V(10, 0)))

	NewMoverSystem(w).Update(0.5)
	if !approx(u.Pos.X, 1.6, 1e-9) || u.Pos.Y != 0 {
		t.Errorf("Pos = %v, expected (1.6, 0)", u.Pos)
	}
	if len(u.Queue) != 1 {
		t.Errorf("queue length = %d, expected head retained mid-travel", len(u.Queue))
	}
	if !approx(u.DistanceTraveled, 1.6, 1e-9) {
		t.Errorf("DistanceTraveled = %v, expected 1.6", u.DistanceTraveled)
	}
	if !approx(u.DistanceCredit, 1.6, 1e-9) {
		t.Errorf("DistanceCredit = %v, expected 1.6 at weight 1", u.DistanceCredit)
	}
}

func TestMoverClampsAndRetiresOnArrival(t *testing.T) {
	w := buildWorld()
	u := put(w, 0, "striker", geom.V(0, 0))
	u.PushCommand(world.MoveTo(geom.V(1, 0)))

	NewMoverSystem(w).Update(0.5) // raw step 1.6 clamps to the 1.0 remaining
	if !approx(u.Pos.X, 1, 1e-9) {
		t.Errorf("Pos.X = %v, expected clamp at the target 1.0", u.Pos.X)
	}
	if len(u.Queue) != 0 {
		t.Errorf("queue length = %d, expected node retired on arrival", len(u.Queue))
	}
}

func TestMoverBlockedStepRetiresNode(t *testing.T) {
	w := world.New(fixtureDefs(), wallEast{X: 5}, world.DefaultTuning(), nil)
	u := put(w, 0, "striker", geom.V(4.8, 0))
	u.PushCommand(world.MoveTo(geom.V(10, 0)))
	u.PushCommand(world.MoveTo(geom.V(0, 0)))

	NewMoverSystem(w).Update(0.5)
	if u.Pos != geom.V(4.8, 0) {
		t.Errorf("Pos = %v, expected unchanged on a blocked step", u.Pos)
	}
	if len(u.Queue) != 1 || u.Queue[0].Pos != geom.V(0, 0) {
		t.Errorf("queue = %+v, expected exactly the blocked head retired", u.Queue)
	}
	if u.DistanceCredit != 0 {
		t.Errorf("DistanceCredit = %v, expected none for a blocked step", u.DistanceCredit)
	}
}

func TestPromotionExactlyOnceAtThreshold(t *testing.T) {
	w := buildWorld() // threshold 25, factor 1.15
	u := put(w, 0, "runner", geom.V(0, 0)) // speed 5
	u.PushCommand(world.MoveTo(geom.V(100, 0)))
	mv := NewMoverSystem(w)

	for i := 0; i < 5; i++ { // 5 steps of 5m = exactly the threshold
		mv.Update(1)
	}
	if !approx(u.DamageMultiplier, 1.15, 1e-9) {
		t.Errorf("DamageMultiplier = %v, expected exactly one promotion to 1.15", u.DamageMultiplier)
	}
	if !approx(u.DistanceCredit, 0, 1e-9) {
		t.Errorf("DistanceCredit = %v, expected drained to 0", u.DistanceCredit)
	}

	mv.Update(1) // one more 5m step must not promote again
	if !approx(u.DamageMultiplier, 1.15, 1e-9) {
		t.Errorf("DamageMultiplier = %v, expected still 1.15", u.DamageMultiplier)
	}
	if !approx(u.DistanceCredit, 5, 1e-9) {
		t.Errorf("DistanceCredit = %v, expected 5", u.DistanceCredit)
	}
}

func TestPromotionNeverDecreases(t *testing.T) {
	w := buildWorld()
	u := put(w, 0, "runner", geom.V(0, 0))
	u.PushCommand(world.MoveTo(geom.V(300, 0)))
	mv := NewMoverSystem(w)

	last := u.DamageMultiplier
	for i := 0; i < 60; i++ {
		mv.Update(1)
		if u.DamageMultiplier < last {
			t.Fatalf("DamageMultiplier decreased from %v to %v", last, u.DamageMultiplier)
		}
		last = u.DamageMultiplier
	}
	if last <= 1.15 {
		t.Errorf("DamageMultiplier = %v after 300m, expected multiple promotions", last)
	}
}

func TestQueueDepthWeightsCredit(t *testing.T) {
	w := buildWorld() // queue bonus 0.25
	u := put(w, 0, "runner", geom.V(0, 0))
	u.PushCommand(world.MoveTo(geom.V(100, 0)))
	u.PushCommand(world.MoveTo(geom.V(100, 10)))
	u.PushCommand(world.AttackMoveTo(geom.V(100, 20)))

	NewMoverSystem(w).Update(1) // 5m at weight 1 + 0.25*2
	if !approx(u.DistanceCredit, 7.5, 1e-9) {
		t.Errorf("DistanceCredit = %v, expected 7.5", u.DistanceCredit)
	}
}

func TestAbilityNodeTravelsThenFires(t *testing.T) {
	w := buildWorld()
	u := put(w, 0, "warden", geom.V(0, 0)) // speed 2.6
	u.PushCommand(world.AbilityAt(geom.V(2, 0), geom.V(1, 0)))
	mv := NewMoverSystem(w)

	mv.Update(0.5) // 1.3m towards the anchor, no cast yet
	if u.Shield != nil {
		t.Fatal("Shield armed mid-travel, expected cast only on arrival")
	}
	if len(u.Queue) != 1 {
		t.Fatal("ability node retired before reaching its anchor")
	}
	mv.Update(0.5) // arrives (clamped) but still > epsilon this tick
	mv.Update(0.5) // within epsilon: fire and retire
	if u.Shield == nil {
		t.Fatal("Shield = nil, expected the aura armed on arrival")
	}
	if u.AbilityCooldown != u.Def.AbilityCooldown {
		t.Errorf("AbilityCooldown = %v, expected %v spent on cast", u.AbilityCooldown, u.Def.AbilityCooldown)
	}
	if len(u.Queue) != 0 {
		t.Errorf("queue length = %d, expected ability node retired", len(u.Queue))
	}
}

func TestAbilityNodeRetiredEvenOnCooldown(t *testing.T) {
	w := buildWorld()
	u := put(w, 0, "warden", geom.V(2, 0))
	u.AbilityCooldown = 5
	u.PushCommand(world.AbilityAt(geom.V(2, 0), geom.V(1, 0)))

	NewMoverSystem(w).Update(0.1)
	if u.Shield != nil {
		t.Error("Shield armed while on cooldown, expected silent no-op")
	}
	if len(u.Queue) != 0 {
		t.Error("ability node survived, expected retirement whether or not it fired")
	}
	if u.AbilityCooldown != 5 {
		t.Errorf("AbilityCooldown = %v, expected untouched 5", u.AbilityCooldown)
	}
}

func TestPatrolRemembersReturn(t *testing.T) {
	w := buildWorld()
	u := put(w, 0, "runner", geom.V(0, 0))
	u.PushCommand(world.PatrolTo(geom.V(2, 0), geom.V(0, 0)))

	head := u.Head()
	if head.Return != geom.V(0, 0) {
		t.Errorf("Return = %v, expected the remembered origin", head.Return)
	}
	NewMoverSystem(w).Update(1)
	if len(u.Queue) != 0 {
		t.Error("patrol node not retired on arrival; loop re-insertion is the caller's job")
	}
}

func TestIdleUnitUntouchedByMover(t *testing.T) {
	w := buildWorld()
	u := put(w, 0, "striker", geom.V(3, 3))
	NewMoverSystem(w).Update(1)
	if u.Pos != geom.V(3, 3) || u.DistanceCredit != 0 {
		t.Errorf("idle unit moved: pos %v credit %v", u.Pos, u.DistanceCredit)
	}
}
