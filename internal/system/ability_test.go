package system

import (
	"testing"

	"github.com/photonfront/server/internal/geom"
	"github.com/photonfront/server/internal/world"
)

func TestBurstFireWalksTargets(t *testing.T) {
	w := buildWorld()
	caster := put(w, 0, "striker", geom.V(0, 0)) // 6 damage per shot
	near := put(w, 1, "drone", geom.V(3, 0))     // 40 hp
	far := put(w, 1, "drone", geom.V(5, 0))

	if !castAbility(w, caster, caster.Pos, geom.V(1, 0)) {
		t.Fatal("castAbility(burst) = false, expected success")
	}
	// Seven shots finish the near target (42 > 40), three walk onto the far one.
	if !approx(near.HP, 40-42, 1e-9) {
		t.Errorf("near target HP = %v, expected -2", near.HP)
	}
	if !approx(far.HP, 40-18, 1e-9) {
		t.Errorf("far target HP = %v, expected 22", far.HP)
	}
	if caster.AbilityCooldown != 8 {
		t.Errorf("AbilityCooldown = %v, expected 8", caster.AbilityCooldown)
	}
}

func TestBurstFireRespectsRayGeometry(t *testing.T) {
	w := buildWorld()
	caster := put(w, 0, "striker", geom.V(0, 0))
	offRay := put(w, 1, "drone", geom.V(4, 2))    // perp 2 > tolerance 1
	behind := put(w, 1, "drone", geom.V(-3, 0))   // behind the caster
	outRange := put(w, 1, "drone", geom.V(11, 0)) // along 11 > range 9

	castAbility(w, caster, caster.Pos, geom.V(1, 0))
	for _, u := range []*world.Unit{offRay, behind, outRange} {
		if u.HP != u.MaxHP {
			t.Errorf("unit at %v HP = %v, expected untouched", u.Pos, u.HP)
		}
	}
}

func TestBurstFireSkipsCloaked(t *testing.T) {
	w := buildWorld()
	caster := put(w, 0, "striker", geom.V(0, 0))
	hidden := put(w, 1, "drone", geom.V(3, 0))
	hidden.Cloak = &world.CloakEffect{Until: 100}
	visible := put(w, 1, "drone", geom.V(5, 0))

	castAbility(w, caster, caster.Pos, geom.V(1, 0))
	if hidden.HP != hidden.MaxHP {
		t.Errorf("cloaked unit HP = %v, expected untouched", hidden.HP)
	}
	if !approx(visible.HP, 40-60, 1e-9) {
		t.Errorf("visible unit HP = %v, expected all ten shots (-20)", visible.HP)
	}
}

func TestDashStrike(t *testing.T) {
	w := buildWorld()
	caster := put(w, 0, "blade", geom.V(0, 0)) // 8 damage, dash factor 3
	victim := put(w, 1, "drone", geom.V(6, 1))

	if !castAbility(w, caster, geom.V(6, 0), geom.V(1, 0)) {
		t.Fatal("castAbility(dash) = false, expected a target within the search radius")
	}
	if caster.Pos != victim.Pos {
		t.Errorf("caster Pos = %v, expected teleport onto the victim at %v", caster.Pos, victim.Pos)
	}
	if !approx(victim.HP, 40-24, 1e-9) {
		t.Errorf("victim HP = %v, expected 16 after the 24 damage hit", victim.HP)
	}
	if caster.DashingUntil != w.Now+dashMark {
		t.Errorf("DashingUntil = %v, expected %v", caster.DashingUntil, w.Now+dashMark)
	}
	if caster.AbilityCooldown != 7 {
		t.Errorf("AbilityCooldown = %v, expected 7", caster.AbilityCooldown)
	}
}

func TestDashStrikeDeclinesWithoutTarget(t *testing.T) {
	w := buildWorld()
	caster := put(w, 0, "blade", geom.V(0, 0))
	put(w, 1, "drone", geom.V(50, 50))

	if castAbility(w, caster, geom.V(6, 0), geom.V(1, 0)) {
		t.Fatal("castAbility(dash) = true with nothing in reach, expected decline")
	}
	if caster.AbilityCooldown != 0 {
		t.Errorf("AbilityCooldown = %v, expected a declined dash to keep it at 0", caster.AbilityCooldown)
	}
	if caster.Pos != geom.V(0, 0) {
		t.Errorf("caster Pos = %v, expected no teleport", caster.Pos)
	}
}

func TestCastOnCooldownIsNoOp(t *testing.T) {
	w := buildWorld()
	caster := put(w, 0, "striker", geom.V(0, 0))
	victim := put(w, 1, "drone", geom.V(3, 0))
	caster.AbilityCooldown = 2

	if castAbility(w, caster, caster.Pos, geom.V(1, 0)) {
		t.Fatal("castAbility on cooldown = true, expected silent no-op")
	}
	if victim.HP != victim.MaxHP {
		t.Errorf("victim HP = %v, expected untouched", victim.HP)
	}
	if caster.AbilityCooldown != 2 {
		t.Errorf("AbilityCooldown = %v, expected unchanged 2", caster.AbilityCooldown)
	}
}

func TestHealPulse(t *testing.T) {
	w := buildWorld()
	w.AddBase(0, coreBaseDef(), geom.V(4, 0))
	w.Bases[0].HP = 900
	caster := put(w, 0, "medic", geom.V(0, 0))
	hurt := put(w, 0, "drone", geom.V(2, 0))
	hurt.HP = 10
	nearlyFull := put(w, 0, "drone", geom.V(3, 0))
	nearlyFull.HP = 35
	enemy := put(w, 1, "drone", geom.V(1, 0))
	enemy.HP = 10
	farAlly := put(w, 0, "drone", geom.V(50, 0))
	farAlly.HP = 10

	if !castAbility(w, caster, caster.Pos, geom.Vec{}) {
		t.Fatal("castAbility(heal) = false, expected success")
	}
	if !approx(hurt.HP, 28, 1e-9) {
		t.Errorf("hurt ally HP = %v, expected 10+18", hurt.HP)
	}
	if nearlyFull.HP != nearlyFull.MaxHP {
		t.Errorf("nearly full ally HP = %v, expected clamp at %v", nearlyFull.HP, nearlyFull.MaxHP)
	}
	if enemy.HP != 10 {
		t.Errorf("enemy HP = %v, expected no heal", enemy.HP)
	}
	if farAlly.HP != 10 {
		t.Errorf("distant ally HP = %v, expected out of radius", farAlly.HP)
	}
	if w.Bases[0].HP != 960 {
		t.Errorf("base HP = %v, expected 900+60", w.Bases[0].HP)
	}
	if caster.HealGlow == nil {
		t.Error("HealGlow = nil, expected the cosmetic slot armed")
	}
}

func TestMissileBarrageLocksNearestAhead(t *testing.T) {
	w := buildWorld()
	caster := put(w, 0, "silencer", geom.V(0, 0)) // 4 damage, factor 2.5
	hidden := put(w, 1, "drone", geom.V(2, 0))   // nearest of all, but cloaked
	hidden.Cloak = &world.CloakEffect{Until: 100}
	a := put(w, 1, "drone", geom.V(3, 0))
	b := put(w, 1, "drone", geom.V(5, 1))
	c := put(w, 1, "drone", geom.V(7, -1))
	d := put(w, 1, "drone", geom.V(9, 0))
	e := put(w, 1, "drone", geom.V(11, 0)) // fifth nearest: beyond the 4 missiles
	put(w, 1, "drone", geom.V(-5, 0))      // behind: never selected

	if !castAbility(w, caster, caster.Pos, geom.V(1, 0)) {
		t.Fatal("castAbility(missiles) = false, expected success")
	}
	br := caster.Barrage
	if br == nil {
		t.Fatal("Barrage = nil, expected an armed slot")
	}
	if len(br.Targets) != missileCount {
		t.Fatalf("locked targets = %d, expected %d", len(br.Targets), missileCount)
	}
	want := []geom.Vec{a.Pos, b.Pos, c.Pos, d.Pos}
	for i, pos := range want {
		if br.Targets[i] != pos {
			t.Errorf("Targets[%d] = %v, expected %v", i, br.Targets[i], pos)
		}
	}
	if br.ResolveAt != w.Now+missileDelay {
		t.Errorf("ResolveAt = %v, expected %v", br.ResolveAt, w.Now+missileDelay)
	}
	_ = e
}

func TestLineJumpArmsTelegraph(t *testing.T) {
	w := buildWorld()
	caster := put(w, 0, "lancer", geom.V(1, 1))

	if !castAbility(w, caster, caster.Pos, geom.V(0, 1)) {
		t.Fatal("castAbility(jump) = false, expected success")
	}
	j := caster.Jump
	if j == nil {
		t.Fatal("Jump = nil, expected an armed telegraph")
	}
	if j.Origin != geom.V(1, 1) || j.End != geom.V(1, 1+jumpLength) {
		t.Errorf("telegraph = %v -> %v, expected origin (1,1) to (1,%v)", j.Origin, j.End, 1+jumpLength)
	}
	if j.ResolveAt != w.Now+jumpDelay {
		t.Errorf("ResolveAt = %v, expected %v", j.ResolveAt, w.Now+jumpDelay)
	}
	if caster.Pos != geom.V(1, 1) {
		t.Error("caster moved at arm time, expected relocation only at resolution")
	}
}

func TestLineJumpZeroAimDeclines(t *testing.T) {
	w := buildWorld()
	caster := put(w, 0, "lancer", geom.V(0, 0))
	if castAbility(w, caster, caster.Pos, geom.Vec{}) {
		t.Fatal("castAbility(jump, zero aim) = true, expected decline")
	}
	if caster.AbilityCooldown != 0 {
		t.Errorf("AbilityCooldown = %v, expected 0 after decline", caster.AbilityCooldown)
	}
}
