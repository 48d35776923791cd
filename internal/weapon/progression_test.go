package weapon

import (
	"errors"
	"math/rand"
	"testing"

	"pgregory.net/rapid"
)

func newTestProgression(t *testing.T) *Progression {
	t.Helper()
	p, err := NewProgression(DefaultCatalog(), StarterWeapon)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestScale(t *testing.T) {
	c := DefaultCatalog()
	get := func(id string) Archetype {
		a, err := c.Get(id)
		if err != nil {
			t.Fatal(err)
		}
		return a
	}

	tests := []struct {
		name  string
		id    string
		level int
		check func(e Equipped) bool
	}{
		{"level one is identity", "basic", 1, func(e Equipped) bool {
			return e.Damage == 10 && e.FireRate == 500
		}},
		{"single level 3", "basic", 3, func(e Equipped) bool {
			return near(e.Damage, 14) && near(e.FireRate, 400)
		}},
		{"single level 8", "laser", 8, func(e Equipped) bool {
			return near(e.FireRate, 120) && near(e.Damage, 15*2.4)
		}},
		{"spread level 5", "spread", 5, func(e Equipped) bool {
			return near(e.Damage, 8*1.6) && e.ProjectileCount == 5
		}},
		{"shotgun level 2 keeps count", "shotgun", 2, func(e Equipped) bool {
			return near(e.Damage, 12*1.15) && e.ProjectileCount == 7
		}},
		{"homing level 3", "homing", 3, func(e Equipped) bool {
			return near(e.Damage, 30) && near(e.HomingStrength, 0.16)
		}},
		{"beam level 6", "beam", 6, func(e Equipped) bool {
			return near(e.Damage, 12.5) && near(e.BeamDuration, 600)
		}},
		{"chain level 4", "lightning", 4, func(e Equipped) bool {
			return e.ChainCount == 8 && e.Damage == 8
		}},
		{"explosive level 3", "grenade", 3, func(e Equipped) bool {
			return near(e.ExplosionRadius, 120) && e.Damage == 80
		}},
		{"piercing unscaled", "railgun", 4, func(e Equipped) bool {
			return e.Damage == 100 && e.PierceCount == 3
		}},
		{"nuke unscaled", "nuke", 2, func(e Equipped) bool {
			return e.Damage == 999 && e.ExplosionRadius == 200
		}},
		{"level clamps to max", "basic", 99, func(e Equipped) bool {
			return e.Level == 5
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Scale(get(tt.id), tt.level)
			if !tt.check(e) {
				t.Errorf("unexpected scaling at level %d: %+v", tt.level, e)
			}
		})
	}
}

func TestScaleFireRateFloor(t *testing.T) {
	a := Archetype{ID: "pea", Pattern: PatternSingle, Damage: 1, FireRate: 60, MaxLevel: 10}
	if got := Scale(a, 10).FireRate; got != MinFireRate {
		t.Errorf("fire rate = %f, want floor %d", got, MinFireRate)
	}
}

func TestScaleDoesNotMutateArchetype(t *testing.T) {
	c := DefaultCatalog()
	a, _ := c.Get("spread")
	Scale(a, 7)
	again, _ := c.Get("spread")
	if again.Damage != 8 || again.ProjectileCount != 3 {
		t.Errorf("catalog entry changed: %+v", again)
	}
}

func TestEquipDamageMonotonicInLevel(t *testing.T) {
	archetypes := DefaultArchetypes()
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.SampledFrom(archetypes).Draw(t, "weapon")
		l1 := rapid.IntRange(1, a.MaxLevel).Draw(t, "l1")
		l2 := rapid.IntRange(l1, a.MaxLevel).Draw(t, "l2")

		if d1, d2 := Scale(a, l1).Damage, Scale(a, l2).Damage; d2 < d1 {
			t.Fatalf("%s damage dropped from %f (L%d) to %f (L%d)", a.ID, d1, l1, d2, l2)
		}
	})
}

func TestEquipRequiresUnlock(t *testing.T) {
	p := newTestProgression(t)

	if _, err := p.Equip("nuke"); !errors.Is(err, ErrNotUnlocked) {
		t.Fatalf("expected ErrNotUnlocked, got %v", err)
	}
	if _, err := p.Equip("bfg"); !errors.Is(err, ErrUnknownWeapon) {
		t.Fatalf("expected ErrUnknownWeapon, got %v", err)
	}

	if _, err := p.Unlock("nuke"); err != nil {
		t.Fatal(err)
	}
	e, err := p.Equip("nuke")
	if err != nil {
		t.Fatalf("equip after unlock: %v", err)
	}
	if e.Pattern != PatternNuke || e.Level != 1 {
		t.Errorf("unexpected equipped weapon: %+v", e)
	}
}

func TestUnlockIsIdempotent(t *testing.T) {
	p := newTestProgression(t)

	added, err := p.Unlock("spread")
	if err != nil || !added {
		t.Fatalf("first unlock: added=%v err=%v", added, err)
	}
	added, err = p.Unlock("spread")
	if err != nil || added {
		t.Fatalf("second unlock: added=%v err=%v", added, err)
	}
	if got := len(p.Unlocked()); got != 2 {
		t.Errorf("expected 2 unlocked weapons, got %d", got)
	}
	if _, err := p.Unlock("nope"); !errors.Is(err, ErrUnknownWeapon) {
		t.Errorf("expected ErrUnknownWeapon, got %v", err)
	}
}

func TestLevelUpCeiling(t *testing.T) {
	p := newTestProgression(t)

	for want := 2; want <= 5; want++ {
		got, err := p.LevelUp("basic")
		if err != nil || got != want {
			t.Fatalf("LevelUp = %d, %v; want %d", got, err, want)
		}
	}

	got, err := p.LevelUp("basic")
	if !errors.Is(err, ErrLevelCeiling) {
		t.Fatalf("expected ErrLevelCeiling, got %v", err)
	}
	if got != 5 || p.Level("basic") != 5 {
		t.Errorf("level must stay at 5, got %d", p.Level("basic"))
	}
}

func TestUnlockRandomExhaustsCatalog(t *testing.T) {
	p := newTestProgression(t)
	rng := rand.New(rand.NewSource(7))

	seen := map[string]bool{}
	for {
		id, ok := p.UnlockRandom(rng)
		if !ok {
			break
		}
		if seen[id] {
			t.Fatalf("%q unlocked twice", id)
		}
		seen[id] = true
	}
	if len(seen) != DefaultCatalog().Len()-1 {
		t.Errorf("expected %d random unlocks, got %d", DefaultCatalog().Len()-1, len(seen))
	}
}

func TestProgressionReset(t *testing.T) {
	p := newTestProgression(t)
	p.Unlock("homing")
	p.LevelUp("basic")

	p.Reset()

	if p.IsUnlocked("homing") {
		t.Error("homing should be locked after reset")
	}
	if p.Level("basic") != 1 {
		t.Errorf("basic level should reset to 1, got %d", p.Level("basic"))
	}
	if !p.IsUnlocked(StarterWeapon) {
		t.Error("starter must stay unlocked")
	}
}
