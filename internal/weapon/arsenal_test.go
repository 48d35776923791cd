package weapon

import (
	"errors"
	"math/rand"
	"testing"
)

func newTestArsenal(t *testing.T) *Arsenal {
	t.Helper()
	a, err := NewArsenal(DefaultCatalog(), DefaultConfig(), rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestArsenalStartsWithStarter(t *testing.T) {
	a := newTestArsenal(t)

	if a.Equipped().ID != StarterWeapon || a.Equipped().Level != 1 {
		t.Errorf("equipped %+v", a.Equipped())
	}
	if a.Ammo().Current() != 100 {
		t.Errorf("ammo = %f, want 100", a.Ammo().Current())
	}
	if len(a.Unlocked()) != 1 {
		t.Errorf("expected only the starter unlocked, got %v", a.Unlocked())
	}
}

func TestArsenalUnknownStarter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Starter = "slingshot"
	if _, err := NewArsenal(DefaultCatalog(), cfg, rand.New(rand.NewSource(1))); !errors.Is(err, ErrUnknownWeapon) {
		t.Errorf("expected ErrUnknownWeapon, got %v", err)
	}
}

func TestArsenalHundredShotsThenDry(t *testing.T) {
	a := newTestArsenal(t)

	for i := 0; i < 100; i++ {
		if _, err := a.Fire(Cell{20, 15}, Right); err != nil {
			t.Fatalf("shot %d: %v", i+1, err)
		}
	}
	shot, err := a.Fire(Cell{20, 15}, Right)
	if !errors.Is(err, ErrInsufficientAmmo) || shot != nil {
		t.Fatalf("shot 101 = %v, %v; want ErrInsufficientAmmo", shot, err)
	}
	if st := a.Stats(); st.Shots != 100 || st.DryFires != 1 {
		t.Errorf("stats %+v", st)
	}
}

func TestArsenalEquipLockedKeepsWeapon(t *testing.T) {
	a := newTestArsenal(t)

	got, err := a.Equip("laserbeam")
	if !errors.Is(err, ErrNotUnlocked) {
		t.Fatalf("expected ErrNotUnlocked, got %v", err)
	}
	if got.ID != StarterWeapon || a.Equipped().ID != StarterWeapon {
		t.Errorf("equipped weapon changed to %q", a.Equipped().ID)
	}
}

func TestArsenalUpgradeRescalesEquipped(t *testing.T) {
	a := newTestArsenal(t)

	lvl, err := a.Upgrade(StarterWeapon)
	if err != nil || lvl != 2 {
		t.Fatalf("Upgrade = %d, %v", lvl, err)
	}
	if a.Equipped().Level != 2 || !near(a.Equipped().Damage, 12) {
		t.Errorf("equipped not rescaled: %+v", a.Equipped())
	}

	if _, err := a.Upgrade("nuke"); err != nil {
		t.Fatalf("locked weapons can still be levelled: %v", err)
	}
	if a.Equipped().ID != StarterWeapon {
		t.Error("upgrading another weapon must not switch weapons")
	}

	a.Upgrade("nuke")
	if _, err := a.Upgrade("nuke"); !errors.Is(err, ErrLevelCeiling) {
		t.Errorf("expected ErrLevelCeiling, got %v", err)
	}
}

func TestArsenalTickCooldown(t *testing.T) {
	a := newTestArsenal(t)
	in := TickInput{Fire: true, Origin: Cell{20, 15}, Facing: Up}

	var firedOn []int
	for tick := 0; tick < 9; tick++ {
		if rep := a.Tick(in); len(rep.Fired) > 0 {
			firedOn = append(firedOn, tick)
		}
	}

	// 500ms at 150ms ticks: one shot every 4 ticks
	want := []int{0, 4, 8}
	if len(firedOn) != len(want) {
		t.Fatalf("fired on ticks %v, want %v", firedOn, want)
	}
	for i := range want {
		if firedOn[i] != want[i] {
			t.Fatalf("fired on ticks %v, want %v", firedOn, want)
		}
	}
}

func TestArsenalEquipSwapKeepsCooldown(t *testing.T) {
	a := newTestArsenal(t)
	if _, err := a.Unlock("grenade"); err != nil {
		t.Fatal(err)
	}
	in := TickInput{Fire: true, Origin: Cell{20, 15}, Facing: Up}

	shots := 0
	for tick := 0; tick < 4; tick++ {
		a.Equip(StarterWeapon)
		if _, err := a.Equip("grenade"); err != nil {
			t.Fatal(err)
		}
		if rep := a.Tick(in); len(rep.Fired) > 0 {
			shots++
		}
	}

	// 1200ms at 150ms ticks is an 8 tick cooldown.
	if shots != 1 {
		t.Errorf("grenade fired %d times in 4 ticks, want 1", shots)
	}
	if a.Cooldown() != 5 {
		t.Errorf("cooldown = %d, want 5", a.Cooldown())
	}
}

func TestArsenalTickRegenerates(t *testing.T) {
	a := newTestArsenal(t)
	a.Ammo().Consume(50)

	for i := 0; i < 10; i++ {
		a.Tick(TickInput{})
	}
	if !near(a.Ammo().Current(), 51) {
		t.Errorf("ammo = %f, want 51", a.Ammo().Current())
	}
}

func TestArsenalTickResolvesHits(t *testing.T) {
	a := newTestArsenal(t)

	// Target three cells to the right of the muzzle.
	target := Target{ID: 7, Pos: Cell{23, 15}.Center(20), Radius: 10}
	index := TargetIndexFunc(func(center Vec, radius float64) []Target {
		if target.Pos.Dist(center) < radius+target.Radius {
			return []Target{target}
		}
		return nil
	})

	var hits []Hit
	in := TickInput{
		Fire:    true,
		Origin:  Cell{20, 15},
		Facing:  Right,
		Targets: index,
		Hits:    HitHandlerFunc(func(h Hit) { hits = append(hits, h) }),
	}
	for i := 0; i < 10 && len(hits) == 0; i++ {
		a.Tick(in)
		in.Fire = false
	}

	if len(hits) != 1 || hits[0].Target.ID != 7 || hits[0].Weapon != StarterWeapon {
		t.Fatalf("hits %+v", hits)
	}
	a.Tick(TickInput{})
	if a.Stats().Hits != 1 || len(a.Projectiles()) != 0 {
		t.Errorf("stats %+v live %d", a.Stats(), len(a.Projectiles()))
	}
}

func TestArsenalReset(t *testing.T) {
	a := newTestArsenal(t)
	a.Unlock("shotgun")
	a.Equip("shotgun")
	a.Fire(Cell{20, 15}, Left)

	a.Reset()

	if a.Equipped().ID != StarterWeapon || a.IsUnlocked("shotgun") {
		t.Errorf("reset left %q equipped, shotgun unlocked=%v", a.Equipped().ID, a.IsUnlocked("shotgun"))
	}
	if len(a.Projectiles()) != 0 || a.Ammo().Current() != a.Ammo().Max() {
		t.Error("reset should clear projectiles and refill ammo")
	}
}
