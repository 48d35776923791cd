package weapon

import (
	"math"
	"math/rand"
	"testing"
)

func newTestFactory(finder TargetFinder) *Factory {
	return NewFactory(20, 150, rand.New(rand.NewSource(1)), finder)
}

func equip(t *testing.T, id string, level int) Equipped {
	t.Helper()
	a, err := DefaultCatalog().Get(id)
	if err != nil {
		t.Fatal(err)
	}
	return Scale(a, level)
}

func TestFireSingle(t *testing.T) {
	f := newTestFactory(nil)
	ps := f.Fire(equip(t, "basic", 1), Cell{5, 5}, Right)

	if len(ps) != 1 {
		t.Fatalf("expected 1 projectile, got %d", len(ps))
	}
	p := ps[0]
	if p.Pos != (Vec{110, 110}) {
		t.Errorf("projectile should start at the cell centre, got %+v", p.Pos)
	}
	if p.Vel != (Vec{8, 0}) {
		t.Errorf("velocity = %+v, want {8 0}", p.Vel)
	}
	if p.Life != lifeLinear || p.Radius != sizeSingle || p.Damage != 10 {
		t.Errorf("unexpected projectile: %+v", p)
	}
}

func TestFireSpreadAngles(t *testing.T) {
	f := newTestFactory(nil)
	ps := f.Fire(equip(t, "spread", 1), Cell{10, 10}, Right)

	if len(ps) != 3 {
		t.Fatalf("expected 3 projectiles, got %d", len(ps))
	}
	want := []float64{-22.5, 0, 22.5}
	for i, p := range ps {
		got := p.Vel.Angle() * 180 / math.Pi
		if math.Abs(got-want[i]) > 1e-9 {
			t.Errorf("projectile %d angle = %f, want %f", i, got, want[i])
		}
		if math.Abs(p.Vel.Len()-7) > 1e-9 {
			t.Errorf("projectile %d speed = %f, want 7", i, p.Vel.Len())
		}
	}
}

func TestFireSpreadSingleProjectileUsesFacing(t *testing.T) {
	f := newTestFactory(nil)
	w := equip(t, "spread", 1)
	w.ProjectileCount = 1

	ps := f.Fire(w, Cell{10, 10}, Up)
	if len(ps) != 1 {
		t.Fatalf("expected 1 projectile, got %d", len(ps))
	}
	if ps[0].Vel != (Vec{0, -7}) {
		t.Errorf("velocity = %+v, want straight up", ps[0].Vel)
	}
}

func TestFireShotgun(t *testing.T) {
	f := newTestFactory(nil)
	ps := f.Fire(equip(t, "shotgun", 1), Cell{10, 10}, Left)

	if len(ps) != 7 {
		t.Fatalf("expected 7 pellets, got %d", len(ps))
	}
	for _, p := range ps {
		speed := p.Vel.Len()
		if speed < 9*0.8-1e-9 || speed > 9*1.2+1e-9 {
			t.Errorf("pellet speed %f outside [7.2, 10.8]", speed)
		}
		off := math.Abs(math.Remainder(p.Vel.Angle()-math.Pi, 2*math.Pi))
		if off > math.Pi/6+1e-9 {
			t.Errorf("pellet %f rad off facing, max %f", off, math.Pi/6)
		}
		if p.Life != lifeShotgun {
			t.Errorf("pellet life = %d, want %d", p.Life, lifeShotgun)
		}
	}
}

func TestFireIsDeterministicForSeed(t *testing.T) {
	a := newTestFactory(nil).Fire(equip(t, "shotgun", 1), Cell{3, 3}, Down)
	b := newTestFactory(nil).Fire(equip(t, "shotgun", 1), Cell{3, 3}, Down)
	for i := range a {
		if a[i].Vel != b[i].Vel {
			t.Fatalf("pellet %d differs between identical seeds", i)
		}
	}
}

func TestFireHoming(t *testing.T) {
	var asked Vec
	finder := TargetFinderFunc(func(origin Vec) (Vec, bool) {
		asked = origin
		return Vec{300, 50}, true
	})
	ps := newTestFactory(finder).Fire(equip(t, "homing", 1), Cell{1, 1}, Down)

	p := ps[0]
	if asked != (Vec{30, 30}) {
		t.Errorf("finder queried from %+v, want the muzzle", asked)
	}
	if p.Homing == nil || !p.Homing.HasTarget || p.Homing.Target != (Vec{300, 50}) {
		t.Fatalf("homing state not set: %+v", p.Homing)
	}
	if p.Homing.Strength != 0.1 || p.Life != lifeHoming {
		t.Errorf("unexpected homing projectile: %+v", p)
	}

	untargeted := newTestFactory(nil).Fire(equip(t, "homing", 1), Cell{1, 1}, Down)[0]
	if untargeted.Homing.HasTarget {
		t.Error("no finder should mean no target")
	}
}

func TestFirePatternState(t *testing.T) {
	f := newTestFactory(nil)

	tests := []struct {
		id    string
		check func(p *Projectile) bool
	}{
		{"beam", func(p *Projectile) bool {
			return p.Beam != nil && p.Beam.Width == beamWidth && p.Beam.Dir == Up && p.Life == 2 && p.Vel == (Vec{})
		}},
		{"laserbeam", func(p *Projectile) bool {
			return p.Beam != nil && p.Beam.Width == 20 && p.Life == 7
		}},
		{"lightning", func(p *Projectile) bool {
			return p.Chain != nil && p.Chain.Remaining == 5 && p.Chain.Range == 100 && p.Life == lifeChain
		}},
		{"grenade", func(p *Projectile) bool {
			return p.Blast != nil && p.Blast.Radius == 80 && !p.Blast.Detonated && p.Life == lifeExplosive
		}},
		{"nuke", func(p *Projectile) bool {
			return p.Blast != nil && p.Blast.Radius == 200 && p.Radius == sizeNuke
		}},
		{"railgun", func(p *Projectile) bool {
			return p.Pierce != nil && p.Pierce.Remaining == 3 && p.Life == lifePiercing
		}},
		{"blackhole", func(p *Projectile) bool {
			return p.Hole != nil && p.Hole.Radius == holeBaseRadius && p.Hole.Pull == 0.5 &&
				p.Life == 34 && p.Vel == (Vec{0, -3})
		}},
		{"freeze", func(p *Projectile) bool {
			return p.Freeze != nil && p.Freeze.Ticks == 14
		}},
		{"flamethrower", func(p *Projectile) bool {
			return p.Life >= 4 && p.Life <= 7 && p.Vel.Len() >= 2-1e-9 && p.Vel.Len() <= 4+1e-9
		}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			ps := f.Fire(equip(t, tt.id, 1), Cell{20, 15}, Up)
			if len(ps) != 1 {
				t.Fatalf("expected 1 projectile, got %d", len(ps))
			}
			if !tt.check(ps[0]) {
				t.Errorf("unexpected projectile: %+v", ps[0])
			}
		})
	}
}

func TestFireKeepsPattern(t *testing.T) {
	f := newTestFactory(nil)
	for _, a := range DefaultArchetypes() {
		for _, p := range f.Fire(Scale(a, a.MaxLevel), Cell{20, 15}, Left) {
			if p.Pattern() != a.Pattern {
				t.Errorf("%s fired a %s projectile", a.ID, p.Pattern())
			}
		}
	}
}

func TestTicks(t *testing.T) {
	f := newTestFactory(nil)
	tests := []struct {
		ms   float64
		want int
	}{
		{0, 1},
		{50, 1},
		{150, 1},
		{151, 2},
		{300, 2},
		{5000, 34},
	}
	for _, tt := range tests {
		if got := f.Ticks(tt.ms); got != tt.want {
			t.Errorf("Ticks(%v) = %d, want %d", tt.ms, got, tt.want)
		}
	}
}
