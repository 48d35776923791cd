package weapon

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

var testBounds = Bounds{Width: 800, Height: 600}

func TestSimulatorAdvancesLinear(t *testing.T) {
	s := NewSimulator(testBounds, 0)
	p := newTestFactory(nil).Fire(equip(t, "basic", 1), Cell{5, 5}, Right)[0]
	s.Spawn(p)

	s.Tick()
	if p.Pos != (Vec{118, 110}) {
		t.Errorf("position after one tick = %+v, want {118 110}", p.Pos)
	}
	if p.Life != lifeLinear-1 {
		t.Errorf("life = %d, want %d", p.Life, lifeLinear-1)
	}
}

func TestSimulatorLifetimeStrictlyDecreases(t *testing.T) {
	s := NewSimulator(testBounds, 0)
	p := newTestFactory(nil).Fire(equip(t, "beam", 1), Cell{20, 15}, Right)[0]
	s.Spawn(p)

	last := p.Life
	for s.Len() > 0 {
		s.Tick()
		if s.Len() > 0 && p.Life >= last {
			t.Fatalf("life did not decrease: %d -> %d", last, p.Life)
		}
		last = p.Life
	}
	if !p.Expired() {
		t.Error("beam should end expired")
	}
}

func TestSimulatorRemovesOutOfBounds(t *testing.T) {
	s := NewSimulator(testBounds, 0)
	p := newTestFactory(nil).Fire(equip(t, "basic", 1), Cell{39, 5}, Right)[0]
	s.Spawn(p)

	s.Tick() // 790 -> 798
	if p.Life <= 0 {
		t.Fatal("still on the field")
	}
	s.Tick() // 806: off the field
	if p.Life != 0 {
		t.Fatalf("life = %d after leaving the field, want 0", p.Life)
	}
	if s.Len() != 1 {
		t.Fatal("removal happens on the next sweep")
	}
	s.Tick()
	if s.Len() != 0 {
		t.Errorf("expected removal, %d live", s.Len())
	}
}

func TestSimulatorDropsConsumed(t *testing.T) {
	s := NewSimulator(testBounds, 0)
	ps := newTestFactory(nil).Fire(equip(t, "spread", 1), Cell{20, 15}, Right)
	s.Spawn(ps...)

	ps[1].consume()
	if d := s.Tick(); len(d) != 0 {
		t.Errorf("consumed projectiles must not detonate, got %v", d)
	}
	if s.Len() != 2 {
		t.Errorf("expected 2 live projectiles, got %d", s.Len())
	}
}

func TestExplosiveDetonatesOnceAtExpiry(t *testing.T) {
	for _, id := range []string{"grenade", "nuke"} {
		t.Run(id, func(t *testing.T) {
			s := NewSimulator(Bounds{Width: 1e6, Height: 1e6}, 0)
			p := newTestFactory(nil).Fire(equip(t, id, 1), Cell{100, 100}, Right)[0]
			s.Spawn(p)

			var detonations []Detonation
			ticks := 0
			for s.Len() > 0 {
				detonations = append(detonations, s.Tick()...)
				ticks++
			}

			if len(detonations) != 1 {
				t.Fatalf("expected exactly one detonation, got %d", len(detonations))
			}
			if ticks != p.MaxLife+1 {
				t.Errorf("detonated on tick %d, want %d", ticks, p.MaxLife+1)
			}
			if detonations[0].Pos != p.Pos || detonations[0].Radius != p.Blast.Radius {
				t.Errorf("detonation %+v does not match projectile at %+v", detonations[0], p.Pos)
			}
		})
	}
}

func TestSimulatorSpawnCap(t *testing.T) {
	s := NewSimulator(testBounds, 5)
	f := newTestFactory(nil)
	w := equip(t, "shotgun", 1)

	if kept := s.Spawn(f.Fire(w, Cell{20, 15}, Right)...); kept != 5 {
		t.Errorf("kept %d, want 5", kept)
	}
	if kept := s.Spawn(f.Fire(w, Cell{20, 15}, Right)...); kept != 0 {
		t.Errorf("kept %d at the cap, want 0", kept)
	}
	if s.Dropped() != 9 {
		t.Errorf("dropped %d, want 9", s.Dropped())
	}
}

func TestHomingKeepsSpeed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		target := Vec{
			X: rapid.Float64Range(0, 800).Draw(t, "tx"),
			Y: rapid.Float64Range(0, 600).Draw(t, "ty"),
		}
		strength := rapid.Float64Range(0.01, 2).Draw(t, "strength")
		origin := Cell{
			X: rapid.IntRange(0, 39).Draw(t, "cx"),
			Y: rapid.IntRange(0, 29).Draw(t, "cy"),
		}
		facing := Direction(rapid.IntRange(0, 3).Draw(t, "facing"))

		a, _ := DefaultCatalog().Get("homing")
		a.HomingStrength = strength
		finder := TargetFinderFunc(func(Vec) (Vec, bool) { return target, true })
		p := newTestFactory(finder).Fire(Scale(a, 1), origin, facing)[0]

		s := NewSimulator(Bounds{Width: 1e6, Height: 1e6}, 0)
		s.Spawn(p)
		for i := 0; i < 50; i++ {
			s.Tick()
			if math.Abs(p.Vel.Len()-p.Speed) > 1e-9 {
				t.Fatalf("tick %d: speed %f, want %f", i, p.Vel.Len(), p.Speed)
			}
		}
	})
}

func TestHomingSteersTowardTarget(t *testing.T) {
	finder := TargetFinderFunc(func(Vec) (Vec, bool) { return Vec{110, 400}, true })
	p := newTestFactory(finder).Fire(equip(t, "homing", 1), Cell{5, 5}, Right)[0]
	s := NewSimulator(testBounds, 0)
	s.Spawn(p)

	for i := 0; i < 40; i++ {
		s.Tick()
	}
	if p.Vel.Y <= 0 {
		t.Errorf("missile should be turning down toward the target, vel %+v", p.Vel)
	}
}

func TestBlackholeGrowsAndPulls(t *testing.T) {
	f := newTestFactory(nil)
	hole := f.Fire(equip(t, "blackhole", 1), Cell{20, 15}, Right)[0]
	hole.Vel = Vec{}
	bolt := f.Fire(equip(t, "basic", 1), Cell{20, 17}, Right)[0] // 40px below
	bolt.Vel = Vec{}

	s := NewSimulator(testBounds, 0)
	s.Spawn(hole, bolt)

	last := hole.Hole.Radius
	for i := 0; i < 10; i++ {
		s.Tick()
		if hole.Hole.Radius < last {
			t.Fatalf("radius shrank from %f to %f", last, hole.Hole.Radius)
		}
		last = hole.Hole.Radius
	}
	if !near(hole.Hole.Radius, 150) || !near(hole.Radius, 15) {
		t.Errorf("after 10 ticks radius=%f size=%f, want 150 and 15", hole.Hole.Radius, hole.Radius)
	}
	if bolt.Vel.Y >= 0 {
		t.Errorf("bolt should be pulled up toward the hole, vel %+v", bolt.Vel)
	}
}
