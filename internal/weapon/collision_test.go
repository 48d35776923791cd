package weapon_test

import (
	"math"
	"math/rand"
	"testing"

	"go.uber.org/mock/gomock"

	"neon-snake/internal/weapon"
	"neon-snake/internal/weapon/mocks"
)

var field = weapon.Bounds{Width: 800, Height: 600}

func fire(t *testing.T, id string, origin weapon.Cell, facing weapon.Direction) []*weapon.Projectile {
	t.Helper()
	a, err := weapon.DefaultCatalog().Get(id)
	if err != nil {
		t.Fatal(err)
	}
	f := weapon.NewFactory(20, 150, rand.New(rand.NewSource(1)), nil)
	return f.Fire(weapon.Scale(a, 1), origin, facing)
}

// staticIndex is a fixed set of targets with overlap queries.
type staticIndex []weapon.Target

func (s staticIndex) TargetsInRange(center weapon.Vec, radius float64) []weapon.Target {
	var out []weapon.Target
	for _, t := range s {
		if t.Pos.Dist(center) < radius+t.Radius {
			out = append(out, t)
		}
	}
	return out
}

func TestSingleConsumedOnFirstHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p := fire(t, "basic", weapon.Cell{X: 5, Y: 5}, weapon.Right)[0]
	targets := []weapon.Target{
		{ID: 1, Pos: p.Pos, Radius: 10},
		{ID: 2, Pos: p.Pos.Add(weapon.Vec{X: 3}), Radius: 10},
	}

	index := mocks.NewMockTargetIndex(ctrl)
	index.EXPECT().TargetsInRange(p.Pos, p.Radius).Return(targets)

	hits := mocks.NewMockHitHandler(ctrl)
	hits.EXPECT().OnHit(gomock.Any()).Do(func(h weapon.Hit) {
		if h.Target.ID != 1 || h.Damage != 10 || h.Pattern != weapon.PatternSingle {
			t.Errorf("unexpected hit %+v", h)
		}
	}).Times(1)

	if n := weapon.NewResolver(field).Resolve([]*weapon.Projectile{p}, index, hits); n != 1 {
		t.Errorf("Resolve reported %d hits, want 1", n)
	}
	if !p.Consumed() {
		t.Error("projectile should be consumed")
	}
}

func TestPiercingRemovedAfterFourthCollision(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p := fire(t, "railgun", weapon.Cell{X: 2, Y: 10}, weapon.Right)[0]
	sim := weapon.NewSimulator(field, 0)
	sim.Spawn(p)
	resolver := weapon.NewResolver(field)

	hits := mocks.NewMockHitHandler(ctrl)
	hits.EXPECT().OnHit(gomock.Any()).Times(4)

	for id := uint64(1); id <= 4; id++ {
		sim.Tick()
		if sim.Len() != 1 {
			t.Fatalf("railgun gone before collision %d", id)
		}
		index := mocks.NewMockTargetIndex(ctrl)
		index.EXPECT().TargetsInRange(gomock.Any(), gomock.Any()).
			Return([]weapon.Target{{ID: id, Pos: p.Pos, Radius: 10}})
		resolver.Resolve(sim.Projectiles(), index, hits)

		if id < 4 && p.Consumed() {
			t.Fatalf("consumed after %d collisions", id)
		}
	}

	if !p.Consumed() {
		t.Fatal("railgun should be consumed by the fourth collision")
	}
	if p.Pierce.Remaining != 0 || len(p.Pierce.Pierced) != 3 {
		t.Errorf("pierce state %+v", p.Pierce)
	}
	sim.Tick()
	if sim.Len() != 0 {
		t.Error("railgun should be removed on the next tick")
	}
}

func TestPiercingSkipsTargetAlreadyPierced(t *testing.T) {
	p := fire(t, "railgun", weapon.Cell{X: 2, Y: 10}, weapon.Right)[0]
	index := staticIndex{{ID: 9, Pos: p.Pos, Radius: 10}}
	resolver := weapon.NewResolver(field)

	count := 0
	h := weapon.HitHandlerFunc(func(weapon.Hit) { count++ })
	for i := 0; i < 5; i++ {
		resolver.Resolve([]*weapon.Projectile{p}, index, h)
	}
	if count != 1 || p.Pierce.Remaining != 2 {
		t.Errorf("hits=%d remaining=%d, want 1 and 2", count, p.Pierce.Remaining)
	}
}

func TestBeamHitsEachTargetOnce(t *testing.T) {
	p := fire(t, "beam", weapon.Cell{X: 10, Y: 10}, weapon.Right)[0] // origin (210, 210)
	index := staticIndex{
		{ID: 1, Pos: weapon.Vec{X: 500, Y: 212}, Radius: 10}, // in band, ahead
		{ID: 2, Pos: weapon.Vec{X: 700, Y: 230}, Radius: 10}, // outside band
		{ID: 3, Pos: weapon.Vec{X: 50, Y: 210}, Radius: 10},  // behind
	}
	resolver := weapon.NewResolver(field)

	var struck []uint64
	h := weapon.HitHandlerFunc(func(hit weapon.Hit) { struck = append(struck, hit.Target.ID) })
	for i := 0; i < 3; i++ {
		resolver.Resolve([]*weapon.Projectile{p}, index, h)
	}

	if len(struck) != 1 || struck[0] != 1 {
		t.Errorf("struck %v, want [1]", struck)
	}
	if p.Consumed() {
		t.Error("beams are never consumed by hits")
	}
}

func TestChainHopsToNearestUnchainedTarget(t *testing.T) {
	p := fire(t, "lightning", weapon.Cell{X: 10, Y: 10}, weapon.Right)[0]
	first := weapon.Target{ID: 1, Pos: p.Pos, Radius: 10}
	next := weapon.Target{ID: 2, Pos: p.Pos.Add(weapon.Vec{Y: 60}), Radius: 10}
	far := weapon.Target{ID: 3, Pos: p.Pos.Add(weapon.Vec{X: -300}), Radius: 10}
	index := staticIndex{first, next, far}

	var struck []uint64
	weapon.NewResolver(field).Resolve([]*weapon.Projectile{p}, index,
		weapon.HitHandlerFunc(func(hit weapon.Hit) { struck = append(struck, hit.Target.ID) }))

	if len(struck) != 1 || struck[0] != 1 {
		t.Fatalf("struck %v, want [1]", struck)
	}
	if p.Chain.Remaining != 4 {
		t.Errorf("remaining = %d, want 4", p.Chain.Remaining)
	}
	if math.Abs(p.Vel.X) > 1e-9 || math.Abs(p.Vel.Y-p.Speed) > 1e-9 {
		t.Errorf("bolt should now head straight down at %f, vel %+v", p.Speed, p.Vel)
	}
}

func TestExplosiveContactDefersBlastToExpiry(t *testing.T) {
	p := fire(t, "grenade", weapon.Cell{X: 10, Y: 10}, weapon.Right)[0]
	sim := weapon.NewSimulator(field, 0)
	sim.Spawn(p)
	resolver := weapon.NewResolver(field)

	contact := weapon.Target{ID: 1, Pos: p.Pos, Radius: 10}
	bystander := weapon.Target{ID: 2, Pos: p.Pos.Add(weapon.Vec{Y: 50}), Radius: 10}
	index := staticIndex{contact, bystander}

	var got []weapon.Hit
	record := weapon.HitHandlerFunc(func(h weapon.Hit) { got = append(got, h) })

	resolver.Resolve(sim.Projectiles(), index, record)
	if p.Life != 0 || p.Consumed() {
		t.Fatalf("contact should end the grenade's life, life=%d consumed=%v", p.Life, p.Consumed())
	}
	if len(got) != 1 || got[0].Target.ID != 1 || got[0].Blast {
		t.Fatalf("contact hits %+v", got)
	}

	detonations := sim.Tick()
	if len(detonations) != 1 {
		t.Fatalf("expected one detonation, got %d", len(detonations))
	}
	if n := resolver.ResolveBlasts(detonations, index, record); n != 2 {
		t.Errorf("blast hit %d targets, want 2", n)
	}
	for _, h := range got[1:] {
		if !h.Blast || h.Damage != 80 {
			t.Errorf("blast hit %+v", h)
		}
	}
	if d := sim.Tick(); len(d) != 0 {
		t.Error("grenade detonated twice")
	}
}

func TestResolveSkipsInactive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p := fire(t, "basic", weapon.Cell{X: 5, Y: 5}, weapon.Right)[0]
	p.Life = 0

	index := mocks.NewMockTargetIndex(ctrl)
	hits := mocks.NewMockHitHandler(ctrl)
	if n := weapon.NewResolver(field).Resolve([]*weapon.Projectile{p}, index, hits); n != 0 {
		t.Errorf("expected no hits, got %d", n)
	}
}

func TestHomingAcquiresTargetThroughFinder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	finder := mocks.NewMockTargetFinder(ctrl)
	finder.EXPECT().FindTarget(weapon.Vec{X: 30, Y: 30}).Return(weapon.Vec{X: 300, Y: 30}, true).Times(1)

	a, _ := weapon.DefaultCatalog().Get("homing")
	f := weapon.NewFactory(20, 150, rand.New(rand.NewSource(1)), finder)
	p := f.Fire(weapon.Scale(a, 1), weapon.Cell{X: 1, Y: 1}, weapon.Down)[0]

	if !p.Homing.HasTarget || p.Homing.Target != (weapon.Vec{X: 300, Y: 30}) {
		t.Errorf("homing state %+v", p.Homing)
	}
}
