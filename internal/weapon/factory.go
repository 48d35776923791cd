package weapon

import (
	"math"
	"math/rand"
)

// Lifetimes in ticks, and collision sizes in pixels, per pattern.
const (
	lifeLinear    = 100
	lifeShotgun   = 80
	lifeHoming    = 200
	lifeChain     = 150
	lifeExplosive = 120
	lifePiercing  = 200
	lifeNuke      = 120

	laserbeamMillis = 1000
	beamWidth       = 8
	flameJitter     = 0.25 // radians either side of facing

	sizeSingle    = 4
	sizeSpread    = 3
	sizeHoming    = 5
	sizeShotgun   = 2
	sizeChain     = 6
	sizeExplosive = 8
	sizePiercing  = 6
	sizeNuke      = 15
	sizeFlame     = 4
)

// Factory turns one trigger pull into projectiles. It does not touch ammo.
type Factory struct {
	cellSize   float64
	tickMillis float64
	rng        *rand.Rand
	finder     TargetFinder
	nextID     uint64
}

// NewFactory builds a factory for a board of cellSize pixel cells running
// at tickMillis per tick. A nil finder leaves homing shots untargeted.
func NewFactory(cellSize, tickMillis float64, rng *rand.Rand, finder TargetFinder) *Factory {
	if finder == nil {
		finder = noTarget{}
	}
	f := &Factory{cellSize: cellSize, rng: rng, finder: finder}
	f.SetTickMillis(tickMillis)
	return f
}

func (f *Factory) SetTickMillis(ms float64) {
	if ms <= 0 {
		ms = 1
	}
	f.tickMillis = ms
}

func (f *Factory) SetTargetFinder(finder TargetFinder) {
	if finder == nil {
		finder = noTarget{}
	}
	f.finder = finder
}

// Ticks converts a millisecond duration to whole ticks, at least one.
func (f *Factory) Ticks(ms float64) int {
	return max(1, int(math.Ceil(ms/f.tickMillis)))
}

func (f *Factory) newID() uint64 {
	f.nextID++
	return f.nextID
}

// Fire creates the projectiles for one shot of w from the centre of origin.
// Every projectile carries w's pattern.
func (f *Factory) Fire(w Equipped, origin Cell, facing Direction) []*Projectile {
	pos := origin.Center(f.cellSize)

	switch w.Pattern {
	case PatternSpread:
		return f.spread(w, pos, facing)
	case PatternShotgun:
		return f.shotgun(w, pos, facing)
	case PatternHoming:
		return []*Projectile{f.homing(w, pos, facing)}
	case PatternBeam:
		return []*Projectile{f.beam(w, pos, facing, beamWidth, f.Ticks(w.BeamDuration))}
	case PatternLaserbeam:
		return []*Projectile{f.beam(w, pos, facing, w.BeamWidth, f.Ticks(laserbeamMillis))}
	case PatternChain:
		p := f.straight(w, pos, facing, lifeChain, sizeChain)
		p.Chain = &ChainState{Remaining: w.ChainCount, Range: w.ChainRange}
		return []*Projectile{p}
	case PatternExplosive:
		p := f.straight(w, pos, facing, lifeExplosive, sizeExplosive)
		p.Blast = &BlastState{Radius: w.ExplosionRadius}
		return []*Projectile{p}
	case PatternNuke:
		p := f.straight(w, pos, facing, lifeNuke, sizeNuke)
		p.Blast = &BlastState{Radius: w.ExplosionRadius}
		return []*Projectile{p}
	case PatternFlame:
		return []*Projectile{f.flame(w, pos, facing)}
	case PatternPiercing:
		p := f.straight(w, pos, facing, lifePiercing, sizePiercing)
		p.Pierce = &PierceState{Remaining: w.PierceCount}
		return []*Projectile{p}
	case PatternBlackhole:
		p := f.straight(w, pos, facing, f.Ticks(w.Duration), holeBaseSize)
		p.Hole = &HoleState{Radius: holeBaseRadius, Pull: w.PullStrength}
		return []*Projectile{p}
	case PatternFreeze:
		p := f.straight(w, pos, facing, lifeLinear, sizeSingle)
		p.Freeze = &FreezeState{Ticks: f.Ticks(w.FreezeDuration)}
		return []*Projectile{p}
	default:
		return []*Projectile{f.straight(w, pos, facing, lifeLinear, sizeSingle)}
	}
}

func (f *Factory) straight(w Equipped, pos Vec, facing Direction, life int, size float64) *Projectile {
	p := newProjectile(f.newID(), w.Pattern, w, pos, life)
	p.Vel = facing.Unit().Scale(w.ProjectileSpeed)
	p.Radius = size
	return p
}

func (f *Factory) angled(w Equipped, pos Vec, angle, speed float64, life int, size float64) *Projectile {
	p := newProjectile(f.newID(), w.Pattern, w, pos, life)
	p.Speed = speed
	p.Vel = polar(angle, speed)
	p.Radius = size
	return p
}

// spread fans ProjectileCount shots evenly across SpreadAngle, centred on
// the facing.
func (f *Factory) spread(w Equipped, pos Vec, facing Direction) []*Projectile {
	n := max(1, w.ProjectileCount)
	if n == 1 {
		return []*Projectile{f.straight(w, pos, facing, lifeLinear, sizeSpread)}
	}

	arc := w.SpreadAngle * math.Pi / 180
	start := facing.Angle() - arc/2
	step := arc / float64(n-1)

	out := make([]*Projectile, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, f.angled(w, pos, start+step*float64(i), w.ProjectileSpeed, lifeLinear, sizeSpread))
	}
	return out
}

func (f *Factory) shotgun(w Equipped, pos Vec, facing Direction) []*Projectile {
	n := max(1, w.ProjectileCount)
	arc := w.SpreadAngle * math.Pi / 180

	out := make([]*Projectile, 0, n)
	for i := 0; i < n; i++ {
		angle := facing.Angle() + (f.rng.Float64()-0.5)*arc
		speed := w.ProjectileSpeed * (0.8 + f.rng.Float64()*0.4)
		out = append(out, f.angled(w, pos, angle, speed, lifeShotgun, sizeShotgun))
	}
	return out
}

func (f *Factory) homing(w Equipped, pos Vec, facing Direction) *Projectile {
	p := f.straight(w, pos, facing, lifeHoming, sizeHoming)
	target, ok := f.finder.FindTarget(pos)
	p.Homing = &HomingState{Target: target, HasTarget: ok, Strength: w.HomingStrength}
	return p
}

func (f *Factory) beam(w Equipped, pos Vec, facing Direction, width float64, life int) *Projectile {
	p := newProjectile(f.newID(), w.Pattern, w, pos, life)
	p.Speed = 0
	p.Radius = width / 2
	p.Beam = &BeamState{Dir: facing, Width: width}
	return p
}

func (f *Factory) flame(w Equipped, pos Vec, facing Direction) *Projectile {
	angle := facing.Angle() + (f.rng.Float64()*2-1)*flameJitter
	speed := w.ProjectileSpeed * (0.5 + f.rng.Float64()*0.5)
	life := f.Ticks(w.Duration * (0.5 + f.rng.Float64()*0.5))
	return f.angled(w, pos, angle, speed, life, sizeFlame)
}
