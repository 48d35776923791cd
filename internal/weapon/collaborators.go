package weapon

//go:generate go tool mockgen -destination=mocks/collaborators.go -package=mocks neon-snake/internal/weapon TargetIndex,TargetFinder,HitHandler

// Target is anything a projectile can strike. Radius is its body size.
type Target struct {
	ID     uint64  `json:"id"`
	Pos    Vec     `json:"pos"`
	Radius float64 `json:"radius"`
}

// TargetIndex answers range queries over current targets. Implementations
// return targets whose bodies overlap the circle, i.e. distance from
// center < radius + target.Radius. The returned slice belongs to the
// caller.
type TargetIndex interface {
	TargetsInRange(center Vec, radius float64) []Target
}

// TargetFinder picks a homing target for a projectile fired from origin.
type TargetFinder interface {
	FindTarget(origin Vec) (Vec, bool)
}

// HitHandler receives every hit the resolver produces.
type HitHandler interface {
	OnHit(Hit)
}

type TargetFinderFunc func(origin Vec) (Vec, bool)

func (f TargetFinderFunc) FindTarget(origin Vec) (Vec, bool) { return f(origin) }

type TargetIndexFunc func(center Vec, radius float64) []Target

func (f TargetIndexFunc) TargetsInRange(center Vec, radius float64) []Target { return f(center, radius) }

type HitHandlerFunc func(Hit)

func (f HitHandlerFunc) OnHit(h Hit) { f(h) }

// Hit is one projectile or blast striking one target.
type Hit struct {
	ProjectileID uint64  `json:"projectileId"`
	Weapon       string  `json:"weapon"`
	Pattern      Pattern `json:"pattern"`
	Target       Target  `json:"target"`
	Damage       float64 `json:"damage"`
	Pos          Vec     `json:"pos"`
	Blast        bool    `json:"blast,omitempty"`
	FreezeTicks  int     `json:"freezeTicks,omitempty"`
}

// Detonation is the area effect of an explosive or nuke reaching the end
// of its life.
type Detonation struct {
	ProjectileID uint64  `json:"projectileId"`
	Weapon       string  `json:"weapon"`
	Pattern      Pattern `json:"pattern"`
	Pos          Vec     `json:"pos"`
	Radius       float64 `json:"radius"`
	Damage       float64 `json:"damage"`
}

type noTarget struct{}

func (noTarget) FindTarget(Vec) (Vec, bool) { return Vec{}, false }

type noTargets struct{}

func (noTargets) TargetsInRange(Vec, float64) []Target { return nil }
