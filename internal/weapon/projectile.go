package weapon

type lifeState uint8

const (
	alive lifeState = iota
	consumed
	expired
)

// HomingState steers a projectile toward a fixed point.
type HomingState struct {
	Target    Vec
	HasTarget bool
	Strength  float64
}

// ChainState is the remaining hop budget of a chain projectile.
type ChainState struct {
	Remaining int
	Range     float64
	Chained   []uint64
}

// PierceState is the remaining pass-through budget.
type PierceState struct {
	Remaining int
	Pierced   []uint64
}

// HoleState is a growing gravity well.
type HoleState struct {
	Growth float64
	Radius float64
	Pull   float64
}

// BeamState is a stationary ray anchored at the projectile position.
type BeamState struct {
	Dir   Direction
	Width float64
}

// BlastState carries the pending area damage of explosive and nuke.
type BlastState struct {
	Radius    float64
	Detonated bool
}

// FreezeState is applied to targets struck by a cryo shot.
type FreezeState struct {
	Ticks int
}

// Projectile is one live shot. Exactly the state pointer matching its
// pattern is non-nil.
type Projectile struct {
	ID      uint64
	Weapon  string
	Color   string
	Pos     Vec
	Vel     Vec
	Speed   float64
	Damage  float64
	Radius  float64
	Life    int // ticks left
	MaxLife int

	Homing *HomingState
	Chain  *ChainState
	Pierce *PierceState
	Hole   *HoleState
	Beam   *BeamState
	Blast  *BlastState
	Freeze *FreezeState

	pattern Pattern
	state   lifeState
	struck  map[uint64]struct{}
}

func newProjectile(id uint64, pattern Pattern, w Equipped, pos Vec, life int) *Projectile {
	return &Projectile{
		ID:      id,
		Weapon:  w.ID,
		Color:   w.Color,
		Pos:     pos,
		Speed:   w.ProjectileSpeed,
		Damage:  w.Damage,
		Life:    life,
		MaxLife: life,
		pattern: pattern,
	}
}

func (p *Projectile) Pattern() Pattern { return p.pattern }

// Active reports whether the projectile still takes part in movement and
// collisions this tick.
func (p *Projectile) Active() bool { return p.state == alive && p.Life > 0 }

func (p *Projectile) Consumed() bool { return p.state == consumed }
func (p *Projectile) Expired() bool  { return p.state == expired }

func (p *Projectile) consume() { p.state = consumed }

// struckBefore records id and reports whether it had been struck already.
func (p *Projectile) struckBefore(id uint64) bool {
	if p.struck == nil {
		p.struck = make(map[uint64]struct{}, 4)
	}
	if _, ok := p.struck[id]; ok {
		return true
	}
	p.struck[id] = struct{}{}
	return false
}

// ProjectileSnapshot is the render view of a projectile.
type ProjectileSnapshot struct {
	ID          uint64     `json:"id"`
	Pattern     Pattern    `json:"pattern"`
	Weapon      string     `json:"weapon"`
	Color       string     `json:"color"`
	X           float64    `json:"x"`
	Y           float64    `json:"y"`
	VX          float64    `json:"vx"`
	VY          float64    `json:"vy"`
	Radius      float64    `json:"radius"`
	Life        float64    `json:"life"` // fraction of lifetime left
	BeamDir     *Direction `json:"beamDir,omitempty"`
	BeamWidth   float64    `json:"beamWidth,omitempty"`
	PullRadius  float64    `json:"pullRadius,omitempty"`
	BlastRadius float64    `json:"blastRadius,omitempty"`
}

func (p *Projectile) Snapshot() ProjectileSnapshot {
	s := ProjectileSnapshot{
		ID:      p.ID,
		Pattern: p.pattern,
		Weapon:  p.Weapon,
		Color:   p.Color,
		X:       p.Pos.X,
		Y:       p.Pos.Y,
		VX:      p.Vel.X,
		VY:      p.Vel.Y,
		Radius:  p.Radius,
	}
	if p.MaxLife > 0 {
		s.Life = float64(p.Life) / float64(p.MaxLife)
	}
	if p.Beam != nil {
		dir := p.Beam.Dir
		s.BeamDir = &dir
		s.BeamWidth = p.Beam.Width
	}
	if p.Hole != nil {
		s.PullRadius = p.Hole.Radius
	}
	if p.Blast != nil {
		s.BlastRadius = p.Blast.Radius
	}
	return s
}
