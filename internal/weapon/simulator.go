package weapon

// DefaultMaxProjectiles caps live projectiles; shots beyond it are dropped.
const DefaultMaxProjectiles = 256

// Simulator owns the live projectiles and advances them one tick at a time.
type Simulator struct {
	bounds      Bounds
	limit       int
	projectiles []*Projectile
	dropped     int
}

func NewSimulator(bounds Bounds, limit int) *Simulator {
	if limit <= 0 {
		limit = DefaultMaxProjectiles
	}
	return &Simulator{
		bounds:      bounds,
		limit:       limit,
		projectiles: make([]*Projectile, 0, min(limit, 64)),
	}
}

// Spawn adds projectiles up to the live cap and returns how many were kept.
func (s *Simulator) Spawn(ps ...*Projectile) int {
	room := s.limit - len(s.projectiles)
	if room < len(ps) {
		s.dropped += len(ps) - max(room, 0)
		ps = ps[:max(room, 0)]
	}
	s.projectiles = append(s.projectiles, ps...)
	return len(ps)
}

// Tick removes consumed and expired projectiles, returning the detonations
// of those that expire with a pending blast, then advances the rest and
// counts their lifetimes down. Projectiles leaving the field expire on the
// next tick.
func (s *Simulator) Tick() []Detonation {
	var detonations []Detonation

	n := 0
	for _, p := range s.projectiles {
		if p.state == consumed {
			continue
		}
		if p.Life <= 0 {
			p.state = expired
			if d, ok := behaviors[p.pattern].expire(p); ok {
				detonations = append(detonations, d)
			}
			continue
		}
		s.projectiles[n] = p
		n++
	}
	clear(s.projectiles[n:])
	s.projectiles = s.projectiles[:n]

	for _, p := range s.projectiles {
		behaviors[p.pattern].advance(p, s.projectiles)
		p.Life--
		if !s.bounds.Contains(p.Pos) {
			p.Life = 0
		}
	}
	return detonations
}

// Projectiles returns the live slice. Callers must not retain it across
// ticks.
func (s *Simulator) Projectiles() []*Projectile { return s.projectiles }

func (s *Simulator) Len() int { return len(s.projectiles) }

// Dropped is the number of projectiles refused by the live cap.
func (s *Simulator) Dropped() int { return s.dropped }

func (s *Simulator) Clear() {
	clear(s.projectiles)
	s.projectiles = s.projectiles[:0]
}
