package weapon

// behavior is the per-pattern strategy the simulator and resolver dispatch
// through. Every pattern has an entry; see behaviors.
type behavior struct {
	// advance moves p one tick. world is every live projectile.
	advance func(p *Projectile, world []*Projectile)
	// contacts returns the targets p touches this tick.
	contacts func(r *Resolver, p *Projectile, idx TargetIndex) []Target
	// collide applies one contact.
	collide func(p *Projectile, t Target, idx TargetIndex, h HitHandler)
	// expire runs once when Life reaches zero.
	expire func(p *Projectile) (Detonation, bool)
}

var behaviors = [patternCount]behavior{
	PatternSingle:    linearShot,
	PatternSpread:    linearShot,
	PatternShotgun:   linearShot,
	PatternFlame:     linearShot,
	PatternFreeze:    linearShot,
	PatternHoming:    {advance: advanceHoming, contacts: bodyContacts, collide: collideConsume, expire: expireQuiet},
	PatternChain:     {advance: advanceLinear, contacts: bodyContacts, collide: collideChain, expire: expireQuiet},
	PatternPiercing:  {advance: advanceLinear, contacts: bodyContacts, collide: collidePierce, expire: expireQuiet},
	PatternExplosive: blastShot,
	PatternNuke:      blastShot,
	PatternBlackhole: {advance: advanceHole, contacts: bodyContacts, collide: collideOnce, expire: expireQuiet},
	PatternBeam:      beamShot,
	PatternLaserbeam: beamShot,
}

var (
	linearShot = behavior{advance: advanceLinear, contacts: bodyContacts, collide: collideConsume, expire: expireQuiet}
	blastShot  = behavior{advance: advanceLinear, contacts: bodyContacts, collide: collideDetonate, expire: expireBlast}
	beamShot   = behavior{advance: advanceStatic, contacts: beamContacts, collide: collideOnce, expire: expireQuiet}
)

// Homing only steers while farther than this from its target.
const homingMinDistance = 10

// Blackhole growth per tick and its effect on pull radius and body size.
const (
	holeGrowthRate   = 0.1
	holeBaseRadius   = 100
	holeRadiusGrowth = 50
	holeBaseSize     = 10
	holeSizeGrowth   = 5
)

func advanceLinear(p *Projectile, _ []*Projectile) {
	p.Pos = p.Pos.Add(p.Vel)
}

func advanceStatic(*Projectile, []*Projectile) {}

func advanceHoming(p *Projectile, _ []*Projectile) {
	h := p.Homing
	if h != nil && h.HasTarget {
		d := h.Target.Sub(p.Pos)
		if dist := d.Len(); dist > homingMinDistance {
			p.Vel = p.Vel.Add(d.Scale(h.Strength / dist))
			if v := p.Vel.Len(); v > 0 {
				p.Vel = p.Vel.Scale(p.Speed / v)
			}
		}
	}
	p.Pos = p.Pos.Add(p.Vel)
}

func advanceHole(p *Projectile, world []*Projectile) {
	p.Pos = p.Pos.Add(p.Vel)

	h := p.Hole
	h.Growth += holeGrowthRate
	h.Radius = holeBaseRadius + h.Growth*holeRadiusGrowth
	p.Radius = holeBaseSize + h.Growth*holeSizeGrowth

	for _, q := range world {
		if q == p || !q.Active() || q.pattern == PatternBlackhole || q.pattern.IsBeam() {
			continue
		}
		d := p.Pos.Sub(q.Pos)
		dist := d.Len()
		if dist == 0 || dist >= h.Radius {
			continue
		}
		pull := h.Pull * (1 - dist/h.Radius)
		q.Vel = q.Vel.Add(d.Scale(pull / dist))
	}
}

func bodyContacts(_ *Resolver, p *Projectile, idx TargetIndex) []Target {
	return idx.TargetsInRange(p.Pos, p.Radius)
}

// beamContacts keeps targets inside the band of half-width Width/2 along
// the beam axis, on the facing side of the origin.
func beamContacts(r *Resolver, p *Projectile, idx TargetIndex) []Target {
	candidates := idx.TargetsInRange(p.Pos, r.reach)
	if len(candidates) == 0 {
		return nil
	}
	axis := p.Beam.Dir.Unit()
	half := p.Beam.Width / 2

	var out []Target
	for _, t := range candidates {
		d := t.Pos.Sub(p.Pos)
		along := d.X*axis.X + d.Y*axis.Y
		across := d.X*axis.Y - d.Y*axis.X
		if along >= -t.Radius && across < half && across > -half {
			out = append(out, t)
		}
	}
	return out
}

func hitFor(p *Projectile, t Target) Hit {
	h := Hit{
		ProjectileID: p.ID,
		Weapon:       p.Weapon,
		Pattern:      p.pattern,
		Target:       t,
		Damage:       p.Damage,
		Pos:          t.Pos,
	}
	if p.Freeze != nil {
		h.FreezeTicks = p.Freeze.Ticks
	}
	return h
}

func collideConsume(p *Projectile, t Target, _ TargetIndex, h HitHandler) {
	h.OnHit(hitFor(p, t))
	p.consume()
}

// collideDetonate ends the projectile's life; the blast itself happens in
// the next expiry sweep so it can only happen once.
func collideDetonate(p *Projectile, t Target, _ TargetIndex, h HitHandler) {
	h.OnHit(hitFor(p, t))
	p.Life = 0
}

func collideOnce(p *Projectile, t Target, _ TargetIndex, h HitHandler) {
	if p.struckBefore(t.ID) {
		return
	}
	h.OnHit(hitFor(p, t))
}

func collidePierce(p *Projectile, t Target, _ TargetIndex, h HitHandler) {
	if p.struckBefore(t.ID) {
		return
	}
	h.OnHit(hitFor(p, t))
	ps := p.Pierce
	if ps.Remaining > 0 {
		ps.Remaining--
		ps.Pierced = append(ps.Pierced, t.ID)
		return
	}
	p.consume()
}

func collideChain(p *Projectile, t Target, idx TargetIndex, h HitHandler) {
	if p.struckBefore(t.ID) {
		return
	}
	h.OnHit(hitFor(p, t))
	c := p.Chain
	c.Chained = append(c.Chained, t.ID)
	if c.Remaining <= 0 {
		p.consume()
		return
	}
	c.Remaining--

	// Hop toward the nearest target not yet chained; with none in range the
	// bolt keeps its heading.
	var (
		next  Target
		found bool
		best  float64
	)
	for _, cand := range idx.TargetsInRange(t.Pos, c.Range) {
		if _, seen := p.struck[cand.ID]; seen {
			continue
		}
		if d := cand.Pos.Dist(t.Pos); !found || d < best {
			next, best, found = cand, d, true
		}
	}
	if !found {
		return
	}
	d := next.Pos.Sub(p.Pos)
	if l := d.Len(); l > 0 {
		p.Vel = d.Scale(p.Speed / l)
	}
}

func expireQuiet(*Projectile) (Detonation, bool) { return Detonation{}, false }

func expireBlast(p *Projectile) (Detonation, bool) {
	b := p.Blast
	if b == nil || b.Detonated {
		return Detonation{}, false
	}
	b.Detonated = true
	return Detonation{
		ProjectileID: p.ID,
		Weapon:       p.Weapon,
		Pattern:      p.pattern,
		Pos:          p.Pos,
		Radius:       b.Radius,
		Damage:       p.Damage,
	}, true
}
