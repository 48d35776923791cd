package weapon

import (
	"math"
	"sort"
)

// Resolver applies projectile and blast contacts to targets.
type Resolver struct {
	reach float64 // beam length: the field diagonal
}

func NewResolver(bounds Bounds) *Resolver {
	return &Resolver{reach: math.Hypot(bounds.Width, bounds.Height)}
}

// Resolve tests every active projectile against the targets it touches and
// reports each hit to h. It returns the number of hits.
func (r *Resolver) Resolve(projectiles []*Projectile, idx TargetIndex, h HitHandler) int {
	if idx == nil {
		return 0
	}
	hits := 0
	counting := HitHandlerFunc(func(hit Hit) {
		hits++
		h.OnHit(hit)
	})

	for _, p := range projectiles {
		if !p.Active() {
			continue
		}
		b := behaviors[p.pattern]
		contacts := b.contacts(r, p, idx)
		sortByDistance(contacts, p.Pos)
		for _, t := range contacts {
			if !p.Active() {
				break
			}
			b.collide(p, t, idx, counting)
		}
	}
	return hits
}

// ResolveBlasts deals each detonation's damage to every target within its
// radius.
func (r *Resolver) ResolveBlasts(detonations []Detonation, idx TargetIndex, h HitHandler) int {
	if idx == nil {
		return 0
	}
	hits := 0
	for _, d := range detonations {
		targets := idx.TargetsInRange(d.Pos, d.Radius)
		sortByDistance(targets, d.Pos)
		for _, t := range targets {
			h.OnHit(Hit{
				ProjectileID: d.ProjectileID,
				Weapon:       d.Weapon,
				Pattern:      d.Pattern,
				Target:       t,
				Damage:       d.Damage,
				Pos:          t.Pos,
				Blast:        true,
			})
			hits++
		}
	}
	return hits
}

func sortByDistance(ts []Target, from Vec) {
	sort.SliceStable(ts, func(i, j int) bool {
		di, dj := ts[i].Pos.Dist(from), ts[j].Pos.Dist(from)
		if di != dj {
			return di < dj
		}
		return ts[i].ID < ts[j].ID
	})
}
