package weapon

import (
	"fmt"
	"math"
	"math/rand"
)

// MinFireRate is the fastest cooldown level scaling can reach, in ms.
const MinFireRate = 50

// Equipped is an archetype with its level scaling applied.
type Equipped struct {
	Archetype
	Level int `json:"level"`
}

// Slot describes one unlocked weapon for listings.
type Slot struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Pattern  Pattern `json:"pattern"`
	Level    int     `json:"level"`
	MaxLevel int     `json:"maxLevel"`
}

// Scale applies the per-pattern level table to a copy of a.
// Level is clamped to [1, a.MaxLevel]; level 1 returns the archetype as-is.
func Scale(a Archetype, level int) Equipped {
	level = max(1, min(level, a.MaxLevel))
	e := Equipped{Archetype: a, Level: level}
	step := float64(level - 1)

	switch a.Pattern {
	case PatternSingle:
		e.Damage = a.Damage * (1 + 0.2*step)
		e.FireRate = math.Max(MinFireRate, a.FireRate*(1-0.1*step))
	case PatternSpread, PatternShotgun:
		e.Damage = a.Damage * (1 + 0.15*step)
		e.ProjectileCount = a.ProjectileCount + (level-1)/2
	case PatternHoming:
		e.Damage = a.Damage * (1 + 0.25*step)
		e.HomingStrength = a.HomingStrength * (1 + 0.3*step)
	case PatternBeam:
		e.Damage = a.Damage * (1 + 0.3*step)
		e.BeamDuration = a.BeamDuration * (1 + 0.2*step)
	case PatternChain:
		e.ChainCount = a.ChainCount + (level - 1)
	case PatternExplosive:
		e.ExplosionRadius = a.ExplosionRadius * (1 + 0.25*step)
	}
	return e
}

// Progression tracks which weapons are unlocked and their levels.
type Progression struct {
	catalog  *Catalog
	starter  string
	levels   map[string]int
	unlocked map[string]bool
	order    []string // unlock order
}

// NewProgression starts a progression with only starter unlocked.
func NewProgression(catalog *Catalog, starter string) (*Progression, error) {
	if !catalog.Has(starter) {
		return nil, fmt.Errorf("starter weapon: %w: %q", ErrUnknownWeapon, starter)
	}
	p := &Progression{catalog: catalog, starter: starter}
	p.Reset()
	return p, nil
}

// Reset relocks everything except the starter and drops all levels to 1.
func (p *Progression) Reset() {
	p.levels = make(map[string]int, p.catalog.Len())
	for _, id := range p.catalog.IDs() {
		p.levels[id] = 1
	}
	p.unlocked = map[string]bool{p.starter: true}
	p.order = []string{p.starter}
}

// Unlock adds id to the unlocked set. Unlocking twice is a no-op and
// reports added=false.
func (p *Progression) Unlock(id string) (added bool, err error) {
	if !p.catalog.Has(id) {
		return false, fmt.Errorf("%w: %q", ErrUnknownWeapon, id)
	}
	if p.unlocked[id] {
		return false, nil
	}
	p.unlocked[id] = true
	p.order = append(p.order, id)
	return true, nil
}

// UnlockRandom unlocks one locked weapon picked by rng.
func (p *Progression) UnlockRandom(rng *rand.Rand) (string, bool) {
	var locked []string
	for _, id := range p.catalog.IDs() {
		if !p.unlocked[id] {
			locked = append(locked, id)
		}
	}
	if len(locked) == 0 {
		return "", false
	}
	id := locked[rng.Intn(len(locked))]
	p.Unlock(id)
	return id, true
}

func (p *Progression) IsUnlocked(id string) bool { return p.unlocked[id] }

// Level returns the current level of id, or 0 for unknown ids.
func (p *Progression) Level(id string) int { return p.levels[id] }

// LevelUp raises id by one level. At max level it returns the unchanged
// level and ErrLevelCeiling.
func (p *Progression) LevelUp(id string) (int, error) {
	a, err := p.catalog.Get(id)
	if err != nil {
		return 0, err
	}
	lvl := p.levels[id]
	if lvl >= a.MaxLevel {
		return lvl, fmt.Errorf("%w: %s at %d", ErrLevelCeiling, id, lvl)
	}
	p.levels[id] = lvl + 1
	return lvl + 1, nil
}

// Equip returns the scaled weapon for id. It fails with ErrUnknownWeapon
// or ErrNotUnlocked.
func (p *Progression) Equip(id string) (Equipped, error) {
	a, err := p.catalog.Get(id)
	if err != nil {
		return Equipped{}, err
	}
	if !p.unlocked[id] {
		return Equipped{}, fmt.Errorf("%w: %q", ErrNotUnlocked, id)
	}
	return Scale(a, p.levels[id]), nil
}

// Unlocked lists unlocked weapons in unlock order.
func (p *Progression) Unlocked() []Slot {
	slots := make([]Slot, 0, len(p.order))
	for _, id := range p.order {
		a, _ := p.catalog.Get(id)
		slots = append(slots, Slot{
			ID:       id,
			Name:     a.Name,
			Pattern:  a.Pattern,
			Level:    p.levels[id],
			MaxLevel: a.MaxLevel,
		})
	}
	return slots
}
