package weapon

import (
	"fmt"
	"math"
)

// Default ammo pool. Regeneration is per tick.
const (
	DefaultMaxAmmo   = 100
	DefaultAmmoRegen = 0.1
)

// Ammo is the shared firing resource. Current always stays in [0, Max].
type Ammo struct {
	current float64
	max     float64
	regen   float64
}

// NewAmmo returns a full pool. start is clamped to [0, max].
func NewAmmo(start, max, regenPerTick float64) *Ammo {
	if max < 0 {
		max = 0
	}
	a := &Ammo{max: max, regen: math.Max(0, regenPerTick)}
	a.set(start)
	return a
}

func (a *Ammo) set(v float64) {
	a.current = math.Min(a.max, math.Max(0, v))
}

func (a *Ammo) Current() float64 { return a.current }
func (a *Ammo) Max() float64 { return a.max }

func (a *Ammo) CanAfford(cost float64) bool {
	return a.current >= cost
}

// Consume removes cost from the pool, or returns ErrInsufficientAmmo
// and leaves the pool untouched.
func (a *Ammo) Consume(cost float64) error {
	if cost < 0 {
		cost = 0
	}
	if !a.CanAfford(cost) {
		return fmt.Errorf("%w: need %.1f, have %.1f", ErrInsufficientAmmo, cost, a.current)
	}
	a.set(a.current - cost)
	return nil
}

// Regenerate adds the regen rate once per elapsed tick.
func (a *Ammo) Regenerate(ticks int) {
	if ticks <= 0 {
		return
	}
	a.set(a.current + a.regen*float64(ticks))
}

// Refill adds amount, saturating at Max.
func (a *Ammo) Refill(amount float64) {
	if amount <= 0 {
		return
	}
	a.set(a.current + amount)
}

// Reset fills the pool.
func (a *Ammo) Reset() {
	a.current = a.max
}
