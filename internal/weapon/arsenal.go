package weapon

import "math/rand"

// Config sizes an Arsenal for one board.
type Config struct {
	Bounds         Bounds
	CellSize       float64
	TickMillis     float64
	MaxProjectiles int
	StartAmmo      float64
	MaxAmmo        float64
	AmmoRegen      float64 // per tick
	Starter        string
}

// DefaultConfig matches an 800x600 board of 20px cells at 150ms ticks.
func DefaultConfig() Config {
	return Config{
		Bounds:         Bounds{Width: 800, Height: 600},
		CellSize:       20,
		TickMillis:     150,
		MaxProjectiles: DefaultMaxProjectiles,
		StartAmmo:      DefaultMaxAmmo,
		MaxAmmo:        DefaultMaxAmmo,
		AmmoRegen:      DefaultAmmoRegen,
		Starter:        StarterWeapon,
	}
}

// TickInput is what the rest of the game supplies to one weapon tick.
type TickInput struct {
	Fire    bool
	Origin  Cell
	Facing  Direction
	Targets TargetIndex
	Hits    HitHandler
}

// TickReport summarises one weapon tick.
type TickReport struct {
	Fired       []*Projectile
	FireErr     error
	Detonations []Detonation
	Hits        int
	Live        int
}

// Stats are lifetime counters of an Arsenal.
type Stats struct {
	Shots       int `json:"shots"`
	Projectiles int `json:"projectiles"`
	Hits        int `json:"hits"`
	Detonations int `json:"detonations"`
	DryFires    int `json:"dryFires"`
}

// Arsenal bundles the weapon state of one player: progression, ammo, the
// equipped weapon and its live projectiles.
type Arsenal struct {
	catalog     *Catalog
	progression *Progression
	ammo        *Ammo
	factory     *Factory
	sim         *Simulator
	resolver    *Resolver
	rng         *rand.Rand

	equipped Equipped
	cooldown int
	stats    Stats
}

func NewArsenal(catalog *Catalog, cfg Config, rng *rand.Rand) (*Arsenal, error) {
	if cfg.Starter == "" {
		cfg.Starter = StarterWeapon
	}
	prog, err := NewProgression(catalog, cfg.Starter)
	if err != nil {
		return nil, err
	}
	a := &Arsenal{
		catalog:     catalog,
		progression: prog,
		ammo:        NewAmmo(cfg.StartAmmo, cfg.MaxAmmo, cfg.AmmoRegen),
		factory:     NewFactory(cfg.CellSize, cfg.TickMillis, rng, nil),
		sim:         NewSimulator(cfg.Bounds, cfg.MaxProjectiles),
		resolver:    NewResolver(cfg.Bounds),
		rng:         rng,
	}
	if a.equipped, err = prog.Equip(cfg.Starter); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Arsenal) Catalog() *Catalog { return a.catalog }
func (a *Arsenal) Ammo() *Ammo { return a.ammo }
func (a *Arsenal) Equipped() Equipped { return a.equipped }
func (a *Arsenal) Unlocked() []Slot { return a.progression.Unlocked() }
func (a *Arsenal) IsUnlocked(id string) bool { return a.progression.IsUnlocked(id) }
func (a *Arsenal) Projectiles() []*Projectile { return a.sim.Projectiles() }
func (a *Arsenal) Stats() Stats { return a.stats }
func (a *Arsenal) Cooldown() int { return a.cooldown }
func (a *Arsenal) Dropped() int { return a.sim.Dropped() }
func (a *Arsenal) Ticks(ms float64) int { return a.factory.Ticks(ms) }

// ProjectileSnapshots copies the live projectiles for rendering.
func (a *Arsenal) ProjectileSnapshots() []ProjectileSnapshot {
	ps := a.sim.Projectiles()
	out := make([]ProjectileSnapshot, 0, len(ps))
	for _, p := range ps {
		if p.Active() {
			out = append(out, p.Snapshot())
		}
	}
	return out
}

func (a *Arsenal) SetTargetFinder(f TargetFinder) { a.factory.SetTargetFinder(f) }

// SetTickMillis updates the ms-to-tick conversion when game speed changes.
func (a *Arsenal) SetTickMillis(ms float64) { a.factory.SetTickMillis(ms) }

// Equip switches weapons. On error the current weapon is kept. The fire
// cooldown carries over.
func (a *Arsenal) Equip(id string) (Equipped, error) {
	e, err := a.progression.Equip(id)
	if err != nil {
		return a.equipped, err
	}
	a.equipped = e
	return e, nil
}

func (a *Arsenal) Unlock(id string) (bool, error) { return a.progression.Unlock(id) }

func (a *Arsenal) UnlockRandom() (string, bool) { return a.progression.UnlockRandom(a.rng) }

// Upgrade levels id up and rescales it if it is equipped. ErrLevelCeiling
// is returned unchanged so callers can ignore it.
func (a *Arsenal) Upgrade(id string) (int, error) {
	lvl, err := a.progression.LevelUp(id)
	if err != nil {
		return lvl, err
	}
	if id == a.equipped.ID {
		if e, eqErr := a.progression.Equip(id); eqErr == nil {
			a.equipped = e
		}
	}
	return lvl, nil
}

// Fire spends ammo for one shot of the equipped weapon and spawns its
// projectiles. It ignores the cooldown.
func (a *Arsenal) Fire(origin Cell, facing Direction) ([]*Projectile, error) {
	if err := a.ammo.Consume(a.equipped.AmmoCost); err != nil {
		a.stats.DryFires++
		return nil, err
	}
	shot := a.factory.Fire(a.equipped, origin, facing)
	kept := a.sim.Spawn(shot...)
	a.stats.Shots++
	a.stats.Projectiles += kept
	a.cooldown = a.factory.Ticks(a.equipped.FireRate)
	return shot[:kept], nil
}

// Tick runs one weapon update: ammo regeneration, a cooldown-gated shot
// when in.Fire is set, projectile simulation, then contact and blast
// resolution against in.Targets.
func (a *Arsenal) Tick(in TickInput) TickReport {
	var rep TickReport

	a.ammo.Regenerate(1)
	if a.cooldown > 0 {
		a.cooldown--
	}
	if in.Fire && a.cooldown == 0 {
		rep.Fired, rep.FireErr = a.Fire(in.Origin, in.Facing)
	}

	rep.Detonations = a.sim.Tick()

	targets := in.Targets
	if targets == nil {
		targets = noTargets{}
	}
	hits := in.Hits
	if hits == nil {
		hits = HitHandlerFunc(func(Hit) {})
	}
	rep.Hits = a.resolver.Resolve(a.sim.Projectiles(), targets, hits)
	rep.Hits += a.resolver.ResolveBlasts(rep.Detonations, targets, hits)
	rep.Live = a.sim.Len()

	a.stats.Hits += rep.Hits
	a.stats.Detonations += len(rep.Detonations)
	return rep
}

// Reset returns to a fresh run: starter weapon only, full ammo, no
// projectiles.
func (a *Arsenal) Reset() {
	a.progression.Reset()
	a.ammo.Reset()
	a.sim.Clear()
	a.cooldown = 0
	a.stats = Stats{}
	a.equipped, _ = a.progression.Equip(a.progression.starter)
}
