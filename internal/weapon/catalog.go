package weapon

import (
	"encoding/json"
	"fmt"
	"io"
)

// StarterWeapon is unlocked and equipped at the start of every run.
const StarterWeapon = "basic"

// Archetype is the immutable template of a weapon. Durations are in
// milliseconds and converted to ticks by the Factory.
type Archetype struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Color           string  `json:"color"`
	Pattern         Pattern `json:"pattern"`
	Damage          float64 `json:"damage"`
	FireRate        float64 `json:"fireRate"` // ms between shots
	ProjectileSpeed float64 `json:"projectileSpeed"`
	AmmoCost        float64 `json:"ammoCost"`
	MaxLevel        int     `json:"maxLevel"`

	// Pattern parameters, zero when unused
	SpreadAngle     float64 `json:"spreadAngle,omitempty"` // degrees
	ProjectileCount int     `json:"projectiles,omitempty"`
	HomingStrength  float64 `json:"homingStrength,omitempty"`
	BeamDuration    float64 `json:"beamDuration,omitempty"` // ms
	BeamWidth       float64 `json:"beamWidth,omitempty"`
	PierceCount     int     `json:"pierceCount,omitempty"`
	ChainCount      int     `json:"chainCount,omitempty"`
	ChainRange      float64 `json:"chainRange,omitempty"`
	ExplosionRadius float64 `json:"explosionRadius,omitempty"`
	PullStrength    float64 `json:"pullStrength,omitempty"`
	Duration        float64 `json:"duration,omitempty"`       // ms
	FreezeDuration  float64 `json:"freezeDuration,omitempty"` // ms
}

// Validate checks the archetype against the needs of its pattern.
func (a Archetype) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s: %s", ErrInvalidArchetype, a.ID, fmt.Sprintf(format, args...))
	}

	if a.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidArchetype)
	}
	if !a.Pattern.Valid() {
		return fail("pattern %d", a.Pattern)
	}
	if a.MaxLevel < 1 {
		return fail("maxLevel %d", a.MaxLevel)
	}
	if a.Damage < 0 || a.AmmoCost < 0 || a.FireRate < 0 || a.ProjectileSpeed < 0 {
		return fail("negative stat")
	}

	switch a.Pattern {
	case PatternSpread, PatternShotgun:
		if a.ProjectileCount < 1 {
			return fail("%s needs projectiles >= 1", a.Pattern)
		}
	case PatternExplosive, PatternNuke:
		if a.ExplosionRadius <= 0 {
			return fail("%s needs explosionRadius > 0", a.Pattern)
		}
	case PatternChain:
		if a.ChainRange <= 0 {
			return fail("chain needs chainRange > 0")
		}
	case PatternBlackhole:
		if a.Duration <= 0 {
			return fail("blackhole needs duration > 0")
		}
	case PatternLaserbeam:
		if a.BeamWidth <= 0 {
			return fail("laserbeam needs beamWidth > 0")
		}
	}
	return nil
}

// Catalog is the read-only table of weapon archetypes keyed by id.
type Catalog struct {
	byID  map[string]Archetype
	order []string
}

// NewCatalog validates the archetypes and builds a catalog preserving
// their order.
func NewCatalog(archetypes []Archetype) (*Catalog, error) {
	if len(archetypes) == 0 {
		return nil, fmt.Errorf("%w: empty catalog", ErrInvalidArchetype)
	}

	c := &Catalog{
		byID:  make(map[string]Archetype, len(archetypes)),
		order: make([]string, 0, len(archetypes)),
	}
	for _, a := range archetypes {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[a.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidArchetype, a.ID)
		}
		c.byID[a.ID] = a
		c.order = append(c.order, a.ID)
	}
	return c, nil
}

// LoadCatalog reads a JSON array of archetypes.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var archetypes []Archetype
	if err := json.NewDecoder(r).Decode(&archetypes); err != nil {
		return nil, fmt.Errorf("decode weapon catalog: %w", err)
	}
	return NewCatalog(archetypes)
}

// DefaultCatalog returns the built-in weapon table.
// It panics if the built-in data fails validation.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultArchetypes())
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the archetype for id, or ErrUnknownWeapon.
func (c *Catalog) Get(id string) (Archetype, error) {
	a, ok := c.byID[id]
	if !ok {
		return Archetype{}, fmt.Errorf("%w: %q", ErrUnknownWeapon, id)
	}
	return a, nil
}

func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// IDs returns weapon ids in table order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// All returns every archetype in table order.
func (c *Catalog) All() []Archetype {
	out := make([]Archetype, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *Catalog) Len() int { return len(c.order) }

// DefaultArchetypes is the stock weapon table, ordered by tier.
func DefaultArchetypes() []Archetype {
	return []Archetype{
		// Tier 1
		{
			ID: "basic", Name: "Basic Laser", Description: "Standard issue laser weapon",
			Color: "#00ff00", Pattern: PatternSingle,
			Damage: 10, FireRate: 500, ProjectileSpeed: 8, AmmoCost: 1, MaxLevel: 5,
		},
		{
			ID: "laser", Name: "Pulse Laser", Description: "Rapid fire laser pulses",
			Color: "#00ffff", Pattern: PatternSingle,
			Damage: 15, FireRate: 400, ProjectileSpeed: 10, AmmoCost: 2, MaxLevel: 8,
		},
		{
			ID: "plasma", Name: "Plasma Blaster", Description: "High damage plasma bolts",
			Color: "#ff00ff", Pattern: PatternSingle,
			Damage: 25, FireRate: 600, ProjectileSpeed: 6, AmmoCost: 3, MaxLevel: 6,
		},

		// Tier 2
		{
			ID: "spread", Name: "Spread Gun", Description: "Fires multiple projectiles in a spread",
			Color: "#ffff00", Pattern: PatternSpread,
			Damage: 8, FireRate: 700, ProjectileSpeed: 7, AmmoCost: 3, MaxLevel: 7,
			SpreadAngle: 45, ProjectileCount: 3,
		},
		{
			ID: "homing", Name: "Homing Missiles", Description: "Seeking missiles that track targets",
			Color: "#ff8800", Pattern: PatternHoming,
			Damage: 20, FireRate: 1000, ProjectileSpeed: 5, AmmoCost: 4, MaxLevel: 5,
			HomingStrength: 0.1,
		},
		{
			ID: "beam", Name: "Beam Rifle", Description: "Continuous beam weapon",
			Color: "#88ff00", Pattern: PatternBeam,
			Damage: 5, FireRate: 100, ProjectileSpeed: 12, AmmoCost: 1, MaxLevel: 10,
			BeamDuration: 300,
		},

		// Tier 3
		{
			ID: "railgun", Name: "Railgun", Description: "High velocity piercing rounds",
			Color: "#0088ff", Pattern: PatternPiercing,
			Damage: 100, FireRate: 1500, ProjectileSpeed: 15, AmmoCost: 10, MaxLevel: 4,
			PierceCount: 3,
		},
		{
			ID: "flamethrower", Name: "Flamethrower", Description: "Continuous stream of fire",
			Color: "#ff0000", Pattern: PatternFlame,
			Damage: 2, FireRate: 50, ProjectileSpeed: 4, AmmoCost: 1, MaxLevel: 8,
			Duration: 1000,
		},
		{
			ID: "shotgun", Name: "Combat Shotgun", Description: "Wide spread close-range weapon",
			Color: "#ff8888", Pattern: PatternShotgun,
			Damage: 12, FireRate: 800, ProjectileSpeed: 9, AmmoCost: 4, MaxLevel: 6,
			ProjectileCount: 7, SpreadAngle: 60,
		},

		// Tier 4
		{
			ID: "lightning", Name: "Lightning Gun", Description: "Electricity that chains between targets",
			Color: "#aaff00", Pattern: PatternChain,
			Damage: 8, FireRate: 150, ProjectileSpeed: 20, AmmoCost: 2, MaxLevel: 5,
			ChainCount: 5, ChainRange: 100,
		},
		{
			ID: "grenade", Name: "Grenade Launcher", Description: "Explosive projectiles with area damage",
			Color: "#884400", Pattern: PatternExplosive,
			Damage: 80, FireRate: 1200, ProjectileSpeed: 5, AmmoCost: 8, MaxLevel: 4,
			ExplosionRadius: 80,
		},
		{
			ID: "freeze", Name: "Cryo Blaster", Description: "Freezes targets in place",
			Color: "#00ccff", Pattern: PatternFreeze,
			Damage: 1, FireRate: 300, ProjectileSpeed: 7, AmmoCost: 2, MaxLevel: 6,
			FreezeDuration: 2000,
		},

		// Tier 5
		{
			ID: "blackhole", Name: "Singularity Generator", Description: "Creates a temporary black hole",
			Color: "#440044", Pattern: PatternBlackhole,
			Damage: 50, FireRate: 3000, ProjectileSpeed: 3, AmmoCost: 25, MaxLevel: 3,
			Duration: 5000, PullStrength: 0.5,
		},
		{
			ID: "laserbeam", Name: "Mega Laser", Description: "Massive laser beam destruction",
			Color: "#ff00ff", Pattern: PatternLaserbeam,
			Damage: 200, FireRate: 2000, ProjectileSpeed: 20, AmmoCost: 30, MaxLevel: 3,
			BeamWidth: 20,
		},
		{
			ID: "nuke", Name: "Tactical Nuke", Description: "Obliterates everything on screen",
			Color: "#ffff00", Pattern: PatternNuke,
			Damage: 999, FireRate: 5000, ProjectileSpeed: 4, AmmoCost: 50, MaxLevel: 2,
			ExplosionRadius: 200,
		},
	}
}
