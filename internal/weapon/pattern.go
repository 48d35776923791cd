package weapon

import "fmt"

// Pattern selects the projectile behavior a weapon produces.
// A projectile's pattern never changes after it is created.
type Pattern uint8

const (
	PatternSingle Pattern = iota
	PatternSpread
	PatternHoming
	PatternBeam
	PatternShotgun
	PatternChain
	PatternExplosive
	PatternFlame
	PatternPiercing
	PatternBlackhole
	PatternLaserbeam
	PatternNuke
	PatternFreeze

	patternCount
)

var patternNames = [patternCount]string{
	PatternSingle:    "single",
	PatternSpread:    "spread",
	PatternHoming:    "homing",
	PatternBeam:      "beam",
	PatternShotgun:   "shotgun",
	PatternChain:     "chain",
	PatternExplosive: "explosive",
	PatternFlame:     "flame",
	PatternPiercing:  "piercing",
	PatternBlackhole: "blackhole",
	PatternLaserbeam: "laserbeam",
	PatternNuke:      "nuke",
	PatternFreeze:    "freeze",
}

// Patterns returns every known pattern in declaration order.
func Patterns() []Pattern {
	out := make([]Pattern, 0, patternCount)
	for p := Pattern(0); p < patternCount; p++ {
		out = append(out, p)
	}
	return out
}

func (p Pattern) Valid() bool { return p < patternCount }

func (p Pattern) String() string {
	if p.Valid() {
		return patternNames[p]
	}
	return fmt.Sprintf("Pattern(%d)", p)
}

// IsBeam reports whether the pattern is a stationary ray.
func (p Pattern) IsBeam() bool { return p == PatternBeam || p == PatternLaserbeam }

// Detonates reports whether the pattern deals area damage when it expires.
func (p Pattern) Detonates() bool { return p == PatternExplosive || p == PatternNuke }

func ParsePattern(s string) (Pattern, error) {
	for i, name := range patternNames {
		if name == s {
			return Pattern(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown pattern %q", ErrInvalidArchetype, s)
}

func (p Pattern) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: pattern %d", ErrInvalidArchetype, p)
	}
	return []byte(p.String()), nil
}

func (p *Pattern) UnmarshalText(b []byte) error {
	parsed, err := ParsePattern(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
