package game

// BoostKind enum
type BoostKind uint8

const (
	BoostSpeed BoostKind = iota
	BoostShield
	boostKindCount
)

// Boost durations in ms, converted to ticks at activation.
const (
	SpeedBoostMillis  = 5000
	ShieldBoostMillis = 3000
)

// SpeedBoostFactor scales the tick interval while the speed boost is on.
const (
	SpeedBoostFactor    = 0.5
	SpeedBoostMinMillis = 30 // floor of a boosted interval
)

func (k BoostKind) String() string {
	switch k {
	case BoostSpeed:
		return "speed"
	case BoostShield:
		return "shield"
	default:
		return "unknown"
	}
}

func (k BoostKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Boosts tracks timed effects as expiry ticks.
type Boosts struct {
	until [boostKindCount]uint64
}

// Activate turns k on for ticks from now. Re-activating extends to the
// later expiry.
func (b *Boosts) Activate(k BoostKind, now uint64, ticks int) {
	if k >= boostKindCount || ticks <= 0 {
		return
	}
	b.until[k] = max(b.until[k], now+uint64(ticks))
}

func (b *Boosts) Active(k BoostKind, now uint64) bool {
	return k < boostKindCount && now < b.until[k]
}

// Remaining is the number of ticks k stays on.
func (b *Boosts) Remaining(k BoostKind, now uint64) int {
	if !b.Active(k, now) {
		return 0
	}
	return int(b.until[k] - now)
}

// Consume switches k off early and reports whether it was on.
func (b *Boosts) Consume(k BoostKind, now uint64) bool {
	if !b.Active(k, now) {
		return false
	}
	b.until[k] = 0
	return true
}

func (b *Boosts) Reset() { b.until = [boostKindCount]uint64{} }

// BoostSnapshot is an active boost for rendering.
type BoostSnapshot struct {
	Kind      BoostKind `json:"kind"`
	Remaining int       `json:"remaining"`
}

func (b *Boosts) Snapshot(now uint64) []BoostSnapshot {
	var out []BoostSnapshot
	for k := range boostKindCount {
		if r := b.Remaining(k, now); r > 0 {
			out = append(out, BoostSnapshot{Kind: k, Remaining: r})
		}
	}
	return out
}
