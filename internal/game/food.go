package game

import (
	"fmt"
	"math"
	"math/rand"

	"neon-snake/internal/game/spatial"
	"neon-snake/internal/weapon"
)

// FoodKind enum
type FoodKind uint8

const (
	FoodBasic FoodKind = iota
	FoodPowerup
	FoodWeapon
	FoodSpecial
	FoodMega
	foodKindCount
)

// Effect is applied when the snake eats a food item.
type Effect uint8

const (
	EffectNone Effect = iota
	EffectSpeed
	EffectAmmo
	EffectShield
	EffectLevelUp
)

// FoodSpec is the static table entry for one food kind.
type FoodSpec struct {
	Name   string
	Color  string
	Points int
	Weight float64 // base spawn weight
	Effect Effect
}

var foodSpecs = [foodKindCount]FoodSpec{
	FoodBasic:   {Name: "basic", Color: "#0ff", Points: 10, Weight: 70, Effect: EffectNone},
	FoodPowerup: {Name: "powerup", Color: "#ff0", Points: 25, Weight: 15, Effect: EffectSpeed},
	FoodWeapon:  {Name: "weapon", Color: "#f0f", Points: 15, Weight: 10, Effect: EffectAmmo},
	FoodSpecial: {Name: "special", Color: "#f00", Points: 50, Weight: 5, Effect: EffectShield},
	FoodMega:    {Name: "mega", Color: "#0f0", Points: 100, Weight: 1, Effect: EffectLevelUp},
}

func (k FoodKind) Spec() FoodSpec {
	if k < foodKindCount {
		return foodSpecs[k]
	}
	return FoodSpec{Name: "unknown"}
}

func (k FoodKind) String() string { return k.Spec().Name }

func (k FoodKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// FoodWeights returns spawn weights adjusted for level. Higher levels shift
// weight away from basic food toward the rarer kinds.
func FoodWeights(level int) [foodKindCount]float64 {
	var w [foodKindCount]float64
	for k := range foodKindCount {
		w[k] = foodSpecs[k].Weight
	}
	lv := float64(level)
	if level > 5 {
		w[FoodBasic] = math.Max(40, 70-lv)
		w[FoodPowerup] = math.Min(25, 15+lv)
	}
	if level > 10 {
		w[FoodWeapon] = math.Min(20, 10+lv*0.5)
	}
	if level > 20 {
		w[FoodSpecial] = math.Min(15, 5+lv*0.3)
	}
	if level > 0 && level%10 == 0 {
		w[FoodMega] = 10
	}
	return w
}

// Food is one item on the board. HP starts at the kind's points and is
// worn down by projectile hits.
type Food struct {
	ID      uint64      `json:"id"`
	Kind    FoodKind    `json:"kind"`
	Cell    weapon.Cell `json:"cell"`
	HP      float64     `json:"hp"`
	MaxHP   float64     `json:"maxHp"`
	Life    int         `json:"life"` // ticks until respawn
	MaxLife int         `json:"maxLife"`
	Frozen  int         `json:"frozen,omitempty"` // ticks the lifespan is paused
}

// FoodField owns the food on the board and answers the weapon core's
// target queries.
type FoodField struct {
	cols, rows int
	cellSize   float64
	lifeTicks  int
	rng        *rand.Rand

	items   []*Food
	grid    *spatial.Grid
	nextID  uint64
	scratch []uint32
}

// spawnAttempts is how many random cells are tried before scanning.
const spawnAttempts = 100

func NewFoodField(cols, rows int, cellSize float64, lifeTicks int, rng *rand.Rand) *FoodField {
	return &FoodField{
		cols:      cols,
		rows:      rows,
		cellSize:  cellSize,
		lifeTicks: max(1, lifeTicks),
		rng:       rng,
		grid:      spatial.NewGrid(float64(cols)*cellSize, float64(rows)*cellSize, cellSize*3, 16),
		scratch:   make([]uint32, 0, 16),
	}
}

// SetLifeTicks changes the lifespan given to newly spawned food.
func (f *FoodField) SetLifeTicks(ticks int) { f.lifeTicks = max(1, ticks) }

// Radius is the body radius of a food item in pixels.
func (f *FoodField) Radius() float64 { return f.cellSize / 2 }

func (f *FoodField) Len() int { return len(f.items) }

// Items returns copies of the food on the board.
func (f *FoodField) Items() []Food {
	out := make([]Food, len(f.items))
	for i, it := range f.items {
		out[i] = *it
	}
	return out
}

func (f *FoodField) Get(id uint64) (*Food, bool) {
	for _, it := range f.items {
		if it.ID == id {
			return it, true
		}
	}
	return nil, false
}

// At returns the food on cell c, if any.
func (f *FoodField) At(c weapon.Cell) (*Food, bool) {
	for _, it := range f.items {
		if it.Cell == c {
			return it, true
		}
	}
	return nil, false
}

func (f *FoodField) Clear() {
	f.items = f.items[:0]
	f.reindex()
}

// Fill spawns food until count items are on the board. blocked reports
// cells that must stay free (the snake).
func (f *FoodField) Fill(count, level int, blocked func(weapon.Cell) bool) []*Food {
	var spawned []*Food
	for len(f.items) < count {
		spawned = append(spawned, f.Spawn(level, blocked))
	}
	return spawned
}

// Spawn adds one food item of a weighted random kind on a free cell.
func (f *FoodField) Spawn(level int, blocked func(weapon.Cell) bool) *Food {
	return f.place(f.pickKind(level), f.freeCell(blocked))
}

func (f *FoodField) place(kind FoodKind, c weapon.Cell) *Food {
	spec := kind.Spec()
	f.nextID++
	it := &Food{
		ID:      f.nextID,
		Kind:    kind,
		Cell:    c,
		HP:      float64(spec.Points),
		MaxHP:   float64(spec.Points),
		Life:    f.lifeTicks,
		MaxLife: f.lifeTicks,
	}
	f.items = append(f.items, it)
	f.reindex()
	return it
}

func (f *FoodField) pickKind(level int) FoodKind {
	weights := FoodWeights(level)
	var total float64
	for _, w := range weights {
		total += w
	}
	r := f.rng.Float64() * total
	for k, w := range weights {
		if r < w {
			return FoodKind(k)
		}
		r -= w
	}
	return FoodBasic
}

func (f *FoodField) freeCell(blocked func(weapon.Cell) bool) weapon.Cell {
	taken := func(c weapon.Cell) bool {
		if blocked != nil && blocked(c) {
			return true
		}
		_, ok := f.At(c)
		return ok
	}

	for range spawnAttempts {
		c := weapon.Cell{X: f.rng.Intn(f.cols), Y: f.rng.Intn(f.rows)}
		if !taken(c) {
			return c
		}
	}
	for y := range f.rows {
		for x := range f.cols {
			if c := (weapon.Cell{X: x, Y: y}); !taken(c) {
				return c
			}
		}
	}
	return weapon.Cell{}
}

// Remove takes id off the board.
func (f *FoodField) Remove(id uint64) bool {
	for i, it := range f.items {
		if it.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			f.reindex()
			return true
		}
	}
	return false
}

// Damage subtracts dmg from the food's HP and reports whether it was
// destroyed. Destroyed food stays on the board until Remove.
func (f *FoodField) Damage(id uint64, dmg float64) (*Food, bool, error) {
	it, ok := f.Get(id)
	if !ok {
		return nil, false, fmt.Errorf("food %d not on board", id)
	}
	if it.HP <= 0 {
		return it, false, nil
	}
	it.HP = math.Max(0, it.HP-dmg)
	return it, it.HP == 0, nil
}

// Freeze pauses the lifespan of id. A longer freeze replaces a shorter one.
func (f *FoodField) Freeze(id uint64, ticks int) bool {
	it, ok := f.Get(id)
	if !ok || ticks <= 0 {
		return false
	}
	it.Frozen = max(it.Frozen, ticks)
	return true
}

// Tick ages every item and removes those whose lifespan ran out. Frozen
// items do not age. The caller respawns replacements.
func (f *FoodField) Tick() (expired []Food) {
	n := 0
	for _, it := range f.items {
		if it.Frozen > 0 {
			it.Frozen--
		} else {
			it.Life--
		}
		if it.Life <= 0 {
			expired = append(expired, *it)
			continue
		}
		f.items[n] = it
		n++
	}
	if n != len(f.items) {
		clear(f.items[n:])
		f.items = f.items[:n]
		f.reindex()
	}
	return expired
}

func (f *FoodField) reindex() {
	f.grid.Clear()
	for i, it := range f.items {
		c := it.Cell.Center(f.cellSize)
		f.grid.Insert(uint32(i), c.X, c.Y)
	}
}

func (f *FoodField) target(it *Food) weapon.Target {
	return weapon.Target{ID: it.ID, Pos: it.Cell.Center(f.cellSize), Radius: f.Radius()}
}

// TargetsInRange returns live food whose body overlaps the circle. The
// result is a fresh slice.
func (f *FoodField) TargetsInRange(center weapon.Vec, radius float64) []weapon.Target {
	reach := radius + f.Radius()
	f.scratch = f.grid.AppendRadius(f.scratch[:0], center.X, center.Y, reach)

	var out []weapon.Target
	for _, slot := range f.scratch {
		it := f.items[slot]
		if it.HP <= 0 {
			continue
		}
		t := f.target(it)
		if t.Pos.Dist(center) < reach {
			out = append(out, t)
		}
	}
	return out
}

// FindTarget returns the centre of the food nearest origin.
func (f *FoodField) FindTarget(origin weapon.Vec) (weapon.Vec, bool) {
	var (
		best  weapon.Vec
		bestD = math.Inf(1)
	)
	for _, it := range f.items {
		if it.HP <= 0 {
			continue
		}
		p := it.Cell.Center(f.cellSize)
		if d := p.Dist(origin); d < bestD {
			best, bestD = p, d
		}
	}
	return best, !math.IsInf(bestD, 1)
}

var (
	_ weapon.TargetIndex  = (*FoodField)(nil)
	_ weapon.TargetFinder = (*FoodField)(nil)
)
