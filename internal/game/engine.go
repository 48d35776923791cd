package game

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"neon-snake/internal/config"
	"neon-snake/internal/weapon"
)

// State of a run.
type State uint8

const (
	StateMenu State = iota
	StatePlaying
	StatePaused
	StateOver
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateOver:
		return "over"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ErrNotPlaying is returned for input sent while no run is in progress.
var ErrNotPlaying = errors.New("game is not running")

// Ammo granted by weapon food.
const ammoFoodRefill = 10

// EngineConfig wires an Engine.
type EngineConfig struct {
	Game     config.GameConfig
	Ammo     config.AmmoConfig
	Limits   config.ResourceLimits
	EventLog config.EventLogConfig
	Catalog  *weapon.Catalog // nil uses the built-in weapons
}

// TickSummary is reported to the tick observer after every Step.
type TickSummary struct {
	Tick          uint64
	Duration      time.Duration
	State         State
	Fired         bool
	FirePattern   weapon.Pattern
	DryFire       bool
	HitsByPattern map[weapon.Pattern]int
	Detonations   int
	Live          int
	Dropped       int
	Ammo          float64
	Score         int
	Level         int
	Lives         int
}

// WeaponInfo is one catalog entry with the run's progression applied.
type WeaponInfo struct {
	weapon.Archetype
	Unlocked bool `json:"unlocked"`
	Level    int  `json:"level"`
	Equipped bool `json:"equipped"`
}

// Engine runs one snake game: movement, food, lives and the weapon core.
// All state is guarded by mu; Step holds it for the whole tick.
type Engine struct {
	mu      sync.RWMutex
	cfg     config.GameConfig
	catalog *weapon.Catalog
	arsenal *weapon.Arsenal
	snake   *Snake
	food    *FoodField
	boosts  Boosts

	state     State
	score     int
	level     int
	lives     int
	tickNum   uint64
	tickMs    int
	sessionID string

	holdFire bool
	fireOnce bool

	// Per-tick scratch filled by onHit
	destroyed []uint64
	hits      map[weapon.Pattern]int

	rng  *rand.Rand
	seed int64

	running  bool
	stopChan chan struct{}
	doneChan chan struct{}

	snapshots *SnapshotStore
	eventLog  *EventLog
	eventPath string
	onTick    func(TickSummary)
}

// NewEngine creates an engine in the menu state.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Game.GridSize <= 0 {
		cfg.Game = config.DefaultGame()
	}
	if cfg.Limits.MaxProjectiles <= 0 {
		cfg.Limits = config.DefaultLimits()
	}
	if cfg.Ammo.Max <= 0 {
		cfg.Ammo = config.DefaultAmmo()
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = weapon.DefaultCatalog()
	}

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	g := cfg.Game
	arsenal, err := weapon.NewArsenal(catalog, weapon.Config{
		Bounds:         weapon.Bounds{Width: float64(g.Width), Height: float64(g.Height)},
		CellSize:       float64(g.GridSize),
		TickMillis:     float64(g.BaseTickMs),
		MaxProjectiles: cfg.Limits.MaxProjectiles,
		StartAmmo:      cfg.Ammo.Start,
		MaxAmmo:        cfg.Ammo.Max,
		AmmoRegen:      cfg.Ammo.Regen,
		Starter:        g.StarterWeapon,
	}, rng)
	if err != nil {
		return nil, err
	}

	compression, err := ParseCompression(cfg.EventLog.Compression)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       g,
		catalog:   catalog,
		arsenal:   arsenal,
		snake:     NewSnake(g.Cols(), g.Rows()),
		food:      NewFoodField(g.Cols(), g.Rows(), float64(g.GridSize), arsenal.Ticks(float64(g.FoodLifespanMs)), rng),
		rng:       rng,
		seed:      seed,
		snapshots: NewSnapshotStore(),
		eventLog:  NewEventLog(compression),
		eventPath: cfg.EventLog.Path,
	}
	arsenal.SetTargetFinder(e.food)

	e.mu.Lock()
	e.resetLocked()
	e.state = StateMenu
	e.publishLocked()
	e.mu.Unlock()

	return e, nil
}

// resetLocked starts a fresh run without changing state.
func (e *Engine) resetLocked() {
	e.score = 0
	e.level = 1
	e.lives = max(1, e.cfg.StartLives)
	e.tickNum = 0
	e.holdFire, e.fireOnce = false, false
	e.boosts.Reset()
	e.arsenal.Reset()
	e.snake.Reset(e.cfg.Cols(), e.cfg.Rows())
	e.food.Clear()
	e.sessionID = uuid.NewString()
	e.applyIntervalLocked()
	e.food.Fill(max(1, e.cfg.FoodCount), e.level, e.snake.Occupies)
}

// =============================================================================
// LOOP
// =============================================================================

// Start begins the game loop. The interval follows game speed.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stopChan = make(chan struct{})
	e.doneChan = make(chan struct{})
	interval := e.tickMs
	stop, done := e.stopChan, e.doneChan
	e.mu.Unlock()

	go e.loop(interval, stop, done)

	log.Printf("🎮 Game engine started (tick %dms, seed %d)", interval, e.seed)
}

func (e *Engine) loop(interval int, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Duration(interval) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.Step()
			e.mu.RLock()
			next := e.tickMs
			e.mu.RUnlock()
			if next != interval {
				interval = next
				ticker.Reset(time.Duration(interval) * time.Millisecond)
			}
		case <-stop:
			return
		}
	}
}

// Stop stops the game loop and waits for it to exit.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	close(e.stopChan)
	done := e.doneChan
	e.mu.Unlock()

	<-done
	log.Println("🛑 Game engine stopped")
}

// SetTickObserver registers fn to be called after every Step.
func (e *Engine) SetTickObserver(fn func(TickSummary)) {
	e.mu.Lock()
	e.onTick = fn
	e.mu.Unlock()
}

// Step advances the game by exactly one tick. Outside the playing state
// it does nothing.
func (e *Engine) Step() TickSummary {
	start := time.Now()

	e.mu.Lock()
	sum := e.stepLocked()
	observer := e.onTick
	e.mu.Unlock()

	sum.Duration = time.Since(start)
	if observer != nil {
		observer(sum)
	}
	return sum
}

func (e *Engine) stepLocked() TickSummary {
	if e.state != StatePlaying {
		return e.summaryLocked()
	}
	e.tickNum++
	e.destroyed = e.destroyed[:0]
	e.hits = nil

	// Movement
	head := e.snake.Advance()
	switch {
	case e.snake.OutOfBounds(e.cfg.Cols(), e.cfg.Rows()):
		e.dieLocked("wall")
	case e.snake.HitSelf():
		e.dieLocked("self")
	default:
		if f, ok := e.food.At(head); ok && f.HP > 0 {
			e.eatLocked(f)
		}
	}
	if e.state != StatePlaying {
		e.publishLocked()
		return e.summaryLocked()
	}

	// Weapons
	rep := e.arsenal.Tick(weapon.TickInput{
		Fire:    e.holdFire || e.fireOnce,
		Origin:  e.snake.Head(),
		Facing:  e.snake.Direction(),
		Targets: e.food,
		Hits:    weapon.HitHandlerFunc(e.onHit),
	})
	// A one-shot request waits out the cooldown.
	if len(rep.Fired) > 0 || rep.FireErr != nil {
		e.fireOnce = false
	}
	e.reportWeaponsLocked(rep)

	for _, id := range e.destroyed {
		e.food.Remove(id)
	}

	// Food lifespan
	for _, f := range e.food.Tick() {
		e.eventLog.EmitSimple(EventTypeFoodExpired, e.tickNum, e.sessionID,
			FoodPayload{FoodID: f.ID, Kind: f.Kind.String(), X: f.Cell.X, Y: f.Cell.Y})
	}
	e.food.Fill(max(1, e.cfg.FoodCount), e.level, e.snake.Occupies)

	if e.score >= e.level*100 {
		e.levelUpLocked()
	}
	e.applyIntervalLocked()

	sum := e.summaryLocked()
	if len(rep.Fired) > 0 {
		sum.Fired = true
		sum.FirePattern = e.arsenal.Equipped().Pattern
	}
	sum.DryFire = rep.FireErr != nil
	sum.HitsByPattern = e.hits
	sum.Detonations = len(rep.Detonations)

	e.publishLocked()
	return sum
}

func (e *Engine) reportWeaponsLocked(rep weapon.TickReport) {
	if len(rep.Fired) > 0 {
		w := e.arsenal.Equipped()
		e.eventLog.EmitSimple(EventTypeFire, e.tickNum, e.sessionID, FirePayload{
			Weapon:      w.ID,
			Pattern:     w.Pattern.String(),
			Projectiles: len(rep.Fired),
			Ammo:        e.arsenal.Ammo().Current(),
		})
	}
	for _, d := range rep.Detonations {
		e.eventLog.EmitSimple(EventTypeDetonation, e.tickNum, e.sessionID, DetonationPayload{
			Weapon: d.Weapon,
			X:      d.Pos.X,
			Y:      d.Pos.Y,
			Radius: d.Radius,
			Damage: d.Damage,
		})
	}
}

func (e *Engine) summaryLocked() TickSummary {
	return TickSummary{
		Tick:    e.tickNum,
		State:   e.state,
		Live:    len(e.arsenal.Projectiles()),
		Dropped: e.arsenal.Dropped(),
		Ammo:    e.arsenal.Ammo().Current(),
		Score:   e.score,
		Level:   e.level,
		Lives:   e.lives,
	}
}

// onHit applies one projectile or blast hit to the food it struck. It is
// called by the weapon core from inside Step, with the engine lock held.
func (e *Engine) onHit(h weapon.Hit) {
	f, destroyed, err := e.food.Damage(h.Target.ID, h.Damage)
	if err != nil {
		return
	}
	if h.FreezeTicks > 0 {
		e.food.Freeze(f.ID, h.FreezeTicks)
	}
	if e.hits == nil {
		e.hits = make(map[weapon.Pattern]int)
	}
	e.hits[h.Pattern]++

	e.eventLog.EmitSimple(EventTypeHit, e.tickNum, e.sessionID, HitPayload{
		Weapon:  h.Weapon,
		Pattern: h.Pattern.String(),
		FoodID:  f.ID,
		Damage:  h.Damage,
		FoodHP:  f.HP,
		Blast:   h.Blast,
	})

	if destroyed {
		points := f.Kind.Spec().Points * e.level
		e.score += points
		e.destroyed = append(e.destroyed, f.ID)
		e.eventLog.EmitSimple(EventTypeFoodDestroyed, e.tickNum, e.sessionID,
			FoodPayload{FoodID: f.ID, Kind: f.Kind.String(), X: f.Cell.X, Y: f.Cell.Y, Points: points})
	}
}

func (e *Engine) eatLocked(f *Food) {
	spec := f.Kind.Spec()
	points := spec.Points * e.level
	e.score += points
	e.snake.Grow(1)
	e.food.Remove(f.ID)

	e.eventLog.EmitSimple(EventTypeFoodEaten, e.tickNum, e.sessionID,
		FoodPayload{FoodID: f.ID, Kind: spec.Name, X: f.Cell.X, Y: f.Cell.Y, Points: points})

	switch spec.Effect {
	case EffectSpeed:
		e.boosts.Activate(BoostSpeed, e.tickNum, e.arsenal.Ticks(SpeedBoostMillis))
		e.applyIntervalLocked()
	case EffectAmmo:
		e.arsenal.Ammo().Refill(ammoFoodRefill)
	case EffectShield:
		e.boosts.Activate(BoostShield, e.tickNum, e.arsenal.Ticks(ShieldBoostMillis))
	case EffectLevelUp:
		e.levelUpLocked()
	}
}

func (e *Engine) dieLocked(cause string) {
	if e.boosts.Consume(BoostShield, e.tickNum) {
		e.eventLog.EmitSimple(EventTypeDeath, e.tickNum, e.sessionID,
			DeathPayload{Cause: cause, Lives: e.lives, Shielded: true})
		e.snake.Reset(e.cfg.Cols(), e.cfg.Rows())
		return
	}

	e.lives--
	e.eventLog.EmitSimple(EventTypeDeath, e.tickNum, e.sessionID, DeathPayload{Cause: cause, Lives: e.lives})

	if e.lives > 0 {
		e.snake.Reset(e.cfg.Cols(), e.cfg.Rows())
		return
	}

	e.state = StateOver
	e.holdFire = false
	unlocked := len(e.arsenal.Unlocked())
	e.eventLog.EmitSimple(EventTypeGameOver, e.tickNum, e.sessionID,
		GameOverPayload{Score: e.score, Level: e.level, Weapons: unlocked})
	log.Printf("💀 Game over: score %d, level %d, %d/%d weapons", e.score, e.level, unlocked, e.catalog.Len())
}

func (e *Engine) levelUpLocked() {
	e.level++
	e.lives++
	e.applyIntervalLocked()

	if e.level%5 == 0 {
		if id, ok := e.arsenal.UnlockRandom(); ok {
			e.eventLog.EmitSimple(EventTypeWeaponUnlock, e.tickNum, e.sessionID, WeaponPayload{Weapon: id, Level: 1})
			log.Printf("🔓 Level %d unlocked %s", e.level, id)
		}
	}
	e.eventLog.EmitSimple(EventTypeLevelUp, e.tickNum, e.sessionID,
		LevelUpPayload{Level: e.level, Lives: e.lives, TickMs: e.tickMs})
}

// applyIntervalLocked recomputes the tick interval from level and boosts
// and propagates it to every ms-based duration.
func (e *Engine) applyIntervalLocked() {
	ms := e.cfg.BaseTickMs
	if e.level > 1 {
		ms = e.cfg.TickMsForLevel(e.level)
	}
	if e.boosts.Active(BoostSpeed, e.tickNum) {
		ms = max(SpeedBoostMinMillis, int(math.Round(float64(ms)*SpeedBoostFactor)))
	}
	if ms == e.tickMs {
		return
	}
	e.tickMs = ms
	e.arsenal.SetTickMillis(float64(ms))
	e.food.SetLifeTicks(e.arsenal.Ticks(float64(e.cfg.FoodLifespanMs)))
}

func (e *Engine) publishLocked() {
	w := e.arsenal.Equipped()
	ammo := e.arsenal.Ammo()
	e.snapshots.Publish(&GameSnapshot{
		Tick:      e.tickNum,
		SessionID: e.sessionID,
		State:     e.state,
		Score:     e.score,
		Level:     e.level,
		Lives:     e.lives,
		TickMs:    e.tickMs,
		Cols:      e.cfg.Cols(),
		Rows:      e.cfg.Rows(),
		CellSize:  e.cfg.GridSize,
		Ammo:      ammo.Current(),
		MaxAmmo:   ammo.Max(),
		Weapon: WeaponSnapshot{
			ID:       w.ID,
			Name:     w.Name,
			Color:    w.Color,
			Pattern:  w.Pattern,
			Level:    w.Level,
			MaxLevel: w.MaxLevel,
			AmmoCost: w.AmmoCost,
			Cooldown: e.arsenal.Cooldown(),
		},
		Unlocked:    e.arsenal.Unlocked(),
		Stats:       e.arsenal.Stats(),
		Snake:       e.snake.Body(),
		Direction:   e.snake.Direction(),
		Food:        e.food.Items(),
		Projectiles: e.arsenal.ProjectileSnapshots(),
		Boosts:      e.boosts.Snapshot(e.tickNum),
	})
}

// =============================================================================
// CONTROL
// =============================================================================

// Begin starts a new run, or resumes a paused one.
func (e *Engine) Begin() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StatePaused {
		e.state = StatePlaying
	} else {
		e.resetLocked()
		e.state = StatePlaying
		e.eventLog.EmitSimple(EventTypeGameStart, 0, e.sessionID,
			GameStartPayload{Seed: e.seed, Weapon: e.arsenal.Equipped().ID})
		log.Printf("🐍 New run %s", e.sessionID)
	}
	e.publishLocked()
	return e.state
}

// TogglePause switches between playing and paused.
func (e *Engine) TogglePause() (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StatePlaying:
		e.state = StatePaused
		e.holdFire = false
	case StatePaused:
		e.state = StatePlaying
	default:
		return e.state, ErrNotPlaying
	}
	e.publishLocked()
	return e.state, nil
}

// Reset abandons the current run and returns to the menu.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resetLocked()
	e.state = StateMenu
	e.publishLocked()
}

// Turn queues a direction change for the next tick.
func (e *Engine) Turn(d weapon.Direction) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePlaying {
		return false, ErrNotPlaying
	}
	return e.snake.Turn(d), nil
}

// SetFire holds or releases the trigger. While held the equipped weapon
// fires whenever its cooldown allows.
func (e *Engine) SetFire(hold bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if hold && e.state != StatePlaying {
		return ErrNotPlaying
	}
	e.holdFire = hold
	return nil
}

// FireOnce requests a single shot. It fires on the first tick the
// cooldown allows.
func (e *Engine) FireOnce() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePlaying {
		return ErrNotPlaying
	}
	e.fireOnce = true
	return nil
}

// Equip switches to an unlocked weapon.
func (e *Engine) Equip(id string) (weapon.Equipped, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, err := e.arsenal.Equip(id)
	if err != nil {
		return w, err
	}
	e.eventLog.EmitSimple(EventTypeWeaponEquip, e.tickNum, e.sessionID, WeaponPayload{Weapon: w.ID, Level: w.Level})
	e.publishLocked()
	return w, nil
}

// Unlock makes id available for the current run.
func (e *Engine) Unlock(id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	added, err := e.arsenal.Unlock(id)
	if err != nil || !added {
		return added, err
	}
	e.eventLog.EmitSimple(EventTypeWeaponUnlock, e.tickNum, e.sessionID, WeaponPayload{Weapon: id, Level: 1})
	e.publishLocked()
	return true, nil
}

// Upgrade raises the level of id. At the ceiling it returns the current
// level with weapon.ErrLevelCeiling.
func (e *Engine) Upgrade(id string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	lvl, err := e.arsenal.Upgrade(id)
	if err != nil {
		return lvl, err
	}
	e.eventLog.EmitSimple(EventTypeWeaponUpgrade, e.tickNum, e.sessionID, WeaponPayload{Weapon: id, Level: lvl})
	e.publishLocked()
	return lvl, nil
}

// =============================================================================
// QUERIES
// =============================================================================

// GetSnapshot returns the latest published state. Safe without the lock.
func (e *Engine) GetSnapshot() *GameSnapshot {
	return e.snapshots.Latest()
}

func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Weapons lists the whole catalog with this run's unlocks and levels.
func (e *Engine) Weapons() []WeaponInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()

	levels := make(map[string]int)
	for _, s := range e.arsenal.Unlocked() {
		levels[s.ID] = s.Level
	}
	equipped := e.arsenal.Equipped().ID

	all := e.catalog.All()
	out := make([]WeaponInfo, 0, len(all))
	for _, a := range all {
		lvl, ok := levels[a.ID]
		out = append(out, WeaponInfo{
			Archetype: a,
			Unlocked:  ok,
			Level:     max(1, lvl),
			Equipped:  a.ID == equipped,
		})
	}
	return out
}

func (e *Engine) Seed() int64 { return e.seed }

// =============================================================================
// EVENT LOG
// =============================================================================

// StartEventLog opens the configured event file and starts the writer.
func (e *Engine) StartEventLog() error {
	if err := e.eventLog.Start(e.eventPath); err != nil {
		return fmt.Errorf("event log %s: %w", e.eventPath, err)
	}
	return nil
}

// StopEventLog flushes and closes the event log.
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

func (e *Engine) GetEventLogStats() EventLogStats {
	return e.eventLog.GetStats()
}
