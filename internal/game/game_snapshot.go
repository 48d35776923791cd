package game

import (
	"sync/atomic"
	"time"

	"neon-snake/internal/weapon"
)

// WeaponSnapshot is the equipped weapon as shown to clients.
type WeaponSnapshot struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Color    string         `json:"color"`
	Pattern  weapon.Pattern `json:"pattern"`
	Level    int            `json:"level"`
	MaxLevel int            `json:"maxLevel"`
	AmmoCost float64        `json:"ammoCost"`
	Cooldown int            `json:"cooldown"` // ticks until the next shot
}

// GameSnapshot is a complete immutable game state for rendering.
// Slices are owned by the snapshot and never written after Publish.
type GameSnapshot struct {
	Sequence  uint64    `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	Tick      uint64    `json:"tick"`
	SessionID string    `json:"sessionId"`

	State  State `json:"state"`
	Score  int   `json:"score"`
	Level  int   `json:"level"`
	Lives  int   `json:"lives"`
	TickMs int   `json:"tickMs"`

	Cols     int `json:"cols"`
	Rows     int `json:"rows"`
	CellSize int `json:"cellSize"`

	Ammo        float64                     `json:"ammo"`
	MaxAmmo     float64                     `json:"maxAmmo"`
	Weapon      WeaponSnapshot              `json:"weapon"`
	Unlocked    []weapon.Slot               `json:"unlocked"`
	Stats       weapon.Stats                `json:"stats"`
	Snake       []weapon.Cell               `json:"snake"`
	Direction   weapon.Direction            `json:"direction"`
	Food        []Food                      `json:"food"`
	Projectiles []weapon.ProjectileSnapshot `json:"projectiles"`
	Boosts      []BoostSnapshot             `json:"boosts"`
}

// SnapshotStore publishes the latest snapshot for lock-free readers.
// The producer builds a fresh snapshot each tick; readers may keep the
// pointer they got for as long as they like.
type SnapshotStore struct {
	latest   atomic.Pointer[GameSnapshot]
	sequence atomic.Uint64
}

func NewSnapshotStore() *SnapshotStore {
	s := &SnapshotStore{}
	s.latest.Store(&GameSnapshot{})
	return s
}

// Publish stamps snap with the next sequence number and makes it current.
func (s *SnapshotStore) Publish(snap *GameSnapshot) {
	snap.Sequence = s.sequence.Add(1)
	snap.Timestamp = time.Now()
	s.latest.Store(snap)
}

// Latest returns the most recently published snapshot, never nil.
func (s *SnapshotStore) Latest() *GameSnapshot {
	return s.latest.Load()
}
