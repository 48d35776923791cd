package game

import (
	"encoding/json"
	"time"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeGameStart
	EventTypeFire
	EventTypeHit
	EventTypeDetonation
	EventTypeFoodEaten
	EventTypeFoodDestroyed
	EventTypeFoodExpired
	EventTypeDeath
	EventTypeLevelUp
	EventTypeWeaponEquip
	EventTypeWeaponUnlock
	EventTypeWeaponUpgrade
	EventTypeGameOver
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is the core event structure for the event log
type Event struct {
	Version   uint8           `json:"version"`
	Type      EventType       `json:"type"`
	Timestamp int64           `json:"timestamp"` // Unix nano
	Sequence  uint64          `json:"sequence"`
	TickNum   uint64          `json:"tickNum"`
	SessionID string          `json:"sessionId"` // run the event belongs to, also the rate limit key
	Payload   json.RawMessage `json:"payload,omitempty"`
}

var eventTypeNames = [...]string{
	EventTypeUnknown:       "unknown",
	EventTypeGameStart:     "game_start",
	EventTypeFire:          "fire",
	EventTypeHit:           "hit",
	EventTypeDetonation:    "detonation",
	EventTypeFoodEaten:     "food_eaten",
	EventTypeFoodDestroyed: "food_destroyed",
	EventTypeFoodExpired:   "food_expired",
	EventTypeDeath:         "death",
	EventTypeLevelUp:       "level_up",
	EventTypeWeaponEquip:   "weapon_equip",
	EventTypeWeaponUnlock:  "weapon_unlock",
	EventTypeWeaponUpgrade: "weapon_upgrade",
	EventTypeGameOver:      "game_over",
}

// String returns human-readable event type
func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

func (t EventType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Typed payloads for different event types

type GameStartPayload struct {
	Seed   int64  `json:"seed"`
	Weapon string `json:"weapon"`
}

type FirePayload struct {
	Weapon      string  `json:"weapon"`
	Pattern     string  `json:"pattern"`
	Projectiles int     `json:"projectiles"`
	Ammo        float64 `json:"ammo"`
}

type HitPayload struct {
	Weapon  string  `json:"weapon"`
	Pattern string  `json:"pattern"`
	FoodID  uint64  `json:"foodId"`
	Damage  float64 `json:"damage"`
	FoodHP  float64 `json:"foodHp"`
	Blast   bool    `json:"blast,omitempty"`
}

type DetonationPayload struct {
	Weapon string  `json:"weapon"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Damage float64 `json:"damage"`
}

type FoodPayload struct {
	FoodID uint64 `json:"foodId"`
	Kind   string `json:"kind"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Points int    `json:"points,omitempty"`
}

type DeathPayload struct {
	Cause    string `json:"cause"` // wall or self
	Lives    int    `json:"lives"`
	Shielded bool   `json:"shielded,omitempty"`
}

type LevelUpPayload struct {
	Level  int `json:"level"`
	Lives  int `json:"lives"`
	TickMs int `json:"tickMs"`
}

type WeaponPayload struct {
	Weapon string `json:"weapon"`
	Level  int    `json:"level,omitempty"`
}

type GameOverPayload struct {
	Score   int `json:"score"`
	Level   int `json:"level"`
	Weapons int `json:"weapons"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload any) json.RawMessage {
	if payload == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum uint64, sessionID string, payload any) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		SessionID: sessionID,
		Payload:   EncodePayload(payload),
	}
}
