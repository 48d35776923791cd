package weapon

import "errors"

var (
	// ErrInsufficientAmmo is returned when a shot costs more than the pool holds.
	ErrInsufficientAmmo = errors.New("insufficient ammo")
	// ErrNotUnlocked is returned when equipping a weapon that is still locked.
	ErrNotUnlocked = errors.New("weapon not unlocked")
	// ErrUnknownWeapon is returned for ids missing from the catalog.
	ErrUnknownWeapon = errors.New("unknown weapon")
	// ErrLevelCeiling is returned when upgrading a weapon already at max level.
	// Callers treat it as a no-op.
	ErrLevelCeiling = errors.New("weapon level ceiling reached")
	// ErrInvalidArchetype is returned by catalog validation.
	ErrInvalidArchetype = errors.New("invalid weapon archetype")
)
