package api

import (
	"errors"
	"fmt"
	"net/http"

	"neon-snake/internal/game"
	"neon-snake/internal/weapon"
)

var errBadCommand = errors.New("bad command")

// Command is one player input. HTTP routes and WebSocket messages both
// decode into it.
type Command struct {
	Type      string            `json:"type"`
	Direction *weapon.Direction `json:"direction,omitempty"` // turn
	Mode      string            `json:"mode,omitempty"`      // fire: once | hold | release
	ID        string            `json:"id,omitempty"`        // equip, unlock, upgrade
}

// Fire modes
const (
	FireOnce    = "once"
	FireHold    = "hold"
	FireRelease = "release"
)

type turnResult struct {
	Accepted bool `json:"accepted"`
}

type stateResult struct {
	State game.State `json:"state"`
}

type fireResult struct {
	Mode string `json:"mode"`
}

type unlockResult struct {
	ID    string `json:"id"`
	Added bool   `json:"added"`
}

type upgradeResult struct {
	ID    string `json:"id"`
	Level int    `json:"level"`
	Maxed bool   `json:"maxed"`
}

// execute applies cmd to the engine and returns the response body.
func execute(e EngineInterface, cmd Command) (any, error) {
	switch cmd.Type {
	case "start":
		return stateResult{State: e.Begin()}, nil

	case "pause":
		s, err := e.TogglePause()
		if err != nil {
			return nil, err
		}
		return stateResult{State: s}, nil

	case "reset":
		e.Reset()
		return stateResult{State: game.StateMenu}, nil

	case "turn":
		if cmd.Direction == nil {
			return nil, fmt.Errorf("%w: turn needs a direction", errBadCommand)
		}
		ok, err := e.Turn(*cmd.Direction)
		if err != nil {
			return nil, err
		}
		return turnResult{Accepted: ok}, nil

	case "fire":
		var err error
		switch cmd.Mode {
		case "", FireOnce:
			cmd.Mode = FireOnce
			err = e.FireOnce()
		case FireHold:
			err = e.SetFire(true)
		case FireRelease:
			err = e.SetFire(false)
		default:
			return nil, fmt.Errorf("%w: fire mode %q", errBadCommand, cmd.Mode)
		}
		if err != nil {
			return nil, err
		}
		return fireResult{Mode: cmd.Mode}, nil

	case "equip":
		if cmd.ID == "" {
			return nil, fmt.Errorf("%w: missing weapon id", errBadCommand)
		}
		return e.Equip(cmd.ID)

	case "unlock":
		if cmd.ID == "" {
			return nil, fmt.Errorf("%w: missing weapon id", errBadCommand)
		}
		added, err := e.Unlock(cmd.ID)
		if err != nil {
			return nil, err
		}
		return unlockResult{ID: cmd.ID, Added: added}, nil

	case "upgrade":
		if cmd.ID == "" {
			return nil, fmt.Errorf("%w: missing weapon id", errBadCommand)
		}
		lvl, err := e.Upgrade(cmd.ID)
		if errors.Is(err, weapon.ErrLevelCeiling) {
			return upgradeResult{ID: cmd.ID, Level: lvl, Maxed: true}, nil
		}
		if err != nil {
			return nil, err
		}
		return upgradeResult{ID: cmd.ID, Level: lvl}, nil
	}
	return nil, fmt.Errorf("%w: unknown type %q", errBadCommand, cmd.Type)
}

// statusFor maps engine and weapon errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadCommand):
		return http.StatusBadRequest
	case errors.Is(err, weapon.ErrUnknownWeapon):
		return http.StatusNotFound
	case errors.Is(err, weapon.ErrNotUnlocked),
		errors.Is(err, weapon.ErrInsufficientAmmo),
		errors.Is(err, game.ErrNotPlaying):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
