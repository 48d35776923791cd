package weapon

import (
	"fmt"
	"math"
)

// Vec is a position or velocity in field pixels.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec) Dist(o Vec) float64 { return math.Hypot(v.X-o.X, v.Y-o.Y) }
func (v Vec) Angle() float64 { return math.Atan2(v.Y, v.X) }
func polar(angle, length float64) Vec { return Vec{math.Cos(angle) * length, math.Sin(angle) * length} }

// Cell is a grid coordinate on the snake board.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Center returns the pixel centre of the cell for the given cell size.
func (c Cell) Center(size float64) Vec {
	return Vec{
		X: float64(c.X)*size + size/2,
		Y: float64(c.Y)*size + size/2,
	}
}

// Direction is one of the four grid facings.
type Direction uint8

const (
	Right Direction = iota
	Down
	Left
	Up
)

var directionNames = [...]string{"right", "down", "left", "up"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", d)
}

// Angle returns the facing in radians, screen coordinates (y grows down).
func (d Direction) Angle() float64 {
	switch d {
	case Down:
		return math.Pi / 2
	case Left:
		return math.Pi
	case Up:
		return -math.Pi / 2
	default:
		return 0
	}
}

// Unit returns the exact axis-aligned unit vector for the facing.
func (d Direction) Unit() Vec {
	switch d {
	case Down:
		return Vec{0, 1}
	case Left:
		return Vec{-1, 0}
	case Up:
		return Vec{0, -1}
	default:
		return Vec{1, 0}
	}
}

// Step returns the neighbouring cell in this direction.
func (d Direction) Step(c Cell) Cell {
	u := d.Unit()
	return Cell{c.X + int(u.X), c.Y + int(u.Y)}
}

func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return Right, fmt.Errorf("unknown direction %q", s)
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Bounds is the playable field in pixels.
type Bounds struct {
	Width  float64
	Height float64
}

// Contains reports whether p lies on the field, edges included.
func (b Bounds) Contains(p Vec) bool {
	return p.X >= 0 && p.X <= b.Width && p.Y >= 0 && p.Y <= b.Height
}
