package game

import (
	"slices"
	"testing"

	"neon-snake/internal/weapon"
)

func TestNewSnakeStartsCentred(t *testing.T) {
	s := NewSnake(40, 30)

	want := []weapon.Cell{{X: 20, Y: 15}, {X: 19, Y: 15}, {X: 18, Y: 15}}
	if got := s.Body(); !slices.Equal(got, want) {
		t.Errorf("Body = %v, want %v", got, want)
	}
	if s.Direction() != weapon.Right {
		t.Errorf("Direction = %v, want right", s.Direction())
	}
}

func TestSnakeTurn(t *testing.T) {
	tests := []struct {
		turn weapon.Direction
		ok   bool
		head weapon.Cell
	}{
		{weapon.Up, true, weapon.Cell{X: 20, Y: 14}},
		{weapon.Down, true, weapon.Cell{X: 20, Y: 16}},
		{weapon.Right, true, weapon.Cell{X: 21, Y: 15}},
		{weapon.Left, false, weapon.Cell{X: 21, Y: 15}}, // reversal ignored
	}

	for _, tt := range tests {
		t.Run(tt.turn.String(), func(t *testing.T) {
			s := NewSnake(40, 30)
			if got := s.Turn(tt.turn); got != tt.ok {
				t.Fatalf("Turn(%v) = %v, want %v", tt.turn, got, tt.ok)
			}
			if head := s.Advance(); head != tt.head {
				t.Errorf("head = %v, want %v", head, tt.head)
			}
		})
	}
}

func TestSnakeGrowth(t *testing.T) {
	s := NewSnake(40, 30)
	s.Grow(2)

	s.Advance()
	s.Advance()
	s.Advance()

	if s.Len() != 5 {
		t.Errorf("Len = %d, want 5", s.Len())
	}
	if tail := s.Body()[4]; tail != (weapon.Cell{X: 19, Y: 15}) {
		t.Errorf("tail = %v, want {19 15}", tail)
	}
}

func TestSnakeHitSelf(t *testing.T) {
	s := NewSnake(40, 30)
	s.Grow(2)

	s.Advance() // (21,15)
	s.Turn(weapon.Down)
	s.Advance() // (21,16)
	s.Turn(weapon.Left)
	s.Advance() // (20,16)
	if s.HitSelf() {
		t.Fatal("HitSelf before closing the loop")
	}
	s.Turn(weapon.Up)
	s.Advance() // back onto (20,15)

	if !s.HitSelf() {
		t.Errorf("expected self collision, body %v", s.Body())
	}
}

func TestSnakeOutOfBounds(t *testing.T) {
	s := NewSnake(4, 4)
	if s.OutOfBounds(4, 4) {
		t.Fatal("fresh snake is out of bounds")
	}
	s.Advance() // x=3
	if s.OutOfBounds(4, 4) {
		t.Fatal("x=3 is still on a 4-wide board")
	}
	s.Advance()
	if !s.OutOfBounds(4, 4) {
		t.Errorf("head %v should be off the board", s.Head())
	}
}
