package game

import "neon-snake/internal/weapon"

// StartLength is the body length of a fresh snake.
const StartLength = 3

// Snake is the player body on the cell grid, head first.
type Snake struct {
	body   []weapon.Cell
	dir    weapon.Direction
	next   weapon.Direction // applied on the next Advance
	growth int
}

// NewSnake places a 3-segment snake facing right at the centre of a
// cols x rows board.
func NewSnake(cols, rows int) *Snake {
	s := &Snake{}
	s.Reset(cols, rows)
	return s
}

func (s *Snake) Reset(cols, rows int) {
	x, y := cols/2, rows/2
	s.body = s.body[:0]
	for i := range StartLength {
		s.body = append(s.body, weapon.Cell{X: x - i, Y: y})
	}
	s.dir = weapon.Right
	s.next = weapon.Right
	s.growth = 0
}

func (s *Snake) Head() weapon.Cell { return s.body[0] }

// Direction is the facing the snake last moved in.
func (s *Snake) Direction() weapon.Direction { return s.dir }

func (s *Snake) Len() int { return len(s.body) }

// Body returns a copy of the segments, head first.
func (s *Snake) Body() []weapon.Cell {
	out := make([]weapon.Cell, len(s.body))
	copy(out, s.body)
	return out
}

// Turn queues a new facing. Reversing onto the neck is rejected.
func (s *Snake) Turn(d weapon.Direction) bool {
	if d > weapon.Up || d == s.dir.Opposite() {
		return false
	}
	s.next = d
	return true
}

// Grow adds n segments over the next n moves.
func (s *Snake) Grow(n int) {
	if n > 0 {
		s.growth += n
	}
}

// Advance moves the head one cell in the queued direction.
func (s *Snake) Advance() weapon.Cell {
	s.dir = s.next
	head := s.dir.Step(s.body[0])

	if s.growth > 0 {
		s.growth--
		s.body = append(s.body, weapon.Cell{})
	}
	copy(s.body[1:], s.body[:len(s.body)-1])
	s.body[0] = head
	return head
}

// HitSelf reports whether the head overlaps any other segment.
func (s *Snake) HitSelf() bool {
	head := s.body[0]
	for _, c := range s.body[1:] {
		if c == head {
			return true
		}
	}
	return false
}

// Occupies reports whether any segment sits on c.
func (s *Snake) Occupies(c weapon.Cell) bool {
	for _, b := range s.body {
		if b == c {
			return true
		}
	}
	return false
}

// OutOfBounds reports whether the head left a cols x rows board.
func (s *Snake) OutOfBounds(cols, rows int) bool {
	h := s.body[0]
	return h.X < 0 || h.Y < 0 || h.X >= cols || h.Y >= rows
}
