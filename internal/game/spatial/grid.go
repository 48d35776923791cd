// Package spatial provides the broad-phase index used to find food near
// projectiles and blasts.
//
// The grid stores slot indices (not pointers) in preallocated buckets so a
// per-tick rebuild does not allocate.
package spatial

import "math"

// Grid buckets slot indices by position on a fixed-size lattice.
//
// Bucket size should be close to the typical query radius. On the snake
// board most queries are a projectile radius plus a food radius, so a few
// board cells per bucket keeps each query to a handful of buckets.
//
// Buckets are stored row-major: buckets[row*cols+col].
type Grid struct {
	bucketSize float64
	invBucket  float64
	cols, rows int
	buckets    [][]uint32
	count      int
}

// NewGrid creates a grid covering width x height pixels. capacity is the
// expected number of entries and only sizes the buckets up front.
func NewGrid(width, height, bucketSize float64, capacity int) *Grid {
	if bucketSize <= 0 {
		bucketSize = 1
	}
	cols := max(1, int(math.Ceil(width/bucketSize)))
	rows := max(1, int(math.Ceil(height/bucketSize)))

	buckets := make([][]uint32, cols*rows)
	perBucket := max(2, capacity/len(buckets))
	for i := range buckets {
		buckets[i] = make([]uint32, 0, perBucket)
	}

	return &Grid{
		bucketSize: bucketSize,
		invBucket:  1.0 / bucketSize,
		cols:       cols,
		rows:       rows,
		buckets:    buckets,
	}
}

// Clear empties every bucket, keeping capacity.
func (g *Grid) Clear() {
	for i := range g.buckets {
		g.buckets[i] = g.buckets[i][:0]
	}
	g.count = 0
}

// Insert files slot under the bucket containing (x, y). Positions off the
// grid are clamped to the border buckets.
func (g *Grid) Insert(slot uint32, x, y float64) {
	col, row := g.clamp(int(x*g.invBucket), int(y*g.invBucket))
	idx := row*g.cols + col
	g.buckets[idx] = append(g.buckets[idx], slot)
	g.count++
}

func (g *Grid) clamp(col, row int) (int, int) {
	return max(0, min(col, g.cols-1)), max(0, min(row, g.rows-1))
}

// AppendRadius appends to dst every slot whose bucket intersects the
// square around (cx, cy) with half-side radius, and returns the extended
// slice. Results are candidates only; callers do the exact distance check.
func (g *Grid) AppendRadius(dst []uint32, cx, cy, radius float64) []uint32 {
	minCol, minRow := g.clamp(int(math.Floor((cx-radius)*g.invBucket)), int(math.Floor((cy-radius)*g.invBucket)))
	maxCol, maxRow := g.clamp(int(math.Floor((cx+radius)*g.invBucket)), int(math.Floor((cy+radius)*g.invBucket)))

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			dst = append(dst, g.buckets[row*g.cols+col]...)
		}
	}
	return dst
}

// Len is the number of inserted entries.
func (g *Grid) Len() int { return g.count }

// Dimensions returns the bucket layout.
func (g *Grid) Dimensions() (cols, rows int, bucketSize float64) {
	return g.cols, g.rows, g.bucketSize
}
