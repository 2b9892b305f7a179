// Package landmark defines the coordinate data model shared by the heatmap,
// augmentation, and metrics packages.
//
// A Point is only meaningful relative to a declared pixel frame (original
// radiograph, or the resized model-input grid). Mixing frames without going
// through Rescale is a programming error; nothing in this package can detect
// it for you.
//
// All pixel coordinates are 0-based with origin at the top-left corner:
// X increases rightward, Y increases downward. Landmark slots, by contrast,
// are 1-based (1..NumLandmarks) to match how the annotations are published.
package landmark

import (
	"errors"
	"fmt"
	"math"
)

// NumLandmarks is the number of landmark slots in every Set.
const NumLandmarks = 19

// ErrLandmarkMissing reports a landmark slot that holds no coordinate.
var ErrLandmarkMissing = errors.New("landmark missing")

// Point is a 2D coordinate in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to q.
func (p Point) Distance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Set is an ordered, fixed-length sequence of optional landmark coordinates.
// An image may be only partially annotated, so every slot carries a presence
// flag. Set is a value type: copying it copies the coordinates, which keeps
// the augmentation steps free of aliasing between samples.
type Set struct {
	points  [NumLandmarks]Point
	present [NumLandmarks]bool
}

// NewSet builds a fully-annotated Set from exactly NumLandmarks points in
// slot order.
func NewSet(points []Point) (Set, error) {
	var s Set
	if len(points) != NumLandmarks {
		return s, fmt.Errorf("need exactly %d points, got %d", NumLandmarks, len(points))
	}
	for i, p := range points {
		s.points[i] = p
		s.present[i] = true
	}
	return s, nil
}

// Get returns the coordinate in slot index (1-based) and whether it is
// present. It panics if index is outside 1..NumLandmarks.
func (s Set) Get(index int) (Point, bool) {
	checkIndex(index)
	return s.points[index-1], s.present[index-1]
}

// Put stores a coordinate in slot index (1-based). It panics if index is
// outside 1..NumLandmarks.
func (s *Set) Put(index int, p Point) {
	checkIndex(index)
	s.points[index-1] = p
	s.present[index-1] = true
}

// Count returns the number of present landmarks.
func (s Set) Count() int {
	n := 0
	for _, ok := range s.present {
		if ok {
			n++
		}
	}
	return n
}

// Complete reports whether every slot holds a coordinate.
func (s Set) Complete() bool {
	return s.Count() == NumLandmarks
}

// Map returns a copy of s with fn applied to every present coordinate.
// Absent slots stay absent.
func (s Set) Map(fn func(Point) Point) Set {
	out := s
	for i := range out.points {
		if out.present[i] {
			out.points[i] = fn(out.points[i])
		}
	}
	return out
}

func checkIndex(index int) {
	if index < 1 || index > NumLandmarks {
		panic(fmt.Sprintf("landmark index %d out of range 1..%d", index, NumLandmarks))
	}
}

// Rescale maps p from one pixel frame to another by independent per-axis
// linear scaling. All dimensions must be positive. Used to carry decoded
// grid-space coordinates back into the original image's pixel space.
func Rescale(p Point, fromW, fromH, toW, toH int) Point {
	return Point{
		X: p.X / float64(fromW) * float64(toW),
		Y: p.Y / float64(fromH) * float64(toH),
	}
}
