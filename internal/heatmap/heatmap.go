package heatmap

import (
	"errors"
	"fmt"
	"math"

	"github.com/osteomark/landmark-tools/internal/landmark"
)

var (
	// ErrInvalidHeatmap reports a degenerate or non-finite heatmap passed
	// to Decode.
	ErrInvalidHeatmap = errors.New("invalid heatmap")

	// ErrInvalidSigma reports a non-positive Gaussian spread.
	ErrInvalidSigma = errors.New("sigma must be positive")
)

// Heatmap is a dense grid of non-negative likelihood values for a single
// landmark, stored row-major.
type Heatmap struct {
	Width  int
	Height int
	Data   []float64
}

// New allocates a zero-valued heatmap of the given dimensions.
func New(width, height int) *Heatmap {
	return &Heatmap{
		Width:  width,
		Height: height,
		Data:   make([]float64, width*height),
	}
}

// At returns the value at column x, row y. No bounds checking.
func (h *Heatmap) At(x, y int) float64 {
	return h.Data[y*h.Width+x]
}

// SetAt stores v at column x, row y. No bounds checking.
func (h *Heatmap) SetAt(x, y int, v float64) {
	h.Data[y*h.Width+x] = v
}

// Encode renders p as a Gaussian heatmap on a width x height grid. The peak
// value is 1 at the grid cell nearest p when p lies inside the grid.
func Encode(p landmark.Point, width, height int, sigma float64) (*Heatmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions %dx%d", width, height)
	}
	if sigma <= 0 {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidSigma, sigma)
	}

	hm := New(width, height)
	denom := 2 * sigma * sigma
	for j := 0; j < height; j++ {
		dy := float64(j) - p.Y
		row := hm.Data[j*width : (j+1)*width]
		for i := 0; i < width; i++ {
			dx := float64(i) - p.X
			row[i] = math.Exp(-(dx*dx + dy*dy) / denom)
		}
	}
	return hm, nil
}

// EncodeSet encodes every landmark of set into its own heatmap, one per slot
// in slot order. It fails with ErrLandmarkMissing if any slot is absent: this
// package never fabricates a coordinate, so masking or skipping partially
// annotated images is the caller's call.
func EncodeSet(set landmark.Set, width, height int, sigma float64) ([]*Heatmap, error) {
	maps := make([]*Heatmap, 0, landmark.NumLandmarks)
	for i := 1; i <= landmark.NumLandmarks; i++ {
		p, ok := set.Get(i)
		if !ok {
			return nil, fmt.Errorf("%w: slot %d (%s)", landmark.ErrLandmarkMissing, i, landmark.Name(i))
		}
		hm, err := Encode(p, width, height, sigma)
		if err != nil {
			return nil, err
		}
		maps = append(maps, hm)
	}
	return maps, nil
}

// Decode returns the grid-space coordinate of the maximum cell and its value
// as confidence. On ties the first cell in row-major order wins.
func Decode(hm *Heatmap) (landmark.Point, float64, error) {
	if hm == nil || hm.Width <= 0 || hm.Height <= 0 {
		return landmark.Point{}, 0, fmt.Errorf("%w: zero-area grid", ErrInvalidHeatmap)
	}
	if len(hm.Data) != hm.Width*hm.Height {
		return landmark.Point{}, 0, fmt.Errorf("%w: %d values for %dx%d grid",
			ErrInvalidHeatmap, len(hm.Data), hm.Width, hm.Height)
	}

	best := math.Inf(-1)
	bestIdx := 0
	for idx, v := range hm.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return landmark.Point{}, 0, fmt.Errorf("%w: non-finite value at cell %d", ErrInvalidHeatmap, idx)
		}
		if v > best {
			best = v
			bestIdx = idx
		}
	}

	return landmark.Point{
		X: float64(bestIdx % hm.Width),
		Y: float64(bestIdx / hm.Width),
	}, best, nil
}
