// Package predict turns scoring-model output into landmark coordinates in
// the original image's pixel frame.
//
// The trained scoring function itself is an external collaborator: it is
// injected as the narrow Scorer capability rather than constructed here, so
// tests substitute a double and this package stays free of model internals.
package predict

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/osteomark/landmark-tools/internal/dataset"
	"github.com/osteomark/landmark-tools/internal/heatmap"
	"github.com/osteomark/landmark-tools/internal/landmark"
)

// Default model-input grid size.
const (
	DefaultInputWidth  = 512
	DefaultInputHeight = 512
)

// Scorer is the opaque trained scoring function: given a normalized
// single-channel grid, it returns one heatmap per landmark slot, in slot
// order, at a model-defined output resolution. Implementations must be
// deterministic per call and free of side effects visible to this package.
type Scorer interface {
	Score(grid [][]float64) ([]*heatmap.Heatmap, error)
}

// Prediction is one decoded landmark location in the original image's pixel
// frame, with the heatmap peak value as confidence.
type Prediction struct {
	Landmark   int     `json:"landmark"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// Predictor runs preprocess -> score -> decode -> rescale for single images
// or batches. It holds no per-image state and is safe for concurrent use as
// long as the injected Scorer is.
type Predictor struct {
	scorer      Scorer
	inputWidth  int
	inputHeight int
}

// Option adjusts Predictor construction.
type Option func(*Predictor)

// WithInputSize overrides the model-input grid dimensions.
func WithInputSize(width, height int) Option {
	return func(p *Predictor) {
		p.inputWidth = width
		p.inputHeight = height
	}
}

// New builds a Predictor around scorer.
func New(scorer Scorer, opts ...Option) *Predictor {
	p := &Predictor{
		scorer:      scorer,
		inputWidth:  DefaultInputWidth,
		inputHeight: DefaultInputHeight,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Preprocess converts img to the normalized single-channel model input:
// grayscale, Lanczos-resized to the input grid, intensities scaled to
// [0, 1]. The returned grid is indexed [row][column].
func (p *Predictor) Preprocess(img image.Image) [][]float64 {
	gray := imaging.Grayscale(img)
	resized := imaging.Resize(gray, p.inputWidth, p.inputHeight, imaging.Lanczos)

	grid := make([][]float64, p.inputHeight)
	for y := 0; y < p.inputHeight; y++ {
		row := make([]float64, p.inputWidth)
		for x := 0; x < p.inputWidth; x++ {
			// Grayscale NRGBA: R == G == B.
			row[x] = float64(resized.Pix[resized.PixOffset(x, y)]) / 255
		}
		grid[y] = row
	}
	return grid
}

// Predict locates all landmarks in img. Decoded peak coordinates are mapped
// from the heatmap's grid space back to img's pixel space.
func (p *Predictor) Predict(img image.Image) ([]Prediction, error) {
	bounds := img.Bounds()
	origW, origH := bounds.Dx(), bounds.Dy()
	if origW <= 0 || origH <= 0 {
		return nil, fmt.Errorf("empty image %dx%d", origW, origH)
	}

	maps, err := p.scorer.Score(p.Preprocess(img))
	if err != nil {
		return nil, fmt.Errorf("scoring failed: %w", err)
	}
	if len(maps) != landmark.NumLandmarks {
		return nil, fmt.Errorf("scorer returned %d heatmaps, want %d", len(maps), landmark.NumLandmarks)
	}

	preds := make([]Prediction, len(maps))
	for i, hm := range maps {
		peak, conf, err := heatmap.Decode(hm)
		if err != nil {
			return nil, fmt.Errorf("landmark %d: %w", i+1, err)
		}
		orig := landmark.Rescale(peak, hm.Width, hm.Height, origW, origH)
		preds[i] = Prediction{
			Landmark:   i + 1,
			X:          orig.X,
			Y:          orig.Y,
			Confidence: conf,
		}
	}
	return preds, nil
}

// PredictBatch predicts landmarks for every path, loading images through
// cache. It stops at the first failure; partially processed batches are
// safe to abandon since no cross-image state is retained.
func (p *Predictor) PredictBatch(cache *dataset.ImageCache, paths []string) (map[string][]Prediction, error) {
	out := make(map[string][]Prediction, len(paths))
	for _, path := range paths {
		img, err := cache.Load(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		preds, err := p.Predict(img)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out[path] = preds
	}
	return out, nil
}
