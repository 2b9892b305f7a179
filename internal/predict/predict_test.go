package predict

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/osteomark/landmark-tools/internal/dataset"
	"github.com/osteomark/landmark-tools/internal/heatmap"
	"github.com/osteomark/landmark-tools/internal/landmark"
)

// fakeScorer is a test double for the trained model: it returns one heatmap
// per landmark with a fixed peak, recording the grid it was given.
type fakeScorer struct {
	outW, outH int
	peaks      [landmark.NumLandmarks]landmark.Point
	lastGrid   [][]float64
	err        error
	count      int // heatmaps to return; 0 means NumLandmarks
}

func (f *fakeScorer) Score(grid [][]float64) ([]*heatmap.Heatmap, error) {
	f.lastGrid = grid
	if f.err != nil {
		return nil, f.err
	}
	count := f.count
	if count == 0 {
		count = landmark.NumLandmarks
	}
	maps := make([]*heatmap.Heatmap, count)
	for i := range maps {
		hm := heatmap.New(f.outW, f.outH)
		p := f.peaks[i%landmark.NumLandmarks]
		hm.SetAt(int(p.X), int(p.Y), 0.75)
		maps[i] = hm
	}
	return maps, nil
}

func testImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x), uint8(y), 100, 0xff})
		}
	}
	return img
}

func TestPreprocess(t *testing.T) {
	scorer := &fakeScorer{outW: 64, outH: 64}
	p := New(scorer, WithInputSize(64, 32))

	grid := p.Preprocess(testImage(200, 100))
	if len(grid) != 32 {
		t.Fatalf("rows: got %d, want 32", len(grid))
	}
	for y, row := range grid {
		if len(row) != 64 {
			t.Fatalf("row %d length: got %d, want 64", y, len(row))
		}
		for x, v := range row {
			if v < 0 || v > 1 {
				t.Fatalf("grid[%d][%d] = %v outside [0, 1]", y, x, v)
			}
		}
	}
}

func TestPredict(t *testing.T) {
	scorer := &fakeScorer{outW: 64, outH: 64}
	for i := range scorer.peaks {
		scorer.peaks[i] = landmark.Point{X: float64(i + 1), Y: float64(i + 2)}
	}

	p := New(scorer, WithInputSize(64, 64))
	preds, err := p.Predict(testImage(128, 256))
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if len(preds) != landmark.NumLandmarks {
		t.Fatalf("got %d predictions, want %d", len(preds), landmark.NumLandmarks)
	}

	for i, pred := range preds {
		if pred.Landmark != i+1 {
			t.Errorf("prediction %d: landmark id %d, want %d", i, pred.Landmark, i+1)
		}
		// Peak (i+1, i+2) on a 64x64 grid maps to original 128x256 pixels.
		wantX := float64(i+1) / 64 * 128
		wantY := float64(i+2) / 64 * 256
		if math.Abs(pred.X-wantX) > 1e-9 || math.Abs(pred.Y-wantY) > 1e-9 {
			t.Errorf("prediction %d: got (%v, %v), want (%v, %v)", i, pred.X, pred.Y, wantX, wantY)
		}
		if pred.Confidence != 0.75 {
			t.Errorf("prediction %d: confidence %v, want 0.75", i, pred.Confidence)
		}
	}

	// The scorer saw the model-input grid, not the original resolution.
	if len(scorer.lastGrid) != 64 || len(scorer.lastGrid[0]) != 64 {
		t.Errorf("scorer grid: got %dx%d, want 64x64", len(scorer.lastGrid[0]), len(scorer.lastGrid))
	}
}

func TestPredictScorerError(t *testing.T) {
	wantErr := errors.New("model unavailable")
	p := New(&fakeScorer{outW: 8, outH: 8, err: wantErr})

	_, err := p.Predict(testImage(32, 32))
	if !errors.Is(err, wantErr) {
		t.Errorf("got %v, want wrapped scorer error", err)
	}
}

func TestPredictWrongHeatmapCount(t *testing.T) {
	p := New(&fakeScorer{outW: 8, outH: 8, count: 5})

	_, err := p.Predict(testImage(32, 32))
	if err == nil {
		t.Error("Predict accepted 5 heatmaps")
	}
}

func TestPredictInvalidHeatmap(t *testing.T) {
	scorer := &badMapScorer{}
	p := New(scorer)

	_, err := p.Predict(testImage(32, 32))
	if !errors.Is(err, heatmap.ErrInvalidHeatmap) {
		t.Errorf("got %v, want ErrInvalidHeatmap", err)
	}
}

type badMapScorer struct{}

func (badMapScorer) Score([][]float64) ([]*heatmap.Heatmap, error) {
	maps := make([]*heatmap.Heatmap, landmark.NumLandmarks)
	for i := range maps {
		hm := heatmap.New(8, 8)
		hm.SetAt(3, 3, math.NaN())
		maps[i] = hm
	}
	return maps, nil
}

func TestPredictBatch(t *testing.T) {
	dir := t.TempDir()
	cache := dataset.NewImageCache()

	paths := make([]string, 3)
	for i := range paths {
		paths[i] = writeBatchPNG(t, dir, fmt.Sprintf("scan_%d.png", i))
	}

	scorer := &fakeScorer{outW: 16, outH: 16}
	for i := range scorer.peaks {
		scorer.peaks[i] = landmark.Point{X: 4, Y: 4}
	}
	p := New(scorer, WithInputSize(16, 16))

	results, err := p.PredictBatch(cache, paths)
	if err != nil {
		t.Fatalf("PredictBatch failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for _, path := range paths {
		preds, ok := results[path]
		if !ok {
			t.Errorf("no result for %s", path)
			continue
		}
		if len(preds) != landmark.NumLandmarks {
			t.Errorf("%s: got %d predictions, want %d", path, len(preds), landmark.NumLandmarks)
		}
	}

	if _, err := p.PredictBatch(cache, []string{"missing.png"}); err == nil {
		t.Error("PredictBatch accepted a missing file")
	}
}

func writeBatchPNG(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, testImage(20, 20)); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
	return path
}
