// Package augment applies randomized, geometry-consistent transforms to an
// (image, landmark set) pair for training-time data augmentation.
//
// Every step is a pure function: it returns a new image and a new landmark
// set and never mutates its inputs, so augmented samples sharing a cached
// source image cannot alias each other. The random parameters for a pass are
// all drawn up front, in a fixed order (rotation, scale, brightness,
// contrast, flip), so two runs with equally-seeded generators produce
// identical output no matter which steps happen to be identity.
package augment

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/disintegration/imaging"

	"github.com/osteomark/landmark-tools/internal/landmark"
)

// draws holds one pass's sampled parameters in sampling order.
type draws struct {
	angle      float64
	scale      float64
	brightness float64
	contrast   float64
	flip       bool
}

func sample(cfg Config, rng *rand.Rand) draws {
	return draws{
		angle:      uniform(rng, -cfg.RotationRange, cfg.RotationRange),
		scale:      uniform(rng, cfg.ScaleMin, cfg.ScaleMax),
		brightness: uniform(rng, cfg.BrightnessMin, cfg.BrightnessMax),
		contrast:   uniform(rng, cfg.ContrastMin, cfg.ContrastMax),
		flip:       rng.Float64() < cfg.FlipProb,
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

// Apply runs one randomized augmentation pass over img and set. The final
// clamp runs unconditionally, so every returned landmark lies inside
// [0, width-1] x [0, height-1] even when no randomized step fired.
//
// rng must not be shared mutably across concurrent workers; give each worker
// its own seeded generator or augmentation stops being reproducible.
func Apply(img image.Image, set landmark.Set, cfg Config, rng *rand.Rand) (image.Image, landmark.Set, error) {
	if err := cfg.Validate(); err != nil {
		return nil, set, err
	}
	if rng == nil {
		return nil, set, fmt.Errorf("nil random generator")
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, set, fmt.Errorf("empty image %dx%d", width, height)
	}

	d := sample(cfg, rng)

	out := img
	if d.angle != 0 {
		out, set = Rotate(out, set, d.angle)
	}
	if d.scale != 1 {
		out, set = Scale(out, set, d.scale)
	}
	if d.brightness != 1 {
		out = Brightness(out, d.brightness)
	}
	if d.contrast != 1 {
		out = Contrast(out, d.contrast)
	}
	if d.flip {
		out, set = FlipH(out, set)
	}
	set = Clamp(set, width, height)

	return out, set, nil
}

// Rotate rotates the image about its center by angle degrees
// (counter-clockwise positive, bilinear resampling, canvas size preserved)
// and rotates the landmarks to match. The landmarks are rotated by the
// negated angle: point rotation is the inverse of the rasterizer's pixel
// rotation, and any trained model is calibrated to this sign convention.
func Rotate(img image.Image, set landmark.Set, angle float64) (image.Image, landmark.Set) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	// imaging.Rotate expands the canvas to the rotated bounding box,
	// symmetric around the center. Center-cropping restores the frame, but
	// for a non-square image the bounding box can be narrower than the
	// source along its long axis (w*|cos| + h*|sin| < w near 90 degrees),
	// and CropCenter only shrinks to the intersection. Pasting the crop
	// onto a black source-sized canvas keeps the frame exact at any angle.
	rotated := imaging.Rotate(img, angle, color.NRGBA{A: 0xff})
	cropped := imaging.CropCenter(rotated, width, height)
	out := cropped
	if cb := cropped.Bounds(); cb.Dx() != width || cb.Dy() != height {
		canvas := imaging.New(width, height, color.NRGBA{A: 0xff})
		out = imaging.Paste(canvas, cropped, image.Pt((width-cb.Dx())/2, (height-cb.Dy())/2))
	}

	rad := -angle * math.Pi / 180
	sin, cos := math.Sincos(rad)
	cx, cy := float64(width)/2, float64(height)/2
	moved := set.Map(func(p landmark.Point) landmark.Point {
		dx, dy := p.X-cx, p.Y-cy
		return landmark.Point{
			X: cos*dx - sin*dy + cx,
			Y: sin*dx + cos*dy + cy,
		}
	})
	return out, moved
}

// Scale resizes the image by factor, then restores the original canvas size:
// a center crop when the image grew, a centered paste onto a black canvas
// when it shrank. Landmarks scale with the pixels and shift by the crop or
// pad offset.
func Scale(img image.Image, set landmark.Set, factor float64) (image.Image, landmark.Set) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	newW := int(float64(width) * factor)
	newH := int(float64(height) * factor)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	resized := imaging.Resize(img, newW, newH, imaging.Lanczos)

	if factor > 1 {
		left := (newW - width) / 2
		top := (newH - height) / 2
		out := imaging.Crop(resized, image.Rect(left, top, left+width, top+height))
		moved := set.Map(func(p landmark.Point) landmark.Point {
			return landmark.Point{X: p.X*factor - float64(left), Y: p.Y*factor - float64(top)}
		})
		return out, moved
	}

	left := (width - newW) / 2
	top := (height - newH) / 2
	canvas := imaging.New(width, height, color.NRGBA{A: 0xff})
	out := imaging.Paste(canvas, resized, image.Pt(left, top))
	moved := set.Map(func(p landmark.Point) landmark.Point {
		return landmark.Point{X: p.X*factor + float64(left), Y: p.Y*factor + float64(top)}
	})
	return out, moved
}

// Brightness multiplies pixel intensities by factor. Landmarks are
// unaffected.
func Brightness(img image.Image, factor float64) image.Image {
	// bild's change parameter is relative: 0 means unchanged.
	return adjust.Brightness(img, factor-1)
}

// Contrast remaps every channel around the image's mean gray level:
//
//	out = mean + factor*(in - mean)
//
// The anchor is the rounded mean luminance of the whole image, not the fixed
// midpoint most libraries use; the reference training data was produced with
// mean-anchored contrast and the model is calibrated to it.
func Contrast(img image.Image, factor float64) image.Image {
	bounds := img.Bounds()
	src := imaging.Clone(img) // NRGBA, zero-based bounds

	var sum float64
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			i := src.PixOffset(x, y)
			r := float64(src.Pix[i])
			g := float64(src.Pix[i+1])
			b := float64(src.Pix[i+2])
			sum += 0.299*r + 0.587*g + 0.114*b
		}
	}
	total := float64(bounds.Dx() * bounds.Dy())
	mean := math.Floor(sum/total + 0.5)

	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	copy(out.Pix, src.Pix)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = clamp8(mean + factor*(float64(src.Pix[i])-mean))
		out.Pix[i+1] = clamp8(mean + factor*(float64(src.Pix[i+1])-mean))
		out.Pix[i+2] = clamp8(mean + factor*(float64(src.Pix[i+2])-mean))
	}
	return out
}

// FlipH mirrors the image left-right and maps each landmark's x-coordinate
// to width - x. Note this is width - x, not width - 1 - x: the one-pixel
// asymmetry versus the usual flip convention is retained behavior that the
// trained model is calibrated to, and the final clamp keeps the result in
// bounds.
func FlipH(img image.Image, set landmark.Set) (image.Image, landmark.Set) {
	width := float64(img.Bounds().Dx())
	out := imaging.FlipH(img)
	moved := set.Map(func(p landmark.Point) landmark.Point {
		return landmark.Point{X: width - p.X, Y: p.Y}
	})
	return out, moved
}

// Clamp forces every present landmark into [0, width-1] x [0, height-1].
func Clamp(set landmark.Set, width, height int) landmark.Set {
	maxX := float64(width - 1)
	maxY := float64(height - 1)
	return set.Map(func(p landmark.Point) landmark.Point {
		return landmark.Point{
			X: math.Min(maxX, math.Max(0, p.X)),
			Y: math.Min(maxY, math.Max(0, p.Y)),
		}
	})
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
