package heatmap

import (
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Ramp endpoints for Render. Low values map to a dark blue, high values to
// a saturated red, blended in Luv space for a perceptually even gradient.
var (
	rampCold = colorful.Color{R: 0.03, G: 0.05, B: 0.35}
	rampHot  = colorful.Color{R: 0.92, G: 0.12, B: 0.05}
)

// Render maps hm onto a cold-to-hot color ramp for visual inspection of
// encoded targets and model output. Values are normalized by the map's
// maximum, so a flat map renders entirely cold.
func Render(hm *Heatmap) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, hm.Width, hm.Height))

	max := 0.0
	for _, v := range hm.Data {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		max = 1
	}

	for y := 0; y < hm.Height; y++ {
		for x := 0; x < hm.Width; x++ {
			t := hm.At(x, y) / max
			if t < 0 {
				t = 0
			}
			c := rampCold.BlendLuv(rampHot, t).Clamped()
			r, g, b := c.RGB255()
			i := out.PixOffset(x, y)
			out.Pix[i] = r
			out.Pix[i+1] = g
			out.Pix[i+2] = b
			out.Pix[i+3] = 0xff
		}
	}
	return out
}
