// Package metrics aggregates paired ground-truth/predicted landmark
// coordinates into localization accuracy statistics.
package metrics

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"github.com/osteomark/landmark-tools/internal/landmark"
)

// ErrNoSamples reports an empty evaluation input. MRE, std, and SDR are
// undefined over zero samples and are never reported as spurious zeros.
var ErrNoSamples = errors.New("no samples to evaluate")

// DefaultThresholds are the SDR pixel thresholds used when the caller does
// not supply its own set.
var DefaultThresholds = []float64{2, 4, 10, 20}

// Sample pairs one ground-truth coordinate with its prediction. Both points
// must be in the same pixel frame. Landmark is the 1-based slot index.
type Sample struct {
	Truth    landmark.Point
	Pred     landmark.Point
	Landmark int
}

// Report holds aggregate localization accuracy.
//
// PerLandmark has exactly landmark.NumLandmarks entries; a slot with no
// observed samples maps to NaN rather than being omitted, so consumers can
// tell "not measured" apart from "perfect".
type Report struct {
	// MRE is the mean radial error: the arithmetic mean of per-sample
	// Euclidean distances.
	MRE float64

	// Std is the population standard deviation over the same error set.
	Std float64

	// SDR maps each threshold t to the percentage of samples with
	// error < t.
	SDR map[float64]float64

	// PerLandmark maps each 1-based slot index to its mean error, or NaN.
	PerLandmark map[int]float64

	// Samples is the number of evaluated pairs.
	Samples int
}

// Evaluate computes a Report over samples. Passing nil thresholds selects
// DefaultThresholds.
//
// Both reductions are two-pass sums over sorted error sets, so reordering
// the input samples cannot change any statistic, not even in the last ulp.
func Evaluate(samples []Sample, thresholds []float64) (*Report, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w", ErrNoSamples)
	}
	if thresholds == nil {
		thresholds = DefaultThresholds
	}

	errs := make([]float64, len(samples))
	byLandmark := make(map[int][]float64)
	for i, s := range samples {
		if s.Landmark < 1 || s.Landmark > landmark.NumLandmarks {
			return nil, fmt.Errorf("sample %d: landmark index %d out of range 1..%d",
				i, s.Landmark, landmark.NumLandmarks)
		}
		e := s.Truth.Distance(s.Pred)
		errs[i] = e
		byLandmark[s.Landmark] = append(byLandmark[s.Landmark], e)
	}

	// Summation order affects the low bits of a float sum; fix the order
	// by sorting so the reduction is independent of how samples arrive.
	sort.Float64s(errs)

	n := float64(len(errs))
	mean := floats.Sum(errs) / n

	dev := make([]float64, len(errs))
	for i, e := range errs {
		d := e - mean
		dev[i] = d * d
	}
	std := math.Sqrt(floats.Sum(dev) / n)

	sdr := make(map[float64]float64, len(thresholds))
	for _, t := range thresholds {
		hits := 0
		for _, e := range errs {
			if e < t {
				hits++
			}
		}
		sdr[t] = float64(hits) / n * 100
	}

	perLandmark := make(map[int]float64, landmark.NumLandmarks)
	for idx := 1; idx <= landmark.NumLandmarks; idx++ {
		if le := byLandmark[idx]; len(le) > 0 {
			sort.Float64s(le)
			perLandmark[idx] = floats.Sum(le) / float64(len(le))
		} else {
			perLandmark[idx] = math.NaN()
		}
	}

	return &Report{
		MRE:         mean,
		Std:         std,
		SDR:         sdr,
		PerLandmark: perLandmark,
		Samples:     len(samples),
	}, nil
}

// MarshalJSON emits the flat report schema consumed downstream:
//
//	{"mre": ..., "std": ..., "sdr_2px": ..., "per_landmark_mre": {"1": ...}}
//
// NaN per-landmark entries become null; JSON has no NaN.
func (r *Report) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, 4+len(r.SDR))
	out["mre"] = r.MRE
	out["std"] = r.Std
	out["samples"] = r.Samples
	for t, v := range r.SDR {
		out[fmt.Sprintf("sdr_%gpx", t)] = v
	}

	perLandmark := make(map[string]interface{}, len(r.PerLandmark))
	for idx, v := range r.PerLandmark {
		if math.IsNaN(v) {
			perLandmark[strconv.Itoa(idx)] = nil
		} else {
			perLandmark[strconv.Itoa(idx)] = v
		}
	}
	out["per_landmark_mre"] = perLandmark

	return json.Marshal(out)
}
