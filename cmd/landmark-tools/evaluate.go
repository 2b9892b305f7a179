package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/osteomark/landmark-tools/internal/dataset"
	"github.com/osteomark/landmark-tools/internal/landmark"
	"github.com/osteomark/landmark-tools/internal/metrics"
)

var (
	evalTruthPath string
	evalPredPath  string
	evalJSONPath  string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score predicted landmarks against ground truth",
	Long: `Evaluate pairs a ground-truth annotation CSV with a prediction CSV in the
same format and reports MRE, standard deviation, SDR at the standard pixel
thresholds, and per-landmark mean errors. Both files must use the same
coordinate frame.`,
	RunE: runEvaluate,
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	truth, err := readAnnotationFile(evalTruthPath)
	if err != nil {
		return err
	}
	pred, err := readAnnotationFile(evalPredPath)
	if err != nil {
		return err
	}

	samples := pairSamples(truth, pred)
	log.Infof("paired %d samples across %d ground-truth images", len(samples), len(truth))

	report, err := metrics.Evaluate(samples, nil)
	if errors.Is(err, metrics.ErrNoSamples) {
		return fmt.Errorf("no overlapping annotated landmarks between %s and %s", evalTruthPath, evalPredPath)
	}
	if err != nil {
		return err
	}

	printReport(report)

	if evalJSONPath != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		if err := os.WriteFile(evalJSONPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		log.Infof("wrote JSON report to %s", evalJSONPath)
	}
	return nil
}

// pairSamples matches truth and prediction sets image by image, landmark by
// landmark. Landmarks absent from either side are skipped, never fabricated.
func pairSamples(truth, pred map[string]landmark.Set) []metrics.Sample {
	names := make([]string, 0, len(truth))
	for name := range truth {
		names = append(names, name)
	}
	sort.Strings(names)

	var samples []metrics.Sample
	for _, name := range names {
		predSet, ok := pred[name]
		if !ok {
			log.Debugf("no predictions for %s", name)
			continue
		}
		truthSet := truth[name]
		for i := 1; i <= landmark.NumLandmarks; i++ {
			gt, okT := truthSet.Get(i)
			pp, okP := predSet.Get(i)
			if !okT || !okP {
				continue
			}
			samples = append(samples, metrics.Sample{Truth: gt, Pred: pp, Landmark: i})
		}
	}
	return samples
}

func printReport(report *metrics.Report) {
	fmt.Printf("Samples: %d\n\n", report.Samples)
	fmt.Printf("Mean Radial Error (MRE): %.2f +/- %.2f pixels\n", report.MRE, report.Std)

	thresholds := make([]float64, 0, len(report.SDR))
	for t := range report.SDR {
		thresholds = append(thresholds, t)
	}
	sort.Float64s(thresholds)
	for _, t := range thresholds {
		fmt.Printf("SDR @ %gpx: %.1f%%\n", t, report.SDR[t])
	}

	fmt.Printf("\nPer-Landmark MRE (pixels):\n")
	type entry struct {
		index int
		mre   float64
	}
	var measured []entry
	for i := 1; i <= landmark.NumLandmarks; i++ {
		mre := report.PerLandmark[i]
		if math.IsNaN(mre) {
			fmt.Printf("  %2d. %-25s   n/a\n", i, landmark.Name(i))
			continue
		}
		fmt.Printf("  %2d. %-25s %6.2f\n", i, landmark.Name(i), mre)
		measured = append(measured, entry{i, mre})
	}

	if len(measured) < 2 {
		return
	}
	sort.Slice(measured, func(i, j int) bool { return measured[i].mre < measured[j].mre })
	best := measured[0]
	worst := measured[len(measured)-1]
	fmt.Printf("\nBest landmark:  %s (%.2fpx)\n", landmark.Name(best.index), best.mre)
	fmt.Printf("Worst landmark: %s (%.2fpx)\n", landmark.Name(worst.index), worst.mre)
}

func readAnnotationFile(path string) (map[string]landmark.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	annotations, err := dataset.ReadAnnotations(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return annotations, nil
}

func init() {
	evaluateCmd.Flags().StringVar(&evalTruthPath, "truth", "", "Ground-truth annotation CSV (required)")
	evaluateCmd.Flags().StringVar(&evalPredPath, "pred", "", "Prediction CSV in the same format (required)")
	evaluateCmd.Flags().StringVar(&evalJSONPath, "json", "", "Also write the report as JSON to this path")
	_ = evaluateCmd.MarkFlagRequired("truth")
	_ = evaluateCmd.MarkFlagRequired("pred")
	rootCmd.AddCommand(evaluateCmd)
}
