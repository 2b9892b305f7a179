package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/osteomark/landmark-tools/internal/dataset"
)

var (
	splitAnnotations string
	splitTrainRatio  float64
	splitValRatio    float64
	splitSeed        int64
	splitList        bool
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Deterministically partition an annotated dataset into train/val/test",
	RunE:  runSplit,
}

func runSplit(cmd *cobra.Command, args []string) error {
	ids, err := annotationIDs(splitAnnotations)
	if err != nil {
		return err
	}
	log.Infof("loaded %d annotated images from %s", len(ids), splitAnnotations)

	s, err := dataset.SplitItems(ids, splitTrainRatio, splitValRatio, splitSeed)
	if errors.Is(err, dataset.ErrSplitUnavailable) {
		// Too few items for a three-way split: fall back to a single group.
		log.Warnf("%v; treating all items as one undivided group", err)
		fmt.Printf("all (%d):\n", len(ids))
		for _, id := range ids {
			fmt.Printf("  %s\n", id)
		}
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("seed %d, ratios %.2f/%.2f/%.2f\n",
		splitSeed, splitTrainRatio, splitValRatio, 1-splitTrainRatio-splitValRatio)
	printGroup("train", s.Train)
	printGroup("val", s.Val)
	printGroup("test", s.Test)
	return nil
}

func printGroup(name string, ids []string) {
	fmt.Printf("%s (%d):\n", name, len(ids))
	if !splitList {
		return
	}
	for _, id := range ids {
		fmt.Printf("  %s\n", id)
	}
}

// annotationIDs returns the image identifiers of an annotation file, sorted
// so the splitter sees a stable input order.
func annotationIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open annotations: %w", err)
	}
	defer f.Close()

	annotations, err := dataset.ReadAnnotations(f)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(annotations))
	for id := range annotations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func init() {
	splitCmd.Flags().StringVar(&splitAnnotations, "annotations", "", "Annotation CSV file (required)")
	splitCmd.Flags().Float64Var(&splitTrainRatio, "train", 0.70, "Training set ratio")
	splitCmd.Flags().Float64Var(&splitValRatio, "val", 0.15, "Validation set ratio")
	splitCmd.Flags().Int64Var(&splitSeed, "seed", 42, "Shuffle seed")
	splitCmd.Flags().BoolVar(&splitList, "list", false, "List the members of each group")
	_ = splitCmd.MarkFlagRequired("annotations")
	rootCmd.AddCommand(splitCmd)
}
