package main

import (
	"fmt"
	"os"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/osteomark/landmark-tools/internal/heatmap"
	"github.com/osteomark/landmark-tools/internal/landmark"
	"github.com/osteomark/landmark-tools/internal/predict"
)

var (
	encAnnotations string
	encName        string
	encWidth       int
	encHeight      int
	encSigma       float64
	encOutDir      string
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Render Gaussian heatmaps for one annotated image",
	RunE:  runEncode,
}

func runEncode(cmd *cobra.Command, args []string) error {
	set, err := lookupAnnotation(encAnnotations, encName)
	if err != nil {
		return err
	}

	heatmaps, err := heatmap.EncodeSet(set, encWidth, encHeight, encSigma)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(encOutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for i, hm := range heatmaps {
		path := fmt.Sprintf("%s/landmark_%02d.png", encOutDir, i+1)
		if err := imaging.Save(heatmap.Render(hm), path); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
		log.Debugf("wrote %s (%s)", path, landmark.Name(i+1))
	}
	log.Infof("wrote %d heatmaps to %s", len(heatmaps), encOutDir)
	return nil
}

func init() {
	encodeCmd.Flags().StringVar(&encAnnotations, "annotations", "", "Annotation CSV file (required)")
	encodeCmd.Flags().StringVar(&encName, "name", "", "Image name inside the annotation file")
	encodeCmd.Flags().IntVar(&encWidth, "width", predict.DefaultInputWidth, "Heatmap width")
	encodeCmd.Flags().IntVar(&encHeight, "height", predict.DefaultInputHeight, "Heatmap height")
	encodeCmd.Flags().Float64Var(&encSigma, "sigma", 5.0, "Gaussian sigma")
	encodeCmd.Flags().StringVar(&encOutDir, "out", "heatmaps", "Output directory")
	_ = encodeCmd.MarkFlagRequired("annotations")
	rootCmd.AddCommand(encodeCmd)
}
