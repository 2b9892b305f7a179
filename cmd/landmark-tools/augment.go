package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/osteomark/landmark-tools/internal/augment"
	"github.com/osteomark/landmark-tools/internal/heatmap"
	"github.com/osteomark/landmark-tools/internal/landmark"
)

var (
	augImagePath   string
	augAnnotations string
	augName        string
	augConfigPath  string
	augSamples     int
	augSeed        int64
	augOutDir      string
	augHeatmaps    bool
	augSigma       float64
)

var augmentCmd = &cobra.Command{
	Use:   "augment",
	Short: "Preview the augmentation pipeline on an annotated image",
	Long: `Augment applies N seeded augmentation passes to a single annotated image
and writes each variant to the output directory. Every sample uses its own
derived seed, so the same invocation always produces the same variants.`,
	RunE: runAugment,
}

func runAugment(cmd *cobra.Command, args []string) error {
	img, err := imaging.Open(augImagePath)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}

	set, err := lookupAnnotation(augAnnotations, augName)
	if err != nil {
		return err
	}

	cfg := augment.DefaultConfig()
	if augConfigPath != "" {
		cfg, err = augment.LoadConfig(augConfigPath)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(augOutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	bar := progressbar.Default(int64(augSamples), "augmenting")
	for i := 0; i < augSamples; i++ {
		rng := rand.New(rand.NewSource(augSeed + int64(i)))
		out, outSet, err := augment.Apply(img, set, cfg, rng)
		if err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}

		path := filepath.Join(augOutDir, fmt.Sprintf("sample_%03d.png", i))
		if err := imaging.Save(out, path); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}

		if augHeatmaps {
			b := out.Bounds()
			if err := writeHeatmaps(outSet, b.Dx(), b.Dy(), augSigma,
				filepath.Join(augOutDir, fmt.Sprintf("sample_%03d_heatmaps", i))); err != nil {
				return fmt.Errorf("sample %d: %w", i, err)
			}
		}
		_ = bar.Add(1)
	}

	log.Infof("wrote %d augmented samples to %s", augSamples, augOutDir)
	return nil
}

// lookupAnnotation loads an annotation CSV and picks one image's landmark set.
// With an empty name the file must contain exactly one image.
func lookupAnnotation(path, name string) (landmark.Set, error) {
	annotations, err := readAnnotationFile(path)
	if err != nil {
		return landmark.Set{}, err
	}

	if name == "" {
		if len(annotations) != 1 {
			return landmark.Set{}, fmt.Errorf("%s contains %d images, pass --name to pick one", path, len(annotations))
		}
		for _, set := range annotations {
			return set, nil
		}
	}

	set, ok := annotations[name]
	if !ok {
		return landmark.Set{}, fmt.Errorf("no annotation named %q in %s", name, path)
	}
	return set, nil
}

// writeHeatmaps renders one Gaussian heatmap image per annotated landmark.
func writeHeatmaps(set landmark.Set, width, height int, sigma float64, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create heatmap directory: %w", err)
	}
	for i := 1; i <= landmark.NumLandmarks; i++ {
		p, ok := set.Get(i)
		if !ok {
			continue
		}
		hm, err := heatmap.Encode(p, width, height, sigma)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf("landmark_%02d.png", i))
		if err := imaging.Save(heatmap.Render(hm), path); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
	}
	return nil
}

func init() {
	augmentCmd.Flags().StringVar(&augImagePath, "image", "", "Radiograph to augment (required)")
	augmentCmd.Flags().StringVar(&augAnnotations, "annotations", "", "Annotation CSV file (required)")
	augmentCmd.Flags().StringVar(&augName, "name", "", "Image name inside the annotation file")
	augmentCmd.Flags().StringVar(&augConfigPath, "config", "", "YAML augmentation config (defaults used when omitted)")
	augmentCmd.Flags().IntVar(&augSamples, "samples", 8, "Number of augmented variants to generate")
	augmentCmd.Flags().Int64Var(&augSeed, "seed", 42, "Base seed; sample i uses seed+i")
	augmentCmd.Flags().StringVar(&augOutDir, "out", "augmented", "Output directory")
	augmentCmd.Flags().BoolVar(&augHeatmaps, "heatmaps", false, "Also render Gaussian heatmaps per variant")
	augmentCmd.Flags().Float64Var(&augSigma, "sigma", 5.0, "Gaussian sigma for heatmap rendering")
	_ = augmentCmd.MarkFlagRequired("image")
	_ = augmentCmd.MarkFlagRequired("annotations")
	rootCmd.AddCommand(augmentCmd)
}
