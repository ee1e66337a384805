package main

import (
	"context"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"skin-retoucher/internal/models"
	"skin-retoucher/internal/pipeline"
)

type autoOptions struct {
	Input        string
	Output       string
	Compare      string
	CompareWidth uint
}

var autoOpts autoOptions

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Detect faces, remove blemishes and smooth skin in a single image",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runAuto(cmd.Context(), autoOpts)
	},
}

func init() {
	autoCmd.Flags().StringVarP(&autoOpts.Input, "input", "i", "", "Path to input image")
	autoCmd.Flags().StringVarP(&autoOpts.Output, "output", "o", "", "Path to output image (default: <input>_retouched.<ext>)")
	autoCmd.Flags().StringVar(&autoOpts.Compare, "compare", "", "Also write a before/after sheet to this path")
	autoCmd.Flags().UintVar(&autoOpts.CompareWidth, "compare-width", 1600, "Maximum width of the comparison sheet")

	autoCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(autoCmd)
}

func runAuto(ctx context.Context, opts autoOptions) error {
	if opts.Output == "" {
		opts.Output = defaultOutput(opts.Input)
	}

	frame, err := pipeline.LoadImage(opts.Input)
	if err != nil {
		return err
	}

	retoucher, err := newRetoucher()
	if err != nil {
		return err
	}

	before := models.CloneRGBA(frame)
	res, err := retoucher.Process(ctx, frame)
	if err != nil {
		return fmt.Errorf("retouch %s: %w", opts.Input, err)
	}
	if res.Faces == 0 {
		log.Warning("Auto", "no face detected; writing image unchanged", map[string]interface{}{
			"input": opts.Input,
		})
	}

	saver := pipeline.NewImageSaver(log)
	if err := saver.SaveToPath(opts.Output, frame); err != nil {
		return err
	}

	fields := map[string]interface{}{
		"output":      opts.Output,
		"faces":       res.Faces,
		"blemishes":   res.Blemishes,
		"corrected":   res.Corrected,
		"skipped":     res.Skipped,
		"failed":      res.Failed,
		"smoothed":    res.Smoothed,
		"duration_ms": res.Duration.Milliseconds(),
	}
	if psnr, err := pipeline.PSNR(before, frame); err == nil && !math.IsInf(psnr, 1) {
		fields["psnr_db"] = psnr
	}
	for name, d := range res.Stages {
		fields["stage_"+name+"_ms"] = d.Milliseconds()
	}
	log.Info("Auto", "image retouched", fields)

	if opts.Compare != "" {
		sheet := pipeline.SideBySide(before, frame, opts.CompareWidth)
		if err := saver.SaveToPath(opts.Compare, sheet); err != nil {
			return fmt.Errorf("comparison sheet: %w", err)
		}
	}
	return nil
}
