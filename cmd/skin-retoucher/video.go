package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"skin-retoucher/internal/video"
)

type videoOptions struct {
	Input   string
	Output  string
	Preview bool
}

var videoOpts videoOptions

var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "Retouch every frame of a video",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runVideo(cmd.Context(), videoOpts)
	},
}

func init() {
	videoCmd.Flags().StringVarP(&videoOpts.Input, "input", "i", "", "Path to input video")
	videoCmd.Flags().StringVarP(&videoOpts.Output, "output", "o", "retouched.mp4", "Path to output video")
	videoCmd.Flags().BoolVarP(&videoOpts.Preview, "preview", "p", false, "Show processed frames in a window (Esc stops)")

	videoCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(videoCmd)
}

func runVideo(ctx context.Context, opts videoOptions) error {
	retoucher, err := newRetoucher()
	if err != nil {
		return err
	}

	runner := video.NewRunner(retoucher, log, os.Stderr, opts.Preview)
	stats, err := runner.Run(ctx, opts.Input, opts.Output)
	log.Info("Video", "video finished", map[string]interface{}{
		"output":      opts.Output,
		"frames":      stats.Frames,
		"faces":       stats.Faces,
		"corrected":   stats.Corrected,
		"skipped":     stats.Skipped,
		"stopped":     stats.Stopped,
		"duration_ms": stats.Duration.Milliseconds(),
	})
	return err
}
