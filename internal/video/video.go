// Package video applies the retouching pipeline to every frame of a video.
package video

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"skin-retoucher/internal/logger"
	"skin-retoucher/internal/pipeline"
)

var ErrUnavailable = errors.New("video support unavailable: rebuild with -tags gocv")

// FrameSource yields frames in order. ok is false at end of stream.
type FrameSource interface {
	Read() (frame *image.RGBA, ok bool, err error)
	Close() error
}

// FrameSink receives processed frames.
type FrameSink interface {
	Write(frame *image.RGBA) error
	Close() error
}

// Preview displays processed frames; it returns true when the user asked to
// stop.
type Preview interface {
	Show(frame *image.RGBA) (stop bool)
	Close() error
}

// Processor is satisfied by *pipeline.Retoucher.
type Processor interface {
	Process(ctx context.Context, frame *image.RGBA) (*pipeline.Result, error)
}

// Info describes a stream.
type Info struct {
	Width  int
	Height int
	FPS    float64
	Frames int64
}

// Stats accumulates per-frame results.
type Stats struct {
	Frames    int
	Faces     int
	Corrected int
	Skipped   int
	Stopped   bool
	Duration  time.Duration
}

type Runner struct {
	proc     Processor
	log      logger.Logger
	progress io.Writer
	preview  bool
}

// NewRunner creates a runner writing its progress bar to progress (nil
// disables it). preview opens a window when OpenCV is available.
func NewRunner(proc Processor, log logger.Logger, progress io.Writer, preview bool) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Runner{proc: proc, log: log, progress: progress, preview: preview}
}

// Loop processes src into sink until the stream ends, the preview asks to
// stop or ctx is cancelled. A stop request is not an error; output written
// so far is kept. total <= 0 shows a spinner.
func (r *Runner) Loop(ctx context.Context, src FrameSource, sink FrameSink, preview Preview, total int64) (Stats, error) {
	start := time.Now()
	var stats Stats

	if total <= 0 {
		total = -1
	}
	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetDescription("Retouching"),
		progressbar.OptionSetWriter(r.progress),
		progressbar.OptionShowCount(),
	)
	defer bar.Finish()

	for {
		if ctx.Err() != nil {
			stats.Stopped = true
			break
		}

		frame, ok, err := src.Read()
		if err != nil {
			return stats, fmt.Errorf("read frame %d: %w", stats.Frames, err)
		}
		if !ok {
			break
		}

		res, err := r.proc.Process(ctx, frame)
		if err != nil {
			if ctx.Err() != nil {
				stats.Stopped = true
				break
			}
			return stats, fmt.Errorf("process frame %d: %w", stats.Frames, err)
		}
		stats.Faces += res.Faces
		stats.Corrected += res.Corrected
		stats.Skipped += res.Skipped

		if err := sink.Write(frame); err != nil {
			return stats, fmt.Errorf("%w: frame %d: %v", pipeline.ErrWriteFailed, stats.Frames, err)
		}
		stats.Frames++
		bar.Add(1)

		if preview != nil && preview.Show(frame) {
			stats.Stopped = true
			break
		}
	}

	stats.Duration = time.Since(start)
	r.log.Info("Video", "stream processed", map[string]interface{}{
		"frames":      stats.Frames,
		"faces":       stats.Faces,
		"corrected":   stats.Corrected,
		"skipped":     stats.Skipped,
		"stopped":     stats.Stopped,
		"duration_ms": stats.Duration.Milliseconds(),
	})
	return stats, nil
}
