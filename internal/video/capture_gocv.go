//go:build gocv
// +build gocv

package video

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"skin-retoucher/internal/opencv/conversion"
	"skin-retoucher/internal/pipeline"
)

const (
	fourcc     = "mp4v"
	windowName = "Skin Retoucher"
	keyEsc     = 27
)

type captureSource struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
}

// OpenFile opens a video file for reading.
func OpenFile(path string) (FrameSource, Info, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, Info{}, fmt.Errorf("%w: %s: %v", pipeline.ErrInputNotFound, path, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, Info{}, fmt.Errorf("%w: %s", pipeline.ErrUnreadable, path)
	}

	info := Info{
		Width:  int(capture.Get(gocv.VideoCaptureFrameWidth)),
		Height: int(capture.Get(gocv.VideoCaptureFrameHeight)),
		FPS:    capture.Get(gocv.VideoCaptureFPS),
		Frames: int64(capture.Get(gocv.VideoCaptureFrameCount)),
	}
	if info.FPS <= 0 {
		info.FPS = 25
	}
	return &captureSource{capture: capture, mat: gocv.NewMat()}, info, nil
}

func (s *captureSource) Read() (*image.RGBA, bool, error) {
	if ok := s.capture.Read(&s.mat); !ok || s.mat.Empty() {
		return nil, false, nil
	}
	frame, err := conversion.MatToRGBA(s.mat)
	if err != nil {
		return nil, false, err
	}
	return frame, true, nil
}

func (s *captureSource) Close() error {
	s.mat.Close()
	return s.capture.Close()
}

type writerSink struct {
	writer *gocv.VideoWriter
}

// CreateFile opens an mp4v writer matching info.
func CreateFile(path string, info Info) (FrameSink, error) {
	writer, err := gocv.VideoWriterFile(path, fourcc, info.FPS, info.Width, info.Height, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", pipeline.ErrWriteFailed, path, err)
	}
	return &writerSink{writer: writer}, nil
}

func (s *writerSink) Write(frame *image.RGBA) error {
	mat, err := conversion.RGBAToMat(frame)
	if err != nil {
		return err
	}
	defer mat.Close()
	return s.writer.Write(mat)
}

func (s *writerSink) Close() error {
	return s.writer.Close()
}

type windowPreview struct {
	window *gocv.Window
}

func newWindowPreview() *windowPreview {
	return &windowPreview{window: gocv.NewWindow(windowName)}
}

func (p *windowPreview) Show(frame *image.RGBA) bool {
	mat, err := conversion.RGBAToMat(frame)
	if err != nil {
		return false
	}
	defer mat.Close()
	p.window.IMShow(mat)
	return p.window.WaitKey(1)&0xFF == keyEsc
}

func (p *windowPreview) Close() error {
	return p.window.Close()
}

// Run retouches the video at in and writes it to out.
func (r *Runner) Run(ctx context.Context, in, out string) (Stats, error) {
	src, info, err := OpenFile(in)
	if err != nil {
		return Stats{}, err
	}
	defer src.Close()

	sink, err := CreateFile(out, info)
	if err != nil {
		return Stats{}, err
	}

	r.log.Info("Video", "processing stream", map[string]interface{}{
		"input":  in,
		"output": out,
		"width":  info.Width,
		"height": info.Height,
		"fps":    info.FPS,
		"frames": info.Frames,
	})

	var preview Preview
	if r.preview {
		w := newWindowPreview()
		defer w.Close()
		preview = w
	}

	stats, loopErr := r.Loop(ctx, src, sink, preview, info.Frames)
	if err := sink.Close(); err != nil && loopErr == nil {
		loopErr = fmt.Errorf("%w: %s: %v", pipeline.ErrWriteFailed, out, err)
	}
	return stats, loopErr
}
