package pipeline

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"skin-retoucher/internal/logger"
)

// ImageSaver encodes frames to disk, choosing the format by extension.
type ImageSaver struct {
	logger logger.Logger
}

func NewImageSaver(log logger.Logger) *ImageSaver {
	if log == nil {
		log = logger.Nop()
	}
	return &ImageSaver{logger: log}
}

// SaveImage writes img to path without logging.
func SaveImage(path string, img image.Image) error {
	return NewImageSaver(nil).SaveToPath(path, img)
}

// FormatFromPath maps a file extension to an encoder name.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	}
	return ""
}

func (s *ImageSaver) SaveToPath(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, path, err)
	}

	format, err := s.SaveToWriter(f, img, FormatFromPath(path))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, path, err)
	}

	s.logger.Info("ImageSaver", "image saved", map[string]interface{}{
		"path":   path,
		"format": format,
	})
	return nil
}

// SaveToWriter encodes img as format and returns the format actually used.
// Formats without an encoder fall back to PNG.
func (s *ImageSaver) SaveToWriter(w io.Writer, img image.Image, format string) (string, error) {
	if img == nil {
		return "", fmt.Errorf("no image data to save")
	}

	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case "png":
		err = png.Encode(w, img)
	case "bmp":
		err = bmp.Encode(w, img)
	case "tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		s.logger.Warning("ImageSaver", "format not supported, using PNG", map[string]interface{}{
			"requested_format": strings.ToUpper(format),
		})
		format = "png"
		err = png.Encode(w, img)
	}
	if err != nil {
		return format, err
	}
	return format, nil
}
