package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"skin-retoucher/internal/models"
)

// LoadImage reads and decodes path into an RGBA frame anchored at (0,0).
func LoadImage(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}

	img, _, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Decode decodes any registered format and reports its name.
func Decode(r io.Reader) (*image.RGBA, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if img.Bounds().Empty() {
		return nil, format, fmt.Errorf("%w: empty image", ErrUnreadable)
	}
	return models.ToRGBA(img), format, nil
}
