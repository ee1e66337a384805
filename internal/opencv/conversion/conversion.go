//go:build gocv
// +build gocv

package conversion

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"skin-retoucher/internal/models"
)

// RGBAToMat converts a frame to an 8-bit BGR Mat.
func RGBAToMat(img *image.RGBA) (gocv.Mat, error) {
	b := img.Bounds()
	if err := ValidateDimensions(b.Dx(), b.Dy(), "RGBAToMat"); err != nil {
		return gocv.NewMat(), err
	}
	if b.Min != (image.Point{}) || img.Stride != 4*b.Dx() {
		img = models.ToRGBA(img)
	}

	rgba, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC4, img.Pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("wrap RGBA pixels: %w", err)
	}
	defer rgba.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR)
	if bgr.Empty() {
		bgr.Close()
		return gocv.NewMat(), fmt.Errorf("RGBA to BGR conversion produced an empty Mat")
	}
	return bgr, nil
}

// MatToRGBA converts a BGR or single-channel Mat back to a frame.
func MatToRGBA(mat gocv.Mat) (*image.RGBA, error) {
	if err := ValidateMatForOperation(mat, "MatToRGBA"); err != nil {
		return nil, err
	}

	code := gocv.ColorBGRToRGBA
	switch mat.Channels() {
	case 1:
		code = gocv.ColorGrayToRGBA
	case 3:
	case 4:
		code = gocv.ColorBGRAToRGBA
	default:
		return nil, fmt.Errorf("unsupported channel count: %d", mat.Channels())
	}
	if err := ValidateColorConversion(mat, code); err != nil {
		return nil, err
	}

	rgba := gocv.NewMat()
	defer rgba.Close()
	gocv.CvtColor(mat, &rgba, code)

	return &image.RGBA{
		Pix:    rgba.ToBytes(),
		Stride: 4 * rgba.Cols(),
		Rect:   image.Rect(0, 0, rgba.Cols(), rgba.Rows()),
	}, nil
}

// GrayToMat converts a mask to a CV_8UC1 Mat.
func GrayToMat(m *image.Gray) (gocv.Mat, error) {
	b := m.Bounds()
	if err := ValidateDimensions(b.Dx(), b.Dy(), "GrayToMat"); err != nil {
		return gocv.NewMat(), err
	}

	pix := m.Pix
	if b.Min != (image.Point{}) || m.Stride != b.Dx() {
		pix = make([]byte, 0, b.Dx()*b.Dy())
		for y := b.Min.Y; y < b.Max.Y; y++ {
			pix = append(pix, m.Pix[m.PixOffset(b.Min.X, y):m.PixOffset(b.Max.X, y)]...)
		}
	}

	wrapped, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC1, pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("wrap mask pixels: %w", err)
	}
	defer wrapped.Close()
	return wrapped.Clone(), nil
}

// MatToGray converts a single-channel 8-bit Mat to a mask.
func MatToGray(mat gocv.Mat) (*image.Gray, error) {
	if err := ValidateMatForOperation(mat, "MatToGray"); err != nil {
		return nil, err
	}
	if mat.Type() != gocv.MatTypeCV8UC1 {
		return nil, fmt.Errorf("MatToGray requires CV_8UC1, got %v", mat.Type())
	}

	return &image.Gray{
		Pix:    mat.ToBytes(),
		Stride: mat.Cols(),
		Rect:   image.Rect(0, 0, mat.Cols(), mat.Rows()),
	}, nil
}
