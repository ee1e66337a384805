//go:build gocv
// +build gocv

package conversion

import (
	"fmt"

	"gocv.io/x/gocv"
)

// ValidateMatForOperation rejects empty or degenerate Mats before they reach
// OpenCV.
func ValidateMatForOperation(mat gocv.Mat, operation string) error {
	if mat.Empty() {
		return fmt.Errorf("Mat is empty for operation: %s", operation)
	}

	if mat.Rows() <= 0 || mat.Cols() <= 0 {
		return fmt.Errorf("Mat has invalid dimensions %dx%d for operation: %s",
			mat.Cols(), mat.Rows(), operation)
	}

	return nil
}

func ValidateColorConversion(src gocv.Mat, code gocv.ColorConversionCode) error {
	channels := src.Channels()

	switch code {
	case gocv.ColorBGRToGray, gocv.ColorBGRToHSV, gocv.ColorBGRToRGBA:
		if channels != 3 {
			return fmt.Errorf("BGR conversion requires 3 channels, got %d", channels)
		}
	case gocv.ColorGrayToBGR, gocv.ColorGrayToRGBA:
		if channels != 1 {
			return fmt.Errorf("Gray conversion requires 1 channel, got %d", channels)
		}
	case gocv.ColorBGRAToRGBA, gocv.ColorRGBAToBGR:
		if channels != 4 {
			return fmt.Errorf("4-channel conversion requires 4 channels, got %d", channels)
		}
	}

	return nil
}

func ValidateDimensions(width, height int, operation string) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d for operation: %s", width, height, operation)
	}

	if width > 32768 || height > 32768 {
		return fmt.Errorf("dimensions %dx%d exceed maximum size for operation: %s", width, height, operation)
	}

	return nil
}

// ValidateSameSize checks that a mask matches the frame it applies to.
func ValidateSameSize(a, b gocv.Mat, operation string) error {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return fmt.Errorf("size mismatch %dx%d vs %dx%d for operation: %s",
			a.Cols(), a.Rows(), b.Cols(), b.Rows(), operation)
	}
	return nil
}
