// Package vision implements the pipeline stages on top of OpenCV: cascade
// face detection, the HSV skin model, GrabCut refinement, gradient blob
// detection, bilateral smoothing and seamless cloning. Without the gocv
// build tag every stage reports ErrUnavailable.
package vision

import (
	"errors"
	"image"
	"math"

	"skin-retoucher/internal/config"
	"skin-retoucher/internal/models"
	"skin-retoucher/internal/pipeline"
	"skin-retoucher/internal/retouch"
)

var ErrUnavailable = errors.New("opencv backend unavailable: rebuild with -tags gocv")

var (
	_ pipeline.FaceDetector    = (*Backend)(nil)
	_ pipeline.SkinSegmenter   = (*Backend)(nil)
	_ pipeline.MaskRefiner     = (*Backend)(nil)
	_ pipeline.BlemishDetector = (*Backend)(nil)
	_ pipeline.Smoother        = (*Backend)(nil)
	_ retouch.Cloner           = (*Backend)(nil)
)

// Stages wires every pipeline stage to b. Cloning uses cv::seamlessClone
// unless cloneMethod selects the Poisson cloner.
func (b *Backend) Stages(cloneMethod string) pipeline.Stages {
	s := pipeline.Stages{
		Faces:     b,
		Skin:      b,
		Refiner:   b,
		Blemishes: b,
		Smoother:  b,
	}
	if cloneMethod != config.CloneMethodPoisson {
		s.Cloner = b
	}
	return s
}

// OpenCV stores 8-bit hue as degrees/2.
var hsvMax = [3]float64{180, 255, 255}

// SkinBounds derives the inclusive HSV range mean ± k·σ per channel.
func SkinBounds(mean, std [3]float64, k float64) (lo, hi [3]float64) {
	for i := range mean {
		spread := k * std[i]
		lo[i] = math.Max(0, mean[i]-spread)
		hi[i] = math.Min(hsvMax[i], mean[i]+spread)
	}
	return lo, hi
}

// GrabCut mask labels.
const (
	gcBackground         = 0
	gcForeground         = 1
	gcProbableBackground = 2
	gcProbableForeground = 3
)

// Trimap labels a binary mask for GrabCut: zero is background, set pixels
// are probable foreground and pixels that survive erosion are foreground.
func Trimap(mask, eroded []byte) []byte {
	out := make([]byte, len(mask))
	for i, v := range mask {
		switch {
		case v == 0:
			out[i] = gcBackground
		case eroded[i] > 0:
			out[i] = gcForeground
		default:
			out[i] = gcProbableForeground
		}
	}
	return out
}

// trimapUsable reports whether GrabCut has samples for both models.
func trimapUsable(labels []byte) bool {
	var bg, fg bool
	for _, v := range labels {
		switch v {
		case gcBackground, gcProbableBackground:
			bg = true
		case gcForeground, gcProbableForeground:
			fg = true
		}
		if bg && fg {
			return true
		}
	}
	return false
}

// GrabCutForeground maps GrabCut labels to a binary mask.
func GrabCutForeground(labels []byte) []byte {
	out := make([]byte, len(labels))
	for i, v := range labels {
		if v == gcForeground || v == gcProbableForeground {
			out[i] = 255
		}
	}
	return out
}

// Binarize sets every non-zero pixel to 255.
func Binarize(m *image.Gray) *image.Gray {
	out := image.NewGray(m.Bounds())
	for i, v := range m.Pix {
		if v > 0 {
			out.Pix[i] = 255
		}
	}
	return out
}

// Keypoint is a blob centre and diameter in region coordinates.
type Keypoint struct {
	X, Y float64
	Size float64
}

// KeypointsToBlemishes keeps keypoints whose centre lies on a set mask
// pixel.
func KeypointsToBlemishes(kps []Keypoint, mask *image.Gray) []models.Blemish {
	var out []models.Blemish
	for _, kp := range kps {
		p := image.Pt(int(math.Round(kp.X)), int(math.Round(kp.Y)))
		if !p.In(mask.Bounds()) || mask.GrayAt(p.X, p.Y).Y == 0 {
			continue
		}
		out = append(out, models.Blemish{
			Center: p,
			Radius: max(1, int(math.Round(kp.Size/2))),
		})
	}
	return out
}

// minFaceSize scales the detector's minimum window with the frame.
func minFaceSize(frame image.Rectangle) image.Point {
	side := max(30, min(frame.Dx(), frame.Dy())/10)
	return image.Pt(side, side)
}
