package retouch

import (
	"fmt"
	"image"
	"math"
)

// CircleMask returns a (2r+1) square mask with the filled disc of radius r
// set to 255.
func CircleMask(radius int) *image.Gray {
	d := 2*radius + 1
	m := image.NewGray(image.Rect(0, 0, d, d))
	r2 := radius * radius
	for j := 0; j < d; j++ {
		for i := 0; i < d; i++ {
			dx, dy := i-radius, j-radius
			if dx*dx+dy*dy <= r2 {
				m.Pix[j*m.Stride+i] = 255
			}
		}
	}
	return m
}

// InvertMask returns 255 - m.
func InvertMask(m *image.Gray) *image.Gray {
	b := m.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		src := m.Pix[m.PixOffset(b.Min.X, y):m.PixOffset(b.Max.X, y)]
		dst := out.Pix[out.PixOffset(b.Min.X, y):out.PixOffset(b.Max.X, y)]
		for i, v := range src {
			dst[i] = 255 - v
		}
	}
	return out
}

// BlendMasked mixes smoothed into original through mask:
//
//	out = smoothed*w + original*(1-w), w = mask/255 * strength/100
//
// The inverted mask is the weight kept from original, so pixels where the
// mask is zero come back bit-identical. All three inputs must share bounds.
func BlendMasked(original, smoothed *image.RGBA, mask *image.Gray, strength int) (*image.RGBA, error) {
	b := original.Bounds()
	if smoothed.Bounds() != b || mask.Bounds() != b {
		return nil, fmt.Errorf("blend size mismatch: original %v smoothed %v mask %v",
			b, smoothed.Bounds(), mask.Bounds())
	}
	s := math.Max(0, math.Min(100, float64(strength))) / 100
	keep := InvertMask(mask)

	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			w := s * float64(255-keep.Pix[keep.PixOffset(x, y)]) / 255
			k := 1 - w
			oi := original.PixOffset(x, y)
			si := smoothed.PixOffset(x, y)
			di := out.PixOffset(x, y)
			if w == 0 {
				copy(out.Pix[di:di+4], original.Pix[oi:oi+4])
				continue
			}
			for c := 0; c < 3; c++ {
				v := float64(smoothed.Pix[si+c])*w + float64(original.Pix[oi+c])*k
				out.Pix[di+c] = clampByte(v)
			}
			out.Pix[di+3] = original.Pix[oi+3]
		}
	}
	return out, nil
}

func clampByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
