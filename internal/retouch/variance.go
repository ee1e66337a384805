// Package retouch holds the image logic that does not need OpenCV: donor
// patch scoring and selection, circular masks, mask blending and a Poisson
// cloner.
package retouch

import (
	"errors"
	"image"
)

// laplacianScale is the 1/(255*3*2) factor OpenCV focus measures apply to
// their Laplacian.
//
// The kernel is the 4-neighbour [0 1 0; 1 -4 1; 0 1 0], not OpenCV's ksize 3
// aperture [2 0 2; 0 -8 0; 2 0 2]. The latter ignores the direct neighbours
// and scores a one-pixel checkerboard as flat.
const laplacianScale = 1.0 / (255.0 * 3 * 2)

var ErrEmptyPatch = errors.New("empty patch")

// PatchVariance scores the texture of a patch as the sum of squared
// Laplacian responses over its value channel (max of R, G, B). Lower means
// smoother. Borders are reflected without repeating the edge pixel.
func PatchVariance(patch image.Image) (float64, error) {
	if patch == nil {
		return 0, ErrEmptyPatch
	}
	b := patch.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return 0, ErrEmptyPatch
	}

	v := valueChannel(patch)

	var sum float64
	for y := 0; y < h; y++ {
		up := reflect101(y-1, h) * w
		down := reflect101(y+1, h) * w
		row := y * w
		for x := 0; x < w; x++ {
			left := reflect101(x-1, w)
			right := reflect101(x+1, w)
			lap := v[up+x] + v[down+x] + v[row+left] + v[row+right] - 4*v[row+x]
			r := lap * laplacianScale
			sum += r * r
		}
	}
	return sum, nil
}

// valueChannel extracts V = max(R, G, B) as a dense row-major slice.
func valueChannel(img image.Image) []float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float64, w*h)

	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < h; y++ {
			off := rgba.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < w; x++ {
				p := rgba.Pix[off+x*4 : off+x*4+3]
				out[y*w+x] = float64(max(p[0], p[1], p[2]))
			}
		}
		return out
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out[y*w+x] = float64(max(r, g, bl) >> 8)
		}
	}
	return out
}

// reflect101 maps an index one step outside [0, n) back inside, mirroring
// around the edge pixel (gfedcb|abcdefgh|gfedcba).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	switch {
	case i < 0:
		return -i
	case i >= n:
		return 2*n - 2 - i
	}
	return i
}
