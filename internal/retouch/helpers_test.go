package retouch

import (
	"image"
	"image/color"
)

func uniformRGBA(w, h int, v uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 255
	}
	return img
}

func checkerboard(img *image.RGBA, r image.Rectangle, lo, hi uint8) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			v := lo
			if (x+y)%2 == 0 {
				v = hi
			}
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
}

func fill(img *image.RGBA, r image.Rectangle, v uint8) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
}
