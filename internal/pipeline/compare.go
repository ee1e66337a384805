package pipeline

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/nfnt/resize"
)

const sheetGap = 8

// SideBySide places before and after next to each other, each scaled to fit
// half of maxWidth. A maxWidth that leaves no room beside the gap keeps the
// original sizes.
func SideBySide(before, after image.Image, maxWidth uint) *image.RGBA {
	if maxWidth > sheetGap+1 {
		half := (maxWidth - sheetGap) / 2
		h := uint(max(before.Bounds().Dy(), after.Bounds().Dy()))
		before = resize.Thumbnail(half, h, before, resize.Lanczos3)
		after = resize.Thumbnail(half, h, after, resize.Lanczos3)
	}

	bb, ab := before.Bounds(), after.Bounds()
	sheet := image.NewRGBA(image.Rect(0, 0, bb.Dx()+sheetGap+ab.Dx(), max(bb.Dy(), ab.Dy())))
	draw.Draw(sheet, sheet.Bounds(), image.NewUniform(color.RGBA{A: 255}), image.Point{}, draw.Src)
	draw.Draw(sheet, image.Rect(0, 0, bb.Dx(), bb.Dy()), before, bb.Min, draw.Src)
	draw.Draw(sheet, image.Rect(bb.Dx()+sheetGap, 0, sheet.Bounds().Dx(), ab.Dy()), after, ab.Min, draw.Src)
	return sheet
}

// PSNR is the peak signal-to-noise ratio between two frames of equal size
// over the colour channels. Identical frames give +Inf.
func PSNR(a, b *image.RGBA) (float64, error) {
	if a.Bounds().Size() != b.Bounds().Size() {
		return 0, errors.New("psnr: frame sizes differ")
	}
	ab, bb := a.Bounds(), b.Bounds()

	var sum float64
	for y := 0; y < ab.Dy(); y++ {
		ai := a.PixOffset(ab.Min.X, ab.Min.Y+y)
		bi := b.PixOffset(bb.Min.X, bb.Min.Y+y)
		for x := 0; x < ab.Dx(); x++ {
			for c := 0; c < 3; c++ {
				d := float64(a.Pix[ai+x*4+c]) - float64(b.Pix[bi+x*4+c])
				sum += d * d
			}
		}
	}
	n := float64(ab.Dx() * ab.Dy() * 3)
	if n == 0 {
		return 0, errors.New("psnr: empty frame")
	}
	mse := sum / n
	if mse == 0 {
		return math.Inf(1), nil
	}
	return 10 * math.Log10(255*255/mse), nil
}
