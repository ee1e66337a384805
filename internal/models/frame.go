package models

import (
	"image"
	"image/draw"
)

// ToRGBA returns img as an *image.RGBA anchored at (0,0). The pixels are
// always copied so the caller owns the result.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// CropRGBA copies the r portion of src into a new frame anchored at (0,0).
func CropRGBA(src *image.RGBA, r image.Rectangle) *image.RGBA {
	r = ClampRect(r, src.Bounds())
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
	return dst
}

// PasteRGBA writes src into dst with its origin at at.
func PasteRGBA(dst, src *image.RGBA, at image.Point) {
	r := src.Bounds().Sub(src.Bounds().Min).Add(at)
	draw.Draw(dst, r, src, src.Bounds().Min, draw.Src)
}

// CloneRGBA is a deep copy that keeps the original bounds.
func CloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	if src.Stride != dst.Stride {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	}
	return dst
}

// CountNonZero mirrors the OpenCV helper for masks.
func CountNonZero(m *image.Gray) int {
	if m == nil {
		return 0
	}
	b := m.Bounds()
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := m.Pix[m.PixOffset(b.Min.X, y):m.PixOffset(b.Max.X, y)]
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// MaskEmpty reports whether a mask has no set pixels.
func MaskEmpty(m *image.Gray) bool {
	return m == nil || m.Bounds().Empty() || CountNonZero(m) == 0
}
