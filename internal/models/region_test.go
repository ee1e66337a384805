package models

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClampRect(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 80)

	require.Equal(t, image.Rect(0, 10, 30, 80), ClampRect(image.Rect(-10, 10, 30, 120), bounds))
	require.True(t, ClampRect(image.Rect(200, 200, 220, 220), bounds).Empty())
	// Inverted rectangles are canonicalised first.
	require.Equal(t, image.Rect(10, 10, 20, 20), ClampRect(image.Rect(20, 20, 10, 10), bounds))
}

func TestWorkRegion(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)
	face := image.Rect(10, 20, 50, 60)

	require.Equal(t, image.Rect(2, 12, 58, 68), WorkRegion(face, bounds, 20))
	require.Equal(t, face, WorkRegion(face, bounds, 0))
	// 100% grows each side by the face size: (-30,-20)-(90,100) before clamping.
	require.Equal(t, image.Rect(0, 0, 90, 100), WorkRegion(face, bounds, 100))

	centred := image.Rect(40, 40, 60, 60)
	require.Equal(t, bounds, WorkRegion(centred, bounds, 300))
}

func TestCropAndPasteRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	src.SetRGBA(5, 6, color.RGBA{R: 200, A: 255})

	crop := CropRGBA(src, image.Rect(4, 4, 8, 8))
	require.Equal(t, image.Rect(0, 0, 4, 4), crop.Bounds())
	require.Equal(t, color.RGBA{R: 200, A: 255}, crop.RGBAAt(1, 2))

	crop.SetRGBA(0, 0, color.RGBA{G: 100, A: 255})
	PasteRGBA(src, crop, image.Pt(4, 4))
	require.Equal(t, color.RGBA{G: 100, A: 255}, src.RGBAAt(4, 4))
	require.Equal(t, color.RGBA{R: 200, A: 255}, src.RGBAAt(5, 6))
}

func TestCountNonZero(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 4, 4))
	require.True(t, MaskEmpty(m))
	require.True(t, MaskEmpty(nil))

	m.SetGray(1, 1, color.Gray{Y: 1})
	m.SetGray(3, 2, color.Gray{Y: 255})
	require.Equal(t, 2, CountNonZero(m))
	require.False(t, MaskEmpty(m))
}

func TestToRGBA_CopiesFromOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 8, 8))
	src.SetRGBA(5, 5, color.RGBA{B: 9, A: 255})

	dst := ToRGBA(src)
	require.Equal(t, image.Rect(0, 0, 3, 3), dst.Bounds())
	require.Equal(t, color.RGBA{B: 9, A: 255}, dst.RGBAAt(0, 0))

	dst.SetRGBA(0, 0, color.RGBA{})
	require.Equal(t, color.RGBA{B: 9, A: 255}, src.RGBAAt(5, 5))
}
