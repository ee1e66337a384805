package retouch

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPatchVariance_UniformIsZero(t *testing.T) {
	for _, v := range []uint8{0, 1, 128, 255} {
		score, err := PatchVariance(uniformRGBA(21, 21, v))
		require.NoError(t, err)
		require.Zero(t, score)
	}
}

func TestPatchVariance_CheckerboardAboveUniform(t *testing.T) {
	uniform, err := PatchVariance(uniformRGBA(21, 21, 128))
	require.NoError(t, err)

	board := uniformRGBA(21, 21, 0)
	checkerboard(board, board.Bounds(), 0, 255)
	textured, err := PatchVariance(board)
	require.NoError(t, err)

	require.Greater(t, textured, uniform)
}

func TestPatchVariance_OnePixelCheckerboard(t *testing.T) {
	// Every pixel differs from all four direct neighbours by 255, so each
	// response is ±4·255·laplacianScale = ±2/3.
	board := uniformRGBA(3, 3, 0)
	checkerboard(board, board.Bounds(), 0, 255)

	score, err := PatchVariance(board)
	require.NoError(t, err)
	require.InDelta(t, 4.0, score, 1e-9)
}

func TestPatchVariance_Empty(t *testing.T) {
	_, err := PatchVariance(image.NewRGBA(image.Rectangle{}))
	require.ErrorIs(t, err, ErrEmptyPatch)

	_, err = PatchVariance(nil)
	require.ErrorIs(t, err, ErrEmptyPatch)
}

func TestPatchVariance_SubImageMatchesCopy(t *testing.T) {
	img := uniformRGBA(40, 40, 10)
	checkerboard(img, image.Rect(5, 5, 20, 20), 30, 200)

	r := image.Rect(3, 4, 18, 19)
	sub, err := PatchVariance(img.SubImage(r))
	require.NoError(t, err)

	cp := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			cp.SetRGBA(x, y, img.RGBAAt(r.Min.X+x, r.Min.Y+y))
		}
	}
	copied, err := PatchVariance(cp)
	require.NoError(t, err)

	require.Equal(t, copied, sub)
}

func TestPatchVariance_UsesValueChannel(t *testing.T) {
	// Same max(R,G,B) everywhere means no texture, whatever the hue.
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := color.NRGBA{R: 200, A: 255}
			if (x+y)%2 == 0 {
				c = color.NRGBA{G: 200, B: 50, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	score, err := PatchVariance(img)
	require.NoError(t, err)
	require.Zero(t, score)
}

func TestPatchVariance_SinglePixelSpike(t *testing.T) {
	img := uniformRGBA(3, 3, 0)
	img.SetRGBA(1, 1, color.RGBA{255, 255, 255, 255})

	score, err := PatchVariance(img)
	require.NoError(t, err)

	// Centre responds with -4*255. Each edge pixel sees the spike twice
	// through reflection; corners see nothing.
	unit := 255 * laplacianScale
	want := 16*unit*unit + 4*(2*unit)*(2*unit)
	require.InDelta(t, want, score, 1e-12)
}

func TestReflect101(t *testing.T) {
	require.Equal(t, 1, reflect101(-1, 5))
	require.Equal(t, 3, reflect101(5, 5))
	require.Equal(t, 2, reflect101(2, 5))
	require.Equal(t, 0, reflect101(-1, 1))
	require.Equal(t, 0, reflect101(1, 1))
}
