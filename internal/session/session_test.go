package session

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"skin-retoucher/internal/logger"
	"skin-retoucher/internal/retouch"
)

func blemished() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 101, 101))
	for y := 0; y < 101; y++ {
		for x := 0; x < 101; x++ {
			v := uint8(128)
			if x >= 48 && x < 53 && y >= 48 && y < 53 {
				v = 0
			}
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

func newSession(frame *image.RGBA) *Session {
	return New(frame, retouch.NewCorrector(10, nil, logger.Nop()), logger.Nop())
}

func TestClickCorrects(t *testing.T) {
	frame := blemished()
	s := newSession(frame)

	out, err := s.Handle(Click{Point: image.Pt(50, 50)})
	require.NoError(t, err)
	require.True(t, out.Changed)
	require.NotNil(t, out.Donor)
	require.Equal(t, Editing, out.State)
	require.Equal(t, uint8(128), s.Current().RGBAAt(50, 50).R)
	require.Equal(t, 1, s.Edits())

	// The caller's frame is not touched.
	require.Equal(t, uint8(0), frame.RGBAAt(50, 50).R)
}

func TestClickWithoutDonorIsNotAnError(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 30))
	s := newSession(img)

	out, err := s.Handle(Click{Point: image.Pt(15, 15)})
	require.NoError(t, err)
	require.False(t, out.Changed)
	require.Zero(t, s.Edits())
}

func TestClickOutsideFrameIgnored(t *testing.T) {
	s := newSession(blemished())
	out, err := s.Handle(Click{Point: image.Pt(-5, 400)})
	require.NoError(t, err)
	require.False(t, out.Changed)
}

func TestResetRestoresOriginal(t *testing.T) {
	frame := blemished()
	s := newSession(frame)

	_, err := s.Handle(Click{Point: image.Pt(50, 50)})
	require.NoError(t, err)

	for _, code := range []rune{'c', 'C'} {
		out, err := s.Handle(Key{Code: code})
		require.NoError(t, err)
		require.True(t, out.Changed)
		require.Equal(t, frame.Pix, s.Current().Pix)
		require.Zero(t, s.Edits())
	}
}

func TestEscClosesAndRejectsFurtherEvents(t *testing.T) {
	s := newSession(blemished())

	out, err := s.Handle(Key{Code: KeyEsc})
	require.NoError(t, err)
	require.Equal(t, Closed, out.State)
	require.Equal(t, Closed, s.State())

	_, err = s.Handle(Click{Point: image.Pt(50, 50)})
	require.ErrorIs(t, err, ErrClosed)
	_, err = s.Handle(Key{Code: 'c'})
	require.ErrorIs(t, err, ErrClosed)
}

func TestOtherKeysIgnored(t *testing.T) {
	s := newSession(blemished())
	out, err := s.Handle(Key{Code: 'x'})
	require.NoError(t, err)
	require.False(t, out.Changed)
	require.Equal(t, Editing, out.State)
}

func TestLastWriteWins(t *testing.T) {
	s := newSession(blemished())
	_, err := s.Handle(Click{Point: image.Pt(50, 50)})
	require.NoError(t, err)
	first := s.Current()

	_, err = s.Handle(Click{Point: image.Pt(30, 70)})
	require.NoError(t, err)
	require.Same(t, first, s.Current())
	require.Equal(t, 2, s.Edits())
}

func TestStateString(t *testing.T) {
	require.Equal(t, "editing", Editing.String())
	require.Equal(t, "closed", Closed.String())
}
