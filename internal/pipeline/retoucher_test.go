package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"skin-retoucher/internal/config"
	"skin-retoucher/internal/logger"
	"skin-retoucher/internal/models"
)

type fakeFaces struct {
	faces []image.Rectangle
	err   error
}

func (f fakeFaces) DetectFaces(context.Context, *image.RGBA) ([]image.Rectangle, error) {
	return f.faces, f.err
}

// fullSkin marks the whole region as skin.
type fullSkin struct {
	calls int
	faces []image.Rectangle
}

func (s *fullSkin) SkinMask(_ context.Context, region *image.RGBA, face image.Rectangle) (*image.Gray, error) {
	s.calls++
	s.faces = append(s.faces, face)
	m := image.NewGray(region.Bounds())
	for i := range m.Pix {
		m.Pix[i] = 255
	}
	return m, nil
}

type emptySkin struct{}

func (emptySkin) SkinMask(_ context.Context, region *image.RGBA, _ image.Rectangle) (*image.Gray, error) {
	return image.NewGray(region.Bounds()), nil
}

type failingSkin struct{}

func (failingSkin) SkinMask(context.Context, *image.RGBA, image.Rectangle) (*image.Gray, error) {
	return nil, errors.New("segmentation failed")
}

// fixedBlemishes reports the same points for every region.
type fixedBlemishes struct {
	at    []image.Point
	calls int
}

func (d *fixedBlemishes) DetectBlemishes(context.Context, *image.RGBA, *image.Gray) ([]models.Blemish, error) {
	d.calls++
	out := make([]models.Blemish, len(d.at))
	for i, p := range d.at {
		out[i] = models.Blemish{Center: p, Radius: 2}
	}
	return out, nil
}

// constSmoother returns a flat frame of one value.
type constSmoother struct{ v uint8 }

func (s constSmoother) Smooth(_ context.Context, region *image.RGBA) (*image.RGBA, error) {
	out := image.NewRGBA(region.Bounds())
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = s.v, s.v, s.v, 255
	}
	return out, nil
}

func grayFrame(w, h int, v uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 255
	}
	return img
}

func paint(img *image.RGBA, r image.Rectangle, v uint8) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
}

func testParams() config.Params {
	p := config.Default().Params
	p.PatchRadius = 10
	p.FaceMargin = 0
	return p
}

func TestNewRetoucher_RequiresStages(t *testing.T) {
	_, err := NewRetoucher(testParams(), Stages{}, logger.Nop())
	require.ErrorIs(t, err, ErrMissingStage)
}

func TestProcess_NoFaceLeavesFrameUntouched(t *testing.T) {
	frame := grayFrame(50, 50, 120)
	paint(frame, image.Rect(20, 20, 25, 25), 0)
	want := models.CloneRGBA(frame)

	skin := &fullSkin{}
	r, err := NewRetoucher(testParams(), Stages{
		Faces:     fakeFaces{},
		Skin:      skin,
		Blemishes: &fixedBlemishes{},
	}, logger.Nop())
	require.NoError(t, err)

	res, err := r.Process(context.Background(), frame)
	require.NoError(t, err)
	require.Zero(t, res.Faces)
	require.Zero(t, skin.calls)
	require.Equal(t, want.Pix, frame.Pix)
}

func TestProcess_DetectorErrorDegrades(t *testing.T) {
	frame := grayFrame(20, 20, 50)
	r, err := NewRetoucher(testParams(), Stages{
		Faces:     fakeFaces{err: errors.New("cascade exploded")},
		Skin:      &fullSkin{},
		Blemishes: &fixedBlemishes{},
	}, logger.Nop())
	require.NoError(t, err)

	res, err := r.Process(context.Background(), frame)
	require.NoError(t, err)
	require.Zero(t, res.Faces)
}

func TestProcess_CorrectsBlemishInsideFace(t *testing.T) {
	frame := grayFrame(160, 140, 128)
	paint(frame, image.Rect(78, 68, 83, 73), 0)
	want := grayFrame(160, 140, 128)

	face := image.Rect(30, 20, 131, 121)
	skin := &fullSkin{}
	blemishes := &fixedBlemishes{at: []image.Point{{50, 50}}}

	r, err := NewRetoucher(testParams(), Stages{
		Faces:     fakeFaces{faces: []image.Rectangle{face}},
		Skin:      skin,
		Blemishes: blemishes,
	}, logger.Nop())
	require.NoError(t, err)

	res, err := r.Process(context.Background(), frame)
	require.NoError(t, err)
	require.Equal(t, 1, res.Faces)
	require.Equal(t, 1, res.Blemishes)
	require.Equal(t, 1, res.Corrected)
	require.Zero(t, res.Smoothed)
	require.Equal(t, []image.Rectangle{image.Rect(0, 0, 101, 101)}, skin.faces)
	require.Equal(t, want.Pix, frame.Pix)
	require.Contains(t, res.Stages, "correct")
}

func TestProcess_EmptyMaskSkipsDownstream(t *testing.T) {
	frame := grayFrame(60, 60, 90)
	want := models.CloneRGBA(frame)
	blemishes := &fixedBlemishes{at: []image.Point{{30, 30}}}

	r, err := NewRetoucher(testParams(), Stages{
		Faces:     fakeFaces{faces: []image.Rectangle{frame.Bounds()}},
		Skin:      emptySkin{},
		Blemishes: blemishes,
		Smoother:  constSmoother{v: 0},
	}, logger.Nop())
	require.NoError(t, err)

	res, err := r.Process(context.Background(), frame)
	require.NoError(t, err)
	require.Equal(t, 1, res.Faces)
	require.Zero(t, blemishes.calls)
	require.Zero(t, res.Smoothed)
	require.Equal(t, want.Pix, frame.Pix)
}

func TestProcess_StageErrorDegrades(t *testing.T) {
	frame := grayFrame(60, 60, 90)
	want := models.CloneRGBA(frame)

	r, err := NewRetoucher(testParams(), Stages{
		Faces:     fakeFaces{faces: []image.Rectangle{frame.Bounds()}},
		Skin:      failingSkin{},
		Blemishes: &fixedBlemishes{at: []image.Point{{30, 30}}},
	}, logger.Nop())
	require.NoError(t, err)

	res, err := r.Process(context.Background(), frame)
	require.NoError(t, err)
	require.Zero(t, res.Blemishes)
	require.Equal(t, want.Pix, frame.Pix)
}

func TestProcess_SmoothingBlendsOnlyInsideRegion(t *testing.T) {
	frame := grayFrame(40, 40, 100)
	params := testParams()
	params.BlendStrength = 100

	r, err := NewRetoucher(params, Stages{
		Faces:     fakeFaces{faces: []image.Rectangle{image.Rect(10, 10, 20, 20)}},
		Skin:      &fullSkin{},
		Blemishes: &fixedBlemishes{},
		Smoother:  constSmoother{v: 200},
	}, logger.Nop())
	require.NoError(t, err)

	res, err := r.Process(context.Background(), frame)
	require.NoError(t, err)
	require.Equal(t, 1, res.Smoothed)
	require.Equal(t, uint8(200), frame.RGBAAt(15, 15).R)
	require.Equal(t, uint8(100), frame.RGBAAt(5, 5).R)
	require.Equal(t, uint8(100), frame.RGBAAt(20, 20).R)
}

func TestProcess_CancelledContext(t *testing.T) {
	frame := grayFrame(40, 40, 100)
	r, err := NewRetoucher(testParams(), Stages{
		Faces:     fakeFaces{faces: []image.Rectangle{frame.Bounds()}},
		Skin:      &fullSkin{},
		Blemishes: &fixedBlemishes{},
	}, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Process(ctx, frame)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCapBlemishes(t *testing.T) {
	in := []models.Blemish{
		{Center: image.Pt(1, 1), Radius: 2},
		{Center: image.Pt(2, 2), Radius: 5},
		{Center: image.Pt(3, 3), Radius: 2},
		{Center: image.Pt(4, 4), Radius: 7},
	}

	require.Equal(t, in, capBlemishes(in, 0))
	require.Equal(t, in, capBlemishes(in, 10))

	got := capBlemishes(in, 3)
	require.Equal(t, []image.Point{{4, 4}, {2, 2}, {1, 1}}, []image.Point{got[0].Center, got[1].Center, got[2].Center})
}

func TestChain_StepNames(t *testing.T) {
	r, err := NewRetoucher(testParams(), Stages{
		Faces:     fakeFaces{},
		Skin:      &fullSkin{},
		Blemishes: &fixedBlemishes{},
	}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"skin_mask", "refine_mask", "detect_blemishes", "correct", "smooth"}, r.chain.StepNames())
}
