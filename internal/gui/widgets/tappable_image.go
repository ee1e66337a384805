package widgets

import (
	"image"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// TappableImage draws an image with contain fitting and reports taps in
// image pixel coordinates.
type TappableImage struct {
	widget.BaseWidget
	image    *canvas.Image
	OnTapped func(image.Point)
}

func NewTappableImage() *TappableImage {
	t := &TappableImage{image: canvas.NewImageFromImage(nil)}
	t.image.FillMode = canvas.ImageFillContain
	t.image.ScaleMode = canvas.ImageScaleSmooth
	t.ExtendBaseWidget(t)
	return t
}

func (t *TappableImage) SetMinSize(size fyne.Size) {
	t.image.SetMinSize(size)
}

func (t *TappableImage) SetImage(img image.Image) {
	t.image.Image = img
	t.image.Refresh()
}

func (t *TappableImage) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.image)
}

func (t *TappableImage) Tapped(ev *fyne.PointEvent) {
	if t.OnTapped == nil || t.image.Image == nil {
		return
	}
	b := t.image.Image.Bounds()
	p, ok := ImagePoint(t.Size(), b.Dx(), b.Dy(), ev.Position)
	if !ok {
		return
	}
	t.OnTapped(p.Add(b.Min))
}

// ImagePoint maps a position inside a widget of the given size to the pixel
// of a w×h image drawn with contain fitting (scaled uniformly, centred).
// ok is false for positions in the letterbox.
func ImagePoint(size fyne.Size, w, h int, pos fyne.Position) (image.Point, bool) {
	if w <= 0 || h <= 0 || size.Width <= 0 || size.Height <= 0 {
		return image.Point{}, false
	}
	scale := math.Min(float64(size.Width)/float64(w), float64(size.Height)/float64(h))
	offX := (float64(size.Width) - float64(w)*scale) / 2
	offY := (float64(size.Height) - float64(h)*scale) / 2

	x := int(math.Floor((float64(pos.X) - offX) / scale))
	y := int(math.Floor((float64(pos.Y) - offY) / scale))
	p := image.Pt(x, y)
	if !p.In(image.Rect(0, 0, w, h)) {
		return image.Point{}, false
	}
	return p, true
}
