package widgets

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	ImageAreaWidth  = 640
	ImageAreaHeight = 480
)

// ImageDisplay shows the untouched original next to the editable preview.
type ImageDisplay struct {
	container     fyne.CanvasObject
	originalImage *canvas.Image
	previewImage  *TappableImage
	splitView     *container.Split
}

func NewImageDisplay() *ImageDisplay {
	display := &ImageDisplay{}
	display.createComponents()
	display.setupLayout()
	return display
}

func (id *ImageDisplay) createComponents() {
	id.originalImage = canvas.NewImageFromImage(nil)
	id.originalImage.FillMode = canvas.ImageFillContain
	id.originalImage.ScaleMode = canvas.ImageScaleSmooth
	id.originalImage.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))

	id.previewImage = NewTappableImage()
	id.previewImage.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))
}

func (id *ImageDisplay) setupLayout() {
	originalContainer := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Original**"),
		nil, nil, nil,
		id.originalImage,
	)

	previewContainer := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Retouched** (click a blemish)"),
		nil, nil, nil,
		id.previewImage,
	)

	id.splitView = container.NewHSplit(originalContainer, previewContainer)
	id.splitView.SetOffset(0.5)
	id.container = id.splitView
}

func (id *ImageDisplay) GetContainer() fyne.CanvasObject {
	return id.container
}

func (id *ImageDisplay) SetOriginalImage(img image.Image) {
	id.originalImage.Image = img
	id.originalImage.Refresh()
}

// SetPreviewImage redraws the preview; call it after every in-place edit.
func (id *ImageDisplay) SetPreviewImage(img image.Image) {
	id.previewImage.SetImage(img)
}

// OnPreviewTapped registers the handler for taps on preview pixels.
func (id *ImageDisplay) OnPreviewTapped(fn func(image.Point)) {
	id.previewImage.OnTapped = fn
}
