// Package gui hosts the interactive editor window. Taps on the preview and
// key presses are forwarded to a session.Session; the window closes once the
// session does.
package gui

import (
	"errors"
	"fmt"
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"

	"skin-retoucher/internal/gui/components"
	"skin-retoucher/internal/gui/widgets"
	"skin-retoucher/internal/logger"
	"skin-retoucher/internal/pipeline"
	"skin-retoucher/internal/session"
)

const (
	AppID   = "com.skinretoucher.editor"
	AppName = "Skin Retoucher"
)

type Editor struct {
	app      fyne.App
	window   fyne.Window
	session  *session.Session
	original *image.RGBA
	display  *widgets.ImageDisplay
	status   *components.StatusBar
	log      logger.Logger
}

func NewEditor(sess *session.Session, original *image.RGBA, log logger.Logger) *Editor {
	if log == nil {
		log = logger.Nop()
	}
	return &Editor{
		session:  sess,
		original: original,
		log:      log,
	}
}

// Run opens the window and blocks until the session is closed. It returns
// the final frame.
func (e *Editor) Run() *image.RGBA {
	e.app = app.NewWithID(AppID)
	e.window = e.app.NewWindow(AppName)
	e.window.Resize(fyne.NewSize(1400, 800))
	e.window.SetMaster()
	e.window.CenterOnScreen()

	e.display = widgets.NewImageDisplay()
	e.status = components.NewStatusBar()
	e.display.SetOriginalImage(e.original)
	e.display.SetPreviewImage(e.session.Current())
	e.display.OnPreviewTapped(func(p image.Point) {
		e.handle(session.Click{Point: p})
	})

	e.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if code, ok := keyCode(ev.Name); ok {
			e.handle(session.Key{Code: code})
		}
	})
	e.window.SetCloseIntercept(func() {
		e.handle(session.Key{Code: session.KeyEsc})
	})

	e.window.SetContent(container.NewBorder(
		nil,
		e.status.GetContainer(),
		nil, nil,
		e.display.GetContainer(),
	))

	e.log.Info("Editor", "editor window opened", map[string]interface{}{
		"width":  e.original.Bounds().Dx(),
		"height": e.original.Bounds().Dy(),
	})
	e.window.ShowAndRun()
	return e.session.Current()
}

func (e *Editor) handle(ev session.Event) {
	outcome, err := e.session.Handle(ev)
	if errors.Is(err, session.ErrClosed) {
		return
	}
	if err != nil {
		e.log.Error("Editor", err, nil)
		e.status.SetStatus(fmt.Sprintf("Error: %v", err))
		return
	}

	if outcome.State == session.Closed {
		e.window.Close()
		return
	}
	if !outcome.Changed {
		if click, ok := ev.(session.Click); ok {
			e.status.SetStatus(fmt.Sprintf("No clean patch near (%d, %d)", click.Point.X, click.Point.Y))
		}
		return
	}

	current := e.session.Current()
	e.display.SetPreviewImage(current)
	psnr, err := pipeline.PSNR(e.original, current)
	if err != nil {
		e.log.Warning("Editor", "psnr unavailable", map[string]interface{}{"error": err.Error()})
	}
	e.status.SetMetrics(e.session.Edits(), psnr)
	if outcome.Donor != nil {
		e.status.SetStatus(fmt.Sprintf("Patched from %s", outcome.Donor.Direction))
	} else {
		e.status.SetStatus("Reset to original")
	}
}

// keyCode maps fyne key names to the ASCII codes the session understands.
func keyCode(name fyne.KeyName) (rune, bool) {
	switch name {
	case fyne.KeyEscape:
		return session.KeyEsc, true
	case fyne.KeyC:
		return session.KeyReset, true
	}
	return 0, false
}
