package components

import (
	"fmt"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	editsLabel  *widget.Label
	psnrLabel   *widget.Label
}

func NewStatusBar() *StatusBar {
	statusLabel := widget.NewLabel("Click a blemish to remove it. C resets, Esc saves and exits.")
	editsLabel := widget.NewLabel("Edits: 0")
	psnrLabel := widget.NewLabel("PSNR: --")

	metricsContainer := container.NewHBox(
		editsLabel,
		widget.NewSeparator(),
		psnrLabel,
	)

	mainContainer := container.NewBorder(
		nil, nil,
		statusLabel,
		metricsContainer,
	)

	return &StatusBar{
		container:   mainContainer,
		statusLabel: statusLabel,
		editsLabel:  editsLabel,
		psnrLabel:   psnrLabel,
	}
}

func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

func (sb *StatusBar) SetMetrics(edits int, psnr float64) {
	sb.editsLabel.SetText(fmt.Sprintf("Edits: %d", edits))
	sb.psnrLabel.SetText(FormatPSNR(psnr))
}

// FormatPSNR renders a PSNR value; identical frames read as "PSNR: --".
func FormatPSNR(psnr float64) string {
	if math.IsInf(psnr, 1) || math.IsNaN(psnr) {
		return "PSNR: --"
	}
	return fmt.Sprintf("PSNR: %.2f dB", psnr)
}
