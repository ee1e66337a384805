package widgets

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/require"
)

func TestImagePoint(t *testing.T) {
	tests := []struct {
		name string
		size fyne.Size
		w, h int
		pos  fyne.Position
		want image.Point
		ok   bool
	}{
		{"identity", fyne.NewSize(100, 100), 100, 100, fyne.NewPos(10, 20), image.Pt(10, 20), true},
		{"downscaled", fyne.NewSize(100, 100), 200, 200, fyne.NewPos(50, 25), image.Pt(100, 50), true},
		{"pillarbox", fyne.NewSize(200, 100), 100, 100, fyne.NewPos(75, 50), image.Pt(25, 50), true},
		{"left bar", fyne.NewSize(200, 100), 100, 100, fyne.NewPos(20, 50), image.Point{}, false},
		{"letterbox", fyne.NewSize(100, 200), 100, 50, fyne.NewPos(50, 90), image.Pt(50, 15), true},
		{"below image", fyne.NewSize(100, 200), 100, 50, fyne.NewPos(50, 180), image.Point{}, false},
		{"empty image", fyne.NewSize(100, 100), 0, 0, fyne.NewPos(1, 1), image.Point{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ImagePoint(tt.size, tt.w, tt.h, tt.pos)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
