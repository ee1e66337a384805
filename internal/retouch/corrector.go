package retouch

import (
	"errors"
	"image"

	"skin-retoucher/internal/logger"
	"skin-retoucher/internal/models"
)

// Report summarises one correction pass.
type Report struct {
	Applied int
	Skipped int
	Failed  int
}

// Corrector replaces blemishes with the smoothest nearby donor patch.
type Corrector struct {
	Radius int
	Cloner Cloner
	Log    logger.Logger
}

func NewCorrector(radius int, cloner Cloner, log logger.Logger) *Corrector {
	if cloner == nil {
		cloner = NewPoissonCloner()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Corrector{Radius: radius, Cloner: cloner, Log: log}
}

// Correct processes blemishes in order against the progressively edited
// frame. A blemish without a donor is skipped; the others still run.
func (c *Corrector) Correct(frame *image.RGBA, blemishes []models.Blemish) Report {
	var rep Report
	for _, b := range blemishes {
		donor, err := c.CorrectAt(frame, b.Center)
		switch {
		case errors.Is(err, ErrNoDonor):
			rep.Skipped++
			c.Log.Debug("corrector", "no donor in bounds", map[string]interface{}{
				"x": b.Center.X, "y": b.Center.Y, "radius": c.Radius,
			})
		case err != nil:
			rep.Failed++
			c.Log.Error("corrector", err, map[string]interface{}{
				"x": b.Center.X, "y": b.Center.Y,
			})
		default:
			rep.Applied++
			c.Log.Debug("corrector", "blemish corrected", map[string]interface{}{
				"x":         b.Center.X,
				"y":         b.Center.Y,
				"direction": donor.Direction.String(),
				"score":     donor.Score,
			})
		}
	}
	return rep
}

// CorrectAt clones the best donor over p through a circular mask.
func (c *Corrector) CorrectAt(frame *image.RGBA, p image.Point) (*Donor, error) {
	donor, err := SelectBestPatch(frame, p, c.Radius)
	if err != nil {
		return nil, err
	}
	patch := models.CropRGBA(frame, donor.Bounds)
	if err := c.Cloner.Clone(frame, patch, CircleMask(c.Radius), p); err != nil {
		return nil, err
	}
	return donor, nil
}
