package retouch

import (
	"errors"
	"fmt"
	"image"
	"math"
)

var (
	ErrNoDonor       = errors.New("no donor patch in bounds")
	ErrInvalidRadius = errors.New("patch radius must be at least 1")
)

// Direction is a compass heading in image coordinates (y grows downwards).
type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

const diag = 0.7071

// compass is the fixed enumeration order; on equal scores the earlier
// direction wins.
var compass = [...]struct {
	dir    Direction
	dx, dy float64
}{
	{North, 0, -1},
	{NorthEast, diag, -diag},
	{East, 1, 0},
	{SouthEast, diag, diag},
	{South, 0, 1},
	{SouthWest, -diag, diag},
	{West, -1, 0},
	{NorthWest, -diag, -diag},
}

func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case NorthEast:
		return "NE"
	case East:
		return "E"
	case SouthEast:
		return "SE"
	case South:
		return "S"
	case SouthWest:
		return "SW"
	case West:
		return "W"
	case NorthWest:
		return "NW"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Candidate is one compass neighbour considered as a donor.
type Candidate struct {
	Direction Direction
	Center    image.Point
	Bounds    image.Rectangle
}

// Donor is the chosen candidate and its texture score.
type Donor struct {
	Candidate
	Score float64
}

// PatchBounds is the (2r+1) square centred on c.
func PatchBounds(c image.Point, radius int) image.Rectangle {
	return image.Rect(c.X-radius, c.Y-radius, c.X+radius+1, c.Y+radius+1)
}

// Candidates lists the eight donor centres at twice the radius from center,
// in compass order. Diagonal offsets are truncated toward zero.
func Candidates(center image.Point, radius int) []Candidate {
	out := make([]Candidate, 0, len(compass))
	dist := float64(2 * radius)
	for _, c := range compass {
		p := image.Pt(
			center.X+int(math.Trunc(c.dx*dist)),
			center.Y+int(math.Trunc(c.dy*dist)),
		)
		out = append(out, Candidate{
			Direction: c.dir,
			Center:    p,
			Bounds:    PatchBounds(p, radius),
		})
	}
	return out
}

// SelectBestPatch scores every in-bounds candidate around center and returns
// the smoothest. ErrNoDonor means no candidate patch fits inside img.
func SelectBestPatch(img *image.RGBA, center image.Point, radius int) (*Donor, error) {
	if radius < 1 {
		return nil, ErrInvalidRadius
	}

	frame := img.Bounds()
	var best *Donor
	for _, cand := range Candidates(center, radius) {
		if !cand.Bounds.In(frame) {
			continue
		}
		score, err := PatchVariance(img.SubImage(cand.Bounds))
		if err != nil {
			return nil, fmt.Errorf("score %s candidate: %w", cand.Direction, err)
		}
		if best == nil || score < best.Score {
			best = &Donor{Candidate: cand, Score: score}
		}
	}

	if best == nil {
		return nil, ErrNoDonor
	}
	return best, nil
}
