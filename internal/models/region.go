package models

import "image"

// Blemish is a candidate spot produced by blob analysis. Radius is derived
// from the keypoint size and is only used for ordering and reporting; the
// correction radius comes from configuration.
type Blemish struct {
	Center image.Point
	Radius int
}

// ClampRect restricts r to bounds. The result is empty when they do not
// overlap.
func ClampRect(r, bounds image.Rectangle) image.Rectangle {
	return r.Canon().Intersect(bounds)
}

// ExpandRect grows r on every side by percent of its width and height.
func ExpandRect(r image.Rectangle, percent int) image.Rectangle {
	if percent <= 0 {
		return r
	}
	dx := r.Dx() * percent / 100
	dy := r.Dy() * percent / 100
	return image.Rect(r.Min.X-dx, r.Min.Y-dy, r.Max.X+dx, r.Max.Y+dy)
}

// WorkRegion is the face box plus margin, clamped to the frame.
func WorkRegion(face, bounds image.Rectangle, marginPercent int) image.Rectangle {
	return ClampRect(ExpandRect(face.Canon(), marginPercent), bounds)
}
