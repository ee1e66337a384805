package retouch

import (
	"fmt"
	"image"
	"math"
)

// Cloner composites src into dst through mask, with the centre of src
// placed at center. src and mask have the same size; dst is modified in
// place.
type Cloner interface {
	Clone(dst, src *image.RGBA, mask *image.Gray, center image.Point) error
}

// PoissonCloner solves the Poisson equation over the masked area: the
// result keeps the gradients of src and matches dst on the boundary. The
// system is solved per channel by successive over-relaxation.
type PoissonCloner struct {
	MaxIterations int
	Tolerance     float64
	Omega         float64
}

func NewPoissonCloner() *PoissonCloner {
	return &PoissonCloner{
		MaxIterations: 2000,
		Tolerance:     1e-3,
		Omega:         1.8,
	}
}

type poissonCell struct {
	x, y    int // position inside src
	rhs     float64
	unknown []int
}

// Clone implements Cloner. Mask pixels on the outer ring of src and pixels
// whose destination neighbourhood leaves dst are treated as boundary.
func (pc *PoissonCloner) Clone(dst, src *image.RGBA, mask *image.Gray, center image.Point) error {
	sb := src.Bounds()
	if sb.Empty() {
		return ErrEmptyPatch
	}
	if mask.Bounds().Size() != sb.Size() {
		return fmt.Errorf("mask size %v does not match source %v", mask.Bounds().Size(), sb.Size())
	}

	w, h := sb.Dx(), sb.Dy()
	mb := mask.Bounds()
	origin := center.Sub(image.Pt(w/2, h/2))
	frame := dst.Bounds()

	index := make([]int, w*h)
	for i := range index {
		index[i] = -1
	}
	var pts []image.Point
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			if mask.Pix[mask.PixOffset(mb.Min.X+x, mb.Min.Y+y)] == 0 {
				continue
			}
			p := origin.Add(image.Pt(x, y))
			if !image.Rect(p.X-1, p.Y-1, p.X+2, p.Y+2).In(frame) {
				continue
			}
			index[y*w+x] = len(pts)
			pts = append(pts, image.Pt(x, y))
		}
	}
	if len(pts) == 0 {
		return nil
	}

	srcAt := func(x, y, c int) float64 {
		return float64(src.Pix[src.PixOffset(sb.Min.X+x, sb.Min.Y+y)+c])
	}
	dstAt := func(x, y, c int) float64 {
		return float64(dst.Pix[dst.PixOffset(origin.X+x, origin.Y+y)+c])
	}

	// Boundary pixels, each counted once, drive the initial offset.
	seen := make([]bool, w*h)
	var boundary []image.Point
	for _, p := range pts {
		for _, q := range neighbours(p) {
			i := q.Y*w + q.X
			if index[i] < 0 && !seen[i] {
				seen[i] = true
				boundary = append(boundary, q)
			}
		}
	}

	solved := make([][]float64, 3)
	for c := 0; c < 3; c++ {
		var offset float64
		for _, q := range boundary {
			offset += dstAt(q.X, q.Y, c) - srcAt(q.X, q.Y, c)
		}
		offset /= float64(len(boundary))

		cells := make([]poissonCell, len(pts))
		f := make([]float64, len(pts))
		for k, p := range pts {
			cell := poissonCell{x: p.X, y: p.Y}
			gp := srcAt(p.X, p.Y, c)
			for _, q := range neighbours(p) {
				cell.rhs += gp - srcAt(q.X, q.Y, c)
				if j := index[q.Y*w+q.X]; j >= 0 {
					cell.unknown = append(cell.unknown, j)
				} else {
					cell.rhs += dstAt(q.X, q.Y, c)
				}
			}
			cells[k] = cell
			f[k] = gp + offset
		}

		pc.relax(cells, f)
		solved[c] = f
	}

	for k, p := range pts {
		off := dst.PixOffset(origin.X+p.X, origin.Y+p.Y)
		for c := 0; c < 3; c++ {
			dst.Pix[off+c] = clampByte(solved[c][k])
		}
	}
	return nil
}

func (pc *PoissonCloner) relax(cells []poissonCell, f []float64) {
	omega := pc.Omega
	if omega <= 0 || omega >= 2 {
		omega = 1
	}
	for iter := 0; iter < pc.MaxIterations; iter++ {
		var worst float64
		for k := range cells {
			sum := cells[k].rhs
			for _, j := range cells[k].unknown {
				sum += f[j]
			}
			delta := omega * (sum/4 - f[k])
			f[k] += delta
			worst = math.Max(worst, math.Abs(delta))
		}
		if worst < pc.Tolerance {
			return
		}
	}
}

func neighbours(p image.Point) [4]image.Point {
	return [4]image.Point{
		{p.X, p.Y - 1},
		{p.X + 1, p.Y},
		{p.X, p.Y + 1},
		{p.X - 1, p.Y},
	}
}
