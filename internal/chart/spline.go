package chart

import (
	"math"

	"gonum.org/v1/plot/plotter"
)

// segmentSamples is the number of polyline steps used per curve segment.
const segmentSamples = 16

// smooth turns pts into a polyline that follows the cubic Bezier curve the
// browser chart draws for the given tension. Control points are computed in a
// unit box spanning the data so the x and y scales weigh equally, and are
// capped to that box so the curve never overshoots the plotted range.
func smooth(pts plotter.XYs, tension float64) plotter.XYs {
	if tension <= 0 || len(pts) < 3 {
		return append(plotter.XYs(nil), pts...)
	}

	minX, maxX, minY, maxY := bounds(pts)
	spanX, spanY := maxX-minX, maxY-minY
	norm := func(p plotter.XY) plotter.XY {
		return plotter.XY{X: ratio(p.X-minX, spanX), Y: ratio(p.Y-minY, spanY)}
	}
	denorm := func(p plotter.XY) plotter.XY {
		return plotter.XY{X: minX + p.X*spanX, Y: minY + p.Y*spanY}
	}

	n := make(plotter.XYs, len(pts))
	for i, p := range pts {
		n[i] = norm(p)
	}

	before := make(plotter.XYs, len(n))
	after := make(plotter.XYs, len(n))
	for i := range n {
		prev, cur, next := n[max(i-1, 0)], n[i], n[min(i+1, len(n)-1)]
		before[i], after[i] = controlPoints(prev, cur, next, tension)
		before[i] = clampUnit(before[i])
		after[i] = clampUnit(after[i])
	}

	out := make(plotter.XYs, 0, (len(n)-1)*segmentSamples+1)
	out = append(out, pts[0])
	for i := 0; i < len(n)-1; i++ {
		p0, c0, c1, p1 := n[i], after[i], before[i+1], n[i+1]
		for s := 1; s <= segmentSamples; s++ {
			t := float64(s) / segmentSamples
			if s == segmentSamples {
				out = append(out, pts[i+1])
				continue
			}
			out = append(out, denorm(bezier(p0, c0, c1, p1, t)))
		}
	}
	return out
}

// controlPoints mirrors the browser library's splineCurve: the incoming and
// outgoing handles of cur lie along prev→next, scaled by tension and by each
// side's share of the total neighbour distance.
func controlPoints(prev, cur, next plotter.XY, tension float64) (plotter.XY, plotter.XY) {
	d01 := math.Hypot(cur.X-prev.X, cur.Y-prev.Y)
	d12 := math.Hypot(next.X-cur.X, next.Y-cur.Y)

	s01 := d01 / (d01 + d12)
	s12 := d12 / (d01 + d12)
	if math.IsNaN(s01) {
		s01 = 0
	}
	if math.IsNaN(s12) {
		s12 = 0
	}

	fa := tension * s01
	fb := tension * s12
	dx, dy := next.X-prev.X, next.Y-prev.Y
	return plotter.XY{X: cur.X - fa*dx, Y: cur.Y - fa*dy},
		plotter.XY{X: cur.X + fb*dx, Y: cur.Y + fb*dy}
}

func bezier(p0, c0, c1, p1 plotter.XY, t float64) plotter.XY {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return plotter.XY{
		X: a*p0.X + b*c0.X + c*c1.X + d*p1.X,
		Y: a*p0.Y + b*c0.Y + c*c1.Y + d*p1.Y,
	}
}

func bounds(pts plotter.XYs) (minX, maxX, minY, maxY float64) {
	minX, maxX = pts[0].X, pts[0].X
	minY, maxY = pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return minX, maxX, minY, maxY
}

func ratio(v, span float64) float64 {
	if span == 0 {
		return 0
	}
	return v / span
}

func clampUnit(p plotter.XY) plotter.XY {
	return plotter.XY{X: math.Min(math.Max(p.X, 0), 1), Y: math.Min(math.Max(p.Y, 0), 1)}
}
