// SPDX-License-Identifier: GPL-2.0-or-later

package move

import (
	"kartmove/blockmap"
	"kartmove/fixed"
	"kartmove/level"
)

// segmentCrosses reports whether the trace and l intersect.
func segmentCrosses(trace, l *level.Line) bool {
	side := level.PointOnLineSide
	if side(trace.V1.X, trace.V1.Y, l) == side(trace.V2.X, trace.V2.Y, l) {
		return false
	}
	return side(l.V1.X, l.V1.Y, trace) != side(l.V2.X, l.V2.Y, trace)
}

// HitSpecialLines delivers the special lines a would cross moving from
// (x, y) by (momx, momy), without moving it. Movers that ignore
// collision use it to still trigger lines such as the finish line.
func (w *World) HitSpecialLines(a *Actor, x, y, momx, momy fixed.Fixed) {
	w.assertLive(a, "HitSpecialLines")
	if momx == 0 && momy == 0 {
		return
	}
	w.enter()
	defer w.leave()

	// trace along the three leading corners
	leadx, trailx := x-a.Radius, x+a.Radius
	if momx > 0 {
		leadx, trailx = x+a.Radius, x-a.Radius
	}
	leady, traily := y-a.Radius, y+a.Radius
	if momy > 0 {
		leady, traily = y+a.Radius, y-a.Radius
	}
	traces := [3]*level.Line{
		level.Segment(leadx, leady, leadx+momx, leady+momy),
		level.Segment(trailx, leady, trailx+momx, leady+momy),
		level.Segment(leadx, traily, leadx+momx, traily+momy),
	}

	box := level.BoxAround(x, y, a.Radius)
	box.Add(x+momx-a.Radius, y+momy-a.Radius)
	box.Add(x+momx+a.Radius, y+momy+a.Radius)

	var hits []*level.Line
	bm := w.Blockmap
	bm.BeginScan()
	xl, xh, yl, yh := bm.CellRange(box, 0)
	for bx := xl; bx <= xh; bx++ {
		for by := yl; by <= yh; by++ {
			bm.ForEachLineInCell(bx, by, func(l *level.Line) blockmap.Iter {
				if !bm.VisitLine(l) {
					return blockmap.Continue
				}
				if !l.TwoSided() || !l.CrossSpecial() {
					return blockmap.Continue
				}
				for _, t := range traces {
					if segmentCrosses(t, l) {
						hits = append(hits, l)
						break
					}
				}
				return blockmap.Continue
			})
		}
	}
	bm.EndScan()

	w.crossLines(a, x, y, x+momx, y+momy, hits)
}
