// SPDX-License-Identifier: GPL-2.0-or-later

package level

import (
	"log"
	"runtime/debug"

	"kartmove/fixed"
)

// PointOnLineSide returns 0 for the front (right) side and 1 for the back.
func PointOnLineSide(x, y fixed.Fixed, l *Line) int {
	return pointOnSide(x, y, l.V1.X, l.V1.Y, l.Dx, l.Dy)
}

func pointOnSide(x, y, ox, oy, ldx, ldy fixed.Fixed) int {
	if ldx == 0 {
		if x <= ox {
			return b2i(ldy > 0)
		}
		return b2i(ldy < 0)
	}
	if ldy == 0 {
		if y <= oy {
			return b2i(ldx < 0)
		}
		return b2i(ldx > 0)
	}
	dx := int64(x) - int64(ox)
	dy := int64(y) - int64(oy)
	left := int64(ldy) * dx
	right := dy * int64(ldx)
	if right < left {
		return 0
	}
	return 1
}

// BoxOnLineSide returns the side the whole box is on or -1 if the line
// crosses it.
func BoxOnLineSide(b BBox, l *Line) int {
	var p, p2 int
	switch l.SlopeType {
	case SlopeHorizontal:
		p = b2i(b.Top > l.V1.Y)
		p2 = b2i(b.Bottom > l.V1.Y)
		if l.Dx < 0 {
			p ^= 1
			p2 ^= 1
		}
	case SlopeVertical:
		p = b2i(b.Right < l.V1.X)
		p2 = b2i(b.Left < l.V1.X)
		if l.Dy < 0 {
			p ^= 1
			p2 ^= 1
		}
	case SlopePositive:
		p = PointOnLineSide(b.Left, b.Top, l)
		p2 = PointOnLineSide(b.Right, b.Bottom, l)
	case SlopeNegative:
		p = PointOnLineSide(b.Right, b.Top, l)
		p2 = PointOnLineSide(b.Left, b.Bottom, l)
	default:
		debug.PrintStack()
		log.Panicf("BoxOnLineSide: bad slope type %d on line %d", l.SlopeType, l.Index)
	}
	if p == p2 {
		return p
	}
	return -1
}

// BoxInsidePolyobj reports whether the box is not completely in front of
// any of the polyobject's outward facing lines.
func BoxInsidePolyobj(b BBox, po *Polyobj) bool {
	for _, l := range po.Lines {
		if BoxOnLineSide(b, l) == 0 {
			return false
		}
	}
	return true
}

func slopeTypeOf(dx, dy fixed.Fixed) SlopeType {
	switch {
	case dx == 0:
		return SlopeVertical
	case dy == 0:
		return SlopeHorizontal
	case (dy > 0) == (dx > 0):
		return SlopePositive
	default:
		return SlopeNegative
	}
}

// PointInSubsector walks the BSP if there is one and otherwise tests the
// convex subsectors in index order.
func (lv *Level) PointInSubsector(x, y fixed.Fixed) *Subsector {
	if len(lv.Nodes) > 0 {
		n := len(lv.Nodes) - 1
		for n >= 0 {
			node := lv.Nodes[n]
			n = node.Children[pointOnSide(x, y, node.X, node.Y, node.Dx, node.Dy)]
		}
		return lv.Subsectors[-1-n]
	}
	for _, ss := range lv.Subsectors {
		if ss.contains(x, y) {
			return ss
		}
	}
	// outside of the map, clamp to the nearest by index
	return lv.Subsectors[0]
}

func (ss *Subsector) contains(x, y fixed.Fixed) bool {
	for _, sg := range ss.Segs {
		dx := sg.V2.X - sg.V1.X
		dy := sg.V2.Y - sg.V1.Y
		if pointOnSide(x, y, sg.V1.X, sg.V1.Y, dx, dy) != 0 && !onSegLine(x, y, sg) {
			return false
		}
	}
	return true
}

func onSegLine(x, y fixed.Fixed, sg Seg) bool {
	dx := int64(sg.V2.X - sg.V1.X)
	dy := int64(sg.V2.Y - sg.V1.Y)
	return int64(y-sg.V1.Y)*dx == int64(x-sg.V1.X)*dy
}

// SectorAt is a shortcut for the sector of the containing subsector.
func (lv *Level) SectorAt(x, y fixed.Fixed) *Sector {
	return lv.PointInSubsector(x, y).Sector
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (l *Line) setVertexes(v1, v2 *Vertex) {
	l.V1, l.V2 = v1, v2
	l.Dx = v2.X - v1.X
	l.Dy = v2.Y - v1.Y
	l.BBox = emptyBox()
	l.BBox.Add(v1.X, v1.Y)
	l.BBox.Add(v2.X, v2.Y)
	l.SlopeType = slopeTypeOf(l.Dx, l.Dy)
	l.Angle = fixed.PointToAngle(0, 0, l.Dx, l.Dy)
}

// Segment returns a one sided line from (x1, y1) to (x2, y2) that is not
// part of any level. Thin actors collide through it.
func Segment(x1, y1, x2, y2 fixed.Fixed) *Line {
	l := &Line{Index: -1}
	l.setVertexes(&Vertex{X: x1, Y: y1}, &Vertex{X: x2, Y: y2})
	return l
}
