// SPDX-License-Identifier: GPL-2.0-or-later

package move

import (
	"kartmove/blockmap"
	"kartmove/fixed"
	"kartmove/level"
)

// IsLineBlocking reports whether l stops a by its flags alone.
func IsLineBlocking(l *level.Line, a *Actor) bool {
	// missiles cross everything
	if a.Is(FlagMissile) {
		return false
	}
	if spectator(a) {
		return false
	}
	if l.Is(level.LineImpassable) {
		return true
	}
	if a.IsPlayer() {
		return l.Is(level.LineBlockPlayers)
	}
	if a.Is(FlagEnemy | FlagBoss) {
		return l.Is(level.LineBlockMonsters)
	}
	return false
}

func bodyOf(a *Actor) level.Body {
	return level.Body{Z: a.Z, Height: a.Height, Player: a.IsPlayer()}
}

// wireSpan returns the heights a trip wire covers at the opening.
func wireSpan(l *level.Line, o level.Opening) (top, bottom fixed.Fixed) {
	if l.MidTop == 0 && l.MidBottom == 0 {
		return o.Top, o.Bottom
	}
	return l.MidTop, l.MidBottom
}

// checkLine is the actor against line step of a probe. It narrows the
// floor and ceiling by the line opening and returns Abort for walls.
func (w *World) checkLine(tm *Transaction, l *level.Line) blockmap.Iter {
	a := tm.Thing
	thingtop := a.Top()

	if l.Polyobj != nil && !l.Polyobj.Is(level.PolySolid) {
		return blockmap.Continue
	}
	if !tm.BBox.Overlaps(l.BBox) {
		return blockmap.Continue
	}
	if level.BoxOnLineSide(tm.BBox, l) != -1 {
		return blockmap.Continue
	}
	if a.Is(FlagPaperCollision) {
		c := fixed.Mul(a.Radius, a.Angle.Cos())
		s := fixed.Mul(a.Radius, a.Angle.Sin())
		if level.PointOnLineSide(tm.X-c, tm.Y-s, l) == level.PointOnLineSide(tm.X+c, tm.Y+s, l) {
			return blockmap.Continue
		}
	}

	tm.BlockingLine = l

	hr := w.reg.lineHook(a, l)
	if a.Removed() {
		return blockmap.Continue
	}
	switch hr {
	case ForceCollide:
		return blockmap.Abort
	case ForceNoCollide:
		return blockmap.Continue
	}

	if l.Back == nil && l.Polyobj == nil {
		if level.PointOnLineSide(a.X, a.Y, l) == 1 {
			// don't hit the back side
			return blockmap.Continue
		}
		return blockmap.Abort
	}
	if IsLineBlocking(l, a) {
		return blockmap.Abort
	}

	o := level.LineOpening(l, tm.X, tm.Y, bodyOf(a))
	if o.Top < tm.CeilingZ {
		tm.CeilingZ = o.Top
		tm.CeilingLine = l
		tm.Ceiling = Surface{Rover: o.TopRover, Polyobj: o.TopPolyobj, Slope: o.TopSlope}
		tm.CeilingStep = thingtop - o.Top
		if thingtop == a.CeilingZ {
			tm.CeilingDrop = o.HighCeiling - o.Top
		}
	}
	if o.Bottom > tm.FloorZ {
		tm.FloorZ = o.Bottom
		tm.Floor = Surface{Rover: o.BottomRover, Polyobj: o.BottomPolyobj, Slope: o.BottomSlope}
		tm.FloorStep = o.Bottom - a.Z
		if a.Z == a.FloorZ {
			tm.FloorDrop = o.Bottom - o.LowFloor
		}
	}
	if o.HighCeiling > tm.DropoffCeilZ {
		tm.DropoffCeilZ = o.HighCeiling
	}
	if o.LowFloor < tm.DropoffZ {
		tm.DropoffZ = o.LowFloor
	}

	switch {
	case l.Special != 0 && l.Is(level.LineCrossActivate):
		tm.SpecHit = append(tm.SpecHit, l)
	case l.Is(level.LineTripWire):
		// only wires the actor actually clips are kept, the heights are
		// gone by the time crossings are delivered
		top, bottom := wireSpan(l, o)
		if a.Z <= top && thingtop >= bottom {
			tm.SpecHit = append(tm.SpecHit, l)
		}
	}
	return blockmap.Continue
}
