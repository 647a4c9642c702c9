// SPDX-License-Identifier: GPL-2.0-or-later

package move

import (
	"kartmove/fixed"
	"kartmove/level"
)

// wallNormal returns the unit normal of l pointing towards the side a is
// on.
func wallNormal(l *level.Line, a *Actor) (fixed.Fixed, fixed.Fixed) {
	ang := l.Angle - fixed.Ang90
	if level.PointOnLineSide(a.X, a.Y, l) == 1 {
		ang += fixed.Ang180
	}
	return ang.Cos(), ang.Sin()
}

// clipToLine removes the part of (dx, dy) that goes into l.
func clipToLine(l *level.Line, a *Actor, dx, dy fixed.Fixed) (fixed.Fixed, fixed.Fixed) {
	switch l.SlopeType {
	case level.SlopeHorizontal:
		return dx, 0
	case level.SlopeVertical:
		return 0, dy
	}
	nx, ny := wallNormal(l, a)
	d := fixed.Mul(dx, nx) + fixed.Mul(dy, ny)
	return dx - fixed.Mul(nx, d), dy - fixed.Mul(ny, d)
}

// checkLavaWall hurts a if it runs into a lava slab of sec.
func (w *World) checkLavaWall(a *Actor, sec *level.Sector) {
	if sec == nil {
		return
	}
	for _, r := range sec.FFloors {
		if !r.Is(level.FOFExists) || !r.Is(level.FOFSwimmable) || !r.Is(level.FOFLava) {
			continue
		}
		top := r.TopZAt(a.X, a.Y)
		bottom := r.BottomZAt(a.X, a.Y)
		if a.Flipped() {
			if top < a.Z-a.Height || bottom > a.Z {
				continue
			}
		} else if top < a.Z || bottom > a.Top() {
			continue
		}
		w.fx.Damage(a, nil, nil, 1, DamageLava)
		return
	}
}

// SlideMove resolves a rejected move by sliding along what blocked it.
// Walls take away the momentum going into them, actors push a out along
// the axis they were hit on.
func (w *World) SlideMove(a *Actor, res *MoveResult) {
	if a.Removed() || res == nil {
		return
	}
	w.enter()
	defer w.leave()

	var l *level.Line
	if t := w.Actor(res.Actor); t != nil && a.Top() > t.Z && a.Z < t.Top() {
		if t.Is(FlagPushable) {
			// pushables move on their own
			return
		}
		if !t.Is(FlagPaperCollision) {
			w.separate(a, t)
			return
		}
		l, _, _ = paperLine(t, t.X, t.Y)
	} else {
		l = res.Line
		if l == nil {
			return
		}
		if a.IsPlayer() && l.TwoSided() {
			far := l.Back
			if level.PointOnLineSide(a.X, a.Y, l) == 1 {
				far = l.Front
			}
			w.checkLavaWall(a, far)
			if a.Removed() {
				return
			}
		}
	}

	xmove, ymove := clipToLine(l, a, a.MomX, a.MomY)
	a.MomX, a.MomY = xmove, ymove
	w.slideSteps(a, xmove, ymove)
}

// slideSteps walks (xmove, ymove) in radius sized steps. If the first step
// fails it tries the axes one at a time.
func (w *World) slideSteps(a *Actor, xmove, ymove fixed.Fixed) {
	step := func(move *fixed.Fixed) fixed.Fixed {
		switch {
		case *move > a.Radius:
			*move -= a.Radius
			return a.Radius
		case *move < -a.Radius:
			*move += a.Radius
			return -a.Radius
		}
		d := *move
		*move = 0
		return d
	}

	success := false
	for {
		newx := a.X + step(&xmove)
		newy := a.Y + step(&ymove)
		if !w.TryMove(a, newx, newy, true, nil) {
			if success || a.Removed() {
				return
			}
			w.stairStep(a)
			return
		}
		success = true
		if xmove == 0 && ymove == 0 {
			return
		}
	}
}

// stairStep tries the y part of the momentum alone, then the x part.
func (w *World) stairStep(a *Actor) {
	if w.TryMove(a, a.X, a.Y+a.MomY, true, nil) || a.Removed() {
		return
	}
	w.TryMove(a, a.X+a.MomX, a.Y, true, nil)
}

// separate moves a flush against the side of t it came from and drops the
// momentum along that axis.
func (w *World) separate(a, t *Actor) {
	switch {
	case a.Y+a.Radius <= t.Y-t.Radius:
		a.MomY = 0
		w.TryMove(a, a.X+a.MomX, t.Y-t.Radius-a.Radius, true, nil)
	case a.Y-a.Radius >= t.Y+t.Radius:
		a.MomY = 0
		w.TryMove(a, a.X+a.MomX, t.Y+t.Radius+a.Radius, true, nil)
	case a.X+a.Radius <= t.X-t.Radius:
		a.MomX = 0
		w.TryMove(a, t.X-t.Radius-a.Radius, a.Y+a.MomY, true, nil)
	case a.X-a.Radius >= t.X+t.Radius:
		a.MomX = 0
		w.TryMove(a, t.X+t.Radius+a.Radius, a.Y+a.MomY, true, nil)
	default:
		a.MomX, a.MomY = 0, 0
	}
}
