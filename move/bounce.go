// SPDX-License-Identifier: GPL-2.0-or-later

package move

import (
	"kartmove/fixed"
	"kartmove/level"
)

// restitution factors
const (
	decayDefault = fixed.FracUnit - fixed.FracUnit>>2 - fixed.FracUnit>>3
	decayThrown  = fixed.FracUnit - fixed.FracUnit>>6 - fixed.FracUnit>>5
)

// reflect mirrors (dx, dy) on l.
func reflect(l *level.Line, dx, dy fixed.Fixed) (fixed.Fixed, fixed.Fixed) {
	switch l.SlopeType {
	case level.SlopeHorizontal:
		return dx, -dy
	case level.SlopeVertical:
		return -dx, dy
	}
	lineangle := l.Angle
	if lineangle >= fixed.Ang180 {
		lineangle -= fixed.Ang180
	}
	moveangle := fixed.PointToAngle(0, 0, dx, dy)
	delta := moveangle + 2*(lineangle-moveangle)
	movelen := fixed.AproxDistance(dx, dy)
	return fixed.Mul(movelen, delta.Cos()), fixed.Mul(movelen, delta.Sin())
}

// BounceMove resolves a rejected move by bouncing off the blocking line.
// How much speed is kept depends on the kind of actor, players get their
// own rules.
func (w *World) BounceMove(a *Actor, res *MoveResult) {
	if a.Removed() || res == nil {
		return
	}
	if a.IsPlayer() {
		w.bouncePlayer(a, res)
		return
	}
	if a.Has(EFlagJustBouncedWall) {
		w.SlideMove(a, res)
		return
	}
	l := res.Line
	if l == nil {
		return
	}
	w.enter()
	defer w.leave()

	xmove, ymove := a.MomX, a.MomY
	switch a.Kind {
	case KindShell:
	case KindThrownBounce:
		xmove = fixed.Mul(xmove, decayThrown)
		ymove = fixed.Mul(ymove, decayThrown)
	case KindThrownGrenade:
		// quickly lose speed
		xmove = fixed.Div(xmove, 2*fixed.FracUnit)
		ymove = fixed.Div(ymove, 2*fixed.FracUnit)
	default:
		xmove = fixed.Mul(xmove, decayDefault)
		ymove = fixed.Mul(ymove, decayDefault)
	}

	xmove, ymove = reflect(l, xmove, ymove)
	a.MomX, a.MomY = xmove, ymove
	if !w.TryMove(a, a.X+xmove, a.Y+ymove, true, nil) {
		if a.Removed() {
			return
		}
		// hit the middle, straight back
		a.MomX = fixed.Mul(-a.MomX, decayDefault)
		a.MomY = fixed.Mul(-a.MomY, decayDefault)
	}
}

// bouncePlayer pushes a player off the wall along its normal. Trip wires
// always bounce and throw the player back hard, non bouncy walls slide.
func (w *World) bouncePlayer(a *Actor, res *MoveResult) {
	if spectator(a) {
		w.SlideMove(a, res)
		return
	}
	l := res.Line
	if l == nil {
		return
	}
	w.enter()
	defer w.leave()

	oldx, oldy := a.MomX, a.MomY
	xmove, ymove := a.Player.RMomX, a.Player.RMomY
	if !a.Has(EFlagJustBouncedWall) {
		xmove = fixed.Mul(xmove, decayDefault)
		ymove = fixed.Mul(ymove, decayDefault)
	}

	wire := l.Is(level.LineTripWire)
	if wire {
		w.fx.TripWire(a, true)
	} else {
		if l.Is(level.LineNotBouncy) {
			w.SlideMove(a, res)
			return
		}
		w.fx.WallBump(a)
	}
	if a.Removed() {
		return
	}

	nx, ny := wallNormal(l, a)
	movelen := fixed.AproxDistance(xmove, ymove)
	movelen = max(movelen, fixed.Mul(w.cfg.BumpMinSpeed, w.cfg.MapObjectScale))
	px, py := fixed.Mul(movelen, nx), fixed.Mul(movelen, ny)
	if wire {
		xmove, ymove = px*4, py*4
	} else {
		xmove += px
		ymove += py
	}

	a.EFlags |= EFlagJustBouncedWall
	a.MomX, a.MomY = xmove, ymove
	if wire {
		return
	}
	if !w.TryMove(a, a.X+xmove, a.Y+ymove, true, nil) && !a.Removed() {
		w.TryMove(a, a.X-oldx, a.Y-oldy, true, nil)
	}
}
