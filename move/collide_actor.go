// SPDX-License-Identifier: GPL-2.0-or-later

package move

import (
	"kartmove/blockmap"
	"kartmove/fixed"
	"kartmove/level"
)

func spectator(a *Actor) bool {
	return a.IsPlayer() && a.Player.Spectator
}

// overlapZ reports whether the vertical extents touch. Touching at exactly
// one height counts.
func overlapZ(a, b *Actor) bool {
	return !(a.Z > b.Top() || a.Top() < b.Z)
}

// paperLine is the thin wall a paper actor collides as.
func paperLine(a *Actor, x, y fixed.Fixed) (*level.Line, fixed.Fixed, fixed.Fixed) {
	c := fixed.Mul(a.Radius, a.Angle.Cos())
	s := fixed.Mul(a.Radius, a.Angle.Sin())
	return level.Segment(x-c, y-s, x+c, y+s), c, s
}

// paperContact refines the box test for paper thin actors. It returns false
// when the boxes touch but the thin wall is not crossed.
func paperContact(tm *Transaction, thing *Actor) bool {
	mover := tm.Thing
	dx := fixed.Abs(thing.X - tm.X)
	dy := fixed.Abs(thing.Y - tm.Y)
	side := level.PointOnLineSide

	switch {
	case thing.Is(FlagPaperCollision):
		junk, c, s := paperLine(thing, thing.X, thing.Y)
		if mover.Is(FlagPaperCollision) {
			mc := fixed.Mul(mover.Radius, mover.Angle.Cos())
			ms := fixed.Mul(mover.Radius, mover.Angle.Sin())
			if dx >= fixed.Abs(mc)+fixed.Abs(c) || dy >= fixed.Abs(ms)+fixed.Abs(s) {
				return false
			}
			c1 := side(tm.X-mc, tm.Y-ms, junk)
			c2 := side(tm.X+mc, tm.Y+ms, junk)
			c3 := side(tm.X+mover.MomX-mc, tm.Y+mover.MomY-ms, junk)
			c4 := side(tm.X+mover.MomX+mc, tm.Y+mover.MomY+ms, junk)
			return !(c1 == c2 && c2 == c3 && c3 == c4)
		}
		if dx >= mover.Radius+fixed.Abs(c) || dy >= mover.Radius+fixed.Abs(s) {
			return false
		}
		return crossesBox(junk, tm.X, tm.Y, mover.Radius)
	case mover.Is(FlagPaperCollision):
		junk, c, s := paperLine(mover, tm.X, tm.Y)
		if dx >= thing.Radius+fixed.Abs(c) || dy >= thing.Radius+fixed.Abs(s) {
			return false
		}
		return crossesBox(junk, thing.X, thing.Y, thing.Radius)
	}
	return true
}

// crossesBox reports whether l separates a pair of opposite corners of the
// box around (x, y).
func crossesBox(l *level.Line, x, y, r fixed.Fixed) bool {
	side := level.PointOnLineSide
	return side(x-r, y-r, l) != side(x+r, y+r, l) || side(x+r, y-r, l) != side(x-r, y+r, l)
}

// checkThing is the actor against actor step of a probe. It returns Abort
// when thing blocks the mover.
func (w *World) checkThing(tm *Transaction, thing *Actor) blockmap.Iter {
	mover := tm.Thing
	if mover.Removed() {
		return blockmap.Abort
	}
	if thing.Removed() || thing == mover {
		return blockmap.Continue
	}
	if mover.Kind == KindRay && thing.id == mover.Target {
		// a CheckMove stand in overlaps the actor it stands in for
		return blockmap.Continue
	}
	if spectator(mover) || spectator(thing) {
		return blockmap.Continue
	}
	if thing.HitLag > 0 && mover.HitLag > 0 {
		return blockmap.Continue
	}
	if thing.Is(FlagNoClipThing) || !thing.Is(FlagSolid|FlagSpecial|FlagPain|FlagShootable|FlagSpring) {
		return blockmap.Continue
	}

	blockdist := thing.Radius + mover.Radius
	if fixed.Abs(thing.X-tm.X) >= blockdist || fixed.Abs(thing.Y-tm.Y) >= blockdist {
		return blockmap.Continue
	}
	if (thing.Is(FlagPaperCollision) || mover.Is(FlagPaperCollision)) && !paperContact(tm, thing) {
		return blockmap.Continue
	}

	hr := w.reg.hook(thing, mover)
	if mover.Removed() || thing.Removed() {
		return blockmap.Continue
	}
	switch hr {
	case ForceCollide:
		return w.block(tm, thing)
	case ForceNoCollide:
		return blockmap.Continue
	}

	if thing.Is(FlagPain) {
		if overlapZ(mover, thing) && mover.Is(FlagShootable) && thing.Health > 0 {
			w.fx.Damage(mover, thing, thing, 1, thing.DamageKind)
		}
		return blockmap.Continue
	} else if mover.Is(FlagPain) && thing.IsPlayer() {
		if overlapZ(mover, thing) && thing.Is(FlagShootable) && mover.Health > 0 {
			w.fx.Damage(thing, mover, mover, 1, mover.DamageKind)
		}
		return blockmap.Continue
	}

	if mover.Is(FlagSkullFly) {
		if !overlapZ(mover, thing) {
			return blockmap.Continue
		}
		mover.Flags &^= FlagSkullFly
		mover.MomX, mover.MomY, mover.MomZ = 0, 0, 0
		return w.block(tm, thing)
	}

	if e, a, b, ok := w.reg.pair(thing, mover); ok && (e.penetrating || overlapZ(mover, thing)) {
		c := &Contact{World: w, TM: tm, A: a, B: b, Moving: mover}
		out := e.h(c)
		if mover.Removed() {
			return blockmap.Abort
		}
		if thing.Removed() {
			return blockmap.Continue
		}
		switch out {
		case Touch:
			return blockmap.Continue
		case Block:
			return w.block(tm, thing)
		}
	}

	if mover.Is(FlagMissile) {
		return w.missileHit(tm, thing)
	}

	if thing.Is(FlagPushable) && (mover.IsPlayer() || mover.Is(FlagPushable)) &&
		mover.Top() > thing.Z && mover.Z < thing.Top() && !spectator(mover) {
		w.push(mover, thing)
	}

	if thing.Is(FlagSpecial) && mover.IsPlayer() {
		w.fx.TouchPickup(thing, mover)
		return blockmap.Continue
	}
	if mover.Is(FlagSpecial) && thing.IsPlayer() {
		w.fx.TouchPickup(mover, thing)
		return blockmap.Continue
	}

	if thing.Is(FlagEnemy|FlagBoss) && mover.Is(FlagEnemy|FlagBoss) {
		if thing.Top() >= mover.Z && mover.Top() >= thing.Z {
			return w.block(tm, thing)
		}
	}

	if mover.IsPlayer() {
		if mover.Health <= 0 {
			return blockmap.Continue
		}
		switch {
		case thing.IsPlayer():
			if overlapZ(mover, thing) {
				w.fx.Bump(mover, thing)
			}
			return blockmap.Continue
		case thing.Is(FlagSolid) && overlapZ(mover, thing):
			if w.fx.SolidBounce(mover, thing) {
				return blockmap.Continue
			}
		}
	}

	// springs never step onto players
	if mover.Is(FlagSpring) && thing.IsPlayer() {
		return blockmap.Continue
	}
	if thing.Flags&(FlagSolid|FlagNoClip) != FlagSolid || mover.Flags&(FlagSolid|FlagNoClip) != FlagSolid {
		return blockmap.Continue
	}
	if mover.Flipped() {
		return w.stepUnder(tm, thing)
	}
	return w.stepOnto(tm, thing)
}

func (w *World) block(tm *Transaction, thing *Actor) blockmap.Iter {
	tm.HitThing = thing.id
	return blockmap.Abort
}

// missileHit resolves a missile reaching thing.
func (w *World) missileHit(tm *Transaction, thing *Actor) blockmap.Iter {
	mover := tm.Thing
	if !overlapZ(mover, thing) {
		return blockmap.Continue
	}
	if owner := w.Actor(mover.Target); owner != nil && owner.Kind == thing.Kind {
		// don't hit the same species as the owner, players excepted
		if thing == owner {
			return blockmap.Continue
		}
		if !thing.IsPlayer() {
			return w.block(tm, thing)
		}
	}
	if !thing.Is(FlagShootable) {
		if thing.Is(FlagSolid) {
			return w.block(tm, thing)
		}
		return blockmap.Continue
	}
	w.fx.Damage(thing, mover, w.Actor(mover.Target), 1, mover.DamageKind)
	return w.block(tm, thing)
}

// push hands the mover's momentum to a pushable.
func (w *World) push(mover, thing *Actor) {
	limit := fixed.Mul(fixed.FromInt(4), thing.Scale)
	if thing.Is(FlagSlidePush) {
		accel := fixed.Mul(w.cfg.PushAccel, thing.Scale)
		slide := func(m, t *fixed.Fixed) {
			switch {
			case *m > 0 && *m > limit && *m > *t:
				*t += accel
				*m -= accel
			case *m < 0 && *m < -limit && *m < *t:
				*t -= accel
				*m += accel
			}
		}
		slide(&mover.MomY, &thing.MomY)
		slide(&mover.MomX, &thing.MomX)
		speed := fixed.Mul(thing.Speed, thing.Scale)
		thing.MomX = clampFixed(thing.MomX, speed)
		thing.MomY = clampFixed(thing.MomY, speed)
	} else {
		mover.MomX = clampFixed(mover.MomX, limit)
		mover.MomY = clampFixed(mover.MomY, limit)
		thing.MomX = mover.MomX
		thing.MomY = mover.MomY
	}
	thing.Target = mover.id
}

func clampFixed(v, limit fixed.Fixed) fixed.Fixed {
	return min(max(v, -limit), limit)
}

// stepOnto treats the top of thing as floor. A top out of step reach blocks
// the mover, and so does a player that would have to climb in mid air.
func (w *World) stepOnto(tm *Transaction, thing *Actor) blockmap.Iter {
	mover := tm.Thing
	tmtop := mover.Top()
	if tmtop < thing.Z {
		// pass under
		if thing.Z < tm.CeilingZ {
			tm.CeilingZ = thing.Z
			tm.Ceiling = Surface{}
		}
		return blockmap.Continue
	}

	topz := thing.Top() + thing.Scale
	if mover.IsPlayer() && mover.Z < topz && mover.Z > mover.FloorZ {
		return w.block(tm, thing)
	}
	if topz > tm.FloorZ && tmtop >= thing.Z {
		if topz-mover.Z > w.StepUp(mover, tm.X, tm.Y) {
			return w.block(tm, thing)
		}
		tm.FloorZ = topz
		tm.Floor = Surface{}
		tm.FloorThing = thing.id
	}
	return blockmap.Continue
}

// stepUnder is stepOnto under reversed gravity.
func (w *World) stepUnder(tm *Transaction, thing *Actor) blockmap.Iter {
	mover := tm.Thing
	if mover.Z > thing.Top() {
		// pass over
		if thing.Top() > tm.FloorZ {
			tm.FloorZ = thing.Top()
			tm.Floor = Surface{}
		}
		return blockmap.Continue
	}

	topz := thing.Z - thing.Scale
	if mover.IsPlayer() && mover.Top() > topz && mover.Top() < mover.CeilingZ {
		return w.block(tm, thing)
	}
	if topz < tm.CeilingZ && mover.Z <= thing.Top() {
		if mover.Top()-topz > w.StepUp(mover, tm.X, tm.Y) {
			return w.block(tm, thing)
		}
		tm.CeilingZ = topz
		tm.Ceiling = Surface{}
		tm.FloorThing = thing.id
	}
	return blockmap.Continue
}
