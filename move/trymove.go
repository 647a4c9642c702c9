// SPDX-License-Identifier: GPL-2.0-or-later

package move

import (
	"slices"

	"github.com/samber/lo"

	"kartmove/blockmap"
	"kartmove/fixed"
	"kartmove/level"
)

// verticalState is the part of an actor a rejected move has to put back.
type verticalState struct {
	z                      fixed.Fixed
	floorZ, ceilingZ       fixed.Fixed
	floor, ceiling         Surface
	floorDrop, ceilingDrop fixed.Fixed
	eflags                 EFlags
}

func (a *Actor) saveVertical() verticalState {
	return verticalState{
		z:           a.Z,
		floorZ:      a.FloorZ,
		ceilingZ:    a.CeilingZ,
		floor:       a.Floor,
		ceiling:     a.Ceiling,
		floorDrop:   a.FloorDrop,
		ceilingDrop: a.CeilingDrop,
		eflags:      a.EFlags,
	}
}

func (a *Actor) restoreVertical(s verticalState) {
	a.Z = s.z
	a.FloorZ, a.CeilingZ = s.floorZ, s.ceilingZ
	a.Floor, a.Ceiling = s.floor, s.ceiling
	a.FloorDrop, a.CeilingDrop = s.floorDrop, s.ceilingDrop
	a.EFlags = s.eflags
}

// BaseStepUp is the step height without any modifiers.
func (w *World) BaseStepUp() fixed.Fixed {
	return fixed.Mul(w.cfg.MaxStepMove, w.cfg.MapObjectScale)
}

func waterRunning(a *Actor) bool {
	r := a.Floor.Rover
	return r != nil && r.Is(level.FOFSwimmable) && a.OnGround()
}

func waterStepUp(a *Actor) bool {
	return (a.IsPlayer() && a.Player.WaterSkip > 0) || waterRunning(a)
}

// StepUp returns how far a may step up or down when moving to (x, y).
func (w *World) StepUp(a *Actor, x, y fixed.Fixed) fixed.Fixed {
	base := w.BaseStepUp()
	maxstep := base
	if waterStepUp(a) {
		maxstep += base
	}
	dest := w.Level.SectorAt(x, y)
	if w.touchingFlag(a, level.SectorDoubleStepUp) || dest.Is(level.SectorDoubleStepUp) {
		maxstep <<= 1
	} else if w.touchingFlag(a, level.SectorNoStepUp) || dest.Is(level.SectorNoStepUp) {
		maxstep = 0
	}
	return maxstep
}

// stepToward advances from toward to by at most step.
func stepToward(from, to, step fixed.Fixed) fixed.Fixed {
	switch d := int64(to) - int64(from); {
	case d > int64(step):
		return from + step
	case d < -int64(step):
		return from - step
	}
	return to
}

// incrementMove probes the way to (x, y) in steps no longer than the
// actor's radius. Accepted steps may raise or lower the actor onto the new
// floor. Special lines touched on the way are appended to crossed.
func (w *World) incrementMove(a *Actor, x, y fixed.Fixed, allowDropOff bool, tm *Transaction, crossed *[]*level.Line, res *MoveResult) bool {
	scale := w.cfg.MapObjectScale
	// tiny radii would take forever, huge ones skip over slopes
	radius := max(a.Radius, scale)
	radius = min(radius, fixed.Mul(fixed.FromInt(16), scale))

	tryx, tryy := a.X, a.Y
	for {
		if a.Is(FlagNoClip) {
			tryx, tryy = x, y
		} else {
			tryx = stepToward(tryx, x, radius)
			tryy = stepToward(tryy, y, radius)
		}

		if !w.CheckPosition(a, tryx, tryy, tm, res) {
			return false
		}
		if crossed != nil {
			*crossed = append(*crossed, tm.SpecHit...)
		}

		if !a.Is(FlagNoClip) {
			maxstep := w.StepUp(a, tryx, tryy)
			if !w.fitStep(a, x, y, maxstep, tm, res) {
				return false
			}
			if !allowDropOff && !a.Is(FlagFloat) && a.Kind != KindSkim && tm.FloorThing == NoActor {
				if a.Flipped() {
					if tm.DropoffCeilZ-tm.CeilingZ > maxstep {
						return false
					}
				} else if tm.FloorZ-tm.DropoffZ > maxstep {
					// don't stand over a drop-off
					return false
				}
			}
		}
		if tryx == x && tryy == y {
			return true
		}
	}
}

// fitStep checks the probed opening against the actor and moves it onto a
// floor or ceiling within step reach.
func (w *World) fitStep(a *Actor, x, y, maxstep fixed.Fixed, tm *Transaction, res *MoveResult) bool {
	if tm.CeilingZ-tm.FloorZ < a.Height {
		if tm.FloorThing != NoActor {
			tm.HitThing = tm.FloorThing
			if res != nil {
				res.Actor = tm.HitThing
			}
		}
		return false
	}

	thingtop := a.Top()
	switch {
	case a.Z < tm.FloorZ:
		// step up
		if maxstep == 0 || tm.FloorZ-a.Z > maxstep {
			return false
		}
		a.Z = tm.FloorZ
		a.FloorZ = tm.FloorZ
		a.Floor = tm.Floor
		a.EFlags |= EFlagJustSteppedDown
	case tm.CeilingZ < thingtop:
		if maxstep == 0 || thingtop-tm.CeilingZ > maxstep {
			return false
		}
		a.CeilingZ = tm.CeilingZ
		a.Z = a.CeilingZ - a.Height
		a.Ceiling = tm.Ceiling
		a.EFlags |= EFlagJustSteppedDown
	case maxstep > 0 && a.MomZ*a.Flip() <= 0 &&
		!w.touchingFlag(a, level.SectorNoStepDown) && !w.Level.SectorAt(x, y).Is(level.SectorNoStepDown):
		// step down, only while moving down
		if thingtop == a.CeilingZ && tm.CeilingZ > thingtop && tm.CeilingZ-thingtop <= maxstep {
			a.CeilingZ = tm.CeilingZ
			a.Z = a.CeilingZ - a.Height
			a.Ceiling = tm.Ceiling
			a.EFlags |= EFlagJustSteppedDown
			tm.CeilingDrop = 0
		} else if a.Z == a.FloorZ && tm.FloorZ < a.Z && a.Z-tm.FloorZ <= maxstep {
			a.Z = tm.FloorZ
			a.FloorZ = tm.FloorZ
			a.Floor = tm.Floor
			a.EFlags |= EFlagJustSteppedDown
			tm.FloorDrop = 0
		}
	}
	return true
}

// TryMove attempts to move a to (x, y). On success the actor is relinked
// at the destination and special lines it crossed are delivered once each.
// On failure the actor keeps its position and height, and res names the
// line or actor in the way.
func (w *World) TryMove(a *Actor, x, y fixed.Fixed, allowDropOff bool, res *MoveResult) bool {
	w.assertLive(a, "TryMove")
	w.enter()
	defer w.leave()
	var tm Transaction
	return w.tryMove(a, x, y, allowDropOff, &tm, res)
}

func (w *World) tryMove(a *Actor, x, y fixed.Fixed, allowDropOff bool, tm *Transaction, res *MoveResult) bool {
	oldx, oldy := a.X, a.Y
	saved := a.saveVertical()
	var crossed []*level.Line

	if !w.incrementMove(a, x, y, allowDropOff, tm, &crossed, res) {
		if !a.Removed() {
			a.restoreVertical(saved)
		}
		w.stats.Rejected++
		return false
	}

	if a.Is(FlagPushable) {
		w.pushableMoved(a, tm)
		if a.Removed() {
			return false
		}
	}

	w.unsetThingPosition(a)
	a.FloorZ = tm.FloorZ
	a.CeilingZ = tm.CeilingZ
	a.Floor = tm.Floor
	a.Ceiling = tm.Ceiling
	a.FloorDrop = tm.FloorDrop
	a.CeilingDrop = tm.CeilingDrop

	if a.Is(FlagNoClipHeight) {
		a.StandingSlope = nil
	} else if !a.Flipped() && a.Z <= tm.FloorZ {
		if a.MomZ <= 0 {
			a.StandingSlope = tm.Floor.Slope
		}
	} else if a.Flipped() && a.Top() >= tm.CeilingZ {
		if a.MomZ >= 0 {
			a.StandingSlope = tm.Ceiling.Slope
		}
	}

	a.X, a.Y = x, y
	if tm.FloorThing != NoActor {
		// not on a real floor
		a.EFlags &^= EFlagOnGround
	} else {
		a.EFlags |= EFlagOnGround
	}
	a.Support = tm.FloorThing
	w.setThingPosition(a)
	w.stats.Moves++

	if !a.Is(FlagNoClip) {
		w.crossLines(a, oldx, oldy, a.X, a.Y, crossed)
	}
	if res != nil {
		*res = MoveResult{}
	}
	return true
}

// crossLines delivers every line of crossed that separates the old and the
// new position, each at most once, last touched first.
func (w *World) crossLines(a *Actor, oldx, oldy, x, y fixed.Fixed, crossed []*level.Line) {
	lines := lo.Uniq(crossed)
	slices.Reverse(lines)
	for _, l := range lines {
		side := level.PointOnLineSide(x, y, l)
		oldside := level.PointOnLineSide(oldx, oldy, l)
		if side == oldside {
			continue
		}
		w.stats.Crossings++
		if l.Is(level.LineTripWire) && a.IsPlayer() {
			w.fx.TripWire(a, false)
		}
		if l.Special != 0 {
			w.fx.CrossSpecialLine(l, oldside, a)
		}
		if a.Removed() {
			return
		}
	}
}

// pushableMoved carries the actors standing on top of stand along with it.
// Riding players get a full move of their own, others just inherit the
// momentum.
func (w *World) pushableMoved(stand *Actor, tm *Transaction) {
	if stand.MomX == 0 && stand.MomY == 0 {
		return
	}
	bm := w.Blockmap
	box := level.BoxAround(stand.X, stand.Y, 0)
	xl, xh, yl, yh := bm.CellRange(box, w.cfg.MaxRadius)
	for by := yl; by <= yh; by++ {
		for bx := xl; bx <= xh; bx++ {
			bm.ForEachActorInCell(bx, by, func(id ActorID) blockmap.Iter {
				w.carry(stand, w.Actor(id), tm)
				return blockmap.Continue
			})
		}
	}
}

func (w *World) carry(stand, thing *Actor, tm *Transaction) {
	if thing.Removed() || thing == stand {
		return
	}
	if !thing.Is(FlagSolid) || thing.Is(FlagNoGravity) {
		return
	}
	if !thing.Is(FlagPushable) && !thing.IsPlayer() {
		return
	}
	blockdist := stand.Radius + thing.Radius
	if fixed.Abs(thing.X-stand.X) >= blockdist || fixed.Abs(thing.Y-stand.Y) >= blockdist {
		return
	}
	if stand.Flipped() {
		if thing.Top() != stand.Z-stand.Scale {
			return
		}
	} else if thing.Z != stand.Top()+stand.Scale {
		return
	}

	if thing.IsPlayer() {
		saved := tm.Save()
		w.tryMove(thing, thing.X+stand.MomX, thing.Y+stand.MomY, true, tm, nil)
		tm.Restore(saved)
		thing.MomZ = stand.MomZ
		return
	}
	thing.MomX = stand.MomX
	thing.MomY = stand.MomY
	thing.MomZ = stand.MomZ
}

// CheckMove reports whether TryMove would succeed, using a stand in of the
// same size. The stand in is not part of the world: it takes no id and
// keeps the floor and ceiling of a, so a dry run leaves no trace.
func (w *World) CheckMove(a *Actor, x, y fixed.Fixed, allowDropOff bool, res *MoveResult) bool {
	w.assertLive(a, "CheckMove")
	w.enter()
	defer w.leave()

	ray := &Actor{
		Kind:      KindRay,
		X:         a.X,
		Y:         a.Y,
		Z:         a.Z,
		Radius:    a.Radius,
		Height:    a.Height,
		Scale:     a.Scale,
		MomZ:      a.MomZ,
		Flags:     FlagNoBlockmap | FlagNoGravity,
		EFlags:    a.EFlags & (EFlagVerticalFlip | EFlagOnGround),
		Target:    a.id,
		FloorZ:    a.FloorZ,
		CeilingZ:  a.CeilingZ,
		Floor:     a.Floor,
		Ceiling:   a.Ceiling,
		Subsector: a.Subsector,
		// sector flags are read from where a stands
		touching:  a.touching,
	}

	var tm Transaction
	return w.incrementMove(ray, x, y, allowDropOff, &tm, nil, res)
}

// SceneryTryMove is a cheaper TryMove for decoration: long steps, no
// stepping down and no special lines.
func (w *World) SceneryTryMove(a *Actor, x, y fixed.Fixed, res *MoveResult) bool {
	w.assertLive(a, "SceneryTryMove")
	w.enter()
	defer w.leave()

	var tm Transaction
	step := w.cfg.MaxRadius
	tryx, tryy := a.X, a.Y
	for {
		tryx = stepToward(tryx, x, step)
		tryy = stepToward(tryy, y, step)
		if !w.CheckPosition(a, tryx, tryy, &tm, res) {
			w.stats.Rejected++
			return false
		}
		if !a.Is(FlagNoClip) {
			switch {
			case tm.CeilingZ-tm.FloorZ < a.Height,
				tm.CeilingZ-a.Z < a.Height,
				tm.FloorZ-a.Z > w.BaseStepUp():
				w.stats.Rejected++
				return false
			}
		}
		if tryx == x && tryy == y {
			break
		}
	}

	w.unsetThingPosition(a)
	a.FloorZ = tm.FloorZ
	a.CeilingZ = tm.CeilingZ
	a.Floor = tm.Floor
	a.Ceiling = tm.Ceiling
	a.X, a.Y = x, y
	if tm.FloorThing != NoActor {
		a.EFlags &^= EFlagOnGround
	} else {
		a.EFlags |= EFlagOnGround
	}
	w.setThingPosition(a)
	w.stats.Moves++
	return true
}
