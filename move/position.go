// SPDX-License-Identifier: GPL-2.0-or-later

package move

import (
	gmath "math"

	"kartmove/blockmap"
	"kartmove/fixed"
	"kartmove/level"
	"kartmove/math"
)

// slopeExtreme returns the highest (or lowest) point of the plane under
// the box. A nil slope is flat at z.
func slopeExtreme(sl *level.Slope, z fixed.Fixed, b level.BBox, highest bool) fixed.Fixed {
	if sl == nil {
		return z
	}
	best := sl.ZAt(b.Left, b.Bottom)
	for _, c := range [3][2]fixed.Fixed{{b.Right, b.Bottom}, {b.Left, b.Top}, {b.Right, b.Top}} {
		v := sl.ZAt(c[0], c[1])
		if (highest && v > best) || (!highest && v < best) {
			best = v
		}
	}
	return best
}

func floorUnder(s *level.Sector, b level.BBox) fixed.Fixed {
	return slopeExtreme(s.FloorSlope, s.FloorHeight, b, true)
}

func ceilingOver(s *level.Sector, b level.BBox) fixed.Fixed {
	return slopeExtreme(s.CeilingSlope, s.CeilingHeight, b, false)
}

func fofTopUnder(r *level.FFloor, b level.BBox) fixed.Fixed {
	return slopeExtreme(r.Control.CeilingSlope, r.Control.CeilingHeight, b, true)
}

func fofBottomOver(r *level.FFloor, b level.BBox) fixed.Fixed {
	return slopeExtreme(r.Control.FloorSlope, r.Control.FloorHeight, b, false)
}

// solidSurface reports slabs that only some actors can stand on.
func solidSurface(a *Actor, r *level.FFloor) bool {
	return a.IsPlayer() && a.Player.WaterRun && r.Is(level.FOFSwimmable)
}

// CheckPosition probes whether a can stand at (x, y) without moving it. The
// result is left in tm; res, if not nil, receives what blocked the probe.
// Touching actors has effects (pickups, damage, pushing) whether or not the
// position is accepted.
func (w *World) CheckPosition(a *Actor, x, y fixed.Fixed, tm *Transaction, res *MoveResult) bool {
	w.assertLive(a, "CheckPosition")
	w.enter()
	defer w.leave()
	w.stats.Probes++

	tm.begin(a, x, y)
	thingtop := a.Top()
	blockval := true

	sec := w.Level.PointInSubsector(x, y).Sector
	tm.FloorZ = floorUnder(sec, tm.BBox)
	tm.DropoffZ = tm.FloorZ
	tm.CeilingZ = ceilingOver(sec, tm.BBox)
	tm.DropoffCeilZ = tm.CeilingZ
	tm.Floor = Surface{Slope: sec.FloorSlope}
	tm.Ceiling = Surface{Slope: sec.CeilingSlope}

	for _, r := range sec.FFloors {
		if !r.Is(level.FOFExists) {
			continue
		}
		top := fofTopUnder(r, tm.BBox)
		bottom := fofBottomOver(r, tm.BBox)

		const goo = level.FOFSwimmable | level.FOFGooWater
		if r.Flags&goo == goo && !a.Is(FlagNoGravity) {
			w.gooWater(a, r, top, bottom, tm)
			continue
		}

		if !solidSurface(a, r) && !(a.Kind == KindSkim && r.Is(level.FOFSwimmable)) &&
			!r.Blocks(a.IsPlayer()) && !r.Is(level.FOFQuicksand) {
			continue
		}

		if r.Is(level.FOFQuicksand) {
			if a.Z < top && bottom < thingtop && tm.FloorZ < a.Z {
				tm.FloorZ = a.Z
				tm.Floor = Surface{Rover: r}
			}
			// quicksand never changes heights otherwise
			continue
		}

		mid := bottom + (top-bottom)/2
		delta1 := fixed.Abs(a.Z - mid)
		delta2 := fixed.Abs(thingtop - mid)
		if top > tm.FloorZ && delta1 < delta2 && !r.Is(level.FOFReversePlatform) {
			tm.FloorZ = top
			tm.DropoffZ = top
			tm.Floor = Surface{Rover: r, Slope: r.TopSlope()}
		}
		if bottom < tm.CeilingZ && delta1 >= delta2 && !r.Is(level.FOFPlatform) &&
			!(a.Kind == KindSkim && r.Is(level.FOFSwimmable)) {
			tm.CeilingZ = bottom
			tm.DropoffCeilZ = bottom
			tm.Ceiling = Surface{Rover: r, Slope: r.BottomSlope()}
		}
	}

	// actors are indexed by origin and reach into neighbour cells by up to
	// MaxRadius
	bm := w.Blockmap
	xl, xh, yl, yh := bm.CellRange(tm.BBox, w.cfg.MaxRadius)

	bm.BeginScan()
	for by := yl; by <= yh; by++ {
		for bx := xl; bx <= xh; bx++ {
			bm.ForEachPolyobjInCell(bx, by, func(po *level.Polyobj) blockmap.Iter {
				if !bm.VisitPolyobj(po) {
					return blockmap.Continue
				}
				if !po.Is(level.PolySolid) || !level.BoxInsidePolyobj(tm.BBox, po) {
					return blockmap.Continue
				}
				w.clipPolyobj(a, po, tm)
				return blockmap.Continue
			})
		}
	}
	bm.EndScan()

	tm.FloorThing = NoActor
	tm.HitThing = NoActor
	tm.SpecHit = tm.SpecHit[:0]

	if a.Is(FlagNoClip) {
		return true
	}

	if !a.Is(FlagNoClipThing) {
		for bx := xl; bx <= xh; bx++ {
			for by := yl; by <= yh; by++ {
				it := bm.ForEachActorInCell(bx, by, func(id ActorID) blockmap.Iter {
					return w.checkThing(tm, w.Actor(id))
				})
				if it == blockmap.Abort {
					blockval = false
				} else if blockval {
					tm.HitThing = tm.FloorThing
				}
				if a.Removed() {
					return false
				}
			}
		}
	}

	// line hooks may run position checks of their own
	bm.BeginScan()
	for bx := xl; bx <= xh; bx++ {
		for by := yl; by <= yh; by++ {
			it := bm.ForEachLineInCell(bx, by, func(l *level.Line) blockmap.Iter {
				if !bm.VisitLine(l) {
					return blockmap.Continue
				}
				return w.checkLine(tm, l)
			})
			if it == blockmap.Abort {
				blockval = false
			}
		}
	}
	bm.EndScan()

	if res != nil {
		res.Line = tm.BlockingLine
		res.Actor = tm.HitThing
	}
	return blockval
}

// gooWater keeps actors that slowed down inside goo from getting stuck
// between the surface and the sink level.
func (w *World) gooWater(a *Actor, r *level.FFloor, top, bottom fixed.Fixed, tm *Transaction) {
	thingtop := a.Top()
	sinklevel := fixed.Mul(a.Height/6, a.Scale)
	minspeed := fixed.Mul(a.Height/9, a.Scale)
	if !(a.Z < top && bottom < thingtop && fixed.Abs(a.MomZ) < minspeed) {
		return
	}
	flipped := a.Flipped()
	if !flipped && a.Z > top-sinklevel && a.MomZ >= 0 && a.MomZ < minspeed>>2 {
		a.MomZ += minspeed >> 2
	} else if flipped && thingtop < bottom+sinklevel && a.MomZ <= 0 && a.MomZ > -(minspeed>>2) {
		a.MomZ -= minspeed >> 2
	}

	if !flipped && a.Z >= top-sinklevel && a.MomZ <= 0 {
		if tm.FloorZ < top-sinklevel {
			tm.FloorZ = top - sinklevel
			tm.Floor = Surface{Rover: r, Slope: r.TopSlope()}
		}
	} else if flipped && thingtop <= bottom+sinklevel && a.MomZ >= 0 {
		if tm.CeilingZ > bottom+sinklevel {
			tm.CeilingZ = bottom + sinklevel
			tm.Ceiling = Surface{Rover: r, Slope: r.BottomSlope()}
		}
	}
}

// clipPolyobj narrows floor or ceiling for a box inside a solid polyobject.
// Polyobjects without clip planes reach from the bottom to the top of the
// world.
func (w *World) clipPolyobj(a *Actor, po *level.Polyobj, tm *Transaction) {
	var top, bottom int64 = gmath.MaxInt32, gmath.MinInt32
	if po.Is(level.PolyClipPlanes) && po.Control != nil {
		top = int64(po.Control.CeilingHeight)
		bottom = int64(po.Control.FloorHeight)
	}
	mid := bottom + (top-bottom)/2
	delta1 := math.Abs(int64(a.Z) - mid)
	delta2 := math.Abs(int64(a.Top()) - mid)

	if top > int64(tm.FloorZ) && delta1 < delta2 {
		tm.FloorZ = fixed.Fixed(top)
		tm.DropoffZ = tm.FloorZ
		tm.Floor = Surface{Polyobj: po}
	}
	if bottom < int64(tm.CeilingZ) && delta1 >= delta2 {
		tm.CeilingZ = fixed.Fixed(bottom)
		tm.DropoffCeilZ = tm.CeilingZ
		tm.Ceiling = Surface{Polyobj: po}
	}
}
