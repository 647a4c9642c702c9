// SPDX-License-Identifier: GPL-2.0-or-later

package move

import (
	"log/slog"

	"github.com/samber/lo"

	"kartmove/blockmap"
	"kartmove/fixed"
	"kartmove/level"
)

// ThingHeightClip refreshes floor and ceiling of a after the planes around
// it moved. Actors resting on a moved floor are carried with it. It returns
// false if a no longer fits.
func (w *World) ThingHeightClip(a *Actor) bool {
	if a.Is(FlagNoClipHeight) {
		return true
	}
	oldfloorz := a.FloorZ
	oldFloor, oldCeiling := a.Floor.Rover, a.Ceiling.Rover
	onfloor := a.OnGround()
	flipped := a.Flipped()

	var tm Transaction
	w.CheckPosition(a, a.X, a.Y, &tm, nil)
	if a.Removed() {
		return true
	}

	floormoved := (flipped && tm.CeilingZ != a.CeilingZ) || (!flipped && tm.FloorZ != a.FloorZ)
	a.FloorZ = tm.FloorZ
	a.CeilingZ = tm.CeilingZ
	a.Floor = tm.Floor
	a.Ceiling = tm.Ceiling

	if tm.FloorZ > oldfloorz+a.Height {
		// only a ceiling coming down crushes
		return true
	}

	if onfloor && !a.Is(FlagNoGravity) && floormoved {
		r := oldFloor
		if flipped {
			r = oldCeiling
		}
		// don't ride slabs that stopped existing
		if r == nil || (r.Is(level.FOFExists) && r.Flags&level.FOFSolid != 0) {
			if flipped {
				a.Z = a.CeilingZ - a.Height
			} else {
				a.Z = a.FloorZ
			}
		}
	} else if tm.FloorThing == NoActor {
		// floating actors are only moved when forced to
		if flipped {
			if !onfloor && a.Z < tm.FloorZ {
				a.Z = a.FloorZ
			}
		} else if !onfloor && a.Top() > tm.CeilingZ {
			a.Z = a.CeilingZ - a.Height
		}
	}

	a.EFlags &^= EFlagOnGround
	return !(a.CeilingZ-a.FloorZ < a.Height && a.Z >= a.FloorZ)
}

// SectorCheck is the outcome of revalidating the actors of a sector.
type SectorCheck struct {
	// NoFit is set when at least one actor does not fit any more.
	NoFit bool
	// Blocked is set when an actor that can't be hurt holds the plane.
	Blocked bool
	// Crushed lists the actors damaged by the plane, in order.
	Crushed []ActorID
}

// CheckSector revalidates every actor touching sec, the sectors whose
// slabs it controls and the polyobjects it drives. With crunch set,
// actors that don't fit are damaged, otherwise they are only refitted. It
// returns true when something does not fit.
func (w *World) CheckSector(sec *level.Sector, crunch bool) bool {
	return w.CheckSectorDetail(sec, crunch).NoFit
}

// CheckSectorDetail is CheckSector with a breakdown of what happened.
// Nothing is damaged if an immune pushable blocks the plane.
func (w *World) CheckSectorDetail(sec *level.Sector, crunch bool) SectorCheck {
	w.enter()
	defer w.leave()

	var r SectorCheck
	if !w.eachInSector(sec, func(a *Actor) bool {
		return w.changeSector(a, false, crunch, &r)
	}) {
		r.NoFit = true
		r.Blocked = true
		w.log.Debug("plane blocked", slog.Int("sector", sec.Index))
		return r
	}

	// nothing holds the plane, crush for real
	w.eachInSector(sec, func(a *Actor) bool {
		return w.changeSector(a, true, crunch, &r)
	})
	r.Crushed = lo.Uniq(r.Crushed)
	return r
}

// eachInSector calls f for every actor inside the solid polyobjects sec
// controls, touching the solid slabs of sec and touching sec. It stops
// when f returns false. Actors that are added or removed by f are handled.
func (w *World) eachInSector(sec *level.Sector, f func(*Actor) bool) bool {
	if !w.eachInPolyobjs(sec, f) {
		return false
	}
	for i, att := range sec.Attached {
		if !sec.AttachedSolid[i] {
			continue
		}
		if !w.eachTouching(att, f) {
			return false
		}
	}
	return w.eachTouching(sec, f)
}

// eachInPolyobjs runs f for the actors inside the solid polyobjects sec
// controls.
func (w *World) eachInPolyobjs(sec *level.Sector, f func(*Actor) bool) bool {
	bm := w.Blockmap
	bm.BeginScan()
	defer bm.EndScan()
	for _, po := range w.Level.Polyobjs {
		if po.Control != sec || !po.Is(level.PolySolid) || !bm.VisitPolyobj(po) {
			continue
		}
		xl, xh, yl, yh := bm.CellRange(po.BBox, 0)
		for by := yl; by <= yh; by++ {
			for bx := xl; bx <= xh; bx++ {
				it := bm.ForEachActorInCell(bx, by, func(id ActorID) blockmap.Iter {
					a := w.Actor(id)
					if a.Removed() || !level.BoxInsidePolyobj(level.BoxAround(a.X, a.Y, a.Radius), po) {
						return blockmap.Continue
					}
					if !f(a) {
						return blockmap.Abort
					}
					return blockmap.Continue
				})
				if it == blockmap.Abort {
					return false
				}
			}
		}
	}
	return true
}

// eachTouching restarts from the head of the touch list after every
// actor, skipping the ones already seen.
func (w *World) eachTouching(sec *level.Sector, f func(*Actor) bool) bool {
	gen := w.nodes.newGeneration()
	for {
		a, ok := w.nextUnvisited(sec, gen)
		if !ok {
			return true
		}
		if a.Removed() || a.Is(FlagNoBlockmap) {
			continue
		}
		if !f(a) {
			return false
		}
	}
}

// changeSector refits one actor. It returns false when the actor holds
// the plane.
func (w *World) changeSector(a *Actor, realcrush, crunch bool, r *SectorCheck) bool {
	// pushables that can be hurt get crushed instead of blocking
	immune := a.Flags&(FlagPushable|FlagShootable) == FlagPushable

	if w.ThingHeightClip(a) {
		return true
	}
	if a.Removed() || !a.Is(FlagShootable|FlagPushable) || a.Is(FlagNoClipHeight) {
		return true
	}
	r.NoFit = true

	if a.Top() > a.CeilingZ && a.Z <= a.CeilingZ {
		sec := a.Sector()
		if immune && a.Top() > sec.CeilingHeight {
			return false
		}
		if immune {
			// a slab coming down on it
			thingtop := a.Top()
			for _, rover := range sec.FFloors {
				if !rover.Blocks(a.IsPlayer()) {
					continue
				}
				top, bottom := rover.Control.CeilingHeight, rover.Control.FloorHeight
				mid := bottom + (top-bottom)/2
				if bottom <= a.CeilingZ && fixed.Abs(a.Z-mid) >= fixed.Abs(thingtop-mid) {
					return false
				}
			}
		}
		if realcrush && crunch {
			w.crush(a, DamageCrushed, r)
			return true
		}
	}

	if realcrush && crunch {
		w.crush(a, DamageNormal, r)
	}
	return true
}

func (w *World) crush(a *Actor, kind DamageType, r *SectorCheck) {
	w.stats.Crushes++
	r.Crushed = append(r.Crushed, a.id)
	w.log.Info("actor crushed",
		slog.Uint64("actor", uint64(a.id)),
		slog.Int("kind", int(a.Kind)),
		slog.String("z", a.Z.String()),
		slog.String("ceiling", a.CeilingZ.String()))
	w.fx.Damage(a, nil, nil, 1, kind)
}
