// SPDX-License-Identifier: GPL-2.0-or-later

package move

import (
	"kartmove/fixed"
)

// setThingPosition links a into the level at its current origin: subsector,
// sector touch lists and, unless it opted out, the blockmap.
func (w *World) setThingPosition(a *Actor) {
	a.Subsector = w.Level.PointInSubsector(a.X, a.Y)
	w.createSecNodeList(a, a.X, a.Y)
	if !a.Is(FlagNoBlockmap) {
		w.Blockmap.Link(a.id, a.X, a.Y)
	}
}

// unsetThingPosition takes a out of the blockmap. The touch list is kept so
// the following setThingPosition can reuse its nodes.
func (w *World) unsetThingPosition(a *Actor) {
	w.Blockmap.Unlink(a.id)
}

// teleportMove relinks a at (x, y, z) without any collision and refreshes
// floor and ceiling from a probe at the new spot.
func (w *World) teleportMove(a *Actor, x, y, z fixed.Fixed) bool {
	w.assertLive(a, "teleportMove")
	w.unsetThingPosition(a)
	w.delSeclist(a.touching)
	a.touching = noNode

	a.X, a.Y, a.Z = x, y, z
	w.setThingPosition(a)

	var tm Transaction
	w.CheckPosition(a, a.X, a.Y, &tm, nil)
	if a.Removed() {
		return true
	}
	a.FloorZ = tm.FloorZ
	a.CeilingZ = tm.CeilingZ
	a.Floor = tm.Floor
	a.Ceiling = tm.Ceiling
	return true
}

// SetOrigin moves a to (x, y, z) and resets its interpolation origin.
func (w *World) SetOrigin(a *Actor, x, y, z fixed.Fixed) bool {
	ok := w.teleportMove(a, x, y, z)
	if ok {
		a.OldX, a.OldY, a.OldZ = a.X, a.Y, a.Z
	}
	return ok
}

// MoveOrigin moves a to (x, y, z) keeping its interpolation origin.
func (w *World) MoveOrigin(a *Actor, x, y, z fixed.Fixed) bool {
	return w.teleportMove(a, x, y, z)
}
