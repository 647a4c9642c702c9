// SPDX-License-Identifier: GPL-2.0-or-later

package move

import (
	"testing"
)

func TestCheckSectorCrushes(t *testing.T) {
	w, rec, shared := rooms(t, 0, 0, 0)
	west := shared.Front
	a := w.Spawn(body(64, 64))
	a.Flags = FlagSolid | FlagShootable

	west.CeilingHeight = u(16)
	r := w.CheckSectorDetail(west, true)
	if !r.NoFit {
		t.Errorf("CheckSectorDetail().NoFit = false, want true")
	}
	if r.Blocked {
		t.Errorf("CheckSectorDetail().Blocked = true, want false")
	}
	if len(r.Crushed) != 1 || r.Crushed[0] != a.ID() {
		t.Errorf("Crushed = %v, want [%d]", r.Crushed, a.ID())
	}
	if len(rec.damage) != 1 || rec.damage[0] != DamageCrushed {
		t.Errorf("damage = %v, want one crush", rec.damage)
	}
	if got := w.Stats().Crushes; got != 1 {
		t.Errorf("Stats().Crushes = %d, want 1", got)
	}
}

func TestCheckSectorFits(t *testing.T) {
	w, rec, shared := rooms(t, 0, 0, 0)
	west := shared.Front
	a := w.Spawn(body(64, 64))
	a.Flags = FlagShootable

	west.FloorHeight = u(8)
	if w.CheckSector(west, true) {
		t.Errorf("CheckSector(raised floor) = true, want false")
	}
	if a.Z != u(8) || a.FloorZ != u(8) {
		t.Errorf("actor not carried by the floor: z=%v floorz=%v", a.Z, a.FloorZ)
	}
	if len(rec.damage) != 0 {
		t.Errorf("damage = %v, want none", rec.damage)
	}
}

func TestCheckSectorImmunePushableBlocks(t *testing.T) {
	w, rec, shared := rooms(t, 0, 0, 0)
	west := shared.Front
	a := w.Spawn(body(64, 64))
	a.Flags = FlagSolid | FlagPushable

	west.CeilingHeight = u(16)
	r := w.CheckSectorDetail(west, true)
	if !r.Blocked || !r.NoFit {
		t.Errorf("CheckSectorDetail() = %+v, want blocked", r)
	}
	if len(rec.damage) != 0 {
		t.Errorf("damage = %v, want none", rec.damage)
	}
}

func TestCheckSectorIgnoresScenery(t *testing.T) {
	w, _, shared := rooms(t, 0, 0, 0)
	west := shared.Front
	w.Spawn(body(64, 64))

	west.CeilingHeight = u(16)
	if w.CheckSector(west, true) {
		t.Errorf("CheckSector() = true for an actor the crusher ignores")
	}
}

func TestThingHeightClipRidesFloor(t *testing.T) {
	w, _, shared := rooms(t, 0, 0, 0)
	west := shared.Front
	a := w.Spawn(body(64, 64))

	west.FloorHeight = u(-16)
	if !w.ThingHeightClip(a) {
		t.Errorf("ThingHeightClip() = false, want true")
	}
	if a.Z != u(-16) {
		t.Errorf("z = %v, want -16", a.Z)
	}
}
