// SPDX-License-Identifier: GPL-2.0-or-later

package move

import (
	"testing"

	"kartmove/fixed"
	"kartmove/level"
)

// slabRoom builds one 256x256 room with floor 0 and ceiling 256 and a slab
// of the given flags spanning bottom..top.
func slabRoom(t *testing.T, flags level.FOFFlag, bottom, top int) (*World, *level.FFloor) {
	t.Helper()
	b := level.NewBuilder()
	room := b.Sector(0, u(256), level.V(0, 0), level.V(0, 256), level.V(256, 256), level.V(256, 0))
	r := b.FOF(room, b.ControlSector(u(bottom), u(top)), flags)
	lv, err := b.Build()
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	w, err := NewWorld(lv, DefaultConfig())
	if err != nil {
		t.Fatalf("NewWorld() = %v", err)
	}
	return w, r
}

func TestSlabMidpoint(t *testing.T) {
	for _, tc := range []struct {
		name          string
		flags         level.FOFFlag
		z             int
		floor, ceil   int
		floorFromSlab bool
	}{
		{"solid above", level.FOFSolid, 100, 96, 256, true},
		{"solid below", level.FOFSolid, 20, 0, 64, false},
		{"platform above", level.FOFSolid | level.FOFPlatform, 100, 96, 256, true},
		{"platform below", level.FOFSolid | level.FOFPlatform, 20, 0, 256, false},
		{"reverse platform above", level.FOFSolid | level.FOFReversePlatform, 100, 0, 256, false},
		{"reverse platform below", level.FOFSolid | level.FOFReversePlatform, 20, 0, 64, false},
		{"not solid", level.FOFExists, 100, 0, 256, false},
	} {
		w, r := slabRoom(t, tc.flags, 64, 96)
		tmpl := body(128, 128)
		tmpl.Z = u(tc.z)
		a := w.Spawn(tmpl)

		var tm Transaction
		if !w.CheckPosition(a, a.X, a.Y, &tm, nil) {
			t.Errorf("%s: CheckPosition = false, want true", tc.name)
		}
		if tm.FloorZ != u(tc.floor) || tm.CeilingZ != u(tc.ceil) {
			t.Errorf("%s: floor=%v ceiling=%v, want %d and %d", tc.name, tm.FloorZ, tm.CeilingZ, tc.floor, tc.ceil)
		}
		if got := tm.Floor.Rover == r; got != tc.floorFromSlab {
			t.Errorf("%s: floor is the slab = %v, want %v", tc.name, got, tc.floorFromSlab)
		}
	}
}

func TestQuicksand(t *testing.T) {
	for _, tc := range []struct {
		z, floor int
	}{
		// sunk in, the floor is wherever the actor is
		{32, 32},
		{1, 1},
		// above the sand
		{80, 0},
	} {
		w, r := slabRoom(t, level.FOFQuicksand, 0, 64)
		tmpl := body(128, 128)
		tmpl.Z = u(tc.z)
		a := w.Spawn(tmpl)

		var tm Transaction
		w.CheckPosition(a, a.X, a.Y, &tm, nil)
		if tm.FloorZ != u(tc.floor) {
			t.Errorf("CheckPosition(z %d) floor = %v, want %d", tc.z, tm.FloorZ, tc.floor)
		}
		if tm.CeilingZ != u(256) {
			t.Errorf("CheckPosition(z %d) ceiling = %v, want 256", tc.z, tm.CeilingZ)
		}
		if sunk := tc.floor != 0; sunk != (tm.Floor.Rover == r) {
			t.Errorf("CheckPosition(z %d) floor rover = %v", tc.z, tm.Floor.Rover)
		}
	}
}

func TestGooWater(t *testing.T) {
	// a 36 high actor sinks 6 units into goo, anything slower than 4 is
	// helped along
	for _, tc := range []struct {
		name     string
		z        int
		momz     fixed.Fixed
		flags    Flags
		floor    int
		wantMomZ fixed.Fixed
	}{
		{"settling", 60, -fixed.FracUnit / 2, 0, 58, -fixed.FracUnit / 2},
		{"resting gets a lift", 60, 0, 0, 0, fixed.FracUnit},
		{"fast fall", 60, u(-5), 0, 0, u(-5)},
		{"deep", 20, -fixed.FracUnit / 2, 0, 0, -fixed.FracUnit / 2},
		{"no gravity", 60, -fixed.FracUnit / 2, FlagNoGravity, 0, -fixed.FracUnit / 2},
	} {
		w, _ := slabRoom(t, level.FOFSwimmable|level.FOFGooWater, 0, 64)
		tmpl := body(128, 128)
		tmpl.Z = u(tc.z)
		tmpl.Height = u(36)
		tmpl.MomZ = tc.momz
		tmpl.Flags = tc.flags
		a := w.Spawn(tmpl)

		var tm Transaction
		w.CheckPosition(a, a.X, a.Y, &tm, nil)
		if tm.FloorZ != u(tc.floor) {
			t.Errorf("%s: floor = %v, want %d", tc.name, tm.FloorZ, tc.floor)
		}
		if a.MomZ != tc.wantMomZ {
			t.Errorf("%s: MomZ = %v, want %v", tc.name, a.MomZ, tc.wantMomZ)
		}
	}
}

func TestPolyobjClipping(t *testing.T) {
	for _, tc := range []struct {
		name        string
		flags       level.PolyFlag
		z           int
		floor, ceil fixed.Fixed
	}{
		{"on top", level.PolySolid | level.PolyClipPlanes, 60, u(48), u(256)},
		{"inside", level.PolySolid | level.PolyClipPlanes, 0, 0, 0},
		{"no planes", level.PolySolid, 0, fixed.MaxFixed, u(256)},
		{"not solid", level.PolyClipPlanes, 0, 0, u(256)},
	} {
		b := level.NewBuilder()
		b.Sector(0, u(256), level.V(0, 0), level.V(0, 256), level.V(256, 256), level.V(256, 0))
		po := b.Polyobj(1, b.ControlSector(0, u(48)), tc.flags,
			level.V(96, 96), level.V(160, 96), level.V(160, 160), level.V(96, 160))
		lv, err := b.Build()
		if err != nil {
			t.Fatalf("Build() = %v", err)
		}
		w, err := NewWorld(lv, DefaultConfig())
		if err != nil {
			t.Fatalf("NewWorld() = %v", err)
		}
		tmpl := body(128, 128)
		tmpl.Z = u(tc.z)
		a := w.Spawn(tmpl)

		var tm Transaction
		w.CheckPosition(a, a.X, a.Y, &tm, nil)
		if tm.FloorZ != tc.floor || tm.CeilingZ != tc.ceil {
			t.Errorf("%s: floor=%v ceiling=%v, want %v and %v", tc.name, tm.FloorZ, tm.CeilingZ, tc.floor, tc.ceil)
		}
		wantPoly := tc.floor != 0
		if got := tm.Floor.Polyobj == po; got != wantPoly {
			t.Errorf("%s: floor is the polyobject = %v, want %v", tc.name, got, wantPoly)
		}
	}
}

func TestNestedCheckKeepsScan(t *testing.T) {
	for _, nestFrom := range []string{"line hook", "thing hook"} {
		// two rooms stacked along y, the shared line y=128 runs through
		// two blockmap columns
		b := level.NewBuilder()
		b.Sector(0, u(128), level.V(0, 0), level.V(0, 128), level.V(256, 128), level.V(256, 0))
		b.Sector(0, u(128), level.V(0, 128), level.V(0, 256), level.V(256, 256), level.V(256, 128))
		lv, err := b.Build()
		if err != nil {
			t.Fatalf("Build() = %v", err)
		}
		w, err := NewWorld(lv, DefaultConfig())
		if err != nil {
			t.Fatalf("NewWorld() = %v", err)
		}

		tmpl := body(128, 120)
		tmpl.Kind = KindUser
		mover := w.Spawn(tmpl)
		other := w.Spawn(body(200, 140))
		post := body(140, 120)
		post.Kind, post.Flags = KindUser+1, FlagSolid
		w.Spawn(post)

		nested := 0
		nest := func() {
			if nested > 0 {
				return
			}
			nested++
			var inner Transaction
			w.CheckPosition(other, u(128), u(140), &inner, nil)
		}
		calls := make(map[int]int)
		reg := w.Registry()
		reg.OnLineCollide(KindUser, func(m *Actor, l *level.Line) HookResult {
			calls[l.Index]++
			if nestFrom == "line hook" {
				nest()
			}
			return Defer
		})
		reg.OnCollide(KindUser+1, func(thing, m *Actor) HookResult {
			if nestFrom == "thing hook" {
				nest()
			}
			return ForceNoCollide
		})

		var tm Transaction
		if !w.CheckPosition(mover, mover.X, mover.Y, &tm, nil) {
			t.Errorf("%s: CheckPosition = false, want true", nestFrom)
		}
		if nested != 1 {
			t.Errorf("%s: nested checks = %d, want 1", nestFrom, nested)
		}
		if len(calls) == 0 {
			t.Errorf("%s: line hook never ran", nestFrom)
		}
		for idx, n := range calls {
			if n != 1 {
				t.Errorf("%s: line %d tested %d times, want once", nestFrom, idx, n)
			}
		}
		if got := w.Blockmap.Epoch(); got != 0 {
			t.Errorf("%s: scan left open with epoch %d", nestFrom, got)
		}
	}
}
