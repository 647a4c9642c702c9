// SPDX-License-Identifier: GPL-2.0-or-later

package move

import (
	"testing"

	"kartmove/blockmap"
	"kartmove/fixed"
	"kartmove/level"
)

func u(i int) fixed.Fixed {
	return fixed.FromInt(i)
}

type recorder struct {
	NopEffects
	damage   []DamageType
	crossed  []*level.Line
	sides    []int
	bumps    int
	tripwire []bool
}

func (r *recorder) Damage(target, inflictor, source *Actor, amount int32, kind DamageType) bool {
	r.damage = append(r.damage, kind)
	return true
}

func (r *recorder) CrossSpecialLine(l *level.Line, side int, a *Actor) {
	r.crossed = append(r.crossed, l)
	r.sides = append(r.sides, side)
}

func (r *recorder) TripWire(a *Actor, blocked bool) {
	r.tripwire = append(r.tripwire, blocked)
}

func (r *recorder) WallBump(a *Actor) {
	r.bumps++
}

// rooms builds two 128x128 rooms side by side. The east floor is at step.
// The shared line runs along x=128 and gets the given flags.
func rooms(t *testing.T, step int, flags level.LineFlag, special int) (*World, *recorder, *level.Line) {
	t.Helper()
	b := level.NewBuilder()
	b.Sector(0, u(128), level.V(0, 0), level.V(0, 128), level.V(128, 128), level.V(128, 0))
	b.Sector(u(step), u(128), level.V(128, 0), level.V(128, 128), level.V(256, 128), level.V(256, 0))
	if flags != 0 || special != 0 {
		b.LineFlags(level.V(128, 0), level.V(128, 128), flags, special)
	}
	lv, err := b.Build()
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	w, err := NewWorld(lv, DefaultConfig())
	if err != nil {
		t.Fatalf("NewWorld() = %v", err)
	}
	rec := &recorder{}
	w.SetEffects(rec)
	var shared *level.Line
	for _, l := range lv.Lines {
		if l.TwoSided() {
			shared = l
		}
	}
	return w, rec, shared
}

func body(x, y int) Actor {
	return Actor{
		X:      u(x),
		Y:      u(y),
		Radius: u(16),
		Height: u(32),
		Health: 1,
	}
}

func TestStepBudget(t *testing.T) {
	for _, tc := range []struct {
		step int
		ok   bool
	}{
		{0, true},
		{8, true},
		{24, true},
		{25, false},
		{40, false},
	} {
		w, _, shared := rooms(t, tc.step, 0, 0)
		a := w.Spawn(body(64, 64))
		var res MoveResult
		ok := w.TryMove(a, u(160), u(64), false, &res)
		if ok != tc.ok {
			t.Errorf("TryMove(step %d) = %v, want %v", tc.step, ok, tc.ok)
			continue
		}
		if ok {
			if a.Z != u(tc.step) || a.X != u(160) {
				t.Errorf("step %d: actor at x=%v z=%v, want x=160 z=%d", tc.step, a.X, a.Z, tc.step)
			}
			continue
		}
		if a.X != u(64) || a.Y != u(64) || a.Z != 0 {
			t.Errorf("step %d: rejected actor moved to %v,%v,%v", tc.step, a.X, a.Y, a.Z)
		}
		if res.Line != shared {
			t.Errorf("step %d: res.Line = %v, want the shared line", tc.step, res.Line)
		}
	}
}

func TestStepDownOnTheWayBack(t *testing.T) {
	w, _, _ := rooms(t, 8, 0, 0)
	tmpl := body(200, 64)
	tmpl.Z = u(8)
	a := w.Spawn(tmpl)
	if !w.TryMove(a, u(64), u(64), false, nil) {
		t.Fatalf("TryMove(west) = false, want true")
	}
	if a.Z != 0 || a.FloorZ != 0 {
		t.Errorf("after step down z=%v floorz=%v, want 0 and 0", a.Z, a.FloorZ)
	}
}

func TestCheckPositionIdempotent(t *testing.T) {
	w, _, _ := rooms(t, 8, 0, 0)
	a := w.Spawn(body(100, 64))
	w.Spawn(Actor{X: u(140), Y: u(64), Radius: u(8), Height: u(8), Flags: FlagSolid})

	var tm1, tm2 Transaction
	var r1, r2 MoveResult
	ok1 := w.CheckPosition(a, u(120), u(64), &tm1, &r1)
	ok2 := w.CheckPosition(a, u(120), u(64), &tm2, &r2)
	if ok1 != ok2 || r1 != r2 {
		t.Errorf("CheckPosition results differ: %v %+v, %v %+v", ok1, r1, ok2, r2)
	}
	if tm1.FloorZ != tm2.FloorZ || tm1.CeilingZ != tm2.CeilingZ || tm1.DropoffZ != tm2.DropoffZ ||
		tm1.FloorThing != tm2.FloorThing || tm1.BlockingLine != tm2.BlockingLine {
		t.Errorf("CheckPosition transactions differ:\n%+v\n%+v", tm1, tm2)
	}
	if a.X != u(100) {
		t.Errorf("CheckPosition moved the actor to x=%v", a.X)
	}
}

func TestSolidActorsBlock(t *testing.T) {
	w, _, _ := rooms(t, 0, 0, 0)
	a := w.Spawn(body(64, 64))
	a.Flags = FlagSolid
	b := w.Spawn(body(96, 64))
	b.Flags = FlagSolid

	var tm Transaction
	tm.begin(a, u(80), u(64))
	if got := w.checkThing(&tm, b); got != blockmap.Abort {
		t.Errorf("checkThing(overlapping solid) = %v, want Abort", got)
	}

	var res MoveResult
	if w.TryMove(a, u(80), u(64), false, &res) {
		t.Fatalf("TryMove(into solid) = true, want false")
	}
	if res.Actor != b.ID() {
		t.Errorf("res.Actor = %d, want %d", res.Actor, b.ID())
	}
	if a.X != u(64) {
		t.Errorf("rejected actor moved to x=%v", a.X)
	}
}

func TestStepOntoLowSolid(t *testing.T) {
	w, _, _ := rooms(t, 0, 0, 0)
	a := w.Spawn(body(64, 64))
	a.Flags = FlagSolid
	box := w.Spawn(Actor{X: u(96), Y: u(64), Radius: u(16), Height: u(8), Flags: FlagSolid})

	if !w.TryMove(a, u(80), u(64), false, nil) {
		t.Fatalf("TryMove(onto low solid) = false, want true")
	}
	if want := box.Top() + box.Scale; a.Z != want {
		t.Errorf("z = %v, want %v", a.Z, want)
	}
	if a.Support != box.ID() {
		t.Errorf("Support = %d, want %d", a.Support, box.ID())
	}
}

func TestCrossingsDeliveredOnce(t *testing.T) {
	w, rec, shared := rooms(t, 0, level.LineCrossActivate, 7)
	a := w.Spawn(body(100, 64))
	if !w.TryMove(a, u(160), u(64), false, nil) {
		t.Fatalf("TryMove = false, want true")
	}
	if len(rec.crossed) != 1 || rec.crossed[0] != shared {
		t.Fatalf("crossed %d lines, want the shared line once", len(rec.crossed))
	}
	if rec.sides[0] != 0 {
		t.Errorf("crossed from side %d, want 0", rec.sides[0])
	}
	if got := w.Stats().Crossings; got != 1 {
		t.Errorf("Stats().Crossings = %d, want 1", got)
	}

	// touching without crossing delivers nothing
	rec.crossed = nil
	if !w.TryMove(a, u(140), u(64), false, nil) {
		t.Fatalf("TryMove(back) = false, want true")
	}
	if len(rec.crossed) != 0 {
		t.Errorf("crossed %d lines without changing sides", len(rec.crossed))
	}
}

func TestNoClipSkipsCrossings(t *testing.T) {
	w, rec, _ := rooms(t, 0, level.LineCrossActivate, 7)
	a := w.Spawn(body(100, 64))
	a.Flags |= FlagNoClip
	if !w.TryMove(a, u(160), u(64), false, nil) {
		t.Fatalf("TryMove = false, want true")
	}
	if len(rec.crossed) != 0 {
		t.Errorf("no clip mover crossed %d lines", len(rec.crossed))
	}

	w.HitSpecialLines(a, u(160), u(64), u(-60), 0)
	if len(rec.crossed) != 1 {
		t.Errorf("HitSpecialLines crossed %d lines, want 1", len(rec.crossed))
	}
	if a.X != u(160) {
		t.Errorf("HitSpecialLines moved the actor to x=%v", a.X)
	}
}

func TestSlideAlongWall(t *testing.T) {
	w, _, _ := rooms(t, 0, 0, 0)
	a := w.Spawn(body(20, 64))
	a.MomX, a.MomY = u(-10), u(5)

	var res MoveResult
	if w.TryMove(a, a.X+a.MomX, a.Y+a.MomY, true, &res) {
		t.Fatalf("TryMove(into wall) = true, want false")
	}
	if res.Line == nil {
		t.Fatalf("no blocking line")
	}
	w.SlideMove(a, &res)
	if a.MomX != 0 || a.MomY != u(5) {
		t.Errorf("momentum after slide = %v,%v, want 0,5", a.MomX, a.MomY)
	}
	if a.X != u(20) || a.Y != u(69) {
		t.Errorf("position after slide = %v,%v, want 20,69", a.X, a.Y)
	}
}

func TestSlideOffActor(t *testing.T) {
	w, _, _ := rooms(t, 0, 0, 0)
	a := w.Spawn(body(64, 40))
	a.Flags = FlagSolid
	b := w.Spawn(body(64, 80))
	b.Flags = FlagSolid
	a.MomX, a.MomY = u(4), u(12)

	var res MoveResult
	if w.TryMove(a, a.X+a.MomX, a.Y+a.MomY, true, &res) {
		t.Fatalf("TryMove(into actor) = true, want false")
	}
	w.SlideMove(a, &res)
	if a.MomY != 0 {
		t.Errorf("MomY = %v, want 0", a.MomY)
	}
	if a.X != u(68) || a.Y != u(48) {
		t.Errorf("position = %v,%v, want 68,48", a.X, a.Y)
	}
}

func TestPlayerBounce(t *testing.T) {
	w, rec, _ := rooms(t, 0, 0, 0)
	tmpl := body(20, 64)
	tmpl.Kind = KindPlayer
	tmpl.Player = &Player{RMomX: u(-8)}
	a := w.Spawn(tmpl)
	a.MomX = u(-8)

	var res MoveResult
	if w.TryMove(a, a.X+a.MomX, a.Y, true, &res) {
		t.Fatalf("TryMove(into wall) = true, want false")
	}
	w.BounceMove(a, &res)
	if rec.bumps != 1 {
		t.Errorf("WallBump called %d times, want 1", rec.bumps)
	}
	if !a.Has(EFlagJustBouncedWall) {
		t.Errorf("JustBouncedWall not set")
	}
	// 5 left of the decayed momentum plus the minimum push out of 15
	if a.MomX != u(10) || a.X != u(30) {
		t.Errorf("after bounce mom=%v x=%v, want 10 and 30", a.MomX, a.X)
	}
}

func TestContainment(t *testing.T) {
	w, _, _ := rooms(t, 16, 0, 0)
	a := w.Spawn(body(40, 40))
	moves := [][2]int{{90, 40}, {150, 60}, {220, 100}, {150, 30}, {60, 90}, {30, 30}, {180, 64}, {20, 110}}
	for _, m := range moves {
		var res MoveResult
		if !w.TryMove(a, u(m[0]), u(m[1]), false, &res) {
			w.SlideMove(a, &res)
		}
		if a.Z < a.FloorZ || a.Top() > a.CeilingZ {
			t.Errorf("after move to %v: z=%v top=%v outside %v..%v", m, a.Z, a.Top(), a.FloorZ, a.CeilingZ)
		}
	}
}

func TestRegistryPairOverridesSolid(t *testing.T) {
	w, _, _ := rooms(t, 0, 0, 0)
	calls := 0
	w.Registry().Handle(KindUser, KindUser+1, func(c *Contact) Outcome {
		calls++
		if c.A.Kind != KindUser || c.B.Kind != KindUser+1 {
			t.Errorf("contact kinds = %d,%d, want %d,%d", c.A.Kind, c.B.Kind, KindUser, KindUser+1)
		}
		return Touch
	})
	a := w.Spawn(body(64, 64))
	a.Kind, a.Flags = KindUser+1, FlagSolid
	b := w.Spawn(body(96, 64))
	b.Kind, b.Flags = KindUser, FlagSolid

	if !w.TryMove(a, u(80), u(64), false, nil) {
		t.Errorf("TryMove = false, want true")
	}
	if calls == 0 {
		t.Errorf("pair handler not called")
	}
}

func TestLineHookForcesCollision(t *testing.T) {
	w, _, shared := rooms(t, 0, 0, 0)
	w.Registry().OnLineCollide(KindUser, func(mover *Actor, l *level.Line) HookResult {
		if l == shared {
			return ForceCollide
		}
		return Defer
	})
	tmpl := body(64, 64)
	tmpl.Kind = KindUser
	a := w.Spawn(tmpl)

	var res MoveResult
	if w.TryMove(a, u(160), u(64), false, &res) {
		t.Fatalf("TryMove = true, want false")
	}
	if res.Line != shared {
		t.Errorf("res.Line = %v, want the shared line", res.Line)
	}
}

func TestCheckMoveLeavesActor(t *testing.T) {
	for _, tc := range []struct {
		step int
		ok   bool
	}{
		{8, true},
		{40, false},
	} {
		w, _, _ := rooms(t, tc.step, 0, 0)
		a := w.Spawn(body(64, 64))
		n := w.NumActors()
		if got := w.CheckMove(a, u(160), u(64), false, nil); got != tc.ok {
			t.Errorf("CheckMove(step %d) = %v, want %v", tc.step, got, tc.ok)
		}
		if a.X != u(64) || a.Z != 0 {
			t.Errorf("CheckMove moved the actor to %v,%v", a.X, a.Z)
		}
		if w.NumActors() != n {
			t.Errorf("NumActors() = %d, want %d", w.NumActors(), n)
		}
	}
}

func TestCheckMoveTakesNoID(t *testing.T) {
	w, _, _ := rooms(t, 8, 0, 0)
	tmpl := body(64, 64)
	tmpl.Flags = FlagSolid
	a := w.Spawn(tmpl)
	// the stand in must not collide with the actor it checks for
	if !w.CheckMove(a, u(96), u(64), false, nil) {
		t.Errorf("CheckMove of a solid actor = false, want true")
	}
	if got := w.NumActors(); got != 1 {
		t.Errorf("NumActors() = %d, want 1", got)
	}
	if a.FloorZ != 0 || a.CeilingZ != u(128) {
		t.Errorf("floor=%v ceiling=%v after CheckMove, want 0 and 128", a.FloorZ, a.CeilingZ)
	}
	next := w.Spawn(body(200, 64))
	if next.ID() != a.ID()+1 {
		t.Errorf("ID after CheckMove = %d, want %d", next.ID(), a.ID()+1)
	}
}

func TestTouchLists(t *testing.T) {
	w, _, shared := rooms(t, 0, 0, 0)
	west, east := shared.Front, shared.Back
	a := w.Spawn(body(128, 64))

	if got := len(w.TouchingSectors(a)); got != 2 {
		t.Errorf("len(TouchingSectors) = %d, want 2", got)
	}
	if got := w.TouchingActors(east); len(got) != 1 || got[0] != a {
		t.Errorf("TouchingActors(east) = %v, want the actor", got)
	}

	if !w.TryMove(a, u(64), u(64), false, nil) {
		t.Fatalf("TryMove = false, want true")
	}
	if got := w.TouchingSectors(a); len(got) != 1 || got[0] != west {
		t.Errorf("TouchingSectors = %v, want only west", got)
	}
	if got := len(w.TouchingActors(east)); got != 0 {
		t.Errorf("len(TouchingActors(east)) = %d, want 0", got)
	}

	w.Remove(a)
	if got := len(w.TouchingActors(west)); got != 0 {
		t.Errorf("len(TouchingActors(west)) after Remove = %d, want 0", got)
	}
	if w.Actor(a.ID()) != nil {
		t.Errorf("Actor(%d) after Remove is not nil", a.ID())
	}
}

func TestSetOrigin(t *testing.T) {
	w, _, shared := rooms(t, 8, 0, 0)
	a := w.Spawn(body(64, 64))
	if !w.SetOrigin(a, u(200), u(64), u(8)) {
		t.Fatalf("SetOrigin = false")
	}
	if a.Sector() != shared.Back {
		t.Errorf("Sector() = %d, want %d", a.Sector().Index, shared.Back.Index)
	}
	if a.FloorZ != u(8) || a.OldX != u(200) {
		t.Errorf("FloorZ=%v OldX=%v, want 8 and 200", a.FloorZ, a.OldX)
	}

	if !w.MoveOrigin(a, u(64), u(64), 0) {
		t.Fatalf("MoveOrigin = false")
	}
	if a.OldX != u(200) {
		t.Errorf("MoveOrigin changed OldX to %v", a.OldX)
	}
}

func TestRadiusAttack(t *testing.T) {
	w, rec, _ := rooms(t, 0, 0, 0)
	spot := w.Spawn(Actor{X: u(64), Y: u(64), Radius: u(4), Height: u(4)})
	near := w.Spawn(body(90, 64))
	near.Flags = FlagShootable
	far := w.Spawn(body(240, 64))
	far.Flags = FlagShootable
	monitor := w.Spawn(body(64, 100))
	monitor.Flags = FlagShootable | FlagMonitor

	w.RadiusAttack(spot, nil, u(64), DamageExplode)
	if len(rec.damage) != 1 || rec.damage[0] != DamageExplode {
		t.Errorf("damage = %v, want one explosion", rec.damage)
	}
}

func TestMapStartPanicsInFlight(t *testing.T) {
	w, _, _ := rooms(t, 0, 0, 0)
	w.MapStart()
	w.enter()
	defer func() {
		if recover() == nil {
			t.Errorf("MapEnd with a move in flight did not panic")
		}
	}()
	w.MapEnd()
}

func TestSceneryTryMove(t *testing.T) {
	w, rec, _ := rooms(t, 40, 0, 0)
	a := w.Spawn(body(64, 64))
	a.Flags = FlagScenery

	if !w.SceneryTryMove(a, u(100), u(64), nil) {
		t.Fatalf("SceneryTryMove(100, 64) = false, want true")
	}
	if a.X != u(100) {
		t.Errorf("x = %v, want 100", a.X)
	}
	var res MoveResult
	if w.SceneryTryMove(a, u(160), u(64), &res) {
		t.Errorf("SceneryTryMove up a 40 unit step = true, want false")
	}
	if a.X != u(100) {
		t.Errorf("x after rejected move = %v, want 100", a.X)
	}
	if len(rec.crossed) != 0 {
		t.Errorf("scenery crossed %d lines, want none", len(rec.crossed))
	}
}
