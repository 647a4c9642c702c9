// SPDX-License-Identifier: GPL-2.0-or-later

package snapshot

import (
	"testing"

	"kartmove/fixed"
	"kartmove/level"
	"kartmove/move"
)

func u(i int) fixed.Fixed {
	return fixed.FromInt(i)
}

func world(t *testing.T) *move.World {
	t.Helper()
	b := level.NewBuilder()
	b.Sector(0, u(128), level.V(0, 0), level.V(0, 128), level.V(128, 128), level.V(128, 0))
	b.Sector(u(-8), u(96), level.V(128, 0), level.V(128, 128), level.V(256, 128), level.V(256, 0))
	lv, err := b.Build()
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	w, err := move.NewWorld(lv, move.DefaultConfig())
	if err != nil {
		t.Fatalf("NewWorld() = %v", err)
	}
	w.Spawn(move.Actor{X: u(64), Y: u(64), Radius: u(16), Height: u(32), Health: 3, MomX: u(-2)})
	w.Spawn(move.Actor{X: u(200), Y: u(30), Z: u(-8), Radius: u(8), Height: u(16), Flags: move.FlagSolid})
	return w
}

func TestDecodeEncoded(t *testing.T) {
	w := world(t)
	s, err := Decode(Encode(w, 42))
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if s.World != w.ID || s.Tick != 42 {
		t.Errorf("header = %v/%d, want %v/42", s.World, s.Tick, w.ID)
	}
	if len(s.Actors) != 2 || len(s.Sectors) != 2 {
		t.Fatalf("decoded %d actors and %d sectors, want 2 and 2", len(s.Actors), len(s.Sectors))
	}
	a := s.Actors[0]
	if a.X != u(64) || a.MomX != u(-2) || a.Health != 3 || a.CeilingZ != u(128) {
		t.Errorf("actor 0 = %+v", a)
	}
	b := s.Actors[1]
	if b.Z != u(-8) || b.Flags != move.FlagSolid || b.FloorZ != u(-8) {
		t.Errorf("actor 1 = %+v", b)
	}
	if sec := s.Sectors[1]; sec.Index != 1 || sec.Floor != u(-8) || sec.Ceiling != u(96) {
		t.Errorf("sector 1 = %+v", sec)
	}
	if sec := s.Sectors[0]; sec.Index != 0 || sec.Floor != 0 {
		t.Errorf("sector 0 = %+v", sec)
	}
}

func TestChecksum(t *testing.T) {
	w1, w2 := world(t), world(t)
	if Checksum(w1, 1) != Checksum(w2, 1) {
		t.Errorf("equal worlds have different checksums")
	}
	a := w2.Actors()[0]
	if !w2.TryMove(a, a.X+a.MomX, a.Y, false, nil) {
		t.Fatalf("TryMove = false")
	}
	if Checksum(w1, 1) == Checksum(w2, 1) {
		t.Errorf("checksum unchanged after a move")
	}
}

func TestDecodeTruncated(t *testing.T) {
	b := Encode(world(t), 7)
	if _, err := Decode(b[:len(b)-3]); err == nil {
		t.Errorf("Decode(truncated) = nil error")
	}
}
