// SPDX-License-Identifier: GPL-2.0-or-later

package move

import (
	"slices"

	"kartmove/fixed"
	"kartmove/level"
)

// Transaction is the working record of one position probe. A probe fills
// it in, the caller inspects it. It never outlives the move it belongs to.
type Transaction struct {
	Thing *Actor
	X, Y  fixed.Fixed
	BBox  level.BBox

	FloorZ, CeilingZ       fixed.Fixed
	DropoffZ, DropoffCeilZ fixed.Fixed
	FloorStep, CeilingStep fixed.Fixed
	Floor, Ceiling         Surface

	// FloorDrop and CeilingDrop replace the actor's drops when the move is
	// committed.
	FloorDrop, CeilingDrop fixed.Fixed

	// FloorThing is the actor whose top serves as floor.
	FloorThing ActorID
	// HitThing is the actor that blocked the probe.
	HitThing     ActorID
	BlockingLine *level.Line
	CeilingLine  *level.Line

	// SpecHit collects the special lines touched, possibly with repeats.
	SpecHit []*level.Line
}

// Save returns a copy that stays valid while the transaction is reused.
func (tm *Transaction) Save() Transaction {
	s := *tm
	s.SpecHit = slices.Clone(tm.SpecHit)
	return s
}

func (tm *Transaction) Restore(s Transaction) {
	buf := tm.SpecHit[:0]
	*tm = s
	tm.SpecHit = append(buf, s.SpecHit...)
}

func (tm *Transaction) begin(a *Actor, x, y fixed.Fixed) {
	spec := tm.SpecHit[:0]
	*tm = Transaction{
		Thing:       a,
		X:           x,
		Y:           y,
		BBox:        level.BoxAround(x, y, a.Radius),
		FloorDrop:   a.FloorDrop,
		CeilingDrop: a.CeilingDrop,
		SpecHit:     spec,
	}
	if a.Top() < a.CeilingZ {
		tm.CeilingDrop = 0
	}
	if a.Z > a.FloorZ {
		tm.FloorDrop = 0
	}
}

// MoveResult names what stopped a rejected move.
type MoveResult struct {
	Line  *level.Line
	Actor ActorID
}
