// SPDX-License-Identifier: GPL-2.0-or-later

// Package plane moves sector floors and ceilings and keeps the actors
// inside them consistent.
package plane

import (
	"kartmove/fixed"
	"kartmove/level"
	"kartmove/move"
)

type Result uint8

const (
	OK Result = iota
	// Crushed means something was in the way and the plane went back.
	Crushed
	// PastDest means the plane reached its destination.
	PastDest
)

func (r Result) String() string {
	switch r {
	case OK:
		return "ok"
	case Crushed:
		return "crushed"
	case PastDest:
		return "pastdest"
	}
	return "unknown"
}

type Part uint8

const (
	Floor Part = iota
	Ceiling
)

type Direction int8

const (
	Down Direction = -1
	Up   Direction = 1
)

// Move moves the floor or ceiling of sec by speed toward dest. Actors that
// end up in the way are refitted and, with crush set, damaged. Either way a
// plane that leaves an actor without room is put back, so actors always
// stay between their floor and ceiling.
func Move(w *move.World, sec *level.Sector, speed, dest fixed.Fixed, crush bool, part Part, dir Direction) Result {
	h := &sec.FloorHeight
	if part == Ceiling {
		h = &sec.CeilingHeight
	}
	// planes moving away from the other one only collide with slabs
	opening := (part == Floor) == (dir == Down)
	attached := len(sec.Attached) > 0

	target := *h + fixed.Fixed(dir)*speed
	past := false
	switch {
	case part == Floor && dir == Down:
		past = target < dest
	case part == Floor && dir == Up:
		// keep floors from going through ceilings
		dest = min(dest, sec.CeilingHeight)
		past = target > dest
	case part == Ceiling && dir == Down:
		dest = max(dest, sec.FloorHeight)
		past = target < dest
	default:
		past = target > dest
	}
	if past {
		target = dest
	}

	last := *h
	*h = target
	if r := w.CheckSectorDetail(sec, crush); (r.NoFit || r.Blocked) && (!opening || attached) {
		*h = last
		w.CheckSector(sec, crush)
		if !past {
			return Crushed
		}
	}
	if past {
		return PastDest
	}
	return OK
}
