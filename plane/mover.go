// SPDX-License-Identifier: GPL-2.0-or-later

package plane

import (
	"kartmove/fixed"
	"kartmove/level"
	"kartmove/move"
)

// Mover runs a plane back and forth between Low and High, turning around
// at either end and when something is in the way. With Crush set whatever
// is in the way gets hurt first.
type Mover struct {
	Sector    *level.Sector
	Part      Part
	Speed     fixed.Fixed
	Low, High fixed.Fixed
	Crush     bool
	Dir       Direction
}

// Think moves the plane one tick.
func (m *Mover) Think(w *move.World) Result {
	dest := m.High
	if m.Dir == Down {
		dest = m.Low
	}
	r := Move(w, m.Sector, m.Speed, dest, m.Crush, m.Part, m.Dir)
	if r == PastDest || r == Crushed {
		m.Dir = -m.Dir
	}
	return r
}
