// SPDX-License-Identifier: GPL-2.0-or-later

package level

import (
	"kartmove/fixed"
)

// Slope is a plane through O rising ZDelta units per map unit along the
// normalized direction (DX, DY).
type Slope struct {
	OX, OY, OZ fixed.Fixed
	DX, DY     fixed.Fixed
	ZDelta     fixed.Fixed
	XYDir      fixed.Angle
}

func NewSlope(ox, oy, oz fixed.Fixed, dir fixed.Angle, zdelta fixed.Fixed) *Slope {
	return &Slope{
		OX:     ox,
		OY:     oy,
		OZ:     oz,
		DX:     dir.Cos(),
		DY:     dir.Sin(),
		ZDelta: zdelta,
		XYDir:  dir,
	}
}

func (s *Slope) ZAt(x, y fixed.Fixed) fixed.Fixed {
	dist := fixed.Mul(x-s.OX, s.DX) + fixed.Mul(y-s.OY, s.DY)
	return s.OZ + fixed.Mul(dist, s.ZDelta)
}

// Flat reports a slope without any incline.
func (s *Slope) Flat() bool {
	return s == nil || s.ZDelta == 0
}
