// SPDX-License-Identifier: GPL-2.0-or-later

package level

import (
	gmath "math"

	"kartmove/fixed"
)

// Body is the vertical extent of whatever asks for an opening.
type Body struct {
	Z, Height fixed.Fixed
	Player    bool
}

// Opening is the vertical gap through a two sided line.
type Opening struct {
	Top, Bottom   fixed.Fixed
	Range         fixed.Fixed
	LowFloor      fixed.Fixed
	HighCeiling   fixed.Fixed
	TopSlope      *Slope
	BottomSlope   *Slope
	TopRover      *FFloor
	BottomRover   *FFloor
	TopPolyobj    *Polyobj
	BottomPolyobj *Polyobj
}

// LineOpening computes the gap a body can pass through at (x, y) on the
// line. One sided lines have an empty opening.
func LineOpening(l *Line, x, y fixed.Fixed, b Body) Opening {
	var o Opening
	if l.Back == nil && l.Polyobj == nil {
		return o
	}
	thingtop := b.Z + b.Height

	if po := l.Polyobj; po != nil {
		// polyobjects don't interfere above or below them
		o.Top = fixed.MaxFixed
		o.Bottom = fixed.MinFixed
		o.HighCeiling = fixed.MinFixed
		o.LowFloor = fixed.MaxFixed
		if po.Is(PolyClipPlanes) && po.Control != nil {
			top, bottom := po.Control.CeilingHeight, po.Control.FloorHeight
			mid := bottom + (top-bottom)/2
			if fixed.Abs(b.Z-mid) >= fixed.Abs(thingtop-mid) {
				o.Top = bottom
				o.TopPolyobj = po
			} else {
				o.Bottom = top
				o.BottomPolyobj = po
			}
		} else {
			o.Top, o.Bottom = 0, 0
		}
		o.Range = rangeOf(o.Top, o.Bottom)
		return o
	}

	front, back := l.Front, l.Back
	fc, bc := front.CeilingZAt(x, y), back.CeilingZAt(x, y)
	ff, bf := front.FloorZAt(x, y), back.FloorZAt(x, y)

	if fc < bc {
		o.Top, o.TopSlope = fc, front.CeilingSlope
		o.HighCeiling = bc
	} else {
		o.Top, o.TopSlope = bc, back.CeilingSlope
		o.HighCeiling = fc
	}
	if ff > bf {
		o.Bottom, o.BottomSlope = ff, front.FloorSlope
		o.LowFloor = bf
	} else {
		o.Bottom, o.BottomSlope = bf, back.FloorSlope
		o.LowFloor = ff
	}

	if len(front.FFloors) > 0 || len(back.FFloors) > 0 {
		lowestCeiling, highestCeiling := o.Top, o.HighCeiling
		highestFloor, lowestFloor := o.Bottom, o.LowFloor
		var ceilRover, floorRover *FFloor
		for _, sec := range [2]*Sector{front, back} {
			for _, r := range sec.FFloors {
				if !r.Blocks(b.Player) {
					continue
				}
				top, bottom := r.TopZAt(x, y), r.BottomZAt(x, y)
				mid := bottom + (top-bottom)/2
				delta1 := fixed.Abs(b.Z - mid)
				delta2 := fixed.Abs(thingtop - mid)
				if delta1 >= delta2 && !r.Is(FOFPlatform) {
					if bottom < lowestCeiling {
						lowestCeiling = bottom
						ceilRover = r
					} else if bottom < highestCeiling {
						highestCeiling = bottom
					}
				}
				if delta1 < delta2 && !r.Is(FOFReversePlatform) {
					if top > highestFloor {
						highestFloor = top
						floorRover = r
					} else if top > lowestFloor {
						lowestFloor = top
					}
				}
			}
		}
		if highestCeiling < o.HighCeiling {
			o.HighCeiling = highestCeiling
		}
		if lowestCeiling < o.Top {
			o.Top = lowestCeiling
			o.TopRover = ceilRover
			o.TopSlope = ceilRover.BottomSlope()
		}
		if highestFloor > o.Bottom {
			o.Bottom = highestFloor
			o.BottomRover = floorRover
			o.BottomSlope = floorRover.TopSlope()
		}
		if lowestFloor > o.LowFloor {
			o.LowFloor = lowestFloor
		}
	}
	o.Range = rangeOf(o.Top, o.Bottom)
	return o
}

func rangeOf(top, bottom fixed.Fixed) fixed.Fixed {
	r := int64(top) - int64(bottom)
	if r > gmath.MaxInt32 {
		return fixed.MaxFixed
	}
	if r < 0 {
		return 0
	}
	return fixed.Fixed(r)
}
