// SPDX-License-Identifier: GPL-2.0-or-later

package level

import (
	"kartmove/fixed"
)

func (s *Sector) FloorZAt(x, y fixed.Fixed) fixed.Fixed {
	if s.FloorSlope != nil {
		return s.FloorSlope.ZAt(x, y)
	}
	return s.FloorHeight
}

func (s *Sector) CeilingZAt(x, y fixed.Fixed) fixed.Fixed {
	if s.CeilingSlope != nil {
		return s.CeilingSlope.ZAt(x, y)
	}
	return s.CeilingHeight
}

// TopZAt is the top surface of the slab, the control sector's ceiling.
func (r *FFloor) TopZAt(x, y fixed.Fixed) fixed.Fixed {
	return r.Control.CeilingZAt(x, y)
}

// BottomZAt is the bottom surface of the slab, the control sector's floor.
func (r *FFloor) BottomZAt(x, y fixed.Fixed) fixed.Fixed {
	return r.Control.FloorZAt(x, y)
}

func (r *FFloor) TopSlope() *Slope {
	return r.Control.CeilingSlope
}

func (r *FFloor) BottomSlope() *Slope {
	return r.Control.FloorSlope
}

// Mid is the vertical center of the slab at (x, y).
func (r *FFloor) Mid(x, y fixed.Fixed) fixed.Fixed {
	top, bottom := r.TopZAt(x, y), r.BottomZAt(x, y)
	return bottom + (top-bottom)/2
}

// VeryTop returns the highest point of the slab top within the target
// sector.
func (r *FFloor) VeryTop() fixed.Fixed {
	return extreme(r.Target, r.Control.CeilingHeight, r.Control.CeilingSlope, true)
}

// VeryBottom returns the lowest point of the slab bottom within the target
// sector.
func (r *FFloor) VeryBottom() fixed.Fixed {
	return extreme(r.Target, r.Control.FloorHeight, r.Control.FloorSlope, false)
}

func extreme(target *Sector, flat fixed.Fixed, sl *Slope, highest bool) fixed.Fixed {
	if sl == nil || target == nil || len(target.Lines) == 0 {
		return flat
	}
	best := sl.ZAt(target.Lines[0].V1.X, target.Lines[0].V1.Y)
	for _, l := range target.Lines {
		for _, v := range [2]*Vertex{l.V1, l.V2} {
			z := sl.ZAt(v.X, v.Y)
			if (highest && z > best) || (!highest && z < best) {
				best = z
			}
		}
	}
	return best
}

// FloorzAtPos returns the floor a body of the given extent would rest on at
// (x, y), taking solid and quicksand slabs into account.
func (lv *Level) FloorzAtPos(x, y, z, height fixed.Fixed) fixed.Fixed {
	sec := lv.SectorAt(x, y)
	floorz := sec.FloorZAt(x, y)
	thingtop := z + height
	for _, r := range sec.FFloors {
		if !r.Is(FOFExists) {
			continue
		}
		if !(r.Is(FOFSolid) || r.Is(FOFQuicksand)) || r.Is(FOFSwimmable) {
			continue
		}
		top, bottom := r.TopZAt(x, y), r.BottomZAt(x, y)
		if r.Is(FOFQuicksand) {
			if z < top && bottom < thingtop && floorz < z {
				floorz = z
			}
			continue
		}
		mid := bottom + (top-bottom)/2
		if top > floorz && fixed.Abs(z-mid) < fixed.Abs(thingtop-mid) {
			floorz = top
		}
	}
	return floorz
}

// CeilingzAtPos is the counterpart of FloorzAtPos.
func (lv *Level) CeilingzAtPos(x, y, z, height fixed.Fixed) fixed.Fixed {
	sec := lv.SectorAt(x, y)
	ceilingz := sec.CeilingZAt(x, y)
	thingtop := z + height
	for _, r := range sec.FFloors {
		if !r.Is(FOFExists) {
			continue
		}
		if !(r.Is(FOFSolid) || r.Is(FOFQuicksand)) || r.Is(FOFSwimmable) {
			continue
		}
		top, bottom := r.TopZAt(x, y), r.BottomZAt(x, y)
		if r.Is(FOFQuicksand) {
			if thingtop > bottom && top > z && ceilingz > z {
				ceilingz = z
			}
			continue
		}
		mid := bottom + (top-bottom)/2
		if bottom < ceilingz && fixed.Abs(z-mid) > fixed.Abs(thingtop-mid) {
			ceilingz = bottom
		}
	}
	return ceilingz
}
