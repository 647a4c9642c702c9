// SPDX-License-Identifier: GPL-2.0-or-later

package level

import (
	"kartmove/fixed"
)

type LineFlag uint32

const (
	LineImpassable LineFlag = 1 << iota
	LineBlockMonsters
	LineTwoSided
	LineBlockPlayers
	LineNotBouncy
	LineTripWire
	// LineCrossActivate lines run their special when crossed.
	LineCrossActivate
)

type SectorFlag uint32

const (
	SectorDoubleStepUp SectorFlag = 1 << iota
	SectorNoStepUp
	SectorNoStepDown
)

type FOFFlag uint32

const (
	FOFExists FOFFlag = 1 << iota
	FOFBlockPlayer
	FOFBlockOthers
	FOFSwimmable
	FOFGooWater
	FOFQuicksand
	// FOFPlatform slabs can be jumped through from below.
	FOFPlatform
	// FOFReversePlatform slabs can be fallen through from above.
	FOFReversePlatform
	FOFLava

	FOFSolid = FOFBlockPlayer | FOFBlockOthers
)

type PolyFlag uint32

const (
	PolySolid PolyFlag = 1 << iota
	// PolyClipPlanes polyobjects only block within their control sector
	// heights.
	PolyClipPlanes
)

type SlopeType uint8

const (
	SlopeHorizontal SlopeType = iota
	SlopeVertical
	SlopePositive
	SlopeNegative
)

type Vertex struct {
	X, Y fixed.Fixed
}

// BBox is an axis aligned box on the map plane.
type BBox struct {
	Top, Bottom, Left, Right fixed.Fixed
}

func BoxAround(x, y, radius fixed.Fixed) BBox {
	return BBox{
		Top:    y + radius,
		Bottom: y - radius,
		Left:   x - radius,
		Right:  x + radius,
	}
}

// Overlaps reports a strictly positive area intersection.
func (b BBox) Overlaps(o BBox) bool {
	return b.Right > o.Left && b.Left < o.Right && b.Top > o.Bottom && b.Bottom < o.Top
}

func (b *BBox) Add(x, y fixed.Fixed) {
	b.Left = min(b.Left, x)
	b.Right = max(b.Right, x)
	b.Bottom = min(b.Bottom, y)
	b.Top = max(b.Top, y)
}

func emptyBox() BBox {
	return BBox{
		Top:    fixed.MinFixed,
		Bottom: fixed.MaxFixed,
		Left:   fixed.MaxFixed,
		Right:  fixed.MinFixed,
	}
}

type Line struct {
	Index     int
	V1, V2    *Vertex
	Dx, Dy    fixed.Fixed
	Flags     LineFlag
	Special   int
	Tag       int
	Front     *Sector
	Back      *Sector
	BBox      BBox
	SlopeType SlopeType
	Angle     fixed.Angle
	Polyobj   *Polyobj

	// MidTop and MidBottom bound the middle texture of trip wires. Both
	// zero means the whole opening.
	MidTop, MidBottom fixed.Fixed

	ValidCount uint32
}

func (l *Line) TwoSided() bool {
	return l.Back != nil
}

func (l *Line) Is(f LineFlag) bool {
	return l.Flags&f != 0
}

// CrossSpecial reports whether crossing the line has to be delivered.
func (l *Line) CrossSpecial() bool {
	return (l.Special != 0 && l.Is(LineCrossActivate)) || l.Is(LineTripWire)
}

type Sector struct {
	Index         int
	FloorHeight   fixed.Fixed
	CeilingHeight fixed.Fixed
	FloorSlope    *Slope
	CeilingSlope  *Slope
	Flags         SectorFlag
	Special       int
	Tag           int
	Lines         []*Line
	FFloors       []*FFloor

	// Attached lists the sectors whose slabs are controlled by this one.
	Attached      []*Sector
	AttachedSolid []bool

	// CrumbleState is non zero while a crumbling slab is falling.
	CrumbleState int
}

func (s *Sector) Is(f SectorFlag) bool {
	return s.Flags&f != 0
}

// FFloor is a 3D floor slab placed inside Target. Its heights come from the
// planes of Control.
type FFloor struct {
	Target  *Sector
	Control *Sector
	Flags   FOFFlag
}

func (r *FFloor) Is(f FOFFlag) bool {
	return r.Flags&f != 0
}

// Blocks reports whether the slab is solid for the given category.
func (r *FFloor) Blocks(player bool) bool {
	if !r.Is(FOFExists) {
		return false
	}
	if player {
		return r.Is(FOFBlockPlayer)
	}
	return r.Is(FOFBlockOthers)
}

type Polyobj struct {
	ID      int
	Lines   []*Line
	Flags   PolyFlag
	Control *Sector
	BBox    BBox

	ValidCount uint32
}

func (p *Polyobj) Is(f PolyFlag) bool {
	return p.Flags&f != 0
}

// Seg is a convex boundary edge of a subsector.
type Seg struct {
	V1, V2 *Vertex
	Line   *Line
	Side   int
}

type Subsector struct {
	Index   int
	Sector  *Sector
	Segs    []Seg
	Polyobj *Polyobj
}

// Node is a BSP partition. Children with a negative value are leaves,
// see Leaf.
type Node struct {
	X, Y, Dx, Dy fixed.Fixed
	Children     [2]int
}

func Leaf(subsector int) int {
	return -1 - subsector
}

type Level struct {
	Vertexes   []*Vertex
	Lines      []*Line
	Sectors    []*Sector
	Subsectors []*Subsector
	Nodes      []*Node
	Polyobjs   []*Polyobj
	Bounds     BBox
}
