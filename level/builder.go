// SPDX-License-Identifier: GPL-2.0-or-later

package level

import (
	"github.com/pkg/errors"

	"kartmove/fixed"
)

type edgeKey struct {
	x1, y1, x2, y2 fixed.Fixed
}

type lineProps struct {
	flags     LineFlag
	special   int
	midTop    fixed.Fixed
	midBottom fixed.Fixed
}

type sectorDef struct {
	sector *Sector
	points []Vertex
}

type polyDef struct {
	po     *Polyobj
	points []Vertex
}

// Builder assembles a level from convex sector outlines. Outlines are given
// clockwise so the interior is on the right hand side of every edge. Edges
// shared by two outlines become two sided lines.
type Builder struct {
	sectors []*Sector
	defs    []sectorDef
	polys   []polyDef
	props   map[edgeKey]lineProps
}

func NewBuilder() *Builder {
	return &Builder{props: make(map[edgeKey]lineProps)}
}

func V(x, y int) Vertex {
	return Vertex{X: fixed.FromInt(x), Y: fixed.FromInt(y)}
}

func (b *Builder) newSector(floor, ceiling fixed.Fixed) *Sector {
	s := &Sector{
		Index:         len(b.sectors),
		FloorHeight:   floor,
		CeilingHeight: ceiling,
	}
	b.sectors = append(b.sectors, s)
	return s
}

// Sector adds a convex sector with the given outline.
func (b *Builder) Sector(floor, ceiling fixed.Fixed, outline ...Vertex) *Sector {
	s := b.newSector(floor, ceiling)
	b.defs = append(b.defs, sectorDef{sector: s, points: outline})
	return s
}

// ControlSector adds a sector without geometry that only provides heights
// for slabs and polyobjects.
func (b *Builder) ControlSector(floor, ceiling fixed.Fixed) *Sector {
	return b.newSector(floor, ceiling)
}

// FOF places a slab with the heights of control inside target.
func (b *Builder) FOF(target, control *Sector, flags FOFFlag) *FFloor {
	r := &FFloor{Target: target, Control: control, Flags: flags | FOFExists}
	target.FFloors = append(target.FFloors, r)
	control.Attached = append(control.Attached, target)
	control.AttachedSolid = append(control.AttachedSolid, r.Is(FOFSolid))
	return r
}

// Polyobj adds a polyobject with a counter clockwise outline so its lines
// face outwards.
func (b *Builder) Polyobj(id int, control *Sector, flags PolyFlag, outline ...Vertex) *Polyobj {
	po := &Polyobj{ID: id, Control: control, Flags: flags}
	b.polys = append(b.polys, polyDef{po: po, points: outline})
	return po
}

// LineFlags sets properties of the line between two outline points.
func (b *Builder) LineFlags(a, c Vertex, flags LineFlag, special int) {
	p := b.props[key(a, c)]
	p.flags |= flags
	p.special = special
	b.props[key(a, c)] = p
}

// TripWire marks the line between two outline points as a trip wire with
// a middle texture spanning [bottom, top].
func (b *Builder) TripWire(a, c Vertex, bottom, top fixed.Fixed) {
	p := b.props[key(a, c)]
	p.flags |= LineTripWire
	p.midBottom, p.midTop = bottom, top
	b.props[key(a, c)] = p
}

func key(a, c Vertex) edgeKey {
	if a.X > c.X || (a.X == c.X && a.Y > c.Y) {
		a, c = c, a
	}
	return edgeKey{a.X, a.Y, c.X, c.Y}
}

func (b *Builder) Build() (*Level, error) {
	lv := &Level{Sectors: b.sectors, Bounds: emptyBox()}
	verts := make(map[[2]fixed.Fixed]*Vertex)
	vertex := func(p Vertex) *Vertex {
		k := [2]fixed.Fixed{p.X, p.Y}
		if v, ok := verts[k]; ok {
			return v
		}
		v := &Vertex{X: p.X, Y: p.Y}
		verts[k] = v
		lv.Vertexes = append(lv.Vertexes, v)
		lv.Bounds.Add(v.X, v.Y)
		return v
	}
	open := make(map[edgeKey]*Line)

	for _, d := range b.defs {
		if err := checkOutline(d.points, true); err != nil {
			return nil, errors.Wrapf(err, "sector %d", d.sector.Index)
		}
		if d.sector.FloorHeight > d.sector.CeilingHeight {
			return nil, errors.Errorf("sector %d: floor %v above ceiling %v", d.sector.Index, d.sector.FloorHeight, d.sector.CeilingHeight)
		}
		ss := &Subsector{Index: len(lv.Subsectors), Sector: d.sector}
		lv.Subsectors = append(lv.Subsectors, ss)
		for i, p := range d.points {
			q := d.points[(i+1)%len(d.points)]
			v1, v2 := vertex(p), vertex(q)
			if l, ok := open[edgeKey{q.X, q.Y, p.X, p.Y}]; ok {
				if l.Back != nil {
					return nil, errors.Errorf("line %d shared by more than two sectors", l.Index)
				}
				l.Back = d.sector
				l.Flags |= LineTwoSided
				d.sector.Lines = append(d.sector.Lines, l)
				ss.Segs = append(ss.Segs, Seg{V1: v1, V2: v2, Line: l, Side: 1})
				continue
			}
			l := lv.newLine(v1, v2, d.sector)
			open[edgeKey{p.X, p.Y, q.X, q.Y}] = l
			ss.Segs = append(ss.Segs, Seg{V1: v1, V2: v2, Line: l, Side: 0})
		}
	}
	if len(lv.Subsectors) == 0 {
		return nil, errors.New("level without sectors")
	}

	for _, pd := range b.polys {
		if err := checkOutline(pd.points, false); err != nil {
			return nil, errors.Wrapf(err, "polyobject %d", pd.po.ID)
		}
		po := pd.po
		po.BBox = emptyBox()
		for i, p := range pd.points {
			q := pd.points[(i+1)%len(pd.points)]
			mx, my := p.X+(q.X-p.X)/2, p.Y+(q.Y-p.Y)/2
			l := lv.newLine(vertex(p), vertex(q), lv.SectorAt(mx, my))
			l.Polyobj = po
			po.Lines = append(po.Lines, l)
			po.BBox.Add(p.X, p.Y)
		}
		lv.Polyobjs = append(lv.Polyobjs, po)
	}

	for _, l := range lv.Lines {
		p, ok := b.props[key(Vertex{l.V1.X, l.V1.Y}, Vertex{l.V2.X, l.V2.Y})]
		if !ok {
			continue
		}
		l.Flags |= p.flags
		l.Special = p.special
		l.MidTop, l.MidBottom = p.midTop, p.midBottom
	}
	return lv, nil
}

func (lv *Level) newLine(v1, v2 *Vertex, front *Sector) *Line {
	l := &Line{
		Index: len(lv.Lines),
		Front: front,
	}
	l.setVertexes(v1, v2)
	lv.Lines = append(lv.Lines, l)
	if front != nil {
		front.Lines = append(front.Lines, l)
	}
	return l
}

// checkOutline verifies a convex outline turning right (clockwise) or left.
func checkOutline(pts []Vertex, clockwise bool) error {
	if len(pts) < 3 {
		return errors.Errorf("outline needs at least 3 points, got %d", len(pts))
	}
	for i := range pts {
		a, c, d := pts[i], pts[(i+1)%len(pts)], pts[(i+2)%len(pts)]
		cross := int64(c.X-a.X)*int64(d.Y-c.Y) - int64(c.Y-a.Y)*int64(d.X-c.X)
		if cross == 0 {
			return errors.Errorf("degenerate corner at %v,%v", c.X, c.Y)
		}
		if (cross < 0) != clockwise {
			return errors.Errorf("outline not convex or wrong winding at %v,%v", c.X, c.Y)
		}
	}
	return nil
}
