// SPDX-License-Identifier: GPL-2.0-or-later

// Package blockmap is a uniform grid over the map plane that maps cells to
// the lines, polyobjects and actors overlapping them.
package blockmap

import (
	"log"
	"runtime/debug"
	"slices"

	"github.com/pkg/errors"

	"kartmove/fixed"
	"kartmove/level"
)

const (
	Shift = fixed.FracBits + 7
	Units = 1 << (Shift - fixed.FracBits)
)

// Iter tells a cell iterator whether to go on.
type Iter uint8

const (
	Continue Iter = iota
	Abort
)

type Map[T ~uint32] struct {
	OrgX, OrgY    fixed.Fixed
	Width, Height int

	lines  [][]*level.Line
	polys  [][]*level.Polyobj
	actors [][]T
	where  map[T]int

	// one scratch slice per nesting level of ForEachActorInCell
	scratch [][]T
	depth   int

	validCount uint32
	// marks overwritten by nested scans, put back by EndScan
	scans []scan
	undo  []mark
}

type scan struct {
	epoch uint32
	undo  int
}

type mark struct {
	line *level.Line
	po   *level.Polyobj
	was  uint32
}

func New[T ~uint32](lv *level.Level) (*Map[T], error) {
	b := lv.Bounds
	if b.Right < b.Left || b.Top < b.Bottom {
		return nil, errors.New("blockmap: level has no extent")
	}
	m := &Map[T]{
		OrgX:  b.Left,
		OrgY:  b.Bottom,
		where: make(map[T]int),
	}
	m.Width = int((int64(b.Right)-int64(b.Left))>>Shift) + 1
	m.Height = int((int64(b.Top)-int64(b.Bottom))>>Shift) + 1
	if m.Width*m.Height > 1<<20 {
		return nil, errors.Errorf("blockmap: %dx%d cells is too large", m.Width, m.Height)
	}
	n := m.Width * m.Height
	m.lines = make([][]*level.Line, n)
	m.polys = make([][]*level.Polyobj, n)
	m.actors = make([][]T, n)

	// lv.Lines is in index order so every cell list ends up sorted
	for _, l := range lv.Lines {
		xl, xh, yl, yh := m.CellRange(l.BBox, 0)
		for bx := xl; bx <= xh; bx++ {
			for by := yl; by <= yh; by++ {
				if l.SlopeType == level.SlopeHorizontal || l.SlopeType == level.SlopeVertical ||
					level.BoxOnLineSide(m.cellBox(bx, by), l) == -1 {
					i := by*m.Width + bx
					m.lines[i] = append(m.lines[i], l)
				}
			}
		}
	}
	for _, po := range lv.Polyobjs {
		xl, xh, yl, yh := m.CellRange(po.BBox, 0)
		for bx := xl; bx <= xh; bx++ {
			for by := yl; by <= yh; by++ {
				i := by*m.Width + bx
				m.polys[i] = append(m.polys[i], po)
			}
		}
	}
	return m, nil
}

// cellBox is the cell area grown by one unit on every side.
func (m *Map[T]) cellBox(bx, by int) level.BBox {
	left := m.OrgX + fixed.Fixed(bx<<Shift)
	bottom := m.OrgY + fixed.Fixed(by<<Shift)
	return level.BBox{
		Left:   left - fixed.FracUnit,
		Right:  left + fixed.Fixed(1<<Shift) + fixed.FracUnit,
		Bottom: bottom - fixed.FracUnit,
		Top:    bottom + fixed.Fixed(1<<Shift) + fixed.FracUnit,
	}
}

// Cell returns the cell of a point. It may lie outside of the grid.
func (m *Map[T]) Cell(x, y fixed.Fixed) (int, int) {
	return int((int64(x) - int64(m.OrgX)) >> Shift), int((int64(y) - int64(m.OrgY)) >> Shift)
}

// CellRange returns the clamped inclusive cell range covering the box grown
// by margin. An empty range has xl > xh.
func (m *Map[T]) CellRange(b level.BBox, margin fixed.Fixed) (xl, xh, yl, yh int) {
	xl = int((int64(b.Left) - int64(margin) - int64(m.OrgX)) >> Shift)
	xh = int((int64(b.Right) + int64(margin) - int64(m.OrgX)) >> Shift)
	yl = int((int64(b.Bottom) - int64(margin) - int64(m.OrgY)) >> Shift)
	yh = int((int64(b.Top) + int64(margin) - int64(m.OrgY)) >> Shift)
	xl, yl = max(xl, 0), max(yl, 0)
	xh, yh = min(xh, m.Width-1), min(yh, m.Height-1)
	return
}

func (m *Map[T]) index(bx, by int) (int, bool) {
	if bx < 0 || by < 0 || bx >= m.Width || by >= m.Height {
		return 0, false
	}
	return by*m.Width + bx, true
}

// BeginScan starts a walk in which every line and polyobject is visited at
// most once. Scans nest: the marks a nested scan overwrites are put back by
// its EndScan, so the enclosing scan goes on with the lines it already saw.
func (m *Map[T]) BeginScan() {
	m.validCount++
	m.scans = append(m.scans, scan{epoch: m.validCount, undo: len(m.undo)})
}

// EndScan closes the innermost scan and restores the epoch of the one
// around it.
func (m *Map[T]) EndScan() {
	n := len(m.scans) - 1
	if n < 0 {
		log.Panic("blockmap: EndScan without BeginScan")
	}
	top := m.scans[n].undo
	for i := len(m.undo) - 1; i >= top; i-- {
		u := m.undo[i]
		if u.line != nil {
			u.line.ValidCount = u.was
		} else {
			u.po.ValidCount = u.was
		}
	}
	m.undo = m.undo[:top]
	m.scans = m.scans[:n]
}

// Epoch returns the epoch of the innermost open scan, 0 if there is none.
func (m *Map[T]) Epoch() uint32 {
	if len(m.scans) == 0 {
		return 0
	}
	return m.scans[len(m.scans)-1].epoch
}

// VisitLine marks l for the current scan. It returns false if l was
// already visited by it.
func (m *Map[T]) VisitLine(l *level.Line) bool {
	e := m.Epoch()
	if l.ValidCount == e {
		return false
	}
	if len(m.scans) > 1 {
		m.undo = append(m.undo, mark{line: l, was: l.ValidCount})
	}
	l.ValidCount = e
	return true
}

func (m *Map[T]) VisitPolyobj(po *level.Polyobj) bool {
	e := m.Epoch()
	if po.ValidCount == e {
		return false
	}
	if len(m.scans) > 1 {
		m.undo = append(m.undo, mark{po: po, was: po.ValidCount})
	}
	po.ValidCount = e
	return true
}

// ForEachLineInCell visits the lines of a cell in index order.
func (m *Map[T]) ForEachLineInCell(bx, by int, f func(*level.Line) Iter) Iter {
	i, ok := m.index(bx, by)
	if !ok {
		return Continue
	}
	for _, l := range m.lines[i] {
		if f(l) == Abort {
			return Abort
		}
	}
	return Continue
}

func (m *Map[T]) ForEachPolyobjInCell(bx, by int, f func(*level.Polyobj) Iter) Iter {
	i, ok := m.index(bx, by)
	if !ok {
		return Continue
	}
	for _, po := range m.polys[i] {
		if f(po) == Abort {
			return Abort
		}
	}
	return Continue
}

// ForEachActorInCell visits the actors of a cell in ascending id order. The
// visitor may link and unlink actors, it sees the cell as it was when the
// iteration started.
func (m *Map[T]) ForEachActorInCell(bx, by int, f func(T) Iter) Iter {
	i, ok := m.index(bx, by)
	if !ok || len(m.actors[i]) == 0 {
		return Continue
	}
	if m.depth == len(m.scratch) {
		m.scratch = append(m.scratch, nil)
	}
	d := m.depth
	m.scratch[d] = append(m.scratch[d][:0], m.actors[i]...)
	m.depth++
	defer func() { m.depth-- }()
	for _, id := range m.scratch[d] {
		if f(id) == Abort {
			return Abort
		}
	}
	return Continue
}

// Link adds the actor to the cell containing (x, y). Actors outside of the
// grid are not indexed.
func (m *Map[T]) Link(id T, x, y fixed.Fixed) {
	if _, ok := m.where[id]; ok {
		debug.PrintStack()
		log.Panicf("blockmap: actor %d linked twice", id)
	}
	i, ok := m.index(m.Cell(x, y))
	if !ok {
		m.where[id] = -1
		return
	}
	cell := m.actors[i]
	pos, _ := slices.BinarySearch(cell, id)
	m.actors[i] = slices.Insert(cell, pos, id)
	m.where[id] = i
}

func (m *Map[T]) Unlink(id T) {
	i, ok := m.where[id]
	if !ok {
		return
	}
	delete(m.where, id)
	if i < 0 {
		return
	}
	cell := m.actors[i]
	if pos, found := slices.BinarySearch(cell, id); found {
		m.actors[i] = slices.Delete(cell, pos, pos+1)
	}
}

func (m *Map[T]) Linked(id T) bool {
	_, ok := m.where[id]
	return ok
}
