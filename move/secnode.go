// SPDX-License-Identifier: GPL-2.0-or-later

package move

import (
	"kartmove/blockmap"
	"kartmove/fixed"
	"kartmove/level"
)

// nodeRef is an index into the node arena. Handles stay valid until the
// node is released.
type nodeRef int32

const noNode nodeRef = -1

// secNode records that an actor touches a sector. Every node sits on two
// lists at once: the sectors of its actor and the actors of its sector.
type secNode struct {
	sector *level.Sector
	actor  ActorID

	// actor thread
	mPrev, mNext nodeRef
	// sector thread
	sPrev, sNext nodeRef

	// keep is cleared while a list is rebuilt, nodes still unset
	// afterwards are dropped.
	keep    bool
	visited uint32
}

type nodeArena struct {
	nodes []secNode
	free  nodeRef
	// gen is the current visit generation, see nextUnvisited.
	gen uint32
}

func newNodeArena() nodeArena {
	return nodeArena{free: noNode}
}

func (na *nodeArena) get(r nodeRef) *secNode {
	return &na.nodes[r]
}

func (na *nodeArena) alloc() nodeRef {
	if na.free != noNode {
		r := na.free
		na.free = na.nodes[r].mNext
		na.nodes[r] = secNode{}
		return r
	}
	na.nodes = append(na.nodes, secNode{})
	return nodeRef(len(na.nodes) - 1)
}

func (na *nodeArena) release(r nodeRef) {
	na.nodes[r] = secNode{mNext: na.free, mPrev: noNode, sPrev: noNode, sNext: noNode}
	na.free = r
}

// newGeneration starts a visit pass. Nodes visited in an older pass count as
// unvisited.
func (na *nodeArena) newGeneration() uint32 {
	na.gen++
	return na.gen
}

// addSecnode puts a on the touch list of s unless the list starting at head
// has a node for s already. It returns the new head.
func (w *World) addSecnode(s *level.Sector, a *Actor, head nodeRef) nodeRef {
	na := &w.nodes
	for r := head; r != noNode; r = na.get(r).mNext {
		if n := na.get(r); n.sector == s {
			n.keep = true
			return head
		}
	}

	r := na.alloc()
	n := na.get(r)
	n.sector = s
	n.actor = a.id
	n.keep = true
	n.mPrev = noNode
	n.mNext = head
	if head != noNode {
		na.get(head).mPrev = r
	}

	// new nodes go first on the sector thread too
	n.sPrev = noNode
	n.sNext = w.sectorHeads[s.Index]
	if n.sNext != noNode {
		na.get(n.sNext).sPrev = r
	}
	w.sectorHeads[s.Index] = r
	return r
}

// delSecnode unlinks the node from both threads and returns the next node
// on the actor thread.
func (w *World) delSecnode(r nodeRef) nodeRef {
	na := &w.nodes
	n := na.get(r)
	next := n.mNext
	if n.mPrev != noNode {
		na.get(n.mPrev).mNext = n.mNext
	}
	if n.mNext != noNode {
		na.get(n.mNext).mPrev = n.mPrev
	}
	if n.sPrev != noNode {
		na.get(n.sPrev).sNext = n.sNext
	} else {
		w.sectorHeads[n.sector.Index] = n.sNext
	}
	if n.sNext != noNode {
		na.get(n.sNext).sPrev = n.sPrev
	}
	na.release(r)
	return next
}

func (w *World) delSeclist(head nodeRef) {
	for head != noNode {
		head = w.delSecnode(head)
	}
}

// createSecNodeList rebuilds the list of sectors a touches when standing
// at (x, y). Sectors are taken from every non polyobject line crossing
// the bounding box plus the sector of the origin.
func (w *World) createSecNodeList(a *Actor, x, y fixed.Fixed) {
	na := &w.nodes
	head := a.touching
	for r := head; r != noNode; r = na.get(r).mNext {
		na.get(r).keep = false
	}

	box := level.BoxAround(x, y, a.Radius)
	bm := w.Blockmap
	bm.BeginScan()
	xl, xh, yl, yh := bm.CellRange(box, 0)
	for bx := xl; bx <= xh; bx++ {
		for by := yl; by <= yh; by++ {
			bm.ForEachLineInCell(bx, by, func(l *level.Line) blockmap.Iter {
				if !bm.VisitLine(l) {
					return blockmap.Continue
				}
				if !box.Overlaps(l.BBox) || level.BoxOnLineSide(box, l) != -1 {
					return blockmap.Continue
				}
				if l.Polyobj != nil {
					return blockmap.Continue
				}
				head = w.addSecnode(l.Front, a, head)
				if l.Back != nil {
					head = w.addSecnode(l.Back, a, head)
				}
				return blockmap.Continue
			})
		}
	}
	bm.EndScan()
	head = w.addSecnode(a.Subsector.Sector, a, head)

	for r := head; r != noNode; {
		if na.get(r).keep {
			r = na.get(r).mNext
			continue
		}
		if r == head {
			head = na.get(r).mNext
		}
		r = w.delSecnode(r)
	}
	a.touching = head
}

// TouchingSectors returns the sectors a overlaps, most recently added first.
func (w *World) TouchingSectors(a *Actor) []*level.Sector {
	var r []*level.Sector
	for n := a.touching; n != noNode; n = w.nodes.get(n).mNext {
		r = append(r, w.nodes.get(n).sector)
	}
	return r
}

// TouchingActors returns the actors touching s in list order.
func (w *World) TouchingActors(s *level.Sector) []*Actor {
	var r []*Actor
	for n := w.sectorHeads[s.Index]; n != noNode; n = w.nodes.get(n).sNext {
		if a := w.Actor(w.nodes.get(n).actor); a != nil {
			r = append(r, a)
		}
	}
	return r
}

// touchingFlag reports whether any touched sector has f set.
func (w *World) touchingFlag(a *Actor, f level.SectorFlag) bool {
	for n := a.touching; n != noNode; n = w.nodes.get(n).mNext {
		if w.nodes.get(n).sector.Is(f) {
			return true
		}
	}
	return false
}

// nextUnvisited returns the first actor on the sector thread not yet seen
// in generation gen and marks it. The thread may change between calls.
func (w *World) nextUnvisited(s *level.Sector, gen uint32) (*Actor, bool) {
	for r := w.sectorHeads[s.Index]; r != noNode; r = w.nodes.get(r).sNext {
		n := w.nodes.get(r)
		if n.visited == gen {
			continue
		}
		n.visited = gen
		return w.Actor(n.actor), true
	}
	return nil, false
}
