// SPDX-License-Identifier: GPL-2.0-or-later

package move

import (
	"kartmove/level"
)

// HookResult overrides the default collision decision.
type HookResult uint8

const (
	Defer HookResult = iota
	ForceCollide
	ForceNoCollide
)

// Outcome of a pair handler.
type Outcome uint8

const (
	// Pass leaves the pair to the generic rules.
	Pass Outcome = iota
	// Touch handled the contact, scanning goes on.
	Touch
	// Block stops the probe, the position is rejected.
	Block
)

type ActorHook func(thing, mover *Actor) HookResult
type LineHook func(mover *Actor, l *level.Line) HookResult

// Contact is handed to pair handlers. A has the first kind of the
// registration and B the second.
type Contact struct {
	World  *World
	TM     *Transaction
	A, B   *Actor
	Moving *Actor
}

// Other returns the actor that is not moving.
func (c *Contact) Other() *Actor {
	if c.Moving == c.A {
		return c.B
	}
	return c.A
}

type PairHandler func(c *Contact) Outcome

type pairKey struct {
	a, b Kind
}

type pairEntry struct {
	h PairHandler
	// skip the vertical overlap check
	penetrating bool
}

// Registry maps actor kinds to collision behavior.
type Registry struct {
	thingHooks map[Kind]ActorHook
	moverHooks map[Kind]ActorHook
	lineHooks  map[Kind]LineHook
	pairs      map[pairKey]pairEntry
}

func NewRegistry() *Registry {
	return &Registry{
		thingHooks: make(map[Kind]ActorHook),
		moverHooks: make(map[Kind]ActorHook),
		lineHooks:  make(map[Kind]LineHook),
		pairs:      make(map[pairKey]pairEntry),
	}
}

// OnCollide runs when a mover touches an actor of kind k.
func (r *Registry) OnCollide(k Kind, h ActorHook) {
	r.thingHooks[k] = h
}

// OnMoveCollide runs when an actor of kind k touches something.
func (r *Registry) OnMoveCollide(k Kind, h ActorHook) {
	r.moverHooks[k] = h
}

func (r *Registry) OnLineCollide(k Kind, h LineHook) {
	r.lineHooks[k] = h
}

// Handle registers h for overlapping actors of kinds a and b, in either
// moving role. The actors must overlap vertically.
func (r *Registry) Handle(a, b Kind, h PairHandler) {
	r.pairs[pairKey{a, b}] = pairEntry{h: h}
}

// HandlePenetrating is Handle without the vertical overlap requirement.
func (r *Registry) HandlePenetrating(a, b Kind, h PairHandler) {
	r.pairs[pairKey{a, b}] = pairEntry{h: h, penetrating: true}
}

func (r *Registry) hook(thing, mover *Actor) HookResult {
	if h, ok := r.thingHooks[thing.Kind]; ok {
		if res := h(thing, mover); res != Defer {
			return res
		}
	}
	if h, ok := r.moverHooks[mover.Kind]; ok {
		return h(thing, mover)
	}
	return Defer
}

func (r *Registry) lineHook(mover *Actor, l *level.Line) HookResult {
	if h, ok := r.lineHooks[mover.Kind]; ok {
		return h(mover, l)
	}
	return Defer
}

// pair looks up the handler with the stationary actor's kind first.
func (r *Registry) pair(thing, mover *Actor) (pairEntry, *Actor, *Actor, bool) {
	if e, ok := r.pairs[pairKey{thing.Kind, mover.Kind}]; ok {
		return e, thing, mover, true
	}
	if e, ok := r.pairs[pairKey{mover.Kind, thing.Kind}]; ok {
		return e, mover, thing, true
	}
	return pairEntry{}, nil, nil, false
}
