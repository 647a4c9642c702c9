// SPDX-License-Identifier: GPL-2.0-or-later

// Package move resolves actor movement against the level geometry and
// against other actors. Everything runs on the caller's goroutine, one
// actor at a time, and produces identical results for identical inputs.
package move

import (
	"log"
	"log/slog"
	"runtime/debug"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"kartmove/blockmap"
	"kartmove/conlog"
	"kartmove/cvar"
	"kartmove/cvars"
	"kartmove/fixed"
	"kartmove/level"
)

// Config holds the movement tunables in fixed point.
type Config struct {
	MapObjectScale fixed.Fixed
	MaxStepMove    fixed.Fixed
	// MaxRadius is the largest actor radius the blockmap scans account for.
	MaxRadius    fixed.Fixed
	PushAccel    fixed.Fixed
	BumpMinSpeed fixed.Fixed
}

func DefaultConfig() Config {
	return Config{
		MapObjectScale: fixed.FracUnit,
		MaxStepMove:    fixed.FromInt(24),
		MaxRadius:      fixed.FromInt(32),
		PushAccel:      fixed.FracUnit / 2,
		BumpMinSpeed:   fixed.FromInt(15),
	}
}

// ConfigFromCvars applies the latched cvars and reads the movement ones.
func ConfigFromCvars() Config {
	cvar.ApplyLatched()
	return Config{
		MapObjectScale: cvars.MapObjectScale.Fixed(),
		MaxStepMove:    cvars.MaxStepMove.Fixed(),
		MaxRadius:      cvars.MaxRadius.Fixed(),
		PushAccel:      cvars.PushAccel.Fixed(),
		BumpMinSpeed:   cvars.BumpMinSpeed.Fixed(),
	}
}

// Stats counts what happened since the world was created.
type Stats struct {
	Probes    int
	Moves     int
	Rejected  int
	Crossings int
	Crushes   int
}

type World struct {
	ID       uuid.UUID
	Level    *level.Level
	Blockmap *blockmap.Map[ActorID]

	cfg Config
	log *slog.Logger
	fx  Effects
	reg *Registry

	actors      *orderedmap.OrderedMap[ActorID, *Actor]
	nextID      ActorID
	nodes       nodeArena
	sectorHeads []nodeRef

	// nesting depth of public move operations
	depth int
	stats Stats
}

func NewWorld(lv *level.Level, cfg Config) (*World, error) {
	if cfg.MapObjectScale <= 0 {
		return nil, errors.Errorf("invalid map object scale %v", cfg.MapObjectScale)
	}
	bm, err := blockmap.New[ActorID](lv)
	if err != nil {
		return nil, errors.Wrap(err, "creating world")
	}
	w := &World{
		ID:          uuid.Must(uuid.NewV7()),
		Level:       lv,
		Blockmap:    bm,
		cfg:         cfg,
		fx:          NopEffects{},
		reg:         NewRegistry(),
		actors:      orderedmap.NewOrderedMap[ActorID, *Actor](),
		nodes:       newNodeArena(),
		sectorHeads: make([]nodeRef, len(lv.Sectors)),
	}
	for i := range w.sectorHeads {
		w.sectorHeads[i] = noNode
	}
	w.log = conlog.Logger().With(slog.String("world", w.ID.String()))
	return w, nil
}

func (w *World) SetEffects(fx Effects) {
	if fx == nil {
		fx = NopEffects{}
	}
	w.fx = fx
}

func (w *World) Registry() *Registry {
	return w.reg
}

func (w *World) Config() Config {
	return w.cfg
}

func (w *World) Logger() *slog.Logger {
	return w.log
}

func (w *World) Stats() Stats {
	return w.stats
}

// Spawn copies the template into the actor table and links it into the
// level. Floor and ceiling are taken from the spawn point.
func (w *World) Spawn(tmpl Actor) *Actor {
	w.nextID++
	a := new(Actor)
	*a = tmpl
	a.id = w.nextID
	a.removed = false
	a.touching = noNode
	if a.Scale == 0 {
		a.Scale = w.cfg.MapObjectScale
	}
	a.OldX, a.OldY, a.OldZ = a.X, a.Y, a.Z
	w.actors.Set(a.id, a)
	w.setThingPosition(a)
	a.FloorZ = w.Level.FloorzAtPos(a.X, a.Y, a.Z, a.Height)
	a.CeilingZ = w.Level.CeilingzAtPos(a.X, a.Y, a.Z, a.Height)
	conlog.DPrintf("spawned actor %d kind %d at %v,%v,%v", a.id, a.Kind, a.X, a.Y, a.Z)
	return a
}

// Remove unlinks the actor. References to its id resolve to nil afterwards.
func (w *World) Remove(a *Actor) {
	if a.Removed() {
		return
	}
	w.unsetThingPosition(a)
	w.delSeclist(a.touching)
	a.touching = noNode
	w.actors.Delete(a.id)
	a.removed = true
	conlog.DPrintf("removed actor %d", a.id)
}

// Actor resolves a weak reference.
func (w *World) Actor(id ActorID) *Actor {
	if id == NoActor {
		return nil
	}
	a, ok := w.actors.Get(id)
	if !ok {
		return nil
	}
	return a
}

// Actors returns the live actors in spawn order.
func (w *World) Actors() []*Actor {
	r := make([]*Actor, 0, w.actors.Len())
	for el := w.actors.Front(); el != nil; el = el.Next() {
		r = append(r, el.Value)
	}
	return r
}

func (w *World) NumActors() int {
	return w.actors.Len()
}

// MapStart and MapEnd bracket a tick. No move may be in flight across
// them.
func (w *World) MapStart() {
	if w.depth != 0 {
		debug.PrintStack()
		log.Panicf("MapStart: %d moves still in flight", w.depth)
	}
}

func (w *World) MapEnd() {
	w.MapStart()
}

func (w *World) enter() {
	w.depth++
	if w.depth == 16 {
		w.log.Warn("deeply nested move", slog.Int("depth", w.depth))
	}
}

func (w *World) leave() {
	w.depth--
}

func (w *World) assertLive(a *Actor, where string) {
	if a == nil {
		debug.PrintStack()
		log.Panicf("%s: nil actor", where)
	}
	if a.removed {
		debug.PrintStack()
		log.Panicf("%s: previously removed actor %d of kind %d", where, a.id, a.Kind)
	}
}
