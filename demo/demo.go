// SPDX-License-Identifier: GPL-2.0-or-later

// Package demo drives a small scripted track through the movement code.
// Every tick ends with a checksum of the world so two runs can be compared
// for determinism.
package demo

import (
	"log/slog"
	"slices"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"kartmove/conlog"
	"kartmove/fixed"
	"kartmove/level"
	"kartmove/move"
	"kartmove/plane"
	"kartmove/rand"
	"kartmove/snapshot"
)

const (
	friction = fixed.Fixed(0xE800)
	gravity  = fixed.FracUnit / 2
	thrust   = fixed.FracUnit

	// special run by the line between the start room and the step
	lapSpecial = 1

	launchEvery   = 35
	shellLifetime = 105
)

func u(i int) fixed.Fixed {
	return fixed.FromInt(i)
}

// Track is the scripted level. Room by room along x: start, a raised step
// behind a special line, a crusher room, and a room with a solid slab
// behind a trip wire.
type Track struct {
	Level   *level.Level
	Start   *level.Sector
	Step    *level.Sector
	Crusher *level.Sector
	Slab    *level.Sector
}

func BuildTrack() (*Track, error) {
	b := level.NewBuilder()
	t := &Track{}
	t.Start = b.Sector(0, u(128), level.V(0, 0), level.V(0, 128), level.V(256, 128), level.V(256, 0))
	t.Step = b.Sector(u(16), u(128), level.V(256, 0), level.V(256, 128), level.V(384, 128), level.V(384, 0))
	t.Crusher = b.Sector(0, u(128), level.V(384, 0), level.V(384, 128), level.V(512, 128), level.V(512, 0))
	t.Slab = b.Sector(0, u(128), level.V(512, 0), level.V(512, 128), level.V(640, 128), level.V(640, 0))

	b.LineFlags(level.V(256, 0), level.V(256, 128), level.LineCrossActivate, lapSpecial)
	b.TripWire(level.V(512, 0), level.V(512, 128), 0, u(64))
	b.FOF(t.Slab, b.ControlSector(0, u(8)), level.FOFSolid)

	lv, err := b.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building demo track")
	}
	t.Level = lv
	return t, nil
}

// Demo owns a world running on the track.
type Demo struct {
	World  *move.World
	Track  *Track
	Movers []*plane.Mover

	fx     *effects
	tick   uint32
	rng    rand.Generator
	expire map[move.ActorID]uint32
}

// New sets up the track. seed drives the shell launcher.
func New(cfg move.Config, seed uint32) (*Demo, error) {
	t, err := BuildTrack()
	if err != nil {
		return nil, err
	}
	w, err := move.NewWorld(t.Level, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "creating demo world")
	}
	fx := &effects{log: w.Logger()}
	w.SetEffects(fx)
	d := &Demo{
		World:  w,
		Track:  t,
		fx:     fx,
		rng:    rand.New(seed),
		expire: make(map[move.ActorID]uint32),
		Movers: []*plane.Mover{{
			Sector: t.Crusher,
			Part:   plane.Ceiling,
			Speed:  u(2),
			Low:    u(40),
			High:   u(128),
			Crush:  true,
			Dir:    plane.Down,
		}},
	}
	d.spawn()
	return d, nil
}

// launch fires a shell from the back of the start room in a random
// direction.
func (d *Demo) launch() {
	ang := d.rng.Angle()
	speed := d.rng.Fixed(u(4), u(12))
	a := d.World.Spawn(move.Actor{
		Kind:   move.KindShell,
		X:      u(24),
		Y:      u(104),
		Radius: u(8),
		Height: u(16),
		Health: 1,
		Flags:  move.FlagBounce,
		Angle:  ang,
		MomX:   fixed.Mul(speed, ang.Cos()),
		MomY:   fixed.Mul(speed, ang.Sin()),
	})
	d.expire[a.ID()] = d.tick + shellLifetime
}

func (d *Demo) spawn() {
	w := d.World
	w.Spawn(move.Actor{
		Kind:   move.KindPlayer,
		X:      u(32),
		Y:      u(40),
		Radius: u(16),
		Height: u(32),
		Health: 10,
		Flags:  move.FlagSolid | move.FlagShootable,
		MomX:   u(6),
		Player: &move.Player{},
	})
	w.Spawn(move.Actor{
		Kind:   move.KindShell,
		X:      u(64),
		Y:      u(24),
		Radius: u(8),
		Height: u(16),
		Health: 1,
		Flags:  move.FlagBounce,
		MomX:   u(-7),
		MomY:   u(3),
	})
	w.Spawn(move.Actor{
		X:      u(200),
		Y:      u(96),
		Radius: u(16),
		Height: u(24),
		Health: 1,
		Flags:  move.FlagSolid | move.FlagPushable,
	})
	w.Spawn(move.Actor{
		X:      u(320),
		Y:      u(64),
		Z:      u(16),
		Radius: u(8),
		Height: u(16),
		Health: 1,
		Flags:  move.FlagScenery | move.FlagNoGravity,
		MomY:   u(2),
	})
	w.Spawn(move.Actor{
		X:      u(448),
		Y:      u(64),
		Radius: u(12),
		Height: u(48),
		Health: 3,
		Flags:  move.FlagShootable,
	})
}

// Tick runs one tick and returns the checksum of the resulting state.
func (d *Demo) Tick() uint64 {
	w := d.World
	w.MapStart()
	if d.tick%launchEvery == 0 {
		d.launch()
	}
	for _, a := range w.Actors() {
		if a.Removed() {
			continue
		}
		d.think(a)
	}
	for _, m := range d.Movers {
		if r := m.Think(w); r != plane.OK {
			conlog.DPrintf("tick %d: sector %d mover %v", d.tick, m.Sector.Index, r)
		}
	}
	w.MapEnd()

	for id, t := range d.expire {
		if t == d.tick {
			d.fx.dead = append(d.fx.dead, id)
		}
	}
	// map order is random, removal order is not
	slices.Sort(d.fx.dead)
	for _, id := range lo.Uniq(d.fx.dead) {
		delete(d.expire, id)
		if a := w.Actor(id); a != nil {
			w.Remove(a)
		}
	}
	d.fx.dead = d.fx.dead[:0]

	sum := snapshot.Checksum(w, d.tick)
	d.tick++
	return sum
}

// Run runs n ticks and calls f with every checksum.
func (d *Demo) Run(n int, f func(tick uint32, sum uint64)) {
	for i := 0; i < n; i++ {
		t := d.tick
		sum := d.Tick()
		if f != nil {
			f(t, sum)
		}
	}
	st := d.World.Stats()
	d.World.Logger().Info("demo finished",
		slog.Int("ticks", n),
		slog.Int("actors", d.World.NumActors()),
		slog.Int("moves", st.Moves),
		slog.Int("rejected", st.Rejected),
		slog.Int("crossings", st.Crossings),
		slog.Int("crushes", st.Crushes))
}

// Laps counts the times a player crossed the special line, either way.
func (d *Demo) Laps() int {
	return d.fx.laps
}

func (d *Demo) think(a *move.Actor) {
	w := d.World
	a.EFlags &^= move.EFlagJustBouncedWall

	if a.IsPlayer() {
		// the driver floors it in whatever direction the kart points
		if a.MomX != 0 || a.MomY != 0 {
			a.Angle = fixed.PointToAngle(0, 0, a.MomX, a.MomY)
		}
		a.MomX += fixed.Mul(thrust, a.Angle.Cos())
		a.MomY += fixed.Mul(thrust, a.Angle.Sin())
		a.Player.RMomX, a.Player.RMomY = a.MomX, a.MomY
	}

	if a.Is(move.FlagScenery) {
		// scenery paces back and forth
		if !w.SceneryTryMove(a, a.X+a.MomX, a.Y+a.MomY, nil) {
			a.MomX, a.MomY = -a.MomX, -a.MomY
		}
		return
	}

	if a.MomX != 0 || a.MomY != 0 {
		var res move.MoveResult
		if !w.TryMove(a, a.X+a.MomX, a.Y+a.MomY, true, &res) && !a.Removed() {
			if a.Is(move.FlagBounce) || a.IsPlayer() {
				w.BounceMove(a, &res)
			} else {
				w.SlideMove(a, &res)
			}
		}
	}
	if a.Removed() {
		return
	}

	d.fall(a)
	if a.Kind != move.KindShell {
		a.MomX = fixed.Mul(a.MomX, friction)
		a.MomY = fixed.Mul(a.MomY, friction)
	}
}

func (d *Demo) fall(a *move.Actor) {
	if a.Is(move.FlagNoGravity) {
		return
	}
	if a.Z <= a.FloorZ {
		a.MomZ = 0
		return
	}
	a.MomZ -= gravity
	z := max(a.Z+a.MomZ, a.FloorZ)
	if z == a.FloorZ {
		a.MomZ = 0
	}
	d.World.SetOrigin(a, a.X, a.Y, z)
}

// effects keeps the bookkeeping the scripted run needs.
type effects struct {
	move.NopEffects
	log  *slog.Logger
	laps int
	dead []move.ActorID
}

func (e *effects) Damage(target, inflictor, source *move.Actor, amount int32, kind move.DamageType) bool {
	if target.Health <= 0 {
		return false
	}
	target.Health -= amount
	if target.Health <= 0 {
		e.dead = append(e.dead, target.ID())
		e.log.Info("actor destroyed", slog.Uint64("actor", uint64(target.ID())), slog.Int("damage", int(kind)))
	}
	return true
}

func (e *effects) CrossSpecialLine(l *level.Line, side int, a *move.Actor) {
	if l.Special == lapSpecial && a.IsPlayer() {
		e.laps++
	}
}

func (e *effects) TripWire(a *move.Actor, blocked bool) {
	conlog.DPrintf("actor %d hit a trip wire, blocked %v", a.ID(), blocked)
}
