// SPDX-License-Identifier: GPL-2.0-or-later

package move

import (
	"kartmove/fixed"
	"kartmove/level"
)

// ActorID is a weak reference into the world's actor table. Zero is no
// actor.
type ActorID uint32

const NoActor ActorID = 0

type Flags uint32

const (
	FlagSolid Flags = 1 << iota
	FlagShootable
	FlagSpecial
	FlagPain
	FlagSpring
	FlagPushable
	FlagMissile
	FlagNoClip
	FlagNoClipThing
	FlagNoClipHeight
	FlagNoGravity
	FlagFloat
	FlagPaperCollision
	FlagEnemy
	FlagBoss
	FlagNoBlockmap
	FlagScenery
	FlagSlidePush
	FlagSkullFly
	FlagMonitor
	FlagBounce
)

type EFlags uint16

const (
	EFlagVerticalFlip EFlags = 1 << iota
	EFlagOnGround
	EFlagJustSteppedDown
	EFlagJustBouncedWall
	EFlagTouchWater
)

// Kind selects gameplay collision handlers. Kinds below KindUser have
// built in movement semantics.
type Kind uint16

const (
	KindNone Kind = iota
	KindPlayer
	// KindRay is the stand in used by CheckMove.
	KindRay
	// KindSkim floats on swimmable slabs and ignores drop-offs.
	KindSkim
	// KindShell bounces off walls without losing speed.
	KindShell
	KindThrownBounce
	KindThrownGrenade

	KindUser Kind = 64
)

// Player holds the per player state the movement code looks at.
type Player struct {
	Spectator bool
	// RMomX and RMomY are the momentum without conveyor influence.
	RMomX, RMomY fixed.Fixed
	// WaterSkip counts bounces across a water surface.
	WaterSkip int
	// WaterRun is set while the player is fast enough to drive on water.
	WaterRun bool
}

// Surface is what supports an actor from below or covers it from above.
type Surface struct {
	Rover   *level.FFloor
	Polyobj *level.Polyobj
	Slope   *level.Slope
}

type Actor struct {
	id      ActorID
	removed bool

	Kind           Kind
	X, Y, Z        fixed.Fixed
	OldX, OldY     fixed.Fixed
	OldZ           fixed.Fixed
	Radius, Height fixed.Fixed
	Scale          fixed.Fixed
	MomX, MomY     fixed.Fixed
	MomZ           fixed.Fixed
	Angle          fixed.Angle
	Flags          Flags
	EFlags         EFlags
	Health         int32
	HitLag         int32
	Player         *Player

	// DamageKind is dealt by painful actors and missiles.
	DamageKind DamageType
	// Speed caps the momentum of slide pushed actors.
	Speed fixed.Fixed

	// Target is the owner of a missile or the last actor that pushed it.
	Target ActorID
	// Support is the actor this one stands on, if any.
	Support ActorID

	FloorZ, CeilingZ       fixed.Fixed
	FloorDrop, CeilingDrop fixed.Fixed
	Floor, Ceiling         Surface
	StandingSlope          *level.Slope
	Subsector              *level.Subsector

	touching nodeRef
}

func (a *Actor) ID() ActorID {
	return a.id
}

func (a *Actor) Removed() bool {
	return a == nil || a.removed
}

func (a *Actor) Is(f Flags) bool {
	return a.Flags&f != 0
}

func (a *Actor) Has(f EFlags) bool {
	return a.EFlags&f != 0
}

func (a *Actor) Top() fixed.Fixed {
	return a.Z + a.Height
}

func (a *Actor) Flipped() bool {
	return a.EFlags&EFlagVerticalFlip != 0
}

// Flip is -1 for actors under reversed gravity and 1 otherwise.
func (a *Actor) Flip() fixed.Fixed {
	if a.Flipped() {
		return -1
	}
	return 1
}

func (a *Actor) IsPlayer() bool {
	return a.Player != nil
}

// OnGround reports whether the actor rests on its floor, or its ceiling
// under reversed gravity.
func (a *Actor) OnGround() bool {
	if a.Flipped() {
		return a.Top() >= a.CeilingZ
	}
	return a.Z <= a.FloorZ
}

func (a *Actor) Sector() *level.Sector {
	if a.Subsector == nil {
		return nil
	}
	return a.Subsector.Sector
}
