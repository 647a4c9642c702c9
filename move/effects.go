// SPDX-License-Identifier: GPL-2.0-or-later

package move

import (
	"kartmove/level"
)

type DamageType uint8

const (
	DamageNormal DamageType = iota
	DamageWipeout
	DamageExplode
	DamageTumble
	DamageCrushed
	DamageLava

	// DamageCantHurtSelf spares actors of the source's kind in radius
	// attacks.
	DamageCantHurtSelf DamageType = 0x80
	DamageKindMask     DamageType = 0x7F
)

// Effects receives the gameplay side effects the movement code triggers.
// All calls happen synchronously while a probe or move is running.
type Effects interface {
	// Damage returns whether the target was hurt.
	Damage(target, inflictor, source *Actor, amount int32, kind DamageType) bool
	TouchPickup(item, toucher *Actor)
	CrossSpecialLine(l *level.Line, side int, a *Actor)
	// TripWire reports a player touching a trip wire. blocked is set when
	// the wire stopped the player.
	TripWire(a *Actor, blocked bool)
	// Bump resolves two overlapping players.
	Bump(mover, other *Actor)
	// SolidBounce lets a player bounce off a solid actor. It returns false
	// to fall back to stepping onto it.
	SolidBounce(player, solid *Actor) bool
	WallBump(a *Actor)
}

// NopEffects ignores everything. Embed it to implement a subset.
type NopEffects struct{}

func (NopEffects) Damage(target, inflictor, source *Actor, amount int32, kind DamageType) bool {
	return false
}
func (NopEffects) TouchPickup(item, toucher *Actor) {}
func (NopEffects) CrossSpecialLine(l *level.Line, side int, a *Actor) {}
func (NopEffects) TripWire(a *Actor, blocked bool) {}
func (NopEffects) Bump(mover, other *Actor) {}
func (NopEffects) SolidBounce(player, solid *Actor) bool { return false }
func (NopEffects) WallBump(a *Actor) {}
