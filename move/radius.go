// SPDX-License-Identifier: GPL-2.0-or-later

package move

import (
	"kartmove/blockmap"
	"kartmove/fixed"
	"kartmove/level"
)

// RadiusAttack damages every shootable actor within dist of spot. source
// is the actor responsible for the blast and may be nil. Actors separated
// from the spot by a floor or ceiling are spared.
func (w *World) RadiusAttack(spot, source *Actor, dist fixed.Fixed, kind DamageType) {
	w.assertLive(spot, "RadiusAttack")
	w.enter()
	defer w.leave()

	damage := fixed.Mul(dist, spot.Scale)
	bm := w.Blockmap
	xl, xh, yl, yh := bm.CellRange(level.BoxAround(spot.X, spot.Y, damage), w.cfg.MaxRadius)
	for y := yl; y <= yh; y++ {
		for x := xl; x <= xh; x++ {
			bm.ForEachActorInCell(x, y, func(id ActorID) blockmap.Iter {
				if spot.Removed() {
					return blockmap.Abort
				}
				if thing := w.Actor(id); !thing.Removed() {
					w.blast(spot, source, thing, damage, kind)
				}
				return blockmap.Continue
			})
		}
	}
}

func (w *World) blast(spot, source, thing *Actor, damage fixed.Fixed, kind DamageType) {
	if thing == spot {
		return
	}
	if kind&DamageCantHurtSelf != 0 && source != nil && thing.Kind == source.Kind {
		return
	}
	if thing.Flags&(FlagMonitor|FlagShootable) != FlagShootable {
		return
	}

	dx := fixed.Abs(thing.X - spot.X)
	dy := fixed.Abs(thing.Y - spot.Y)
	dz := fixed.Abs(thing.Z + thing.Height>>1 - spot.Z)
	dist := max(fixed.AproxDistance(fixed.AproxDistance(dx, dy), dz)-thing.Radius, 0)
	if dist >= damage {
		return
	}
	if thing.FloorZ > spot.Z && spot.CeilingZ < thing.Z {
		return
	}
	if thing.CeilingZ < spot.Z && spot.FloorZ > thing.Z {
		return
	}
	w.fx.Damage(thing, spot, source, 1, kind&DamageKindMask)
}
