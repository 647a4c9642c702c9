// SPDX-License-Identifier: GPL-2.0-or-later

package cvars

import (
	"kartmove/conlog"
	"kartmove/cvar"
)

var (
	Developer      *cvar.Cvar
	MaxStepMove    *cvar.Cvar
	MapObjectScale *cvar.Cvar
	MaxRadius      *cvar.Cvar
	PushAccel      *cvar.Cvar
	BumpMinSpeed   *cvar.Cvar
	DemoTicks      *cvar.Cvar
	DemoSeed       *cvar.Cvar
)

func init() {
	Developer = cvar.MustRegister("developer", "0", cvar.NONE)
	Developer.SetCallback(func(cv *cvar.Cvar) {
		conlog.SetDeveloper(cv.Bool())
	})
	MaxStepMove = cvar.MustRegister("mv_maxstepmove", "24", cvar.LATCH)
	MapObjectScale = cvar.MustRegister("mv_mapobjectscale", "1", cvar.LATCH)
	MaxRadius = cvar.MustRegister("mv_maxradius", "32", cvar.LATCH)
	PushAccel = cvar.MustRegister("mv_pushaccel", "0.5", cvar.LATCH)
	BumpMinSpeed = cvar.MustRegister("mv_bumpminspeed", "15", cvar.LATCH)
	DemoTicks = cvar.MustRegister("demo_ticks", "350", cvar.ARCHIVE)
	DemoSeed = cvar.MustRegister("demo_seed", "1", cvar.ARCHIVE)
}
