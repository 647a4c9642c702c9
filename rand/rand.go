// SPDX-License-Identifier: GPL-2.0-or-later

// Package rand is a counter based noise generator. The nth value only
// depends on the seed and n, so replays draw the same numbers.
package rand

import (
	"kartmove/fixed"
)

const (
	noise1 = 0xB5297A4D
	noise2 = 0x68E31DA4
	noise3 = 0x1B56C4E9
)

type Generator struct {
	idx  uint32
	seed uint32
}

func New(seed uint32) Generator {
	return Generator{idx: 0, seed: seed}
}

func noise(p uint32, s uint32) uint32 {
	m := p
	m *= noise1
	m += s
	m ^= (m >> 8)
	m *= noise2
	m ^= (m << 8)
	m *= noise3
	m ^= (m >> 8)
	return m
}

func (g *Generator) rand() uint32 {
	g.idx++
	return noise(g.idx, g.seed)
}

// Drawn is the number of values taken so far.
func (g *Generator) Drawn() uint32 {
	return g.idx
}

func (g *Generator) Uint32n(n uint32) uint32 {
	return g.rand() % n
}

func (g *Generator) Intn(n int) int {
	return int(g.Uint32n(uint32(n)))
}

// Angle returns any angle.
func (g *Generator) Angle() fixed.Angle {
	return fixed.Angle(g.rand())
}

// Fixed returns a value in [lo, hi).
func (g *Generator) Fixed(lo, hi fixed.Fixed) fixed.Fixed {
	if hi <= lo {
		return lo
	}
	return lo + fixed.Fixed(g.Uint32n(uint32(hi-lo)))
}
