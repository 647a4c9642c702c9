// SPDX-License-Identifier: GPL-2.0-or-later

package math

type Number interface {
	~int32 | ~int64 | ~int | ~float32 | ~float64
}

func Clamp[K Number](min, val, max K) K {
	if min > val {
		return min
	} else if max < val {
		return max
	}
	return val
}

func Abs[K Number](v K) K {
	if v < 0 {
		return -v
	}
	return v
}

// Sign returns -1, 0 or 1.
func Sign[K Number](v K) K {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
