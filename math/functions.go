// SPDX-License-Identifier: GPL-2.0-or-later

package math

// Overlap reports whether the closed ranges [alo,ahi] and [blo,bhi] intersect
// with a non zero length.
func Overlap[K Number](alo, ahi, blo, bhi K) bool {
	return alo < bhi && blo < ahi
}
