// SPDX-License-Identifier: GPL-2.0-or-later

package fixed

import (
	"encoding/binary"
	"hash/fnv"
	"testing"

	"github.com/chewxy/math32"
)

// tablesHash is FNV-1a over the little endian sine and then arctangent
// entries.
func tablesHash() uint64 {
	h := fnv.New64a()
	var b [4]byte
	for _, v := range fineSine {
		binary.LittleEndian.PutUint32(b[:], uint32(v))
		h.Write(b[:])
	}
	for _, v := range tanToAngle {
		binary.LittleEndian.PutUint32(b[:], uint32(v))
		h.Write(b[:])
	}
	return h.Sum64()
}

func TestTablesGolden(t *testing.T) {
	const want = 0x4862e77d064e43c2
	if got := tablesHash(); got != want {
		t.Errorf("tablesHash() = %#x, want %#x", got, uint64(want))
	}
	for _, tc := range []struct {
		i    int
		want Fixed
	}{
		{0, 0},
		{1, 50},
		{512, 25080},
		{1024, 46341},
		{2048, FracUnit},
		{5132, -46765},
		{6144, -FracUnit},
	} {
		if got := fineSine[tc.i]; got != tc.want {
			t.Errorf("fineSine[%d] = %d, want %d", tc.i, got, tc.want)
		}
	}
	for _, tc := range []struct {
		i    int
		want Angle
	}{
		{0, 0},
		{1, 333772},
		{1024, 316933405},
		{2047, 536703985},
		{slopeRange, Ang45},
	} {
		if got := tanToAngle[tc.i]; got != tc.want {
			t.Errorf("tanToAngle[%d] = %d, want %d", tc.i, got, tc.want)
		}
	}
}

func TestTablesSymmetric(t *testing.T) {
	for i := 0; i < FineAngles; i++ {
		if fineSine[i] != -fineSine[(i+FineAngles/2)%FineAngles] {
			t.Fatalf("fineSine[%d] = %d, not the negation of the opposite angle", i, fineSine[i])
		}
		if i < FineAngles/4 && fineSine[i] > fineSine[i+1] {
			t.Fatalf("fineSine falls between %d and %d in the first quadrant", i, i+1)
		}
	}
	for i := FineAngles; i < len(fineSine); i++ {
		if fineSine[i] != fineSine[i-FineAngles] {
			t.Fatalf("fineSine[%d] does not repeat fineSine[%d]", i, i-FineAngles)
		}
	}
}

func TestTablesCloseToFloat(t *testing.T) {
	for i, v := range fineSine {
		a := float32(i) * (2 * math32.Pi / FineAngles)
		f := math32.Round(math32.Sin(a) * float32(FracUnit))
		if d := float32(v) - f; d < -1 || d > 1 {
			t.Errorf("fineSine[%d] = %d, float sine gives %v", i, v, f)
		}
	}
	for i, v := range tanToAngle {
		f := float64(math32.Atan(float32(i)/slopeRange)) * (float64(Ang180) / float64(math32.Pi))
		if d := float64(v) - f; d < -256 || d > 256 {
			t.Errorf("tanToAngle[%d] = %d, float arctangent gives %v", i, v, f)
		}
	}
}
