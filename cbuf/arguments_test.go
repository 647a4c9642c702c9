// SPDX-License-Identifier: GPL-2.0-or-later

package cbuf

import (
	"testing"

	"kartmove/fixed"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		in     string
		wantF  string
		wantAS string
		wantMS string
		wantA  []Arg
	}{
		{
			in:     `mv_maxstepmove 24`,
			wantF:  `mv_maxstepmove 24`,
			wantAS: `24`,
			wantMS: ``,
			wantA:  []Arg{{"mv_maxstepmove"}, {"24"}},
		},
		{
			in:     `set demo_seed "7"`,
			wantF:  `set demo_seed "7"`,
			wantAS: `demo_seed "7"`,
			wantMS: `"7"`,
			wantA:  []Arg{{"set"}, {"demo_seed"}, {"7"}},
		},
		{
			in:     ` alias go  "exec race.cfg" `,
			wantF:  `alias go  "exec race.cfg"`,
			wantAS: `go  "exec race.cfg"`,
			wantMS: ` "exec race.cfg"`,
			wantA:  []Arg{{"alias"}, {"go"}, {"exec race.cfg"}},
		},
		{
			in:     `echo hi // the rest is ignored`,
			wantF:  `echo hi // the rest is ignored`,
			wantAS: `hi // the rest is ignored`,
			wantMS: ``,
			wantA:  []Arg{{"echo"}, {"hi"}},
		},
	} {
		arg := Parse(tc.in)
		if tc.wantF != arg.Full() {
			t.Errorf("Parse(%q).Full() = %q, want %q", tc.in, arg.Full(), tc.wantF)
		}
		if tc.wantAS != arg.ArgumentString() {
			t.Errorf("Parse(%q).ArgumentString() = %q, want %q", tc.in, arg.ArgumentString(), tc.wantAS)
		}
		if tc.wantMS != arg.Message() {
			t.Errorf("Parse(%q).Message() = %q, want %q", tc.in, arg.Message(), tc.wantMS)
		}
		as := arg.Args()
		if len(tc.wantA) != len(as) {
			t.Fatalf("Parse(%q).Args() has len(%d), want %d", tc.in, len(as), len(tc.wantA))
		}
		for i := range tc.wantA {
			if tc.wantA[i] != as[i] {
				t.Errorf("Parse(%q).Args()[%d] = %q, want %q", tc.in, i, as[i], tc.wantA[i])
			}
		}
	}
}

func TestArgValues(t *testing.T) {
	a := Parse(`x 0.5 3 on junk`)
	if got, want := a.Argv(1).Fixed(), fixed.FracUnit/2; got != want {
		t.Errorf("Argv(1).Fixed() = %v, want %v", got, want)
	}
	if got := a.Argv(2).Int(); got != 3 {
		t.Errorf("Argv(2).Int() = %d, want 3", got)
	}
	if !a.Argv(3).Bool() {
		t.Errorf("Argv(3).Bool() = false, want true")
	}
	if got := a.Argv(4).Int(); got != 0 {
		t.Errorf("Argv(4).Int() = %d, want 0", got)
	}
	if got := a.Argv(9).String(); got != "" {
		t.Errorf("Argv(9) = %q, want empty", got)
	}
}
