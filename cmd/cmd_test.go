// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"kartmove/cbuf"
)

func TestAddTwice(t *testing.T) {
	c := New()
	f := func(*cbuf.CommandBuffer, cbuf.Arguments) error { return nil }
	if err := c.Add("Go", f); err != nil {
		t.Fatal(err)
	}
	if err := c.Add("go", f); err == nil {
		t.Errorf("Add(go) after Add(Go) = nil, want error")
	}
	if !c.Exists("GO") {
		t.Errorf("Exists(GO) = false, want true")
	}
}

func TestExec(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.cfg")
	if err := os.WriteFile(p, []byte("hit\nwait\nhit\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := New()
	if err := c.Builtins(); err != nil {
		t.Fatal(err)
	}
	hits := 0
	if err := c.Add("hit", func(*cbuf.CommandBuffer, cbuf.Arguments) error {
		hits++
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	cb := cbuf.CommandBuffer{}
	cb.SetCommandExecutors([]cbuf.Efunc{c.Execute()})
	cb.AddText("exec " + p + "\n")
	if err := cb.Execute(); err != nil {
		t.Fatal(err)
	}
	if hits != 1 {
		t.Errorf("hits after wait = %d, want 1", hits)
	}
	if err := cb.ExecuteAll(); err != nil {
		t.Fatal(err)
	}
	if hits != 2 {
		t.Errorf("hits = %d, want 2", hits)
	}
}

func TestExecMissing(t *testing.T) {
	c := New()
	if err := c.Builtins(); err != nil {
		t.Fatal(err)
	}
	cb := cbuf.CommandBuffer{}
	cb.SetCommandExecutors([]cbuf.Efunc{c.Execute()})
	cb.AddText("exec " + filepath.Join(t.TempDir(), "nope.cfg") + "\n")
	if err := cb.ExecuteAll(); err == nil {
		t.Errorf("exec of a missing file = nil, want error")
	}
}
