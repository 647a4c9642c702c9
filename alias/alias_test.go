// SPDX-License-Identifier: GPL-2.0-or-later

package alias

import (
	"testing"

	"kartmove/cbuf"
	"kartmove/cmd"
)

func TestAliasRegister(t *testing.T) {
	al := New()
	cmds := cmd.New()
	if err := al.Register(cmds); err != nil {
		t.Fatal(err)
	}
	if err := al.Register(cmds); err == nil {
		t.Errorf("Register() twice = nil, want error")
	}
}

func TestExecuteAlias(t *testing.T) {
	al := New()
	cmds := cmd.New()
	if err := al.Register(cmds); err != nil {
		t.Fatal(err)
	}
	cb := cbuf.CommandBuffer{}
	worldCount := 0
	p := func(cb *cbuf.CommandBuffer, a cbuf.Arguments) (bool, error) {
		if a.Full() != "world" {
			t.Errorf("Print() = %q, want %q", a.Full(), "world")
		} else {
			worldCount++
		}
		return true, nil
	}
	cb.SetCommandExecutors([]cbuf.Efunc{
		cmds.Execute(), // execute 'alias'
		al.Execute(),   // execute 'hello'
		p,              // execute 'world'
	})

	cb.AddText("alias hello world\n")
	cb.AddText("hello\n")
	cb.AddText("world\n")
	if err := cb.ExecuteAll(); err != nil {
		t.Fatal(err)
	}
	if worldCount != 2 {
		// for 'hello' -> 'world' and 'world'
		t.Errorf("Executed 'world' %d times, want %d", worldCount, 2)
	}
}

func TestUnalias(t *testing.T) {
	al := New()
	cmds := cmd.New()
	if err := al.Register(cmds); err != nil {
		t.Fatal(err)
	}
	cb := cbuf.CommandBuffer{}
	cb.SetCommandExecutors([]cbuf.Efunc{cmds.Execute(), al.Execute()})
	cb.AddText("alias a \"b c\"\nalias d e\nunalias a\n")
	if err := cb.ExecuteAll(); err != nil {
		t.Fatal(err)
	}
	if _, ok := al.Get("a"); ok {
		t.Errorf("Get(a) found a removed alias")
	}
	if v, ok := al.Get("d"); !ok || v != "e" {
		t.Errorf("Get(d) = %q, %v, want %q, true", v, ok, "e")
	}
	cb.AddText("unaliasall\n")
	if err := cb.ExecuteAll(); err != nil {
		t.Fatal(err)
	}
	if _, ok := al.Get("d"); ok {
		t.Errorf("Get(d) found an alias after unaliasall")
	}
}
