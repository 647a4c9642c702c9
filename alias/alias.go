// SPDX-License-Identifier: GPL-2.0-or-later

package alias

import (
	"sort"
	"strings"

	"kartmove/cbuf"
	"kartmove/cmd"
	"kartmove/conlog"
)

// Aliases expands names into command text.
type Aliases struct {
	m map[string]string
}

func New() *Aliases {
	return &Aliases{m: make(map[string]string)}
}

// Register adds alias, unalias and unaliasall to cmds.
func (al *Aliases) Register(cmds *cmd.Commands) error {
	if err := cmds.Add("alias", al.alias); err != nil {
		return err
	}
	if err := cmds.Add("unalias", al.unalias); err != nil {
		return err
	}
	return cmds.Add("unaliasall", al.unaliasAll)
}

func (al *Aliases) alias(_ *cbuf.CommandBuffer, a cbuf.Arguments) error {
	args := a.Args()[1:]
	switch len(args) {
	case 0:
		al.list()
	case 1:
		al.print(args[0].String())
	default:
		// the parts have '"' already removed
		parts := make([]string, 0, len(args)-1)
		for _, p := range args[1:] {
			parts = append(parts, p.String())
		}
		al.m[args[0].String()] = strings.TrimSpace(strings.Join(parts, " "))
	}
	return nil
}

func (al *Aliases) list() {
	if len(al.m) == 0 {
		conlog.Printf("no alias commands found")
		return
	}
	names := make([]string, 0, len(al.m))
	for k := range al.m {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		conlog.Printf("  %s: %s", k, al.m[k])
	}
	conlog.Printf("%v alias command(s)", len(al.m))
}

func (al *Aliases) print(name string) {
	if v, ok := al.m[name]; ok {
		conlog.Printf("  %s: %s", name, v)
	}
}

func (al *Aliases) unalias(_ *cbuf.CommandBuffer, a cbuf.Arguments) error {
	args := a.Args()[1:]
	if len(args) != 1 {
		conlog.Printf("unalias <name> : delete alias")
		return nil
	}
	name := args[0].String()
	if _, ok := al.m[name]; !ok {
		conlog.Printf("No alias named %s", name)
		return nil
	}
	delete(al.m, name)
	return nil
}

func (al *Aliases) unaliasAll(_ *cbuf.CommandBuffer, _ cbuf.Arguments) error {
	al.m = make(map[string]string)
	return nil
}

func (al *Aliases) Get(name string) (string, bool) {
	a, ok := al.m[name]
	return a, ok
}

// Execute returns the executor that expands aliases in a command buffer.
func (al *Aliases) Execute() cbuf.Efunc {
	return func(c *cbuf.CommandBuffer, a cbuf.Arguments) (bool, error) {
		args := a.Args()
		if len(args) == 0 {
			return false, nil
		}
		v, ok := al.Get(args[0].String())
		if !ok {
			return false, nil
		}
		c.InsertText(v)
		return true, nil
	}
}
