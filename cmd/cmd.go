// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"kartmove/cbuf"
	"kartmove/conlog"
)

type Func func(c *cbuf.CommandBuffer, a cbuf.Arguments) error

// Commands is a table of named console commands. Names are case
// insensitive.
type Commands map[string]Func

func New() *Commands {
	c := make(Commands)
	return &c
}

func (c *Commands) Add(name string, f Func) error {
	ln := strings.ToLower(name)
	if _, ok := (*c)[ln]; ok {
		return errors.Errorf("command %s already defined", ln)
	}
	(*c)[ln] = f
	return nil
}

func (c *Commands) Exists(cmdName string) bool {
	name := strings.ToLower(cmdName)
	_, ok := (*c)[name]
	return ok
}

func (c *Commands) List() []string {
	cmds := make([]string, 0, len(*c))
	for cmd := range *c {
		cmds = append(cmds, cmd)
	}
	sort.Strings(cmds)
	return cmds
}

// Execute returns the executor to plug into a command buffer.
func (c *Commands) Execute() cbuf.Efunc {
	return func(cb *cbuf.CommandBuffer, a cbuf.Arguments) (bool, error) {
		n := a.Args()
		if len(n) == 0 {
			return false, nil
		}
		name := strings.ToLower(n[0].String())
		cmd, ok := (*c)[name]
		if !ok {
			return false, nil
		}
		return true, cmd(cb, a)
	}
}

func Must(err error) {
	if err != nil {
		panic(err.Error())
	}
}

// Builtins adds echo, wait, exec and cmdlist.
func (c *Commands) Builtins() error {
	for name, f := range map[string]Func{
		"echo":    echo,
		"wait":    wait,
		"exec":    execFile,
		"cmdlist": c.printCmdList(),
	} {
		if err := c.Add(name, f); err != nil {
			return err
		}
	}
	return nil
}

func echo(_ *cbuf.CommandBuffer, a cbuf.Arguments) error {
	conlog.Printf("%s", a.ArgumentString())
	return nil
}

func wait(c *cbuf.CommandBuffer, _ cbuf.Arguments) error {
	c.Wait()
	return nil
}

// execFile runs a script before the rest of the buffer.
func execFile(c *cbuf.CommandBuffer, a cbuf.Arguments) error {
	args := a.Args()
	if len(args) != 2 {
		return errors.New("exec <filename>")
	}
	name := args[1].String()
	b, err := os.ReadFile(name)
	if err != nil {
		return errors.Wrapf(err, "couldn't exec %s", name)
	}
	conlog.DPrintf("execing %s", name)
	c.InsertText(string(b))
	return nil
}
