// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"strings"

	"kartmove/cbuf"
	"kartmove/conlog"
)

type cmdList []string

func (c *Commands) printCmdList() Func {
	return func(_ *cbuf.CommandBuffer, a cbuf.Arguments) error {
		args := a.Args()
		cl := cmdList(c.List())
		switch len(args) {
		default:
			cl.printPartialCmdList(args[1].String())
		case 0, 1:
			cl.printFullCmdList()
		}
		return nil
	}
}

func (cl cmdList) printFullCmdList() {
	for _, c := range cl {
		conlog.Printf("  %s", c)
	}
	conlog.Printf("%v commands", len(cl))
}

func (cl cmdList) printPartialCmdList(part string) {
	count := 0
	for _, c := range cl {
		if strings.HasPrefix(c, part) {
			conlog.Printf("  %s", c)
			count++
		}
	}
	conlog.Printf("%v commands beginning with \"%v\"", count, part)
}
