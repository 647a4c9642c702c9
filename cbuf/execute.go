// SPDX-License-Identifier: GPL-2.0-or-later

package cbuf

import (
	"github.com/pkg/errors"
)

type Efunc func(*CommandBuffer, Arguments) (bool, error)

type executors []Efunc

func (ex *executors) execute(c *CommandBuffer, s string) error {
	a := Parse(s)
	args := a.Args()
	if len(args) == 0 {
		return nil // no tokens
	}
	for _, e := range *ex {
		if ok, err := e(c, a); err != nil {
			return errors.Wrapf(err, "executing %q", a.Full())
		} else if ok {
			return nil
		}
	}
	return errors.Errorf("unknown command %q", args[0].String())
}
