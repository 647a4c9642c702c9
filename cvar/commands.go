// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"kartmove/cbuf"
	"kartmove/conlog"
)

// Execute handles "<cvar>" and "<cvar> <value>" lines.
func Execute(_ *cbuf.CommandBuffer, a cbuf.Arguments) (bool, error) {
	args := a.Args()
	if len(args) == 0 {
		return false, nil
	}
	cv, ok := Get(args[0].String())
	if !ok {
		return false, nil
	}
	if len(args) == 1 {
		if p, ok := cv.Pending(); ok {
			conlog.Printf("\"%s\" is \"%s\", \"%s\" in the next world", cv.Name(), cv.String(), p)
		} else {
			conlog.Printf("\"%s\" is \"%s\"", cv.Name(), cv.String())
		}
		return true, nil
	}
	cv.SetByString(args[1].String())
	return true, nil
}

// Commands handles the cvar manipulation commands.
func Commands(_ *cbuf.CommandBuffer, a cbuf.Arguments) (bool, error) {
	args := a.Args()
	if len(args) == 0 {
		return false, nil
	}
	rest := args[1:]
	switch strings.ToLower(args[0].String()) {
	case "set":
		if len(rest) < 2 {
			return true, errors.New("set <cvar> <value>")
		}
		if cv, ok := Get(rest[0].String()); ok {
			cv.SetByString(rest[1].String())
		} else {
			cv := create(rest[0].String(), rest[1].String(), NONE)
			cv.user = true
		}
	case "toggle":
		if len(rest) != 1 {
			return true, errors.New("toggle <cvar>")
		}
		cv, ok := Get(rest[0].String())
		if !ok {
			return true, errors.Errorf("toggle: variable %v not found", rest[0])
		}
		cv.Toggle()
	case "inc":
		if len(rest) < 1 || len(rest) > 2 {
			return true, errors.New("inc <cvar> [amount]")
		}
		cv, ok := Get(rest[0].String())
		if !ok {
			return true, errors.Errorf("inc: variable %v not found", rest[0])
		}
		amount := 1.0
		if len(rest) == 2 {
			amount = rest[1].Float64()
		}
		cv.SetValue(cv.Value() + amount)
	case "reset":
		if len(rest) != 1 {
			return true, errors.New("reset <cvar>")
		}
		cv, ok := Get(rest[0].String())
		if !ok {
			return true, errors.Errorf("reset: variable %v not found", rest[0])
		}
		cv.Reset()
	case "resetall":
		for _, cv := range All() {
			cv.Reset()
		}
	case "cvarlist":
		prefix := ""
		if len(rest) > 0 {
			prefix = rest[0].String()
		}
		list(prefix)
	default:
		return false, nil
	}
	return true, nil
}

func list(prefix string) {
	names := make([]string, 0, len(cvarArray))
	for _, cv := range cvarArray {
		if strings.HasPrefix(cv.name, prefix) {
			names = append(names, cv.name)
		}
	}
	sort.Strings(names)
	for _, n := range names {
		cv := cvarByName[n]
		a := " "
		if cv.Archive() {
			a = "*"
		}
		conlog.Printf("%s %s \"%s\"", a, cv.Name(), cv.String())
	}
	conlog.Printf("%v cvars", len(names))
}

// Load executes a config script. Lines that are not cvar commands go to
// the extra executors.
func Load(r io.Reader, extra ...cbuf.Efunc) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "reading config")
	}
	c := cbuf.CommandBuffer{}
	c.SetCommandExecutors(append([]cbuf.Efunc{Execute, Commands}, extra...))
	c.AddText(string(b))
	c.AddText("\n")
	return c.ExecuteAll()
}

func LoadFile(path string, extra ...cbuf.Efunc) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening config %s", path)
	}
	defer f.Close()
	return errors.Wrapf(Load(f, extra...), "config %s", path)
}
