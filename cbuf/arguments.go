// SPDX-License-Identifier: GPL-2.0-or-later

package cbuf

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"kartmove/conlog"
	"kartmove/fixed"
)

type Arg struct {
	a string
}

func (a Arg) String() string {
	return a.a
}

func (a Arg) Int() int {
	r, err := strconv.ParseInt(a.a, 10, 0)
	if err != nil {
		return 0
	}
	return int(r)
}

func (a Arg) Float64() float64 {
	r, err := strconv.ParseFloat(a.a, 64)
	if err != nil {
		return 0
	}
	return r
}

// Fixed parses the argument as map units.
func (a Arg) Fixed() fixed.Fixed {
	return fixed.FromFloat(a.Float64())
}

func (a Arg) Bool() bool {
	switch a.a {
	case "1", "t", "T", "true", "TRUE", "True", "On", "ON", "on":
		return true
	default:
		return false
	}
}

type Arguments struct {
	// each arg on its own
	args []Arg
	// the trimmed source line
	full string
}

func (c *Arguments) Argv(i int) Arg {
	if i < 0 || i >= len(c.args) {
		conlog.DPrintf("Argv out of bounds %v, %v", i, len(c.args))
		return Arg{""}
	}
	return c.args[i]
}

func (c *Arguments) Full() string {
	return c.full
}

func (c *Arguments) Args() []Arg {
	return c.args
}

func (c *Arguments) ArgumentString() string {
	// args[0] is the cmd
	if len(c.args) < 2 {
		return ""
	}
	r := strings.TrimPrefix(c.full, c.args[0].String())
	r = strings.TrimLeftFunc(r, unicode.IsSpace)
	if len(r) > 1 && r[0] == '"' {
		r = strings.Trim(r, "\"\t\n\v\f\r ")
	}
	return r
}

// Message returns everything behind argument 1.
func (c *Arguments) Message() string {
	if len(c.args) < 3 {
		return ""
	}
	t := c.args[1].String()
	return c.full[strings.Index(c.full, t)+len(t)+1:]
}

func Parse(s string) (args Arguments) {
	args.full = strings.TrimFunc(s, unicode.IsSpace)
	args.args = []Arg{}

	l := lexer{input: args.full}
	for {
		i := l.nextItem()
		switch i.typ {
		case itemWord:
			args.args = append(args.args, Arg{i.val})
		case itemString:
			s := strings.TrimPrefix(i.val, `"`)
			s = strings.TrimSuffix(s, `"`)
			args.args = append(args.args, Arg{s})
		case itemSpace:
			continue
		case itemEOF:
			return
		default:
			conlog.Printf("config parse: %v", i)
			return
		}
	}
}

type itemType int

const (
	itemError itemType = iota
	itemEOF
	itemString // quoted string includes quotes
	itemSpace
	itemWord
)

const eof = -1

type item struct {
	typ itemType
	val string
}

func (i item) String() string {
	switch i.typ {
	case itemEOF:
		return "EOF"
	case itemError:
		return i.val
	}
	if len(i.val) > 10 {
		return fmt.Sprintf("%.10q...", i.val)
	}
	return fmt.Sprintf("%q", i.val)
}

type lexer struct {
	input string
	start int
	pos   int
	width int
}

func (l *lexer) emit(t itemType) item {
	i := item{t, l.input[l.start:l.pos]}
	l.start = l.pos
	return i
}

func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += l.width
	return r
}

func (l *lexer) backup() {
	l.pos -= l.width
}

func (l *lexer) nextItem() item {
	switch r := l.next(); {
	case r == eof || r == '\r' || r == '\n':
		return item{itemEOF, ""}
	case r == ' ' || r == '\t':
		for r := l.next(); r == ' ' || r == '\t'; r = l.next() {
		}
		if l.width > 0 {
			l.backup()
		}
		return l.emit(itemSpace)
	case r == '"':
		for {
			switch l.next() {
			case '"':
				return l.emit(itemString)
			case eof, '\n':
				return item{itemError, "unterminated string"}
			}
		}
	case r == '/' && strings.HasPrefix(l.input[l.pos:], "/"):
		// comment up to the end of the line
		return item{itemEOF, ""}
	case r > ' ':
		for r := l.next(); r > ' '; r = l.next() {
		}
		if l.width > 0 {
			l.backup()
		}
		return l.emit(itemWord)
	default:
		return item{itemError, fmt.Sprintf("unhandled char: %#U", r)}
	}
}
