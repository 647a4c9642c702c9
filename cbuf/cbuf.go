// SPDX-License-Identifier: GPL-2.0-or-later

package cbuf

import (
	"strings"
)

// CommandBuffer holds config text waiting to be executed line by line.
type CommandBuffer struct {
	buf string
	// toggle to pause Execute until the next call
	wait      bool
	executors executors
}

func (c *CommandBuffer) SetCommandExecutors(e []Efunc) {
	c.executors = e
}

// Wait stops the current Execute after the running command.
func (c *CommandBuffer) Wait() {
	c.wait = true
}

func (c *CommandBuffer) Execute() error {
	for len(c.buf) != 0 {
		i := 0
		quote := false
	LineLoop:
		for i = 0; i < len(c.buf); i++ {
			switch c.buf[i] {
			case '"':
				quote = !quote
			case ';':
				if !quote {
					break LineLoop
				}
			case '\n':
				break LineLoop
			}
		}
		line := c.buf[:i]
		if i < len(c.buf) {
			i++
		}
		c.buf = c.buf[i:]
		if strings.TrimSpace(line) == "wait" {
			return nil
		}
		if err := c.executors.execute(c, line); err != nil {
			return err
		}
		if c.wait {
			c.wait = false
			return nil
		}
	}
	return nil
}

// ExecuteAll runs Execute until the buffer is drained.
func (c *CommandBuffer) ExecuteAll() error {
	for len(c.buf) != 0 {
		if err := c.Execute(); err != nil {
			return err
		}
	}
	return nil
}

func (c *CommandBuffer) AddText(text string) {
	c.buf = c.buf + text
}

func (c *CommandBuffer) InsertText(text string) {
	c.buf = text + "\n" + c.buf
}
