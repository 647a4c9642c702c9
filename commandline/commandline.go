// SPDX-License-Identifier: GPL-2.0-or-later

package commandline

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

var (
	developer bool
	jsonLog   bool

	// print every nth checksum
	checksums = boolInt{false, 1}

	ticks int

	config   string
	snapshot string
)

type boolInt struct {
	set bool
	num int
}

func (b *boolInt) IsBoolFlag() bool {
	// We can not support both "-flag" and "-flag 10"
	// This allows "-flag", and "-flag=10"
	// and also "-flag=true" and "-flag=false"
	// but not "-flag 10"
	return true
}

func (b *boolInt) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, strconv.IntSize)
	if err != nil {
		v, err := strconv.ParseBool(s)
		b.set = v
		return err
	}
	b.set = true
	b.num = int(v)
	return nil
}

func (b *boolInt) String() string {
	return fmt.Sprintf("Set: %v, Num: %v", b.set, b.num)
}

func init() {
	flag.BoolVar(&developer, "developer", false, "print developer messages")
	flag.BoolVar(&jsonLog, "json", false, "log as json")

	flag.Var(&checksums, "checksums", "print tick checksums, optionally only every nth")

	flag.IntVar(&ticks, "ticks", 0, "ticks to run, zero uses demo_ticks")

	flag.StringVar(&config, "cfg", "", "config script to execute before the run")
	flag.StringVar(&snapshot, "snapshot", "", "write the final world state to this file")
}

func Developer() bool {
	return developer
}

func JSONLog() bool {
	return jsonLog
}

func Checksums() bool {
	return checksums.set
}

// ChecksumEvery is at least 1.
func ChecksumEvery() int {
	return max(checksums.num, 1)
}

func Ticks() int {
	return ticks
}

func Config() string {
	return config
}

func Snapshot() string {
	return snapshot
}

// Commands turns the remaining "+name value" arguments into console
// commands, one per line.
func Commands(args []string) string {
	var b strings.Builder
	for _, a := range args {
		if strings.HasPrefix(a, "+") {
			if b.Len() != 0 {
				b.WriteByte('\n')
			}
			a = a[1:]
		} else if b.Len() != 0 {
			b.WriteByte(' ')
		}
		b.WriteString(a)
	}
	if b.Len() != 0 {
		b.WriteByte('\n')
	}
	return b.String()
}
