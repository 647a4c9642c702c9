// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"

	"kartmove/alias"
	"kartmove/cbuf"
	"kartmove/cmd"
	"kartmove/commandline"
	"kartmove/conlog"
	"kartmove/cvar"
	"kartmove/cvars"
	"kartmove/demo"
	"kartmove/move"
	"kartmove/snapshot"
)

func setupLogger() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if commandline.Developer() {
		opts.Level = slog.LevelDebug
	}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if commandline.JSONLog() {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	conlog.SetLogger(slog.New(h))
}

// console returns the executors for everything config scripts can do
// besides setting cvars.
func console() []cbuf.Efunc {
	cmds := cmd.New()
	cmd.Must(cmds.Builtins())
	al := alias.New()
	cmd.Must(al.Register(cmds))
	return []cbuf.Efunc{cmds.Execute(), al.Execute()}
}

func loadConfig() error {
	if commandline.Developer() {
		cvars.Developer.SetValue(1)
	}
	ex := console()
	if p := commandline.Config(); p != "" {
		if err := cvar.LoadFile(p, ex...); err != nil {
			return err
		}
	}
	// command line overrides the config script
	if cmds := commandline.Commands(flag.Args()); cmds != "" {
		if err := cvar.Load(strings.NewReader(cmds), ex...); err != nil {
			return errors.Wrap(err, "command line")
		}
	}
	return nil
}

func run() error {
	if err := loadConfig(); err != nil {
		return err
	}
	d, err := demo.New(move.ConfigFromCvars(), uint32(cvars.DemoSeed.Int()))
	if err != nil {
		return err
	}

	n := commandline.Ticks()
	if n <= 0 {
		n = cvars.DemoTicks.Int()
	}
	every := commandline.ChecksumEvery()
	var last uint64
	d.Run(n, func(tick uint32, sum uint64) {
		last = sum
		if commandline.Checksums() && int(tick)%every == 0 {
			fmt.Printf("%6d %016x\n", tick, sum)
		}
	})
	fmt.Printf("final %016x\n", last)

	if p := commandline.Snapshot(); p != "" {
		b := snapshot.Encode(d.World, uint32(n-1))
		if err := os.WriteFile(p, b, 0o644); err != nil {
			return errors.Wrapf(err, "writing snapshot %s", p)
		}
		conlog.Printf("wrote %d bytes to %s", len(b), p)
	}
	return nil
}

func main() {
	flag.Parse()
	setupLogger()
	if err := run(); err != nil {
		log.Fatalf("kartmove: %v", err)
	}
}
