// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"log"
	"strconv"

	"github.com/pkg/errors"

	"kartmove/conlog"
	"kartmove/fixed"
)

var (
	cvarArray  []*Cvar
	cvarByName = make(map[string]*Cvar)
)

type flag uint64

const (
	// cvar flags bitfield
	NONE    flag = 0
	ARCHIVE flag = 1
	NOTIFY  flag = 1 << 1
	ROM     flag = 1 << 6
	// LATCH values are held back until ApplyLatched, which runs when a
	// world is created.
	LATCH flag = 1 << 7
)

type CallbackFunc func(cv *Cvar)

type Cvar struct {
	name  string
	flags flag
	user  bool
	id    int

	// stringValue is the truth, value the derived one
	stringValue  string
	value        float64
	defaultValue string
	// latched holds a value waiting for ApplyLatched
	latched    string
	hasLatched bool

	callback CallbackFunc
}

func All() []*Cvar {
	return cvarArray
}

func (cv *Cvar) Archive() bool {
	return cv.flags&ARCHIVE != 0
}

func (cv *Cvar) Notify() bool {
	return cv.flags&NOTIFY != 0
}

func (cv *Cvar) Latched() bool {
	return cv.flags&LATCH != 0
}

func (cv *Cvar) UserDefined() bool {
	return cv.user
}

func (cv *Cvar) SetCallback(cb CallbackFunc) {
	cv.callback = cb
}

// SetByString changes the value. Latched cvars only remember it.
func (cv *Cvar) SetByString(s string) {
	if cv.flags&ROM != 0 {
		return
	}
	if cv.Latched() {
		if s == cv.stringValue {
			cv.hasLatched = false
			return
		}
		cv.latched, cv.hasLatched = s, true
		conlog.DPrintf("\"%s\" will be \"%s\" in the next world", cv.name, s)
		return
	}
	cv.set(s)
}

func (cv *Cvar) set(s string) {
	cv.stringValue = s
	cv.value, _ = strconv.ParseFloat(cv.stringValue, 64)
	if cv.Notify() {
		conlog.Printf("\"%s\" changed to \"%s\"", cv.name, s)
	}
	if cv.callback != nil {
		cv.callback(cv)
	}
}

// Pending returns the latched value waiting to be applied.
func (cv *Cvar) Pending() (string, bool) {
	return cv.latched, cv.hasLatched
}

// ApplyLatched makes all held back values current.
func ApplyLatched() {
	for _, cv := range cvarArray {
		if !cv.hasLatched {
			continue
		}
		cv.hasLatched = false
		cv.set(cv.latched)
	}
}

func (cv *Cvar) Reset() {
	cv.SetByString(cv.defaultValue)
}

func (cv *Cvar) String() string {
	return cv.stringValue
}

func (cv *Cvar) ID() int {
	return cv.id
}

func (cv *Cvar) Name() string {
	return cv.name
}

func (cv *Cvar) Value() float64 {
	return cv.value
}

// Fixed returns the value in map units. It is read once per world, never
// inside a tick.
func (cv *Cvar) Fixed() fixed.Fixed {
	return fixed.FromFloat(cv.value)
}

func (cv *Cvar) Int() int {
	return int(cv.value)
}

func (cv *Cvar) SetValue(value float64) {
	if float64(int(value)) == value {
		cv.SetByString(strconv.FormatInt(int64(value), 10))
	} else {
		cv.SetByString(strconv.FormatFloat(value, 'f', -1, 64))
	}
}

func (cv *Cvar) Toggle() {
	if cv.Bool() {
		cv.SetByString("0")
	} else {
		cv.SetByString("1")
	}
}

func (cv *Cvar) Bool() bool {
	return cv.stringValue != "0" && cv.stringValue != ""
}

func Get(name string) (*Cvar, bool) {
	cv, ok := cvarByName[name]
	return cv, ok
}

func GetByID(id int) (*Cvar, error) {
	if id < 0 || id >= len(cvarArray) {
		return nil, errors.Errorf("cvar id %d out of bounds", id)
	}
	return cvarArray[id], nil
}

func create(name, value string, flags flag) *Cvar {
	cv := &Cvar{name: name, defaultValue: value, id: len(cvarArray)}
	cv.set(value)
	cv.flags = flags
	cvarArray = append(cvarArray, cv)
	cvarByName[name] = cv
	return cv
}

func Register(name, value string, flags flag) (*Cvar, error) {
	if _, ok := cvarByName[name]; ok {
		return nil, errors.Errorf("can't register variable %s, already defined", name)
	}
	return create(name, value, flags), nil
}

func MustRegister(n, v string, flag flag) *Cvar {
	cv, err := Register(n, v, flag)
	if err != nil {
		log.Panic(err)
	}
	return cv
}
