// SPDX-License-Identifier: GPL-2.0-or-later

// Package snapshot serializes the simulation state in protobuf wire format
// and checksums it to detect desyncs between peers.
package snapshot

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"
	"google.golang.org/protobuf/encoding/protowire"

	"kartmove/fixed"
	"kartmove/move"
)

// top level fields
const (
	fieldWorld  protowire.Number = 1
	fieldTick   protowire.Number = 2
	fieldActor  protowire.Number = 3
	fieldSector protowire.Number = 4
)

// actor fields
const (
	actorID protowire.Number = iota + 1
	actorKind
	actorX
	actorY
	actorZ
	actorMomX
	actorMomY
	actorMomZ
	actorFlags
	actorEFlags
	actorHealth
	actorFloorZ
	actorCeilingZ
	actorSupport
)

// sector fields
const (
	sectorIndex protowire.Number = iota + 1
	sectorFloor
	sectorCeiling
)

type Actor struct {
	ID               move.ActorID
	Kind             move.Kind
	X, Y, Z          fixed.Fixed
	MomX, MomY, MomZ fixed.Fixed
	Flags            move.Flags
	EFlags           move.EFlags
	Health           int32
	FloorZ, CeilingZ fixed.Fixed
	Support          move.ActorID
}

type Sector struct {
	Index          int
	Floor, Ceiling fixed.Fixed
}

// State is a decoded snapshot.
type State struct {
	World   uuid.UUID
	Tick    uint32
	Actors  []Actor
	Sectors []Sector
}

func appendFixed(b []byte, n protowire.Number, v fixed.Fixed) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, n, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeZigZag(int64(v)))
}

func appendUint(b []byte, n protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, n, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendActor(b []byte, a *move.Actor) []byte {
	b = appendUint(b, actorID, uint64(a.ID()))
	b = appendUint(b, actorKind, uint64(a.Kind))
	b = appendFixed(b, actorX, a.X)
	b = appendFixed(b, actorY, a.Y)
	b = appendFixed(b, actorZ, a.Z)
	b = appendFixed(b, actorMomX, a.MomX)
	b = appendFixed(b, actorMomY, a.MomY)
	b = appendFixed(b, actorMomZ, a.MomZ)
	b = appendUint(b, actorFlags, uint64(a.Flags))
	b = appendUint(b, actorEFlags, uint64(a.EFlags))
	b = appendUint(b, actorHealth, protowire.EncodeZigZag(int64(a.Health)))
	b = appendFixed(b, actorFloorZ, a.FloorZ)
	b = appendFixed(b, actorCeilingZ, a.CeilingZ)
	b = appendUint(b, actorSupport, uint64(a.Support))
	return b
}

// appendBody writes everything that has to match between peers.
func appendBody(b []byte, w *move.World, tick uint32) []byte {
	b = appendUint(b, fieldTick, uint64(tick))
	var msg []byte
	for _, a := range w.Actors() {
		msg = appendActor(msg[:0], a)
		b = protowire.AppendTag(b, fieldActor, protowire.BytesType)
		b = protowire.AppendBytes(b, msg)
	}
	for _, s := range w.Level.Sectors {
		msg = appendUint(msg[:0], sectorIndex, uint64(s.Index)+1)
		msg = appendFixed(msg, sectorFloor, s.FloorHeight)
		msg = appendFixed(msg, sectorCeiling, s.CeilingHeight)
		b = protowire.AppendTag(b, fieldSector, protowire.BytesType)
		b = protowire.AppendBytes(b, msg)
	}
	return b
}

// Encode serializes the world at the given tick. Actors are written in
// spawn order so equal worlds encode to equal bytes.
func Encode(w *move.World, tick uint32) []byte {
	b := protowire.AppendTag(nil, fieldWorld, protowire.BytesType)
	b = protowire.AppendBytes(b, w.ID[:])
	return appendBody(b, w, tick)
}

// Checksum hashes the state of the world without the world id.
func Checksum(w *move.World, tick uint32) uint64 {
	return xxh3.Hash(appendBody(nil, w, tick))
}

// Decode parses a snapshot written by Encode.
func Decode(b []byte) (*State, error) {
	s := &State{}
	err := eachField(b, func(n protowire.Number, v uint64, buf []byte) error {
		switch n {
		case fieldWorld:
			id, err := uuid.FromBytes(buf)
			if err != nil {
				return errors.Wrap(err, "world id")
			}
			s.World = id
		case fieldTick:
			s.Tick = uint32(v)
		case fieldActor:
			a, err := decodeActor(buf)
			if err != nil {
				return errors.Wrapf(err, "actor %d", len(s.Actors))
			}
			s.Actors = append(s.Actors, a)
		case fieldSector:
			sec, err := decodeSector(buf)
			if err != nil {
				return errors.Wrapf(err, "sector %d", len(s.Sectors))
			}
			s.Sectors = append(s.Sectors, sec)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decoding snapshot")
	}
	return s, nil
}

func unfix(v uint64) fixed.Fixed {
	return fixed.Fixed(protowire.DecodeZigZag(v))
}

func decodeActor(b []byte) (Actor, error) {
	var a Actor
	err := eachField(b, func(n protowire.Number, v uint64, _ []byte) error {
		switch n {
		case actorID:
			a.ID = move.ActorID(v)
		case actorKind:
			a.Kind = move.Kind(v)
		case actorX:
			a.X = unfix(v)
		case actorY:
			a.Y = unfix(v)
		case actorZ:
			a.Z = unfix(v)
		case actorMomX:
			a.MomX = unfix(v)
		case actorMomY:
			a.MomY = unfix(v)
		case actorMomZ:
			a.MomZ = unfix(v)
		case actorFlags:
			a.Flags = move.Flags(v)
		case actorEFlags:
			a.EFlags = move.EFlags(v)
		case actorHealth:
			a.Health = int32(protowire.DecodeZigZag(v))
		case actorFloorZ:
			a.FloorZ = unfix(v)
		case actorCeilingZ:
			a.CeilingZ = unfix(v)
		case actorSupport:
			a.Support = move.ActorID(v)
		}
		return nil
	})
	return a, err
}

func decodeSector(b []byte) (Sector, error) {
	var s Sector
	err := eachField(b, func(n protowire.Number, v uint64, _ []byte) error {
		switch n {
		case sectorIndex:
			s.Index = int(v) - 1
		case sectorFloor:
			s.Floor = unfix(v)
		case sectorCeiling:
			s.Ceiling = unfix(v)
		}
		return nil
	})
	return s, err
}

// eachField walks the fields of a message. Varints arrive in v, length
// delimited fields in buf. Other wire types are skipped.
func eachField(b []byte, f func(n protowire.Number, v uint64, buf []byte) error) error {
	for len(b) > 0 {
		n, typ, l := protowire.ConsumeTag(b)
		if l < 0 {
			return protowire.ParseError(l)
		}
		b = b[l:]
		var v uint64
		var buf []byte
		switch typ {
		case protowire.VarintType:
			v, l = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			buf, l = protowire.ConsumeBytes(b)
		default:
			l = protowire.ConsumeFieldValue(n, typ, b)
		}
		if l < 0 {
			return protowire.ParseError(l)
		}
		b = b[l:]
		if err := f(n, v, buf); err != nil {
			return err
		}
	}
	return nil
}
