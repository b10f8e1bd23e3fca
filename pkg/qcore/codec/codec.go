// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package codec implements the wide-column row codec: bit-packed
// qualifier/value pairs concatenated into a single cell value, in second,
// millisecond and nanosecond resolutions.
//
// Framing (spec §6):
//
//	high bits of qualifier byte 0:
//	  0x00-0x0F: 2-byte second qualifier.    payload = (offset)<<4 | flags, offset < 256 s
//	  0x80 set:  4-byte millisecond qualifier. payload = (22-bit offset)<<4 | flags
//	  0x40 set:  8-byte nanosecond qualifier.  payload = offset in nanoseconds
//
// flags (low 4 bits of the qualifier's last byte): bit3 = is_float,
// bits0-2 = value_length_bytes-1. Values serialize big-endian: signed
// integers of length 1/2/4/8 bytes, or IEEE-754 floats of length 4/8.
//
// Grounded on the teacher's binaryCheckpoint.go: explicit encoding/binary,
// little... (here big-endian per the wire format), header/body framing,
// and per-offset error reporting in the same spirit as its length-prefixed
// string framing.
package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/clustercockpit-labs/qcore/pkg/qcore/numeric"
)

const (
	nsByteFlag = 0x40
	msByteFlag = 0x80
)

// CodecError carries the byte offset at which decoding failed, per spec §4.1.
type CodecError struct {
	Offset int
	Reason string
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("codec: %s at byte offset %d", e.Reason, e.Offset)
}

func newCodecError(offset int, reason string) error {
	return &CodecError{Offset: offset, Reason: reason}
}

// Resolution identifies which qualifier width encoded a point.
type Resolution int

const (
	ResolutionSecond Resolution = iota
	ResolutionMillisecond
	ResolutionNanosecond
)

// Point is one decoded (timestamp-offset, value) pair from a row.
type Point struct {
	OffsetNanos int64
	Value       numeric.Numeric
	Resolution  Resolution
}

// flags packs is_float and value length into the qualifier's low 4 bits.
func packFlags(isFloat bool, valueLen int) byte {
	var f byte
	if isFloat {
		f |= 0x08
	}
	f |= byte(valueLen-1) & 0x07
	return f
}

func unpackFlags(f byte) (isFloat bool, valueLen int) {
	isFloat = f&0x08 != 0
	valueLen = int(f&0x07) + 1
	return
}

// valueLength picks the minimal serialization width for v: integers use
// the smallest of 1/2/4/8 bytes that can hold the value; doubles use 8
// bytes unless the value round-trips through float32 (4 bytes).
func valueLength(v numeric.Numeric) int {
	if v.IsFloat() {
		f := v.Float()
		if math.IsNaN(f) {
			return 8
		}
		if float64(float32(f)) == f {
			return 4
		}
		return 8
	}
	i := v.Int()
	switch {
	case i >= -(1<<7) && i < (1<<7):
		return 1
	case i >= -(1<<15) && i < (1<<15):
		return 2
	case i >= -(1<<31) && i < (1<<31):
		return 4
	default:
		return 8
	}
}

// EncodePoint appends the qualifier+value pair for one point, relative to
// base, to buf. It chooses the minimal qualifier width: second if the
// offset divides 1e9 and is below 256 s (so qualifier byte 0 stays in
// 0x00-0x0F, the range DecodeAt reads as a second qualifier), millisecond
// if it divides 1e6 and fits 22 bits, else nanosecond.
func EncodePoint(base numeric.TimeStamp, ts numeric.TimeStamp, v numeric.Numeric, buf []byte) ([]byte, error) {
	offsetNs := (ts.Seconds-base.Seconds)*1e9 + int64(ts.Nanos-base.Nanos)
	if offsetNs < 0 {
		return nil, newCodecError(len(buf), "negative offset from base timestamp")
	}

	vlen := valueLength(v)
	flags := packFlags(v.IsFloat(), vlen)

	switch {
	case offsetNs%1e9 == 0 && offsetNs/1e9 < (1<<8):
		offsetSec := uint16(offsetNs / 1e9)
		payload := (offsetSec << 4) | uint16(flags)
		var qb [2]byte
		binary.BigEndian.PutUint16(qb[:], payload)
		buf = append(buf, qb[:]...)
	case offsetNs%1e6 == 0 && offsetNs/1e6 < (1<<22):
		offsetMs := uint32(offsetNs / 1e6)
		payload := (offsetMs << 4) | uint32(flags)
		payload |= msByteFlag << 24
		var qb [4]byte
		binary.BigEndian.PutUint32(qb[:], payload)
		buf = append(buf, qb[:]...)
	default:
		raw := (uint64(offsetNs) << 4) | uint64(flags)
		raw |= uint64(nsByteFlag) << 56
		var qb [8]byte
		binary.BigEndian.PutUint64(qb[:], raw)
		buf = append(buf, qb[:]...)
	}

	buf = appendValue(buf, v, vlen)
	return buf, nil
}

func appendValue(buf []byte, v numeric.Numeric, vlen int) []byte {
	if v.IsFloat() {
		if vlen == 4 {
			var b [4]byte
			binary.BigEndian.PutUint32(b[:], math.Float32bits(float32(v.Float())))
			return append(buf, b[:]...)
		}
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], math.Float64bits(v.Float()))
		return append(buf, b[:]...)
	}

	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v.Int()))
	return append(buf, b[len(b)-vlen:]...)
}

func parseValue(data []byte, offset int, isFloat bool, vlen int) (numeric.Numeric, error) {
	if offset+vlen > len(data) {
		return numeric.Numeric{}, newCodecError(offset, "truncated value")
	}
	raw := data[offset : offset+vlen]
	if isFloat {
		switch vlen {
		case 4:
			bits := binary.BigEndian.Uint32(raw)
			return numeric.NewFloat(float64(math.Float32frombits(bits))), nil
		case 8:
			bits := binary.BigEndian.Uint64(raw)
			return numeric.NewFloat(math.Float64frombits(bits)), nil
		default:
			return numeric.Numeric{}, newCodecError(offset, "invalid float value length")
		}
	}

	var buf [8]byte
	// Sign-extend into the high bytes before interpreting as int64.
	if raw[0]&0x80 != 0 {
		for i := range buf {
			buf[i] = 0xFF
		}
	}
	copy(buf[8-vlen:], raw)
	return numeric.NewInt(int64(binary.BigEndian.Uint64(buf[:]))), nil
}

// DecodeAt decodes a single qualifier/value pair starting at byteOffset
// within data, returning the point and the offset of the byte following
// the value (the span cursor's next byteIdx).
func DecodeAt(data []byte, byteOffset int) (Point, int, error) {
	if byteOffset >= len(data) {
		return Point{}, 0, newCodecError(byteOffset, "cursor past end of row")
	}

	first := data[byteOffset]
	switch {
	case first&nsByteFlag != 0:
		if byteOffset+8 > len(data) {
			return Point{}, 0, newCodecError(byteOffset, "truncated nanosecond qualifier")
		}
		raw := binary.BigEndian.Uint64(data[byteOffset : byteOffset+8])
		flags := byte(raw & 0x0F)
		maskedRaw := raw &^ (uint64(nsByteFlag) << 56)
		offsetNs := int64(maskedRaw >> 4)
		isFloat, vlen := unpackFlags(flags)
		v, err := parseValue(data, byteOffset+8, isFloat, vlen)
		if err != nil {
			return Point{}, 0, err
		}
		return Point{OffsetNanos: offsetNs, Value: v, Resolution: ResolutionNanosecond}, byteOffset + 8 + vlen, nil

	case first&msByteFlag != 0:
		if byteOffset+4 > len(data) {
			return Point{}, 0, newCodecError(byteOffset, "truncated millisecond qualifier")
		}
		payload := binary.BigEndian.Uint32(data[byteOffset : byteOffset+4])
		payload &^= msByteFlag << 24
		flags := byte(payload & 0x0F)
		offsetMs := payload >> 4
		isFloat, vlen := unpackFlags(flags)
		v, err := parseValue(data, byteOffset+4, isFloat, vlen)
		if err != nil {
			return Point{}, 0, err
		}
		return Point{OffsetNanos: int64(offsetMs) * 1e6, Value: v, Resolution: ResolutionMillisecond}, byteOffset + 4 + vlen, nil

	default:
		if first&0xF0 != 0 {
			return Point{}, 0, newCodecError(byteOffset, "reserved high bits set in second qualifier")
		}
		if byteOffset+2 > len(data) {
			return Point{}, 0, newCodecError(byteOffset, "truncated second qualifier")
		}
		payload := binary.BigEndian.Uint16(data[byteOffset : byteOffset+2])
		flags := byte(payload & 0x0F)
		offsetSec := payload >> 4
		isFloat, vlen := unpackFlags(flags)
		v, err := parseValue(data, byteOffset+2, isFloat, vlen)
		if err != nil {
			return Point{}, 0, err
		}
		return Point{OffsetNanos: int64(offsetSec) * 1e9, Value: v, Resolution: ResolutionSecond}, byteOffset + 2 + vlen, nil
	}
}

// Decode walks an entire row's data relative to a base timestamp (seconds),
// returning every point in ascending-qualifier order.
func Decode(baseSec int64, data []byte) ([]Point, error) {
	points := make([]Point, 0, len(data)/4)
	off := 0
	for off < len(data) {
		p, next, err := DecodeAt(data, off)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
		off = next
	}
	return points, nil
}
