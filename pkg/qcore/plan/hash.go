// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package plan

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Hasher accumulates a deterministic, non-cryptographic fingerprint over
// plan config fields (spec §6): enum ordinals and UTF-8 strings written in
// a fixed, length-prefixed framing, grounded on binaryCheckpoint.go's own
// length-prefixed string encoding.
type Hasher struct {
	d *xxhash.Digest
}

// NewHasher returns an empty Hasher.
func NewHasher() *Hasher { return &Hasher{d: xxhash.New()} }

// WriteEnum writes a 4-byte big-endian enum ordinal.
func (h *Hasher) WriteEnum(ordinal int32) *Hasher {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(ordinal))
	h.d.Write(b[:])
	return h
}

// WriteInt64 writes an 8-byte big-endian integer field.
func (h *Hasher) WriteInt64(v int64) *Hasher {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	h.d.Write(b[:])
	return h
}

// WriteBool writes a single 0/1 byte.
func (h *Hasher) WriteBool(v bool) *Hasher {
	if v {
		h.d.Write([]byte{1})
	} else {
		h.d.Write([]byte{0})
	}
	return h
}

// WriteString writes a 4-byte big-endian length prefix followed by the
// UTF-8 bytes of s.
func (h *Hasher) WriteString(s string) *Hasher {
	var lb [4]byte
	binary.BigEndian.PutUint32(lb[:], uint32(len(s)))
	h.d.Write(lb[:])
	h.d.Write([]byte(s))
	return h
}

// Sum returns the accumulated 64-bit fingerprint.
func (h *Hasher) Sum() uint64 { return h.d.Sum64() }

// CacheKey formats a plan fingerprint and per-segment base times into the
// hash-tag bracket form described in spec §6: a prefix, then inside
// `{…}` the interval, the fields hash in hex, and one base-time component
// per data segment, all colon-separated (so cluster routing hashes the
// whole bracketed segment).
func CacheKey(prefix string, intervalSeconds int64, fieldsHash uint64, baseTimes []uint32) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	fmt.Fprintf(&sb, "{%d:%x", intervalSeconds, fieldsHash)
	for _, bt := range baseTimes {
		fmt.Fprintf(&sb, ":%d", bt)
	}
	sb.WriteByte('}')
	return sb.String()
}
