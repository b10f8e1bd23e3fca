// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package plan

import "testing"

func TestHasherDeterministic(t *testing.T) {
	build := func() uint64 {
		return NewHasher().WriteEnum(3).WriteString("cpu_load").WriteInt64(60).WriteBool(true).Sum()
	}
	if build() != build() {
		t.Error("expected identical field sequences to hash identically")
	}
}

func TestHasherDistinguishesFields(t *testing.T) {
	h1 := NewHasher().WriteString("cpu_load").Sum()
	h2 := NewHasher().WriteString("mem_used").Sum()
	if h1 == h2 {
		t.Error("expected distinct strings to produce distinct hashes")
	}
}

func TestHasherStringFramingAvoidsConcatenationCollision(t *testing.T) {
	// Without a length prefix, WriteString("ab").WriteString("c") would
	// collide with WriteString("a").WriteString("bc").
	h1 := NewHasher().WriteString("ab").WriteString("c").Sum()
	h2 := NewHasher().WriteString("a").WriteString("bc").Sum()
	if h1 == h2 {
		t.Error("expected length-prefixed framing to avoid concatenation collisions")
	}
}

func TestCacheKeyFormat(t *testing.T) {
	key := CacheKey("metric:", 3600, 0xdeadbeef, []uint32{100, 200})
	want := "metric:{3600:deadbeef:100:200}"
	if key != want {
		t.Errorf("CacheKey = %q, want %q", key, want)
	}
}
