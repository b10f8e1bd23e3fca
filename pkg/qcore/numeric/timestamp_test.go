// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package numeric

import "testing"

func TestUnixAndUnixMilli(t *testing.T) {
	sec := Unix(100)
	if sec.Seconds != 100 || sec.Nanos != 0 || sec.MS {
		t.Errorf("Unix(100) = %+v, want Seconds=100 Nanos=0 MS=false", sec)
	}

	ms := UnixMilli(1500)
	if ms.Seconds != 1 || ms.Nanos != 500e6 || !ms.MS {
		t.Errorf("UnixMilli(1500) = %+v, want Seconds=1 Nanos=5e8 MS=true", ms)
	}
}

func TestTimeStampOrdering(t *testing.T) {
	a := Unix(10)
	b := Unix(20)
	if !a.Before(b) || b.Before(a) {
		t.Error("expected Unix(10) strictly before Unix(20)")
	}
	if !b.After(a) || a.After(b) {
		t.Error("expected Unix(20) strictly after Unix(10)")
	}
	if a.Equal(b) {
		t.Error("expected Unix(10) != Unix(20)")
	}
	if !a.Equal(Unix(10)) {
		t.Error("expected Unix(10) == Unix(10)")
	}
}

func TestTimeStampOrderingSubSecond(t *testing.T) {
	a := UnixMilli(1000) // 1s, 0ns
	b := UnixMilli(1500) // 1s, 5e8ns
	if !a.Before(b) {
		t.Error("expected 1.000s before 1.500s when the Seconds fields are equal")
	}
}

func TestTimeStampCompare(t *testing.T) {
	cases := []struct {
		a, b TimeStamp
		want int
	}{
		{Unix(5), Unix(10), -1},
		{Unix(10), Unix(5), 1},
		{Unix(7), Unix(7), 0},
	}
	for _, c := range cases {
		if got := c.a.Compare(c.b); got != c.want {
			t.Errorf("Compare(%+v, %+v) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestUnixNanos(t *testing.T) {
	ts := TimeStamp{Seconds: 2, Nanos: 500}
	if got, want := ts.UnixNanos(), int64(2*1e9+500); got != want {
		t.Errorf("UnixNanos() = %d, want %d", got, want)
	}
}

func TestTimeStampCloneIndependence(t *testing.T) {
	orig := Unix(42)
	clone := orig.Clone()
	if clone != orig {
		t.Fatalf("Clone() = %+v, want identical copy %+v", clone, orig)
	}
	orig.Seconds = 99
	if clone.Seconds != 42 {
		t.Errorf("clone.Seconds = %d after mutating orig, want 42 (independent copy)", clone.Seconds)
	}
}
