// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterator

import "testing"

func TestRegistryDispatchesByType(t *testing.T) {
	r := NewRegistry()
	r.Register(TypeNumeric, func(sources []any) (any, error) { return "scalar", nil })
	r.Register(TypeNumericArray, func(sources []any) (any, error) { return "array", nil })

	got, err := r.NewIterator(TypeNumeric, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "scalar" {
		t.Errorf("NewIterator(TypeNumeric) = %v, want scalar", got)
	}
}

func TestRegistryUnregisteredTypeErrors(t *testing.T) {
	r := NewRegistry()
	if _, err := r.NewIterator(TypeNumericSummary, nil); err == nil {
		t.Error("expected an error for an unregistered data type")
	}
}
