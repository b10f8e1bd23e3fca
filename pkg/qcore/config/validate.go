// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config validates the recognized plan configuration enums (spec
// §6: FillPolicy, FillWithRealPolicy, MergeMode, OperandType, RollupUsage)
// against a packaged JSON schema before a plan is accepted. Grounded on
// the teacher's pkg/schema.Validate (embedded schema + santhosh-tekuri/
// jsonschema/v5, registered under an "embedFS://" loader).
package config

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*
var schemaFiles embed.FS

func loadSchema(s string) (io.ReadCloser, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	return schemaFiles.Open(u.Path)
}

var registerLoader sync.Once

const planConfigSchemaURL = "embedFS://schemas/plan-config.schema.json"

// ValidatePlanConfig checks raw (a JSON document naming any subset of
// fill_policy/fill_with_real_policy/merge_mode/operand_type/rollup_usage)
// against the packaged plan-config schema, rejecting unrecognized enum
// values or unknown fields before a plan is built.
func ValidatePlanConfig(raw io.Reader) error {
	registerLoader.Do(func() {
		jsonschema.Loaders["embedFS"] = loadSchema
	})

	s, err := jsonschema.Compile(planConfigSchemaURL)
	if err != nil {
		return fmt.Errorf("config: compile plan-config schema: %w", err)
	}

	var v any
	if err := json.NewDecoder(raw).Decode(&v); err != nil {
		return fmt.Errorf("config: decode plan config: %w", err)
	}

	if err := s.Validate(v); err != nil {
		return fmt.Errorf("config: invalid plan config: %w", err)
	}
	return nil
}
