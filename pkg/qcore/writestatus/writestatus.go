// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package writestatus defines the closed write-status taxonomy (spec
// §4.8): OK/RETRY/REJECTED/ERROR, with singleton instances for the
// message-less variants and immutable message-carrying instances for the
// rest. Grounded on the teacher's AssignAggregationStrategy small closed
// enum (pkg/metricstore/config.go).
package writestatus

// Kind is the closed set of write-status classifications. Retryable vs.
// rejected classification is carried here; actual storage-side retries
// are outside this core's concern.
type Kind int

const (
	OK Kind = iota
	RETRY
	REJECTED
	ERROR
)

func (k Kind) String() string {
	switch k {
	case OK:
		return "OK"
	case RETRY:
		return "RETRY"
	case REJECTED:
		return "REJECTED"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Status is an immutable write-status value: a Kind plus an optional
// message and cause.
type Status struct {
	kind    Kind
	message string
	cause   error
}

// Singleton message-less instances, matching the teacher's pattern of a
// package-level zero-config default for the common case.
var (
	StatusOK       = Status{kind: OK}
	StatusRetry    = Status{kind: RETRY}
	StatusRejected = Status{kind: REJECTED}
	StatusError    = Status{kind: ERROR}
)

// WithMessage returns a new immutable Status carrying msg, same Kind.
func WithMessage(kind Kind, msg string) Status {
	return Status{kind: kind, message: msg}
}

// WithCause returns a new immutable Status carrying msg and cause.
func WithCause(kind Kind, msg string, cause error) Status {
	return Status{kind: kind, message: msg, cause: cause}
}

// Kind returns the status's classification.
func (s Status) Kind() Kind { return s.kind }

// Message returns the status's message, empty if none was set.
func (s Status) Message() string { return s.message }

// Cause returns the wrapped error, nil if none was set.
func (s Status) Cause() error { return s.cause }

// Retryable reports whether a writer should retry the operation.
func (s Status) Retryable() bool { return s.kind == RETRY }

// Error implements the error interface so a Status can be returned or
// wrapped directly where an error is expected.
func (s Status) Error() string {
	if s.message == "" {
		return s.kind.String()
	}
	if s.cause != nil {
		return s.kind.String() + ": " + s.message + ": " + s.cause.Error()
	}
	return s.kind.String() + ": " + s.message
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (s Status) Unwrap() error { return s.cause }
