// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errs defines the closed set of error kinds raised across
// stage boundaries, per spec §7. Per-contig anomalies are not
// represented here; they are written to the ledger instead.
package errs

import "fmt"

// Kind identifies which of the fatal, stage-boundary error categories
// an error belongs to.
type Kind uint8

const (
	// InputShape is a malformed PAF or distance row, or a record
	// missing its alignment score.
	InputShape Kind = iota
	// InputConsistency is a contig id referenced by PAF or distance
	// input that is absent from the FASTA index.
	InputConsistency
	// ConfigInvalid is an out-of-range or contradictory option.
	ConfigInvalid
	// EstimatorDegenerate is C5 failing to find a threshold when the
	// caller did not supply one.
	EstimatorDegenerate
	// IterationExhausted is MAX_ITERS being hit in C6 or orphan
	// rescue. Callers may choose to treat this as a warning and
	// continue; the type exists so that decision is explicit.
	IterationExhausted
	// InternalInvariant should only ever fire on an implementation
	// bug: a double ledger write, or a verdict regression.
	InternalInvariant
)

func (k Kind) String() string {
	switch k {
	case InputShape:
		return "InputShape"
	case InputConsistency:
		return "InputConsistency"
	case ConfigInvalid:
		return "ConfigInvalid"
	case EstimatorDegenerate:
		return "EstimatorDegenerate"
	case IterationExhausted:
		return "IterationExhausted"
	case InternalInvariant:
		return "InternalInvariant"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Error wraps a Kind with a message and an optional underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an *Error of the given kind.
func New(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// Wrap returns an *Error of the given kind wrapping err.
func Wrap(k Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Is reports whether err is an *Error of kind k.
func Is(err error, k Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == k
}
