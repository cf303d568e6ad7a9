package aci

import (
	"errors"
	"fmt"
)

// SkipReason says why the parser left a construct out of the policy.
type SkipReason int

const (
	SkipNegatedTarget SkipReason = iota + 1
	SkipComparison
	SkipNegatedGroup
	SkipMixedCombinators
	SkipUnknownPermission
	SkipUnrecognized
	SkipDuplicateTarget
	SkipExtraRule
)

func (r SkipReason) String() string {
	switch r {
	case SkipNegatedTarget:
		return "negated target"
	case SkipComparison:
		return "comparison bind rule"
	case SkipNegatedGroup:
		return "negated group"
	case SkipMixedCombinators:
		return "mixed and/or"
	case SkipUnknownPermission:
		return "unknown permission"
	case SkipUnrecognized:
		return "unrecognized clause"
	case SkipDuplicateTarget:
		return "duplicate target"
	case SkipExtraRule:
		return "additional permission rule"
	default:
		return "unknown"
	}
}

// Skip is a construct that was consumed but has no place in a Policy.
type Skip struct {
	Reason SkipReason
	// Text is the construct as written; Pos its byte offset in the input.
	Text string
	Pos  int
}

// ParseReport lists what a parse left out. Building a policy from an
// incomplete parse yields a directive with a different meaning.
type ParseReport struct {
	Skipped []Skip
}

// Complete reports whether every construct of the text is represented.
func (r ParseReport) Complete() bool {
	return len(r.Skipped) == 0
}

// Err returns an *UnrepresentableError when the parse was not complete.
func (r ParseReport) Err() error {
	if r.Complete() {
		return nil
	}
	return &UnrepresentableError{Skipped: append([]Skip(nil), r.Skipped...)}
}

// ErrUnrepresentable is matched by UnrepresentableError via errors.Is.
var ErrUnrepresentable = errors.New("aci: text cannot be represented")

// UnrepresentableError is returned when rewriting text would drop or alter
// parts of it.
type UnrepresentableError struct {
	Skipped []Skip
}

func (e *UnrepresentableError) Error() string {
	if len(e.Skipped) == 0 {
		return ErrUnrepresentable.Error()
	}
	first := e.Skipped[0]
	msg := fmt.Sprintf("aci: cannot represent %s %q at offset %d", first.Reason, first.Text, first.Pos)
	if n := len(e.Skipped) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}
	return msg
}

func (e *UnrepresentableError) Is(target error) bool {
	return target == ErrUnrepresentable
}
