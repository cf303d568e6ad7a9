package aci

import (
	"errors"
	"fmt"
	"strings"
)

// FailureKind names the check a policy fails.
type FailureKind int

const (
	MissingName FailureKind = iota + 1
	MissingEffect
	MissingPermissions
	MissingTarget
	MissingBindCondition
	DuplicateTarget
)

func (k FailureKind) String() string {
	switch k {
	case MissingName:
		return "missing name"
	case MissingEffect:
		return "missing effect"
	case MissingPermissions:
		return "missing permissions"
	case MissingTarget:
		return "missing target"
	case MissingBindCondition:
		return "missing bind condition"
	case DuplicateTarget:
		return "duplicate target"
	default:
		return "unknown"
	}
}

// Sentinel errors matched by ValidationFailure via errors.Is.
var (
	ErrMissingName          = errors.New("aci: missing name")
	ErrMissingEffect        = errors.New("aci: missing effect")
	ErrMissingPermissions   = errors.New("aci: missing permissions")
	ErrMissingTarget        = errors.New("aci: missing target")
	ErrMissingBindCondition = errors.New("aci: missing bind condition")
	ErrDuplicateTarget      = errors.New("aci: duplicate target")
)

func (k FailureKind) sentinel() error {
	switch k {
	case MissingName:
		return ErrMissingName
	case MissingEffect:
		return ErrMissingEffect
	case MissingPermissions:
		return ErrMissingPermissions
	case MissingTarget:
		return ErrMissingTarget
	case MissingBindCondition:
		return ErrMissingBindCondition
	case DuplicateTarget:
		return ErrDuplicateTarget
	default:
		return nil
	}
}

// ValidationFailure reports why a policy cannot be turned into a directive.
type ValidationFailure struct {
	Kind FailureKind
}

func (f *ValidationFailure) Error() string {
	return fmt.Sprintf("aci: invalid policy: %s", f.Kind)
}

// Is matches the sentinel error of the failure kind.
func (f *ValidationFailure) Is(target error) bool {
	s := f.Kind.sentinel()
	return s != nil && s == target
}

// Problems lists every check the policy fails, in check order.
func Problems(p Policy) []FailureKind {
	var out []FailureKind
	if strings.TrimSpace(p.Name) == "" {
		out = append(out, MissingName)
	}
	if p.Effect != Allow && p.Effect != Deny {
		out = append(out, MissingEffect)
	}
	if len(p.Permissions) == 0 {
		out = append(out, MissingPermissions)
	}
	if !hasTarget(p) {
		out = append(out, MissingTarget)
	}
	if len(p.Bind.Active()) == 0 {
		out = append(out, MissingBindCondition)
	}
	if hasDuplicateTarget(p) {
		out = append(out, DuplicateTarget)
	}
	return out
}

// Validate returns a *ValidationFailure for the first failed check, or nil.
func Validate(p Policy) error {
	if problems := Problems(p); len(problems) > 0 {
		return &ValidationFailure{Kind: problems[0]}
	}
	return nil
}

// IsValid reports whether the policy has everything a directory server needs.
func IsValid(p Policy) bool {
	return len(Problems(p)) == 0
}

func hasTarget(p Policy) bool {
	for _, t := range p.Targets {
		if !t.IsEmpty() {
			return true
		}
	}
	return false
}

// hasDuplicateTarget reports two non-empty clauses of one kind, which the
// parser would collapse into the first.
func hasDuplicateTarget(p Policy) bool {
	seen := make(map[TargetKind]bool, len(p.Targets))
	for _, t := range p.Targets {
		if t.IsEmpty() {
			continue
		}
		if seen[t.Kind] {
			return true
		}
		seen[t.Kind] = true
	}
	return false
}
