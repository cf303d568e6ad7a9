// Copyright (C) 2026 Ioannis Torakis <john.torakis@gmail.com>
// SPDX-License-Identifier: Elastic-2.0
//
// Licensed under the Elastic License 2.0.
// You may obtain a copy of the license at:
// https://www.elastic.co/licensing/elastic-license
//
// Use, modification, and redistribution permitted under the terms of the license,
// except for providing this software as a commercial service or product.

package aci

import (
	"slices"
	"strings"
)

// Effect is the outcome an ACI applies to its permissions.
type Effect int

const (
	EffectUnset Effect = iota
	Allow
	Deny
)

func (e Effect) String() string {
	switch e {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return ""
	}
}

// ParseEffect converts "allow" or "deny" (any case) into an Effect.
func ParseEffect(s string) (Effect, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "allow":
		return Allow, true
	case "deny":
		return Deny, true
	default:
		return EffectUnset, false
	}
}

// Combinator joins the bind conditions of an ACI.
type Combinator int

const (
	And Combinator = iota
	Or
)

func (c Combinator) String() string {
	if c == Or {
		return "or"
	}
	return "and"
}

// ParseCombinator converts "and" or "or" (any case) into a Combinator.
func ParseCombinator(s string) (Combinator, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "and":
		return And, true
	case "or":
		return Or, true
	default:
		return And, false
	}
}

// TargetClause restricts what an ACI applies to.
//
// TargetAttr clauses keep their attribute names in Attributes; every other kind
// keeps its raw value in Value.
type TargetClause struct {
	Kind       TargetKind
	Value      string
	Attributes []string
}

// NewTarget returns a clause of the given kind. A TargetAttr value is split on "||".
func NewTarget(kind TargetKind, value string) TargetClause {
	if kind == TargetAttr {
		return NewTargetAttr(splitAttributes(value)...)
	}
	return TargetClause{Kind: kind, Value: value}
}

// NewTargetAttr returns a targetattr clause for the given attribute names.
func NewTargetAttr(attrs ...string) TargetClause {
	out := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return TargetClause{Kind: TargetAttr, Attributes: out}
}

// Text returns the clause value as it appears between the quotes, without the
// ldap:/// prefix of a target DN.
func (t TargetClause) Text() string {
	if t.Kind == TargetAttr {
		return strings.Join(t.Attributes, "||")
	}
	return t.Value
}

// IsEmpty reports whether the clause carries no value. Empty clauses are never serialized.
func (t TargetClause) IsEmpty() bool {
	if t.Kind == TargetAttr {
		for _, a := range t.Attributes {
			if strings.TrimSpace(a) != "" {
				return false
			}
		}
		return true
	}
	return strings.TrimSpace(t.Value) == ""
}

func (t TargetClause) clone() TargetClause {
	if t.Attributes != nil {
		t.Attributes = append([]string(nil), t.Attributes...)
	}
	return t
}

func splitAttributes(value string) []string {
	parts := strings.Split(value, "||")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// BindCondition is one predicate about the requester.
// DN kinds hold their value without the ldap:/// prefix.
type BindCondition struct {
	Kind    BindKind
	Value   string
	Negated bool
}

// IsEmpty reports whether the condition has no value and must be dropped.
func (b BindCondition) IsEmpty() bool {
	return strings.TrimSpace(b.Value) == ""
}

// BindExpression is a flat list of conditions joined by one combinator.
type BindExpression struct {
	Conditions []BindCondition
	Combinator Combinator
}

// Active returns the conditions that carry a value.
func (e BindExpression) Active() []BindCondition {
	out := make([]BindCondition, 0, len(e.Conditions))
	for _, c := range e.Conditions {
		if !c.IsEmpty() {
			out = append(out, c)
		}
	}
	return out
}

// Policy is the structured form of a single ACI.
type Policy struct {
	Name        string
	Targets     []TargetClause
	Effect      Effect
	Permissions Permissions
	Bind        BindExpression

	// RawText is the text the policy was parsed from, if any.
	RawText string
}

// Clone returns a deep copy of the policy.
func (p Policy) Clone() Policy {
	out := p
	if p.Targets != nil {
		out.Targets = make([]TargetClause, len(p.Targets))
		for i, t := range p.Targets {
			out.Targets[i] = t.clone()
		}
	}
	if p.Permissions != nil {
		out.Permissions = append(Permissions(nil), p.Permissions...)
	}
	if p.Bind.Conditions != nil {
		out.Bind.Conditions = append([]BindCondition(nil), p.Bind.Conditions...)
	}
	return out
}

// WithName returns a copy of the policy with the given name.
func (p Policy) WithName(name string) Policy {
	out := p.Clone()
	out.Name = name
	return out
}

// WithEffect returns a copy of the policy with the given effect.
func (p Policy) WithEffect(effect Effect) Policy {
	out := p.Clone()
	out.Effect = effect
	return out
}

// WithPermissions returns a copy of the policy with the permissions added.
func (p Policy) WithPermissions(perms ...Permission) Policy {
	out := p.Clone()
	for _, perm := range perms {
		out.Permissions = out.Permissions.Add(perm)
	}
	return out
}

// WithTarget returns a copy of the policy with the clause added. A policy
// holds one clause per kind: targetattr attributes are merged into the
// existing clause, any other kind replaces the existing clause in place.
func (p Policy) WithTarget(clause TargetClause) Policy {
	out := p.Clone()
	for i, existing := range out.Targets {
		if existing.Kind != clause.Kind {
			continue
		}
		if clause.Kind == TargetAttr {
			for _, a := range clause.Attributes {
				if !slices.Contains(existing.Attributes, a) {
					existing.Attributes = append(existing.Attributes, a)
				}
			}
			out.Targets[i] = existing
		} else {
			out.Targets[i] = clause.clone()
		}
		return out
	}
	out.Targets = append(out.Targets, clause.clone())
	return out
}

// WithCondition returns a copy of the policy with the condition appended.
func (p Policy) WithCondition(cond BindCondition) Policy {
	out := p.Clone()
	out.Bind.Conditions = append(out.Bind.Conditions, cond)
	return out
}

// WithCombinator returns a copy of the policy using the given combinator.
func (p Policy) WithCombinator(c Combinator) Policy {
	out := p.Clone()
	out.Bind.Combinator = c
	return out
}

// Target returns the first clause of the given kind.
func (p Policy) Target(kind TargetKind) (TargetClause, bool) {
	for _, t := range p.Targets {
		if t.Kind == kind {
			return t, true
		}
	}
	return TargetClause{}, false
}

// Conditions returns every condition of the given kind, in order.
func (p Policy) Conditions(kind BindKind) []BindCondition {
	var out []BindCondition
	for _, c := range p.Bind.Conditions {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}
