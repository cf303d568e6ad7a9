// Copyright (C) 2026 Ioannis Torakis <john.torakis@gmail.com>
// SPDX-License-Identifier: Elastic-2.0
//
// Licensed under the Elastic License 2.0.
// You may obtain a copy of the license at:
// https://www.elastic.co/licensing/elastic-license
//
// Use, modification, and redistribution permitted under the terms of the license,
// except for providing this software as a commercial service or product.

package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gateplane-io/aci-cli/pkg/aci"
	projecterrors "github.com/gateplane-io/aci-cli/pkg/errors"
)

// PolicyDocument is the file form of an ACI policy (YAML, JSON or HCL).
type PolicyDocument struct {
	Name        string              `hcl:"name,optional" json:"name" yaml:"name" jsonschema:"description=Human readable ACI label"`
	Effect      string              `hcl:"effect,optional" json:"effect" yaml:"effect" validate:"omitempty,oneof=allow deny" jsonschema:"enum=allow,enum=deny"`
	Permissions []string            `hcl:"permissions,optional" json:"permissions" yaml:"permissions" validate:"dive,oneof=read search compare write selfwrite add delete import export proxy all"`
	Combinator  string              `hcl:"combinator,optional" json:"combinator,omitempty" yaml:"combinator,omitempty" validate:"omitempty,oneof=and or" jsonschema:"enum=and,enum=or"`
	Targets     []TargetDocument    `hcl:"target,block" json:"targets" yaml:"targets" validate:"dive"`
	Conditions  []ConditionDocument `hcl:"bind,block" json:"conditions" yaml:"conditions" validate:"dive"`
}

// TargetDocument is one target clause. targetattr clauses use Values, every
// other kind uses Value.
type TargetDocument struct {
	Kind   string   `hcl:"kind,label" json:"kind" yaml:"kind" validate:"required,oneof=target targetattr targetfilter targettrfilters extop targetcontrol requestcriteria targetscope scope"`
	Value  string   `hcl:"value,optional" json:"value,omitempty" yaml:"value,omitempty"`
	Values []string `hcl:"values,optional" json:"values,omitempty" yaml:"values,omitempty"`
}

// ConditionDocument is one bind condition.
type ConditionDocument struct {
	Kind    string `hcl:"kind,label" json:"kind" yaml:"kind" validate:"required,oneof=userdn groupdn roledn authmethod ip dns dayofweek timeofday userattr secure"`
	Value   string `hcl:"value" json:"value" yaml:"value"`
	Negated bool   `hcl:"negated,optional" json:"negated,omitempty" yaml:"negated,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that every keyword in the document is known.
// Completeness (name, targets, ...) is checked on the converted policy.
func (d *PolicyDocument) Validate() error {
	lowered := d.normalized()
	if err := validate.Struct(&lowered); err != nil {
		return fmt.Errorf("%w: %v", projecterrors.ErrInvalidDocument, err)
	}
	return nil
}

// normalized returns a copy with keywords lower-cased and trimmed.
func (d *PolicyDocument) normalized() PolicyDocument {
	out := *d
	out.Effect = keyword(d.Effect)
	out.Combinator = keyword(d.Combinator)
	out.Permissions = make([]string, len(d.Permissions))
	for i, p := range d.Permissions {
		out.Permissions[i] = keyword(p)
	}
	out.Targets = make([]TargetDocument, len(d.Targets))
	for i, t := range d.Targets {
		t.Kind = keyword(t.Kind)
		out.Targets[i] = t
	}
	out.Conditions = make([]ConditionDocument, len(d.Conditions))
	for i, c := range d.Conditions {
		c.Kind = keyword(c.Kind)
		out.Conditions[i] = c
	}
	return out
}

func keyword(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ToPolicy converts the document into a policy value. Repeated targetattr
// blocks are merged; for other kinds the last block wins.
func (d *PolicyDocument) ToPolicy() (aci.Policy, error) {
	if err := d.Validate(); err != nil {
		return aci.Policy{}, err
	}
	doc := d.normalized()

	p := aci.Policy{Name: doc.Name}
	p.Effect, _ = aci.ParseEffect(doc.Effect)
	p.Bind.Combinator, _ = aci.ParseCombinator(doc.Combinator)
	p.Permissions, _ = aci.ParsePermissions(doc.Permissions)

	for _, t := range doc.Targets {
		kind, _ := aci.ParseTargetKind(t.Kind)
		if kind == aci.TargetAttr {
			attrs := append([]string(nil), t.Values...)
			if t.Value != "" {
				attrs = append(attrs, strings.Split(t.Value, "||")...)
			}
			p = p.WithTarget(aci.NewTargetAttr(attrs...))
			continue
		}
		value := t.Value
		if value == "" && len(t.Values) > 0 {
			value = strings.Join(t.Values, " || ")
		}
		if kind == aci.Target {
			value = aci.StripLDAPPrefix(value)
		}
		p = p.WithTarget(aci.NewTarget(kind, value))
	}

	for _, c := range doc.Conditions {
		kind, _ := aci.ParseBindKind(c.Kind)
		value := c.Value
		if kind.IsDN() {
			value = aci.StripLDAPPrefix(value)
		}
		p.Bind.Conditions = append(p.Bind.Conditions, aci.BindCondition{
			Kind:    kind,
			Value:   value,
			Negated: c.Negated,
		})
	}

	return p, nil
}

// FromPolicy builds the document form of a policy.
func FromPolicy(p aci.Policy) PolicyDocument {
	doc := PolicyDocument{
		Name:        p.Name,
		Effect:      p.Effect.String(),
		Permissions: p.Permissions.Strings(),
		Combinator:  p.Bind.Combinator.String(),
	}

	for _, t := range p.Targets {
		if t.Kind == aci.TargetAttr {
			doc.Targets = append(doc.Targets, TargetDocument{
				Kind:   t.Kind.Keyword(),
				Values: append([]string(nil), t.Attributes...),
			})
			continue
		}
		doc.Targets = append(doc.Targets, TargetDocument{Kind: t.Kind.Keyword(), Value: t.Value})
	}

	for _, c := range p.Bind.Conditions {
		doc.Conditions = append(doc.Conditions, ConditionDocument{
			Kind:    c.Kind.Keyword(),
			Value:   c.Value,
			Negated: c.Negated,
		})
	}

	return doc
}
