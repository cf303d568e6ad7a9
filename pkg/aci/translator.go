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

// Translator combines the parser, validator and builder behind one entry point.
// It holds no mutable state and is safe for concurrent use.
type Translator struct {
	opts ParseOptions
}

// Option configures a Translator.
type Option func(*Translator)

// WithDefaultCombinator sets the combinator used when parsed text does not name one.
func WithDefaultCombinator(c Combinator) Option {
	return func(t *Translator) {
		t.opts.DefaultCombinator = c
	}
}

// NewTranslator creates a Translator with the given options.
func NewTranslator(opts ...Option) *Translator {
	t := &Translator{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RoundTrip parses directory-supplied text into a Policy, keeping the text in RawText.
func (t *Translator) RoundTrip(text string) Policy {
	return ParseWith(text, t.opts)
}

// Inspect parses text like RoundTrip and reports what the policy leaves out.
func (t *Translator) Inspect(text string) (Policy, ParseReport) {
	return ParseWithReport(text, t.opts)
}

// ParseStrict parses text and fails with an *UnrepresentableError when the
// policy cannot hold all of it. Use it before writing a parsed policy back.
func (t *Translator) ParseStrict(text string) (Policy, error) {
	p, report := t.Inspect(text)
	if err := report.Err(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// ToText validates the policy and returns its canonical directive text.
// An invalid policy yields a *ValidationFailure instead of a hollow directive.
func (t *Translator) ToText(p Policy) (string, error) {
	if err := Validate(p); err != nil {
		return "", err
	}
	return Build(p), nil
}

// Reparse builds the policy and parses the result again.
func (t *Translator) Reparse(p Policy) (Policy, error) {
	text, err := t.ToText(p)
	if err != nil {
		return Policy{}, err
	}
	return t.RoundTrip(text), nil
}

// Normalize rewrites ACI text into canonical form. Text with constructs the
// policy cannot hold is refused rather than rewritten with a different meaning.
func (t *Translator) Normalize(text string) (string, error) {
	p, err := t.ParseStrict(text)
	if err != nil {
		return "", err
	}
	return t.ToText(p)
}

var defaultTranslator = NewTranslator()

// RoundTrip parses text with the default translator.
func RoundTrip(text string) Policy {
	return defaultTranslator.RoundTrip(text)
}

// ParseStrict parses text with the default translator, refusing text the
// policy cannot hold.
func ParseStrict(text string) (Policy, error) {
	return defaultTranslator.ParseStrict(text)
}

// ToText validates and builds p with the default translator.
func ToText(p Policy) (string, error) {
	return defaultTranslator.ToText(p)
}

// Normalize rewrites text into canonical form with the default translator.
func Normalize(text string) (string, error) {
	return defaultTranslator.Normalize(text)
}
