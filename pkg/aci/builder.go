package aci

import "strings"

// Build serializes a policy into canonical ACI text.
//
// Build never fails. Empty targets, conditions or permissions are simply left
// out, so callers should run Validate first when an incomplete directive is
// not acceptable.
func Build(p Policy) string {
	var b strings.Builder

	for _, t := range p.Targets {
		if t.IsEmpty() {
			continue
		}
		value := t.Text()
		if t.Kind == Target {
			value = WithLDAPPrefix(value)
		}
		b.WriteString("(")
		b.WriteString(t.Kind.Keyword())
		b.WriteString(`="`)
		b.WriteString(value)
		b.WriteString(`")`)
	}

	b.WriteString("(version 3.0; ")

	if p.Name != "" {
		b.WriteString(`acl "`)
		b.WriteString(p.Name)
		b.WriteString(`"; `)
	}

	if p.Effect != EffectUnset && len(p.Permissions) > 0 {
		b.WriteString(p.Effect.String())
		b.WriteString(" (")
		b.WriteString(strings.Join(p.Permissions.Strings(), ","))
		b.WriteString(") ")
	}

	sep := " and "
	if p.Bind.Combinator == Or {
		sep = " or "
	}
	for i, c := range p.Bind.Active() {
		if i > 0 {
			b.WriteString(sep)
		}
		writeCondition(&b, c)
	}

	b.WriteString(";)")
	return b.String()
}

func writeCondition(b *strings.Builder, c BindCondition) {
	if c.Negated {
		b.WriteString("not ")
	}
	value := c.Value
	if c.Kind.IsDN() {
		value = WithLDAPPrefix(value)
	}
	b.WriteString(c.Kind.Keyword())
	b.WriteString(`="`)
	b.WriteString(value)
	b.WriteString(`"`)
}

// FormatCondition renders a single bind condition in canonical form.
func FormatCondition(c BindCondition) string {
	var b strings.Builder
	writeCondition(&b, c)
	return b.String()
}
