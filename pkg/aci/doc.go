// Package aci translates between directory server Access Control Instruction
// text and an editable Policy value.
//
// The accepted grammar is the PingDirectory/Netscape form:
//
//	(target="ldap:///ou=people,dc=example,dc=com")(targetattr="cn||sn")
//	(version 3.0; acl "people"; allow (read,search) userdn="ldap:///self";)
//
// Parse is tolerant and never fails; anything it cannot recognise is left out
// of the result. Build always produces the same text for the same Policy.
// ToText runs Validate first and refuses to emit a directive the server would
// reject:
//
//	p := aci.Parse(raw)
//	p = p.WithPermissions(aci.Write)
//	text, err := aci.ToText(p)
//	if errors.Is(err, aci.ErrMissingTarget) {
//	    ...
//	}
//
// ParseWithReport also lists the constructs that were consumed but have no
// place in a Policy, such as negated groups or comparison bind rules.
// Normalize and ParseStrict refuse such text with ErrUnrepresentable, since
// rebuilding it would change what the ACI grants.
//
// Bind conditions form a flat list joined by a single "and" or "or". DN values
// (target, userdn, groupdn, roledn) are stored without their ldap:/// prefix,
// which Build adds back.
package aci
