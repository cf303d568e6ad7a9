package aci

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTargetKindKeywords(t *testing.T) {
	for _, kind := range TargetKinds {
		t.Run(kind.Keyword(), func(t *testing.T) {
			got, ok := ParseTargetKind(kind.Keyword())
			assert.True(t, ok)
			assert.Equal(t, kind, got)
		})
	}

	got, ok := ParseTargetKind("SCOPE")
	assert.True(t, ok)
	assert.Equal(t, TargetScope, got)
	assert.Equal(t, "targetscope", got.Keyword())

	_, ok = ParseTargetKind("targetattrfilters")
	assert.False(t, ok)
}

func TestBindKindKeywords(t *testing.T) {
	for _, kind := range BindKinds {
		t.Run(kind.Keyword(), func(t *testing.T) {
			got, ok := ParseBindKind(kind.Keyword())
			assert.True(t, ok)
			assert.Equal(t, kind, got)
		})
	}

	_, ok := ParseBindKind("groupattr")
	assert.False(t, ok)

	assert.True(t, UserDn.IsDN())
	assert.True(t, GroupDn.IsDN())
	assert.True(t, RoleDn.IsDN())
	assert.False(t, UserAttr.IsDN())
}

func TestPermissions(t *testing.T) {
	for _, perm := range AllPermissions {
		got, ok := ParsePermission(perm.String())
		assert.True(t, ok)
		assert.Equal(t, perm, got)
	}

	set, unknown := ParsePermissions([]string{"read", " Write ", "read", "", "teleport"})
	assert.Equal(t, Permissions{Read, Write}, set)
	assert.Equal(t, []string{"teleport"}, unknown)
	assert.Equal(t, []string{"read", "write"}, set.Strings())
	assert.True(t, set.Has(Write))
	assert.False(t, set.Has(Delete))
	assert.Equal(t, Permissions{Read, Write, Delete}, set.Add(Delete).Add(Read))
}

func TestEffectAndCombinator(t *testing.T) {
	e, ok := ParseEffect("DENY")
	assert.True(t, ok)
	assert.Equal(t, Deny, e)
	_, ok = ParseEffect("maybe")
	assert.False(t, ok)
	assert.Equal(t, "", EffectUnset.String())

	c, ok := ParseCombinator(" or ")
	assert.True(t, ok)
	assert.Equal(t, Or, c)
	assert.Equal(t, "and", And.String())
}

func TestTargetClause(t *testing.T) {
	attr := NewTarget(TargetAttr, "cn || sn||")
	assert.Equal(t, []string{"cn", "sn"}, attr.Attributes)
	assert.Equal(t, "cn||sn", attr.Text())
	assert.False(t, attr.IsEmpty())

	assert.True(t, NewTargetAttr("", " ").IsEmpty())
	assert.True(t, NewTarget(TargetFilter, "").IsEmpty())
	assert.Equal(t, "(cn=x)", NewTarget(TargetFilter, "(cn=x)").Text())
}

func TestPolicyEditsDoNotAlias(t *testing.T) {
	base := Policy{}.
		WithName("base").
		WithEffect(Allow).
		WithPermissions(Read, Read, Search).
		WithTarget(NewTargetAttr("cn")).
		WithCondition(BindCondition{Kind: UserDn, Value: "self"})

	edited := base.
		WithName("edited").
		WithPermissions(Write).
		WithTarget(NewTarget(Target, "dc=example,dc=com")).
		WithCondition(BindCondition{Kind: Ip, Value: "10.0.0.1"}).
		WithCombinator(Or)
	edited.Targets[0].Attributes[0] = "mail"

	assert.Equal(t, "base", base.Name)
	assert.Equal(t, Permissions{Read, Search}, base.Permissions)
	assert.Equal(t, []TargetClause{{Kind: TargetAttr, Attributes: []string{"cn"}}}, base.Targets)
	assert.Len(t, base.Bind.Conditions, 1)
	assert.Equal(t, And, base.Bind.Combinator)

	assert.Equal(t, Permissions{Read, Search, Write}, edited.Permissions)
	assert.Len(t, edited.Targets, 2)
	assert.Len(t, edited.Bind.Conditions, 2)
	assert.Equal(t, Or, edited.Bind.Combinator)
}

func TestWithTargetKeepsOneClausePerKind(t *testing.T) {
	base := Policy{}.
		WithTarget(NewTargetAttr("cn")).
		WithTarget(NewTarget(Target, "ou=a,dc=example,dc=com"))

	p := base.
		WithTarget(NewTargetAttr("sn", "cn")).
		WithTarget(NewTarget(Target, "ou=b,dc=example,dc=com"))

	assert.Equal(t, []TargetClause{
		{Kind: TargetAttr, Attributes: []string{"cn", "sn"}},
		{Kind: Target, Value: "ou=b,dc=example,dc=com"},
	}, p.Targets)
	assert.Equal(t, []string{"cn"}, base.Targets[0].Attributes)
	assert.Equal(t, "ou=a,dc=example,dc=com", base.Targets[1].Value)
}

func TestPolicyLookups(t *testing.T) {
	p := Parse(`(targetattr="cn")(version 3.0; acl "x"; allow (read) userdn="ldap:///a" or groupdn="ldap:///g" or userdn="ldap:///b";)`)

	clause, ok := p.Target(TargetAttr)
	assert.True(t, ok)
	assert.Equal(t, []string{"cn"}, clause.Attributes)
	_, ok = p.Target(Target)
	assert.False(t, ok)

	assert.Equal(t, []BindCondition{{Kind: UserDn, Value: "a"}, {Kind: UserDn, Value: "b"}}, p.Conditions(UserDn))
	assert.Len(t, p.Bind.Active(), 3)
}
