package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gateplane-io/aci-cli/internal/config"
	"github.com/gateplane-io/aci-cli/pkg/aci"
	projecterrors "github.com/gateplane-io/aci-cli/pkg/errors"
)

const (
	canonicalACI = `(targetattr="cn||sn")(target="ldap:///ou=people,dc=example,dc=com")(version 3.0; acl "people"; allow (read,search) userdn="ldap:///all" or not ip="10.0.0.1";)`
	messyACI     = `(targetattr = "cn || sn")( target="ou=people,dc=example,dc=com" )(version 3.0;acl "people";allow( read , search )userdn="ldap:///all" OR not   ip="10.0.0.1";)`
)

// run executes acictl with an isolated configuration directory
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfigDir, t.TempDir())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestParseCommand(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		out, err := run(t, "", "parse", "-o", "json", canonicalACI)
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "people", doc["name"])
		assert.Equal(t, "or", doc["combinator"])
		assert.Len(t, doc["conditions"], 2)
	})

	t.Run("text from stdin", func(t *testing.T) {
		out, err := run(t, messyACI+"\n", "parse", "-o", "text")
		require.NoError(t, err)
		assert.Equal(t, canonicalACI+"\n", out)
	})

	t.Run("table", func(t *testing.T) {
		out, err := run(t, "", "parse", "-o", "table", canonicalACI)
		require.NoError(t, err)
		assert.Contains(t, out, "targetattr")
		assert.Contains(t, out, "10.0.0.1")
	})

	t.Run("tokens", func(t *testing.T) {
		out, err := run(t, "", "parse", "--tokens", "-o", "text", `(targetattr="cn")`)
		require.NoError(t, err)
		assert.Contains(t, out, "lparen")
		assert.Contains(t, out, `"cn"`)
		assert.Contains(t, out, `(targetattr="cn")(version 3.0; ;)`)
	})

	t.Run("no input", func(t *testing.T) {
		_, err := run(t, "", "parse")
		assert.ErrorIs(t, err, projecterrors.ErrNoInput)
	})
}

func TestBuildCommand(t *testing.T) {
	t.Run("flags", func(t *testing.T) {
		out, err := run(t, "", "build",
			"--name", "people",
			"--effect", "allow",
			"-p", "read,search",
			"--target", "targetattr=cn||sn",
			"--target", "target=ldap:///ou=people,dc=example,dc=com",
			"--bind", "userdn=all",
			"--bind", "!ip=10.0.0.1",
			"--or")
		require.NoError(t, err)
		assert.Equal(t, canonicalACI+"\n", out)
	})

	t.Run("repeated targetattr merges", func(t *testing.T) {
		out, err := run(t, "", "build",
			"--name", "people",
			"--effect", "allow",
			"-p", "read",
			"--target", "targetattr=cn",
			"--target", "targetattr=sn",
			"--bind", "userdn=all")
		require.NoError(t, err)
		assert.Equal(t, `(targetattr="cn||sn")(version 3.0; acl "people"; allow (read) userdn="ldap:///all";)`+"\n", out)
	})

	t.Run("missing target", func(t *testing.T) {
		_, err := run(t, "", "build", "--name", "x", "--effect", "deny", "-p", "all", "--bind", "userdn=anyone")
		assert.ErrorIs(t, err, aci.ErrMissingTarget)
	})

	t.Run("bad flag values", func(t *testing.T) {
		_, err := run(t, "", "build", "--effect", "maybe")
		assert.Error(t, err)
		_, err = run(t, "", "build", "-p", "fly")
		assert.Error(t, err)
		_, err = run(t, "", "build", "--target", "targetfoo=x")
		assert.Error(t, err)
		_, err = run(t, "", "build", "--bind", "userdn")
		assert.Error(t, err)
	})

	t.Run("file with overrides and save", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "policy.yaml")
		require.NoError(t, os.WriteFile(src, []byte(`
name: people
effect: allow
permissions: [read]
targets:
  - kind: targetattr
    values: [cn, sn]
conditions:
  - kind: userdn
    value: all
`), 0644))
		saved := filepath.Join(dir, "out.hcl")

		out, err := run(t, "", "build", "-f", src, "-p", "search", "--save", saved)
		require.NoError(t, err)
		assert.Equal(t, `(targetattr="cn||sn")(version 3.0; acl "people"; allow (read,search) userdn="ldap:///all";)`+"\n", out)

		again, err := run(t, "", "build", "-f", saved)
		require.NoError(t, err)
		assert.Equal(t, out, again)
	})
}

func TestParseBindFlag(t *testing.T) {
	tests := map[string]aci.BindCondition{
		"userdn=ldap:///self":     {Kind: aci.UserDn, Value: "self"},
		"!groupdn=cn=admins":      {Kind: aci.GroupDn, Value: "cn=admins", Negated: true},
		"not ip=10.0.0.1":         {Kind: aci.Ip, Value: "10.0.0.1", Negated: true},
		"dns!=*.example.com":      {Kind: aci.Dns, Value: "*.example.com", Negated: true},
		`secure="on"`:             {Kind: aci.Secure, Value: "on"},
		"!authmethod!=simple":     {Kind: aci.AuthMethod, Value: "simple"},
		"userattr=manager#USERDN": {Kind: aci.UserAttr, Value: "manager#USERDN"},
	}
	for raw, want := range tests {
		got, err := parseBindFlag(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "", "validate", "-o", "text", canonicalACI)
	require.NoError(t, err)
	assert.Contains(t, out, `ACI "people" is valid`)

	out, err = run(t, "", "validate", "-o", "json", `(targetattr="cn")(version 3.0; allow (read) userdn="ldap:///self";)`)
	assert.ErrorIs(t, err, projecterrors.ErrInvalidPolicy)
	assert.EqualError(t, err, "invalid policy: missing name")

	var report validationReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Valid)
	assert.Equal(t, []string{"missing name"}, report.Problems)
}

const lossyACI = `(targetattr="cn")(version 3.0; acl "people"; allow (all) userdn="ldap:///anyone" and not (ip="10.0.0.1" or dns="x.com");)`

func TestUnrepresentableInput(t *testing.T) {
	t.Run("parse keeps going", func(t *testing.T) {
		out, err := run(t, "", "parse", "-o", "json", lossyACI)
		require.NoError(t, err)
		assert.Contains(t, out, `"people"`)
	})

	t.Run("fmt refuses", func(t *testing.T) {
		out, err := run(t, "", "fmt", lossyACI)
		assert.ErrorIs(t, err, aci.ErrUnrepresentable)
		assert.Empty(t, out)
	})

	t.Run("ldif refuses the new ACI", func(t *testing.T) {
		out, err := run(t, "", "ldif", "--dn", "dc=example,dc=com", "--new", lossyACI)
		assert.ErrorIs(t, err, aci.ErrUnrepresentable)
		assert.Empty(t, out)

		_, err = run(t, lossyACI, "ldif", "--dn", "dc=example,dc=com", "-f", "-")
		assert.ErrorIs(t, err, aci.ErrUnrepresentable)
	})

	t.Run("ldif deletes a lossy old ACI verbatim", func(t *testing.T) {
		out, err := run(t, "", "ldif", "--dn", "dc=example,dc=com", "--old", lossyACI, "--new", canonicalACI)
		require.NoError(t, err)
		assert.Contains(t, strings.ReplaceAll(out, "\n ", ""), "aci: "+lossyACI+"\n")
	})

	t.Run("validate reports", func(t *testing.T) {
		out, err := run(t, "", "validate", "-o", "json",
			`(targetattr="cn")(version 3.0; acl "x"; allow (read) userdn="ldap:///all" and timeofday>="0800";)`)
		assert.ErrorIs(t, err, projecterrors.ErrInvalidPolicy)

		var report validationReport
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.False(t, report.Valid)
		assert.Equal(t, []string{`cannot represent comparison bind rule: timeofday>="0800"`}, report.Problems)
	})
}

func TestFmtCommand(t *testing.T) {
	out, err := run(t, "", "fmt", messyACI)
	require.NoError(t, err)
	assert.Equal(t, canonicalACI+"\n", out)

	_, err = run(t, "", "fmt", `(targetattr="cn")`)
	assert.ErrorIs(t, err, aci.ErrMissingName)

	path := filepath.Join(t.TempDir(), "people.aci")
	require.NoError(t, os.WriteFile(path, []byte(messyACI), 0644))
	_, err = run(t, "", "fmt", "-w", "-f", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, canonicalACI+"\n", string(data))

	_, err = run(t, "", "fmt", "-w", messyACI)
	assert.Error(t, err)
}

func TestLDIFCommand(t *testing.T) {
	old := `(targetattr="cn")(version 3.0; acl "people"; allow (read) userdn="ldap:///all";)`

	out, err := run(t, "", "ldif", "--dn", "ou=people,dc=example,dc=com", "--old", old, "--new", canonicalACI)
	require.NoError(t, err)

	unfolded := strings.ReplaceAll(out, "\n ", "")
	assert.True(t, strings.HasPrefix(unfolded, "dn: ou=people,dc=example,dc=com\nchangetype: modify\n"))
	assert.Contains(t, unfolded, "delete: aci\naci: "+old+"\n-\n")
	assert.Contains(t, unfolded, "add: aci\naci: "+canonicalACI+"\n-\n")

	out, err = run(t, "", "ldif", "--dn", "ou=people,dc=example,dc=com", "--old", old, "--new", canonicalACI, "--backout")
	require.NoError(t, err)
	unfolded = strings.ReplaceAll(out, "\n ", "")
	assert.Less(t, strings.Index(unfolded, canonicalACI), strings.Index(unfolded, old))

	_, err = run(t, "", "ldif", "--new", canonicalACI)
	assert.Error(t, err)
}

func TestSchemaCommand(t *testing.T) {
	out, err := run(t, "", "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "permissions")
	assert.Contains(t, props, "targets")
}

func TestConfigCommands(t *testing.T) {
	t.Setenv(config.EnvConfigDir, t.TempDir())

	exec := func(args ...string) (string, error) {
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetIn(strings.NewReader(""))
		cmd.SetArgs(args)
		err := cmd.Execute()
		return out.String(), err
	}

	_, err := exec("config", "set", "combinator", "or")
	require.NoError(t, err)
	_, err = exec("config", "set", "output-format", "text")
	require.NoError(t, err)
	_, err = exec("config", "add-profile", "corp", "--base-dn", "dc=corp,dc=example,dc=com")
	require.NoError(t, err)
	_, err = exec("config", "use-profile", "corp")
	require.NoError(t, err)
	_, err = exec("config", "add-suggestion", "attribute", "mail", "uid")
	require.NoError(t, err)
	_, err = exec("config", "use-profile", "lab")
	assert.ErrorIs(t, err, projecterrors.ErrProfileNotFound)

	out, err := exec("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "combinator: or")
	assert.Contains(t, out, "base_dn: dc=corp,dc=example,dc=com")
	assert.Contains(t, out, "- mail")

	// the configured combinator and output format apply to parsing
	out, err = exec("parse", `(targetattr="cn")(version 3.0; acl "x"; allow (read) userdn="ldap:///a" userdn="ldap:///b";)`)
	require.NoError(t, err)
	assert.Equal(t, `(targetattr="cn")(version 3.0; acl "x"; allow (read) userdn="ldap:///a" or userdn="ldap:///b";)`+"\n", out)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "acictl dev")
}

func TestInputFormatHelp(t *testing.T) {
	out, err := run(t, "", "parse", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Format of stdin input (aci, yaml, json, hcl)")
}
