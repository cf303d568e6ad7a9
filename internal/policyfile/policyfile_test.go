package policyfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gateplane-io/aci-cli/pkg/aci"
	projecterrors "github.com/gateplane-io/aci-cli/pkg/errors"
)

const sampleACI = `(targetattr="cn||sn||mail")(target="ldap:///ou=people,dc=example,dc=com")(version 3.0; acl "people"; allow (read,search,compare) userdn="ldap:///all" or not ip="10.0.0.1";)`

func samplePolicy(t *testing.T) aci.Policy {
	t.Helper()
	p := aci.Parse(sampleACI)
	p.RawText = ""
	require.True(t, aci.IsValid(p))
	return p
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("a/b.yml"))
	assert.Equal(t, FormatYAML, DetectFormat("b.YAML"))
	assert.Equal(t, FormatJSON, DetectFormat("b.json"))
	assert.Equal(t, FormatHCL, DetectFormat("b.hcl"))
	assert.Equal(t, FormatACI, DetectFormat("b.aci"))
	assert.Equal(t, FormatACI, DetectFormat("b"))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("toml")
	assert.ErrorIs(t, err, projecterrors.ErrUnsupportedFormat)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "policy.yaml", `
name: people
effect: allow
permissions: [read, search, compare]
combinator: or
targets:
  - kind: targetattr
    values: [cn, sn, mail]
  - kind: target
    value: ldap:///ou=people,dc=example,dc=com
conditions:
  - kind: userdn
    value: ldap:///all
  - kind: ip
    value: 10.0.0.1
    negated: true
`)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, samplePolicy(t), p)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "policy.json", `{
  "name": "people",
  "effect": "allow",
  "permissions": ["read", "search", "compare"],
  "combinator": "or",
  "targets": [
    {"kind": "targetattr", "values": ["cn", "sn", "mail"]},
    {"kind": "target", "value": "ou=people,dc=example,dc=com"}
  ],
  "conditions": [
    {"kind": "userdn", "value": "all"},
    {"kind": "ip", "value": "10.0.0.1", "negated": true}
  ]
}`)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, samplePolicy(t), p)
}

func TestLoadHCL(t *testing.T) {
	path := writeFile(t, "policy.hcl", `
name        = "people"
effect      = "allow"
permissions = ["read", "search", "compare"]
combinator  = "or"

target "targetattr" {
  values = ["cn", "sn", "mail"]
}

target "target" {
  value = "ou=people,dc=example,dc=com"
}

bind "userdn" {
  value = "all"
}

bind "ip" {
  value   = "10.0.0.1"
  negated = true
}
`)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, samplePolicy(t), p)
}

func TestLoadACIText(t *testing.T) {
	path := writeFile(t, "policy.aci", sampleACI+"\n")

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sampleACI, p.RawText)
	p.RawText = ""
	assert.Equal(t, samplePolicy(t), p)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		var fileErr *projecterrors.FileError
		require.ErrorAs(t, err, &fileErr)
		assert.Equal(t, "read", fileErr.Operation)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.yaml", "name: [unclosed"))
		var fileErr *projecterrors.FileError
		require.ErrorAs(t, err, &fileErr)
		assert.Equal(t, "decode", fileErr.Operation)
	})

	t.Run("unknown json field", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.json", `{"name": "x", "rules": []}`))
		assert.Error(t, err)
	})

	t.Run("unknown keyword", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.yaml", "effect: maybe\n"))
		assert.ErrorIs(t, err, projecterrors.ErrInvalidDocument)
	})

	t.Run("hcl syntax", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.hcl", `target "target" {`))
		assert.Error(t, err)
	})
}

func TestSaveAndLoad(t *testing.T) {
	want := samplePolicy(t)
	dir := t.TempDir()

	for _, name := range []string{"p.yaml", "p.json", "p.hcl", "nested/p.aci"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Save(path, want))

			got, err := Load(path)
			require.NoError(t, err)
			got.RawText = ""
			assert.Equal(t, want, got)
		})
	}
}

func TestEncodeACIRequiresValidPolicy(t *testing.T) {
	p := samplePolicy(t)
	p.Name = ""

	_, err := Encode(p, FormatACI)
	assert.ErrorIs(t, err, aci.ErrMissingName)

	err = Save(filepath.Join(t.TempDir(), "p.aci"), p)
	var fileErr *projecterrors.FileError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, "encode", fileErr.Operation)

	// structured formats keep incomplete policies
	_, err = Encode(p, FormatYAML)
	assert.NoError(t, err)
}

func TestEncodeHCLEscapesValues(t *testing.T) {
	p := samplePolicy(t).WithName(`say "hi" ${x}`)

	data, err := Encode(p, FormatHCL)
	require.NoError(t, err)

	got, err := Decode(data, FormatHCL)
	require.NoError(t, err)
	assert.Equal(t, `say "hi" ${x}`, got.Name)
}
