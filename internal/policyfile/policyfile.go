package policyfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"gopkg.in/yaml.v3"

	"github.com/gateplane-io/aci-cli/pkg/aci"
	projecterrors "github.com/gateplane-io/aci-cli/pkg/errors"
	"github.com/gateplane-io/aci-cli/pkg/models"
)

// Format is the encoding of a policy file.
type Format string

const (
	FormatACI  Format = "aci"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// Formats lists every supported format.
var Formats = []Format{FormatACI, FormatYAML, FormatJSON, FormatHCL}

// ParseFormat maps a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aci", "txt", "ldif":
		return FormatACI, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "hcl":
		return FormatHCL, nil
	}
	return "", fmt.Errorf("%w: %q", projecterrors.ErrUnsupportedFormat, s)
}

// DetectFormat picks a format from the file extension. Unknown extensions are
// read as raw ACI text.
func DetectFormat(path string) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if f, err := ParseFormat(ext); err == nil {
		return f
	}
	return FormatACI
}

// Load reads a policy from path, picking the decoder from the extension.
func Load(path string) (aci.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return aci.Policy{}, projecterrors.NewFileError("read", path, err)
	}

	p, err := Decode(data, DetectFormat(path))
	if err != nil {
		return aci.Policy{}, projecterrors.WrapFileError("decode", path, err)
	}
	return p, nil
}

// Decode turns file contents in the given format into a policy.
// ACI text goes through the tolerant parser and never fails.
func Decode(data []byte, format Format) (aci.Policy, error) {
	if format == FormatACI {
		return aci.Parse(strings.TrimSpace(string(data))), nil
	}

	var doc models.PolicyDocument
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return aci.Policy{}, err
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return aci.Policy{}, err
		}
	case FormatHCL:
		// hclsimple picks native syntax from the file name
		if err := hclsimple.Decode("policy.hcl", data, nil, &doc); err != nil {
			return aci.Policy{}, err
		}
	default:
		return aci.Policy{}, fmt.Errorf("%w: %q", projecterrors.ErrUnsupportedFormat, format)
	}

	return doc.ToPolicy()
}

// Encode renders a policy in the given format. ACI output is canonical text
// and requires a valid policy.
func Encode(p aci.Policy, format Format) ([]byte, error) {
	if format == FormatACI {
		text, err := aci.ToText(p)
		if err != nil {
			return nil, err
		}
		return []byte(text + "\n"), nil
	}

	doc := models.FromPolicy(p)
	switch format {
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatHCL:
		return encodeHCL(doc), nil
	}
	return nil, fmt.Errorf("%w: %q", projecterrors.ErrUnsupportedFormat, format)
}

// Save writes a policy to path in the format matching its extension.
func Save(path string, p aci.Policy) error {
	data, err := Encode(p, DetectFormat(path))
	if err != nil {
		return projecterrors.WrapFileError("encode", path, err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return projecterrors.NewFileError("create directory for", path, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return projecterrors.NewFileError("write", path, err)
	}
	return nil
}
