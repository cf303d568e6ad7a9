package policyfile

import (
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/gateplane-io/aci-cli/pkg/models"
)

// encodeHCL writes the document in the block layout hclsimple decodes.
func encodeHCL(doc models.PolicyDocument) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	body.SetAttributeValue("name", cty.StringVal(doc.Name))
	if doc.Effect != "" {
		body.SetAttributeValue("effect", cty.StringVal(doc.Effect))
	}
	body.SetAttributeValue("permissions", stringList(doc.Permissions))
	if doc.Combinator != "" {
		body.SetAttributeValue("combinator", cty.StringVal(doc.Combinator))
	}

	for _, t := range doc.Targets {
		body.AppendNewline()
		block := body.AppendNewBlock("target", []string{t.Kind}).Body()
		if len(t.Values) > 0 {
			block.SetAttributeValue("values", stringList(t.Values))
		} else {
			block.SetAttributeValue("value", cty.StringVal(t.Value))
		}
	}

	for _, c := range doc.Conditions {
		body.AppendNewline()
		block := body.AppendNewBlock("bind", []string{c.Kind}).Body()
		block.SetAttributeValue("value", cty.StringVal(c.Value))
		if c.Negated {
			block.SetAttributeValue("negated", cty.True)
		}
	}

	return f.Bytes()
}

func stringList(values []string) cty.Value {
	if len(values) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(values))
	for i, v := range values {
		vals[i] = cty.StringVal(v)
	}
	return cty.ListVal(vals)
}
