package table

import (
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/gateplane-io/aci-cli/pkg/aci"
)

// PolicyHeaders are the columns of a policy table.
var PolicyHeaders = []string{"Section", "Keyword", "Value"}

// PolicyRows flattens a policy into one row per clause, in directive order.
// Negated conditions are marked with a red "not".
func PolicyRows(p aci.Policy) []Row {
	var rows []Row
	for _, t := range p.Targets {
		if t.IsEmpty() {
			continue
		}
		rows = append(rows, Row{"target", t.Kind.Keyword(), t.Text()})
	}

	rows = append(rows, Row{"acl", "name", p.Name})
	rows = append(rows, Row{"acl", "effect", p.Effect.String()})
	rows = append(rows, Row{"acl", "permissions", strings.Join(p.Permissions.Strings(), ",")})

	active := p.Bind.Active()
	if len(active) > 1 {
		rows = append(rows, Row{"bind", "combinator", p.Bind.Combinator.String()})
	}
	for _, c := range active {
		kw := c.Kind.Keyword()
		if c.Negated {
			kw = color.RedString("not") + " " + kw
		}
		rows = append(rows, Row{"bind", kw, c.Value})
	}

	return rows
}

// RenderPolicy writes a policy as a table grouped by section.
func RenderPolicy(w io.Writer, p aci.Policy) error {
	return RenderTable(w, TableOptions{
		Headers: PolicyHeaders,
		SortBy:  -1,
		GroupBy: 0,
	}, PolicyRows(p))
}

// ProblemRows lists the failed checks of a policy and the parts its text could
// not represent, one per row.
func ProblemRows(p aci.Policy, report aci.ParseReport) []Row {
	var rows []Row
	for _, k := range aci.Problems(p) {
		rows = append(rows, Row{k.String()})
	}
	for _, s := range report.Skipped {
		rows = append(rows, Row{"cannot represent " + s.Reason.String() + ": " + s.Text})
	}
	return rows
}
