package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gateplane-io/aci-cli/internal/table"
	projecterrors "github.com/gateplane-io/aci-cli/pkg/errors"
)

// validationReport is the json/yaml form of a validation result
type validationReport struct {
	Name     string   `json:"name" yaml:"name"`
	Valid    bool     `json:"valid" yaml:"valid"`
	Problems []string `json:"problems" yaml:"problems"`
}

func validateCmd() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:     "validate [aci]",
		Aliases: []string{"check", "lint"},
		Short:   "Check that an ACI is complete",
		Long: `Check that an ACI names itself, carries an effect with permissions, and has at
least one target and one bind rule, and that every part of the text can be
represented. Exits with status 1 when it does not.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, parsed, err := readPolicyReport(cmd, args, in)
			if err != nil {
				return wrapError("read ACI", err)
			}

			rows := table.ProblemRows(p, parsed)
			report := validationReport{Name: p.Name, Valid: len(rows) == 0, Problems: []string{}}
			for _, row := range rows {
				report.Problems = append(report.Problems, row[0])
			}

			out := cmd.OutOrStdout()
			switch format := getEffectiveOutputFormat(); format {
			case OutputFormatJSON, OutputFormatYAML:
				if err := formatOutput(out, report, format); err != nil {
					return err
				}
			case OutputFormatTable:
				if report.Valid {
					printSuccessMessage(out, "ACI %q is valid", p.Name)
					break
				}
				if err := table.RenderTable(out, table.TableOptions{Headers: []string{"Problem"}, SortBy: -1, GroupBy: -1}, rows); err != nil {
					return err
				}
			default:
				if report.Valid {
					printSuccessMessage(out, "ACI %q is valid", p.Name)
				}
				for _, problem := range report.Problems {
					printFailedMessage(out, "%s", problem)
				}
			}

			if !report.Valid {
				return fmt.Errorf("%w: %s", projecterrors.ErrInvalidPolicy, strings.Join(report.Problems, ", "))
			}
			return nil
		},
	}

	in.register(cmd)
	return cmd
}
