package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gateplane-io/aci-cli/internal/debug"
	"github.com/gateplane-io/aci-cli/internal/logger"
	"github.com/gateplane-io/aci-cli/pkg/aci"
)

func parseCmd() *cobra.Command {
	var (
		in     inputFlags
		tokens bool
	)

	cmd := &cobra.Command{
		Use:     "parse [aci]",
		Aliases: []string{"p", "show"},
		Short:   "Parse ACI text into a structured policy",
		Long: `Parse an ACI as returned by the directory. Parsing never fails: unknown or
malformed parts are skipped and missing parts are reported as warnings.`,
		Example: `  acictl parse '(targetattr="cn")(version 3.0; acl "read cn"; allow (read) userdn="ldap:///all";)'
  acictl parse -f policy.aci -o yaml
  ldapsearch ... aci | acictl parse --tokens`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tokens {
				text, err := rawText(cmd, args, in)
				if err != nil {
					return wrapError("read ACI", err)
				}
				tracer := &debug.TokenTracer{Out: cmd.OutOrStdout()}
				if _, err := tracer.Trace(text); err != nil {
					return wrapError("trace tokens", err)
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return renderPolicyWithProblems(cmd, newTranslator().RoundTrip(text))
			}

			p, err := readPolicy(cmd, args, in)
			if err != nil {
				return wrapError("read ACI", err)
			}
			return renderPolicyWithProblems(cmd, p)
		},
	}

	in.register(cmd)
	cmd.Flags().BoolVar(&tokens, "tokens", false, "Show the token stream before the parsed policy")

	return cmd
}

// rawText returns the ACI text without decoding structured files
func rawText(cmd *cobra.Command, args []string, in inputFlags) (string, error) {
	p, err := readPolicy(cmd, args, in)
	if err != nil {
		return "", err
	}
	if p.RawText == "" {
		return "", fmt.Errorf("token trace needs ACI text, not a policy document")
	}
	return p.RawText, nil
}

func renderPolicyWithProblems(cmd *cobra.Command, p aci.Policy) error {
	problems := aci.Problems(p)
	logger.Debug("parsed ACI",
		"name", p.Name,
		"targets", len(p.Targets),
		"permissions", len(p.Permissions),
		"conditions", len(p.Bind.Conditions),
		"problems", len(problems))

	if err := renderPolicy(cmd.OutOrStdout(), p, getEffectiveOutputFormat()); err != nil {
		return wrapError("render policy", err)
	}

	if len(problems) > 0 {
		names := make([]string, len(problems))
		for i, k := range problems {
			names[i] = k.String()
		}
		logger.Warn("policy is incomplete", "problems", strings.Join(names, ", "))
	}
	return nil
}
