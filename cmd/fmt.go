package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gateplane-io/aci-cli/internal/policyfile"
)

func fmtCmd() *cobra.Command {
	var (
		in    = inputFlags{strict: true}
		write bool
	)

	cmd := &cobra.Command{
		Use:     "fmt [aci]",
		Aliases: []string{"format", "normalize"},
		Short:   "Rewrite an ACI in canonical form",
		Long: `Parse an ACI and print it in canonical form: targets first, ldap:/// prefixes on
DN values, single spaces between parts. Incomplete ACIs are rejected, and so are
ACIs with parts that cannot be represented, such as negated groups or
comparison bind rules.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if write && (in.file == "" || in.file == "-") {
				return fmt.Errorf("--write needs a policy file given with -f")
			}

			p, err := readPolicy(cmd, args, in)
			if err != nil {
				return wrapError("read ACI", err)
			}

			text, err := newTranslator().ToText(p)
			if err != nil {
				return wrapError("format ACI", err)
			}

			if write {
				if err := policyfile.Save(in.file, p); err != nil {
					return wrapError("write policy", err)
				}
				printSuccessMessage(cmd.ErrOrStderr(), "Formatted %s", in.file)
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the file instead of stdout")

	return cmd
}
