package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gateplane-io/aci-cli/internal/ldif"
	"github.com/gateplane-io/aci-cli/pkg/aci"
)

func ldifCmd() *cobra.Command {
	var (
		in      = inputFlags{strict: true}
		dn      string
		oldText string
		newText string
		backout bool
	)

	cmd := &cobra.Command{
		Use:   "ldif",
		Short: "Render an ACI change as an LDIF modify record",
		Long: `Render an LDIF record that replaces an existing ACI on an entry with a new one,
ready for ldapmodify. The old ACI is deleted exactly as given so the directory
can match it. A new ACI with parts that cannot be represented is refused.
With --backout the record undoing the change is printed instead.`,
		Example: `  acictl ldif --dn ou=people,dc=example,dc=com --old "$OLD" -f policy.yaml | ldapmodify ...
  acictl ldif --dn dc=example,dc=com --new '(targetattr="cn")(version 3.0; acl "x"; allow (read) userdn="ldap:///all";)'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := newTranslator()

			var updated aci.Policy
			switch {
			case newText != "" && in.file != "":
				return fmt.Errorf("use either --new or --file, not both")
			case newText != "":
				p, err := tr.ParseStrict(newText)
				if err != nil {
					return wrapError("read new ACI", err)
				}
				updated = p
			default:
				p, err := readPolicy(cmd, args, in)
				if err != nil {
					return wrapError("read new ACI", err)
				}
				updated = p
			}

			var old aci.Policy
			if oldText != "" {
				old = tr.RoundTrip(oldText)
			}

			record, err := ldif.Modify(dn, old, updated)
			if err != nil {
				return wrapError("build LDIF record", err)
			}
			if backout {
				record = record.Backout()
			}

			if err := ldif.Write(cmd.OutOrStdout(), record); err != nil {
				return wrapError("write LDIF", err)
			}
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().StringVar(&dn, "dn", "", "DN of the entry holding the ACI")
	cmd.Flags().StringVar(&oldText, "old", "", "ACI text currently stored on the entry")
	cmd.Flags().StringVar(&newText, "new", "", "New ACI text")
	cmd.Flags().BoolVar(&backout, "backout", false, "Print the record that reverts the change")
	_ = cmd.MarkFlagRequired("dn")

	return cmd
}
