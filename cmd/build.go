package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gateplane-io/aci-cli/internal/logger"
	"github.com/gateplane-io/aci-cli/internal/policyfile"
	"github.com/gateplane-io/aci-cli/pkg/aci"
)

// buildFlags describe a policy on the command line
type buildFlags struct {
	name        string
	effect      string
	permissions []string
	targets     []string
	binds       []string
	or          bool
	and         bool
	save        string
	interactive bool
}

func (f *buildFlags) isSet() bool {
	return f.name != "" || f.effect != "" || len(f.permissions) > 0 || len(f.targets) > 0 || len(f.binds) > 0
}

func buildCmd() *cobra.Command {
	var (
		in    = inputFlags{strict: true}
		flags buildFlags
	)

	cmd := &cobra.Command{
		Use:     "build",
		Aliases: []string{"b", "new"},
		Short:   "Build canonical ACI text from a policy",
		Long: `Build ACI text from a policy file, command line flags or an interactive wizard.
Flags are applied on top of the file. The result must name the ACI, carry an
effect, permissions, at least one target and at least one bind rule.`,
		Example: `  acictl build --name "read people" --effect allow --permission read,search \
    --target targetattr=cn||sn --target target=ou=people,dc=example,dc=com \
    --bind userdn=all --bind '!ip=10.0.0.1' --or
  acictl build -f policy.yaml
  acictl build -i --save policy.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				p   aci.Policy
				err error
			)
			if in.file != "" {
				if p, err = readPolicy(cmd, nil, in); err != nil {
					return wrapError("read policy", err)
				}
			}

			if isInteractiveMode(flags.interactive, in.file != "", flags.isSet()) {
				if p, err = runBuildWizard(p); err != nil {
					return wrapError("build policy", err)
				}
			} else if p, err = flags.apply(p); err != nil {
				return err
			}

			text, err := aci.ToText(p)
			if err != nil {
				return wrapError("build ACI", err)
			}
			logger.Debug("built ACI", "name", p.Name, "bytes", len(text))

			if flags.save != "" {
				if err := policyfile.Save(flags.save, p); err != nil {
					return wrapError("save policy", err)
				}
				printSuccessMessage(cmd.ErrOrStderr(), "Policy saved to %s", flags.save)
			}

			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().StringVar(&flags.name, "name", "", "ACI name")
	cmd.Flags().StringVar(&flags.effect, "effect", "", "allow or deny")
	cmd.Flags().StringSliceVarP(&flags.permissions, "permission", "p", nil, "Permissions (read, search, compare, write, selfwrite, add, delete, import, export, proxy, all)")
	cmd.Flags().StringArrayVarP(&flags.targets, "target", "t", nil, "Target clause as kind=value (repeatable)")
	cmd.Flags().StringArrayVar(&flags.binds, "bind", nil, "Bind rule as kind=value; prefix with ! or use != to negate (repeatable)")
	cmd.Flags().BoolVar(&flags.or, "or", false, "Join bind rules with or")
	cmd.Flags().BoolVar(&flags.and, "and", false, "Join bind rules with and")
	cmd.Flags().StringVar(&flags.save, "save", "", "Also write the policy to a file (.yaml, .json, .hcl, .aci)")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "Build the policy step by step")
	cmd.MarkFlagsMutuallyExclusive("or", "and")

	return cmd
}

// apply layers the command line flags over p
func (f *buildFlags) apply(p aci.Policy) (aci.Policy, error) {
	if f.name != "" {
		p = p.WithName(f.name)
	}

	if f.effect != "" {
		effect, ok := aci.ParseEffect(f.effect)
		if !ok {
			return p, fmt.Errorf("invalid effect %q: must be allow or deny", f.effect)
		}
		p = p.WithEffect(effect)
	}

	if len(f.permissions) > 0 {
		perms, unknown := aci.ParsePermissions(f.permissions)
		if len(unknown) > 0 {
			return p, fmt.Errorf("unknown permissions: %s", strings.Join(unknown, ", "))
		}
		p = p.WithPermissions(perms...)
	}

	for _, raw := range f.targets {
		clause, err := parseTargetFlag(raw)
		if err != nil {
			return p, err
		}
		p = p.WithTarget(clause)
	}

	for _, raw := range f.binds {
		cond, err := parseBindFlag(raw)
		if err != nil {
			return p, err
		}
		p = p.WithCondition(cond)
	}

	switch {
	case f.or:
		p = p.WithCombinator(aci.Or)
	case f.and:
		p = p.WithCombinator(aci.And)
	}

	return p, nil
}

// parseTargetFlag parses kind=value
func parseTargetFlag(raw string) (aci.TargetClause, error) {
	key, value, ok := strings.Cut(raw, "=")
	if !ok {
		return aci.TargetClause{}, fmt.Errorf("invalid target %q: expected kind=value", raw)
	}
	kind, ok := aci.ParseTargetKind(key)
	if !ok {
		return aci.TargetClause{}, fmt.Errorf("unknown target kind %q", strings.TrimSpace(key))
	}
	value = strings.Trim(strings.TrimSpace(value), `"`)
	if kind == aci.Target {
		value = aci.StripLDAPPrefix(value)
	}
	return aci.NewTarget(kind, value), nil
}

// parseBindFlag parses [!|not ]kind=value and kind!=value
func parseBindFlag(raw string) (aci.BindCondition, error) {
	s := strings.TrimSpace(raw)
	negated := false

	switch {
	case strings.HasPrefix(s, "!"):
		negated, s = true, strings.TrimSpace(s[1:])
	case len(s) > 4 && strings.EqualFold(s[:4], "not "):
		negated, s = true, strings.TrimSpace(s[4:])
	}

	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return aci.BindCondition{}, fmt.Errorf("invalid bind rule %q: expected kind=value", raw)
	}
	if strings.HasSuffix(key, "!") {
		negated = !negated
		key = strings.TrimSuffix(key, "!")
	}

	kind, ok := aci.ParseBindKind(key)
	if !ok {
		return aci.BindCondition{}, fmt.Errorf("unknown bind rule kind %q", strings.TrimSpace(key))
	}
	value = strings.Trim(strings.TrimSpace(value), `"`)
	if kind.IsDN() {
		value = aci.StripLDAPPrefix(value)
	}
	if value == "" {
		return aci.BindCondition{}, fmt.Errorf("bind rule %q has no value", raw)
	}
	return aci.BindCondition{Kind: kind, Value: value, Negated: negated}, nil
}
