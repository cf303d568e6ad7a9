package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/gateplane-io/aci-cli/internal/config"
	"github.com/gateplane-io/aci-cli/pkg/aci"
)

const (
	choiceDone  = "done"
	choiceOther = "other..."
)

// runBuildWizard asks for every part of a policy, starting from p
func runBuildWizard(p aci.Policy) (aci.Policy, error) {
	suggestions := config.EffectiveSuggestions()
	profile, _ := config.ActiveProfile()

	name, err := promptText("ACI name", p.Name, true)
	if err != nil {
		return p, err
	}
	p = p.WithName(name)

	effect, err := promptSelect("Effect", []string{aci.Allow.String(), aci.Deny.String()})
	if err != nil {
		return p, err
	}
	e, _ := aci.ParseEffect(effect)
	p = p.WithEffect(e)

	for {
		items := []string{choiceDone}
		for _, perm := range aci.AllPermissions {
			if !p.Permissions.Has(perm) {
				items = append(items, perm.String())
			}
		}
		choice, err := promptSelect(fmt.Sprintf("Add permission (%s)", strings.Join(p.Permissions.Strings(), ",")), items)
		if err != nil {
			return p, err
		}
		if choice == choiceDone {
			if len(p.Permissions) == 0 {
				printFailedMessage(os.Stderr, "Select at least one permission")
				continue
			}
			break
		}
		perm, _ := aci.ParsePermission(choice)
		p = p.WithPermissions(perm)
	}

	for {
		items := []string{choiceDone}
		for _, kind := range aci.TargetKinds {
			if _, exists := p.Target(kind); !exists {
				items = append(items, kind.Keyword())
			}
		}
		choice, err := promptSelect("Add target", items)
		if err != nil {
			return p, err
		}
		if choice == choiceDone {
			break
		}

		kind, _ := aci.ParseTargetKind(choice)
		value, err := promptTargetValue(kind, suggestions, profile)
		if err != nil {
			return p, err
		}
		if kind == aci.Target {
			value = aci.StripLDAPPrefix(value)
		}
		p = p.WithTarget(aci.NewTarget(kind, value))
	}

	for {
		items := []string{choiceDone}
		for _, kind := range aci.BindKinds {
			items = append(items, kind.Keyword())
		}
		choice, err := promptSelect(fmt.Sprintf("Add bind rule (%d so far)", len(p.Bind.Conditions)), items)
		if err != nil {
			return p, err
		}
		if choice == choiceDone {
			break
		}

		kind, _ := aci.ParseBindKind(choice)
		value, err := promptText(kind.Keyword(), "", true)
		if err != nil {
			return p, err
		}
		if kind.IsDN() {
			value = aci.StripLDAPPrefix(value)
		}
		negated, err := promptConfirm("Negate this rule")
		if err != nil {
			return p, err
		}
		p = p.WithCondition(aci.BindCondition{Kind: kind, Value: value, Negated: negated})
	}

	if len(p.Bind.Conditions) > 1 {
		combinator, err := promptSelect("Join bind rules with", []string{aci.And.String(), aci.Or.String()})
		if err != nil {
			return p, err
		}
		c, _ := aci.ParseCombinator(combinator)
		p = p.WithCombinator(c)
	}

	return p, nil
}

// promptTargetValue offers directory suggestions for the target kinds that have them
func promptTargetValue(kind aci.TargetKind, s config.Suggestions, profile config.ProfileConfig) (string, error) {
	var options []string
	switch kind {
	case aci.TargetAttr:
		options = s.Attributes
	case aci.TargetControl:
		options = s.Controls
	case aci.Extop:
		options = s.ExtendedOps
	case aci.Target:
		return promptText("Target DN", profile.BaseDN, true)
	}

	if len(options) == 0 {
		return promptText(kind.Keyword(), "", true)
	}

	if kind != aci.TargetAttr {
		choice, err := promptSelect(kind.Keyword(), append(append([]string{}, options...), choiceOther))
		if err != nil || choice != choiceOther {
			return choice, err
		}
		return promptText(kind.Keyword(), "", true)
	}

	var attrs []string
	for {
		items := append([]string{choiceDone, choiceOther}, options...)
		choice, err := promptSelect(fmt.Sprintf("Add attribute (%s)", strings.Join(attrs, "||")), items)
		if err != nil {
			return "", err
		}
		switch choice {
		case choiceDone:
			if len(attrs) == 0 {
				continue
			}
			return strings.Join(attrs, "||"), nil
		case choiceOther:
			attr, err := promptText("Attribute", "", true)
			if err != nil {
				return "", err
			}
			attrs = append(attrs, attr)
		default:
			attrs = append(attrs, choice)
		}
	}
}

func promptText(label, def string, required bool) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: def != "",
		Validate: func(input string) error {
			if required && strings.TrimSpace(input) == "" {
				return fmt.Errorf("%s cannot be empty", label)
			}
			return nil
		},
	}

	result, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("%s input cancelled: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(result), nil
}

func promptSelect(label string, items []string) (string, error) {
	prompt := promptui.Select{
		Label:             label,
		Items:             items,
		Size:              12,
		StartInSearchMode: len(items) > 12,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(input))
		},
	}

	_, result, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("%s selection cancelled: %w", strings.ToLower(label), err)
	}
	return result, nil
}

func promptConfirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	_, err := prompt.Run()
	if err == promptui.ErrAbort {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s cancelled: %w", strings.ToLower(label), err)
	}
	return true, nil
}
