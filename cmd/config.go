package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gateplane-io/aci-cli/internal/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"cfg"},
		Short:   "Manage configuration",
		Long:    "Manage acictl defaults, directory profiles and builder suggestions",
	}

	cmd.AddCommand(
		configShowCmd(),
		configSetCmd(),
		configAddSuggestionCmd(),
		configAddProfileCmd(),
		configUseProfileCmd(),
	)

	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Aliases: []string{"get", "view"},
		Short:   "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()

			format := getEffectiveOutputFormat()
			if format == OutputFormatJSON {
				return formatOutput(cmd.OutOrStdout(), cfg, format)
			}

			yamlData, err := yaml.Marshal(cfg)
			if err != nil {
				return wrapError("marshal config", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", config.File())
			fmt.Fprint(cmd.OutOrStdout(), string(yamlData))
			return nil
		},
	}
}

func configSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set configuration values",
		Long:  "Set configuration values",
	}

	cmd.AddCommand(
		configSetOutputFormatCmd(),
		configSetCombinatorCmd(),
	)

	return cmd
}

func configSetOutputFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "output-format [format]",
		Short:     "Set default output format (table, json, yaml, text)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{OutputFormatTable, OutputFormatJSON, OutputFormatYAML, OutputFormatText},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SetOutputFormat(args[0]); err != nil {
				return wrapError("set output format", err)
			}
			printSuccessMessage(cmd.OutOrStdout(), "Default output format set to: %s", args[0])
			return nil
		},
	}
}

func configSetCombinatorCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "combinator [and|or]",
		Short:     "Set the bind rule combinator assumed when an ACI does not say",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"and", "or"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SetCombinator(args[0]); err != nil {
				return wrapError("set combinator", err)
			}
			printSuccessMessage(cmd.OutOrStdout(), "Default combinator set to: %s", args[0])
			return nil
		},
	}
}

func configAddSuggestionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add-suggestion [attribute|control|extop] [value...]",
		Aliases: []string{"suggest"},
		Short:   "Offer schema values in the interactive builder",
		Long: `Record attribute names, control OIDs or extended operation OIDs of your
directory. The interactive builder offers them as choices. Values are stored on
the active profile when one is selected.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, value := range args[1:] {
				if err := config.AddSuggestion(args[0], value); err != nil {
					return wrapError("add suggestion", err)
				}
			}
			printSuccessMessage(cmd.OutOrStdout(), "Added %d %s suggestion(s)", len(args)-1, args[0])
			return nil
		},
	}
}

func configAddProfileCmd() *cobra.Command {
	var profile config.ProfileConfig

	cmd := &cobra.Command{
		Use:   "add-profile [name]",
		Short: "Add a directory profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.AddProfile(args[0], profile); err != nil {
				return wrapError("add profile", err)
			}
			printSuccessMessage(cmd.OutOrStdout(), "Added profile '%s'", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&profile.Description, "description", "", "Profile description")
	cmd.Flags().StringVar(&profile.BaseDN, "base-dn", "", "Base DN offered as the default target")

	return cmd
}

func configUseProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "use-profile [profile]",
		Aliases: []string{"profile"},
		Short:   "Switch to a different configuration profile (empty to clear)",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			if err := config.UseProfile(name); err != nil {
				return wrapError("use profile", err)
			}
			if name == "" {
				printSuccessMessage(cmd.OutOrStdout(), "Cleared active profile")
				return nil
			}
			printSuccessMessage(cmd.OutOrStdout(), "Switched to profile: %s", name)
			return nil
		},
	}
}
