package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/gateplane-io/aci-cli/internal/config"
	"github.com/gateplane-io/aci-cli/internal/logger"
	"github.com/gateplane-io/aci-cli/internal/policyfile"
	"github.com/gateplane-io/aci-cli/internal/table"
	"github.com/gateplane-io/aci-cli/pkg/aci"
	projecterrors "github.com/gateplane-io/aci-cli/pkg/errors"
	"github.com/gateplane-io/aci-cli/pkg/models"
)

// Output formats
const (
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
	OutputFormatTable = "table"
	OutputFormatText  = "text"
)

// getEffectiveOutputFormat returns the output format to use, checking flag -> config -> default
func getEffectiveOutputFormat() string {
	if outputFormat != "" {
		return outputFormat
	}
	cfg := config.GetConfig()
	if cfg.Defaults.OutputFormat != "" {
		return cfg.Defaults.OutputFormat
	}
	return OutputFormatTable
}

// newTranslator builds a translator using the configured default combinator
func newTranslator() *aci.Translator {
	combinator, _ := aci.ParseCombinator(config.GetConfig().Defaults.Combinator)
	return aci.NewTranslator(aci.WithDefaultCombinator(combinator))
}

// formatOutput handles the common output formatting logic used across commands
func formatOutput(w io.Writer, data interface{}, format string) error {
	switch format {
	case OutputFormatJSON:
		jsonData, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal to JSON: %w", err)
		}
		fmt.Fprintln(w, string(jsonData))

	case OutputFormatYAML:
		yamlData, err := yaml.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal to YAML: %w", err)
		}
		fmt.Fprint(w, string(yamlData))

	default:
		return fmt.Errorf("%w for generic data: %s", projecterrors.ErrUnsupportedFormat, format)
	}
	return nil
}

// renderPolicy writes a policy in the requested output format
func renderPolicy(w io.Writer, p aci.Policy, format string) error {
	switch format {
	case OutputFormatTable:
		return table.RenderPolicy(w, p)
	case OutputFormatText:
		fmt.Fprintln(w, aci.Build(p))
		return nil
	default:
		return formatOutput(w, models.FromPolicy(p), format)
	}
}

// inputFlags are the ways a command can receive an ACI
type inputFlags struct {
	file   string
	format string

	// strict refuses ACI text with parts a policy cannot hold. Commands that
	// write the policy back out set it.
	strict bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	names := make([]string, len(policyfile.Formats))
	for i, format := range policyfile.Formats {
		names[i] = string(format)
	}
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Read the policy from a file (.aci, .yaml, .json, .hcl); - for stdin")
	cmd.Flags().StringVar(&f.format, "input-format", "", fmt.Sprintf("Format of stdin input (%s)", strings.Join(names, ", ")))
}

// readPolicy resolves the input policy from arguments, a file or stdin.
// Skipped ACI constructs fail the read in strict mode and are logged otherwise.
func readPolicy(cmd *cobra.Command, args []string, in inputFlags) (aci.Policy, error) {
	p, report, err := readPolicyReport(cmd, args, in)
	if err != nil {
		return aci.Policy{}, err
	}
	if in.strict {
		if err := report.Err(); err != nil {
			return aci.Policy{}, err
		}
	}
	for _, s := range report.Skipped {
		logger.Warn("ACI part left out", "reason", s.Reason.String(), "text", s.Text, "offset", s.Pos)
	}
	return p, nil
}

// readPolicyReport is readPolicy returning the parse report instead of acting on it
func readPolicyReport(cmd *cobra.Command, args []string, in inputFlags) (aci.Policy, aci.ParseReport, error) {
	tr := newTranslator()

	switch {
	case in.file != "" && in.file != "-":
		p, err := policyfile.Load(in.file)
		if err != nil {
			return aci.Policy{}, aci.ParseReport{}, err
		}
		var report aci.ParseReport
		if p.RawText != "" {
			p, report = tr.Inspect(p.RawText)
		}
		logger.Debug("loaded policy file", "file", in.file, "targets", len(p.Targets), "conditions", len(p.Bind.Conditions))
		return p, report, nil

	case len(args) > 0:
		p, report := tr.Inspect(strings.Join(args, " "))
		return p, report, nil

	case in.file == "-" || !isTerminal(cmd.InOrStdin()):
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return aci.Policy{}, aci.ParseReport{}, projecterrors.NewFileError("read", "stdin", err)
		}
		if len(strings.TrimSpace(string(data))) == 0 {
			return aci.Policy{}, aci.ParseReport{}, projecterrors.ErrNoInput
		}

		format := policyfile.FormatACI
		if in.format != "" {
			if format, err = policyfile.ParseFormat(in.format); err != nil {
				return aci.Policy{}, aci.ParseReport{}, err
			}
		}
		if format == policyfile.FormatACI {
			p, report := tr.Inspect(strings.TrimSpace(string(data)))
			return p, report, nil
		}
		p, err := policyfile.Decode(data, format)
		if err != nil {
			return aci.Policy{}, aci.ParseReport{}, projecterrors.WrapFileError("decode", "stdin", err)
		}
		return p, aci.ParseReport{}, nil
	}

	return aci.Policy{}, aci.ParseReport{}, projecterrors.ErrNoInput
}

// isTerminal reports whether r is an interactive terminal
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// isInteractiveMode determines if we should use interactive mode based on flags and TTY
func isInteractiveMode(interactive bool, hasArgs bool, hasRequiredFlags bool) bool {
	// Use interactive mode if:
	// 1. Explicitly requested with -i flag
	// 2. No arguments/required flags provided AND we have a TTY
	return interactive || (!hasArgs && !hasRequiredFlags && term.IsTerminal(int(os.Stdin.Fd())))
}

// printSuccessMessage prints a success message with green checkmark
func printSuccessMessage(w io.Writer, message string, args ...interface{}) {
	fmt.Fprintln(w, color.GreenString("✓ "+message, args...))
}

// printFailedMessage prints a failure message with red cross
func printFailedMessage(w io.Writer, message string, args ...interface{}) {
	fmt.Fprintln(w, color.RedString("× "+message, args...))
}

// wrapError wraps an error with context information
func wrapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}
