package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/gateplane-io/aci-cli/pkg/models"
)

func schemaCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Generate the JSON schema of policy documents",
		Long: `Generate a JSON schema for YAML and JSON policy documents, usable for editor
completion and validation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reflector := jsonschema.Reflector{
				AllowAdditionalProperties: false,
				DoNotReference:            true,
			}

			schema := reflector.Reflect(&models.PolicyDocument{})
			schema.Version = "https://json-schema.org/draft/2020-12/schema"
			schema.Title = "ACI policy document"
			schema.Description = "Structured form of a directory server Access Control Instruction"

			schemaJSON, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return wrapError("generate schema", err)
			}

			if file != "" {
				if err := os.WriteFile(file, append(schemaJSON, '\n'), 0644); err != nil {
					return wrapError("write schema file", err)
				}
				printSuccessMessage(cmd.ErrOrStderr(), "JSON schema written to %s", file)
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(schemaJSON))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Output file (default: stdout)")
	return cmd
}
