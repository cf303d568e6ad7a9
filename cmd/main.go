// Copyright (C) 2026 Ioannis Torakis <john.torakis@gmail.com>
// SPDX-License-Identifier: Elastic-2.0
//
// Licensed under the Elastic License 2.0.
// You may obtain a copy of the license at:
// https://www.elastic.co/licensing/elastic-license
//
// Use, modification, and redistribution permitted under the terms of the license,
// except for providing this software as a commercial service or product.

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gateplane-io/aci-cli/internal/config"
	"github.com/gateplane-io/aci-cli/internal/logger"
)

var (
	// Version information set by ldflags during build
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"

	outputFormat string
	logLevel     string
	noColor      bool
)

func newRootCmd() *cobra.Command {
	outputFormat, logLevel, noColor = "", "", false

	rootCmd := &cobra.Command{
		Use:   "acictl",
		Short: "Translate directory server ACIs to and from structured policies",
		Long: `acictl parses Access Control Instructions as stored in the aci attribute of
an LDAP directory, lets you edit them as structured policies (YAML, JSON or HCL)
and turns them back into canonical ACI text or LDIF change records.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Init(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error initializing config: %v\n", err)
			}
			cfg := config.GetConfig()

			if noColor {
				color.NoColor = true
				logger.DisableColor()
			}

			level := cfg.Logging.Level
			if logLevel != "" {
				level = logLevel
			}
			if err := logger.Init(logger.Config{Level: level, Format: cfg.Logging.Format}); err != nil {
				return wrapError("configure logging", err)
			}
			logger.Debug("configuration loaded", "file", config.File(), "profile", cfg.ActiveProfile)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format (table, json, yaml, text)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		parseCmd(),
		buildCmd(),
		validateCmd(),
		fmtCmd(),
		ldifCmd(),
		schemaCmd(),
		configCmd(),
		versionCmd(),
	)

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "acictl %s\n", Version)
			fmt.Fprintf(out, "Commit: %s\n", CommitHash)
			fmt.Fprintf(out, "Built: %s\n", BuildDate)
		},
	}
}
