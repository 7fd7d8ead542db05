// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/mm-cyberlabs/open-team-sub000/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// resolveConfigFile returns the explicit --config path when given, otherwise
// the XDG config file if one exists. An empty result means defaults plus
// flags and environment.
func resolveConfigFile() string {
	if configFile != "" {
		return configFile
	}
	return xdg.DefaultConfigFile()
}

// NewRootCmd creates the root command for the OpenTeam CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "openteam",
		Short: "OpenTeam - team communication and deployment tracking",
		Long: `OpenTeam is a team communication hub with announcements, activity
tracking, target dates, and deployment records, fronted by a token
authenticated REST API.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSweepCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewCreateUserCmd())

	return cmd
}
