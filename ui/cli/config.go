// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/toeirei/keywallet/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or write the configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(a.stdout, string(data))
			path, err := a.cfg.StorePath()
			if err != nil {
				return err
			}
			printf(a.stdout, "config.store_path", path)
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to keywallet.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			system, _ := cmd.Flags().GetBool("system")
			path, err := config.WriteConfigFile(&a.cfg, system)
			if err != nil {
				return err
			}
			printf(a.stdout, "config.written", path)
			return nil
		},
	}
	initCmd.Flags().Bool("system", false, "write the system-wide file instead of the user file")

	cmd.AddCommand(show, initCmd)
	return cmd
}
