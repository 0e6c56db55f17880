// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/toeirei/keywallet/internal/core"
	"github.com/toeirei/keywallet/internal/i18n"
	"github.com/toeirei/keywallet/internal/model"
	"github.com/toeirei/keywallet/internal/security"
	"github.com/toeirei/keywallet/internal/tui"
)

// pickWallet and copyToClipboard are replaced in tests.
var (
	pickWallet      = tui.PickWallet
	copyToClipboard = clipboard.WriteAll
)

func newWalletCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "wallet",
		Aliases: []string{"w"},
		Short:   "Create, import and manage wallets",
	}
	cmd.AddCommand(
		newWalletCreateCmd(a),
		newWalletImportCmd(a),
		newWalletListCmd(a),
		newWalletSwitchCmd(a),
		newWalletRenameCmd(a),
		newWalletDeleteCmd(a),
		newWalletBackupCmd(a),
		newWalletRestoreCmd(a),
		newWalletAddressCmd(a),
		newWalletExportKeyCmd(a),
	)
	return cmd
}

// switchFlag turns --switch / --switch=false into a tri-state.
func switchFlag(cmd *cobra.Command) *bool {
	if !cmd.Flags().Changed("switch") {
		return nil
	}
	v, _ := cmd.Flags().GetBool("switch")
	return &v
}

// nameArg returns args[0], asking for it when absent so that password
// retries do not ask for the name again.
func (a *app) nameArg(args []string, label string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return a.prompter.Input(i18n.T(label))
}

func (a *app) reportStored(info core.WalletInfo) {
	printf(a.stdout, "wallet.stored", info.Name, info.Address)
	if info.IsCurrent {
		printf(a.stdout, "wallet.now_current", info.Name)
	}
}

func newWalletCreateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Generate a new key pair",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := a.nameArg(args, "prompt.wallet_name")
			if err != nil {
				return err
			}
			req := core.CreateRequest{Name: name, SwitchTo: switchFlag(cmd)}
			var info core.WalletInfo
			err = a.withPasswordRetry(func() error {
				var err error
				info, err = a.wallets.Create(req)
				return err
			})
			if err != nil {
				return err
			}
			a.reportStored(info)
			return nil
		},
	}
	cmd.Flags().Bool("switch", false, "make the new wallet current (asked when omitted)")
	return cmd
}

func newWalletImportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [name]",
		Short: "Import a raw private key",
		Long: `Imports a hex-encoded secp256k1 private key. The key is read from
--key-file when given, otherwise it is asked for without echo.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rawKey security.Secret
			if path, _ := cmd.Flags().GetString("key-file"); path != "" {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read key file: %w", err)
				}
				rawKey = security.FromBytes([]byte(strings.TrimSpace(string(data))))
				security.Wipe(data)
			} else if a.passwordStdin {
				return errors.New(i18n.T("wallet.key_file_required"))
			} else {
				var err error
				if rawKey, err = a.prompter.Password(i18n.T("prompt.private_key")); err != nil {
					return err
				}
			}
			defer rawKey.Zero()
			if _, err := core.ParsePrivateKey(rawKey); err != nil {
				return err
			}

			name, err := a.nameArg(args, "prompt.wallet_name")
			if err != nil {
				return err
			}
			req := core.CreateRequest{Name: name, SwitchTo: switchFlag(cmd)}
			var info core.WalletInfo
			err = a.withPasswordRetry(func() error {
				var err error
				info, err = a.wallets.Import(rawKey, req)
				return err
			})
			if err != nil {
				return err
			}
			a.reportStored(info)
			return nil
		},
	}
	cmd.Flags().Bool("switch", false, "make the imported wallet current (asked when omitted)")
	cmd.Flags().String("key-file", "", "read the private key from this file")
	return cmd
}

func newWalletListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List wallets",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.wallets.List()
			if err != nil {
				return err
			}
			fmt.Fprint(a.stdout, tui.RenderWallets(list))
			return nil
		},
	}
}

func newWalletSwitchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "switch [name]",
		Short: "Change the current wallet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) > 0 {
				name = args[0]
			} else if stdinIsTerminal() {
				list, err := a.wallets.List()
				if err != nil {
					return err
				}
				if len(list) < 2 {
					return model.ErrNoOtherWallet
				}
				if name, err = pickWallet(list, cmd.InOrStdin(), a.stderr); err != nil {
					if errors.Is(err, tui.ErrCancelled) {
						return model.ErrAborted
					}
					return err
				}
			}
			if err := a.wallets.Switch(name); err != nil {
				return err
			}
			cur, err := a.wallets.Current()
			if err != nil {
				return err
			}
			printf(a.stdout, "wallet.now_current", cur.Name)
			return nil
		},
	}
}

func newWalletRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> [new]",
		Short: "Rename a wallet",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			newName := ""
			if len(args) == 2 {
				newName = args[1]
			}
			if err := a.wallets.Rename(args[0], newName); err != nil {
				return err
			}
			printf(a.stdout, "wallet.renamed", args[0])
			return nil
		},
	}
}

func newWalletDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a wallet that is not current",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			if err := a.wallets.Delete(args[0], force); err != nil {
				return err
			}
			printf(a.stdout, "wallet.deleted", args[0])
			return nil
		},
	}
	cmd.Flags().BoolP("force", "f", false, "do not ask for confirmation")
	return cmd
}

func newWalletBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backup [path]",
		Short: "Copy the wallet file to a backup",
		Long: `Writes the complete wallet file to path. A directory receives
wallet-backup-YYYY-MM-DD.json. Paths ending in .zst are zstd-compressed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			out, err := a.wallets.Backup(path)
			if err != nil {
				return err
			}
			printf(a.stdout, "wallet.backup_written", out)
			return nil
		},
	}
}

func newWalletRestoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <path>",
		Short: "Replace the wallet file with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			n, err := a.wallets.Restore(args[0], force)
			if err != nil {
				return err
			}
			printf(a.stdout, "wallet.restored", n, args[0])
			return nil
		},
	}
	cmd.Flags().BoolP("force", "f", false, "do not ask for confirmation")
	return cmd
}

func newWalletAddressCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address [name]",
		Short: "Print the address of a wallet (default: current)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			addr, err := a.wallets.AddressOf(name)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, addr)
			if cp, _ := cmd.Flags().GetBool("copy"); cp {
				if err := copyToClipboard(addr); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				printf(a.stderr, "wallet.copied")
			}
			return nil
		},
	}
	cmd.Flags().BoolP("copy", "c", false, "also copy the address to the clipboard")
	return cmd
}

func newWalletExportKeyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-key [name]",
		Short: "Print the raw private key of a wallet (default: current)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			confirmed, _ := cmd.Flags().GetBool("force")
			var raw security.Secret
			err := a.withPasswordRetry(func() error {
				var err error
				raw, err = a.wallets.ExportKey(name, nil, confirmed)
				if !errors.Is(err, model.ErrAborted) {
					confirmed = true
				}
				return err
			})
			if err != nil {
				return err
			}
			defer raw.Zero()
			fmt.Fprintln(a.stdout, "0x"+raw.Hex())
			return nil
		},
	}
	cmd.Flags().BoolP("force", "f", false, "do not ask for confirmation")
	return cmd
}
