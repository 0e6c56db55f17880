// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toeirei/keywallet/internal/addressbook"
	"github.com/toeirei/keywallet/internal/i18n"
	"github.com/toeirei/keywallet/internal/tui"
)

func newBookCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "book",
		Aliases: []string{"addressbook", "ab"},
		Short:   "Manage the address book",
	}
	cmd.AddCommand(
		newBookAddCmd(a),
		newBookViewCmd(a),
		newBookEditCmd(a),
		newBookDeleteCmd(a),
		newBookSearchCmd(a),
		newBookListCmd(a),
		newBookEncryptCmd(a),
		newBookDecryptCmd(a),
	)
	return cmd
}

func (a *app) printEntry(l addressbook.Listing) {
	printf(a.stdout, "book.entry_label", l.Label)
	printf(a.stdout, "book.entry_address", l.Address)
	if l.Notes != "" {
		printf(a.stdout, "book.entry_notes", l.Notes)
	}
}

func newBookAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <label> <address>",
		Short: "Add an address book entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, _ := cmd.Flags().GetString("notes")
			l, err := a.book.Add(args[0], args[1], notes)
			if err != nil {
				return err
			}
			printf(a.stdout, "book.added", l.Label, l.Address)
			return nil
		},
	}
	cmd.Flags().String("notes", "", "free-form notes")
	return cmd
}

func newBookViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view <label>",
		Short: "Show an entry, decrypting it when needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var l addressbook.Listing
			err := a.withPasswordRetry(func() error {
				var err error
				l, err = a.book.View(args[0], nil)
				return err
			})
			if err != nil {
				return err
			}
			a.printEntry(l)
			return nil
		},
	}
}

func newBookEditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <label>",
		Short: "Change label, address or notes of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u addressbook.Update
			for flag, dst := range map[string]**string{"label": &u.Label, "address": &u.Address, "notes": &u.Notes} {
				if cmd.Flags().Changed(flag) {
					v, _ := cmd.Flags().GetString(flag)
					*dst = &v
				}
			}
			if u.Label == nil && u.Address == nil && u.Notes == nil {
				return fmt.Errorf("%s", i18n.T("book.nothing_to_edit"))
			}
			l, err := a.book.Edit(args[0], u)
			if err != nil {
				return err
			}
			printf(a.stdout, "book.updated", l.Label)
			return nil
		},
	}
	cmd.Flags().String("label", "", "new label")
	cmd.Flags().String("address", "", "new address")
	cmd.Flags().String("notes", "", "new notes")
	return cmd
}

func newBookDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <label>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			if err := a.book.Delete(args[0], force); err != nil {
				return err
			}
			printf(a.stdout, "book.deleted", args[0])
			return nil
		},
	}
	cmd.Flags().BoolP("force", "f", false, "do not ask for confirmation")
	return cmd
}

func newBookSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find entries by label or address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.book.Search(args[0])
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				printf(a.stdout, "book.no_matches", args[0])
				return nil
			}
			fmt.Fprint(a.stdout, tui.RenderEntries(rows))
			return nil
		},
	}
}

func newBookListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all entries",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.book.List()
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				printf(a.stdout, "book.empty")
				return nil
			}
			fmt.Fprint(a.stdout, tui.RenderEntries(rows))
			return nil
		},
	}
}

func newBookEncryptCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt <label>",
		Short: "Seal an entry under its own password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.withPasswordRetry(func() error {
				return a.book.Encrypt(args[0], nil)
			})
			if err != nil {
				return err
			}
			printf(a.stdout, "book.encrypted", args[0])
			return nil
		},
	}
}

func newBookDecryptCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decrypt <label>",
		Short: "Open an encrypted entry and optionally store it decrypted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var keep *bool
			if cmd.Flags().Changed("keep") {
				v, _ := cmd.Flags().GetBool("keep")
				keep = &v
			}
			var l addressbook.Listing
			err := a.withPasswordRetry(func() error {
				var err error
				l, err = a.book.Decrypt(args[0], nil, keep)
				return err
			})
			if err != nil {
				return err
			}
			a.printEntry(l)
			if !l.Encrypted {
				printf(a.stdout, "book.kept_decrypted", l.Label)
			}
			return nil
		},
	}
	cmd.Flags().Bool("keep", false, "store the entry decrypted (asked when omitted)")
	return cmd
}
