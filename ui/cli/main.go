// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface for keywallet using Cobra. It
// defines the root command, the global flags and the per-invocation wiring of
// config, logging, i18n, the wallet store and the prompter.

package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/toeirei/keywallet/buildvars"
	"github.com/toeirei/keywallet/internal/addressbook"
	"github.com/toeirei/keywallet/internal/config"
	"github.com/toeirei/keywallet/internal/core"
	"github.com/toeirei/keywallet/internal/i18n"
	"github.com/toeirei/keywallet/internal/logging"
	"github.com/toeirei/keywallet/internal/prompt"
	"github.com/toeirei/keywallet/internal/state"
	"github.com/toeirei/keywallet/internal/store"
	"golang.org/x/term"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)

// newPrompter builds the prompter for a command. Tests replace it.
var newPrompter = func(cmd *cobra.Command) prompt.Prompter {
	return prompt.NewTerminal(os.Stdin, cmd.ErrOrStderr())
}

// stdinIsTerminal gates the interactive wallet picker. Tests replace it.
var stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }

// app is the state of one invocation. It is filled by setup before any
// subcommand runs.
type app struct {
	cfgFile       string
	verbose       bool
	passwordStdin bool

	stdout io.Writer
	stderr io.Writer

	cfg      config.Config
	gateway  *store.Gateway
	prompter prompt.Prompter
	wallets  *core.WalletManager
	book     *addressbook.Book
}

func (a *app) setup(cmd *cobra.Command) error {
	a.stdout, a.stderr = cmd.OutOrStdout(), cmd.ErrOrStderr()
	var cfgFile *string
	if a.cfgFile != "" {
		if _, err := os.Stat(a.cfgFile); err != nil {
			return fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
		}
		cfgFile = &a.cfgFile
	}
	cfg, err := config.LoadConfig[config.Config](cmd, config.Defaults(), cfgFile)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	a.cfg = cfg

	i18n.Init(cfg.Language)

	level := cfg.Log.Level
	if a.verbose {
		level = "debug"
	}
	if err := logging.SetLevel(level); err != nil {
		logging.Warnf("ignoring log level %q: %v", level, err)
	}

	if a.passwordStdin {
		if err := state.PasswordCache.LoadFrom(cmd.InOrStdin()); err != nil {
			return err
		}
	}

	path, err := cfg.StorePath()
	if err != nil {
		return err
	}
	logging.Debugf("using wallet file %s", path)

	a.gateway = store.New(path)
	a.prompter = newPrompter(cmd)
	a.wallets = core.NewWalletManager(a.gateway, a.prompter, core.WithCompressedBackups(cfg.Backup.Compress))
	a.book = addressbook.New(a.gateway, a.prompter)
	return nil
}

// teardown drops any password read from stdin.
func (a *app) teardown() {
	state.PasswordCache.Clear()
}

// Execute runs the CLI entrypoint. The main package should call this
// function and handle process exit.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func NewRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "keywallet",
		Short: "Keywallet keeps encrypted signing keys in a local wallet file.",
		Long: `Keywallet stores named secp256k1 key pairs, each encrypted under its own
password, in a single JSON file. One wallet is "current" and is used by
default. A separate address book keeps labelled reference addresses.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
	}

	v, c, d := resolveBuildVersion(nil)
	compositeVersion := v
	if c != "" && c != "dev" {
		compositeVersion = compositeVersion + " (" + c + ")"
	}
	if d != "" {
		compositeVersion = compositeVersion + " built: " + d
	}
	cmd.Version = compositeVersion

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file")
	pf.String("store", "", "wallet file (overrides store.path)")
	config.BindFlag(pf, "store", "store.path")
	pf.String("profile", "", "use wallets-<profile>.json next to the default wallet file")
	config.BindFlag(pf, "profile", "store.profile")
	pf.String("language", "", `message language ("en", "de")`)
	config.BindFlag(pf, "language", "language")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&a.passwordStdin, "password-stdin", false, "read the password from the first line of stdin")

	cmd.AddCommand(
		newWalletCmd(a),
		newBookCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s\n", v)
			fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If `info` is nil, it reads build info from
// the runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		if local, found := debug.ReadBuildInfo(); found {
			info = local
		}
	}

	if info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		if (resolvedVersion == "dev" || resolvedVersion == "(devel)") && info.Deps != nil {
			for _, dep := range info.Deps {
				if dep.Path == "github.com/toeirei/keywallet" && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}
	return resolvedVersion, resolvedCommit, resolvedDate
}

// printf writes a localized line to w.
func printf(w io.Writer, id string, args ...interface{}) {
	fmt.Fprintln(w, i18n.T(id, args...))
}
