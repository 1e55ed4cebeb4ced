package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"idup/internal/app"
	"idup/internal/config"
	"idup/internal/idup"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errNotImplemented = errors.New("not implemented")

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults when it does
// not exist. It returns the config path alongside the config.
func loadConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.Load(defaults["config_path"], config.NewConfig(app.DefaultHostID(), defaults["base_dir"]))
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults["config_path"], nil
}

// newApp reads the config and creates an IdupApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Scan", "List").
func newApp(cmd *cobra.Command, operation string) (*app.IdupApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	a, err := app.NewIdupApp(cfg, operation, verbose)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// readPassphrase prompts on the terminal without echo.
func readPassphrase(prompt string) func() (string, error) {
	return func() (string, error) {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return "", fmt.Errorf("a passphrase is required but stdin is not a terminal")
		}
		fmt.Fprint(os.Stderr, prompt)
		pass, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(pass), nil
	}
}

// readNewPassphrase prompts twice and requires both entries to match.
func readNewPassphrase() (string, error) {
	first, err := readPassphrase("New snapshot passphrase: ")()
	if err != nil {
		return "", err
	}
	second, err := readPassphrase("Confirm passphrase: ")()
	if err != nil {
		return "", err
	}
	if first != second {
		return "", fmt.Errorf("passphrases do not match")
	}
	return first, nil
}

var rootCmd = &cobra.Command{
	Use:          "idup",
	Short:        "Find duplicate images",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(app.DefaultHostID(), defaults["base_dir"])
		encType, _ := cmd.Flags().GetString("encryption")
		cfg.Encryption.Type = encType

		if err := app.InitConfig(defaults["config_path"], cfg, readNewPassphrase); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Host ID:  %s\n", cfg.HostID)
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", path)
		printConfig(os.Stdout, cfg)
		return nil
	},
}

// scan command
var scanCmd = &cobra.Command{
	Use:   "scan PATH",
	Short: "Index the images under PATH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recursive, _ := cmd.Flags().GetBool("recursive")

		a, err := newApp(cmd, "Scan")
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := idup.ScanOptions{Recursive: recursive}
		var bar *progressbar.ProgressBar
		if term.IsTerminal(int(os.Stderr.Fd())) {
			bar = progressbar.Default(-1, "scanning")
			opts.Progress = func(idup.ScanEvent) { bar.Add(1) }
		}

		summary, err := a.Scan(ctx, args[0], opts)
		if bar != nil {
			bar.Finish()
			fmt.Fprintln(os.Stderr)
		}
		if summary != nil {
			printScanSummary(os.Stdout, summary)
		}
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		return nil
	},
}

// list command
var listCmd = &cobra.Command{
	Use:   "list [PATH]",
	Short: "List exact duplicates, of one file or of the whole index",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "List")
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 1 {
			matches, err := a.ExactMatch(args[0])
			if err != nil {
				return err
			}
			printMatches(os.Stdout, matches)
			return nil
		}

		groups, err := a.ExactMatches()
		if err != nil {
			return err
		}
		printGroups(os.Stdout, groups)
		return nil
	},
}

// info command
var infoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Show the stored hashes of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Info")
		if err != nil {
			return err
		}
		defer a.Close()

		info, err := a.Info(args[0])
		if err != nil {
			return err
		}
		printInfo(os.Stdout, info)
		return nil
	},
}

// compare command
var compareCmd = &cobra.Command{
	Use:   "compare FILE1 FILE2",
	Short: "Compare two images by perceptual hash",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Compare")
		if err != nil {
			return err
		}
		defer a.Close()

		cmp, err := a.Compare(args[0], args[1])
		if err != nil {
			return err
		}
		printComparison(os.Stdout, cmp)
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View scan history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd, "GetHistory")
		if err != nil {
			return err
		}
		defer a.Close()

		scans, err := a.GetHistory(limit)
		if err != nil {
			return err
		}
		printHistory(os.Stdout, scans)
		return nil
	},
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload a snapshot of the index to the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Backup")
		if err != nil {
			return err
		}
		defer a.Close()

		version, err := a.Backup()
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		fmt.Printf("Index snapshot uploaded (version %d)\n", version)
		return nil
	},
}

// restore command
var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace the local index with the latest vault snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		verbose, _ := cmd.Flags().GetBool("verbose")

		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		version, err := app.RestoreIndex(cfg, force, verbose, readPassphrase("Snapshot passphrase: "))
		if err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
		fmt.Printf("Index restored to %s (version %d)\n", cfg.Database.Path(), version)
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove index entries for files that no longer exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("clean: %w", errNotImplemented)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Rescan every previously scanned root",
	RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("update: %w", errNotImplemented)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug detail")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configInitCmd.Flags().String("encryption", "none", "Snapshot encryption: none or age")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolP("recursive", "r", false, "Recurse into subdirectories")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of scans to show")
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().Bool("force", false, "Overwrite an existing index")
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(updateCmd)
}
