package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/acro/internal/config"
	"github.com/zjrosen/acro/internal/glossary"
)

var useCmd = &cobra.Command{
	Use:   "use <glossary.yaml>",
	Short: "Make a glossary file the default",
	Long: `Check that a glossary file parses and store its path as glossary.path in
the active config file. Comments and other settings in the config are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runUse,
}

func init() {
	rootCmd.AddCommand(useCmd)
}

func runUse(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(config.ExpandPath(args[0]))
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: glossary path from the command line
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	db, err := glossary.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	target := configFilePath()
	if err := config.SaveGlossaryPath(target, path); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Using %s (%d acronyms), saved to %s\n", path, db.Len(), target)
	return err
}
