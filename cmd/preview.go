package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/acro/internal/preview"
	"github.com/zjrosen/acro/internal/query"
	"github.com/zjrosen/acro/internal/render"
)

var (
	previewMarkdown bool
	previewStyle    string
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Live preview of a document with acronyms resolved",
	Long: `Open a full-screen preview of a document with every acronym reference
resolved. The glossary is watched and the preview re-renders whenever it
is reloaded.

Keys: r re-reads the document, u lists unknown references, ? shows help,
q quits.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().BoolVarP(&previewMarkdown, "markdown", "m", false, "render the resolved document as markdown")
	previewCmd.Flags().StringVar(&previewStyle, "style", "", `"ansi" or "plain" (overrides render.style)`)
}

func runPreview(cmd *cobra.Command, args []string) error {
	// stderr belongs to the terminal UI, so logs only ever go to a file.
	cleanupLog, err := initLogging("acro-preview", true)
	if err != nil {
		return err
	}
	defer cleanupLog()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	prov, err := bootProvider(ctx, cfg.Glossary.Watch)
	if err != nil {
		return err
	}
	defer func() { _ = prov.Shutdown(context.Background()) }()

	cached := query.NewInMemoryCached(prov.Store(), cfg.Cache.TTL, cfg.Cache.Enabled)

	style := previewStyle
	if style == "" {
		style = cfg.Render.Style
	}
	if err := preview.Run(ctx, preview.Config{
		Path:     args[0],
		Querier:  cached,
		Reloads:  prov.Store(),
		Markdown: previewMarkdown,
		Style:    render.ParseStyle(style),
	}); err != nil {
		return fmt.Errorf("running preview: %w", err)
	}
	return nil
}
