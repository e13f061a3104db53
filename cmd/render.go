package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/acro/internal/presentation"
	"github.com/zjrosen/acro/internal/render"
)

var (
	renderStyle  string
	renderRemote string
	renderStrict bool
	renderJSON   bool
)

// errUnresolved is returned by --strict when a document has unknown references.
var errUnresolved = errors.New("document has unresolved acronyms")

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Replace acronym references in a document",
	Long: `Read a document (or stdin when no file or "-" is given), replace every
[+ID]{.class} and +ID reference with its expansion, and write the result
to stdout. Unknown references are kept as written and reported on stderr.

Examples:
  acro render notes.md
  cat notes.md | acro render --style plain
  acro render notes.md --strict     # exit non-zero on unknown acronyms`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVar(&renderStyle, "style", "", `"ansi" or "plain" (overrides render.style)`)
	renderCmd.Flags().StringVar(&renderRemote, "remote", "", "resolve against a running 'acro serve' instead of the file")
	renderCmd.Flags().BoolVar(&renderStrict, "strict", false, "fail when any reference is unknown")
	renderCmd.Flags().BoolVar(&renderJSON, "json", false, "report unknown references on stderr as JSON")
}

func runRender(cmd *cobra.Command, args []string) error {
	cleanupLog, err := initLogging("acro-render", false)
	if err != nil {
		return err
	}
	defer cleanupLog()

	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	doc, err := readDocument(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	q, cleanup, err := openQuerier(cmd.Context(), renderRemote)
	if err != nil {
		return err
	}
	defer cleanup()

	style := renderStyle
	if style == "" {
		style = cfg.Render.Style
	}
	res := render.RenderContext(cmd.Context(), doc, q, render.Options{Style: render.ParseStyle(style)})

	if _, err := io.WriteString(cmd.OutOrStdout(), res.Text); err != nil {
		return err
	}
	if len(res.Unknown) > 0 {
		name := path
		if name == "-" {
			name = "<stdin>"
		}
		f := presentation.NewFormatter(cmd.ErrOrStderr(), renderJSON)
		if err := f.FormatUnknowns(name, presentation.FromUnknowns(doc, res.Unknown)); err != nil {
			return err
		}
		if renderStrict {
			return fmt.Errorf("%s: %w (%d)", name, errUnresolved, len(res.Unknown))
		}
	}
	return nil
}

func readDocument(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // G304: document path from the command line
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
