package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/acro/internal/complete"
	"github.com/zjrosen/acro/internal/presentation"
)

var (
	completeLine   string
	completeColumn int
	completeRemote string
	completeJSON   bool
)

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Suggest acronym completions for a line being edited",
	Long: `Print completion candidates for the reference under the cursor.

--col counts characters (grapheme clusters) from 0, the way editors report
cursor positions. Without --col the cursor is at the end of the line.
With --json each candidate carries the byte range to replace, the text to
insert, and the edited line, so editor integrations can apply it directly.

Examples:
  acro complete --line 'see [+na'
  acro complete --line 'the [+plos]{.sh' --json
  acro complete --line '+plos.s and more' --col 7`,
	Args: cobra.NoArgs,
	RunE: runComplete,
}

func init() {
	rootCmd.AddCommand(completeCmd)
	completeCmd.Flags().StringVarP(&completeLine, "line", "l", "", "the line being edited")
	completeCmd.Flags().IntVar(&completeColumn, "col", -1, "cursor column in characters (default: end of line)")
	completeCmd.Flags().StringVar(&completeRemote, "remote", "", "complete against a running 'acro serve' instead of the file")
	completeCmd.Flags().BoolVar(&completeJSON, "json", false, "output JSON")
	_ = completeCmd.MarkFlagRequired("line")
}

func runComplete(cmd *cobra.Command, _ []string) error {
	cleanupLog, err := initLogging("acro-complete", false)
	if err != nil {
		return err
	}
	defer cleanupLog()

	q, cleanup, err := openQuerier(cmd.Context(), completeRemote)
	if err != nil {
		return err
	}
	defer cleanup()

	cursor := len(completeLine)
	if completeColumn >= 0 {
		cursor = complete.ColumnOffset(completeLine, completeColumn)
	}
	items := complete.Complete(complete.Context{
		Line:   completeLine,
		Cursor: cursor,
		Source: q,
	}, complete.Default...)

	return presentation.NewFormatter(cmd.OutOrStdout(), completeJSON).
		FormatCompletions(presentation.FromCompletions(completeLine, items))
}
