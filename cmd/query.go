package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/acro/internal/presentation"
	"github.com/zjrosen/acro/internal/query"
)

var (
	queryRemote string
	queryJSON   bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <id> [class...]",
	Short: "Resolve one acronym",
	Long: `Resolve an acronym with optional classes and print the result.

Classes may be given with or without their leading dot.

Examples:
  acro resolve plos                 # Public Library of Science (PLOS)
  acro resolve plos .pl             # Public Library of Sciences (PLOSs)
  acro resolve NATO long --remote localhost:19998`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every acronym",
	Long: `List every acronym with its full expansion.

Examples:
  acro list
  acro list --json | jq '.[].id'`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List every class usable in {.class} modifiers",
	Args:  cobra.NoArgs,
	RunE:  runClasses,
}

func init() {
	for _, c := range []*cobra.Command{resolveCmd, listCmd, classesCmd} {
		c.Flags().StringVar(&queryRemote, "remote", "", "query a running 'acro serve' at this address instead of the file")
		rootCmd.AddCommand(c)
	}
	listCmd.Flags().BoolVar(&queryJSON, "json", false, "output JSON")
	classesCmd.Flags().BoolVar(&queryJSON, "json", false, "output JSON")
}

// classArgs strips the optional leading dots from class arguments.
func classArgs(args []string) []string {
	classes := make([]string, 0, len(args))
	for _, a := range args {
		if c := strings.TrimPrefix(a, "."); c != "" {
			classes = append(classes, c)
		}
	}
	return classes
}

func runResolve(cmd *cobra.Command, args []string) error {
	cleanupLog, err := initLogging("acro-resolve", false)
	if err != nil {
		return err
	}
	defer cleanupLog()

	id, classes := args[0], classArgs(args[1:])
	if queryRemote != "" {
		text, err := query.NewClient(queryRemote).ResolveContext(cmd.Context(), id, classes)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", id, err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	}

	q, cleanup, err := openQuerier(cmd.Context(), "")
	if err != nil {
		return err
	}
	defer cleanup()

	text, ok := q.Resolve(id, classes)
	if !ok {
		return fmt.Errorf("resolving %s: %w", id, query.ErrUnknownAcronym)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}

func runList(cmd *cobra.Command, _ []string) error {
	cleanupLog, err := initLogging("acro-list", false)
	if err != nil {
		return err
	}
	defer cleanupLog()

	if queryRemote != "" {
		items, err := query.NewClient(queryRemote).ListAcronymsContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing acronyms: %w", err)
		}
		return presentation.NewFormatter(cmd.OutOrStdout(), queryJSON).FormatAcronyms(presentation.FromSummaries(items))
	}

	q, cleanup, err := openQuerier(cmd.Context(), "")
	if err != nil {
		return err
	}
	defer cleanup()
	return presentation.NewFormatter(cmd.OutOrStdout(), queryJSON).FormatAcronyms(presentation.FromSummaries(q.ListAcronyms()))
}

func runClasses(cmd *cobra.Command, _ []string) error {
	cleanupLog, err := initLogging("acro-classes", false)
	if err != nil {
		return err
	}
	defer cleanupLog()

	var classes []string
	if queryRemote != "" {
		classes, err = query.NewClient(queryRemote).ListClassesContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing classes: %w", err)
		}
	} else {
		q, cleanup, err := openQuerier(cmd.Context(), "")
		if err != nil {
			return err
		}
		defer cleanup()
		classes = q.ListClasses()
	}
	return presentation.NewFormatter(cmd.OutOrStdout(), queryJSON).FormatClasses(classes)
}
