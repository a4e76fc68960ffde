package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/vytor/phishdefense/internal/catalog"
	"github.com/vytor/phishdefense/internal/models"
)

var catalogHard bool

var catalogCmd = &cobra.Command{
	Use:   "catalog [id]",
	Short: "List the quiz scenarios, or explain one of them",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		q, ok := cat.Lookup(args[0])
		if !ok {
			return fmt.Errorf("no scenario with id %q", args[0])
		}
		return printScenario(cmd.OutOrStdout(), q)
	}
	return printCatalog(cmd.OutOrStdout(), cat, catalogHard)
}

func printScenario(w io.Writer, q models.Question) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)\n\n%s\n\n", q.ID, q.Kind, q.Prompt)
	fmt.Fprintf(&sb, "Answer: %s\n", models.VerdictLabel(q.IsPhishing))
	for _, c := range q.Clues {
		fmt.Fprintf(&sb, "  - %s\n", c)
	}
	if q.Explanation != "" {
		fmt.Fprintf(&sb, "\n%s\n", q.Explanation)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func printCatalog(w io.Writer, cat *catalog.Catalog, hard bool) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "KIND", "ANSWER", "PROMPT")
	for _, q := range cat.Candidates(hard) {
		t.Row(q.ID, q.Kind, models.VerdictLabel(q.IsPhishing), truncate(q.Prompt, 60))
	}
	_, err := fmt.Fprintf(w, "%s\n%d scenarios\n", t.Render(), cat.Size(hard))
	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
