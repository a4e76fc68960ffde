package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/phishdefense/internal/catalog"
	"github.com/vytor/phishdefense/internal/models"
)

func TestPrintScores(t *testing.T) {
	var buf bytes.Buffer
	err := printScores(&buf, []models.ScoreRecord{
		{When: time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC), Score: 9, Total: 10, Hard: true},
		{When: time.Date(2025, 1, 1, 3, 4, 0, 0, time.UTC), Score: 4, Total: 10},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "9/10")
	assert.Contains(t, out, "hard")
	assert.Contains(t, out, "4/10")
	assert.Contains(t, out, "normal")
}

func TestPrintScores_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printScores(&buf, nil))
	assert.Equal(t, "No rounds played yet.\n", buf.String())
}

func TestPrintCatalog(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printCatalog(&buf, cat, false))
	assert.Contains(t, buf.String(), "12 scenarios")

	buf.Reset()
	require.NoError(t, printCatalog(&buf, cat, true))
	assert.Contains(t, buf.String(), "14 scenarios")
	assert.Contains(t, buf.String(), "url_clean")
}

func TestPrintScenario(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	q, ok := cat.Lookup("url_clean")
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, printScenario(&buf, q))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "url_clean ("), out)
	assert.Contains(t, out, "Answer: legit")
	assert.Contains(t, out, q.Explanation)
}

func TestRunCatalog_UnknownID(t *testing.T) {
	err := runCatalog(catalogCmd, []string{"nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "play", "scores", "catalog"} {
		assert.True(t, names[want], want)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("db"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("log-level"))
}
