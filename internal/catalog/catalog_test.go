package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/phishdefense/internal/catalog"
)

func TestDefault(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	assert.Len(t, c.Base, 12)
	assert.Len(t, c.Advanced, 2)
	assert.Equal(t, 12, c.Size(false))
	assert.Equal(t, 14, c.Size(true))

	ids := make(map[string]bool)
	for _, q := range c.Candidates(true) {
		assert.False(t, ids[q.ID], "duplicate id %s", q.ID)
		ids[q.ID] = true
		assert.NotEmpty(t, q.Clues, "question %s should carry clues", q.ID)
		assert.NotEmpty(t, q.Explanation, "question %s should carry an explanation", q.ID)
	}
}

func TestDefault_GroundTruth(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	legit := []string{"sms_notify_no_link", "url_clean", "official_no_otp", "device_notice"}
	for _, id := range legit {
		q, ok := c.Lookup(id)
		require.True(t, ok, id)
		assert.False(t, q.IsPhishing, id)
	}

	q, ok := c.Lookup("param_exfil")
	require.True(t, ok)
	assert.True(t, q.IsPhishing)

	_, ok = c.Lookup("nope")
	assert.False(t, ok)
}

func TestCandidates_ReturnsCopy(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	cands := c.Candidates(false)
	cands[0].ID = "mutated"

	assert.NotEqual(t, "mutated", c.Base[0].ID)
}

func TestParse_DuplicateAcrossSets(t *testing.T) {
	_, err := catalog.Parse([]byte(`
base:
  - {id: a, kind: SMS, prompt: one}
advanced:
  - {id: a, kind: URL, prompt: two}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate id "a"`)
}

func TestParse_MissingFields(t *testing.T) {
	_, err := catalog.Parse([]byte(`
base:
  - {id: "", kind: "", prompt: ""}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id is required")
	assert.Contains(t, err.Error(), "kind is required")
	assert.Contains(t, err.Error(), "prompt is required")
}

func TestParse_Empty(t *testing.T) {
	c, err := catalog.Parse([]byte(`base: []`))
	require.NoError(t, err)
	assert.Empty(t, c.Candidates(true))
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := catalog.Parse([]byte("base: [unterminated"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base:
  - id: only
    kind: SMS
    prompt: hello
    is_phishing: true
`), 0o644))

	c, err := catalog.Load(path)
	require.NoError(t, err)
	require.Len(t, c.Base, 1)
	assert.True(t, c.Base[0].IsPhishing)

	def, err := catalog.Load("")
	require.NoError(t, err)
	assert.Len(t, def.Base, 12)

	_, err = catalog.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
