package db

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithPragmas(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		base    string
		want    map[string]string
		missing []string
	}{
		{
			name:    "memory skips WAL",
			dsn:     ":memory:",
			base:    ":memory:",
			want:    map[string]string{"_busy_timeout": "5000", "_foreign_keys": "on"},
			missing: []string{"_journal_mode"},
		},
		{
			name: "file gets WAL",
			dsn:  "file:quiz.db",
			base: "file:quiz.db",
			want: map[string]string{"_journal_mode": "WAL", "_synchronous": "NORMAL"},
		},
		{
			name: "caller options win",
			dsn:  "file:quiz.db?_busy_timeout=100&mode=ro",
			base: "file:quiz.db",
			want: map[string]string{"_busy_timeout": "100", "mode": "ro", "_foreign_keys": "on"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, raw, ok := strings.Cut(withPragmas(tt.dsn), "?")
			require.True(t, ok)
			assert.Equal(t, tt.base, base)

			q, err := url.ParseQuery(raw)
			require.NoError(t, err)
			for k, v := range tt.want {
				assert.Equal(t, v, q.Get(k), k)
			}
			for _, k := range tt.missing {
				assert.False(t, q.Has(k), k)
			}
		})
	}
}
