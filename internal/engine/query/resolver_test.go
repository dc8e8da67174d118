package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name        string
		override    string
		fileContent *string
		expected    string
	}{
		{
			name:        "Override Wins Over File",
			override:    "SELECT 2",
			fileContent: strPtr("SELECT * FROM t"),
			expected:    "SELECT 2",
		},
		{
			name:     "Override Is Trimmed",
			override: "  SELECT 2 \n",
			expected: "SELECT 2",
		},
		{
			name:        "Blank Override Falls Back To File",
			override:    "   ",
			fileContent: strPtr("SELECT * FROM t  \n\n"),
			expected:    "SELECT * FROM t",
		},
		{
			name:        "File Contents Trimmed",
			fileContent: strPtr("\tSELECT * FROM t \n"),
			expected:    "SELECT * FROM t",
		},
		{
			name:     "Placeholder When Nothing Configured",
			expected: Placeholder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := filepath.Join(t.TempDir(), "final-query.sql")
			if tt.fileContent != nil {
				writeFile(t, source, *tt.fileContent)
			}

			got, err := NewResolver(tt.override, source).Resolve()

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolver_Resolve_ReadErrorPropagates(t *testing.T) {
	// A directory in place of the query file makes ReadFile fail with
	// something other than "not exist".
	source := t.TempDir()

	_, err := NewResolver("", source).Resolve()

	assert.Error(t, err)
}

func TestPersist_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target", "nested", "final-query.sql")

	abs, err := Persist(path, "SELECT 1")

	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", string(data))
}

func TestPersist_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "final-query.sql")
	writeFile(t, path, "old contents that are longer")

	_, err := Persist(path, "SELECT 2")

	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 2", string(data))
}

func strPtr(s string) *string { return &s }
