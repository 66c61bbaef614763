package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("a\n1\n"), 0644))
	}
}

func TestFindCSVFiles(t *testing.T) {
	tempDir := t.TempDir()
	createFiles(t, tempDir, "2agosto.csv", "1mayo.csv", "notes.txt", "UPPER.CSV", filepath.Join("sub", "nested.csv"))

	tests := []struct {
		name      string
		base      string
		dir       string
		wantNames []string
		wantErr   bool
	}{
		{
			name:      "absolute directory",
			dir:       tempDir,
			wantNames: []string{"1mayo.csv", "2agosto.csv", "UPPER.CSV"},
		},
		{
			name:      "relative to base path",
			base:      tempDir,
			dir:       "sub",
			wantNames: []string{"nested.csv"},
		},
		{
			name:    "missing directory",
			dir:     filepath.Join(tempDir, "absent"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := NewDiscovery(tt.base).FindCSVFiles(tt.dir)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var names []string
			for _, f := range found {
				names = append(names, f.Name)
				assert.Equal(t, int64(4), f.Size)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestFindFilesByPattern(t *testing.T) {
	tempDir := t.TempDir()
	createFiles(t, tempDir, "part_2.csv", "part_1.csv", "other.csv")
	require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "part_dir.csv"), 0755))

	found, err := NewDiscovery(tempDir).FindFilesByPattern("part_*.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(tempDir, "part_1.csv"),
		filepath.Join(tempDir, "part_2.csv"),
	}, Paths(found))

	_, err = NewDiscovery(tempDir).FindFilesByPattern("[")
	assert.Error(t, err)
}

func TestIsCSVAndIsGlob(t *testing.T) {
	assert.True(t, IsCSV("a.csv"))
	assert.True(t, IsCSV("A.CSV"))
	assert.False(t, IsCSV("a.csv.gz"))

	assert.True(t, IsGlob("data/*.csv"))
	assert.True(t, IsGlob("part_?.csv"))
	assert.False(t, IsGlob("data/1mayo - agosto 2021.csv"))
}
