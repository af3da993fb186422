package fsadapter

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jgivc/jncepweb/internal/common"
	"github.com/jgivc/jncepweb/internal/config"
	"github.com/jgivc/jncepweb/internal/entity"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const workDir = "/downloads"

type testFile struct {
	name    string
	content string
	age     time.Duration
}

func newTestAdapter(t *testing.T, files []testFile) (*fsAdapter, afero.Fs) {
	t.Helper()

	appCFG := &config.Config{}
	appCFG.SetDefaults()
	appCFG.ToolConfig.OutputDir = workDir

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(workDir, 0755))

	now := time.Now()
	for _, f := range files {
		path := filepath.Join(workDir, f.name)
		require.NoError(t, afero.WriteFile(fs, path, []byte(f.content), 0644))
		ts := now.Add(-f.age)
		require.NoError(t, fs.Chtimes(path, ts, ts))
	}

	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	return NewFSAdapterWithFS(fs, appCFG.BrowserCfg(), log), fs
}

func names(files []*entity.FileEntry) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.FullName)
	}

	return out
}

func TestListFiles(t *testing.T) {
	files := []testFile{
		{name: "Ascendance_of_a_Bookworm_Volume_1.epub", age: 3 * time.Hour},
		{name: "Ascendance_of_a_Bookworm_Volume_2.epub", age: 2 * time.Hour},
		{name: "Reborn_as_a_Vending_Machine_Volume_1.epub", age: time.Hour},
		{name: "description.md", content: "# Hello"},
	}

	testCases := []struct {
		name     string
		query    string
		expected []string
	}{
		{
			name:  "Empty query returns everything newest first",
			query: "",
			expected: []string{
				"Reborn_as_a_Vending_Machine_Volume_1.epub",
				"Ascendance_of_a_Bookworm_Volume_2.epub",
				"Ascendance_of_a_Bookworm_Volume_1.epub",
			},
		},
		{
			name:  "Query with spaces",
			query: "of a bookworm",
			expected: []string{
				"Ascendance_of_a_Bookworm_Volume_2.epub",
				"Ascendance_of_a_Bookworm_Volume_1.epub",
			},
		},
		{
			name:     "Case insensitive",
			query:    "VENDING",
			expected: []string{"Reborn_as_a_Vending_Machine_Volume_1.epub"},
		},
		{
			name:     "Underscore query",
			query:    "volume_2",
			expected: []string{"Ascendance_of_a_Bookworm_Volume_2.epub"},
		},
		{
			name:     "No match",
			query:    "overlord",
			expected: []string{},
		},
	}

	adapter, _ := newTestAdapter(t, files)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := adapter.ListFiles(workDir, tc.query)
			require.NoError(t, err)
			require.Equal(t, tc.expected, names(got))
		})
	}
}

func TestListFilesEntryFields(t *testing.T) {
	adapter, _ := newTestAdapter(t, []testFile{
		{name: "My_Series_Volume_3.epub", content: "12345"},
	})

	got, err := adapter.ListFiles(workDir, "")
	require.NoError(t, err)
	require.Len(t, got, 1)

	entry := got[0]
	require.Equal(t, "My_Series_Volume_3.epub", entry.FullName)
	require.Equal(t, "My Series Volume 3", entry.DisplayName)
	require.Equal(t, int64(5), entry.Size)
	require.Len(t, entry.ID, 40)
	require.False(t, entry.CreatedAt.IsZero())
}

func TestListFilesStableOrder(t *testing.T) {
	adapter, fs := newTestAdapter(t, []testFile{
		{name: "b.epub"},
		{name: "a.epub"},
		{name: "c.epub"},
	})

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, name := range []string{"a.epub", "b.epub", "c.epub"} {
		require.NoError(t, fs.Chtimes(filepath.Join(workDir, name), ts, ts))
	}

	first, err := adapter.ListFiles(workDir, "")
	require.NoError(t, err)

	for range 5 {
		again, err := adapter.ListFiles(workDir, "")
		require.NoError(t, err)
		require.Equal(t, names(first), names(again))
	}
}

func TestListFilesSkipsDirectories(t *testing.T) {
	adapter, fs := newTestAdapter(t, []testFile{{name: "a.epub"}})
	require.NoError(t, fs.MkdirAll(filepath.Join(workDir, "nested"), 0755))

	got, err := adapter.ListFiles(workDir, "")
	require.NoError(t, err)
	require.Equal(t, []string{"a.epub"}, names(got))
}

func TestListFilesMissingDirectory(t *testing.T) {
	adapter, _ := newTestAdapter(t, nil)

	_, err := adapter.ListFiles("/does/not/exist", "")
	require.ErrorIs(t, err, common.ErrFilesystem)
}

func TestOpen(t *testing.T) {
	adapter, fs := newTestAdapter(t, []testFile{{name: "a.epub", content: "epub"}})
	require.NoError(t, fs.MkdirAll(filepath.Join(workDir, "dir"), 0755))

	file, stat, err := adapter.Open(workDir, "a.epub")
	require.NoError(t, err)
	defer file.Close()
	require.Equal(t, int64(4), stat.Size())

	_, _, err = adapter.Open(workDir, "missing.epub")
	require.ErrorIs(t, err, common.ErrFileNotFoundError)

	_, _, err = adapter.Open(workDir, "dir")
	require.ErrorIs(t, err, common.ErrFileNotFoundError)

	for _, name := range []string{"", "..", "../etc/passwd", "dir/a.epub"} {
		_, _, err = adapter.Open(workDir, name)
		require.ErrorIs(t, err, common.ErrInvalidFileName, name)
	}
}

func TestDescription(t *testing.T) {
	adapter, _ := newTestAdapter(t, []testFile{
		{name: "description.md", content: "---\ntitle: My Library\n---\n\n# Welcome\nNew volumes every week\n"},
	})

	desc, err := adapter.Description(workDir)
	require.NoError(t, err)
	require.NotNil(t, desc)
	require.Equal(t, "My Library", desc.Title)
	require.Contains(t, desc.ContentHTML, "<h1>Welcome</h1>")
	require.NotContains(t, desc.ContentHTML, "title:")
}

func TestDescriptionAbsent(t *testing.T) {
	adapter, _ := newTestAdapter(t, nil)

	desc, err := adapter.Description(workDir)
	require.NoError(t, err)
	require.Nil(t, desc)
}

func TestCreatedAtFallsBackToModTime(t *testing.T) {
	fs := afero.NewMemMapFs()
	ts := time.Date(2023, 5, 6, 7, 8, 9, 0, time.UTC)
	require.NoError(t, afero.WriteFile(fs, "/f", nil, os.ModePerm))
	require.NoError(t, fs.Chtimes("/f", ts, ts))

	stat, err := fs.Stat("/f")
	require.NoError(t, err)
	require.True(t, createdAt(stat).Equal(ts))
}
