package fsadapter

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jgivc/jncepweb/internal/common"
	"github.com/jgivc/jncepweb/internal/config"
	"github.com/jgivc/jncepweb/internal/entity"
	"github.com/jgivc/jncepweb/internal/util"
	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

type fsAdapter struct {
	fs        afero.Fs
	cfg       *config.BrowserConfig
	skipFiles map[string]struct{}
	md        goldmark.Markdown

	log *slog.Logger
}

func NewFSAdapter(cfg *config.BrowserConfig, log *slog.Logger) *fsAdapter {
	return NewFSAdapterWithFS(afero.NewOsFs(), cfg, log)
}

func NewFSAdapterWithFS(fs afero.Fs, cfg *config.BrowserConfig, log *slog.Logger) *fsAdapter {
	skipFilesMap := make(map[string]struct{})
	if cfg.DescFileName != "" {
		skipFilesMap[cfg.DescFileName] = struct{}{}
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			&frontmatter.Extender{},
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	return &fsAdapter{
		fs:        fs,
		cfg:       cfg,
		skipFiles: skipFilesMap,
		md:        md,
		log:       log.With(slog.String("item", "FSAdapter")),
	}
}

/*
ListFiles returns the files of a directory (not recursive) whose names contain query,
newest first. Spaces and underscores are interchangeable in the query and the match
is case-insensitive. An empty query matches every file.
*/
func (a *fsAdapter) ListFiles(directory, query string) ([]*entity.FileEntry, error) {
	entries, err := afero.ReadDir(a.fs, directory)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read directory %s: %w", common.ErrFilesystem, directory, err)
	}

	query = normalize(query)

	files := make([]*entity.FileEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if _, exists := a.skipFiles[name]; exists {
			continue
		}

		if query != "" && !strings.Contains(normalize(name), query) {
			continue
		}

		files = append(files, &entity.FileEntry{
			ID:          util.FileID(name),
			FullName:    name,
			DisplayName: util.Truncate(util.Stem(name), a.maxNameLength()),
			Size:        entry.Size(),
			CreatedAt:   createdAt(entry),
		})
	}

	// ReadDir returns entries sorted by name, so ties keep a stable order.
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].CreatedAt.After(files[j].CreatedAt)
	})

	return files, nil
}

// Open returns the named file from directory. The name must be a bare file name.
func (a *fsAdapter) Open(directory, name string) (afero.File, os.FileInfo, error) {
	if !validFileName(name) {
		return nil, nil, common.ErrInvalidFileName
	}

	path := filepath.Join(directory, name)

	stat, err := a.fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, common.ErrFileNotFoundError
		}

		return nil, nil, fmt.Errorf("%w: cannot stat %s: %w", common.ErrFilesystem, path, err)
	}

	if stat.IsDir() {
		return nil, nil, common.ErrFileNotFoundError
	}

	file, err := a.fs.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: cannot open %s: %w", common.ErrFilesystem, path, err)
	}

	return file, stat, nil
}

// Description renders the optional markdown description file of directory.
// It returns nil when the file is not configured or absent.
func (a *fsAdapter) Description(directory string) (*entity.Description, error) {
	if a.cfg.DescFileName == "" {
		return nil, nil
	}

	fileName := filepath.Join(directory, a.cfg.DescFileName)
	if !a.fileExists(fileName) {
		return nil, nil
	}

	content, err := afero.ReadFile(a.fs, fileName)
	if err != nil {
		return nil, fmt.Errorf("cannot read md file: %w", err)
	}

	var buf bytes.Buffer
	pc := parser.NewContext()
	if err := a.md.Convert(content, &buf, parser.WithContext(pc)); err != nil {
		return nil, fmt.Errorf("cannot convert markdown: %w", err)
	}

	desc := &entity.Description{}
	if fm := frontmatter.Get(pc); fm != nil {
		if err := fm.Decode(desc); err != nil {
			return nil, fmt.Errorf("cannot decode frontmatter: %w", err)
		}
	}

	desc.ContentHTML = buf.String()

	return desc, nil
}

func (a *fsAdapter) maxNameLength() int {
	if a.cfg.MaxNameLength > 0 {
		return a.cfg.MaxNameLength
	}

	return util.DefaultMaxLength
}

func (a *fsAdapter) fileExists(path string) bool {
	if path == "" {
		return false
	}

	_, err := a.fs.Stat(path)
	if err == nil {
		return true
	}

	if !os.IsNotExist(err) {
		a.log.Error("Cannot stat file", slog.String("path", path), slog.Any("error", err))
	}

	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", "_"))
}

func validFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}

	return !strings.ContainsAny(name, `/\`)
}
