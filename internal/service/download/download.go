package download

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/jgivc/jncepweb/internal/entity"
	"github.com/jgivc/jncepweb/internal/util"
	"github.com/spf13/afero"
)

const (
	serviceName = "download"
)

type FileStorage interface {
	ListFiles(directory, query string) ([]*entity.FileEntry, error)
	Open(directory, name string) (afero.File, os.FileInfo, error)
	Description(directory string) (*entity.Description, error)
}

type DownloadRepository interface {
	IncFileCounter(ctx context.Context, id string) (int64, error)
	GetFileCounters(ctx context.Context, ids []string) (map[string]int64, error)
}

type downloadService struct {
	store   FileStorage
	repo    DownloadRepository
	workDir string
	log     *slog.Logger
}

// NewDownloadService builds the file browser service. repo may be nil to disable counters.
func NewDownloadService(store FileStorage, repo DownloadRepository, workDir string, log *slog.Logger) *downloadService {
	if repo == nil {
		repo = noopRepository{}
	}

	return &downloadService{
		store:   store,
		repo:    repo,
		workDir: workDir,
		log:     log.With(slog.String("service", serviceName)),
	}
}

func (d *downloadService) List(ctx context.Context, query string) (*entity.FileList, error) {
	files, err := d.store.ListFiles(d.workDir, query)
	if err != nil {
		d.log.Error("Cannot list files", slog.String("query", query), slog.Any("error", err))

		return nil, fmt.Errorf("cannot list files: %w", err)
	}

	desc, err := d.store.Description(d.workDir)
	if err != nil {
		d.log.Error("Cannot read description", slog.Any("error", err))
	}

	ids := make([]string, 0, len(files))
	for _, f := range files {
		ids = append(ids, f.ID)
	}

	counters, err := d.repo.GetFileCounters(ctx, ids)
	if err != nil {
		d.log.Error("Cannot get download counters", slog.Any("error", err))
	}

	for _, f := range files {
		f.Downloads = counters[f.ID]
	}

	return &entity.FileList{
		Query:       query,
		Description: desc,
		Files:       files,
	}, nil
}

// Download opens the named file and counts the download.
// The caller must close the returned file.
func (d *downloadService) Download(ctx context.Context, name string) (afero.File, os.FileInfo, error) {
	file, stat, err := d.store.Open(d.workDir, name)
	if err != nil {
		d.log.Error("Cannot open file", slog.String("name", name), slog.Any("error", err))

		return nil, nil, fmt.Errorf("cannot open file %s: %w", name, err)
	}

	counter, err := d.repo.IncFileCounter(ctx, util.FileID(name))
	if err != nil {
		d.log.Error("Cannot increment download counter", slog.String("name", name), slog.Any("error", err))
	}

	d.log.Info("Download file", slog.String("name", name), slog.Int64("counter", counter))

	return file, stat, nil
}

// RedirectPath is the internal location of name for X-Accel-Redirect style downloads.
// It mirrors the work dir base name, so nginx serves /<base>/ from the work dir.
func (d *downloadService) RedirectPath(name string) string {
	return path.Join("/", filepath.Base(d.workDir), url.PathEscape(name))
}

type noopRepository struct{}

func (noopRepository) IncFileCounter(context.Context, string) (int64, error) { return 0, nil }

func (noopRepository) GetFileCounters(_ context.Context, ids []string) (map[string]int64, error) {
	return make(map[string]int64, len(ids)), nil
}
