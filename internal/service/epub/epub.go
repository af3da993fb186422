package epub

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/jgivc/jncepweb/internal/adapter/cliadapter"
	"github.com/jgivc/jncepweb/internal/common"
	"github.com/jgivc/jncepweb/internal/entity"
	"github.com/jgivc/jncepweb/internal/util"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	serviceName = "epub"

	selectionNotSpecified = "Not specified"
)

var seriesRegexp = regexp.MustCompile(`/series/(.+?)(#|$)`)

type CommandRunner interface {
	Run(ctx context.Context, args []string) (*entity.CommandResult, error)
}

type Notifier interface {
	Notify(ctx context.Context, title, description string)
}

type message struct {
	title       string
	description string
}

type fixedCommand struct {
	name    string
	args    func() []string
	success message
	failure message
}

var (
	trackListCommand = fixedCommand{
		name:    "track list",
		args:    entity.TrackListArgs,
		success: message{"Track List Success", "Tracked series have been listed."},
		failure: message{"Track List Error", "An error occurred while listing tracked series."},
	}
	trackSyncCommand = fixedCommand{
		name:    "track sync",
		args:    entity.TrackSyncArgs,
		success: message{"Sync Success", "Tracked series have been synced."},
		failure: message{"Sync Error", "An error occurred while syncing tracked series."},
	}
	updateCommand = fixedCommand{
		name:    "update",
		args:    entity.UpdateArgs,
		success: message{"Update Success", "EPUBs have been updated."},
		failure: message{"Update Error", "An error occurred while updating EPUBs."},
	}
)

type epubService struct {
	runner    CommandRunner
	notifier  Notifier
	creds     entity.Credentials
	outputDir string
	log       *slog.Logger
}

func NewEpubService(runner CommandRunner, notifier Notifier, creds entity.Credentials, outputDir string, log *slog.Logger) *epubService {
	return &epubService{
		runner:    runner,
		notifier:  notifier,
		creds:     creds,
		outputDir: outputDir,
		log:       log.With(slog.String("service", serviceName)),
	}
}

/*
Generate runs "jncep epub" for the request. The tool is considered successful only when
its stdout carries the success marker, whatever the exit code.
*/
func (s *epubService) Generate(ctx context.Context, req *entity.DownloadRequest) error {
	if req == nil || strings.TrimSpace(req.URL) == "" {
		return fmt.Errorf("%w: jnovel_club_url is required", common.ErrInvalidRequest)
	}

	log := s.log.With(slog.String("url", req.URL))

	res, err := s.runner.Run(ctx, entity.EpubArgs(s.creds, s.outputDir, req))
	if err == nil && !cliadapter.IsSuccess(res.Stdout) {
		err = fmt.Errorf("%w: no success marker, exit code %d", common.ErrExternalTool, res.ExitCode)
	}

	if err != nil {
		log.Error("Cannot generate epub", slog.Any("error", err))
		s.notifier.Notify(ctx, "EPUB Generation Error", "An error occurred while generating the EPUB.")

		return err
	}

	selection := selectionNotSpecified
	if req.Parts != nil {
		selection = *req.Parts
	}

	series := util.Truncate(SeriesName(req.URL), util.DefaultMaxLength)
	log.Info("EPUB generated", slog.String("series", series), slog.String("selection", selection))
	s.notifier.Notify(ctx, "EPUB Downloaded", fmt.Sprintf("Series: %s\nSelection: Volume %s", series, selection))

	return nil
}

func (s *epubService) TrackList(ctx context.Context) (*entity.CommandResult, error) {
	return s.runFixed(ctx, trackListCommand)
}

func (s *epubService) TrackSync(ctx context.Context) (*entity.CommandResult, error) {
	return s.runFixed(ctx, trackSyncCommand)
}

func (s *epubService) Update(ctx context.Context) (*entity.CommandResult, error) {
	return s.runFixed(ctx, updateCommand)
}

func (s *epubService) runFixed(ctx context.Context, c fixedCommand) (*entity.CommandResult, error) {
	log := s.log.With(slog.String("command", c.name))

	res, err := s.runner.Run(ctx, c.args())
	if err != nil {
		log.Error("Cannot run command", slog.Any("error", err))
		s.notifier.Notify(ctx, c.failure.title, c.failure.description)

		return nil, err
	}

	if !res.OK() {
		log.Error("Command failed", slog.Int("exit_code", res.ExitCode))
		s.notifier.Notify(ctx, c.failure.title, c.failure.description)

		return res, nil
	}

	s.notifier.Notify(ctx, c.success.title, c.success.description)

	return res, nil
}

// SeriesName extracts a readable series name from a J-Novel Club series URL.
// The URL is returned unchanged when it has no /series/ segment.
func SeriesName(url string) string {
	m := seriesRegexp.FindStringSubmatch(url)
	if m == nil {
		return url
	}

	// A Caser keeps state, so it is not shared between requests.
	return cases.Title(language.English).String(strings.ReplaceAll(m[1], "-", " "))
}
