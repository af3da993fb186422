package epub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/jgivc/jncepweb/internal/common"
	"github.com/jgivc/jncepweb/internal/entity"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	res   *entity.CommandResult
	err   error
	calls [][]string
}

func (r *fakeRunner) Run(_ context.Context, args []string) (*entity.CommandResult, error) {
	r.calls = append(r.calls, args)

	return r.res, r.err
}

type note struct {
	title       string
	description string
}

type fakeNotifier struct {
	notes []note
}

func (n *fakeNotifier) Notify(_ context.Context, title, description string) {
	n.notes = append(n.notes, note{title, description})
}

func newTestService(runner *fakeRunner) (*epubService, *fakeNotifier) {
	notifier := &fakeNotifier{}
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	creds := entity.Credentials{Email: "me@example.com", Password: "pw"}

	return NewEpubService(runner, notifier, creds, "/out", log), notifier
}

func TestGenerateMissingURL(t *testing.T) {
	runner := &fakeRunner{}
	srv, notifier := newTestService(runner)

	err := srv.Generate(context.Background(), &entity.DownloadRequest{})
	require.ErrorIs(t, err, common.ErrInvalidRequest)
	require.Empty(t, runner.calls)
	require.Empty(t, notifier.notes)

	err = srv.Generate(context.Background(), nil)
	require.ErrorIs(t, err, common.ErrInvalidRequest)
	require.Empty(t, runner.calls)
}

func TestGenerateSuccess(t *testing.T) {
	runner := &fakeRunner{res: &entity.CommandResult{Stdout: "Generating...\nSuccess!\n"}}
	srv, notifier := newTestService(runner)
	parts := "3"

	err := srv.Generate(context.Background(), &entity.DownloadRequest{
		URL:   "https://j-novel.club/series/ascendance-of-a-bookworm",
		Parts: &parts,
	})
	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	require.Equal(t, "epub", runner.calls[0][0])
	require.Equal(t, []note{{
		title:       "EPUB Downloaded",
		description: "Series: Ascendance Of A Bookworm\nSelection: Volume 3",
	}}, notifier.notes)
}

func TestGenerateSuccessWithoutParts(t *testing.T) {
	runner := &fakeRunner{res: &entity.CommandResult{ExitCode: 1, Stdout: "Success!"}}
	srv, notifier := newTestService(runner)

	err := srv.Generate(context.Background(), &entity.DownloadRequest{URL: "https://j-novel.club/series/my-series#volume-1"})
	require.NoError(t, err)
	require.Equal(t, "Series: My Series\nSelection: Volume Not specified", notifier.notes[0].description)
}

func TestGenerateNoSuccessMarker(t *testing.T) {
	runner := &fakeRunner{res: &entity.CommandResult{ExitCode: 0, Stdout: "nothing to do"}}
	srv, notifier := newTestService(runner)

	err := srv.Generate(context.Background(), &entity.DownloadRequest{URL: "https://j-novel.club/series/x"})
	require.ErrorIs(t, err, common.ErrExternalTool)
	require.Equal(t, "EPUB Generation Error", notifier.notes[0].title)
}

func TestGenerateRunnerError(t *testing.T) {
	runErr := fmt.Errorf("%w: no binary", common.ErrExternalTool)
	runner := &fakeRunner{err: runErr}
	srv, notifier := newTestService(runner)

	err := srv.Generate(context.Background(), &entity.DownloadRequest{URL: "https://j-novel.club/series/x"})
	require.ErrorIs(t, err, runErr)
	require.Len(t, notifier.notes, 1)
	require.Equal(t, "EPUB Generation Error", notifier.notes[0].title)
}

func TestFixedCommands(t *testing.T) {
	testCases := []struct {
		name         string
		call         func(*epubService) (*entity.CommandResult, error)
		expectedArgs []string
		successTitle string
		failureTitle string
	}{
		{
			name:         "track list",
			call:         func(s *epubService) (*entity.CommandResult, error) { return s.TrackList(context.Background()) },
			expectedArgs: []string{"track", "list"},
			successTitle: "Track List Success",
			failureTitle: "Track List Error",
		},
		{
			name:         "track sync",
			call:         func(s *epubService) (*entity.CommandResult, error) { return s.TrackSync(context.Background()) },
			expectedArgs: []string{"track", "sync"},
			successTitle: "Sync Success",
			failureTitle: "Sync Error",
		},
		{
			name:         "update",
			call:         func(s *epubService) (*entity.CommandResult, error) { return s.Update(context.Background()) },
			expectedArgs: []string{"update", "--byvolume"},
			successTitle: "Update Success",
			failureTitle: "Update Error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			runner := &fakeRunner{res: &entity.CommandResult{Stdout: "ok"}}
			srv, notifier := newTestService(runner)

			res, err := tc.call(srv)
			require.NoError(t, err)
			require.Equal(t, "ok", res.Stdout)
			require.Equal(t, [][]string{tc.expectedArgs}, runner.calls)
			require.Equal(t, tc.successTitle, notifier.notes[0].title)

			runner = &fakeRunner{res: &entity.CommandResult{ExitCode: 2, Stderr: "bad"}}
			srv, notifier = newTestService(runner)

			res, err = tc.call(srv)
			require.NoError(t, err)
			require.Equal(t, 2, res.ExitCode)
			require.Equal(t, tc.failureTitle, notifier.notes[0].title)

			runner = &fakeRunner{err: errors.New("exec failed")}
			srv, notifier = newTestService(runner)

			_, err = tc.call(srv)
			require.Error(t, err)
			require.Equal(t, tc.failureTitle, notifier.notes[0].title)
		})
	}
}

func TestSeriesName(t *testing.T) {
	require.Equal(t, "Ascendance Of A Bookworm", SeriesName("https://j-novel.club/series/ascendance-of-a-bookworm"))
	require.Equal(t, "My Series", SeriesName("https://j-novel.club/series/my-series#volume-2"))
	require.Equal(t, "https://example.com/foo", SeriesName("https://example.com/foo"))
}
