package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"os"

	"github.com/jgivc/jncepweb/internal/common"
	"github.com/jgivc/jncepweb/internal/entity"
	"github.com/spf13/afero"
)

const (
	maxBodySize = 1 << 20

	msgEpubCompleted = "EPUB generation process completed."
	msgEpubError     = "An error occurred while generating the EPUB."
)

type EpubService interface {
	Generate(ctx context.Context, req *entity.DownloadRequest) error
}

// CommandFunc runs one fixed external tool command.
type CommandFunc func(ctx context.Context) (*entity.CommandResult, error)

type ListService interface {
	List(ctx context.Context, query string) (*entity.FileList, error)
}

type PageRenderer interface {
	Render(list *entity.FileList) ([]byte, error)
}

type DownloadService interface {
	Download(ctx context.Context, name string) (afero.File, os.FileInfo, error)
	RedirectPath(name string) string
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewGenerateHandler(srv EpubService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "GenerateHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		var req entity.DownloadRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
			log.Warn("Cannot decode request", slog.Any("error", err))
			writeJSON(w, http.StatusBadRequest, &errorResponse{Error: "Invalid JSON body."}, log)

			return
		}

		if err := srv.Generate(r.Context(), &req); err != nil {
			switch {
			case errors.Is(err, common.ErrInvalidRequest):
				writeJSON(w, http.StatusBadRequest, &errorResponse{Error: "jnovel_club_url is required."}, log)
			default:
				writeJSON(w, http.StatusBadRequest, &errorResponse{Error: msgEpubError}, log)
			}

			return
		}

		writeJSON(w, http.StatusOK, &messageResponse{Message: msgEpubCompleted}, log)
	}
}

// NewCommandHandler answers with the tool stdout on exit code 0 and stderr otherwise.
func NewCommandHandler(name string, run CommandFunc, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "CommandHandler"), slog.String("command", name))

	return func(w http.ResponseWriter, r *http.Request) {
		res, err := run(r.Context())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, &errorResponse{Error: "Cannot run " + name + "."}, log)

			return
		}

		if !res.OK() {
			writeJSON(w, http.StatusBadRequest, &messageResponse{Message: res.Stderr}, log)

			return
		}

		writeJSON(w, http.StatusOK, &messageResponse{Message: res.Stdout}, log)
	}
}

func NewIndexHandler(srv ListService, renderer PageRenderer, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "IndexHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		list, err := srv.List(r.Context(), r.URL.Query().Get("search"))
		if err != nil {
			http.Error(w, "Cannot list files", http.StatusInternalServerError)

			return
		}

		page, err := renderer.Render(list)
		if err != nil {
			log.Error("Cannot render page", slog.Any("error", err))
			http.Error(w, "Cannot render page", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	}
}

/*
NewDownloadHandler serves a file from the work dir as an attachment. When hdrName is set,
the body is left to a fronting web server and only hdrName (e.g. X-Accel-Redirect) is sent.
*/
func NewDownloadHandler(hdrName string, srv DownloadService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "DownloadHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("filename")

		file, stat, err := srv.Download(r.Context(), name)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrInvalidFileName):
				http.Error(w, "Bad request", http.StatusBadRequest)
			case errors.Is(err, common.ErrFileNotFoundError):
				http.Error(w, "Cannot find file", http.StatusNotFound)
			default:
				http.Error(w, "Cannot get file", http.StatusInternalServerError)
			}

			return
		}
		defer file.Close()

		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))

		if hdrName != "" {
			w.Header().Set(hdrName, srv.RedirectPath(name))

			return
		}

		log.Debug("Serve file", slog.String("name", name), slog.Int64("size", stat.Size()))
		http.ServeContent(w, r, name, stat.ModTime(), file)
	}
}

func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Cannot write response", slog.Any("error", err))
	}
}
