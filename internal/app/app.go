package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jgivc/jncepweb/internal/adapter/cliadapter"
	"github.com/jgivc/jncepweb/internal/adapter/discord"
	"github.com/jgivc/jncepweb/internal/adapter/fsadapter"
	"github.com/jgivc/jncepweb/internal/adapter/tpladapter"
	"github.com/jgivc/jncepweb/internal/config"
	"github.com/jgivc/jncepweb/internal/entity"
	httphandler "github.com/jgivc/jncepweb/internal/handler/http"
	"github.com/jgivc/jncepweb/internal/repository/download"
	srvdownload "github.com/jgivc/jncepweb/internal/service/download"
	"github.com/jgivc/jncepweb/internal/service/epub"
)

const (
	redisTimeout    = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

type EpubService interface {
	httphandler.EpubService
	TrackList(ctx context.Context) (*entity.CommandResult, error)
	TrackSync(ctx context.Context) (*entity.CommandResult, error)
	Update(ctx context.Context) (*entity.CommandResult, error)
}

type BrowserService interface {
	httphandler.ListService
	httphandler.DownloadService
}

type App struct {
	cfg  *config.Config
	srv  *http.Server
	repo io.Closer
	log  *slog.Logger
}

func New(cfg *config.Config) *App {
	return &App{
		cfg: cfg,
		log: NewLogger(cfg.LogLevel, os.Stderr),
	}
}

func NewLogger(level string, w io.Writer) *slog.Logger {
	lo := &slog.HandlerOptions{}
	switch level {
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	default:
		lo.Level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, lo))
}

// Start wires the services and starts serving in the background.
func (a *App) Start() error {
	cfg := a.cfg
	log := a.log

	if err := os.MkdirAll(cfg.ToolConfig.OutputDir, 0o755); err != nil {
		return fmt.Errorf("cannot create output dir %s: %w", cfg.ToolConfig.OutputDir, err)
	}

	runner, err := cliadapter.NewCLIAdapter(cfg.ToolConfig.Binary, log)
	if err != nil {
		return fmt.Errorf("cannot create cli adapter: %w", err)
	}

	var repo srvdownload.DownloadRepository
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
		drepo, err := download.NewDownloadRepository(ctx, cfg.RedisURL, log)
		cancel()
		if err != nil {
			return fmt.Errorf("cannot create download repository: %w", err)
		}

		repo = drepo
		a.repo = drepo
	} else {
		log.Info("Redis is not configured, download counters are disabled")
	}

	bcfg := cfg.BrowserCfg()
	tpl, err := tpladapter.NewTplAdapter(bcfg.TemplateFileName)
	if err != nil {
		return fmt.Errorf("cannot create template adapter: %w", err)
	}

	notifier := discord.NewNotifier(cfg.WebhookURL, log)
	creds := entity.Credentials{Email: cfg.ToolConfig.Email, Password: cfg.ToolConfig.Password}

	eSrv := epub.NewEpubService(runner, notifier, creds, cfg.ToolConfig.OutputDir, log)
	dSrv := srvdownload.NewDownloadService(fsadapter.NewFSAdapter(bcfg, log), repo, bcfg.WorkDir, log)

	a.srv = &http.Server{
		Addr:              cfg.Listen,
		Handler:           NewMux(eSrv, dSrv, tpl, cfg.HandlerConfig.RedirectHeader, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Start listen", slog.String("addr", cfg.Listen))

		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Could not serve", slog.String("listen_addr", cfg.Listen), slog.Any("error", err))
			os.Exit(2)
		}
	}()

	return nil
}

func NewMux(eSrv EpubService, dSrv BrowserService, renderer httphandler.PageRenderer, hdrName string, log *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("POST /generate-epub", httphandler.NewGenerateHandler(eSrv, log))
	mux.Handle("GET /list", httphandler.NewCommandHandler("track list", eSrv.TrackList, log))
	mux.Handle("GET /track", httphandler.NewCommandHandler("track sync", eSrv.TrackSync, log))
	mux.Handle("GET /sync", httphandler.NewCommandHandler("update", eSrv.Update, log))

	mux.Handle("GET /{$}", httphandler.NewIndexHandler(dSrv, renderer, log))
	mux.Handle("GET /download/{filename}", httphandler.NewDownloadHandler(hdrName, dSrv, log))
	mux.Handle("GET /healthz", httphandler.NewHealthHandler())

	return mux
}

func (a *App) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.srv != nil {
		if err := a.srv.Shutdown(ctx); err != nil {
			a.log.Error("Cannot shutdown server", slog.Any("error", err))
		}
	}

	if a.repo != nil {
		a.repo.Close()
	}
}
