package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	EmbedColor = 5814783

	userAgent      = "jncepweb/0.1.0"
	defaultTimeout = 10 * time.Second
)

type embed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

type payload struct {
	Embeds []embed `json:"embeds"`
}

type Notifier interface {
	Notify(ctx context.Context, title, description string)
}

// NewNotifier returns a webhook notifier, or a noop one when webhookURL is empty.
func NewNotifier(webhookURL string, log *slog.Logger) Notifier {
	webhookURL = strings.TrimSpace(webhookURL)
	if webhookURL == "" {
		return noopNotifier{}
	}

	return &webhookNotifier{
		endpoint: webhookURL,
		client:   &http.Client{Timeout: defaultTimeout},
		log:      log.With(slog.String("item", "DiscordNotifier")),
	}
}

type webhookNotifier struct {
	endpoint string
	client   *http.Client
	log      *slog.Logger
}

// Notify posts one embed. Failures are logged and never returned.
func (n *webhookNotifier) Notify(ctx context.Context, title, description string) {
	if err := n.send(context.WithoutCancel(ctx), title, description); err != nil {
		n.log.Error("Cannot send notification", slog.String("title", title), slog.Any("error", err))

		return
	}

	n.log.Debug("Notification sent", slog.String("title", title))
}

func (n *webhookNotifier) send(ctx context.Context, title, description string) error {
	body, err := json.Marshal(&payload{
		Embeds: []embed{{Title: title, Description: description, Color: EmbedColor}},
	})
	if err != nil {
		return fmt.Errorf("cannot marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("cannot build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("cannot send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string, string) {}
