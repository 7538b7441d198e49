package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ServeWebhook serves Telegram webhook deliveries until ctx is cancelled.
// It is a no-op in long-polling mode.
func (b *Bot) ServeWebhook(ctx context.Context) error {
	if !b.config.UseWebhook() {
		return nil
	}

	_, path, err := b.webhookEndpoint()
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", b.webhookHandler(ctx, path))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              b.config.WebhookListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		b.logger.Info().
			Str("addr", srv.Addr).
			Str("url", b.config.WebhookURL).
			Msg("Webhook server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("webhook server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	b.logger.Info().Msg("Shutting down webhook server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("webhook server shutdown: %w", err)
	}
	return nil
}

// webhookHandler decodes deliveries posted to path and queues them for Start.
// Any other path is answered with 404.
func (b *Bot) webhookHandler(ctx context.Context, path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		update, err := b.api.HandleUpdate(r)
		if err != nil {
			b.logger.Warn().
				Err(err).
				Msg("Failed to decode webhook update")
			http.Error(w, "bad update", http.StatusBadRequest)
			return
		}

		select {
		case b.webhookUpdates <- *update:
			w.WriteHeader(http.StatusOK)
		case <-ctx.Done():
			// Telegram retries deliveries that were not acknowledged
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
		case <-r.Context().Done():
		}
	}
}

// webhookEndpoint returns the URL registered with Telegram and the path it
// posts to. The configured URL is extended with a per-process secret segment
// so that only Telegram knows where to deliver updates.
func (b *Bot) webhookEndpoint() (string, string, error) {
	if b.webhookSecret == "" {
		return "", "", fmt.Errorf("webhook secret is not set")
	}

	u, err := url.Parse(b.config.WebhookURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid webhook url: %w", err)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + b.webhookSecret
	u.RawPath = ""
	return u.String(), u.Path, nil
}
