package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mselway/inkwell"
)

var (
	serveAddr   string
	corsOrigins string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the inkwell HTTP server",
	Long: `Start the inkwell HTTP server.

The server accepts manuscript uploads, runs chapter detection, stores
parsed books in SQLite, and exposes chapter editing and full-text
search.

Set INKWELL_API_KEY to require Bearer authentication. Configuration is
hot-reloaded when the config file changes; segmentation thresholds take
effect on the next upload.

Examples:
  inkwell serve                  # Listen on :8080
  inkwell serve --addr :3000     # Custom listen address`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := newConfigManager(cfgFile)
		if err != nil {
			return err
		}
		cm.OnChange(func(cfg inkwell.Config) {
			slog.Info("config reloaded",
				"min_chapter_words", cfg.MinChapterWords,
				"preferred_chapter_words", cfg.PreferredChapterWords,
				"max_chapters", cfg.MaxChapters)
		})
		cm.Watch()

		engine, err := inkwell.New(cm.Get())
		if err != nil {
			return err
		}
		defer engine.Close()

		h := newHandler(engine, cm.Get)
		mux := http.NewServeMux()

		mux.HandleFunc("POST /books", h.handleUploadBook)
		mux.HandleFunc("GET /books", h.handleListBooks)
		mux.HandleFunc("GET /books/{id}", h.handleGetBook)
		mux.HandleFunc("GET /books/{id}/chapters", h.handleGetChapters)
		mux.HandleFunc("DELETE /books/{id}", h.handleDeleteBook)
		mux.HandleFunc("POST /books/{id}/merge", h.handleMergeChapters)
		mux.HandleFunc("POST /books/{id}/split", h.handleSplitChapter)
		mux.HandleFunc("POST /books/{id}/reparse", h.handleReparseBook)
		mux.HandleFunc("GET /search", h.handleSearch)
		mux.HandleFunc("GET /health", h.handleHealth)

		mw := newMiddleware(os.Getenv("INKWELL_API_KEY"), corsOrigins)

		srv := &http.Server{
			Addr:         serveAddr,
			Handler:      mw.wrap(mux),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("server starting", "addr", serveAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return err
		case <-cmd.Context().Done():
		}

		slog.Info("shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
		slog.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&corsOrigins, "cors-origins", "", "comma-separated allowed CORS origins")

	rootCmd.AddCommand(serveCmd)
}
