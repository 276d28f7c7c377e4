package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/deckgrid/deckgrid/pkg/report"
)

// Server timeouts.
const (
	serverReadTimeout  = 30 * time.Second
	serverWriteTimeout = 5 * time.Minute
	shutdownTimeout    = 10 * time.Second
)

// serveCommand creates the serve command that exposes the renderer over
// HTTP. POST /render takes a configuration and responds with the assembled
// PDF.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		dpi       float64
		font      string
		noCache   bool
		redisAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the deck renderer over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			// PDFs may appear in any request, so the engine starts up front.
			r, err := c.newRenderer(cmd, font, noCache, redisAddr, true)
			if err != nil {
				return err
			}
			defer r.close()

			srv := &http.Server{
				Addr:         addr,
				Handler:      newRouter(r, dpi, c.Logger),
				ReadTimeout:  serverReadTimeout,
				WriteTimeout: serverWriteTimeout,
			}

			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			printInfo("Listening on %s", addr)

			select {
			case err := <-errc:
				return err
			case <-cmd.Context().Done():
			}

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().Float64Var(&dpi, "dpi", defaultDPI, "raster resolution")
	cmd.Flags().StringVar(&font, "font", "", "measuring and drawing font file name")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the raster cache")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for the raster cache (host:port)")

	return cmd
}

// newRouter builds the HTTP routes.
func newRouter(r *renderer, dpi float64, logger *log.Logger) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(serverWriteTimeout))

	router.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Post("/render", func(w http.ResponseWriter, req *http.Request) {
		var cfg report.Config
		if err := json.NewDecoder(req.Body).Decode(&cfg); err != nil {
			httpError(w, http.StatusBadRequest, fmt.Errorf("parse config: %w", err))
			return
		}

		workDir, err := os.MkdirTemp("", "deckgrid-serve-")
		if err != nil {
			httpError(w, http.StatusInternalServerError, err)
			return
		}
		defer os.RemoveAll(workDir)

		pdfPath := filepath.Join(workDir, "deck.pdf")
		rep, _, err := r.render(req.Context(), cfg, deckOptions{
			outDir:  workDir,
			pdfPath: pdfPath,
			dpi:     dpi,
		})
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, report.ErrInvalid) {
				status = http.StatusUnprocessableEntity
			}
			httpError(w, status, err)
			return
		}

		// PDF assembly is best effort on the sink side; the endpoint has
		// nothing else to return without it.
		if _, err := os.Stat(pdfPath); err != nil {
			httpError(w, http.StatusInternalServerError, fmt.Errorf("assemble pdf: %w", err))
			return
		}

		logger.Info("rendered deck", "slides", rep.SlideCount(), "remote", req.RemoteAddr)
		w.Header().Set("Content-Type", "application/pdf")
		http.ServeFile(w, req, pdfPath)
	})

	return router
}

// httpError writes a JSON error body.
func httpError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
