package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/curvearrow/pkg/arrow"
	"github.com/matzehuels/curvearrow/pkg/buildinfo"
	"github.com/matzehuels/curvearrow/pkg/cache"
	"github.com/matzehuels/curvearrow/pkg/dom"
	errs "github.com/matzehuels/curvearrow/pkg/errors"
	"github.com/matzehuels/curvearrow/pkg/observability"
)

const (
	headerRequestID = "X-Request-ID"
	headerCache     = "X-Cache"
	headerOutcome   = "X-Arrow-Outcome"

	shutdownTimeout = 5 * time.Second
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string
	cacheDir string
	cacheTTL time.Duration
	noCache  bool
}

// serveCommand creates the serve command, which renders arrows on request.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [page]",
		Short: "Serve arrows over a page via HTTP",
		Long: `Serve renders arrows over the page file on request.

The arrow is described by query parameters (from, to, middle_x, middle_y,
width, color, hide, debug, ...). The page file is re-read whenever it
changes. Drawn arrows are cached in memory, or on disk with --cache-dir.

Endpoints:
  GET /arrow.svg   inline SVG
  GET /arrow.png   PNG sized to the arrow
  GET /arrow.json  geometry and draw commands
  GET /page.json   the current page
  GET /healthz     liveness`,
		Example: `  curvearrow serve page.toml --addr :8080
  curl 'localhost:8080/arrow.svg?from=%23a&to=%23b&middle_y=60'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "cache rendered arrows on disk in this directory")
	cmd.Flags().DurationVar(&opts.cacheTTL, "cache-ttl", time.Hour, "lifetime of cached arrows")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func runServe(ctx context.Context, pagePath string, opts *serveOpts) error {
	logger := commandLogger(ctx, "serve")

	if err := errs.ValidatePath(pagePath); err != nil {
		return err
	}
	doc := dom.NewFileDocument(pagePath)
	if _, err := dom.LoadPage(pagePath); err != nil {
		return err
	}

	c, err := openCache(opts)
	if err != nil {
		return err
	}
	defer c.Close()

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           newServer(doc, c, opts.cacheTTL, logger).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	printSuccess("Serving %s", pagePath)
	printKeyValue("Address", opts.addr)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return errs.Wrap(errs.ErrCodeInternal, err, "listen on %s", opts.addr)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "shutdown")
	}
	return ctx.Err()
}

func openCache(opts *serveOpts) (cache.Cache, error) {
	switch {
	case opts.noCache:
		return cache.NewNullCache(), nil
	case opts.cacheDir != "":
		return cache.NewFileCache(opts.cacheDir)
	default:
		return cache.NewMemoryCache(cache.DefaultMemoryEntries), nil
	}
}

// server answers arrow requests over one live document.
type server struct {
	doc    *dom.FileDocument
	cache  cache.Cache
	ttl    time.Duration
	logger *log.Logger
}

func newServer(doc *dom.FileDocument, c cache.Cache, ttl time.Duration, logger *log.Logger) *server {
	return &server{doc: doc, cache: c, ttl: ttl, logger: logger}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(instrument)

	r.Get("/healthz", s.handleHealth)
	r.Get("/page.json", s.handlePage)
	r.Get("/arrow.svg", s.handleArrow(formatSVG))
	r.Get("/arrow.png", s.handleArrow(formatPNG))
	r.Get("/arrow.json", s.handleArrow(formatJSON))
	return r
}

// requestID tags every request and response with an id, keeping one sent by
// the client.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r)
	})
}

// instrument reports requests and responses to the observability hooks.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *server) handlePage(w http.ResponseWriter, r *http.Request) {
	page := s.doc.Page()
	if err := s.doc.Err(); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *server) handleArrow(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := configFromQuery(r.URL.Query())
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		page := s.doc.Page()
		if err := s.doc.Err(); err != nil {
			s.writeError(w, r, err)
			return
		}
		pageJSON, err := json.Marshal(page)
		if err != nil {
			s.writeError(w, r, errs.Wrap(errs.ErrCodeInternal, err, "encode page"))
			return
		}
		key := cache.ArtifactKey(format, cache.Hash(pageJSON), cfg)

		if data, ok, err := s.cache.Get(r.Context(), key); err != nil {
			s.logger.Warn("cache read failed", "key", key, "err", err)
		} else if ok {
			w.Header().Set(headerCache, "HIT")
			w.Header().Set(headerOutcome, arrow.Drawn.String())
			writeBytes(w, format, data)
			return
		}

		a, err := renderArtifact(cfg, page, format)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set(headerCache, "MISS")
		w.Header().Set(headerOutcome, a.Outcome.String())

		// json documents explain why nothing was drawn; images have no content.
		if !a.drawn() && format != formatJSON {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if a.drawn() {
			if err := s.cache.Set(r.Context(), key, a.Data, s.ttl); err != nil {
				s.logger.Warn("cache write failed", "key", key, "err", err)
			}
		}
		writeBytes(w, format, a.Data)
	}
}

// configFromQuery builds an arrow configuration from request parameters.
func configFromQuery(q url.Values) (arrow.Config, error) {
	cfg := arrow.Config{
		FromSelector:        q.Get("from"),
		ToSelector:          q.Get("to"),
		Color:               q.Get("color"),
		HideIfFoundSelector: q.Get("hide"),
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"from_offset_x", &cfg.FromOffsetX},
		{"from_offset_y", &cfg.FromOffsetY},
		{"to_offset_x", &cfg.ToOffsetX},
		{"to_offset_y", &cfg.ToOffsetY},
		{"middle_x", &cfg.MiddleX},
		{"middle_y", &cfg.MiddleY},
		{"width", &cfg.Width},
		{"arrowhead_size", &cfg.ArrowheadSize},
	}
	for _, f := range floats {
		v := q.Get(f.key)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, errs.New(errs.ErrCodeInvalidInput, "%s: not a number: %q", f.key, v)
		}
		*f.dst = n
	}

	if v := q.Get("z_index"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errs.New(errs.ErrCodeInvalidInput, "z_index: not an integer: %q", v)
		}
		cfg.ZIndex = n
	}
	if v := q.Get("debug"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errs.New(errs.ErrCodeInvalidInput, "debug: not a boolean: %q", v)
		}
		cfg.DebugLine = b
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func writeBytes(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypes[formatJSON])
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("bad request", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, map[string]string{
		"error": errs.UserMessage(err),
		"code":  string(errs.GetCode(err)),
	})
}
