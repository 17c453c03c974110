package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeviz/pkg/buildinfo"
	"github.com/matzehuels/treeviz/pkg/config"
	treeerrors "github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/layout"
	"github.com/matzehuels/treeviz/pkg/observability"
	"github.com/matzehuels/treeviz/pkg/palette"
	"github.com/matzehuels/treeviz/pkg/pipeline"
)

const (
	maxBodyBytes    = 32 << 20
	shutdownTimeout = 5 * time.Second
)

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatJSON:     "application/json",
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatPNG:      "image/png",
	pipeline.FormatDOT:      "text/vnd.graphviz",
	pipeline.FormatNodelink: "image/svg+xml",
}

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts and draw lists over HTTP",
		Long: `Serve layouts and draw lists over HTTP.

Routes:
  GET  /healthz
  GET  /layouts
  GET  /layouts/{name}
  POST /layouts/{name}/draw              body: {"tree": {...}, "settings": {...}, "palette": {...}}
  POST /layouts/{name}/render/{format}   same body plus width, height, scale, background`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.Default().Server.Addr, "listen address")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	api := &server{runner: runner, config: c.Config, logger: c.Logger}
	srv := &http.Server{Handler: api.routes(), ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	printSuccess("Serving on %s", StyleLink.Render("http://"+ln.Addr().String()))
	printDetail("Layouts: %d", len(layout.All()))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// =============================================================================
// Server
// =============================================================================

// server holds the handlers' shared state.
type server struct {
	runner *pipeline.Runner
	config config.Config
	logger *log.Logger
}

// routes builds the chi router.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/layouts", func(r chi.Router) {
		r.Get("/", s.handleLayouts)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.handleLayout)
			r.Post("/draw", s.handleDraw)
			r.Post("/render/{format}", s.handleRender)
		})
	})
	return r
}

// requestLogger attaches a request id and a request-scoped logger to the
// context and reports the request to the HTTP hooks.
func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		logger := s.logger.With("request_id", id)
		ctx := withLogger(r.Context(), logger)
		r = r.WithContext(ctx)

		hooks := observability.HTTP()
		hooks.OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		path := r.URL.Path
		if rc := chi.RouteContext(ctx); rc != nil && rc.RoutePattern() != "" {
			path = rc.RoutePattern()
		}
		hooks.OnResponse(ctx, r.Method, path, status, elapsed)
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "bytes", ww.BytesWritten(), "duration", elapsed)
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// layoutInfo is the JSON description of a layout.
type layoutInfo struct {
	Name        string        `json:"name"`
	DisplayName string        `json:"display_name"`
	Thumbnail   string        `json:"thumbnail,omitempty"`
	Shaders     []string      `json:"shaders"`
	Schema      layout.Schema `json:"schema,omitempty"`
}

func newLayoutInfo(l layout.Layout, withSchema bool) layoutInfo {
	info := layoutInfo{Name: l.Name(), DisplayName: l.DisplayName(), Thumbnail: l.Thumbnail()}
	for _, sh := range l.RequiredShaders() {
		info.Shaders = append(info.Shaders, sh.String())
	}
	if withSchema {
		info.Schema = l.Schema()
	}
	return info
}

func (s *server) handleLayouts(w http.ResponseWriter, r *http.Request) {
	all := layout.All()
	out := make([]layoutInfo, len(all))
	for i, l := range all {
		out[i] = newLayoutInfo(l, false)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	l, err := layout.Get(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, newLayoutInfo(l, true))
}

func (s *server) handleDraw(w http.ResponseWriter, r *http.Request) {
	s.execute(w, r, pipeline.FormatJSON)
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, r, http.StatusNotFound, err)
		return
	}
	s.execute(w, r, format)
}

// drawRequest is the body of the draw and render endpoints.
type drawRequest struct {
	Tree       json.RawMessage  `json:"tree"`
	Settings   layout.Settings  `json:"settings,omitempty"`
	Palette    *palette.Options `json:"palette,omitempty"`
	Select     []string         `json:"select,omitempty"`
	Width      int              `json:"width,omitempty"`
	Height     int              `json:"height,omitempty"`
	Scale      float64          `json:"scale,omitempty"`
	Background string           `json:"background,omitempty"`
	Detailed   bool             `json:"detailed,omitempty"`
	Refresh    bool             `json:"refresh,omitempty"`
}

// options merges the request over the server configuration.
func (s *server) options(name string, req drawRequest, format string, logger *log.Logger) pipeline.Options {
	opts := pipeline.Options{
		Tree:       req.Tree,
		Select:     req.Select,
		Layout:     name,
		Settings:   s.config.LayoutSettings(name, req.Settings),
		Palette:    s.config.Palette,
		Formats:    []string{format},
		Width:      s.config.Output.Width,
		Height:     s.config.Output.Height,
		Scale:      s.config.Output.Scale,
		Background: req.Background,
		Detailed:   req.Detailed,
		Refresh:    req.Refresh,
		Logger:     logger,
	}
	if req.Palette != nil {
		opts.Palette = *req.Palette
	}
	if req.Width > 0 {
		opts.Width = req.Width
	}
	if req.Height > 0 {
		opts.Height = req.Height
	}
	if req.Scale > 0 {
		opts.Scale = req.Scale
	}
	return opts
}

// execute runs the pipeline for one format and writes the artifact.
func (s *server) execute(w http.ResponseWriter, r *http.Request, format string) {
	l, err := layout.Get(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, err)
		return
	}

	var req drawRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, treeerrors.Wrap(treeerrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if len(req.Tree) == 0 {
		writeError(w, r, http.StatusBadRequest, treeerrors.New(treeerrors.ErrCodeInvalidInput, "tree is required"))
		return
	}

	logger := loggerFromContext(r.Context())
	result, err := s.runner.Execute(r.Context(), s.options(l.Name(), req, format, logger))
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheHeader(result.CacheInfo))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// =============================================================================
// Responses
// =============================================================================

// errorResponse is the JSON body of every error.
type errorResponse struct {
	Code    treeerrors.Code `json:"code"`
	Message string          `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	code := treeerrors.GetCode(err)
	if code == "" {
		code = treeerrors.ErrCodeInternal
	}
	logger := loggerFromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "err", err)
	} else {
		logger.Debug("request rejected", "code", code, "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch treeerrors.GetCode(err) {
	case treeerrors.ErrCodeInvalidInput, treeerrors.ErrCodeInvalidFormat, treeerrors.ErrCodeInvalidSettings,
		treeerrors.ErrCodeInvalidTree, treeerrors.ErrCodeInvalidLayout:
		return http.StatusBadRequest
	case treeerrors.ErrCodeNotFound:
		return http.StatusUnprocessableEntity
	case treeerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func cacheHeader(ci pipeline.CacheInfo) string {
	switch {
	case ci.LayoutHit && ci.RenderHit:
		return "hit"
	case ci.LayoutHit:
		return "layout-hit"
	default:
		return "miss"
	}
}
