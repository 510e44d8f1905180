// Command domundo-server is a debug/inspection HTTP service wrapping one
// domundo.Context: it serves the document's current HTML, accepts typing
// and undo/redo requests, and streams each typing ChangeSet to the audit
// log (undo and redo are not logged). Grounded on horos47/core/chassis's chi-router chassis and
// cmd/chrc's JWT-guarded route setup, trimmed to a single service instead
// of a pluggable multi-service chassis.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hazyhaar/domundo"
	"github.com/hazyhaar/domundo/auditlog"
	"github.com/hazyhaar/domundo/config"
	"github.com/hazyhaar/domundo/internal/auth"
	"github.com/hazyhaar/domundo/internal/domtree"
	"github.com/hazyhaar/domundo/kit"
)

func main() {
	configPath := flag.String("config", "", "path to domundo.yaml config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	opts := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			logger.Error("domundo-server: load config", "error", err)
			os.Exit(1)
		}
		opts = loaded
	}

	secretInput := os.Getenv(opts.Server.JWTSecretEnv)
	if secretInput == "" {
		logger.Error("domundo-server: missing JWT secret", "env", opts.Server.JWTSecretEnv)
		os.Exit(1)
	}
	secretHash := sha256.Sum256([]byte(secretInput))
	jwtSecret := secretHash[:]

	root := domtree.NewElement("div")
	ctx := domundo.NewContext(root, domundo.Options{
		NoMutationObserver: opts.NoMutationObserver,
		MaxCombineChars:    opts.MaxCombineChars,
		MaxHistory:         opts.MaxHistory,
		Logger:             logger,
	})
	defer ctx.Close()

	audit := auditlog.New(logger)
	srv := &server{ctx: ctx, root: root, audit: audit}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(auth.Middleware(jwtSecret))
	r.Use(tagIdentity)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/state", srv.handleState)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Post("/type", srv.handleType)
		r.Post("/undo", srv.handleUndo)
		r.Post("/redo", srv.handleRedo)
	})

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{Addr: opts.Server.Addr, Handler: r}
	go func() {
		<-stopCtx.Done()
		httpSrv.Close()
	}()

	logger.Info("domundo-server: listening", "addr", opts.Server.Addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("domundo-server: fatal", "error", err)
		os.Exit(1)
	}
}

type server struct {
	ctx   *domundo.Context
	root  *domtree.Node
	audit *auditlog.Logger
}

// tagIdentity carries chi's per-request ID and, once auth.Middleware has
// attached Claims, the caller's subject onto the request context via kit's
// accessors, so auditlog.LogContext can correlate a log line back to both.
func tagIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := kit.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		if claims := auth.GetClaims(r.Context()); claims != nil {
			c = kit.WithUserID(c, claims.Subject)
		}
		next.ServeHTTP(w, r.WithContext(c))
	})
}

func (s *server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"html": domtree.RenderHTML(s.root)})
}

type typeRequest struct {
	Text string `json:"text"`
}

func (s *server) handleType(w http.ResponseWriter, r *http.Request) {
	var req typeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	boundary := domtree.Boundary{Node: s.root, Offset: domtree.NodeLength(s.root)}
	cs := s.ctx.TypeText(boundary, req.Text)
	s.audit.LogContext(r.Context(), cs)
	writeJSON(w, http.StatusOK, map[string]string{"html": domtree.RenderHTML(s.root)})
}

func (s *server) handleUndo(w http.ResponseWriter, _ *http.Request) {
	ok := s.ctx.Undo()
	writeJSON(w, http.StatusOK, map[string]any{"undone": ok, "html": domtree.RenderHTML(s.root)})
}

func (s *server) handleRedo(w http.ResponseWriter, _ *http.Request) {
	ok := s.ctx.Redo()
	writeJSON(w, http.StatusOK, map[string]any{"redone": ok, "html": domtree.RenderHTML(s.root)})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
