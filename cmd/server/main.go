package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/canvas-editor/backend-go/internal/asset"
	"github.com/inamate/canvas-editor/backend-go/internal/auth"
	"github.com/inamate/canvas-editor/backend-go/internal/config"
	"github.com/inamate/canvas-editor/backend-go/internal/document"
	mw "github.com/inamate/canvas-editor/backend-go/internal/middleware"
	"github.com/inamate/canvas-editor/backend-go/internal/realtime"
	"github.com/inamate/canvas-editor/backend-go/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	st, err := store.New(ctx, pool, slog.Default())
	if err != nil {
		slog.Error("create store", "error", err)
		os.Exit(1)
	}
	if err := st.Migrate(ctx); err != nil {
		slog.Error("migrate", "error", err)
		os.Exit(1)
	}

	authService := auth.NewService(cfg.JWTSecret)

	documentService := document.NewService(st, cfg.PlaygroundDocumentID)
	documentHandler := document.NewHandler(documentService)

	assetHandler, err := asset.NewHandler(cfg.AssetDir)
	if err != nil {
		slog.Error("create asset handler", "error", err)
		os.Exit(1)
	}

	manager := realtime.NewManager(documentService, realtime.Options{
		Engine:           cfg.Editor.Engine(),
		AutosaveInterval: cfg.AutosaveInterval,
		OriginPatterns:   cfg.OriginPatterns(),
		Logger:           slog.Default(),
	})
	go manager.Run()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"database unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Uploaded images
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.Middleware)

	api.HandleFunc("/documents", documentHandler.Create).Methods("POST", "OPTIONS")
	api.HandleFunc("/documents/{documentId}", documentHandler.Get).Methods("GET", "OPTIONS")
	api.HandleFunc("/assets", assetHandler.Upload).Methods("POST", "OPTIONS")

	// WebSocket endpoint
	r.HandleFunc("/ws/documents/{documentId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, manager, authService, documentService)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop the manager first so open sessions are saved
		manager.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, manager *realtime.Manager, authSvc *auth.Service, docs *document.Service) {
	documentID := mux.Vars(r)["documentId"]

	var (
		userID string
		doc    *document.Document
		err    error
	)

	if docs.IsPlayground(documentID) {
		// Anonymous users get an id from the manager
		doc, err = docs.Load(r.Context(), documentID)
	} else {
		// Auth via query param for real documents
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		userID, err = authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		doc, err = docs.Get(r.Context(), documentID, userID)
	}

	switch {
	case errors.Is(err, document.ErrNotFound):
		http.Error(w, "document not found", http.StatusNotFound)
		return
	case errors.Is(err, document.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	case err != nil:
		slog.Error("load document", "document", documentID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	manager.ServeWS(w, r, doc, userID)
}
