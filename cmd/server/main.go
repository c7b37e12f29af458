package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/medghazouan/bidayalab/internal/actions"
	"github.com/medghazouan/bidayalab/internal/config"
	"github.com/medghazouan/bidayalab/internal/handlers"
	"github.com/medghazouan/bidayalab/internal/pagecache"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Init DB. The connection is opened and migrated on first use; ping
	// here so a bad DSN fails at startup rather than on the first request.
	db := cfg.OpenStore()
	if err := db.Ping(ctx); err != nil {
		slog.Error("Failed to connect to database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}

	cache, err := pagecache.New(cfg.PageCacheSize)
	if err != nil {
		slog.Error("Failed to create page cache", "error", err)
		os.Exit(1)
	}
	acts := actions.New(db, cache, actions.Options{ImageDomains: cfg.ImageDomains})

	// 3. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 4. Init Templates
	templates := handlers.NewTemplateCache()
	if err := templates.Load(); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	uploads, err := handlers.NewUploader(cfg.UploadDir)
	if err != nil {
		slog.Error("Failed to prepare upload directory", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	// 5. Routes
	router := handlers.NewRouter(handlers.RouterConfig{
		Actions:      acts,
		Templates:    templates,
		SessionStore: sessionStore,
		Cache:        cache,
		RateLimiter:  handlers.NewRateLimiter(ctx, cfg.RateLimitWindow),
		Uploads:      uploads,
	})

	// 6. Middleware Setup
	csrfOpts := []csrf.Option{
		csrf.Secure(cfg.CookieSecure),
		csrf.Path("/"),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	}
	CSRF := csrf.Protect(cfg.CSRFKey, csrfOpts...)
	protected := CSRF(router)
	if !cfg.CookieSecure {
		// Without TLS the origin check must not expect an https referer.
		inner := protected
		protected = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inner.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}

	// Chain: Logger -> Security Headers -> CSRF -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(cfg.ImageDomains)(protected),
	)

	// 7. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Port, "driver", cfg.DBDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	if err := db.Close(shutdownCtx); err != nil {
		slog.Error("Failed to close database", "error", err)
	}

	slog.Info("Server exited gracefully.")
}
