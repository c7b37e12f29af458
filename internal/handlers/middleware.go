package handlers

import (
	"context"
	"encoding/gob"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/sessions"
	"github.com/medghazouan/bidayalab/internal/auth"
	"github.com/medghazouan/bidayalab/internal/models"
)

// Register types for gob encoding (used by sessions)
func init() {
	gob.Register(FlashMessage{})
}

// Session cookie names.
const (
	adminSession  = "admin-session"
	publicSession = "public-session"
)

// LoggingMiddleware logs the details of each HTTP request
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r)
		slog.Info("HTTP Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.statusCode,
			"duration", time.Since(start),
			"ip", clientIP(r),
		)
	})
}

// Custom ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// SecurityHeadersMiddleware adds standard security headers. Remote images
// are limited to the allowlisted hosts.
func SecurityHeadersMiddleware(imageDomains []string) func(http.Handler) http.Handler {
	imgSrc := "img-src 'self' data:"
	for _, d := range imageDomains {
		imgSrc += " https://" + d
	}
	csp := "default-src 'self'; style-src 'self' 'unsafe-inline'; " + imgSrc + "; script-src 'self'"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("Content-Security-Policy", csp)
			next.ServeHTTP(w, r)
		})
	}
}

// AccountLookup finds admin accounts by id; Get returns nil for a
// deleted account.
type AccountLookup interface {
	Get(ctx context.Context, id string) (*models.Admin, error)
}

// GateMiddleware applies the admin access policy to every request, reading
// the login state from the admin session cookie. A session whose account
// has been deleted counts as signed out and is cleared.
func GateMiddleware(store sessions.Store, accounts AccountLookup, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := store.Get(r, adminSession)
		loggedIn, _ := session.Values["authenticated"].(bool)

		cleared := false
		// Only paths where login state changes the outcome pay for the lookup.
		if loggedIn && (auth.IsProtected(r.URL.Path) || r.URL.Path == auth.SignInPath) {
			id, _ := session.Values["admin_id"].(string)
			var admin *models.Admin
			if id != "" {
				var err error
				admin, err = accounts.Get(r.Context(), id)
				if err != nil {
					slog.Error("Gate: account lookup failed", "admin_id", id, "error", err)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
			}
			if admin == nil {
				slog.Warn("Gate: account no longer exists, signing out", "admin_id", id)
				delete(session.Values, "authenticated")
				delete(session.Values, "admin_id")
				loggedIn, cleared = false, true
			}
		}

		switch auth.Decide(loggedIn, r.URL.Path) {
		case auth.DenyToSignIn:
			slog.Info("Gate: not signed in, redirecting", "path", r.URL.Path)
			session.AddFlash(FlashMessage{Type: "error", Message: "You must be logged in to access this page."})
			session.Save(r, w)
			http.Redirect(w, r, auth.SignInPath, http.StatusSeeOther)
		case auth.RedirectToDashboard:
			http.Redirect(w, r, auth.DashboardPath, http.StatusSeeOther)
		default:
			if cleared {
				session.Save(r, w)
			}
			next.ServeHTTP(w, r)
		}
	})
}

// RateLimiter allows one request per window from each client IP.
type RateLimiter struct {
	visitors sync.Map
	window   time.Duration
}

// NewRateLimiter creates a rate limiter whose cleanup goroutine runs until
// ctx is done.
func NewRateLimiter(ctx context.Context, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		window: window,
	}
	go rl.cleanup(ctx)
	return rl
}

// cleanup removes old entries to prevent memory leaks
func (rl *RateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.visitors.Range(func(key, value any) bool {
				if now.Sub(value.(time.Time)) > rl.window {
					rl.visitors.Delete(key)
				}
				return true
			})
		}
	}
}

// Middleware enforces the rate limit
func (rl *RateLimiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		if lastSeen, ok := rl.visitors.Load(ip); ok {
			if time.Since(lastSeen.(time.Time)) < rl.window {
				slog.Warn("Rate limit exceeded", "ip", ip)
				http.Error(w, "Too Many Requests. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}

		rl.visitors.Store(ip, time.Now())
		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// FlashMessage structure
type FlashMessage struct {
	Type    string
	Message string
}

// GetFlash retrieves flash messages from the session
func GetFlash(session *sessions.Session) []FlashMessage {
	flashes := session.Flashes()
	var messages []FlashMessage
	for _, f := range flashes {
		if fm, ok := f.(FlashMessage); ok {
			messages = append(messages, fm)
		}
	}
	return messages
}
