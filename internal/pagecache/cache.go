// Package pagecache keeps rendered public pages until a mutation
// revalidates their path.
package pagecache

import (
	"bytes"
	"log/slog"
	"net/http"

	lru "github.com/hashicorp/golang-lru/v2"
)

type page struct {
	header http.Header
	body   []byte
}

// Cache is an LRU of rendered pages keyed by request path.
type Cache struct {
	pages *lru.Cache[string, page]
}

func New(size int) (*Cache, error) {
	pages, err := lru.New[string, page](size)
	if err != nil {
		return nil, err
	}
	return &Cache{pages: pages}, nil
}

// Revalidate marks the given paths stale; the next request renders them again.
func (c *Cache) Revalidate(paths ...string) {
	for _, p := range paths {
		if c.pages.Remove(p) {
			slog.Debug("Revalidated cached page", "path", p)
		}
	}
}

// RevalidateAll drops every cached page, for data shown site-wide.
func (c *Cache) RevalidateAll() {
	c.pages.Purge()
	slog.Debug("Revalidated all cached pages")
}

func (c *Cache) Len() int { return c.pages.Len() }

// Middleware serves GET requests from the cache and stores successful
// responses. Pages that vary per visitor must not be wrapped.
func (c *Cache) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next(w, r)
			return
		}

		key := r.URL.Path
		if p, ok := c.pages.Get(key); ok {
			for k, v := range p.header {
				w.Header()[k] = v
			}
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)
			w.Write(p.body)
			return
		}

		rec := &recorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		if rec.status == http.StatusOK {
			header := w.Header().Clone()
			// Cookies belong to the visitor that triggered the render.
			header.Del("Set-Cookie")
			c.pages.Add(key, page{header: header, body: rec.buf.Bytes()})
		}
	}
}

// recorder passes the response through while keeping a copy of the body.
type recorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (r *recorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}
