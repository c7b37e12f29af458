package actions

import (
	"net/url"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/medghazouan/bidayalab/internal/models"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fieldErrors accumulates validation problems so a single error can name
// every bad field at once.
type fieldErrors []models.FieldError

func (e *fieldErrors) add(field, message string) {
	*e = append(*e, models.FieldError{Field: field, Message: message})
}

func (e *fieldErrors) required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		e.add(field, "required")
		return false
	}
	return true
}

func (e fieldErrors) err() error {
	if len(e) == 0 {
		return nil
	}
	return &models.ValidationError{Errors: e}
}

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(strings.ToLower(email))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// cleanList trims every entry and drops the empty ones.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

// Slugify turns a title into a URL path segment: "Café Déjà Vu!" → "cafe-deja-vu".
func Slugify(s string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// imagePolicy accepts uploaded images (site-relative paths) and remote
// images on allowlisted hosts.
type imagePolicy struct {
	domains []string
}

func (p imagePolicy) check(errs *fieldErrors, field, ref string) {
	if ref == "" || strings.HasPrefix(ref, "/") && !strings.HasPrefix(ref, "//") {
		return
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs.add(field, "must be an uploaded image or an http(s) URL")
		return
	}
	if !slices.Contains(p.domains, u.Hostname()) {
		errs.add(field, "image host "+u.Hostname()+" is not allowed")
	}
}
