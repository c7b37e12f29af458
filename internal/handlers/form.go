package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

const maxFormMemory = 10 << 20 // 10MB

// parseForm accepts both multipart and urlencoded bodies.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

func formString(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

func formBool(r *http.Request, name string) bool {
	switch r.FormValue(name) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// formLines splits a textarea into its non-empty lines.
func formLines(r *http.Request, name string) []string {
	return splitClean(strings.ReplaceAll(r.FormValue(name), "\r\n", "\n"), "\n")
}

// formCommaList splits a comma separated input.
func formCommaList(r *http.Request, name string) []string {
	return splitClean(r.FormValue(name), ",")
}

func splitClean(s, sep string) []string {
	out := []string{}
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// formFloat parses a number; ok is false when the field is not a number.
func formFloat(r *http.Request, name string) (float64, bool) {
	v, err := strconv.ParseFloat(formString(r, name), 64)
	return v, err == nil
}

func formInt(r *http.Request, name string, fallback int) int {
	v, err := strconv.Atoi(formString(r, name))
	if err != nil {
		return fallback
	}
	return v
}

func ptr[T any](v T) *T { return &v }
