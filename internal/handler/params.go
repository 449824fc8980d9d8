package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/ostrich-customer-api/internal/db"
)

// Middleware is the chi middleware signature.
type Middleware = func(http.Handler) http.Handler

// idParam parses a positive integer path parameter. A malformed id is
// reported as the entity not existing.
func idParam(w http.ResponseWriter, r *http.Request, name, notFound string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		fail(w, http.StatusNotFound, notFound)
		return 0, false
	}
	return id, true
}

// intQuery returns the query value clamped to [lo, hi], or def when absent
// or malformed.
func intQuery(r *http.Request, key string, def, lo, hi int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func listOf(key string, rows []db.Row) map[string]any {
	if rows == nil {
		rows = []db.Row{}
	}
	return map[string]any{key: rows, "total_count": len(rows)}
}
