package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	apperrors "github.com/trustgigs/ledger/internal/errors"
)

// invalidStatusParam rejects an unknown status filter value.
func invalidStatusParam(raw string) error {
	return apperrors.InvalidInputField("status", fmt.Sprintf("unknown status %q", raw))
}

// invalidFromParam rejects a non-numeric event feed offset.
func invalidFromParam(raw string) error {
	return apperrors.InvalidInputField("from", fmt.Sprintf("invalid sequence offset %q", raw))
}

// errStopReplay terminates an event replay once a page is full.
var errStopReplay = errors.New("stop replay")

// parseIntQuery returns the integer value of a query param or a default.
// It is tolerant of missing/invalid values.
func parseIntQuery(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// parseUintQuery returns the unsigned value of a query param, or nil when the
// param is absent or invalid.
func parseUintQuery(r *http.Request, key string) *uint64 {
	if v := r.URL.Query().Get(key); v != "" {
		if u, err := strconv.ParseUint(v, 10, 64); err == nil {
			return &u
		}
	}
	return nil
}

// pathID parses the {id} path segment as an unsigned integer id.
func pathID(r *http.Request) (uint64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.InvalidInputField("id", "id must be a positive integer")
	}
	return id, nil
}

// parseLimitOffset parses pagination params and clamps to sane bounds.
func parseLimitOffset(r *http.Request, defLimit, maxLimit int) (int, int) {
	if maxLimit < 1 {
		maxLimit = 1
	}

	lim := parseIntQuery(r, "limit", defLimit)
	off := parseIntQuery(r, "offset", 0)
	if lim < 1 {
		lim = 1
	}
	if lim > maxLimit {
		lim = maxLimit
	}
	if off < 0 {
		off = 0
	}
	return lim, off
}
