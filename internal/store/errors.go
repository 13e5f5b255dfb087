package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"
)

// ErrUnavailable is returned when the store cannot be reached or the breaker is open.
var ErrUnavailable = errors.New("store_unavailable")

var transientMarkers = []string{
	"database is closed",
	"sql: database is closed",
	"connection refused",
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"no such host",
	"bad connection",
	"server closed the connection",
}

// IsTransient reports whether err looks like lost connectivity rather than a
// rejected statement. Only transient errors count against the breaker.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
