package server

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

// parseReadingDate accepts YYYY-MM-DD or RFC3339 and returns the calendar
// date as written. An RFC3339 offset selects the day, never shifts it.
func parseReadingDate(value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateOnlyLayout, trimmed)
	if err != nil {
		if parsed, err = time.Parse(time.RFC3339, trimmed); err != nil {
			return nil, errors.New("invalid_time")
		}
	}
	date := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	return &date, nil
}

func parsePageSize(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil || parsed < 0 {
		return 0, errors.New("invalid_page_size")
	}
	return parsed, nil
}
