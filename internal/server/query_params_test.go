package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReadingDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-06-30", time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)},
		{"2024-06-30T22:00:00-05:00", time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)},
		{"2024-07-01T01:30:00+09:00", time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseReadingDate(tt.in)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %s", got)
		})
	}

	empty, err := parseReadingDate("  ")
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = parseReadingDate("30/06/2024")
	assert.Error(t, err)
}

func TestParsePageSize(t *testing.T) {
	n, err := parsePageSize("")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = parsePageSize("25")
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	_, err = parsePageSize("-1")
	assert.Error(t, err)
}
