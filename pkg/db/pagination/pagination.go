package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 250
)

var ErrInvalidPageToken = errors.New("invalid_page_token")

type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size" validate:"omitempty,gte=1,lte=250"`
}

// Cursor marks the last row returned by the previous page.
type Cursor struct {
	ID string `json:"id"`
}

type PageInfo struct {
	NextPageToken string `json:"nextPageToken,omitempty"`
	HasMore       bool   `json:"hasMore"`
}

func EncodeCursor(data Cursor) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func DecodeCursor(data string) (*Cursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return nil, ErrInvalidPageToken
	}
	var cursor Cursor
	if err := json.Unmarshal(b, &cursor); err != nil || cursor.ID == "" {
		return nil, ErrInvalidPageToken
	}
	return &cursor, nil
}

// Limit clamps the requested size into [1, MaxPageSize].
func (p Pagination) Limit() int {
	switch {
	case p.PageSize <= 0:
		return DefaultPageSize
	case p.PageSize > MaxPageSize:
		return MaxPageSize
	default:
		return p.PageSize
	}
}

// Apply orders by column descending and fetches one extra row so the caller
// can tell whether another page exists. parse converts the cursor id into the
// column's type; nil keeps it as a string.
func Apply(q *gorm.DB, p Pagination, column string, parse func(string) (any, error)) (*gorm.DB, error) {
	if p.PageToken != "" {
		cursor, err := DecodeCursor(p.PageToken)
		if err != nil {
			return nil, err
		}
		var value any = cursor.ID
		if parse != nil {
			if value, err = parse(cursor.ID); err != nil {
				return nil, ErrInvalidPageToken
			}
		}
		q = q.Where(column+" < ?", value)
	}
	return q.Order(column + " DESC").Limit(p.Limit() + 1), nil
}

// Trim cuts the look-ahead row off data and builds the page info.
func Trim[T any](data []T, p Pagination, extractID func(T) string) ([]T, PageInfo, error) {
	limit := p.Limit()
	if len(data) <= limit {
		return data, PageInfo{}, nil
	}
	data = data[:limit]
	token, err := EncodeCursor(Cursor{ID: extractID(data[len(data)-1])})
	if err != nil {
		return nil, PageInfo{}, err
	}
	return data, PageInfo{NextPageToken: token, HasMore: true}, nil
}
