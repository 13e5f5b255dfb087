package domain

import (
	"fmt"
	"strings"
	"time"
)

const periodLayout = "2006-01"

// Period is a calendar month, written YYYY-MM on the wire and in storage.
type Period struct {
	Year  int
	Month time.Month
}

func ParsePeriod(value string) (Period, error) {
	t, err := time.Parse(periodLayout, strings.TrimSpace(value))
	if err != nil {
		return Period{}, err
	}
	return PeriodOf(t), nil
}

func PeriodOf(t time.Time) Period {
	t = t.UTC()
	return Period{Year: t.Year(), Month: t.Month()}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// Start is midnight UTC on the first day of the month.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (p Period) Prev() Period {
	return PeriodOf(p.Start().AddDate(0, -1, 0))
}
