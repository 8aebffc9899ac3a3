package domain

import (
	"fmt"
	"time"

	"github.com/hihello1226/our-ledger/internal/apperrors"
)

const monthLayout = "2006-01"

// Month is a calendar month in YYYY-MM form. Lexicographic order equals chronological order.
type Month string

// ParseMonth validates s as YYYY-MM.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: month must be in YYYY-MM format", apperrors.ErrValidation)
	}
	return Month(t.Format(monthLayout)), nil
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month(t.Format(monthLayout))
}

// Range returns the first day of the month and the first day of the following month.
func (m Month) Range() (time.Time, time.Time) {
	start, _ := time.Parse(monthLayout, string(m))
	return start, start.AddDate(0, 1, 0)
}

func (m Month) String() string {
	return string(m)
}
