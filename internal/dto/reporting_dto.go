package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/bookkeeping_core/internal/apperrors"
	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
)

// DateLayout is the calendar date format accepted for report ranges.
const DateLayout = "2006-01-02"

// ParseDateRange builds an inclusive range from optional YYYY-MM-DD bounds.
// Empty strings leave that end open.
func ParseDateRange(from, to string) (domain.DateRange, error) {
	var r domain.DateRange
	if from != "" {
		t, err := time.Parse(DateLayout, from)
		if err != nil {
			return r, fmt.Errorf("%w: invalid from date %q", apperrors.ErrValidation, from)
		}
		r.From = &t
	}
	if to != "" {
		t, err := time.Parse(DateLayout, to)
		if err != nil {
			return r, fmt.Errorf("%w: invalid to date %q", apperrors.ErrValidation, to)
		}
		r.To = &t
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return r, fmt.Errorf("%w: to date %s is before from date %s", apperrors.ErrValidation, to, from)
	}
	return r, nil
}
