// Package search turns listing search parameters into a store query plan and
// resolves which houses are already booked for a requested stay.
package search

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format accepted for sd and ed.
const DateLayout = "2006-01-02"

// ErrInvalidInput marks request parameters rejected before any I/O.
var ErrInvalidInput = errors.New("search: invalid input")

// InputError names the offending parameter.
type InputError struct {
	Param  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("search: invalid %s: %s", e.Param, e.Reason)
}

// Is lets errors.Is match ErrInvalidInput.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// DateRange is an optional stay window. Raw values are kept verbatim for cache keys.
type DateRange struct {
	Start    *time.Time
	End      *time.Time
	StartRaw string
	EndRaw   string
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// ParseDateRange parses optional start and end dates and enforces start <= end.
func ParseDateRange(startRaw, endRaw string) (DateRange, error) {
	r := DateRange{StartRaw: startRaw, EndRaw: endRaw}

	start, err := parseDate("sd", startRaw)
	if err != nil {
		return DateRange{}, err
	}
	end, err := parseDate("ed", endRaw)
	if err != nil {
		return DateRange{}, err
	}
	if start != nil && end != nil && start.After(*end) {
		return DateRange{}, &InputError{Param: "sd", Reason: "start date is after end date"}
	}

	r.Start, r.End = start, end
	return r, nil
}

func parseDate(param, raw string) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return nil, &InputError{Param: param, Reason: "expected YYYY-MM-DD"}
	}
	return &parsed, nil
}

// maxKeyParamLen bounds the raw parameters that are copied into cache keys.
const maxKeyParamLen = 32

// Query is a validated search request.
type Query struct {
	AreaID  *uint
	Dates   DateRange
	SortRaw string
	Sort    SortKey
	Page    int
}

// ParseQuery validates the raw search parameters. Empty values mean "not given";
// the page defaults to 1.
func ParseQuery(areaRaw, startRaw, endRaw, sortRaw, pageRaw string) (Query, error) {
	// Raw sort and date values become part of the page cache bucket key.
	for _, p := range [...]struct{ name, raw string }{{"sd", startRaw}, {"ed", endRaw}, {"sk", sortRaw}} {
		if len(p.raw) > maxKeyParamLen {
			return Query{}, &InputError{Param: p.name, Reason: fmt.Sprintf("longer than %d characters", maxKeyParamLen)}
		}
	}

	q := Query{SortRaw: sortRaw, Sort: ParseSortKey(sortRaw), Page: 1}

	if value := strings.TrimSpace(areaRaw); value != "" {
		id, err := strconv.ParseUint(value, 10, 64)
		if err != nil || id == 0 {
			return Query{}, &InputError{Param: "aid", Reason: "expected a positive integer"}
		}
		area := uint(id)
		q.AreaID = &area
	}

	dates, err := ParseDateRange(startRaw, endRaw)
	if err != nil {
		return Query{}, err
	}
	q.Dates = dates

	if value := strings.TrimSpace(pageRaw); value != "" {
		page, err := strconv.Atoi(value)
		if err != nil || page < 1 {
			return Query{}, &InputError{Param: "p", Reason: "expected a positive integer"}
		}
		q.Page = page
	}

	return q, nil
}
