package dto

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/cesargomez89/statify/internal/constants"
	"github.com/cesargomez89/statify/internal/spotify"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ToMap(errs []ValidationError) map[string]string {
	result := make(map[string]string)
	for _, e := range errs {
		result[e.Field] = e.Message
	}
	return result
}

func ToResponse(errs []ValidationError) string {
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// TopQuery carries the validated query parameters of top-item endpoints.
// Zero values mean "not sent", leaving the API defaults in charge.
type TopQuery struct {
	TimeRange string
	Limit     int
	Offset    int
}

func ParseTopQuery(q url.Values) (*TopQuery, []ValidationError) {
	var errs []ValidationError
	parsed := &TopQuery{}

	if timeRange := q.Get("time_range"); timeRange != "" {
		if !spotify.TimeRange(timeRange).Valid() {
			errs = append(errs, ValidationError{Field: "time_range", Message: "must be one of: short_term, medium_term, long_term"})
		} else {
			parsed.TimeRange = timeRange
		}
	}

	errs = append(errs, parseLimit(q, &parsed.Limit, constants.MaxTopLimit)...)
	errs = append(errs, parseOffset(q, &parsed.Offset)...)

	if len(errs) > 0 {
		return nil, errs
	}
	return parsed, nil
}

// PageQuery is the plain limit/offset pair of list endpoints.
type PageQuery struct {
	Limit  int
	Offset int
}

func ParsePageQuery(q url.Values) (*PageQuery, []ValidationError) {
	var errs []ValidationError
	parsed := &PageQuery{}

	errs = append(errs, parseLimit(q, &parsed.Limit, constants.MaxTopLimit)...)
	errs = append(errs, parseOffset(q, &parsed.Offset)...)

	if len(errs) > 0 {
		return nil, errs
	}
	return parsed, nil
}

// RecentQuery validates the listening-history window. After and before are
// Unix millisecond timestamps and mutually exclusive.
type RecentQuery struct {
	Limit  int
	After  int64
	Before int64
}

func ParseRecentQuery(q url.Values) (*RecentQuery, []ValidationError) {
	var errs []ValidationError
	parsed := &RecentQuery{}

	errs = append(errs, parseLimit(q, &parsed.Limit, constants.MaxRecentLimit)...)

	if after := q.Get("after"); after != "" {
		value, err := strconv.ParseInt(after, 10, 64)
		if err != nil || value < 0 {
			errs = append(errs, ValidationError{Field: "after", Message: "must be a Unix millisecond timestamp"})
		} else {
			parsed.After = value
		}
	}
	if before := q.Get("before"); before != "" {
		value, err := strconv.ParseInt(before, 10, 64)
		if err != nil || value < 0 {
			errs = append(errs, ValidationError{Field: "before", Message: "must be a Unix millisecond timestamp"})
		} else {
			parsed.Before = value
		}
	}
	if parsed.After > 0 && parsed.Before > 0 {
		errs = append(errs, ValidationError{Field: "after", Message: "after and before are mutually exclusive"})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return parsed, nil
}

// ParseVolume validates the required volume_percent parameter.
func ParseVolume(q url.Values) (int, []ValidationError) {
	raw := q.Get("volume_percent")
	if raw == "" {
		return 0, []ValidationError{{Field: "volume_percent", Message: "is required"}}
	}
	percent, err := strconv.Atoi(raw)
	if err != nil || percent < 0 || percent > 100 {
		return 0, []ValidationError{{Field: "volume_percent", Message: "must be between 0 and 100"}}
	}
	return percent, nil
}

// ParseShuffle validates the required state parameter.
func ParseShuffle(q url.Values) (bool, []ValidationError) {
	raw := q.Get("state")
	if raw == "" {
		return false, []ValidationError{{Field: "state", Message: "is required"}}
	}
	state, err := strconv.ParseBool(raw)
	if err != nil {
		return false, []ValidationError{{Field: "state", Message: "must be true or false"}}
	}
	return state, nil
}

// SearchQuery validates the search endpoint parameters.
type SearchQuery struct {
	Query  string
	Limit  int
	Offset int
}

func ParseSearchQuery(q url.Values) (*SearchQuery, []ValidationError) {
	var errs []ValidationError
	parsed := &SearchQuery{Query: strings.TrimSpace(q.Get("q"))}

	if parsed.Query == "" {
		errs = append(errs, ValidationError{Field: "q", Message: "is required"})
	}
	errs = append(errs, parseLimit(q, &parsed.Limit, constants.MaxSearchResults)...)
	errs = append(errs, parseOffset(q, &parsed.Offset)...)

	if len(errs) > 0 {
		return nil, errs
	}
	return parsed, nil
}

func parseLimit(q url.Values, dst *int, max int) []ValidationError {
	raw := q.Get("limit")
	if raw == "" {
		return nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > max {
		return []ValidationError{{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", max)}}
	}
	*dst = limit
	return nil
}

func parseOffset(q url.Values, dst *int) []ValidationError {
	raw := q.Get("offset")
	if raw == "" {
		return nil
	}
	offset, err := strconv.Atoi(raw)
	if err != nil || offset < 0 {
		return []ValidationError{{Field: "offset", Message: "must be zero or positive"}}
	}
	*dst = offset
	return nil
}
