package params

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 12
	MaxLimit     = 50
)

var ErrInvalidID = errors.New("invalid id")

// Pagination holds the parsed ?page=&limit= values and, once ComputeMeta
// has run, the metadata returned to clients.
type Pagination struct {
	Limit      int  `json:"limit"`
	Offset     int  `json:"-"`
	Page       int  `json:"page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// ParsePagination never fails: malformed values fall back to defaults and
// limit is clamped to MaxLimit.
func ParsePagination(q url.Values) Pagination {
	p := Pagination{
		Limit: DefaultLimit,
		Page:  1,
	}

	if limitStr := strings.TrimSpace(q.Get("limit")); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			switch {
			case limit <= 0:
				p.Limit = DefaultLimit
			case limit > MaxLimit:
				p.Limit = MaxLimit
			default:
				p.Limit = limit
			}
		}
	}

	if pageStr := strings.TrimSpace(q.Get("page")); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			p.Page = page
		}
	}

	p.Offset = (p.Page - 1) * p.Limit
	return p
}

// ComputeMeta fills the totals after the count query.
func (p *Pagination) ComputeMeta(total int) {
	p.Total = total
	if p.Limit > 0 {
		p.TotalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	p.HasPrev = p.Page > 1
	p.HasNext = (p.Page * p.Limit) < total
}

// ParseID parses a positive int64 path parameter.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// ParseBool reads an optional boolean query flag; anything unparsable is def.
func ParseBool(q url.Values, key string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(q.Get(key)))
	if err != nil {
		return def
	}
	return v
}
