package params

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"", 1, DefaultLimit, 0},
		{"page=3&limit=10", 3, 10, 20},
		{"limit=500", 1, MaxLimit, 0},
		{"limit=0", 1, DefaultLimit, 0},
		{"limit=-4&page=-2", 1, DefaultLimit, 0},
		{"limit=abc&page=xyz", 1, DefaultLimit, 0},
		{"page=%202%20", 2, DefaultLimit, DefaultLimit},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)

			p := ParsePagination(q)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestComputeMeta(t *testing.T) {
	p := Pagination{Page: 2, Limit: 12}
	p.ComputeMeta(30)

	assert.Equal(t, 30, p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)

	last := Pagination{Page: 3, Limit: 12}
	last.ComputeMeta(30)
	assert.False(t, last.HasNext)

	empty := Pagination{Page: 1, Limit: 12}
	empty.ComputeMeta(0)
	assert.Zero(t, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-1", "abc", "9223372036854775808"} {
		_, err := ParseID(bad)
		assert.ErrorIs(t, err, ErrInvalidID, bad)
	}
}

func TestParseBool(t *testing.T) {
	q := url.Values{"pending": {"true"}, "junk": {"maybe"}}
	assert.True(t, ParseBool(q, "pending", false))
	assert.True(t, ParseBool(q, "junk", true))
	assert.False(t, ParseBool(q, "missing", false))
}
