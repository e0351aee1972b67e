package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromQuery_Defaults(t *testing.T) {
	p := FromQuery(url.Values{}, 100)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)
}

func TestFromQuery_MalformedFallsBack(t *testing.T) {
	q := url.Values{"page": {"abc"}, "page_size": {"-5"}}
	p := FromQuery(q, 100)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)

	q = url.Values{"page": {"0"}, "page_size": {"0"}}
	p = FromQuery(q, 100)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)
}

func TestFromQuery_CapsPageSize(t *testing.T) {
	q := url.Values{"page_size": {"5000"}}
	assert.Equal(t, 100, FromQuery(q, 100).PageSize)
	assert.Equal(t, 25, FromQuery(q, 25).PageSize)

	// Non-positive cap falls back to the default maximum.
	assert.Equal(t, DefaultMaxPageSize, FromQuery(q, 0).PageSize)
}

func TestFromQuery_ValidValues(t *testing.T) {
	q := url.Values{"page": {"3"}, "page_size": {"20"}}
	p := FromQuery(q, 100)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 20, p.PageSize)
}

func TestSkip(t *testing.T) {
	assert.Equal(t, int64(0), Params{Page: 1, PageSize: 10}.Skip())
	assert.Equal(t, int64(10), Params{Page: 2, PageSize: 10}.Skip())
	assert.Equal(t, int64(40), Params{Page: 3, PageSize: 20}.Skip())
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		count    int64
		pageSize int
		want     int
	}{
		{0, 10, 1}, // empty still reports one page
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
		{100, 10, 10},
		{101, 10, 11},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TotalPages(tc.count, tc.pageSize))
	}
}

func TestPageNavigation(t *testing.T) {
	first := &Page[int]{Current: 1, TotalPage: 3}
	require.Nil(t, first.Previous())
	require.NotNil(t, first.Next())
	assert.Equal(t, 2, *first.Next())

	middle := &Page[int]{Current: 2, TotalPage: 3}
	assert.Equal(t, 1, *middle.Previous())
	assert.Equal(t, 3, *middle.Next())

	last := &Page[int]{Current: 3, TotalPage: 3}
	assert.Nil(t, last.Next())
	assert.Equal(t, 2, *last.Previous())

	only := &Page[int]{Current: 1, TotalPage: 1}
	assert.Nil(t, only.Next())
	assert.Nil(t, only.Previous())
}

func TestPageResponse_Shape(t *testing.T) {
	pg := &Page[string]{Results: []string{"a", "b"}, Count: 12, Current: 1, TotalPage: 2}
	resp := pg.Response()

	assert.Equal(t, 1, resp["current"])
	assert.Equal(t, 2, resp["total_page"])
	assert.Equal(t, int64(12), resp["count"])
	assert.Equal(t, []string{"a", "b"}, resp["results"])
	require.NotNil(t, resp["next"])
	assert.Equal(t, 2, *resp["next"].(*int))
	assert.Nil(t, resp["previous"].(*int))
}

func TestPageResponse_NilResultsRenderAsEmptySlice(t *testing.T) {
	pg := &Page[string]{Current: 1, TotalPage: 1}
	resp := pg.Response()
	assert.Equal(t, []string{}, resp["results"])
}

func TestEmpty(t *testing.T) {
	pg := Empty[string](Params{Page: 4, PageSize: 10})
	assert.Equal(t, int64(0), pg.Count)
	assert.Equal(t, 4, pg.Current)
	assert.Equal(t, 1, pg.TotalPage)
	assert.Equal(t, []string{}, pg.Results)
	// Page 4 of 1: no next, previous still navigates backwards.
	assert.Nil(t, pg.Next())
	require.NotNil(t, pg.Previous())
}
