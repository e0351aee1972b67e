// Package pagination implements page/skip/limit pagination over MongoDB
// queries. Every paginated endpoint accepts ?page= and ?page_size= query
// parameters; malformed values silently fall back to defaults rather than
// erroring. Responses carry total count, total pages and next/previous
// navigation hints alongside the result window.
package pagination

import (
	"context"
	"net/url"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// DefaultPage is used when the page parameter is absent or malformed.
	DefaultPage = 1
	// DefaultPageSize is used when page_size is absent or malformed.
	DefaultPageSize = 10
	// DefaultMaxPageSize caps page_size when no cap is configured.
	DefaultMaxPageSize = 100
)

// Params holds normalized pagination inputs: page is always >= 1 and
// pageSize is clamped to [1, max].
type Params struct {
	Page     int
	PageSize int
}

// FromQuery parses page and page_size from query values. Non-numeric or
// non-positive inputs fall back to defaults; page_size is capped at
// maxPageSize (or DefaultMaxPageSize when maxPageSize is not positive).
func FromQuery(q url.Values, maxPageSize int) Params {
	if maxPageSize <= 0 {
		maxPageSize = DefaultMaxPageSize
	}
	page := DefaultPage
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n >= 1 {
		page = n
	}
	size := DefaultPageSize
	if n, err := strconv.Atoi(q.Get("page_size")); err == nil && n >= 1 {
		size = n
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return Params{Page: page, PageSize: size}
}

// Skip returns the number of documents to skip for this page.
func (p Params) Skip() int64 {
	return int64(p.Page-1) * int64(p.PageSize)
}

// TotalPages returns ceil(count/pageSize) with a floor of 1: an empty
// result set is still reported as "page 1 of 1", never "page 1 of 0".
func TotalPages(count int64, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	pages := int((count + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Page is one window of results with its navigation metadata.
type Page[T any] struct {
	Results   []T
	Count     int64
	Current   int
	TotalPage int
}

// Next returns the next page number, or nil on the last page.
func (pg *Page[T]) Next() *int {
	if pg.Current < pg.TotalPage {
		n := pg.Current + 1
		return &n
	}
	return nil
}

// Previous returns the previous page number, or nil on the first page.
func (pg *Page[T]) Previous() *int {
	if pg.Current > 1 {
		n := pg.Current - 1
		return &n
	}
	return nil
}

// Response renders the page in the shape every list endpoint returns.
func (pg *Page[T]) Response() map[string]any {
	results := pg.Results
	if results == nil {
		results = []T{}
	}
	return map[string]any{
		"next":       pg.Next(),
		"previous":   pg.Previous(),
		"current":    pg.Current,
		"total_page": pg.TotalPage,
		"count":      pg.Count,
		"results":    results,
	}
}

// Empty builds a page with zero results, used when a scope check already
// determined the result set is empty without querying the store.
func Empty[T any](p Params) *Page[T] {
	return &Page[T]{Results: []T{}, Count: 0, Current: p.Page, TotalPage: 1}
}

// Paginate runs a count plus a windowed, sorted fetch against a collection
// and decodes the window into T values. The count and the fetch are two
// separate round-trips; a write landing between them can skew the metadata
// by one, which is acceptable for listing endpoints.
func Paginate[T any](ctx context.Context, coll *mongo.Collection, filter any, sort bson.D, p Params) (*Page[T], error) {
	count, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(p.Skip()).
		SetLimit(int64(p.PageSize))
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	results := []T{}
	if err := cur.All(ctx, &results); err != nil {
		return nil, err
	}

	return &Page[T]{
		Results:   results,
		Count:     count,
		Current:   p.Page,
		TotalPage: TotalPages(count, p.PageSize),
	}, nil
}
