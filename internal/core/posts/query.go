package posts

import (
	"fmt"
	"time"
)

// RangeLayout is the wire format of range_start and range_end, read as UTC
const RangeLayout = "02/01/2006, 15:04:05"

// DefaultPageSize is used by listings whose caller gives no page_size
const DefaultPageSize = 10

// PaginationParams is the caller's paging, ordering and filtering input
type PaginationParams struct {
	OrderBy    string `json:"order_by"`
	Filter     string `json:"filter"`
	RangeStart string `json:"range_start"`
	RangeEnd   string `json:"range_end"`
	State      State  `json:"state,omitempty"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	Ascending  bool   `json:"ascending"`
}

// Paginated is one page of posts. Length counts every match before paging.
type Paginated struct {
	Items  []*PostDetails   `json:"items"`
	Params PaginationParams `json:"params"`
	Length int              `json:"length"`
}

// SortField is one of the fields posts can be ordered by
type SortField string

const (
	SortID               SortField = "id"
	SortHeadline         SortField = "headline"
	SortSlug             SortField = "slug"
	SortState            SortField = "state"
	SortTime             SortField = "time"
	SortModificationDate SortField = "modification_date"
)

// sortFields whitelists the columns posts can be ordered by
var sortFields = map[SortField]bool{
	SortID:               true,
	SortHeadline:         true,
	SortSlug:             true,
	SortState:            true,
	SortTime:             true,
	SortModificationDate: true,
}

// ParseSortField maps order_by input onto a SortField. Empty input means time.
func ParseSortField(s string) (SortField, error) {
	if s == "" {
		return SortTime, nil
	}
	f := SortField(s)
	if !sortFields[f] {
		return "", fmt.Errorf("%w: unknown order_by %q", ErrInvalidQuery, s)
	}
	return f, nil
}

// Column returns the news_posts column backing the sort field
func (f SortField) Column() string {
	if !sortFields[f] {
		return string(SortTime)
	}
	return string(f)
}

// Query is a validated listing request understood by every Repository.
// Zero values disable the corresponding stage.
type Query struct {
	RangeStart     *time.Time
	RangeEnd       *time.Time
	State          State
	Filter         string
	Sort           SortField
	AuthorID       int64
	OrganizationID int64
	Offset         int
	Limit          int
	Ascending      bool
}

// EffectiveAscending applies the headline rule: headline always sorts A to Z
func (q Query) EffectiveAscending() bool {
	if q.Sort == SortHeadline {
		return true
	}
	return q.Ascending
}

// newestFirst is the ordering used by every non-paginated listing
func newestFirst(q Query) Query {
	q.Sort = SortTime
	q.Ascending = false
	return q
}

// BuildQuery validates params and turns them into a Query over scope.
// An empty scope means every state.
func BuildQuery(params PaginationParams, scope State) (Query, error) {
	if params.PageSize < 1 {
		return Query{}, fmt.Errorf("%w: page_size must be at least 1", ErrInvalidQuery)
	}
	if params.Page < 0 {
		return Query{}, fmt.Errorf("%w: page must not be negative", ErrInvalidQuery)
	}

	sort, err := ParseSortField(params.OrderBy)
	if err != nil {
		return Query{}, err
	}

	q := Query{
		State:     scope,
		Filter:    params.Filter,
		Sort:      sort,
		Ascending: params.Ascending,
		Offset:    params.Page * params.PageSize,
		Limit:     params.PageSize,
	}

	if params.RangeStart != "" {
		start, err := parseRangeTime("range_start", params.RangeStart)
		if err != nil {
			return Query{}, err
		}
		q.RangeStart = &start

		if params.RangeEnd != "" {
			end, err := parseRangeTime("range_end", params.RangeEnd)
			if err != nil {
				return Query{}, err
			}
			if start.After(end) {
				return Query{}, fmt.Errorf("%w: range_start is after range_end", ErrInvalidQuery)
			}
			q.RangeEnd = &end
		}
	}

	return q, nil
}

func parseRangeTime(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation(RangeLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must look like %q", ErrInvalidQuery, field, RangeLayout)
	}
	return t, nil
}
