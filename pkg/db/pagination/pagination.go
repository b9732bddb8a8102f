// Package pagination implements cursor paging over snowflake-keyed tables.
// Ids are time-ordered, so the cursor is simply the last id of the previous
// page.
package pagination

import (
	"encoding/base64"

	"github.com/bwmarrin/snowflake"
)

const (
	defaultPageSize = 50
	maxPageSize     = 250
)

// Pagination binds the paging query parameters shared by list endpoints.
type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
}

// Limit returns the effective page size.
func (p Pagination) Limit() int {
	if p.PageSize < 1 {
		return defaultPageSize
	}
	if p.PageSize > maxPageSize {
		return maxPageSize
	}
	return p.PageSize
}

// After returns the id the page should start after, if a valid token is set.
func (p Pagination) After() (snowflake.ID, bool) {
	raw, err := base64.StdEncoding.DecodeString(p.PageToken)
	if err != nil {
		return 0, false
	}
	id, err := snowflake.ParseString(string(raw))
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// PageInfo is returned alongside every page.
type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	HasMore       bool   `json:"has_more"`
}

func token(id snowflake.ID) string {
	return base64.StdEncoding.EncodeToString([]byte(id.String()))
}

// Page trims rows fetched with limit+1 down to the page and derives the page
// info from the overshoot.
func Page[T any](rows []*T, limit int, lastID func(*T) snowflake.ID) ([]*T, *PageInfo) {
	if limit <= 0 || len(rows) <= limit {
		return rows, &PageInfo{}
	}
	rows = rows[:limit]
	return rows, &PageInfo{
		HasMore:       true,
		NextPageToken: token(lastID(rows[len(rows)-1])),
	}
}
