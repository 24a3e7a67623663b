// Package repository implements SQL persistence for KickOffHub entities.
// Queries are written with ? placeholders and pass through
// database.ConvertPlaceholders so one query text serves MySQL, PostgreSQL
// and SQLite alike.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// ListOptions carries pagination, search and ordering for list queries.
type ListOptions struct {
	Page    int
	PerPage int
	Search  string
	Sort    string
	Order   string // "asc" or "desc"
}

// Normalize clamps pagination and restricts Sort to the given whitelist.
// Sort columns are interpolated into SQL, so anything outside the
// whitelist falls back to defaultSort.
func (o *ListOptions) Normalize(sortable []string, defaultSort string) {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PerPage < 1 {
		o.PerPage = 20
	}
	if o.PerPage > 100 {
		o.PerPage = 100
	}

	o.Sort = strings.ToLower(strings.TrimSpace(o.Sort))
	valid := false
	for _, s := range sortable {
		if o.Sort == s {
			valid = true
			break
		}
	}
	if !valid {
		o.Sort = defaultSort
	}

	if strings.EqualFold(o.Order, "desc") {
		o.Order = "DESC"
	} else {
		o.Order = "ASC"
	}
}

// Offset returns the SQL offset for the current page.
func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.PerPage
}
