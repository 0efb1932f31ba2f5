// Package listquery builds the filtered, sorted, paginated queries behind
// every grid endpoint. Callers describe a request with a Spec; the engine
// validates sort and filter fields against a per-entity column allow-list
// before any SQL is built, so caller-supplied names never reach an ORDER BY
// unchecked.
package listquery

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/autotracker/tracker-admin/internal"
	"gorm.io/gorm"
)

const (
	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

// Spec is one grid request. Zero values mean "use the endpoint default".
type Spec struct {
	Page        int
	Limit       int
	SortField   string
	SortOrder   string
	FilterField string
	FilterValue string
	Search      string
}

// Columns is the closed column enumeration for one entity. Fields maps
// request field names (lowercased) to real column names and doubles as the
// filter allow-list; Searchable lists the columns OR-ed together for
// free-text search.
type Columns struct {
	Fields     map[string]string
	Searchable []string
}

// Defaults carries per-endpoint request defaults.
type Defaults struct {
	Limit     int
	SortField string
	SortOrder string
}

// Page is one page of rows plus the total count matching the same predicate.
type Page[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
}

// FromQuery parses a Spec out of URL query parameters, falling back to the
// endpoint defaults for anything absent or unparseable.
func FromQuery(values url.Values, defaults Defaults) Spec {
	spec := Spec{
		Page:        1,
		Limit:       defaults.Limit,
		SortField:   defaults.SortField,
		SortOrder:   defaults.SortOrder,
		FilterField: values.Get("filterField"),
		FilterValue: values.Get("filterValue"),
		Search:      values.Get("search"),
	}

	if raw := values.Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page >= 1 {
			spec.Page = page
		}
	}
	if raw := values.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			spec.Limit = limit
		}
	}
	if raw := values.Get("sortField"); raw != "" {
		spec.SortField = raw
	}
	if raw := values.Get("sortOrder"); raw != "" {
		spec.SortOrder = strings.ToUpper(raw)
	}

	return spec
}

// Validate checks the spec against the entity's column allow-list.
func (s Spec) Validate(cols Columns) error {
	if s.SortOrder != OrderAsc && s.SortOrder != OrderDesc {
		return internal.NewValidationError(
			fmt.Sprintf("sortOrder must be ASC or DESC, got %q", s.SortOrder),
			internal.ErrCodeInvalidSortOrder)
	}
	if _, ok := cols.Fields[strings.ToLower(s.SortField)]; !ok {
		return internal.NewValidationError(
			fmt.Sprintf("unknown sort field %q", s.SortField),
			internal.ErrCodeInvalidSortField)
	}
	if s.FilterField != "" && s.FilterValue != "" {
		if _, ok := cols.Fields[strings.ToLower(s.FilterField)]; !ok {
			return internal.NewValidationError(
				fmt.Sprintf("unknown filter field %q", s.FilterField),
				internal.ErrCodeInvalidFilter)
		}
	}
	return nil
}

// Scope narrows a query before filters apply, e.g. to one user's objects.
type Scope func(*gorm.DB) *gorm.DB

// Find runs the spec against the entity table and returns the page plus the
// total count. Rows and total are computed from the same predicate.
func Find[T any](db *gorm.DB, spec Spec, cols Columns, scopes ...Scope) (Page[T], error) {
	if err := spec.Validate(cols); err != nil {
		return Page[T]{}, err
	}

	filtered := func() *gorm.DB {
		q := db.Model(new(T))
		for _, scope := range scopes {
			q = scope(q)
		}
		return applyFilters(q, spec, cols)
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return Page[T]{}, fmt.Errorf("count rows: %w", err)
	}

	column := cols.Fields[strings.ToLower(spec.SortField)]
	rows := make([]T, 0, spec.Limit)
	err := filtered().
		Order(fmt.Sprintf("%s %s", column, spec.SortOrder)).
		Offset((spec.Page - 1) * spec.Limit).
		Limit(spec.Limit).
		Find(&rows).Error
	if err != nil {
		return Page[T]{}, fmt.Errorf("find rows: %w", err)
	}

	return Page[T]{Data: rows, Total: total}, nil
}

// applyFilters composes the optional single-field filter and the free-text
// search with AND. Matching is case-insensitive substring containment;
// LOWER(...) LIKE keeps Postgres and SQLite behavior identical.
func applyFilters(q *gorm.DB, spec Spec, cols Columns) *gorm.DB {
	if spec.FilterField != "" && spec.FilterValue != "" {
		column := cols.Fields[strings.ToLower(spec.FilterField)]
		// cast first: filterable columns include booleans and integers
		q = q.Where(fmt.Sprintf("LOWER(CAST(%s AS TEXT)) LIKE ?", column), containsPattern(spec.FilterValue))
	}

	if spec.Search != "" && len(cols.Searchable) > 0 {
		clauses := make([]string, 0, len(cols.Searchable))
		args := make([]interface{}, 0, len(cols.Searchable))
		for _, column := range cols.Searchable {
			clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ?", column))
			args = append(args, containsPattern(spec.Search))
		}
		q = q.Where(strings.Join(clauses, " OR "), args...)
	}

	return q
}

func containsPattern(value string) string {
	return "%" + strings.ToLower(value) + "%"
}
