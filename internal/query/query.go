// Package query translates HTTP query parameters into store-level filter,
// sort and pagination settings.
package query

import (
	"net/url"
	"strconv"

	"github.com/ManishKhulbe/Firmable-backend/internal/apperr"
	"github.com/ManishKhulbe/Firmable-backend/internal/model"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Condition is a single field-equality filter.
type Condition struct {
	Column string
	Value  string
}

// Search is a case-insensitive substring match across a set of text columns.
type Search struct {
	Term    string
	Columns []string
}

// ListQuery is the store-level shape of a list request:
// a conjunction of equality conditions plus an optional substring search,
// a single-column sort, and an offset/limit pair.
type ListQuery struct {
	Page       int
	Limit      int
	SortColumn string
	Descending bool
	Conditions []Condition
	Search     *Search
}

// Offset re-derives the row offset, clamping page and limit so a query built
// from unvalidated options can never push a negative offset at the store.
func (q ListQuery) Offset() int {
	page := q.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := q.EffectiveLimit()
	return (page - 1) * limit
}

// EffectiveLimit returns the limit clamped into [1, MaxLimit].
func (q ListQuery) EffectiveLimit() int {
	if q.Limit < 1 || q.Limit > MaxLimit {
		return DefaultLimit
	}
	return q.Limit
}

// Order returns the SQL order clause for the requested sort.
func (q ListQuery) Order() string {
	dir := "asc"
	if q.Descending {
		dir = "desc"
	}
	return q.SortColumn + " " + dir
}

// Pages returns the total page count for a result set of the given size.
func Pages(total int64, limit int) int {
	if limit < 1 {
		limit = DefaultLimit
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// recordSortColumns whitelists sortBy values for record listings.
var recordSortColumns = map[string]string{
	"abn":              "abn",
	"status":           "status",
	"lastUpdated":      "last_updated",
	"createdAt":        "created_at",
	"legalName":        "legal_name",
	"organisationName": "organisation_name",
}

// nameSortColumns whitelists sortBy values for name listings.
var nameSortColumns = map[string]string{
	"name":      "name",
	"type":      "type",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// recordSearchColumns are the text fields covered by the records free-text
// filter.
var recordSearchColumns = []string{"abn", "legal_name", "organisation_name", "acn"}

// nameSearchColumns are the text fields covered by the names free-text filter.
var nameSearchColumns = []string{"name", "abn"}

// ParseRecordQuery builds the list query for GET /abn-records.
func ParseRecordQuery(values url.Values) (ListQuery, error) {
	q, errs := parseCommon(values, recordSortColumns, "lastUpdated")

	if status := values.Get("status"); status != "" {
		if status != model.StatusActive && status != model.StatusCancelled {
			errs = append(errs, apperr.FieldError{Field: "status", Message: "Status must be either Active or Cancelled"})
		} else {
			q.Conditions = append(q.Conditions, Condition{Column: "status", Value: status})
		}
	}
	if entityType := values.Get("entityType"); entityType != "" {
		q.Conditions = append(q.Conditions, Condition{Column: "entity_type_code", Value: entityType})
	}
	if state := values.Get("state"); state != "" {
		q.Conditions = append(q.Conditions, Condition{Column: "state", Value: state})
	}
	if search := values.Get("search"); search != "" {
		q.Search = &Search{Term: search, Columns: recordSearchColumns}
	}

	if len(errs) > 0 {
		return ListQuery{}, apperr.NewValidation(errs)
	}
	return q, nil
}

// ParseNameQuery builds the list query for GET /abn-names.
func ParseNameQuery(values url.Values) (ListQuery, error) {
	q, errs := parseCommon(values, nameSortColumns, "createdAt")

	if abn := values.Get("abn"); abn != "" {
		q.Conditions = append(q.Conditions, Condition{Column: "abn", Value: abn})
	}
	if typ := values.Get("type"); typ != "" {
		if !model.ValidNameType(typ) {
			errs = append(errs, apperr.FieldError{Field: "type", Message: "Invalid name type"})
		} else {
			q.Conditions = append(q.Conditions, Condition{Column: "type", Value: typ})
		}
	}
	if search := values.Get("search"); search != "" {
		q.Search = &Search{Term: search, Columns: nameSearchColumns}
	}

	if len(errs) > 0 {
		return ListQuery{}, apperr.NewValidation(errs)
	}
	return q, nil
}

// ParsePagination extracts just the page and limit options, for endpoints
// with a fixed sort such as ranked search.
func ParsePagination(values url.Values) (page, limit int, err error) {
	var errs []apperr.FieldError
	page = parsePage(values, &errs)
	limit = parseLimit(values, &errs)
	if len(errs) > 0 {
		return 0, 0, apperr.NewValidation(errs)
	}
	return page, limit, nil
}

func parseCommon(values url.Values, sortColumns map[string]string, defaultSort string) (ListQuery, []apperr.FieldError) {
	var errs []apperr.FieldError

	q := ListQuery{
		Page:       parsePage(values, &errs),
		Limit:      parseLimit(values, &errs),
		SortColumn: sortColumns[defaultSort],
		Descending: true,
	}

	if sortBy := values.Get("sortBy"); sortBy != "" {
		column, ok := sortColumns[sortBy]
		if !ok {
			errs = append(errs, apperr.FieldError{Field: "sortBy", Message: "Invalid sort field"})
		} else {
			q.SortColumn = column
		}
	}
	switch values.Get("sortOrder") {
	case "":
	case "desc":
	case "asc":
		q.Descending = false
	default:
		errs = append(errs, apperr.FieldError{Field: "sortOrder", Message: "Sort order must be either asc or desc"})
	}
	return q, errs
}

func parsePage(values url.Values, errs *[]apperr.FieldError) int {
	raw := values.Get("page")
	if raw == "" {
		return DefaultPage
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		*errs = append(*errs, apperr.FieldError{Field: "page", Message: "Page must be a positive integer"})
		return DefaultPage
	}
	return page
}

func parseLimit(values url.Values, errs *[]apperr.FieldError) int {
	raw := values.Get("limit")
	if raw == "" {
		return DefaultLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > MaxLimit {
		*errs = append(*errs, apperr.FieldError{Field: "limit", Message: "Limit must be between 1 and 100"})
		return DefaultLimit
	}
	return limit
}
