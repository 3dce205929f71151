// Package datatable keeps the view state of a tabular listing: which filters
// are active, how the rows are sorted and which page is shown. Rendering of a
// row is left to the caller.
//
// A Table is not safe for concurrent use; callers serialize access.
package datatable

import (
	"fmt"
	"sort"
	"strings"

	e "github.com/gartstein/guardroster/internal/console/errors"
)

const DefaultPageSize = 10

// Record is anything a table can filter and sort by key.
type Record interface {
	Field(key string) any
}

type Column struct {
	Key      string
	Label    string
	Sortable bool
}

type FilterType string

const (
	Search FilterType = "search"
	Select FilterType = "select"
)

type Option struct {
	Value string
	Label string
}

type Filter struct {
	Key         string
	Type        FilterType
	Placeholder string
	Options     []Option
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type Sort struct {
	Key       string
	Direction Direction
}

// Config describes a table. RenderRow is required.
type Config[T Record, R any] struct {
	Columns   []Column
	Filters   []Filter
	PageSize  int
	RenderRow func(T) R
	// CanAdd shows the add action above the table.
	CanAdd bool
}

type Table[T Record, R any] struct {
	cfg      Config[T, R]
	data     []T
	filters  map[string]string
	sort     Sort
	page     int
	filtered []T
}

func New[T Record, R any](cfg Config[T, R]) *Table[T, R] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return &Table[T, R]{
		cfg:     cfg,
		filters: make(map[string]string),
		page:    1,
	}
}

// SetData replaces the data set, re-applies the active filters and returns
// to the first page.
func (t *Table[T, R]) SetData(data []T) {
	t.data = append([]T(nil), data...)
	t.page = 1
	t.recompute()
}

func (t *Table[T, R]) Data() []T { return t.data }

// SetFilter sets the value of a declared filter. An empty value clears it.
func (t *Table[T, R]) SetFilter(key, value string) error {
	if _, ok := t.filter(key); !ok {
		return fmt.Errorf("filter %q: %w", key, e.ErrInvalidInput)
	}
	if value == "" {
		delete(t.filters, key)
	} else {
		t.filters[key] = value
	}
	t.page = 1
	t.recompute()
	return nil
}

func (t *Table[T, R]) ClearFilters() {
	t.filters = make(map[string]string)
	t.page = 1
	t.recompute()
}

// SetFilterOptions replaces the options of a select filter, e.g. after the
// data set changed.
func (t *Table[T, R]) SetFilterOptions(key string, opts []Option) {
	for i := range t.cfg.Filters {
		if t.cfg.Filters[i].Key == key {
			t.cfg.Filters[i].Options = opts
		}
	}
}

// RequestSort toggles a column ascending to descending when it is already
// sorted ascending; any other request sorts ascending by key.
func (t *Table[T, R]) RequestSort(key string) error {
	col, ok := t.column(key)
	if !ok || !col.Sortable {
		return fmt.Errorf("sort by %q: %w", key, e.ErrInvalidInput)
	}
	dir := Asc
	if t.sort.Key == key && t.sort.Direction == Asc {
		dir = Desc
	}
	t.sort = Sort{Key: key, Direction: dir}
	t.recompute()
	return nil
}

func (t *Table[T, R]) SortState() Sort { return t.sort }

func (t *Table[T, R]) TotalPages() int {
	return (len(t.filtered) + t.cfg.PageSize - 1) / t.cfg.PageSize
}

// SetPage moves to page n, clamped to the available pages.
func (t *Table[T, R]) SetPage(n int) int {
	total := t.TotalPages()
	if n > total {
		n = total
	}
	if n < 1 {
		n = 1
	}
	t.page = n
	return n
}

func (t *Table[T, R]) Page() int { return t.page }

func (t *Table[T, R]) Next() int     { return t.SetPage(t.page + 1) }
func (t *Table[T, R]) Previous() int { return t.SetPage(t.page - 1) }

// Sorted returns every row that passes the filters, in display order.
func (t *Table[T, R]) Sorted() []T {
	return append([]T(nil), t.filtered...)
}

// View is one rendered page of the table.
type View[R any] struct {
	Columns        []Column
	Filters        []FilterState
	Sort           Sort
	Rows           []R
	Page           int
	Pages          []int
	TotalPages     int
	TotalCount     int
	HasPrevious    bool
	HasNext        bool
	ShowPagination bool
	CanAdd         bool
}

// FilterState is a declared filter with its current value.
type FilterState struct {
	Filter
	Value string
}

func (t *Table[T, R]) View() View[R] {
	total := t.TotalPages()
	v := View[R]{
		Columns:        t.cfg.Columns,
		Sort:           t.sort,
		Page:           t.page,
		TotalPages:     total,
		TotalCount:     len(t.filtered),
		HasPrevious:    t.page > 1,
		HasNext:        t.page < total,
		ShowPagination: total > 1,
		CanAdd:         t.cfg.CanAdd,
	}
	for _, f := range t.cfg.Filters {
		v.Filters = append(v.Filters, FilterState{Filter: f, Value: t.filters[f.Key]})
	}
	for i := 1; i <= total; i++ {
		v.Pages = append(v.Pages, i)
	}
	if total == 0 {
		return v
	}
	start := (t.page - 1) * t.cfg.PageSize
	end := start + t.cfg.PageSize
	if end > len(t.filtered) {
		end = len(t.filtered)
	}
	v.Rows = make([]R, 0, end-start)
	for _, rec := range t.filtered[start:end] {
		v.Rows = append(v.Rows, t.cfg.RenderRow(rec))
	}
	return v
}

func (t *Table[T, R]) recompute() {
	out := make([]T, 0, len(t.data))
	for _, rec := range t.data {
		if t.matches(rec) {
			out = append(out, rec)
		}
	}
	if t.sort.Key != "" {
		key, desc := t.sort.Key, t.sort.Direction == Desc
		sort.SliceStable(out, func(i, j int) bool {
			c := compare(out[i].Field(key), out[j].Field(key))
			if desc {
				c = -c
			}
			return c < 0
		})
	}
	t.filtered = out
	t.SetPage(t.page)
}

func (t *Table[T, R]) matches(rec T) bool {
	for key, value := range t.filters {
		f, _ := t.filter(key)
		if f.Type == Search {
			name := strings.ToLower(Canonical(rec.Field("name")))
			if !strings.Contains(name, strings.ToLower(value)) {
				return false
			}
			continue
		}
		if Canonical(rec.Field(key)) != value {
			return false
		}
	}
	return true
}

func (t *Table[T, R]) filter(key string) (Filter, bool) {
	for _, f := range t.cfg.Filters {
		if f.Key == key {
			return f, true
		}
	}
	return Filter{}, false
}

func (t *Table[T, R]) column(key string) (Column, bool) {
	for _, c := range t.cfg.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}
