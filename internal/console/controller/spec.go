package controller

import (
	"context"

	"github.com/gartstein/guardroster/internal/console/datatable"
	"github.com/gartstein/guardroster/internal/console/forms"
	"github.com/gartstein/guardroster/internal/console/models"
	"github.com/gartstein/guardroster/internal/console/status"
)

// Spec describes one entity page.
type Spec[T models.Entity, F any] struct {
	Name     string // route segment and event entity
	Title    string
	Singular string // "Company"
	Noun     string // "company", used in banners
	Plural   string // "companies", used in load errors

	Columns []datatable.Column
	Filters []datatable.Filter
	// DerivedOptions maps a select filter to the record field its options
	// are collected from after every load.
	DerivedOptions map[string]string

	Render      func(T) Row
	Status      status.Variant
	StatusValue func(T) string
	Stats       func([]T) []Stat

	NewForm  func() F
	FormFrom func(T) F
	Payload  func(F) any
	Choices  func(ctx context.Context, values F) map[string][]forms.Option
	Prepare  func(ctx context.Context, mode forms.Mode, values *F) error
	Scope    func(ctx context.Context, scope string, values *F) error
	Change   func(ctx context.Context, prev F, next *F) error
	Check    func(values F) error

	ExportHeader []string
	ExportRow    func(T) []string
}

// Row is a rendered table row.
type Row struct {
	ID          string
	Label       string
	Cells       []Cell
	Status      string
	StatusLabel string
}

// Cell is one column of a row. A status cell opens the status dialog.
type Cell struct {
	Key    string
	Text   string
	Detail string
	Status bool
}

type Stat struct {
	Title string
	Value int
}

// PageView is everything needed to render an entity page.
type PageView struct {
	Name     string
	Title    string
	Singular string
	Error    string
	Banner   string
	Notice   string
	Stats    []Stat
	Table    datatable.View[Row]
	Form     *FormView
	Delete   *DeleteConfirm
	Status   status.DialogView
}

type FormView struct {
	Mode     string
	RecordID string
	Title    string
	Fields   []forms.Field
	Message  forms.Message
}

type DeleteConfirm struct {
	ID    string
	Label string
}

// userError is a rejection decided by the console itself, shown to the
// operator like a server message.
type userError string

func (u userError) Error() string       { return string(u) }
func (u userError) UserMessage() string { return string(u) }
