package controller

import (
	"context"
	"io"
	"net/url"

	"github.com/gartstein/guardroster/internal/console/apiclient"
	"github.com/gartstein/guardroster/internal/console/forms"
)

// Page is an entity page independent of its record type.
type Page interface {
	Name() string
	Title() string
	View(ctx context.Context) PageView
	Stats(ctx context.Context) ([]Stat, error)
	Refresh(ctx context.Context) error

	SetFilter(key, value string) error
	ClearFilters()
	RequestSort(key string) error
	SetPage(n int) int

	OpenCreate(ctx context.Context) error
	OpenScoped(ctx context.Context, scope string) error
	OpenEdit(ctx context.Context, id string) error
	ChangeForm(ctx context.Context, values url.Values) error
	SubmitForm(ctx context.Context, values url.Values) error
	CloseForm()

	RequestDelete(id string) error
	ConfirmDelete(ctx context.Context) error
	CancelDelete()

	OpenStatus(id string) error
	SaveStatus(ctx context.Context, value string) error
	CancelStatus()

	Export(ctx context.Context, w io.Writer) error
}

// Pages holds every entity page in navigation order.
type Pages struct {
	list   []Page
	byName map[string]Page
}

// NewPages builds the console pages over the registry backend.
func NewPages(reg *apiclient.Registry, deps Deps) *Pages {
	assignment := forms.NewAssignment(reg, deps.Logger)
	return Collect(
		NewConsole(CompanySpec(), reg.Companies, deps),
		NewConsole(GuardSpec(reg, deps.Logger), reg.Guards, deps),
		NewConsole(FirearmSpec(reg, assignment, deps.Logger), reg.Firearms, deps),
		NewConsole(CompanyInformationSpec(reg, deps.Logger), reg.CompanyInformation, deps),
		NewConsole(GuardInformationSpec(reg, deps.Logger), reg.GuardInformation, deps),
	)
}

// Collect groups pages in the given order.
func Collect(pages ...Page) *Pages {
	p := &Pages{byName: make(map[string]Page, len(pages))}
	for _, page := range pages {
		p.list = append(p.list, page)
		p.byName[page.Name()] = page
	}
	return p
}

func (p *Pages) All() []Page { return p.list }

func (p *Pages) Get(name string) (Page, bool) {
	page, ok := p.byName[name]
	return page, ok
}
