// Package controller drives one console page per registry entity. A page
// fetches its records when first shown and again after every successful
// change, and separates load failures (which replace the table) from failed
// changes (which show a banner above an unchanged table).
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"

	"github.com/gartstein/guardroster/internal/console/datatable"
	e "github.com/gartstein/guardroster/internal/console/errors"
	"github.com/gartstein/guardroster/internal/console/events"
	"github.com/gartstein/guardroster/internal/console/export"
	"github.com/gartstein/guardroster/internal/console/forms"
	"github.com/gartstein/guardroster/internal/console/models"
	"github.com/gartstein/guardroster/internal/console/status"
	"go.uber.org/zap"
)

// Store is the remote collection behind a page.
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, payload any) (*T, error)
	Update(ctx context.Context, id string, payload any) (*T, error)
	UpdateStatus(ctx context.Context, id string, body map[string]any) error
	Delete(ctx context.Context, id string) error
}

// Actor names the operator making changes.
type Actor interface {
	Actor() string
}

// Observer is told about status changes and exports.
type Observer interface {
	StatusChanged(entity string, err error)
	Exported(entity string)
}

type nopObserver struct{}

func (nopObserver) StatusChanged(string, error) {}
func (nopObserver) Exported(string)             {}

// Deps are the collaborators shared by every page.
type Deps struct {
	Validator *forms.Validator
	Publisher events.Publisher
	Actor     Actor
	Observer  Observer
	PageSize  int
	Logger    *zap.Logger
}

// Console is the state of one entity page.
type Console[T models.Entity, F any] struct {
	spec      Spec[T, F]
	store     Store[T]
	publisher events.Publisher
	actor     Actor
	observer  Observer
	logger    *zap.Logger

	mu            sync.Mutex
	table         *datatable.Table[T, Row]
	dialog        *status.Dialog
	form          *forms.Form[F]
	formOpen      bool
	pendingDelete string
	loaded        bool
	pageErr       string
	banner        string
	notice        string
	seq           uint64
	applied       uint64
}

func NewConsole[T models.Entity, F any](spec Spec[T, F], store Store[T], deps Deps) *Console[T, F] {
	logger := deps.Logger.Named(spec.Name + "_console")
	c := &Console[T, F]{
		spec:      spec,
		store:     store,
		publisher: deps.Publisher,
		actor:     deps.Actor,
		observer:  deps.Observer,
		logger:    logger,
	}
	if c.publisher == nil {
		c.publisher = events.Noop{}
	}
	if c.observer == nil {
		c.observer = nopObserver{}
	}
	c.table = datatable.New(datatable.Config[T, Row]{
		Columns:   spec.Columns,
		Filters:   spec.Filters,
		PageSize:  deps.PageSize,
		RenderRow: spec.Render,
		CanAdd:    spec.NewForm != nil,
	})
	c.dialog = status.NewDialog(status.For(spec.Status), store.UpdateStatus, logger)
	c.form = forms.New(spec.Singular, spec.NewForm, deps.Validator)
	return c
}

func (c *Console[T, F]) Name() string  { return c.spec.Name }
func (c *Console[T, F]) Title() string { return c.spec.Title }

// Refresh reloads the records. A response that arrives after a newer one
// has been applied is discarded.
func (c *Console[T, F]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	mine := c.seq
	c.mu.Unlock()

	data, err := c.store.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if mine < c.applied {
		c.logger.Debug("discarding stale list response", zap.Uint64("seq", mine), zap.Uint64("applied", c.applied))
		return nil
	}
	c.applied = mine
	c.loaded = true
	if err != nil {
		c.pageErr = fmt.Sprintf("Failed to load %s. Please try again later.", c.spec.Plural)
		c.logger.Error("failed to load records", zap.Error(err))
		return err
	}
	c.pageErr = ""
	c.table.SetData(data)
	for filterKey, field := range c.spec.DerivedOptions {
		c.table.SetFilterOptions(filterKey, datatable.DistinctOptions(data, field))
	}
	return nil
}

// View renders the page, loading it on first display and retrying after a
// failed load. The banner and notice are shown once.
func (c *Console[T, F]) View(ctx context.Context) PageView {
	c.mu.Lock()
	stale := !c.loaded || c.pageErr != ""
	c.mu.Unlock()
	if stale {
		_ = c.Refresh(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	var choices map[string][]forms.Option
	if c.formOpen && c.spec.Choices != nil {
		choices = c.spec.Choices(ctx, c.form.Values())
	}
	v := PageView{
		Name:     c.spec.Name,
		Title:    c.spec.Title,
		Singular: c.spec.Singular,
		Error:    c.pageErr,
		Banner:   c.banner,
		Notice:   c.notice,
		Table:    c.table.View(),
		Status:   c.dialog.View(),
	}
	c.banner = ""
	c.notice = ""
	if c.pageErr == "" && c.spec.Stats != nil {
		v.Stats = c.spec.Stats(c.table.Data())
	}
	if c.formOpen {
		v.Form = &FormView{
			Mode:     c.form.Mode().String(),
			RecordID: c.form.RecordID(),
			Title:    c.formTitle(),
			Fields:   forms.Fields(c.form.Values(), c.form.Errors(), choices),
			Message:  c.form.Message(),
		}
	}
	if c.pendingDelete != "" {
		v.Delete = &DeleteConfirm{ID: c.pendingDelete, Label: c.labelOf(c.pendingDelete)}
	}
	return v
}

// Stats computes the statistic cards without rendering the page.
func (c *Console[T, F]) Stats(ctx context.Context) ([]Stat, error) {
	c.mu.Lock()
	loaded := c.loaded
	c.mu.Unlock()
	if !loaded {
		if err := c.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.spec.Stats == nil {
		return nil, nil
	}
	return c.spec.Stats(c.table.Data()), nil
}

func (c *Console[T, F]) SetFilter(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table.SetFilter(key, value)
}

func (c *Console[T, F]) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table.ClearFilters()
}

func (c *Console[T, F]) RequestSort(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table.RequestSort(key)
}

func (c *Console[T, F]) SetPage(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table.SetPage(n)
}

// OpenCreate shows a blank form.
func (c *Console[T, F]) OpenCreate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.Create()
	c.formOpen = true
	if c.spec.Prepare != nil {
		var err error
		c.form.Update(func(v *F) { err = c.spec.Prepare(ctx, forms.Create, v) })
		return err
	}
	return nil
}

// OpenScoped shows a blank form tied to scope, e.g. a firearm form fixed to
// one company. Pages without a scope hook open a plain create form.
func (c *Console[T, F]) OpenScoped(ctx context.Context, scope string) error {
	if c.spec.Scope == nil || scope == "" {
		return c.OpenCreate(ctx)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.Create()
	c.formOpen = true
	var err error
	c.form.Update(func(v *F) { err = c.spec.Scope(ctx, scope, v) })
	return err
}

// OpenEdit shows the form prefilled from a listed record.
func (c *Console[T, F]) OpenEdit(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.find(id)
	if !ok {
		return fmt.Errorf("%s %s: %w", c.spec.Name, id, e.ErrNotFound)
	}
	c.form.Edit(id, c.spec.FormFrom(rec))
	c.formOpen = true
	if c.spec.Prepare != nil {
		var err error
		c.form.Update(func(v *F) { err = c.spec.Prepare(ctx, forms.Edit, v) })
		return err
	}
	return nil
}

// ChangeForm applies edited values without submitting, so dependent
// choices can follow the edit.
func (c *Console[T, F]) ChangeForm(ctx context.Context, values url.Values) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.formOpen {
		return fmt.Errorf("%s form: %w", c.spec.Name, e.ErrInvalidInput)
	}
	return c.bind(ctx, values)
}

// bind replaces the form values and lets the change hook adjust dependent
// fields. A rejected change is logged and the hook's correction kept.
func (c *Console[T, F]) bind(ctx context.Context, values url.Values) error {
	prev := c.form.Values()
	if err := c.form.Bind(values); err != nil {
		return err
	}
	if c.spec.Change == nil {
		return nil
	}
	var err error
	c.form.Update(func(v *F) { err = c.spec.Change(ctx, prev, v) })
	if err != nil {
		c.logger.Warn("form change rejected", zap.Error(err))
	}
	return nil
}

// SubmitForm validates and sends the form. On success the form closes and
// the records are reloaded. The page stays readable while the request runs.
func (c *Console[T, F]) SubmitForm(ctx context.Context, values url.Values) error {
	c.mu.Lock()
	if !c.formOpen {
		c.mu.Unlock()
		return fmt.Errorf("%s form: %w", c.spec.Name, e.ErrInvalidInput)
	}
	if err := c.bind(ctx, values); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.form.Check(); err != nil {
		c.mu.Unlock()
		return err
	}
	mode, id, v := c.form.Mode(), c.form.RecordID(), c.form.Values()
	if c.spec.Check != nil {
		if err := c.spec.Check(v); err != nil {
			c.saveFailed(id, c.form.Settle(err))
			c.mu.Unlock()
			return err
		}
	}
	payload := c.payload(v)
	c.mu.Unlock()

	evType, recordID, err := c.send(ctx, mode, id, payload)

	c.mu.Lock()
	if err := c.form.Settle(err); err != nil {
		c.saveFailed(recordID, err)
		c.mu.Unlock()
		return err
	}
	c.notice = c.form.Message().Text
	c.formOpen = false
	c.mu.Unlock()

	c.publish(evType, recordID, nil)
	_ = c.Refresh(ctx)
	return nil
}

func (c *Console[T, F]) send(ctx context.Context, mode forms.Mode, id string, payload any) (events.EventType, string, error) {
	if mode == forms.Edit {
		_, err := c.store.Update(ctx, id, payload)
		return events.RecordUpdated, id, err
	}
	created, err := c.store.Create(ctx, payload)
	if err != nil || created == nil {
		return events.RecordCreated, "", err
	}
	return events.RecordCreated, (*created).GetID(), nil
}

func (c *Console[T, F]) saveFailed(recordID string, err error) {
	c.banner = fmt.Sprintf("Failed to save %s. Please try again.", c.spec.Noun)
	c.logger.Error("failed to save record", zap.String("record_id", recordID), zap.Error(err))
}

func (c *Console[T, F]) CloseForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.formOpen = false
}

// RequestDelete asks for confirmation before deleting a listed record.
func (c *Console[T, F]) RequestDelete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.find(id); !ok {
		return fmt.Errorf("%s %s: %w", c.spec.Name, id, e.ErrNotFound)
	}
	c.pendingDelete = id
	return nil
}

func (c *Console[T, F]) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDelete = ""
}

// ConfirmDelete deletes the record awaiting confirmation. A failed delete
// keeps the confirmation pending.
func (c *Console[T, F]) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	id := c.pendingDelete
	c.mu.Unlock()
	if id == "" {
		return fmt.Errorf("%s delete: nothing to confirm: %w", c.spec.Name, e.ErrInvalidInput)
	}

	err := c.store.Delete(ctx, id)

	c.mu.Lock()
	if err != nil {
		c.banner = fmt.Sprintf("Failed to delete %s. Please try again.", c.spec.Noun)
		c.logger.Error("failed to delete record", zap.String("record_id", id), zap.Error(err))
		c.mu.Unlock()
		return err
	}
	if c.pendingDelete == id {
		c.pendingDelete = ""
	}
	c.mu.Unlock()

	c.publish(events.RecordDeleted, id, nil)
	_ = c.Refresh(ctx)
	return nil
}

// OpenStatus opens the status dialog on a listed record.
func (c *Console[T, F]) OpenStatus(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.find(id)
	if !ok {
		return fmt.Errorf("%s %s: %w", c.spec.Name, id, e.ErrNotFound)
	}
	c.dialog.Open(id, c.spec.StatusValue(rec))
	return nil
}

// SaveStatus selects value and saves it. A value outside the option set is
// rejected and the dialog stays open.
func (c *Console[T, F]) SaveStatus(ctx context.Context, value string) error {
	if err := c.dialog.Select(value); err != nil {
		return err
	}
	view := c.dialog.View()
	err := c.dialog.Save(ctx)
	if errors.Is(err, e.ErrDialogClosed) {
		return err
	}
	c.observer.StatusChanged(c.spec.Name, err)
	if err != nil {
		c.mu.Lock()
		c.banner = status.FailedMessage
		c.mu.Unlock()
		return err
	}

	payload, _ := status.For(c.spec.Status).Payload(value)
	c.publish(events.StatusChanged, view.RecordID, payload)
	_ = c.Refresh(ctx)
	return nil
}

func (c *Console[T, F]) CancelStatus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dialog.Cancel()
}

// Export writes every filtered row, in display order, as a spreadsheet.
func (c *Console[T, F]) Export(ctx context.Context, w io.Writer) error {
	c.mu.Lock()
	loaded := c.loaded
	c.mu.Unlock()
	if !loaded {
		if err := c.Refresh(ctx); err != nil {
			return err
		}
	}

	c.mu.Lock()
	recs := c.table.Sorted()
	c.mu.Unlock()

	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, c.spec.ExportRow(rec))
	}
	if err := export.WriteXLSX(w, c.spec.Title, c.spec.ExportHeader, rows); err != nil {
		return fmt.Errorf("export %s: %w", c.spec.Name, err)
	}
	c.observer.Exported(c.spec.Name)
	return nil
}

func (c *Console[T, F]) payload(v F) any {
	if c.spec.Payload != nil {
		return c.spec.Payload(v)
	}
	return v
}

func (c *Console[T, F]) publish(t events.EventType, id string, changes map[string]any) {
	actor := ""
	if c.actor != nil {
		actor = c.actor.Actor()
	}
	c.publisher.Produce(events.Event{
		Type:     t,
		Entity:   c.spec.Name,
		RecordID: id,
		Actor:    actor,
		Changes:  changes,
	})
}

func (c *Console[T, F]) find(id string) (T, bool) {
	for _, rec := range c.table.Data() {
		if rec.GetID() == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

func (c *Console[T, F]) labelOf(id string) string {
	if rec, ok := c.find(id); ok {
		return datatable.Canonical(rec.Field("name"))
	}
	return id
}

func (c *Console[T, F]) formTitle() string {
	if c.form.Mode() == forms.Edit {
		return "Edit " + c.spec.Singular
	}
	return "Add " + c.spec.Singular
}
