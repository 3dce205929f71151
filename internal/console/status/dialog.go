package status

import (
	"context"
	"fmt"
	"sync"

	e "github.com/gartstein/guardroster/internal/console/errors"
	"go.uber.org/zap"
)

// FailedMessage is the banner shown when a status update is rejected.
const FailedMessage = "Failed to update status. Please try again."

// Updater sends a status payload for one record.
type Updater func(ctx context.Context, id string, body map[string]any) error

// Dialog is the status change control of one listing. It is either closed or
// open on exactly one record.
type Dialog struct {
	set    OptionSet
	update Updater
	logger *zap.Logger

	mu       sync.Mutex
	open     bool
	recordID string
	current  string
	selected string
}

func NewDialog(set OptionSet, update Updater, logger *zap.Logger) *Dialog {
	return &Dialog{
		set:    set,
		update: update,
		logger: logger.Named("status_dialog").With(zap.String("variant", set.Variant.String())),
	}
}

func (d *Dialog) Options() OptionSet { return d.set }

// Open shows the dialog for a record, preselecting its current value.
func (d *Dialog) Open(recordID, current string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = true
	d.recordID = recordID
	d.current = current
	d.selected = current
}

func (d *Dialog) Select(value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return e.ErrDialogClosed
	}
	if !d.set.Allows(value) {
		return fmt.Errorf("%s %q: %w", d.set.Field, value, e.ErrInvalidInput)
	}
	d.selected = value
	return nil
}

// Save sends the selected value. The dialog closes whether or not the remote
// update succeeds; an invalid selection keeps it open.
func (d *Dialog) Save(ctx context.Context) error {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return e.ErrDialogClosed
	}
	id, value := d.recordID, d.selected
	payload, err := d.set.Payload(value)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	d.mu.Unlock()

	err = d.update(ctx, id, payload)

	d.mu.Lock()
	if d.recordID == id {
		d.open = false
	}
	d.mu.Unlock()

	if err != nil {
		d.logger.Error("status update failed",
			zap.String("record_id", id),
			zap.String("value", value),
			zap.Error(err),
		)
		return fmt.Errorf("update %s of %s: %w", d.set.Field, id, err)
	}
	d.logger.Info("status updated", zap.String("record_id", id), zap.String("value", value))
	return nil
}

// Cancel closes the dialog without saving. Dismissal is the same.
func (d *Dialog) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
}

func (d *Dialog) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

type DialogView struct {
	Open     bool
	RecordID string
	Field    string
	Current  string
	Selected string
	Options  []OptionView
}

type OptionView struct {
	Option
	Selected bool
}

func (d *Dialog) View() DialogView {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := DialogView{
		Open:     d.open,
		RecordID: d.recordID,
		Field:    d.set.Field,
		Current:  d.current,
		Selected: d.selected,
	}
	for _, o := range d.set.Options {
		v.Options = append(v.Options, OptionView{Option: o, Selected: o.Value == d.selected})
	}
	return v
}
