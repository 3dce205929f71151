package forms

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	e "github.com/gartstein/guardroster/internal/console/errors"
	"github.com/gin-gonic/gin/binding"
)

// FallbackMessage is shown when a rejected submission carries no server message.
const FallbackMessage = "Something went wrong!"

type Mode int

const (
	Create Mode = iota
	Edit
)

func (m Mode) String() string {
	if m == Edit {
		return "edit"
	}
	return "create"
}

type MessageKind string

const (
	Success MessageKind = "success"
	Failure MessageKind = "error"
)

type Message struct {
	Text string
	Kind MessageKind
}

// SubmitFunc performs the remote create or update. id is empty on create.
type SubmitFunc[F any] func(ctx context.Context, mode Mode, id string, values F) error

// Form is the edit state of one entity form. It is not safe for concurrent
// use.
type Form[F any] struct {
	entity    string
	defaults  func() F
	validator *Validator

	mode     Mode
	recordID string
	values   F
	errors   FieldErrors
	message  Message
}

func New[F any](entity string, defaults func() F, v *Validator) *Form[F] {
	f := &Form[F]{entity: entity, defaults: defaults, validator: v}
	f.Create()
	return f
}

// Create starts a blank form.
func (f *Form[F]) Create() {
	f.mode = Create
	f.recordID = ""
	f.values = f.defaults()
	f.errors = nil
	f.message = Message{}
}

// Edit starts a form prefilled from an existing record.
func (f *Form[F]) Edit(id string, values F) {
	f.mode = Edit
	f.recordID = id
	f.values = values
	f.errors = nil
	f.message = Message{}
}

func (f *Form[F]) Mode() Mode           { return f.mode }
func (f *Form[F]) RecordID() string     { return f.recordID }
func (f *Form[F]) Values() F            { return f.values }
func (f *Form[F]) Errors() FieldErrors  { return f.errors }
func (f *Form[F]) Message() Message     { return f.message }
func (f *Form[F]) Update(fn func(v *F)) { fn(&f.values) }

// Bind replaces the values with the submitted form fields.
func (f *Form[F]) Bind(values url.Values) error {
	var next F
	if err := binding.MapFormWithTag(&next, values, "form"); err != nil {
		return fmt.Errorf("bind %s form: %v: %w", f.entity, err, e.ErrInvalidInput)
	}
	f.values = next
	return nil
}

// Submit validates the values and, only when they are valid, hands them to
// fn. A successful create resets the form to its defaults.
func (f *Form[F]) Submit(ctx context.Context, fn SubmitFunc[F]) error {
	if err := f.Check(); err != nil {
		return err
	}
	return f.Settle(fn(ctx, f.mode, f.recordID, f.values))
}

// Check normalizes and validates the values, keeping the field errors.
func (f *Form[F]) Check() error {
	if n, ok := any(&f.values).(interface{ Normalize() }); ok {
		n.Normalize()
	}
	f.message = Message{}
	if errs := f.validator.Validate(f.values); len(errs) > 0 {
		f.errors = errs
		return fmt.Errorf("%s form: %w", f.entity, e.ErrValidation)
	}
	f.errors = nil
	return nil
}

// Settle records the outcome of sending checked values and returns err.
func (f *Form[F]) Settle(err error) error {
	if err != nil {
		f.message = Message{Text: UserMessage(err), Kind: Failure}
		return err
	}
	if f.mode == Create {
		f.message = Message{Text: f.entity + " created successfully.", Kind: Success}
		f.values = f.defaults()
		return nil
	}
	f.message = Message{Text: f.entity + " updated successfully.", Kind: Success}
	return nil
}

// UserMessage extracts the server supplied message from err, falling back to
// a generic one.
func UserMessage(err error) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	return FallbackMessage
}
