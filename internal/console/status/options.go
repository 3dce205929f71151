// Package status implements the status change workflow shared by every
// entity: open a dialog on a row, pick a value from a closed option set, save
// it through the remote API.
package status

import (
	"fmt"
	"strconv"

	e "github.com/gartstein/guardroster/internal/console/errors"
	"github.com/gartstein/guardroster/internal/console/models"
)

// Variant selects the option set of a dialog.
type Variant int

const (
	Generic Variant = iota
	Guard
	Firearm
	Verification
)

func (v Variant) String() string {
	switch v {
	case Generic:
		return "generic"
	case Guard:
		return "guard"
	case Firearm:
		return "firearm"
	case Verification:
		return "verification"
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

type Option struct {
	Value string
	Label string
}

// OptionSet is the closed set of values a field may take.
type OptionSet struct {
	Variant Variant
	Field   string
	Options []Option
}

// For returns the option set of a variant.
func For(v Variant) OptionSet {
	switch v {
	case Guard:
		return OptionSet{Variant: v, Field: "status", Options: options(models.GuardStatuses)}
	case Firearm:
		return OptionSet{Variant: v, Field: "status", Options: options(models.FirearmStatuses)}
	case Verification:
		return OptionSet{Variant: v, Field: "verified", Options: []Option{
			{Value: "true", Label: "Verified"},
			{Value: "false", Label: "Not Verified"},
		}}
	}
	return OptionSet{Variant: Generic, Field: "status", Options: options(models.CompanyStatuses)}
}

func options[S ~string](values []S) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Value: string(v), Label: string(v)})
	}
	return out
}

func (s OptionSet) Allows(value string) bool {
	for _, o := range s.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// Label returns the display label of value, or value itself when unknown.
func (s OptionSet) Label(value string) string {
	for _, o := range s.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// Payload builds the request body for value. Verification values are sent
// as JSON booleans.
func (s OptionSet) Payload(value string) (map[string]any, error) {
	if !s.Allows(value) {
		return nil, fmt.Errorf("%s %q: %w", s.Field, value, e.ErrInvalidInput)
	}
	if s.Variant == Verification {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", s.Field, value, e.ErrInvalidInput)
		}
		return map[string]any{s.Field: b}, nil
	}
	return map[string]any{s.Field: value}, nil
}
