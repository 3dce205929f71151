package forms

import (
	"context"
	"fmt"

	e "github.com/gartstein/guardroster/internal/console/errors"
	"github.com/gartstein/guardroster/internal/console/models"
	"go.uber.org/zap"
)

// RosterSource lists the guards employed by a company.
type RosterSource interface {
	GuardsByCompany(ctx context.Context, companyID string) ([]models.Guard, error)
}

// Assignment keeps the firearm form's guard choices consistent with its
// selected company.
type Assignment struct {
	source RosterSource
	logger *zap.Logger

	fixed     string
	companyID string
	roster    []models.Guard
}

func NewAssignment(source RosterSource, logger *zap.Logger) *Assignment {
	return &Assignment{source: source, logger: logger.Named("firearm_assignment")}
}

// Fix scopes the assignment to one company and loads its roster once.
func (a *Assignment) Fix(ctx context.Context, form *FirearmForm, companyID string) error {
	a.fixed = ""
	err := a.SelectCompany(ctx, form, companyID)
	a.fixed = companyID
	return err
}

// Reset drops the company scope and the roster.
func (a *Assignment) Reset() {
	a.fixed = ""
	a.companyID = ""
	a.roster = nil
}

// SelectCompany switches the form to companyID. The guard selection is
// cleared and the roster replaced by the new company's guards. When the
// roster cannot be fetched it stays empty.
func (a *Assignment) SelectCompany(ctx context.Context, form *FirearmForm, companyID string) error {
	if a.fixed != "" && companyID != a.fixed {
		return fmt.Errorf("company is fixed to %s: %w", a.fixed, e.ErrInvalidInput)
	}
	form.SecurityCompany = companyID
	form.SecurityGuard = ""
	a.companyID = companyID
	a.roster = nil
	if companyID == "" {
		return nil
	}

	guards, err := a.source.GuardsByCompany(ctx, companyID)
	if err != nil {
		a.logger.Error("failed to load guard roster",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
		return fmt.Errorf("guards of company %s: %w", companyID, err)
	}
	a.roster = guards
	return nil
}

// Load fetches the roster for a form opened on an existing firearm without
// touching its guard selection.
func (a *Assignment) Load(ctx context.Context, form FirearmForm) error {
	a.companyID = form.SecurityCompany
	a.roster = nil
	if form.SecurityCompany == "" {
		return nil
	}
	guards, err := a.source.GuardsByCompany(ctx, form.SecurityCompany)
	if err != nil {
		return fmt.Errorf("guards of company %s: %w", form.SecurityCompany, err)
	}
	a.roster = guards
	return nil
}

func (a *Assignment) CompanyID() string { return a.companyID }
func (a *Assignment) Fixed() bool       { return a.fixed != "" }

// Options renders the roster as select options.
func (a *Assignment) Options() []Option {
	opts := make([]Option, 0, len(a.roster))
	for _, g := range a.roster {
		opts = append(opts, Option{Value: g.ID, Label: g.FullName()})
	}
	return opts
}

// Allows reports whether guardID may be assigned. No guard is always allowed.
func (a *Assignment) Allows(guardID string) bool {
	if guardID == "" {
		return true
	}
	for _, g := range a.roster {
		if g.ID == guardID {
			return true
		}
	}
	return false
}
