package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/gartstein/guardroster/internal/console/datatable"
	e "github.com/gartstein/guardroster/internal/console/errors"
	"github.com/gartstein/guardroster/internal/console/forms"
	"github.com/gartstein/guardroster/internal/console/models"
	"github.com/gartstein/guardroster/internal/console/status"
	"go.uber.org/zap"
)

// Lookups supplies the choices of reference selects.
type Lookups interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	ListGuards(ctx context.Context) ([]models.Guard, error)
	forms.RosterSource
}

func CompanySpec() Spec[models.Company, forms.CompanyForm] {
	return Spec[models.Company, forms.CompanyForm]{
		Name:     "companies",
		Title:    "Security Companies",
		Singular: "Company",
		Noun:     "company",
		Plural:   "companies",
		Columns: []datatable.Column{
			{Key: "name", Label: "Company Name", Sortable: true},
			{Key: "district", Label: "Location", Sortable: true},
			{Key: "email", Label: "Contact"},
			{Key: "status", Label: "Status", Sortable: true},
		},
		Filters: []datatable.Filter{
			{Key: "search", Type: datatable.Search, Placeholder: "Search companies..."},
			{Key: "status", Type: datatable.Select, Placeholder: "All statuses", Options: statusOptions(models.CompanyStatuses)},
			{Key: "district", Type: datatable.Select, Placeholder: "All districts"},
		},
		DerivedOptions: map[string]string{"district": "district"},
		Render: func(c models.Company) Row {
			return Row{
				ID:    c.ID,
				Label: c.Name,
				Cells: []Cell{
					{Key: "name", Text: c.Name, Detail: models.DateOnly(c.RegistrationDate)},
					{Key: "district", Text: c.District, Detail: joinNonEmpty(", ", c.Village, c.Street)},
					{Key: "email", Text: c.Email, Detail: c.PhoneNumber},
					{Key: "status", Text: string(c.Status), Status: true},
				},
				Status:      string(c.Status),
				StatusLabel: string(c.Status),
			}
		},
		Status:      status.Generic,
		StatusValue: func(c models.Company) string { return string(c.Status) },
		Stats: func(cs []models.Company) []Stat {
			counts := countBy(cs, func(c models.Company) string { return string(c.Status) })
			return []Stat{
				{Title: "Total Companies", Value: len(cs)},
				{Title: "Pending", Value: counts[string(models.CompanyPending)]},
				{Title: "Approved", Value: counts[string(models.CompanyApproved)]},
				{Title: "Declined", Value: counts[string(models.CompanyDeclined)]},
			}
		},
		NewForm:  forms.NewCompanyForm,
		FormFrom: forms.CompanyFormFrom,
		ExportHeader: []string{
			"Name", "District", "Village", "Street", "Phone Number", "Email",
			"Status", "Registration Date", "Renewal Date",
		},
		ExportRow: func(c models.Company) []string {
			return []string{
				c.Name, c.District, c.Village, c.Street, c.PhoneNumber, c.Email,
				string(c.Status), models.DateOnly(c.RegistrationDate), models.DateOnly(c.RenewalDate),
			}
		},
	}
}

func GuardSpec(lookups Lookups, logger *zap.Logger) Spec[models.Guard, forms.GuardForm] {
	return Spec[models.Guard, forms.GuardForm]{
		Name:     "guards",
		Title:    "Security Guards",
		Singular: "Guard",
		Noun:     "guard",
		Plural:   "guards",
		Columns: []datatable.Column{
			{Key: "name", Label: "Name", Sortable: true},
			{Key: "security_company", Label: "Company", Sortable: true},
			{Key: "email", Label: "Contact"},
			{Key: "district", Label: "District", Sortable: true},
			{Key: "hire_date", Label: "Hire Date", Sortable: true},
			{Key: "status", Label: "Status", Sortable: true},
		},
		Filters: []datatable.Filter{
			{Key: "search", Type: datatable.Search, Placeholder: "Search guards..."},
			{Key: "status", Type: datatable.Select, Placeholder: "All statuses", Options: statusOptions(models.GuardStatuses)},
			{Key: "district", Type: datatable.Select, Placeholder: "All districts"},
		},
		DerivedOptions: map[string]string{"district": "district"},
		Render: func(g models.Guard) Row {
			training := "Training pending"
			if g.TrainingCompleted {
				training = "Trained"
			}
			return Row{
				ID:    g.ID,
				Label: g.FullName(),
				Cells: []Cell{
					{Key: "name", Text: g.FullName(), Detail: string(g.Gender)},
					{Key: "security_company", Text: g.SecurityCompany.Display()},
					{Key: "email", Text: g.Email, Detail: g.PhoneNumber},
					{Key: "district", Text: g.District, Detail: g.Village},
					{Key: "hire_date", Text: models.DateOnly(g.HireDate), Detail: training},
					{Key: "status", Text: string(g.Status), Status: true},
				},
				Status:      string(g.Status),
				StatusLabel: string(g.Status),
			}
		},
		Status:      status.Guard,
		StatusValue: func(g models.Guard) string { return string(g.Status) },
		Stats: func(gs []models.Guard) []Stat {
			counts := countBy(gs, func(g models.Guard) string { return string(g.Status) })
			return []Stat{
				{Title: "Total Guards", Value: len(gs)},
				{Title: "Active", Value: counts[string(models.GuardActive)]},
				{Title: "Inactive", Value: counts[string(models.GuardInactive)]},
				{Title: "Suspended", Value: counts[string(models.GuardSuspended)]},
			}
		},
		NewForm:  forms.NewGuardForm,
		FormFrom: forms.GuardFormFrom,
		Choices: func(ctx context.Context, _ forms.GuardForm) map[string][]forms.Option {
			return map[string][]forms.Option{"security_company": companyChoices(ctx, lookups, logger)}
		},
		ExportHeader: []string{
			"First Name", "Last Name", "Gender", "Company", "Phone Number", "Email",
			"District", "Village", "Street", "Chief Name", "Next of Kin", "Status",
			"Hire Date", "Termination Date", "Training Completed",
		},
		ExportRow: func(g models.Guard) []string {
			return []string{
				g.FirstName, g.LastName, string(g.Gender), g.SecurityCompany.Display(), g.PhoneNumber, g.Email,
				g.District, g.Village, g.Street, g.ChiefName, g.NextOfKin, string(g.Status),
				models.DateOnly(g.HireDate), models.DateOnly(g.TerminationDate), yesNo(g.TrainingCompleted),
			}
		},
	}
}

// FirearmSpec wires the firearm form to assignment so that the guard choices
// always belong to the selected company.
func FirearmSpec(lookups Lookups, assignment *forms.Assignment, logger *zap.Logger) Spec[models.FireArm, forms.FirearmForm] {
	return Spec[models.FireArm, forms.FirearmForm]{
		Name:     "firearms",
		Title:    "Firearms",
		Singular: "Firearm",
		Noun:     "firearm",
		Plural:   "firearms",
		Columns: []datatable.Column{
			{Key: "serial_number", Label: "Serial Number", Sortable: true},
			{Key: "firearm_type", Label: "Type", Sortable: true},
			{Key: "security_company", Label: "Company", Sortable: true},
			{Key: "security_guard", Label: "Assigned To", Sortable: true},
			{Key: "issue_date", Label: "Issue Date", Sortable: true},
			{Key: "status", Label: "Status", Sortable: true},
		},
		Filters: []datatable.Filter{
			{Key: "search", Type: datatable.Search, Placeholder: "Search serial numbers..."},
			{Key: "status", Type: datatable.Select, Placeholder: "All statuses", Options: statusOptions(models.FirearmStatuses)},
			{Key: "firearm_type", Type: datatable.Select, Placeholder: "All types", Options: statusOptions(models.FirearmTypes)},
		},
		Render: func(f models.FireArm) Row {
			guard := f.SecurityGuard.Display()
			if guard == "" {
				guard = "Unassigned"
			}
			return Row{
				ID:    f.ID,
				Label: f.SerialNumber,
				Cells: []Cell{
					{Key: "serial_number", Text: f.SerialNumber},
					{Key: "firearm_type", Text: string(f.Type)},
					{Key: "security_company", Text: f.SecurityCompany.Display()},
					{Key: "security_guard", Text: guard},
					{Key: "issue_date", Text: models.DateOnly(f.IssueDate)},
					{Key: "status", Text: string(f.Status), Status: true},
				},
				Status:      string(f.Status),
				StatusLabel: string(f.Status),
			}
		},
		Status:      status.Firearm,
		StatusValue: func(f models.FireArm) string { return string(f.Status) },
		Stats: func(fs []models.FireArm) []Stat {
			counts := countBy(fs, func(f models.FireArm) string { return string(f.Status) })
			return []Stat{
				{Title: "Total Firearms", Value: len(fs)},
				{Title: "On Hand", Value: counts[string(models.FirearmOnHand)]},
				{Title: "Lost", Value: counts[string(models.FirearmLost)]},
				{Title: "Stolen", Value: counts[string(models.FirearmStolen)]},
			}
		},
		NewForm:  forms.NewFirearmForm,
		FormFrom: forms.FirearmFormFrom,
		Prepare: func(ctx context.Context, mode forms.Mode, v *forms.FirearmForm) error {
			assignment.Reset()
			if mode == forms.Create {
				return nil
			}
			if err := assignment.Load(ctx, *v); err != nil {
				logger.Warn("guard roster unavailable", zap.String("company_id", v.SecurityCompany), zap.Error(err))
			}
			return nil
		},
		Scope: func(ctx context.Context, companyID string, v *forms.FirearmForm) error {
			assignment.Reset()
			// A roster that fails to load stays empty; the form still opens.
			_ = assignment.Fix(ctx, v, companyID)
			return nil
		},
		Change: func(ctx context.Context, prev forms.FirearmForm, next *forms.FirearmForm) error {
			if next.SecurityCompany == prev.SecurityCompany {
				return nil
			}
			if assignment.Fixed() && next.SecurityCompany != assignment.CompanyID() {
				next.SecurityCompany = assignment.CompanyID()
				next.SecurityGuard = prev.SecurityGuard
				return fmt.Errorf("company is fixed to %s: %w", assignment.CompanyID(), e.ErrInvalidInput)
			}
			// The roster is left empty when it cannot be fetched.
			_ = assignment.SelectCompany(ctx, next, next.SecurityCompany)
			return nil
		},
		Check: func(v forms.FirearmForm) error {
			if !assignment.Allows(v.SecurityGuard) {
				return userError("Selected guard does not work for the selected company.")
			}
			return nil
		},
		Choices: func(ctx context.Context, _ forms.FirearmForm) map[string][]forms.Option {
			companies := companyChoices(ctx, lookups, logger)
			if assignment.Fixed() {
				companies = keepOption(companies, assignment.CompanyID())
			}
			guards := append([]forms.Option{{Value: "", Label: "Unassigned"}}, assignment.Options()...)
			return map[string][]forms.Option{
				"security_company": companies,
				"security_guard":   guards,
			}
		},
		ExportHeader: []string{"Serial Number", "Type", "Company", "Assigned To", "Issue Date", "Status"},
		ExportRow: func(f models.FireArm) []string {
			return []string{
				f.SerialNumber, string(f.Type), f.SecurityCompany.Display(), f.SecurityGuard.Display(),
				models.DateOnly(f.IssueDate), string(f.Status),
			}
		},
	}
}

func CompanyInformationSpec(lookups Lookups, logger *zap.Logger) Spec[models.CompanyInformation, forms.CompanyInformationForm] {
	return Spec[models.CompanyInformation, forms.CompanyInformationForm]{
		Name:     "company-information",
		Title:    "Company Information",
		Singular: "Company information",
		Noun:     "company information",
		Plural:   "company information",
		Columns: []datatable.Column{
			{Key: "name", Label: "Company", Sortable: true},
			{Key: "documents", Label: "Documents"},
			{Key: "verified", Label: "Verification", Sortable: true},
		},
		Filters: []datatable.Filter{
			{Key: "search", Type: datatable.Search, Placeholder: "Search companies..."},
			{Key: "verified", Type: datatable.Select, Placeholder: "All records", Options: verificationOptions()},
		},
		Render: func(c models.CompanyInformation) Row {
			return informationRow(c.ID, c.SecurityCompany.Display(), c.Documents(), c.MissingDocuments(), c.Verified)
		},
		Status:      status.Verification,
		StatusValue: func(c models.CompanyInformation) string { return fmt.Sprint(c.Verified) },
		Stats: func(cs []models.CompanyInformation) []Stat {
			return informationStats(len(cs), func(yield func(bool, int)) {
				for _, c := range cs {
					yield(c.Verified, len(c.MissingDocuments()))
				}
			})
		},
		NewForm:  forms.NewCompanyInformationForm,
		FormFrom: forms.CompanyInformationFormFrom,
		Choices: func(ctx context.Context, _ forms.CompanyInformationForm) map[string][]forms.Option {
			return map[string][]forms.Option{"security_company": companyChoices(ctx, lookups, logger)}
		},
		ExportHeader: []string{"Company", "Traders License", "Insurance Certificate", "Company Profile", "Tax Clearance", "Verified", "Missing Documents"},
		ExportRow: func(c models.CompanyInformation) []string {
			return []string{
				c.SecurityCompany.Display(), c.TradersLicense, c.Insurance, c.CompanyProfile, c.TaxClearance,
				yesNo(c.Verified), strings.Join(c.MissingDocuments(), ", "),
			}
		},
	}
}

func GuardInformationSpec(lookups Lookups, logger *zap.Logger) Spec[models.GuardInformation, forms.GuardInformationForm] {
	return Spec[models.GuardInformation, forms.GuardInformationForm]{
		Name:     "guard-information",
		Title:    "Guard Information",
		Singular: "Guard information",
		Noun:     "guard information",
		Plural:   "guard information",
		Columns: []datatable.Column{
			{Key: "name", Label: "Guard", Sortable: true},
			{Key: "documents", Label: "Documents"},
			{Key: "verified", Label: "Verification", Sortable: true},
		},
		Filters: []datatable.Filter{
			{Key: "search", Type: datatable.Search, Placeholder: "Search guards..."},
			{Key: "verified", Type: datatable.Select, Placeholder: "All records", Options: verificationOptions()},
		},
		Render: func(g models.GuardInformation) Row {
			return informationRow(g.ID, g.SecurityGuard.Display(), g.Documents(), g.MissingDocuments(), g.Verified)
		},
		Status:      status.Verification,
		StatusValue: func(g models.GuardInformation) string { return fmt.Sprint(g.Verified) },
		Stats: func(gs []models.GuardInformation) []Stat {
			return informationStats(len(gs), func(yield func(bool, int)) {
				for _, g := range gs {
					yield(g.Verified, len(g.MissingDocuments()))
				}
			})
		},
		NewForm:  forms.NewGuardInformationForm,
		FormFrom: forms.GuardInformationFormFrom,
		Choices: func(ctx context.Context, _ forms.GuardInformationForm) map[string][]forms.Option {
			guards, err := lookups.ListGuards(ctx)
			if err != nil {
				logger.Warn("guard choices unavailable", zap.Error(err))
			}
			opts := make([]forms.Option, 0, len(guards))
			for _, g := range guards {
				opts = append(opts, forms.Option{Value: g.ID, Label: g.FullName()})
			}
			return map[string][]forms.Option{"security_guard": opts}
		},
		ExportHeader: []string{"Guard", "Police Clearance", "Education Certificate", "National ID", "Verified", "Missing Documents"},
		ExportRow: func(g models.GuardInformation) []string {
			return []string{
				g.SecurityGuard.Display(), g.PoliceClearance, g.EducationCertificate, g.NationalID,
				yesNo(g.Verified), strings.Join(g.MissingDocuments(), ", "),
			}
		},
	}
}

func informationRow(id, parent string, docs []models.Document, missing []string, verified bool) Row {
	label := status.For(status.Verification).Label(fmt.Sprint(verified))
	return Row{
		ID:    id,
		Label: parent,
		Cells: []Cell{
			{Key: "name", Text: parent},
			{Key: "documents", Text: fmt.Sprintf("%d of %d provided", len(docs)-len(missing), len(docs)), Detail: strings.Join(missing, ", ")},
			{Key: "verified", Text: label, Status: true},
		},
		Status:      fmt.Sprint(verified),
		StatusLabel: label,
	}
}

// informationStats counts records by verification. A record counts as
// missing documents when any one of its documents is absent.
func informationStats(total int, each func(yield func(verified bool, missing int))) []Stat {
	var verified, missing int
	each(func(v bool, m int) {
		if v {
			verified++
		}
		if m > 0 {
			missing++
		}
	})
	return []Stat{
		{Title: "Total Records", Value: total},
		{Title: "Verified", Value: verified},
		{Title: "Pending Verification", Value: total - verified},
		{Title: "Missing Documents", Value: missing},
	}
}

func companyChoices(ctx context.Context, lookups Lookups, logger *zap.Logger) []forms.Option {
	companies, err := lookups.ListCompanies(ctx)
	if err != nil {
		logger.Warn("company choices unavailable", zap.Error(err))
	}
	opts := make([]forms.Option, 0, len(companies))
	for _, c := range companies {
		opts = append(opts, forms.Option{Value: c.ID, Label: c.Name})
	}
	return opts
}

func keepOption(opts []forms.Option, value string) []forms.Option {
	for _, o := range opts {
		if o.Value == value {
			return []forms.Option{o}
		}
	}
	return []forms.Option{{Value: value, Label: value}}
}

func statusOptions[S ~string](values []S) []datatable.Option {
	out := make([]datatable.Option, 0, len(values))
	for _, v := range values {
		out = append(out, datatable.Option{Value: string(v), Label: string(v)})
	}
	return out
}

func verificationOptions() []datatable.Option {
	var out []datatable.Option
	for _, o := range status.For(status.Verification).Options {
		out = append(out, datatable.Option{Value: o.Value, Label: o.Label})
	}
	return out
}

func countBy[T any](items []T, key func(T) string) map[string]int {
	counts := make(map[string]int)
	for _, it := range items {
		counts[key(it)]++
	}
	return counts
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
