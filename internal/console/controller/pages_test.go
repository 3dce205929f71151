package controller

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/gartstein/guardroster/internal/console/forms"
	"github.com/gartstein/guardroster/internal/console/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockLookups implements Lookups with overridable functions.
type MockLookups struct {
	listCompanies   func(context.Context) ([]models.Company, error)
	listGuards      func(context.Context) ([]models.Guard, error)
	guardsByCompany func(context.Context, string) ([]models.Guard, error)
}

func (m *MockLookups) ListCompanies(ctx context.Context) ([]models.Company, error) {
	return m.listCompanies(ctx)
}

func (m *MockLookups) ListGuards(ctx context.Context) ([]models.Guard, error) {
	return m.listGuards(ctx)
}

func (m *MockLookups) GuardsByCompany(ctx context.Context, companyID string) ([]models.Guard, error) {
	return m.guardsByCompany(ctx, companyID)
}

func rosterLookups() *MockLookups {
	rosters := map[string][]models.Guard{
		"c1": {{ID: "g1", FirstName: "Ann", LastName: "Banda", SecurityCompany: models.NewRef("c1")}},
		"c2": {{ID: "g2", FirstName: "Chris", LastName: "Phiri", SecurityCompany: models.NewRef("c2")}},
	}
	return &MockLookups{
		listCompanies: func(context.Context) ([]models.Company, error) {
			return []models.Company{{ID: "c1", Name: "Alpha Guards"}, {ID: "c2", Name: "Beta Security"}}, nil
		},
		guardsByCompany: func(_ context.Context, id string) ([]models.Guard, error) {
			return rosters[id], nil
		},
	}
}

func firearmConsole(t *testing.T, lookups *MockLookups, store *MockStore[models.FireArm]) *Console[models.FireArm, forms.FirearmForm] {
	logger := zaptest.NewLogger(t)
	assignment := forms.NewAssignment(lookups, logger)
	return NewConsole(FirearmSpec(lookups, assignment, logger), store, testDeps(t, &MockPublisher{}))
}

func firearmValues(company, guard string) url.Values {
	return url.Values{
		"serial_number":    {"SN-0042"},
		"firearm_type":     {"Pistol"},
		"issue_date":       {"2026-03-01"},
		"status":           {"On Hand"},
		"security_company": {company},
		"security_guard":   {guard},
	}
}

func formField(t *testing.T, v PageView, name string) forms.Field {
	t.Helper()
	require.NotNil(t, v.Form)
	for _, f := range v.Form.Fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("field %s not rendered", name)
	return forms.Field{}
}

func optionValues(opts []forms.Option) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Value)
	}
	return out
}

func TestFirearmForm_CompanySwitch(t *testing.T) {
	var created forms.FirearmForm
	store := &MockStore[models.FireArm]{
		list: func(context.Context) ([]models.FireArm, error) { return nil, nil },
		create: func(_ context.Context, payload any) (*models.FireArm, error) {
			created = payload.(forms.FirearmForm)
			return &models.FireArm{ID: "f1"}, nil
		},
	}
	c := firearmConsole(t, rosterLookups(), store)
	ctx := context.Background()
	require.NoError(t, c.OpenCreate(ctx))

	require.NoError(t, c.ChangeForm(ctx, firearmValues("c1", "g2")))
	v := c.View(ctx)
	guard := formField(t, v, "security_guard")
	assert.Empty(t, guard.Value)
	assert.Equal(t, []string{"", "g1"}, optionValues(guard.Options))

	require.NoError(t, c.ChangeForm(ctx, firearmValues("c2", "g1")))
	v = c.View(ctx)
	guard = formField(t, v, "security_guard")
	assert.Empty(t, guard.Value)
	assert.Equal(t, []string{"", "g2"}, optionValues(guard.Options))
	assert.Equal(t, "c2", formField(t, v, "security_company").Value)

	// A guard from another company's roster is refused.
	err := c.SubmitForm(ctx, firearmValues("c2", "g1"))
	require.Error(t, err)
	v = c.View(ctx)
	require.NotNil(t, v.Form)
	assert.Equal(t, "Selected guard does not work for the selected company.", v.Form.Message.Text)
	assert.Empty(t, created.SerialNumber)

	require.NoError(t, c.SubmitForm(ctx, firearmValues("c2", "g2")))
	assert.Equal(t, "c2", created.SecurityCompany)
	assert.Equal(t, "g2", created.SecurityGuard)
}

func TestFirearmForm_RosterFailureLeavesEmptyRoster(t *testing.T) {
	lookups := rosterLookups()
	lookups.guardsByCompany = func(context.Context, string) ([]models.Guard, error) {
		return nil, errors.New("timeout")
	}
	store := &MockStore[models.FireArm]{
		list: func(context.Context) ([]models.FireArm, error) { return nil, nil },
	}
	c := firearmConsole(t, lookups, store)
	ctx := context.Background()
	require.NoError(t, c.OpenCreate(ctx))

	require.NoError(t, c.ChangeForm(ctx, firearmValues("c1", "g1")))
	guard := formField(t, c.View(ctx), "security_guard")
	assert.Empty(t, guard.Value)
	assert.Equal(t, []string{""}, optionValues(guard.Options))
}

func TestFirearmForm_ScopedToCompany(t *testing.T) {
	lookups := rosterLookups()
	var fetched []string
	base := lookups.guardsByCompany
	lookups.guardsByCompany = func(ctx context.Context, id string) ([]models.Guard, error) {
		fetched = append(fetched, id)
		return base(ctx, id)
	}
	store := &MockStore[models.FireArm]{
		list: func(context.Context) ([]models.FireArm, error) { return nil, nil },
	}
	c := firearmConsole(t, lookups, store)
	ctx := context.Background()

	require.NoError(t, c.OpenScoped(ctx, "c1"))
	v := c.View(ctx)
	assert.Equal(t, "c1", formField(t, v, "security_company").Value)
	assert.Equal(t, []string{"c1"}, optionValues(formField(t, v, "security_company").Options))
	assert.Equal(t, []string{"", "g1"}, optionValues(formField(t, v, "security_guard").Options))

	require.NoError(t, c.ChangeForm(ctx, firearmValues("c2", "g1")))
	v = c.View(ctx)
	assert.Equal(t, "c1", formField(t, v, "security_company").Value)
	assert.Equal(t, []string{"c1"}, fetched)
}

func TestFirearmForm_EditLoadsRosterWithoutClearingGuard(t *testing.T) {
	store := &MockStore[models.FireArm]{
		list: func(context.Context) ([]models.FireArm, error) {
			return []models.FireArm{{
				ID: "f1", SerialNumber: "SN-1", Type: models.Rifle, Status: models.FirearmOnHand,
				IssueDate: "2025-12-01T00:00:00.000Z", SecurityCompany: models.NewRef("c1"), SecurityGuard: models.NewRef("g1"),
			}}, nil
		},
	}
	c := firearmConsole(t, rosterLookups(), store)
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))
	require.NoError(t, c.OpenEdit(ctx, "f1"))

	v := c.View(ctx)
	assert.Equal(t, "g1", formField(t, v, "security_guard").Value)
	assert.Equal(t, "2025-12-01", formField(t, v, "issue_date").Value)
	assert.Equal(t, []string{"", "g1"}, optionValues(formField(t, v, "security_guard").Options))
}

func TestCompanyInformation_StatsFilterAndVerification(t *testing.T) {
	records := []models.CompanyInformation{
		{ID: "i1", SecurityCompany: models.Ref{ID: "c1", Name: "Alpha Guards"}, TradersLicense: "a", Insurance: "b", CompanyProfile: "c", TaxClearance: "d", Verified: true},
		{ID: "i2", SecurityCompany: models.Ref{ID: "c2", Name: "Beta Security"}, TradersLicense: "a", Insurance: "b", CompanyProfile: "c"},
		{ID: "i3", SecurityCompany: models.Ref{ID: "c3", Name: "Gamma Patrol"}, TradersLicense: "a", Insurance: "b", CompanyProfile: "c", TaxClearance: "d"},
	}
	var gotBody map[string]any
	store := &MockStore[models.CompanyInformation]{
		list: func(context.Context) ([]models.CompanyInformation, error) { return records, nil },
		updateStatus: func(_ context.Context, _ string, body map[string]any) error {
			gotBody = body
			return nil
		},
	}
	logger := zaptest.NewLogger(t)
	c := NewConsole(CompanyInformationSpec(rosterLookups(), logger), store, testDeps(t, &MockPublisher{}))
	ctx := context.Background()

	v := c.View(ctx)
	assert.Equal(t, []Stat{
		{Title: "Total Records", Value: 3},
		{Title: "Verified", Value: 1},
		{Title: "Pending Verification", Value: 2},
		{Title: "Missing Documents", Value: 1},
	}, v.Stats)
	require.Len(t, v.Table.Rows, 3)
	assert.Equal(t, "4 of 4 provided", v.Table.Rows[0].Cells[1].Text)
	assert.Equal(t, "3 of 4 provided", v.Table.Rows[1].Cells[1].Text)
	assert.Equal(t, "Tax Clearance", v.Table.Rows[1].Cells[1].Detail)

	require.NoError(t, c.SetFilter("verified", "true"))
	v = c.View(ctx)
	require.Len(t, v.Table.Rows, 1)
	assert.Equal(t, "Alpha Guards", v.Table.Rows[0].Label)
	assert.Equal(t, "Verified", v.Table.Rows[0].StatusLabel)

	require.NoError(t, c.OpenStatus("i2"))
	assert.Equal(t, "false", c.View(ctx).Status.Selected)
	require.NoError(t, c.SaveStatus(ctx, "true"))
	assert.Equal(t, map[string]any{"verified": true}, gotBody)
}

func TestGuardSpec_Stats(t *testing.T) {
	spec := GuardSpec(rosterLookups(), zaptest.NewLogger(t))
	stats := spec.Stats([]models.Guard{
		{Status: models.GuardActive},
		{Status: models.GuardActive},
		{Status: models.GuardSuspended},
		{Status: models.GuardTerminated},
	})
	assert.Equal(t, []Stat{
		{Title: "Total Guards", Value: 4},
		{Title: "Active", Value: 2},
		{Title: "Inactive", Value: 0},
		{Title: "Suspended", Value: 1},
	}, stats)
}

func TestNewPagesOrder(t *testing.T) {
	pages := Collect(
		NewConsole(CompanySpec(), &MockStore[models.Company]{}, testDeps(t, nil)),
		NewConsole(GuardSpec(rosterLookups(), zaptest.NewLogger(t)), &MockStore[models.Guard]{}, testDeps(t, nil)),
	)
	require.Len(t, pages.All(), 2)
	assert.Equal(t, "companies", pages.All()[0].Name())
	p, ok := pages.Get("guards")
	require.True(t, ok)
	assert.Equal(t, "Security Guards", p.Title())
	_, ok = pages.Get("vehicles")
	assert.False(t, ok)
}
