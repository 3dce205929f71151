package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gartstein/guardroster/internal/console/models"
)

// Registry bundles every backend endpoint the console uses.
type Registry struct {
	client *Client

	Companies          *Collection[models.Company]
	Guards             *Collection[models.Guard]
	Firearms           *Collection[models.FireArm]
	CompanyInformation *Collection[models.CompanyInformation]
	GuardInformation   *Collection[models.GuardInformation]
}

func NewRegistry(client *Client) *Registry {
	return &Registry{
		client: client,
		Companies: NewCollection[models.Company](client, "companies", Paths{
			List:         "/companies",
			Get:          "/companies/{id}",
			Create:       "/add-company",
			Update:       "/companies/{id}",
			UpdateStatus: "/companies/update-status/{id}",
			Delete:       "/companies/{id}",
		}),
		Guards: NewCollection[models.Guard](client, "guards", Paths{
			List:         "/guards",
			Get:          "/guards/{id}",
			Create:       "/add-guard",
			Update:       "/update-guard/{id}",
			UpdateStatus: "/guards/update-status/{id}",
			Delete:       "/delete-guard/{id}",
		}),
		Firearms: NewCollection[models.FireArm](client, "firearms", Paths{
			List:         "/firearms",
			Get:          "/firearms/{id}",
			Create:       "/add-firearm",
			Update:       "/update-firearms/{id}",
			UpdateStatus: "/firearms/update-status/{id}",
			Delete:       "/firearms/{id}",
		}),
		CompanyInformation: NewCollection[models.CompanyInformation](client, "company_information", Paths{
			List:         "/company-information",
			Create:       "/company-information",
			Update:       "/company-information/{id}",
			UpdateStatus: "/company-information/update-status/{id}",
			Delete:       "/company-information/{id}",
		}),
		GuardInformation: NewCollection[models.GuardInformation](client, "guard_information", Paths{
			List:         "/guard-information-information",
			Create:       "/guard-information-information",
			Update:       "/guard-information-information/{id}",
			UpdateStatus: "/guard-information-information/update-status/{id}",
			Delete:       "/guard-information-information/{id}",
		}),
	}
}

func (r *Registry) ListCompanies(ctx context.Context) ([]models.Company, error) {
	return r.Companies.List(ctx)
}

func (r *Registry) ListGuards(ctx context.Context) ([]models.Guard, error) {
	return r.Guards.List(ctx)
}

// GuardsByCompany lists the guards employed by a company.
func (r *Registry) GuardsByCompany(ctx context.Context, companyID string) ([]models.Guard, error) {
	var out []models.Guard
	err := r.client.do(ctx, call{
		entity: "guards", operation: "by_company",
		method: http.MethodGet, path: "/guards/company/{id}", pathID: companyID, out: &out,
	})
	return out, err
}

// GuardsByStatus lists guards in one employment status.
func (r *Registry) GuardsByStatus(ctx context.Context, status models.GuardStatus) ([]models.Guard, error) {
	var out []models.Guard
	err := r.client.do(ctx, call{
		entity: "guards", operation: "by_status",
		method: http.MethodGet, path: "/guards-status/" + url.PathEscape(string(status)), out: &out,
	})
	return out, err
}

func (r *Registry) FirearmsByGuard(ctx context.Context, guardID string) ([]models.FireArm, error) {
	var out []models.FireArm
	err := r.client.do(ctx, call{
		entity: "firearms", operation: "by_guard",
		method: http.MethodGet, path: "/firearms/guard/{id}", pathID: guardID, out: &out,
	})
	return out, err
}

func (r *Registry) FirearmsByCompany(ctx context.Context, companyID string) ([]models.FireArm, error) {
	var out []models.FireArm
	err := r.client.do(ctx, call{
		entity: "firearms", operation: "by_company",
		method: http.MethodGet, path: "/firearms/company/{id}", pathID: companyID, out: &out,
	})
	return out, err
}

// UpdateTaxClearance replaces the tax clearance document of a company
// information record.
func (r *Registry) UpdateTaxClearance(ctx context.Context, id, document string) error {
	return r.client.do(ctx, call{
		entity: "company_information", operation: "update_tax_clearance",
		method: http.MethodPut, path: "/company-information/update-tax-clearance/{id}", pathID: id,
		body: map[string]string{"tax_clearance": document},
	})
}

// Login checks operator credentials. A false Success is not an error.
func (r *Registry) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	var out models.LoginResult
	err := r.client.do(ctx, call{
		entity: "auth", operation: "login",
		method: http.MethodPost, path: "/login",
		body: map[string]string{"email": email, "password": password}, out: &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Verify asks the backend for the identity behind the current session. A nil
// user means the session is not valid.
func (r *Registry) Verify(ctx context.Context) (*models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}
	err := r.client.do(ctx, call{
		entity: "auth", operation: "verify",
		method: http.MethodGet, path: "/verify", out: &out,
	})
	if err != nil {
		return nil, err
	}
	return out.User, nil
}

func (r *Registry) Logout(ctx context.Context) error {
	return r.client.do(ctx, call{
		entity: "auth", operation: "logout",
		method: http.MethodPost, path: "/logout",
	})
}
