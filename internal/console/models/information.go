package models

// CompanyInformation holds the compliance documents of one company.
type CompanyInformation struct {
	ID              string `json:"_id,omitempty"`
	SecurityCompany Ref    `json:"security_company"`
	TradersLicense  string `json:"traders_license"`
	Insurance       string `json:"insurance"`
	CompanyProfile  string `json:"company_profile"`
	TaxClearance    string `json:"tax_clearance"`
	Verified        bool   `json:"verified"`
}

func (c CompanyInformation) GetID() string { return c.ID }

// Documents lists document labels with their stored value, in display order.
func (c CompanyInformation) Documents() []Document {
	return []Document{
		{Label: "Traders License", Value: c.TradersLicense},
		{Label: "Insurance", Value: c.Insurance},
		{Label: "Company Profile", Value: c.CompanyProfile},
		{Label: "Tax Clearance", Value: c.TaxClearance},
	}
}

func (c CompanyInformation) MissingDocuments() []string {
	return missing(c.Documents())
}

func (c CompanyInformation) Field(key string) any {
	switch key {
	case "_id", "id":
		return c.ID
	case "name", "company", "security_company":
		return c.SecurityCompany.Display()
	case "traders_license":
		return c.TradersLicense
	case "insurance":
		return c.Insurance
	case "company_profile":
		return c.CompanyProfile
	case "tax_clearance":
		return c.TaxClearance
	case "verified", "verification":
		return c.Verified
	case "documents":
		return len(c.Documents()) - len(c.MissingDocuments())
	}
	return nil
}

// GuardInformation holds the vetting documents of one guard.
type GuardInformation struct {
	ID                   string `json:"_id,omitempty"`
	SecurityGuard        Ref    `json:"security_guard"`
	PoliceClearance      string `json:"police_clearance"`
	EducationCertificate string `json:"education_certificate"`
	NationalID           string `json:"national_id"`
	Verified             bool   `json:"verified"`
}

func (g GuardInformation) GetID() string { return g.ID }

func (g GuardInformation) Documents() []Document {
	return []Document{
		{Label: "Police Clearance", Value: g.PoliceClearance},
		{Label: "Education Certificate", Value: g.EducationCertificate},
		{Label: "National ID", Value: g.NationalID},
	}
}

func (g GuardInformation) MissingDocuments() []string {
	return missing(g.Documents())
}

func (g GuardInformation) Field(key string) any {
	switch key {
	case "_id", "id":
		return g.ID
	case "name", "guard", "security_guard":
		return g.SecurityGuard.Display()
	case "police_clearance":
		return g.PoliceClearance
	case "education_certificate":
		return g.EducationCertificate
	case "national_id":
		return g.NationalID
	case "verified", "verification":
		return g.Verified
	case "documents":
		return len(g.Documents()) - len(g.MissingDocuments())
	}
	return nil
}

// Document is one named compliance document; an empty Value means missing.
type Document struct {
	Label string
	Value string
}

func (d Document) Present() bool { return d.Value != "" }

func missing(docs []Document) []string {
	var out []string
	for _, d := range docs {
		if !d.Present() {
			out = append(out, d.Label)
		}
	}
	return out
}
