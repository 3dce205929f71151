package devbackend

import (
	"github.com/gartstein/guardroster/internal/console/models"
)

// Seed loads a small demo registry.
func (b *Backend) Seed() error {
	companies := []any{
		models.Company{ID: "c1", Name: "Alpha Guards", District: "Lilongwe", Village: "Area 47", Street: "Kamuzu Procession Rd",
			PhoneNumber: "0999123456", Email: "info@alphaguards.mw", Status: models.CompanyApproved, RegistrationDate: "2023-01-10"},
		models.Company{ID: "c2", Name: "Beta Security", District: "Blantyre", Village: "Chichiri", Street: "Masauko Chipembere Hwy",
			PhoneNumber: "0888765432", Email: "ops@betasecurity.mw", Status: models.CompanyPending, RegistrationDate: "2024-05-02"},
		models.Company{ID: "c3", Name: "Gamma Protection", District: "Mzuzu", Village: "Katoto", Street: "Orton Chirwa Ave",
			PhoneNumber: "0991112223", Email: "contact@gamma.mw", Status: models.CompanyDeclined},
	}
	guards := []any{
		models.Guard{ID: "g1", FirstName: "Tawonga", LastName: "Phiri", Gender: models.Female, SecurityCompany: models.NewRef("c1"),
			PhoneNumber: "0999000111", Email: "tawonga@alphaguards.mw", District: "Lilongwe", Village: "Area 25", Street: "M1",
			ChiefName: "Kalumbu", NextOfKin: "Mercy Phiri", Status: models.GuardActive, HireDate: "2023-02-01", TrainingCompleted: true},
		models.Guard{ID: "g2", FirstName: "Chikondi", LastName: "Banda", Gender: models.Male, SecurityCompany: models.NewRef("c2"),
			PhoneNumber: "0888000222", Email: "chikondi@betasecurity.mw", District: "Blantyre", Village: "Ndirande", Street: "M2",
			ChiefName: "Kapeni", NextOfKin: "James Banda", Status: models.GuardSuspended, HireDate: "2024-06-15"},
	}
	firearms := []any{
		models.FireArm{ID: "f1", SerialNumber: "MW-PST-0001", Type: models.Pistol, IssueDate: "2023-03-01", Status: models.FirearmOnHand,
			SecurityCompany: models.NewRef("c1"), SecurityGuard: models.NewRef("g1")},
		models.FireArm{ID: "f2", SerialNumber: "MW-RFL-0002", Type: models.Rifle, IssueDate: "2024-07-01", Status: models.FirearmLost,
			SecurityCompany: models.NewRef("c2")},
	}
	companyInfo := []any{
		models.CompanyInformation{ID: "ci1", SecurityCompany: models.NewRef("c1"), TradersLicense: "https://docs.example/c1/license.pdf",
			Insurance: "https://docs.example/c1/insurance.pdf", CompanyProfile: "https://docs.example/c1/profile.pdf",
			TaxClearance: "https://docs.example/c1/tax.pdf", Verified: true},
		models.CompanyInformation{ID: "ci2", SecurityCompany: models.NewRef("c2"), TradersLicense: "https://docs.example/c2/license.pdf"},
	}
	guardInfo := []any{
		models.GuardInformation{ID: "gi1", SecurityGuard: models.NewRef("g1"), PoliceClearance: "https://docs.example/g1/police.pdf",
			EducationCertificate: "https://docs.example/g1/msce.pdf", NationalID: "https://docs.example/g1/id.pdf", Verified: true},
	}

	for collection, rows := range map[string][]any{
		Companies:          companies,
		Guards:             guards,
		Firearms:           firearms,
		CompanyInformation: companyInfo,
		GuardInformation:   guardInfo,
	} {
		if err := b.Put(collection, rows...); err != nil {
			return err
		}
	}
	return nil
}
