package forms

import (
	"time"

	"github.com/gartstein/guardroster/internal/console/models"
)

var now = time.Now

func today() string { return now().Format(time.DateOnly) }

type CompanyForm struct {
	Name             string `form:"name" json:"name" label:"Company name" validate:"required,min=2"`
	Email            string `form:"email" json:"email" label:"Email" input:"email" validate:"required,registry_email"`
	PhoneNumber      string `form:"phone_number" json:"phone_number" label:"Phone number" input:"tel" validate:"required,phone_digits"`
	Status           string `form:"status" json:"status" label:"Status" input:"select" validate:"required,oneof=Pending Approved Declined"`
	District         string `form:"district" json:"district" label:"District" validate:"required,min=2"`
	Village          string `form:"village" json:"village" label:"Village" validate:"required,min=2"`
	Street           string `form:"street" json:"street" label:"Street" validate:"required,min=2"`
	RegistrationDate string `form:"registration_date" json:"registration_date,omitempty" label:"Registration date" input:"date" validate:"omitempty,datetime=2006-01-02"`
	RenewalDate      string `form:"renewal_date" json:"renewal_date,omitempty" label:"Renewal date" input:"date" validate:"omitempty,datetime=2006-01-02"`
}

func NewCompanyForm() CompanyForm {
	return CompanyForm{Status: string(models.CompanyPending)}
}

func CompanyFormFrom(c models.Company) CompanyForm {
	return CompanyForm{
		Name:             c.Name,
		Email:            c.Email,
		PhoneNumber:      c.PhoneNumber,
		Status:           string(c.Status),
		District:         c.District,
		Village:          c.Village,
		Street:           c.Street,
		RegistrationDate: models.DateOnly(c.RegistrationDate),
		RenewalDate:      models.DateOnly(c.RenewalDate),
	}
}

type GuardForm struct {
	FirstName         string `form:"first_name" json:"first_name" label:"First name" validate:"required,min=2"`
	LastName          string `form:"last_name" json:"last_name" label:"Last name" validate:"required,min=2"`
	Gender            string `form:"gender" json:"gender" label:"Gender" input:"select" validate:"required,oneof=Male Female"`
	Email             string `form:"email" json:"email" label:"Email" input:"email" validate:"required,registry_email"`
	PhoneNumber       string `form:"phone_number" json:"phone_number" label:"Phone number" input:"tel" validate:"required,phone_digits"`
	SecurityCompany   string `form:"security_company" json:"security_company" label:"Company" input:"select" validate:"required"`
	Status            string `form:"status" json:"status" label:"Status" input:"select" validate:"required,oneof=Active Inactive Suspended Terminated"`
	District          string `form:"district" json:"district" label:"District" validate:"required,min=2"`
	Village           string `form:"village" json:"village" label:"Village" validate:"required,min=2"`
	Street            string `form:"street" json:"street" label:"Street" validate:"required,min=2"`
	ChiefName         string `form:"chief_name" json:"chief_name" label:"Chief name" validate:"required,min=2"`
	NextOfKin         string `form:"next_of_kin" json:"next_of_kin" label:"Next of kin" validate:"required,min=2"`
	HireDate          string `form:"hire_date" json:"hire_date" label:"Hire date" input:"date" validate:"required,datetime=2006-01-02"`
	TerminationDate   string `form:"termination_date" json:"termination_date,omitempty" label:"Termination date" input:"date" show:"status=Terminated" validate:"omitempty,datetime=2006-01-02"`
	TrainingCompleted bool   `form:"training_completed" json:"training_completed" label:"Training completed" input:"checkbox"`
}

func NewGuardForm() GuardForm {
	return GuardForm{
		Gender:   string(models.Male),
		Status:   string(models.GuardActive),
		HireDate: today(),
	}
}

// Normalize drops the termination date unless the guard is terminated.
func (g *GuardForm) Normalize() {
	if g.Status != string(models.GuardTerminated) {
		g.TerminationDate = ""
	}
}

func GuardFormFrom(g models.Guard) GuardForm {
	return GuardForm{
		FirstName:         g.FirstName,
		LastName:          g.LastName,
		Gender:            string(g.Gender),
		Email:             g.Email,
		PhoneNumber:       g.PhoneNumber,
		SecurityCompany:   g.SecurityCompany.ID,
		Status:            string(g.Status),
		District:          g.District,
		Village:           g.Village,
		Street:            g.Street,
		ChiefName:         g.ChiefName,
		NextOfKin:         g.NextOfKin,
		HireDate:          models.DateOnly(g.HireDate),
		TerminationDate:   models.DateOnly(g.TerminationDate),
		TrainingCompleted: g.TrainingCompleted,
	}
}

type FirearmForm struct {
	SerialNumber    string `form:"serial_number" json:"serial_number" label:"Serial number" validate:"required,min=2"`
	FirearmType     string `form:"firearm_type" json:"firearm_type" label:"Type" input:"select" validate:"required,oneof=Pistol Rifle Shotgun Other"`
	IssueDate       string `form:"issue_date" json:"issue_date" label:"Issue date" input:"date" validate:"required,datetime=2006-01-02"`
	Status          string `form:"status" json:"status" label:"Status" input:"select" validate:"required,oneof='On Hand' Lost Stolen"`
	SecurityCompany string `form:"security_company" json:"security_company" label:"Company" input:"select" validate:"required"`
	SecurityGuard   string `form:"security_guard" json:"security_guard,omitempty" label:"Assigned guard" input:"select"`
}

func NewFirearmForm() FirearmForm {
	return FirearmForm{
		FirearmType: string(models.Pistol),
		Status:      string(models.FirearmOnHand),
		IssueDate:   today(),
	}
}

func FirearmFormFrom(f models.FireArm) FirearmForm {
	return FirearmForm{
		SerialNumber:    f.SerialNumber,
		FirearmType:     string(f.Type),
		IssueDate:       models.DateOnly(f.IssueDate),
		Status:          string(f.Status),
		SecurityCompany: f.SecurityCompany.ID,
		SecurityGuard:   f.SecurityGuard.ID,
	}
}

type CompanyInformationForm struct {
	SecurityCompany string `form:"security_company" json:"security_company" label:"Company" input:"select" validate:"required"`
	TradersLicense  string `form:"traders_license" json:"traders_license" label:"Traders License" input:"url" validate:"required"`
	Insurance       string `form:"insurance" json:"insurance" label:"Insurance Certificate" input:"url" validate:"required"`
	CompanyProfile  string `form:"company_profile" json:"company_profile" label:"Company Profile" input:"url" validate:"required"`
	TaxClearance    string `form:"tax_clearance" json:"tax_clearance" label:"Tax Clearance" input:"url" validate:"required"`
	Verified        bool   `form:"verified" json:"verified" label:"Verified" input:"checkbox"`
}

func NewCompanyInformationForm() CompanyInformationForm { return CompanyInformationForm{} }

func CompanyInformationFormFrom(c models.CompanyInformation) CompanyInformationForm {
	return CompanyInformationForm{
		SecurityCompany: c.SecurityCompany.ID,
		TradersLicense:  c.TradersLicense,
		Insurance:       c.Insurance,
		CompanyProfile:  c.CompanyProfile,
		TaxClearance:    c.TaxClearance,
		Verified:        c.Verified,
	}
}

type GuardInformationForm struct {
	SecurityGuard        string `form:"security_guard" json:"security_guard" label:"Guard" input:"select" validate:"required"`
	PoliceClearance      string `form:"police_clearance" json:"police_clearance" label:"Police Clearance" input:"url" validate:"required"`
	EducationCertificate string `form:"education_certificate" json:"education_certificate" label:"Education Certificate" input:"url" validate:"required"`
	NationalID           string `form:"national_id" json:"national_id" label:"National ID" input:"url" validate:"required"`
	Verified             bool   `form:"verified" json:"verified" label:"Verified" input:"checkbox"`
}

func NewGuardInformationForm() GuardInformationForm { return GuardInformationForm{} }

func GuardInformationFormFrom(g models.GuardInformation) GuardInformationForm {
	return GuardInformationForm{
		SecurityGuard:        g.SecurityGuard.ID,
		PoliceClearance:      g.PoliceClearance,
		EducationCertificate: g.EducationCertificate,
		NationalID:           g.NationalID,
		Verified:             g.Verified,
	}
}
