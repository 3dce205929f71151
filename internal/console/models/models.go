// Package models defines the records the console manages through the remote
// registry API: security companies, guards, firearms and the verification
// records attached to companies and guards.
package models

import "strings"

// Entity is a record held by the remote registry. Field exposes the record's
// values by wire key so that generic table code can filter and sort it.
type Entity interface {
	GetID() string
	Field(key string) any
}

// Company is a registered security company.
type Company struct {
	ID               string        `json:"_id,omitempty"`
	Name             string        `json:"name"`
	District         string        `json:"district"`
	Village          string        `json:"village"`
	Street           string        `json:"street"`
	PhoneNumber      string        `json:"phone_number"`
	Email            string        `json:"email"`
	Status           CompanyStatus `json:"status"`
	RegistrationDate string        `json:"registration_date,omitempty"`
	RenewalDate      string        `json:"renewal_date,omitempty"`
	TerminationDate  string        `json:"termination_date,omitempty"`
	RestorationDate  string        `json:"restoration_date,omitempty"`
	AddedBy          Ref           `json:"added_by,omitempty"`
}

func (c Company) GetID() string { return c.ID }

func (c Company) Field(key string) any {
	switch key {
	case "_id", "id":
		return c.ID
	case "name":
		return c.Name
	case "district":
		return c.District
	case "village":
		return c.Village
	case "street":
		return c.Street
	case "phone_number":
		return c.PhoneNumber
	case "email":
		return c.Email
	case "status":
		return string(c.Status)
	case "registration_date":
		return c.RegistrationDate
	case "renewal_date":
		return c.RenewalDate
	case "termination_date":
		return c.TerminationDate
	case "restoration_date":
		return c.RestorationDate
	case "added_by":
		return c.AddedBy.Display()
	}
	return nil
}

// Guard is a security guard employed by a company.
type Guard struct {
	ID                string      `json:"_id,omitempty"`
	FirstName         string      `json:"first_name"`
	LastName          string      `json:"last_name"`
	Gender            Gender      `json:"gender"`
	SecurityCompany   Ref         `json:"security_company"`
	PhoneNumber       string      `json:"phone_number"`
	Email             string      `json:"email"`
	District          string      `json:"district"`
	Village           string      `json:"village"`
	Street            string      `json:"street"`
	ChiefName         string      `json:"chief_name"`
	NextOfKin         string      `json:"next_of_kin"`
	Status            GuardStatus `json:"status"`
	HireDate          string      `json:"hire_date,omitempty"`
	TerminationDate   string      `json:"termination_date,omitempty"`
	TrainingCompleted bool        `json:"training_completed"`
}

func (g Guard) GetID() string { return g.ID }

// FullName joins first and last name.
func (g Guard) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}

func (g Guard) Field(key string) any {
	switch key {
	case "_id", "id":
		return g.ID
	case "name":
		return g.FullName()
	case "first_name":
		return g.FirstName
	case "last_name":
		return g.LastName
	case "gender":
		return string(g.Gender)
	case "security_company":
		return g.SecurityCompany.Display()
	case "phone_number":
		return g.PhoneNumber
	case "email":
		return g.Email
	case "district":
		return g.District
	case "village":
		return g.Village
	case "street":
		return g.Street
	case "chief_name":
		return g.ChiefName
	case "next_of_kin":
		return g.NextOfKin
	case "status":
		return string(g.Status)
	case "hire_date":
		return g.HireDate
	case "termination_date":
		return g.TerminationDate
	case "training_completed":
		return g.TrainingCompleted
	}
	return nil
}

// FireArm is a firearm in a company's inventory, optionally issued to a guard.
type FireArm struct {
	ID              string        `json:"_id,omitempty"`
	SerialNumber    string        `json:"serial_number"`
	Type            FirearmType   `json:"firearm_type"`
	IssueDate       string        `json:"issue_date,omitempty"`
	Status          FirearmStatus `json:"status"`
	SecurityGuard   Ref           `json:"security_guard"`
	SecurityCompany Ref           `json:"security_company"`
}

func (f FireArm) GetID() string { return f.ID }

func (f FireArm) Field(key string) any {
	switch key {
	case "_id", "id":
		return f.ID
	case "name", "serial_number":
		return f.SerialNumber
	case "firearm_type":
		return string(f.Type)
	case "issue_date":
		return f.IssueDate
	case "status":
		return string(f.Status)
	case "guard", "security_guard":
		return f.SecurityGuard.Display()
	case "company", "security_company":
		return f.SecurityCompany.Display()
	}
	return nil
}

// User is the operator identity held by the session.
type User struct {
	Email   string `json:"email"`
	Role    string `json:"role"`
	Message string `json:"message,omitempty"`
}

// LoginResult is the remote answer to a login attempt. Token is set only by
// backends that issue bearer tokens.
type LoginResult struct {
	Success bool   `json:"success"`
	Role    string `json:"role"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}
