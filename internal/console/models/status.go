package models

type CompanyStatus string

const (
	CompanyPending  CompanyStatus = "Pending"
	CompanyApproved CompanyStatus = "Approved"
	CompanyDeclined CompanyStatus = "Declined"
)

type GuardStatus string

const (
	GuardActive     GuardStatus = "Active"
	GuardInactive   GuardStatus = "Inactive"
	GuardSuspended  GuardStatus = "Suspended"
	GuardTerminated GuardStatus = "Terminated"
)

type FirearmStatus string

const (
	FirearmOnHand FirearmStatus = "On Hand"
	FirearmLost   FirearmStatus = "Lost"
	FirearmStolen FirearmStatus = "Stolen"
)

type FirearmType string

const (
	Pistol  FirearmType = "Pistol"
	Rifle   FirearmType = "Rifle"
	Shotgun FirearmType = "Shotgun"
	Other   FirearmType = "Other"
)

type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

var (
	CompanyStatuses = []CompanyStatus{CompanyPending, CompanyApproved, CompanyDeclined}
	GuardStatuses   = []GuardStatus{GuardActive, GuardInactive, GuardSuspended, GuardTerminated}
	FirearmStatuses = []FirearmStatus{FirearmOnHand, FirearmLost, FirearmStolen}
	FirearmTypes    = []FirearmType{Pistol, Rifle, Shotgun, Other}
	Genders         = []Gender{Male, Female}
)

// DateOnly trims an ISO timestamp to its YYYY-MM-DD prefix.
func DateOnly(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}
