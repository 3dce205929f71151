package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Ref points at another record. The backend sends it either as a bare id or
// as a populated object; it is always written back as the bare id.
type Ref struct {
	ID   string
	Name string
}

// NewRef builds an unpopulated reference.
func NewRef(id string) Ref { return Ref{ID: id} }

// Display returns the populated name when known, else the id.
func (r Ref) Display() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}
	var populated struct {
		ID           string `json:"_id"`
		Name         string `json:"name"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		SerialNumber string `json:"serial_number"`
		Email        string `json:"email"`
	}
	if err := json.Unmarshal(data, &populated); err != nil {
		return err
	}
	name := populated.Name
	if name == "" {
		name = strings.TrimSpace(populated.FirstName + " " + populated.LastName)
	}
	if name == "" {
		name = populated.SerialNumber
	}
	if name == "" {
		name = populated.Email
	}
	*r = Ref{ID: populated.ID, Name: name}
	return nil
}
