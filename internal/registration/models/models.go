package models

import (
	"time"
)

// Gender is the fixed set of gender selections on the registration form.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// IsValid reports whether the gender is one of the allowed selections.
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Registration is the persisted registration record. ID and CreatedAt are
// assigned by the store; ID is immutable once assigned.
type Registration struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	Gender      Gender    `json:"gender"`
	Mobile      string    `json:"mobile"`
	Email       string    `json:"email"`
	Aadhaar     string    `json:"aadhaar"`
	PAN         string    `json:"pan"`
	Address     string    `json:"address"`
	State       string    `json:"state"`
	City        string    `json:"city"`
	Pincode     string    `json:"pincode"`
	ImageURL    *string   `json:"imageUrl"`
	VideoURL    *string   `json:"videoUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
