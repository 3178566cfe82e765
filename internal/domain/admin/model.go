package admin

import (
	"time"

	"github.com/google/uuid"
)

// Region is one of Ghana's sixteen administrative regions.
type Region string

var Regions = []Region{
	"Ahafo", "Ashanti", "Bono", "Bono East", "Central", "Eastern", "Greater Accra",
	"North East", "Northern", "Oti", "Savannah", "Upper East", "Upper West", "Volta",
	"Western", "Western North",
}

func (r Region) Valid() bool {
	for _, v := range Regions {
		if v == r {
			return true
		}
	}
	return false
}

type FacilityType string

const (
	FacilityHospital      FacilityType = "Hospital"
	FacilityClinic        FacilityType = "Clinic"
	FacilityHealthCenter  FacilityType = "Health Center"
	FacilityCHPSCompound  FacilityType = "CHPS Compound"
	FacilityMaternityHome FacilityType = "Maternity Home"
)

var FacilityTypes = []FacilityType{
	FacilityHospital, FacilityClinic, FacilityHealthCenter, FacilityCHPSCompound, FacilityMaternityHome,
}

func (t FacilityType) Valid() bool {
	for _, v := range FacilityTypes {
		if v == t {
			return true
		}
	}
	return false
}

// District maps to the districts table.
type District struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	DistrictCode string    `db:"district_code" json:"district_code"`
	Region       Region    `db:"region" json:"region"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Facility maps to the facilities table.
type Facility struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	DistrictID   uuid.UUID    `db:"district_id" json:"district_id"`
	Name         string       `db:"name" json:"name"`
	FacilityCode string       `db:"facility_code" json:"facility_code"`
	Type         FacilityType `db:"type" json:"type"`
	Location     string       `db:"location" json:"location"`
	Latitude     *float64     `db:"latitude" json:"latitude,omitempty"`
	Longitude    *float64     `db:"longitude" json:"longitude,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// Profile maps to the profiles table. ID is the subject issued by the
// identity provider.
type Profile struct {
	ID          string     `db:"id" json:"id"`
	FullName    *string    `db:"full_name" json:"full_name,omitempty"`
	PhoneNumber *string    `db:"phone_number" json:"phone_number,omitempty"`
	PhotoURL    *string    `db:"photo_url" json:"photo_url,omitempty"`
	Role        string     `db:"role" json:"role"`
	FacilityID  *uuid.UUID `db:"facility_id" json:"facility_id,omitempty"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// FacilityFilter narrows facility listings.
type FacilityFilter struct {
	DistrictID uuid.UUID
}

// ProfileFilter narrows personnel listings. Empty Role matches every role.
type ProfileFilter struct {
	Role       string
	FacilityID uuid.UUID
	ActiveOnly bool
}
