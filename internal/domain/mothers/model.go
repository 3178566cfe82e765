package mothers

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Mother maps to the mothers table.
type Mother struct {
	ID                   uuid.UUID  `db:"id" json:"id"`
	FullName             string     `db:"full_name" json:"full_name"`
	RegistrationNumber   string     `db:"registration_number" json:"registration_number"`
	GhanaCardNumber      *string    `db:"ghana_card_number" json:"ghana_card_number,omitempty"`
	NHISNumber           *string    `db:"nhis_number" json:"nhis_number,omitempty"`
	PhoneNumber          *string    `db:"phone_number" json:"phone_number,omitempty"`
	PreferredLanguage    *string    `db:"preferred_language" json:"preferred_language,omitempty"`
	CommunicationChannel *string    `db:"communication_channel" json:"communication_channel,omitempty"`
	FacilityID           *uuid.UUID `db:"facility_id" json:"facility_id,omitempty"`
	RegisteredBy         *string    `db:"registered_by" json:"registered_by,omitempty"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}

// Visit maps to the visits table.
type Visit struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	MotherID      uuid.UUID  `db:"mother_id" json:"mother_id"`
	FacilityID    uuid.UUID  `db:"facility_id" json:"facility_id"`
	MidwifeID     *string    `db:"midwife_id" json:"midwife_id,omitempty"`
	VisitDate     time.Time  `db:"visit_date" json:"visit_date"`
	VisitType     string     `db:"visit_type" json:"visit_type"`
	Notes         *string    `db:"notes" json:"notes,omitempty"`
	NextVisitDate *time.Time `db:"next_visit_date" json:"next_visit_date,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

func (v *Visit) isAntenatal() bool { return strings.Contains(strings.ToLower(v.VisitType), "ante") }

func (v *Visit) isPostnatal() bool { return strings.Contains(strings.ToLower(v.VisitType), "post") }

// Delivery maps to the deliveries table.
type Delivery struct {
	ID           uuid.UUID `db:"id" json:"id"`
	MotherID     uuid.UUID `db:"mother_id" json:"mother_id"`
	FacilityID   uuid.UUID `db:"facility_id" json:"facility_id"`
	MidwifeID    *string   `db:"midwife_id" json:"midwife_id,omitempty"`
	DeliveryDate time.Time `db:"delivery_date" json:"delivery_date"`
	Outcome      string    `db:"outcome" json:"outcome"`
	Notes        *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// FormActivity is a form entry recorded against a mother, joined with its form title.
type FormActivity struct {
	EntryID       uuid.UUID  `json:"entry_id"`
	FormID        uuid.UUID  `json:"form_id"`
	FormTitle     string     `json:"form_title"`
	NextVisitDate *time.Time `json:"next_visit_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// MotherFilter narrows mother listings. Query matches name, registration
// number or phone number, case-insensitively.
type MotherFilter struct {
	Query        string
	RegisteredBy string
}

// CareStage is derived from a mother's visits and deliveries.
type CareStage string

const (
	StageDefault   CareStage = "default"
	StageAntenatal CareStage = "antenatal"
	StagePostnatal CareStage = "postnatal"
)

// Summary counts a mother's recorded care.
type Summary struct {
	MotherID        uuid.UUID `json:"mother_id"`
	AntenatalVisits int       `json:"antenatal_visits"`
	PostnatalVisits int       `json:"postnatal_visits"`
	Deliveries      int       `json:"deliveries"`
	FormsFilled     int       `json:"forms_filled"`
	Stage           CareStage `json:"stage"`
}

// Summarize counts visits by kind and derives the care stage. Any delivery
// puts the mother in postnatal care.
func Summarize(motherID uuid.UUID, visits []*Visit, deliveries []*Delivery, forms []FormActivity) Summary {
	s := Summary{MotherID: motherID, Deliveries: len(deliveries), FormsFilled: len(forms), Stage: StageDefault}
	for _, v := range visits {
		if v.isAntenatal() {
			s.AntenatalVisits++
		}
		if v.isPostnatal() {
			s.PostnatalVisits++
		}
	}
	switch {
	case s.Deliveries > 0:
		s.Stage = StagePostnatal
	case s.AntenatalVisits > 0:
		s.Stage = StageAntenatal
	}
	return s
}

// Communication channels offered at registration.
var validChannels = []string{"SMS", "WhatsApp", "Voice Call", "In Person"}

// normalizeChannel returns the canonical spelling of ch, or false.
func normalizeChannel(ch string) (string, bool) {
	for _, c := range validChannels {
		if strings.EqualFold(strings.TrimSpace(ch), c) {
			return c, true
		}
	}
	return "", false
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// trimPtr trims p and collapses blank values to nil.
func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	return strPtr(strings.TrimSpace(*p))
}
