package dashboard

import (
	"time"

	"github.com/google/uuid"
)

// AdminStats is the system-wide overview shown to administrators.
type AdminStats struct {
	Districts   int       `json:"districts"`
	Facilities  int       `json:"facilities"`
	Mothers     int       `json:"mothers"`
	Midwives    int       `json:"midwives"`
	Forms       int       `json:"forms"`
	Entries     int       `json:"entries"`
	GeneratedAt time.Time `json:"generated_at"`
}

// MidwifeStats covers the work of one midwife.
type MidwifeStats struct {
	MothersRegistered int             `json:"mothers_registered"`
	EntriesCreated    int             `json:"entries_created"`
	UpcomingVisits    int             `json:"upcoming_visits"`
	Upcoming          []UpcomingVisit `json:"upcoming"`
}

// UpcomingVisit is a scheduled follow-up taken from a form entry or a visit.
type UpcomingVisit struct {
	MotherID   uuid.UUID `json:"mother_id"`
	MotherName string    `json:"mother_name"`
	Date       time.Time `json:"date"`
	Source     string    `json:"source"`
}

// MonthlyActivity counts visits and deliveries in one calendar month.
type MonthlyActivity struct {
	Month      string    `json:"name"`
	Start      time.Time `json:"start"`
	Visits     int       `json:"visits"`
	Deliveries int       `json:"deliveries"`
}

// BucketByMonth counts visit and delivery dates into the months calendar
// months ending with the month of now, oldest first. Dates outside the
// window are ignored.
func BucketByMonth(now time.Time, months int, visits, deliveries []time.Time) []MonthlyActivity {
	out := make([]MonthlyActivity, months)
	first := windowStart(now, months)
	for i := range out {
		start := first.AddDate(0, i, 0)
		out[i] = MonthlyActivity{Month: start.Format("Jan"), Start: start}
	}
	index := func(t time.Time) int {
		return (t.Year()-first.Year())*12 + int(t.Month()) - int(first.Month())
	}
	for _, t := range visits {
		if i := index(t); i >= 0 && i < months {
			out[i].Visits++
		}
	}
	for _, t := range deliveries {
		if i := index(t); i >= 0 && i < months {
			out[i].Deliveries++
		}
	}
	return out
}

// windowStart is the first instant counted by BucketByMonth.
func windowStart(now time.Time, months int) time.Time {
	return time.Date(now.Year(), now.Month()-time.Month(months-1), 1, 0, 0, 0, 0, time.UTC)
}
