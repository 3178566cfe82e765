package mothers

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

type EventKind string

const (
	EventForm     EventKind = "form"
	EventVisit    EventKind = "visit"
	EventDelivery EventKind = "delivery"
)

// TimelineEvent is one row of a mother's care history.
type TimelineEvent struct {
	ID            string     `json:"id"`
	Kind          EventKind  `json:"type"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Date          time.Time  `json:"date"`
	NextVisitDate *time.Time `json:"next_visit_date,omitempty"`
}

// BuildTimeline merges form entries, visits and deliveries, newest first.
// Events on the same instant keep the order forms, visits, deliveries.
func BuildTimeline(forms []FormActivity, visits []*Visit, deliveries []*Delivery) []TimelineEvent {
	events := make([]TimelineEvent, 0, len(forms)+len(visits)+len(deliveries))
	for _, f := range forms {
		events = append(events, TimelineEvent{
			ID:            "form-" + f.EntryID.String(),
			Kind:          EventForm,
			Title:         "Form Filled: " + f.FormTitle,
			Description:   fmt.Sprintf("A %s form was completed", f.FormTitle),
			Date:          f.CreatedAt,
			NextVisitDate: f.NextVisitDate,
		})
	}
	for _, v := range visits {
		desc := v.VisitType + " visit recorded"
		if v.Notes != nil {
			desc = *v.Notes
		}
		events = append(events, TimelineEvent{
			ID:            "visit-" + v.ID.String(),
			Kind:          EventVisit,
			Title:         v.VisitType + " Visit",
			Description:   desc,
			Date:          v.VisitDate,
			NextVisitDate: v.NextVisitDate,
		})
	}
	for _, d := range deliveries {
		desc := "Delivery outcome: " + d.Outcome
		if d.Notes != nil {
			desc = *d.Notes
		}
		events = append(events, TimelineEvent{
			ID:          "delivery-" + d.ID.String(),
			Kind:        EventDelivery,
			Title:       "Delivery",
			Description: desc,
			Date:        d.DeliveryDate,
		})
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.After(events[j].Date)
	})
	return events
}

// WriteCSV exports a mother's record followed by her timeline in
// chronological order.
func WriteCSV(w io.Writer, m *Mother, facilityName string, s Summary, events []TimelineEvent) error {
	cw := csv.NewWriter(w)
	orNA := func(p *string) string {
		if p == nil || *p == "" {
			return "N/A"
		}
		return *p
	}
	if facilityName == "" {
		facilityName = "N/A"
	}
	rows := [][]string{
		{"Full Name", m.FullName},
		{"Registration Number", m.RegistrationNumber},
		{"Phone Number", orNA(m.PhoneNumber)},
		{"Ghana Card Number", orNA(m.GhanaCardNumber)},
		{"NHIS Number", orNA(m.NHISNumber)},
		{"Preferred Language", orNA(m.PreferredLanguage)},
		{"Communication Channel", orNA(m.CommunicationChannel)},
		{"Facility", facilityName},
		{"Registration Date", m.CreatedAt.Format(time.DateOnly)},
		{"Antenatal Visits", strconv.Itoa(s.AntenatalVisits)},
		{"Postnatal Visits", strconv.Itoa(s.PostnatalVisits)},
		{"Deliveries", strconv.Itoa(s.Deliveries)},
		{},
		{"Timeline Events"},
		{"Date", "Type", "Title", "Description", "Next Visit Date"},
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	for _, e := range chronological(events) {
		next := "N/A"
		if e.NextVisitDate != nil {
			next = e.NextVisitDate.Format(time.DateOnly)
		}
		if err := cw.Write([]string{e.Date.Format(time.DateOnly), string(e.Kind), e.Title, e.Description, next}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// chronological returns events oldest first. Events on the same instant keep
// their relative order.
func chronological(events []TimelineEvent) []TimelineEvent {
	out := append([]TimelineEvent(nil), events...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// ExportFileName names a mother's CSV export.
func ExportFileName(m *Mother, now time.Time) string {
	return strings.Join(strings.Fields(m.FullName), "_") + "_data_" + now.Format(time.DateOnly) + ".csv"
}
