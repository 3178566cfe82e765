package mothers

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func registerAma(t *testing.T, f *fixture) *Mother {
	t.Helper()
	m := &Mother{FullName: "  Ama Mensah ", PhoneNumber: strPtr("0244000000")}
	if err := f.svc.RegisterMother(context.Background(), m); err != nil {
		t.Fatalf("register: %v", err)
	}
	return m
}

func TestGenerateRegistrationNumber(t *testing.T) {
	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	if got := GenerateRegistrationNumber(now, func(int) int { return 0 }); got != "MCH-2025-10000" {
		t.Errorf("got %q", got)
	}
	if got := GenerateRegistrationNumber(now, func(n int) int { return n - 1 }); got != "MCH-2025-99999" {
		t.Errorf("got %q", got)
	}
}

func TestRegisterMother(t *testing.T) {
	f := newFixture()
	m := registerAma(t, f)
	if m.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
	if m.FullName != "Ama Mensah" {
		t.Errorf("expected trimmed name, got %q", m.FullName)
	}
	if m.RegistrationNumber != "MCH-2024-12345" {
		t.Errorf("expected generated number, got %q", m.RegistrationNumber)
	}
	if m.RegisteredBy == nil || *m.RegisteredBy != "midwife-1" {
		t.Errorf("expected registered_by midwife-1, got %v", m.RegisteredBy)
	}
}

func TestRegisterMother_KeepsGivenNumber(t *testing.T) {
	f := newFixture()
	m := &Mother{FullName: "Efua Owusu", RegistrationNumber: "KATH-0001"}
	if err := f.svc.RegisterMother(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.RegistrationNumber != "KATH-0001" {
		t.Errorf("got %q", m.RegistrationNumber)
	}
}

func TestRegisterMother_Validation(t *testing.T) {
	tests := []struct {
		name string
		m    Mother
	}{
		{"short name", Mother{FullName: "A"}},
		{"short number", Mother{FullName: "Ama", RegistrationNumber: "X"}},
		{"unknown channel", Mother{FullName: "Ama", CommunicationChannel: strPtr("pigeon")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			m := tt.m
			err := f.svc.RegisterMother(context.Background(), &m)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
			if f.mothers.creates != 0 {
				t.Error("repository must not be called")
			}
		})
	}
}

func TestRegisterMother_NormalizesChannel(t *testing.T) {
	f := newFixture()
	m := &Mother{FullName: "Ama", CommunicationChannel: strPtr(" whatsapp "), NHISNumber: strPtr("  ")}
	if err := f.svc.RegisterMother(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *m.CommunicationChannel != "WhatsApp" {
		t.Errorf("got %q", *m.CommunicationChannel)
	}
	if m.NHISNumber != nil {
		t.Error("blank optional fields should be cleared")
	}
}

func TestRegisterMother_RetriesGeneratedCollision(t *testing.T) {
	f := newFixture()
	registerAma(t, f)

	seq := []int{2345, 2345, 7777}
	f.svc.intn = func(int) int {
		n := seq[0]
		seq = seq[1:]
		return n
	}
	m := &Mother{FullName: "Akosua Boateng"}
	if err := f.svc.RegisterMother(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.RegistrationNumber != "MCH-2024-17777" {
		t.Errorf("got %q", m.RegistrationNumber)
	}
}

func TestRegisterMother_DuplicateGivenNumber(t *testing.T) {
	f := newFixture()
	registerAma(t, f)
	m := &Mother{FullName: "Akosua", RegistrationNumber: "MCH-2024-12345"}
	if err := f.svc.RegisterMother(context.Background(), m); !errors.Is(err, ErrDuplicateRegistration) {
		t.Errorf("expected ErrDuplicateRegistration, got %v", err)
	}
	if f.mothers.creates != 2 {
		t.Errorf("explicit numbers are not retried, got %d creates", f.mothers.creates)
	}
}

func TestUpdateMother(t *testing.T) {
	f := newFixture()
	m := registerAma(t, f)
	upd := &Mother{ID: m.ID, FullName: "Ama Mensah-Boateng", RegistrationNumber: m.RegistrationNumber}
	if err := f.svc.UpdateMother(context.Background(), upd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := f.svc.GetMother(context.Background(), m.ID)
	if got.FullName != "Ama Mensah-Boateng" {
		t.Errorf("got %q", got.FullName)
	}

	upd.RegistrationNumber = ""
	if err := f.svc.UpdateMother(context.Background(), upd); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestListMothers_SearchByName(t *testing.T) {
	f := newFixture()
	for i, name := range []string{"Yaa Asantewaa", "ama Owusu", "Abena Mensah"} {
		f.svc.intn = func(int) int { return i }
		if err := f.svc.RegisterMother(context.Background(), &Mother{FullName: name}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	items, total, err := f.svc.ListMothers(context.Background(), MotherFilter{Query: "A"}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 || items[0].FullName != "Abena Mensah" || items[1].FullName != "ama Owusu" {
		t.Errorf("unexpected order: %v", names(items))
	}
	items, _, _ = f.svc.ListMothers(context.Background(), MotherFilter{Query: "mensah"}, 20, 0)
	if len(items) != 1 {
		t.Errorf("expected one match, got %v", names(items))
	}
}

func names(ms []*Mother) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.FullName
	}
	return out
}

func TestSubjectExists(t *testing.T) {
	f := newFixture()
	m := registerAma(t, f)
	ctx := context.Background()

	if ok, err := f.svc.SubjectExists(ctx, m.ID.String()); err != nil || !ok {
		t.Errorf("expected registered mother to exist, got %v %v", ok, err)
	}
	if ok, _ := f.svc.SubjectExists(ctx, uuid.New().String()); ok {
		t.Error("unknown id must not exist")
	}
	if ok, err := f.svc.SubjectExists(ctx, "mother-123"); ok || err != nil {
		t.Errorf("non-uuid ids name nobody, got %v %v", ok, err)
	}
}

func TestRecordVisit(t *testing.T) {
	f := newFixture()
	m := registerAma(t, f)
	v := &Visit{MotherID: m.ID, FacilityID: uuid.New(), VisitType: " Antenatal "}
	if err := f.svc.RecordVisit(context.Background(), v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.VisitDate.Equal(day("2024-07-15")) {
		t.Errorf("expected today's date, got %v", v.VisitDate)
	}
	if v.VisitType != "Antenatal" || v.MidwifeID == nil || *v.MidwifeID != "midwife-1" {
		t.Errorf("unexpected visit %+v", v)
	}
}

func TestRecordVisit_Errors(t *testing.T) {
	f := newFixture()
	m := registerAma(t, f)
	ctx := context.Background()

	if err := f.svc.RecordVisit(ctx, &Visit{MotherID: uuid.New(), FacilityID: uuid.New(), VisitType: "Antenatal"}); !errors.Is(err, ErrMotherNotFound) {
		t.Errorf("expected ErrMotherNotFound, got %v", err)
	}
	if err := f.svc.RecordVisit(ctx, &Visit{MotherID: m.ID, VisitType: "Antenatal"}); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for missing facility, got %v", err)
	}
	if err := f.svc.RecordVisit(ctx, &Visit{MotherID: m.ID, FacilityID: uuid.New()}); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for missing type, got %v", err)
	}
}

func TestUpdateAndDeleteVisit(t *testing.T) {
	f := newFixture()
	m := registerAma(t, f)
	ctx := context.Background()
	v := &Visit{MotherID: m.ID, FacilityID: uuid.New(), VisitType: "Antenatal"}
	if err := f.svc.RecordVisit(ctx, v); err != nil {
		t.Fatal(err)
	}

	upd := &Visit{ID: v.ID, FacilityID: v.FacilityID, VisitType: "Postnatal", VisitDate: day("2024-07-20")}
	if err := f.svc.UpdateVisit(ctx, upd); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := f.svc.UpdateVisit(ctx, &Visit{ID: v.ID, FacilityID: v.FacilityID, VisitType: "Postnatal"}); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid without date, got %v", err)
	}
	if err := f.svc.DeleteVisit(ctx, v.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.GetVisit(ctx, v.ID); !errors.Is(err, ErrVisitNotFound) {
		t.Errorf("expected ErrVisitNotFound, got %v", err)
	}
}

func TestRecordDelivery(t *testing.T) {
	f := newFixture()
	m := registerAma(t, f)
	ctx := context.Background()

	d := &Delivery{MotherID: m.ID, FacilityID: uuid.New(), DeliveryDate: day("2024-07-10"), Outcome: "Live birth"}
	if err := f.svc.RecordDelivery(ctx, d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.MidwifeID == nil {
		t.Error("expected midwife to be recorded")
	}
	if err := f.svc.RecordDelivery(ctx, &Delivery{MotherID: m.ID, FacilityID: uuid.New(), Outcome: "Live birth"}); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid without date, got %v", err)
	}
	if err := f.svc.RecordDelivery(ctx, &Delivery{MotherID: m.ID, FacilityID: uuid.New(), DeliveryDate: day("2024-07-10")}); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid without outcome, got %v", err)
	}
}

func seedHistory(t *testing.T, f *fixture) *Mother {
	t.Helper()
	m := registerAma(t, f)
	ctx := context.Background()
	fac := uuid.New()
	f.mothers.facilities[fac] = "Korle Bu Polyclinic"
	m.FacilityID = &fac
	f.mothers.records[m.ID].FacilityID = &fac

	for _, v := range []*Visit{
		{MotherID: m.ID, FacilityID: fac, VisitType: "Antenatal", VisitDate: day("2024-03-01")},
		{MotherID: m.ID, FacilityID: fac, VisitType: "Antenatal", VisitDate: day("2024-05-01"), Notes: strPtr("BP normal")},
		{MotherID: m.ID, FacilityID: fac, VisitType: "Postnatal", VisitDate: day("2024-07-12")},
	} {
		if err := f.svc.RecordVisit(ctx, v); err != nil {
			t.Fatal(err)
		}
	}
	d := &Delivery{MotherID: m.ID, FacilityID: fac, DeliveryDate: day("2024-07-01"), Outcome: "Live birth"}
	if err := f.svc.RecordDelivery(ctx, d); err != nil {
		t.Fatal(err)
	}
	next := day("2024-04-01")
	f.activity.byMother[m.ID] = []FormActivity{
		{EntryID: uuid.New(), FormID: uuid.New(), FormTitle: "ANC Visit", CreatedAt: day("2024-03-15"), NextVisitDate: &next},
	}
	return m
}

func TestTimeline(t *testing.T) {
	f := newFixture()
	m := seedHistory(t, f)

	events, err := f.svc.Timeline(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Postnatal Visit", "Delivery", "Antenatal Visit", "Form Filled: ANC Visit", "Antenatal Visit"}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(events))
	}
	for i, w := range want {
		if events[i].Title != w {
			t.Errorf("event %d: expected %q, got %q", i, w, events[i].Title)
		}
	}
	if events[2].Description != "BP normal" {
		t.Errorf("visit notes should be the description, got %q", events[2].Description)
	}
}

func TestTimeline_UnknownMother(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Timeline(context.Background(), uuid.New()); !errors.Is(err, ErrMotherNotFound) {
		t.Errorf("expected ErrMotherNotFound, got %v", err)
	}
}

func TestTimeline_ActivityFailure(t *testing.T) {
	f := newFixture()
	m := registerAma(t, f)
	f.activity.err = errStorageDown
	if _, err := f.svc.Timeline(context.Background(), m.ID); !errors.Is(err, errStorageDown) {
		t.Errorf("expected wrapped storage error, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	f := newFixture()
	m := seedHistory(t, f)
	s, err := f.svc.Summary(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.AntenatalVisits != 2 || s.PostnatalVisits != 1 || s.Deliveries != 1 || s.FormsFilled != 1 {
		t.Errorf("unexpected counts %+v", s)
	}
	if s.Stage != StagePostnatal {
		t.Errorf("expected postnatal, got %s", s.Stage)
	}
}

func TestExport(t *testing.T) {
	f := newFixture()
	m := seedHistory(t, f)
	var buf bytes.Buffer
	name, err := f.svc.Export(context.Background(), m.ID, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Ama_Mensah_data_2024-07-15.csv" {
		t.Errorf("unexpected file name %q", name)
	}
	out := buf.String()
	for _, want := range []string{
		"Full Name,Ama Mensah",
		"Facility,Korle Bu Polyclinic",
		"NHIS Number,N/A",
		"Antenatal Visits,2",
		"2024-03-15,form,Form Filled: ANC Visit,A ANC Visit form was completed,2024-04-01",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "2024-03-01,visit") > strings.Index(out, "2024-07-12,visit") {
		t.Error("export timeline should be chronological")
	}
}
