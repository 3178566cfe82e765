package mothers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// registrationAttempts bounds retries when a generated registration number collides.
const registrationAttempts = 3

type Service struct {
	mothers    MotherRepository
	visits     VisitRepository
	deliveries DeliveryRepository
	activity   FormActivityRepository
	session    SessionContext
	now        func() time.Time
	intn       func(n int) int
}

func NewService(
	mothers MotherRepository,
	visits VisitRepository,
	deliveries DeliveryRepository,
	activity FormActivityRepository,
	session SessionContext,
) *Service {
	return &Service{
		mothers:    mothers,
		visits:     visits,
		deliveries: deliveries,
		activity:   activity,
		session:    session,
		now:        time.Now,
		intn:       rand.Intn,
	}
}

// GenerateRegistrationNumber returns a number of the form MCH-YYYY-NNNNN.
func GenerateRegistrationNumber(now time.Time, intn func(n int) int) string {
	return fmt.Sprintf("MCH-%d-%05d", now.Year(), 10000+intn(90000))
}

// -- Mothers --

func validateMother(m *Mother) error {
	m.FullName = strings.TrimSpace(m.FullName)
	m.RegistrationNumber = strings.TrimSpace(m.RegistrationNumber)
	if len(m.FullName) < 2 {
		return fmt.Errorf("%w: full_name must be at least 2 characters", ErrInvalid)
	}
	m.GhanaCardNumber = trimPtr(m.GhanaCardNumber)
	m.NHISNumber = trimPtr(m.NHISNumber)
	m.PhoneNumber = trimPtr(m.PhoneNumber)
	m.PreferredLanguage = trimPtr(m.PreferredLanguage)
	m.CommunicationChannel = trimPtr(m.CommunicationChannel)
	if m.CommunicationChannel != nil {
		ch, ok := normalizeChannel(*m.CommunicationChannel)
		if !ok {
			return fmt.Errorf("%w: communication_channel must be one of %s", ErrInvalid, strings.Join(validChannels, ", "))
		}
		m.CommunicationChannel = &ch
	}
	return nil
}

// RegisterMother stores a new mother. A blank registration number is generated.
func (s *Service) RegisterMother(ctx context.Context, m *Mother) error {
	if err := validateMother(m); err != nil {
		return err
	}
	generated := m.RegistrationNumber == ""
	if !generated && len(m.RegistrationNumber) < 2 {
		return fmt.Errorf("%w: registration_number is required", ErrInvalid)
	}
	m.RegisteredBy = nil
	if uid, ok := s.session.CurrentActorID(ctx); ok {
		m.RegisteredBy = &uid
	}

	var err error
	for attempt := 0; attempt < registrationAttempts; attempt++ {
		if generated {
			m.RegistrationNumber = GenerateRegistrationNumber(s.now(), s.intn)
		}
		err = s.mothers.Create(ctx, m)
		if !generated || !errors.Is(err, ErrDuplicateRegistration) {
			break
		}
	}
	if err != nil {
		if !errors.Is(err, ErrDuplicateRegistration) {
			zerolog.Ctx(ctx).Error().Err(err).Msg("mother registration failed")
		}
		return err
	}
	zerolog.Ctx(ctx).Info().
		Str("mother_id", m.ID.String()).
		Str("registration_number", m.RegistrationNumber).
		Msg("mother registered")
	return nil
}

func (s *Service) GetMother(ctx context.Context, id uuid.UUID) (*Mother, error) {
	return s.mothers.GetByID(ctx, id)
}

// UpdateMother replaces the editable fields of an existing mother.
func (s *Service) UpdateMother(ctx context.Context, m *Mother) error {
	if err := validateMother(m); err != nil {
		return err
	}
	if len(m.RegistrationNumber) < 2 {
		return fmt.Errorf("%w: registration_number is required", ErrInvalid)
	}
	return s.mothers.Update(ctx, m)
}

func (s *Service) ListMothers(ctx context.Context, f MotherFilter, limit, offset int) ([]*Mother, int, error) {
	return s.mothers.List(ctx, f, limit, offset)
}

// SubjectExists reports whether id names a registered mother. Ids that are
// not UUIDs name nobody.
func (s *Service) SubjectExists(ctx context.Context, id string) (bool, error) {
	mid, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}
	if _, err := s.mothers.GetByID(ctx, mid); err != nil {
		if errors.Is(err, ErrMotherNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// -- Visits --

func validateVisit(v *Visit) error {
	v.VisitType = strings.TrimSpace(v.VisitType)
	if v.FacilityID == uuid.Nil {
		return fmt.Errorf("%w: facility_id is required", ErrInvalid)
	}
	if v.VisitType == "" {
		return fmt.Errorf("%w: visit_type is required", ErrInvalid)
	}
	v.Notes = trimPtr(v.Notes)
	return nil
}

func (s *Service) RecordVisit(ctx context.Context, v *Visit) error {
	if _, err := s.mothers.GetByID(ctx, v.MotherID); err != nil {
		return err
	}
	if err := validateVisit(v); err != nil {
		return err
	}
	if v.VisitDate.IsZero() {
		v.VisitDate = dateOf(s.now())
	}
	if uid, ok := s.session.CurrentActorID(ctx); ok {
		v.MidwifeID = &uid
	}
	return s.visits.Create(ctx, v)
}

func (s *Service) GetVisit(ctx context.Context, id uuid.UUID) (*Visit, error) {
	return s.visits.GetByID(ctx, id)
}

func (s *Service) UpdateVisit(ctx context.Context, v *Visit) error {
	if err := validateVisit(v); err != nil {
		return err
	}
	if v.VisitDate.IsZero() {
		return fmt.Errorf("%w: visit_date is required", ErrInvalid)
	}
	return s.visits.Update(ctx, v)
}

func (s *Service) DeleteVisit(ctx context.Context, id uuid.UUID) error {
	return s.visits.Delete(ctx, id)
}

func (s *Service) ListVisits(ctx context.Context, motherID uuid.UUID) ([]*Visit, error) {
	return s.visits.ListByMother(ctx, motherID)
}

// -- Deliveries --

func validateDelivery(d *Delivery) error {
	d.Outcome = strings.TrimSpace(d.Outcome)
	if d.FacilityID == uuid.Nil {
		return fmt.Errorf("%w: facility_id is required", ErrInvalid)
	}
	if d.DeliveryDate.IsZero() {
		return fmt.Errorf("%w: delivery_date is required", ErrInvalid)
	}
	if d.Outcome == "" {
		return fmt.Errorf("%w: outcome is required", ErrInvalid)
	}
	d.Notes = trimPtr(d.Notes)
	return nil
}

func (s *Service) RecordDelivery(ctx context.Context, d *Delivery) error {
	if _, err := s.mothers.GetByID(ctx, d.MotherID); err != nil {
		return err
	}
	if err := validateDelivery(d); err != nil {
		return err
	}
	if uid, ok := s.session.CurrentActorID(ctx); ok {
		d.MidwifeID = &uid
	}
	return s.deliveries.Create(ctx, d)
}

func (s *Service) GetDelivery(ctx context.Context, id uuid.UUID) (*Delivery, error) {
	return s.deliveries.GetByID(ctx, id)
}

func (s *Service) UpdateDelivery(ctx context.Context, d *Delivery) error {
	if err := validateDelivery(d); err != nil {
		return err
	}
	return s.deliveries.Update(ctx, d)
}

func (s *Service) DeleteDelivery(ctx context.Context, id uuid.UUID) error {
	return s.deliveries.Delete(ctx, id)
}

func (s *Service) ListDeliveries(ctx context.Context, motherID uuid.UUID) ([]*Delivery, error) {
	return s.deliveries.ListByMother(ctx, motherID)
}

// -- History --

type history struct {
	mother     *Mother
	forms      []FormActivity
	visits     []*Visit
	deliveries []*Delivery
}

func (s *Service) loadHistory(ctx context.Context, motherID uuid.UUID) (*history, error) {
	m, err := s.mothers.GetByID(ctx, motherID)
	if err != nil {
		return nil, err
	}
	h := &history{mother: m}
	if h.forms, err = s.activity.ListByMother(ctx, motherID); err != nil {
		return nil, fmt.Errorf("list form entries: %w", err)
	}
	if h.visits, err = s.visits.ListByMother(ctx, motherID); err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	if h.deliveries, err = s.deliveries.ListByMother(ctx, motherID); err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	return h, nil
}

// Timeline returns the mother's form entries, visits and deliveries, newest first.
func (s *Service) Timeline(ctx context.Context, motherID uuid.UUID) ([]TimelineEvent, error) {
	h, err := s.loadHistory(ctx, motherID)
	if err != nil {
		return nil, err
	}
	return BuildTimeline(h.forms, h.visits, h.deliveries), nil
}

func (s *Service) Summary(ctx context.Context, motherID uuid.UUID) (Summary, error) {
	h, err := s.loadHistory(ctx, motherID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(motherID, h.visits, h.deliveries, h.forms), nil
}

// Export writes the mother's record and timeline as CSV to w and returns the
// suggested file name.
func (s *Service) Export(ctx context.Context, motherID uuid.UUID, w io.Writer) (string, error) {
	h, err := s.loadHistory(ctx, motherID)
	if err != nil {
		return "", err
	}
	var facility string
	if h.mother.FacilityID != nil {
		if facility, err = s.mothers.FacilityName(ctx, *h.mother.FacilityID); err != nil {
			return "", fmt.Errorf("facility name: %w", err)
		}
	}
	summary := Summarize(motherID, h.visits, h.deliveries, h.forms)
	events := BuildTimeline(h.forms, h.visits, h.deliveries)
	if err := WriteCSV(w, h.mother, facility, summary, events); err != nil {
		return "", err
	}
	return ExportFileName(h.mother, s.now()), nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
