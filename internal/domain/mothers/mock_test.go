package mothers

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var errStorageDown = errors.New("connection refused")

type mockMotherRepo struct {
	records    map[uuid.UUID]*Mother
	facilities map[uuid.UUID]string
	createErr  error
	creates    int
}

func newMockMotherRepo() *mockMotherRepo {
	return &mockMotherRepo{records: make(map[uuid.UUID]*Mother), facilities: make(map[uuid.UUID]string)}
}

func (m *mockMotherRepo) Create(_ context.Context, in *Mother) error {
	m.creates++
	if m.createErr != nil {
		return m.createErr
	}
	for _, r := range m.records {
		if r.RegistrationNumber == in.RegistrationNumber {
			return ErrDuplicateRegistration
		}
	}
	in.ID = uuid.New()
	in.CreatedAt = time.Now()
	in.UpdatedAt = in.CreatedAt
	c := *in
	m.records[in.ID] = &c
	return nil
}

func (m *mockMotherRepo) GetByID(_ context.Context, id uuid.UUID) (*Mother, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, ErrMotherNotFound
	}
	c := *r
	return &c, nil
}

func (m *mockMotherRepo) Update(_ context.Context, in *Mother) error {
	r, ok := m.records[in.ID]
	if !ok {
		return ErrMotherNotFound
	}
	in.CreatedAt = r.CreatedAt
	in.RegisteredBy = r.RegisteredBy
	c := *in
	m.records[in.ID] = &c
	return nil
}

func (m *mockMotherRepo) List(_ context.Context, f MotherFilter, limit, offset int) ([]*Mother, int, error) {
	q := strings.ToLower(f.Query)
	var result []*Mother
	for _, r := range m.records {
		if q != "" && !strings.Contains(strings.ToLower(r.FullName), q) {
			continue
		}
		if f.RegisteredBy != "" && (r.RegisteredBy == nil || *r.RegisteredBy != f.RegisteredBy) {
			continue
		}
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].FullName) < strings.ToLower(result[j].FullName)
	})
	return result, len(result), nil
}

func (m *mockMotherRepo) FacilityName(_ context.Context, id uuid.UUID) (string, error) {
	return m.facilities[id], nil
}

type mockVisitRepo struct {
	records map[uuid.UUID]*Visit
}

func newMockVisitRepo() *mockVisitRepo {
	return &mockVisitRepo{records: make(map[uuid.UUID]*Visit)}
}

func (m *mockVisitRepo) Create(_ context.Context, v *Visit) error {
	v.ID = uuid.New()
	v.CreatedAt = time.Now()
	m.records[v.ID] = v
	return nil
}

func (m *mockVisitRepo) GetByID(_ context.Context, id uuid.UUID) (*Visit, error) {
	v, ok := m.records[id]
	if !ok {
		return nil, ErrVisitNotFound
	}
	return v, nil
}

func (m *mockVisitRepo) Update(_ context.Context, v *Visit) error {
	old, ok := m.records[v.ID]
	if !ok {
		return ErrVisitNotFound
	}
	v.MotherID = old.MotherID
	m.records[v.ID] = v
	return nil
}

func (m *mockVisitRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.records[id]; !ok {
		return ErrVisitNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *mockVisitRepo) ListByMother(_ context.Context, motherID uuid.UUID) ([]*Visit, error) {
	var result []*Visit
	for _, v := range m.records {
		if v.MotherID == motherID {
			result = append(result, v)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].VisitDate.After(result[j].VisitDate) })
	return result, nil
}

type mockDeliveryRepo struct {
	records map[uuid.UUID]*Delivery
}

func newMockDeliveryRepo() *mockDeliveryRepo {
	return &mockDeliveryRepo{records: make(map[uuid.UUID]*Delivery)}
}

func (m *mockDeliveryRepo) Create(_ context.Context, d *Delivery) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	m.records[d.ID] = d
	return nil
}

func (m *mockDeliveryRepo) GetByID(_ context.Context, id uuid.UUID) (*Delivery, error) {
	d, ok := m.records[id]
	if !ok {
		return nil, ErrDeliveryNotFound
	}
	return d, nil
}

func (m *mockDeliveryRepo) Update(_ context.Context, d *Delivery) error {
	old, ok := m.records[d.ID]
	if !ok {
		return ErrDeliveryNotFound
	}
	d.MotherID = old.MotherID
	m.records[d.ID] = d
	return nil
}

func (m *mockDeliveryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.records[id]; !ok {
		return ErrDeliveryNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *mockDeliveryRepo) ListByMother(_ context.Context, motherID uuid.UUID) ([]*Delivery, error) {
	var result []*Delivery
	for _, d := range m.records {
		if d.MotherID == motherID {
			result = append(result, d)
		}
	}
	return result, nil
}

type mockActivityRepo struct {
	byMother map[uuid.UUID][]FormActivity
	err      error
}

func (m *mockActivityRepo) ListByMother(_ context.Context, motherID uuid.UUID) ([]FormActivity, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byMother[motherID], nil
}

type fakeSession struct{ id string }

func (s fakeSession) CurrentActorID(context.Context) (string, bool) { return s.id, s.id != "" }

type fixture struct {
	svc        *Service
	mothers    *mockMotherRepo
	visits     *mockVisitRepo
	deliveries *mockDeliveryRepo
	activity   *mockActivityRepo
}

func newFixture() *fixture {
	f := &fixture{
		mothers:    newMockMotherRepo(),
		visits:     newMockVisitRepo(),
		deliveries: newMockDeliveryRepo(),
		activity:   &mockActivityRepo{byMother: make(map[uuid.UUID][]FormActivity)},
	}
	f.svc = NewService(f.mothers, f.visits, f.deliveries, f.activity, fakeSession{id: "midwife-1"})
	f.svc.now = func() time.Time { return time.Date(2024, 7, 15, 9, 30, 0, 0, time.UTC) }
	f.svc.intn = func(int) int { return 2345 }
	return f
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}
