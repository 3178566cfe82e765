package admin

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type mockDistrictRepo struct {
	records map[uuid.UUID]*District
}

func newMockDistrictRepo() *mockDistrictRepo {
	return &mockDistrictRepo{records: make(map[uuid.UUID]*District)}
}

func (m *mockDistrictRepo) Create(_ context.Context, d *District) error {
	for _, r := range m.records {
		if r.DistrictCode == d.DistrictCode {
			return ErrDuplicateCode
		}
	}
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	m.records[d.ID] = d
	return nil
}

func (m *mockDistrictRepo) GetByID(_ context.Context, id uuid.UUID) (*District, error) {
	d, ok := m.records[id]
	if !ok {
		return nil, ErrDistrictNotFound
	}
	return d, nil
}

func (m *mockDistrictRepo) Update(_ context.Context, d *District) error {
	if _, ok := m.records[d.ID]; !ok {
		return ErrDistrictNotFound
	}
	m.records[d.ID] = d
	return nil
}

func (m *mockDistrictRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.records[id]; !ok {
		return ErrDistrictNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *mockDistrictRepo) List(_ context.Context, limit, offset int) ([]*District, int, error) {
	var result []*District
	for _, d := range m.records {
		result = append(result, d)
	}
	return result, len(result), nil
}

type mockFacilityRepo struct {
	records map[uuid.UUID]*Facility
}

func newMockFacilityRepo() *mockFacilityRepo {
	return &mockFacilityRepo{records: make(map[uuid.UUID]*Facility)}
}

func (m *mockFacilityRepo) Create(_ context.Context, f *Facility) error {
	f.ID = uuid.New()
	f.CreatedAt = time.Now()
	m.records[f.ID] = f
	return nil
}

func (m *mockFacilityRepo) GetByID(_ context.Context, id uuid.UUID) (*Facility, error) {
	f, ok := m.records[id]
	if !ok {
		return nil, ErrFacilityNotFound
	}
	return f, nil
}

func (m *mockFacilityRepo) Update(_ context.Context, f *Facility) error {
	if _, ok := m.records[f.ID]; !ok {
		return ErrFacilityNotFound
	}
	m.records[f.ID] = f
	return nil
}

func (m *mockFacilityRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.records[id]; !ok {
		return ErrFacilityNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *mockFacilityRepo) List(_ context.Context, f FacilityFilter, limit, offset int) ([]*Facility, int, error) {
	var result []*Facility
	for _, r := range m.records {
		if f.DistrictID == uuid.Nil || r.DistrictID == f.DistrictID {
			result = append(result, r)
		}
	}
	return result, len(result), nil
}

type mockProfileRepo struct {
	records map[string]*Profile
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{records: make(map[string]*Profile)}
}

func (m *mockProfileRepo) Create(_ context.Context, p *Profile) error {
	if _, ok := m.records[p.ID]; ok {
		return ErrDuplicateCode
	}
	p.CreatedAt = time.Now()
	m.records[p.ID] = p
	return nil
}

func (m *mockProfileRepo) GetByID(_ context.Context, id string) (*Profile, error) {
	p, ok := m.records[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

func (m *mockProfileRepo) Update(_ context.Context, p *Profile) error {
	if _, ok := m.records[p.ID]; !ok {
		return ErrProfileNotFound
	}
	m.records[p.ID] = p
	return nil
}

func (m *mockProfileRepo) List(_ context.Context, f ProfileFilter, limit, offset int) ([]*Profile, int, error) {
	var result []*Profile
	for _, p := range m.records {
		if f.Role != "" && p.Role != f.Role {
			continue
		}
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		result = append(result, p)
	}
	return result, len(result), nil
}

type fixture struct {
	svc        *Service
	districts  *mockDistrictRepo
	facilities *mockFacilityRepo
	profiles   *mockProfileRepo
}

func newFixture() *fixture {
	f := &fixture{
		districts:  newMockDistrictRepo(),
		facilities: newMockFacilityRepo(),
		profiles:   newMockProfileRepo(),
	}
	f.svc = NewService(f.districts, f.facilities, f.profiles)
	return f
}

func ptr[T any](v T) *T { return &v }
