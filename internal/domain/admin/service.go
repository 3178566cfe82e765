package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mochcare/mochcare/internal/platform/auth"
)

type Service struct {
	districts  DistrictRepository
	facilities FacilityRepository
	profiles   ProfileRepository
}

func NewService(districts DistrictRepository, facilities FacilityRepository, profiles ProfileRepository) *Service {
	return &Service{districts: districts, facilities: facilities, profiles: profiles}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// -- District --

func validateDistrict(d *District) error {
	d.Name = strings.TrimSpace(d.Name)
	d.DistrictCode = strings.TrimSpace(d.DistrictCode)
	if d.Name == "" {
		return invalid("name is required")
	}
	if d.DistrictCode == "" {
		return invalid("district_code is required")
	}
	if !d.Region.Valid() {
		return invalid("please select a region")
	}
	return nil
}

func (s *Service) CreateDistrict(ctx context.Context, d *District) error {
	if err := validateDistrict(d); err != nil {
		return err
	}
	return s.districts.Create(ctx, d)
}

func (s *Service) GetDistrict(ctx context.Context, id uuid.UUID) (*District, error) {
	return s.districts.GetByID(ctx, id)
}

func (s *Service) UpdateDistrict(ctx context.Context, d *District) error {
	if err := validateDistrict(d); err != nil {
		return err
	}
	return s.districts.Update(ctx, d)
}

func (s *Service) DeleteDistrict(ctx context.Context, id uuid.UUID) error {
	return s.districts.Delete(ctx, id)
}

func (s *Service) ListDistricts(ctx context.Context, limit, offset int) ([]*District, int, error) {
	return s.districts.List(ctx, limit, offset)
}

// -- Facility --

func (s *Service) validateFacility(ctx context.Context, f *Facility) error {
	f.Name = strings.TrimSpace(f.Name)
	f.FacilityCode = strings.TrimSpace(f.FacilityCode)
	f.Location = strings.TrimSpace(f.Location)
	switch {
	case len(f.Name) < 3:
		return invalid("name must be at least 3 characters")
	case len(f.FacilityCode) < 3:
		return invalid("facility code must be at least 3 characters")
	case len(f.Location) < 3:
		return invalid("location must be at least 3 characters")
	case !f.Type.Valid():
		return invalid("unknown facility type %q", f.Type)
	case f.Latitude != nil && (*f.Latitude < -90 || *f.Latitude > 90):
		return invalid("latitude must be between -90 and 90")
	case f.Longitude != nil && (*f.Longitude < -180 || *f.Longitude > 180):
		return invalid("longitude must be between -180 and 180")
	case f.DistrictID == uuid.Nil:
		return invalid("please select a district")
	}
	if _, err := s.districts.GetByID(ctx, f.DistrictID); err != nil {
		if errors.Is(err, ErrDistrictNotFound) {
			return invalid("district %s does not exist", f.DistrictID)
		}
		return err
	}
	return nil
}

func (s *Service) CreateFacility(ctx context.Context, f *Facility) error {
	if err := s.validateFacility(ctx, f); err != nil {
		return err
	}
	return s.facilities.Create(ctx, f)
}

func (s *Service) GetFacility(ctx context.Context, id uuid.UUID) (*Facility, error) {
	return s.facilities.GetByID(ctx, id)
}

func (s *Service) UpdateFacility(ctx context.Context, f *Facility) error {
	if err := s.validateFacility(ctx, f); err != nil {
		return err
	}
	return s.facilities.Update(ctx, f)
}

func (s *Service) DeleteFacility(ctx context.Context, id uuid.UUID) error {
	return s.facilities.Delete(ctx, id)
}

func (s *Service) ListFacilities(ctx context.Context, f FacilityFilter, limit, offset int) ([]*Facility, int, error) {
	return s.facilities.List(ctx, f, limit, offset)
}

// -- Personnel --

var validRoles = map[string]bool{
	auth.RoleAdmin: true, auth.RoleMidwife: true, auth.RoleSupervisor: true,
}

func (s *Service) validateProfile(ctx context.Context, p *Profile) error {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		return invalid("id is required")
	}
	if p.FullName == nil || len(strings.TrimSpace(*p.FullName)) < 3 {
		return invalid("full name must be at least 3 characters")
	}
	name := strings.TrimSpace(*p.FullName)
	p.FullName = &name
	if p.Role == "" {
		p.Role = auth.RoleMidwife
	}
	if !validRoles[p.Role] {
		return invalid("unknown role %q", p.Role)
	}
	if p.FacilityID != nil {
		if _, err := s.facilities.GetByID(ctx, *p.FacilityID); err != nil {
			if errors.Is(err, ErrFacilityNotFound) {
				return invalid("facility %s does not exist", *p.FacilityID)
			}
			return err
		}
	}
	return nil
}

// CreateProfile registers personnel for a subject already known to the
// identity provider. New profiles are active.
func (s *Service) CreateProfile(ctx context.Context, p *Profile) error {
	if err := s.validateProfile(ctx, p); err != nil {
		return err
	}
	p.IsActive = true
	if err := s.profiles.Create(ctx, p); err != nil {
		if errors.Is(err, ErrDuplicateCode) {
			return fmt.Errorf("profile %s already exists: %w", p.ID, err)
		}
		return err
	}
	zerolog.Ctx(ctx).Info().Str("profile_id", p.ID).Str("role", p.Role).Msg("personnel created")
	return nil
}

func (s *Service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, p *Profile) error {
	if err := s.validateProfile(ctx, p); err != nil {
		return err
	}
	return s.profiles.Update(ctx, p)
}

func (s *Service) ListProfiles(ctx context.Context, f ProfileFilter, limit, offset int) ([]*Profile, int, error) {
	if f.Role != "" && !validRoles[f.Role] {
		return nil, 0, invalid("unknown role %q", f.Role)
	}
	return s.profiles.List(ctx, f, limit, offset)
}
