package admin

import (
	"context"

	"github.com/google/uuid"
)

// DistrictRepository persists districts, ordered by name in listings.
type DistrictRepository interface {
	Create(ctx context.Context, d *District) error
	GetByID(ctx context.Context, id uuid.UUID) (*District, error)
	Update(ctx context.Context, d *District) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*District, int, error)
}

// FacilityRepository persists facilities, ordered by name in listings.
type FacilityRepository interface {
	Create(ctx context.Context, f *Facility) error
	GetByID(ctx context.Context, id uuid.UUID) (*Facility, error)
	Update(ctx context.Context, f *Facility) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f FacilityFilter, limit, offset int) ([]*Facility, int, error)
}

// ProfileRepository persists personnel profiles.
type ProfileRepository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
	List(ctx context.Context, f ProfileFilter, limit, offset int) ([]*Profile, int, error)
}
