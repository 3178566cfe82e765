package mothers

import (
	"context"

	"github.com/google/uuid"
)

// MotherRepository persists mothers. Create returns ErrDuplicateRegistration
// when the registration number is taken; GetByID returns ErrMotherNotFound.
type MotherRepository interface {
	Create(ctx context.Context, m *Mother) error
	GetByID(ctx context.Context, id uuid.UUID) (*Mother, error)
	Update(ctx context.Context, m *Mother) error
	List(ctx context.Context, f MotherFilter, limit, offset int) ([]*Mother, int, error)
	FacilityName(ctx context.Context, facilityID uuid.UUID) (string, error)
}

// VisitRepository persists visits. ListByMother is ordered by visit date, newest first.
type VisitRepository interface {
	Create(ctx context.Context, v *Visit) error
	GetByID(ctx context.Context, id uuid.UUID) (*Visit, error)
	Update(ctx context.Context, v *Visit) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByMother(ctx context.Context, motherID uuid.UUID) ([]*Visit, error)
}

// DeliveryRepository persists deliveries. ListByMother is newest first.
type DeliveryRepository interface {
	Create(ctx context.Context, d *Delivery) error
	GetByID(ctx context.Context, id uuid.UUID) (*Delivery, error)
	Update(ctx context.Context, d *Delivery) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByMother(ctx context.Context, motherID uuid.UUID) ([]*Delivery, error)
}

// FormActivityRepository reads the form entries filled for a mother, newest
// first, each titled with its form.
type FormActivityRepository interface {
	ListByMother(ctx context.Context, motherID uuid.UUID) ([]FormActivity, error)
}

// SessionContext identifies the signed-in user.
type SessionContext interface {
	CurrentActorID(ctx context.Context) (string, bool)
}
