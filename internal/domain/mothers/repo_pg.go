package mothers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mochcare/mochcare/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// =========== Mother Repository ===========

type motherRepoPG struct{ pool *pgxpool.Pool }

func NewMotherRepoPG(pool *pgxpool.Pool) MotherRepository {
	return &motherRepoPG{pool: pool}
}

const motherCols = `id, full_name, registration_number, ghana_card_number, nhis_number,
	phone_number, preferred_language, communication_channel, facility_id, registered_by,
	created_at, updated_at`

func (r *motherRepoPG) scanMother(row pgx.Row) (*Mother, error) {
	var m Mother
	err := row.Scan(&m.ID, &m.FullName, &m.RegistrationNumber, &m.GhanaCardNumber, &m.NHISNumber,
		&m.PhoneNumber, &m.PreferredLanguage, &m.CommunicationChannel, &m.FacilityID, &m.RegisteredBy,
		&m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMotherNotFound
	}
	return &m, err
}

func (r *motherRepoPG) Create(ctx context.Context, m *Mother) error {
	m.ID = uuid.New()
	err := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO mothers (id, full_name, registration_number, ghana_card_number, nhis_number,
			phone_number, preferred_language, communication_channel, facility_id, registered_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at`,
		m.ID, m.FullName, m.RegistrationNumber, m.GhanaCardNumber, m.NHISNumber,
		m.PhoneNumber, m.PreferredLanguage, m.CommunicationChannel, m.FacilityID, m.RegisteredBy,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateRegistration
	}
	return err
}

func (r *motherRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Mother, error) {
	return r.scanMother(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+motherCols+` FROM mothers WHERE id = $1`, id))
}

func (r *motherRepoPG) Update(ctx context.Context, m *Mother) error {
	err := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE mothers SET full_name=$2, registration_number=$3, ghana_card_number=$4, nhis_number=$5,
			phone_number=$6, preferred_language=$7, communication_channel=$8, facility_id=$9,
			updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		m.ID, m.FullName, m.RegistrationNumber, m.GhanaCardNumber, m.NHISNumber,
		m.PhoneNumber, m.PreferredLanguage, m.CommunicationChannel, m.FacilityID,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return ErrMotherNotFound
	case isUniqueViolation(err):
		return ErrDuplicateRegistration
	}
	return err
}

func (r *motherRepoPG) List(ctx context.Context, f MotherFilter, limit, offset int) ([]*Mother, int, error) {
	var where []string
	var args []interface{}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+likeEscaper.Replace(q)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(full_name ILIKE $%d OR registration_number ILIKE $%d OR phone_number ILIKE $%d)", n, n, n))
	}
	if f.RegisteredBy != "" {
		args = append(args, f.RegisteredBy)
		where = append(where, fmt.Sprintf("registered_by = $%d", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM mothers`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	args = append(args, limit, offset)
	rows, err := conn(ctx, r.pool).Query(ctx,
		fmt.Sprintf(`SELECT `+motherCols+` FROM mothers%s ORDER BY LOWER(full_name), id LIMIT $%d OFFSET $%d`,
			clause, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Mother
	for rows.Next() {
		m, err := r.scanMother(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, rows.Err()
}

func (r *motherRepoPG) FacilityName(ctx context.Context, facilityID uuid.UUID) (string, error) {
	var name string
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT name FROM facilities WHERE id = $1`, facilityID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return name, err
}

// =========== Visit Repository ===========

type visitRepoPG struct{ pool *pgxpool.Pool }

func NewVisitRepoPG(pool *pgxpool.Pool) VisitRepository {
	return &visitRepoPG{pool: pool}
}

const visitCols = `id, mother_id, facility_id, midwife_id, visit_date, visit_type, notes,
	next_visit_date, created_at`

func (r *visitRepoPG) scanVisit(row pgx.Row) (*Visit, error) {
	var v Visit
	err := row.Scan(&v.ID, &v.MotherID, &v.FacilityID, &v.MidwifeID, &v.VisitDate, &v.VisitType, &v.Notes,
		&v.NextVisitDate, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrVisitNotFound
	}
	return &v, err
}

func (r *visitRepoPG) Create(ctx context.Context, v *Visit) error {
	v.ID = uuid.New()
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO visits (id, mother_id, facility_id, midwife_id, visit_date, visit_type, notes, next_visit_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at`,
		v.ID, v.MotherID, v.FacilityID, v.MidwifeID, v.VisitDate, v.VisitType, v.Notes, v.NextVisitDate,
	).Scan(&v.CreatedAt)
}

func (r *visitRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Visit, error) {
	return r.scanVisit(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+visitCols+` FROM visits WHERE id = $1`, id))
}

func (r *visitRepoPG) Update(ctx context.Context, v *Visit) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE visits SET facility_id=$2, visit_date=$3, visit_type=$4, notes=$5, next_visit_date=$6
		WHERE id = $1`,
		v.ID, v.FacilityID, v.VisitDate, v.VisitType, v.Notes, v.NextVisitDate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVisitNotFound
	}
	return nil
}

func (r *visitRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM visits WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVisitNotFound
	}
	return nil
}

func (r *visitRepoPG) ListByMother(ctx context.Context, motherID uuid.UUID) ([]*Visit, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+visitCols+` FROM visits WHERE mother_id = $1 ORDER BY visit_date DESC, created_at DESC`, motherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Visit
	for rows.Next() {
		v, err := r.scanVisit(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

// =========== Delivery Repository ===========

type deliveryRepoPG struct{ pool *pgxpool.Pool }

func NewDeliveryRepoPG(pool *pgxpool.Pool) DeliveryRepository {
	return &deliveryRepoPG{pool: pool}
}

const deliveryCols = `id, mother_id, facility_id, midwife_id, delivery_date, outcome, notes, created_at`

func (r *deliveryRepoPG) scanDelivery(row pgx.Row) (*Delivery, error) {
	var d Delivery
	err := row.Scan(&d.ID, &d.MotherID, &d.FacilityID, &d.MidwifeID, &d.DeliveryDate, &d.Outcome, &d.Notes, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDeliveryNotFound
	}
	return &d, err
}

func (r *deliveryRepoPG) Create(ctx context.Context, d *Delivery) error {
	d.ID = uuid.New()
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO deliveries (id, mother_id, facility_id, midwife_id, delivery_date, outcome, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at`,
		d.ID, d.MotherID, d.FacilityID, d.MidwifeID, d.DeliveryDate, d.Outcome, d.Notes,
	).Scan(&d.CreatedAt)
}

func (r *deliveryRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Delivery, error) {
	return r.scanDelivery(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+deliveryCols+` FROM deliveries WHERE id = $1`, id))
}

func (r *deliveryRepoPG) Update(ctx context.Context, d *Delivery) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE deliveries SET facility_id=$2, delivery_date=$3, outcome=$4, notes=$5
		WHERE id = $1`,
		d.ID, d.FacilityID, d.DeliveryDate, d.Outcome, d.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDeliveryNotFound
	}
	return nil
}

func (r *deliveryRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM deliveries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDeliveryNotFound
	}
	return nil
}

func (r *deliveryRepoPG) ListByMother(ctx context.Context, motherID uuid.UUID) ([]*Delivery, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+deliveryCols+` FROM deliveries WHERE mother_id = $1 ORDER BY delivery_date DESC, created_at DESC`, motherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Delivery
	for rows.Next() {
		d, err := r.scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
