package admin

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

// mapPgError translates constraint violations into domain errors.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicateCode
		case "23503":
			return ErrInUse
		}
	}
	return err
}

func mustAffect(tag pgconn.CommandTag, err error, notFound error) error {
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

// =========== District Repository ===========

type districtRepoPG struct{ pool *pgxpool.Pool }

func NewDistrictRepoPG(pool *pgxpool.Pool) DistrictRepository {
	return &districtRepoPG{pool: pool}
}

const districtCols = `id, name, district_code, region::text, created_at, updated_at`

func (r *districtRepoPG) scanDistrict(row pgx.Row) (*District, error) {
	var d District
	var region string
	err := row.Scan(&d.ID, &d.Name, &d.DistrictCode, &region, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDistrictNotFound
	}
	d.Region = Region(region)
	return &d, err
}

func (r *districtRepoPG) Create(ctx context.Context, d *District) error {
	d.ID = uuid.New()
	err := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO districts (id, name, district_code, region)
		VALUES ($1, $2, $3, $4::text::ghana_region)
		RETURNING created_at, updated_at`,
		d.ID, d.Name, d.DistrictCode, string(d.Region),
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	return mapPgError(err)
}

func (r *districtRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*District, error) {
	return r.scanDistrict(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+districtCols+` FROM districts WHERE id = $1`, id))
}

func (r *districtRepoPG) Update(ctx context.Context, d *District) error {
	err := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE districts SET name=$2, district_code=$3, region=$4::text::ghana_region, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		d.ID, d.Name, d.DistrictCode, string(d.Region),
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDistrictNotFound
	}
	return mapPgError(err)
}

func (r *districtRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM districts WHERE id = $1`, id)
	return mustAffect(tag, err, ErrDistrictNotFound)
}

func (r *districtRepoPG) List(ctx context.Context, limit, offset int) ([]*District, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM districts`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+districtCols+` FROM districts ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*District
	for rows.Next() {
		d, err := r.scanDistrict(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

// =========== Facility Repository ===========

type facilityRepoPG struct{ pool *pgxpool.Pool }

func NewFacilityRepoPG(pool *pgxpool.Pool) FacilityRepository {
	return &facilityRepoPG{pool: pool}
}

const facilityCols = `id, district_id, name, facility_code, type::text, location, latitude, longitude,
	created_at, updated_at`

func (r *facilityRepoPG) scanFacility(row pgx.Row) (*Facility, error) {
	var f Facility
	var typ string
	err := row.Scan(&f.ID, &f.DistrictID, &f.Name, &f.FacilityCode, &typ, &f.Location, &f.Latitude, &f.Longitude,
		&f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFacilityNotFound
	}
	f.Type = FacilityType(typ)
	return &f, err
}

func (r *facilityRepoPG) Create(ctx context.Context, f *Facility) error {
	f.ID = uuid.New()
	err := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO facilities (id, district_id, name, facility_code, type, location, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5::text::facility_type, $6, $7, $8)
		RETURNING created_at, updated_at`,
		f.ID, f.DistrictID, f.Name, f.FacilityCode, string(f.Type), f.Location, f.Latitude, f.Longitude,
	).Scan(&f.CreatedAt, &f.UpdatedAt)
	return mapPgError(err)
}

func (r *facilityRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Facility, error) {
	return r.scanFacility(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+facilityCols+` FROM facilities WHERE id = $1`, id))
}

func (r *facilityRepoPG) Update(ctx context.Context, f *Facility) error {
	err := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE facilities SET district_id=$2, name=$3, facility_code=$4, type=$5::text::facility_type,
			location=$6, latitude=$7, longitude=$8, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		f.ID, f.DistrictID, f.Name, f.FacilityCode, string(f.Type), f.Location, f.Latitude, f.Longitude,
	).Scan(&f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrFacilityNotFound
	}
	return mapPgError(err)
}

func (r *facilityRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM facilities WHERE id = $1`, id)
	return mustAffect(tag, err, ErrFacilityNotFound)
}

func (r *facilityRepoPG) List(ctx context.Context, f FacilityFilter, limit, offset int) ([]*Facility, int, error) {
	clause := ""
	var args []interface{}
	if f.DistrictID != uuid.Nil {
		args = append(args, f.DistrictID)
		clause = " WHERE district_id = $1"
	}
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM facilities`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	args = append(args, limit, offset)
	rows, err := conn(ctx, r.pool).Query(ctx,
		fmt.Sprintf(`SELECT `+facilityCols+` FROM facilities%s ORDER BY name, id LIMIT $%d OFFSET $%d`,
			clause, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Facility
	for rows.Next() {
		fac, err := r.scanFacility(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, fac)
	}
	return items, total, rows.Err()
}

// =========== Profile Repository ===========

type profileRepoPG struct{ pool *pgxpool.Pool }

func NewProfileRepoPG(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepoPG{pool: pool}
}

const profileCols = `id, full_name, phone_number, photo_url, role::text, facility_id, is_active, created_at, updated_at`

func (r *profileRepoPG) scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.FullName, &p.PhoneNumber, &p.PhotoURL, &p.Role, &p.FacilityID, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	return &p, err
}

func (r *profileRepoPG) Create(ctx context.Context, p *Profile) error {
	err := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO profiles (id, full_name, phone_number, photo_url, role, facility_id, is_active)
		VALUES ($1, $2, $3, $4, $5::text::user_role, $6, $7)
		RETURNING created_at, updated_at`,
		p.ID, p.FullName, p.PhoneNumber, p.PhotoURL, p.Role, p.FacilityID, p.IsActive,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return mapPgError(err)
}

func (r *profileRepoPG) GetByID(ctx context.Context, id string) (*Profile, error) {
	return r.scanProfile(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+profileCols+` FROM profiles WHERE id = $1`, id))
}

func (r *profileRepoPG) Update(ctx context.Context, p *Profile) error {
	err := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE profiles SET full_name=$2, phone_number=$3, photo_url=$4, role=$5::text::user_role,
			facility_id=$6, is_active=$7, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		p.ID, p.FullName, p.PhoneNumber, p.PhotoURL, p.Role, p.FacilityID, p.IsActive,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrProfileNotFound
	}
	return mapPgError(err)
}

func (r *profileRepoPG) List(ctx context.Context, f ProfileFilter, limit, offset int) ([]*Profile, int, error) {
	var where []string
	var args []interface{}
	if f.Role != "" {
		args = append(args, f.Role)
		where = append(where, fmt.Sprintf("role = $%d::text::user_role", len(args)))
	}
	if f.FacilityID != uuid.Nil {
		args = append(args, f.FacilityID)
		where = append(where, fmt.Sprintf("facility_id = $%d", len(args)))
	}
	if f.ActiveOnly {
		where = append(where, "is_active")
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM profiles`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	args = append(args, limit, offset)
	rows, err := conn(ctx, r.pool).Query(ctx,
		fmt.Sprintf(`SELECT `+profileCols+` FROM profiles%s ORDER BY full_name NULLS LAST, id LIMIT $%d OFFSET $%d`,
			clause, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Profile
	for rows.Next() {
		p, err := r.scanProfile(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
