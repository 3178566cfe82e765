package forms

import (
	"context"
	"encoding/json"
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

// =========== Form Store ===========

type formStorePG struct{ pool *pgxpool.Pool }

func NewFormStorePG(pool *pgxpool.Pool) FormStore {
	return &formStorePG{pool: pool}
}

const formCols = `id, title, slug, fields, created_by, created_at, updated_at`

func (r *formStorePG) scanForm(row pgx.Row) (*FormSchema, error) {
	var f FormSchema
	var raw []byte
	if err := row.Scan(&f.ID, &f.Title, &f.Slug, &raw, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	fields, err := decodeFields(raw)
	if err != nil {
		return nil, fmt.Errorf("form %s: %w", f.ID, err)
	}
	f.Fields = fields
	return &f, nil
}

func (r *formStorePG) Save(ctx context.Context, in *NewForm) (*FormSchema, error) {
	raw, err := encodeFields(in.Fields)
	if err != nil {
		return nil, err
	}
	f := &FormSchema{
		ID:        uuid.New(),
		Title:     in.Title,
		Slug:      in.Slug,
		Fields:    cloneFields(in.Fields),
		CreatedBy: strPtr(in.CreatedBy),
	}
	err = conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO forms (id, title, slug, fields, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		f.ID, f.Title, f.Slug, raw, f.CreatedBy).Scan(&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *formStorePG) Get(ctx context.Context, id uuid.UUID) (*FormSchema, error) {
	return r.scanForm(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+formCols+` FROM forms WHERE id = $1`, id))
}

const foreignKeyViolation = "23503"

func (r *formStorePG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM forms WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return ErrFormInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFormNotFound
	}
	return nil
}

func (r *formStorePG) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM forms WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

func (r *formStorePG) List(ctx context.Context, limit, offset int) ([]*FormSchema, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM forms`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+formCols+` FROM forms ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*FormSchema
	for rows.Next() {
		f, err := r.scanForm(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, f)
	}
	return items, total, rows.Err()
}

// =========== Entry Store ===========

type entryStorePG struct{ pool *pgxpool.Pool }

func NewEntryStorePG(pool *pgxpool.Pool) EntryStore {
	return &entryStorePG{pool: pool}
}

const entryCols = `id, form_id, mother_id, data, next_visit_date, created_by, created_at`

const entryOrder = ` ORDER BY created_at DESC, seq DESC`

func (r *entryStorePG) scanEntry(row pgx.Row) (*FormEntry, error) {
	var e FormEntry
	var motherID uuid.UUID
	var raw []byte
	if err := row.Scan(&e.ID, &e.FormID, &motherID, &raw, &e.NextVisitDate, &e.CreatedBy, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	e.MotherID = motherID.String()
	if err := json.Unmarshal(raw, &e.Data); err != nil {
		return nil, fmt.Errorf("entry %s data: %w", e.ID, err)
	}
	return &e, nil
}

func (r *entryStorePG) Save(ctx context.Context, in *NewEntry) (*FormEntry, error) {
	motherID, err := uuid.Parse(in.MotherID)
	if err != nil {
		return nil, fmt.Errorf("mother id %q is not a valid id", in.MotherID)
	}
	raw, err := json.Marshal(in.Data)
	if err != nil {
		return nil, fmt.Errorf("encode entry data: %w", err)
	}
	e := &FormEntry{
		ID:            uuid.New(),
		FormID:        in.FormID,
		MotherID:      motherID.String(),
		Data:          in.Data.Clone(),
		NextVisitDate: in.NextVisitDate,
		CreatedBy:     strPtr(in.CreatedBy),
	}
	err = conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO form_entries (id, form_id, mother_id, data, next_visit_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		e.ID, e.FormID, motherID, raw, e.NextVisitDate, e.CreatedBy).Scan(&e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *entryStorePG) Get(ctx context.Context, id uuid.UUID) (*FormEntry, error) {
	return r.scanEntry(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+entryCols+` FROM form_entries WHERE id = $1`, id))
}

func (r *entryStorePG) ListByMother(ctx context.Context, motherID string) ([]*FormEntry, error) {
	id, err := uuid.Parse(motherID)
	if err != nil {
		return nil, nil
	}
	return r.query(ctx, `SELECT `+entryCols+` FROM form_entries WHERE mother_id = $1`+entryOrder, id)
}

func (r *entryStorePG) List(ctx context.Context, f EntryFilter, limit, offset int) ([]*FormEntry, int, error) {
	var where []string
	var args []interface{}
	if f.MotherID != "" {
		id, err := uuid.Parse(f.MotherID)
		if err != nil {
			return nil, 0, nil
		}
		args = append(args, id)
		where = append(where, fmt.Sprintf("mother_id = $%d", len(args)))
	}
	if f.FormID != uuid.Nil {
		args = append(args, f.FormID)
		where = append(where, fmt.Sprintf("form_id = $%d", len(args)))
	}
	if f.CreatedBy != "" {
		args = append(args, f.CreatedBy)
		where = append(where, fmt.Sprintf("created_by = $%d", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM form_entries`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	args = append(args, limit, offset)
	items, err := r.query(ctx,
		`SELECT `+entryCols+` FROM form_entries`+clause+entryOrder+fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2),
		args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *entryStorePG) query(ctx context.Context, sql string, args ...interface{}) ([]*FormEntry, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*FormEntry
	for rows.Next() {
		e, err := r.scanEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}
