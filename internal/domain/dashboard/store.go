package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mochcare/mochcare/internal/platform/db"
)

// Store runs the counting queries behind the dashboards.
type Store interface {
	AdminCounts(ctx context.Context) (AdminStats, error)
	MidwifeCounts(ctx context.Context, actorID string) (mothers, entries int, err error)
	UpcomingVisits(ctx context.Context, actorID string, from, to time.Time) ([]UpcomingVisit, error)
	ActivityDates(ctx context.Context, since time.Time) (visits, deliveries []time.Time, err error)
}

type storePG struct{ pool *pgxpool.Pool }

func NewStorePG(pool *pgxpool.Pool) Store {
	return &storePG{pool: pool}
}

type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (s *storePG) conn(ctx context.Context) rowQuerier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return s.pool
}

const adminCountsSQL = `SELECT
	(SELECT COUNT(*) FROM districts),
	(SELECT COUNT(*) FROM facilities),
	(SELECT COUNT(*) FROM mothers),
	(SELECT COUNT(*) FROM profiles WHERE role = 'midwife'),
	(SELECT COUNT(*) FROM forms),
	(SELECT COUNT(*) FROM form_entries)`

func (s *storePG) AdminCounts(ctx context.Context) (AdminStats, error) {
	var st AdminStats
	err := s.conn(ctx).QueryRow(ctx, adminCountsSQL).Scan(
		&st.Districts, &st.Facilities, &st.Mothers, &st.Midwives, &st.Forms, &st.Entries)
	return st, err
}

func (s *storePG) MidwifeCounts(ctx context.Context, actorID string) (int, int, error) {
	var mothers, entries int
	err := s.conn(ctx).QueryRow(ctx, `SELECT
		(SELECT COUNT(*) FROM mothers WHERE registered_by = $1),
		(SELECT COUNT(*) FROM form_entries WHERE created_by = $1)`, actorID).Scan(&mothers, &entries)
	return mothers, entries, err
}

// Follow-ups from the actor's form entries and visits, soonest first.
const upcomingSQL = `
	SELECT m.id, m.full_name, u.next_visit_date, u.source
	FROM (
		SELECT mother_id, next_visit_date, 'form' AS source
		FROM form_entries
		WHERE created_by = $1 AND next_visit_date BETWEEN $2 AND $3
		UNION ALL
		SELECT mother_id, next_visit_date, 'visit' AS source
		FROM visits
		WHERE midwife_id = $1 AND next_visit_date BETWEEN $2 AND $3
	) u
	JOIN mothers m ON m.id = u.mother_id
	ORDER BY u.next_visit_date, m.full_name`

func (s *storePG) UpcomingVisits(ctx context.Context, actorID string, from, to time.Time) ([]UpcomingVisit, error) {
	rows, err := s.conn(ctx).Query(ctx, upcomingSQL, actorID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []UpcomingVisit
	for rows.Next() {
		var u UpcomingVisit
		if err := rows.Scan(&u.MotherID, &u.MotherName, &u.Date, &u.Source); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

func (s *storePG) ActivityDates(ctx context.Context, since time.Time) ([]time.Time, []time.Time, error) {
	visits, err := s.dates(ctx, `SELECT visit_date FROM visits WHERE visit_date >= $1`, since)
	if err != nil {
		return nil, nil, err
	}
	deliveries, err := s.dates(ctx, `SELECT delivery_date FROM deliveries WHERE delivery_date >= $1`, since)
	if err != nil {
		return nil, nil, err
	}
	return visits, deliveries, nil
}

func (s *storePG) dates(ctx context.Context, sql string, since time.Time) ([]time.Time, error) {
	rows, err := s.conn(ctx).Query(ctx, sql, since)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[time.Time])
}
