package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/mochcare/mochcare/internal/platform/cache"
)

const (
	// UpcomingWindow is how far ahead follow-ups count as upcoming.
	UpcomingWindow = 7 * 24 * time.Hour
	// ActivityMonths is the span of the monthly activity chart.
	ActivityMonths = 7

	adminStatsKey = "admin-stats"
)

// StatsCache holds recently computed admin stats.
type StatsCache interface {
	Get(ctx context.Context, key string, dst interface{}) error
	Set(ctx context.Context, key string, v interface{}) error
}

type Service struct {
	store Store
	cache StatsCache
	now   func() time.Time
}

// NewService returns a dashboard service. c may be nil to disable caching.
func NewService(store Store, c StatsCache) *Service {
	return &Service{store: store, cache: c, now: time.Now}
}

// AdminStats returns system-wide counts, served from the cache when fresh.
func (s *Service) AdminStats(ctx context.Context) (AdminStats, error) {
	var st AdminStats
	if s.cache != nil {
		err := s.cache.Get(ctx, adminStatsKey, &st)
		if err == nil {
			return st, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("dashboard cache read failed")
		}
	}
	st, err := s.store.AdminCounts(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	st.GeneratedAt = s.now().UTC()
	if s.cache != nil {
		if err := s.cache.Set(ctx, adminStatsKey, st); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("dashboard cache write failed")
		}
	}
	return st, nil
}

// MidwifeStats returns the actor's counts and follow-ups due within UpcomingWindow.
func (s *Service) MidwifeStats(ctx context.Context, actorID string) (MidwifeStats, error) {
	mothers, entries, err := s.store.MidwifeCounts(ctx, actorID)
	if err != nil {
		return MidwifeStats{}, err
	}
	y, m, d := s.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	upcoming, err := s.store.UpcomingVisits(ctx, actorID, today, today.Add(UpcomingWindow))
	if err != nil {
		return MidwifeStats{}, err
	}
	if upcoming == nil {
		upcoming = []UpcomingVisit{}
	}
	return MidwifeStats{
		MothersRegistered: mothers,
		EntriesCreated:    entries,
		UpcomingVisits:    len(upcoming),
		Upcoming:          upcoming,
	}, nil
}

// Activity returns visits and deliveries per month for the last ActivityMonths months.
func (s *Service) Activity(ctx context.Context) ([]MonthlyActivity, error) {
	now := s.now()
	visits, deliveries, err := s.store.ActivityDates(ctx, windowStart(now, ActivityMonths))
	if err != nil {
		return nil, err
	}
	return BucketByMonth(now, ActivityMonths, visits, deliveries), nil
}
