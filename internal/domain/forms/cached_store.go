package forms

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mochcare/mochcare/internal/platform/cache"
	"github.com/mochcare/mochcare/internal/platform/metrics"
)

// SchemaCache is the subset of cache.Cache used for form schemas.
type SchemaCache interface {
	Get(ctx context.Context, key string, dst interface{}) error
	Set(ctx context.Context, key string, v interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

// CachedFormStore reads form schemas through a cache. Schemas never change
// after creation; a cached schema is only evicted when its form is deleted.
type CachedFormStore struct {
	FormStore
	cache SchemaCache
}

func NewCachedFormStore(inner FormStore, c SchemaCache) *CachedFormStore {
	return &CachedFormStore{FormStore: inner, cache: c}
}

func (s *CachedFormStore) Save(ctx context.Context, in *NewForm) (*FormSchema, error) {
	f, err := s.FormStore.Save(ctx, in)
	if err != nil {
		return nil, err
	}
	s.store(ctx, f)
	return f, nil
}

func (s *CachedFormStore) Get(ctx context.Context, id uuid.UUID) (*FormSchema, error) {
	var f FormSchema
	err := s.cache.Get(ctx, id.String(), &f)
	switch {
	case err == nil:
		metrics.FormCacheLookups.WithLabelValues("hit").Inc()
		return &f, nil
	case errors.Is(err, cache.ErrMiss):
		metrics.FormCacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.FormCacheLookups.WithLabelValues("error").Inc()
		zerolog.Ctx(ctx).Warn().Err(err).Str("form_id", id.String()).Msg("form cache read failed")
	}

	got, err := s.FormStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store(ctx, got)
	return got, nil
}

// Delete removes the form and then its cached schema. An eviction failure is
// logged; the delete itself has already succeeded.
func (s *CachedFormStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.FormStore.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, id.String()); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("form_id", id.String()).Msg("form cache eviction failed")
	}
	return nil
}

func (s *CachedFormStore) store(ctx context.Context, f *FormSchema) {
	if err := s.cache.Set(ctx, f.ID.String(), f); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("form_id", f.ID.String()).Msg("form cache write failed")
	}
}
