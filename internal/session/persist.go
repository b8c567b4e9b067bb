package session

import (
	"context"
	"fmt"

	"github.com/roach88/enskit/internal/store"
)

// FilterStore persists realization filter state. *store.Store implements it.
type FilterStore interface {
	SaveFilter(ctx context.Context, rec store.FilterRecord) (int64, error)
	ListFilters(ctx context.Context) ([]store.FilterRecord, error)
}

// SaveFilters writes the staged and committed state of every filter and
// returns how many were written.
func (s *Session) SaveFilters(ctx context.Context, st FilterStore) (int, error) {
	if s.filters == nil {
		return 0, ErrFiltersDisabled
	}

	saved := 0
	for _, id := range s.filters.Idents() {
		if err := ctx.Err(); err != nil {
			return saved, err
		}
		f := s.filters.MustFilter(id)
		rec := store.FilterRecord{
			Ident:                 id,
			Kind:                  f.Ensemble().Ident().Kind(),
			Staged:                f.StagedConfig(),
			Committed:             f.CommittedConfig(),
			CommittedRealizations: f.CommittedRealizations(),
		}
		if _, err := st.SaveFilter(ctx, rec); err != nil {
			return saved, fmt.Errorf("save filters: %w", err)
		}
		saved++
	}

	s.logger.Debug("realization filters saved", "count", saved)
	return saved, nil
}

// RestoreFilters loads stored filters for ensembles in the current snapshot
// and returns how many were restored. Stored rows for other ensembles are
// ignored.
//
// The committed configuration is re-run against the live realization list,
// so a restored result never names realizations the ensemble no longer has.
// A stored staged configuration that differs from the committed one is
// staged again, leaving the filter dirty.
func (s *Session) RestoreFilters(ctx context.Context, st FilterStore) (int, error) {
	if s.filters == nil {
		return 0, ErrFiltersDisabled
	}

	records, err := st.ListFilters(ctx)
	if err != nil {
		return 0, fmt.Errorf("restore filters: %w", err)
	}

	restored := 0
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return restored, err
		}
		if !s.filters.Has(rec.Ident) {
			s.logger.Debug("skipping stored filter for absent ensemble", "ident", rec.Ident)
			continue
		}
		f := s.filters.MustFilter(rec.Ident)
		f.Restore(rec.Committed)
		if !rec.Staged.Equal(rec.Committed) {
			f.Stage(rec.Staged)
		}
		restored++
	}

	if restored > 0 {
		s.notify()
	}
	s.logger.Debug("realization filters restored", "count", restored, "stored", len(records))
	return restored, nil
}
