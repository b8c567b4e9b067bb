package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/enskit/internal/ident"
	"github.com/roach88/enskit/internal/realization"
)

// ErrNotFound is returned when no filter is stored for an ident.
var ErrNotFound = errors.New("filter not found")

// FilterRecord is the persisted state of one realization filter.
type FilterRecord struct {
	Ident                 string
	Kind                  ident.Kind
	Staged                realization.Config
	Committed             realization.Config
	CommittedRealizations []int
	Seq                   int64
}

// LoadFilter returns the stored filter for identString, or ErrNotFound.
func (s *Store) LoadFilter(ctx context.Context, identString string) (FilterRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT ensemble_ident, ident_kind, staged_config, committed_config, committed_realizations, seq
		FROM realization_filters
		WHERE ensemble_ident = ?
	`, identString)

	rec, err := scanFilter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return FilterRecord{}, fmt.Errorf("%w: %s", ErrNotFound, identString)
	}
	if err != nil {
		return FilterRecord{}, err
	}
	return rec, nil
}

// ListFilters returns every stored filter ordered by ident.
//
// Returns an empty slice (not nil) if nothing is stored.
func (s *Store) ListFilters(ctx context.Context) ([]FilterRecord, error) {
	return s.listFilters(ctx, `
		SELECT ensemble_ident, ident_kind, staged_config, committed_config, committed_realizations, seq
		FROM realization_filters
		ORDER BY ensemble_ident COLLATE BINARY ASC
	`)
}

// ListFiltersBySeq returns every stored filter in save order.
func (s *Store) ListFiltersBySeq(ctx context.Context) ([]FilterRecord, error) {
	return s.listFilters(ctx, `
		SELECT ensemble_ident, ident_kind, staged_config, committed_config, committed_realizations, seq
		FROM realization_filters
		ORDER BY seq ASC, ensemble_ident COLLATE BINARY ASC
	`)
}

func (s *Store) listFilters(ctx context.Context, query string) ([]FilterRecord, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query filters: %w", err)
	}
	defer rows.Close()

	records := []FilterRecord{}
	for rows.Next() {
		rec, err := scanFilter(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate filters: %w", err)
	}

	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFilter(row scanner) (FilterRecord, error) {
	var (
		rec                          FilterRecord
		kind, staged, committed, rls string
	)
	if err := row.Scan(&rec.Ident, &kind, &staged, &committed, &rls, &rec.Seq); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return FilterRecord{}, err
		}
		return FilterRecord{}, fmt.Errorf("scan filter: %w", err)
	}

	switch kind {
	case ident.KindRegular.String():
		rec.Kind = ident.KindRegular
	case ident.KindDelta.String():
		rec.Kind = ident.KindDelta
	default:
		return FilterRecord{}, fmt.Errorf("scan filter %s: unknown ident kind %q", rec.Ident, kind)
	}

	var err error
	if rec.Staged, err = unmarshalConfig(staged); err != nil {
		return FilterRecord{}, fmt.Errorf("scan filter %s: %w", rec.Ident, err)
	}
	if rec.Committed, err = unmarshalConfig(committed); err != nil {
		return FilterRecord{}, fmt.Errorf("scan filter %s: %w", rec.Ident, err)
	}
	if rec.CommittedRealizations, err = unmarshalRealizations(rls); err != nil {
		return FilterRecord{}, fmt.Errorf("scan filter %s: %w", rec.Ident, err)
	}
	return rec, nil
}
