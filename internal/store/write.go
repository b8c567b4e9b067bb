package store

import (
	"context"
	"fmt"

	"github.com/roach88/enskit/internal/ident"
)

// SaveFilter upserts rec keyed by rec.Ident and returns the assigned seq.
// rec.Seq is ignored; each save takes the next logical sequence number.
func (s *Store) SaveFilter(ctx context.Context, rec FilterRecord) (int64, error) {
	id, err := ident.Parse(rec.Ident)
	if err != nil {
		return 0, fmt.Errorf("save filter: %w", err)
	}

	staged, err := marshalConfig(rec.Staged)
	if err != nil {
		return 0, fmt.Errorf("save filter %s: %w", rec.Ident, err)
	}
	committed, err := marshalConfig(rec.Committed)
	if err != nil {
		return 0, fmt.Errorf("save filter %s: %w", rec.Ident, err)
	}
	reals, err := marshalRealizations(rec.CommittedRealizations)
	if err != nil {
		return 0, fmt.Errorf("save filter %s: %w", rec.Ident, err)
	}

	var seq int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO realization_filters
		(ensemble_ident, ident_kind, staged_config, committed_config, committed_realizations, seq)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM realization_filters))
		ON CONFLICT(ensemble_ident) DO UPDATE SET
			staged_config = excluded.staged_config,
			committed_config = excluded.committed_config,
			committed_realizations = excluded.committed_realizations,
			seq = excluded.seq
		RETURNING seq
	`,
		rec.Ident,
		id.Kind().String(),
		staged,
		committed,
		reals,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("save filter %s: %w", rec.Ident, err)
	}

	return seq, nil
}

// DeleteFilter removes the row for identString. Deleting an absent row is
// not an error. Returns whether a row was removed.
func (s *Store) DeleteFilter(ctx context.Context, identString string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM realization_filters WHERE ensemble_ident = ?
	`, identString)
	if err != nil {
		return false, fmt.Errorf("delete filter %s: %w", identString, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete filter %s: %w", identString, err)
	}
	return n > 0, nil
}
