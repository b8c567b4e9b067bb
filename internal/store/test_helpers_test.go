package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/enskit/internal/realization"
)

const (
	regularIdent = "00000000-0000-4000-8000-000000000001::iter-0"
	otherIdent   = "00000000-0000-4000-8000-000000000002::iter-0"
	deltaIdent   = "~@@~" + regularIdent + "~@@~" + otherIdent + "~@@~"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord returns a record whose staged config selects numbers and
// whose committed config is the default over reals.
func createTestRecord(identString string, selected []int, reals ...int) FilterRecord {
	staged := realization.DefaultConfig(reals)
	staged.RealizationNumberSelections = realization.SelectionsFromRealizations(selected)
	return FilterRecord{
		Ident:                 identString,
		Staged:                staged,
		Committed:             realization.DefaultConfig(reals),
		CommittedRealizations: reals,
	}
}
