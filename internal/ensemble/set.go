package ensemble

import (
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/enskit/internal/ident"
)

// ErrDuplicateIdent is returned by NewSet when two ensembles share an ident string.
var ErrDuplicateIdent = errors.New("duplicate ensemble ident")

// Set is an immutable snapshot of regular and delta ensembles.
//
// Lookups take a canonical ident string, decode it once, and search only the
// sub-collection matching its Kind. Malformed or absent idents are "not found",
// never an error.
type Set struct {
	regulars     []*RegularEnsemble
	deltas       []*DeltaEnsemble
	regularIndex map[string]*RegularEnsemble
	deltaIndex   map[string]*DeltaEnsemble
}

// NewSet builds a snapshot. Ident strings must be unique within and across
// both sequences.
func NewSet(regulars []*RegularEnsemble, deltas []*DeltaEnsemble) (*Set, error) {
	s := &Set{
		regulars:     slices.Clone(regulars),
		deltas:       slices.Clone(deltas),
		regularIndex: make(map[string]*RegularEnsemble, len(regulars)),
		deltaIndex:   make(map[string]*DeltaEnsemble, len(deltas)),
	}

	for _, e := range s.regulars {
		key := e.Ident().String()
		if _, dup := s.regularIndex[key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateIdent, key)
		}
		s.regularIndex[key] = e
	}
	for _, e := range s.deltas {
		key := e.Ident().String()
		if _, dup := s.deltaIndex[key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateIdent, key)
		}
		s.deltaIndex[key] = e
	}

	return s, nil
}

// MustNewSet is like NewSet but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustNewSet(regulars []*RegularEnsemble, deltas []*DeltaEnsemble) *Set {
	s, err := NewSet(regulars, deltas)
	if err != nil {
		panic(err)
	}
	return s
}

// EmptySet returns a snapshot with no ensembles.
func EmptySet() *Set {
	return MustNewSet(nil, nil)
}

func (s *Set) HasAnyRegular() bool { return len(s.regulars) > 0 }
func (s *Set) HasAnyDelta() bool   { return len(s.deltas) > 0 }
func (s *Set) HasAny() bool        { return s.HasAnyRegular() || s.HasAnyDelta() }

// Len returns the total number of ensembles.
func (s *Set) Len() int { return len(s.regulars) + len(s.deltas) }

// Regulars returns the regular ensembles in snapshot order.
func (s *Set) Regulars() []*RegularEnsemble { return slices.Clone(s.regulars) }

// Deltas returns the delta ensembles in snapshot order.
func (s *Set) Deltas() []*DeltaEnsemble { return slices.Clone(s.deltas) }

// All returns regulars followed by deltas.
func (s *Set) All() []Ensemble {
	all := make([]Ensemble, 0, s.Len())
	for _, e := range s.regulars {
		all = append(all, e)
	}
	for _, e := range s.deltas {
		all = append(all, e)
	}
	return all
}

// Idents returns the canonical ident strings of All(), in the same order.
func (s *Set) Idents() []string {
	idents := make([]string, 0, s.Len())
	for _, e := range s.All() {
		idents = append(idents, e.Ident().String())
	}
	return idents
}

// Has reports whether an ensemble with the given ident string is present.
func (s *Set) Has(identString string) bool {
	_, ok := s.Find(identString)
	return ok
}

// Find returns the ensemble for identString of either kind.
func (s *Set) Find(identString string) (Ensemble, bool) {
	id, err := ident.Parse(identString)
	if err != nil {
		return nil, false
	}
	return s.FindIdent(id)
}

// FindIdent dispatches on the ident's kind.
func (s *Set) FindIdent(id ident.Ident) (Ensemble, bool) {
	switch id.Kind() {
	case ident.KindRegular:
		e, ok := s.regularIndex[id.String()]
		if !ok {
			return nil, false
		}
		return e, true
	case ident.KindDelta:
		e, ok := s.deltaIndex[id.String()]
		if !ok {
			return nil, false
		}
		return e, true
	default:
		return nil, false
	}
}

// FindRegular returns the regular ensemble for identString. A delta ident
// string is "not found".
func (s *Set) FindRegular(identString string) (*RegularEnsemble, bool) {
	if !ident.IsValidRegular(identString) {
		return nil, false
	}
	e, ok := s.regularIndex[identString]
	return e, ok
}

// FindDelta returns the delta ensemble for identString. A regular ident
// string is "not found".
func (s *Set) FindDelta(identString string) (*DeltaEnsemble, bool) {
	if !ident.IsValidDelta(identString) {
		return nil, false
	}
	e, ok := s.deltaIndex[identString]
	return e, ok
}
