package session

import (
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/roach88/enskit/internal/ensemble"
	"github.com/roach88/enskit/internal/ident"
	"github.com/roach88/enskit/internal/metrics"
	"github.com/roach88/enskit/internal/realization"
)

// ErrFiltersDisabled is returned by filter operations before
// EnableRealizationFilters.
var ErrFiltersDisabled = errors.New("realization filters are not enabled")

// Session is the explicit owner of the current ensemble set.
type Session struct {
	set     *ensemble.Set
	filters *realization.FilterSet

	enableFilters bool
	logger        *slog.Logger
	metrics       *metrics.Recorder

	subscribers map[int]func()
	nextSubID   int
}

// New returns a session holding an empty ensemble set.
func New(opts ...Option) *Session {
	s := &Session{
		set:         ensemble.EmptySet(),
		logger:      slog.Default(),
		subscribers: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.enableFilters {
		s.EnableRealizationFilters()
	}
	return s
}

// EnsembleSet returns the current snapshot.
func (s *Session) EnsembleSet() *ensemble.Set { return s.set }

// SetEnsembleSet replaces the snapshot. A nil set is treated as empty.
// With filters enabled, the filter set is synchronized and subscribers are
// notified whenever the synchronize result reports a change.
func (s *Session) SetEnsembleSet(set *ensemble.Set) realization.SyncResult {
	if set == nil {
		set = ensemble.EmptySet()
	}
	s.set = set
	s.logger.Debug("ensemble set replaced",
		"regular", len(set.Regulars()),
		"delta", len(set.Deltas()),
	)

	if s.filters == nil {
		return realization.SyncResult{}
	}
	res := s.synchronize()
	if res.Changed() {
		s.notify()
	}
	return res
}

// EnableRealizationFilters creates the filter set and synchronizes it with
// the current snapshot. Calling it again is a no-op.
func (s *Session) EnableRealizationFilters() {
	if s.filters != nil {
		return
	}
	s.filters = realization.NewFilterSet(realization.WithLogger(s.logger))
	s.synchronize()
}

// FiltersEnabled reports whether a filter set exists.
func (s *Session) FiltersEnabled() bool { return s.filters != nil }

// FilterSet returns the filter set, or nil before EnableRealizationFilters.
func (s *Session) FilterSet() *realization.FilterSet { return s.filters }

func (s *Session) synchronize() realization.SyncResult {
	res := s.filters.Synchronize(s.set)
	s.metrics.RecordSynchronize(len(res.Added), len(res.Removed), s.filters.Len())
	return res
}

// Filter returns the realization filter for identString.
func (s *Session) Filter(identString string) (*realization.Filter, error) {
	if s.filters == nil {
		return nil, ErrFiltersDisabled
	}
	f, err := s.filters.Filter(identString)
	if errors.Is(err, realization.ErrFilterSetInvariantViolation) {
		s.metrics.RecordInvariantViolation()
	}
	return f, err
}

// ValidRealizations returns the realizations the rest of the program should
// use for identString, ascending.
//
// With filters enabled this is the filter's committed result. Without them it
// is the ensemble's realization list, or an empty list for an ident that is
// well-formed but absent. A malformed ident yields an *ident.FormatError.
func (s *Session) ValidRealizations(identString string) ([]int, error) {
	if s.filters != nil {
		f, err := s.Filter(identString)
		if err != nil {
			return nil, err
		}
		return f.CommittedRealizations(), nil
	}

	if !ident.IsValid(identString) {
		return nil, &ident.FormatError{Input: identString, Grammar: "any"}
	}
	e, ok := s.set.Find(identString)
	if !ok {
		return []int{}, nil
	}
	return e.Realizations(), nil
}

// ValidRealizationsFunc returns ValidRealizations bound to the session, for
// consumers that should not see the session itself.
func (s *Session) ValidRealizationsFunc() func(identString string) ([]int, error) {
	return s.ValidRealizations
}

// RealizationsIntersection returns the realizations valid for every ident,
// ascending. No idents yields an empty result.
func (s *Session) RealizationsIntersection(idents []string) ([]int, error) {
	if len(idents) == 0 {
		return []int{}, nil
	}

	out, err := s.ValidRealizations(idents[0])
	if err != nil {
		return nil, err
	}
	for _, id := range idents[1:] {
		reals, err := s.ValidRealizations(id)
		if err != nil {
			return nil, err
		}
		out = slices.DeleteFunc(out, func(r int) bool {
			_, found := slices.BinarySearch(reals, r)
			return !found
		})
	}
	return out, nil
}

// ApplyFilter runs filtering for one ensemble and notifies subscribers.
func (s *Session) ApplyFilter(identString string) error {
	f, err := s.Filter(identString)
	if err != nil {
		return err
	}
	s.runFilter(f)
	s.notify()
	return nil
}

// ApplyAllFilters runs filtering for every filter with staged edits and
// returns how many ran. Subscribers are notified once if any ran.
func (s *Session) ApplyAllFilters() (int, error) {
	if s.filters == nil {
		return 0, ErrFiltersDisabled
	}
	dirty := s.filters.DirtyIdents()
	for _, id := range dirty {
		s.runFilter(s.filters.MustFilter(id))
	}
	if len(dirty) > 0 {
		s.notify()
	}
	return len(dirty), nil
}

// DiscardAllFilters resets every staged configuration to its committed one
// and returns how many filters had edits.
func (s *Session) DiscardAllFilters() (int, error) {
	if s.filters == nil {
		return 0, ErrFiltersDisabled
	}
	dirty := s.filters.DirtyIdents()
	for _, id := range dirty {
		s.filters.MustFilter(id).Discard()
	}
	return len(dirty), nil
}

// UnsavedFilterCount returns the number of filters with staged edits.
func (s *Session) UnsavedFilterCount() int {
	if s.filters == nil {
		return 0
	}
	return len(s.filters.DirtyIdents())
}

func (s *Session) runFilter(f *realization.Filter) {
	start := time.Now()
	f.RunFiltering()
	s.metrics.RecordRun(string(f.FilterType()), string(f.IncludeOrExclude()), time.Since(start))
	s.logger.Debug("realization filter committed",
		"ident", f.Ident(),
		"realizations", len(f.CommittedRealizations()),
	)
}

// SubscribeRealizationFilterChange registers fn to run after committed
// realizations may have changed: an applied filter, a restore, or a
// snapshot replacement that added or removed filters. The returned function
// unsubscribes.
func (s *Session) SubscribeRealizationFilterChange(fn func()) (unsubscribe func()) {
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() { delete(s.subscribers, id) }
}

func (s *Session) notify() {
	ids := make([]int, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := s.subscribers[id]; ok {
			fn()
		}
	}
}
