package realization

import (
	"log/slog"
	"slices"

	"github.com/roach88/enskit/internal/ensemble"
	"github.com/roach88/enskit/internal/ident"
)

// FilterSet keeps exactly one Filter per ensemble of the last synchronized
// ensemble set, keyed by canonical ident string.
type FilterSet struct {
	filters map[string]*Filter
	logger  *slog.Logger
}

// Option configures a FilterSet.
type Option func(*FilterSet)

// WithLogger sets the logger used for synchronize and invariant reports.
func WithLogger(logger *slog.Logger) Option {
	return func(fs *FilterSet) {
		if logger != nil {
			fs.logger = logger
		}
	}
}

// NewFilterSet returns an empty filter set.
func NewFilterSet(opts ...Option) *FilterSet {
	fs := &FilterSet{
		filters: make(map[string]*Filter),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(fs)
	}
	return fs
}

// SyncResult lists the idents whose filters were created or dropped, and
// the kept idents whose committed realizations moved with a new
// realization list.
type SyncResult struct {
	Added     []string
	Removed   []string
	Refreshed []string
}

// Changed reports whether Synchronize altered the key domain or any
// committed result.
func (r SyncResult) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0 || len(r.Refreshed) > 0
}

// Synchronize reconciles the filter map with set. Filters for idents absent
// from set are dropped and ensembles without a filter get a default one.
// Filters present on both sides keep their staged and committed
// configurations but are moved onto the ensemble from set, and their
// committed realizations are recomputed against its realization list.
func (fs *FilterSet) Synchronize(set *ensemble.Set) SyncResult {
	var res SyncResult

	for key := range fs.filters {
		if !set.Has(key) {
			delete(fs.filters, key)
			res.Removed = append(res.Removed, key)
		}
	}

	for _, e := range set.All() {
		key := e.Ident().String()
		if f, ok := fs.filters[key]; ok {
			if f.rebind(e) {
				res.Refreshed = append(res.Refreshed, key)
			}
			continue
		}
		fs.filters[key] = NewFilter(e)
		res.Added = append(res.Added, key)
	}

	slices.Sort(res.Removed)
	if res.Changed() {
		fs.logger.Debug("realization filters synchronized",
			"added", res.Added,
			"removed", res.Removed,
			"refreshed", res.Refreshed,
			"total", len(fs.filters),
		)
	}
	return res
}

// Filter returns the filter for identString. A malformed string yields an
// *ident.FormatError. A well-formed ident with no filter yields an
// *InvariantError.
func (fs *FilterSet) Filter(identString string) (*Filter, error) {
	if !ident.IsValid(identString) {
		return nil, &ident.FormatError{Input: identString, Grammar: "any"}
	}
	f, ok := fs.filters[identString]
	if !ok {
		fs.logger.Error("realization filter lookup before synchronize", "ident", identString)
		return nil, &InvariantError{Ident: identString}
	}
	return f, nil
}

// MustFilter is like Filter but panics on error.
// Use only when the ident is known to come from the synchronized set.
func (fs *FilterSet) MustFilter(identString string) *Filter {
	f, err := fs.Filter(identString)
	if err != nil {
		panic(err)
	}
	return f
}

// Has reports whether a filter exists for identString.
func (fs *FilterSet) Has(identString string) bool {
	_, ok := fs.filters[identString]
	return ok
}

// Len returns the number of filters.
func (fs *FilterSet) Len() int { return len(fs.filters) }

// Idents returns the filter keys, sorted.
func (fs *FilterSet) Idents() []string {
	var keys []string
	for k := range fs.filters {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// DirtyIdents returns the keys of filters with unapplied edits, sorted.
func (fs *FilterSet) DirtyIdents() []string {
	var out []string
	for key, f := range fs.filters {
		if f.IsDirty() {
			out = append(out, key)
		}
	}
	slices.Sort(out)
	return out
}
