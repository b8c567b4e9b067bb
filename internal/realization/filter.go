package realization

import (
	"slices"

	"github.com/roach88/enskit/internal/ensemble"
)

// Filter is the realization filter for one ensemble.
//
// Setters and Stage edit the staged configuration only. RunFiltering (and its
// alias Commit) is the single operation that recomputes the committed
// realizations, and it always uses the staged configuration together with
// the ensemble's realization list.
type Filter struct {
	ensemble ensemble.Ensemble

	staged    Config
	committed Config

	committedRealizations []int
}

// NewFilter returns a filter that includes every realization of e. Its
// committed result is the full realization list, as if RunFiltering had
// already been called once.
func NewFilter(e ensemble.Ensemble) *Filter {
	cfg := DefaultConfig(e.Realizations())
	return &Filter{
		ensemble:              e,
		staged:                cfg,
		committed:             cfg.Clone(),
		committedRealizations: e.Realizations(),
	}
}

// Ensemble returns the ensemble the filter currently applies to.
func (f *Filter) Ensemble() ensemble.Ensemble { return f.ensemble }

// Ident returns the canonical ident string of the filtered ensemble.
func (f *Filter) Ident() string { return f.ensemble.Ident().String() }

func (f *Filter) SetFilterType(t FilterType) {
	f.staged.FilterType = t
}

func (f *Filter) SetIncludeOrExclude(v IncludeExclude) {
	f.staged.IncludeOrExclude = v
}

func (f *Filter) SetRealizationNumberSelections(sel []NumberSelection) {
	f.staged.RealizationNumberSelections = slices.Clone(sel)
}

func (f *Filter) SetParameterSelections(sel ParameterSelections) {
	f.staged.ParameterSelections = sel.Clone()
}

func (f *Filter) SetCriteria(c Criteria) {
	f.staged.Criteria = c
}

func (f *Filter) FilterType() FilterType           { return f.staged.FilterType }
func (f *Filter) IncludeOrExclude() IncludeExclude { return f.staged.IncludeOrExclude }
func (f *Filter) Criteria() Criteria               { return f.staged.Criteria }

func (f *Filter) ParameterSelections() ParameterSelections {
	return f.staged.ParameterSelections.Clone()
}

func (f *Filter) RealizationNumberSelections() []NumberSelection {
	return slices.Clone(f.staged.RealizationNumberSelections)
}

// StagedConfig returns a copy of the configuration the next RunFiltering
// will use.
func (f *Filter) StagedConfig() Config { return f.staged.Clone() }

// CommittedConfig returns a copy of the configuration that produced
// CommittedRealizations.
func (f *Filter) CommittedConfig() Config { return f.committed.Clone() }

// Stage replaces the whole staged configuration.
func (f *Filter) Stage(cfg Config) { f.staged = cfg.Clone() }

// RunFiltering recomputes the committed realizations from the staged
// configuration. Calling it again with unchanged inputs yields the same
// result.
func (f *Filter) RunFiltering() {
	f.committedRealizations = computeRealizations(f.ensemble, f.staged)
	f.committed = f.staged.Clone()
}

// Commit is RunFiltering.
func (f *Filter) Commit() { f.RunFiltering() }

// Discard resets the staged configuration to the committed one.
func (f *Filter) Discard() { f.staged = f.committed.Clone() }

// IsDirty reports whether the staged configuration differs from the one
// that produced the committed result.
func (f *Filter) IsDirty() bool { return !f.staged.Equal(f.committed) }

// CommittedRealizations returns the result of the most recent RunFiltering.
func (f *Filter) CommittedRealizations() []int {
	return slices.Clone(f.committedRealizations)
}

// Preview returns what RunFiltering would commit, without committing it.
func (f *Filter) Preview() []int {
	return computeRealizations(f.ensemble, f.staged)
}

// rebind points the filter at e, the live ensemble for the same ident, and
// re-runs the committed configuration against e's realization list. The
// staged configuration is left as is. It reports whether the committed
// realizations changed.
func (f *Filter) rebind(e ensemble.Ensemble) bool {
	f.ensemble = e
	next := computeRealizations(e, f.committed)
	if slices.Equal(next, f.committedRealizations) {
		return false
	}
	f.committedRealizations = next
	return true
}

// Restore installs a previously saved configuration as both staged and
// committed, recomputing the result against the current realization list.
func (f *Filter) Restore(cfg Config) {
	f.staged = cfg.Clone()
	f.RunFiltering()
}
