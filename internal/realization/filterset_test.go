package realization

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/enskit/internal/ensemble"
	"github.com/roach88/enskit/internal/ident"
	"github.com/roach88/enskit/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFilterSet_SynchronizeCreatesDefaults(t *testing.T) {
	a := testutil.Regular(t, testutil.CaseUUID(1), "iter-0", 0, 1, 2)
	b := testutil.Regular(t, testutil.CaseUUID(2), "iter-0", 5, 6)
	d := testutil.Delta(t, a, b)
	set := testutil.Set(t, []*ensemble.RegularEnsemble{a, b}, d)

	fs := NewFilterSet(WithLogger(discardLogger()))
	res := fs.Synchronize(set)

	assert.Equal(t, set.Idents(), res.Added)
	assert.Empty(t, res.Removed)
	assert.Equal(t, 3, fs.Len())

	f, err := fs.Filter(b.Ident().String())
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6}, f.CommittedRealizations())

	f, err = fs.Filter(d.Ident().String())
	require.NoError(t, err)
	assert.Empty(t, f.CommittedRealizations())
}

func TestFilterSet_SynchronizeIsIdempotent(t *testing.T) {
	a := testutil.Regular(t, testutil.CaseUUID(1), "iter-0", 0, 1, 2)
	b := testutil.Regular(t, testutil.CaseUUID(2), "iter-0", 0, 1)
	set := testutil.Set(t, []*ensemble.RegularEnsemble{a, b})

	fs := NewFilterSet(WithLogger(discardLogger()))
	fs.Synchronize(set)
	before := map[string]*Filter{}
	for _, id := range fs.Idents() {
		before[id] = fs.MustFilter(id)
	}

	res := fs.Synchronize(set)
	assert.False(t, res.Changed())
	assert.Equal(t, len(before), fs.Len())
	for id, f := range before {
		assert.Same(t, f, fs.MustFilter(id))
	}
}

func TestFilterSet_SynchronizeDeltaCorrectness(t *testing.T) {
	kept := testutil.Regular(t, testutil.CaseUUID(1), "iter-0", 0, 1, 2, 3, 4)
	removed := testutil.Regular(t, testutil.CaseUUID(2), "iter-0", 0, 1)
	added := testutil.Regular(t, testutil.CaseUUID(3), "iter-0", 7, 8)

	fs := NewFilterSet(WithLogger(discardLogger()))
	fs.Synchronize(testutil.Set(t, []*ensemble.RegularEnsemble{kept, removed}))

	keptFilter := fs.MustFilter(kept.Ident().String())
	keptFilter.SetRealizationNumberSelections([]NumberSelection{Single(0), Single(2)})
	keptFilter.RunFiltering()
	keptFilter.SetIncludeOrExclude(Exclude)

	res := fs.Synchronize(testutil.Set(t, []*ensemble.RegularEnsemble{kept, added}))
	assert.Equal(t, []string{added.Ident().String()}, res.Added)
	assert.Equal(t, []string{removed.Ident().String()}, res.Removed)

	assert.Equal(t, []string{kept.Ident().String(), added.Ident().String()}, fs.Idents())
	assert.False(t, fs.Has(removed.Ident().String()))

	same := fs.MustFilter(kept.Ident().String())
	assert.Same(t, keptFilter, same)
	assert.Equal(t, []int{0, 2}, same.CommittedRealizations())
	assert.True(t, same.IsDirty(), "staged edits survive synchronize")

	fresh := fs.MustFilter(added.Ident().String())
	assert.Equal(t, []int{7, 8}, fresh.CommittedRealizations())
	assert.False(t, fresh.IsDirty())
}

func TestFilterSet_SynchronizeRebindsKeptFilters(t *testing.T) {
	v1 := testutil.Regular(t, testutil.CaseUUID(1), "iter-0", 0, 1, 2, 3, 4)
	ref := testutil.Regular(t, testutil.CaseUUID(2), "iter-0", 0, 1, 2, 3, 4)
	d1 := testutil.Delta(t, v1, ref)

	fs := NewFilterSet(WithLogger(discardLogger()))
	fs.Synchronize(testutil.Set(t, []*ensemble.RegularEnsemble{v1, ref}, d1))

	f := fs.MustFilter(v1.Ident().String())
	f.SetIncludeOrExclude(Exclude)
	f.SetRealizationNumberSelections([]NumberSelection{Single(3)})
	f.RunFiltering()
	require.Equal(t, []int{0, 1, 2, 4}, f.CommittedRealizations())

	v2 := testutil.Regular(t, testutil.CaseUUID(1), "iter-0", 0, 1)
	d2 := testutil.Delta(t, v2, ref)
	res := fs.Synchronize(testutil.Set(t, []*ensemble.RegularEnsemble{v2, ref}, d2))

	assert.Empty(t, res.Added)
	assert.Empty(t, res.Removed)
	assert.Equal(t, []string{v1.Ident().String(), d2.Ident().String()}, res.Refreshed)
	assert.True(t, res.Changed())

	same := fs.MustFilter(v1.Ident().String())
	assert.Same(t, f, same)
	assert.Same(t, v2, same.Ensemble())
	assert.Equal(t, []int{0, 1}, same.CommittedRealizations())
	assert.False(t, same.IsDirty())

	same.SetRealizationNumberSelections([]NumberSelection{Single(0)})
	same.RunFiltering()
	assert.Equal(t, []int{1}, same.CommittedRealizations())

	delta := fs.MustFilter(d2.Ident().String())
	assert.Same(t, d2, delta.Ensemble())
	assert.Equal(t, []int{0, 1}, delta.CommittedRealizations())
	assert.Equal(t, []int{0, 1}, delta.Preview())
}

func TestFilterSet_SynchronizeKeepsStagedEditsOnRebind(t *testing.T) {
	v1 := testutil.Regular(t, testutil.CaseUUID(1), "iter-0", 0, 1, 2, 3)
	fs := NewFilterSet(WithLogger(discardLogger()))
	fs.Synchronize(testutil.Set(t, []*ensemble.RegularEnsemble{v1}))

	f := fs.MustFilter(v1.Ident().String())
	f.SetRealizationNumberSelections([]NumberSelection{Range(2, 3)})
	require.True(t, f.IsDirty())

	v2 := testutil.Regular(t, testutil.CaseUUID(1), "iter-0", 0, 2)
	fs.Synchronize(testutil.Set(t, []*ensemble.RegularEnsemble{v2}))

	assert.True(t, f.IsDirty(), "staged edits survive a rebind")
	assert.Equal(t, []int{0, 2}, f.CommittedRealizations())
	assert.Equal(t, []int{2}, f.Preview())
}

func TestFilterSet_SynchronizeEmpty(t *testing.T) {
	a := testutil.Regular(t, testutil.CaseUUID(1), "iter-0", 0)
	fs := NewFilterSet(WithLogger(discardLogger()))
	fs.Synchronize(testutil.Set(t, []*ensemble.RegularEnsemble{a}))

	res := fs.Synchronize(ensemble.EmptySet())
	assert.Equal(t, []string{a.Ident().String()}, res.Removed)
	assert.Equal(t, 0, fs.Len())
}

func TestFilterSet_FilterErrors(t *testing.T) {
	fs := NewFilterSet(WithLogger(discardLogger()))

	_, err := fs.Filter("not-an-ident")
	require.Error(t, err)
	assert.ErrorIs(t, err, ident.ErrInvalidIdentFormat)
	assert.NotErrorIs(t, err, ErrFilterSetInvariantViolation)

	missing := testutil.CaseUUID(9) + "::iter-0"
	_, err = fs.Filter(missing)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFilterSetInvariantViolation)

	var invErr *InvariantError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, missing, invErr.Ident)

	assert.Panics(t, func() { fs.MustFilter(missing) })
}

func TestFilterSet_DirtyIdents(t *testing.T) {
	a := testutil.Regular(t, testutil.CaseUUID(1), "iter-0", 0, 1)
	b := testutil.Regular(t, testutil.CaseUUID(2), "iter-0", 0, 1)
	fs := NewFilterSet(WithLogger(discardLogger()))
	fs.Synchronize(testutil.Set(t, []*ensemble.RegularEnsemble{a, b}))

	assert.Empty(t, fs.DirtyIdents())

	fs.MustFilter(b.Ident().String()).SetIncludeOrExclude(Exclude)
	assert.Equal(t, []string{b.Ident().String()}, fs.DirtyIdents())
}
