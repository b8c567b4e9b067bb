package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/enskit/internal/ident"
)

func TestNewRegularEnsemble_NormalisesRealizations(t *testing.T) {
	e := newRegular(t, caseA, "case-a", "iter-0", 4, 1, 1, 0, 3)
	assert.Equal(t, []int{0, 1, 3, 4}, e.Realizations())
	assert.Equal(t, caseA+"::iter-0", e.Ident().String())
	assert.Equal(t, "iter-0 (case-a)", e.DisplayName())
	assert.Equal(t, 0, e.Parameters().Len())
}

func TestNewRegularEnsemble_Invalid(t *testing.T) {
	_, err := NewRegularEnsemble(RegularConfig{CaseUUID: "nope", EnsembleName: "x"})
	assert.ErrorIs(t, err, ErrInvalidEnsemble)

	_, err = NewRegularEnsemble(RegularConfig{CaseUUID: caseA})
	assert.ErrorIs(t, err, ErrInvalidEnsemble)

	_, err = NewRegularEnsemble(RegularConfig{CaseUUID: caseA, EnsembleName: "x", Realizations: []int{0, -1}})
	assert.ErrorIs(t, err, ErrInvalidEnsemble)
}

func TestRealizations_ReturnsCopy(t *testing.T) {
	e := newRegular(t, caseA, "", "iter-0", 0, 1, 2)
	reals := e.Realizations()
	reals[0] = 99
	assert.Equal(t, []int{0, 1, 2}, e.Realizations())
}

func TestDeltaEnsemble(t *testing.T) {
	cmp := newRegular(t, caseA, "a", "iter-1", 0, 1, 2, 5)
	ref := newRegular(t, caseB, "b", "iter-0", 1, 2, 3, 5)

	d := newDelta(t, cmp, ref)
	assert.Equal(t, []int{1, 2, 5}, d.Realizations())
	assert.Equal(t, ident.KindDelta, d.Ident().Kind())
	assert.Equal(t, ident.EncodeDelta(cmp.RegularIdent(), ref.RegularIdent()), d.Ident().String())
	assert.Equal(t, "(iter-1 (a)) - (iter-0 (b))", d.DisplayName())
	assert.Equal(t, "(iter-1) - (iter-0)", d.EnsembleName())
	assert.Equal(t, 0, d.Parameters().Len())

	_, err := NewDeltaEnsemble(cmp, nil, "", "")
	assert.ErrorIs(t, err, ErrInvalidEnsemble)
}

func TestSet_Emptiness(t *testing.T) {
	empty := EmptySet()
	assert.False(t, empty.HasAny())
	assert.False(t, empty.HasAnyRegular())
	assert.False(t, empty.HasAnyDelta())
	assert.Empty(t, empty.All())

	a := newRegular(t, caseA, "", "iter-0", 0)
	onlyRegular := MustNewSet([]*RegularEnsemble{a}, nil)
	assert.True(t, onlyRegular.HasAny())
	assert.True(t, onlyRegular.HasAnyRegular())
	assert.False(t, onlyRegular.HasAnyDelta())
}

func TestSet_AllOrder(t *testing.T) {
	a := newRegular(t, caseA, "", "iter-0", 0, 1)
	b := newRegular(t, caseB, "", "iter-0", 0, 1)
	d := newDelta(t, b, a)

	s := MustNewSet([]*RegularEnsemble{a, b}, []*DeltaEnsemble{d})
	all := s.All()
	require.Len(t, all, 3)
	assert.Same(t, a, all[0])
	assert.Same(t, b, all[1])
	assert.Same(t, d, all[2])
	assert.Equal(t, []string{a.Ident().String(), b.Ident().String(), d.Ident().String()}, s.Idents())
}

func TestSet_Lookup(t *testing.T) {
	a := newRegular(t, caseA, "", "iter-0", 0, 1)
	b := newRegular(t, caseB, "", "iter-1", 0, 1)
	d := newDelta(t, b, a)
	s := MustNewSet([]*RegularEnsemble{a, b}, []*DeltaEnsemble{d})

	got, ok := s.Find(a.Ident().String())
	require.True(t, ok)
	assert.Same(t, a, got)

	got, ok = s.Find(d.Ident().String())
	require.True(t, ok)
	assert.Same(t, d, got)

	reg, ok := s.FindRegular(b.Ident().String())
	require.True(t, ok)
	assert.Same(t, b, reg)

	delta, ok := s.FindDelta(d.Ident().String())
	require.True(t, ok)
	assert.Same(t, d, delta)

	// Type-narrowed lookups refuse the other variant.
	_, ok = s.FindRegular(d.Ident().String())
	assert.False(t, ok)
	_, ok = s.FindDelta(a.Ident().String())
	assert.False(t, ok)

	// Malformed and absent idents are "not found".
	for _, missing := range []string{
		"",
		"garbage",
		caseA + "::",
		caseA + "::iter-9",
		ident.EncodeDelta(a.RegularIdent(), b.RegularIdent()),
	} {
		assert.False(t, s.Has(missing), "expected %q to be absent", missing)
		_, ok := s.Find(missing)
		assert.False(t, ok)
	}
}

func TestNewSet_RejectsDuplicates(t *testing.T) {
	a := newRegular(t, caseA, "", "iter-0", 0)
	a2 := newRegular(t, caseA, "other case name", "iter-0", 0, 1)

	_, err := NewSet([]*RegularEnsemble{a, a2}, nil)
	assert.ErrorIs(t, err, ErrDuplicateIdent)

	b := newRegular(t, caseB, "", "iter-0", 0)
	d1 := newDelta(t, a, b)
	d2 := newDelta(t, a, b)
	_, err = NewSet([]*RegularEnsemble{a, b}, []*DeltaEnsemble{d1, d2})
	assert.ErrorIs(t, err, ErrDuplicateIdent)

	assert.Panics(t, func() { MustNewSet([]*RegularEnsemble{a, a2}, nil) })
}

func TestSet_ViewsAreCopies(t *testing.T) {
	a := newRegular(t, caseA, "", "iter-0", 0)
	s := MustNewSet([]*RegularEnsemble{a}, nil)

	regs := s.Regulars()
	regs[0] = nil
	assert.Same(t, a, s.Regulars()[0])
}
