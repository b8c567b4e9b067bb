package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixupIdent(t *testing.T) {
	a := newRegular(t, caseA, "", "iter-0", 0)
	b := newRegular(t, caseB, "", "iter-1", 0)
	s := MustNewSet([]*RegularEnsemble{a, b}, nil)

	assert.Equal(t, "", FixupIdent(a.Ident().String(), nil))
	assert.Equal(t, "", FixupIdent(a.Ident().String(), EmptySet()))
	assert.Equal(t, b.Ident().String(), FixupIdent(b.Ident().String(), s))
	assert.Equal(t, a.Ident().String(), FixupIdent("stale", s))
	assert.Equal(t, a.Ident().String(), FixupIdent("", s))
}

func TestFixupIdents(t *testing.T) {
	a := newRegular(t, caseA, "", "iter-0", 0)
	b := newRegular(t, caseB, "", "iter-1", 0)
	s := MustNewSet([]*RegularEnsemble{a, b}, nil)

	assert.Nil(t, FixupIdents([]string{"x"}, EmptySet()))
	assert.Equal(t, []string{a.Ident().String()}, FixupIdents(nil, s))
	assert.Equal(t, []string{b.Ident().String()}, FixupIdents([]string{"stale", b.Ident().String()}, s))
	assert.Empty(t, FixupIdents([]string{"stale"}, s))
}

func TestDistinguishableDisplayName(t *testing.T) {
	a := newRegular(t, caseA, "case-a", "iter-0", 0)
	b := newRegular(t, caseB, "case-b", "iter-0", 0)
	c := newRegular(t, caseB, "case-b", "pred", 0)
	custom, err := NewRegularEnsemble(RegularConfig{
		CaseUUID:     caseA,
		CaseName:     "case-a",
		EnsembleName: "iter-9",
		CustomName:   "My favourite",
	})
	if err != nil {
		t.Fatal(err)
	}
	all := []Ensemble{a, b, c, custom}

	assert.Equal(t, "iter-0 (case-a)", DistinguishableDisplayName(a.Ident().String(), all))
	assert.Equal(t, "pred", DistinguishableDisplayName(c.Ident().String(), all))
	assert.Equal(t, "My favourite", DistinguishableDisplayName(custom.Ident().String(), all))

	// Unknown regular ident falls back to its ensemble name.
	assert.Equal(t, "ghost", DistinguishableDisplayName(caseA+"::ghost", all))
	assert.Equal(t, "not-an-ident", DistinguishableDisplayName("not-an-ident", all))

	d := newDelta(t, c, a)
	assert.Equal(t, "(pred) - (iter-0)", DistinguishableDisplayName(d.Ident().String(), append(all, d)))
}

func TestDistinguishableDisplayName_NormalisesNames(t *testing.T) {
	composed := newRegular(t, caseA, "case-a", "r\u00e9f", 0)
	decomposed := newRegular(t, caseB, "case-b", "re\u0301f", 0)
	all := []Ensemble{composed, decomposed}

	assert.Equal(t, "r\u00e9f (case-a)", DistinguishableDisplayName(composed.Ident().String(), all))
}
