package ident

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	uuidA = "11111111-1111-1111-1111-111111111111"
	uuidB = "22222222-2222-1222-2222-222222222222"
	uuidC = "33333333-3333-4333-8333-333333333333"
)

func TestEncodeDelta_Example(t *testing.T) {
	got := EncodeDelta(
		Regular{CaseUUID: uuidA, EnsembleName: "iterA"},
		Regular{CaseUUID: uuidB, EnsembleName: "iterB"},
	)
	want := "~@@~11111111-1111-1111-1111-111111111111::iterA~@@~22222222-2222-1222-2222-222222222222::iterB~@@~"
	assert.Equal(t, want, got)

	d, err := DecodeDelta(got)
	require.NoError(t, err)
	assert.Equal(t, Regular{CaseUUID: uuidA, EnsembleName: "iterA"}, d.Compare)
	assert.Equal(t, Regular{CaseUUID: uuidB, EnsembleName: "iterB"}, d.Reference)
}

func TestRegular_RoundTrip(t *testing.T) {
	names := []string{
		"iter-0",
		"pred",
		"name with spaces",
		"a::b::c",
		"æøå-ensemble",
		"~tilde",
		"x",
	}
	for i := 0; i < 5; i++ {
		caseUUID := uuid.NewString()
		for _, name := range names {
			s := EncodeRegular(caseUUID, name)
			require.True(t, IsValidRegular(s), "encoded %q should be valid", s)

			r, err := DecodeRegular(s)
			require.NoError(t, err)
			assert.Equal(t, caseUUID, r.CaseUUID)
			assert.Equal(t, name, r.EnsembleName)
		}
	}
}

func TestDelta_RoundTrip(t *testing.T) {
	compare := Regular{CaseUUID: uuid.NewString(), EnsembleName: "iter-3"}
	reference := Regular{CaseUUID: uuid.NewString(), EnsembleName: "iter-0"}

	s := EncodeDelta(compare, reference)
	require.True(t, IsValidDelta(s))

	d, err := DecodeDelta(s)
	require.NoError(t, err)
	assert.Equal(t, Delta{Compare: compare, Reference: reference}, d)
	assert.Equal(t, s, d.String())
}

func TestIsValidRegular(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid", uuidA + "::iter-0", true},
		{"name with separator", uuidA + "::a::b", true},
		{"empty name", uuidA + "::", false},
		{"missing separator", uuidA + "iter-0", false},
		{"single colon", uuidA + ":iter-0", false},
		{"upper-case uuid", "AAAAAAAA-1111-1111-1111-111111111111::iter-0", false},
		{"version 0", "11111111-1111-0111-1111-111111111111::iter-0", false},
		{"version 6", "11111111-1111-6111-1111-111111111111::iter-0", false},
		{"short uuid", "1111111-1111-1111-1111-111111111111::iter-0", false},
		{"leading space", " " + uuidA + "::iter-0", false},
		{"empty", "", false},
		{"delta", EncodeDelta(Regular{uuidA, "a"}, Regular{uuidB, "b"}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidRegular(tt.input))
		})
	}
}

func TestIsValidDelta(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid", "~@@~" + uuidA + "::a~@@~" + uuidB + "::b~@@~", true},
		{"missing trailing delimiter", "~@@~" + uuidA + "::a~@@~" + uuidB + "::b", false},
		{"missing leading delimiter", uuidA + "::a~@@~" + uuidB + "::b~@@~", false},
		{"empty compare name", "~@@~" + uuidA + "::~@@~" + uuidB + "::b~@@~", false},
		{"empty reference name", "~@@~" + uuidA + "::a~@@~" + uuidB + "::~@@~", false},
		{"bad reference uuid", "~@@~" + uuidA + "::a~@@~not-a-uuid::b~@@~", false},
		{"single regular", "~@@~" + uuidA + "::a~@@~", false},
		{"regular", uuidA + "::a", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidDelta(tt.input))
		})
	}
}

func TestGrammars_MutuallyExclusive(t *testing.T) {
	inputs := []string{
		"",
		uuidA + "::a",
		uuidA + "::~@@~" + uuidB + "::b~@@~",
		"~@@~" + uuidA + "::a~@@~" + uuidB + "::b~@@~",
		"~@@~" + uuidA + "::a~@@~" + uuidB + "::b~@@~" + uuidC + "::c~@@~",
		"~@@~~@@~~@@~",
		"::",
		uuidA + "::" + uuidB + "::b",
	}
	for _, s := range inputs {
		assert.False(t, IsValidRegular(s) && IsValidDelta(s), "both grammars accepted %q", s)
		assert.Equal(t, IsValidRegular(s) || IsValidDelta(s), IsValid(s))
	}
}

func TestDecode_InvalidFormat(t *testing.T) {
	_, err := DecodeRegular("not-an-ident")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidIdentFormat))

	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "regular", fe.Grammar)
	assert.Equal(t, "not-an-ident", fe.Input)

	_, err = DecodeDelta(uuidA + "::a")
	require.Error(t, err)
	assert.True(t, IsFormatError(err))
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "delta", fe.Grammar)
}

func TestEncodeDeltaFromStrings(t *testing.T) {
	s, err := EncodeDeltaFromStrings(uuidA+"::a", uuidB+"::b")
	require.NoError(t, err)
	assert.Equal(t, EncodeDelta(Regular{uuidA, "a"}, Regular{uuidB, "b"}), s)

	_, err = EncodeDeltaFromStrings("bogus", uuidB+"::b")
	assert.ErrorIs(t, err, ErrInvalidIdentFormat)

	_, err = EncodeDeltaFromStrings(uuidA+"::a", "bogus")
	assert.ErrorIs(t, err, ErrInvalidIdentFormat)
}

func TestParse(t *testing.T) {
	id, err := Parse(uuidA + "::iter-0")
	require.NoError(t, err)
	assert.Equal(t, KindRegular, id.Kind())
	r, ok := id.Regular()
	require.True(t, ok)
	assert.Equal(t, "iter-0", r.EnsembleName)
	_, ok = id.Delta()
	assert.False(t, ok)

	deltaStr := EncodeDelta(Regular{uuidA, "a"}, Regular{uuidB, "b"})
	id, err = Parse(deltaStr)
	require.NoError(t, err)
	assert.Equal(t, KindDelta, id.Kind())
	assert.Equal(t, deltaStr, id.String())
	_, ok = id.Regular()
	assert.False(t, ok)

	_, err = Parse("garbage")
	require.Error(t, err)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "any", fe.Grammar)
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("garbage") })
	assert.NotPanics(t, func() { MustParse(uuidA + "::a") })
}

func TestIdent_ZeroAndEqual(t *testing.T) {
	var zero Ident
	assert.True(t, zero.IsZero())
	assert.Equal(t, "", zero.String())
	assert.Equal(t, "invalid", zero.Kind().String())

	a := FromRegular(Regular{uuidA, "a"})
	b := MustParse(uuidA + "::a")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(FromRegular(Regular{uuidA, "b"})))
}

func TestNewCaseUUID_MatchesGrammar(t *testing.T) {
	for i := 0; i < 20; i++ {
		u := NewCaseUUID()
		assert.True(t, IsValidCaseUUID(u), "generated uuid %q rejected", u)
		assert.True(t, IsValidRegular(EncodeRegular(u, "x")))
	}
}

// Names are not escaped, so a reference name that itself looks like
// "<name>~@@~<uuid>::<name>" shifts the split point. The greedy compare name
// absorbs everything up to the last boundary.
func TestDecodeDelta_UnescapedNameShiftsBoundary(t *testing.T) {
	s := EncodeDelta(
		Regular{CaseUUID: uuidA, EnsembleName: "a"},
		Regular{CaseUUID: uuidB, EnsembleName: "b~@@~" + uuidC + "::c"},
	)
	d, err := DecodeDelta(s)
	require.NoError(t, err)
	assert.Equal(t, "a~@@~"+uuidB+"::b", d.Compare.EnsembleName)
	assert.Equal(t, Regular{CaseUUID: uuidC, EnsembleName: "c"}, d.Reference)
}
