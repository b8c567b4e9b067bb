package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/enskit/internal/ensemble"
)

func TestRegular(t *testing.T) {
	e := Regular(t, CaseUUID(1), "iter-0", 2, 0, 1)

	assert.Equal(t, CaseUUID(1)+"::iter-0", e.Ident().String())
	assert.Equal(t, "case-0001", e.CaseName())
	assert.Equal(t, []int{0, 1, 2}, e.Realizations())
}

func TestNumberParam(t *testing.T) {
	p := NumberParam(t, "P", map[int]float64{2: 1.0, 0: 1.0, 1: 2.0})

	assert.True(t, p.IsContinuous())
	assert.Equal(t, []int{0, 1, 2}, p.Realizations())
	v, ok := p.ValueAt(1)
	require.True(t, ok)
	assert.Equal(t, ensemble.Number(2.0), v)
}

func TestTextParam(t *testing.T) {
	p := TextParam(t, "FAULT", map[int]string{0: "open", 1: "closed"})

	assert.False(t, p.IsContinuous())
	v, ok := p.ValueAt(0)
	require.True(t, ok)
	assert.Equal(t, ensemble.Text("open"), v)
}

func TestSetAndDelta(t *testing.T) {
	a := Regular(t, CaseUUID(1), "iter-0", 0, 1, 2)
	b := Regular(t, CaseUUID(2), "iter-0", 1, 2, 3)
	d := Delta(t, a, b)

	s := Set(t, []*ensemble.RegularEnsemble{a, b}, d)
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Has(d.Ident().String()))
	assert.Equal(t, []int{1, 2}, d.Realizations())
}
