package ensemble

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	caseA = "11111111-1111-4111-8111-111111111111"
	caseB = "22222222-2222-4222-8222-222222222222"
)

func newRegular(t *testing.T, caseUUID, caseName, name string, reals ...int) *RegularEnsemble {
	t.Helper()
	e, err := NewRegularEnsemble(RegularConfig{
		CaseUUID:     caseUUID,
		CaseName:     caseName,
		EnsembleName: name,
		Realizations: reals,
	})
	require.NoError(t, err)
	return e
}

func newDelta(t *testing.T, compare, reference *RegularEnsemble) *DeltaEnsemble {
	t.Helper()
	d, err := NewDeltaEnsemble(compare, reference, "", "")
	require.NoError(t, err)
	return d
}
