package testutil

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/enskit/internal/ensemble"
)

// Regular builds a regular ensemble with no parameters. The case name is
// "case-<last four digits of the uuid>".
func Regular(t testing.TB, caseUUID, name string, realizations ...int) *ensemble.RegularEnsemble {
	t.Helper()
	return RegularWithParams(t, caseUUID, name, realizations)
}

// RegularWithParams builds a regular ensemble carrying params.
func RegularWithParams(t testing.TB, caseUUID, name string, realizations []int, params ...*ensemble.Parameter) *ensemble.RegularEnsemble {
	t.Helper()
	ps, err := ensemble.NewParameters(params...)
	require.NoError(t, err)

	e, err := ensemble.NewRegularEnsemble(ensemble.RegularConfig{
		CaseUUID:     caseUUID,
		CaseName:     "case-" + caseUUID[len(caseUUID)-4:],
		EnsembleName: name,
		Realizations: realizations,
		Parameters:   ps,
	})
	require.NoError(t, err)
	return e
}

// Delta builds a delta ensemble from two regular ensembles.
func Delta(t testing.TB, compare, reference *ensemble.RegularEnsemble) *ensemble.DeltaEnsemble {
	t.Helper()
	d, err := ensemble.NewDeltaEnsemble(compare, reference, "", "")
	require.NoError(t, err)
	return d
}

// NumberParam builds a continuous parameter from a realization -> value map.
func NumberParam(t testing.TB, name string, values map[int]float64) *ensemble.Parameter {
	t.Helper()
	reals, vals := splitValues(values, func(v float64) ensemble.Value { return ensemble.Number(v) })
	p, err := ensemble.NewParameter(ensemble.ParameterIdent{Name: name}, true, "", reals, vals)
	require.NoError(t, err)
	return p
}

// TextParam builds a discrete string parameter from a realization -> value map.
func TextParam(t testing.TB, name string, values map[int]string) *ensemble.Parameter {
	t.Helper()
	reals, vals := splitValues(values, func(v string) ensemble.Value { return ensemble.Text(v) })
	p, err := ensemble.NewParameter(ensemble.ParameterIdent{Name: name}, false, "", reals, vals)
	require.NoError(t, err)
	return p
}

// Set builds an ensemble set.
func Set(t testing.TB, regulars []*ensemble.RegularEnsemble, deltas ...*ensemble.DeltaEnsemble) *ensemble.Set {
	t.Helper()
	s, err := ensemble.NewSet(regulars, deltas)
	require.NoError(t, err)
	return s
}

func splitValues[V any](m map[int]V, wrap func(V) ensemble.Value) ([]int, []ensemble.Value) {
	reals := make([]int, 0, len(m))
	for r := range m {
		reals = append(reals, r)
	}
	slices.Sort(reals)

	vals := make([]ensemble.Value, len(reals))
	for i, r := range reals {
		vals[i] = wrap(m[r])
	}
	return reals, vals
}
