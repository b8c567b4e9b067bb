package realization

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/enskit/internal/ensemble"
)

func TestParseFilterType(t *testing.T) {
	ft, err := ParseFilterType("BY_PARAMETER_VALUES")
	require.NoError(t, err)
	assert.Equal(t, ByParameterValues, ft)

	_, err = ParseFilterType("by_parameter_values")
	assert.Error(t, err)
}

func TestParseIncludeExclude(t *testing.T) {
	v, err := ParseIncludeExclude("EXCLUDE")
	require.NoError(t, err)
	assert.Equal(t, Exclude, v)

	_, err = ParseIncludeExclude("MAYBE")
	assert.Error(t, err)
}

func TestValueSelection_Matches(t *testing.T) {
	discrete := DiscreteSelection(ensemble.Number(1), ensemble.Text("open"))
	assert.True(t, discrete.Matches(ensemble.Number(1)))
	assert.True(t, discrete.Matches(ensemble.Text("open")))
	assert.False(t, discrete.Matches(ensemble.Text("1")))
	assert.False(t, discrete.Matches(ensemble.Number(2)))

	rng := RangeSelection(0.5, 1.5)
	assert.True(t, rng.Matches(ensemble.Number(0.5)))
	assert.True(t, rng.Matches(ensemble.Number(1.5)))
	assert.False(t, rng.Matches(ensemble.Number(1.6)))
	assert.False(t, rng.Matches(ensemble.Text("1.0")))

	assert.False(t, DiscreteSelection().Matches(ensemble.Number(1)))
}

func TestValueSelection_EqualIgnoresOrder(t *testing.T) {
	a := DiscreteSelection(ensemble.Number(1), ensemble.Number(2))
	b := DiscreteSelection(ensemble.Number(2), ensemble.Number(1))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(DiscreteSelection(ensemble.Number(1))))
	assert.False(t, a.Equal(RangeSelection(1, 2)))
	assert.True(t, RangeSelection(1, 2).Equal(RangeSelection(1, 2)))
}

func TestValueSelection_JSON(t *testing.T) {
	in := DiscreteSelection(ensemble.Number(1.5), ensemble.Text("open"))
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"values":[1.5,"open"]}`, string(data))

	var out ValueSelection
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, in.Equal(out))

	data, err = json.Marshal(RangeSelection(0, 10))
	require.NoError(t, err)
	assert.JSONEq(t, `{"range":{"start":0,"end":10}}`, string(data))
}

func TestConfig_CloneIsDeep(t *testing.T) {
	cfg := DefaultConfig([]int{0, 1, 2})
	cfg.ParameterSelections = ParameterSelections{"P": DiscreteSelection(ensemble.Number(1))}

	clone := cfg.Clone()
	clone.RealizationNumberSelections[0] = Single(9)
	clone.ParameterSelections["Q"] = RangeSelection(0, 1)

	assert.Equal(t, []NumberSelection{Range(0, 2)}, cfg.RealizationNumberSelections)
	assert.Len(t, cfg.ParameterSelections, 1)
	assert.False(t, cfg.Equal(clone))
}

func TestConfig_Equal(t *testing.T) {
	a := DefaultConfig([]int{0, 1})
	b := DefaultConfig([]int{0, 1})
	assert.True(t, a.Equal(b))

	b.ParameterSelections = ParameterSelections{}
	assert.True(t, a.Equal(b), "nil and empty parameter selections are equal")

	b.IncludeOrExclude = Exclude
	assert.False(t, a.Equal(b))
}
