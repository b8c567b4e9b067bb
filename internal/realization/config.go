package realization

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/roach88/enskit/internal/ensemble"
)

// FilterType selects how realizations are chosen.
type FilterType string

const (
	ByRealizationNumber FilterType = "BY_REALIZATION_NUMBER"
	ByParameterValues   FilterType = "BY_PARAMETER_VALUES"
)

// ParseFilterType accepts the canonical upper-case names.
func ParseFilterType(s string) (FilterType, error) {
	switch FilterType(s) {
	case ByRealizationNumber, ByParameterValues:
		return FilterType(s), nil
	}
	return "", fmt.Errorf("unknown filter type %q", s)
}

// IncludeExclude is the polarity applied to the selected set.
type IncludeExclude string

const (
	Include IncludeExclude = "INCLUDE"
	Exclude IncludeExclude = "EXCLUDE"
)

// ParseIncludeExclude accepts "INCLUDE" or "EXCLUDE".
func ParseIncludeExclude(s string) (IncludeExclude, error) {
	switch IncludeExclude(s) {
	case Include, Exclude:
		return IncludeExclude(s), nil
	}
	return "", fmt.Errorf("unknown include/exclude value %q", s)
}

// Criteria combines per-parameter matches.
type Criteria string

// RequireEquality keeps a realization only if every constrained parameter
// has an acceptable value there.
const RequireEquality Criteria = "REQUIRE_EQUALITY"

// NumberRange is an inclusive numeric interval for continuous parameters.
type NumberRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// ValueSelection is the set of acceptable values for one parameter: either
// discrete Values or, when Range is set, a numeric interval.
type ValueSelection struct {
	Values []ensemble.Value
	Range  *NumberRange
}

// DiscreteSelection accepts exactly the given values.
func DiscreteSelection(values ...ensemble.Value) ValueSelection {
	return ValueSelection{Values: values}
}

// RangeSelection accepts numbers in [start, end].
func RangeSelection(start, end float64) ValueSelection {
	return ValueSelection{Range: &NumberRange{Start: start, End: end}}
}

// Matches reports whether v is acceptable.
func (s ValueSelection) Matches(v ensemble.Value) bool {
	if s.Range != nil {
		n, ok := v.(ensemble.Number)
		return ok && float64(n) >= s.Range.Start && float64(n) <= s.Range.End
	}
	for _, candidate := range s.Values {
		if ensemble.ValuesEqual(candidate, v) {
			return true
		}
	}
	return false
}

// Equal compares ranges exactly and discrete values as sets.
func (s ValueSelection) Equal(other ValueSelection) bool {
	if (s.Range == nil) != (other.Range == nil) {
		return false
	}
	if s.Range != nil {
		return *s.Range == *other.Range
	}
	return containsAll(s.Values, other.Values) && containsAll(other.Values, s.Values)
}

func containsAll(haystack, needles []ensemble.Value) bool {
	for _, n := range needles {
		found := false
		for _, h := range haystack {
			if ensemble.ValuesEqual(h, n) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s ValueSelection) clone() ValueSelection {
	out := ValueSelection{Values: slices.Clone(s.Values)}
	if s.Range != nil {
		r := *s.Range
		out.Range = &r
	}
	return out
}

type valueSelectionJSON struct {
	Values []any        `json:"values,omitempty"`
	Range  *NumberRange `json:"range,omitempty"`
}

// MarshalJSON writes numbers as JSON numbers and text as JSON strings.
func (s ValueSelection) MarshalJSON() ([]byte, error) {
	out := valueSelectionJSON{Range: s.Range}
	for _, v := range s.Values {
		switch val := v.(type) {
		case ensemble.Number:
			out.Values = append(out.Values, float64(val))
		case ensemble.Text:
			out.Values = append(out.Values, string(val))
		default:
			return nil, fmt.Errorf("unsupported parameter value type %T", v)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *ValueSelection) UnmarshalJSON(data []byte) error {
	var raw valueSelectionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Range = raw.Range
	s.Values = nil
	for i, v := range raw.Values {
		val, err := ensemble.ValueFromAny(v)
		if err != nil {
			return fmt.Errorf("values[%d]: %w", i, err)
		}
		s.Values = append(s.Values, val)
	}
	return nil
}

// ParameterSelections maps a parameter to its acceptable values.
type ParameterSelections map[ensemble.ParameterKey]ValueSelection

// Clone returns a deep copy.
func (ps ParameterSelections) Clone() ParameterSelections {
	if ps == nil {
		return nil
	}
	out := make(ParameterSelections, len(ps))
	for k, v := range ps {
		out[k] = v.clone()
	}
	return out
}

// Equal compares key sets and each selection. nil and empty are equal.
func (ps ParameterSelections) Equal(other ParameterSelections) bool {
	if len(ps) != len(other) {
		return false
	}
	for k, v := range ps {
		o, ok := other[k]
		if !ok || !v.Equal(o) {
			return false
		}
	}
	return true
}

// Keys returns the constrained parameter keys, sorted.
func (ps ParameterSelections) Keys() []ensemble.ParameterKey {
	var keys []ensemble.ParameterKey
	for k := range ps {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Config is a complete filter configuration.
type Config struct {
	FilterType                  FilterType          `json:"filter_type"`
	IncludeOrExclude            IncludeExclude      `json:"include_or_exclude"`
	RealizationNumberSelections []NumberSelection   `json:"realization_number_selections"`
	ParameterSelections         ParameterSelections `json:"parameter_selections,omitempty"`
	Criteria                    Criteria            `json:"criteria"`
}

// DefaultConfig includes every given realization by number.
func DefaultConfig(realizations []int) Config {
	return Config{
		FilterType:                  ByRealizationNumber,
		IncludeOrExclude:            Include,
		RealizationNumberSelections: SelectionsFromRealizations(realizations),
		Criteria:                    RequireEquality,
	}
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	out := c
	out.RealizationNumberSelections = slices.Clone(c.RealizationNumberSelections)
	out.ParameterSelections = c.ParameterSelections.Clone()
	return out
}

// Equal reports whether two configurations would filter identically for any
// ensemble. Selection order matters for numbers, not for parameter values.
func (c Config) Equal(other Config) bool {
	return c.FilterType == other.FilterType &&
		c.IncludeOrExclude == other.IncludeOrExclude &&
		c.Criteria == other.Criteria &&
		slices.Equal(c.RealizationNumberSelections, other.RealizationNumberSelections) &&
		c.ParameterSelections.Equal(other.ParameterSelections)
}
