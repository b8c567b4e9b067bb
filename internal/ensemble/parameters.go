package ensemble

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ParameterIdent names a parameter. Group is optional.
type ParameterIdent struct {
	Name  string `json:"name"`
	Group string `json:"group,omitempty"`
}

// ParameterKey is the string form of a ParameterIdent used as a map key.
// Format: "NAME" without a group, "GROUP:NAME" with one.
type ParameterKey string

// Key returns the map key for p.
func (p ParameterIdent) Key() ParameterKey {
	if p.Group == "" {
		return ParameterKey(p.Name)
	}
	return ParameterKey(p.Group + ":" + p.Name)
}

// ParseParameterKey splits a key back into its ident. The group is everything
// before the first ':'.
func ParseParameterKey(key ParameterKey) ParameterIdent {
	group, name, found := strings.Cut(string(key), ":")
	if !found {
		return ParameterIdent{Name: string(key)}
	}
	return ParameterIdent{Name: name, Group: group}
}

// Value is a sealed interface for parameter values.
// Only Number and Text implement it.
type Value interface {
	paramValue()
	String() string
}

// Number is a numeric parameter value.
type Number float64

func (Number) paramValue() {}

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

// Text is a string parameter value.
type Text string

func (Text) paramValue() {}

func (t Text) String() string {
	return string(t)
}

// ValuesEqual reports whether a and b have the same type and value.
func ValuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case Text:
		bv, ok := b.(Text)
		return ok && av == bv
	default:
		return false
	}
}

// ValueFromAny converts a decoded scalar (YAML, JSON, CUE export) into a Value.
func ValueFromAny(v any) (Value, error) {
	switch val := v.(type) {
	case Value:
		return val, nil
	case string:
		return Text(val), nil
	case int:
		return Number(val), nil
	case int64:
		return Number(val), nil
	case float64:
		return Number(val), nil
	case float32:
		return Number(val), nil
	default:
		return nil, fmt.Errorf("unsupported parameter value type %T", v)
	}
}

// Parameter holds one value per realization.
type Parameter struct {
	ident        ParameterIdent
	continuous   bool
	description  string
	realizations []int
	values       map[int]Value
}

// NewParameter builds a parameter from parallel realization and value slices.
// Continuous parameters must hold only Number values.
func NewParameter(id ParameterIdent, continuous bool, description string, realizations []int, values []Value) (*Parameter, error) {
	if id.Name == "" {
		return nil, fmt.Errorf("parameter name is required")
	}
	if len(realizations) != len(values) {
		return nil, fmt.Errorf("parameter %s: %d realizations but %d values", id.Key(), len(realizations), len(values))
	}

	p := &Parameter{
		ident:       id,
		continuous:  continuous,
		description: description,
		values:      make(map[int]Value, len(values)),
	}
	for i, realization := range realizations {
		if _, dup := p.values[realization]; dup {
			return nil, fmt.Errorf("parameter %s: duplicate realization %d", id.Key(), realization)
		}
		if values[i] == nil {
			return nil, fmt.Errorf("parameter %s: nil value for realization %d", id.Key(), realization)
		}
		if _, isNum := values[i].(Number); continuous && !isNum {
			return nil, fmt.Errorf("parameter %s: continuous parameter has non-numeric value %q", id.Key(), values[i].String())
		}
		p.values[realization] = values[i]
	}
	p.realizations = slices.Clone(realizations)
	slices.Sort(p.realizations)
	return p, nil
}

// Ident returns the parameter identity.
func (p *Parameter) Ident() ParameterIdent { return p.ident }

// IsContinuous reports whether the parameter is continuous (numeric range) rather than discrete.
func (p *Parameter) IsContinuous() bool { return p.continuous }

// Description returns the free-text description, possibly empty.
func (p *Parameter) Description() string { return p.description }

// Realizations returns the realizations that carry a value, ascending.
func (p *Parameter) Realizations() []int { return slices.Clone(p.realizations) }

// ValueAt returns the value at the given realization.
func (p *Parameter) ValueAt(realization int) (Value, bool) {
	v, ok := p.values[realization]
	return v, ok
}

// Parameters is a read-only collection of parameters keyed by ParameterKey.
// A nil *Parameters behaves as an empty collection.
type Parameters struct {
	byKey map[ParameterKey]*Parameter
	order []ParameterKey
}

// NewParameters builds a collection, rejecting duplicate keys.
func NewParameters(params ...*Parameter) (*Parameters, error) {
	ps := &Parameters{byKey: make(map[ParameterKey]*Parameter, len(params))}
	for _, p := range params {
		key := p.ident.Key()
		if _, dup := ps.byKey[key]; dup {
			return nil, fmt.Errorf("duplicate parameter %s", key)
		}
		ps.byKey[key] = p
		ps.order = append(ps.order, key)
	}
	return ps, nil
}

// Len returns the number of parameters.
func (ps *Parameters) Len() int {
	if ps == nil {
		return 0
	}
	return len(ps.order)
}

// Keys returns parameter keys in insertion order.
func (ps *Parameters) Keys() []ParameterKey {
	if ps == nil {
		return nil
	}
	return slices.Clone(ps.order)
}

// Get returns the parameter for key.
func (ps *Parameters) Get(key ParameterKey) (*Parameter, bool) {
	if ps == nil {
		return nil, false
	}
	p, ok := ps.byKey[key]
	return p, ok
}

// ValueAt returns the value of parameter key at the given realization.
func (ps *Parameters) ValueAt(key ParameterKey, realization int) (Value, bool) {
	p, ok := ps.Get(key)
	if !ok {
		return nil, false
	}
	return p.ValueAt(realization)
}
