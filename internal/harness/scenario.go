package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/enskit/internal/ensemble"
	"github.com/roach88/enskit/internal/ident"
	"github.com/roach88/enskit/internal/loader"
	"github.com/roach88/enskit/internal/realization"
)

// Scenario defines a filter behaviour scenario: a sequence of steps against
// a fresh session followed by assertions on the trace and final state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Filters enables realization filters before the first step.
	Filters bool `yaml:"filters,omitempty"`

	// Snapshots are ensemble sets that load steps refer to by name.
	Snapshots map[string]loader.Snapshot `yaml:"snapshots"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one action in a scenario.
type Step struct {
	Action string `yaml:"action"`

	// Snapshot names the snapshot for load.
	Snapshot string `yaml:"snapshot,omitempty"`

	// Ident selects the filter for stage, commit and discard.
	Ident string `yaml:"ident,omitempty"`

	// Stage fields. Unset fields keep the filter's current staged value.
	FilterType       string                           `yaml:"filter_type,omitempty"`
	IncludeOrExclude string                           `yaml:"include_or_exclude,omitempty"`
	Realizations     *string                          `yaml:"realizations,omitempty"`
	Parameters       map[string]ParameterSelectionDoc `yaml:"parameters,omitempty"`

	// ExpectError is the error kind the step must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// ParameterSelectionDoc is the YAML form of a realization.ValueSelection.
type ParameterSelectionDoc struct {
	Values []any                    `yaml:"values,omitempty"`
	Range  *realization.NumberRange `yaml:"range,omitempty"`
}

// Step actions.
const (
	ActionLoad          = "load"
	ActionEnableFilters = "enable_filters"
	ActionStage         = "stage"
	ActionCommit        = "commit"
	ActionCommitAll     = "commit_all"
	ActionDiscard       = "discard"
	ActionDiscardAll    = "discard_all"
	ActionSave          = "save"
	ActionRestore       = "restore"
)

// Error kinds for expect_error and trace events.
const (
	ErrKindInvalidIdent       = "invalid_ident_format"
	ErrKindInvariantViolation = "invariant_violation"
	ErrKindFiltersDisabled    = "filters_disabled"
)

// Assertion validates trace or final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Ident is the ensemble for valid_realizations, and optionally narrows
	// trace_contains.
	Ident string `yaml:"ident,omitempty"`

	// Idents lists ensembles for intersection, or the expected key domain
	// for filter_idents.
	Idents []string `yaml:"idents,omitempty"`

	// Realizations is the expected result. Write [] to expect none.
	Realizations []int `yaml:"realizations,omitempty"`

	// Action is used by trace_contains and trace_count.
	Action string `yaml:"action,omitempty"`

	// Actions is the expected order for trace_order.
	Actions []string `yaml:"actions,omitempty"`

	// Count is used by trace_count and unsaved_count.
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertValidRealizations = "valid_realizations"
	AssertIntersection      = "intersection"
	AssertFilterIdents      = "filter_idents"
	AssertUnsavedCount      = "unsaved_count"
	AssertTraceContains     = "trace_contains"
	AssertTraceOrder        = "trace_order"
	AssertTraceCount        = "trace_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields, or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(s, step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}

	return nil
}

func validateStep(s *Scenario, step Step) error {
	switch step.Action {
	case ActionLoad:
		if step.Snapshot == "" {
			return fmt.Errorf("load requires 'snapshot' field")
		}
		if _, ok := s.Snapshots[step.Snapshot]; !ok {
			return fmt.Errorf("unknown snapshot %q", step.Snapshot)
		}
	case ActionStage:
		if step.Ident == "" {
			return fmt.Errorf("stage requires 'ident' field")
		}
		if step.FilterType != "" {
			if _, err := realization.ParseFilterType(step.FilterType); err != nil {
				return err
			}
		}
		if step.IncludeOrExclude != "" {
			if _, err := realization.ParseIncludeExclude(step.IncludeOrExclude); err != nil {
				return err
			}
		}
		if step.Realizations != nil {
			if _, err := realization.ParseSelections(*step.Realizations); err != nil {
				return err
			}
		}
		if _, err := parameterSelections(step.Parameters); err != nil {
			return err
		}
	case ActionCommit, ActionDiscard:
		if step.Ident == "" {
			return fmt.Errorf("%s requires 'ident' field", step.Action)
		}
	case ActionEnableFilters, ActionCommitAll, ActionDiscardAll, ActionSave, ActionRestore:
	case "":
		return fmt.Errorf("action is required")
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}

	switch step.ExpectError {
	case "", ErrKindInvalidIdent, ErrKindInvariantViolation, ErrKindFiltersDisabled:
	default:
		return fmt.Errorf("unknown expect_error %q", step.ExpectError)
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertValidRealizations:
		if a.Ident == "" {
			return fmt.Errorf("valid_realizations requires 'ident' field")
		}
		if a.Realizations == nil {
			return fmt.Errorf("valid_realizations requires 'realizations' field")
		}
	case AssertIntersection:
		if len(a.Idents) == 0 {
			return fmt.Errorf("intersection requires 'idents' field")
		}
		if a.Realizations == nil {
			return fmt.Errorf("intersection requires 'realizations' field")
		}
	case AssertFilterIdents:
		if a.Idents == nil {
			return fmt.Errorf("filter_idents requires 'idents' field")
		}
		for _, id := range a.Idents {
			if !ident.IsValid(id) {
				return fmt.Errorf("filter_idents: invalid ident %q", id)
			}
		}
	case AssertUnsavedCount:
		if a.Count < 0 {
			return fmt.Errorf("unsaved_count: count must be non-negative")
		}
	case AssertTraceContains:
		if a.Action == "" {
			return fmt.Errorf("trace_contains requires 'action' field")
		}
	case AssertTraceOrder:
		if len(a.Actions) < 2 {
			return fmt.Errorf("trace_order requires at least 2 actions")
		}
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("trace_count requires 'action' field")
		}
		if a.Count < 0 {
			return fmt.Errorf("trace_count: count must be non-negative")
		}
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

// parameterSelections converts YAML selections into filter form.
// A nil map yields nil.
func parameterSelections(docs map[string]ParameterSelectionDoc) (realization.ParameterSelections, error) {
	if docs == nil {
		return nil, nil
	}
	out := make(realization.ParameterSelections, len(docs))
	for key, doc := range docs {
		if doc.Range != nil {
			if len(doc.Values) > 0 {
				return nil, fmt.Errorf("parameter %q: values and range are exclusive", key)
			}
			out[ensemble.ParameterKey(key)] = realization.RangeSelection(doc.Range.Start, doc.Range.End)
			continue
		}
		values := make([]ensemble.Value, 0, len(doc.Values))
		for _, raw := range doc.Values {
			v, err := ensemble.ValueFromAny(raw)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", key, err)
			}
			values = append(values, v)
		}
		out[ensemble.ParameterKey(key)] = realization.DiscreteSelection(values...)
	}
	return out, nil
}
