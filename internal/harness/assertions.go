package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/enskit/internal/session"
)

// AssertionError is returned when an assertion fails.
// It includes the trace to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s", event.Step, event.Action)
		if event.Ident != "" {
			fmt.Fprintf(&buf, " %s", event.Ident)
		}
		if event.Error != "" {
			fmt.Fprintf(&buf, " (error: %s)", event.Error)
		}
		buf.WriteByte('\n')
	}

	return buf.String()
}

// AssertionContext exposes final state to state assertions.
type AssertionContext struct {
	Session *session.Session
}

func assertValidRealizations(s *session.Session, trace []TraceEvent, assertion Assertion) error {
	got, err := s.ValidRealizations(assertion.Ident)
	if err != nil {
		return &AssertionError{
			Type:     AssertValidRealizations,
			Expected: fmt.Sprintf("realizations %v for %s", assertion.Realizations, assertion.Ident),
			Actual:   fmt.Sprintf("error: %v", err),
			Trace:    trace,
		}
	}
	if !slices.Equal(got, assertion.Realizations) {
		return &AssertionError{
			Type:     AssertValidRealizations,
			Expected: fmt.Sprintf("realizations %v for %s", assertion.Realizations, assertion.Ident),
			Actual:   fmt.Sprintf("realizations %v", got),
			Trace:    trace,
		}
	}
	return nil
}

func assertIntersection(s *session.Session, trace []TraceEvent, assertion Assertion) error {
	got, err := s.RealizationsIntersection(assertion.Idents)
	if err != nil {
		return &AssertionError{
			Type:     AssertIntersection,
			Expected: fmt.Sprintf("realizations %v", assertion.Realizations),
			Actual:   fmt.Sprintf("error: %v", err),
			Trace:    trace,
		}
	}
	if !slices.Equal(got, assertion.Realizations) {
		return &AssertionError{
			Type:     AssertIntersection,
			Expected: fmt.Sprintf("realizations %v", assertion.Realizations),
			Actual:   fmt.Sprintf("realizations %v", got),
			Trace:    trace,
		}
	}
	return nil
}

// assertFilterIdents compares the filter set's key domain with the expected
// idents, ignoring order.
func assertFilterIdents(s *session.Session, trace []TraceEvent, assertion Assertion) error {
	if !s.FiltersEnabled() {
		return &AssertionError{
			Type:     AssertFilterIdents,
			Expected: fmt.Sprintf("filters for %v", assertion.Idents),
			Actual:   "realization filters not enabled",
			Trace:    trace,
		}
	}
	got := s.FilterSet().Idents()
	want := append([]string(nil), assertion.Idents...)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		return &AssertionError{
			Type:     AssertFilterIdents,
			Expected: fmt.Sprintf("filters for %v", want),
			Actual:   fmt.Sprintf("filters for %v", got),
			Trace:    trace,
		}
	}
	return nil
}

func assertUnsavedCount(s *session.Session, trace []TraceEvent, assertion Assertion) error {
	if got := s.UnsavedFilterCount(); got != assertion.Count {
		return &AssertionError{
			Type:     AssertUnsavedCount,
			Expected: fmt.Sprintf("%d filters with staged edits", assertion.Count),
			Actual:   fmt.Sprintf("%d filters with staged edits", got),
			Trace:    trace,
		}
	}
	return nil
}

// assertTraceContains checks if the trace contains the action, for the
// given ident when one is set.
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.Action == assertion.Action && (assertion.Ident == "" || event.Ident == assertion.Ident) {
			return nil
		}
	}

	expected := "action " + assertion.Action
	if assertion.Ident != "" {
		expected += " for " + assertion.Ident
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the actions appear as a subsequence of the
// trace. Intervening actions are allowed.
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	next := 0
	for _, event := range trace {
		if next < len(assertion.Actions) && event.Action == assertion.Actions[next] {
			next++
		}
	}
	if next == len(assertion.Actions) {
		return nil
	}

	return &AssertionError{
		Type:     AssertTraceOrder,
		Expected: fmt.Sprintf("actions in order: %v", assertion.Actions),
		Actual:   fmt.Sprintf("matched %d of %d, missing %s", next, len(assertion.Actions), assertion.Actions[next]),
		Trace:    trace,
	}
}

// assertTraceCount checks if the action appears exactly the specified number of times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Action == assertion.Action {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Action),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}

	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// State assertions need actx; trace assertions do not.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertValidRealizations, AssertIntersection, AssertFilterIdents, AssertUnsavedCount:
			if actx == nil || actx.Session == nil {
				err = fmt.Errorf("assertion[%d]: %s requires session context", i, assertion.Type)
				break
			}
			err = evaluateState(actx.Session, result.Trace, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

func evaluateState(s *session.Session, trace []TraceEvent, assertion Assertion) error {
	switch assertion.Type {
	case AssertValidRealizations:
		return assertValidRealizations(s, trace, assertion)
	case AssertIntersection:
		return assertIntersection(s, trace, assertion)
	case AssertFilterIdents:
		return assertFilterIdents(s, trace, assertion)
	default:
		return assertUnsavedCount(s, trace, assertion)
	}
}
