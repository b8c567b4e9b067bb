// Package harness runs YAML scenarios against a session and checks the
// resulting trace and final filter state.
//
// # Scenario Format
//
//	name: staged_then_commit
//	description: "Setters do not change committed realizations"
//	filters: true
//	snapshots:
//	  initial:
//	    ensembles:
//	      - case_uuid: 11111111-1111-4111-8111-111111111111
//	        name: iter-0
//	        realizations: [0, 1, 2, 3, 4]
//	steps:
//	  - action: load
//	    snapshot: initial
//	  - action: stage
//	    ident: 11111111-1111-4111-8111-111111111111::iter-0
//	    realizations: "0,2"
//	  - action: commit
//	    ident: 11111111-1111-4111-8111-111111111111::iter-0
//	assertions:
//	  - type: valid_realizations
//	    ident: 11111111-1111-4111-8111-111111111111::iter-0
//	    realizations: [0, 2]
//
// Snapshots use the loader document shape. Each scenario runs against a fresh
// session and a private in-memory store, so save and restore steps never
// leak between scenarios.
//
// # Step Actions
//
//   - load: replace the ensemble set with a named snapshot
//   - enable_filters: create the realization filter set
//   - stage: edit a filter's staged configuration
//   - commit / discard: apply or drop one filter's staged edits
//   - commit_all / discard_all: the same for every dirty filter
//   - save / restore: persist or reload filters through the store
//
// A step may declare expect_error (invalid_ident_format,
// invariant_violation, filters_disabled); the step then passes only if it
// fails that way.
//
// # Assertion Types
//
//   - valid_realizations: the session's valid realizations for an ident
//   - intersection: realizations valid for every listed ident
//   - filter_idents: the filter set's key domain
//   - unsaved_count: number of filters with staged edits
//   - trace_contains, trace_order, trace_count: checks over the step trace
//
// # Golden Traces
//
// The trace is serialised one event per line so golden files diff cleanly.
// Runs are deterministic: no wall-clock values appear in the trace.
package harness
