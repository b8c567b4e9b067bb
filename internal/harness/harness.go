package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/enskit/internal/ensemble"
	"github.com/roach88/enskit/internal/ident"
	"github.com/roach88/enskit/internal/loader"
	"github.com/roach88/enskit/internal/realization"
	"github.com/roach88/enskit/internal/session"
	"github.com/roach88/enskit/internal/store"
)

// Harness executes scenario steps against one session and store.
type Harness struct {
	session   *session.Session
	store     *store.Store
	snapshots map[string]*ensemble.Set
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh session and in-memory store. Snapshot
// documents are built before the first step, so a malformed snapshot is
// reported as an error rather than a failed result. A step that fails in a
// way it did not declare marks the result as failed and execution continues.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	snapshots := make(map[string]*ensemble.Set, len(scenario.Snapshots))
	for name, doc := range scenario.Snapshots {
		set, err := loader.Build(doc)
		if err != nil {
			return nil, fmt.Errorf("snapshot %q: %w", name, err)
		}
		snapshots[name] = set
	}

	opts := []session.Option{
		session.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	if scenario.Filters {
		opts = append(opts, session.WithRealizationFilters())
	}

	h := &Harness{
		session:   session.New(opts...),
		store:     st,
		snapshots: snapshots,
	}

	ctx := context.Background()
	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i+1, step, result); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}
	}

	actx := &AssertionContext{Session: h.session}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// executeStep runs one step and appends its trace event. Failures the
// session reports are recorded on the result; anything else is returned.
func (h *Harness) executeStep(ctx context.Context, n int, step Step, result *Result) error {
	ev := TraceEvent{Step: n, Action: step.Action, Ident: step.Ident}

	stepErr := h.apply(ctx, step, &ev)
	kind := errorKind(stepErr)
	if stepErr != nil && kind == "" {
		return stepErr
	}
	ev.Error = kind
	result.AddTrace(ev)

	switch {
	case step.ExpectError != "" && kind != step.ExpectError:
		result.AddError(fmt.Sprintf("step %d (%s): expected error %s, got %s",
			n, step.Action, step.ExpectError, describeKind(kind)))
	case step.ExpectError == "" && stepErr != nil:
		result.AddError(fmt.Sprintf("step %d (%s): %v", n, step.Action, stepErr))
	}
	return nil
}

func (h *Harness) apply(ctx context.Context, step Step, ev *TraceEvent) error {
	s := h.session
	switch step.Action {
	case ActionLoad:
		set, ok := h.snapshots[step.Snapshot]
		if !ok {
			return fmt.Errorf("unknown snapshot %q", step.Snapshot)
		}
		res := s.SetEnsembleSet(set)
		ev.Snapshot = step.Snapshot
		ev.Added = res.Added
		ev.Removed = res.Removed
		ev.Refreshed = res.Refreshed
		return nil

	case ActionEnableFilters:
		s.EnableRealizationFilters()
		ev.Count = s.FilterSet().Len()
		return nil

	case ActionStage:
		f, err := s.Filter(step.Ident)
		if err != nil {
			return err
		}
		cfg, err := stagedConfig(f.StagedConfig(), step)
		if err != nil {
			return err
		}
		f.Stage(cfg)
		return nil

	case ActionCommit:
		if err := s.ApplyFilter(step.Ident); err != nil {
			return err
		}
		reals, err := s.ValidRealizations(step.Ident)
		if err != nil {
			return err
		}
		ev.Realizations = reals
		return nil

	case ActionDiscard:
		f, err := s.Filter(step.Ident)
		if err != nil {
			return err
		}
		f.Discard()
		return nil

	case ActionCommitAll:
		n, err := s.ApplyAllFilters()
		ev.Count = n
		return err

	case ActionDiscardAll:
		n, err := s.DiscardAllFilters()
		ev.Count = n
		return err

	case ActionSave:
		n, err := s.SaveFilters(ctx, h.store)
		ev.Count = n
		return err

	case ActionRestore:
		n, err := s.RestoreFilters(ctx, h.store)
		ev.Count = n
		return err
	}
	return fmt.Errorf("unknown action %q", step.Action)
}

// stagedConfig overlays the step's stage fields on the current staged
// configuration.
func stagedConfig(cfg realization.Config, step Step) (realization.Config, error) {
	cfg = cfg.Clone()
	if step.FilterType != "" {
		ft, err := realization.ParseFilterType(step.FilterType)
		if err != nil {
			return cfg, err
		}
		cfg.FilterType = ft
	}
	if step.IncludeOrExclude != "" {
		ie, err := realization.ParseIncludeExclude(step.IncludeOrExclude)
		if err != nil {
			return cfg, err
		}
		cfg.IncludeOrExclude = ie
	}
	if step.Realizations != nil {
		sel, err := realization.ParseSelections(*step.Realizations)
		if err != nil {
			return cfg, err
		}
		cfg.RealizationNumberSelections = sel
	}
	if step.Parameters != nil {
		ps, err := parameterSelections(step.Parameters)
		if err != nil {
			return cfg, err
		}
		cfg.ParameterSelections = ps
	}
	return cfg, nil
}

// errorKind maps session errors onto scenario error kinds. Errors outside
// those kinds map to "".
func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ident.ErrInvalidIdentFormat):
		return ErrKindInvalidIdent
	case errors.Is(err, realization.ErrFilterSetInvariantViolation):
		return ErrKindInvariantViolation
	case errors.Is(err, session.ErrFiltersDisabled):
		return ErrKindFiltersDisabled
	}
	return ""
}

func describeKind(kind string) string {
	if kind == "" {
		return "no error"
	}
	return kind
}
