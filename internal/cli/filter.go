package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/enskit/internal/ensemble"
	"github.com/roach88/enskit/internal/ident"
	"github.com/roach88/enskit/internal/metrics"
	"github.com/roach88/enskit/internal/realization"
	"github.com/roach88/enskit/internal/session"
	"github.com/roach88/enskit/internal/store"
)

// FilterOptions holds flags for the filter command.
type FilterOptions struct {
	*RootOptions
	Numbers     string   // realization selections, e.g. "0-3,5"
	Exclude     bool     // invert the selection
	Params      []string // KEY=v1,v2
	ParamRanges []string // KEY=lo:hi
	DB          string   // SQLite path for saved filters
	Restore     bool     // restore saved filters before applying flags
}

// FilterResult is the payload of the filter command.
type FilterResult struct {
	Ident            string   `json:"ident"`
	FilterType       string   `json:"filter_type"`
	IncludeOrExclude string   `json:"include_or_exclude"`
	Selections       string   `json:"selections,omitempty"`
	Parameters       []string `json:"parameters,omitempty"`
	Realizations     []int    `json:"realizations"`
	Available        int      `json:"available"`
	Restored         int      `json:"restored,omitempty"`
	Saved            int      `json:"saved,omitempty"`
}

// NewFilterCommand creates the filter command.
func NewFilterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "filter <snapshot> <ident>",
		Short: "Apply a realization filter to one ensemble",
		Long: `Apply a realization filter to one ensemble of a snapshot and print the
resulting valid realizations.

Without filter flags the ensemble's current filter is shown unchanged.
--numbers filters by realization number; --param and --param-range filter by
parameter values and may be repeated. The two styles are exclusive.

With --db the filter state of every ensemble in the snapshot is saved to a
SQLite database after the filter is applied. --restore loads saved filters
from that database first, so flags refine the saved filter.

Examples:
  enskit filter drogon.yaml <ident> --numbers 0-3,5
  enskit filter drogon.yaml <ident> --numbers 1 --exclude
  enskit filter drogon.yaml <ident> --param FAULT_MODEL=open
  enskit filter drogon.yaml <ident> --param-range GLOBVAR:MULTFLT=0.5:1.5
  enskit filter drogon.yaml <ident> --db filters.db --restore`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd.Context(), opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Numbers, "numbers", "", "realization numbers to select, e.g. 0-3,5")
	cmd.Flags().BoolVar(&opts.Exclude, "exclude", false, "exclude the selection instead of including it")
	cmd.Flags().StringArrayVar(&opts.Params, "param", nil, "parameter values to select, KEY=v1,v2 (repeatable)")
	cmd.Flags().StringArrayVar(&opts.ParamRanges, "param-range", nil, "numeric parameter range, KEY=lo:hi (repeatable)")
	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database for saved filters")
	cmd.Flags().BoolVar(&opts.Restore, "restore", false, "restore saved filters from --db first")

	return cmd
}

func runFilter(ctx context.Context, opts *FilterOptions, snapshotPath, identString string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd)

	if opts.Restore && opts.DB == "" {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "--restore requires --db", nil)
	}
	if opts.Numbers != "" && (len(opts.Params) > 0 || len(opts.ParamRanges) > 0) {
		return f.Fail(ExitCommandError, ErrCodeInvalidSelection, "--numbers cannot be combined with --param or --param-range", nil)
	}

	set, err := loadSnapshot(f, snapshotPath)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	sess := session.New(
		session.WithLogger(opts.Logger()),
		session.WithMetrics(metrics.NewRecorder(reg)),
		session.WithRealizationFilters(),
	)
	sess.SetEnsembleSet(set)

	var st *store.Store
	if opts.DB != "" {
		st, err = store.Open(opts.DB)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to open filter database", err)
		}
		defer st.Close()
	}

	result := FilterResult{Ident: identString}
	if opts.Restore {
		n, err := sess.RestoreFilters(ctx, st)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to restore filters", err)
		}
		result.Restored = n
		f.VerboseLog("Restored %d filter(s) from %s", n, opts.DB)
	}

	flt, err := sess.Filter(identString)
	switch {
	case errors.Is(err, ident.ErrInvalidIdentFormat):
		return f.Fail(ExitCommandError, ErrCodeInvalidIdent, "invalid ident", err)
	case errors.Is(err, realization.ErrFilterSetInvariantViolation):
		return f.Fail(ExitCommandError, ErrCodeUnknownEnsemble, "ensemble not in snapshot", err)
	case err != nil:
		return f.Fail(ExitCommandError, ErrCodeGeneric, "failed to look up filter", err)
	}

	cfg, changed, err := configFromFlags(opts, flt)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidSelection, "invalid filter flags", err)
	}
	if changed {
		flt.Stage(cfg)
	}
	if changed || flt.IsDirty() {
		if err := sess.ApplyFilter(identString); err != nil {
			return f.Fail(ExitCommandError, ErrCodeGeneric, "failed to apply filter", err)
		}
	}

	if st != nil {
		n, err := sess.SaveFilters(ctx, st)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to save filters", err)
		}
		result.Saved = n
		f.VerboseLog("Saved %d filter(s) to %s", n, opts.DB)
	}

	committed := flt.CommittedConfig()
	result.FilterType = string(committed.FilterType)
	result.IncludeOrExclude = string(committed.IncludeOrExclude)
	if committed.FilterType == realization.ByRealizationNumber {
		result.Selections = realization.FormatSelections(committed.RealizationNumberSelections)
	} else {
		result.Parameters = describeParameterSelections(committed.ParameterSelections)
	}
	result.Realizations, err = sess.ValidRealizations(identString)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "failed to read valid realizations", err)
	}
	result.Available = len(flt.Ensemble().Realizations())
	logMetrics(f, reg)

	if f.IsJSON() {
		return f.Success(result)
	}
	return outputFilterText(f, result)
}

// logMetrics writes the session metrics to the error stream in verbose mode.
func logMetrics(f *OutputFormatter, g prometheus.Gatherer) {
	if !f.Verbose {
		return
	}
	lines, err := metrics.Samples(g)
	if err != nil {
		f.VerboseLog("metrics unavailable: %v", err)
		return
	}
	for _, line := range lines {
		f.VerboseLog("metric %s", line)
	}
}

// configFromFlags overlays the command flags on the filter's staged
// configuration. changed is false when no filter flag was given.
func configFromFlags(opts *FilterOptions, flt *realization.Filter) (realization.Config, bool, error) {
	cfg := flt.StagedConfig()
	changed := false

	if opts.Numbers != "" {
		sel, err := realization.ParseSelections(opts.Numbers)
		if err != nil {
			return cfg, false, err
		}
		cfg.FilterType = realization.ByRealizationNumber
		cfg.RealizationNumberSelections = sel
		changed = true
	}

	if len(opts.Params) > 0 || len(opts.ParamRanges) > 0 {
		ps, err := parseParameterFlags(opts.Params, opts.ParamRanges, flt.Ensemble().Parameters())
		if err != nil {
			return cfg, false, err
		}
		cfg.FilterType = realization.ByParameterValues
		cfg.ParameterSelections = ps
		changed = true
	}

	if opts.Exclude {
		cfg.IncludeOrExclude = realization.Exclude
		changed = true
	} else if changed {
		cfg.IncludeOrExclude = realization.Include
	}

	return cfg, changed, nil
}

// parseParameterFlags builds parameter selections from KEY=v1,v2 and
// KEY=lo:hi flags. Values of numeric parameters are parsed as numbers.
func parseParameterFlags(params, ranges []string, known *ensemble.Parameters) (realization.ParameterSelections, error) {
	out := make(realization.ParameterSelections, len(params)+len(ranges))

	for _, flag := range params {
		key, raw, err := splitParamFlag(flag, known)
		if err != nil {
			return nil, err
		}
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("parameter %s: given more than once", key)
		}
		p, _ := known.Get(key)
		numeric := isNumericParameter(p)

		var values []ensemble.Value
		for _, item := range strings.Split(raw, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			if !numeric {
				values = append(values, ensemble.Text(item))
				continue
			}
			n, err := strconv.ParseFloat(item, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %q is not a number", key, item)
			}
			values = append(values, ensemble.Number(n))
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("parameter %s: no values given", key)
		}
		out[key] = realization.DiscreteSelection(values...)
	}

	for _, flag := range ranges {
		key, raw, err := splitParamFlag(flag, known)
		if err != nil {
			return nil, err
		}
		loText, hiText, ok := strings.Cut(raw, ":")
		if !ok {
			return nil, fmt.Errorf("parameter %s: range must be lo:hi, got %q", key, raw)
		}
		lo, err := strconv.ParseFloat(strings.TrimSpace(loText), 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: invalid range start %q", key, loText)
		}
		hi, err := strconv.ParseFloat(strings.TrimSpace(hiText), 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: invalid range end %q", key, hiText)
		}
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("parameter %s: given more than once", key)
		}
		out[key] = realization.RangeSelection(lo, hi)
	}

	return out, nil
}

// splitParamFlag splits KEY=rest. The key is split at the last '=' so that
// group-qualified keys (GROUP:NAME) pass through unchanged.
func splitParamFlag(flag string, known *ensemble.Parameters) (ensemble.ParameterKey, string, error) {
	idx := strings.LastIndex(flag, "=")
	if idx <= 0 {
		return "", "", fmt.Errorf("parameter flag must be KEY=VALUE, got %q", flag)
	}
	key := ensemble.ParameterKey(flag[:idx])
	if _, ok := known.Get(key); !ok {
		return "", "", fmt.Errorf("unknown parameter %s", key)
	}
	return key, flag[idx+1:], nil
}

func isNumericParameter(p *ensemble.Parameter) bool {
	if p == nil {
		return false
	}
	if p.IsContinuous() {
		return true
	}
	reals := p.Realizations()
	if len(reals) == 0 {
		return false
	}
	v, _ := p.ValueAt(reals[0])
	_, isNum := v.(ensemble.Number)
	return isNum
}

func describeParameterSelections(ps realization.ParameterSelections) []string {
	out := make([]string, 0, len(ps))
	for _, key := range ps.Keys() {
		sel := ps[key]
		if sel.Range != nil {
			out = append(out, fmt.Sprintf("%s in [%g, %g]", key, sel.Range.Start, sel.Range.End))
			continue
		}
		vals := make([]string, len(sel.Values))
		for i, v := range sel.Values {
			vals[i] = v.String()
		}
		out = append(out, fmt.Sprintf("%s in {%s}", key, strings.Join(vals, ", ")))
	}
	return out
}

func outputFilterText(f *OutputFormatter, r FilterResult) error {
	w := f.Writer
	fmt.Fprintln(w, r.Ident)
	fmt.Fprintf(w, "  filter:       %s %s\n", r.FilterType, r.IncludeOrExclude)
	if r.Selections != "" {
		fmt.Fprintf(w, "  selection:    %s\n", r.Selections)
	}
	for _, p := range r.Parameters {
		fmt.Fprintf(w, "  parameter:    %s\n", p)
	}
	valid := realization.FormatSelections(realization.SelectionsFromRealizations(r.Realizations))
	if valid == "" {
		valid = "(none)"
	}
	fmt.Fprintf(w, "  realizations: %s (%d of %d)\n", valid, len(r.Realizations), r.Available)
	if r.Restored > 0 {
		fmt.Fprintf(w, "  restored:     %d filter(s)\n", r.Restored)
	}
	if r.Saved > 0 {
		fmt.Fprintf(w, "  saved:        %d filter(s)\n", r.Saved)
	}
	return nil
}
