package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/enskit/internal/ensemble"
	"github.com/roach88/enskit/internal/loader"
	"github.com/roach88/enskit/internal/realization"
)

// EnsembleSummary describes one ensemble of a snapshot.
type EnsembleSummary struct {
	Ident            string   `json:"ident"`
	Kind             string   `json:"kind"`
	Name             string   `json:"name"`
	DisplayName      string   `json:"display_name"`
	Realizations     string   `json:"realizations"`
	RealizationCount int      `json:"realization_count"`
	Parameters       []string `json:"parameters,omitempty"`
}

// EnsemblesResult is the payload of the ensembles command.
type EnsemblesResult struct {
	Snapshot  string            `json:"snapshot"`
	Ensembles []EnsembleSummary `json:"ensembles"`
}

// NewEnsemblesCommand creates the ensembles command.
func NewEnsemblesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ensembles <snapshot>",
		Short: "List the ensembles in a snapshot",
		Long: `List the regular and delta ensembles of a snapshot file (.yaml, .yml,
.cue) or CUE package directory, with their idents and realizations.

Examples:
  enskit ensembles ./drogon.yaml
  enskit ensembles ./snapshots/drogon --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnsembles(rootOpts, args[0], cmd)
		},
	}
}

func runEnsembles(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	set, err := loadSnapshot(f, path)
	if err != nil {
		return err
	}

	result := EnsemblesResult{Snapshot: path, Ensembles: summarize(set)}
	if f.IsJSON() {
		return f.Success(result)
	}

	if len(result.Ensembles) == 0 {
		fmt.Fprintln(f.Writer, "No ensembles found.")
		return nil
	}
	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "IDENT\tKIND\tNAME\tREALIZATIONS")
	for _, s := range result.Ensembles {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Ident, s.Kind, s.DisplayName, s.Realizations)
	}
	return tw.Flush()
}

func summarize(set *ensemble.Set) []EnsembleSummary {
	all := set.All()
	out := make([]EnsembleSummary, 0, len(all))
	for _, e := range all {
		id := e.Ident()
		reals := e.Realizations()
		summary := EnsembleSummary{
			Ident:            id.String(),
			Kind:             id.Kind().String(),
			Name:             e.DisplayName(),
			DisplayName:      ensemble.DistinguishableDisplayName(id.String(), all),
			Realizations:     realization.FormatSelections(realization.SelectionsFromRealizations(reals)),
			RealizationCount: len(reals),
		}
		for _, key := range e.Parameters().Keys() {
			summary.Parameters = append(summary.Parameters, string(key))
		}
		out = append(out, summary)
	}
	return out
}

// loadSnapshot loads path and reports loader failures through f.
func loadSnapshot(f *OutputFormatter, path string) (*ensemble.Set, error) {
	set, err := loader.Load(path)
	if err != nil {
		var loadErr *loader.LoadError
		if errors.As(err, &loadErr) {
			_ = f.Error(loadErr.Code, loadErr.Error(), nil)
			return nil, WrapExitError(ExitCommandError, "failed to load snapshot", err)
		}
		return nil, f.Fail(ExitCommandError, ErrCodeGeneric, "failed to load snapshot", err)
	}
	f.VerboseLog("Loaded %d ensemble(s) from %s", set.Len(), path)
	return set, nil
}
