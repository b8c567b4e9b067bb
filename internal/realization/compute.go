package realization

import (
	"slices"

	"github.com/roach88/enskit/internal/ensemble"
)

// computeRealizations applies cfg to the candidate realizations of e.
// The result is ascending and free of duplicates.
func computeRealizations(e ensemble.Ensemble, cfg Config) []int {
	candidates := e.Realizations()

	var selected func(int) bool
	switch cfg.FilterType {
	case ByParameterValues:
		params := e.Parameters()
		keys := cfg.ParameterSelections.Keys()
		selected = func(r int) bool {
			for _, key := range keys {
				v, ok := params.ValueAt(key, r)
				if !ok || !cfg.ParameterSelections[key].Matches(v) {
					return false
				}
			}
			return true
		}
	default:
		selected = func(r int) bool {
			return selectionsContain(cfg.RealizationNumberSelections, r)
		}
	}

	keep := cfg.IncludeOrExclude != Exclude
	out := make([]int, 0, len(candidates))
	for _, r := range candidates {
		if selected(r) == keep {
			out = append(out, r)
		}
	}

	slices.Sort(out)
	return slices.Compact(out)
}
