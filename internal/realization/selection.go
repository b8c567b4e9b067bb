package realization

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// NumberSelection is a single realization number (Start == End) or an
// inclusive range. A range with Start > End selects nothing.
type NumberSelection struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Single selects one realization.
func Single(n int) NumberSelection {
	return NumberSelection{Start: n, End: n}
}

// Range selects start..end inclusive.
func Range(start, end int) NumberSelection {
	return NumberSelection{Start: start, End: end}
}

// IsRange reports whether s spans more than one number.
func (s NumberSelection) IsRange() bool {
	return s.Start != s.End
}

// Contains reports whether n falls within s.
func (s NumberSelection) Contains(n int) bool {
	return n >= s.Start && n <= s.End
}

// String returns "n" or "start-end".
func (s NumberSelection) String() string {
	if !s.IsRange() {
		return strconv.Itoa(s.Start)
	}
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// selectionsContain reports whether any selection contains n.
func selectionsContain(sel []NumberSelection, n int) bool {
	for _, s := range sel {
		if s.Contains(n) {
			return true
		}
	}
	return false
}

// SelectionsFromRealizations compresses realization numbers into the fewest
// selections: contiguous runs become ranges.
func SelectionsFromRealizations(realizations []int) []NumberSelection {
	sorted := slices.Clone(realizations)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var out []NumberSelection
	for i := 0; i < len(sorted); {
		j := i
		for j+1 < len(sorted) && sorted[j+1] == sorted[j]+1 {
			j++
		}
		out = append(out, NumberSelection{Start: sorted[i], End: sorted[j]})
		i = j + 1
	}
	return out
}

// ParseSelections parses the text form "0-3,5,8-9". Whitespace around items
// is ignored; an empty string yields no selections.
func ParseSelections(text string) ([]NumberSelection, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	var out []NumberSelection
	for _, item := range strings.Split(text, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		startText, endText, isRange := strings.Cut(item, "-")
		start, err := strconv.Atoi(strings.TrimSpace(startText))
		if err != nil {
			return nil, fmt.Errorf("invalid realization selection %q: %w", item, err)
		}
		if !isRange {
			out = append(out, Single(start))
			continue
		}
		end, err := strconv.Atoi(strings.TrimSpace(endText))
		if err != nil {
			return nil, fmt.Errorf("invalid realization selection %q: %w", item, err)
		}
		out = append(out, Range(start, end))
	}
	return out, nil
}

// FormatSelections is the inverse of ParseSelections.
func FormatSelections(sel []NumberSelection) string {
	parts := make([]string, len(sel))
	for i, s := range sel {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}
