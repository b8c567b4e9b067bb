// Package session holds the current ensemble set and its realization
// filters.
//
// A Session replaces the whole ensemble-set snapshot at once with
// SetEnsembleSet. When realization filters are enabled, every replacement
// synchronizes the filter set so it holds exactly one filter per ensemble.
//
// ValidRealizations is the read surface for the rest of the program. With
// filters enabled it returns a filter's committed realizations; before
// filters are enabled it falls back to the ensemble's own realization list.
//
// Sessions are not safe for concurrent mutation; callers serialise edits.
package session
