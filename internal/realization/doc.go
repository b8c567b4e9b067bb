// Package realization implements per-ensemble realization filters and the
// set that keeps one filter per live ensemble.
//
// A Filter holds two configurations: the staged one, edited by setters, and
// the committed one that produced the last result. Only RunFiltering moves
// staged to committed and recomputes the committed realization list, which is
// the value the rest of the program reads.
//
// Malformed selections never fail: realization numbers outside the ensemble
// and unknown parameters simply do not match, so a filter degrades to a
// smaller or empty result instead of erroring.
//
// Filters are not safe for concurrent mutation. Callers serialise edits on a
// single goroutine.
package realization
