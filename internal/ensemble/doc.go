// Package ensemble holds the in-memory ensemble model: regular and delta
// ensembles, their parameter data, and the immutable Set snapshot that the
// rest of the program looks ensembles up in.
//
// A Set is never mutated after NewSet returns. When case or ensemble data is
// reloaded, a new Set replaces the old one wholesale.
package ensemble
