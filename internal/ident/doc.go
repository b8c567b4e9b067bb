// Package ident encodes, decodes and validates ensemble identifiers.
//
// Two grammars exist:
//
//	regular: "<case-uuid>::<ensemble-name>"
//	delta:   "~@@~<regular-compare>~@@~<regular-reference>~@@~"
//
// The canonical string is the only form used at system boundaries (map keys,
// cache keys, wire parameters). Inside the program an identifier is decoded
// once into an Ident, a tagged union whose Kind says which variant it holds.
//
// Neither separator is escaped. An ensemble name containing "~@@~" or a
// second "<uuid>::" can make a delta identifier split at an unexpected
// boundary; the grammar is kept as-is for compatibility with persisted keys.
//
// ident imports nothing internal.
package ident
