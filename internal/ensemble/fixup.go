package ensemble

// FixupIdent keeps current if the set contains it, otherwise falls back to
// the first ensemble of All(). Returns "" for an empty set.
func FixupIdent(current string, set *Set) string {
	if set == nil || !set.HasAny() {
		return ""
	}
	if current != "" && set.Has(current) {
		return current
	}
	return set.All()[0].Ident().String()
}

// FixupIdents drops idents the set does not contain. An empty selection
// defaults to the first ensemble of All(). Returns nil for an empty set.
//
// The result may be empty when every current ident is stale.
func FixupIdents(current []string, set *Set) []string {
	if set == nil || !set.HasAny() {
		return nil
	}
	if len(current) == 0 {
		return []string{set.All()[0].Ident().String()}
	}

	kept := make([]string, 0, len(current))
	for _, id := range current {
		if set.Has(id) {
			kept = append(kept, id)
		}
	}
	return kept
}
