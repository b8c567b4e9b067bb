package ensemble

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/enskit/internal/ident"
)

// DistinguishableDisplayName picks the shortest label that still tells the
// ensemble apart from the others in all:
//
//  1. the custom name, when one is set;
//  2. the bare ensemble name, when no other ensemble in all shares it;
//  3. the full display name otherwise.
//
// Names are compared after NFC normalisation so that composed and decomposed
// spellings of the same name collide.
func DistinguishableDisplayName(identString string, all []Ensemble) string {
	var found Ensemble
	for _, e := range all {
		if e.Ident().String() == identString {
			found = e
			break
		}
	}

	if found != nil && found.CustomName() != "" {
		return found.CustomName()
	}

	var name string
	if r, err := ident.DecodeRegular(identString); err == nil {
		name = r.EnsembleName
	} else if d, err := ident.DecodeDelta(identString); err == nil {
		name = fmt.Sprintf("(%s) - (%s)", d.Compare.EnsembleName, d.Reference.EnsembleName)
	} else {
		return identString
	}

	if found == nil {
		return name
	}

	normalized := norm.NFC.String(name)
	count := 0
	for _, e := range all {
		if norm.NFC.String(e.EnsembleName()) == normalized {
			count++
		}
	}
	if count == 1 {
		return name
	}
	return found.DisplayName()
}
