package ident

import (
	"regexp"

	"github.com/google/uuid"
)

// Delimiters of the canonical encodings.
const (
	RegularSeparator = "::"
	DeltaDelimiter   = "~@@~"
)

// uuidPattern matches a lower-case RFC 4122 uuid of version 1-5.
const uuidPattern = `[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[0-9a-f]{4}-[0-9a-f]{12}`

var (
	caseUUIDRegex = regexp.MustCompile(`^` + uuidPattern + `$`)

	regularRegex = regexp.MustCompile(
		`^(?P<caseUuid>` + uuidPattern + `)::(?P<ensembleName>.*)$`,
	)

	// Both names are greedy, so the compare name extends to the last
	// "~@@~<uuid>::" boundary that still lets the whole string match.
	deltaRegex = regexp.MustCompile(
		`^~@@~` +
			`(?P<compareCaseUuid>` + uuidPattern + `)::(?P<compareEnsembleName>.*)` +
			`~@@~` +
			`(?P<referenceCaseUuid>` + uuidPattern + `)::(?P<referenceEnsembleName>.*)` +
			`~@@~$`,
	)
)

var (
	regularCaseIdx = regularRegex.SubexpIndex("caseUuid")
	regularNameIdx = regularRegex.SubexpIndex("ensembleName")

	deltaCompareCaseIdx   = deltaRegex.SubexpIndex("compareCaseUuid")
	deltaCompareNameIdx   = deltaRegex.SubexpIndex("compareEnsembleName")
	deltaReferenceCaseIdx = deltaRegex.SubexpIndex("referenceCaseUuid")
	deltaReferenceNameIdx = deltaRegex.SubexpIndex("referenceEnsembleName")
)

// IsValidCaseUUID reports whether s is a case uuid accepted by the grammars.
func IsValidCaseUUID(s string) bool {
	return caseUUIDRegex.MatchString(s)
}

// NewCaseUUID returns a fresh random case uuid (version 4, lower-case).
func NewCaseUUID() string {
	return uuid.NewString()
}

// IsValidRegular reports whether s is a well-formed regular ident string.
// The ensemble name must be non-empty.
func IsValidRegular(s string) bool {
	_, ok := matchRegular(s)
	return ok
}

// IsValidDelta reports whether s is a well-formed delta ident string.
// Both ensemble names must be non-empty.
func IsValidDelta(s string) bool {
	_, ok := matchDelta(s)
	return ok
}

// IsValid reports whether s is a well-formed ident string of either kind.
// The two grammars are mutually exclusive: regular strings start with a hex
// digit, delta strings with '~'.
func IsValid(s string) bool {
	return IsValidRegular(s) || IsValidDelta(s)
}

// EncodeRegular returns "<caseUUID>::<ensembleName>". Inputs are not validated.
func EncodeRegular(caseUUID, ensembleName string) string {
	return caseUUID + RegularSeparator + ensembleName
}

// EncodeDelta returns the delta encoding of compare and reference.
// Inputs are not validated.
func EncodeDelta(compare, reference Regular) string {
	return DeltaDelimiter +
		EncodeRegular(compare.CaseUUID, compare.EnsembleName) +
		DeltaDelimiter +
		EncodeRegular(reference.CaseUUID, reference.EnsembleName) +
		DeltaDelimiter
}

// EncodeDeltaFromStrings builds a delta ident string from two regular ident
// strings. Returns a FormatError if either input is not a regular ident.
func EncodeDeltaFromStrings(compare, reference string) (string, error) {
	if !IsValidRegular(compare) {
		return "", &FormatError{Input: compare, Grammar: "regular"}
	}
	if !IsValidRegular(reference) {
		return "", &FormatError{Input: reference, Grammar: "regular"}
	}
	return DeltaDelimiter + compare + DeltaDelimiter + reference + DeltaDelimiter, nil
}

// DecodeRegular extracts case uuid and ensemble name from a regular ident string.
func DecodeRegular(s string) (Regular, error) {
	r, ok := matchRegular(s)
	if !ok {
		return Regular{}, &FormatError{Input: s, Grammar: "regular"}
	}
	return r, nil
}

// DecodeDelta extracts the compare and reference pairs from a delta ident string.
func DecodeDelta(s string) (Delta, error) {
	d, ok := matchDelta(s)
	if !ok {
		return Delta{}, &FormatError{Input: s, Grammar: "delta"}
	}
	return d, nil
}

// Parse decodes s into an Ident of whichever kind it satisfies.
func Parse(s string) (Ident, error) {
	if r, ok := matchRegular(s); ok {
		return FromRegular(r), nil
	}
	if d, ok := matchDelta(s); ok {
		return FromDelta(d), nil
	}
	return Ident{}, &FormatError{Input: s, Grammar: "any"}
}

// MustParse is like Parse but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustParse(s string) Ident {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

func matchRegular(s string) (Regular, bool) {
	m := regularRegex.FindStringSubmatch(s)
	if m == nil || m[regularCaseIdx] == "" || m[regularNameIdx] == "" {
		return Regular{}, false
	}
	return Regular{CaseUUID: m[regularCaseIdx], EnsembleName: m[regularNameIdx]}, true
}

func matchDelta(s string) (Delta, bool) {
	m := deltaRegex.FindStringSubmatch(s)
	if m == nil {
		return Delta{}, false
	}
	for _, idx := range []int{deltaCompareCaseIdx, deltaCompareNameIdx, deltaReferenceCaseIdx, deltaReferenceNameIdx} {
		if m[idx] == "" {
			return Delta{}, false
		}
	}
	return Delta{
		Compare: Regular{
			CaseUUID:     m[deltaCompareCaseIdx],
			EnsembleName: m[deltaCompareNameIdx],
		},
		Reference: Regular{
			CaseUUID:     m[deltaReferenceCaseIdx],
			EnsembleName: m[deltaReferenceNameIdx],
		},
	}, true
}
