package ident

// Kind discriminates the variants of Ident.
type Kind int

const (
	// KindInvalid is the zero Kind; it is never produced by Parse.
	KindInvalid Kind = iota
	// KindRegular identifies a single case/ensemble pair.
	KindRegular
	// KindDelta identifies a compare-minus-reference pair of regular ensembles.
	KindDelta
)

// String returns a lower-case name for the kind.
func (k Kind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindDelta:
		return "delta"
	default:
		return "invalid"
	}
}

// Regular is a case uuid plus ensemble name.
type Regular struct {
	CaseUUID     string `json:"case_uuid"`
	EnsembleName string `json:"ensemble_name"`
}

// String returns the canonical regular encoding.
func (r Regular) String() string {
	return EncodeRegular(r.CaseUUID, r.EnsembleName)
}

// Delta is compare minus reference.
type Delta struct {
	Compare   Regular `json:"compare"`
	Reference Regular `json:"reference"`
}

// String returns the canonical delta encoding.
func (d Delta) String() string {
	return EncodeDelta(d.Compare, d.Reference)
}

// Ident is either a Regular or a Delta identifier.
// The zero value is invalid; construct with FromRegular, FromDelta or Parse.
type Ident struct {
	kind    Kind
	regular Regular
	delta   Delta
}

// FromRegular wraps a regular identifier.
func FromRegular(r Regular) Ident {
	return Ident{kind: KindRegular, regular: r}
}

// FromDelta wraps a delta identifier.
func FromDelta(d Delta) Ident {
	return Ident{kind: KindDelta, delta: d}
}

// Kind returns the discriminant.
func (id Ident) Kind() Kind {
	return id.kind
}

// IsZero reports whether id was never initialised.
func (id Ident) IsZero() bool {
	return id.kind == KindInvalid
}

// Regular returns the regular variant and true, or false for any other kind.
func (id Ident) Regular() (Regular, bool) {
	if id.kind != KindRegular {
		return Regular{}, false
	}
	return id.regular, true
}

// Delta returns the delta variant and true, or false for any other kind.
func (id Ident) Delta() (Delta, bool) {
	if id.kind != KindDelta {
		return Delta{}, false
	}
	return id.delta, true
}

// String returns the canonical encoding. The zero Ident encodes to "".
func (id Ident) String() string {
	switch id.kind {
	case KindRegular:
		return id.regular.String()
	case KindDelta:
		return id.delta.String()
	default:
		return ""
	}
}

// Equal reports whether both identifiers have byte-equal canonical strings.
func (id Ident) Equal(other Ident) bool {
	return id.kind == other.kind && id.String() == other.String()
}
