package ensemble

import (
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/enskit/internal/ident"
)

// ErrInvalidEnsemble is wrapped by constructor validation errors.
var ErrInvalidEnsemble = errors.New("invalid ensemble")

// Ensemble is the read-only view the filter engine consumes.
// RegularEnsemble and DeltaEnsemble implement it.
type Ensemble interface {
	// Ident returns the decoded identifier; Ident().String() is the map key.
	Ident() ident.Ident

	// Realizations returns realization numbers, ascending and unique.
	Realizations() []int

	// Parameters returns the parameter accessor, never nil.
	Parameters() *Parameters

	EnsembleName() string
	DisplayName() string
	CustomName() string
	Color() string
}

// SensitivityType distinguishes sensitivity kinds.
type SensitivityType string

const (
	SensitivityMonteCarlo SensitivityType = "montecarlo"
	SensitivityScenario   SensitivityType = "scenario"
)

// SensitivityCase is a named group of realizations within a sensitivity.
type SensitivityCase struct {
	Name         string `json:"name"`
	Realizations []int  `json:"realizations"`
}

// Sensitivity is optional design-matrix metadata attached to a regular ensemble.
type Sensitivity struct {
	Name  string            `json:"name"`
	Type  SensitivityType   `json:"type"`
	Cases []SensitivityCase `json:"cases"`
}

// RegularConfig is the input to NewRegularEnsemble.
type RegularConfig struct {
	CaseUUID      string
	CaseName      string
	EnsembleName  string
	Realizations  []int
	Parameters    *Parameters
	Sensitivities []Sensitivity
	Color         string
	CustomName    string
}

// RegularEnsemble is a single case/ensemble pair with its own realizations.
type RegularEnsemble struct {
	id            ident.Regular
	caseName      string
	realizations  []int
	parameters    *Parameters
	sensitivities []Sensitivity
	color         string
	customName    string
}

// NewRegularEnsemble validates cfg and builds the ensemble.
// Realizations are sorted and de-duplicated; negative numbers are rejected.
func NewRegularEnsemble(cfg RegularConfig) (*RegularEnsemble, error) {
	if !ident.IsValidCaseUUID(cfg.CaseUUID) {
		return nil, fmt.Errorf("%w: case uuid %q", ErrInvalidEnsemble, cfg.CaseUUID)
	}
	if cfg.EnsembleName == "" {
		return nil, fmt.Errorf("%w: ensemble name is required", ErrInvalidEnsemble)
	}
	for _, r := range cfg.Realizations {
		if r < 0 {
			return nil, fmt.Errorf("%w: negative realization %d in %s", ErrInvalidEnsemble, r, cfg.EnsembleName)
		}
	}

	params := cfg.Parameters
	if params == nil {
		params = &Parameters{}
	}

	return &RegularEnsemble{
		id:            ident.Regular{CaseUUID: cfg.CaseUUID, EnsembleName: cfg.EnsembleName},
		caseName:      cfg.CaseName,
		realizations:  sortedUnique(cfg.Realizations),
		parameters:    params,
		sensitivities: slices.Clone(cfg.Sensitivities),
		color:         cfg.Color,
		customName:    cfg.CustomName,
	}, nil
}

func (e *RegularEnsemble) Ident() ident.Ident          { return ident.FromRegular(e.id) }
func (e *RegularEnsemble) RegularIdent() ident.Regular { return e.id }
func (e *RegularEnsemble) CaseUUID() string            { return e.id.CaseUUID }
func (e *RegularEnsemble) CaseName() string            { return e.caseName }
func (e *RegularEnsemble) EnsembleName() string        { return e.id.EnsembleName }
func (e *RegularEnsemble) Realizations() []int         { return slices.Clone(e.realizations) }
func (e *RegularEnsemble) Parameters() *Parameters     { return e.parameters }
func (e *RegularEnsemble) Sensitivities() []Sensitivity {
	return slices.Clone(e.sensitivities)
}
func (e *RegularEnsemble) Color() string      { return e.color }
func (e *RegularEnsemble) CustomName() string { return e.customName }

// DisplayName is "<ensemble> (<case>)", or just the ensemble name when the
// case name is unknown.
func (e *RegularEnsemble) DisplayName() string {
	if e.caseName == "" {
		return e.id.EnsembleName
	}
	return fmt.Sprintf("%s (%s)", e.id.EnsembleName, e.caseName)
}

// DeltaEnsemble is the virtual ensemble compare minus reference.
// Its realizations are those present in both inputs. It carries no
// parameters of its own.
type DeltaEnsemble struct {
	compare      *RegularEnsemble
	reference    *RegularEnsemble
	realizations []int
	parameters   *Parameters
	color        string
	customName   string
}

// NewDeltaEnsemble pairs two regular ensembles.
func NewDeltaEnsemble(compare, reference *RegularEnsemble, color, customName string) (*DeltaEnsemble, error) {
	if compare == nil || reference == nil {
		return nil, fmt.Errorf("%w: delta needs both compare and reference ensembles", ErrInvalidEnsemble)
	}

	var common []int
	for _, r := range compare.realizations {
		if _, found := slices.BinarySearch(reference.realizations, r); found {
			common = append(common, r)
		}
	}

	return &DeltaEnsemble{
		compare:      compare,
		reference:    reference,
		realizations: common,
		parameters:   &Parameters{},
		color:        color,
		customName:   customName,
	}, nil
}

func (e *DeltaEnsemble) Ident() ident.Ident {
	return ident.FromDelta(e.DeltaIdent())
}

func (e *DeltaEnsemble) DeltaIdent() ident.Delta {
	return ident.Delta{Compare: e.compare.id, Reference: e.reference.id}
}

func (e *DeltaEnsemble) Compare() *RegularEnsemble   { return e.compare }
func (e *DeltaEnsemble) Reference() *RegularEnsemble { return e.reference }
func (e *DeltaEnsemble) Realizations() []int         { return slices.Clone(e.realizations) }
func (e *DeltaEnsemble) Parameters() *Parameters     { return e.parameters }
func (e *DeltaEnsemble) Color() string               { return e.color }
func (e *DeltaEnsemble) CustomName() string          { return e.customName }

func (e *DeltaEnsemble) EnsembleName() string {
	return fmt.Sprintf("(%s) - (%s)", e.compare.EnsembleName(), e.reference.EnsembleName())
}

func (e *DeltaEnsemble) DisplayName() string {
	return fmt.Sprintf("(%s) - (%s)", e.compare.DisplayName(), e.reference.DisplayName())
}

func sortedUnique(in []int) []int {
	out := slices.Clone(in)
	slices.Sort(out)
	return slices.Compact(out)
}
