package loader

import (
	"errors"
	"fmt"

	"github.com/roach88/enskit/internal/ensemble"
	"github.com/roach88/enskit/internal/ident"
)

// Snapshot is the decoded document shared by the YAML and CUE formats.
type Snapshot struct {
	Ensembles []EnsembleDoc `yaml:"ensembles" json:"ensembles"`
	Deltas    []DeltaDoc    `yaml:"deltas" json:"deltas"`
}

// EnsembleDoc describes one regular ensemble.
type EnsembleDoc struct {
	CaseUUID      string           `yaml:"case_uuid" json:"case_uuid"`
	CaseName      string           `yaml:"case_name" json:"case_name"`
	Name          string           `yaml:"name" json:"name"`
	Realizations  []int            `yaml:"realizations" json:"realizations"`
	Parameters    []ParameterDoc   `yaml:"parameters" json:"parameters"`
	Sensitivities []SensitivityDoc `yaml:"sensitivities" json:"sensitivities"`
	Color         string           `yaml:"color" json:"color"`
	CustomName    string           `yaml:"custom_name" json:"custom_name"`
}

// ParameterDoc holds parallel realization and value arrays.
type ParameterDoc struct {
	Name         string `yaml:"name" json:"name"`
	Group        string `yaml:"group" json:"group"`
	Continuous   bool   `yaml:"continuous" json:"continuous"`
	Description  string `yaml:"description" json:"description"`
	Realizations []int  `yaml:"realizations" json:"realizations"`
	Values       []any  `yaml:"values" json:"values"`
}

// SensitivityDoc describes design-matrix metadata.
type SensitivityDoc struct {
	Name  string               `yaml:"name" json:"name"`
	Type  string               `yaml:"type" json:"type"`
	Cases []SensitivityCaseDoc `yaml:"cases" json:"cases"`
}

// SensitivityCaseDoc is one named realization group of a sensitivity.
type SensitivityCaseDoc struct {
	Name         string `yaml:"name" json:"name"`
	Realizations []int  `yaml:"realizations" json:"realizations"`
}

// DeltaDoc names the compare and reference regular ensembles by ident.
type DeltaDoc struct {
	Compare    string `yaml:"compare" json:"compare"`
	Reference  string `yaml:"reference" json:"reference"`
	Color      string `yaml:"color" json:"color"`
	CustomName string `yaml:"custom_name" json:"custom_name"`
}

// Build converts a decoded snapshot into an ensemble set.
func Build(doc Snapshot) (*ensemble.Set, error) {
	regulars := make([]*ensemble.RegularEnsemble, 0, len(doc.Ensembles))
	byIdent := make(map[string]*ensemble.RegularEnsemble, len(doc.Ensembles))

	for i, ed := range doc.Ensembles {
		e, err := buildRegular(ed)
		if err != nil {
			var le *LoadError
			if errors.As(err, &le) {
				le.Message = fmt.Sprintf("ensembles[%d]: %s", i, le.Message)
				return nil, le
			}
			return nil, &LoadError{Code: ErrCodeInvalidEnsemble, Message: fmt.Sprintf("ensembles[%d]: %v", i, err), Err: err}
		}
		regulars = append(regulars, e)
		byIdent[e.Ident().String()] = e
	}

	deltas := make([]*ensemble.DeltaEnsemble, 0, len(doc.Deltas))
	for i, dd := range doc.Deltas {
		d, err := buildDelta(dd, byIdent)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeInvalidDelta, Message: fmt.Sprintf("deltas[%d]: %v", i, err), Err: err}
		}
		deltas = append(deltas, d)
	}

	set, err := ensemble.NewSet(regulars, deltas)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDuplicateIdent, Message: err.Error(), Err: err}
	}
	return set, nil
}

func buildRegular(ed EnsembleDoc) (*ensemble.RegularEnsemble, error) {
	params := make([]*ensemble.Parameter, 0, len(ed.Parameters))
	for j, pd := range ed.Parameters {
		p, err := buildParameter(pd)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeInvalidParameter, Message: fmt.Sprintf("parameters[%d]: %v", j, err), Err: err}
		}
		params = append(params, p)
	}
	ps, err := ensemble.NewParameters(params...)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidParameter, Message: err.Error(), Err: err}
	}

	sens := make([]ensemble.Sensitivity, 0, len(ed.Sensitivities))
	for _, sd := range ed.Sensitivities {
		s := ensemble.Sensitivity{Name: sd.Name, Type: ensemble.SensitivityType(sd.Type)}
		for _, c := range sd.Cases {
			s.Cases = append(s.Cases, ensemble.SensitivityCase{Name: c.Name, Realizations: c.Realizations})
		}
		sens = append(sens, s)
	}

	return ensemble.NewRegularEnsemble(ensemble.RegularConfig{
		CaseUUID:      ed.CaseUUID,
		CaseName:      ed.CaseName,
		EnsembleName:  ed.Name,
		Realizations:  ed.Realizations,
		Parameters:    ps,
		Sensitivities: sens,
		Color:         ed.Color,
		CustomName:    ed.CustomName,
	})
}

func buildParameter(pd ParameterDoc) (*ensemble.Parameter, error) {
	values := make([]ensemble.Value, len(pd.Values))
	for k, raw := range pd.Values {
		v, err := ensemble.ValueFromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("values[%d]: %w", k, err)
		}
		values[k] = v
	}
	id := ensemble.ParameterIdent{Name: pd.Name, Group: pd.Group}
	return ensemble.NewParameter(id, pd.Continuous, pd.Description, pd.Realizations, values)
}

func buildDelta(dd DeltaDoc, regulars map[string]*ensemble.RegularEnsemble) (*ensemble.DeltaEnsemble, error) {
	if _, err := ident.DecodeRegular(dd.Compare); err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}
	if _, err := ident.DecodeRegular(dd.Reference); err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}

	compare, ok := regulars[dd.Compare]
	if !ok {
		return nil, fmt.Errorf("compare ensemble %s is not in the snapshot", dd.Compare)
	}
	reference, ok := regulars[dd.Reference]
	if !ok {
		return nil, fmt.Errorf("reference ensemble %s is not in the snapshot", dd.Reference)
	}
	return ensemble.NewDeltaEnsemble(compare, reference, dd.Color, dd.CustomName)
}
