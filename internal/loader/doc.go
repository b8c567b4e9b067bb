// Package loader reads ensemble-set snapshots from YAML or CUE files and
// builds an ensemble.Set.
//
// Both formats share one document shape:
//
//	ensembles:
//	  - case_uuid: 11111111-1111-4111-8111-111111111111
//	    case_name: drogon
//	    name: iter-0
//	    realizations: [0, 1, 2]
//	    parameters:
//	      - name: MULTFLT
//	        group: GLOBVAR
//	        continuous: true
//	        realizations: [0, 1, 2]
//	        values: [1.0, 2.0, 1.0]
//	deltas:
//	  - compare: 11111111-1111-4111-8111-111111111111::iter-1
//	    reference: 11111111-1111-4111-8111-111111111111::iter-0
//
// A .cue file is compiled on its own; a directory is loaded as a CUE
// package. Delta entries must name regular ensembles of the same snapshot.
//
// Every failure is a *LoadError carrying a stable code.
package loader
