package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/enskit/internal/ident"
)

// IdentInfo is the decoded form of an ident string.
type IdentInfo struct {
	Ident        string         `json:"ident"`
	Kind         string         `json:"kind"`
	CaseUUID     string         `json:"case_uuid,omitempty"`
	EnsembleName string         `json:"ensemble_name,omitempty"`
	Compare      *ident.Regular `json:"compare,omitempty"`
	Reference    *ident.Regular `json:"reference,omitempty"`
}

// ValidateIdentResult is the payload of "ident validate".
type ValidateIdentResult struct {
	Ident string `json:"ident"`
	Valid bool   `json:"valid"`
	Kind  string `json:"kind,omitempty"`
}

func newIdentInfo(id ident.Ident) IdentInfo {
	info := IdentInfo{Ident: id.String(), Kind: id.Kind().String()}
	if r, ok := id.Regular(); ok {
		info.CaseUUID = r.CaseUUID
		info.EnsembleName = r.EnsembleName
	}
	if d, ok := id.Delta(); ok {
		info.Compare = &d.Compare
		info.Reference = &d.Reference
	}
	return info
}

// NewIdentCommand creates the ident command group.
func NewIdentCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ident",
		Short: "Validate, decode and encode ensemble idents",
		Long: `Ensemble idents come in two forms:

  regular  <case-uuid>::<ensemble-name>
  delta    ~@@~<compare regular ident>~@@~<reference regular ident>~@@~`,
	}

	cmd.AddCommand(newIdentValidateCommand(rootOpts))
	cmd.AddCommand(newIdentDecodeCommand(rootOpts))
	cmd.AddCommand(newIdentEncodeCommand(rootOpts))
	cmd.AddCommand(newIdentDeltaCommand(rootOpts))

	return cmd
}

func newIdentValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <ident>",
		Short: "Check whether a string is a well-formed ident",
		Long: `Check whether a string is a well-formed regular or delta ident.

Exit codes:
  0 - valid
  1 - not a valid ident`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			res := ValidateIdentResult{Ident: args[0]}
			if id, err := ident.Parse(args[0]); err == nil {
				res.Valid = true
				res.Kind = id.Kind().String()
			}

			if f.IsJSON() {
				if err := f.Success(res); err != nil {
					return err
				}
			} else if res.Valid {
				fmt.Fprintf(f.Writer, "✓ %s (%s)\n", res.Ident, res.Kind)
			} else {
				fmt.Fprintf(f.Writer, "✗ %s: %v\n", res.Ident, ident.ErrInvalidIdentFormat)
			}

			if !res.Valid {
				return NewExitError(ExitFailure, "invalid ident")
			}
			return nil
		},
	}
}

func newIdentDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "decode <ident>",
		Short:         "Split an ident into its parts",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			id, err := ident.Parse(args[0])
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeInvalidIdent, "cannot decode ident", err)
			}
			return outputIdentInfo(f, newIdentInfo(id))
		},
	}
}

func newIdentEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	var newCase bool

	cmd := &cobra.Command{
		Use:   "encode [case-uuid] <ensemble-name>",
		Short: "Build a regular ident",
		Long: `Build a regular ident from a case uuid and an ensemble name.

With --new-case a fresh random case uuid is generated and only the
ensemble name is given.

Examples:
  enskit ident encode 11111111-1111-4111-8111-111111111111 iter-0
  enskit ident encode --new-case iter-0`,
		Args: func(cmd *cobra.Command, args []string) error {
			if newCase {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)

			var caseUUID, name string
			if newCase {
				caseUUID, name = ident.NewCaseUUID(), args[0]
			} else {
				caseUUID, name = args[0], args[1]
			}

			encoded := ident.EncodeRegular(caseUUID, name)
			id, err := ident.Parse(encoded)
			if err != nil || id.Kind() != ident.KindRegular {
				if err == nil {
					err = &ident.FormatError{Input: encoded, Grammar: "regular"}
				}
				return f.Fail(ExitCommandError, ErrCodeInvalidIdent, "cannot encode ident", err)
			}
			return outputIdentInfo(f, newIdentInfo(id))
		},
	}

	cmd.Flags().BoolVar(&newCase, "new-case", false, "generate a new case uuid")

	return cmd
}

func newIdentDeltaCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delta <compare-ident> <reference-ident>",
		Short:         "Build a delta ident from two regular idents",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			encoded, err := ident.EncodeDeltaFromStrings(args[0], args[1])
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeInvalidIdent, "cannot encode delta ident", err)
			}
			return outputIdentInfo(f, newIdentInfo(ident.MustParse(encoded)))
		},
	}
}

func outputIdentInfo(f *OutputFormatter, info IdentInfo) error {
	if f.IsJSON() {
		return f.Success(info)
	}

	w := f.Writer
	fmt.Fprintln(w, info.Ident)
	fmt.Fprintf(w, "  kind:          %s\n", info.Kind)
	if info.Compare != nil {
		fmt.Fprintf(w, "  compare:       %s\n", info.Compare)
		fmt.Fprintf(w, "  reference:     %s\n", info.Reference)
		return nil
	}
	fmt.Fprintf(w, "  case uuid:     %s\n", info.CaseUUID)
	fmt.Fprintf(w, "  ensemble name: %s\n", info.EnsembleName)
	return nil
}
