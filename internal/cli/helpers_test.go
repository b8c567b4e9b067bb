package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const (
	testCase = "11111111-1111-4111-8111-111111111111"
	iter0    = testCase + "::iter-0"
	iter1    = testCase + "::iter-1"
	delta10  = "~@@~" + iter1 + "~@@~" + iter0 + "~@@~"
)

const drogonYAML = `
ensembles:
  - case_uuid: 11111111-1111-4111-8111-111111111111
    case_name: drogon
    name: iter-0
    realizations: [0, 1, 2, 3, 4]
    parameters:
      - name: MULTFLT
        group: GLOBVAR
        continuous: true
        realizations: [0, 1, 2, 3, 4]
        values: [1.0, 2.0, 1.0, 0.5, 2]
      - name: FAULT_MODEL
        realizations: [0, 1, 2, 3, 4]
        values: [open, closed, open, open, closed]
  - case_uuid: 11111111-1111-4111-8111-111111111111
    case_name: drogon
    name: iter-1
    realizations: [1, 2, 3, 4, 5]
    custom_name: history match
deltas:
  - compare: 11111111-1111-4111-8111-111111111111::iter-1
    reference: 11111111-1111-4111-8111-111111111111::iter-0
`

// drogonSnapshot writes the drogon snapshot to a temp dir and returns its path.
func drogonSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drogon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(drogonYAML), 0644))
	return path
}

// execute runs cmd with args and returns stdout and the command error.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
