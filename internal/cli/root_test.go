package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kanren/internal/ir"
)

// executeCommand runs the root command with args and returns its stdout
// and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeProgram writes a program file into dir and returns its path.
func writeProgram(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

const familyProgram = `name: family
query: ["?grandparent", "?grandchild"]
facts:
  parent:
    - [alice, bob]
    - [alice, beth]
    - [bob, carol]
    - [bob, dave]
    - [beth, erin]
rules:
  - name: grandparent
    params: ["?g", "?c"]
    body:
      all:
        - {fact: {relation: parent, args: ["?g", "?p"]}}
        - {fact: {relation: parent, args: ["?p", "?c"]}}
goal: {call: {rule: grandparent, args: ["?grandparent", "?grandchild"]}}
expect:
  - [alice, carol]
  - [alice, dave]
  - [alice, erin]
`

const peanoProgram = `name: peano
limit: 4
query: ["?n"]
rules:
  - name: nat
    params: ["?n"]
    body:
      either:
        - {unify: ["?n", zero]}
        - both:
            - {unify: ["?n", [succ, "?m"]]}
            - {call: {rule: nat, args: ["?m"]}}
goal: {call: {rule: nat, args: ["?n"]}}
`

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "kanren", cmd.Use)
	assert.Equal(t, ir.EngineVersion, cmd.Version)
	assert.Contains(t, cmd.Long, "unification")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"query"},
		{"validate"},
		{"test"},
		{"facts"},
		{"facts", "add"},
		{"facts", "list"},
	}

	for _, path := range commands {
		t.Run(filepath.Join(path...), func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestQueryCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	queryCmd, _, err := cmd.Find([]string{"query"})
	require.NoError(t, err)

	limitFlag := queryCmd.Flags().Lookup("limit")
	require.NotNil(t, limitFlag)
	assert.Equal(t, "0", limitFlag.DefValue)

	timeoutFlag := queryCmd.Flags().Lookup("timeout")
	require.NotNil(t, timeoutFlag)
	assert.Equal(t, "0s", timeoutFlag.DefValue)
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	filterFlag := testCmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
}

func TestVersionFlag(t *testing.T) {
	stdout, _, err := executeCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, ir.EngineVersion)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "family.yaml", familyProgram)

	_, _, err := executeCommand(t, "--format", "invalid", "query", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
