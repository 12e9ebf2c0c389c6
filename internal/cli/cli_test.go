package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/cptool/internal/apperr"
	"github.com/DjordjeVuckovic/cptool/internal/definition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

type result struct {
	err    error
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	for _, key := range []string{"STORAGE_TYPE", "GRAMMAR_DIR", "CPTOOL_GRAMMAR", "CPTOOL_DEBUG"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	var out, errOut bytes.Buffer
	cmd := NewCommand(strings.NewReader(stdin), &out, &errOut)
	err := cmd.Run(context.Background(), append([]string{"cptool"}, args...))
	code := ExitCode(err, &errOut)
	return result{err: err, code: code, stdout: out.String(), stderr: errOut.String()}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestValidate_Stdin(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		stdin    string
		wantCode int
		wantOut  string
	}{
		{
			name:     "accepted",
			args:     []string{"validate", "--grammar", "a_plus_b"},
			stdin:    "3 4\n",
			wantCode: ExitAccepted,
			wantOut:  "ACCEPTED",
		},
		{
			name:     "missing newline",
			args:     []string{"validate", "--grammar", "a_plus_b"},
			stdin:    "3 4",
			wantCode: ExitRejected,
			wantOut:  "REJECTED",
		},
		{
			name:     "double space",
			args:     []string{"validate", "-g", "a_plus_b"},
			stdin:    "3  4\n",
			wantCode: ExitRejected,
		},
		{
			name:     "windows line ending",
			args:     []string{"validate", "-g", "a_plus_b"},
			stdin:    "3 4\r\n",
			wantCode: ExitRejected,
		},
		{
			name:     "custom max value",
			args:     []string{"validate", "-g", "a_plus_b", "--max-value", "10"},
			stdin:    "11 1\n",
			wantCode: ExitRejected,
		},
		{
			name:     "sum accepted",
			args:     []string{"validate", "-g", "sum"},
			stdin:    "2\n7 0\n",
			wantCode: ExitAccepted,
		},
		{
			name:     "sum with too few values",
			args:     []string{"validate", "-g", "sum"},
			stdin:    "3\n7 0\n",
			wantCode: ExitRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, tt.stdin, tt.args...)

			assert.Equal(t, tt.wantCode, res.code, "stderr: %s", res.stderr)
			if tt.wantCode == ExitRejected {
				assert.True(t, apperr.IsFormatViolation(res.err))
			}
			if tt.wantOut != "" {
				assert.Contains(t, res.stdout, tt.wantOut)
			}
		})
	}
}

func TestValidate_Quiet(t *testing.T) {
	res := runCLI(t, "1 2", "validate", "-g", "a_plus_b", "--quiet")

	assert.Equal(t, ExitRejected, res.code)
	assert.Empty(t, res.stdout)
}

func TestValidate_FilesJSON(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "1.in", "1 2\n")
	bad := writeFile(t, dir, "2.in", "1 2\n\n")

	res := runCLI(t, "", "validate", "-g", "a_plus_b", "--format", "json", good, bad)
	require.Equal(t, ExitRejected, res.code, "stderr: %s", res.stderr)
	assert.Contains(t, res.err.Error(), "1 of 2 inputs rejected")

	var rep struct {
		Total    int `json:"total"`
		Accepted int `json:"accepted"`
		Verdicts []struct {
			Source   string `json:"source"`
			Accepted bool   `json:"accepted"`
			Offset   int    `json:"offset"`
			Rule     string `json:"rule"`
		} `json:"verdicts"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rep))
	assert.Equal(t, 2, rep.Total)
	assert.Equal(t, 1, rep.Accepted)
	require.Len(t, rep.Verdicts, 2)
	assert.Equal(t, good, rep.Verdicts[0].Source)
	assert.Equal(t, bad, rep.Verdicts[1].Source)
	assert.Equal(t, 4, rep.Verdicts[1].Offset)
	assert.Equal(t, "eof", rep.Verdicts[1].Rule)
}

func TestValidate_GrammarDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pair.yaml", `kind: Grammar
version: v1
metadata:
  name: pair
rules:
  - type: int
    name: x
    min: -5
    max: 5
  - type: literal
    value: ","
  - type: int
    name: y
    min: -5
    max: 5
  - type: eoln
  - type: eof
`)

	res := runCLI(t, "-3,5\n", "validate", "-g", "pair", "--grammar-dir", dir)
	assert.Equal(t, ExitAccepted, res.code, "stderr: %s", res.stderr)

	res = runCLI(t, "-3, 5\n", "validate", "-g", "pair", "--grammar-dir", dir)
	assert.Equal(t, ExitRejected, res.code)
}

func TestValidate_OperationalErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "unknown grammar",
			args:    []string{"validate", "-g", "a_plus"},
			wantErr: `did you mean "a_plus_b"`,
		},
		{
			name:    "missing grammar flag",
			args:    []string{"validate"},
			wantErr: "grammar",
		},
		{
			name:    "unknown format",
			args:    []string{"validate", "-g", "a_plus_b", "--format", "xml"},
			wantErr: "unknown report format",
		},
		{
			name:    "missing file",
			args:    []string{"validate", "-g", "a_plus_b", "/nonexistent/1.in"},
			wantErr: "open input",
		},
		{
			name:    "missing grammar dir",
			args:    []string{"validate", "-g", "a_plus_b", "--grammar-dir", "/nonexistent/grammars"},
			wantErr: "grammar directory",
		},
		{
			name:    "non-positive bound",
			args:    []string{"validate", "-g", "a_plus_b", "--max-value", "0"},
			wantErr: "must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "1 2\n", tt.args...)

			assert.Equal(t, ExitOperational, res.code)
			require.Error(t, res.err)
			assert.Contains(t, res.err.Error(), tt.wantErr)
			assert.Contains(t, res.stderr, "error:")
		})
	}
}

func TestGen_DeterministicAndAccepted(t *testing.T) {
	args := []string{"gen", "-g", "sum", "--bound", "n=1:20", "case", "7"}

	first := runCLI(t, "", args...)
	require.Equal(t, ExitAccepted, first.code, "stderr: %s", first.stderr)
	second := runCLI(t, "", args...)
	assert.Equal(t, first.stdout, second.stdout)

	other := runCLI(t, "", "gen", "-g", "sum", "--bound", "n=1:20", "case", "8")
	assert.NotEqual(t, first.stdout, other.stdout)

	check := runCLI(t, first.stdout, "validate", "-g", "sum", "--quiet")
	assert.Equal(t, ExitAccepted, check.code)
}

func TestGen_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1.in")

	res := runCLI(t, "", "gen", "-g", "a_plus_b", "--output", path, "1")
	require.Equal(t, ExitAccepted, res.code, "stderr: %s", res.stderr)
	assert.Empty(t, res.stdout)

	check := runCLI(t, "", "validate", "-g", "a_plus_b", "--quiet", path)
	assert.Equal(t, ExitAccepted, check.code)
}

func TestGen_Errors(t *testing.T) {
	res := runCLI(t, "", "gen", "-g", "sum", "--bound", "n=5")
	assert.Equal(t, ExitOperational, res.code)

	res = runCLI(t, "", "gen", "-g", "nope")
	assert.Equal(t, ExitOperational, res.code)

	res = runCLI(t, "", "gen", "-g", "sum", "--bound", "ai=1:1")
	assert.Equal(t, ExitOperational, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, `bound "ai" does not match any integer`)
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	problemFile := writeFile(t, dir, "problem.yaml", `kind: Problem
version: v1
metadata:
  name: pairs
grammar: a_plus_b
bundles:
  small:
    cases:
      - args: [small, "1"]
        bounds: {a: {min: 1, max: 9}, b: {min: 1, max: 9}}
      - args: [small, "2"]
  unused:
    cases:
      - args: [unused]
tasks:
  first: {score: 30, type: min, bundles: [small]}
  second: {score: 70, type: sum, bundles: [small], dependencies: [first]}
`)
	out := filepath.Join(dir, "tests")

	res := runCLI(t, "", "build", "--output-dir", out, problemFile)
	require.Equal(t, ExitAccepted, res.code, "stderr: %s", res.stderr)
	assert.Contains(t, res.stdout, "pairs: 3/3 cases accepted by a_plus_b, total score 100.00")
	assert.Contains(t, res.stdout, "35.00")
	assert.Contains(t, res.stderr, "unused test bundle")

	for _, name := range []string{"small-0.in", "small-1.in", "unused-0.in"} {
		check := runCLI(t, "", "validate", "-g", "a_plus_b", "--quiet", filepath.Join(out, name))
		assert.Equal(t, ExitAccepted, check.code, name)
	}

	res = runCLI(t, "", "build", "--output-dir", out, "--format", "json", problemFile)
	require.Equal(t, ExitAccepted, res.code, "stderr: %s", res.stderr)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	assert.Equal(t, 100.0, doc["totalScore"])
}

func TestBuild_Errors(t *testing.T) {
	dir := t.TempDir()

	res := runCLI(t, "", "build")
	assert.Equal(t, ExitOperational, res.code)

	res = runCLI(t, "", "build", filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, ExitOperational, res.code)

	bad := writeFile(t, dir, "bad.yaml", "kind: Problem\nversion: v1\nmetadata: {name: x}\ngrammar: a_plus_b\n"+
		"bundles: {b: {cases: [{args: []}]}}\ntasks: {t: {score: 1, type: sum, bundles: [c]}}\n")
	res = runCLI(t, "", "build", "--output-dir", filepath.Join(dir, "out"), bad)
	assert.Equal(t, ExitOperational, res.code)
	assert.Contains(t, res.stderr, `bundle "c" not found`)
}

func TestParseBound(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr bool
	}{
		{spec: "n=1:10"},
		{spec: "a_i=-5:-1"},
		{spec: "n", wantErr: true},
		{spec: "=1:2", wantErr: true},
		{spec: "n=1", wantErr: true},
		{spec: "n=a:2", wantErr: true},
		{spec: "n=1:b", wantErr: true},
		{spec: "n=5:1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			opt, err := parseBound(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, opt)
		})
	}
}

func TestGrammars(t *testing.T) {
	res := runCLI(t, "", "grammars")
	require.Equal(t, ExitAccepted, res.code, "stderr: %s", res.stderr)

	assert.Contains(t, res.stdout, "NAME")
	assert.Contains(t, res.stdout, "a_plus_b")
	assert.Contains(t, res.stdout, "sum")
	assert.Less(t, strings.Index(res.stdout, "a_plus_b"), strings.Index(res.stdout, "sum"))

	verbose := runCLI(t, "", "grammars", "--verbose")
	assert.Contains(t, verbose.stdout, "RULES")
}

func TestShow(t *testing.T) {
	res := runCLI(t, "", "show", "--max-value", "100", "a_plus_b")
	require.Equal(t, ExitAccepted, res.code, "stderr: %s", res.stderr)

	def, err := definition.Parse([]byte(res.stdout))
	require.NoError(t, err)
	assert.Equal(t, "a_plus_b", def.Metadata.Name)

	g, err := def.Build()
	require.NoError(t, err)
	assert.NoError(t, g.ValidateBytes([]byte("100 1\n")))
	assert.Error(t, g.ValidateBytes([]byte("101 1\n")))

	asJSON := runCLI(t, "", "show", "--format", "json", "sum")
	require.Equal(t, ExitAccepted, asJSON.code)
	assert.True(t, json.Valid([]byte(asJSON.stdout)))

	missing := runCLI(t, "", "show")
	assert.Equal(t, ExitOperational, missing.code)
}

func TestSchema(t *testing.T) {
	res := runCLI(t, "", "schema")
	require.Equal(t, ExitAccepted, res.code, res.stderr)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	assert.Equal(t, "https://schemas.cptool.dev/definition", doc["$id"])
	assert.ElementsMatch(t, []any{"kind", "version", "metadata", "rules"}, doc["required"])
	assert.Contains(t, doc["$defs"], "Rule")

	path := filepath.Join(t.TempDir(), "grammar.schema.json")
	res = runCLI(t, "", "schema", "--output", path)
	require.Equal(t, ExitAccepted, res.code, res.stderr)
	assert.Empty(t, res.stdout)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"$schema": "https://json-schema.org/draft/2020-12/schema"`)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(strings.NewReader("1 2\n")))

	f, err := os.CreateTemp(t.TempDir(), "in")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f))
}

func TestExitCode(t *testing.T) {
	var errOut bytes.Buffer

	assert.Equal(t, ExitAccepted, ExitCode(nil, &errOut))
	assert.Equal(t, ExitRejected, ExitCode(apperr.NewFormatViolation(0, "int", "expected digit"), &errOut))
	assert.Empty(t, errOut.String())

	assert.Equal(t, ExitOperational, ExitCode(errors.New("disk on fire"), &errOut))
	assert.Contains(t, errOut.String(), "disk on fire")
}

func TestValidateCmd_CommandStructure(t *testing.T) {
	cmd := validateCmd(strings.NewReader(""), &bytes.Buffer{})

	assert.Equal(t, "validate", cmd.Name)
	assert.NotEmpty(t, cmd.Usage)
	assert.NotEmpty(t, cmd.Description)
	assert.NotNil(t, cmd.Action)

	for _, name := range []string{"grammar", "format", "quiet", "concurrency", "grammar-dir", "max-value", "max-count"} {
		assert.True(t, hasFlag(cmd, name), "flag %q not found", name)
	}
}

func hasFlag(cmd *cli.Command, name string) bool {
	for _, flag := range cmd.Flags {
		for _, n := range flag.Names() {
			if n == name {
				return true
			}
		}
	}
	return false
}
