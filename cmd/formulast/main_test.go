package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/formulast/pkg/diagnostic"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "text",
			args:     []string{"parse", "SUM(A1:B5, 10)"},
			expected: "SUM(Range(A1:B5), Number(10))\n",
		},
		{
			name:     "leading_equals",
			args:     []string{"parse", "=2+3*4"},
			expected: "(Number(2) + (Number(3) * Number(4)))\n",
		},
		{
			name:     "formula",
			args:     []string{"parse", "--format", "formula", "((1 + 2)) * (A1)"},
			expected: "(1+2)*A1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stdout)
		})
	}
}

func TestParseCommandJSON(t *testing.T) {
	stdout, _, err := execute(t, "parse", "--format", "json", "A1^2")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "binary", got["type"])
	assert.Equal(t, "^", got["op"])
	assert.Equal(t, float64(2), got["offset"])
}

func TestParseCommandInvalid(t *testing.T) {
	_, stderr, err := execute(t, "parse", "SUM(A1")
	require.ErrorIs(t, err, diagnostic.ErrInvalidFormula)
	assert.Equal(t, "invalid formula", err.Error())
	assert.Equal(t, "error[1:7]: expected RPAREN, got EOF\n"+
		"  | SUM(A1\n"+
		"  |       ^\n", stderr)

	_, _, err = execute(t, "parse", "--format", "xml", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "xml"`)
}

func TestTokensCommand(t *testing.T) {
	stdout, _, err := execute(t, "tokens", "SUM(A1, 2)")
	require.NoError(t, err)
	assert.Equal(t, ""+
		"   0  FUNCTION(SUM)\n"+
		"   3  LPAREN\n"+
		"   4  CELL(A1)\n"+
		"   6  COMMA\n"+
		"   8  NUMBER(2)\n"+
		"   9  RPAREN\n"+
		"  10  EOF\n", stdout)

	_, stderr, err := execute(t, "tokens", "1 # 2")
	require.ErrorIs(t, err, diagnostic.ErrInvalidFormula)
	assert.NotContains(t, err.Error(), "unexpected character")
	assert.Contains(t, stderr, "unexpected character '#'")
}

func TestTokensCommandSemantic(t *testing.T) {
	stdout, _, err := execute(t, "tokens", "--semantic", "$A$1+2")
	require.NoError(t, err)
	assert.Equal(t, ""+
		"   0  variable[absolute]($A$1)\n"+
		"   4  operator(+)\n"+
		"   5  number[readonly](2)\n", stdout)

	stdout, _, err = execute(t, "tokens", "--highlight", "SUM( A1 )")
	require.NoError(t, err)
	assert.Equal(t, "SUM( A1 )\n", stdout)
}

func TestLogLevel(t *testing.T) {
	_, stderr, err := execute(t, "--log-level", "debug", "parse", "A1+B1")
	require.NoError(t, err)
	assert.Contains(t, stderr, "parsed formula")
	assert.Contains(t, stderr, "references=2")

	_, _, err = execute(t, "--log-level", "loud", "parse", "1")
	require.Error(t, err)
}
