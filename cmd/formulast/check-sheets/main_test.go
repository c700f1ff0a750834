package check_sheets

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSheets(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestRunValid(t *testing.T) {
	dir := writeSheets(t, map[string]string{
		"budget.yaml": "cells:\n  A1: 10\n  B1: \"=SUM(A1:A3, 2)\"\n  A2: \"=A1*2\"\n",
	})

	var out bytes.Buffer
	me := &Handler{dir: dir, refs: true, patterns: []string{"*.yaml"}}
	require.NoError(t, me.Run(context.Background(), &out))

	assert.Equal(t, ""+
		"budget.yaml!B1 OK SUM(Range(A1:A3), Number(2))\n"+
		"  refs: Range(A1:A3)\n"+
		"budget.yaml!A2 OK (Cell(A1) * Number(2))\n"+
		"  refs: Cell(A1)\n"+
		"2 formulas, 0 failed\n", out.String())
}

func TestRunFailures(t *testing.T) {
	dir := writeSheets(t, map[string]string{
		"sheets/good.csv": "1,=A1+1\n",
		"sheets/bad.toml": "[cells]\nA1 = \"=SUM(A1\"\n",
	})

	var logs bytes.Buffer
	ctx := zerolog.New(&logs).WithContext(context.Background())

	var out bytes.Buffer
	me := &Handler{fs: afero.NewBasePathFs(afero.NewOsFs(), dir), patterns: []string{"sheets/**"}}
	err := me.Run(ctx, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheets/bad.toml!A1")

	assert.Equal(t, ""+
		"sheets/bad.toml!A1 ERR SUM(A1\n"+
		"error[1:7]: expected RPAREN, got EOF\n"+
		"  | SUM(A1\n"+
		"  |       ^\n"+
		"sheets/good.csv!B1 OK (Cell(A1) + Number(1))\n"+
		"2 formulas, 1 failed\n", out.String())

	assert.Contains(t, logs.String(), `"run_id"`)
}

func TestRunNoMatches(t *testing.T) {
	me := &Handler{dir: t.TempDir(), patterns: []string{"*.yaml"}}
	err := me.Run(context.Background(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sheet files match")
}
