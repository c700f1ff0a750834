package workbook_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/formulast/pkg/workbook"
)

func TestNewCell(t *testing.T) {
	assert.Equal(t, workbook.Cell{Kind: workbook.KindFormula, Formula: "SUM(A1:B5)+10"}, workbook.NewCell("=SUM(A1:B5)+10"))
	assert.Equal(t, workbook.Cell{Kind: workbook.KindValue, Value: "hello"}, workbook.NewCell("hello"))
	assert.Equal(t, workbook.Cell{Kind: workbook.KindValue, Value: 3.5}, workbook.NewCell(3.5))
	assert.Equal(t, workbook.Cell{Kind: workbook.KindFormula, Formula: ""}, workbook.NewCell("="))
}

func TestCoordinates(t *testing.T) {
	tests := []struct {
		coord string
		col   int
		row   int
	}{
		{"A1", 1, 1},
		{"B3", 2, 3},
		{"Z10", 26, 10},
		{"AA23", 27, 23},
		{"AZ1", 52, 1},
		{"BA7", 53, 7},
		{"XFD1048576", 16384, 1048576},
	}

	for _, tt := range tests {
		t.Run(tt.coord, func(t *testing.T) {
			col, row, err := workbook.SplitCoordinate(tt.coord)
			require.NoError(t, err)
			assert.Equal(t, tt.col, col)
			assert.Equal(t, tt.row, row)
			assert.Equal(t, tt.coord, workbook.Coordinate(col, row))
		})
	}

	col, row, err := workbook.SplitCoordinate("aa23")
	require.NoError(t, err)
	assert.Equal(t, "AA23", workbook.Coordinate(col, row))

	for _, bad := range []string{"", "A", "12", "A0", "$A$1", "A1B", "A-1", "AAAA1", "A12345678", "A" + strings.Repeat("9", 40), strings.Repeat("Z", 40) + "1"} {
		_, _, err := workbook.SplitCoordinate(bad)
		assert.Error(t, err, "coordinate %q", bad)
	}
}

func TestFormulasOrder(t *testing.T) {
	wb := workbook.New("test")
	require.NoError(t, wb.Set("B2", "=A1"))
	require.NoError(t, wb.Set("a2", "=1"))
	require.NoError(t, wb.Set("C1", "=2"))
	require.NoError(t, wb.Set("A1", 10))
	require.NoError(t, wb.Set("D9", nil))

	assert.Len(t, wb.Cells, 4, "nil is an empty cell")
	assert.Equal(t, []workbook.Formula{
		{Coordinate: "C1", Text: "2"},
		{Coordinate: "A2", Text: "1"},
		{Coordinate: "B2", Text: "A1"},
	}, wb.Formulas())

	assert.Error(t, wb.Set("not a cell", 1))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		format workbook.Format
		data   string
	}{
		{
			name:   "yaml",
			format: workbook.FormatYAML,
			data: `
cells:
  A1: 10
  A2: 2.5
  B1: "=SUM(A1:A2)+10"
  C1: hello
`,
		},
		{
			name:   "toml",
			format: workbook.FormatTOML,
			data: `
[cells]
A1 = 10
A2 = 2.5
B1 = "=SUM(A1:A2)+10"
C1 = "hello"
`,
		},
		{
			name:   "hcl",
			format: workbook.FormatHCL,
			data: `
cell "A1" { value = 10 }
cell "A2" { value = 2.5 }
cell "B1" { value = "=SUM(A1:A2)+10" }
cell "C1" { value = "hello" }
`,
		},
		{
			name:   "csv",
			format: workbook.FormatCSV,
			data:   "10,=SUM(A1:A2)+10,hello\n2.5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb, err := workbook.Decode("sheet", tt.format, []byte(tt.data))
			require.NoError(t, err)
			require.Len(t, wb.Cells, 4)

			assert.Equal(t, []workbook.Formula{{Coordinate: "B1", Text: "SUM(A1:A2)+10"}}, wb.Formulas())
			assert.Equal(t, workbook.KindValue, wb.Cells["A1"].Kind)
			assert.EqualValues(t, 2.5, wb.Cells["A2"].Value)
			assert.Equal(t, "hello", wb.Cells["C1"].Value)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		format workbook.Format
		data   string
	}{
		{"yaml_unknown_field", workbook.FormatYAML, "sheets: {}\n"},
		{"yaml_bad_coordinate", workbook.FormatYAML, "cells:\n  \"1A\": 3\n"},
		{"toml_unknown_key", workbook.FormatTOML, "title = \"x\"\n"},
		{"hcl_missing_value", workbook.FormatHCL, "cell \"A1\" {}\n"},
		{"hcl_missing_value_beside_valid", workbook.FormatHCL, "cell \"A1\" {}\ncell \"B1\" { value = \"=A1+1\" }\n"},
		{"hcl_list_value", workbook.FormatHCL, "cell \"A1\" { value = [1, 2] }\n"},
		{"csv_bad_quote", workbook.FormatCSV, "\"unterminated\n"},
		{"unknown_format", workbook.Format("xlsx"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := workbook.Decode("sheet", tt.format, []byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestDecodeHCLMissingValue(t *testing.T) {
	wb, err := workbook.Decode("sheet", workbook.FormatHCL, []byte("cell \"B1\" { value = \"=A1+1\" }\ncell \"A1\" {}\n"))
	require.Error(t, err)
	assert.Nil(t, wb)
	assert.Contains(t, err.Error(), "cell A1: missing value")
}

func TestLoadAll(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "good.yaml", []byte("cells:\n  A1: \"=1+2\"\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "bad.toml", []byte("[cells\n"), 0o644))

	books, err := workbook.LoadAll(fs, []string{"good.yaml", "bad.toml", "missing.csv", "notes.txt"})
	require.Error(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "good.yaml", books[0].Name)
	assert.Equal(t, "1+2", books[0].Cells["A1"].Formula)

	assert.Contains(t, err.Error(), "bad.toml")
	assert.Contains(t, err.Error(), "missing.csv")
	assert.Contains(t, err.Error(), "notes.txt")
}

func TestGlob(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "nested/deep/b.hcl", "nested/c.csv", "nested/readme.md"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
	}

	fs := afero.NewBasePathFs(afero.NewOsFs(), dir)

	got, err := workbook.Glob(fs, "**/*", "./a.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.yaml", "nested/c.csv", "nested/deep/b.hcl"}, got)

	_, err = workbook.Glob(fs, "[")
	assert.Error(t, err)
}
