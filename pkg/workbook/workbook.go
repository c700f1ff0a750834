// Package workbook extracts formula and value cells from sheet documents.
//
// A sheet is a mapping from coordinate (B3) to a raw value. String values
// starting with "=" are formulas and are stored without the "=".
package workbook

import (
	"sort"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

type CellKind string

const (
	KindValue   CellKind = "value"
	KindFormula CellKind = "formula"
)

// Cell is either a literal value or a formula body
type Cell struct {
	Kind    CellKind `json:"type" yaml:"type"`
	Value   any      `json:"value,omitempty" yaml:"value,omitempty"`
	Formula string   `json:"formula,omitempty" yaml:"formula,omitempty"`
}

func NewCell(raw any) Cell {
	if s, ok := raw.(string); ok && strings.HasPrefix(s, "=") {
		return Cell{Kind: KindFormula, Formula: s[1:]}
	}
	return Cell{Kind: KindValue, Value: raw}
}

// Formula is one formula cell ready to hand to the parser
type Formula struct {
	Coordinate string
	Text       string
}

type Workbook struct {
	Name  string
	Cells map[string]Cell
}

func New(name string) *Workbook {
	return &Workbook{Name: name, Cells: make(map[string]Cell)}
}

// Set stores raw under the normalized coordinate. Nil values are empty cells
// and are not stored.
func (w *Workbook) Set(coordinate string, raw any) error {
	col, row, err := SplitCoordinate(coordinate)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	w.Cells[Coordinate(col, row)] = NewCell(raw)
	return nil
}

// Formulas lists the formula cells ordered by row, then column.
func (w *Workbook) Formulas() []Formula {
	type keyed struct {
		Formula
		col, row int
	}

	var list []keyed
	for coord, cell := range w.Cells {
		if cell.Kind != KindFormula {
			continue
		}
		// keys were normalized by Set
		col, row, _ := SplitCoordinate(coord)
		list = append(list, keyed{Formula: Formula{Coordinate: coord, Text: cell.Formula}, col: col, row: row})
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].row != list[j].row {
			return list[i].row < list[j].row
		}
		return list[i].col < list[j].col
	})

	out := make([]Formula, len(list))
	for i, k := range list {
		out[i] = k.Formula
	}
	return out
}

// Coordinate renders a one-based column and row as A1 notation.
func Coordinate(col, row int) string {
	var letters []byte
	for col > 0 {
		col--
		letters = append([]byte{byte('A' + col%26)}, letters...)
		col /= 26
	}
	return string(letters) + strconv.Itoa(row)
}

// Bounds of A1 notation: columns run to XFD, rows to 1048576.
const (
	maxColumnLetters = 3
	maxRowDigits     = 7
)

// SplitCoordinate parses A1 notation (case insensitive) into a one-based
// column and row.
func SplitCoordinate(coordinate string) (col, row int, err error) {
	letters := 0
	for letters < len(coordinate) && isLetter(coordinate[letters]) {
		letters++
	}
	digits := len(coordinate) - letters
	if letters == 0 || digits == 0 || letters > maxColumnLetters || digits > maxRowDigits {
		return 0, 0, errors.Errorf("invalid cell coordinate %q", coordinate)
	}

	for _, c := range []byte(coordinate[:letters]) {
		col = col*26 + int(upper(c)-'A') + 1
	}
	for _, c := range []byte(coordinate[letters:]) {
		if c < '0' || c > '9' {
			return 0, 0, errors.Errorf("invalid cell coordinate %q", coordinate)
		}
		row = row*10 + int(c-'0')
	}
	if row <= 0 {
		return 0, 0, errors.Errorf("invalid cell coordinate %q: rows start at 1", coordinate)
	}

	return col, row, nil
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
