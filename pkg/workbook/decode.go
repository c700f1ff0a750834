package workbook

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"
	FormatCSV  Format = "csv"
)

// FormatFromPath picks the sheet format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".hcl":
		return FormatHCL, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", errors.Errorf("unsupported sheet file %q", path)
}

// sheetDocument is the shape shared by the YAML and TOML formats:
//
//	cells:
//	  A1: 10
//	  B1: "=A1*2"
type sheetDocument struct {
	Cells map[string]any `yaml:"cells" toml:"cells"`
}

// hclDocument is the HCL format:
//
//	cell "A1" { value = 10 }
//	cell "B1" { value = "=A1*2" }
type hclDocument struct {
	Cells []*hclCell `hcl:"cell,block"`
}

type hclCell struct {
	Coordinate string         `hcl:"coordinate,label"`
	Value      hcl.Expression `hcl:"value,attr"`
}

// Decode reads a sheet document in the given format.
func Decode(name string, format Format, data []byte) (*Workbook, error) {
	switch format {
	case FormatYAML:
		return decodeYAML(name, data)
	case FormatTOML:
		return decodeTOML(name, data)
	case FormatHCL:
		return decodeHCL(name, data)
	case FormatCSV:
		return decodeCSV(name, data)
	}
	return nil, errors.Errorf("unsupported sheet format %q", format)
}

func decodeYAML(name string, data []byte) (*Workbook, error) {
	var doc sheetDocument
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return fromMap(name, doc.Cells)
}

func decodeTOML(name string, data []byte) (*Workbook, error) {
	var doc sheetDocument
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, errors.Errorf("parsing TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("parsing TOML: unknown key %q", undecoded[0].String())
	}
	return fromMap(name, doc.Cells)
}

func decodeHCL(name string, data []byte) (*Workbook, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, name)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	var doc hclDocument
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	wb := New(name)
	for _, c := range doc.Cells {
		if c.Value == nil {
			return nil, errors.Errorf("cell %s: missing value", c.Coordinate)
		}
		val, diags := c.Value.Value(nil)
		if diags.HasErrors() {
			return nil, errors.Errorf("evaluating cell %s: %s", c.Coordinate, diags.Error())
		}
		// gohcl fills a missing attribute with a null expression
		if val.IsNull() {
			return nil, errors.Errorf("cell %s: missing value", c.Coordinate)
		}

		raw, err := ctyToGo(val)
		if err != nil {
			return nil, errors.Errorf("cell %s: %w", c.Coordinate, err)
		}

		if err := wb.Set(c.Coordinate, raw); err != nil {
			return nil, err
		}
	}

	return wb, nil
}

func ctyToGo(val cty.Value) (any, error) {
	switch {
	case val.IsNull():
		return nil, nil
	case !val.IsKnown():
		return nil, errors.New("value is not known")
	case val.Type() == cty.String:
		return val.AsString(), nil
	case val.Type() == cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return f, nil
	case val.Type() == cty.Bool:
		return val.True(), nil
	}
	return nil, errors.Errorf("unsupported value type %s", val.Type().FriendlyName())
}

// decodeCSV treats the file as the sheet grid itself: row 1 column 1 is A1.
// Empty fields are empty cells.
func decodeCSV(name string, data []byte) (*Workbook, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Errorf("parsing CSV: %w", err)
	}

	wb := New(name)
	for r, record := range records {
		for c, field := range record {
			if field == "" {
				continue
			}
			if err := wb.Set(Coordinate(c+1, r+1), csvValue(field)); err != nil {
				return nil, err
			}
		}
	}

	return wb, nil
}

func csvValue(field string) any {
	if strings.HasPrefix(field, "=") {
		return field
	}
	if f, err := strconv.ParseFloat(field, 64); err == nil {
		return f
	}
	switch strings.ToUpper(field) {
	case "TRUE":
		return true
	case "FALSE":
		return false
	}
	return field
}

func fromMap(name string, cells map[string]any) (*Workbook, error) {
	coords := make([]string, 0, len(cells))
	for coord := range cells {
		coords = append(coords, coord)
	}
	sort.Strings(coords)

	wb := New(name)
	for _, coord := range coords {
		if err := wb.Set(coord, cells[coord]); err != nil {
			return nil, err
		}
	}
	return wb, nil
}
