package workbook

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
)

// Load reads and decodes one sheet file. The workbook is named after path.
func Load(fs afero.Fs, path string) (*Workbook, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading sheet file: %w", err)
	}

	wb, err := Decode(path, format, data)
	if err != nil {
		return nil, errors.Errorf("decoding %s: %w", path, err)
	}

	return wb, nil
}

// LoadAll loads every path it can. Failures are combined into the returned
// error; the workbooks that did load are still returned.
func LoadAll(fs afero.Fs, paths []string) ([]*Workbook, error) {
	var (
		books []*Workbook
		errs  error
	)

	for _, path := range paths {
		wb, err := Load(fs, path)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		books = append(books, wb)
	}

	return books, errs
}

// Glob expands doublestar patterns (sheets/**/*.yaml) against fs and keeps
// the files with a supported extension, sorted and without duplicates.
func Glob(fs afero.Fs, patterns ...string) ([]string, error) {
	fsys := afero.NewIOFS(fs)
	seen := make(map[string]bool)
	var out []string

	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(pattern, "./")
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid glob pattern %q", pattern)
		}

		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, errors.Errorf("globbing %q: %w", pattern, err)
		}

		for _, m := range matches {
			if seen[m] {
				continue
			}
			if _, err := FormatFromPath(m); err != nil {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}

	sort.Strings(out)
	return out, nil
}
