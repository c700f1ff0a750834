// Package debug configures the zerolog logger used by the command line tools.
package debug

import (
	"io"
	"path"
	"runtime"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// NewLogger returns a console logger at level that stamps every event with a
// pkg:file.go:line caller.
func NewLogger(w io.Writer, level zerolog.Level, colorize bool) zerolog.Logger {
	zerolog.CallerMarshalFunc = CallerMarshalFunc(colorize)

	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !colorize,
		TimeFormat: "15:04:05.0000",
	}

	return zerolog.New(out).Level(level).With().Timestamp().Caller().Logger()
}

func ParseLevel(s string) (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, errors.Errorf("parsing log level %q: %w", s, err)
	}
	return level, nil
}

// CallerMarshalFunc renders callers as pkg:file.go:line, where pkg is the
// last element of the calling function's import path.
func CallerMarshalFunc(colorize bool) func(pc uintptr, file string, line int) string {
	return func(pc uintptr, file string, line int) string {
		c := Caller{File: path.Base(file), Line: line}
		if fn := runtime.FuncForPC(pc); fn != nil {
			c.Package, c.Function = SplitFuncName(fn.Name())
		}
		return c.Format(colorize)
	}
}

type Caller struct {
	Package  string // full import path
	Function string
	File     string
	Line     int
}

// SplitFuncName splits a runtime function name such as
// example.com/mod/pkg.(*T).Method into its import path and the rest.
func SplitFuncName(name string) (pkg, function string) {
	dir, base := "", name
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		dir, base = name[:i+1], name[i+1:]
	}

	elem, rest, ok := strings.Cut(base, ".")
	if !ok {
		return name, ""
	}
	return dir + elem, rest
}

func (c Caller) Format(colorize bool) string {
	pkg := path.Base(c.Package)
	if c.Package == "" {
		pkg = ""
	}

	file, num, sep := c.File, strconv.Itoa(c.Line), ":"
	if colorize {
		file = color.New(color.Bold).Sprint(file)
		num = color.New(color.FgHiRed, color.Bold).Sprint(num)
		sep = color.New(color.Faint).Sprint(sep)
	}

	if pkg == "" {
		return file + sep + num
	}
	return pkg + sep + file + sep + num
}
