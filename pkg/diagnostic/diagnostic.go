package diagnostic

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/formulast/pkg/lexer"
	"github.com/walteh/formulast/pkg/parser"
	"github.com/walteh/formulast/pkg/position"
)

// ErrInvalidFormula is returned by callers that already rendered the
// diagnostic for a failed formula.
var ErrInvalidFormula = errors.New("invalid formula")

// Severity represents the severity level of a diagnostic
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic represents a single diagnostic message
type Diagnostic struct {
	Message  string
	Location position.Position
	Severity Severity
}

// FromError extracts a diagnostic from a lexical or syntax error anywhere in
// err's chain. Other errors have no source location and report false.
func FromError(err error) (*Diagnostic, bool) {
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		return &Diagnostic{Message: lexErr.Message(), Location: lexErr.Pos, Severity: SeverityError}, true
	}

	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &Diagnostic{Message: syntaxErr.Message(), Location: syntaxErr.Found.Pos, Severity: SeverityError}, true
	}

	return nil, false
}

// Render writes d against the formula it came from:
//
//	error[1:7]: expected RPAREN, got EOF
//	  | SUM(A1
//	  |       ^
func Render(w io.Writer, source string, d *Diagnostic, colorize bool) error {
	place := d.Location.Place(source)
	line := d.Location.Line(source)

	width := d.Location.Width()
	if width < 1 {
		width = 1
	}

	severity := paint(colorize, severityColor(d.Severity), color.Bold)
	gutter := paint(colorize, color.FgBlue, color.Bold)
	caret := paint(colorize, severityColor(d.Severity), color.Bold)

	_, err := fmt.Fprintf(w, "%s: %s\n  %s %s\n  %s %s%s\n",
		severity.Sprintf("%s[%d:%d]", d.Severity, place.Line+1, place.Character+1),
		d.Message,
		gutter.Sprint("|"), line,
		gutter.Sprint("|"), strings.Repeat(" ", place.Character), caret.Sprint(strings.Repeat("^", width)),
	)
	if err != nil {
		return errors.Errorf("writing diagnostic: %w", err)
	}
	return nil
}

func severityColor(s Severity) color.Attribute {
	if s == SeverityWarning {
		return color.FgYellow
	}
	return color.FgRed
}

func paint(colorize bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if colorize {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
