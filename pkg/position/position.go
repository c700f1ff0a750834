package position

import (
	"fmt"
	"strings"

	"github.com/apparentlymart/go-textseg/v13/textseg"
)

// Place is a zero-based line and character pair. Characters are counted in
// grapheme clusters so a caret lines up with what a terminal shows.
type Place struct {
	Line      int
	Character int
}

// Position represents a span of the source formula
type Position struct {
	// Offset is the byte offset in the source text
	Offset int
	// Text is the actual text at this position
	Text string
}

func New(text string, offset int) Position {
	return Position{Text: text, Offset: offset}
}

// ID returns a unique identifier for this position based on offset and text
func (p Position) ID() string {
	return fmt.Sprintf("%s@%d", p.Text, p.Offset)
}

func (p Position) Length() int {
	return len(p.Text)
}

// Width is the length of the text in grapheme clusters
func (p Position) Width() int {
	return graphemeCount(p.Text)
}

// End is the byte offset just past the text
func (p Position) End() int {
	return p.Offset + p.Length()
}

func (p Position) HasOverlapWith(other Position) bool {
	if p.Length() == 0 {
		return p.Offset >= other.Offset && p.Offset <= other.End()
	}
	if other.Length() == 0 {
		return other.Offset >= p.Offset && other.Offset <= p.End()
	}
	return other.Offset < p.End() && other.End() > p.Offset
}

// Place resolves the offset against source. Offsets past the end of source
// clamp to the end.
func (p Position) Place(source string) Place {
	offset := p.Offset
	if offset > len(source) {
		offset = len(source)
	}
	if offset < 0 {
		offset = 0
	}

	before := source[:offset]
	line := strings.Count(before, "\n")
	if idx := strings.LastIndexByte(before, '\n'); idx >= 0 {
		before = before[idx+1:]
	}

	return Place{Line: line, Character: graphemeCount(before)}
}

// Line returns the full source line containing the position, without the
// trailing newline.
func (p Position) Line(source string) string {
	lines := strings.Split(source, "\n")
	place := p.Place(source)
	if place.Line >= len(lines) {
		return ""
	}
	return lines[place.Line]
}

func (p Position) String() string {
	return p.ID()
}

func graphemeCount(s string) int {
	n, err := textseg.TokenCount([]byte(s), textseg.ScanGraphemeClusters)
	if err != nil {
		// malformed utf-8, fall back to bytes
		return len(s)
	}
	return n
}
