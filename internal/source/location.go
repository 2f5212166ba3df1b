package source

import (
	"fmt"
	"strings"
)

// Location represents a span of source code with start and end positions
type Location struct {
	Filename string
	Start    Position
	End      Position
}

// NewLocation creates a new Location with the given start and end positions
func NewLocation(filename string, start, end Position) *Location {
	return &Location{
		Filename: filename,
		Start:    start,
		End:      end,
	}
}

// Span returns a location covering both a and b.
func Span(a, b *Location) *Location {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return &Location{Filename: a.Filename, Start: a.Start, End: b.End}
}

// IsZero reports whether the location was never set.
func (l *Location) IsZero() bool {
	return l == nil || l.Start.Line == 0
}

// Contains checks if the given position is within this location
func (l *Location) Contains(pos Position) bool {
	if pos.Before(l.Start) {
		return false
	}
	return !l.End.Before(pos)
}

func (l *Location) String() string {
	if l.IsZero() {
		return "location(unknown)"
	}
	return fmt.Sprintf("location(%d:%d - %d:%d)", l.Start.Line, l.Start.Column, l.End.Line, l.End.Column)
}

// Short renders the location as file:line:col.
func (l *Location) Short() string {
	if l.IsZero() {
		return "?"
	}
	if l.Filename == "" {
		return fmt.Sprintf("%d:%d", l.Start.Line, l.Start.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Start.Line, l.Start.Column)
}

// Text extracts the spanned text from content. Returns "" if the span does not fit.
func (l *Location) Text(content string) string {
	if l.IsZero() {
		return ""
	}
	start, end := l.Start.Index, l.End.Index
	if start < 0 || end > len(content) || start > end {
		return ""
	}
	return content[start:end]
}

// SplitLines splits content into lines without their terminators.
func SplitLines(content string) []string {
	if content == "" {
		return []string{}
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
