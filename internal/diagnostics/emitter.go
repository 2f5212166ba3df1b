package diagnostics

import (
	"fmt"
	"io"
	"strings"

	"github.com/epoll-reactor/weak-compiler-sub000/colors"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/source"
)

const LINE_POS = "%s--> %s:%d:%d\n"

// Emitter handles the rendering and output of diagnostics for a single file
type Emitter struct {
	writer   io.Writer
	filepath string
	lines    []string
}

// NewEmitter creates an emitter that writes to a specific writer
func NewEmitter(w io.Writer, filepath, content string) *Emitter {
	return &Emitter{
		writer:   w,
		filepath: filepath,
		lines:    source.SplitLines(content),
	}
}

func (e *Emitter) Emit(diag *Diagnostic) {
	e.printHeader(diag)

	width := e.gutterWidth(diag)
	for _, label := range diag.Labels {
		e.printLabel(label, diag.Severity, width)
	}

	for _, note := range diag.Notes {
		fmt.Fprint(e.writer, strings.Repeat(" ", width))
		colors.GREY.Fprint(e.writer, " = ")
		colors.BOLD.Fprint(e.writer, "note: ")
		fmt.Fprintln(e.writer, note)
	}

	if diag.Help != "" {
		fmt.Fprint(e.writer, strings.Repeat(" ", width))
		colors.GREY.Fprint(e.writer, " = ")
		colors.GREEN.Fprint(e.writer, "help: ")
		fmt.Fprintln(e.writer, diag.Help)
	}

	fmt.Fprintln(e.writer)
}

func (e *Emitter) gutterWidth(diag *Diagnostic) int {
	maxLine := 1
	for _, label := range diag.Labels {
		if !label.Location.IsZero() && label.Location.End.Line > maxLine {
			maxLine = label.Location.End.Line
		}
	}
	return len(fmt.Sprintf("%d", maxLine))
}

func (e *Emitter) printHeader(diag *Diagnostic) {
	color := e.severityColor(diag.Severity)

	color.Fprint(e.writer, diag.Severity.String())
	if diag.Code != "" {
		fmt.Fprintf(e.writer, "[%s]", diag.Code)
	}
	fmt.Fprint(e.writer, ": ")
	colors.BOLD.Fprintln(e.writer, diag.Message)
}

func (e *Emitter) printLabel(label Label, severity Severity, width int) {
	if label.Location.IsZero() {
		return
	}
	start := label.Location.Start
	end := label.Location.End

	filepath := label.Location.Filename
	if filepath == "" {
		filepath = e.filepath
	}
	colors.BLUE.Fprintf(e.writer, LINE_POS, strings.Repeat(" ", width), filepath, start.Line, start.Column)
	fmt.Fprint(e.writer, strings.Repeat(" ", width))
	colors.GREY.Fprintln(e.writer, " |")

	if start.Line < 1 || start.Line > len(e.lines) {
		return
	}
	line := e.lines[start.Line-1]
	colors.GREY.Fprintf(e.writer, "%*d | ", width, start.Line)
	fmt.Fprintln(e.writer, line)

	span := 1
	if end.Line == start.Line && end.Column > start.Column {
		span = end.Column - start.Column
	} else if end.Line > start.Line {
		span = len(line) - start.Column + 1
	}
	if span < 1 {
		span = 1
	}

	marker, color := "^", e.severityColor(severity)
	if label.Style == Secondary {
		marker, color = "-", colors.BLUE
	}
	fmt.Fprint(e.writer, strings.Repeat(" ", width))
	colors.GREY.Fprint(e.writer, " | ")
	fmt.Fprint(e.writer, strings.Repeat(" ", start.Column-1))
	color.Fprint(e.writer, strings.Repeat(marker, span))
	if label.Message != "" {
		color.Fprint(e.writer, " "+label.Message)
	}
	fmt.Fprintln(e.writer)
}

func (e *Emitter) severityColor(severity Severity) colors.COLOR {
	switch severity {
	case Error:
		return colors.BOLDRED
	case Warning:
		return colors.BOLDYELLOW
	default:
		return colors.BOLDBLUE
	}
}
