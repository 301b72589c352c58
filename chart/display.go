package chart

import (
	"fmt"
	"io"
	"strings"
)

// Color highlights a chart element
type Color int

// Chart colors
const (
	ColorNone Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	numColors
)

// Display renders chart elements. Object arguments are lifeline indexes into
// the most recent SetObjects label list.
type Display interface {
	// SetObjects replaces the lifeline labels
	SetObjects(labels []string)

	// Banner prints the lifeline banner when a page is full or when required
	Banner(required bool)

	// Message draws a message from src to dst
	Message(src, dst int, text string, c Color)

	// Event draws an asynchronous event arriving at obj
	Event(obj int, text string, c Color)

	// State draws a state change on obj
	State(obj int, text string, c Color)

	// Create draws a message from src that creates dst
	Create(src, dst int, text string, c Color)

	// Destroy marks the end of obj's lifeline
	Destroy(obj int, c Color)

	// TestPoint annotates obj with a sampled value
	TestPoint(obj int, value uint32, c Color)

	// Ack draws an acknowledgment from src back to the original sender dst
	Ack(src, dst int, text string, c Color)

	// Err returns the first write error, if any
	Err() error
}

// output is the shared writer of every display. The first write error sticks.
type output struct {
	w    io.Writer
	err  error
	objs []string
}

func (o *output) printf(format string, args ...any) {
	if o.err != nil {
		return
	}
	_, o.err = fmt.Fprintf(o.w, format, args...)
}

func (o *output) write(s string) {
	if o.err != nil {
		return
	}
	_, o.err = io.WriteString(o.w, s)
}

func (o *output) Err() error {
	return o.err
}

func (o *output) setObjects(labels []string) {
	o.objs = append(o.objs[:0], labels...)
}

// label returns the lifeline label of an index
func (o *output) label(idx int) string {
	if idx < 0 || idx >= len(o.objs) {
		return fmt.Sprintf("#%d", idx)
	}
	return o.objs[idx]
}

// pager tracks banner repetition
type pager struct {
	lines        int
	linesPerPage int
}

// due advances the line count and reports whether a banner is due
func (p *pager) due(required bool) bool {
	due := p.lines%p.linesPerPage == 0 || required
	if due {
		p.lines = 0
	}
	p.lines++
	return due
}

// repeat is strings.Repeat that tolerates negative counts
func repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, n)
}
