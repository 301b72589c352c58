package chart

import (
	"io"
	"strconv"
	"strings"
)

// mscgenAsync is the proxy entity events arrive from; mscgen has no async arrows
const mscgenAsync = "Async"

var mscgenColors = [numColors]string{
	"#000000", // none
	"#ff0000", // red
	"#00ff00", // green
	"#ffff00", // yellow
	"#0000ff", // blue
	"#ff00ff", // magenta
	"#00ffff", // cyan
	"#ffffff", // white
}

// Mscgen writes mscgen entity and arc text
type Mscgen struct {
	output
	pager
}

// NewMscgen creates an mscgen display writing to w.
// The entity list is repeated every linesPerPage lines.
func NewMscgen(w io.Writer, linesPerPage int) *Mscgen {
	if linesPerPage <= 0 {
		linesPerPage = DefaultLinesPerPage
	}
	return &Mscgen{output: output{w: w}, pager: pager{linesPerPage: linesPerPage}}
}

func mscgenColor(c Color) string {
	if c < ColorNone || c >= numColors {
		c = ColorNone
	}
	return mscgenColors[c]
}

// boxColor maps no color to white box backgrounds
func boxColor(c Color) string {
	if c == ColorNone {
		c = ColorWhite
	}
	return mscgenColor(c)
}

func (d *Mscgen) SetObjects(labels []string) { d.setObjects(labels) }

func (d *Mscgen) Banner(required bool) {
	if !d.due(required) {
		return
	}
	entities := make([]string, 0, len(d.objs)+1)
	entities = append(entities, strconv.Quote(mscgenAsync))
	for _, obj := range d.objs {
		entities = append(entities, strconv.Quote(obj))
	}
	d.write(strings.Join(entities, ", ") + ";\n")
}

func (d *Mscgen) Message(src, dst int, text string, c Color) {
	d.printf("%q=>>%q [label=%q, linecolor=%q];\n", d.label(src), d.label(dst), text, mscgenColor(c))
}

func (d *Mscgen) Event(obj int, text string, c Color) {
	d.printf("%q->%q [label=%q, linecolor=%q];\n", mscgenAsync, d.label(obj), text, mscgenColor(c))
}

func (d *Mscgen) State(obj int, text string, c Color) {
	d.printf("%q rbox %q [label=%q, textbgcolor=%q];\n", d.label(obj), d.label(obj), text, boxColor(c))
}

// Create is drawn as a plain message; mscgen cannot start a lifeline mid-chart
func (d *Mscgen) Create(src, dst int, text string, c Color) {
	d.Message(src, dst, text, c)
}

// Destroy draws nothing; mscgen cannot end a lifeline mid-chart
func (d *Mscgen) Destroy(int, Color) {}

func (d *Mscgen) TestPoint(obj int, value uint32, c Color) {
	d.printf("%q note %q [label=\"0x%x\", textbgcolor=%q];\n", d.label(obj), d.label(obj), value, boxColor(c))
}

func (d *Mscgen) Ack(src, dst int, text string, c Color) {
	d.printf("%q>>%q [label=%q, linecolor=%q];\n", d.label(src), d.label(dst), text, mscgenColor(c))
}
