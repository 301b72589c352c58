package chart

import "io"

// Web writes text for https://www.websequencediagrams.com/, suited to post analysis.
// The format has no colors.
type Web struct {
	output
}

// NewWeb creates a websequencediagrams display writing to w
func NewWeb(w io.Writer) *Web {
	return &Web{output: output{w: w}}
}

func (d *Web) SetObjects(labels []string) { d.setObjects(labels) }

func (d *Web) Banner(bool) {}

func (d *Web) Message(src, dst int, text string, _ Color) {
	d.printf("%q->%q:%s\n", d.label(src), d.label(dst), text)
}

func (d *Web) Event(obj int, text string, _ Color) {
	d.printf("[-->%q:%s\n", d.label(obj), text)
}

func (d *Web) State(obj int, text string, _ Color) {
	d.printf("state over %q:%s\n", d.label(obj), text)
}

func (d *Web) Create(src, dst int, text string, _ Color) {
	d.printf("%q->*%q:%s\n", d.label(src), d.label(dst), text)
}

func (d *Web) Destroy(obj int, _ Color) {
	d.printf("destroy %q\n", d.label(obj))
}

func (d *Web) TestPoint(obj int, value uint32, _ Color) {
	d.printf("note over %q:0x%x\n", d.label(obj), value)
}

func (d *Web) Ack(src, dst int, text string, _ Color) {
	d.printf("%q-->%q:%s\n", d.label(src), d.label(dst), text)
}
