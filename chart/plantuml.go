package chart

import "io"

var plantumlColors = [numColors]string{
	"",
	"[#red]",
	"[#green]",
	"[#yellow]",
	"[#blue]",
	"[#magenta]",
	"[#cyan]",
	"[#white]",
}

// PlantUML writes sequence diagram text for https://www.plantuml.com/
type PlantUML struct {
	output
}

// NewPlantUML creates a PlantUML display writing to w
func NewPlantUML(w io.Writer) *PlantUML {
	return &PlantUML{output: output{w: w}}
}

func plantumlColor(c Color) string {
	if c < ColorNone || c >= numColors {
		return ""
	}
	return plantumlColors[c]
}

func (d *PlantUML) SetObjects(labels []string) { d.setObjects(labels) }

func (d *PlantUML) Banner(bool) {}

func (d *PlantUML) Message(src, dst int, text string, c Color) {
	d.printf("%q -%s> %q:%s\n", d.label(src), plantumlColor(c), d.label(dst), text)
}

func (d *PlantUML) Event(obj int, text string, c Color) {
	d.printf("[-%s\\ %q:%s\n", plantumlColor(c), d.label(obj), text)
}

func (d *PlantUML) State(obj int, text string, _ Color) {
	d.printf("hnote over %q:%s\n", d.label(obj), text)
}

func (d *PlantUML) Create(src, dst int, text string, c Color) {
	d.printf("create %q\n", d.label(dst))
	d.Message(src, dst, text, c)
}

func (d *PlantUML) Destroy(obj int, _ Color) {
	d.printf("destroy %q\n", d.label(obj))
}

func (d *PlantUML) TestPoint(obj int, value uint32, _ Color) {
	d.printf("note over %q:0x%x\n", d.label(obj), value)
}

func (d *PlantUML) Ack(src, dst int, text string, c Color) {
	d.printf("%q --%s> %q:%s\n", d.label(src), plantumlColor(c), d.label(dst), text)
}
