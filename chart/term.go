package chart

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Term defaults
const (
	DefaultLinesPerPage = 10
	DefaultTileWidth    = 6
)

// termTiles are the fixed-width pieces a terminal chart line is built from.
// Every tile is 2*width+3 characters wide with the lifeline in the middle.
type termTiles struct {
	cen string // "   |   "
	lfa string // "   |<--"
	lfe string // "---|   "
	rta string // "-->|   "
	rte string // "   |---"
	thr string // "-------"
	slf string // "   |}  "
	sta string // "  [S]  "
	evt string // "__\|   "
	cr8 string // "->[C]  "
	des string // "   X   "
	val string // "   +---"
}

func newTermTiles(width int) termTiles {
	sp := strings.Repeat(" ", width)
	dash := strings.Repeat("-", width)
	return termTiles{
		cen: sp + " | " + sp,
		lfa: sp + " |<" + dash,
		lfe: dash + "-| " + sp,
		rta: dash + ">| " + sp,
		rte: sp + " |-" + dash,
		thr: dash + "---" + dash,
		slf: sp + " |}" + sp,
		sta: sp + "[S]" + sp,
		evt: strings.Repeat("_", width) + "\\| " + sp,
		cr8: dash[1:] + ">[C]" + sp,
		des: sp + " X " + sp,
		val: sp + " +-" + dash,
	}
}

// Term draws ASCII lifelines, suited to live capture on a terminal
type Term struct {
	output
	pager
	tiles  termTiles
	width  int
	banner string
	prefix func() string
	styles [numColors]lipgloss.Style
	r      *lipgloss.Renderer
}

// TermOption configures a Term
type TermOption func(*Term)

// WithLinesPerPage sets how many lines are drawn before the banner repeats
func WithLinesPerPage(n int) TermOption {
	return func(t *Term) {
		if n > 0 {
			t.linesPerPage = n
		}
	}
}

// WithTileWidth sets the half-width of a lifeline column
func WithTileWidth(w int) TermOption {
	return func(t *Term) {
		if w >= 2 {
			t.tiles = newTermTiles(w)
			t.width = 2*w + 3
		}
	}
}

// WithPrefix sets a static line prefix
func WithPrefix(prefix string) TermOption {
	return func(t *Term) {
		t.prefix = func() string { return prefix }
	}
}

// WithPrefixFunc sets a function called for every line prefix, e.g. a timestamp
func WithPrefixFunc(fn func() string) TermOption {
	return func(t *Term) {
		if fn != nil {
			t.prefix = fn
		}
	}
}

// WithRenderer sets the lipgloss renderer used for colors.
// The default renderer detects the color profile of the output writer.
func WithRenderer(r *lipgloss.Renderer) TermOption {
	return func(t *Term) {
		if r != nil {
			t.r = r
		}
	}
}

// NewTerm creates a terminal display writing to w
func NewTerm(w io.Writer, opts ...TermOption) *Term {
	t := &Term{
		output: output{w: w},
		pager:  pager{linesPerPage: DefaultLinesPerPage},
		tiles:  newTermTiles(DefaultTileWidth),
		width:  2*DefaultTileWidth + 3,
		prefix: func() string { return "" },
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.r == nil {
		t.r = lipgloss.NewRenderer(w)
	}

	palette := [numColors]string{"", "1", "2", "3", "4", "5", "6", "7"}
	for c := ColorRed; c < numColors; c++ {
		t.styles[c] = t.r.NewStyle().Bold(true).Foreground(lipgloss.Color(palette[c]))
	}
	return t
}

// paint renders s in color c
func (t *Term) paint(c Color, s string) string {
	if c <= ColorNone || c >= numColors {
		return s
	}
	return t.styles[c].Render(s)
}

// center pads s to width the way Python's str.center does
func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	marg := width - n
	left := marg/2 + (marg & width & 1)
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", marg-left)
}

// SetObjects rebuilds the banner and prints it
func (t *Term) SetObjects(labels []string) {
	t.setObjects(labels)
	var b strings.Builder
	for _, l := range labels {
		b.WriteString(center("["+l+"]", t.width))
	}
	t.banner = b.String()
	t.Banner(true)
}

func (t *Term) Banner(required bool) {
	if t.due(required) {
		t.write(t.prefix() + t.banner + "\n")
	}
}

// arrow builds the horizontal arrow between two lifelines
func (t *Term) arrow(src, dst int) string {
	dist := dst - src
	switch {
	case dist == 0:
		return t.tiles.slf
	case dist > 0:
		return t.tiles.rte + repeat(t.tiles.thr, dist-1) + t.tiles.rta
	default:
		return t.tiles.lfa + repeat(t.tiles.thr, -dist-1) + t.tiles.lfe
	}
}

func (t *Term) line(src, dst int, text string, c Color) {
	start, end := src, dst
	if dst < src {
		start, end = dst, src
	}
	line := t.prefix() + repeat(t.tiles.cen, start)
	line += t.paint(c, t.arrow(src, dst))
	line += repeat(t.tiles.cen, len(t.objs)-1-end)
	t.write(line + " : " + t.paint(c, text) + "\n")
}

// mark builds a line with tile on obj's lifeline and plain lifelines elsewhere
func (t *Term) mark(obj int, tile string, c Color) string {
	var b strings.Builder
	b.WriteString(t.prefix())
	for idx := range t.objs {
		if idx == obj {
			b.WriteString(t.paint(c, tile))
		} else {
			b.WriteString(t.tiles.cen)
		}
	}
	return b.String()
}

func (t *Term) Message(src, dst int, text string, c Color) {
	t.line(src, dst, text, c)
}

func (t *Term) Event(obj int, text string, c Color) {
	t.write(t.mark(obj, t.tiles.evt, c) + " : " + t.paint(c, text) + "\n")
}

func (t *Term) State(obj int, text string, c Color) {
	t.write(t.mark(obj, t.tiles.sta, c) + " : " + t.paint(c, text) + "\n")
}

// Create draws towards the right only; other directions fall back to Message
func (t *Term) Create(src, dst int, text string, c Color) {
	dist := dst - src
	if dist <= 0 {
		t.Message(src, dst, text, c)
		return
	}
	line := t.prefix() + repeat(t.tiles.cen, src)
	line += t.paint(c, t.tiles.rte+repeat(t.tiles.thr, dist-1)+t.tiles.cr8)
	t.write(line + " : " + t.paint(c, text) + "\n")
}

func (t *Term) Destroy(obj int, c Color) {
	t.write(t.mark(obj, t.tiles.des, c) + " Destroy " + t.paint(c, t.label(obj)) + "\n")
}

func (t *Term) TestPoint(obj int, value uint32, c Color) {
	line := t.prefix() + repeat(t.tiles.cen, obj)
	line += t.paint(c, t.tiles.val+repeat(t.tiles.thr, len(t.objs)-1-obj))
	t.write(line + "-[ " + t.paint(c, fmt.Sprintf("0x%x", value)) + " ]\n")
}

func (t *Term) Ack(src, dst int, text string, c Color) {
	t.line(src, dst, "ACK "+text, c)
}
