package chart

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"msc/config"
	"msc/dictionary"
	"msc/protocol"
)

var (
	objA = protocol.SetObj(1, 1)
	objB = protocol.SetObj(2, 1)
	objC = protocol.SetObj(3, 1)
)

func testDictionary() *dictionary.Dictionary {
	dict := dictionary.New(0)
	dict.AddModule(1, "A")
	dict.AddModule(2, "B")
	dict.AddModule(3, "C")
	dict.AddMessage(0, "Go")
	dict.AddMessage(1, "Back")
	return dict
}

func sequence() []protocol.Record {
	return []protocol.Record{
		protocol.NewMsg(protocol.PriSOS, objA, objB, 0),
		protocol.NewEvt(protocol.PriAlt, objA, 0),
		protocol.NewSta(0, objB, 9),
		protocol.NewTP(0, objB, 0x10),
		protocol.NewAck(protocol.PriSeq, objB, 0),
		protocol.NewDes(0, objA),
	}
}

func encode(t *testing.T, records []protocol.Record) []byte {
	t.Helper()
	var data []byte
	for _, r := range records {
		var err error
		data, err = protocol.AppendRecord(data, r)
		if err != nil {
			t.Fatalf("AppendRecord(%T): %v", r, err)
		}
	}
	return data
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestChartBackends(t *testing.T) {
	testCases := []struct {
		name     string
		display  func(*bytes.Buffer) Display
		expected string
	}{
		{
			name:    "web",
			display: func(b *bytes.Buffer) Display { return NewWeb(b) },
			expected: "" +
				`"1:A"->"1:B":Go` + "\n" +
				`[-->"1:A":Go` + "\n" +
				`state over "1:B":Unknown Message(0x0009)` + "\n" +
				`note over "1:B":0x10` + "\n" +
				`"1:B"-->"1:A":Go` + "\n" +
				`destroy "1:A"` + "\n",
		},
		{
			name:    "plantuml",
			display: func(b *bytes.Buffer) Display { return NewPlantUML(b) },
			expected: "" +
				`"1:A" -[#cyan]> "1:B":Go` + "\n" +
				`[-[#red]\ "1:A":Go` + "\n" +
				`hnote over "1:B":Unknown Message(0x0009)` + "\n" +
				`note over "1:B":0x10` + "\n" +
				`"1:B" --[#blue]> "1:A":Go` + "\n" +
				`destroy "1:A"` + "\n",
		},
		{
			name:    "mscgen",
			display: func(b *bytes.Buffer) Display { return NewMscgen(b, 10) },
			expected: "" +
				`"Async", "1:A", "1:B";` + "\n" +
				`"1:A"=>>"1:B" [label="Go", linecolor="#00ffff"];` + "\n" +
				`"Async"->"1:A" [label="Go", linecolor="#ff0000"];` + "\n" +
				`"1:B" rbox "1:B" [label="Unknown Message(0x0009)", textbgcolor="#ffffff"];` + "\n" +
				`"1:B" note "1:B" [label="0x10", textbgcolor="#ffffff"];` + "\n" +
				`"1:B">>"1:A" [label="Go", linecolor="#0000ff"];` + "\n",
		},
		{
			name: "term",
			display: func(b *bytes.Buffer) Display {
				return NewTerm(b, WithTileWidth(2), WithLinesPerPage(100), WithRenderer(plainRenderer(b)))
			},
			expected: "" +
				" [1:A]  [1:B] \n" +
				"   |----->|    : Go\n" +
				"__\\|      |    : Go\n" +
				"   |     [S]   : Unknown Message(0x0009)\n" +
				"   |      +----[ 0x10 ]\n" +
				"   |<-----|    : ACK Go\n" +
				"   X      |    Destroy 1:A\n" +
				" [1:B] \n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			c := New(tc.display(&buf), testDictionary())
			for _, r := range sequence() {
				if err := c.Handle(r); err != nil {
					t.Fatalf("Handle(%T): %v", r, err)
				}
			}
			if buf.String() != tc.expected {
				t.Errorf("Unexpected output:\n%s\nexpected:\n%s", buf.String(), tc.expected)
			}
			if objs := c.Objects(); len(objs) != 1 || objs[0] != objB {
				t.Errorf("Expected only %s left on the chart, got %v", objB, objs)
			}
		})
	}
}

func TestChartParse(t *testing.T) {
	var buf bytes.Buffer
	c := New(NewWeb(&buf), testDictionary())

	pkt, _ := protocol.Marshal(protocol.NewMsg(0, objA, objB, 1))
	if err := c.Parse(pkt); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if buf.String() != "\"1:A\"->\"1:B\":Back\n" {
		t.Errorf("Unexpected output %q", buf.String())
	}

	if err := c.Parse([]byte{0x09, 0x00}); !errors.Is(err, protocol.ErrInvalidOpcode) {
		t.Errorf("Expected ErrInvalidOpcode, got %v", err)
	}
	if err := c.Parse([]byte{0x00}); !errors.Is(err, protocol.ErrTruncatedRecord) {
		t.Errorf("Expected ErrTruncatedRecord, got %v", err)
	}
}

func TestChartUnknownObjects(t *testing.T) {
	var buf bytes.Buffer
	log, logs := observedLogger()
	c := New(NewWeb(&buf), testDictionary(), WithLogger(log))

	records := []protocol.Record{
		protocol.NewTP(0, objC, 1),
		protocol.NewDes(0, objC),
		protocol.NewAck(0, objC, 0),
	}
	for _, r := range records {
		if err := c.Handle(r); err != nil {
			t.Fatalf("Handle(%T): %v", r, err)
		}
	}

	if buf.Len() != 0 {
		t.Errorf("Expected nothing drawn, got %q", buf.String())
	}
	for _, msg := range []string{
		"test point from unknown object",
		"destroy of unknown object",
		"acknowledgment without matching message",
	} {
		if logs.FilterMessage(msg).FilterLevelExact(zapcore.WarnLevel).Len() != 1 {
			t.Errorf("Expected one warning %q, got %v", msg, logs.All())
		}
	}
}

func TestChartAckPairing(t *testing.T) {
	var buf bytes.Buffer
	c := New(NewWeb(&buf), testDictionary())

	records := []protocol.Record{
		protocol.NewMsg(0, objA, objB, 0),
		protocol.NewMsg(0, objC, objB, 0),
		// Most recent sender of message 0 to B is C
		protocol.NewAck(0, objB, 0),
		// Already acknowledged
		protocol.NewAck(0, objB, 0),
	}
	for _, r := range records {
		if err := c.Handle(r); err != nil {
			t.Fatalf("Handle(%T): %v", r, err)
		}
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %q", lines)
	}
	if lines[2] != `"1:B"-->"1:C":Go` {
		t.Errorf("Unexpected ack line %q", lines[2])
	}
}

func TestChartDestroyDropsPending(t *testing.T) {
	var buf bytes.Buffer
	c := New(NewWeb(&buf), testDictionary())

	c.Handle(protocol.NewMsg(0, objA, objB, 1))
	c.Handle(protocol.NewDes(0, objA))
	buf.Reset()

	// Sender is gone, nothing to pair with
	if err := c.Handle(protocol.NewAck(0, objB, 1)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected nothing drawn, got %q", buf.String())
	}
}

func TestChartCreate(t *testing.T) {
	var buf bytes.Buffer
	c := New(NewWeb(&buf), testDictionary(), WithCreate())

	c.Handle(protocol.NewMsg(0, objA, objB, 0))
	c.Handle(protocol.NewMsg(0, objB, objC, 1))
	c.Handle(protocol.NewMsg(0, objC, objA, 0))

	expected := "" +
		`"1:A"->"1:B":Go` + "\n" +
		`"1:B"->*"1:C":Back` + "\n" +
		`"1:C"->"1:A":Go` + "\n"
	if buf.String() != expected {
		t.Errorf("Unexpected output:\n%s\nexpected:\n%s", buf.String(), expected)
	}
}

func TestChartFilters(t *testing.T) {
	var buf bytes.Buffer
	log, logs := observedLogger()
	c := New(NewWeb(&buf), testDictionary(), WithLogger(log))

	id := c.AddFilter(ByOpcode(protocol.OpMsg))
	c.Handle(protocol.NewMsg(0, objA, objB, 0))
	c.Handle(protocol.NewEvt(0, objA, 0))

	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("Expected only the message drawn, got %q", buf.String())
	}
	if logs.FilterMessage("record filtered").Len() != 1 {
		t.Errorf("Expected one filtered record logged, got %d", logs.FilterMessage("record filtered").Len())
	}

	c.DelFilter(id)
	c.Handle(protocol.NewEvt(0, objA, 0))
	if strings.Count(buf.String(), "\n") != 2 {
		t.Errorf("Expected event drawn after DelFilter, got %q", buf.String())
	}

	c.AddFilter(ByModule(3))
	c.AddFilter(Not(ByPriority(protocol.PriAlt)))
	c.Handle(protocol.NewEvt(0, objA, 0))               // wrong module
	c.Handle(protocol.NewEvt(protocol.PriAlt, objC, 0)) // alert
	c.Handle(protocol.NewEvt(0, objC, 0))               // drawn
	if strings.Count(buf.String(), "\n") != 3 {
		t.Errorf("Expected one more event drawn, got %q", buf.String())
	}

	c.ClearFilters()
	c.Handle(protocol.NewEvt(protocol.PriAlt, objA, 0))
	if strings.Count(buf.String(), "\n") != 4 {
		t.Errorf("Expected event drawn after ClearFilters, got %q", buf.String())
	}
}

func TestFilterHelpers(t *testing.T) {
	msg := protocol.NewMsg(protocol.PriSOS|protocol.PriSeq, objA, objB, 0)
	tp := protocol.NewTP(0, objC, 0)

	testCases := []struct {
		name     string
		filter   Filter
		record   protocol.Record
		expected bool
	}{
		{"opcode match", ByOpcode(protocol.OpTP, protocol.OpMsg), msg, true},
		{"opcode miss", ByOpcode(protocol.OpEvt), tp, false},
		{"priority match", ByPriority(protocol.PriSeq), msg, true},
		{"priority miss", ByPriority(protocol.PriAlt), msg, false},
		{"priority zero", ByPriority(protocol.PriSOS), tp, false},
		{"module source", ByModule(1), msg, true},
		{"module destination", ByModule(2), msg, true},
		{"module miss", ByModule(1, 2), tp, false},
		{"not", Not(ByModule(3)), tp, false},
	}

	for _, tc := range testCases {
		if got := tc.filter(tc.record); got != tc.expected {
			t.Errorf("%s: got %v, expected %v", tc.name, got, tc.expected)
		}
	}
}

func TestChartHandleInvalid(t *testing.T) {
	c := New(NewWeb(&bytes.Buffer{}), nil)
	bad := protocol.NewEvt(0, objA, 0)
	bad.Opcode = protocol.OpSta
	if err := c.Handle(bad); !errors.Is(err, protocol.ErrOpcodeMismatch) {
		t.Errorf("Expected ErrOpcodeMismatch, got %v", err)
	}
}

func TestChartReadFrom(t *testing.T) {
	data := encode(t, sequence()[:3])
	// Undefined opcode in the middle of the stream
	data = append(data, 0x1E, 0x01, 0xFF)
	data = append(data, encode(t, sequence()[3:])...)

	var buf bytes.Buffer
	log, logs := observedLogger()
	c := New(NewWeb(&buf), testDictionary(), WithLogger(log))

	n, err := c.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if n != int64(len(data)) {
		t.Errorf("ReadFrom consumed %d bytes, expected %d", n, len(data))
	}
	if strings.Count(buf.String(), "\n") != 6 {
		t.Errorf("Expected 6 lines drawn, got %q", buf.String())
	}
	if logs.FilterMessage("skipping malformed record").Len() != 1 {
		t.Errorf("Expected one skipped record, got %v", logs.All())
	}

	// A stream cut inside a record is an error
	_, err = c.ReadFrom(bytes.NewReader(data[:3]))
	if !errors.Is(err, protocol.ErrTruncatedRecord) {
		t.Errorf("Expected ErrTruncatedRecord, got %v", err)
	}
}

func TestChartWriteChunks(t *testing.T) {
	data := encode(t, sequence())
	// Undefined opcode right after the first message
	first := protocol.HeaderSize + protocol.OpMsg.PayloadSize()
	data = append(data[:first:first], append([]byte{0x1F, 0x00}, data[first:]...)...)

	var whole, chunked bytes.Buffer
	New(NewWeb(&whole), testDictionary()).Handle(sequence()[0])

	c := New(NewWeb(&chunked), testDictionary())
	for i := range data {
		n, err := c.Write(data[i : i+1])
		if err != nil || n != 1 {
			t.Fatalf("Write byte %d: %d, %v", i, n, err)
		}
	}

	if !strings.HasPrefix(chunked.String(), whole.String()) {
		t.Errorf("Chunked output %q does not start with %q", chunked.String(), whole.String())
	}
	if strings.Count(chunked.String(), "\n") != 6 {
		t.Errorf("Expected 6 lines drawn, got %q", chunked.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestChartWriteError(t *testing.T) {
	c := New(NewPlantUML(failingWriter{}), nil)
	err := c.Handle(protocol.NewMsg(0, objA, objB, 0))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Expected write error, got %v", err)
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg, err := config.LoadConfig([]byte(`{
		"display": "web",
		"show_create": true,
		"modules": [{"id": 1, "name": "A"}, {"id": 2, "name": "B"}, {"id": 3, "name": "C"}]
	}`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	var buf bytes.Buffer
	c, err := NewFromConfig(cfg, &buf)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	c.Handle(protocol.NewMsg(0, objA, objB, 0))
	c.Handle(protocol.NewMsg(0, objB, objC, 0))
	if !strings.Contains(buf.String(), `"1:B"->*"1:C"`) {
		t.Errorf("Expected create from config, got %q", buf.String())
	}

	for _, kind := range []string{config.DisplayTerm, config.DisplayMscgen, config.DisplayPlantUML} {
		cfg := config.DefaultConfig()
		cfg.Display = kind
		if _, err := NewDisplay(cfg, &buf); err != nil {
			t.Errorf("NewDisplay(%s): %v", kind, err)
		}
	}

	cfg = config.DefaultConfig()
	cfg.Display = "svg"
	if _, err := NewFromConfig(cfg, &buf); err == nil {
		t.Error("Expected error for unknown display")
	}
}
