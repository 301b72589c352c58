// Package chart turns decoded MSC records into a message sequence chart.
//
// A Chart keeps one lifeline per traced object, in order of first
// appearance, and forwards every record to a Display back end:
//
//	dict := dictionary.New(0)
//	dict.AddModule(1, "Radio")
//	c := chart.New(chart.NewTerm(os.Stdout), dict)
//	_, err := c.ReadFrom(capture)
//
// Chart is not safe for concurrent use.
package chart

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"msc/dictionary"
	"msc/protocol"
)

// pendingKey identifies a message awaiting acknowledgment by its receiver
type pendingKey struct {
	receiver protocol.ObjectID
	msgID    uint16
}

// Chart tracks object lifelines and draws records on a Display
type Chart struct {
	disp       Display
	dict       *dictionary.Dictionary
	objects    []protocol.ObjectID
	index      map[protocol.ObjectID]int
	pending    map[pendingKey]protocol.ObjectID
	filters    map[int]Filter
	nextFilter int
	showCreate bool
	input      *protocol.SliceInputBuffer
	log        *zap.Logger
}

// Option configures a Chart
type Option func(*Chart)

// WithCreate draws a message to a new object from a known one as a create
func WithCreate() Option {
	return func(c *Chart) {
		c.showCreate = true
	}
}

// WithLogger overrides the package logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Chart) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a chart drawing on disp. A nil dictionary labels everything as unknown.
func New(disp Display, dict *dictionary.Dictionary, opts ...Option) *Chart {
	if dict == nil {
		dict = dictionary.New(0)
	}
	c := &Chart{
		disp:    disp,
		dict:    dict,
		index:   make(map[protocol.ObjectID]int),
		pending: make(map[pendingKey]protocol.ObjectID),
		filters: make(map[int]Filter),
		input:   protocol.NewSliceInputBuffer(nil),
		log:     Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Objects returns the objects on the chart in lifeline order
func (c *Chart) Objects() []protocol.ObjectID {
	return append([]protocol.ObjectID(nil), c.objects...)
}

// AddFilter installs a filter and returns its id.
// A record is drawn only if every installed filter accepts it.
func (c *Chart) AddFilter(f Filter) int {
	id := c.nextFilter
	c.nextFilter++
	c.filters[id] = f
	return id
}

// DelFilter removes a filter
func (c *Chart) DelFilter(id int) {
	delete(c.filters, id)
}

// ClearFilters removes all filters
func (c *Chart) ClearFilters() {
	clear(c.filters)
}

// priorityColor highlights the three single-flag priorities
func priorityColor(p protocol.Priority) Color {
	switch p {
	case protocol.PriSOS:
		return ColorCyan
	case protocol.PriSeq:
		return ColorBlue
	case protocol.PriAlt:
		return ColorRed
	}
	return ColorNone
}

// addObjects appends unseen objects and pushes the new labels to the display
func (c *Chart) addObjects(objs ...protocol.ObjectID) {
	changed := false
	for _, obj := range objs {
		if _, ok := c.index[obj]; !ok {
			c.index[obj] = len(c.objects)
			c.objects = append(c.objects, obj)
			changed = true
		}
	}
	if changed {
		c.disp.SetObjects(c.labels())
	}
}

// removeObject drops an object's lifeline and any message it still had to acknowledge
func (c *Chart) removeObject(obj protocol.ObjectID) {
	idx, ok := c.index[obj]
	if !ok {
		return
	}
	c.objects = append(c.objects[:idx], c.objects[idx+1:]...)
	delete(c.index, obj)
	for i := idx; i < len(c.objects); i++ {
		c.index[c.objects[i]] = i
	}
	for key, src := range c.pending {
		if key.receiver == obj || src == obj {
			delete(c.pending, key)
		}
	}
	c.disp.SetObjects(c.labels())
}

func (c *Chart) labels() []string {
	labels := make([]string, len(c.objects))
	for i, obj := range c.objects {
		labels[i] = c.dict.ObjectLabel(obj)
	}
	return labels
}

func (c *Chart) accepted(r protocol.Record) bool {
	for _, f := range c.filters {
		if !f(r) {
			return false
		}
	}
	return true
}

// Handle draws one record. It returns the display's write error, if any.
func (c *Chart) Handle(r protocol.Record) error {
	if err := protocol.Validate(r); err != nil {
		return err
	}
	if !c.accepted(r) {
		c.log.Debug("record filtered", zap.Stringer("opcode", r.Kind()), zap.Stringer("object", r.Object()))
		return nil
	}

	color := priorityColor(r.RecordHeader().Priority)

	switch rec := r.(type) {
	case *protocol.Msg:
		_, srcKnown := c.index[rec.Src]
		_, dstKnown := c.index[rec.Dst]
		c.addObjects(rec.Src, rec.Dst)
		c.disp.Banner(false)
		text := c.dict.MessageName(rec.MsgID)
		if c.showCreate && srcKnown && !dstKnown {
			c.disp.Create(c.index[rec.Src], c.index[rec.Dst], text, color)
		} else {
			c.disp.Message(c.index[rec.Src], c.index[rec.Dst], text, color)
		}
		c.pending[pendingKey{receiver: rec.Dst, msgID: rec.MsgID}] = rec.Src

	case *protocol.Evt:
		c.addObjects(rec.Obj)
		c.disp.Banner(false)
		c.disp.Event(c.index[rec.Obj], c.dict.MessageName(rec.EvtID), color)

	case *protocol.Sta:
		c.addObjects(rec.Obj)
		c.disp.Banner(false)
		c.disp.State(c.index[rec.Obj], c.dict.MessageName(rec.State), color)

	case *protocol.TP:
		idx, ok := c.index[rec.Obj]
		if !ok {
			c.log.Warn("test point from unknown object", zap.Stringer("object", rec.Obj))
			return nil
		}
		c.disp.TestPoint(idx, rec.Data, color)

	case *protocol.Des:
		idx, ok := c.index[rec.Obj]
		if !ok {
			c.log.Warn("destroy of unknown object", zap.Stringer("object", rec.Obj))
			return nil
		}
		c.disp.Destroy(idx, color)
		c.removeObject(rec.Obj)
		c.disp.Banner(false)

	case *protocol.Ack:
		key := pendingKey{receiver: rec.Obj, msgID: rec.MsgID}
		src, ok := c.pending[key]
		if !ok {
			c.log.Warn("acknowledgment without matching message",
				zap.Stringer("object", rec.Obj), zap.Uint16("msg_id", rec.MsgID))
			return nil
		}
		delete(c.pending, key)
		c.disp.Banner(false)
		c.disp.Ack(c.index[rec.Obj], c.index[src], c.dict.MessageName(rec.MsgID), color)
	}

	return c.disp.Err()
}

// Parse decodes a single record packet and draws it
func (c *Chart) Parse(pkt []byte) error {
	rec, _, err := protocol.Decode(pkt)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	return c.Handle(rec)
}

// skippable reports whether a decode error leaves the stream aligned on the next record
func skippable(err error) bool {
	return errors.Is(err, protocol.ErrInvalidOpcode) || errors.Is(err, protocol.ErrLengthMismatch)
}

// ReadFrom draws every record read from r until EOF. Malformed records are
// logged and skipped; a record cut short by EOF is an error.
func (c *Chart) ReadFrom(r io.Reader) (int64, error) {
	reader := protocol.NewReader(r)
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			return reader.Offset(), nil
		}
		if err != nil {
			if skippable(err) {
				c.log.Warn("skipping malformed record", zap.Error(err))
				continue
			}
			return reader.Offset(), err
		}
		if err := c.Handle(rec); err != nil {
			return reader.Offset(), err
		}
	}
}

// Write buffers a chunk of a record stream and draws every record it
// completes. Partial records wait for the next chunk.
func (c *Chart) Write(p []byte) (int, error) {
	c.input.Write(p)
	for {
		err := protocol.Scan(c.input, c.Handle)
		var de *protocol.DecodeError
		if errors.As(err, &de) && skippable(err) {
			c.log.Warn("skipping malformed record", zap.Error(err))
			c.input.Pop(protocol.HeaderSize + int(de.Header.Length))
			continue
		}
		return len(p), err
	}
}
