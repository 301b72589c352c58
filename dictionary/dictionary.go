// Package dictionary maps trace identifiers to the names shown in a chart
package dictionary

import (
	"fmt"
	"sort"
	"sync"

	"msc/protocol"
)

// DefaultMaxNameLen limits module names so the chart columns stay aligned
const DefaultMaxNameLen = 10

// DefaultMessage is the label format for unregistered message ids
const DefaultMessage = "Unknown Message(0x%04x)"

// Entry is one registered name
type Entry struct {
	ID   uint16 `json:"id"`
	Name string `json:"name"`
}

// Dictionary manages module and message names
type Dictionary struct {
	mu         sync.RWMutex
	modules    map[uint8]string
	messages   map[uint16]string
	maxNameLen int
}

// New creates an empty dictionary. A maxNameLen of zero or less uses DefaultMaxNameLen.
func New(maxNameLen int) *Dictionary {
	if maxNameLen <= 0 {
		maxNameLen = DefaultMaxNameLen
	}
	return &Dictionary{
		modules:    make(map[uint8]string),
		messages:   make(map[uint16]string),
		maxNameLen: maxNameLen,
	}
}

// AddModule registers a module name, truncated to the configured length
func (d *Dictionary) AddModule(id uint8, name string) {
	r := []rune(name)
	if len(r) > d.maxNameLen {
		r = r[:d.maxNameLen]
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.modules[id] = string(r)
}

// AddMessage registers a message name. Events and states share the message namespace.
func (d *Dictionary) AddMessage(id uint16, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages[id] = name
}

// Module returns a registered module name
func (d *Dictionary) Module(id uint8) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	name, ok := d.modules[id]
	return name, ok
}

// Message returns a registered message name
func (d *Dictionary) Message(id uint16) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	name, ok := d.messages[id]
	return name, ok
}

// MessageName returns the message name, or DefaultMessage for unknown ids
func (d *Dictionary) MessageName(id uint16) string {
	if name, ok := d.Message(id); ok {
		return name
	}
	return fmt.Sprintf(DefaultMessage, id)
}

// ObjectLabel returns the lifeline label of an object: instance id in hex,
// then the module name or UNK(module)
func (d *Dictionary) ObjectLabel(obj protocol.ObjectID) string {
	name, ok := d.Module(obj.Module())
	if !ok {
		name = fmt.Sprintf("UNK(%d)", obj.Module())
	}
	return fmt.Sprintf("%x:%s", obj.ID(), name)
}

// Modules returns the registered modules sorted by id
func (d *Dictionary) Modules() []Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()

	entries := make([]Entry, 0, len(d.modules))
	for id, name := range d.modules {
		entries = append(entries, Entry{ID: uint16(id), Name: name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

// Messages returns the registered messages sorted by id
func (d *Dictionary) Messages() []Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()

	entries := make([]Entry, 0, len(d.messages))
	for id, name := range d.messages {
		entries = append(entries, Entry{ID: id, Name: name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}
