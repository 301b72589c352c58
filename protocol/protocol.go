// Package protocol implements the MSC (Message Sequence Chart) trace record format
package protocol

import "fmt"

// Version represents the record format version
const Version = "1.0.0"

// Record layout constants
const (
	HeaderSize    = 2                  // Opcode/priority byte plus length byte
	MaxPayload    = 255                // Largest payload the length byte can describe
	MaxRecordSize = HeaderSize + MaxPayload

	HeaderPositionCode = 0
	HeaderPositionLen  = 1

	// Bit layout of header byte 0
	OpcodeBits  = 5
	OpcodeMask  = (1 << OpcodeBits) - 1
	OpcodeShift = 0

	PriorityBits  = 3
	PriorityMask  = (1 << PriorityBits) - 1
	PriorityShift = OpcodeBits
)

// Opcode identifies which record shape follows the header
type Opcode uint8

// Record opcodes
const (
	OpMsg Opcode = 0 // Message sent from source to destination
	OpEvt Opcode = 1 // Event raised by an object
	OpSta Opcode = 2 // State transition of an object
	OpTP  Opcode = 3 // Test point sample
	OpDes Opcode = 4 // Object destruction
	OpAck Opcode = 5 // Acknowledgment of a message
)

var opcodeNames = [...]string{"MSG", "EVT", "STA", "TP", "DES", "ACK"}

// Payload sizes per opcode, in bytes after the header
var payloadSizes = [...]int{6, 4, 4, 6, 2, 4}

// Valid reports whether the opcode is one of the six defined kinds
func (o Opcode) Valid() bool {
	return int(o) < len(opcodeNames)
}

// PayloadSize returns the encoded payload size of the opcode's record shape,
// or -1 for an undefined opcode
func (o Opcode) PayloadSize() int {
	if !o.Valid() {
		return -1
	}
	return payloadSizes[o]
}

func (o Opcode) String() string {
	if o.Valid() {
		return opcodeNames[o]
	}
	return fmt.Sprintf("OPC(%d)", uint8(o))
}

// Priority is a bitmask annotating a record's role in a sequence
type Priority uint8

// Priority flags
const (
	PriSOS Priority = 1 // Start of sequence
	PriSeq Priority = 2 // Sequential
	PriAlt Priority = 4 // Alert
)

// Valid reports whether the priority fits in the header's priority field
func (p Priority) Valid() bool {
	return p <= PriorityMask
}

// Has reports whether all bits of flag are set
func (p Priority) Has(flag Priority) bool {
	return p&flag == flag
}

func (p Priority) String() string {
	if p == 0 {
		return "-"
	}
	s := ""
	for _, f := range []struct {
		flag Priority
		name string
	}{{PriSOS, "SOS"}, {PriSeq, "SEQ"}, {PriAlt, "ALT"}} {
		if p.Has(f.flag) {
			if s != "" {
				s += "|"
			}
			s += f.name
		}
	}
	if rest := p &^ (PriSOS | PriSeq | PriAlt); rest != 0 {
		if s != "" {
			s += "|"
		}
		s += fmt.Sprintf("0x%x", uint8(rest))
	}
	return s
}

// Header is the two-byte prefix shared by every record
type Header struct {
	Opcode   Opcode
	Priority Priority
	Length   uint8 // Payload bytes following the header
}

// Byte packs opcode and priority into header byte 0
func (h Header) Byte() byte {
	return byte(h.Opcode)&OpcodeMask<<OpcodeShift | byte(h.Priority)&PriorityMask<<PriorityShift
}

// ParseHeader unpacks the two header bytes
func ParseHeader(code, length byte) Header {
	return Header{
		Opcode:   Opcode(code >> OpcodeShift & OpcodeMask),
		Priority: Priority(code >> PriorityShift & PriorityMask),
		Length:   length,
	}
}

// RecordHeader returns the header; promoted into every record variant
func (h *Header) RecordHeader() *Header {
	return h
}
