package protocol

import (
	"errors"
	"strings"
	"strconv"
)

var (
	ErrInvalidOpcode   = errors.New("invalid opcode")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrTruncatedRecord = errors.New("truncated record")
	ErrLengthMismatch  = errors.New("length mismatch")
	ErrOpcodeMismatch  = errors.New("opcode does not match record shape")
)

// DecodeError describes where a record failed to decode
type DecodeError struct {
	Cause  error  // One of the Err* sentinels
	Offset int64  // Stream offset of the record's first byte, -1 if unknown
	Header Header // Header as read, zero if the header itself was truncated
	Have   int    // Bytes available
	Want   int    // Bytes required
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("decode")
	if e.Offset >= 0 {
		b.WriteString(" at offset ")
		b.WriteString(strconv.FormatInt(e.Offset, 10))
	}
	b.WriteString(": ")
	b.WriteString(e.Cause.Error())
	switch {
	case errors.Is(e.Cause, ErrInvalidOpcode):
		b.WriteString(" ")
		b.WriteString(strconv.Itoa(int(e.Header.Opcode)))
	case e.Want > 0:
		b.WriteString(" (")
		if e.Header != (Header{}) {
			b.WriteString(e.Header.Opcode.String())
			b.WriteString(", ")
		}
		b.WriteString("have ")
		b.WriteString(strconv.Itoa(e.Have))
		b.WriteString(" bytes, want ")
		b.WriteString(strconv.Itoa(e.Want))
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap returns the sentinel cause
func (e *DecodeError) Unwrap() error {
	return e.Cause
}
