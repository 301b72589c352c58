package protocol

import "fmt"

// Validate checks that a record can be encoded: the header opcode matches the
// record shape, the priority fits in three bits and the length covers the payload
func Validate(r Record) error {
	h := r.RecordHeader()
	if h.Opcode != r.Kind() {
		return fmt.Errorf("%w: header %s, shape %s", ErrOpcodeMismatch, h.Opcode, r.Kind())
	}
	if !h.Priority.Valid() {
		return fmt.Errorf("%w: 0x%02x", ErrInvalidPriority, uint8(h.Priority))
	}
	if size := r.Kind().PayloadSize(); h.Length != 0 && int(h.Length) < size {
		return fmt.Errorf("%w: %s length %d below payload size %d", ErrLengthMismatch, h.Opcode, h.Length, size)
	}
	return nil
}

// encodedLength returns the payload length that will be written for r
func encodedLength(r Record) int {
	if l := int(r.RecordHeader().Length); l != 0 {
		return l
	}
	return r.Kind().PayloadSize()
}

// AppendRecord appends the encoded record to dst.
// A zero header length is encoded as the payload size; a length beyond the
// payload size is zero padded.
func AppendRecord(dst []byte, r Record) ([]byte, error) {
	if err := Validate(r); err != nil {
		return dst, err
	}
	h := r.RecordHeader()
	n := encodedLength(r)

	start := len(dst)
	dst = append(dst, make([]byte, HeaderSize+n)...)
	rec := dst[start:]
	rec[HeaderPositionCode] = h.Byte()
	rec[HeaderPositionLen] = uint8(n)
	r.putPayload(rec[HeaderSize:])
	return dst, nil
}

// Marshal returns the encoded record
func Marshal(r Record) ([]byte, error) {
	return AppendRecord(make([]byte, 0, HeaderSize+encodedLength(r)), r)
}

// EncodeTo writes the encoded record into an output buffer without allocating
func EncodeTo(output OutputBuffer, r Record) error {
	if err := Validate(r); err != nil {
		return err
	}
	var scratch [MaxRecordSize]byte
	h := r.RecordHeader()
	n := encodedLength(r)

	scratch[HeaderPositionCode] = h.Byte()
	scratch[HeaderPositionLen] = uint8(n)
	r.putPayload(scratch[HeaderSize:])
	output.Output(scratch[:HeaderSize+n])
	return nil
}
