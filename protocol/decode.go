package protocol

// Decode decodes one record from the front of data and returns it together with
// the number of bytes consumed (header plus the header's length).
// Payload bytes beyond the shape's size are skipped.
func Decode(data []byte) (Record, int, error) {
	return decodeAt(data, -1)
}

func decodeAt(data []byte, offset int64) (Record, int, error) {
	if len(data) < HeaderSize {
		return nil, 0, &DecodeError{Cause: ErrTruncatedRecord, Offset: offset, Have: len(data), Want: HeaderSize}
	}
	h := ParseHeader(data[HeaderPositionCode], data[HeaderPositionLen])
	if !h.Opcode.Valid() {
		return nil, 0, &DecodeError{Cause: ErrInvalidOpcode, Offset: offset, Header: h}
	}

	total := HeaderSize + int(h.Length)
	if len(data) < total {
		return nil, 0, &DecodeError{Cause: ErrTruncatedRecord, Offset: offset, Header: h, Have: len(data), Want: total}
	}
	if size := h.Opcode.PayloadSize(); int(h.Length) < size {
		return nil, 0, &DecodeError{Cause: ErrLengthMismatch, Offset: offset, Header: h, Have: int(h.Length), Want: size}
	}

	r := newRecord(h.Opcode)
	*r.RecordHeader() = h
	r.getPayload(data[HeaderSize:total])
	return r, total, nil
}

// RecordHandler is a function type for handling decoded records
type RecordHandler func(r Record) error

// Scan decodes every complete record available in the input buffer, handing
// each to handler, and pops the consumed bytes. A trailing partial record is
// left in the buffer for the next call. Decoding stops at the first malformed
// record or handler error; the offending record is not consumed.
func Scan(input InputBuffer, handler RecordHandler) error {
	data := input.Data()
	var err error

	for len(data) > 0 {
		// Wait for the header
		if len(data) < HeaderSize {
			break
		}
		// Wait for the full record, even a malformed one, so that dropping
		// it keeps the buffer aligned on record boundaries
		if len(data) < HeaderSize+int(data[HeaderPositionLen]) {
			break
		}

		var r Record
		var n int
		r, n, err = Decode(data)
		if err != nil {
			break
		}
		if handler != nil {
			if err = handler(r); err != nil {
				break
			}
		}
		data = data[n:]
	}

	// Remove consumed bytes from input
	consumed := input.Available() - len(data)
	if consumed > 0 {
		input.Pop(consumed)
	}
	return err
}
