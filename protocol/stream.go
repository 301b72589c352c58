package protocol

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// Reader reads back-to-back records from an io.Reader
type Reader struct {
	r      io.Reader
	offset int64
	buf    [MaxRecordSize]byte
}

// NewReader creates a new Reader
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Offset returns the stream offset of the next record
func (r *Reader) Offset() int64 {
	return r.offset
}

// Next reads the next record. It returns io.EOF when the stream ends cleanly
// between records and ErrTruncatedRecord when it ends inside one.
// A record with an undefined opcode or a short length is skipped as a whole,
// so reading may continue after such an error.
func (r *Reader) Next() (Record, error) {
	start := r.offset

	n, err := io.ReadFull(r.r, r.buf[:HeaderSize])
	r.offset += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, &DecodeError{Cause: ErrTruncatedRecord, Offset: start, Have: n, Want: HeaderSize}
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	total := HeaderSize + int(r.buf[HeaderPositionLen])
	n, err = io.ReadFull(r.r, r.buf[HeaderSize:total])
	r.offset += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			h := ParseHeader(r.buf[HeaderPositionCode], r.buf[HeaderPositionLen])
			return nil, &DecodeError{Cause: ErrTruncatedRecord, Offset: start, Header: h, Have: HeaderSize + n, Want: total}
		}
		return nil, fmt.Errorf("read payload: %w", err)
	}

	rec, _, err := decodeAt(r.buf[:total], start)
	return rec, err
}

// Writer writes encoded records to an io.Writer.
// It is safe for concurrent use; each record is issued as a single Write.
type Writer struct {
	mu  sync.Mutex
	w   io.Writer
	buf []byte
}

// NewWriter creates a new Writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, buf: make([]byte, 0, MaxRecordSize)}
}

// Write encodes and writes one record
func (w *Writer) Write(r Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err error
	w.buf, err = AppendRecord(w.buf[:0], r)
	if err != nil {
		return err
	}

	n, err := w.w.Write(w.buf)
	if err != nil {
		return err
	}
	if n != len(w.buf) {
		return fmt.Errorf("incomplete write: %d/%d bytes", n, len(w.buf))
	}
	return nil
}
