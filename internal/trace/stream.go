package trace

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const magic = "NWTRACE1"

// maxRecordSize bounds a single record so a corrupt length prefix cannot
// trigger a huge allocation.
const maxRecordSize = 1 << 20

var (
	// ErrBadMagic is returned when a stream does not start with the trace magic.
	ErrBadMagic = errors.New("trace: not a trace stream")
	// ErrRecordTooLarge is returned for records whose encoding exceeds the
	// size readers accept.
	ErrRecordTooLarge = errors.New("trace: record exceeds size limit")
)

// Writer appends length-prefixed records to an underlying writer.
type Writer struct {
	w     *bufio.Writer
	wrote bool
	buf   []byte
	count int
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write encodes one record. The magic is written before the first record.
// A record that encodes to more than maxRecordSize bytes is rejected and
// nothing is written.
func (tw *Writer) Write(r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	tw.buf = r.AppendBinary(tw.buf[:0])
	if len(tw.buf) > maxRecordSize {
		return fmt.Errorf("%s record of %d bytes: %w", r.Kind, len(tw.buf), ErrRecordTooLarge)
	}

	if !tw.wrote {
		if _, err := tw.w.WriteString(magic); err != nil {
			return fmt.Errorf("failed to write trace header: %w", err)
		}
		tw.wrote = true
	}

	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(tw.buf))) //nolint:gosec // bounded by record contents

	if _, err := tw.w.Write(length[:]); err != nil {
		return fmt.Errorf("failed to write record length: %w", err)
	}
	if _, err := tw.w.Write(tw.buf); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	tw.count++
	return nil
}

// Count returns the number of records written.
func (tw *Writer) Count() int { return tw.count }

// Flush writes buffered records through. An empty trace still gets its
// header so readers accept it.
func (tw *Writer) Flush() error {
	if !tw.wrote {
		if _, err := tw.w.WriteString(magic); err != nil {
			return fmt.Errorf("failed to write trace header: %w", err)
		}
		tw.wrote = true
	}
	return tw.w.Flush()
}

// Reader decodes records written by Writer.
type Reader struct {
	r      *bufio.Reader
	header bool
	buf    []byte
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next record, or io.EOF at the end of the stream.
func (tr *Reader) Next() (Record, error) {
	if !tr.header {
		var head [len(magic)]byte
		if _, err := io.ReadFull(tr.r, head[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return Record{}, ErrBadMagic
			}
			return Record{}, fmt.Errorf("failed to read trace header: %w", err)
		}
		if string(head[:]) != magic {
			return Record{}, ErrBadMagic
		}
		tr.header = true
	}

	var length uint32
	if err := binary.Read(tr.r, binary.BigEndian, &length); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("failed to read record length: %w", err)
	}
	if length > maxRecordSize {
		return Record{}, fmt.Errorf("record of %d bytes: %w", length, ErrRecordTooLarge)
	}

	if cap(tr.buf) < int(length) {
		tr.buf = make([]byte, length)
	}
	tr.buf = tr.buf[:length]
	if _, err := io.ReadFull(tr.r, tr.buf); err != nil {
		return Record{}, fmt.Errorf("failed to read record: %w", err)
	}

	var rec Record
	if err := rec.UnmarshalBinary(tr.buf); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// ReadAll returns every remaining record.
func (tr *Reader) ReadAll() ([]Record, error) {
	var out []Record
	for {
		rec, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}
