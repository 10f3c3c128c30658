/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package record

import (
	"encoding/binary"
	"io"
)

// maxTableEntries bounds the symbol table so its count header (u16) never
// overflows; no record in practice comes close.
const maxTableEntries = 1 << 16

const (
	strLiteral byte = 0
	strRef     byte = 1
)

// Encoder is the write-side compressor context threaded explicitly through
// every sizing and writing call, never held as global state. Callers learn
// every string a record will serialize, via Add, before sizing or writing
// anything; the symbol table is then emitted once at the head of the body.
type Encoder struct {
	order []string
	index map[string]int
}

// NewEncoder returns an empty string compressor ready for the learn phase.
func NewEncoder() *Encoder {
	return &Encoder{index: make(map[string]int)}
}

// Add registers s in the symbol table if it has not been seen before.
// Duplicate strings do not add new entries.
func (e *Encoder) Add(s string) {
	if _, ok := e.index[s]; ok {
		return
	}
	e.index[s] = len(e.order)
	e.order = append(e.order, s)
}

// TableSize returns the byte size of the encoded symbol table itself.
func (e *Encoder) TableSize() int {
	n := 2 // count
	for _, s := range e.order {
		n += 1 + len(s)
	}
	return n
}

// StringSize returns the number of bytes Write will emit for s: a reference
// if s is in the table, otherwise an inline literal.
func (e *Encoder) StringSize(s string) int {
	if _, ok := e.index[s]; ok {
		return 3 // marker + u16 index
	}
	return 2 + len(s) // marker + u8 len + bytes
}

// WriteTable emits the symbol table: a u16 entry count followed by each
// string as a u8-length-prefixed literal, in insertion order.
func (e *Encoder) WriteTable(w io.Writer) error {
	if len(e.order) >= maxTableEntries {
		return ErrFieldTooLong
	}
	var hdr [2]byte
	binary.LittleEndian.PutUint16(hdr[:], uint16(len(e.order)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	for _, s := range e.order {
		if len(s) > 255 {
			return ErrFieldTooLong
		}
		if err := writeByte(w, byte(len(s))); err != nil {
			return err
		}
		if _, err := io.WriteString(w, s); err != nil {
			return err
		}
	}
	return nil
}

// WriteString emits s as either a table reference or an inline literal,
// matching whatever StringSize predicted.
func (e *Encoder) WriteString(w io.Writer, s string) error {
	if idx, ok := e.index[s]; ok {
		if err := writeByte(w, strRef); err != nil {
			return err
		}
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], uint16(idx))
		_, err := w.Write(buf[:])
		return err
	}
	if len(s) > 255 {
		return ErrFieldTooLong
	}
	if err := writeByte(w, strLiteral); err != nil {
		return err
	}
	if err := writeByte(w, byte(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// Decoder is the read-side compressor context: the symbol table decoded
// once at the head of a record body, then consulted by every ReadString.
type Decoder struct {
	table []string
}

// ReadTable decodes the symbol table written by WriteTable.
func ReadTable(r io.Reader) (*Decoder, error) {
	var hdr [2]byte
	if err := readFull(r, hdr[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint16(hdr[:])
	d := &Decoder{table: make([]string, n)}
	for i := range d.table {
		l, err := readByte(r)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, l)
		if err := readFull(r, buf); err != nil {
			return nil, err
		}
		d.table[i] = string(buf)
	}
	return d, nil
}

// ReadString decodes one string emitted by WriteString, resolving table
// references against the table decoded by ReadTable.
func (d *Decoder) ReadString(r io.Reader) (string, error) {
	marker, err := readByte(r)
	if err != nil {
		return "", err
	}
	switch marker {
	case strLiteral:
		l, err := readByte(r)
		if err != nil {
			return "", err
		}
		buf := make([]byte, l)
		if err := readFull(r, buf); err != nil {
			return "", err
		}
		return string(buf), nil
	case strRef:
		var buf [2]byte
		if err := readFull(r, buf[:]); err != nil {
			return "", err
		}
		idx := int(binary.LittleEndian.Uint16(buf[:]))
		if idx < 0 || idx >= len(d.table) {
			return "", ErrInvalidTableRef
		}
		return d.table[idx], nil
	default:
		return "", ErrInvalidTableRef
	}
}

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

func readByte(r io.Reader) (byte, error) {
	var b [1]byte
	if err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// readFull reads exactly len(buf) bytes, treating a short read as a
// truncated body rather than surfacing io.ErrUnexpectedEOF to callers.
func readFull(r io.Reader, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	if _, err := io.ReadFull(r, buf); err != nil {
		return ErrTruncatedBody
	}
	return nil
}
