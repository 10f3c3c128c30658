/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package record implements the compact binary resource-record codec: a
// per-name record set with a string-dictionary compression scheme shared
// across fields, and its JSON mirror.
package record

import (
	"bytes"
	"encoding/binary"
	"io"
)

// Record is the full, immutable per-name record set. Encode and decode
// never mutate a Record in place; callers treat it as a value object.
type Record struct {
	TTL uint32 // seconds; quantized to 64s granularity on encode

	Hosts     []Target // kind restricted to INET4/INET6/ONION/ONIONNG
	Canonical *Target  // kind INAME or HNAME; at most one
	Delegate  *Target  // kind INAME or HNAME; at most one
	NS        []Target

	Service []Service
	URL     []string
	Email   []string
	Text    []string

	Location []Location
	Magnet   []Magnet
	DS       []DS
	TLS      []TLS
	SSH      []SSH
	PGP      []PGP
	Addr     []Addr

	Extra []Extra
}

// learn visits every string the record will serialize and registers it
// with the encoder, ahead of any sizing or writing.
func (r *Record) learn(e *Encoder) {
	for _, t := range r.Hosts {
		t.Learn(e)
	}
	if r.Canonical != nil {
		r.Canonical.Learn(e)
	}
	if r.Delegate != nil {
		r.Delegate.Learn(e)
	}
	for _, t := range r.NS {
		t.Learn(e)
	}
	for _, s := range r.Service {
		s.Learn(e)
	}
	for _, s := range r.URL {
		e.Add(s)
	}
	for _, s := range r.Email {
		e.Add(s)
	}
	for _, s := range r.Text {
		e.Add(s)
	}
	for _, m := range r.Magnet {
		m.Learn(e)
	}
	for _, t := range r.TLS {
		t.Learn(e)
	}
	for _, a := range r.Addr {
		a.Learn(e)
	}
}

// Encode serializes r to its compact binary wire form.
func Encode(r *Record) ([]byte, error) {
	e := NewEncoder()
	r.learn(e)

	var buf bytes.Buffer
	if err := writeByte(&buf, Version); err != nil {
		return nil, err
	}
	var ttlBuf [2]byte
	binary.BigEndian.PutUint16(ttlBuf[:], uint16(r.TTL>>6))
	if _, err := buf.Write(ttlBuf[:]); err != nil {
		return nil, err
	}
	if err := e.WriteTable(&buf); err != nil {
		return nil, err
	}

	for _, t := range r.Hosts {
		if !isHostTag(t.Kind) {
			return nil, ErrInvalidTarget
		}
		if err := writeByte(&buf, byte(t.Kind)); err != nil {
			return nil, err
		}
		if err := t.WriteBody(&buf, e); err != nil {
			return nil, err
		}
	}
	if r.Canonical != nil {
		c := *r.Canonical
		if !c.IsName() {
			return nil, ErrInvalidTarget
		}
		if err := writeByte(&buf, byte(c.Kind)); err != nil {
			return nil, err
		}
		if err := c.WriteBody(&buf, e); err != nil {
			return nil, err
		}
	}
	if r.Delegate != nil {
		if err := writeByte(&buf, byte(DELEGATE)); err != nil {
			return nil, err
		}
		if err := r.Delegate.WriteFull(&buf, e); err != nil {
			return nil, err
		}
	}
	for _, t := range r.NS {
		if err := writeByte(&buf, byte(NS)); err != nil {
			return nil, err
		}
		if err := t.WriteFull(&buf, e); err != nil {
			return nil, err
		}
	}
	for _, s := range r.Service {
		if err := writeByte(&buf, byte(SERVICE)); err != nil {
			return nil, err
		}
		if err := s.Write(&buf, e); err != nil {
			return nil, err
		}
	}
	if err := writeStrList(&buf, e, URL, r.URL); err != nil {
		return nil, err
	}
	if err := writeStrList(&buf, e, EMAIL, r.Email); err != nil {
		return nil, err
	}
	if err := writeStrList(&buf, e, TEXT, r.Text); err != nil {
		return nil, err
	}
	for _, l := range r.Location {
		if err := writeByte(&buf, byte(LOCATION)); err != nil {
			return nil, err
		}
		if err := l.Write(&buf); err != nil {
			return nil, err
		}
	}
	for _, m := range r.Magnet {
		if err := writeByte(&buf, byte(MAGNET)); err != nil {
			return nil, err
		}
		if err := m.Write(&buf, e); err != nil {
			return nil, err
		}
	}
	for _, d := range r.DS {
		if err := writeByte(&buf, byte(DS)); err != nil {
			return nil, err
		}
		if err := d.Write(&buf); err != nil {
			return nil, err
		}
	}
	for _, t := range r.TLS {
		if err := writeByte(&buf, byte(TLS)); err != nil {
			return nil, err
		}
		if err := t.Write(&buf, e); err != nil {
			return nil, err
		}
	}
	for _, s := range r.SSH {
		if err := writeByte(&buf, byte(SSH)); err != nil {
			return nil, err
		}
		if err := s.Write(&buf); err != nil {
			return nil, err
		}
	}
	for _, p := range r.PGP {
		if err := writeByte(&buf, byte(PGP)); err != nil {
			return nil, err
		}
		if err := p.Write(&buf); err != nil {
			return nil, err
		}
	}
	for _, a := range r.Addr {
		if err := writeByte(&buf, byte(ADDR)); err != nil {
			return nil, err
		}
		if err := a.Write(&buf, e); err != nil {
			return nil, err
		}
	}
	for _, x := range r.Extra {
		if err := writeByte(&buf, byte(x.Type)); err != nil {
			return nil, err
		}
		if err := x.Write(&buf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func writeStrList(w io.Writer, e *Encoder, tag Tag, list []string) error {
	for _, s := range list {
		if err := writeByte(w, byte(tag)); err != nil {
			return err
		}
		if err := e.WriteString(w, s); err != nil {
			return err
		}
	}
	return nil
}

// Decode parses the compact binary wire form into a Record.
func Decode(data []byte) (*Record, error) {
	r := bytes.NewReader(data)
	ver, err := readByte(r)
	if err != nil {
		return nil, err
	}
	if ver != Version {
		return nil, ErrInvalidVersion
	}
	var ttlBuf [2]byte
	if err := readFull(r, ttlBuf[:]); err != nil {
		return nil, err
	}
	ttl := uint32(binary.BigEndian.Uint16(ttlBuf[:])) << 6

	d, err := ReadTable(r)
	if err != nil {
		return nil, err
	}

	rec := &Record{TTL: ttl}
	for {
		tb, err := readByte(r)
		if err != nil {
			if err == ErrTruncatedBody {
				break // clean EOF at a tag boundary
			}
			return nil, err
		}
		tag := Tag(tb)
		switch {
		case isHostTag(tag):
			t, err := ReadTargetBody(r, d, tag)
			if err != nil {
				return nil, err
			}
			rec.Hosts = append(rec.Hosts, t)
		case isNameTag(tag):
			if rec.Canonical != nil {
				return nil, ErrDuplicateCanonical
			}
			t, err := ReadTargetBody(r, d, tag)
			if err != nil {
				return nil, err
			}
			rec.Canonical = &t
		case tag == CANONICAL:
			if rec.Canonical != nil {
				return nil, ErrDuplicateCanonical
			}
			t, err := ReadTargetFull(r, d)
			if err != nil {
				return nil, err
			}
			rec.Canonical = &t
		case tag == DELEGATE:
			if rec.Delegate != nil {
				return nil, ErrDuplicateDelegate
			}
			t, err := ReadTargetFull(r, d)
			if err != nil {
				return nil, err
			}
			rec.Delegate = &t
		case tag == NS:
			t, err := ReadTargetFull(r, d)
			if err != nil {
				return nil, err
			}
			rec.NS = append(rec.NS, t)
		case tag == SERVICE:
			s, err := ReadService(r, d)
			if err != nil {
				return nil, err
			}
			rec.Service = append(rec.Service, s)
		case tag == URL:
			s, err := d.ReadString(r)
			if err != nil {
				return nil, err
			}
			rec.URL = append(rec.URL, s)
		case tag == EMAIL:
			s, err := d.ReadString(r)
			if err != nil {
				return nil, err
			}
			rec.Email = append(rec.Email, s)
		case tag == TEXT:
			s, err := d.ReadString(r)
			if err != nil {
				return nil, err
			}
			rec.Text = append(rec.Text, s)
		case tag == LOCATION:
			l, err := ReadLocation(r)
			if err != nil {
				return nil, err
			}
			rec.Location = append(rec.Location, l)
		case tag == MAGNET:
			m, err := ReadMagnet(r, d)
			if err != nil {
				return nil, err
			}
			rec.Magnet = append(rec.Magnet, m)
		case tag == DS:
			ds, err := ReadDS(r)
			if err != nil {
				return nil, err
			}
			rec.DS = append(rec.DS, ds)
		case tag == TLS:
			t, err := ReadTLS(r, d)
			if err != nil {
				return nil, err
			}
			rec.TLS = append(rec.TLS, t)
		case tag == SSH:
			s, err := ReadSSH(r)
			if err != nil {
				return nil, err
			}
			rec.SSH = append(rec.SSH, s)
		case tag == PGP:
			p, err := ReadSSH(r)
			if err != nil {
				return nil, err
			}
			rec.PGP = append(rec.PGP, p)
		case tag == ADDR:
			a, err := ReadAddr(r, d)
			if err != nil {
				return nil, err
			}
			rec.Addr = append(rec.Addr, a)
		default:
			x, err := ReadExtra(r, tag)
			if err != nil {
				return nil, err
			}
			rec.Extra = append(rec.Extra, x)
		}
	}
	return rec, nil
}
