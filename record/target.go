/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package record

import (
	"io"
	"net"
	"strings"

	"github.com/btcsuite/btcutil/base58"

	"github.com/gravwell/hnsrec/internal/addrutil"
)

// Target is the polymorphic address value: a union of {INET4, INET6, ONION,
// ONIONNG, INAME, HNAME} carrying one normalized human-readable string.
// The kind byte doubles as the wire tag when a Target is stored directly in
// the hosts collection, fusing the discriminator and the record tag.
type Target struct {
	Kind  Tag
	Value string
}

// ParseTarget infers a Target's kind from a human-readable address string,
// the way the naming system's authoring tools hand records to the encoder.
func ParseTarget(s string) (Target, error) {
	if addrutil.LooksLikeV4(s) {
		text, _, err := addrutil.NormalizeV4(s)
		if err != nil {
			return Target{}, err
		}
		return Target{Kind: INET4, Value: text}, nil
	}
	if addrutil.LooksLikeV6(s) {
		text, _, err := addrutil.NormalizeV6(s)
		if err != nil {
			return Target{}, err
		}
		return Target{Kind: INET6, Value: text}, nil
	}
	if addrutil.LooksLikeOnionV3(s) {
		if _, err := addrutil.EncodeV3(s); err != nil {
			return Target{}, err
		}
		return Target{Kind: ONIONNG, Value: strings.ToLower(s)}, nil
	}
	if addrutil.LooksLikeOnionV2(s) {
		if _, err := addrutil.EncodeV2(s); err != nil {
			return Target{}, err
		}
		return Target{Kind: ONION, Value: strings.ToLower(s)}, nil
	}
	if strings.HasSuffix(s, HSKP) {
		return Target{Kind: HNAME, Value: s}, nil
	}
	if strings.HasSuffix(s, ICANNP) {
		return Target{Kind: INAME, Value: s}, nil
	}
	return Target{Kind: INAME, Value: s + ICANNP}, nil
}

// IsINET reports whether t carries an IPv4 or IPv6 literal.
func (t Target) IsINET() bool { return t.Kind == INET4 || t.Kind == INET6 }

// IsName reports whether t carries a name (ICANN- or natively-rooted).
func (t Target) IsName() bool { return t.Kind == INAME || t.Kind == HNAME }

// IsTor reports whether t carries an onion v2 or v3 address.
func (t Target) IsTor() bool { return t.Kind == ONION || t.Kind == ONIONNG }

// ToDNS renders t the way it should appear as a DNS RR's data: a
// fully-qualified name for name-kind targets, the literal address text
// otherwise.
func (t Target) ToDNS() string {
	switch t.Kind {
	case HNAME:
		return t.Value + "."
	case INAME:
		return strings.TrimSuffix(t.Value, ICANNP) + "."
	default:
		return t.Value
	}
}

// ToPointer synthesizes the glue name for an inline IP target: a base58
// encoding of the raw address bytes under the given zone.
func (t Target) ToPointer(zone string) (string, error) {
	if !t.IsINET() {
		return "", ErrInvalidTarget
	}
	ip := net.ParseIP(t.Value)
	if ip == nil {
		return "", ErrInvalidTarget
	}
	var raw []byte
	if t.Kind == INET4 {
		raw = ip.To4()
	} else {
		raw = ip.To16()
	}
	return "_" + base58.Encode(raw) + "." + zone, nil
}

// nameWire strips the ICANN/HSK suffix marker before wire compression.
func (t Target) nameWire() string {
	switch t.Kind {
	case HNAME:
		return strings.TrimSuffix(t.Value, HSKP)
	case INAME:
		return strings.TrimSuffix(t.Value, ICANNP)
	}
	return t.Value
}

func nameFromWire(kind Tag, s string) Target {
	if kind == HNAME {
		return Target{Kind: HNAME, Value: s + HSKP}
	}
	return Target{Kind: INAME, Value: s + ICANNP}
}

// Learn registers every string this target will emit with e, ahead of
// sizing or writing.
func (t Target) Learn(e *Encoder) {
	if t.IsName() {
		e.Add(t.nameWire())
	}
}

// BodySize returns the number of bytes WriteBody will emit for t, not
// including the leading kind byte.
func (t Target) BodySize(e *Encoder) int {
	switch t.Kind {
	case INET4:
		return 4
	case INET6:
		ip := net.ParseIP(t.Value)
		return addrutil.SizeV6(ip)
	case ONION:
		return 10
	case ONIONNG:
		return 33
	case INAME, HNAME:
		return e.StringSize(t.nameWire())
	}
	return 0
}

// Size returns the full wire size of t, including its leading kind byte.
func (t Target) Size(e *Encoder) int {
	return 1 + t.BodySize(e)
}

// WriteFull writes t's kind byte followed by its body, the "full Target"
// wire form used by CANONICAL and DELEGATE.
func (t Target) WriteFull(w io.Writer, e *Encoder) error {
	if err := writeByte(w, byte(t.Kind)); err != nil {
		return err
	}
	return t.WriteBody(w, e)
}

// WriteBody writes only t's body, the form used when a Target is stored
// directly in the hosts collection (the host's own tag byte IS the kind).
func (t Target) WriteBody(w io.Writer, e *Encoder) error {
	switch t.Kind {
	case INET4:
		ip := net.ParseIP(t.Value).To4()
		if ip == nil {
			return ErrInvalidTarget
		}
		_, err := w.Write(ip)
		return err
	case INET6:
		ip := net.ParseIP(t.Value)
		body, err := addrutil.EncodeV6(ip)
		if err != nil {
			return err
		}
		_, err = w.Write(body)
		return err
	case ONION:
		raw, err := addrutil.EncodeV2(t.Value)
		if err != nil {
			return err
		}
		_, err = w.Write(raw)
		return err
	case ONIONNG:
		raw, err := addrutil.EncodeV3(t.Value)
		if err != nil {
			return err
		}
		_, err = w.Write(raw)
		return err
	case INAME, HNAME:
		return e.WriteString(w, t.nameWire())
	}
	return ErrInvalidTarget
}

// ReadTargetBody reads a Target's body given its already-known kind (the
// form used for hosts, and for the short INAME/HNAME canonical tags).
func ReadTargetBody(r io.Reader, d *Decoder, kind Tag) (Target, error) {
	switch kind {
	case INET4:
		buf := make([]byte, 4)
		if err := readFull(r, buf); err != nil {
			return Target{}, err
		}
		text, err := addrutil.Validate4Wire(buf)
		if err != nil {
			return Target{}, err
		}
		return Target{Kind: INET4, Value: text}, nil
	case INET6:
		// Peek enough to decode: read count+mask first, then the payload.
		hdr := make([]byte, 3)
		if err := readFull(r, hdr); err != nil {
			return Target{}, err
		}
		count := int(hdr[0])
		payload := make([]byte, count)
		if err := readFull(r, payload); err != nil {
			return Target{}, err
		}
		full := append(hdr, payload...)
		ip, _, err := addrutil.DecodeV6(full)
		if err != nil {
			return Target{}, err
		}
		return Target{Kind: INET6, Value: ip.String()}, nil
	case ONION:
		buf := make([]byte, 10)
		if err := readFull(r, buf); err != nil {
			return Target{}, err
		}
		text, err := addrutil.DecodeV2(buf)
		if err != nil {
			return Target{}, err
		}
		return Target{Kind: ONION, Value: text}, nil
	case ONIONNG:
		buf := make([]byte, 33)
		if err := readFull(r, buf); err != nil {
			return Target{}, err
		}
		text, err := addrutil.DecodeV3(buf)
		if err != nil {
			return Target{}, err
		}
		return Target{Kind: ONIONNG, Value: text}, nil
	case INAME, HNAME:
		s, err := d.ReadString(r)
		if err != nil {
			return Target{}, err
		}
		return nameFromWire(kind, s), nil
	}
	return Target{}, ErrInvalidTarget
}

// ReadTargetFull reads the "full Target" wire form: a leading kind byte
// followed by its body. Used for CANONICAL and DELEGATE.
func ReadTargetFull(r io.Reader, d *Decoder) (Target, error) {
	kb, err := readByte(r)
	if err != nil {
		return Target{}, err
	}
	return ReadTargetBody(r, d, Tag(kb))
}
