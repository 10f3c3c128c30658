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
	"encoding/hex"
	"io"

	"github.com/btcsuite/btcutil/bech32"
)

// Service is an SRV-like leaf record: a named service/protocol pair
// resolving to a Target and port, with priority/weight for load balancing.
type Service struct {
	Service  string
	Protocol string
	Priority uint8
	Weight   uint8
	Target   Target
	Port     uint16
}

// IsSMTP reports whether this service entry describes mail delivery.
func (s Service) IsSMTP() bool {
	return s.Service == "smtp" && s.Protocol == "tcp"
}

func (s Service) Learn(e *Encoder) {
	e.Add(s.Service)
	e.Add(s.Protocol)
	s.Target.Learn(e)
}

func (s Service) Size(e *Encoder) int {
	return e.StringSize(s.Service) + e.StringSize(s.Protocol) + 2 + s.Target.Size(e) + 2
}

func (s Service) Write(w io.Writer, e *Encoder) error {
	if err := e.WriteString(w, s.Service); err != nil {
		return err
	}
	if err := e.WriteString(w, s.Protocol); err != nil {
		return err
	}
	if err := writeByte(w, s.Priority); err != nil {
		return err
	}
	if err := writeByte(w, s.Weight); err != nil {
		return err
	}
	if err := s.Target.WriteFull(w, e); err != nil {
		return err
	}
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], s.Port)
	_, err := w.Write(buf[:])
	return err
}

func ReadService(r io.Reader, d *Decoder) (s Service, err error) {
	if s.Service, err = d.ReadString(r); err != nil {
		return
	}
	if s.Protocol, err = d.ReadString(r); err != nil {
		return
	}
	if s.Priority, err = readByte(r); err != nil {
		return
	}
	if s.Weight, err = readByte(r); err != nil {
		return
	}
	if s.Target, err = ReadTargetFull(r, d); err != nil {
		return
	}
	var buf [2]byte
	if err = readFull(r, buf[:]); err != nil {
		return
	}
	s.Port = binary.LittleEndian.Uint16(buf[:])
	return
}

// Addr is a currency/address pair. The "hsk" currency gets a compact
// native wire form; everything else is stored as plain ASCII.
type Addr struct {
	Currency string
	Address  string
}

const (
	addrNativeFlag  = 0x80
	addrTestnetFlag = 0x40
	addrLenMask     = 0x3f
)

func (a Addr) isNative() bool { return a.Currency == "hsk" }

func (a Addr) Learn(e *Encoder) {
	if !a.isNative() {
		e.Add(a.Currency)
	}
}

func (a Addr) Size(e *Encoder) (int, error) {
	if a.isNative() {
		_, hash, _, err := decodeHNSAddr(a.Address)
		if err != nil {
			return 0, err
		}
		return 2 + len(hash), nil
	}
	return e.StringSize(a.Currency) + 1 + len(a.Address), nil
}

func (a Addr) Write(w io.Writer, e *Encoder) error {
	if a.isNative() {
		version, hash, testnet, err := decodeHNSAddr(a.Address)
		if err != nil {
			return err
		}
		if len(hash) > addrLenMask {
			return ErrFieldTooLong
		}
		lb := byte(addrNativeFlag) | byte(len(hash))
		if testnet {
			lb |= addrTestnetFlag
		}
		if err := writeByte(w, lb); err != nil {
			return err
		}
		if err := writeByte(w, version); err != nil {
			return err
		}
		_, err = w.Write(hash)
		return err
	}
	if err := e.WriteString(w, a.Currency); err != nil {
		return err
	}
	if len(a.Address) > 255 {
		return ErrFieldTooLong
	}
	if err := writeByte(w, byte(len(a.Address))); err != nil {
		return err
	}
	_, err := io.WriteString(w, a.Address)
	return err
}

func ReadAddr(r io.Reader, d *Decoder) (a Addr, err error) {
	lb, err := readByte(r)
	if err != nil {
		return
	}
	if lb&addrNativeFlag != 0 {
		n := int(lb & addrLenMask)
		testnet := lb&addrTestnetFlag != 0
		version, err2 := readByte(r)
		if err2 != nil {
			return a, err2
		}
		hash := make([]byte, n)
		if err = readFull(r, hash); err != nil {
			return
		}
		addr, err2 := encodeHNSAddr(version, hash, testnet)
		if err2 != nil {
			return a, err2
		}
		return Addr{Currency: "hsk", Address: addr}, nil
	}
	// lb was consumed as a table/literal marker for the currency string;
	// hand it to readStringWithMarker, which resumes decoding after it.
	cur, err := readStringWithMarker(r, d, lb)
	if err != nil {
		return
	}
	l, err := readByte(r)
	if err != nil {
		return
	}
	buf := make([]byte, l)
	if err = readFull(r, buf); err != nil {
		return
	}
	return Addr{Currency: cur, Address: string(buf)}, nil
}

// readStringWithMarker resumes decoding a compressor-written string whose
// marker byte has already been consumed (Addr's native flag bit lives in
// the same leading byte position a string marker would occupy).
func readStringWithMarker(r io.Reader, d *Decoder, marker byte) (string, error) {
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

func decodeHNSAddr(addr string) (version byte, hash []byte, testnet bool, err error) {
	hrp, data, err := bech32.Decode(addr)
	if err != nil {
		return 0, nil, false, err
	}
	if len(data) == 0 {
		return 0, nil, false, ErrInvalidTarget
	}
	version = data[0]
	hash, err = bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return 0, nil, false, err
	}
	testnet = hrp == "ts"
	return
}

func encodeHNSAddr(version byte, hash []byte, testnet bool) (string, error) {
	hrp := "hs"
	if testnet {
		hrp = "ts"
	}
	program, err := bech32.ConvertBits(hash, 8, 5, true)
	if err != nil {
		return "", err
	}
	data := append([]byte{version}, program...)
	return bech32.Encode(hrp, data)
}

// SSH and PGP are wire-identical leaf records distinguished only by tag;
// PGP is a type alias rather than a separate struct to keep that explicit.
type SSH struct {
	Algorithm   uint8
	Type        uint8
	Fingerprint []byte
}

type PGP = SSH

func (s SSH) Size() int { return 2 + 1 + len(s.Fingerprint) }

func (s SSH) Write(w io.Writer) error {
	if len(s.Fingerprint) > 255 {
		return ErrFieldTooLong
	}
	if err := writeByte(w, s.Algorithm); err != nil {
		return err
	}
	if err := writeByte(w, s.Type); err != nil {
		return err
	}
	if err := writeByte(w, byte(len(s.Fingerprint))); err != nil {
		return err
	}
	_, err := w.Write(s.Fingerprint)
	return err
}

func ReadSSH(r io.Reader) (s SSH, err error) {
	if s.Algorithm, err = readByte(r); err != nil {
		return
	}
	if s.Type, err = readByte(r); err != nil {
		return
	}
	l, err := readByte(r)
	if err != nil {
		return
	}
	s.Fingerprint = make([]byte, l)
	err = readFull(r, s.Fingerprint)
	return
}

// TLS is a TLSA-like leaf record.
type TLS struct {
	Protocol     string
	Port         uint16
	Usage        uint8
	Selector     uint8
	MatchingType uint8
	Certificate  []byte
}

func (t TLS) Learn(e *Encoder) { e.Add(t.Protocol) }

func (t TLS) Size(e *Encoder) int {
	return e.StringSize(t.Protocol) + 2 + 1 + 1 + 1 + 1 + len(t.Certificate)
}

func (t TLS) Write(w io.Writer, e *Encoder) error {
	if len(t.Certificate) > 255 {
		return ErrFieldTooLong
	}
	if err := e.WriteString(w, t.Protocol); err != nil {
		return err
	}
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], t.Port)
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}
	if err := writeByte(w, t.Usage); err != nil {
		return err
	}
	if err := writeByte(w, t.Selector); err != nil {
		return err
	}
	if err := writeByte(w, t.MatchingType); err != nil {
		return err
	}
	if err := writeByte(w, byte(len(t.Certificate))); err != nil {
		return err
	}
	_, err := w.Write(t.Certificate)
	return err
}

func ReadTLS(r io.Reader, d *Decoder) (t TLS, err error) {
	if t.Protocol, err = d.ReadString(r); err != nil {
		return
	}
	var buf [2]byte
	if err = readFull(r, buf[:]); err != nil {
		return
	}
	t.Port = binary.LittleEndian.Uint16(buf[:])
	if t.Usage, err = readByte(r); err != nil {
		return
	}
	if t.Selector, err = readByte(r); err != nil {
		return
	}
	if t.MatchingType, err = readByte(r); err != nil {
		return
	}
	l, err := readByte(r)
	if err != nil {
		return
	}
	t.Certificate = make([]byte, l)
	err = readFull(r, t.Certificate)
	return
}

// DS carries a delegation signer digest, mirroring the DNS DS RR.
type DS struct {
	KeyTag     uint16
	Algorithm  uint8
	DigestType uint8
	Digest     []byte
}

func (d DS) Size() int { return 2 + 1 + 1 + 1 + len(d.Digest) }

func (d DS) Write(w io.Writer) error {
	if len(d.Digest) > 255 {
		return ErrFieldTooLong
	}
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], d.KeyTag)
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}
	if err := writeByte(w, d.Algorithm); err != nil {
		return err
	}
	if err := writeByte(w, d.DigestType); err != nil {
		return err
	}
	if err := writeByte(w, byte(len(d.Digest))); err != nil {
		return err
	}
	_, err := w.Write(d.Digest)
	return err
}

func ReadDS(r io.Reader) (ds DS, err error) {
	var buf [2]byte
	if err = readFull(r, buf[:]); err != nil {
		return
	}
	ds.KeyTag = binary.LittleEndian.Uint16(buf[:])
	if ds.Algorithm, err = readByte(r); err != nil {
		return
	}
	if ds.DigestType, err = readByte(r); err != nil {
		return
	}
	l, err := readByte(r)
	if err != nil {
		return
	}
	ds.Digest = make([]byte, l)
	err = readFull(r, ds.Digest)
	return
}

// Magnet is a BitTorrent magnet link, stored as a namespace id and an
// info-hash carried as raw bytes on wire (hex in the magnet: URI form).
type Magnet struct {
	NID string
	NIN string // hex
}

func (m Magnet) raw() ([]byte, error) {
	return hex.DecodeString(m.NIN)
}

func (m Magnet) Learn(e *Encoder) { e.Add(m.NID) }

func (m Magnet) Size(e *Encoder) (int, error) {
	raw, err := m.raw()
	if err != nil {
		return 0, ErrInvalidHex
	}
	return e.StringSize(m.NID) + 1 + len(raw), nil
}

func (m Magnet) Write(w io.Writer, e *Encoder) error {
	raw, err := m.raw()
	if err != nil {
		return ErrInvalidHex
	}
	if len(raw) > 255 {
		return ErrFieldTooLong
	}
	if err := e.WriteString(w, m.NID); err != nil {
		return err
	}
	if err := writeByte(w, byte(len(raw))); err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}

func ReadMagnet(r io.Reader, d *Decoder) (m Magnet, err error) {
	if m.NID, err = d.ReadString(r); err != nil {
		return
	}
	l, err := readByte(r)
	if err != nil {
		return
	}
	raw := make([]byte, l)
	if err = readFull(r, raw); err != nil {
		return
	}
	m.NIN = hex.EncodeToString(raw)
	return
}

// URI renders m as a magnet: link.
func (m Magnet) URI() string {
	return "magnet:?xt=urn:" + m.NID + ":" + m.NIN
}

// Location is a fixed-size, uncompressed geolocation leaf record modeled
// on the DNS LOC RR.
type Location struct {
	Version   uint8
	Size      uint8
	HorizPre  uint8
	VertPre   uint8
	Latitude  uint32
	Longitude uint32
	Altitude  uint32
}

const locationSize = 16

func (Location) Size() int { return locationSize }

func (l Location) Write(w io.Writer) error {
	buf := make([]byte, locationSize)
	buf[0] = l.Version
	buf[1] = l.Size
	buf[2] = l.HorizPre
	buf[3] = l.VertPre
	binary.LittleEndian.PutUint32(buf[4:8], l.Latitude)
	binary.LittleEndian.PutUint32(buf[8:12], l.Longitude)
	binary.LittleEndian.PutUint32(buf[12:16], l.Altitude)
	_, err := w.Write(buf)
	return err
}

func ReadLocation(r io.Reader) (l Location, err error) {
	buf := make([]byte, locationSize)
	if err = readFull(r, buf); err != nil {
		return
	}
	l.Version = buf[0]
	l.Size = buf[1]
	l.HorizPre = buf[2]
	l.VertPre = buf[3]
	l.Latitude = binary.LittleEndian.Uint32(buf[4:8])
	l.Longitude = binary.LittleEndian.Uint32(buf[8:12])
	l.Altitude = binary.LittleEndian.Uint32(buf[12:16])
	return
}

// Extra preserves an unrecognized top-level tag verbatim for round-tripping
// forward-compatible extensions this codec does not otherwise understand.
type Extra struct {
	Type Tag
	Data []byte
}

func (e Extra) Size() int { return 1 + len(e.Data) }

func (e Extra) Write(w io.Writer) error {
	if len(e.Data) > 255 {
		return ErrFieldTooLong
	}
	if err := writeByte(w, byte(len(e.Data))); err != nil {
		return err
	}
	_, err := w.Write(e.Data)
	return err
}

func ReadExtra(r io.Reader, tag Tag) (e Extra, err error) {
	e.Type = tag
	l, err := readByte(r)
	if err != nil {
		return
	}
	e.Data = make([]byte, l)
	err = readFull(r, e.Data)
	return
}
