/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package addrutil normalizes IPv4/IPv6 literals and encodes/decodes the
// onion v2 and v3 address forms used by the Target wire format.
package addrutil

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
)

var (
	ErrNotIPv4     = errors.New("address is not a valid IPv4 literal")
	ErrNotIPv6     = errors.New("address is not a valid IPv6 literal")
	ErrShortIPv6   = errors.New("ipv6 wire body truncated")
	ErrBadIPv6Mask = errors.New("ipv6 bitmap disagrees with nonzero byte count")
)

// NormalizeV4 parses s as IPv4 and returns its canonical dotted-quad text
// and its 4-byte wire form.
func NormalizeV4(s string) (text string, wire [4]byte, err error) {
	ip := net.ParseIP(s)
	v4 := ip.To4()
	if v4 == nil {
		err = ErrNotIPv4
		return
	}
	copy(wire[:], v4)
	text = v4.String()
	return
}

// NormalizeV6 parses s as IPv6 and returns its canonical compressed text.
func NormalizeV6(s string) (text string, ip net.IP, err error) {
	addr := net.ParseIP(s)
	if addr == nil || addr.To4() != nil {
		err = ErrNotIPv6
		return
	}
	ip = addr.To16()
	text = ip.String()
	return
}

// EncodeV6 writes the compressed wire form of a 16-byte IPv6 address: a
// count of nonzero bytes, a 16-bit little-endian bitmap of which of the 16
// byte positions are nonzero, then the nonzero bytes themselves in
// ascending position order.
func EncodeV6(ip net.IP) ([]byte, error) {
	addr := ip.To16()
	if addr == nil || ip.To4() != nil {
		return nil, ErrNotIPv6
	}
	var mask uint16
	var nonzero []byte
	for i, b := range addr {
		if b != 0 {
			mask |= 1 << uint(i)
			nonzero = append(nonzero, b)
		}
	}
	out := make([]byte, 3+len(nonzero))
	out[0] = byte(len(nonzero))
	binary.LittleEndian.PutUint16(out[1:3], mask)
	copy(out[3:], nonzero)
	return out, nil
}

// SizeV6 returns the number of bytes EncodeV6 will emit for ip.
func SizeV6(ip net.IP) int {
	addr := ip.To16()
	n := 0
	for _, b := range addr {
		if b != 0 {
			n++
		}
	}
	return 3 + n
}

// DecodeV6 is the inverse of EncodeV6; it returns the reconstructed address
// and the number of bytes consumed from buf.
func DecodeV6(buf []byte) (net.IP, int, error) {
	if len(buf) < 3 {
		return nil, 0, ErrShortIPv6
	}
	count := int(buf[0])
	mask := binary.LittleEndian.Uint16(buf[1:3])
	if len(buf) < 3+count {
		return nil, 0, ErrShortIPv6
	}
	if bitsSet(mask) != count {
		return nil, 0, ErrBadIPv6Mask
	}
	nonzero := buf[3 : 3+count]
	addr := make(net.IP, 16)
	idx := 0
	for i := 0; i < 16; i++ {
		if mask&(1<<uint(i)) != 0 {
			addr[i] = nonzero[idx]
			idx++
		}
	}
	return addr, 3 + count, nil
}

func bitsSet(mask uint16) int {
	n := 0
	for mask != 0 {
		mask &= mask - 1
		n++
	}
	return n
}

// LooksLikeV4 reports whether s parses as an IPv4 literal.
func LooksLikeV4(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil
}

// LooksLikeV6 reports whether s parses as an IPv6 literal (and not IPv4).
func LooksLikeV6(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() == nil
}

// Validate4Wire checks that a 4-byte wire body is a plausible IPv4 address
// and returns its canonical text form.
func Validate4Wire(wire []byte) (string, error) {
	if len(wire) != 4 {
		return "", fmt.Errorf("ipv4 wire body: %w", ErrNotIPv4)
	}
	return net.IP(wire).String(), nil
}
