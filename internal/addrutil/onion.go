/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package addrutil

import (
	"encoding/base32"
	"errors"
	"strings"

	"golang.org/x/crypto/sha3"
)

var (
	ErrNotOnionV2  = errors.New("not a valid onion v2 address")
	ErrNotOnionV3  = errors.New("not a valid onion v3 address")
	ErrBadChecksum = errors.New("onion v3 checksum mismatch")
)

const (
	onionV2Suffix = ".onion"
	onionV3Suffix = ".onion"

	onionV2Len    = 16 // base32 chars, 10 raw bytes
	onionV3Len    = 56 // base32 chars
	onionV3Pubkey = 32
	onionV3Ver    = 0x03
)

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// LooksLikeOnionV2 reports whether s is a 16-character (10-byte) onion v2
// address, optionally suffixed with ".onion".
func LooksLikeOnionV2(s string) bool {
	s = strings.TrimSuffix(strings.ToLower(s), onionV2Suffix)
	if len(s) != onionV2Len {
		return false
	}
	_, err := b32.DecodeString(strings.ToUpper(s))
	return err == nil
}

// LooksLikeOnionV3 reports whether s is a 56-character onion v3 address
// (ed25519-based), optionally suffixed with ".onion".
func LooksLikeOnionV3(s string) bool {
	s = strings.TrimSuffix(strings.ToLower(s), onionV3Suffix)
	return len(s) == onionV3Len
}

// EncodeV2 decodes a 16-character onion v2 label into its 10 raw bytes.
func EncodeV2(s string) ([]byte, error) {
	s = strings.TrimSuffix(strings.ToLower(s), onionV2Suffix)
	if len(s) != onionV2Len {
		return nil, ErrNotOnionV2
	}
	raw, err := b32.DecodeString(strings.ToUpper(s))
	if err != nil || len(raw) != 10 {
		return nil, ErrNotOnionV2
	}
	return raw, nil
}

// DecodeV2 renders 10 raw onion v2 bytes back to a ".onion" address.
func DecodeV2(raw []byte) (string, error) {
	if len(raw) != 10 {
		return "", ErrNotOnionV2
	}
	return strings.ToLower(b32.EncodeToString(raw)) + onionV2Suffix, nil
}

// EncodeV3 decodes a 56-character onion v3 address into its 33-byte wire
// form: the 32-byte ed25519 public key followed by the version byte. The
// checksum carried in the textual address is verified but not stored on
// wire, since it is a deterministic function of pubkey+version.
func EncodeV3(s string) ([]byte, error) {
	s = strings.TrimSuffix(strings.ToLower(s), onionV3Suffix)
	if len(s) != onionV3Len {
		return nil, ErrNotOnionV3
	}
	decoded, err := b32.DecodeString(strings.ToUpper(s))
	if err != nil || len(decoded) != onionV3Pubkey+2+1 {
		return nil, ErrNotOnionV3
	}
	pubkey := decoded[:onionV3Pubkey]
	checksum := decoded[onionV3Pubkey : onionV3Pubkey+2]
	version := decoded[onionV3Pubkey+2]
	if version != onionV3Ver {
		return nil, ErrNotOnionV3
	}
	want := onionV3Checksum(pubkey, version)
	if checksum[0] != want[0] || checksum[1] != want[1] {
		return nil, ErrBadChecksum
	}
	out := make([]byte, onionV3Pubkey+1)
	copy(out, pubkey)
	out[onionV3Pubkey] = version
	return out, nil
}

// DecodeV3 renders a 33-byte (pubkey||version) wire body back to a
// ".onion" address, recomputing the checksum the textual form carries.
func DecodeV3(raw []byte) (string, error) {
	if len(raw) != onionV3Pubkey+1 {
		return "", ErrNotOnionV3
	}
	pubkey := raw[:onionV3Pubkey]
	version := raw[onionV3Pubkey]
	checksum := onionV3Checksum(pubkey, version)
	data := make([]byte, 0, onionV3Pubkey+2+1)
	data = append(data, pubkey...)
	data = append(data, checksum...)
	data = append(data, version)
	return strings.ToLower(b32.EncodeToString(data)) + onionV3Suffix, nil
}

// onionV3Checksum computes SHA3-256(".onion checksum" || pubkey || version)[:2]
// per the Tor rend-spec-v3 address format.
func onionV3Checksum(pubkey []byte, version byte) []byte {
	h := sha3.New256()
	h.Write([]byte(".onion checksum"))
	h.Write(pubkey)
	h.Write([]byte{version})
	sum := h.Sum(nil)
	return sum[:2]
}
