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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildOnionV3(t *testing.T, pubkey [32]byte) string {
	t.Helper()
	checksum := onionV3Checksum(pubkey[:], onionV3Ver)
	data := make([]byte, 0, 35)
	data = append(data, pubkey[:]...)
	data = append(data, checksum...)
	data = append(data, onionV3Ver)
	return strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(data)) + onionV3Suffix
}

func TestOnionV2RoundTrip(t *testing.T) {
	raw := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	addr, err := DecodeV2(raw)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(addr, ".onion"))
	require.True(t, LooksLikeOnionV2(addr))

	back, err := EncodeV2(addr)
	require.NoError(t, err)
	require.Equal(t, raw, back)
}

func TestOnionV3RoundTrip(t *testing.T) {
	var pubkey [32]byte
	for i := range pubkey {
		pubkey[i] = byte(i * 3)
	}
	addr := buildOnionV3(t, pubkey)
	require.True(t, LooksLikeOnionV3(addr))

	wire, err := EncodeV3(addr)
	require.NoError(t, err)
	require.Len(t, wire, 33)
	require.Equal(t, pubkey[:], wire[:32])
	require.Equal(t, byte(onionV3Ver), wire[32])

	back, err := DecodeV3(wire)
	require.NoError(t, err)
	require.Equal(t, addr, back)
}

func TestOnionV3BadChecksum(t *testing.T) {
	var pubkey [32]byte
	addr := buildOnionV3(t, pubkey)
	// change one character inside the pubkey's base32 encoding, without
	// changing the length, so the carried checksum no longer matches.
	mangled := []rune(addr)
	if mangled[40] == 'a' {
		mangled[40] = 'b'
	} else {
		mangled[40] = 'a'
	}
	_, err := EncodeV3(string(mangled))
	require.Error(t, err)
}

func TestOnionV2WrongLength(t *testing.T) {
	require.False(t, LooksLikeOnionV2("short"))
	_, err := EncodeV2("short")
	require.ErrorIs(t, err, ErrNotOnionV2)
}
