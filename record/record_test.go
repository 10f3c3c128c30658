/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustTarget(t *testing.T, s string) Target {
	t.Helper()
	tg, err := ParseTarget(s)
	require.NoError(t, err)
	return tg
}

func TestEmptyRecordEncodeDecode(t *testing.T) {
	r := &Record{}
	enc, err := Encode(r)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x00, 0x00}, enc[:3])

	dec, err := Decode(enc)
	require.NoError(t, err)
	require.Equal(t, uint32(0), dec.TTL)
	require.Empty(t, dec.Hosts)
	require.Nil(t, dec.Canonical)
}

func TestOneIPv4HostRoundTrip(t *testing.T) {
	r := &Record{TTL: 3600, Hosts: []Target{mustTarget(t, "1.2.3.4")}}
	enc, err := Encode(r)
	require.NoError(t, err)

	// ttl >> 6 == 56 == 0x0038, big-endian at offset 1
	require.Equal(t, byte(0x00), enc[1])
	require.Equal(t, byte(0x38), enc[2])

	dec, err := Decode(enc)
	require.NoError(t, err)
	require.Equal(t, uint32(3584), dec.TTL) // 3600 & ^63
	require.Len(t, dec.Hosts, 1)
	require.Equal(t, "1.2.3.4", dec.Hosts[0].Value)
	require.Equal(t, INET4, dec.Hosts[0].Kind)
}

func TestCanonicalICANNRoundTrip(t *testing.T) {
	c := mustTarget(t, "example.com.i")
	require.Equal(t, INAME, c.Kind)
	r := &Record{Canonical: &c}
	enc, err := Encode(r)
	require.NoError(t, err)
	dec, err := Decode(enc)
	require.NoError(t, err)
	require.NotNil(t, dec.Canonical)
	require.Equal(t, "example.com.", dec.Canonical.ToDNS())
}

func TestCanonicalNativeRoundTrip(t *testing.T) {
	c := mustTarget(t, "bob.h")
	require.Equal(t, HNAME, c.Kind)
	r := &Record{Canonical: &c}
	enc, err := Encode(r)
	require.NoError(t, err)
	dec, err := Decode(enc)
	require.NoError(t, err)
	require.Equal(t, "bob.h.", dec.Canonical.ToDNS())
}

func TestVersionMismatchFails(t *testing.T) {
	_, err := Decode([]byte{0x01, 0x00, 0x00, 0x00, 0x00})
	require.ErrorIs(t, err, ErrInvalidVersion)
}

func TestUnknownTagRoundTripsAsExtra(t *testing.T) {
	r := &Record{Extra: []Extra{{Type: 200, Data: []byte("hello")}}}
	enc, err := Encode(r)
	require.NoError(t, err)
	dec, err := Decode(enc)
	require.NoError(t, err)
	require.Len(t, dec.Extra, 1)
	require.EqualValues(t, 200, dec.Extra[0].Type)
	require.Equal(t, []byte("hello"), dec.Extra[0].Data)
}

func TestStringTableDeduplicates(t *testing.T) {
	s := "abcdefghij" // 10 bytes
	naive := &Record{URL: []string{s}, Email: []string{s}, Text: []string{s}}
	enc, err := Encode(naive)
	require.NoError(t, err)
	// naive per-occurrence cost would be 3 * (1 + 10); with the string
	// stored once in the table and referenced three times, the whole
	// encoded record must still come in under that.
	require.Less(t, len(enc), 3*(1+len(s)))

	dec, err := Decode(enc)
	require.NoError(t, err)
	require.Equal(t, []string{s}, dec.URL)
	require.Equal(t, []string{s}, dec.Email)
	require.Equal(t, []string{s}, dec.Text)
}

func TestToPointerFormat(t *testing.T) {
	tg := mustTarget(t, "1.2.3.4")
	ptr, err := tg.ToPointer("example.")
	require.NoError(t, err)
	require.True(t, len(ptr) > 0 && ptr[0] == '_')
	require.Contains(t, ptr, ".example.")
}

func TestServiceJSONRoundTrip(t *testing.T) {
	r := &Record{
		Service: []Service{{
			Service: "smtp", Protocol: "tcp", Priority: 10, Weight: 0,
			Target: mustTarget(t, "1.2.3.4"), Port: 25,
		}},
	}
	js, err := ToJSON(r, "alice.")
	require.NoError(t, err)
	back, name, err := FromJSON(js)
	require.NoError(t, err)
	require.Equal(t, "alice.", name)
	require.Len(t, back.Service, 1)
	require.True(t, back.Service[0].IsSMTP())
	require.Equal(t, uint16(25), back.Service[0].Port)
}

func TestMagnetURIRoundTrip(t *testing.T) {
	m := Magnet{NID: "btih", NIN: "aabbccdd"}
	require.Equal(t, "magnet:?xt=urn:btih:aabbccdd", m.URI())
	r := &Record{Magnet: []Magnet{m}}
	enc, err := Encode(r)
	require.NoError(t, err)
	dec, err := Decode(enc)
	require.NoError(t, err)
	require.Equal(t, m, dec.Magnet[0])
}

func TestDuplicateCanonicalIsError(t *testing.T) {
	var buf []byte
	buf = append(buf, 0x00, 0x00, 0x00) // version, ttl
	buf = append(buf, 0x00, 0x00)       // empty table
	buf = append(buf, byte(INAME), 0x00, 0x03, 'f', 'o', 'o')
	buf = append(buf, byte(INAME), 0x00, 0x03, 'b', 'a', 'r')
	_, err := Decode(buf)
	require.ErrorIs(t, err, ErrDuplicateCanonical)
}

func TestAddrNativeRoundTrip(t *testing.T) {
	hrpAddr, err := encodeHNSAddr(0, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, false)
	require.NoError(t, err)
	a := Addr{Currency: "hsk", Address: hrpAddr}
	r := &Record{Addr: []Addr{a}}
	enc, err := Encode(r)
	require.NoError(t, err)
	dec, err := Decode(enc)
	require.NoError(t, err)
	require.Len(t, dec.Addr, 1)
	require.Equal(t, "hsk", dec.Addr[0].Currency)
	version, hash, testnet, err := decodeHNSAddr(dec.Addr[0].Address)
	require.NoError(t, err)
	require.False(t, testnet)
	require.Equal(t, byte(0), version)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, hash)
}

func TestAddrNonNativeRoundTrip(t *testing.T) {
	a := Addr{Currency: "btc", Address: "1BoatSLRHtKNngkdXEeobR76b53LETtpyT"}
	r := &Record{Addr: []Addr{a}}
	enc, err := Encode(r)
	require.NoError(t, err)
	dec, err := Decode(enc)
	require.NoError(t, err)
	require.Equal(t, a, dec.Addr[0])
}
