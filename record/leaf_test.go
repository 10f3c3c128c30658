/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package record

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestServiceIsSMTP(t *testing.T) {
	s := Service{Service: "smtp", Protocol: "tcp"}
	require.True(t, s.IsSMTP())

	s.Protocol = "udp"
	require.False(t, s.IsSMTP())
}

func TestServiceRoundTrip(t *testing.T) {
	tg := mustTarget(t, "1.2.3.4")
	s := Service{Service: "smtp", Protocol: "tcp", Priority: 5, Weight: 10, Target: tg, Port: 25}

	e := NewEncoder()
	s.Learn(e)
	var buf bytes.Buffer
	require.NoError(t, e.WriteTable(&buf))
	d, err := ReadTable(&buf)
	require.NoError(t, err)

	require.NoError(t, s.Write(&buf, e))
	require.Equal(t, s.Size(e), buf.Len())

	back, err := ReadService(&buf, d)
	require.NoError(t, err)
	require.Equal(t, s, back)
}

func TestSSHPGPWireIdentical(t *testing.T) {
	s := SSH{Algorithm: 1, Type: 2, Fingerprint: []byte{0xde, 0xad, 0xbe, 0xef}}
	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))
	require.Equal(t, s.Size(), buf.Len())

	back, err := ReadSSH(&buf)
	require.NoError(t, err)
	require.Equal(t, s, back)

	var p PGP = s
	require.Equal(t, s, SSH(p))
}

func TestTLSRoundTrip(t *testing.T) {
	tl := TLS{Protocol: "tcp", Port: 443, Usage: 1, Selector: 0, MatchingType: 2, Certificate: []byte{1, 2, 3}}
	e := NewEncoder()
	tl.Learn(e)
	var buf bytes.Buffer
	require.NoError(t, e.WriteTable(&buf))
	d, err := ReadTable(&buf)
	require.NoError(t, err)

	require.NoError(t, tl.Write(&buf, e))
	require.Equal(t, tl.Size(e), buf.Len())

	back, err := ReadTLS(&buf, d)
	require.NoError(t, err)
	require.Equal(t, tl, back)
}

func TestDSRoundTrip(t *testing.T) {
	ds := DS{KeyTag: 1234, Algorithm: 8, DigestType: 2, Digest: []byte{1, 2, 3, 4}}
	var buf bytes.Buffer
	require.NoError(t, ds.Write(&buf))
	require.Equal(t, ds.Size(), buf.Len())

	back, err := ReadDS(&buf)
	require.NoError(t, err)
	require.Equal(t, ds, back)
}

func TestMagnetRoundTrip(t *testing.T) {
	m := Magnet{NID: "btih", NIN: "0123abcd"}
	e := NewEncoder()
	m.Learn(e)
	var buf bytes.Buffer
	require.NoError(t, e.WriteTable(&buf))
	d, err := ReadTable(&buf)
	require.NoError(t, err)

	require.NoError(t, m.Write(&buf, e))
	sz, err := m.Size(e)
	require.NoError(t, err)
	require.Equal(t, sz, buf.Len())

	back, err := ReadMagnet(&buf, d)
	require.NoError(t, err)
	require.Equal(t, m, back)
}

func TestMagnetInvalidHex(t *testing.T) {
	m := Magnet{NID: "btih", NIN: "not-hex"}
	e := NewEncoder()
	_, err := m.Size(e)
	require.ErrorIs(t, err, ErrInvalidHex)
}

func TestLocationFixedSize(t *testing.T) {
	l := Location{Version: 0, Size: 20, HorizPre: 10, VertPre: 10, Latitude: 1, Longitude: 2, Altitude: 3}
	var buf bytes.Buffer
	require.NoError(t, l.Write(&buf))
	require.Equal(t, locationSize, buf.Len())

	back, err := ReadLocation(&buf)
	require.NoError(t, err)
	require.Equal(t, l, back)
}

func TestExtraRoundTrip(t *testing.T) {
	x := Extra{Type: 200, Data: []byte{9, 8, 7}}
	var buf bytes.Buffer
	require.NoError(t, x.Write(&buf))
	require.Equal(t, x.Size(), buf.Len())

	back, err := ReadExtra(&buf, x.Type)
	require.NoError(t, err)
	require.Equal(t, x, back)
}
