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

func TestEncoderTableRoundTrip(t *testing.T) {
	e := NewEncoder()
	e.Add("foo")
	e.Add("bar")
	e.Add("foo") // duplicate, no new entry

	var buf bytes.Buffer
	require.NoError(t, e.WriteTable(&buf))
	require.Equal(t, e.TableSize(), buf.Len())

	d, err := ReadTable(&buf)
	require.NoError(t, err)
	require.Equal(t, []string{"foo", "bar"}, d.table)
}

func TestWriteStringLiteralVsRef(t *testing.T) {
	e := NewEncoder()
	e.Add("known")

	var buf bytes.Buffer
	require.NoError(t, e.WriteString(&buf, "known"))
	require.Equal(t, e.StringSize("known"), buf.Len())
	require.Equal(t, 3, buf.Len()) // marker + u16 index

	buf.Reset()
	require.NoError(t, e.WriteString(&buf, "unseen"))
	require.Equal(t, e.StringSize("unseen"), buf.Len())
	require.Equal(t, 2+len("unseen"), buf.Len())
}

func TestDecoderReadStringRoundTrip(t *testing.T) {
	e := NewEncoder()
	e.Add("shared")

	var table bytes.Buffer
	require.NoError(t, e.WriteTable(&table))
	d, err := ReadTable(&table)
	require.NoError(t, err)

	var body bytes.Buffer
	require.NoError(t, e.WriteString(&body, "shared"))
	require.NoError(t, e.WriteString(&body, "inline"))

	s1, err := d.ReadString(&body)
	require.NoError(t, err)
	require.Equal(t, "shared", s1)

	s2, err := d.ReadString(&body)
	require.NoError(t, err)
	require.Equal(t, "inline", s2)
}

func TestReadStringBadTableRef(t *testing.T) {
	d := &Decoder{table: []string{"only"}}
	buf := bytes.NewBuffer([]byte{strRef, 0x09, 0x00}) // index 9, out of range
	_, err := d.ReadString(buf)
	require.ErrorIs(t, err, ErrInvalidTableRef)
}

func TestReadTruncatedBody(t *testing.T) {
	var d Decoder
	// marker says literal, length claims 5 bytes, only 2 are present.
	_, err := d.ReadString(bytes.NewBuffer([]byte{strLiteral, 0x05, 'a', 'b'}))
	require.ErrorIs(t, err, ErrTruncatedBody)
}
