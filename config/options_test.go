/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	d := Default()
	require.Equal(t, uint16(4096), d.EDNSBufferSize)
	require.True(t, d.NakedDefault)
	require.Empty(t, d.LogPath)
}

func TestFromEnvOverride(t *testing.T) {
	t.Setenv("HNSREC_EDNS_BUFFER_SIZE", "1024")
	t.Setenv("HNSREC_NAKED_DEFAULT", "false")
	opts, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, uint16(1024), opts.EDNSBufferSize)
	require.False(t, opts.NakedDefault)
}

func TestFromEnvFileIndirection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log_path")
	require.NoError(t, os.WriteFile(path, []byte("/var/log/hnsrec.log\n"), 0o600))
	t.Setenv("HNSREC_LOG_PATH_FILE", path)

	opts, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "/var/log/hnsrec.log", opts.LogPath)
}

func TestFromEnvBadValue(t *testing.T) {
	t.Setenv("HNSREC_EDNS_BUFFER_SIZE", "not-a-number")
	_, err := FromEnv()
	require.ErrorIs(t, err, ErrBadValue)
}

func TestFromEnvEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o600))
	t.Setenv("HNSREC_LOG_PATH_FILE", path)

	_, err := FromEnv()
	require.ErrorIs(t, err, ErrEmptyEnvFile)
}

func TestFromEnvLogPath(t *testing.T) {
	t.Setenv("HNSREC_LOG_PATH", "/var/log/hnsrec.log")
	opts, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "/var/log/hnsrec.log", opts.LogPath)
}

func TestLoggerDiscardByDefault(t *testing.T) {
	lgr, err := Default().Logger()
	require.NoError(t, err)
	require.NotNil(t, lgr)
}

func TestLoggerRotatingFile(t *testing.T) {
	dir := t.TempDir()
	opts := Default()
	opts.LogPath = filepath.Join(dir, "hnsrec.log")

	lgr, err := opts.Logger()
	require.NoError(t, err)
	require.NotNil(t, lgr)
	require.NoError(t, lgr.Info("hello"))

	_, err = os.Stat(opts.LogPath)
	require.NoError(t, err)
}
