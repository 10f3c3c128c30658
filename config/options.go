/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package config holds the small set of ambient options that govern
// synthesizer behavior but have no single correct default: EDNS0 buffer
// size, the naked-pointer default, and where to send diagnostic logs. The
// ICANN/native TLD suffix markers (record.ICANN, record.HSK and friends)
// are wire-format constants the spec fixes outright, not a deployment
// knob, so they live in record and are not duplicated here. Loading a
// record set itself is out of scope; this is not a general configuration
// framework.
package config

import (
	"bufio"
	"errors"
	"os"
	"strconv"

	"github.com/gravwell/hnsrec/log"
)

var (
	ErrEmptyEnvFile = errors.New("environment secret file is empty")
	ErrBadValue     = errors.New("environment value is invalid")
)

// Options controls synthesizer behavior that varies across deployments of
// this naming system: the EDNS0 buffer size, the naked default and where
// diagnostic logs go.
type Options struct {
	EDNSBufferSize uint16
	NakedDefault   bool
	LogPath        string // empty means diagnostics are discarded
}

// Logger builds the diagnostic logger these options describe: a
// size-rotated, gzip-compressed file logger when LogPath is set, and a
// discard logger otherwise, for deployments that never set one up.
func (o Options) Logger() (*log.Logger, error) {
	if o.LogPath == "" {
		return log.NewDiscardLogger(), nil
	}
	return log.NewRotatingFile(o.LogPath, 0o640)
}

// Default returns the options a standalone deployment uses absent any
// environment overrides.
func Default() Options {
	return Options{
		EDNSBufferSize: 4096,
		NakedDefault:   true,
	}
}

// FromEnv builds Options from environment variables, falling back to
// Default() for anything unset. HNSREC_EDNS_BUFFER_SIZE, HNSREC_NAKED_DEFAULT
// and HNSREC_LOG_PATH (or their _FILE-suffixed counterparts, for values
// provisioned as a mounted secret) override the corresponding field.
func FromEnv() (Options, error) {
	opts := Default()

	if v, ok, err := lookup("HNSREC_EDNS_BUFFER_SIZE"); err != nil {
		return Options{}, err
	} else if ok {
		n, perr := strconv.ParseUint(v, 10, 16)
		if perr != nil {
			return Options{}, ErrBadValue
		}
		opts.EDNSBufferSize = uint16(n)
	}

	if v, ok, err := lookup("HNSREC_NAKED_DEFAULT"); err != nil {
		return Options{}, err
	} else if ok {
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			return Options{}, ErrBadValue
		}
		opts.NakedDefault = b
	}

	if v, ok, err := lookup("HNSREC_LOG_PATH"); err != nil {
		return Options{}, err
	} else if ok {
		opts.LogPath = v
	}

	return opts, nil
}

// lookup reads nm from the environment, falling back to nm+"_FILE" for
// values provisioned as a mounted secret.
func lookup(nm string) (string, bool, error) {
	if v, ok := os.LookupEnv(nm); ok {
		return v, true, nil
	}
	fp, ok := os.LookupEnv(nm + "_FILE")
	if !ok {
		return "", false, nil
	}
	v, err := readFirstLine(fp)
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func readFirstLine(path string) (string, error) {
	fin, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer fin.Close()
	s := bufio.NewScanner(fin)
	s.Scan()
	if err := s.Err(); err != nil {
		return "", err
	}
	line := s.Text()
	if line == "" {
		return "", ErrEmptyEnvFile
	}
	return line, nil
}
