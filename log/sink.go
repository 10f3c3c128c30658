/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package log

import (
	"os"

	"github.com/gravwell/hnsrec/log/rotate"
)

// NewRotatingFile opens a Logger backed by a size-rotated, gzip-compressed
// history of log files at pth, for long-running resolvers that would
// otherwise grow one file without bound.
func NewRotatingFile(pth string, perm os.FileMode) (*Logger, error) {
	fr, err := rotate.Open(pth, perm)
	if err != nil {
		return nil, err
	}
	return New(fr), nil
}
