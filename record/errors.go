/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package record

import "errors"

var (
	ErrInvalidVersion     = errors.New("invalid record version")
	ErrInvalidBufferSize  = errors.New("invalid buffer size, too small")
	ErrTruncatedBody      = errors.New("truncated record body")
	ErrDuplicateCanonical = errors.New("duplicate canonical target")
	ErrDuplicateDelegate  = errors.New("duplicate delegate target")
	ErrFieldTooLong       = errors.New("field exceeds 255 byte cap")
	ErrInvalidTarget      = errors.New("unrecognized target address form")
	ErrInvalidTableRef    = errors.New("invalid compressor table reference")
	ErrNotFQDN            = errors.New("name is not fully qualified")
	ErrInvalidHex         = errors.New("invalid hex string")
)
