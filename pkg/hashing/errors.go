// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hashing

import "errors"

var (
	// ErrInvalidSalt is returned when a salted format gets no salt, or a salt
	// whose layout the format cannot parse (bad prefix, bad cost, short salt).
	ErrInvalidSalt = errors.New("hashing: invalid or missing salt")

	// ErrUnsupportedPasswordType is returned for ids or names outside the
	// supported set.
	ErrUnsupportedPasswordType = errors.New("hashing: unsupported password type")
)
