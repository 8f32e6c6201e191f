// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import "time"

var (
	// root
	verbose bool
	// root
	profile bool
	// root
	pprofPort uint16
	// root
	host string
	// root
	timeout time.Duration
	// root
	retryMax int
	// password
	interactive bool
	// hash
	hashType string
	// hash
	salt string
	// exposures
	details bool
	// exposures
	sorted bool
	// batch, mock
	inputFile string
	// batch
	threads int
	// batch
	rate int
	// mock
	selfTLS bool
	// mock
	tlsCert string
	// mock
	tlsKey string
	// mock
	port uint16
)
