// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hashing

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// phpBB3 uses the phpass portable scheme. The setting is "$H$" (or "$P$"),
// one itoa64 character holding log2 of the iteration count, then 8 salt bytes.

const (
	itoa64             = "./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	phpassSettingLen   = 12
	phpassMinCountLog2 = 7
	phpassMaxCountLog2 = 30
)

func phpBB3(password, setting string) (string, error) {
	if len(setting) < phpassSettingLen {
		return "", fmt.Errorf("%w: phpBB3 setting %q is too short", ErrInvalidSalt, setting)
	}

	if !strings.HasPrefix(setting, "$H$") && !strings.HasPrefix(setting, "$P$") {
		return "", fmt.Errorf("%w: phpBB3 setting %q must start with $H$ or $P$", ErrInvalidSalt, setting)
	}

	countLog2 := strings.IndexByte(itoa64, setting[3])
	if countLog2 < phpassMinCountLog2 || countLog2 > phpassMaxCountLog2 {
		return "", fmt.Errorf("%w: phpBB3 iteration count %q out of range", ErrInvalidSalt, setting[3])
	}

	salt := setting[4:phpassSettingLen]
	pw := []byte(password)

	h := md5.Sum(append([]byte(salt), pw...))
	for count := 1 << uint(countLog2); count > 0; count-- {
		h = md5.Sum(append(h[:], pw...))
	}

	return setting[:phpassSettingLen] + phpassEncode64(h[:]), nil
}

// phpassEncode64 is phpass' little-endian base64 over the itoa64 alphabet.
func phpassEncode64(input []byte) string {
	var out strings.Builder
	count := len(input)

	for i := 0; i < count; {
		value := uint(input[i])
		i++
		out.WriteByte(itoa64[value&0x3f])
		if i < count {
			value |= uint(input[i]) << 8
		}
		out.WriteByte(itoa64[(value>>6)&0x3f])
		if i >= count {
			break
		}
		i++

		if i < count {
			value |= uint(input[i]) << 16
		}
		out.WriteByte(itoa64[(value>>12)&0x3f])
		if i >= count {
			break
		}
		i++

		out.WriteByte(itoa64[(value>>18)&0x3f])
	}

	return out.String()
}
