// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hashing

import (
	"crypto/sha512"
	"encoding/hex"
	"github.com/jzelinskie/whirlpool"
)

// customAlgorithm1 xors sha512(password+salt) with whirlpool(salt+password).
// Both digests are 64 bytes.
func customAlgorithm1(password, salt string) (string, error) {
	left := sha512.Sum512([]byte(password + salt))

	w := whirlpool.New()
	w.Write([]byte(salt + password))
	right := w.Sum(nil)

	out := make([]byte, len(left))
	for i := range left {
		out[i] = left[i] ^ right[i]
	}

	return hex.EncodeToString(out), nil
}

func customAlgorithm2(password, salt string) (string, error) {
	return md5Hex(password + salt), nil
}

// customAlgorithm4 feeds the hex md5 of the password into bcrypt.
func customAlgorithm4(password, salt string) (string, error) {
	return bcryptWithSetting(md5Hex(password), salt)
}
