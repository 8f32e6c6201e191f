// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hashing

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash/crc32"
)

type algorithm struct {
	calc         func(password, salt string) (string, error)
	saltRequired bool
}

var algorithms = map[PasswordType]algorithm{
	MD5:                {calc: unsalted(md5Hex)},
	SHA1:               {calc: unsalted(sha1Hex)},
	SHA256:             {calc: unsalted(sha256Hex)},
	SHA512:             {calc: unsalted(sha512Hex)},
	CRC32:              {calc: unsalted(crc32Hex)},
	IPBoardMyBB:        {calc: ipBoardMyBB, saltRequired: true},
	VBulletinPre3_8_5:  {calc: vBulletin, saltRequired: true},
	VBulletinPost3_8_5: {calc: vBulletin, saltRequired: true},
	BCrypt:             {calc: bcryptWithSetting, saltRequired: true},
	PHPBB3:             {calc: phpBB3, saltRequired: true},
	CustomAlgorithm1:   {calc: customAlgorithm1, saltRequired: true},
	CustomAlgorithm2:   {calc: customAlgorithm2, saltRequired: true},
	MD5Crypt:           {calc: md5Crypt, saltRequired: true},
	CustomAlgorithm4:   {calc: customAlgorithm4, saltRequired: true},
}

// Calc returns the hash of password in format t. Salted formats fail with
// ErrInvalidSalt when salt is empty or malformed; unsalted formats ignore it.
func Calc(t PasswordType, password, salt string) (string, error) {
	a, ok := algorithms[t]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPasswordType, t)
	}

	if a.saltRequired && salt == "" {
		return "", fmt.Errorf("%w: %s requires a salt", ErrInvalidSalt, t)
	}

	return a.calc(password, salt)
}

func unsalted(fn func(string) string) func(string, string) (string, error) {
	return func(password, _ string) (string, error) {
		return fn(password), nil
	}
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func sha512Hex(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}

func crc32Hex(s string) string {
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE([]byte(s)))
}

// md5(md5(salt) + md5(password)), both inner digests hex encoded.
func ipBoardMyBB(password, salt string) (string, error) {
	return md5Hex(md5Hex(salt) + md5Hex(password)), nil
}

// Same for vBulletin before and after 3.8.5; only the salt length changed.
func vBulletin(password, salt string) (string, error) {
	return md5Hex(md5Hex(password) + salt), nil
}
