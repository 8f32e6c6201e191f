// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package hashing computes the legacy password hash formats understood by the
// PasswordPing API, so a hash can be submitted instead of a plaintext password.
//
// Every format is a pure function of the password and, for salted formats, a
// salt whose textual layout is dictated by the software that produced it
// (phpBB, vBulletin, IPBoard, bcrypt, ...). Results are compared byte for byte
// against the remote corpus, so the output envelopes are reproduced exactly.
//
//	hash, err := hashing.Calc(hashing.PHPBB3, "123456789", "$H$993WP3hbz")
//	// hash == "$H$993WP3hbzy0N22X06wxrCc3800D2p41"
package hashing

import (
	"fmt"
	"strconv"
	"strings"
)

// PasswordType identifies a hash format. The numeric values are the ids used
// by the API and are not contiguous.
type PasswordType int

const (
	MD5                PasswordType = 1
	SHA1               PasswordType = 2
	SHA256             PasswordType = 3
	IPBoardMyBB        PasswordType = 5
	VBulletinPre3_8_5  PasswordType = 6
	VBulletinPost3_8_5 PasswordType = 7
	BCrypt             PasswordType = 8
	CRC32              PasswordType = 9
	PHPBB3             PasswordType = 10
	CustomAlgorithm1   PasswordType = 11
	CustomAlgorithm2   PasswordType = 13
	SHA512             PasswordType = 14
	MD5Crypt           PasswordType = 16
	CustomAlgorithm4   PasswordType = 17
)

var typeNames = map[PasswordType]string{
	MD5:                "MD5",
	SHA1:               "SHA1",
	SHA256:             "SHA256",
	IPBoardMyBB:        "IPBoard_MyBB",
	VBulletinPre3_8_5:  "VBulletinPre3_8_5",
	VBulletinPost3_8_5: "VBulletinPost3_8_5",
	BCrypt:             "BCrypt",
	CRC32:              "CRC32",
	PHPBB3:             "PHPBB3",
	CustomAlgorithm1:   "CustomAlgorithm1",
	CustomAlgorithm2:   "CustomAlgorithm2",
	SHA512:             "SHA512",
	MD5Crypt:           "MD5Crypt",
	CustomAlgorithm4:   "CustomAlgorithm4",
}

// PasswordTypes returns every supported type in id order.
func PasswordTypes() []PasswordType {
	return []PasswordType{
		MD5, SHA1, SHA256, IPBoardMyBB, VBulletinPre3_8_5, VBulletinPost3_8_5, BCrypt,
		CRC32, PHPBB3, CustomAlgorithm1, CustomAlgorithm2, SHA512, MD5Crypt, CustomAlgorithm4,
	}
}

// String returns the name the API uses for the type.
func (t PasswordType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("PasswordType(%d)", int(t))
}

// Valid reports whether t is one of the supported formats.
func (t PasswordType) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// SaltRequired reports whether the format needs a salt. Unknown types report false.
func (t PasswordType) SaltRequired() bool {
	if a, ok := algorithms[t]; ok {
		return a.saltRequired
	}
	return false
}

// ParsePasswordType accepts an API name ("IPBoard_MyBB"), its form without
// underscores ("ipboardmybb") or a numeric id ("5"). Matching is case-insensitive.
func ParsePasswordType(s string) (PasswordType, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.Atoi(s); err == nil {
		if t := PasswordType(id); t.Valid() {
			return t, nil
		}
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedPasswordType, id)
	}

	want := normalizeName(s)
	for t, name := range typeNames {
		if normalizeName(name) == want {
			return t, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnsupportedPasswordType, s)
}

func normalizeName(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", ""))
}
