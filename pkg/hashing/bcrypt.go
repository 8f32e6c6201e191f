// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hashing

import (
	"encoding/base64"
	"fmt"
	"golang.org/x/crypto/blowfish"
	"strconv"
)

// golang.org/x/crypto/bcrypt only hashes with a freshly generated salt, so the
// eksblowfish rounds are driven here directly through the exported blowfish
// helpers to reuse a salt taken from a stored hash.

const (
	bcryptAlphabet    = "./ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	bcryptSaltLen     = 16
	bcryptEncSaltLen  = 22
	bcryptHashLen     = 23
	bcryptMinCost     = 4
	bcryptMaxCost     = 31
	bcryptSettingsLen = 7 // "$2a$12$"
)

var (
	bcryptEncoding  = base64.NewEncoding(bcryptAlphabet).WithPadding(base64.NoPadding)
	magicCipherData = []byte("OrpheanBeholderScryDoubt")
)

// bcryptSetting is a parsed "$2a$12$<22 chars>" prefix.
type bcryptSetting struct {
	version string
	cost    int
	salt    []byte
}

func parseBcryptSetting(setting string) (*bcryptSetting, error) {
	if len(setting) < bcryptSettingsLen+bcryptEncSaltLen {
		return nil, fmt.Errorf("%w: bcrypt setting %q is too short", ErrInvalidSalt, setting)
	}

	if setting[0] != '$' || setting[1] != '2' || setting[3] != '$' || setting[6] != '$' {
		return nil, fmt.Errorf("%w: bcrypt setting %q has an unknown prefix", ErrInvalidSalt, setting)
	}

	version := setting[1:3]
	switch version[1] {
	case 'a', 'b', 'x', 'y':
	default:
		return nil, fmt.Errorf("%w: unsupported bcrypt version %q", ErrInvalidSalt, version)
	}

	if !isDigit(setting[4]) || !isDigit(setting[5]) {
		return nil, fmt.Errorf("%w: bcrypt cost %q is not two digits", ErrInvalidSalt, setting[4:6])
	}

	cost, err := strconv.Atoi(setting[4:6])
	if err != nil || cost < bcryptMinCost || cost > bcryptMaxCost {
		return nil, fmt.Errorf("%w: bcrypt cost %q must be in [%d, %d]", ErrInvalidSalt, setting[4:6], bcryptMinCost, bcryptMaxCost)
	}

	salt, err := bcryptEncoding.DecodeString(setting[bcryptSettingsLen : bcryptSettingsLen+bcryptEncSaltLen])
	if err != nil || len(salt) != bcryptSaltLen {
		return nil, fmt.Errorf("%w: bcrypt salt is not valid bcrypt base64", ErrInvalidSalt)
	}

	return &bcryptSetting{version: version, cost: cost, salt: salt}, nil
}

func (s *bcryptSetting) prefix() string {
	return fmt.Sprintf("$%s$%02d$", s.version, s.cost)
}

// bcryptWithSetting hashes password reusing the version, cost and salt of
// setting. Anything after the 22 salt characters (a previous digest) is ignored.
func bcryptWithSetting(password, setting string) (string, error) {
	s, err := parseBcryptSetting(setting)
	if err != nil {
		return "", err
	}

	// $2x$ hashes were made with the sign extension bug of old crypt_blowfish,
	// which only differs from $2a$ for bytes >= 0x80.
	if s.version == "2x" && !isASCII(password) {
		return "", fmt.Errorf("%w: $2x$ bcrypt is not supported for 8-bit passwords", ErrInvalidSalt)
	}

	c, err := expensiveBlowfishSetup([]byte(password), s.cost, s.salt)
	if err != nil {
		return "", err
	}

	cipherData := make([]byte, len(magicCipherData))
	copy(cipherData, magicCipherData)
	for i := 0; i < len(cipherData); i += 8 {
		for j := 0; j < 64; j++ {
			c.Encrypt(cipherData[i:i+8], cipherData[i:i+8])
		}
	}

	return s.prefix() + bcryptEncoding.EncodeToString(s.salt) + bcryptEncoding.EncodeToString(cipherData[:bcryptHashLen]), nil
}

func expensiveBlowfishSetup(key []byte, cost int, salt []byte) (*blowfish.Cipher, error) {
	// The trailing NUL is part of the key for every $2?$ variant.
	ckey := make([]byte, len(key)+1)
	copy(ckey, key)

	c, err := blowfish.NewSaltedCipher(ckey, salt)
	if err != nil {
		return nil, fmt.Errorf("hashing: bcrypt setup: %w", err)
	}

	rounds := uint64(1) << uint(cost)
	for i := uint64(0); i < rounds; i++ {
		blowfish.ExpandKey(ckey, c)
		blowfish.ExpandKey(salt, c)
	}

	return c, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
