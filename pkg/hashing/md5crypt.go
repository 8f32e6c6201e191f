// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hashing

import (
	"fmt"
	"github.com/GehirnInc/crypt/md5_crypt"
	"strings"
)

// md5Crypt is the FreeBSD "$1$" scheme. A bare salt gets the prefix added.
func md5Crypt(password, salt string) (string, error) {
	if !strings.HasPrefix(salt, md5_crypt.MagicPrefix) {
		salt = md5_crypt.MagicPrefix + salt
	}

	if len(salt) == len(md5_crypt.MagicPrefix) {
		return "", fmt.Errorf("%w: MD5Crypt salt is empty", ErrInvalidSalt)
	}

	hash, err := md5_crypt.New().Generate([]byte(password), []byte(salt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSalt, err)
	}

	return hash, nil
}
