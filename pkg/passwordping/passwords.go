// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package passwordping

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"github.com/passwordping/passwordping-go/pkg/hashing"
	"golang.org/x/crypto/argon2"
	"net/url"
	"strings"
)

// Argon2id parameters for credential hashes.
const (
	credentialTime    = 3
	credentialMemory  = 1024
	credentialThreads = 2
	credentialKeyLen  = 20
)

// CheckPassword reports whether password appears in a known breach. Only the
// MD5, SHA1 and SHA256 hashes of the password are sent.
func (c *Client) CheckPassword(ctx context.Context, password string) (bool, error) {
	query := url.Values{}
	for name, t := range map[string]hashing.PasswordType{
		"md5":    hashing.MD5,
		"sha1":   hashing.SHA1,
		"sha256": hashing.SHA256,
	} {
		h, err := hashing.Calc(t, password, "")
		if err != nil {
			return false, err
		}
		query.Set(name, h)
	}

	return c.get(ctx, passwordsPath, query, nil)
}

// CheckCredentials reports whether the username and password pair appears in
// a known breach. The username is sent as a SHA256 hash, the password only as
// credential hashes derived from the hash formats the account requires.
func (c *Client) CheckCredentials(ctx context.Context, username, password string) (bool, error) {
	var account AccountResponse
	found, err := c.get(ctx, accountsPath, url.Values{"username": {UsernameHash(username)}}, &account)
	if err != nil || !found {
		return false, err
	}

	query := url.Values{}
	for _, spec := range account.PasswordHashesRequired {
		h, err := CalcCredentialHash(username, password, account.Salt, spec)
		if errors.Is(err, hashing.ErrUnsupportedPasswordType) {
			c.log.Debug().Stringer("hashType", spec.HashType).Msg("skipping unsupported password hash type")
			continue
		}
		if err != nil {
			return false, err
		}
		query.Add("hashes", h)
	}

	if len(query) == 0 {
		return false, nil
	}

	return c.get(ctx, credentialsPath, query, nil)
}

// CalcCredentialHash derives the hash the API stores for a username and
// password pair: the password is hashed as spec requires, then
// "lower(username)$passwordHash" goes through Argon2id with the account salt.
//
// golang.org/x/crypto/argon2 has no Argon2d. If the service derives these
// hashes with Argon2d, CheckCredentials cannot match against it and only
// agrees with servers that use this function, such as internal/fakeapi.
// TODO: confirm the Argon2 variant against a hash published by the service.
func CalcCredentialHash(username, password, accountSalt string, spec PasswordHashSpecification) (string, error) {
	passwordHash, err := hashing.Calc(spec.HashType, password, spec.Salt)
	if err != nil {
		return "", err
	}

	key := argon2.IDKey(
		[]byte(normalizeUsername(username)+"$"+passwordHash),
		[]byte(accountSalt),
		credentialTime, credentialMemory, credentialThreads, credentialKeyLen,
	)

	return hex.EncodeToString(key), nil
}

// UsernameHash is the SHA256 of the lower-cased username, as sent to the API.
func UsernameHash(username string) string {
	sum := sha256.Sum256([]byte(normalizeUsername(username)))
	return hex.EncodeToString(sum[:])
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
