// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package passwordping_test

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"github.com/passwordping/passwordping-go/internal/fakeapi"
	"github.com/passwordping/passwordping-go/pkg/hashing"
	"github.com/passwordping/passwordping-go/pkg/passwordping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const (
	testKey    = "test-api-key"
	testSecret = "test-secret"
)

func newTestClient(t *testing.T, opts ...passwordping.Option) (*passwordping.Client, *fakeapi.Server) {
	t.Helper()

	fake := fakeapi.New(testKey, testSecret)
	client, err := passwordping.NewClient(testKey, testSecret, fake.Start(t), opts...)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return client, fake
}

func lastFM() passwordping.ExposureDetails {
	date := time.Date(2012, time.March, 1, 0, 0, 0, 0, time.UTC)
	return passwordping.ExposureDetails{
		ID:              "5820469ffdb8780510b329cc",
		Title:           "last.fm",
		Category:        "Music",
		Date:            &date,
		DateAdded:       time.Date(2016, time.November, 7, 9, 17, 19, 0, time.UTC),
		PasswordType:    "MD5",
		ExposedData:     []string{"Emails", "Passwords", "Usernames", "Website Activity"},
		Entries:         43570999,
		DomainsAffected: 1218513,
		SourceURLs:      []string{},
	}
}

func TestNewClient_MissingCredentials(t *testing.T) {
	for _, creds := range [][2]string{{"", ""}, {"key", ""}, {"", "secret"}} {
		client, err := passwordping.NewClient(creds[0], creds[1], "")
		assert.Nil(t, client)
		require.ErrorIs(t, err, passwordping.ErrMissingCredentials)
		assert.Equal(t, "API key and Secret must be provided", err.Error())
	}
}

func TestNewClient_Hosts(t *testing.T) {
	cases := map[string]string{
		"":                                  "api.passwordping.com",
		"api-alt.passwordping.com":          "api-alt.passwordping.com",
		"API.PasswordPing.com":              "api.passwordping.com",
		"https://api.passwordping.com:8443": "api.passwordping.com:8443",
		"http://127.0.0.1:8080/":            "127.0.0.1:8080",
	}

	for in, want := range cases {
		client, err := passwordping.NewClient(testKey, testSecret, in)
		require.NoError(t, err, in)
		assert.Equal(t, want, client.Host(), in)
		assert.Equal(t, testKey, client.APIKey())
	}
}

func TestNewClient_InvalidHost(t *testing.T) {
	for _, in := range []string{"ftp://api.passwordping.com", "https://", "http://[::1"} {
		_, err := passwordping.NewClient(testKey, testSecret, in)
		assert.ErrorIs(t, err, passwordping.ErrInvalidHost, in)
	}
}

func TestClient_SendsBasicAuth(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	client, err := passwordping.NewClient(testKey, testSecret, srv.URL)
	require.NoError(t, err)

	_, err = client.CheckPassword(context.Background(), "123456")
	require.NoError(t, err)

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte(testKey+":"+testSecret))
	assert.Equal(t, want, got)
}

func TestClient_WrongSecret(t *testing.T) {
	fake := fakeapi.New(testKey, testSecret)
	client, err := passwordping.NewClient(testKey, "wrong", fake.Start(t))
	require.NoError(t, err)

	_, err = client.CheckPassword(context.Background(), "123456")

	var terr *passwordping.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusUnauthorized, terr.StatusCode)
}

func TestCheckPassword(t *testing.T) {
	client, fake := newTestClient(t)
	fake.AddPassword("123456")

	found, err := client.CheckPassword(context.Background(), "123456")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = client.CheckPassword(context.Background(), "kjdlkjdlksjdlskjdlskjslkjdslkdjslkdjslkd")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCheckPassword_SendsOnlyHashes(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	client, err := passwordping.NewClient(testKey, testSecret, srv.URL)
	require.NoError(t, err)

	found, err := client.CheckPassword(context.Background(), "123456")
	require.NoError(t, err)
	assert.True(t, found)

	assert.NotContains(t, query, "123456")
	assert.Contains(t, query, "md5=e10adc3949ba59abbe56e057f20f883e")
	assert.Contains(t, query, "sha1=7c4a8d09ca3762af61e59520943dc26494f8941b")
	assert.Contains(t, query, "sha256=8d969eef6ecad3c29a3a629280e686cf0c3f5d5a86aff3ca12020c923adc6c92")
}

func TestCheckCredentials(t *testing.T) {
	client, fake := newTestClient(t)
	require.NoError(t, fake.AddCredentials("test@passwordping.com", "123456",
		passwordping.PasswordHashSpecification{HashType: hashing.MD5},
		passwordping.PasswordHashSpecification{HashType: hashing.VBulletinPost3_8_5, Salt: "]G@"},
	))

	found, err := client.CheckCredentials(context.Background(), "test@passwordping.com", "123456")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = client.CheckCredentials(context.Background(), "Test@PasswordPing.com", "123456")
	require.NoError(t, err)
	assert.True(t, found, "usernames are case-insensitive")

	found, err = client.CheckCredentials(context.Background(), "test@passwordping.com", "123456122")
	require.NoError(t, err)
	assert.False(t, found)

	found, err = client.CheckCredentials(context.Background(), "nobody@passwordping.com", "123456")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCheckCredentials_SkipsUnsupportedHashTypes(t *testing.T) {
	var credentialCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/accounts":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"salt":"abc","passwordHashesRequired":[{"hashType":12,"salt":""},{"hashType":99}]}`))
		default:
			credentialCalls++
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(srv.Close)

	client, err := passwordping.NewClient(testKey, testSecret, srv.URL)
	require.NoError(t, err)

	found, err := client.CheckCredentials(context.Background(), "user", "pass")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, credentialCalls)
}

func TestCalcCredentialHash(t *testing.T) {
	spec := passwordping.PasswordHashSpecification{HashType: hashing.SHA1}

	a, err := passwordping.CalcCredentialHash("User@Example.com", "secret", "salt-1234", spec)
	require.NoError(t, err)
	b, err := passwordping.CalcCredentialHash("user@example.com", "secret", "salt-1234", spec)
	require.NoError(t, err)
	c, err := passwordping.CalcCredentialHash("user@example.com", "secret", "salt-5678", spec)
	require.NoError(t, err)

	assert.Len(t, a, 40)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	_, err = passwordping.CalcCredentialHash("user", "secret", "salt", passwordping.PasswordHashSpecification{HashType: hashing.BCrypt})
	assert.ErrorIs(t, err, hashing.ErrInvalidSalt)
}

func TestCalcCredentialHash_Derivation(t *testing.T) {
	spec := passwordping.PasswordHashSpecification{HashType: hashing.SHA1}

	got, err := passwordping.CalcCredentialHash(" User@Example.com ", "secret", "salt-1234", spec)
	require.NoError(t, err)

	// sha1("secret")
	input := "user@example.com$e5e9fa1ba31ecd1ae84f75caaa474f3a663f05f4"
	want := hex.EncodeToString(argon2.IDKey([]byte(input), []byte("salt-1234"), 3, 1024, 2, 20))
	assert.Equal(t, want, got)
}

func TestGetExposuresForUser(t *testing.T) {
	client, fake := newTestClient(t)

	ids := []string{"5820469ffdb8780510b329cc", "58258f5efdb8780be88c2c5d", "582a8e51fdb87806acc426ff", "583d2f9e1395c81f4cfa3479"}
	for _, id := range ids {
		d := lastFM()
		d.ID = id
		fake.AddExposure(d, "eicar")
	}

	res, err := client.GetExposuresForUser(context.Background(), "eicar")
	require.NoError(t, err)
	assert.Equal(t, 4, res.Count)
	assert.Equal(t, ids, res.Exposures)
}

func TestGetExposuresForUser_Unknown(t *testing.T) {
	client, _ := newTestClient(t)

	res, err := client.GetExposuresForUser(context.Background(), "@@bogus-username@@")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	assert.NotNil(t, res.Exposures)
	assert.Empty(t, res.Exposures)
}

func TestGetExposureDetails(t *testing.T) {
	client, fake := newTestClient(t)
	fake.AddExposure(lastFM())

	d, err := client.GetExposureDetails(context.Background(), "5820469ffdb8780510b329cc")
	require.NoError(t, err)
	require.NotNil(t, d)

	want := lastFM()
	assert.Equal(t, want.ID, d.ID)
	assert.Equal(t, want.Title, d.Title)
	assert.Equal(t, want.Category, d.Category)
	require.NotNil(t, d.Date)
	assert.True(t, want.Date.Equal(*d.Date))
	assert.True(t, want.DateAdded.Equal(d.DateAdded))
	assert.Equal(t, want.PasswordType, d.PasswordType)
	assert.Equal(t, want.ExposedData, d.ExposedData)
	assert.Equal(t, want.Entries, d.Entries)
	assert.Equal(t, want.DomainsAffected, d.DomainsAffected)
	assert.Equal(t, []string{}, d.SourceURLs)
}

func TestGetExposureDetails_DecodesServiceJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"5820469ffdb8780510b329cc","title":"last.fm","category":"Music",` +
			`"date":"2012-03-01T00:00:00.000Z","dateAdded":"2016-11-07T09:17:19.000Z","passwordType":"MD5",` +
			`"exposedData":["Emails","Passwords","Usernames","Website Activity"],"entries":43570999,` +
			`"domainsAffected":1218513}`))
	}))
	t.Cleanup(srv.Close)

	client, err := passwordping.NewClient(testKey, testSecret, srv.URL)
	require.NoError(t, err)

	d, err := client.GetExposureDetails(context.Background(), "5820469ffdb8780510b329cc")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "2012-03-01T00:00:00Z", d.Date.UTC().Format(time.RFC3339))
	assert.Equal(t, int64(43570999), d.Entries)
	assert.Equal(t, []string{}, d.SourceURLs)
}

func TestGetExposureDetails_Unknown(t *testing.T) {
	client, _ := newTestClient(t)

	d, err := client.GetExposureDetails(context.Background(), "111111111111111111111111")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestGetExposureDetails_Cache(t *testing.T) {
	client, fake := newTestClient(t, passwordping.WithExposureCache(100))
	fake.AddExposure(lastFM())

	first, err := client.GetExposureDetails(context.Background(), "5820469ffdb8780510b329cc")
	require.NoError(t, err)
	served := fake.Requests()

	first.Title = "changed by caller"

	second, err := client.GetExposureDetails(context.Background(), "5820469ffdb8780510b329cc")
	require.NoError(t, err)
	assert.Equal(t, served, fake.Requests(), "second call should be served from cache")
	assert.Equal(t, "last.fm", second.Title)
}

func TestClient_UnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	host := srv.Listener.Addr().String()
	srv.Close()

	client, err := passwordping.NewClient(testKey, testSecret, "http://"+host)
	require.NoError(t, err)

	calls := map[string]func() error{
		"CheckPassword": func() error {
			_, err := client.CheckPassword(context.Background(), "123456")
			return err
		},
		"CheckCredentials": func() error {
			_, err := client.CheckCredentials(context.Background(), "test@passwordping.com", "123456")
			return err
		},
		"GetExposuresForUser": func() error {
			_, err := client.GetExposuresForUser(context.Background(), "eicar")
			return err
		},
		"GetExposureDetails": func() error {
			_, err := client.GetExposureDetails(context.Background(), "5820469ffdb8780510b329cc")
			return err
		},
	}

	for name, call := range calls {
		err := call()

		var terr *passwordping.TransportError
		require.ErrorAs(t, err, &terr, name)
		assert.Zero(t, terr.StatusCode, name)
		assert.True(t, strings.HasPrefix(err.Error(), "Unexpected error calling PasswordPing API: "), name)
		assert.Contains(t, err.Error(), host, name)
	}
}

func TestClient_UnexpectedStatus(t *testing.T) {
	client, fake := newTestClient(t)
	fake.FailWith(http.StatusInternalServerError)

	_, err := client.CheckPassword(context.Background(), "123456")

	var terr *passwordping.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusInternalServerError, terr.StatusCode)
	assert.Contains(t, err.Error(), "HTTP 500")
	assert.Equal(t, int64(1), fake.Requests(), "no retries by default")
}

func TestClient_RetryMax(t *testing.T) {
	fake := fakeapi.New(testKey, testSecret)
	fake.FailWith(http.StatusServiceUnavailable)

	client, err := passwordping.NewClient(testKey, testSecret, fake.Start(t), passwordping.WithRetryMax(1))
	require.NoError(t, err)

	_, err = client.CheckPassword(context.Background(), "123456")
	require.Error(t, err)
	assert.Equal(t, int64(2), fake.Requests())
}

func TestClient_CancelledContext(t *testing.T) {
	client, fake := newTestClient(t)
	fake.AddPassword("123456")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.CheckPassword(ctx, "123456")

	var terr *passwordping.TransportError
	require.ErrorAs(t, err, &terr)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_CalcPasswordHash(t *testing.T) {
	client, _ := newTestClient(t)

	h, err := client.CalcPasswordHash(hashing.IPBoardMyBB, "123456", ";;!_X")
	require.NoError(t, err)
	assert.Equal(t, "2e705e174e9df3e2c8aaa30297aa6d74", h)

	_, err = client.CalcPasswordHash(hashing.PHPBB3, "123456", "")
	assert.ErrorIs(t, err, hashing.ErrInvalidSalt)
}
