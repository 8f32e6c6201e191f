// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package fakeapi is an in-memory PasswordPing API, used by tests and by the
// mock command. It speaks the same routes, auth and status codes as the real
// service.
package fakeapi

import (
	"fmt"
	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/passwordping/passwordping-go/pkg/hashing"
	"github.com/passwordping/passwordping-go/pkg/passwordping"
	"github.com/rs/zerolog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"time"
)

type account struct {
	salt           string
	specs          []passwordping.PasswordHashSpecification
	lastBreachDate *time.Time
}

type Server struct {
	router   *gin.Engine
	log      zerolog.Logger
	requests int64

	mu              sync.RWMutex
	passwords       map[string]struct{}
	accounts        map[string]*account
	credentials     map[string]struct{}
	exposuresByUser map[string][]string
	exposures       map[string]passwordping.ExposureDetails
	failStatus      int
}

type Option func(*Server)

// WithLogger logs every request the fake serves.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// New returns a fake that accepts only apiKey/secret as Basic credentials.
func New(apiKey, secret string, opts ...Option) *Server {
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.TestMode)
	}

	s := &Server{
		log:             zerolog.Nop(),
		passwords:       make(map[string]struct{}),
		accounts:        make(map[string]*account),
		credentials:     make(map[string]struct{}),
		exposuresByUser: make(map[string][]string),
		exposures:       make(map[string]passwordping.ExposureDetails),
	}
	for _, opt := range opts {
		opt(s)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.SetLogger(logger.WithLogger(func(c *gin.Context, z zerolog.Logger) zerolog.Logger {
		return s.log.With().Str("component", "fakeapi").Logger()
	})))
	router.Use(s.count, s.fail)

	v1 := router.Group("/v1", gin.BasicAuth(gin.Accounts{apiKey: secret}))
	v1.GET("/passwords", s.checkPassword)
	v1.GET("/accounts", s.getAccount)
	v1.GET("/credentials", s.checkCredentials)
	v1.GET("/exposures", s.getExposures)

	s.router = router
	return s
}

// Handler exposes the router, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.router
}

// TB is the part of testing.TB that Start needs.
type TB interface {
	Helper()
	Cleanup(func())
}

// Start serves the fake on a local port until the test ends and returns its URL.
func (s *Server) Start(tb TB) string {
	tb.Helper()

	srv := httptest.NewServer(s.router)
	tb.Cleanup(srv.Close)

	return srv.URL
}

// Requests counts the requests served so far, authenticated or not.
func (s *Server) Requests() int64 {
	return atomic.LoadInt64(&s.requests)
}

// FailWith makes every following request answer status. Zero restores normal
// behaviour.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
}

// AddPassword marks password as breached.
func (s *Server) AddPassword(password string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range []hashing.PasswordType{hashing.MD5, hashing.SHA1, hashing.SHA256} {
		h, _ := hashing.Calc(t, password, "")
		s.passwords[h] = struct{}{}
	}
}

// AddCredentials marks the username/password pair as breached. The account
// asks clients for one credential hash per spec.
func (s *Server) AddCredentials(username, password string, specs ...passwordping.PasswordHashSpecification) error {
	if len(specs) == 0 {
		specs = []passwordping.PasswordHashSpecification{{HashType: hashing.SHA256}}
	}

	userHash := passwordping.UsernameHash(username)

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[userHash]
	if !ok {
		breach := time.Date(2016, time.November, 7, 9, 17, 19, 0, time.UTC)
		acc = &account{salt: "salt-" + userHash[:12], lastBreachDate: &breach}
		s.accounts[userHash] = acc
	}

	for _, spec := range specs {
		h, err := passwordping.CalcCredentialHash(username, password, acc.salt, spec)
		if err != nil {
			return fmt.Errorf("fakeapi: credential hash for %s: %w", spec.HashType, err)
		}
		s.credentials[h] = struct{}{}
		if !hasSpec(acc.specs, spec) {
			acc.specs = append(acc.specs, spec)
		}
	}

	return nil
}

// AddExposure publishes d and lists it for each username, in call order.
func (s *Server) AddExposure(d passwordping.ExposureDetails, usernames ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.exposures[d.ID] = d
	for _, u := range usernames {
		h := passwordping.UsernameHash(u)
		s.exposuresByUser[h] = append(s.exposuresByUser[h], d.ID)
	}
}

func hasSpec(specs []passwordping.PasswordHashSpecification, spec passwordping.PasswordHashSpecification) bool {
	for _, s := range specs {
		if s == spec {
			return true
		}
	}
	return false
}
