// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package fakeapi

import (
	"encoding/json"
	"fmt"
	"github.com/passwordping/passwordping-go/pkg/passwordping"
	"io"
)

// Fixtures seeds a Server from a JSON document.
type Fixtures struct {
	Passwords   []string            `json:"passwords"`
	Credentials []CredentialFixture `json:"credentials"`
	Exposures   []ExposureFixture   `json:"exposures"`
}

type CredentialFixture struct {
	Username string                                   `json:"username"`
	Password string                                   `json:"password"`
	Hashes   []passwordping.PasswordHashSpecification `json:"hashes"`
}

type ExposureFixture struct {
	Details   passwordping.ExposureDetails `json:"details"`
	Usernames []string                     `json:"usernames"`
}

// LoadFixtures decodes r as Fixtures and adds everything it lists.
func (s *Server) LoadFixtures(r io.Reader) error {
	var f Fixtures
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return fmt.Errorf("fakeapi: decoding fixtures: %w", err)
	}

	return s.Seed(f)
}

func (s *Server) Seed(f Fixtures) error {
	for _, p := range f.Passwords {
		s.AddPassword(p)
	}

	for _, c := range f.Credentials {
		if c.Username == "" {
			return fmt.Errorf("fakeapi: credential fixture without username")
		}
		if err := s.AddCredentials(c.Username, c.Password, c.Hashes...); err != nil {
			return err
		}
	}

	for _, e := range f.Exposures {
		if e.Details.ID == "" {
			return fmt.Errorf("fakeapi: exposure fixture without id")
		}
		s.AddExposure(e.Details, e.Usernames...)
	}

	return nil
}
