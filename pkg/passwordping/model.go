// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package passwordping

import (
	"github.com/passwordping/passwordping-go/pkg/hashing"
	"time"
)

// ExposuresResponse lists the exposures a username appears in, in the order
// returned by the API. Exposures is never nil.
type ExposuresResponse struct {
	Count     int      `json:"count"`
	Exposures []string `json:"exposures"`
}

// ExposureDetails describes a single breach.
type ExposureDetails struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Category        string     `json:"category"`
	Date            *time.Time `json:"date"`
	DateAdded       time.Time  `json:"dateAdded"`
	PasswordType    string     `json:"passwordType"`
	ExposedData     []string   `json:"exposedData"`
	Entries         int64      `json:"entries"`
	DomainsAffected int64      `json:"domainsAffected"`
	SourceURLs      []string   `json:"sourceURLs"`
}

func (d *ExposureDetails) normalize() {
	if d.ExposedData == nil {
		d.ExposedData = []string{}
	}
	if d.SourceURLs == nil {
		d.SourceURLs = []string{}
	}
}

func (d *ExposureDetails) clone() *ExposureDetails {
	c := *d
	if d.Date != nil {
		date := *d.Date
		c.Date = &date
	}
	c.ExposedData = append([]string{}, d.ExposedData...)
	c.SourceURLs = append([]string{}, d.SourceURLs...)
	return &c
}

// PasswordHashSpecification is one password hash the API needs to match an
// account's credentials.
type PasswordHashSpecification struct {
	HashType hashing.PasswordType `json:"hashType"`
	Salt     string               `json:"salt"`
}

// AccountResponse is returned by the accounts endpoint for a known username.
type AccountResponse struct {
	Salt                   string                      `json:"salt"`
	PasswordHashesRequired []PasswordHashSpecification `json:"passwordHashesRequired"`
	LastBreachDate         *time.Time                  `json:"lastBreachDate"`
}
