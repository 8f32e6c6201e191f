// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package fakeapi

import (
	"github.com/gin-gonic/gin"
	"github.com/passwordping/passwordping-go/pkg/passwordping"
	"net/http"
	"sync/atomic"
)

func (s *Server) count(c *gin.Context) {
	atomic.AddInt64(&s.requests, 1)
	c.Next()
}

func (s *Server) fail(c *gin.Context) {
	s.mu.RLock()
	status := s.failStatus
	s.mu.RUnlock()

	if status != 0 {
		c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	c.Next()
}

func (s *Server) checkPassword(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, key := range []string{"md5", "sha1", "sha256"} {
		if _, ok := s.passwords[c.Query(key)]; ok {
			c.JSON(http.StatusOK, gin.H{"revealedInExposure": true})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "password not found"})
}

func (s *Server) getAccount(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[c.Query("username")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}

	c.JSON(http.StatusOK, passwordping.AccountResponse{
		Salt:                   acc.salt,
		PasswordHashesRequired: acc.specs,
		LastBreachDate:         acc.lastBreachDate,
	})
}

func (s *Server) checkCredentials(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, h := range c.QueryArray("hashes") {
		if _, ok := s.credentials[h]; ok {
			c.JSON(http.StatusOK, gin.H{"found": true})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "credentials not found"})
}

func (s *Server) getExposures(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := c.GetQuery("id"); ok {
		d, found := s.exposures[id]
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "exposure not found"})
			return
		}
		c.JSON(http.StatusOK, d)
		return
	}

	if username, ok := c.GetQuery("username"); ok {
		ids, found := s.exposuresByUser[username]
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "no exposures"})
			return
		}
		c.JSON(http.StatusOK, passwordping.ExposuresResponse{Count: len(ids), Exposures: ids})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": "either id or username is required"})
}
