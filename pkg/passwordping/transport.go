// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package passwordping

import (
	"crypto/tls"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"net/http"
)

func newHTTPClient(o *options) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.Logger = retryLogger{log: o.logger}

	// Failures are reported once unless the caller opts into retries.
	client.RetryMax = o.retryMax
	// Hand the last response or error back untouched so 5xx bodies and
	// transport messages reach the caller.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	if o.httpClient != nil {
		client.HTTPClient = o.httpClient
		return client
	}

	transport := cleanhttp.DefaultPooledTransport()
	transport.TLSClientConfig = &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	client.HTTPClient = &http.Client{
		Transport: transport,
		Timeout:   o.timeout,
	}

	return client
}

var _ retryablehttp.LeveledLogger = retryLogger{}

// retryLogger routes retryablehttp's leveled logging into zerolog.
type retryLogger struct {
	log zerolog.Logger
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn().Fields(keysAndValues).Msg(msg)
}
