// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/likexian/selfca"
	"github.com/passwordping/passwordping-go/internal/config"
	"github.com/passwordping/passwordping-go/internal/fakeapi"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"net/http"
	"os"
	"time"
)

var (
	mockCmd = &cobra.Command{
		Use:   "mock",
		Short: "Serve an in-memory PasswordPing API for local development",
		Long: "Serve an in-memory PasswordPing API seeded from a JSON fixtures file. " +
			"It accepts the PP_API_KEY and PP_API_SECRET credentials only.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return mockCommand(cmd)
		},
	}
)

func init() {
	mockCmd.Flags().StringVarP(&inputFile, "in-file", "i", "", "JSON fixtures file with passwords, credentials and exposures")
	mockCmd.Flags().BoolVar(&selfTLS, "self-tls", false,
		"If the server should use a self-signed certificate when starting. The certificate is renewed on each server restart")
	mockCmd.Flags().StringVar(&tlsCert, "tls-cert", "", "Path to the PEM encoded TLS certificate to be used by the server")
	mockCmd.Flags().StringVar(&tlsKey, "tls-key", "", "Path to the PEM encoded TLS private key to be used by the server")
	mockCmd.Flags().Uint16VarP(&port, "port", "p", 3100, "Port to be used by the server")

	rootCmd.AddCommand(mockCmd)
}

func mockCommand(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	fake := fakeapi.New(cfg.APIKey, cfg.Secret,
		fakeapi.WithLogger(zerolog.New(gin.DefaultWriter).With().Timestamp().Logger()))

	if inputFile != "" {
		file, err := os.Open(inputFile)
		if err != nil {
			return err
		}
		err = fake.LoadFixtures(file)
		_ = file.Close()
		if err != nil {
			return err
		}
	}

	srvAddr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:              srvAddr,
		Handler:           fake.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if tlsCert == "" && selfTLS {
		if srv.TLSConfig, err = selfSignedTLS(); err != nil {
			return err
		}
	}

	errs := make(chan error, 1)
	go func() {
		switch {
		case tlsCert != "" && tlsKey != "":
			log.Info().Msgf("starting TLS mock server on address: %s", srvAddr)
			errs <- srv.ListenAndServeTLS(tlsCert, tlsKey)
		case srv.TLSConfig != nil:
			log.Warn().Msgf("using auto self-signed certificate for TLS. Clients must trust it explicitly.")
			log.Info().Msgf("starting TLS mock server on address: %s", srvAddr)
			errs <- srv.ListenAndServeTLS("", "")
		default:
			log.Warn().Msgf("serving plain HTTP, use --self-tls or --tls-cert and --tls-key for TLS")
			log.Info().Msgf("starting mock server on address: %s", srvAddr)
			errs <- srv.ListenAndServe()
		}
	}()

	select {
	case err = <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	case <-cmd.Context().Done():
	}

	return gracefulShutdown(srv)
}

func selfSignedTLS() (*tls.Config, error) {
	caConfig := selfca.Certificate{
		IsCA:      true,
		KeySize:   2048,
		NotBefore: time.Now(),
		// 30 day self-signed cert.
		NotAfter: time.Now().Add(time.Duration(30*24) * time.Hour),
	}

	certificate, key, err := selfca.GenerateCertificate(caConfig)
	if err != nil {
		return nil, fmt.Errorf("error generating auto self-signed certificate: %w", err)
	}

	pair, err := tls.X509KeyPair(
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certificate}),
		pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}),
	)
	if err != nil {
		return nil, fmt.Errorf("error using auto self-signed certificate: %w", err)
	}

	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{pair},
	}, nil
}

func gracefulShutdown(srv *http.Server) error {
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("server Shutdown.")
		return err
	}

	log.Info().Msg("server exiting...")
	return nil
}
