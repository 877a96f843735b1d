package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"

	"recruitflow/internal/config"
)

// configureTLS applies the configured TLS mode to the HTTP server.
// Disabled mode leaves the server on plain HTTP.
func (s *Server) configureTLS(httpServer *http.Server) error {
	if s.TLSConfig.Mode == "" || s.TLSConfig.Mode == "disabled" {
		return nil
	}

	tlsConfig, err := buildTLSConfig(s.TLSConfig)
	if err != nil {
		return fmt.Errorf("failed to build TLS configuration: %w", err)
	}

	httpServer.TLSConfig = tlsConfig

	s.Logger.Info("TLS configured",
		"mode", s.TLSConfig.Mode,
		"min_version", s.TLSConfig.MinVersion,
		"cert_file", s.TLSConfig.CertFile)

	return nil
}

// buildTLSConfig creates a tls.Config from the application TLS settings
func buildTLSConfig(cfg config.TLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion: parseTLSVersion(cfg.MinVersion),
	}

	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load server certificate: %w", err)
	}
	tlsConfig.Certificates = []tls.Certificate{cert}

	if cfg.Mode == "mutual" {
		caPool, err := loadCACertPool(cfg.CAFile)
		if err != nil {
			return nil, err
		}
		tlsConfig.ClientCAs = caPool
		tlsConfig.ClientAuth = parseClientAuthPolicy(cfg.ClientAuthPolicy)
	}

	return tlsConfig, nil
}

// loadCACertPool loads the CA certificate pool for client verification
func loadCACertPool(caFile string) (*x509.CertPool, error) {
	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("failed to parse CA certificate from %s", caFile)
	}

	return pool, nil
}

// parseTLSVersion maps the configured version string to the tls constant
func parseTLSVersion(version string) uint16 {
	switch version {
	case "1.3":
		return tls.VersionTLS13
	default:
		return tls.VersionTLS12
	}
}

// parseClientAuthPolicy maps the configured policy to the tls constant
func parseClientAuthPolicy(policy string) tls.ClientAuthType {
	switch policy {
	case "request":
		return tls.RequestClientCert
	case "verify":
		return tls.VerifyClientCertIfGiven
	default:
		return tls.RequireAndVerifyClientCert
	}
}
