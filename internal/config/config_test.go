package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestValidateTLSConfig tests TLS mode and version validation
func TestValidateTLSConfig(t *testing.T) {
	tests := []struct {
		name        string
		tls         TLSConfig
		expectError bool
		errorMsg    string
	}{
		{
			name: "disabled mode",
			tls: TLSConfig{
				Mode: "disabled",
			},
			expectError: false,
		},
		{
			name: "server mode valid",
			tls: TLSConfig{
				Mode:     "server",
				CertFile: "/path/to/cert.pem",
				KeyFile:  "/path/to/key.pem",
			},
			expectError: false,
		},
		{
			name: "server mode missing key",
			tls: TLSConfig{
				Mode:     "server",
				CertFile: "/path/to/cert.pem",
			},
			expectError: true,
			errorMsg:    "TLS certificate and key files are required for server mode",
		},
		{
			name: "mutual mode valid",
			tls: TLSConfig{
				Mode:     "mutual",
				CertFile: "/path/to/cert.pem",
				KeyFile:  "/path/to/key.pem",
				CAFile:   "/path/to/ca.pem",
			},
			expectError: false,
		},
		{
			name: "mutual mode missing CA",
			tls: TLSConfig{
				Mode:     "mutual",
				CertFile: "/path/to/cert.pem",
				KeyFile:  "/path/to/key.pem",
			},
			expectError: true,
			errorMsg:    "CA certificate file is required for mutual TLS mode",
		},
		{
			name: "mutual mode invalid client auth policy",
			tls: TLSConfig{
				Mode:             "mutual",
				CertFile:         "/path/to/cert.pem",
				KeyFile:          "/path/to/key.pem",
				CAFile:           "/path/to/ca.pem",
				ClientAuthPolicy: "invalid",
			},
			expectError: true,
			errorMsg:    "invalid clientAuthPolicy: invalid",
		},
		{
			name: "invalid mode",
			tls: TLSConfig{
				Mode: "invalid",
			},
			expectError: true,
			errorMsg:    "invalid TLS mode: invalid",
		},
		{
			name: "invalid TLS version",
			tls: TLSConfig{
				Mode:       "server",
				CertFile:   "/path/to/cert.pem",
				KeyFile:    "/path/to/key.pem",
				MinVersion: "1.0",
			},
			expectError: true,
			errorMsg:    "invalid TLS minVersion: 1.0",
		},
		{
			name: "TLS 1.3",
			tls: TLSConfig{
				Mode:       "server",
				CertFile:   "/path/to/cert.pem",
				KeyFile:    "/path/to/key.pem",
				MinVersion: "1.3",
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Server: ServerConfig{TLS: tt.tls}}
			err := cfg.ValidateTLSConfig()

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestPipelineConfigValidate tests the pipeline threshold consistency checks
func TestPipelineConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         PipelineConfig
		expectError bool
		errorMsg    string
	}{
		{
			name: "default thresholds",
			cfg: PipelineConfig{
				PassThreshold:   70,
				ReviewThreshold: 50,
				JobMatchCutoff:  50,
				MaxTopMatches:   3,
			},
			expectError: false,
		},
		{
			name: "pass threshold above range",
			cfg: PipelineConfig{
				PassThreshold:   120,
				ReviewThreshold: 50,
				JobMatchCutoff:  50,
				MaxTopMatches:   3,
			},
			expectError: true,
			errorMsg:    "passThreshold must be in [0,100]",
		},
		{
			name: "review above pass",
			cfg: PipelineConfig{
				PassThreshold:   50,
				ReviewThreshold: 70,
				JobMatchCutoff:  50,
				MaxTopMatches:   3,
			},
			expectError: true,
			errorMsg:    "must not exceed passThreshold",
		},
		{
			name: "negative cutoff",
			cfg: PipelineConfig{
				PassThreshold:   70,
				ReviewThreshold: 50,
				JobMatchCutoff:  -1,
				MaxTopMatches:   3,
			},
			expectError: true,
			errorMsg:    "jobMatchCutoff must be in [0,100]",
		},
		{
			name: "zero top matches",
			cfg: PipelineConfig{
				PassThreshold:   70,
				ReviewThreshold: 50,
				JobMatchCutoff:  50,
				MaxTopMatches:   0,
			},
			expectError: true,
			errorMsg:    "maxTopMatches must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
