package cli

import (
	"fmt"
	"time"

	"recruitflow/internal/config"
	"recruitflow/internal/extract"
	"recruitflow/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for the recruitment pipeline",
	Long: `Start an HTTP server that provides REST API endpoints for the recruitment pipeline.

Available endpoints:
- POST /screen: Screen a resume against a job description
- POST /match: Match a candidate profile against a job catalog
- POST /interview: Generate an interview plan for a role
- POST /workflow: Run the full recruitment workflow
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
	serveCmd.Flags().String("ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")
	serveCmd.Flags().String("vocabulary-file", "", "Skill vocabulary file, one tag per line (overrides config)")
	serveCmd.Flags().Bool("watch-vocabulary", false, "Reload the vocabulary file when it changes")

	// Bind flags to viper config keys
	bindFlag := func(key, flagName string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(flagName)); err != nil {
			panic(err)
		}
	}

	bindFlag("server.port", "port")
	bindFlag("server.host", "host")
	bindFlag("server.tls.mode", "tls-mode")
	bindFlag("server.tls.certfile", "cert-file")
	bindFlag("server.tls.keyfile", "key-file")
	bindFlag("server.tls.cafile", "ca-file")
	bindFlag("pipeline.vocabularyfile", "vocabulary-file")
	bindFlag("pipeline.watchvocabulary", "watch-vocabulary")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Validate TLS configuration after applying overrides
	tempConfig := &config.Config{Server: cfg.Server}
	if err := tempConfig.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	extractor, vocabExtractor, err := buildExtractor(cfg, logger)
	if err != nil {
		return err
	}

	serverCfg := server.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.App.MaxFileSize,
		RateLimit:      &cfg.Server.RateLimit,
	}

	srv := server.NewServer(cfg, serverCfg, extractor, logger)

	// Vocabulary hot reload only applies to the substring extractor
	if cfg.Pipeline.WatchVocabulary && cfg.Pipeline.VocabularyFile != "" && vocabExtractor != nil {
		srv.VocabularyWatcher = extract.NewVocabularyWatcher(
			cfg.Pipeline.VocabularyFile,
			vocabExtractor,
			time.Second,
			logger,
		)
	}

	return srv.Start()
}
