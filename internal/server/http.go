package server

import (
	"time"

	"recruitflow/internal/config"
	recruitflowErrors "recruitflow/internal/errors"
	"recruitflow/internal/extract"
	"recruitflow/internal/types"
)

// Request bodies for the pipeline endpoints. Each endpoint mirrors one
// in-process pipeline operation.
type ScreenRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

type MatchRequest struct {
	Candidate types.CandidateProfile `json:"candidate"`
	Jobs      []types.JobRecord      `json:"jobs"`
}

type InterviewRequest struct {
	RoleTitle       string   `json:"roleTitle"`
	CandidateSkills []string `json:"candidateSkills"`
}

type WorkflowRequest struct {
	Candidate      types.CandidateInput `json:"candidate"`
	JobDescription string               `json:"jobDescription"`
	Jobs           []types.JobRecord    `json:"jobs"`
}

// WorkflowResponse pairs the workflow result with the session memory
// snapshot accumulated during the run.
type WorkflowResponse struct {
	Result *types.WorkflowResult `json:"result"`
	Memory map[string]any        `json:"memory"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// Skill extractor shared across requests; each request gets its own
	// pipeline instance (and therefore its own session memory).
	Extractor extract.Extractor

	// Optional vocabulary hot reload
	VocabularyWatcher *extract.VocabularyWatcher

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Logger
	Logger *recruitflowErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, extractor extract.Extractor, logger *recruitflowErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		Extractor:      extractor,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}
}
