package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"recruitflow/internal/errors"
	"recruitflow/internal/observability"
	"recruitflow/internal/pipeline"
)

// newPipeline builds a fresh pipeline for one request. Session memory
// is per-pipeline, so concurrent requests never share stage state.
func (s *Server) newPipeline(om *observability.ObservabilityManager) *pipeline.Pipeline {
	return pipeline.New(s.Extractor, s.AppConfig.Pipeline, s.Logger, om)
}

// createScreenHandler wraps the screening stage with observability
func (s *Server) createScreenHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("recruitflow.api")
		ctx, span := tracer.Start(ctx, "api.screen")
		defer span.End()

		var req ScreenRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.ResumeText) == "" {
			writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobDescription) == "" {
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "screen"),
		)

		result, err := s.newPipeline(om).Screen(ctx, req.ResumeText, req.JobDescription)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "screening"))
			writeErrorResponse(w, "Failed to screen candidate", err.Error(), http.StatusInternalServerError)
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("screening.score", result.MatchScore),
			attribute.String("screening.recommendation", string(result.Recommendation)),
		)

		writeJSONResponse(w, result)
	}
}

// createMatchHandler wraps the job matching stage with observability
func (s *Server) createMatchHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("recruitflow.api")
		ctx, span := tracer.Start(ctx, "api.match")
		defer span.End()

		var req MatchRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Candidate.Name) == "" {
			writeErrorResponse(w, "Missing candidate name", "candidate.name field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.catalog_size", len(req.Jobs)),
			attribute.String("operation", "match"),
		)

		result, err := s.newPipeline(om).Match(ctx, req.Candidate, req.Jobs)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "matching"))
			writeErrorResponse(w, "Failed to match jobs", err.Error(), http.StatusInternalServerError)
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("matching.total_matches", result.TotalMatches),
		)

		writeJSONResponse(w, result)
	}
}

// createInterviewHandler wraps interview generation with observability
func (s *Server) createInterviewHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("recruitflow.api")
		ctx, span := tracer.Start(ctx, "api.interview")
		defer span.End()

		var req InterviewRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.RoleTitle) == "" {
			writeErrorResponse(w, "Missing role title", "roleTitle field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("request.role_title", req.RoleTitle),
			attribute.String("operation", "interview"),
		)

		plan, err := s.newPipeline(om).GenerateInterview(ctx, req.RoleTitle, req.CandidateSkills)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "interview"))
			writeErrorResponse(w, "Failed to generate interview plan", err.Error(), http.StatusInternalServerError)
			return
		}

		span.SetAttributes(attribute.Bool("success", true))
		writeJSONResponse(w, plan)
	}
}

// createWorkflowHandler runs the full workflow with observability
func (s *Server) createWorkflowHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("recruitflow.api")
		ctx, span := tracer.Start(ctx, "api.workflow")
		defer span.End()

		var req WorkflowRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobDescription) == "" {
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.catalog_size", len(req.Jobs)),
			attribute.String("operation", "workflow"),
		)

		p := s.newPipeline(om)
		result, err := p.RunWorkflow(ctx, req.Candidate, req.JobDescription, req.Jobs)
		if err != nil {
			span.RecordError(err)
			var appErr *errors.AppError
			if stderrors.As(err, &appErr) && appErr.Type == errors.ErrorTypeValidation {
				span.SetAttributes(attribute.String("error.type", "validation"))
				writeErrorResponse(w, "Invalid candidate input", appErr.Message, http.StatusBadRequest)
				return
			}
			span.SetAttributes(attribute.String("error.type", "workflow"))
			writeErrorResponse(w, "Failed to run workflow", err.Error(), http.StatusInternalServerError)
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("workflow.status", string(result.Status)),
		)

		writeJSONResponse(w, WorkflowResponse{
			Result: result,
			Memory: p.Memory(),
		})
	}
}

// writeJSONResponse writes a JSON-encoded success response
func writeJSONResponse(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
