package handlers

import (
	"encoding/json"
	"net/http"

	"scamshield/internal/domain/models"
	"scamshield/internal/domain/services"
	"scamshield/pkg/logger"
)

// AnalyzeHandler handles message analysis endpoints
type AnalyzeHandler struct {
	analyzer *services.Analyzer
	logger   *logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(analyzer *services.Analyzer, log *logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		logger:   log.WithComponent("analyze-handler"),
	}
}

// BatchRequest is the request body for batch analysis
type BatchRequest struct {
	Messages []string `json:"messages"`
}

// BatchResponse is the response body for batch analysis
type BatchResponse struct {
	Results []models.AnalysisResponse `json:"results"`
}

// Analyze handles POST /analyze - classifies a single message
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result := h.analyzer.Analyze(r.Context(), req.Text)

	h.logger.Info().
		Str("analysis_id", result.ID.String()).
		Str("verdict", string(result.Verdict)).
		Bool("link_override", result.LinkOverride).
		Float64("confidence", result.Confidence).
		Int("urls", len(result.URLs)).
		Int("phones", len(result.Phones)).
		Msg("message analyzed")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result.Response())
}

// AnalyzeBatch handles POST /analyze/batch - classifies multiple messages
func (h *AnalyzeHandler) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Messages) == 0 {
		http.Error(w, "At least one message is required", http.StatusBadRequest)
		return
	}

	if len(req.Messages) > 100 {
		http.Error(w, "Maximum 100 messages per batch", http.StatusBadRequest)
		return
	}

	results := make([]models.AnalysisResponse, len(req.Messages))
	for i, text := range req.Messages {
		results[i] = h.analyzer.Analyze(r.Context(), text).Response()
	}

	h.logger.Info().Int("total", len(results)).Msg("batch analyzed")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(BatchResponse{Results: results})
}

// Rules handles GET /rules - returns detection rule metadata for clients
func (h *AnalyzeHandler) Rules(w http.ResponseWriter, r *http.Request) {
	response := struct {
		Rules []services.RuleInfo `json:"rules"`
	}{
		Rules: h.analyzer.RuleInfos(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
