package handlers

import (
	"net/http"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/assessment"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/logger"
)

// AssessmentHandler handles skill-assessment and concept-map generation
type AssessmentHandler struct {
	client *assessment.Client
	logger *logger.Logger
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(client *assessment.Client, log *logger.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		client: client,
		logger: log,
	}
}

// Generate runs one assessment action. Generation failures still answer 200 with a fallback.
// POST /api/assessment
func (h *AssessmentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req assessment.Request
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.client.Generate(r.Context(), req)
	if err != nil {
		respondErr(w, h.logger, err, "Failed to run assessment")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ConceptMap generates a concept map for a topic
// POST /api/concept-map
func (h *AssessmentHandler) ConceptMap(w http.ResponseWriter, r *http.Request) {
	var req assessment.ConceptMapRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.client.ConceptMap(r.Context(), req)
	if err != nil {
		respondErr(w, h.logger, err, "Failed to generate concept map")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
