package handlers

import (
	"advisorchat-backend/internal/models"
	"advisorchat-backend/internal/services"
	"advisorchat-backend/pkg/httputil"
	"encoding/json"
	"errors"
	"net/http"
)

type ChartService interface {
	Generate(req models.ChartGenerateRequest) (*models.ChartDataResponse, error)
}

type ChartHandler struct {
	chartService ChartService
}

func NewChartHandler(svc ChartService) *ChartHandler {
	return &ChartHandler{chartService: svc}
}

// HandleGenerateChart handles POST /api/v1/charts/generate
func (h *ChartHandler) HandleGenerateChart(w http.ResponseWriter, r *http.Request) {
	var req models.ChartGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	chart, err := h.chartService.Generate(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDataType) {
			httputil.RespondError(w, http.StatusBadRequest, "Invalid data_type")
			return
		}
		respondServiceError(w, r, err, "Chart not found")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, chart)
}
