// Package responder produces assistant replies for the conversation service.
package responder

import (
	"advisorchat-backend/internal/config"
	"advisorchat-backend/internal/models"
	"advisorchat-backend/internal/services"
	"context"
	"fmt"
	"strings"
)

// HistorySource supplies the latest messages of a session, oldest first.
type HistorySource interface {
	RecentMessages(ctx context.Context, sessionToken, advisorID string, limit int) ([]models.ChatMessage, error)
}

// New builds the responder selected by cfg.LLMProvider.
func New(ctx context.Context, cfg *config.Config, history HistorySource, charts *services.ChartService) (services.Responder, error) {
	switch cfg.LLMProvider {
	case config.LLMProviderStatic:
		return NewStatic(charts), nil
	case config.LLMProviderOpenAI:
		cm, err := NewOpenAIModel(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewLLMResponder(cm, history, charts, cfg.LLMHistoryLimit), nil
	default:
		return nil, fmt.Errorf("%w: unsupported LLM_PROVIDER %q", config.ErrInvalidConfig, cfg.LLMProvider)
	}
}

// chartRequest is a chart the advisor asked for in plain words.
type chartRequest struct {
	dataType  string
	chartType string
}

var (
	chartWords = []string{"chart", "graph", "plot", "visual"}
	chartTypes = []string{"doughnut", "pie", "line", "bar"}
)

// detectChart reports whether message asks for a chart, and which one.
// Performance beats portfolio beats accounts when several topics match.
func detectChart(message string) (chartRequest, bool) {
	text := strings.ToLower(message)
	if !containsAny(text, chartWords) {
		return chartRequest{}, false
	}

	var req chartRequest
	switch {
	case containsAny(text, []string{"performance", "over time", "growth", "trend"}):
		req = chartRequest{services.ChartDataPerformance, "line"}
	case containsAny(text, []string{"portfolio", "allocation"}):
		req = chartRequest{services.ChartDataPortfolio, "pie"}
	case containsAny(text, []string{"account", "balance"}):
		req = chartRequest{services.ChartDataAccounts, "bar"}
	default:
		return chartRequest{}, false
	}

	for _, ct := range chartTypes {
		if strings.Contains(text, ct) {
			req.chartType = ct
			break
		}
	}
	return req, true
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// chartFor renders the chart requested by message, or nil.
func chartFor(charts *services.ChartService, message string) models.ChartData {
	if charts == nil {
		return nil
	}
	req, ok := detectChart(message)
	if !ok {
		return nil
	}
	chart, err := charts.Generate(models.ChartGenerateRequest{DataType: req.dataType, ChartType: req.chartType})
	if err != nil {
		return nil
	}
	return chart.AsChartData()
}
