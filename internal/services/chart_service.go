package services

import (
	"advisorchat-backend/internal/models"
	"fmt"
	"strings"
)

// Chart data types understood by ChartService.
const (
	ChartDataAccounts    = "accounts"
	ChartDataPortfolio   = "portfolio"
	ChartDataPerformance = "performance"
)

const defaultChartType = "bar"

// ErrInvalidDataType is returned for an unknown chart data_type.
var ErrInvalidDataType = fmt.Errorf("%w: invalid data_type", ErrValidation)

const dollarTicks = "function(value) { return '$' + value.toLocaleString(); }"

// ChartService builds Chart.js payloads from sample figures.
type ChartService struct{}

func NewChartService() *ChartService {
	return &ChartService{}
}

// Generate returns the chart for dataType rendered as chartType (bar, line, pie, doughnut).
// Filters are accepted but not applied yet.
func (s *ChartService) Generate(req models.ChartGenerateRequest) (*models.ChartDataResponse, error) {
	chartType := strings.ToLower(strings.TrimSpace(req.ChartType))
	if chartType == "" {
		chartType = defaultChartType
	}

	switch strings.ToLower(strings.TrimSpace(req.DataType)) {
	case ChartDataAccounts:
		return accountChart(chartType), nil
	case ChartDataPortfolio:
		return portfolioChart(chartType), nil
	case ChartDataPerformance:
		return performanceChart(chartType), nil
	default:
		return nil, ErrInvalidDataType
	}
}

func accountChart(chartType string) *models.ChartDataResponse {
	round := chartType == "pie" || chartType == "doughnut"

	options := map[string]any{
		"responsive": true,
		"plugins": map[string]any{
			"title":  map[string]any{"display": true, "text": "Account Balances by Type"},
			"legend": map[string]any{"display": round},
		},
		"scales": map[string]any{},
	}
	if chartType == "bar" || chartType == "line" {
		options["scales"] = map[string]any{
			"y": map[string]any{
				"beginAtZero": true,
				"ticks":       map[string]any{"callback": dollarTicks},
			},
		}
	}

	return &models.ChartDataResponse{
		ChartType: chartType,
		Data: map[string]any{
			"labels": []string{"Checking", "Savings", "Investment", "Retirement"},
			"datasets": []map[string]any{{
				"label": "Account Balances",
				"data":  []float64{12500, 45000, 125000, 350000},
				"backgroundColor": []string{
					"rgba(54, 162, 235, 0.6)",
					"rgba(75, 192, 192, 0.6)",
					"rgba(255, 206, 86, 0.6)",
					"rgba(153, 102, 255, 0.6)",
				},
				"borderColor": []string{
					"rgba(54, 162, 235, 1)",
					"rgba(75, 192, 192, 1)",
					"rgba(255, 206, 86, 1)",
					"rgba(153, 102, 255, 1)",
				},
				"borderWidth": 1,
			}},
		},
		Options: options,
	}
}

func portfolioChart(chartType string) *models.ChartDataResponse {
	return &models.ChartDataResponse{
		ChartType: chartType,
		Data: map[string]any{
			"labels": []string{"Stocks", "Bonds", "Cash", "Real Estate"},
			"datasets": []map[string]any{{
				"label": "Portfolio Allocation",
				"data":  []float64{45, 30, 15, 10},
				"backgroundColor": []string{
					"rgba(255, 99, 132, 0.6)",
					"rgba(54, 162, 235, 0.6)",
					"rgba(255, 206, 86, 0.6)",
					"rgba(75, 192, 192, 0.6)",
				},
			}},
		},
		Options: map[string]any{
			"responsive": true,
			"plugins": map[string]any{
				"title":  map[string]any{"display": true, "text": "Portfolio Allocation (%)"},
				"legend": map[string]any{"display": true, "position": "right"},
			},
		},
	}
}

func performanceChart(chartType string) *models.ChartDataResponse {
	return &models.ChartDataResponse{
		ChartType: chartType,
		Data: map[string]any{
			"labels": []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"},
			"datasets": []map[string]any{{
				"label":       "Portfolio Value",
				"data":        []float64{450000, 465000, 455000, 480000, 490000, 510000},
				"fill":        false,
				"borderColor": "rgba(75, 192, 192, 1)",
				"tension":     0.1,
			}},
		},
		Options: map[string]any{
			"responsive": true,
			"plugins": map[string]any{
				"title":  map[string]any{"display": true, "text": "Portfolio Performance (6 Months)"},
				"legend": map[string]any{"display": true},
			},
			"scales": map[string]any{
				"y": map[string]any{
					"beginAtZero": false,
					"ticks":       map[string]any{"callback": dollarTicks},
				},
			},
		},
	}
}
