package responder

import (
	"advisorchat-backend/internal/services"
	"context"
	"fmt"
)

// Static replies without a model server, for local development.
type Static struct {
	charts *services.ChartService
}

var _ services.Responder = (*Static)(nil)

func NewStatic(charts *services.ChartService) *Static {
	return &Static{charts: charts}
}

func (s *Static) Respond(ctx context.Context, message, advisorID, sessionToken string) (services.Reply, error) {
	if err := ctx.Err(); err != nil {
		return services.Reply{}, err
	}
	return services.Reply{
		Text:      fmt.Sprintf("Received your question: %q. No language model is configured, so this is a placeholder answer.", message),
		ChartData: chartFor(s.charts, message),
	}, nil
}
