package responder

import (
	"advisorchat-backend/internal/config"
	"advisorchat-backend/internal/models"
	"advisorchat-backend/internal/services"
	"context"
	"errors"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	reply *schema.Message
	err   error
	input []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

type fakeHistory struct {
	messages []models.ChatMessage
	err      error
	limit    int
}

func (f *fakeHistory) RecentMessages(ctx context.Context, sessionToken, advisorID string, limit int) ([]models.ChatMessage, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	if len(f.messages) > limit {
		return f.messages[len(f.messages)-limit:], nil
	}
	return f.messages, nil
}

func TestLLMResponderBuildsConversation(t *testing.T) {
	cm := &fakeChatModel{reply: schema.AssistantMessage("  $125,000  ", nil)}
	history := &fakeHistory{messages: []models.ChatMessage{
		{Role: models.RoleUser, Content: "Who is John Smith?"},
		{Role: models.RoleAssistant, Content: "A customer of yours."},
		{Role: models.RoleUser, Content: "What is his balance?"},
	}}
	r := NewLLMResponder(cm, history, services.NewChartService(), 10)

	reply, err := r.Respond(context.Background(), "What is his balance?", "adv-1", "token-1")
	require.NoError(t, err)
	assert.Equal(t, "$125,000", reply.Text)
	assert.Nil(t, reply.ChartData)
	assert.Equal(t, 11, history.limit)

	require.Len(t, cm.input, 4, "system, two history turns, current message")
	assert.Equal(t, schema.System, cm.input[0].Role)
	assert.Equal(t, schema.User, cm.input[1].Role)
	assert.Equal(t, schema.Assistant, cm.input[2].Role)
	assert.Equal(t, schema.User, cm.input[3].Role)
	assert.Equal(t, "What is his balance?", cm.input[3].Content)
}

func TestLLMResponderWithoutHistory(t *testing.T) {
	cm := &fakeChatModel{reply: schema.AssistantMessage("hello", nil)}

	r := NewLLMResponder(cm, &fakeHistory{err: errors.New("db down")}, nil, 10)
	_, err := r.Respond(context.Background(), "hi", "adv-1", "token-1")
	require.NoError(t, err)
	assert.Len(t, cm.input, 2)

	r = NewLLMResponder(cm, nil, nil, 0)
	_, err = r.Respond(context.Background(), "hi", "adv-1", "token-1")
	require.NoError(t, err)
	assert.Len(t, cm.input, 2)
}

func TestLLMResponderErrors(t *testing.T) {
	r := NewLLMResponder(&fakeChatModel{err: errors.New("connection refused")}, nil, nil, 0)
	_, err := r.Respond(context.Background(), "hi", "adv-1", "t")
	assert.ErrorContains(t, err, "connection refused")

	r = NewLLMResponder(&fakeChatModel{reply: schema.AssistantMessage("   ", nil)}, nil, nil, 0)
	_, err = r.Respond(context.Background(), "hi", "adv-1", "t")
	assert.ErrorIs(t, err, errEmptyReply)
}

func TestLLMResponderAttachesChart(t *testing.T) {
	cm := &fakeChatModel{reply: schema.AssistantMessage("Here is the allocation.", nil)}
	r := NewLLMResponder(cm, nil, services.NewChartService(), 0)

	reply, err := r.Respond(context.Background(), "Show me a doughnut chart of the portfolio allocation", "adv-1", "t")
	require.NoError(t, err)
	require.NotNil(t, reply.ChartData)
	assert.Equal(t, "doughnut", reply.ChartData["chartType"])
	data := reply.ChartData["data"].(map[string]any)
	assert.Equal(t, []string{"Stocks", "Bonds", "Cash", "Real Estate"}, data["labels"])
}

func TestDetectChart(t *testing.T) {
	tests := []struct {
		message string
		want    chartRequest
		ok      bool
	}{
		{"Chart the account balances", chartRequest{"accounts", "bar"}, true},
		{"Plot performance over the last months", chartRequest{"performance", "line"}, true},
		{"graph my portfolio as a bar chart", chartRequest{"portfolio", "bar"}, true},
		{"What is the portfolio allocation?", chartRequest{}, false},
		{"draw a chart of the weather", chartRequest{}, false},
	}
	for _, tt := range tests {
		got, ok := detectChart(tt.message)
		assert.Equal(t, tt.ok, ok, tt.message)
		assert.Equal(t, tt.want, got, tt.message)
	}
}

func TestStaticResponder(t *testing.T) {
	s := NewStatic(services.NewChartService())

	reply, err := s.Respond(context.Background(), "Show a performance chart", "adv-1", "t")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Show a performance chart")
	require.NotNil(t, reply.ChartData)
	assert.Equal(t, "line", reply.ChartData["chartType"])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Respond(ctx, "hi", "adv-1", "t")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSelectsProvider(t *testing.T) {
	cfg := &config.Config{LLMProvider: config.LLMProviderStatic}
	r, err := New(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &Static{}, r)

	cfg = &config.Config{LLMProvider: "bogus"}
	_, err = New(context.Background(), cfg, nil, nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
