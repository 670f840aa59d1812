package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarpenko/steamarb/internal/domain"
)

type recordingSender struct {
	name     string
	titles   []string
	messages []string
	err      error
}

func (r *recordingSender) Send(ctx context.Context, title, message string) error {
	if r.err != nil {
		return r.err
	}
	r.titles = append(r.titles, title)
	r.messages = append(r.messages, message)
	return nil
}

func (r *recordingSender) Name() string { return r.name }

func TestNotifierEventFilter(t *testing.T) {
	s := &recordingSender{name: "rec"}
	n := NewNotifier([]Sender{s}, []string{EventAnalysisCompleted}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, n.Notify(context.Background(), EventAnalysisFailed, "nope", "filtered"))
	assert.Empty(t, s.titles)

	require.NoError(t, n.Notify(context.Background(), EventAnalysisCompleted, "yes", "delivered"))
	assert.Equal(t, []string{"yes"}, s.titles)
}

func TestNotifierEmptyFilterAllowsAll(t *testing.T) {
	s := &recordingSender{name: "rec"}
	n := NewNotifier([]Sender{s}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, n.Notify(context.Background(), "anything", "t", "m"))
	assert.Len(t, s.titles, 1)
}

func TestNotifierPartialFailure(t *testing.T) {
	broken := &recordingSender{name: "broken", err: errors.New("down")}
	ok := &recordingSender{name: "ok"}
	n := NewNotifier([]Sender{broken, ok}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := n.Notify(context.Background(), "e", "t", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Len(t, ok.titles, 1)
}

func TestAnalysisCompletedMessage(t *testing.T) {
	s := &recordingSender{name: "rec"}
	n := NewNotifier([]Sender{s}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := n.AnalysisCompleted(context.Background(), domain.AnalysisResult{
		SteamID:         "76561198000000000",
		AppID:           730,
		TotalProfit:     15.45,
		ItemsAnalyzed:   12,
		ProfitableItems: 3,
		CreatedAt:       time.Now(),
	})
	require.NoError(t, err)
	require.Len(t, s.messages, 1)
	assert.Contains(t, s.messages[0], "76561198000000000")
	assert.Contains(t, s.messages[0], "3/12")
	assert.Contains(t, s.messages[0], "$15.45")
}

func TestDiscordSenderPayload(t *testing.T) {
	var got discordMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := NewDiscordSender(srv.URL)
	require.NoError(t, s.Send(context.Background(), "Analysis complete", "3/12 items profitable"))

	assert.Equal(t, "steamarb", got.Username)
	assert.Contains(t, got.Content, "**Analysis complete**")
	assert.Contains(t, got.Content, "3/12 items profitable")
}

func TestDiscordSenderWebhookErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid webhook token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := NewDiscordSender(srv.URL).Send(context.Background(), "t", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
