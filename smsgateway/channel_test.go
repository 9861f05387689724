package smsgateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tomasbasham/shiftfanout"
)

type gatewayCall struct {
	Path    string
	Auth    string
	Request sendRequest
}

func setupTestGateway(t *testing.T, status int) (*Channel, func() []gatewayCall) {
	var (
		mu    sync.Mutex
		calls []gatewayCall
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req sendRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		mu.Lock()
		calls = append(calls, gatewayCall{Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Request: req})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= 400 {
			_ = json.NewEncoder(w).Encode(errorResponse{Error: "number unreachable"})
			return
		}
		_ = json.NewEncoder(w).Encode(sendResponse{ID: "msg-1", Status: "queued"})
	}))
	t.Cleanup(srv.Close)

	ch := New(Config{BaseURL: srv.URL, Token: "secret"}, zap.NewNop())
	return ch, func() []gatewayCall {
		mu.Lock()
		defer mu.Unlock()
		return append([]gatewayCall(nil), calls...)
	}
}

func TestChannel_Send_SMS(t *testing.T) {
	ch, calls := setupTestGateway(t, http.StatusAccepted)

	err := ch.Send(context.Background(), shiftfanout.Tiers.SMS, "+15550001", "A RN shift is available")
	require.NoError(t, err)

	got := calls()
	require.Len(t, got, 1)
	assert.Equal(t, "/v1/messages", got[0].Path)
	assert.Equal(t, "Bearer secret", got[0].Auth)
	assert.Equal(t, "+15550001", got[0].Request.To)
	assert.Equal(t, "A RN shift is available", got[0].Request.Body)
}

func TestChannel_Send_Voice(t *testing.T) {
	ch, calls := setupTestGateway(t, http.StatusOK)

	err := ch.Send(context.Background(), shiftfanout.Tiers.Voice, "+15550003", "Urgent")
	require.NoError(t, err)

	got := calls()
	require.Len(t, got, 1)
	assert.Equal(t, "/v1/calls", got[0].Path)
}

func TestChannel_Send_GatewayError(t *testing.T) {
	ch, _ := setupTestGateway(t, http.StatusBadRequest)

	err := ch.Send(context.Background(), shiftfanout.Tiers.SMS, "+15550001", "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway returned 400")
	assert.Contains(t, err.Error(), "number unreachable")
}

func TestChannel_Send_UnsupportedTier(t *testing.T) {
	ch, calls := setupTestGateway(t, http.StatusOK)

	err := ch.Send(context.Background(), shiftfanout.Tiers.Unknown, "+15550001", "hello")

	assert.ErrorIs(t, err, ErrUnsupportedTier)
	assert.Empty(t, calls())
}

func TestChannel_Send_CancelledContext(t *testing.T) {
	ch, _ := setupTestGateway(t, http.StatusOK)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ch.Send(ctx, shiftfanout.Tiers.SMS, "+15550001", "hello")
	assert.ErrorIs(t, err, context.Canceled)
}
