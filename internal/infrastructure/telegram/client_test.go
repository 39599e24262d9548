package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/NewsFlow/services/feed-service/config"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/dto"
	pkgerrors "github.com/Conte777/NewsFlow/services/feed-service/pkg/errors"
)

func testClient() *Client {
	return NewClient(&config.TelegramConfig{
		Timeout:       2 * time.Second,
		RatePerSecond: 100,
	}, zerolog.Nop())
}

func TestSendMessage_PostsHTML(t *testing.T) {
	var (
		path string
		body sendMessageRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.Equal(t, http.MethodPost, r.Method)
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "application/json"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
	}))
	defer srv.Close()

	bot := dto.BotCredentials{Token: "123:abc", APIBaseURL: srv.URL}
	err := testClient().SendMessage(context.Background(), bot, "4242", "<b>hello</b>")
	require.NoError(t, err)

	require.Equal(t, "/bot123:abc/sendMessage", path)
	require.Equal(t, "4242", body.ChatID)
	require.Equal(t, "<b>hello</b>", body.Text)
	require.Equal(t, "HTML", body.ParseMode)
	require.True(t, body.DisableWebPagePreview)
}

func TestSendMessage_APIRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	err := testClient().SendMessage(context.Background(), dto.BotCredentials{Token: "t", APIBaseURL: srv.URL}, "1", "x")
	require.Error(t, err)
	require.True(t, pkgerrors.IsDeliveryError(err))
	require.True(t, pkgerrors.IsProtocolError(err))
	require.Contains(t, err.Error(), "chat not found")
}

func TestSendMessage_OkFalseWithSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"description":"Forbidden: bot was blocked by the user"}`))
	}))
	defer srv.Close()

	err := testClient().SendMessage(context.Background(), dto.BotCredentials{Token: "t", APIBaseURL: srv.URL}, "1", "x")
	require.Error(t, err)
	require.Contains(t, err.Error(), "bot was blocked")
}

func TestSendMessage_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := testClient().SendMessage(context.Background(), dto.BotCredentials{Token: "t", APIBaseURL: srv.URL}, "1", "x")
	require.True(t, pkgerrors.IsProtocolError(err))
	require.Contains(t, err.Error(), "502")
}

func TestSendMessage_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := testClient().SendMessage(context.Background(), dto.BotCredentials{Token: "secret-token", APIBaseURL: url}, "1", "x")
	require.True(t, pkgerrors.IsNetworkError(err))
}

func TestSendMessage_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := testClient().SendMessage(ctx, dto.BotCredentials{Token: "t", APIBaseURL: "http://127.0.0.1:1"}, "1", "x")
	require.True(t, pkgerrors.IsDeliveryError(err))
}
