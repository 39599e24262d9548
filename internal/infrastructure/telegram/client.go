package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"github.com/Conte777/NewsFlow/services/feed-service/config"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/dto"
	pkgerrors "github.com/Conte777/NewsFlow/services/feed-service/pkg/errors"
)

const channelTelegram = "telegram"

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
	Parameters  *struct {
		RetryAfter int `json:"retry_after,omitempty"`
	} `json:"parameters,omitempty"`
}

// Client posts messages to the Telegram Bot API
type Client struct {
	client  *fasthttp.Client
	limiter *rate.Limiter
	timeout time.Duration
	logger  zerolog.Logger
}

// NewClient creates a Bot API client paced at cfg.RatePerSecond
func NewClient(cfg *config.TelegramConfig, logger zerolog.Logger) *Client {
	burst := int(cfg.RatePerSecond)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		client: &fasthttp.Client{
			Name:         "feed-service",
			ReadTimeout:  cfg.Timeout,
			WriteTimeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst),
		timeout: cfg.Timeout,
		logger:  logger.With().Str("component", "telegram-client").Logger(),
	}
}

// SendMessage posts text as HTML to chatID. A non-2xx status or an
// ok:false answer is returned as a delivery error carrying the API
// description.
func (c *Client) SendMessage(ctx context.Context, bot dto.BotCredentials, chatID, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return pkgerrors.NewDeliveryError(channelTelegram, err)
	}

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return pkgerrors.NewDeliveryError(channelTelegram, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf("%s/bot%s/sendMessage", bot.APIBaseURL, bot.Token))
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(payload)

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return pkgerrors.NewDeliveryError(channelTelegram, context.DeadlineExceeded)
	}

	if err := c.client.DoTimeout(req, resp, timeout); err != nil {
		// the token is part of the URL and must not reach the logs
		return pkgerrors.NewDeliveryError(channelTelegram, pkgerrors.NewNetworkError("sendMessage", err))
	}

	var answer apiResponse
	status := resp.StatusCode()
	decodeErr := json.Unmarshal(resp.Body(), &answer)

	if status >= 200 && status < 300 && decodeErr == nil && answer.OK {
		return nil
	}

	description := answer.Description
	if description == "" {
		description = fasthttp.StatusMessage(status)
	}

	event := c.logger.Warn().
		Str("chat_id", chatID).
		Int("status", status).
		Str("description", description)
	if answer.Parameters != nil && answer.Parameters.RetryAfter > 0 {
		event = event.Int("retry_after", answer.Parameters.RetryAfter)
	}
	event.Msg("Telegram rejected message")

	return pkgerrors.NewDeliveryError(channelTelegram,
		pkgerrors.NewProtocolError(fmt.Sprintf("sendMessage: %d %s", status, description), decodeErr))
}
