package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf16"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/pr0game-go/internal/application/common"
)

const defaultTelegramBaseURL = "https://api.telegram.org"

// TelegramConfig configures the bot used for delivery
type TelegramConfig struct {
	BaseURL       string
	Token         string
	ChatID        string
	RatePerSecond float64
	Timeout       time.Duration
}

// TelegramError is returned when the bot API rejects a message
type TelegramError struct {
	StatusCode  int
	Description string
}

func (e *TelegramError) Error() string {
	return fmt.Sprintf("telegram sendMessage failed (%d): %s", e.StatusCode, e.Description)
}

// TelegramNotifier sends status messages to one chat through the bot API
type TelegramNotifier struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	endpoint   string
	chatID     string
}

// NewTelegramNotifier creates a notifier for the configured chat
func NewTelegramNotifier(cfg TelegramConfig) *TelegramNotifier {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultTelegramBaseURL
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TelegramNotifier{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		endpoint:   fmt.Sprintf("%s/bot%s/sendMessage", baseURL, cfg.Token),
		chatID:     cfg.ChatID,
	}
}

type messageEntity struct {
	Type     string `json:"type"`
	Offset   int    `json:"offset"`
	Length   int    `json:"length"`
	Language string `json:"language,omitempty"`
}

type sendMessageRequest struct {
	ChatID    string          `json:"chat_id"`
	Text      string          `json:"text"`
	ParseMode string          `json:"parse_mode,omitempty"`
	Entities  []messageEntity `json:"entities,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// preformatted renders a snapshot as a code block labelled with the given language
func preformatted(message, language string) sendMessageRequest {
	return sendMessageRequest{
		Text: message,
		Entities: []messageEntity{{
			Type:     "pre",
			Offset:   0,
			Length:   len(utf16.Encode([]rune(message))),
			Language: language,
		}},
	}
}

// buildMessage formats one message per level. Levels that are not forwarded
// return false.
func buildMessage(level, message string) (sendMessageRequest, bool) {
	switch level {
	case common.LevelInfo:
		return sendMessageRequest{Text: "✅ " + message, ParseMode: "HTML"}, true
	case common.LevelError:
		return sendMessageRequest{Text: "❌ " + message, ParseMode: "HTML"}, true
	case common.LevelBuildingLevels:
		return preformatted(message, "Building Levels"), true
	case common.LevelCurrentResources:
		return preformatted(message, "Current Resources"), true
	default:
		return sendMessageRequest{}, false
	}
}

// Notify sends the message unless its level is not forwarded to the chat
func (t *TelegramNotifier) Notify(ctx context.Context, level, message string) error {
	payload, ok := buildMessage(level, message)
	if !ok {
		return nil
	}
	payload.ChatID = t.chatID

	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read telegram response: %w", err)
	}
	var result apiResponse
	if err := json.Unmarshal(raw, &result); err != nil || !result.OK || resp.StatusCode != http.StatusOK {
		description := result.Description
		if description == "" {
			description = strings.TrimSpace(string(raw))
		}
		return &TelegramError{StatusCode: resp.StatusCode, Description: description}
	}
	return nil
}
