package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	domain "github.com/BruksfildServices01/barberconnect/internal/domain/notification"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
)

const (
	ClickSendBaseURL = "https://rest.clicksend.com/v3"
	providerName     = "clicksend"
	statusSuccess    = "SUCCESS"
)

// ClickSend sends text messages through the ClickSend REST API.
type ClickSend struct {
	baseURL  string
	username string
	apiKey   string
	from     string
	http     *http.Client
}

func NewClickSend(baseURL, username, apiKey, from string) *ClickSend {
	return &ClickSend{
		baseURL:  baseURL,
		username: username,
		apiKey:   apiKey,
		from:     from,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

type sendRequest struct {
	Messages []outgoing `json:"messages"`
}

type outgoing struct {
	Source string `json:"source"`
	From   string `json:"from,omitempty"`
	Body   string `json:"body"`
	To     string `json:"to"`
}

type sendResponse struct {
	ResponseCode string `json:"response_code"`
	ResponseMsg  string `json:"response_msg"`
	Data         struct {
		Messages []struct {
			Status    string `json:"status"`
			MessageID string `json:"message_id"`
		} `json:"messages"`
	} `json:"data"`
}

func (c *ClickSend) Send(ctx context.Context, msg domain.Message) (*domain.Receipt, error) {
	payload, err := json.Marshal(sendRequest{Messages: []outgoing{{
		Source: "barberconnect",
		From:   c.from,
		Body:   msg.Body,
		To:     msg.To,
	}}})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sms/send", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.username, c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("clicksend: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("clicksend: read body: %w", err)
	}

	var out sendResponse
	if err := json.Unmarshal(body, &out); err != nil && resp.StatusCode < 300 {
		return nil, fmt.Errorf("clicksend: decode: %w", err)
	}

	if resp.StatusCode >= 300 || out.ResponseCode != statusSuccess {
		return nil, c.failure(resp.StatusCode, out.ResponseCode, out.ResponseMsg)
	}
	if len(out.Data.Messages) == 0 {
		return nil, c.failure(resp.StatusCode, "NO_MESSAGES", "ClickSend accepted the request but returned no message")
	}

	m := out.Data.Messages[0]
	if m.Status != statusSuccess {
		return nil, c.failure(resp.StatusCode, m.Status, "Message rejected: "+m.Status)
	}

	return &domain.Receipt{MessageID: m.MessageID}, nil
}

func (c *ClickSend) failure(httpStatus int, code, msg string) error {
	if msg == "" {
		msg = fmt.Sprintf("ClickSend returned HTTP %d", httpStatus)
	}
	if code == "" {
		code = http.StatusText(httpStatus)
	}
	return &httperr.ProviderError{
		Provider: providerName,
		Status:   code,
		Message:  msg,
	}
}

// Compile-time check
var _ domain.SmsSender = (*ClickSend)(nil)
