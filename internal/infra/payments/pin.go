package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	domain "github.com/BruksfildServices01/barberconnect/internal/domain/billing"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/models"
)

// PinClient creates charges against the Pin Payments REST API.
type PinClient struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func NewPinClient(baseURL, secretKey string) *PinClient {
	return &PinClient{
		baseURL:   baseURL,
		secretKey: secretKey,
		http:      &http.Client{Timeout: 20 * time.Second},
	}
}

type pinChargeRequest struct {
	Email         string            `json:"email"`
	Description   string            `json:"description"`
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	CustomerToken string            `json:"customer_token"`
	Capture       bool              `json:"capture"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type pinCharge struct {
	Token         string `json:"token"`
	Success       bool   `json:"success"`
	StatusMessage string `json:"status_message"`
	ErrorMessage  string `json:"error_message"`
}

type pinErrorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ChargeToken      string `json:"charge_token"`
	Messages         []struct {
		Param   string `json:"param"`
		Message string `json:"message"`
	} `json:"messages"`
}

func (c *PinClient) Charge(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeResult, error) {
	payload, err := json.Marshal(pinChargeRequest{
		Email:         req.Email,
		Description:   req.Description,
		Amount:        req.AmountCents,
		Currency:      req.Currency,
		CustomerToken: req.CustomerToken,
		Capture:       true,
		Metadata:      req.Metadata,
	})
	if err != nil {
		return nil, err
	}

	body, err := c.post(ctx, "/charges", payload)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Response pinCharge `json:"response"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("pin /charges: decode: %w", err)
	}

	ch := envelope.Response
	if !ch.Success {
		msg := ch.ErrorMessage
		if msg == "" {
			msg = ch.StatusMessage
		}
		return nil, &httperr.ProviderError{
			Provider:  models.ProviderPin,
			Status:    "declined",
			Message:   msg,
			Reference: ch.Token,
		}
	}

	return &domain.ChargeResult{
		Token:   ch.Token,
		Success: true,
		Message: ch.StatusMessage,
	}, nil
}

type pinCustomerRequest struct {
	Email     string `json:"email"`
	CardToken string `json:"card_token"`
}

// CreateCustomer exchanges a single-use card token from Pin.js for a
// reusable customer token.
func (c *PinClient) CreateCustomer(ctx context.Context, email, cardToken string) (string, error) {
	payload, err := json.Marshal(pinCustomerRequest{Email: email, CardToken: cardToken})
	if err != nil {
		return "", err
	}

	body, err := c.post(ctx, "/customers", payload)
	if err != nil {
		return "", err
	}

	var envelope struct {
		Response struct {
			Token string `json:"token"`
		} `json:"response"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("pin /customers: decode: %w", err)
	}
	if envelope.Response.Token == "" {
		return "", fmt.Errorf("pin /customers: empty customer token")
	}
	return envelope.Response.Token, nil
}

// post sends an authenticated JSON request and returns the body of a 2xx
// response. Anything else comes back as *httperr.ProviderError.
func (c *PinClient) post(ctx context.Context, path string, payload []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(c.secretKey, "")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("pin %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("pin %s: read body: %w", path, err)
	}

	if resp.StatusCode >= 300 {
		return nil, pinError(resp.StatusCode, body)
	}
	return body, nil
}

// pinError extracts the most specific message Pin returned.
func pinError(status int, body []byte) error {
	var e pinErrorBody
	_ = json.Unmarshal(body, &e)

	msg := e.ErrorDescription
	if len(e.Messages) > 0 && e.Messages[0].Message != "" {
		msg = e.Messages[0].Message
	}
	if msg == "" {
		msg = fmt.Sprintf("Pin Payments returned HTTP %d", status)
	}

	code := e.Error
	if code == "" {
		code = http.StatusText(status)
	}

	return &httperr.ProviderError{
		Provider:  models.ProviderPin,
		Status:    code,
		Message:   msg,
		Reference: e.ChargeToken,
	}
}

// Compile-time check
var (
	_ domain.ChargeGateway = (*PinClient)(nil)
	_ domain.CustomerVault = (*PinClient)(nil)
)
