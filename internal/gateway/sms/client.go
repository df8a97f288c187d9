package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"service-rider-notify/internal/apperr"
	"service-rider-notify/internal/config"
	"service-rider-notify/internal/domain"
)

// SendResult carries the provider-issued identifier of a delivered message.
type SendResult struct {
	ExternalID string
}

// httpDoer is the interface for executing HTTP requests.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is an SMS gateway backed by the provider's form-encoded HTTP API.
type Client struct {
	http           httpDoer
	baseURL        string
	accountID      string
	authToken      string
	from           string
	statusCallback string
}

// NewClient creates an SMS gateway client from provider settings.
func NewClient(cfg config.SMSProvider) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http:           &http.Client{Timeout: timeout},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		accountID:      cfg.AccountID,
		authToken:      cfg.AuthToken,
		from:           cfg.FromNumber,
		statusCallback: cfg.StatusCallback,
	}
}

// Send delivers one SMS. The destination is normalized to ten digits
// before any network call; malformed numbers fail with apperr.ErrInvalid
// and are never retried. Provider 429/5xx and transport faults surface
// as *TransientError so the retrying decorator can tell them apart from
// permanent rejections.
func (c *Client) Send(ctx context.Context, to, body string) (*SendResult, error) {
	phone, ok := domain.NormalizePhone(to)
	if !ok {
		return nil, fmt.Errorf("sms gateway: phone %q: %w", to, apperr.ErrInvalid)
	}

	form := url.Values{}
	form.Set("To", phone)
	form.Set("From", c.from)
	form.Set("Body", body)
	if c.statusCallback != "" {
		form.Set("StatusCallback", c.statusCallback)
	}

	endpoint := fmt.Sprintf("%s/accounts/%s/messages", c.baseURL, c.accountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("sms gateway: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountID, c.authToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransientError{Err: fmt.Errorf("sms gateway: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &TransientError{Err: fmt.Errorf("sms gateway: read response: %w", err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var out struct {
			Sid string `json:"sid"`
		}
		if err := json.Unmarshal(raw, &out); err != nil || out.Sid == "" {
			// 2xx без идентификатора считаем доставленным, но без sid
			return &SendResult{}, nil
		}
		return &SendResult{ExternalID: out.Sid}, nil
	}

	msg := providerError(raw)
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &TransientError{Status: resp.StatusCode, Msg: msg}
	}
	return nil, fmt.Errorf("sms gateway: provider rejected send (status %d): %s", resp.StatusCode, msg)
}

// providerError extracts the provider's error message field, falling
// back to the raw body text.
func providerError(raw []byte) string {
	var out struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &out); err == nil && out.Message != "" {
		return out.Message
	}
	return strings.TrimSpace(string(raw))
}
