package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.paystack.co"

// Client is a thin wrapper over the two Paystack endpoints the checkout
// needs: transaction initialize and transaction verify. There is no
// maintained Paystack SDK for Go, so this speaks the REST API directly.
type Client struct {
	secretKey string
	baseURL   string
	http      *http.Client
}

func NewClient(secretKey string) *Client {
	return &Client{
		secretKey: secretKey,
		baseURL:   defaultBaseURL,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithBaseURL exists for tests against a local server.
func NewClientWithBaseURL(secretKey, baseURL string) *Client {
	c := NewClient(secretKey)
	c.baseURL = baseURL
	return c
}

// TransactionRequest is the initialize payload. Amount is in kobo
// (smallest currency unit), per Paystack's contract.
type TransactionRequest struct {
	Email     string            `json:"email"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Reference string            `json:"reference"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Transaction is the subset of Paystack's transaction object we read
// back from initialize and verify responses.
type Transaction struct {
	AuthorizationURL string            `json:"authorization_url,omitempty"`
	AccessCode       string            `json:"access_code,omitempty"`
	Reference        string            `json:"reference"`
	Status           string            `json:"status,omitempty"`
	Amount           int64             `json:"amount,omitempty"`
	Currency         string            `json:"currency,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	Customer         struct {
		Email string `json:"email"`
	} `json:"customer,omitempty"`
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize creates a hosted-checkout transaction and returns the
// authorization URL the buyer is redirected to.
func (c *Client) Initialize(ctx context.Context, req TransactionRequest) (*Transaction, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodPost, "/transaction/initialize", bytes.NewReader(body))
}

// Verify fetches the authoritative state of a transaction by reference.
// This is the server-side source of truth for charge success; the
// browser callback alone is never trusted.
func (c *Client) Verify(ctx context.Context, reference string) (*Transaction, error) {
	return c.call(ctx, http.MethodGet, "/transaction/verify/"+reference, nil)
}

func (c *Client) call(ctx context.Context, method, path string, body io.Reader) (*Transaction, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("paystack returned malformed response (http %d)", resp.StatusCode)
	}
	if resp.StatusCode >= 400 || !envelope.Status {
		return nil, fmt.Errorf("paystack error (http %d): %s", resp.StatusCode, envelope.Message)
	}

	var txn Transaction
	if err := json.Unmarshal(envelope.Data, &txn); err != nil {
		return nil, fmt.Errorf("paystack transaction decode: %w", err)
	}
	return &txn, nil
}

// ValidSignature checks the x-paystack-signature webhook header:
// HMAC-SHA512 of the raw body keyed with the secret key, hex encoded.
func (c *Client) ValidSignature(payload []byte, header string) bool {
	return ValidSignature(c.secretKey, payload, header)
}

func ValidSignature(secretKey string, payload []byte, header string) bool {
	if secretKey == "" || header == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(header))
}
