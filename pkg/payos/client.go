// Package payos is a minimal client for the PayOS merchant API. It covers
// the two calls the payment flow needs: creating a payment link and reading
// the current state of one.
package payos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/config"
	apperrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
)

// SuccessCode is the PayOS response code for a successful operation.
const SuccessCode = "00"

// Link statuses reported by the provider.
const (
	StatusPending   = "PENDING"
	StatusPaid      = "PAID"
	StatusCancelled = "CANCELLED"
	StatusExpired   = "EXPIRED"
)

// Provider is the gateway surface the payment service depends on.
type Provider interface {
	CreatePaymentLink(ctx context.Context, req CreateLinkRequest) (*PaymentLink, error)
	GetPaymentLinkInformation(ctx context.Context, orderCode int64) (*LinkInformation, error)
}

// CreateLinkRequest carries the fields PayOS needs to mint a checkout link.
type CreateLinkRequest struct {
	OrderCode   int64  `json:"orderCode"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	ReturnURL   string `json:"returnUrl"`
	CancelURL   string `json:"cancelUrl"`
	Signature   string `json:"signature"`
}

// PaymentLink is the subset of the create response the service consumes.
type PaymentLink struct {
	OrderCode   int64  `json:"orderCode"`
	CheckoutURL string `json:"checkoutUrl"`
	Status      string `json:"status"`
}

// LinkInformation is the current provider-side state of a payment link.
type LinkInformation struct {
	OrderCode  int64  `json:"orderCode"`
	Amount     int64  `json:"amount"`
	AmountPaid int64  `json:"amountPaid"`
	Status     string `json:"status"`
}

type envelope struct {
	Code string          `json:"code"`
	Desc string          `json:"desc"`
	Data json.RawMessage `json:"data"`
}

// Client talks to the PayOS merchant API over HTTPS.
type Client struct {
	cfg        config.PayOSConfig
	httpClient *http.Client
}

// NewClient builds a Client with a bounded-timeout HTTP client.
func NewClient(cfg config.PayOSConfig) (*Client, error) {
	if cfg.ClientID == "" || cfg.APIKey == "" || cfg.ChecksumKey == "" {
		return nil, fmt.Errorf("payos credentials are required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("payos base url is required")
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// CreatePaymentLink requests a checkout link for the order. The signature is
// computed here so callers never handle the checksum key.
func (c *Client) CreatePaymentLink(ctx context.Context, req CreateLinkRequest) (*PaymentLink, error) {
	if req.ReturnURL == "" {
		req.ReturnURL = c.cfg.ReturnURL
	}
	if req.CancelURL == "" {
		req.CancelURL = c.cfg.CancelURL
	}
	req.Signature = SignCreateLink(c.cfg.ChecksumKey, req)

	var link PaymentLink
	if err := c.do(ctx, http.MethodPost, "/v2/payment-requests", req, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// GetPaymentLinkInformation reads the provider-side state of an order code.
func (c *Client) GetPaymentLinkInformation(ctx context.Context, orderCode int64) (*LinkInformation, error) {
	var info LinkInformation
	path := "/v2/payment-requests/" + strconv.FormatInt(orderCode, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode payos request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build payos request: %w", err)
	}
	httpReq.Header.Set("x-client-id", c.cfg.ClientID)
	httpReq.Header.Set("x-api-key", c.cfg.APIKey)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "payment gateway unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "reading payment gateway response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.New(apperrors.CodeDependency,
			fmt.Sprintf("payment gateway returned status %d", resp.StatusCode))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "decoding payment gateway response")
	}
	if env.Code != SuccessCode {
		return apperrors.New(apperrors.CodeDependency,
			fmt.Sprintf("payment gateway error %s: %s", env.Code, env.Desc))
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return apperrors.Wrap(apperrors.CodeDependency, err, "decoding payment gateway payload")
		}
	}
	return nil
}
