package payos

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/config"
	apperrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
)

func testConfig(baseURL string) config.PayOSConfig {
	return config.PayOSConfig{
		ClientID:    "client-id",
		APIKey:      "api-key",
		ChecksumKey: "checksum-key",
		BaseURL:     baseURL,
		ReturnURL:   "https://shop.example/return",
		CancelURL:   "https://shop.example/cancel",
		Timeout:     5 * time.Second,
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(config.PayOSConfig{BaseURL: "https://example.com"})
	assert.Error(t, err)
}

func TestCreatePaymentLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/payment-requests", r.URL.Path)
		assert.Equal(t, "client-id", r.Header.Get("x-client-id"))
		assert.Equal(t, "api-key", r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"00","desc":"success","data":{"orderCode":123456789,"checkoutUrl":"https://pay.payos.vn/web/abc","status":"PENDING"}}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	link, err := client.CreatePaymentLink(context.Background(), CreateLinkRequest{
		OrderCode:   123456789,
		Amount:      250000,
		Description: "PharmaCos order",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), link.OrderCode)
	assert.Equal(t, "https://pay.payos.vn/web/abc", link.CheckoutURL)
	assert.Equal(t, StatusPending, link.Status)
}

func TestCreatePaymentLinkProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"231","desc":"duplicate order code"}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.CreatePaymentLink(context.Background(), CreateLinkRequest{OrderCode: 1, Amount: 1000})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDependency, apperrors.As(err).Code())
}

func TestGetPaymentLinkInformation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/payment-requests/555000111", r.URL.Path)
		w.Write([]byte(`{"code":"00","desc":"success","data":{"orderCode":555000111,"amount":90000,"amountPaid":0,"status":"PENDING"}}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	info, err := client.GetPaymentLinkInformation(context.Background(), 555000111)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, info.Status)
	assert.Equal(t, int64(90000), info.Amount)
}

func TestGetPaymentLinkInformationGatewayDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.GetPaymentLinkInformation(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDependency, apperrors.As(err).Code())
}

func TestSignCreateLinkDeterministic(t *testing.T) {
	req := CreateLinkRequest{
		OrderCode:   123,
		Amount:      50000,
		Description: "order 123",
		ReturnURL:   "https://shop.example/return",
		CancelURL:   "https://shop.example/cancel",
	}
	first := SignCreateLink("key", req)
	second := SignCreateLink("key", req)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, SignCreateLink("other-key", req))
}

func TestVerifyWebhookSignature(t *testing.T) {
	data := map[string]any{
		"orderCode": float64(123456789),
		"amount":    float64(250000),
		"code":      "00",
		"desc":      "success",
	}
	signature := SignWebhookData("checksum-key", data)

	assert.True(t, VerifyWebhookSignature("checksum-key", data, signature))
	assert.False(t, VerifyWebhookSignature("checksum-key", data, "tampered"))
	assert.False(t, VerifyWebhookSignature("wrong-key", data, signature))
	assert.False(t, VerifyWebhookSignature("checksum-key", data, ""))
}
