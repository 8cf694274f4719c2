package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/payments"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/logger"
)

type fakePaymentService struct {
	webhooks []payments.WebhookPayload
}

func (f *fakePaymentService) Create(ctx context.Context, orderID, userID uuid.UUID) (*models.Payment, error) {
	return nil, nil
}

func (f *fakePaymentService) HandleWebhook(ctx context.Context, payload payments.WebhookPayload) error {
	f.webhooks = append(f.webhooks, payload)
	return nil
}

func (f *fakePaymentService) Reset(ctx context.Context, orderID, userID uuid.UUID) error {
	return nil
}

func (f *fakePaymentService) ExpireStale(ctx context.Context) (int64, error) {
	return 0, nil
}

func (f *fakePaymentService) ListByOrder(ctx context.Context, orderID, userID uuid.UUID) ([]models.Payment, error) {
	return nil, nil
}

func TestPaymentWebhookAcknowledgesEmptyBody(t *testing.T) {
	svc := &fakePaymentService{}
	handler := PaymentWebhook(svc, logger.New(logger.Options{ServiceName: "controllers-test"}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.webhooks, 1)
	assert.Empty(t, svc.webhooks[0].Data)
}

func TestPaymentWebhookRejectsMalformedBody(t *testing.T) {
	svc := &fakePaymentService{}
	handler := PaymentWebhook(svc, logger.New(logger.Options{ServiceName: "controllers-test"}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.webhooks)
}

func TestPaymentWebhookForwardsPayload(t *testing.T) {
	svc := &fakePaymentService{}
	handler := PaymentWebhook(svc, logger.New(logger.Options{ServiceName: "controllers-test"}))

	body, err := json.Marshal(map[string]any{
		"code": "00",
		"data": map[string]any{"orderCode": 123456789},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.webhooks, 1)
	assert.Equal(t, "00", svc.webhooks[0].Code)
}
