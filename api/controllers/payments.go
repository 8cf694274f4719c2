package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/api/responses"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/api/validators"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/payments"
	pkgerrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/logger"
)

type paymentCreateRequest struct {
	OrderID uuid.UUID `json:"orderId" validate:"required"`
}

type paymentWebhookRequest struct {
	Code      string         `json:"code"`
	Desc      string         `json:"desc"`
	Data      map[string]any `json:"data"`
	Signature string         `json:"signature"`
}

// PaymentCreate issues a hosted-checkout link for an online order.
func PaymentCreate(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.Create(r.Context(), payload.OrderID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, payment)
	}
}

// PaymentWebhook consumes provider callbacks. Probe and unknown-code payloads
// are acknowledged with 200 so the provider stops retrying.
func PaymentWebhook(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Providers add fields over time; decode leniently. An empty body is
		// a delivery probe and gets acknowledged like any other no-op.
		var payload paymentWebhookRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && err != io.EOF {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid webhook body"))
			return
		}

		err := svc.HandleWebhook(r.Context(), payments.WebhookPayload{
			Code:      payload.Code,
			Desc:      payload.Desc,
			Data:      payload.Data,
			Signature: payload.Signature,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "acknowledged"})
	}
}

// PaymentReset fails the caller's pending payments so checkout can restart.
func PaymentReset(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Reset(r.Context(), orderID, userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "reset"})
	}
}

// PaymentListByOrder returns the payment history for an owned order.
func PaymentListByOrder(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListByOrder(r.Context(), orderID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}
