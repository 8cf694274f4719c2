package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/api/responses"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/api/validators"
	ordersvc "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/orders"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
	pkgerrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/logger"
)

type orderItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type orderCreateRequest struct {
	RecipientName   string             `json:"recipientName" validate:"required,max=255"`
	Phone           string             `json:"phone" validate:"required,max=32"`
	ShippingAddress string             `json:"shippingAddress" validate:"required"`
	Note            *string            `json:"note"`
	PaymentMethod   string             `json:"paymentMethod" validate:"required"`
	Items           []orderItemRequest `json:"items" validate:"omitempty,dive"`
}

type orderCancelRequest struct {
	Reason *string `json:"reason"`
}

type orderStatusRequest struct {
	Status       string  `json:"status" validate:"required"`
	CancelReason *string `json:"cancelReason"`
}

type orderPaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required"`
}

// OrderCreate places an order from the cart or an explicit item list.
func OrderCreate(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orderCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		items := make([]ordersvc.ItemInput, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, ordersvc.ItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
		}

		order, err := svc.Create(r.Context(), ordersvc.CreateInput{
			CustomerID:      customerID,
			RecipientName:   payload.RecipientName,
			Phone:           payload.Phone,
			ShippingAddress: payload.ShippingAddress,
			Note:            payload.Note,
			PaymentMethod:   method,
			Items:           items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrderListMine lists the caller's orders; staff see orders holding their products.
func OrderListMine(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, meta, err := svc.ListMine(r.Context(), actor, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pagedResponse{Items: items, Meta: meta})
	}
}

// OrderGet returns one order with ownership enforced per role.
func OrderGet(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrderCancel lets the owning customer cancel a pending order.
func OrderCancel(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orderCancelRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CancelByCustomer(r.Context(), orderID, customerID, payload.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrderUpdateStatusForCreator transitions an order scoped to the staff member's
// own products.
func OrderUpdateStatusForCreator(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransitionHandler(func(ctx context.Context, input ordersvc.UpdateStatusInput) (*models.Order, error) {
		return svc.UpdateStatusForCreator(ctx, input)
	}, logg)
}

// OrderUpdateStatus runs the full transition; staff or admin.
func OrderUpdateStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransitionHandler(func(ctx context.Context, input ordersvc.UpdateStatusInput) (*models.Order, error) {
		return svc.UpdateStatus(ctx, input)
	}, logg)
}

func orderTransitionHandler(transition func(ctx context.Context, input ordersvc.UpdateStatusInput) (*models.Order, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		order, err := transition(r.Context(), ordersvc.UpdateStatusInput{
			OrderID:      orderID,
			Status:       status,
			ActorID:      actor.UserID,
			CancelReason: payload.CancelReason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrderUpdatePaymentStatus manually settles non-gateway payments; staff or admin.
func OrderUpdatePaymentStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orderPaymentStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderPaymentStatus(payload.PaymentStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
			return
		}

		order, err := svc.UpdatePaymentStatus(r.Context(), orderID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrderManage serves the staff order console with filters; staff or admin.
func OrderManage(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters ordersvc.Filters
		if raw := queryString(r, "status"); raw != nil {
			status, parseErr := enums.ParseOrderStatus(*raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid status"))
				return
			}
			filters.Status = &status
		}
		if raw := queryString(r, "paymentStatus"); raw != nil {
			status, parseErr := enums.ParseOrderPaymentStatus(*raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid payment status"))
				return
			}
			filters.PaymentStatus = &status
		}
		if raw := queryString(r, "customerId"); raw != nil {
			id, parseErr := uuid.Parse(*raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid customer id"))
				return
			}
			filters.CustomerID = &id
		}

		items, meta, err := svc.Manage(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pagedResponse{Items: items, Meta: meta})
	}
}

// OrderStats aggregates totals, grouped counts, revenue, and recent orders.
func OrderStats(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
