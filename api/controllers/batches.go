package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/api/responses"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/api/validators"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/batches"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
	pkgerrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/logger"
)

type batchCreateRequest struct {
	BatchCode  string    `json:"batchCode" validate:"required,max=64"`
	ProductID  uuid.UUID `json:"productId" validate:"required"`
	SupplierID uuid.UUID `json:"supplierId" validate:"required"`
	Quantity   int       `json:"quantity" validate:"required,min=1"`
	UnitCost   int64     `json:"unitCost" validate:"required,min=0"`
	MfgDate    time.Time `json:"mfgDate" validate:"required"`
	ExpiryDate time.Time `json:"expiryDate" validate:"required"`
	Location   *string   `json:"location"`
}

type batchApproveRequest struct {
	Passed bool   `json:"passed"`
	Notes  string `json:"notes"`
}

type batchDisposeRequest struct {
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Reason   string `json:"reason" validate:"required"`
}

// BatchCreate records a pending intake from a supplier; staff only.
func BatchCreate(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload batchCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		batch, err := svc.Create(r.Context(), actor.UserID, batches.CreateInput{
			BatchCode:  payload.BatchCode,
			ProductID:  payload.ProductID,
			SupplierID: payload.SupplierID,
			Quantity:   payload.Quantity,
			UnitCost:   payload.UnitCost,
			MfgDate:    payload.MfgDate,
			ExpiryDate: payload.ExpiryDate,
			Location:   payload.Location,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, batch)
	}
}

// BatchGet returns one batch.
func BatchGet(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "batchID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		batch, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, batch)
	}
}

// BatchList serves filtered batch pages; staff only.
func BatchList(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters batches.Filters
		if raw := queryString(r, "productId"); raw != nil {
			id, parseErr := uuid.Parse(*raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid product id"))
				return
			}
			filters.ProductID = &id
		}
		if raw := queryString(r, "supplierId"); raw != nil {
			id, parseErr := uuid.Parse(*raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid supplier id"))
				return
			}
			filters.SupplierID = &id
		}
		if raw := queryString(r, "status"); raw != nil {
			status, parseErr := enums.ParseBatchStatus(*raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid status"))
				return
			}
			filters.Status = &status
		}

		items, meta, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pagedResponse{Items: items, Meta: meta})
	}
}

// BatchApprove records the quality gate outcome; staff only.
func BatchApprove(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := parseUUIDParam(r, "batchID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload batchApproveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		batch, err := svc.Approve(r.Context(), batches.ApproveInput{
			BatchID: id,
			ActorID: actor.UserID,
			Passed:  payload.Passed,
			Notes:   payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, batch)
	}
}

// BatchDispose writes off stock from a batch; staff only.
func BatchDispose(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := parseUUIDParam(r, "batchID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload batchDisposeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		batch, err := svc.Dispose(r.Context(), batches.DisposeInput{
			BatchID:  id,
			ActorID:  actor.UserID,
			Quantity: payload.Quantity,
			Reason:   payload.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, batch)
	}
}

// MovementList serves the stock ledger; staff only.
func MovementList(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters batches.MovementFilters
		if raw := queryString(r, "productId"); raw != nil {
			id, parseErr := uuid.Parse(*raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid product id"))
				return
			}
			filters.ProductID = &id
		}
		if raw := queryString(r, "batchId"); raw != nil {
			id, parseErr := uuid.Parse(*raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid batch id"))
				return
			}
			filters.BatchID = &id
		}
		if raw := queryString(r, "type"); raw != nil {
			movementType, parseErr := enums.ParseMovementType(*raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid movement type"))
				return
			}
			filters.Type = &movementType
		}

		items, meta, err := svc.ListMovements(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pagedResponse{Items: items, Meta: meta})
	}
}

// BatchExpiringSoon lists active batches expiring within the requested
// horizon (default 30 days).
func BatchExpiringSoon(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := validators.ParseQueryInt(r, "days", 0, 1, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ExpiringSoon(r.Context(), days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// StockReport aggregates low-stock, expiring-soon, and expired listings.
func StockReport(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.Report(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}
