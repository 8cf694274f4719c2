package controllers

import (
	"net/http"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/api/responses"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/api/validators"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/suppliers"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
	pkgerrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/logger"
)

type supplierCreateRequest struct {
	Code         string   `json:"code" validate:"required,max=64"`
	Name         string   `json:"name" validate:"required,max=255"`
	ContactName  *string  `json:"contactName"`
	ContactPhone *string  `json:"contactPhone"`
	ContactEmail *string  `json:"contactEmail" validate:"omitempty,email"`
	Address      *string  `json:"address"`
	Rating       *float64 `json:"rating" validate:"omitempty,min=1,max=5"`
}

type supplierUpdateRequest struct {
	Name         *string  `json:"name"`
	ContactName  *string  `json:"contactName"`
	ContactPhone *string  `json:"contactPhone"`
	ContactEmail *string  `json:"contactEmail" validate:"omitempty,email"`
	Address      *string  `json:"address"`
	Status       *string  `json:"status"`
	Rating       *float64 `json:"rating" validate:"omitempty,min=1,max=5"`
}

// SupplierCreate registers a supplier; staff only.
func SupplierCreate(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload supplierCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplier, err := svc.Create(r.Context(), suppliers.CreateInput{
			Code:         payload.Code,
			Name:         payload.Name,
			ContactName:  payload.ContactName,
			ContactPhone: payload.ContactPhone,
			ContactEmail: payload.ContactEmail,
			Address:      payload.Address,
			Rating:       payload.Rating,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, supplier)
	}
}

// SupplierGet returns one supplier.
func SupplierGet(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "supplierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplier, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, supplier)
	}
}

// SupplierList serves filtered supplier pages.
func SupplierList(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := suppliers.Filters{
			Search: validators.SanitizeString(r.URL.Query().Get("search"), 255),
		}
		if raw := queryString(r, "status"); raw != nil {
			status, parseErr := enums.ParseSupplierStatus(*raw)
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

// SupplierUpdate patches supplier contact and status fields; staff only.
func SupplierUpdate(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "supplierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload supplierUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := suppliers.UpdateInput{
			Name:         payload.Name,
			ContactName:  payload.ContactName,
			ContactPhone: payload.ContactPhone,
			ContactEmail: payload.ContactEmail,
			Address:      payload.Address,
			Rating:       payload.Rating,
		}
		if payload.Status != nil {
			status, parseErr := enums.ParseSupplierStatus(*payload.Status)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid status"))
				return
			}
			input.Status = &status
		}

		supplier, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, supplier)
	}
}

// SupplierDelete removes a supplier with no remaining batches; staff only.
func SupplierDelete(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "supplierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
