package controllers

import (
	"io"
	"net/http"
	"time"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/api/responses"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/api/validators"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/products"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/vision"
	pkgerrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/logger"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/types"
)

const maxSearchImageBytes = 8 << 20

type productCreateRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Brand       *string         `json:"brand"`
	Category    *string         `json:"category"`
	Description *string         `json:"description"`
	Benefits    []string        `json:"benefits"`
	AIFeatures  types.StringMap `json:"aiFeatures"`
	Price       int64           `json:"price" validate:"required,min=0"`
	SalePrice   *int64          `json:"salePrice"`
	Stock       int             `json:"stock" validate:"min=0"`
	ExpiryDate  *time.Time      `json:"expiryDate"`
	ImageURL    *string         `json:"imageUrl"`
}

type productUpdateRequest struct {
	Name        *string         `json:"name"`
	Brand       *string         `json:"brand"`
	Category    *string         `json:"category"`
	Description *string         `json:"description"`
	Benefits    []string        `json:"benefits"`
	AIFeatures  types.StringMap `json:"aiFeatures"`
	Price       *int64          `json:"price"`
	SalePrice   *int64          `json:"salePrice"`
	ClearSale   bool            `json:"clearSale"`
	Stock       *int            `json:"stock"`
	ExpiryDate  *time.Time      `json:"expiryDate"`
	ImageURL    *string         `json:"imageUrl"`
}

// ProductList serves the public catalog with filters and pagination.
func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := products.Filters{
			Category: queryString(r, "category"),
			Brand:    queryString(r, "brand"),
			Search:   validators.SanitizeString(r.URL.Query().Get("search"), 255),
			OnSale:   queryBool(r, "onSale"),
			InStock:  queryBool(r, "inStock"),
		}

		items, meta, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pagedResponse{Items: items, Meta: meta})
	}
}

// ProductGet returns one product with its sale decoration applied.
func ProductGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductCreate lists a new catalog item; staff only.
func ProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), actor.UserID, products.CreateInput{
			Name:        payload.Name,
			Brand:       payload.Brand,
			Category:    payload.Category,
			Description: payload.Description,
			Benefits:    payload.Benefits,
			AIFeatures:  payload.AIFeatures,
			Price:       payload.Price,
			SalePrice:   payload.SalePrice,
			Stock:       payload.Stock,
			ExpiryDate:  payload.ExpiryDate,
			ImageURL:    payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductUpdate patches mutable catalog fields; staff only.
func ProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, products.UpdateInput{
			Name:        payload.Name,
			Brand:       payload.Brand,
			Category:    payload.Category,
			Description: payload.Description,
			Benefits:    payload.Benefits,
			AIFeatures:  payload.AIFeatures,
			Price:       payload.Price,
			SalePrice:   payload.SalePrice,
			ClearSale:   payload.ClearSale,
			Stock:       payload.Stock,
			ExpiryDate:  payload.ExpiryDate,
			ImageURL:    payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductDelete removes an unreferenced product; staff only.
func ProductDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "productID")
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

// ProductSearchByImage matches catalog items against an uploaded photo.
func ProductSearchByImage(svc vision.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(maxSearchImageBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image file required"))
			return
		}
		defer file.Close()

		image, err := io.ReadAll(io.LimitReader(file, maxSearchImageBytes+1))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read image"))
			return
		}

		result, err := svc.SearchByImage(r.Context(), image, header.Header.Get("Content-Type"), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
