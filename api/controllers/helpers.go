package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/api/middleware"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/api/validators"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/orders"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
	pkgerrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/pagination"
)

func actorFromContext(r *http.Request) (orders.Actor, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return orders.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return orders.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	role, err := enums.ParseRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return orders.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid role")
	}
	return orders.Actor{UserID: userID, Role: role}, nil
}

func userIDFromContext(r *http.Request) (uuid.UUID, error) {
	actor, err := actorFromContext(r)
	if err != nil {
		return uuid.Nil, err
	}
	return actor.UserID, nil
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid identifier").WithDetails(map[string]any{"param": name})
	}
	return id, nil
}

func parsePagination(r *http.Request) (pagination.Params, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
	if err != nil {
		return pagination.Params{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Page: page, Limit: limit}, nil
}

func queryString(r *http.Request, key string) *string {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return nil
	}
	return &value
}

func queryBool(r *http.Request, key string) *bool {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key))) {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	}
	return nil
}

type pagedResponse struct {
	Items any             `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}
