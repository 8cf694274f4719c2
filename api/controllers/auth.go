package controllers

import (
	"net"
	"net/http"
	"strings"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/api/responses"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/api/validators"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/accounts"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
	pkgerrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/logger"
)

type registerRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=64"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type createStaffRequest struct {
	registerRequest
	Role string `json:"role" validate:"required"`
}

type updateProfileRequest struct {
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

// Register handles customer self-service signup.
func Register(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Register(r.Context(), accounts.RegisterInput{
			Username: payload.Username,
			Email:    payload.Email,
			Password: payload.Password,
			FullName: payload.FullName,
			Phone:    payload.Phone,
			Address:  payload.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

// Login exchanges credentials for a bearer token.
func Login(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), accounts.LoginInput{
			Identifier: payload.Identifier,
			Password:   payload.Password,
			ClientIP:   clientIP(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// CreateStaff provisions staff or admin accounts; admin only.
func CreateStaff(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createStaffRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseRole(payload.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		user, err := svc.CreateStaff(r.Context(), accounts.CreateStaffInput{
			RegisterInput: accounts.RegisterInput{
				Username: payload.Username,
				Email:    payload.Email,
				Password: payload.Password,
				FullName: payload.FullName,
				Phone:    payload.Phone,
				Address:  payload.Address,
			},
			Role: role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

// Profile returns the authenticated account.
func Profile(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Profile(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// UpdateProfile applies self-service contact edits.
func UpdateProfile(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.UpdateProfile(r.Context(), userID, accounts.UpdateProfileInput{
			FullName: payload.FullName,
			Phone:    payload.Phone,
			Address:  payload.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

func clientIP(r *http.Request) string {
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
