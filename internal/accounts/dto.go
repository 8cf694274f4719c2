package accounts

import (
	"time"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
)

// RegisterInput carries a self-service signup.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName *string
	Phone    *string
	Address  *string
}

// CreateStaffInput is the admin path for provisioning staff accounts.
type CreateStaffInput struct {
	RegisterInput
	Role enums.Role `json:"role" validate:"required"`
}

// LoginInput identifies the caller by username or email.
type LoginInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
	ClientIP   string
}

// LoginResult bundles the issued token with the authenticated account.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// UpdateProfileInput limits self-service edits to contact fields.
type UpdateProfileInput struct {
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}
