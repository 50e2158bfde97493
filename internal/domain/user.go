package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOrganizer Role = "organizer"
	RoleUser      Role = "user"
)

var validRoles = map[Role]bool{
	RoleAdmin:     true,
	RoleOrganizer: true,
	RoleUser:      true,
}

func (r Role) Valid() bool { return validRoles[r] }

// User is the private persisted record, password hash included. Handlers
// expose it through UserResponse.
type User struct {
	ID           uuid.UUID `db:"user_id" json:"user_id" validate:"required"`
	Username     string    `db:"username" json:"username" validate:"required,min=2,max=30"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	Email        string    `db:"email" json:"email" validate:"required,email"`
	PasswordHash string    `db:"password_hash" json:"-" validate:"required"`
	Role         Role      `db:"role" json:"role" validate:"required,oneof=admin organizer user"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Phone     *string   `json:"phone,omitempty"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Phone:     u.Phone,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,min=2,max=30"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=7,max=50"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
}

func (r *CreateUserRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Phone != nil {
		trimmed := strings.TrimSpace(*r.Phone)
		if trimmed == "" {
			r.Phone = nil
		} else {
			r.Phone = &trimmed
		}
	}
}

func (r *CreateUserRequest) Validate() error {
	return validateStruct(r)
}

type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=2,max=30"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=7,max=50"`
}

func (r *UpdateUserRequest) Validate() error {
	return validateStruct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return validateStruct(r)
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if ok := asValidationErrors(err, &verrs); ok && len(verrs) > 0 {
			f := verrs[0]
			return validationError(fmt.Sprintf("field %q failed on the %q rule", f.Field(), f.Tag()))
		}
		return validationError(err.Error())
	}
	return nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}

// ValidateRecord structurally validates a persisted record against its
// declared schema tags. Used by the repository on data crossing its
// boundary.
func ValidateRecord(v any) error {
	return validate.Struct(v)
}
