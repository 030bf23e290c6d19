package user

import (
	"fmt"

	internal "github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/auth"
	"github.com/frahmantamala/employee-management/internal/core/common/validation"
)

type CreateUserDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUserDTO carries a partial update; nil fields are left untouched.
type UpdateUserDTO struct {
	Name          *string `json:"name,omitempty"`
	Role          *string `json:"role,omitempty"`
	EmailVerified *bool   `json:"email_verified,omitempty"`
}

type BanUserDTO struct {
	Reason       string `json:"reason,omitempty"`
	ExpiresInSec int64  `json:"expires_in_seconds,omitempty"`
}

type ResetPasswordDTO struct {
	NewPassword string `json:"new_password"`
}

func (d CreateUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(200)
	v.Field("email", d.Email).Required().Email().MaxLength(254)
	v.Field("password", d.Password).Required().Custom(passwordLength)
	v.Field("role", d.Role).Required().Custom(validRole)
	return v.Validate()
}

func (d UpdateUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", *d.Name).Required().MaxLength(200)
	}
	if d.Role != nil {
		v.Field("role", *d.Role).Required().Custom(validRole)
	}
	return v.Validate()
}

func (d ResetPasswordDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("new_password", d.NewPassword).Required().Custom(passwordLength)
	return v.Validate()
}

func passwordLength(value interface{}) *internal.AppError {
	if s, ok := value.(string); ok && len(s) < auth.MinPasswordLength {
		return internal.NewValidationFieldError("password",
			fmt.Sprintf("Password must be at least %d characters", auth.MinPasswordLength),
			internal.ErrCodePasswordTooShort)
	}
	return nil
}

func validRole(value interface{}) *internal.AppError {
	if s, ok := value.(string); ok {
		if _, valid := auth.ParseRole(s); !valid {
			return internal.NewValidationFieldError("role",
				fmt.Sprintf("role must be one of: %s, %s, %s", auth.RoleUser, auth.RoleSuperUser, auth.RoleAdmin),
				internal.ErrCodeInvalidRole)
		}
	}
	return nil
}
