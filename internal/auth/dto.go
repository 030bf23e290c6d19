package auth

import (
	"fmt"

	internal "github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept sign-in requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

// SignupFirstAdminDTO bootstraps the first admin account while the user table
// is still empty. BootstrapToken is required only when one is configured.
type SignupFirstAdminDTO struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	BootstrapToken string `json:"bootstrap_token,omitempty"`
}

func (d LoginDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

func (d RefreshTokenDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("refresh_token", d.RefreshToken).Required()
	return v.Validate()
}

func (d SignupFirstAdminDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(200)
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required().Custom(passwordLength)
	return v.Validate()
}

func passwordLength(value interface{}) *internal.AppError {
	if s, ok := value.(string); ok && len(s) < MinPasswordLength {
		return internal.NewValidationFieldError("password",
			fmt.Sprintf("Password must be at least %d characters", MinPasswordLength),
			internal.ErrCodePasswordTooShort)
	}
	return nil
}
