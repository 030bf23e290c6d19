package employee

import (
	"time"

	internal "github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/core/common/validation"
)

const hireDateLayout = "2006-01-02"

type CreateEmployeeDTO struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Position   string  `json:"position"`
	Department string  `json:"department"`
	Salary     float64 `json:"salary"`
	HireDate   string  `json:"hire_date"`

	hireDate time.Time
}

// UpdateEmployeeDTO carries a partial update; nil fields are left untouched.
type UpdateEmployeeDTO struct {
	Name       *string  `json:"name,omitempty"`
	Email      *string  `json:"email,omitempty"`
	Position   *string  `json:"position,omitempty"`
	Department *string  `json:"department,omitempty"`
	Salary     *float64 `json:"salary,omitempty"`
	HireDate   *string  `json:"hire_date,omitempty"`

	hireDate *time.Time
}

func parseHireDate(value string) (time.Time, bool) {
	if t, err := time.Parse(hireDateLayout, value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (d *CreateEmployeeDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(200)
	v.Field("email", d.Email).Required().Email().MaxLength(254)
	v.Field("position", d.Position).Required().MaxLength(200)
	v.Field("department", d.Department).Required().MaxLength(200)
	v.Field("salary", d.Salary).Required().Positive(internal.ErrCodeInvalidSalary)
	v.Field("hire_date", d.HireDate).Required()
	if err := v.Validate(); err != nil {
		return err
	}

	parsed, ok := parseHireDate(d.HireDate)
	if !ok {
		return internal.NewValidationFieldError("hire_date",
			"hire_date must be a date in YYYY-MM-DD format", internal.ErrCodeInvalidHireDate)
	}
	d.hireDate = parsed
	return nil
}

// HireDateTime returns the parsed hire date; Validate must have succeeded.
func (d *CreateEmployeeDTO) HireDateTime() time.Time {
	return d.hireDate
}

func (d *UpdateEmployeeDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", *d.Name).Required().MaxLength(200)
	}
	if d.Email != nil {
		v.Field("email", *d.Email).Required().Email().MaxLength(254)
	}
	if d.Position != nil {
		v.Field("position", *d.Position).Required().MaxLength(200)
	}
	if d.Department != nil {
		v.Field("department", *d.Department).Required().MaxLength(200)
	}
	if d.Salary != nil {
		v.Field("salary", *d.Salary).Required().Positive(internal.ErrCodeInvalidSalary)
	}
	if err := v.Validate(); err != nil {
		return err
	}

	if d.HireDate != nil {
		parsed, ok := parseHireDate(*d.HireDate)
		if !ok {
			return internal.NewValidationFieldError("hire_date",
				"hire_date must be a date in YYYY-MM-DD format", internal.ErrCodeInvalidHireDate)
		}
		d.hireDate = &parsed
	}
	return nil
}

func (d *UpdateEmployeeDTO) HireDateTime() *time.Time {
	return d.hireDate
}
