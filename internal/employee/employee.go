package employee

import (
	"time"
)

// Employee is both the domain model and the GORM persistence model, in the
// same way the rest of the repositories map their tables.
type Employee struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"column:name;not null"`
	Email      string    `json:"email" gorm:"column:email;uniqueIndex;not null"`
	Position   string    `json:"position" gorm:"column:position;not null"`
	Department string    `json:"department" gorm:"column:department;index;not null"`
	Salary     float64   `json:"salary" gorm:"column:salary;type:numeric(10,2);not null"`
	HireDate   time.Time `json:"hire_date" gorm:"column:hire_date;not null"`
	CreatedBy  *string   `json:"created_by,omitempty" gorm:"column:created_by;index"`
	UpdatedBy  *string   `json:"updated_by,omitempty" gorm:"column:updated_by"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// Repository defines the data access methods for employees.
type Repository interface {
	Create(emp *Employee) error
	GetByID(id string) (*Employee, error)
	GetAll(limit, offset int) ([]*Employee, error)
	Update(emp *Employee) error
	Delete(id string) error
}
