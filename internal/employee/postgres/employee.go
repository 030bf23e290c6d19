package postgres

import (
	"errors"

	internal "github.com/frahmantamala/employee-management/internal"
	authpg "github.com/frahmantamala/employee-management/internal/auth/postgres"
	"github.com/frahmantamala/employee-management/internal/employee"
	"gorm.io/gorm"
)

// Repository implements employee.Repository using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(emp *employee.Employee) error {
	if err := r.db.Create(emp).Error; err != nil {
		if authpg.IsDuplicateErr(err) {
			return internal.ErrEmployeeExists
		}
		return err
	}
	return nil
}

func (r *Repository) GetByID(id string) (*employee.Employee, error) {
	var emp employee.Employee
	if err := r.db.Where("id = ?", id).First(&emp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (r *Repository) GetAll(limit, offset int) ([]*employee.Employee, error) {
	var employees []*employee.Employee
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *Repository) Update(emp *employee.Employee) error {
	if err := r.db.Save(emp).Error; err != nil {
		if authpg.IsDuplicateErr(err) {
			return internal.ErrEmployeeExists
		}
		return err
	}
	return nil
}

func (r *Repository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&employee.Employee{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrEmployeeNotFound
	}
	return nil
}
