package postgres

import (
	"errors"
	"time"

	internal "github.com/frahmantamala/employee-management/internal"
	authpg "github.com/frahmantamala/employee-management/internal/auth/postgres"
	datamodel "github.com/frahmantamala/employee-management/internal/core/user"
	"github.com/frahmantamala/employee-management/internal/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository implements user.Repository using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(limit int) ([]*user.User, error) {
	var records []datamodel.User
	err := r.db.Order("created_at ASC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, err
	}
	users := make([]*user.User, 0, len(records))
	for i := range records {
		users = append(users, toUser(&records[i]))
	}
	return users, nil
}

func (r *Repository) GetByID(id string) (*user.User, error) {
	var record datamodel.User
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return toUser(&record), nil
}

// CreateWithCredential inserts the user and its credential account in one
// transaction so a failed account write never leaves a passwordless user.
func (r *Repository) CreateWithCredential(u *user.User, passwordHash string) error {
	record := &datamodel.User{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		Role:          u.Role,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
	account := &datamodel.Account{
		ID:         uuid.NewString(),
		AccountID:  u.Email,
		ProviderID: datamodel.ProviderCredential,
		UserID:     u.ID,
		Password:   &passwordHash,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		return tx.Create(account).Error
	})
	if err != nil {
		if authpg.IsDuplicateErr(err) {
			return internal.ErrUserExists
		}
		return err
	}
	return nil
}

func (r *Repository) Update(u *user.User) error {
	result := r.db.Model(&datamodel.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"name":           u.Name,
			"role":           u.Role,
			"email_verified": u.EmailVerified,
			"updated_at":     u.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

// Delete removes the user together with its sessions and accounts.
func (r *Repository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&datamodel.Session{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&datamodel.Account{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&datamodel.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return internal.ErrUserNotFound
		}
		return nil
	})
}

func (r *Repository) SetBan(id string, banned bool, reason *string, expires *time.Time) error {
	result := r.db.Model(&datamodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"banned":      banned,
			"ban_reason":  reason,
			"ban_expires": expires,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

// UpdateCredentialPassword rewrites the password on the credential-provider
// account. Users who signed up through another provider have no such row.
func (r *Repository) UpdateCredentialPassword(userID, passwordHash string) error {
	result := r.db.Model(&datamodel.Account{}).
		Where("user_id = ? AND provider_id = ?", userID, datamodel.ProviderCredential).
		Updates(map[string]interface{}{
			"password":   passwordHash,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrAccountNotFound
	}
	return nil
}

func toUser(record *datamodel.User) *user.User {
	return &user.User{
		ID:            record.ID,
		Name:          record.Name,
		Email:         record.Email,
		Role:          record.Role,
		EmailVerified: record.EmailVerified,
		Banned:        record.Banned,
		BanReason:     record.BanReason,
		BanExpires:    record.BanExpires,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
}
