package postgres

import (
	"errors"
	"strings"
	"time"

	internal "github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/auth"
	userDatamodel "github.com/frahmantamala/employee-management/internal/core/user"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repository implements auth.RepositoryAPI using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetCredentialByEmail returns the credential-provider password hash and the
// user it belongs to.
func (r *Repository) GetCredentialByEmail(email string) (string, *auth.User, error) {
	var u userDatamodel.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, internal.ErrUserNotFound
		}
		return "", nil, err
	}

	var account userDatamodel.Account
	err := r.db.Where("user_id = ? AND provider_id = ?", u.ID, userDatamodel.ProviderCredential).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, internal.ErrAccountNotFound
		}
		return "", nil, err
	}
	if account.Password == nil {
		return "", nil, internal.ErrAccountNotFound
	}

	return *account.Password, toAuthUser(&u), nil
}

func (r *Repository) GetUserByID(userID string) (*auth.User, error) {
	var u userDatamodel.User
	if err := r.db.Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return toAuthUser(&u), nil
}

func (r *Repository) CountUsers() (int64, error) {
	var count int64
	if err := r.db.Model(&userDatamodel.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateAdminWithCredential inserts the user and its credential account in
// one transaction so a failed account write never leaves a passwordless user.
func (r *Repository) CreateAdminWithCredential(u *auth.User, passwordHash string) error {
	now := time.Now()
	record := &userDatamodel.User{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		Role:          string(u.Role),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	account := &userDatamodel.Account{
		ID:         uuid.NewString(),
		AccountID:  u.Email,
		ProviderID: userDatamodel.ProviderCredential,
		UserID:     u.ID,
		Password:   &passwordHash,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		return tx.Create(account).Error
	})
	if err != nil {
		if IsDuplicateErr(err) {
			return internal.ErrUserExists
		}
		return err
	}
	return nil
}

func (r *Repository) CreateSession(s *auth.SessionInfo) error {
	now := time.Now()
	record := &userDatamodel.Session{
		ID:        uuid.NewString(),
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		UserID:    s.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if s.IPAddress != "" {
		record.IPAddress = &s.IPAddress
	}
	if s.UserAgent != "" {
		record.UserAgent = &s.UserAgent
	}
	return r.db.Create(record).Error
}

func (r *Repository) DeleteSessionsForUser(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&userDatamodel.Session{}).Error
}

func toAuthUser(u *userDatamodel.User) *auth.User {
	role, ok := auth.ParseRole(u.Role)
	if !ok {
		role = auth.RoleUser
	}
	return &auth.User{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          role,
		EmailVerified: u.EmailVerified,
		Banned:        u.Banned,
		BanExpires:    u.BanExpires,
	}
}

// IsDuplicateErr reports whether err is a unique-constraint violation, for
// Postgres in production and SQLite in repository tests.
func IsDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key value")
}
