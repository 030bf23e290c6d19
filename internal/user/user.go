package user

import (
	"time"
)

// User is the admin-facing view of an account holder.
type User struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	EmailVerified bool       `json:"email_verified"`
	Banned        bool       `json:"banned"`
	BanReason     *string    `json:"ban_reason,omitempty"`
	BanExpires    *time.Time `json:"ban_expires,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Repository defines the data access methods for user management.
type Repository interface {
	List(limit int) ([]*User, error)
	GetByID(id string) (*User, error)
	CreateWithCredential(u *User, passwordHash string) error
	Update(u *User) error
	Delete(id string) error
	SetBan(id string, banned bool, reason *string, expires *time.Time) error
	UpdateCredentialPassword(userID, passwordHash string) error
}
