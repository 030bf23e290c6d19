package user

import "time"

// User is the persistence model for the users table. Role is one of
// user, super_user, admin.
type User struct {
	ID            string     `gorm:"primaryKey"`
	Name          string     `gorm:"column:name;not null"`
	Email         string     `gorm:"column:email;uniqueIndex;not null"`
	EmailVerified bool       `gorm:"column:email_verified;not null;default:false"`
	Image         *string    `gorm:"column:image"`
	Role          string     `gorm:"column:role;not null;default:user"`
	Banned        bool       `gorm:"column:banned;not null;default:false"`
	BanReason     *string    `gorm:"column:ban_reason"`
	BanExpires    *time.Time `gorm:"column:ban_expires"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

// ProviderCredential is the provider id for email/password accounts.
const ProviderCredential = "credential"

// Account holds a user's login credential for a provider. Password is only
// set for the credential provider.
type Account struct {
	ID         string     `gorm:"primaryKey"`
	AccountID  string     `gorm:"column:account_id;not null"`
	ProviderID string     `gorm:"column:provider_id;not null"`
	UserID     string     `gorm:"column:user_id;index;not null"`
	Password   *string    `gorm:"column:password"`
	ExpiresAt  *time.Time `gorm:"column:expires_at"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

type Session struct {
	ID        string    `gorm:"primaryKey"`
	Token     string    `gorm:"column:token;uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;index;not null"`
	IPAddress *string   `gorm:"column:ip_address"`
	UserAgent *string   `gorm:"column:user_agent"`
	UserID    string    `gorm:"column:user_id;index;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Session) TableName() string {
	return "sessions"
}

type Verification struct {
	ID         string    `gorm:"primaryKey"`
	Identifier string    `gorm:"column:identifier;not null"`
	Value      string    `gorm:"column:value;not null"`
	ExpiresAt  time.Time `gorm:"column:expires_at;not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (Verification) TableName() string {
	return "verifications"
}
