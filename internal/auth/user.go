package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is fixed, not configurable.
const MinPasswordLength = 8

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO, meta RequestMeta) (AuthTokens, error)
	SignUpFirstAdmin(ctx context.Context, dto SignupFirstAdminDTO) (*User, error)
	FirstUserStatus(ctx context.Context) (FirstUserStatus, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUser(userID string) (*User, error)
	Logout(ctx context.Context, accessToken string) error
}

type RepositoryAPI interface {
	GetCredentialByEmail(email string) (passwordHash string, user *User, err error)
	GetUserByID(userID string) (*User, error)
	CountUsers() (int64, error)
	CreateAdminWithCredential(u *User, passwordHash string) error
	CreateSession(s *SessionInfo) error
	DeleteSessionsForUser(userID string) error
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID string, role Role) (token string, err error)
	GenerateRefreshToken(userID string, role Role) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// User is the authenticated actor attached to the request context. Role is
// always re-read from storage per request, never taken from the client.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Role          Role       `json:"role"`
	EmailVerified bool       `json:"email_verified"`
	Banned        bool       `json:"banned"`
	BanExpires    *time.Time `json:"ban_expires,omitempty"`
}

// BanActive reports whether a ban is in effect at now. A ban whose expiry has
// passed no longer blocks the user; one without an expiry is permanent.
func (u *User) BanActive(now time.Time) bool {
	return u.Banned && (u.BanExpires == nil || u.BanExpires.After(now))
}

// RequestMeta carries client metadata into audit entries and session rows.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type SessionInfo struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	IPAddress string
	UserAgent string
}

type FirstUserStatus struct {
	IsEmpty       bool `json:"isEmpty"`
	RequiresToken bool `json:"requiresToken"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

type ctxKey string

const ContextUserKey ctxKey = "user"

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
