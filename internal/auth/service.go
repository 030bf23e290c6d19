package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	internal "github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/core/events"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Service performs authentication and first-admin bootstrap.
type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGeneratorAPI
	bus            events.Publisher
	logger         *slog.Logger
	bcryptCost     int
	bootstrapToken string
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, bus events.Publisher, logger *slog.Logger, bcryptCost int, bootstrapToken string) *Service {
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bus:            bus,
		logger:         logger,
		bcryptCost:     bcryptCost,
		bootstrapToken: bootstrapToken,
	}
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// Authenticate validates credentials and returns tokens. Sign-in attempts are
// audited as LOGIN or LOGIN_FAILED; audit failures never affect the outcome.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO, meta RequestMeta) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	storedHash, user, err := s.repo.GetCredentialByEmail(dto.Email)
	if err != nil {
		s.logger.Warn("authentication failed: unknown user", "email", dto.Email)
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if err := VerifyPassword(storedHash, dto.Password); err != nil {
		s.publishAudit(ctx, user.ID, events.AuditActionLoginFailed, events.AuditResourceAuth, "",
			map[string]interface{}{"email": dto.Email}, meta)
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if user.BanActive(time.Now()) {
		s.logger.Warn("authentication rejected: banned user", "user_id", user.ID)
		s.publishAudit(ctx, user.ID, events.AuditActionLoginFailed, events.AuditResourceAuth, "",
			map[string]interface{}{"email": dto.Email, "reason": "banned"}, meta)
		return AuthTokens{}, internal.ErrUserBanned
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to generate access token", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to generate refresh token", err)
	}

	session := &SessionInfo{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if err := s.repo.CreateSession(session); err != nil {
		s.logger.Error("failed to persist session", "error", err, "user_id", user.ID)
	}

	s.publishAudit(ctx, user.ID, events.AuditActionLogin, events.AuditResourceAuth, "", nil, meta)

	s.logger.Info("user authenticated", "user_id", user.ID, "role", user.Role)

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// SignUpFirstAdmin creates the very first user with the admin role. The path
// is only open while the user table is empty; once any user exists it is
// permanently closed, even with a correct bootstrap token.
func (s *Service) SignUpFirstAdmin(ctx context.Context, dto SignupFirstAdminDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	count, err := s.repo.CountUsers()
	if err != nil {
		return nil, internal.NewInternalError("failed to check existing users", err)
	}
	if count > 0 {
		s.logger.Warn("first admin bootstrap rejected: users already exist")
		return nil, internal.ErrBootstrapClosed
	}

	if s.bootstrapToken != "" {
		if subtle.ConstantTimeCompare([]byte(s.bootstrapToken), []byte(dto.BootstrapToken)) != 1 {
			s.logger.Warn("first admin bootstrap rejected: bad token")
			return nil, internal.ErrBootstrapToken
		}
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	admin := &User{
		ID:            uuid.NewString(),
		Email:         dto.Email,
		Name:          dto.Name,
		Role:          RoleAdmin,
		EmailVerified: true,
	}

	if err := s.repo.CreateAdminWithCredential(admin, hash); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		return nil, internal.NewInternalError("failed to create admin account", err)
	}

	s.publishAudit(ctx, admin.ID, events.AuditActionUserCreate, events.AuditResourceUser, admin.ID,
		map[string]interface{}{"email": admin.Email, "role": string(RoleAdmin), "bootstrap": true}, RequestMeta{})

	s.logger.Info("first admin created", "user_id", admin.ID, "email", admin.Email)

	return admin, nil
}

// FirstUserStatus reports whether the bootstrap path is open and whether a
// token is needed to use it.
func (s *Service) FirstUserStatus(ctx context.Context) (FirstUserStatus, error) {
	count, err := s.repo.CountUsers()
	if err != nil {
		return FirstUserStatus{}, internal.NewInternalError("failed to check existing users", err)
	}
	isEmpty := count == 0
	return FirstUserStatus{
		IsEmpty:       isEmpty,
		RequiresToken: isEmpty && s.bootstrapToken != "",
	}, nil
}

// RefreshTokens validates a refresh token and issues a new pair. The user's
// current role and ban state are re-read from storage.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	user, err := s.repo.GetUserByID(claims.UserID)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}
	if user.BanActive(time.Now()) {
		return AuthTokens{}, internal.ErrUserBanned
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to generate access token", err)
	}

	newRefreshToken, err := s.tokenGenerator.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to generate refresh token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// GetUser loads the actor for the current request. Role always comes from
// storage here, not from token claims.
func (s *Service) GetUser(userID string) (*User, error) {
	return s.repo.GetUserByID(userID)
}

// Logout invalidates the actor's sessions and audits the event.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.tokenGenerator.ValidateToken(accessToken)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteSessionsForUser(claims.UserID); err != nil {
		s.logger.Error("failed to delete sessions", "error", err, "user_id", claims.UserID)
	}

	s.publishAudit(ctx, claims.UserID, events.AuditActionLogout, events.AuditResourceAuth, "", nil, RequestMeta{})
	return nil
}

func (s *Service) HashPassword(password string) (string, error) {
	return HashPassword(password, s.bcryptCost)
}

func (s *Service) publishAudit(ctx context.Context, actorID, action, resource, resourceID string, details map[string]interface{}, meta RequestMeta) {
	if s.bus == nil {
		return
	}
	event := events.NewAuditRecordEvent(actorID, action, resource, resourceID, details, meta.IPAddress, meta.UserAgent)
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish audit event", "error", err, "action", action)
	}
}

func (j *JWTTokenGenerator) GenerateAccessToken(userID string, role Role) (string, error) {
	return j.signToken(userID, role, j.AccessTokenTTL, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(userID string, role Role) (string, error) {
	return j.signToken(userID, role, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) signToken(userID string, role Role, ttl time.Duration, secret []byte) (string, error) {
	expiresAt := time.Now().Add(ttl)

	claims := &Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken validates a JWT and returns its claims. Tokens whose
// remaining lifetime exceeds the access TTL are verified against the refresh
// secret.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		if claims, ok := token.Claims.(*Claims); ok {
			if claims.ExpiresAt != nil && time.Until(claims.ExpiresAt.Time) > j.AccessTokenTTL {
				return j.RefreshTokenSecret, nil
			}
		}
		return j.AccessTokenSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, internal.ErrInvalidToken
}
