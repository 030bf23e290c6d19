package user

import (
	"context"
	"log/slog"
	"time"

	internal "github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/auth"
	"github.com/frahmantamala/employee-management/internal/core/events"
	"github.com/google/uuid"
)

const maxListLimit = 200

// Service handles admin user management. Every mutation is audited; the
// audit write is fire-and-forget and never fails the mutation itself.
type Service struct {
	repo       Repository
	bus        events.Publisher
	logger     *slog.Logger
	bcryptCost int
}

func NewService(repo Repository, bus events.Publisher, logger *slog.Logger, bcryptCost int) *Service {
	return &Service{
		repo:       repo,
		bus:        bus,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

func (s *Service) List() ([]*User, error) {
	users, err := s.repo.List(maxListLimit)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}
	return users, nil
}

func (s *Service) GetByID(id string) (*User, error) {
	return s.repo.GetByID(id)
}

// Create inserts a user with a credential account. Admin-created users are
// treated as verified since the admin vouches for the address.
func (s *Service) Create(ctx context.Context, dto *CreateUserDTO, actor *auth.User, meta auth.RequestMeta) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	now := time.Now()
	u := &User{
		ID:            uuid.NewString(),
		Name:          dto.Name,
		Email:         dto.Email,
		Role:          dto.Role,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.CreateWithCredential(u, hash); err != nil {
		s.logger.Error("failed to create user", "error", err, "actor_id", actor.ID)
		return nil, err
	}

	s.publishAudit(ctx, actor.ID, events.AuditActionUserCreate, u.ID, map[string]interface{}{
		"email": u.Email,
		"role":  u.Role,
	}, meta)

	s.logger.Info("user created", "user_id", u.ID, "role", u.Role, "actor_id", actor.ID)

	return u, nil
}

// Update applies a partial update. A role change is audited as its own
// action with the old and new values.
func (s *Service) Update(ctx context.Context, id string, dto *UpdateUserDTO, actor *auth.User, meta auth.RequestMeta) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	var oldRole string
	roleChanged := false

	if dto.Name != nil && *dto.Name != u.Name {
		changes["name"] = *dto.Name
		u.Name = *dto.Name
	}
	if dto.Role != nil && *dto.Role != u.Role {
		oldRole = u.Role
		roleChanged = true
		u.Role = *dto.Role
	}
	if dto.EmailVerified != nil && *dto.EmailVerified != u.EmailVerified {
		changes["email_verified"] = *dto.EmailVerified
		u.EmailVerified = *dto.EmailVerified
	}

	if len(changes) == 0 && !roleChanged {
		return u, nil
	}

	u.UpdatedAt = time.Now()
	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id, "actor_id", actor.ID)
		return nil, err
	}

	if roleChanged {
		s.publishAudit(ctx, actor.ID, events.AuditActionUserRoleChange, u.ID, map[string]interface{}{
			"old_role": oldRole,
			"new_role": u.Role,
		}, meta)
	}
	if len(changes) > 0 {
		s.publishAudit(ctx, actor.ID, events.AuditActionUserUpdate, u.ID,
			map[string]interface{}{"changes": changes}, meta)
	}

	s.logger.Info("user updated", "user_id", u.ID, "actor_id", actor.ID, "role_changed", roleChanged)

	return u, nil
}

// Delete removes a user. Admins cannot delete their own account.
func (s *Service) Delete(ctx context.Context, id string, actor *auth.User, meta auth.RequestMeta) error {
	if id == actor.ID {
		return internal.ErrSelfDeletion
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", id, "actor_id", actor.ID)
		return err
	}

	s.publishAudit(ctx, actor.ID, events.AuditActionUserDelete, u.ID, map[string]interface{}{
		"email": u.Email,
		"role":  u.Role,
	}, meta)

	s.logger.Info("user deleted", "user_id", id, "actor_id", actor.ID)

	return nil
}

// Ban blocks a user from signing in. An optional expiry lifts the ban
// automatically at verification time.
func (s *Service) Ban(ctx context.Context, id string, dto *BanUserDTO, actor *auth.User, meta auth.RequestMeta) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	var reason *string
	if dto.Reason != "" {
		reason = &dto.Reason
	}
	var expires *time.Time
	if dto.ExpiresInSec > 0 {
		t := time.Now().Add(time.Duration(dto.ExpiresInSec) * time.Second)
		expires = &t
	}

	if err := s.repo.SetBan(id, true, reason, expires); err != nil {
		s.logger.Error("failed to ban user", "error", err, "user_id", id, "actor_id", actor.ID)
		return nil, err
	}

	details := map[string]interface{}{"email": u.Email}
	if reason != nil {
		details["reason"] = *reason
	}
	s.publishAudit(ctx, actor.ID, events.AuditActionUserBan, u.ID, details, meta)

	s.logger.Info("user banned", "user_id", id, "actor_id", actor.ID)

	return s.repo.GetByID(id)
}

func (s *Service) Unban(ctx context.Context, id string, actor *auth.User, meta auth.RequestMeta) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetBan(id, false, nil, nil); err != nil {
		s.logger.Error("failed to unban user", "error", err, "user_id", id, "actor_id", actor.ID)
		return nil, err
	}

	s.publishAudit(ctx, actor.ID, events.AuditActionUserUnban, u.ID,
		map[string]interface{}{"email": u.Email}, meta)

	s.logger.Info("user unbanned", "user_id", id, "actor_id", actor.ID)

	return s.repo.GetByID(id)
}

// ResetPassword replaces the credential-provider password. Users without a
// credential account cannot be reset this way.
func (s *Service) ResetPassword(ctx context.Context, id string, dto *ResetPasswordDTO, actor *auth.User, meta auth.RequestMeta) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(dto.NewPassword, s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return internal.NewInternalError("failed to reset password", err)
	}

	if err := s.repo.UpdateCredentialPassword(id, hash); err != nil {
		s.logger.Error("failed to reset password", "error", err, "user_id", id, "actor_id", actor.ID)
		return err
	}

	s.publishAudit(ctx, actor.ID, events.AuditActionPasswordReset, u.ID,
		map[string]interface{}{"email": u.Email}, meta)

	s.logger.Info("password reset", "user_id", id, "actor_id", actor.ID)

	return nil
}

func (s *Service) publishAudit(ctx context.Context, actorID, action, resourceID string, details map[string]interface{}, meta auth.RequestMeta) {
	if s.bus == nil {
		return
	}
	event := events.NewAuditRecordEvent(actorID, action, events.AuditResourceUser, resourceID, details, meta.IPAddress, meta.UserAgent)
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish audit event", "error", err, "action", action)
	}
}
