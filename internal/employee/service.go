package employee

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/employee-management/internal/auth"
	"github.com/frahmantamala/employee-management/internal/core/events"
	"github.com/google/uuid"
)

// Service handles employee business logic. Role checks run in the transport
// layer; the service receives an already-authorized actor and only attaches
// it to ownership and audit fields.
type Service struct {
	repo   Repository
	bus    events.Publisher
	logger *slog.Logger
}

func NewService(repo Repository, bus events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

func (s *Service) GetAll(limit, offset int) ([]*Employee, error) {
	employees, err := s.repo.GetAll(limit, offset)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, err
	}
	return employees, nil
}

func (s *Service) GetByID(id string) (*Employee, error) {
	emp, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get employee", "error", err, "employee_id", id)
		return nil, err
	}
	return emp, nil
}

// Create inserts a new employee and audits the action. The audit write is
// fire-and-forget; its failure never fails the create.
func (s *Service) Create(ctx context.Context, dto *CreateEmployeeDTO, actor *auth.User, meta auth.RequestMeta) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("employee validation failed", "error", err, "actor_id", actor.ID)
		return nil, err
	}

	now := time.Now()
	emp := &Employee{
		ID:         uuid.NewString(),
		Name:       dto.Name,
		Email:      dto.Email,
		Position:   dto.Position,
		Department: dto.Department,
		Salary:     dto.Salary,
		HireDate:   dto.HireDateTime(),
		CreatedBy:  &actor.ID,
		UpdatedBy:  &actor.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(emp); err != nil {
		s.logger.Error("failed to create employee", "error", err, "actor_id", actor.ID)
		return nil, err
	}

	s.publishAudit(ctx, actor.ID, events.AuditActionEmployeeCreate, emp.ID, map[string]interface{}{
		"name":       emp.Name,
		"email":      emp.Email,
		"position":   emp.Position,
		"department": emp.Department,
	}, meta)

	s.logger.Info("employee created",
		"employee_id", emp.ID,
		"actor_id", actor.ID,
		"department", emp.Department)

	return emp, nil
}

// Update applies a partial update and audits the changed fields.
func (s *Service) Update(ctx context.Context, id string, dto *UpdateEmployeeDTO, actor *auth.User, meta auth.RequestMeta) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("employee validation failed", "error", err, "actor_id", actor.ID)
		return nil, err
	}

	emp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if dto.Name != nil && *dto.Name != emp.Name {
		changes["name"] = *dto.Name
		emp.Name = *dto.Name
	}
	if dto.Email != nil && *dto.Email != emp.Email {
		changes["email"] = *dto.Email
		emp.Email = *dto.Email
	}
	if dto.Position != nil && *dto.Position != emp.Position {
		changes["position"] = *dto.Position
		emp.Position = *dto.Position
	}
	if dto.Department != nil && *dto.Department != emp.Department {
		changes["department"] = *dto.Department
		emp.Department = *dto.Department
	}
	if dto.Salary != nil && *dto.Salary != emp.Salary {
		changes["salary"] = *dto.Salary
		emp.Salary = *dto.Salary
	}
	if hd := dto.HireDateTime(); hd != nil && !hd.Equal(emp.HireDate) {
		changes["hire_date"] = hd.Format(hireDateLayout)
		emp.HireDate = *hd
	}

	if len(changes) == 0 {
		return emp, nil
	}

	emp.UpdatedBy = &actor.ID
	emp.UpdatedAt = time.Now()

	if err := s.repo.Update(emp); err != nil {
		s.logger.Error("failed to update employee", "error", err, "employee_id", id, "actor_id", actor.ID)
		return nil, err
	}

	s.publishAudit(ctx, actor.ID, events.AuditActionEmployeeUpdate, emp.ID,
		map[string]interface{}{"changes": changes}, meta)

	s.logger.Info("employee updated",
		"employee_id", emp.ID,
		"actor_id", actor.ID,
		"changed_fields", len(changes))

	return emp, nil
}

// Delete removes an employee and audits the action.
func (s *Service) Delete(ctx context.Context, id string, actor *auth.User, meta auth.RequestMeta) error {
	emp, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete employee", "error", err, "employee_id", id, "actor_id", actor.ID)
		return err
	}

	s.publishAudit(ctx, actor.ID, events.AuditActionEmployeeDelete, emp.ID, map[string]interface{}{
		"name":  emp.Name,
		"email": emp.Email,
	}, meta)

	s.logger.Info("employee deleted", "employee_id", id, "actor_id", actor.ID)

	return nil
}

func (s *Service) publishAudit(ctx context.Context, actorID, action, resourceID string, details map[string]interface{}, meta auth.RequestMeta) {
	if s.bus == nil {
		return
	}
	event := events.NewAuditRecordEvent(actorID, action, events.AuditResourceEmployee, resourceID, details, meta.IPAddress, meta.UserAgent)
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish audit event", "error", err, "action", action)
	}
}
