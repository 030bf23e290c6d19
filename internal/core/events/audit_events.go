package events

import (
	"time"

	"github.com/google/uuid"
)

const EventTypeAuditRecord = "audit.record"

// Audit action vocabulary. Kept here so every feature package can publish
// audit events without importing the audit module itself.
const (
	AuditActionEmployeeCreate = "EMPLOYEE_CREATE"
	AuditActionEmployeeUpdate = "EMPLOYEE_UPDATE"
	AuditActionEmployeeDelete = "EMPLOYEE_DELETE"

	AuditActionUserCreate     = "USER_CREATE"
	AuditActionUserUpdate     = "USER_UPDATE"
	AuditActionUserDelete     = "USER_DELETE"
	AuditActionUserRoleChange = "USER_ROLE_CHANGE"
	AuditActionUserBan        = "USER_BAN"
	AuditActionUserUnban      = "USER_UNBAN"
	AuditActionPasswordReset  = "USER_PASSWORD_RESET"

	AuditActionLogin       = "LOGIN"
	AuditActionLogout      = "LOGOUT"
	AuditActionLoginFailed = "LOGIN_FAILED"

	AuditActionExportData = "EXPORT_DATA"
)

// Audit resource classes.
const (
	AuditResourceEmployee = "employee"
	AuditResourceUser     = "user"
	AuditResourceAuth     = "auth"
	AuditResourceSystem   = "system"
)

// AuditRecordEvent carries one privileged action to the audit trail. It is
// published fire-and-forget: the publishing request never waits on, or fails
// because of, the audit write.
type AuditRecordEvent struct {
	BaseEvent
	ActorID    string                 `json:"actor_id"`
	Action     string                 `json:"action"`
	Resource   string                 `json:"resource"`
	ResourceID string                 `json:"resource_id,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	IPAddress  string                 `json:"ip_address,omitempty"`
	UserAgent  string                 `json:"user_agent,omitempty"`
}

func NewAuditRecordEvent(actorID, action, resource, resourceID string, details map[string]interface{}, ipAddress, userAgent string) *AuditRecordEvent {
	return &AuditRecordEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeAuditRecord,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"actor_id": actorID,
				"action":   action,
				"resource": resource,
			},
		},
		ActorID:    actorID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
	}
}
