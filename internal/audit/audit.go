package audit

import (
	"context"
	"time"
)

// Entry is one recorded privileged action. Details holds a JSON object
// serialized at write time so the trail survives schema changes in the
// publishing features.
type Entry struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     *string   `json:"user_id,omitempty" gorm:"column:user_id;index"`
	Action     string    `json:"action" gorm:"column:action;index;not null"`
	Resource   string    `json:"resource" gorm:"column:resource;index;not null"`
	ResourceID *string   `json:"resource_id,omitempty" gorm:"column:resource_id"`
	Details    *string   `json:"details,omitempty" gorm:"column:details"`
	IPAddress  *string   `json:"ip_address,omitempty" gorm:"column:ip_address"`
	UserAgent  *string   `json:"user_agent,omitempty" gorm:"column:user_agent"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at;index"`
}

func (Entry) TableName() string {
	return "audit_logs"
}

// EntryWithActor joins the entry with the actor's current name and email.
// Both are empty when the actor has since been deleted.
type EntryWithActor struct {
	Entry
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// Filters narrows a trail query. Zero values mean no constraint.
type Filters struct {
	Action   string
	Resource string
	UserID   string
	Search   string
	From     *time.Time
	To       *time.Time
	Page     int
	Limit    int
}

// Repository defines the data access methods for the audit trail. Create
// takes a context because it runs detached from the request that produced
// the record.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	Search(f Filters) ([]*EntryWithActor, error)
	Count(f Filters) (int64, error)
	SearchAll(f Filters) ([]*EntryWithActor, error)
}
