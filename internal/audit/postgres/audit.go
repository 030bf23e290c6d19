package postgres

import (
	"context"

	"github.com/frahmantamala/employee-management/internal/audit"
	"gorm.io/gorm"
)

// Repository implements audit.Repository using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, entry *audit.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *Repository) filtered(f audit.Filters) *gorm.DB {
	q := r.db.Model(&audit.Entry{})
	if f.Action != "" {
		q = q.Where("audit_logs.action = ?", f.Action)
	}
	if f.Resource != "" {
		q = q.Where("audit_logs.resource = ?", f.Resource)
	}
	if f.UserID != "" {
		q = q.Where("audit_logs.user_id = ?", f.UserID)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where("audit_logs.action LIKE ? OR audit_logs.resource LIKE ? OR audit_logs.resource_id LIKE ?",
			pattern, pattern, pattern)
	}
	if f.From != nil {
		q = q.Where("audit_logs.created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("audit_logs.created_at <= ?", *f.To)
	}
	return q
}

func (r *Repository) withActor(q *gorm.DB) *gorm.DB {
	return q.Select("audit_logs.*, COALESCE(users.name, '') AS user_name, COALESCE(users.email, '') AS user_email").
		Joins("LEFT JOIN users ON users.id = audit_logs.user_id").
		Order("audit_logs.created_at DESC")
}

// Search returns one page of the trail, newest first, with the actor's
// current name and email joined in.
func (r *Repository) Search(f audit.Filters) ([]*audit.EntryWithActor, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	var entries []*audit.EntryWithActor
	err := r.withActor(r.filtered(f)).
		Limit(f.Limit).
		Offset((page - 1) * f.Limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *Repository) Count(f audit.Filters) (int64, error) {
	var count int64
	if err := r.filtered(f).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SearchAll returns every matching record for export, ignoring pagination.
func (r *Repository) SearchAll(f audit.Filters) ([]*audit.EntryWithActor, error) {
	var entries []*audit.EntryWithActor
	err := r.withActor(r.filtered(f)).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
