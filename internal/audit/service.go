package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/auth"
	"github.com/frahmantamala/employee-management/internal/core/events"
	"github.com/google/uuid"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// csvHeader is the fixed export column order.
const csvHeader = "ID,Action,Resource,Resource ID,User Name,User Email,IP Address,Details,Created At"

// Service records and queries the audit trail. Recording is best effort: a
// failed write is logged and dropped so it can never fail the action that
// produced it.
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

// RegisterSubscriber wires the service onto the bus as the audit record sink.
func (s *Service) RegisterSubscriber(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeAuditRecord, s.HandleAuditEvent)
}

// HandleAuditEvent persists one audit record. It always returns nil: audit
// storage failures must not propagate back to the publishing request.
func (s *Service) HandleAuditEvent(ctx context.Context, event events.Event) error {
	record, ok := event.(*events.AuditRecordEvent)
	if !ok {
		s.logger.Error("unexpected event payload for audit record", "event_type", event.EventType())
		return nil
	}

	entry := &Entry{
		ID:        uuid.NewString(),
		Action:    record.Action,
		Resource:  record.Resource,
		CreatedAt: record.OccurredAt(),
	}
	if record.ActorID != "" {
		entry.UserID = &record.ActorID
	}
	if record.ResourceID != "" {
		entry.ResourceID = &record.ResourceID
	}
	if record.IPAddress != "" {
		entry.IPAddress = &record.IPAddress
	}
	if record.UserAgent != "" {
		entry.UserAgent = &record.UserAgent
	}
	if len(record.Details) > 0 {
		raw, err := json.Marshal(record.Details)
		if err != nil {
			s.logger.Error("failed to serialize audit details", "error", err, "action", record.Action)
		} else {
			detail := string(raw)
			entry.Details = &detail
		}
	}

	writeCtx, cancel := internal.WithTimeout(ctx, 0)
	defer cancel()
	if err := s.repo.Create(writeCtx, entry); err != nil {
		s.logger.Error("failed to persist audit record",
			"error", err,
			"action", record.Action,
			"resource", record.Resource)
	}
	return nil
}

// Page is a paginated slice of the trail.
type Page struct {
	Data       []*EntryWithActor `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// List returns one page of the trail, newest first.
func (s *Service) List(f Filters) (*Page, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageLimit
	}
	if f.Limit > maxPageLimit {
		f.Limit = maxPageLimit
	}

	total, err := s.repo.Count(f)
	if err != nil {
		s.logger.Error("failed to count audit records", "error", err)
		return nil, err
	}

	entries, err := s.repo.Search(f)
	if err != nil {
		s.logger.Error("failed to search audit records", "error", err)
		return nil, err
	}
	if entries == nil {
		entries = []*EntryWithActor{}
	}

	totalPages := int((total + int64(f.Limit) - 1) / int64(f.Limit))

	return &Page{
		Data: entries,
		Pagination: Pagination{
			Page:       f.Page,
			Limit:      f.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// ExportCSV renders every record matching the filters as CSV and audits the
// export itself.
func (s *Service) ExportCSV(ctx context.Context, f Filters, actor *auth.User, meta auth.RequestMeta) (string, error) {
	entries, err := s.repo.SearchAll(f)
	if err != nil {
		s.logger.Error("failed to export audit records", "error", err)
		return "", err
	}

	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteString("\n")
	for _, e := range entries {
		b.WriteString(csvRow(e))
		b.WriteString("\n")
	}

	if s.bus != nil {
		event := events.NewAuditRecordEvent(actor.ID, events.AuditActionExportData, events.AuditResourceSystem, "",
			map[string]interface{}{"rows": len(entries)}, meta.IPAddress, meta.UserAgent)
		if err := s.bus.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish audit event", "error", err, "action", events.AuditActionExportData)
		}
	}

	s.logger.Info("audit trail exported", "rows", len(entries), "actor_id", actor.ID)

	return b.String(), nil
}

func csvRow(e *EntryWithActor) string {
	resourceID := ""
	if e.ResourceID != nil {
		resourceID = *e.ResourceID
	}
	ip := ""
	if e.IPAddress != nil {
		ip = *e.IPAddress
	}
	details := "{}"
	if e.Details != nil {
		details = *e.Details
	}
	return fmt.Sprintf("%s,%s,%s,%s,%s,%s,%s,%s,%s",
		e.ID,
		e.Action,
		e.Resource,
		resourceID,
		e.UserName,
		e.UserEmail,
		ip,
		csvQuote(details),
		e.CreatedAt.Format(time.RFC3339),
	)
}

// csvQuote wraps the value in double quotes, doubling any embedded quote.
// Only the details column gets quoted; a missing payload renders as "{}".
func csvQuote(v string) string {
	if v == "" {
		return ""
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
