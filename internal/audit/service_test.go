package audit

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/frahmantamala/employee-management/internal/auth"
	"github.com/frahmantamala/employee-management/internal/core/events"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestAudit(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Audit Module Suite")
}

// Mock repository for testing
type mockAuditRepository struct {
	entries     []*Entry
	withActor   []*EntryWithActor
	createError error
	searchError error
}

func (m *mockAuditRepository) Create(_ context.Context, entry *Entry) error {
	if m.createError != nil {
		return m.createError
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepository) match(f Filters) []*EntryWithActor {
	var out []*EntryWithActor
	for _, e := range m.withActor {
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		if f.Resource != "" && e.Resource != f.Resource {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (m *mockAuditRepository) Search(f Filters) ([]*EntryWithActor, error) {
	if m.searchError != nil {
		return nil, m.searchError
	}
	matched := m.match(f)
	start := (f.Page - 1) * f.Limit
	if start >= len(matched) {
		return nil, nil
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (m *mockAuditRepository) Count(f Filters) (int64, error) {
	if m.searchError != nil {
		return 0, m.searchError
	}
	return int64(len(m.match(f))), nil
}

func (m *mockAuditRepository) SearchAll(f Filters) ([]*EntryWithActor, error) {
	if m.searchError != nil {
		return nil, m.searchError
	}
	return m.match(f), nil
}

// recordingBus captures published audit events synchronously.
type recordingBus struct {
	records []*events.AuditRecordEvent
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) error {
	if rec, ok := event.(*events.AuditRecordEvent); ok {
		b.records = append(b.records, rec)
	}
	return nil
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	return b.Publish(ctx, event)
}

var _ = ginkgo.Describe("AuditService", func() {
	var (
		service  *Service
		mockRepo *mockAuditRepository
		bus      *recordingBus
		admin    *auth.User
		meta     = auth.RequestMeta{IPAddress: "10.0.0.3", UserAgent: "test-agent"}
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ginkgo.BeforeEach(func() {
		mockRepo = &mockAuditRepository{}
		bus = &recordingBus{}
		admin = &auth.User{ID: "admin-1", Email: "admin@example.com", Role: auth.RoleAdmin}
		service = NewService(mockRepo, bus, testLogger)
	})

	ginkgo.Describe("HandleAuditEvent", func() {
		ginkgo.It("should persist the record with serialized details", func() {
			event := events.NewAuditRecordEvent("actor-1", events.AuditActionEmployeeCreate,
				events.AuditResourceEmployee, "emp-1",
				map[string]interface{}{"email": "dewi@company.test"}, "10.0.0.3", "test-agent")

			err := service.HandleAuditEvent(context.Background(), event)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.entries).To(gomega.HaveLen(1))
			entry := mockRepo.entries[0]
			gomega.Expect(entry.Action).To(gomega.Equal(events.AuditActionEmployeeCreate))
			gomega.Expect(*entry.UserID).To(gomega.Equal("actor-1"))
			gomega.Expect(*entry.ResourceID).To(gomega.Equal("emp-1"))
			gomega.Expect(*entry.Details).To(gomega.ContainSubstring(`"email":"dewi@company.test"`))
			gomega.Expect(*entry.IPAddress).To(gomega.Equal("10.0.0.3"))
		})

		ginkgo.It("should swallow storage failures", func() {
			mockRepo.createError = errors.New("db down")
			event := events.NewAuditRecordEvent("actor-1", events.AuditActionLogin,
				events.AuditResourceAuth, "", nil, "", "")

			err := service.HandleAuditEvent(context.Background(), event)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should ignore payloads of the wrong type", func() {
			err := service.HandleAuditEvent(context.Background(), events.BaseEvent{Type: events.EventTypeAuditRecord})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.entries).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("List", func() {
		ginkgo.BeforeEach(func() {
			for i := 0; i < 45; i++ {
				mockRepo.withActor = append(mockRepo.withActor, &EntryWithActor{
					Entry: Entry{ID: "e", Action: "LOGIN", Resource: "auth", CreatedAt: time.Now()},
				})
			}
		})

		ginkgo.It("should paginate with totals", func() {
			page, err := service.List(Filters{Page: 2, Limit: 20})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(page.Data).To(gomega.HaveLen(20))
			gomega.Expect(page.Pagination.Total).To(gomega.Equal(int64(45)))
			gomega.Expect(page.Pagination.TotalPages).To(gomega.Equal(3))
		})

		ginkgo.It("should default and cap the page size", func() {
			page, err := service.List(Filters{})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(page.Pagination.Page).To(gomega.Equal(1))
			gomega.Expect(page.Pagination.Limit).To(gomega.Equal(20))

			page, err = service.List(Filters{Limit: 5000})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(page.Pagination.Limit).To(gomega.Equal(100))
		})

		ginkgo.It("should return an empty page past the end", func() {
			page, err := service.List(Filters{Page: 10, Limit: 20})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(page.Data).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("ExportCSV", func() {
		details := `{"email":"dewi@company.test"}`
		resourceID := "emp-1"
		ip := "10.0.0.3"

		ginkgo.BeforeEach(func() {
			mockRepo.withActor = []*EntryWithActor{
				{
					Entry: Entry{
						ID:         "log-1",
						Action:     "EMPLOYEE_CREATE",
						Resource:   "employee",
						ResourceID: &resourceID,
						Details:    &details,
						IPAddress:  &ip,
						CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
					},
					UserName:  "Admin",
					UserEmail: "admin@example.com",
				},
				{
					Entry: Entry{
						ID:        "log-2",
						Action:    "LOGIN",
						Resource:  "auth",
						CreatedAt: time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
					},
					UserName:  "Admin",
					UserEmail: "admin@example.com",
				},
			}
		})

		ginkgo.It("should render the fixed header and one line per record", func() {
			csv, err := service.ExportCSV(context.Background(), Filters{}, admin, meta)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
			gomega.Expect(lines[0]).To(gomega.Equal("ID,Action,Resource,Resource ID,User Name,User Email,IP Address,Details,Created At"))
			gomega.Expect(lines).To(gomega.HaveLen(3))
		})

		ginkgo.It("should double embedded quotes in details", func() {
			csv, err := service.ExportCSV(context.Background(), Filters{}, admin, meta)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(csv).To(gomega.ContainSubstring(`"{""email"":""dewi@company.test""}"`))
		})

		ginkgo.It("should render missing details as an empty JSON object and other absent columns empty", func() {
			csv, err := service.ExportCSV(context.Background(), Filters{Action: "LOGIN"}, admin, meta)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
			gomega.Expect(lines).To(gomega.HaveLen(2))
			gomega.Expect(lines[1]).To(gomega.Equal(`log-2,LOGIN,auth,,Admin,admin@example.com,,"{}",2025-06-02T09:30:00Z`))
		})

		ginkgo.It("should audit the export with the row count", func() {
			_, err := service.ExportCSV(context.Background(), Filters{}, admin, meta)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(bus.records).To(gomega.HaveLen(1))
			gomega.Expect(bus.records[0].Action).To(gomega.Equal(events.AuditActionExportData))
			gomega.Expect(bus.records[0].Details["rows"]).To(gomega.Equal(2))
		})
	})
})
