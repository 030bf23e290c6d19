package employee_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	internal "github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/auth"
	"github.com/frahmantamala/employee-management/internal/core/events"
	"github.com/frahmantamala/employee-management/internal/employee"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestEmployee(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Employee Module Suite")
}

// Mock repository for testing
type mockEmployeeRepository struct {
	employees   map[string]*employee.Employee
	createError error
	updateError error
	deleteError error
}

func newMockEmployeeRepository() *mockEmployeeRepository {
	return &mockEmployeeRepository{
		employees: make(map[string]*employee.Employee),
	}
}

func (m *mockEmployeeRepository) Create(emp *employee.Employee) error {
	if m.createError != nil {
		return m.createError
	}
	for _, existing := range m.employees {
		if existing.Email == emp.Email {
			return internal.ErrEmployeeExists
		}
	}
	m.employees[emp.ID] = emp
	return nil
}

func (m *mockEmployeeRepository) GetByID(id string) (*employee.Employee, error) {
	emp, ok := m.employees[id]
	if !ok {
		return nil, internal.ErrEmployeeNotFound
	}
	return emp, nil
}

func (m *mockEmployeeRepository) GetAll(limit, offset int) ([]*employee.Employee, error) {
	all := make([]*employee.Employee, 0, len(m.employees))
	for _, emp := range m.employees {
		all = append(all, emp)
	}
	return all, nil
}

func (m *mockEmployeeRepository) Update(emp *employee.Employee) error {
	if m.updateError != nil {
		return m.updateError
	}
	m.employees[emp.ID] = emp
	return nil
}

func (m *mockEmployeeRepository) Delete(id string) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	if _, ok := m.employees[id]; !ok {
		return internal.ErrEmployeeNotFound
	}
	delete(m.employees, id)
	return nil
}

// recordingBus captures published audit events synchronously.
type recordingBus struct {
	records []*events.AuditRecordEvent
	fail    bool
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) error {
	if b.fail {
		return errors.New("bus unavailable")
	}
	if rec, ok := event.(*events.AuditRecordEvent); ok {
		b.records = append(b.records, rec)
	}
	return nil
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	return b.Publish(ctx, event)
}

var _ = ginkgo.Describe("EmployeeService", func() {
	var (
		service  *employee.Service
		mockRepo *mockEmployeeRepository
		bus      *recordingBus
		admin    *auth.User
		meta     = auth.RequestMeta{IPAddress: "10.0.0.9", UserAgent: "test-agent"}
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	validDTO := func() *employee.CreateEmployeeDTO {
		return &employee.CreateEmployeeDTO{
			Name:       "Dewi Lestari",
			Email:      "dewi@company.test",
			Position:   "Software Engineer",
			Department: "Engineering",
			Salary:     8500,
			HireDate:   "2022-03-14",
		}
	}

	ginkgo.BeforeEach(func() {
		mockRepo = newMockEmployeeRepository()
		bus = &recordingBus{}
		admin = &auth.User{ID: "admin-1", Email: "admin@example.com", Role: auth.RoleAdmin}
		service = employee.NewService(mockRepo, bus, testLogger)
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("should create an employee with ownership fields", func() {
			emp, err := service.Create(context.Background(), validDTO(), admin, meta)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(emp.ID).ToNot(gomega.BeEmpty())
			gomega.Expect(*emp.CreatedBy).To(gomega.Equal("admin-1"))
			gomega.Expect(emp.HireDate.Year()).To(gomega.Equal(2022))
		})

		ginkgo.It("should publish exactly one audit event", func() {
			_, err := service.Create(context.Background(), validDTO(), admin, meta)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(bus.records).To(gomega.HaveLen(1))
			gomega.Expect(bus.records[0].Action).To(gomega.Equal(events.AuditActionEmployeeCreate))
			gomega.Expect(bus.records[0].Resource).To(gomega.Equal(events.AuditResourceEmployee))
			gomega.Expect(bus.records[0].ActorID).To(gomega.Equal("admin-1"))
			gomega.Expect(bus.records[0].IPAddress).To(gomega.Equal("10.0.0.9"))
		})

		ginkgo.It("should still succeed when the audit bus fails", func() {
			bus.fail = true

			emp, err := service.Create(context.Background(), validDTO(), admin, meta)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(emp).ToNot(gomega.BeNil())
		})

		ginkgo.It("should map duplicate emails to a conflict", func() {
			_, err := service.Create(context.Background(), validDTO(), admin, meta)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Create(context.Background(), validDTO(), admin, meta)

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(409))
			gomega.Expect(appErr.Message).To(gomega.Equal("Employee with this email already exists"))
		})

		ginkgo.It("should reject invalid payloads without touching storage", func() {
			dto := validDTO()
			dto.Email = "not-an-email"
			dto.Salary = -5

			_, err := service.Create(context.Background(), dto, admin, meta)

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(mockRepo.employees).To(gomega.BeEmpty())
			gomega.Expect(bus.records).To(gomega.BeEmpty())
		})

		ginkgo.It("should reject unparseable hire dates", func() {
			dto := validDTO()
			dto.HireDate = "14/03/2022"

			_, err := service.Create(context.Background(), dto, admin, meta)

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Update", func() {
		var created *employee.Employee

		ginkgo.BeforeEach(func() {
			var err error
			created, err = service.Create(context.Background(), validDTO(), admin, meta)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			bus.records = nil
		})

		ginkgo.It("should apply partial updates and audit the changed fields", func() {
			position := "Staff Engineer"
			salary := 9400.0

			updated, err := service.Update(context.Background(), created.ID,
				&employee.UpdateEmployeeDTO{Position: &position, Salary: &salary}, admin, meta)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated.Position).To(gomega.Equal("Staff Engineer"))
			gomega.Expect(updated.Salary).To(gomega.Equal(9400.0))

			gomega.Expect(bus.records).To(gomega.HaveLen(1))
			gomega.Expect(bus.records[0].Action).To(gomega.Equal(events.AuditActionEmployeeUpdate))
			changes := bus.records[0].Details["changes"].(map[string]interface{})
			gomega.Expect(changes).To(gomega.HaveKey("position"))
			gomega.Expect(changes).To(gomega.HaveKey("salary"))
			gomega.Expect(changes).ToNot(gomega.HaveKey("name"))
		})

		ginkgo.It("should not audit a no-op update", func() {
			samePosition := created.Position

			_, err := service.Update(context.Background(), created.ID,
				&employee.UpdateEmployeeDTO{Position: &samePosition}, admin, meta)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(bus.records).To(gomega.BeEmpty())
		})

		ginkgo.It("should return not found for unknown employees", func() {
			name := "Nobody"

			_, err := service.Update(context.Background(), "missing-id",
				&employee.UpdateEmployeeDTO{Name: &name}, admin, meta)

			gomega.Expect(err).To(gomega.Equal(internal.ErrEmployeeNotFound))
		})
	})

	ginkgo.Describe("Delete", func() {
		var created *employee.Employee

		ginkgo.BeforeEach(func() {
			var err error
			created, err = service.Create(context.Background(), validDTO(), admin, meta)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			bus.records = nil
		})

		ginkgo.It("should delete and audit with the employee snapshot", func() {
			err := service.Delete(context.Background(), created.ID, admin, meta)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.employees).To(gomega.BeEmpty())
			gomega.Expect(bus.records).To(gomega.HaveLen(1))
			gomega.Expect(bus.records[0].Action).To(gomega.Equal(events.AuditActionEmployeeDelete))
			gomega.Expect(bus.records[0].Details["email"]).To(gomega.Equal("dewi@company.test"))
		})

		ginkgo.It("should not audit when the delete fails", func() {
			mockRepo.deleteError = errors.New("disk on fire")

			err := service.Delete(context.Background(), created.ID, admin, meta)

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(bus.records).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("GetAll", func() {
		ginkgo.It("should return employees visible to every role", func() {
			_, err := service.Create(context.Background(), validDTO(), admin, meta)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			all, err := service.GetAll(50, 0)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(all).To(gomega.HaveLen(1))
		})
	})

	ginkgo.Describe("hire date parsing", func() {
		ginkgo.It("should accept RFC3339 timestamps too", func() {
			dto := validDTO()
			dto.HireDate = time.Date(2023, 5, 2, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)

			emp, err := service.Create(context.Background(), dto, admin, meta)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(emp.HireDate.Month()).To(gomega.Equal(time.May))
		})
	})
})
