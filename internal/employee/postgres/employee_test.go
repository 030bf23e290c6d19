package postgres

import (
	"testing"
	"time"

	internal "github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestEmployeeRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "EmployeeRepository Suite")
}

type SQLiteEmployee struct {
	ID         string    `gorm:"primaryKey"`
	Name       string    `gorm:"not null"`
	Email      string    `gorm:"uniqueIndex;not null"`
	Position   string    `gorm:"not null"`
	Department string    `gorm:"not null"`
	Salary     float64   `gorm:"not null"`
	HireDate   time.Time `gorm:"column:hire_date"`
	CreatedBy  *string   `gorm:"column:created_by"`
	UpdatedBy  *string   `gorm:"column:updated_by"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (SQLiteEmployee) TableName() string {
	return "employees"
}

var _ = Describe("EmployeeRepository", func() {
	var (
		db   *gorm.DB
		repo employee.Repository
	)

	newEmployee := func(id, email string) *employee.Employee {
		now := time.Now()
		return &employee.Employee{
			ID:         id,
			Name:       "Test Person",
			Email:      email,
			Position:   "Engineer",
			Department: "Engineering",
			Salary:     7000,
			HireDate:   time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteEmployee{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Create", func() {
		It("should create an employee successfully", func() {
			err := repo.Create(newEmployee("emp-1", "one@company.test"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return the conflict error for duplicate emails", func() {
			err := repo.Create(newEmployee("emp-1", "dup@company.test"))
			Expect(err).NotTo(HaveOccurred())

			err = repo.Create(newEmployee("emp-2", "dup@company.test"))
			Expect(err).To(Equal(internal.ErrEmployeeExists))
		})
	})

	Describe("GetByID", func() {
		It("should return the stored employee", func() {
			err := repo.Create(newEmployee("emp-1", "one@company.test"))
			Expect(err).NotTo(HaveOccurred())

			emp, err := repo.GetByID("emp-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(emp.Email).To(Equal("one@company.test"))
		})

		It("should return not found for unknown ids", func() {
			_, err := repo.GetByID("missing")
			Expect(err).To(Equal(internal.ErrEmployeeNotFound))
		})
	})

	Describe("GetAll", func() {
		BeforeEach(func() {
			for i, email := range []string{"a@company.test", "b@company.test", "c@company.test"} {
				emp := newEmployee("emp-"+email, email)
				emp.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
				Expect(repo.Create(emp)).To(Succeed())
			}
		})

		It("should respect limit and offset", func() {
			page, err := repo.GetAll(2, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(page).To(HaveLen(2))

			rest, err := repo.GetAll(2, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(rest).To(HaveLen(1))
		})

		It("should return newest first", func() {
			all, err := repo.GetAll(10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(3))
			Expect(all[0].Email).To(Equal("c@company.test"))
		})
	})

	Describe("Update", func() {
		It("should persist changed fields", func() {
			emp := newEmployee("emp-1", "one@company.test")
			Expect(repo.Create(emp)).To(Succeed())

			emp.Position = "Staff Engineer"
			emp.Salary = 9000
			Expect(repo.Update(emp)).To(Succeed())

			stored, err := repo.GetByID("emp-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Position).To(Equal("Staff Engineer"))
			Expect(stored.Salary).To(Equal(9000.0))
		})
	})

	Describe("Delete", func() {
		It("should remove the employee", func() {
			Expect(repo.Create(newEmployee("emp-1", "one@company.test"))).To(Succeed())

			Expect(repo.Delete("emp-1")).To(Succeed())

			_, err := repo.GetByID("emp-1")
			Expect(err).To(Equal(internal.ErrEmployeeNotFound))
		})

		It("should return not found for unknown ids", func() {
			Expect(repo.Delete("missing")).To(Equal(internal.ErrEmployeeNotFound))
		})
	})
})
