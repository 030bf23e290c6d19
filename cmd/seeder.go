package cmd

import (
	"errors"
	"fmt"
	"log"
	"time"

	datamodel "github.com/frahmantamala/employee-management/internal/core/user"
	"github.com/frahmantamala/employee-management/internal/employee"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"audit_logs", "employees", "sessions", "accounts", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

		seedUsers := []struct {
			Name  string
			Email string
			Role  string
		}{
			{"Admin", "admin@mail.com", "admin"},
			{"Sari Supervisor", "sari@mail.com", "super_user"},
			{"Budi Staff", "budi@mail.com", "user"},
		}

		for _, su := range seedUsers {
			var existing datamodel.User
			err := db.Where("email = ?", su.Email).First(&existing).Error
			if err == nil {
				fmt.Printf("user %s already exists, skipping\n", su.Email)
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Fatalf("failed to check user %s: %v", su.Email, err)
			}

			now := time.Now()
			passwordHash := string(hash)
			record := datamodel.User{
				ID:            uuid.NewString(),
				Name:          su.Name,
				Email:         su.Email,
				EmailVerified: true,
				Role:          su.Role,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			account := datamodel.Account{
				ID:         uuid.NewString(),
				AccountID:  su.Email,
				ProviderID: datamodel.ProviderCredential,
				UserID:     record.ID,
				Password:   &passwordHash,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			err = db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
				return tx.Create(&account).Error
			})
			if err != nil {
				log.Fatalf("failed to seed user %s: %v", su.Email, err)
			}
			fmt.Printf("Seeded %s user: %s\n", su.Role, su.Email)
		}

		seedEmployees := []employee.Employee{
			{Name: "Dewi Lestari", Email: "dewi.lestari@company.test", Position: "Software Engineer", Department: "Engineering", Salary: 8500, HireDate: time.Date(2022, 3, 14, 0, 0, 0, 0, time.UTC)},
			{Name: "Agus Pratama", Email: "agus.pratama@company.test", Position: "Product Manager", Department: "Product", Salary: 9200, HireDate: time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC)},
			{Name: "Rina Wulandari", Email: "rina.wulandari@company.test", Position: "HR Specialist", Department: "People", Salary: 6100, HireDate: time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC)},
		}

		for _, emp := range seedEmployees {
			var existing employee.Employee
			err := db.Where("email = ?", emp.Email).First(&existing).Error
			if err == nil {
				fmt.Printf("employee %s already exists, skipping\n", emp.Email)
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Fatalf("failed to check employee %s: %v", emp.Email, err)
			}

			now := time.Now()
			emp.ID = uuid.NewString()
			emp.CreatedAt = now
			emp.UpdatedAt = now
			if err := db.Create(&emp).Error; err != nil {
				log.Fatalf("failed to seed employee %s: %v", emp.Email, err)
			}
			fmt.Println("Seeded employee:", emp.Email)
		}

		fmt.Println("Seeding complete")
	},
}
