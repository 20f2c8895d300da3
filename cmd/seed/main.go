package main

import (
	"context"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"courseshelf/internal/config"
	"courseshelf/internal/db"
	"courseshelf/internal/model"
	"courseshelf/internal/repository"
	"courseshelf/internal/storage"
)

// demoStudents are development accounts; the seeder skips any username that
// already exists.
var demoStudents = []struct {
	Username string
	Password string
}{
	{Username: "alice", Password: "alice123"},
	{Username: "bob", Password: "bob123"},
}

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(&model.User{}, &model.DownloadRecord{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Create the upload root and subject folders
	fileRepo := storage.NewDiskRepository(cfg.UploadRoot)
	if err := fileRepo.EnsureLayout(); err != nil {
		log.Fatalf("Failed to create upload layout: %v", err)
	}
	log.Printf("Upload layout ready under %s", cfg.UploadRoot)

	// Seed demo students
	userRepo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	created, skipped, err := seedStudents(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed students: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New students created: %d", created)
	log.Printf("  - Existing students skipped: %d", skipped)
}

// seedStudents creates the demo student accounts, skipping existing usernames.
func seedStudents(ctx context.Context, repo repository.UserRepository) (created int, skipped int, err error) {
	for _, student := range demoStudents {
		existing, err := repo.FindByUsername(ctx, student.Username)
		if err != nil && err != gorm.ErrRecordNotFound {
			return created, skipped, err
		}
		if existing != nil {
			skipped++
			continue
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(student.Password), bcrypt.DefaultCost)
		if err != nil {
			return created, skipped, err
		}

		if err := repo.Create(ctx, &model.User{
			Username:     student.Username,
			PasswordHash: string(hashedPassword),
		}); err != nil {
			return created, skipped, err
		}
		created++
	}

	return created, skipped, nil
}
