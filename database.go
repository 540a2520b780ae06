package main

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASS")
	name := os.Getenv("DB_NAME")
	port := os.Getenv("DB_PORT")

	if host == "" || user == "" || pass == "" || name == "" || port == "" {
		log.Fatalf("DATABASE ENV MISSING — check .env file")
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host, user, pass, name, port,
	)

	// TranslateError maps driver-specific unique violations to
	// gorm.ErrDuplicatedKey, which the services rely on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("❌ Failed to connect: %v", err)
	}

	DB = db

	// Migrate all models
	err = DB.AutoMigrate(&User{}, &Location{}, &Event{}, &Participant{}, &Feedback{})
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	seedSuperadmin(DB)

	fmt.Println("✅ Database connected and migrated successfully")
}

// seedSuperadmin creates the initial superadmin from SUPERADMIN_EMAIL /
// SUPERADMIN_PASSWORD so the admin-approval queue can be drained on a
// fresh install. Skipped when a superadmin already exists.
func seedSuperadmin(db *gorm.DB) {
	email := os.Getenv("SUPERADMIN_EMAIL")
	password := os.Getenv("SUPERADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var count int64
	if err := db.Model(&User{}).Where("role = ?", RoleSuperadmin).Count(&count).Error; err != nil {
		log.Printf("⚠️ superadmin seed check failed: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := HashPassword(password)
	if err != nil {
		log.Printf("⚠️ could not hash superadmin password: %v", err)
		return
	}
	admin := User{Name: "Superadmin", Email: email, Password: hash, Role: RoleSuperadmin}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("⚠️ could not seed superadmin: %v", err)
		return
	}
	log.Printf("✅ Seeded superadmin %s", email)
}
