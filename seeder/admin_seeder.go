package seeder

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"construction-management/models"
	"construction-management/repository"
)

// SeedAdmin creates the bootstrap admin account if none exists.
// Safe to run on every startup.
func SeedAdmin(userRepo repository.UserRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const adminUsername = "admin"

	existing, err := userRepo.FindUserByUsername(ctx, adminUsername)
	if err != nil {
		log.Printf("Admin seeder: failed to check existing admin: %v", err)
		return
	}
	if existing != nil {
		log.Println("Admin seeder: admin user already exists, skipping.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Admin1234"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Admin seeder: failed to hash password: %v", err)
	}

	newAdmin := &models.User{
		Username: adminUsername,
		Password: string(hashedPassword),
		Role:     "admin",
	}

	if _, err := userRepo.CreateUser(ctx, newAdmin); err != nil {
		log.Printf("Admin seeder: failed to create admin user: %v", err)
		return
	}
	log.Println("Admin seeder: admin user created. Change the default password after first login.")
}
