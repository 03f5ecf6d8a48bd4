package main

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"answerme/internal/config"
	"answerme/internal/db"
	"answerme/internal/model"
	"answerme/internal/repository"
)

// seedUser is one demo fixture with its keyword subscriptions.
type seedUser struct {
	email    string
	fullname string
	password string
	role     string
	tier     string
	premium  bool
	keywords []string
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Keyword{},
		&model.Thread{},
		&model.Message{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	fixtures := []seedUser{
		{
			email:    "admin@answerme.local",
			fullname: "Admin",
			password: "admin123",
			role:     model.RoleAdmin,
		},
		{
			email:    "premium@answerme.local",
			fullname: "Premium Demo",
			password: "premium123",
			role:     model.RoleUser,
			tier:     model.SubscriptionPremium,
			premium:  true,
			keywords: []string{"AI", "semiconductors", "climate", "space", "energy", "biotech"},
		},
		{
			email:    "free@answerme.local",
			fullname: "Free Demo",
			password: "free123",
			role:     model.RoleUser,
			tier:     model.SubscriptionFree,
			keywords: []string{"AI", "economy"},
		},
	}

	userRepo := repository.NewUserRepository(gormDB)
	keywordRepo := repository.NewKeywordRepository(gormDB)
	ctx := context.Background()

	created, skipped := 0, 0
	for _, fixture := range fixtures {
		existing, err := userRepo.FindByEmail(ctx, fixture.email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Failed to check user %s: %v", fixture.email, err)
		}
		if existing != nil {
			log.Printf("User %s already exists, skipping", fixture.email)
			skipped++
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(fixture.password), 10)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", fixture.email, err)
		}

		user := &model.User{
			Email:        fixture.email,
			Fullname:     fixture.fullname,
			PasswordHash: string(hash),
			Role:         fixture.role,
			SubscriptionType: func() string {
				if fixture.role == model.RoleAdmin {
					return ""
				}
				return fixture.tier
			}(),
		}
		if fixture.premium {
			expiry := time.Now().AddDate(0, 0, 30)
			user.SubscriptionExpiresAt = &expiry
		}

		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user %s: %v", fixture.email, err)
		}
		for _, term := range fixture.keywords {
			if err := keywordRepo.Create(ctx, &model.Keyword{UserID: user.ID, Keyword: term}); err != nil {
				log.Fatalf("Failed to create keyword %q for %s: %v", term, fixture.email, err)
			}
		}
		log.Printf("Created %s (%s) with %d keywords", fixture.email, fixture.role, len(fixture.keywords))
		created++
	}

	log.Printf("Seed completed: %d created, %d skipped", created, skipped)
}
