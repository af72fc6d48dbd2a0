package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/geodateam/team-presence/internal/user"
	userpostgres "github.com/geodateam/team-presence/internal/user/postgres"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample accounts",
	Long:  `Seed the database with an admin and an employee account for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		if cfg.Database.Driver == "memory" {
			log.Fatal("the memory driver starts empty on every run; nothing to seed")
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		users := userpostgres.NewUserRepository(gormDB)
		ctx := context.Background()

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

		accounts := []*user.User{
			{
				ID:           uuid.NewString(),
				Email:        "admin@geodateam.dev",
				PasswordHash: string(hash),
				Name:         "Dana Admin",
				Role:         user.RoleAdmin,
				CreatedAt:    time.Now().UTC(),
			},
			{
				ID:           uuid.NewString(),
				Email:        "employee@geodateam.dev",
				PasswordHash: string(hash),
				Name:         "Evan Employee",
				Role:         user.RoleEmployee,
				CreatedAt:    time.Now().UTC(),
			},
		}

		for _, acc := range accounts {
			if err := users.Create(ctx, acc); err != nil {
				if errors.Is(err, user.ErrEmailTaken) {
					fmt.Println("account already exists:", acc.Email)
					continue
				}
				log.Fatalf("failed to seed %s: %v", acc.Email, err)
			}
			fmt.Println("seeded account:", acc.Email)
		}
	},
}
