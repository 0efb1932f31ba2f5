package cmd

import (
	"context"
	"log"

	objectdm "github.com/autotracker/tracker-admin/internal/core/datamodel/object"
	userdm "github.com/autotracker/tracker-admin/internal/core/datamodel/user"
	objectpg "github.com/autotracker/tracker-admin/internal/object/postgres"
	userpg "github.com/autotracker/tracker-admin/internal/user/postgres"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users and tracked objects for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := openGorm(db)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		ctx := context.Background()

		if clearData {
			// objects first, the FK cascades are for user deletes only
			if err := gormDB.WithContext(ctx).Exec("DELETE FROM objects").Error; err != nil {
				log.Fatalf("failed to clear objects: %v", err)
			}
			if err := gormDB.WithContext(ctx).Exec("DELETE FROM users").Error; err != nil {
				log.Fatalf("failed to clear users: %v", err)
			}
			log.Println("cleared existing data")
		}

		count := func(n int64) *int64 { return &n }

		users := []userdm.User{
			{
				UserID:           "1001",
				UserName:         "demo_fleet",
				UserEmail:        "fleet@example.com",
				Active:           true,
				ExpiryDate:       "2027-01-01",
				Privileges:       "subuser",
				APIAccess:        true,
				RegistrationDate: "2024-03-12",
				LastLogin:        "2026-08-20 09:15:00",
				IPAddress:        "203.0.113.10",
				SubAccounts:      2,
				ObjectCount:      count(2),
				Email:            4,
				SMS:              0,
				Webhook:          1,
				API:              2,
			},
			{
				UserID:           "1002",
				UserName:         "demo_single",
				UserEmail:        "single@example.com",
				Active:           false,
				ExpiryDate:       "2026-02-01",
				Privileges:       "viewer",
				APIAccess:        false,
				RegistrationDate: "2025-06-30",
				LastLogin:        "2026-01-04 18:02:00",
				IPAddress:        "198.51.100.7",
				SubAccounts:      0,
				ObjectCount:      count(1),
				Email:            1,
				SMS:              2,
				Webhook:          0,
				API:              0,
			},
		}

		objects := []objectdm.TrackedObject{
			{
				ObjectID:       "350317178881001",
				UserID:         "1001",
				Name:           "Truck Alpha",
				IMEI:           "350317178881001",
				Active:         true,
				ExpiryDate:     "2027-01-01",
				LastConnection: "2026-08-27 22:41:13",
				Status:         true,
			},
			{
				ObjectID:       "350317178881002",
				UserID:         "1001",
				Name:           "Truck Beta",
				IMEI:           "350317178881002",
				Active:         true,
				ExpiryDate:     "2027-01-01",
				LastConnection: "2026-08-25 07:03:55",
				Status:         false,
			},
			{
				ObjectID:       "868120148882001",
				UserID:         "1002",
				Name:           "Sedan Gamma",
				IMEI:           "868120148882001",
				Active:         false,
				ExpiryDate:     "2026-02-01",
				LastConnection: "2026-01-02 11:30:00",
				Status:         false,
			},
		}

		userRepo := userpg.NewUserRepository(gormDB)
		for i := range users {
			if err := userRepo.Upsert(ctx, &users[i]); err != nil {
				log.Fatalf("failed to seed user %s: %v", users[i].UserID, err)
			}
		}

		objectRepo := objectpg.NewObjectRepository(gormDB)
		if err := objectRepo.BulkUpsert(ctx, objects); err != nil {
			log.Fatalf("failed to seed objects: %v", err)
		}

		log.Printf("seeded %d users and %d objects", len(users), len(objects))
	},
}
