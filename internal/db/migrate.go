package db

import (
	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/pkg/logger"
	"github.com/gymbuddy/gymbuddy-backend/pkg/util"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.GymAccount{},
		&model.TrainerProfile{},
		&model.Workout{},
		&model.WorkoutParticipant{},
		&model.ChatRoom{},
		&model.Message{},
		&model.Notification{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedAdminUser(); err != nil {
		logger.Error("Failed to seed admin user", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedAdminUser creates the bootstrap administrator account. Role changes
// always need an existing admin, so a fresh database gets one seeded.
func seedAdminUser() error {
	var count int64
	if err := DB.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Admin user already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	hash, err := util.HashPassword("admin1234!")
	if err != nil {
		return err
	}

	admin := model.User{
		Email:           "admin@gymbuddy.app",
		PasswordHash:    hash,
		Name:            "Platform Admin",
		Nickname:        "admin",
		Role:            model.RoleAdmin,
		AccountType:     model.AccountTypeStandard,
		Location:        "HQ",
		HomeGym:         "HQ",
		ProfileComplete: true,
	}

	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("Admin user seeded", map[string]interface{}{
		"email": admin.Email,
	})
	return nil
}
