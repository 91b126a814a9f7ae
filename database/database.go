package database

import (
	"errors"
	"fmt"
	"time"

	config "github.com/anjiri1684/parkspace/configs"
	"github.com/anjiri1684/parkspace/logger"
	"github.com/anjiri1684/parkspace/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

func ConnectDB(dsn string) error {
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Log.Info().Msg("database connected")
	return nil
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func Migrate() error {
	err := DB.AutoMigrate(
		&models.User{},
		&models.ParkingSpace{},
		&models.Booking{},
		&models.UserPoints{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.PointsHistory{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	logger.Log.Info().Msg("database migration successful")
	return nil
}

func SeedAdmin() error {
	adminEmail := config.App.AdminEmail
	adminPassword := config.App.AdminPassword
	if adminEmail == "" || adminPassword == "" {
		logger.Log.Warn().Msg("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var count int64
	if err := DB.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if count > 0 {
		logger.Log.Debug().Msg("admin user already exists")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	return DB.Transaction(func(tx *gorm.DB) error {
		adminUser := models.User{
			FullName: config.App.AdminFullName,
			Email:    adminEmail,
			Password: string(hashedPassword),
			Role:     models.RoleAdmin,
			IsActive: true,
		}
		if err := tx.Create(&adminUser).Error; err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
		if err := tx.Create(&models.UserPoints{UserID: adminUser.ID, Level: 1}).Error; err != nil {
			return fmt.Errorf("seed admin points: %w", err)
		}
		logger.Log.Info().Str("email", adminEmail).Msg("admin user seeded")
		return nil
	})
}

// DefaultAchievements is the catalog installed on an empty database.
var DefaultAchievements = []models.Achievement{
	{Name: "First Steps", Description: "Earn your first 50 points", Icon: "footprints", PointsRequired: 50, Category: "milestone"},
	{Name: "Regular Parker", Description: "Reach 100 points", Icon: "car", PointsRequired: 100, Category: "milestone"},
	{Name: "Road Warrior", Description: "Reach 250 points", Icon: "road", PointsRequired: 250, Category: "milestone"},
	{Name: "Parking Pro", Description: "Reach 500 points", Icon: "trophy", PointsRequired: 500, Category: "milestone"},
	{Name: "Parking Legend", Description: "Reach 1000 points", Icon: "crown", PointsRequired: 1000, Category: "milestone"},
}

func SeedAchievements() error {
	for _, a := range DefaultAchievements {
		var existing models.Achievement
		err := DB.Where("name = ?", a.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check achievement %q: %w", a.Name, err)
		}
		achievement := a
		if err := DB.Create(&achievement).Error; err != nil {
			return fmt.Errorf("seed achievement %q: %w", a.Name, err)
		}
	}
	return nil
}
