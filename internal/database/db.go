package database

import (
	"errors"
	"time"

	"grc-platform/internal/logging"
	"grc-platform/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

var ErrNotFound = errors.New("record not found")

func Init(dsn, adminUsername, adminPassword string) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		logging.Logger.Infof("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			logging.Logger.Info("connected to DB successfully")
			break
		}

		logging.Logger.Warnf("failed to connect to DB: %v", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		logging.Logger.Fatalf("failed to connect to db after %d attempts: %v", maxAttempts, err)
	}

	// миграции
	if err := Migrate(DB); err != nil {
		logging.Logger.Fatalf("failed to migrate: %v", err)
	}

	// создаём дефолтного админа, если его ещё нет
	createDefaultAdmin(DB, adminUsername, adminPassword)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.AuditLog{},
		&models.Control{},
		&models.AssessmentCycle{},
		&models.Assessment{},
		&models.Risk{},
		&models.RiskHistory{},
		&models.Vendor{},
		&models.QualificationTemplate{},
		&models.QualificationQuestion{},
		&models.QualificationCampaign{},
		&models.QualificationResponse{},
	)
}

// админ только из конфига
func createDefaultAdmin(db *gorm.DB, username, password string) {
	if password == "" {
		logging.Logger.Warn("ADMIN_PASSWORD is not set, skipping default admin")
		return
	}

	var count int64
	if err := db.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		logging.Logger.Errorf("failed to check admin user: %v", err)
		return
	}
	if count > 0 {
		// админ уже есть — ничего не делаем
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logging.Logger.Errorf("failed to hash default admin password: %v", err)
		return
	}

	admin := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		logging.Logger.Errorf("failed to create default admin: %v", err)
		return
	}

	logging.Logger.Infof("created default admin user: %s", username)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
