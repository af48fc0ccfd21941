package database

import (
	"github.com/yeremiapane/restaurant-reservation/models"
	"gorm.io/gorm"
)

// Migrate menjalankan AutoMigrate untuk semua entity engine.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.FloorLayout{},
		&models.ReservationSetting{},
		&models.Table{},
		&models.Reservation{},
	)
}

// SeedDefaults memastikan restoran punya layout + kebijakan reservasi default
// sebelum request pertama masuk.
func SeedDefaults(db *gorm.DB, restaurantID uint) error {
	var count int64
	if err := db.Model(&models.FloorLayout{}).
		Where("restaurant_id = ?", restaurantID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		layout := models.DefaultFloorLayout(restaurantID)
		if err := db.Create(&layout).Error; err != nil {
			return err
		}
	}

	if err := db.Model(&models.ReservationSetting{}).
		Where("restaurant_id = ?", restaurantID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		setting := models.DefaultReservationSetting(restaurantID)
		if err := db.Create(&setting).Error; err != nil {
			return err
		}
	}
	return nil
}
