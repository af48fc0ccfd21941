package models

import "time"

// FloorLayout menyimpan konfigurasi lantai per restoran (satu baris per restoran).
// CanvasWidth/CanvasHeight hanya dipakai sebagai batas validasi posisi meja.
type FloorLayout struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"uniqueIndex;not null" json:"restaurant_id"`
	Floors       int       `gorm:"not null;default:1" json:"floors"`
	FloorNames   []string  `gorm:"serializer:json" json:"floor_names"`
	CanvasWidth  float64   `gorm:"not null;default:1000" json:"canvas_width"`
	CanvasHeight float64   `gorm:"not null;default:800" json:"canvas_height"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

// ReservationSetting -> kebijakan booking per restoran (jam buka, durasi, deposit).
type ReservationSetting struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	RestaurantID    uint      `gorm:"uniqueIndex;not null" json:"restaurant_id"`
	OpenTime        string    `gorm:"type:varchar(5);default:'10:00'" json:"open_time"`
	CloseTime       string    `gorm:"type:varchar(5);default:'22:00'" json:"close_time"`
	DefaultDuration int       `gorm:"not null;default:120" json:"default_duration"`
	MinDuration     int       `gorm:"not null;default:30" json:"min_duration"`
	MaxDuration     int       `gorm:"not null;default:480" json:"max_duration"`
	RequireDeposit  bool      `gorm:"not null;default:false" json:"require_deposit"`
	DepositAmount   float64   `gorm:"type:decimal(10,2);default:0" json:"deposit_amount"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func DefaultFloorLayout(restaurantID uint) FloorLayout {
	return FloorLayout{
		RestaurantID: restaurantID,
		Floors:       1,
		FloorNames:   []string{"Lantai 1"},
		CanvasWidth:  1000,
		CanvasHeight: 800,
	}
}

func DefaultReservationSetting(restaurantID uint) ReservationSetting {
	return ReservationSetting{
		RestaurantID:    restaurantID,
		OpenTime:        "10:00",
		CloseTime:       "22:00",
		DefaultDuration: 120,
		MinDuration:     30,
		MaxDuration:     480,
	}
}
