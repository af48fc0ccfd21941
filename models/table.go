package models

import "time"

// Status meja. "Status" adalah cache hasil derivasi (lihat services.DeriveStatus);
// flag manual (available/maintenance) hidup di kolom BaseStatus sendiri supaya
// tidak tertimpa saat deriver menulis reserved/occupied ke cache.
const (
	TableAvailable   = "available"
	TableReserved    = "reserved"
	TableOccupied    = "occupied"
	TableMaintenance = "maintenance"
)

const (
	TableTypeNormal  = "normal"
	TableTypeVIP     = "vip"
	TableTypeOutdoor = "outdoor"
	TableTypePrivate = "private"
)

const (
	MinSeats = 1
	MaxSeats = 20
)

type Table struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	TableID      string `gorm:"type:varchar(64);uniqueIndex;not null" json:"table_id"`
	RestaurantID uint   `gorm:"index;not null" json:"restaurant_id"`
	TableNumber  string `gorm:"type:varchar(50);not null" json:"table_number"`
	FloorIndex   int    `gorm:"not null;default:0" json:"floor_index"`
	Type         string `gorm:"type:varchar(20);not null;default:'normal'" json:"type"`
	Seats        int    `gorm:"not null" json:"seats"`

	PosX   float64 `gorm:"not null;default:0" json:"pos_x"`
	PosY   float64 `gorm:"not null;default:0" json:"pos_y"`
	Width  float64 `gorm:"not null;default:80" json:"width"`
	Height float64 `gorm:"not null;default:80" json:"height"`

	Status               string `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	BaseStatus           string `gorm:"type:varchar(20);not null;default:'available'" json:"base_status"`
	CurrentReservationID *uint  `gorm:"index" json:"current_reservation_id,omitempty"`
	IsActive             bool   `gorm:"not null;default:true" json:"is_active"`
	Notes                string `gorm:"type:text" json:"notes,omitempty"`

	// Version adalah token optimistic-concurrency untuk edit posisi/layout.
	Version   int64     `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func ValidTableType(t string) bool {
	switch t {
	case TableTypeNormal, TableTypeVIP, TableTypeOutdoor, TableTypePrivate:
		return true
	}
	return false
}
