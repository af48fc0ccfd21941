package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/yeremiapane/restaurant-reservation/models"
	"gorm.io/gorm"
)

type LayoutService struct {
	DB *gorm.DB
}

func NewLayoutService(db *gorm.DB) *LayoutService {
	return &LayoutService{DB: db}
}

// LayoutPatch -> partial update; hanya field non-nil yang di-merge.
type LayoutPatch struct {
	Floors       *int      `json:"floors"`
	FloorNames   *[]string `json:"floor_names"`
	CanvasWidth  *float64  `json:"canvas_width"`
	CanvasHeight *float64  `json:"canvas_height"`
}

type SettingPatch struct {
	OpenTime        *string  `json:"open_time"`
	CloseTime       *string  `json:"close_time"`
	DefaultDuration *int     `json:"default_duration"`
	MinDuration     *int     `json:"min_duration"`
	MaxDuration     *int     `json:"max_duration"`
	RequireDeposit  *bool    `json:"require_deposit"`
	DepositAmount   *float64 `json:"deposit_amount"`
}

// GetLayout mengembalikan layout + settings restoran, membuat default
// kalau belum ada.
func (ls *LayoutService) GetLayout(restaurantID uint) (models.FloorLayout, models.ReservationSetting, error) {
	var layout models.FloorLayout
	err := ls.DB.Where("restaurant_id = ?", restaurantID).First(&layout).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		layout = models.DefaultFloorLayout(restaurantID)
		err = ls.DB.Create(&layout).Error
	}
	if err != nil {
		return layout, models.ReservationSetting{}, err
	}

	var setting models.ReservationSetting
	err = ls.DB.Where("restaurant_id = ?", restaurantID).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.DefaultReservationSetting(restaurantID)
		err = ls.DB.Create(&setting).Error
	}
	if err != nil {
		return layout, setting, err
	}
	return layout, setting, nil
}

// UpdateLayout merge field yang dikirim saja, lalu re-validasi semua invariant
// sebelum commit. All-or-nothing: kalau ada meja yang floor index-nya jadi
// out of range, tidak ada mutasi yang diterapkan.
func (ls *LayoutService) UpdateLayout(restaurantID uint, patch LayoutPatch) (models.FloorLayout, error) {
	layout, _, err := ls.GetLayout(restaurantID)
	if err != nil {
		return layout, err
	}

	merged := layout
	if patch.Floors != nil {
		merged.Floors = *patch.Floors
	}
	if patch.FloorNames != nil {
		merged.FloorNames = *patch.FloorNames
	}
	if patch.CanvasWidth != nil {
		merged.CanvasWidth = *patch.CanvasWidth
	}
	if patch.CanvasHeight != nil {
		merged.CanvasHeight = *patch.CanvasHeight
	}

	if merged.Floors < 1 {
		return layout, fmt.Errorf("%w: floors must be at least 1", ErrValidation)
	}
	if len(merged.FloorNames) != merged.Floors {
		return layout, fmt.Errorf("%w: floor_names must have exactly %d entries", ErrValidation, merged.Floors)
	}
	if merged.CanvasWidth <= 0 || merged.CanvasHeight <= 0 ||
		math.IsNaN(merged.CanvasWidth) || math.IsNaN(merged.CanvasHeight) {
		return layout, fmt.Errorf("%w: canvas dimensions must be positive numbers", ErrValidation)
	}

	// Shrink lantai diblok kalau masih ada meja aktif di lantai yang hilang.
	var outOfRange int64
	if err := ls.DB.Model(&models.Table{}).
		Where("restaurant_id = ? AND is_active = ? AND floor_index >= ?", restaurantID, true, merged.Floors).
		Count(&outOfRange).Error; err != nil {
		return layout, err
	}
	if outOfRange > 0 {
		return layout, fmt.Errorf("%w: %d active table(s) would fall outside the remaining floors", ErrConflict, outOfRange)
	}

	if err := ls.DB.Save(&merged).Error; err != nil {
		return layout, err
	}
	return merged, nil
}

// UpdateSettings -> merge kebijakan reservasi, field yang dikirim saja.
func (ls *LayoutService) UpdateSettings(restaurantID uint, patch SettingPatch) (models.ReservationSetting, error) {
	_, setting, err := ls.GetLayout(restaurantID)
	if err != nil {
		return setting, err
	}

	if patch.OpenTime != nil {
		setting.OpenTime = *patch.OpenTime
	}
	if patch.CloseTime != nil {
		setting.CloseTime = *patch.CloseTime
	}
	if patch.DefaultDuration != nil {
		setting.DefaultDuration = *patch.DefaultDuration
	}
	if patch.MinDuration != nil {
		setting.MinDuration = *patch.MinDuration
	}
	if patch.MaxDuration != nil {
		setting.MaxDuration = *patch.MaxDuration
	}
	if patch.RequireDeposit != nil {
		setting.RequireDeposit = *patch.RequireDeposit
	}
	if patch.DepositAmount != nil {
		setting.DepositAmount = *patch.DepositAmount
	}

	if setting.MinDuration < models.MinDurationMinutes || setting.MaxDuration > models.MaxDurationMinutes ||
		setting.MinDuration > setting.MaxDuration {
		return setting, fmt.Errorf("%w: duration bounds must stay within %d-%d minutes",
			ErrValidation, models.MinDurationMinutes, models.MaxDurationMinutes)
	}

	if err := ls.DB.Save(&setting).Error; err != nil {
		return setting, err
	}
	return setting, nil
}
