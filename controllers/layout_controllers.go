package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/events"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/gorm"
)

type LayoutController struct {
	DB      *gorm.DB
	Layouts *services.LayoutService
	Tables  *services.TableService
}

func NewLayoutController(db *gorm.DB) *LayoutController {
	return &LayoutController{
		DB:      db,
		Layouts: services.NewLayoutService(db),
		Tables:  services.NewTableService(db),
	}
}

// GetLayout -> konfigurasi lantai + semua meja + kebijakan reservasi
func (lc *LayoutController) GetLayout(c *gin.Context) {
	restaurantID, ok := parseRestaurantID(c)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurant id"))
		return
	}

	layout, setting, err := lc.Layouts.GetLayout(restaurantID)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	tables, err := lc.Tables.ListTables(restaurantID, nil)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant layout", gin.H{
		"layout":               layout,
		"tables":               tables,
		"reservation_settings": setting,
	})
}

// UpdateLayout -> merge partial layout dan/atau kebijakan reservasi.
// Field yang tidak dikirim mempertahankan nilai lama.
func (lc *LayoutController) UpdateLayout(c *gin.Context) {
	restaurantID, ok := parseRestaurantID(c)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurant id"))
		return
	}
	if !restaurantScopeAllowed(c, restaurantID) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var body struct {
		Layout              *services.LayoutPatch  `json:"layout"`
		ReservationSettings *services.SettingPatch `json:"reservation_settings"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Layout == nil && body.ReservationSettings == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("nothing to update"))
		return
	}

	resp := gin.H{}
	if body.Layout != nil {
		layout, err := lc.Layouts.UpdateLayout(restaurantID, *body.Layout)
		if err != nil {
			utils.RespondError(c, statusFor(err), err)
			return
		}
		resp["layout"] = layout
		events.BroadcastLayoutUpdate(layout)
	}
	if body.ReservationSettings != nil {
		setting, err := lc.Layouts.UpdateSettings(restaurantID, *body.ReservationSettings)
		if err != nil {
			utils.RespondError(c, statusFor(err), err)
			return
		}
		resp["reservation_settings"] = setting
	}

	utils.InfoLogger.Printf("Layout updated for restaurant %d", restaurantID)
	utils.RespondJSON(c, http.StatusOK, "Layout updated", resp)
}
