package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"github.com/yeremiapane/restaurant-reservation/validate"
	"gorm.io/gorm"
)

type ReservationController struct {
	DB           *gorm.DB
	Reservations *services.ReservationService
}

func NewReservationController(db *gorm.DB) *ReservationController {
	return &ReservationController{DB: db, Reservations: services.NewReservationService(db)}
}

// CreateReservation -> booking baru; ditolak kalau jendela tabrakan atau
// party melebihi kapasitas meja
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	restaurantID, ok := parseRestaurantID(c)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurant id"))
		return
	}
	if !restaurantScopeAllowed(c, restaurantID) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var req services.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res, err := rc.Reservations.CreateReservation(restaurantID, req, time.Now())
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Reservation created", res)
}

// ListReservations -> daftar reservasi (?date=YYYY-MM-DD&status=)
func (rc *ReservationController) ListReservations(c *gin.Context) {
	restaurantID, ok := parseRestaurantID(c)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurant id"))
		return
	}

	var day *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Now().Location())
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
			return
		}
		day = &parsed
	}

	list, err := rc.Reservations.ListReservations(restaurantID, day, c.Query("status"))
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", list)
}

// GetReservation -> detail satu reservasi
func (rc *ReservationController) GetReservation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("reservation_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid reservation id"))
		return
	}

	res, err := rc.Reservations.GetReservation(uint(id))
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	if !restaurantScopeAllowed(c, res.RestaurantID) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", res)
}

// TransitionStatus -> menggerakkan lifecycle reservasi lewat edge yang sah
func (rc *ReservationController) TransitionStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("reservation_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid reservation id"))
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// Route ini hanya membawa reservation id; scope restoran dicek terhadap
	// reservasi tersimpan supaya caller restoran lain tidak bisa
	// membatalkan/menyelesaikan reservasi orang.
	existing, err := rc.Reservations.GetReservation(uint(id))
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	if !restaurantScopeAllowed(c, existing.RestaurantID) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	res, err := rc.Reservations.TransitionReservation(uint(id), body.Status, time.Now())
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation status updated", res)
}
