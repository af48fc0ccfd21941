package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/services"
)

var ErrNoPermission = errors.New("you don't have permission to perform this action")

// statusFor memetakan taksonomi error service ke kode HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrCapacityExceeded),
		errors.Is(err, services.ErrSchedulingConflict),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// parseRestaurantID -> restaurant id dari path param.
func parseRestaurantID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("restaurant_id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// restaurantScopeAllowed -> write hanya untuk caller yang klaim
// restaurant_id-nya cocok dengan path (admin lintas restoran dikecualikan).
func restaurantScopeAllowed(c *gin.Context, restaurantID uint) bool {
	role, _ := c.Get("role")
	if role == "admin" {
		return true
	}
	claimed, exists := c.Get("restaurant_id")
	if !exists {
		return false
	}
	rid, ok := claimed.(uint)
	return ok && rid == restaurantID
}
