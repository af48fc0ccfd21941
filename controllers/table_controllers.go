package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/events"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"github.com/yeremiapane/restaurant-reservation/validate"
	"gorm.io/gorm"
)

type TableController struct {
	DB     *gorm.DB
	Tables *services.TableService
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db, Tables: services.NewTableService(db)}
}

// CreateTable -> menambahkan meja baru (role manager/admin)
func (tc *TableController) CreateTable(c *gin.Context) {
	restaurantID, ok := parseRestaurantID(c)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurant id"))
		return
	}
	if !restaurantScopeAllowed(c, restaurantID) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var spec services.TableSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := validate.Struct(spec); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.CreateTable(restaurantID, spec)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}

	events.BroadcastTableCreate(table)
	utils.InfoLogger.Printf("New table created: %s (%s, seats=%d, floor=%d)",
		table.TableID, table.TableNumber, table.Seats, table.FloorIndex)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// ListTables -> seluruh meja aktif, opsional filter per lantai (?floor=)
func (tc *TableController) ListTables(c *gin.Context) {
	restaurantID, ok := parseRestaurantID(c)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurant id"))
		return
	}

	var floorIndex *int
	if raw := c.Query("floor"); raw != "" {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("floor must be a number"))
			return
		}
		floorIndex = &idx
	}

	tables, err := tc.Tables.ListTables(restaurantID, floorIndex)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// UpdateTable -> merge patch field-per-field ke meja (posisi divalidasi numerik)
func (tc *TableController) UpdateTable(c *gin.Context) {
	restaurantID, ok := parseRestaurantID(c)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurant id"))
		return
	}
	if !restaurantScopeAllowed(c, restaurantID) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var patch services.TablePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.UpdateTable(restaurantID, c.Param("table_id"), patch)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}

	events.BroadcastTableUpdate(table)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// UpdatePositions -> bulk edit posisi dari layout editor, dilindungi token versi
func (tc *TableController) UpdatePositions(c *gin.Context) {
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
		Updates []services.PositionUpdate `json:"updates" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	for _, upd := range body.Updates {
		if err := validate.Struct(upd); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}

	tables, err := tc.Tables.UpdatePositions(restaurantID, body.Updates)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}

	for _, table := range tables {
		events.BroadcastTableUpdate(table)
	}
	utils.InfoLogger.Printf("Bulk position update: %d table(s) on restaurant %d", len(tables), restaurantID)
	utils.RespondJSON(c, http.StatusOK, "Positions updated", tables)
}

// DeleteTable -> soft delete; ditolak kalau masih ada reservasi aktif
func (tc *TableController) DeleteTable(c *gin.Context) {
	restaurantID, ok := parseRestaurantID(c)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurant id"))
		return
	}
	if !restaurantScopeAllowed(c, restaurantID) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	tableID := c.Param("table_id")
	if err := tc.Tables.DeleteTable(restaurantID, tableID); err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}

	events.BroadcastTableDelete(tableID)
	utils.InfoLogger.Printf("Table %s deactivated", tableID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"table_id": tableID})
}

// GetStatusBoard -> semua meja dengan status hasil derivasi + reservasi
// pada tanggal yang diminta (?date=YYYY-MM-DD, default hari ini)
func (tc *TableController) GetStatusBoard(c *gin.Context) {
	restaurantID, ok := parseRestaurantID(c)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurant id"))
		return
	}

	now := time.Now()
	day := now
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, now.Location())
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
			return
		}
		day = parsed
	}

	board, reservations, err := tc.Tables.StatusBoard(restaurantID, day, now)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table status board", gin.H{
		"tables":       board,
		"reservations": reservations,
	})
}
