package services

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// setupServiceDB -> SQLite in-memory terisolasi per test + migrasi + layout default
func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.FloorLayout{},
		&models.ReservationSetting{},
		&models.Table{},
		&models.Reservation{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedTable(t *testing.T, db *gorm.DB, seats int) models.Table {
	t.Helper()
	table := models.Table{
		TableID:      utils.NewTableID(),
		RestaurantID: 1,
		TableNumber:  "A1",
		Seats:        seats,
		Type:         models.TableTypeNormal,
		Status:       models.TableAvailable,
		BaseStatus:   models.TableAvailable,
		Width:        80,
		Height:       80,
		IsActive:     true,
		Version:      1,
	}
	assert.NoError(t, db.Create(&table).Error)
	return table
}

func at(day string, clock string) time.Time {
	parsed, _ := time.Parse("2006-01-02 15:04", day+" "+clock)
	return parsed
}

func TestCreateReservationHappyPath(t *testing.T) {
	db := setupServiceDB(t)
	table := seedTable(t, db, 4)
	svc := NewReservationService(db)

	now := at("2025-06-01", "10:00")
	res, err := svc.CreateReservation(1, ReservationRequest{
		TableID:         table.TableID,
		CustomerName:    "Budi",
		PartySize:       4,
		StartAt:         at("2025-06-01", "14:00"),
		DurationMinutes: 120,
	}, now)

	assert.NoError(t, err)
	assert.Equal(t, models.ReservationPending, res.Status)
	assert.Equal(t, table.TableID, res.TableID)

	// Jendela belum memuat "now": meja tetap available
	var stored models.Table
	assert.NoError(t, db.First(&stored, table.ID).Error)
	assert.Equal(t, models.TableAvailable, stored.Status)
}

func TestCreateReservationMarksTableReservedWhenWindowContainsNow(t *testing.T) {
	db := setupServiceDB(t)
	table := seedTable(t, db, 4)
	svc := NewReservationService(db)

	now := at("2025-06-01", "14:30")
	res, err := svc.CreateReservation(1, ReservationRequest{
		TableID:         table.TableID,
		CustomerName:    "Sari",
		PartySize:       2,
		StartAt:         at("2025-06-01", "14:00"),
		DurationMinutes: 120,
	}, now)
	assert.NoError(t, err)

	var stored models.Table
	assert.NoError(t, db.First(&stored, table.ID).Error)
	assert.Equal(t, models.TableReserved, stored.Status)
	assert.NotNil(t, stored.CurrentReservationID)
	assert.Equal(t, res.ID, *stored.CurrentReservationID)
}

func TestCreateReservationCapacityExceeded(t *testing.T) {
	db := setupServiceDB(t)
	table := seedTable(t, db, 4)
	svc := NewReservationService(db)

	_, err := svc.CreateReservation(1, ReservationRequest{
		TableID:         table.TableID,
		CustomerName:    "Rombongan",
		PartySize:       6,
		StartAt:         at("2025-06-01", "14:00"),
		DurationMinutes: 120,
	}, at("2025-06-01", "10:00"))

	assert.ErrorIs(t, err, ErrCapacityExceeded)

	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateReservationUnknownOrInactiveTable(t *testing.T) {
	db := setupServiceDB(t)
	table := seedTable(t, db, 4)
	svc := NewReservationService(db)

	_, err := svc.CreateReservation(1, ReservationRequest{
		TableID:         "T0-nonexistent",
		CustomerName:    "Tamu",
		PartySize:       2,
		StartAt:         at("2025-06-01", "14:00"),
		DurationMinutes: 60,
	}, at("2025-06-01", "10:00"))
	assert.ErrorIs(t, err, ErrNotFound)

	// meja soft-deleted juga dianggap tidak ada untuk scheduling
	assert.NoError(t, db.Model(&models.Table{}).Where("id = ?", table.ID).
		Update("is_active", false).Error)
	_, err = svc.CreateReservation(1, ReservationRequest{
		TableID:         table.TableID,
		CustomerName:    "Tamu",
		PartySize:       2,
		StartAt:         at("2025-06-01", "14:00"),
		DurationMinutes: 60,
	}, at("2025-06-01", "10:00"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateReservationDurationBounds(t *testing.T) {
	db := setupServiceDB(t)
	table := seedTable(t, db, 4)
	svc := NewReservationService(db)

	for _, minutes := range []int{15, 500} {
		_, err := svc.CreateReservation(1, ReservationRequest{
			TableID:         table.TableID,
			CustomerName:    "Tamu",
			PartySize:       2,
			StartAt:         at("2025-06-01", "14:00"),
			DurationMinutes: minutes,
		}, at("2025-06-01", "10:00"))
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestCreateReservationSchedulingConflictAndAdjacency(t *testing.T) {
	db := setupServiceDB(t)
	table := seedTable(t, db, 4)
	svc := NewReservationService(db)
	now := at("2025-06-01", "10:00")

	// A: 14:00-16:00
	_, err := svc.CreateReservation(1, ReservationRequest{
		TableID: table.TableID, CustomerName: "A", PartySize: 4,
		StartAt: at("2025-06-01", "14:00"), DurationMinutes: 120,
	}, now)
	assert.NoError(t, err)

	// B: 15:00-15:30 -> tabrakan
	_, err = svc.CreateReservation(1, ReservationRequest{
		TableID: table.TableID, CustomerName: "B", PartySize: 2,
		StartAt: at("2025-06-01", "15:00"), DurationMinutes: 30,
	}, now)
	assert.ErrorIs(t, err, ErrSchedulingConflict)

	// C: 16:00-17:00 -> bersinggungan di batas, diterima
	_, err = svc.CreateReservation(1, ReservationRequest{
		TableID: table.TableID, CustomerName: "C", PartySize: 2,
		StartAt: at("2025-06-01", "16:00"), DurationMinutes: 60,
	}, now)
	assert.NoError(t, err)
}

func TestTransitionReservationLifecycle(t *testing.T) {
	db := setupServiceDB(t)
	table := seedTable(t, db, 4)
	svc := NewReservationService(db)
	now := at("2025-06-01", "13:00")

	res, err := svc.CreateReservation(1, ReservationRequest{
		TableID: table.TableID, CustomerName: "Budi", PartySize: 2,
		StartAt: at("2025-06-01", "14:00"), DurationMinutes: 120,
	}, now)
	assert.NoError(t, err)

	// pending -> confirmed, stamp sekali saja
	res, err = svc.TransitionReservation(res.ID, models.ReservationConfirmed, at("2025-06-01", "13:05"))
	assert.NoError(t, err)
	assert.NotNil(t, res.ConfirmedAt)
	firstStamp := *res.ConfirmedAt

	// confirmed -> seated: meja jadi occupied
	res, err = svc.TransitionReservation(res.ID, models.ReservationSeated, at("2025-06-01", "14:02"))
	assert.NoError(t, err)
	assert.NotNil(t, res.SeatedAt)
	assert.Equal(t, firstStamp, *res.ConfirmedAt)

	var stored models.Table
	assert.NoError(t, db.First(&stored, table.ID).Error)
	assert.Equal(t, models.TableOccupied, stored.Status)
	assert.NotNil(t, stored.CurrentReservationID)

	// seated -> completed: pointer dibersihkan, meja balik available
	res, err = svc.TransitionReservation(res.ID, models.ReservationCompleted, at("2025-06-01", "15:40"))
	assert.NoError(t, err)
	assert.NotNil(t, res.CompletedAt)

	assert.NoError(t, db.First(&stored, table.ID).Error)
	assert.Equal(t, models.TableAvailable, stored.Status)
	assert.Nil(t, stored.CurrentReservationID)

	// terminal -> apapun ditolak
	_, err = svc.TransitionReservation(res.ID, models.ReservationSeated, at("2025-06-01", "15:41"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionPreservesMaintenance(t *testing.T) {
	db := setupServiceDB(t)
	table := seedTable(t, db, 4)
	svc := NewReservationService(db)

	res, err := svc.CreateReservation(1, ReservationRequest{
		TableID: table.TableID, CustomerName: "Budi", PartySize: 2,
		StartAt: at("2025-06-01", "14:00"), DurationMinutes: 60,
	}, at("2025-06-01", "10:00"))
	assert.NoError(t, err)

	assert.NoError(t, db.Model(&models.Table{}).Where("id = ?", table.ID).
		Updates(map[string]interface{}{
			"status":      models.TableMaintenance,
			"base_status": models.TableMaintenance,
		}).Error)

	_, err = svc.TransitionReservation(res.ID, models.ReservationCancelled, at("2025-06-01", "11:00"))
	assert.NoError(t, err)

	var stored models.Table
	assert.NoError(t, db.First(&stored, table.ID).Error)
	assert.Equal(t, models.TableMaintenance, stored.Status)
}

func TestTransitionUnknownReservation(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewReservationService(db)

	_, err := svc.TransitionReservation(999, models.ReservationConfirmed, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentCreateSameWindowExactlyOneWins(t *testing.T) {
	db := setupServiceDB(t)
	table := seedTable(t, db, 4)
	svc := NewReservationService(db)
	now := at("2025-06-01", "10:00")

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, err := svc.CreateReservation(1, ReservationRequest{
				TableID: table.TableID, CustomerName: fmt.Sprintf("Caller-%d", idx), PartySize: 2,
				StartAt: at("2025-06-01", "14:00"), DurationMinutes: 120,
			}, now)
			results[idx] = err
		}(i)
	}
	wg.Wait()

	succeeded, conflicted := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, ErrSchedulingConflict):
			conflicted++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)

	var count int64
	db.Model(&models.Reservation{}).Where("table_id = ?", table.TableID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestListReservationsFilters(t *testing.T) {
	db := setupServiceDB(t)
	table := seedTable(t, db, 6)
	svc := NewReservationService(db)
	now := at("2025-06-01", "08:00")

	_, err := svc.CreateReservation(1, ReservationRequest{
		TableID: table.TableID, CustomerName: "Pagi", PartySize: 2,
		StartAt: at("2025-06-01", "11:00"), DurationMinutes: 60,
	}, now)
	assert.NoError(t, err)
	_, err = svc.CreateReservation(1, ReservationRequest{
		TableID: table.TableID, CustomerName: "Besok", PartySize: 2,
		StartAt: at("2025-06-02", "11:00"), DurationMinutes: 60,
	}, now)
	assert.NoError(t, err)

	day := at("2025-06-01", "00:00")
	list, err := svc.ListReservations(1, &day, "")
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "Pagi", list[0].CustomerName)

	list, err = svc.ListReservations(1, nil, models.ReservationPending)
	assert.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.ListReservations(1, nil, "bogus")
	assert.ErrorIs(t, err, ErrValidation)
}
