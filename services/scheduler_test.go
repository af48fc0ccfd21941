package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/restaurant-reservation/models"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	assert.NoError(t, err)
	return parsed
}

func TestOverlapsSymmetric(t *testing.T) {
	s1 := mustTime(t, "2025-06-01 14:00")
	e1 := mustTime(t, "2025-06-01 16:00")
	s2 := mustTime(t, "2025-06-01 15:00")
	e2 := mustTime(t, "2025-06-01 15:30")

	assert.True(t, Overlaps(s1, e1, s2, e2))
	assert.True(t, Overlaps(s2, e2, s1, e1))
}

func TestOverlapsAdjacentWindowsNeverConflict(t *testing.T) {
	s1 := mustTime(t, "2025-06-01 14:00")
	e1 := mustTime(t, "2025-06-01 16:00")
	s2 := e1
	e2 := mustTime(t, "2025-06-01 17:00")

	// Jendela half-open: berakhir tepat saat jendela lain mulai bukan overlap
	assert.False(t, Overlaps(s1, e1, s2, e2))
	assert.False(t, Overlaps(s2, e2, s1, e1))
}

func TestOverlapsIdenticalWindowsAlwaysConflict(t *testing.T) {
	s := mustTime(t, "2025-06-01 14:00")
	e := mustTime(t, "2025-06-01 16:00")

	assert.True(t, Overlaps(s, e, s, e))
}

func TestFindConflictSkipsTerminalReservations(t *testing.T) {
	start := mustTime(t, "2025-06-01 14:00")
	end := mustTime(t, "2025-06-01 16:00")

	existing := []models.Reservation{
		{ID: 1, StartAt: start, DurationMinutes: 120, Status: models.ReservationCancelled},
		{ID: 2, StartAt: start.Add(4 * time.Hour), DurationMinutes: 60, Status: models.ReservationPending},
	}

	assert.Nil(t, FindConflict(start, end, existing))

	existing[0].Status = models.ReservationConfirmed
	clash := FindConflict(start, end, existing)
	assert.NotNil(t, clash)
	assert.Equal(t, uint(1), clash.ID)
}

func TestDeriveStatusReservedThenOccupied(t *testing.T) {
	table := models.Table{TableID: "T1", Status: models.TableAvailable, BaseStatus: models.TableAvailable}
	start := mustTime(t, "2025-06-01 14:00")
	res := models.Reservation{ID: 7, StartAt: start, DurationMinutes: 120, Status: models.ReservationConfirmed}

	now := mustTime(t, "2025-06-01 15:00")
	status, current := DeriveStatus(table, now, []models.Reservation{res})
	assert.Equal(t, models.TableReserved, status)
	assert.Equal(t, uint(7), current.ID)

	res.Status = models.ReservationSeated
	status, _ = DeriveStatus(table, now, []models.Reservation{res})
	assert.Equal(t, models.TableOccupied, status)
}

func TestDeriveStatusOutsideWindowFallsBackToManual(t *testing.T) {
	start := mustTime(t, "2025-06-01 14:00")
	res := models.Reservation{StartAt: start, DurationMinutes: 60, Status: models.ReservationPending}
	now := mustTime(t, "2025-06-01 15:00") // tepat di batas akhir, half-open

	table := models.Table{TableID: "T1", Status: models.TableAvailable, BaseStatus: models.TableAvailable}
	status, current := DeriveStatus(table, now, []models.Reservation{res})
	assert.Equal(t, models.TableAvailable, status)
	assert.Nil(t, current)

	// maintenance manual tidak pernah di-revert diam-diam
	table.BaseStatus = models.TableMaintenance
	status, _ = DeriveStatus(table, now, []models.Reservation{res})
	assert.Equal(t, models.TableMaintenance, status)
}

func TestDeriveStatusIsIdempotent(t *testing.T) {
	table := models.Table{TableID: "T1", Status: models.TableAvailable, BaseStatus: models.TableAvailable}
	start := mustTime(t, "2025-06-01 14:00")
	res := []models.Reservation{
		{ID: 3, StartAt: start, DurationMinutes: 90, Status: models.ReservationSeated},
	}
	now := mustTime(t, "2025-06-01 14:30")

	status1, current1 := DeriveStatus(table, now, res)
	status2, current2 := DeriveStatus(table, now, res)
	assert.Equal(t, status1, status2)
	assert.Equal(t, current1.ID, current2.ID)
}

func TestCanTransitionLifecycle(t *testing.T) {
	assert.True(t, models.CanTransition(models.ReservationPending, models.ReservationConfirmed))
	assert.True(t, models.CanTransition(models.ReservationPending, models.ReservationCompleted))
	assert.True(t, models.CanTransition(models.ReservationConfirmed, models.ReservationNoShow))

	// Tidak ada jalan mundur dan tidak ada transisi keluar dari terminal
	assert.False(t, models.CanTransition(models.ReservationSeated, models.ReservationConfirmed))
	assert.False(t, models.CanTransition(models.ReservationCompleted, models.ReservationSeated))
	assert.False(t, models.CanTransition(models.ReservationCancelled, models.ReservationPending))
	assert.False(t, models.CanTransition(models.ReservationNoShow, models.ReservationSeated))
}
