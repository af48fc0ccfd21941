package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/restaurant-reservation/models"
)

func TestMonitorRefreshFlipsStatusAcrossWindow(t *testing.T) {
	db := setupServiceDB(t)
	table := seedTable(t, db, 4)
	svc := NewReservationService(db)
	monitor := NewStatusMonitor(db)

	_, err := svc.CreateReservation(1, ReservationRequest{
		TableID: table.TableID, CustomerName: "Budi", PartySize: 2,
		StartAt: at("2025-06-01", "14:00"), DurationMinutes: 60,
	}, at("2025-06-01", "10:00"))
	assert.NoError(t, err)

	var stored models.Table
	assert.NoError(t, db.First(&stored, table.ID).Error)
	assert.Equal(t, models.TableAvailable, stored.Status)

	// Jendela mulai tanpa ada panggilan API: refresh menandai reserved
	monitor.refresh(at("2025-06-01", "14:10"))
	assert.NoError(t, db.First(&stored, table.ID).Error)
	assert.Equal(t, models.TableReserved, stored.Status)
	assert.NotNil(t, stored.CurrentReservationID)

	// Jendela lewat: cache kembali ke available, pointer dibersihkan
	monitor.refresh(at("2025-06-01", "15:30"))
	assert.NoError(t, db.First(&stored, table.ID).Error)
	assert.Equal(t, models.TableAvailable, stored.Status)
	assert.Nil(t, stored.CurrentReservationID)
}

func TestMonitorRefreshRestoresMaintenanceAfterWindow(t *testing.T) {
	db := setupServiceDB(t)
	table := seedTable(t, db, 4)
	svc := NewReservationService(db)
	monitor := NewStatusMonitor(db)

	_, err := svc.CreateReservation(1, ReservationRequest{
		TableID: table.TableID, CustomerName: "Sari", PartySize: 2,
		StartAt: at("2025-06-01", "14:00"), DurationMinutes: 60,
	}, at("2025-06-01", "10:00"))
	assert.NoError(t, err)

	maintenance := models.TableMaintenance
	_, err = NewTableService(db).UpdateTable(1, table.TableID, TablePatch{Status: &maintenance})
	assert.NoError(t, err)

	// Jendela memuat now: derivasi menang dan menulis reserved ke cache
	monitor.refresh(at("2025-06-01", "14:30"))
	var stored models.Table
	assert.NoError(t, db.First(&stored, table.ID).Error)
	assert.Equal(t, models.TableReserved, stored.Status)

	// Jendela lewat: flag maintenance manual harus kembali, bukan available
	monitor.refresh(at("2025-06-01", "15:30"))
	assert.NoError(t, db.First(&stored, table.ID).Error)
	assert.Equal(t, models.TableMaintenance, stored.Status)
	assert.Equal(t, models.TableMaintenance, stored.BaseStatus)
}
