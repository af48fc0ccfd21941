package services

import (
	"time"

	"github.com/yeremiapane/restaurant-reservation/events"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/gorm"
)

// StatusMonitor menyegarkan cache status meja secara periodik. Jendela
// reservasi bisa mulai/berakhir tanpa ada panggilan API di antaranya;
// monitor ini yang menjaga list view tetap jujur dan menyiarkan flip
// status ke client floor-map.
type StatusMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewStatusMonitor(db *gorm.DB) *StatusMonitor {
	return &StatusMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 30 * time.Second,
	}
}

func (sm *StatusMonitor) Start() {
	go func() {
		ticker := time.NewTicker(sm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sm.refresh(time.Now())
			case <-sm.StopChan:
				return
			}
		}
	}()
}

func (sm *StatusMonitor) Stop() {
	close(sm.StopChan)
}

// refresh menghitung ulang status semua meja aktif dari deriver dan
// menulis-through cache yang berubah.
func (sm *StatusMonitor) refresh(now time.Time) {
	var tables []models.Table
	if err := sm.DB.Where("is_active = ?", true).Find(&tables).Error; err != nil {
		utils.ErrorLogger.Printf("status monitor: fetching tables: %v", err)
		return
	}
	if len(tables) == 0 {
		return
	}

	var active []models.Reservation
	if err := sm.DB.Where("status IN ?", models.ActiveReservationStatuses).
		Find(&active).Error; err != nil {
		utils.ErrorLogger.Printf("status monitor: fetching reservations: %v", err)
		return
	}
	byTable := make(map[string][]models.Reservation)
	for _, r := range active {
		byTable[r.TableID] = append(byTable[r.TableID], r)
	}

	flips := 0
	for i := range tables {
		table := tables[i]
		status, current := DeriveStatus(table, now, byTable[table.TableID])

		var currentID *uint
		if current != nil {
			currentID = &current.ID
		}
		if status == table.Status && equalPtr(currentID, table.CurrentReservationID) {
			continue
		}

		table.Status = status
		table.CurrentReservationID = currentID
		if err := sm.DB.Model(&models.Table{}).Where("id = ?", table.ID).
			Updates(map[string]interface{}{
				"status":                 status,
				"current_reservation_id": currentID,
			}).Error; err != nil {
			utils.ErrorLogger.Printf("status monitor: updating table %s: %v", table.TableID, err)
			continue
		}
		flips++
		events.BroadcastTableUpdate(table)
	}

	if flips > 0 {
		utils.InfoLogger.Printf("Status monitor refreshed %d table(s)", flips)
	}
}

func equalPtr(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
