package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/yeremiapane/restaurant-reservation/events"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/gorm"
)

type ReservationService struct {
	DB     *gorm.DB
	Tables *TableService
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{DB: db, Tables: NewTableService(db)}
}

// ReservationRequest -> input pembuatan reservasi.
type ReservationRequest struct {
	TableID         string    `json:"table_id" validate:"required"`
	CustomerName    string    `json:"customer_name" validate:"required"`
	CustomerPhone   string    `json:"customer_phone"`
	CustomerEmail   string    `json:"customer_email" validate:"omitempty,email"`
	PartySize       int       `json:"party_size" validate:"required,gte=1"`
	StartAt         time.Time `json:"start_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required"`
	DepositAmount   float64   `json:"deposit_amount"`
	SpecialRequests string    `json:"special_requests"`
}

// CreateReservation menjalankan alur §booking: load meja aktif, cek kapasitas,
// cek tabrakan jendela terhadap reservasi non-terminal, simpan dengan status
// pending, lalu refresh cache status meja. Gagal di langkah mana pun
// meninggalkan state persis seperti sebelum panggilan.
func (rs *ReservationService) CreateReservation(restaurantID uint, req ReservationRequest, now time.Time) (models.Reservation, error) {
	var res models.Reservation

	if req.DurationMinutes < models.MinDurationMinutes || req.DurationMinutes > models.MaxDurationMinutes {
		return res, fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrValidation, models.MinDurationMinutes, models.MaxDurationMinutes)
	}
	if req.PartySize < 1 {
		return res, fmt.Errorf("%w: party_size must be at least 1", ErrValidation)
	}
	if req.StartAt.IsZero() {
		return res, fmt.Errorf("%w: start_at is required", ErrValidation)
	}

	mu := lockTable(req.TableID)
	mu.Lock()
	defer mu.Unlock()

	err := rs.DB.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		err := tx.Where("restaurant_id = ? AND table_id = ? AND is_active = ?", restaurantID, req.TableID, true).
			First(&table).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: table %s", ErrNotFound, req.TableID)
		}
		if err != nil {
			return err
		}

		if req.PartySize > table.Seats {
			return fmt.Errorf("%w: party of %d on a %d-seat table", ErrCapacityExceeded, req.PartySize, table.Seats)
		}

		var existing []models.Reservation
		if err := tx.Where("table_id = ? AND status IN ?", req.TableID, models.ActiveReservationStatuses).
			Find(&existing).Error; err != nil {
			return err
		}

		start := req.StartAt
		end := start.Add(time.Duration(req.DurationMinutes) * time.Minute)
		if clash := FindConflict(start, end, existing); clash != nil {
			return fmt.Errorf("%w: overlaps reservation #%d (%s)", ErrSchedulingConflict, clash.ID, clash.Status)
		}

		res = models.Reservation{
			RestaurantID:    restaurantID,
			TableID:         req.TableID,
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			CustomerEmail:   req.CustomerEmail,
			PartySize:       req.PartySize,
			StartAt:         start,
			DurationMinutes: req.DurationMinutes,
			Status:          models.ReservationPending,
			DepositAmount:   req.DepositAmount,
			SpecialRequests: req.SpecialRequests,
		}
		if err := tx.Create(&res).Error; err != nil {
			return err
		}

		// Refresh cache status meja; kalau jendela reservasi baru sudah
		// memuat "now", meja langsung reserved.
		existing = append(existing, res)
		status, current := DeriveStatus(table, now, existing)
		table.Status = status
		table.CurrentReservationID = nil
		if current != nil {
			table.CurrentReservationID = &current.ID
		}
		return tx.Save(&table).Error
	})
	if err != nil {
		return models.Reservation{}, err
	}

	events.BroadcastReservationCreate(res)
	utils.InfoLogger.Printf("Reservation #%d created: table=%s party=%d start=%s",
		res.ID, res.TableID, res.PartySize, res.StartAt.Format(time.RFC3339))
	return res, nil
}

// GetReservation -> satu reservasi berdasarkan id.
func (rs *ReservationService) GetReservation(id uint) (models.Reservation, error) {
	var res models.Reservation
	err := rs.DB.First(&res, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return res, fmt.Errorf("%w: reservation %d", ErrNotFound, id)
	}
	return res, err
}

// TransitionReservation menggerakkan lifecycle lewat edge yang diizinkan saja.
// Reservasi terminal tidak bisa ditransisikan lagi (immutable history).
// Cache status meja di-write-through sesuai state tujuan.
func (rs *ReservationService) TransitionReservation(id uint, newStatus string, now time.Time) (models.Reservation, error) {
	if !models.ValidReservationStatus(newStatus) {
		return models.Reservation{}, fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}

	res, err := rs.GetReservation(id)
	if err != nil {
		return res, err
	}

	mu := lockTable(res.TableID)
	mu.Lock()
	defer mu.Unlock()

	err = rs.DB.Transaction(func(tx *gorm.DB) error {
		// Re-load di dalam transaksi; state bisa berubah selama menunggu lock.
		if err := tx.First(&res, id).Error; err != nil {
			return err
		}
		if !models.CanTransition(res.Status, newStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, res.Status, newStatus)
		}

		var table models.Table
		if err := tx.Where("table_id = ?", res.TableID).First(&table).Error; err != nil &&
			!errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		hasTable := table.ID != 0

		prev := res.Status
		res.Status = newStatus
		res.UpdatedAt = now

		switch newStatus {
		case models.ReservationConfirmed:
			// Idempotent: confirm ulang tidak menimpa timestamp yang sudah ada.
			if res.ConfirmedAt == nil {
				stamp := now
				res.ConfirmedAt = &stamp
			}
		case models.ReservationSeated:
			stamp := now
			res.SeatedAt = &stamp
			if hasTable {
				table.Status = models.TableOccupied
				table.CurrentReservationID = &res.ID
			}
		case models.ReservationCompleted:
			stamp := now
			res.CompletedAt = &stamp
		case models.ReservationCancelled, models.ReservationNoShow:
			stamp := now
			res.CancelledAt = &stamp
		}

		if err := tx.Save(&res).Error; err != nil {
			return err
		}

		if hasTable {
			if res.IsTerminal() {
				// Lepas meja: pointer dibersihkan, cache balik ke base status
				// manual (maintenance tidak di-revert diam-diam).
				table.CurrentReservationID = nil
				if table.BaseStatus == models.TableMaintenance {
					table.Status = models.TableMaintenance
				} else {
					table.Status = models.TableAvailable
				}
			}
			if err := tx.Save(&table).Error; err != nil {
				return err
			}
		}

		utils.InfoLogger.Printf("Reservation #%d: %s -> %s", res.ID, prev, newStatus)
		return nil
	})
	if err != nil {
		return models.Reservation{}, err
	}

	events.BroadcastReservationUpdate(res)
	return res, nil
}

// ListReservations -> reservasi restoran, opsional difilter tanggal dan status.
func (rs *ReservationService) ListReservations(restaurantID uint, day *time.Time, status string) ([]models.Reservation, error) {
	q := rs.DB.Where("restaurant_id = ?", restaurantID)
	if day != nil {
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		q = q.Where("start_at >= ? AND start_at < ?", dayStart, dayStart.Add(24*time.Hour))
	}
	if status != "" {
		if !models.ValidReservationStatus(status) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
		}
		q = q.Where("status = ?", status)
	}
	var list []models.Reservation
	err := q.Order("start_at").Find(&list).Error
	return list, err
}
