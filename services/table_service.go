package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/gorm"
)

type TableService struct {
	DB     *gorm.DB
	Layout *LayoutService
}

func NewTableService(db *gorm.DB) *TableService {
	return &TableService{DB: db, Layout: NewLayoutService(db)}
}

// TableSpec -> input pembuatan meja baru.
type TableSpec struct {
	TableNumber string  `json:"table_number" validate:"required"`
	FloorIndex  int     `json:"floor_index" validate:"gte=0"`
	Type        string  `json:"type"`
	Seats       int     `json:"seats" validate:"required"`
	PosX        float64 `json:"pos_x"`
	PosY        float64 `json:"pos_y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Notes       string  `json:"notes"`
}

// PositionPatch -> posisi baru sebuah meja. Semua koordinat wajib numerik
// (JSON yang membawa string/NaN gagal di binding, sisanya dicek di sini).
type PositionPatch struct {
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
}

// TablePatch -> partial update; hanya field non-nil yang di-merge,
// field lain dipertahankan apa adanya.
type TablePatch struct {
	TableNumber *string        `json:"table_number"`
	FloorIndex  *int           `json:"floor_index"`
	Type        *string        `json:"type"`
	Seats       *int           `json:"seats"`
	Position    *PositionPatch `json:"position"`
	Status      *string        `json:"status"`
	Notes       *string        `json:"notes"`
	Version     *int64         `json:"version"`
}

// PositionUpdate -> satu entri bulk update posisi dari layout editor.
type PositionUpdate struct {
	TableID  string        `json:"table_id" validate:"required"`
	Position PositionPatch `json:"position"`
	Version  int64         `json:"version" validate:"required"`
}

// CreateTable memvalidasi spec terhadap layout restoran lalu menyimpan meja
// baru dengan TableID unik hasil generate dan status available.
func (ts *TableService) CreateTable(restaurantID uint, spec TableSpec) (models.Table, error) {
	var table models.Table

	if spec.Seats < models.MinSeats || spec.Seats > models.MaxSeats {
		return table, fmt.Errorf("%w: seats must be between %d and %d", ErrValidation, models.MinSeats, models.MaxSeats)
	}
	if spec.Type == "" {
		spec.Type = models.TableTypeNormal
	}
	if !models.ValidTableType(spec.Type) {
		return table, fmt.Errorf("%w: unknown table type %q", ErrValidation, spec.Type)
	}

	layout, _, err := ts.Layout.GetLayout(restaurantID)
	if err != nil {
		return table, err
	}
	if spec.FloorIndex < 0 || spec.FloorIndex >= layout.Floors {
		return table, fmt.Errorf("%w: floor_index %d out of range (floors=%d)", ErrValidation, spec.FloorIndex, layout.Floors)
	}
	if spec.Width <= 0 {
		spec.Width = 80
	}
	if spec.Height <= 0 {
		spec.Height = 80
	}
	if err := checkBounds(spec.PosX, spec.PosY, spec.Width, spec.Height, layout); err != nil {
		return table, err
	}

	table = models.Table{
		TableID:      utils.NewTableID(),
		RestaurantID: restaurantID,
		TableNumber:  spec.TableNumber,
		FloorIndex:   spec.FloorIndex,
		Type:         spec.Type,
		Seats:        spec.Seats,
		PosX:         spec.PosX,
		PosY:         spec.PosY,
		Width:        spec.Width,
		Height:       spec.Height,
		Status:       models.TableAvailable,
		BaseStatus:   models.TableAvailable,
		IsActive:     true,
		Notes:        spec.Notes,
		Version:      1,
	}
	if err := ts.DB.Create(&table).Error; err != nil {
		return table, err
	}
	return table, nil
}

// GetTable -> meja aktif berdasarkan TableID opaque.
func (ts *TableService) GetTable(restaurantID uint, tableID string) (models.Table, error) {
	var table models.Table
	err := ts.DB.Where("restaurant_id = ? AND table_id = ?", restaurantID, tableID).First(&table).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return table, fmt.Errorf("%w: table %s", ErrNotFound, tableID)
	}
	return table, err
}

// UpdateTable merge patch field-per-field ke meja tersimpan. Edit posisi
// dilindungi token Version: token basi ditolak dengan ErrConflict supaya
// edit konkuren tidak saling menimpa diam-diam.
func (ts *TableService) UpdateTable(restaurantID uint, tableID string, patch TablePatch) (models.Table, error) {
	table, err := ts.GetTable(restaurantID, tableID)
	if err != nil {
		return table, err
	}

	if patch.Version != nil && *patch.Version != table.Version {
		return table, fmt.Errorf("%w: stale version token %d (current %d)", ErrConflict, *patch.Version, table.Version)
	}

	layout, _, err := ts.Layout.GetLayout(restaurantID)
	if err != nil {
		return table, err
	}

	if patch.TableNumber != nil {
		table.TableNumber = *patch.TableNumber
	}
	if patch.FloorIndex != nil {
		if *patch.FloorIndex < 0 || *patch.FloorIndex >= layout.Floors {
			return table, fmt.Errorf("%w: floor_index %d out of range (floors=%d)", ErrValidation, *patch.FloorIndex, layout.Floors)
		}
		table.FloorIndex = *patch.FloorIndex
	}
	if patch.Type != nil {
		if !models.ValidTableType(*patch.Type) {
			return table, fmt.Errorf("%w: unknown table type %q", ErrValidation, *patch.Type)
		}
		table.Type = *patch.Type
	}
	if patch.Seats != nil {
		if *patch.Seats < models.MinSeats || *patch.Seats > models.MaxSeats {
			return table, fmt.Errorf("%w: seats must be between %d and %d", ErrValidation, models.MinSeats, models.MaxSeats)
		}
		table.Seats = *patch.Seats
	}
	if patch.Status != nil {
		// Hanya status manual yang boleh di-set langsung; reserved/occupied
		// milik deriver. Flag manual masuk ke BaseStatus; cache ikut ditulis
		// dan monitor yang mengoreksi kalau ada jendela yang sedang berjalan.
		if *patch.Status != models.TableAvailable && *patch.Status != models.TableMaintenance {
			return table, fmt.Errorf("%w: status %q cannot be set manually", ErrValidation, *patch.Status)
		}
		table.BaseStatus = *patch.Status
		table.Status = *patch.Status
	}
	if patch.Notes != nil {
		table.Notes = *patch.Notes
	}
	if patch.Position != nil {
		if err := applyPosition(&table, *patch.Position, layout); err != nil {
			return table, err
		}
		table.Version++
	}

	table.UpdatedAt = time.Now()
	if err := ts.DB.Save(&table).Error; err != nil {
		return table, err
	}
	return table, nil
}

// UpdatePositions menerapkan bulk edit posisi dari layout editor. Setiap
// entri dicek token versinya dulu; satu token basi membatalkan seluruh batch.
func (ts *TableService) UpdatePositions(restaurantID uint, updates []PositionUpdate) ([]models.Table, error) {
	var result []models.Table

	layout, _, err := ts.Layout.GetLayout(restaurantID)
	if err != nil {
		return nil, err
	}

	err = ts.DB.Transaction(func(tx *gorm.DB) error {
		for _, upd := range updates {
			var table models.Table
			if err := tx.Where("restaurant_id = ? AND table_id = ?", restaurantID, upd.TableID).
				First(&table).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: table %s", ErrNotFound, upd.TableID)
				}
				return err
			}
			if upd.Version != table.Version {
				return fmt.Errorf("%w: stale version token for table %s", ErrConflict, upd.TableID)
			}
			if err := applyPosition(&table, upd.Position, layout); err != nil {
				return err
			}
			table.Version++
			table.UpdatedAt = time.Now()
			if err := tx.Save(&table).Error; err != nil {
				return err
			}
			result = append(result, table)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteTable -> soft delete. Diblok selama masih ada reservasi
// pending/confirmed/seated untuk meja ini; history reservasi dipertahankan.
// Memegang lock meja yang sama dengan CreateReservation supaya booking
// konkuren tidak bisa menyelip di antara cek dan penulisan.
func (ts *TableService) DeleteTable(restaurantID uint, tableID string) error {
	mu := lockTable(tableID)
	mu.Lock()
	defer mu.Unlock()

	return ts.DB.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		err := tx.Where("restaurant_id = ? AND table_id = ?", restaurantID, tableID).
			First(&table).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: table %s", ErrNotFound, tableID)
		}
		if err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&models.Reservation{}).
			Where("table_id = ? AND status IN ?", tableID, models.ActiveReservationStatuses).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return fmt.Errorf("%w: table has %d active reservation(s)", ErrConflict, active)
		}

		table.IsActive = false
		table.UpdatedAt = time.Now()
		return tx.Save(&table).Error
	})
}

// ListTables -> meja aktif restoran, opsional difilter per lantai.
func (ts *TableService) ListTables(restaurantID uint, floorIndex *int) ([]models.Table, error) {
	q := ts.DB.Where("restaurant_id = ? AND is_active = ?", restaurantID, true)
	if floorIndex != nil {
		q = q.Where("floor_index = ?", *floorIndex)
	}
	var tables []models.Table
	err := q.Order("floor_index, table_number").Find(&tables).Error
	return tables, err
}

// TableWithStatus -> meja plus status hasil derivasi untuk view floor-map.
type TableWithStatus struct {
	models.Table
	DerivedStatus      string              `json:"derived_status"`
	CurrentReservation *models.Reservation `json:"current_reservation,omitempty"`
}

// StatusBoard mengembalikan semua meja dengan status live ("now") plus
// reservasi non-terminal pada tanggal yang diminta. Status selalu dihitung
// ulang dari deriver, bukan dibaca dari cache.
func (ts *TableService) StatusBoard(restaurantID uint, day time.Time, now time.Time) ([]TableWithStatus, []models.Reservation, error) {
	tables, err := ts.ListTables(restaurantID, nil)
	if err != nil {
		return nil, nil, err
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var dayReservations []models.Reservation
	if err := ts.DB.Where("restaurant_id = ? AND start_at >= ? AND start_at < ?", restaurantID, dayStart, dayEnd).
		Order("start_at").Find(&dayReservations).Error; err != nil {
		return nil, nil, err
	}

	var activeNow []models.Reservation
	if err := ts.DB.Where("restaurant_id = ? AND status IN ?", restaurantID, models.ActiveReservationStatuses).
		Find(&activeNow).Error; err != nil {
		return nil, nil, err
	}
	byTable := make(map[string][]models.Reservation)
	for _, r := range activeNow {
		byTable[r.TableID] = append(byTable[r.TableID], r)
	}

	board := make([]TableWithStatus, 0, len(tables))
	for _, t := range tables {
		status, current := DeriveStatus(t, now, byTable[t.TableID])
		board = append(board, TableWithStatus{
			Table:              t,
			DerivedStatus:      status,
			CurrentReservation: current,
		})
	}
	return board, dayReservations, nil
}

func applyPosition(table *models.Table, pos PositionPatch, layout models.FloorLayout) error {
	x, y := table.PosX, table.PosY
	w, h := table.Width, table.Height
	if pos.X != nil {
		x = *pos.X
	}
	if pos.Y != nil {
		y = *pos.Y
	}
	if pos.Width != nil {
		w = *pos.Width
	}
	if pos.Height != nil {
		h = *pos.Height
	}
	if err := checkBounds(x, y, w, h, layout); err != nil {
		return err
	}
	table.PosX, table.PosY = x, y
	table.Width, table.Height = w, h
	return nil
}

func checkBounds(x, y, w, h float64, layout models.FloorLayout) error {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsNaN(w) || math.IsNaN(h) {
		return fmt.Errorf("%w: position must be numeric", ErrValidation)
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: width and height must be positive", ErrValidation)
	}
	if x < 0 || y < 0 || x+w > layout.CanvasWidth || y+h > layout.CanvasHeight {
		return fmt.Errorf("%w: position outside canvas %gx%g", ErrValidation, layout.CanvasWidth, layout.CanvasHeight)
	}
	return nil
}
