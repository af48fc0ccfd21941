package models

import "time"

// Lifecycle reservasi: pending -> confirmed -> seated -> completed,
// dengan cancelled / no_show sebagai terminal dari state non-terminal mana pun.
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationSeated    = "seated"
	ReservationCompleted = "completed"
	ReservationCancelled = "cancelled"
	ReservationNoShow    = "no_show"
)

const (
	MinDurationMinutes = 30
	MaxDurationMinutes = 480
)

// ActiveReservationStatuses -> status yang masih menduduki jendela waktu meja.
var ActiveReservationStatuses = []string{
	ReservationPending,
	ReservationConfirmed,
	ReservationSeated,
}

// allowedTransitions memetakan edge lifecycle yang sah. Tidak ada jalan
// mundur dan tidak ada transisi keluar dari state terminal.
var allowedTransitions = map[string][]string{
	ReservationPending:   {ReservationConfirmed, ReservationSeated, ReservationCompleted, ReservationCancelled, ReservationNoShow},
	ReservationConfirmed: {ReservationSeated, ReservationCompleted, ReservationCancelled, ReservationNoShow},
	ReservationSeated:    {ReservationCompleted, ReservationCancelled, ReservationNoShow},
}

type Reservation struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	RestaurantID uint   `gorm:"index;not null" json:"restaurant_id"`
	TableID      string `gorm:"type:varchar(64);index;not null" json:"table_id"`

	CustomerName  string `gorm:"type:varchar(100);not null" json:"customer_name"`
	CustomerPhone string `gorm:"type:varchar(30)" json:"customer_phone,omitempty"`
	CustomerEmail string `gorm:"type:varchar(100)" json:"customer_email,omitempty"`
	PartySize     int    `gorm:"not null" json:"party_size"`

	StartAt         time.Time `gorm:"index;not null" json:"start_at"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`

	Status          string  `gorm:"type:varchar(20);index;not null;default:'pending'" json:"status"`
	DepositAmount   float64 `gorm:"type:decimal(10,2);default:0" json:"deposit_amount"`
	DepositPaid     bool    `gorm:"not null;default:false" json:"deposit_paid"`
	SpecialRequests string  `gorm:"type:text" json:"special_requests,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	SeatedAt    *time.Time `json:"seated_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Window mengembalikan jendela waktu half-open [start, start+durasi).
func (r *Reservation) Window() (time.Time, time.Time) {
	return r.StartAt, r.StartAt.Add(time.Duration(r.DurationMinutes) * time.Minute)
}

func (r *Reservation) IsTerminal() bool {
	switch r.Status {
	case ReservationCompleted, ReservationCancelled, ReservationNoShow:
		return true
	}
	return false
}

// CanTransition -> true jika edge from->to ada di tabel lifecycle.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ValidReservationStatus(s string) bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationSeated,
		ReservationCompleted, ReservationCancelled, ReservationNoShow:
		return true
	}
	return false
}
