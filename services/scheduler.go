package services

import (
	"time"

	"github.com/yeremiapane/restaurant-reservation/models"
)

// Overlaps -> dua jendela half-open [s1,e1) dan [s2,e2) bertabrakan
// iff s1 < e2 && s2 < e1. Jendela yang bersinggungan tepat di batas
// (e1 == s2) tidak dianggap tabrakan.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// FindConflict memeriksa kandidat [start, end) terhadap reservasi non-terminal
// milik satu meja. Mengembalikan reservasi pertama yang tabrakan, atau nil.
func FindConflict(start, end time.Time, existing []models.Reservation) *models.Reservation {
	for i := range existing {
		if existing[i].IsTerminal() {
			continue
		}
		s, e := existing[i].Window()
		if Overlaps(start, end, s, e) {
			return &existing[i]
		}
	}
	return nil
}

// DeriveStatus menghitung status live sebuah meja dari "now" + reservasi
// aktifnya. Fungsi murni: dipanggil dua kali dengan input sama hasilnya sama.
//
// Scan berhenti di jendela pertama yang memuat now (reservasi satu meja tidak
// saling overlap, jadi first-match deterministik). Kalau tidak ada jendela
// yang memuat now, status jatuh ke BaseStatus manual meja: maintenance tidak
// pernah di-revert diam-diam, selain itu available. Fallback sengaja membaca
// BaseStatus, bukan Status: kolom Status adalah cache yang baru saja bisa
// ditimpa reserved/occupied oleh derivasi sebelumnya.
func DeriveStatus(table models.Table, now time.Time, active []models.Reservation) (string, *models.Reservation) {
	for i := range active {
		if active[i].IsTerminal() {
			continue
		}
		s, e := active[i].Window()
		if !now.Before(s) && now.Before(e) {
			if active[i].Status == models.ReservationSeated {
				return models.TableOccupied, &active[i]
			}
			return models.TableReserved, &active[i]
		}
	}
	if table.BaseStatus == models.TableMaintenance {
		return models.TableMaintenance, nil
	}
	return models.TableAvailable, nil
}
