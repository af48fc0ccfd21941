package services

import "sync"

// Satu mutex per tableId, dipakai bersama oleh reservation service dan
// table service: cek-lalu-tulis (cek konflik + insert reservasi, cek
// reservasi aktif + soft delete) harus jadi satu unit atomik per meja.
var tableLocks sync.Map // tableId -> *sync.Mutex

func lockTable(tableID string) *sync.Mutex {
	mu, _ := tableLocks.LoadOrStore(tableID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
