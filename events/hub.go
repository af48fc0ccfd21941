package events

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-reservation/models"
)

// Event types
const (
	EventTableCreate       = "table_create"
	EventTableUpdate       = "table_update"
	EventTableDelete       = "table_delete"
	EventLayoutUpdate      = "layout_update"
	EventReservationCreate = "reservation_create"
	EventReservationUpdate = "reservation_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// FloorHub menampung semua client floor-map (staff, manager, admin) dan
// menyiarkan perubahan meja/reservasi secara realtime.
type FloorHub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var floorHub = FloorHub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient -> menambahkan connection ke set dengan role
func RegisterClient(conn *websocket.Conn, role string) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	floorHub.clients[conn] = role
}

// UnregisterClient -> melepaskan connection
func UnregisterClient(conn *websocket.Conn) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	delete(floorHub.clients, conn)
	conn.Close()
}

// ClientCount dipakai monitor untuk skip broadcast saat tidak ada client.
func ClientCount() int {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	return len(floorHub.clients)
}

// BroadcastTableCreate -> notifikasi meja baru dibuat
func BroadcastTableCreate(table models.Table) {
	broadcast(Message{Event: EventTableCreate, Data: table})
}

// BroadcastTableUpdate -> update status/posisi meja
func BroadcastTableUpdate(table models.Table) {
	broadcast(Message{Event: EventTableUpdate, Data: table})
}

// BroadcastTableDelete -> notifikasi meja dinonaktifkan
func BroadcastTableDelete(tableID string) {
	broadcast(Message{Event: EventTableDelete, Data: map[string]interface{}{
		"table_id": tableID,
	}})
}

// BroadcastLayoutUpdate -> konfigurasi lantai berubah
func BroadcastLayoutUpdate(layout models.FloorLayout) {
	broadcast(Message{Event: EventLayoutUpdate, Data: layout})
}

// BroadcastReservationCreate -> reservasi baru masuk
func BroadcastReservationCreate(res models.Reservation) {
	broadcast(Message{Event: EventReservationCreate, Data: res})
}

// BroadcastReservationUpdate -> status lifecycle reservasi berubah
func BroadcastReservationUpdate(res models.Reservation) {
	broadcast(Message{Event: EventReservationUpdate, Data: res})
}

// broadcast -> fungsi internal untuk mengirim pesan ke semua client
func broadcast(msg Message) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()

	if len(floorHub.clients) == 0 {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	for conn := range floorHub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			continue
		}
	}
}
