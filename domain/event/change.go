package event

import (
	"encoding/json"
	"fmt"
	"time"
)

type Table string

const (
	TableMessages    Table = "messages"
	TableMemberships Table = "memberships"
	TableRooms       Table = "rooms"
)

type ChangeType string

const (
	ChangeInsert ChangeType = "insert"
	ChangeUpdate ChangeType = "update"
)

// Change is emitted for every committed write on a room scoped record.
// Record holds the stored JSON document as is.
type Change struct {
	Table    Table           `json:"table"`
	Type     ChangeType      `json:"type"`
	RoomCode string          `json:"room_code"`
	Record   json.RawMessage `json:"record"`
	At       time.Time       `json:"at"`
}

// Subject is the routing key subscribers filter on.
func (c Change) Subject(namespace string) string {
	return fmt.Sprintf("%s.room.%s.%s.%s", namespace, c.RoomCode, c.Table, c.Type)
}
