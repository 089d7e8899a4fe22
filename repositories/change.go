package repositories

import (
	"encoding/json"
	"mediator/domain/event"
	"strings"
	"time"
)

// WatchedPrefixes are the key families whose writes are published as changes.
var WatchedPrefixes = []string{RoomPrefix, MembershipPrefix, MessagePrefix}

// DecodeChange turns a committed key/value pair into a change event.
// A row is an insert while its updated_at is zero or still equals its
// created_at, rooms being stamped with both at creation.
func DecodeChange(key, value []byte, at time.Time) (event.Change, bool) {
	var table event.Table
	k := string(key)
	switch {
	case strings.HasPrefix(k, MessagePrefix):
		table = event.TableMessages
	case strings.HasPrefix(k, MembershipPrefix):
		table = event.TableMemberships
	case strings.HasPrefix(k, RoomPrefix):
		table = event.TableRooms
	default:
		return event.Change{}, false
	}

	var header struct {
		RoomCode  string    `json:"room_code"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}
	if len(value) == 0 || json.Unmarshal(value, &header) != nil || header.RoomCode == "" {
		return event.Change{}, false
	}

	changeType := event.ChangeInsert
	if !header.UpdatedAt.IsZero() && !header.UpdatedAt.Equal(header.CreatedAt) {
		changeType = event.ChangeUpdate
	}
	return event.Change{
		Table:    table,
		Type:     changeType,
		RoomCode: header.RoomCode,
		Record:   json.RawMessage(append([]byte(nil), value...)),
		At:       at,
	}, true
}
