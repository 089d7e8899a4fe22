package internal

import (
	"encoding/json"
	"fmt"
	"mediator/repositories"
	"strings"

	"github.com/mama165/sdk-go/database"
)

// StoreMapper renders the badger entries of the chat in the debug inspector.
func StoreMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)

	switch {
	case strings.HasPrefix(key, repositories.RoomPrefix):
		var room repositories.DiskRoom
		if err := json.Unmarshal(val, &room); err != nil {
			row.Detail = "Error: unmarshal failed"
			return row
		}
		row.Type = "ROOM"
		row.Detail = fmt.Sprintf("%s [%s] by %s", room.RoomName, room.MediatorType, room.CreatorEmail)
		if room.ParentRoomCode != "" {
			row.Type = "BREAKOUT"
			row.Detail += " parent " + room.ParentRoomCode
		}
	case strings.HasPrefix(key, repositories.MembershipPrefix):
		var membership repositories.DiskMembership
		if err := json.Unmarshal(val, &membership); err != nil {
			row.Detail = "Error: unmarshal failed"
			return row
		}
		row.Type = "MEMBER"
		row.Detail = fmt.Sprintf("%s %s", membership.Email, membership.Status)
		row.Scores = fmt.Sprintf("input:%t", membership.IsInputEnable)
	case strings.HasPrefix(key, repositories.MessagePrefix):
		var message repositories.DiskMessage
		if err := json.Unmarshal(val, &message); err != nil {
			row.Detail = "Error: unmarshal failed"
			return row
		}
		row.Type = strings.ToUpper(message.Role)
		row.Detail = message.Content
		row.Scores = fmt.Sprintf("public:%t context:%t", message.IsPublic, message.IsContext)
	}
	return row
}
