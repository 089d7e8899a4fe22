package internal

import (
	"encoding/json"
	"mediator/repositories"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreMapper(t *testing.T) {
	marshal := func(v any) []byte {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		return data
	}

	tests := []struct {
		name   string
		key    string
		val    []byte
		typ    string
		detail string
		scores string
	}{
		{
			name:   "top-level room",
			key:    "room:ROOMAAAAAAAAA",
			val:    marshal(repositories.DiskRoom{RoomName: "Invoice", MediatorType: "lawyer", CreatorEmail: "alice@x.com"}),
			typ:    "ROOM",
			detail: "Invoice [lawyer] by alice@x.com",
		},
		{
			name:   "breakout room",
			key:    "room:BREAKOUTAAAAA",
			val:    marshal(repositories.DiskRoom{RoomName: "Invoice - bob@x.com", MediatorType: "lawyer", CreatorEmail: "bob@x.com", ParentRoomCode: "ROOMAAAAAAAAA"}),
			typ:    "BREAKOUT",
			detail: "Invoice - bob@x.com [lawyer] by bob@x.com parent ROOMAAAAAAAAA",
		},
		{
			name:   "membership",
			key:    "member:ROOMAAAAAAAAA:bob@x.com",
			val:    marshal(repositories.DiskMembership{Email: "bob@x.com", Status: "in_caucus"}),
			typ:    "MEMBER",
			detail: "bob@x.com in_caucus",
			scores: "input:false",
		},
		{
			name:   "message",
			key:    "msg:ROOMAAAAAAAAA:0000000000000000001:id",
			val:    marshal(repositories.DiskMessage{Content: "hello", Role: "user", IsPublic: true}),
			typ:    "USER",
			detail: "hello",
			scores: "public:true context:false",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			row := StoreMapper(tt.key, tt.val)
			req.Equal(tt.typ, row.Type)
			req.Equal(tt.detail, row.Detail)
			if tt.scores != "" {
				req.Equal(tt.scores, row.Scores)
			}
		})
	}

	t.Run("corrupted value", func(t *testing.T) {
		row := StoreMapper("room:ROOMAAAAAAAAA", []byte("{"))
		require.Equal(t, "Error: unmarshal failed", row.Detail)
	})
}
