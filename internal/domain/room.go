package domain

type (
	RoomName string
	RoomID   string
)

const MaxRoomNameLen = 64

// Room is the immutable part of a session: who created it and how it is listed.
type Room struct {
	ID      RoomID   `json:"id"`
	Name    RoomName `json:"name"`
	Private bool     `json:"isPrivate"`
	HostID  UserID   `json:"host"`
}
