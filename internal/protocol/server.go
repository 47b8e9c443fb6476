package protocol

import (
	"time"

	"github.com/dkeye/Hangout/internal/domain"
)

type ServerMessageType string

const (
	TypeRegistered     ServerMessageType = "registered"
	TypeRoomList       ServerMessageType = "roomList"
	TypeRoomCreated    ServerMessageType = "roomCreated"
	TypeJoinedRoom     ServerMessageType = "joinedRoom"
	TypeLeftRoom       ServerMessageType = "leftRoom"
	TypeUserJoined     ServerMessageType = "userJoined"
	TypeUserLeft       ServerMessageType = "userLeft"
	TypeUserUpdated    ServerMessageType = "userUpdated"
	TypeNewMessage     ServerMessageType = "newMessage"
	TypeYoutubeSync    ServerMessageType = "youtubeSync"
	TypeDrawing        ServerMessageType = "drawing"
	TypeCanvasCleared  ServerMessageType = "canvasCleared"
	TypeGuessGameState ServerMessageType = "guessGameState"
	TypeGuessGameError ServerMessageType = "guessGameError"
	TypeError          ServerMessageType = "error"
	TypePong           ServerMessageType = "pong"
)

// MemberDTO is a read-only view of a member (no transport fields).
type MemberDTO struct {
	ID             domain.UserID `json:"id"`
	Username       string        `json:"username"`
	Avatar         string        `json:"avatar,omitempty"`
	ProfilePicture string        `json:"profilePicture,omitempty"`
	JoinedAt       time.Time     `json:"joinedAt"`
	Muted          bool          `json:"muted"`
}

func NewMemberDTO(m *domain.Member) MemberDTO {
	return MemberDTO{
		ID:             m.User.ID,
		Username:       m.User.Username,
		Avatar:         m.User.Avatar,
		ProfilePicture: m.User.ProfilePicture,
		JoinedAt:       m.JoinedAt,
		Muted:          m.Mute,
	}
}

// RoomInfo is the listing entry for a public room.
type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	Name        string        `json:"name"`
	MemberCount int           `json:"memberCount"`
	Host        domain.UserID `json:"host"`
	IsPrivate   bool          `json:"isPrivate,omitempty"`
}

// Snapshot is everything a member needs to render a room after joining.
type Snapshot struct {
	ID        domain.RoomID        `json:"id"`
	Name      string               `json:"name"`
	IsPrivate bool                 `json:"isPrivate"`
	Host      domain.UserID        `json:"host"`
	You       domain.UserID        `json:"you"`
	Members   []MemberDTO          `json:"members"`
	Chat      []domain.ChatMessage `json:"messages"`
	Playback  domain.PlaybackState `json:"youtube"`
	Strokes   []domain.DrawStroke  `json:"drawing"`
	Minigame  domain.MinigameState `json:"guessGame"`
}

type Registered struct {
	Type ServerMessageType `json:"type"`
	User domain.User       `json:"user"`
}

type RoomList struct {
	Type  ServerMessageType `json:"type"`
	Rooms []RoomInfo        `json:"rooms"`
}

type RoomCreated struct {
	Type   ServerMessageType `json:"type"`
	RoomID domain.RoomID     `json:"roomId"`
	Room   RoomInfo          `json:"room"`
}

type JoinedRoom struct {
	Type ServerMessageType `json:"type"`
	Room Snapshot          `json:"room"`
}

type LeftRoom struct {
	Type   ServerMessageType `json:"type"`
	RoomID domain.RoomID     `json:"roomId"`
}

type UserJoined struct {
	Type           ServerMessageType `json:"type"`
	UserID         domain.UserID     `json:"userId"`
	Username       string            `json:"username"`
	Avatar         string            `json:"avatar,omitempty"`
	ProfilePicture string            `json:"profilePicture,omitempty"`
	JoinedAt       time.Time         `json:"joinedAt"`
	Muted          bool              `json:"muted"`
}

type UserLeft struct {
	Type     ServerMessageType `json:"type"`
	UserID   domain.UserID     `json:"userId"`
	Username string            `json:"username"`
}

type UserUpdated struct {
	Type   ServerMessageType `json:"type"`
	Member MemberDTO         `json:"member"`
}

type NewMessage struct {
	Type    ServerMessageType  `json:"type"`
	Message domain.ChatMessage `json:"message"`
}

type YoutubeSync struct {
	Type ServerMessageType `json:"type"`
	domain.PlaybackState
}

type Drawing struct {
	Type ServerMessageType `json:"type"`
	From domain.UserID     `json:"userId"`
	domain.DrawStroke
}

type CanvasCleared struct {
	Type ServerMessageType `json:"type"`
	By   domain.UserID     `json:"userId,omitempty"`
}

type GuessGameState struct {
	Type ServerMessageType `json:"type"`
	domain.MinigameState
}

type ErrorMessage struct {
	Type    ServerMessageType `json:"type"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
}

type Pong struct {
	Type ServerMessageType `json:"type"`
	At   time.Time         `json:"at"`
}

func NewRegistered(u domain.User) Registered { return Registered{Type: TypeRegistered, User: u} }

func NewRoomList(rooms []RoomInfo) RoomList {
	if rooms == nil {
		rooms = []RoomInfo{}
	}
	return RoomList{Type: TypeRoomList, Rooms: rooms}
}

func NewRoomCreated(info RoomInfo) RoomCreated {
	return RoomCreated{Type: TypeRoomCreated, RoomID: info.ID, Room: info}
}

func NewJoinedRoom(s Snapshot) JoinedRoom    { return JoinedRoom{Type: TypeJoinedRoom, Room: s} }
func NewLeftRoom(id domain.RoomID) LeftRoom  { return LeftRoom{Type: TypeLeftRoom, RoomID: id} }
func NewUserUpdated(m MemberDTO) UserUpdated { return UserUpdated{Type: TypeUserUpdated, Member: m} }

func NewCanvasCleared(by domain.UserID) CanvasCleared {
	return CanvasCleared{Type: TypeCanvasCleared, By: by}
}

func NewUserJoined(m MemberDTO) UserJoined {
	return UserJoined{
		Type:           TypeUserJoined,
		UserID:         m.ID,
		Username:       m.Username,
		Avatar:         m.Avatar,
		ProfilePicture: m.ProfilePicture,
		JoinedAt:       m.JoinedAt,
		Muted:          m.Muted,
	}
}

func NewUserLeft(id domain.UserID, username string) UserLeft {
	return UserLeft{Type: TypeUserLeft, UserID: id, Username: username}
}

func NewNewMessage(m domain.ChatMessage) NewMessage {
	return NewMessage{Type: TypeNewMessage, Message: m}
}

func NewYoutubeSync(p domain.PlaybackState) YoutubeSync {
	return YoutubeSync{Type: TypeYoutubeSync, PlaybackState: p}
}

func NewDrawing(from domain.UserID, s domain.DrawStroke) Drawing {
	return Drawing{Type: TypeDrawing, From: from, DrawStroke: s}
}

func NewGuessGameState(s domain.MinigameState) GuessGameState {
	return GuessGameState{Type: TypeGuessGameState, MinigameState: s}
}

func NewPong(at time.Time) Pong { return Pong{Type: TypePong, At: at} }

// NewErrorReply scopes an error to the requester: minigame rule violations go
// out as guessGameError, everything else as error.
func NewErrorReply(err error) ErrorMessage {
	t := TypeError
	if domain.IsGameError(err) {
		t = TypeGuessGameError
	}
	return ErrorMessage{Type: t, Code: domain.Code(err), Message: err.Error()}
}
