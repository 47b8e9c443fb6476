// Package protocol defines the websocket wire format: a closed set of client
// requests, the server events, and the JSON codec between them and bytes.
package protocol

import "strings"

type ClientMessageType string

const (
	TypeRegister               ClientMessageType = "register"
	TypeCreateRoom             ClientMessageType = "createRoom"
	TypeJoinRoom               ClientMessageType = "joinRoom"
	TypeLeaveRoom              ClientMessageType = "leaveRoom"
	TypeSendMessage            ClientMessageType = "sendMessage"
	TypeDraw                   ClientMessageType = "draw"
	TypeClearCanvas            ClientMessageType = "clearCanvas"
	TypeYoutubePlay            ClientMessageType = "youtubePlay"
	TypeYoutubePause           ClientMessageType = "youtubePause"
	TypeGuessGameStart         ClientMessageType = "guessGameStart"
	TypeGuessGameStop          ClientMessageType = "guessGameStop"
	TypeGuessGameSelectTheme   ClientMessageType = "guessGameSelectTheme"
	TypeGuessGameSelectSubject ClientMessageType = "guessGameSelectSubject"
	TypeSetMute                ClientMessageType = "setMute"
	TypePing                   ClientMessageType = "ping"
)

// ClientMessage is implemented only by the request types of this package.
type ClientMessage interface {
	Type() ClientMessageType
	clientMessage()
}

type Register struct {
	Username string `json:"username" validate:"required,max=36"`
	Avatar   string `json:"avatar" validate:"omitempty,max=512"`
	UserID   string `json:"userId" validate:"omitempty,max=64"`
	Token    string `json:"token,omitempty" validate:"omitempty,max=4096"`
}

type CreateRoom struct {
	Name      string `json:"name" validate:"required,max=64"`
	IsPrivate bool   `json:"isPrivate"`
}

type JoinRoom struct {
	RoomID string `json:"roomId" validate:"required,max=64"`
}

type LeaveRoom struct{}

type SendMessage struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type Draw struct {
	Kind  string  `json:"kind" validate:"required,oneof=start draw"`
	X     float64 `json:"x" validate:"gte=0,lte=100000"`
	Y     float64 `json:"y" validate:"gte=0,lte=100000"`
	Color string  `json:"color" validate:"required,iscolor"`
	Width float64 `json:"width" validate:"gt=0,lte=500"`
}

type ClearCanvas struct{}

type YoutubePlay struct {
	VideoID   string  `json:"videoId" validate:"max=64"`
	Timestamp float64 `json:"timestamp" validate:"gte=0"`
}

type YoutubePause struct {
	Timestamp float64 `json:"timestamp" validate:"gte=0"`
}

type GuessGameStart struct{}

type GuessGameStop struct{}

type GuessGameSelectTheme struct {
	Theme string `json:"theme" validate:"required,max=64"`
}

type GuessGameSelectSubject struct {
	Subject string `json:"subject" validate:"required,max=64"`
}

type SetMute struct {
	Muted bool `json:"muted"`
}

type Ping struct{}

func (*Register) Type() ClientMessageType               { return TypeRegister }
func (*CreateRoom) Type() ClientMessageType             { return TypeCreateRoom }
func (*JoinRoom) Type() ClientMessageType               { return TypeJoinRoom }
func (*LeaveRoom) Type() ClientMessageType              { return TypeLeaveRoom }
func (*SendMessage) Type() ClientMessageType            { return TypeSendMessage }
func (*Draw) Type() ClientMessageType                   { return TypeDraw }
func (*ClearCanvas) Type() ClientMessageType            { return TypeClearCanvas }
func (*YoutubePlay) Type() ClientMessageType            { return TypeYoutubePlay }
func (*YoutubePause) Type() ClientMessageType           { return TypeYoutubePause }
func (*GuessGameStart) Type() ClientMessageType         { return TypeGuessGameStart }
func (*GuessGameStop) Type() ClientMessageType          { return TypeGuessGameStop }
func (*GuessGameSelectTheme) Type() ClientMessageType   { return TypeGuessGameSelectTheme }
func (*GuessGameSelectSubject) Type() ClientMessageType { return TypeGuessGameSelectSubject }
func (*SetMute) Type() ClientMessageType                { return TypeSetMute }
func (*Ping) Type() ClientMessageType                   { return TypePing }

func (*Register) clientMessage()               {}
func (*CreateRoom) clientMessage()             {}
func (*JoinRoom) clientMessage()               {}
func (*LeaveRoom) clientMessage()              {}
func (*SendMessage) clientMessage()            {}
func (*Draw) clientMessage()                   {}
func (*ClearCanvas) clientMessage()            {}
func (*YoutubePlay) clientMessage()            {}
func (*YoutubePause) clientMessage()           {}
func (*GuessGameStart) clientMessage()         {}
func (*GuessGameStop) clientMessage()          {}
func (*GuessGameSelectTheme) clientMessage()   {}
func (*GuessGameSelectSubject) clientMessage() {}
func (*SetMute) clientMessage()                {}
func (*Ping) clientMessage()                   {}

// decoders is the closed set of accepted request types.
var decoders = map[ClientMessageType]func() ClientMessage{
	TypeRegister:               func() ClientMessage { return &Register{} },
	TypeCreateRoom:             func() ClientMessage { return &CreateRoom{} },
	TypeJoinRoom:               func() ClientMessage { return &JoinRoom{} },
	TypeLeaveRoom:              func() ClientMessage { return &LeaveRoom{} },
	TypeSendMessage:            func() ClientMessage { return &SendMessage{} },
	TypeDraw:                   func() ClientMessage { return &Draw{} },
	TypeClearCanvas:            func() ClientMessage { return &ClearCanvas{} },
	TypeYoutubePlay:            func() ClientMessage { return &YoutubePlay{} },
	TypeYoutubePause:           func() ClientMessage { return &YoutubePause{} },
	TypeGuessGameStart:         func() ClientMessage { return &GuessGameStart{} },
	TypeGuessGameStop:          func() ClientMessage { return &GuessGameStop{} },
	TypeGuessGameSelectTheme:   func() ClientMessage { return &GuessGameSelectTheme{} },
	TypeGuessGameSelectSubject: func() ClientMessage { return &GuessGameSelectSubject{} },
	TypeSetMute:                func() ClientMessage { return &SetMute{} },
	TypePing:                   func() ClientMessage { return &Ping{} },
}

// ClientMessageTypes lists every accepted request type.
func ClientMessageTypes() []ClientMessageType {
	out := make([]ClientMessageType, 0, len(decoders))
	for t := range decoders {
		out = append(out, t)
	}
	return out
}

type trimmer interface{ trim() }

func (m *Register) trim() {
	m.Username = strings.TrimSpace(m.Username)
	m.UserID = strings.TrimSpace(m.UserID)
	m.Avatar = strings.TrimSpace(m.Avatar)
}
func (m *CreateRoom) trim()             { m.Name = strings.TrimSpace(m.Name) }
func (m *JoinRoom) trim()               { m.RoomID = strings.TrimSpace(m.RoomID) }
func (m *SendMessage) trim()            { m.Message = strings.TrimSpace(m.Message) }
func (m *Draw) trim()                   { m.Color = strings.TrimSpace(m.Color) }
func (m *YoutubePlay) trim()            { m.VideoID = strings.TrimSpace(m.VideoID) }
func (m *GuessGameSelectTheme) trim()   { m.Theme = strings.TrimSpace(m.Theme) }
func (m *GuessGameSelectSubject) trim() { m.Subject = strings.TrimSpace(m.Subject) }
