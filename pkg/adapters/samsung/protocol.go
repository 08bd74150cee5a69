package samsung

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Channel names.
const (
	channelRemote = "samsung.remote.control"
	channelArt    = "com.samsung.art-app"
)

// Websocket events.
const (
	eventConnect      = "ms.channel.connect"
	eventReady        = "ms.channel.ready"
	eventUnauthorized = "ms.channel.unauthorized"
	eventTimeout      = "ms.channel.timeOut"
	eventD2D          = "d2d_service_message"
)

// Art app request and event names.
const (
	requestGetArtMode = "get_artmode_status"
	requestSetArtMode = "set_artmode_status"
	eventArtModeState = "artmode_status"
	eventArtError     = "error"
)

// ErrUnauthorized is returned when the display rejects the pairing token.
var ErrUnauthorized = errors.New("display rejected the session")

// message is the envelope used on every channel.
type message struct {
	Method string          `json:"method,omitempty"`
	Event  string          `json:"event,omitempty"`
	Params any             `json:"params,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

type connectData struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

type remoteKeyParams struct {
	Cmd          string `json:"Cmd"`
	DataOfCmd    string `json:"DataOfCmd"`
	Option       string `json:"Option"`
	TypeOfRemote string `json:"TypeOfRemote"`
}

func clickKey(key string) message {
	return message{
		Method: "ms.remote.control",
		Params: remoteKeyParams{
			Cmd:          "Click",
			DataOfCmd:    key,
			Option:       "false",
			TypeOfRemote: "SendRemoteKey",
		},
	}
}

type emitParams struct {
	Event string `json:"event"`
	To    string `json:"to"`
	Data  string `json:"data"`
}

// artRequest is the payload embedded, as a JSON string, in art_app_request emits.
type artRequest struct {
	Request string `json:"request"`
	Value   string `json:"value,omitempty"`
	ID      string `json:"id"`
}

// artEvent is the payload embedded, as a JSON string, in d2d_service_message events.
type artEvent struct {
	Event     string `json:"event"`
	Value     string `json:"value"`
	ID        string `json:"id"`
	ErrorCode string `json:"error_code"`
}

func emitArtRequest(req artRequest) (message, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return message{}, fmt.Errorf("encode art request: %w", err)
	}
	return message{
		Method: "ms.channel.emit",
		Params: emitParams{
			Event: "art_app_request",
			To:    "host",
			Data:  string(data),
		},
	}, nil
}

// decodeArtEvent unwraps the string-encoded payload of a d2d_service_message.
func decodeArtEvent(raw json.RawMessage) (artEvent, error) {
	var payload string
	if err := json.Unmarshal(raw, &payload); err != nil {
		return artEvent{}, fmt.Errorf("art event payload is not a string: %w", err)
	}
	var ev artEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return artEvent{}, fmt.Errorf("decode art event: %w", err)
	}
	return ev, nil
}

// deviceDescription is the REST /api/v2/ document.
type deviceDescription struct {
	Device struct {
		Name           string `json:"name"`
		ModelName      string `json:"modelName"`
		PowerState     string `json:"PowerState"`
		FrameTVSupport string `json:"FrameTVSupport"`
	} `json:"device"`
}
