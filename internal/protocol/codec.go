package protocol

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dkeye/Hangout/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var ErrUnknownType = errors.New("unknown message type")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode parses and validates one client frame. Failures wrap
// domain.ErrValidation so they are rejected before reaching a session.
func Decode(data []byte) (ClientMessage, error) {
	var env struct {
		Type ClientMessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, domain.Validationf("bad json: %v", err)
	}
	newMsg, ok := decoders[env.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %w %q", domain.ErrValidation, ErrUnknownType, env.Type)
	}
	msg := newMsg()
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, domain.Validationf("bad %s payload: %v", env.Type, err)
	}
	if t, ok := msg.(trimmer); ok {
		t.trim()
	}
	if err := validate.Struct(msg); err != nil {
		return nil, domain.Validationf("%s", describe(err))
	}
	return msg, nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}
