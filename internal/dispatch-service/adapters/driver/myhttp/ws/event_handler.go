package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	websocketdto "quickdrop/internal/dispatch-service/core/domain/websocket_dto"

	"github.com/golang-jwt/jwt"
)

var (
	ErrNotAuthorized = errors.New("not authorized")
	ErrUnknownEvent  = errors.New("unknown event type")
)

type EventHandler struct {
	accessSecret string
}

func NewEventHandler(accessSecret string) *EventHandler {
	return &EventHandler{
		accessSecret: accessSecret,
	}
}

// Authorize validates the first-message auth event. Courier connections
// must present a token issued for the same courier id; admin connections
// require the ADMIN role; order watchers need any valid token.
func (eh *EventHandler) Authorize(client *Client, e websocketdto.Event) error {
	var auth websocketdto.AuthMessage
	if err := json.Unmarshal(e.Data, &auth); err != nil {
		return err
	}

	tokenString := strings.TrimPrefix(auth.Token, "Bearer ")
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(eh.accessSecret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return ErrNotAuthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return fmt.Errorf("cannot read claims")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return fmt.Errorf("no exp claim")
	}
	if time.Now().Unix() > int64(exp) {
		return fmt.Errorf("token expired")
	}

	switch client.kind {
	case kindCourier:
		userID, ok := claims["user_id"].(string)
		if !ok {
			return fmt.Errorf("no user_id claim")
		}
		if userID != client.subjectID {
			return ErrNotAuthorized
		}
	case kindAdmin:
		role, ok := claims["role"].(string)
		if !ok || role != "ADMIN" {
			return ErrNotAuthorized
		}
	}

	client.authed = true
	return nil
}
