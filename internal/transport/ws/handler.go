package ws

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

// ServeWS returns an HTTP handler that upgrades to WebSocket. Identity
// comes from a ?token= JWT (subject = user id) because WebSocket clients
// can't send headers; with allowInsecureUserID a bare ?user_id= query
// param is accepted instead (dev mode).
// Connections that carry neither are rejected: without a user id the
// connection can't be associated with presence.
func ServeWS(hub *Hub, relay Relay, jwtSecret string, allowInsecureUserID bool, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := identify(r, jwtSecret, allowInsecureUserID)
		if err != nil {
			http.Error(w, "missing or invalid credentials", http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // Allow any origin (dev mode)
		})
		if err != nil {
			logger.Warn("ws: accept error", zap.Error(err))
			return
		}

		client := NewClient(hub, relay, conn, userID, logger)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	}
}

func identify(r *http.Request, secret string, allowInsecureUserID bool) (uuid.UUID, error) {
	if tokenStr := r.URL.Query().Get("token"); tokenStr != "" {
		return validateToken(tokenStr, secret)
	}
	if allowInsecureUserID {
		return uuid.Parse(r.URL.Query().Get("user_id"))
	}
	return uuid.Nil, jwt.ErrTokenMalformed
}

func validateToken(tokenStr, secret string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	if !token.Valid {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(sub)
}
