package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"influencia-backend/utils"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// authWait borne l'attente du message d'authentification
const authWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Le tableau de bord s'authentifie par message, l'origine n'est pas filtrée
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// authMessage est le premier message attendu du client
type authMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// Handler gère les connexions WebSocket du tableau de bord
type Handler struct {
	hub         *Hub
	jwtSecret   string
	staticToken string
}

// NewHandler crée un nouveau handler WebSocket
func NewHandler(hub *Hub, jwtSecret, staticToken string) *Handler {
	return &Handler{
		hub:         hub,
		jwtSecret:   jwtSecret,
		staticToken: staticToken,
	}
}

// ServeWS gère les requêtes WebSocket
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade a déjà répondu au client
		log.Error().Err(err).Msg("❌ Erreur upgrade WebSocket")
		return
	}

	go h.authenticate(conn)
}

// authenticate attend {type:"authenticate", token} puis enregistre le client
func (h *Handler) authenticate(conn *websocket.Conn) {
	reject := func(message string) {
		_ = conn.WriteJSON(map[string]interface{}{
			"type":    "error",
			"message": message,
		})
		conn.Close()
	}

	conn.SetReadDeadline(time.Now().Add(authWait))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		log.Warn().Err(err).Msg("❌ Erreur lecture auth")
		conn.Close()
		return
	}

	var msg authMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Type != "authenticate" {
		log.Warn().Msg("❌ Premier message doit être 'authenticate'")
		reject("Authentication required")
		return
	}

	claims, err := utils.AuthenticateAdmin(msg.Token, h.jwtSecret, h.staticToken)
	if err != nil {
		log.Warn().Err(err).Msg("❌ Token invalide")
		reject("Invalid or expired token")
		return
	}

	client := &Client{
		hub:     h.hub,
		conn:    conn,
		send:    make(chan Event, 64),
		ID:      uuid.NewString(),
		Subject: claims.Subject,
	}

	_ = conn.WriteJSON(map[string]interface{}{
		"type":     "authenticated",
		"clientId": client.ID,
	})

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
