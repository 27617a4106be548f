package websocket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// Temps maximum pour l'écriture d'un message
	writeWait = 10 * time.Second

	// Temps maximum pour la lecture d'un pong
	pongWait = 60 * time.Second

	// Intervalle des pings
	pingPeriod = (pongWait * 9) / 10

	// Taille maximale des messages
	maxMessageSize = 4096
)

// Client représente une connexion WebSocket authentifiée
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan Event
	ID      string
	Subject string
}

// readPump lit les messages du tableau de bord. Seuls les pings applicatifs
// sont attendus : ils prolongent la présence de la connexion.
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c.ID)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("client", c.ID).Msg("❌ Erreur WebSocket")
			}
			break
		}

		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Warn().Err(err).Msg("❌ Erreur parsing message")
			continue
		}

		switch msg.Type {
		case "ping":
			c.hub.presence.Touch(c.ID)
		default:
			log.Debug().Str("type", msg.Type).Msg("⚠️  Type de message inconnu")
		}
	}
}

// writePump pompe les événements du hub vers la connexion WebSocket
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Le hub a fermé le canal
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(event); err != nil {
				log.Error().Err(err).Str("client", c.ID).Msg("❌ Erreur écriture WebSocket")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
