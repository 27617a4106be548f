package websocket

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Types d'événements poussés au tableau de bord
const (
	EventRegistrationCreated = "registration_created"
	EventAttendeeCheckedIn   = "attendee_checked_in"
	EventAttendeeUpdated     = "attendee_updated"
	EventAttendeeDeleted     = "attendee_deleted"
	EventVolunteerCreated    = "volunteer_created"
	EventPresenceUpdate      = "presence_update"
)

// Event est le message JSON envoyé aux tableaux de bord connectés
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	SentAt  time.Time   `json:"sentAt"`
}

// Hub diffuse les événements métier à toutes les connexions authentifiées
type Hub struct {
	// Connexions actives par identifiant
	clients map[string]*Client

	// Canal pour enregistrer les clients
	register chan *Client

	// Canal pour désenregistrer les clients
	unregister chan *Client

	// Canal pour diffuser les événements
	broadcast chan Event

	quit chan struct{}
	done chan struct{}

	presence *PresenceManager
}

// NewHub crée un nouveau hub WebSocket
func NewHub() *Hub {
	hub := &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client, 16),
		broadcast:  make(chan Event, 256),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	hub.presence = NewPresenceManager(DefaultIdleTimeout, hub.disconnectIdle)
	return hub
}

// Run démarre la boucle principale du hub. Seule cette goroutine touche à clients.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.clients[client.ID] = client
			h.presence.Touch(client.ID)
			log.Info().Str("client", client.ID).Str("subject", client.Subject).Int("total", len(h.clients)).Msg("🔌 Tableau de bord connecté")
			h.send(Event{Type: EventPresenceUpdate, Payload: map[string]int{"online": len(h.clients)}, SentAt: time.Now()})

		case leaving := <-h.unregister:
			client, ok := h.clients[leaving.ID]
			if !ok {
				continue
			}
			delete(h.clients, client.ID)
			close(client.send)
			h.presence.Remove(client.ID)
			log.Info().Str("client", client.ID).Int("total", len(h.clients)).Msg("👋 Tableau de bord déconnecté")
			h.send(Event{Type: EventPresenceUpdate, Payload: map[string]int{"online": len(h.clients)}, SentAt: time.Now()})

		case event := <-h.broadcast:
			h.send(event)

		case <-h.quit:
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			h.presence.Shutdown()
			return
		}
	}
}

// send écrit l'événement dans la file de chaque client. Un client trop lent est déconnecté.
func (h *Hub) send(event Event) {
	for id, client := range h.clients {
		select {
		case client.send <- event:
		default:
			log.Warn().Str("client", id).Msg("⚠️  File pleine, client déconnecté")
			close(client.send)
			delete(h.clients, id)
			h.presence.Remove(id)
		}
	}
}

// Publish met un événement en file sans bloquer l'appelant
func (h *Hub) Publish(eventType string, payload interface{}) {
	select {
	case h.broadcast <- Event{Type: eventType, Payload: payload, SentAt: time.Now()}:
	default:
		log.Warn().Str("type", eventType).Msg("⚠️  File de diffusion pleine, événement ignoré")
	}
}

// leave demande le retrait d'un client, sauf si le hub est déjà arrêté
func (h *Hub) leave(clientID string) {
	select {
	case h.unregister <- &Client{ID: clientID}:
	case <-h.done:
	}
}

// disconnectIdle ferme une connexion restée inactive
func (h *Hub) disconnectIdle(clientID string) {
	h.leave(clientID)
}

// Stop arrête la boucle du hub et ferme les files des clients
func (h *Hub) Stop() {
	close(h.quit)
	<-h.done
}
