package websocket

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultIdleTimeout déconnecte un écran de tableau de bord resté muet
const DefaultIdleTimeout = 4 * time.Minute

// PresenceManager suit l'activité des connexions et signale celles inactives
type PresenceManager struct {
	// Timeouts actifs par identifiant de connexion
	timeouts map[string]*time.Timer

	mu sync.Mutex

	idleTimeout time.Duration

	// Appelé quand une connexion dépasse le délai d'inactivité
	onIdle func(clientID string)
}

// NewPresenceManager crée un nouveau gestionnaire de présence
func NewPresenceManager(idleTimeout time.Duration, onIdle func(clientID string)) *PresenceManager {
	return &PresenceManager{
		timeouts:    make(map[string]*time.Timer),
		idleTimeout: idleTimeout,
		onIdle:      onIdle,
	}
}

// Touch enregistre une activité et reprogramme le timeout
func (pm *PresenceManager) Touch(clientID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if timer, exists := pm.timeouts[clientID]; exists {
		timer.Stop()
	}

	pm.timeouts[clientID] = time.AfterFunc(pm.idleTimeout, func() {
		pm.handleTimeout(clientID)
	})
}

func (pm *PresenceManager) handleTimeout(clientID string) {
	pm.mu.Lock()
	_, exists := pm.timeouts[clientID]
	delete(pm.timeouts, clientID)
	pm.mu.Unlock()

	if !exists {
		return
	}

	log.Info().Str("client", clientID).Dur("idle", pm.idleTimeout).Msg("⏰ Timeout d'inactivité")
	if pm.onIdle != nil {
		pm.onIdle(clientID)
	}
}

// Remove arrête le suivi d'une connexion
func (pm *PresenceManager) Remove(clientID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if timer, exists := pm.timeouts[clientID]; exists {
		timer.Stop()
		delete(pm.timeouts, clientID)
	}
}

// Active retourne le nombre de connexions suivies
func (pm *PresenceManager) Active() int {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return len(pm.timeouts)
}

// Shutdown arrête tous les timeouts
func (pm *PresenceManager) Shutdown() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	for _, timer := range pm.timeouts {
		timer.Stop()
	}
	pm.timeouts = make(map[string]*time.Timer)
	log.Info().Msg("✅ Gestionnaire de présence arrêté")
}
