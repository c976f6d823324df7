package server

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"castle-defenders/server/catalog"
	"castle-defenders/server/internal/game"
	"castle-defenders/server/logging"
	"castle-defenders/server/profile"
)

const writeWait = 10 * time.Second

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// send serializes writes on the connection. Concurrent broadcasters and the
// read loop's replies all funnel through the subscriber mutex.
func (s *subscriber) send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// client is one live connection. The connection id doubles as the in-game
// player id; profileID is set once the client has logged in, gameID once it
// has joined a session.
type client struct {
	id        string
	sub       *subscriber
	profileID string
	name      string
	level     int
	gameID    string
}

// Hub routes client commands into sessions and fans session state back out to
// every connection in the same match.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client

	nextClient atomic.Uint64

	manager *game.Manager
	store   *profile.Store
	catalog *catalog.Catalog
	pub     logging.Publisher
}

// NewHub wires the hub to its collaborators.
func NewHub(manager *game.Manager, store *profile.Store, cat *catalog.Catalog, pub logging.Publisher) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		manager: manager,
		store:   store,
		catalog: cat,
		pub:     pub,
	}
}

// HandleConnection owns a websocket connection for its whole lifetime: it
// registers the client, dispatches commands, and tears everything down when
// the read loop ends.
func (h *Hub) HandleConnection(conn *websocket.Conn) {
	id := fmt.Sprintf("conn-%d", h.nextClient.Add(1))
	c := &client{id: id, sub: &subscriber{conn: conn}}

	h.mu.Lock()
	h.clients[id] = c
	h.mu.Unlock()

	defer h.disconnect(c)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			log.Printf("discarding malformed message from %s: %v", id, err)
			continue
		}

		switch msg.Type {
		case msgLogin:
			h.handleLogin(c, msg)
		case msgJoinGame:
			h.handleJoinGame(c)
		case msgStartWave:
			h.handleStartWave(c)
		case msgPlaceTower:
			h.handlePlaceTower(c, msg)
		case msgSellTower:
			h.handleSellTower(c, msg)
		case msgBuyPerk:
			h.handleBuyPerk(c, msg)
		case msgChat:
			h.handleChat(c, msg)
		default:
			log.Printf("unknown message type %q from %s", msg.Type, id)
		}
	}
}

func (h *Hub) handleLogin(c *client, msg clientMessage) {
	profileID := msg.PlayerID
	if profileID == "" {
		h.sendTo(c, errorMessage{Type: "error", Message: "Missing player id"})
		return
	}

	if _, err := h.store.GetOrCreate(profileID, msg.PlayerName); err != nil {
		log.Printf("profile save failed for %s: %v", profileID, err)
	}
	prof, ok := h.store.View(profileID)
	if !ok {
		h.sendTo(c, errorMessage{Type: "error", Message: "Login failed"})
		return
	}

	h.mu.Lock()
	c.profileID = profileID
	c.name = prof.Name
	c.level = prof.Level
	h.mu.Unlock()

	h.sendTo(c, loginSuccessMessage{
		Type:           "loginSuccess",
		Profile:        prof,
		TowerTypes:     h.catalog.Towers(),
		Perks:          h.catalog.Perks(),
		UnlockedTowers: h.catalog.UnlockedTowers(prof.Level),
		XPForNextLevel: catalog.XPForLevel(prof.Level + 1),
	})
}

func (h *Hub) handleJoinGame(c *client) {
	h.mu.Lock()
	profileID, name, level := c.profileID, c.name, c.level
	h.mu.Unlock()

	if profileID == "" {
		h.sendTo(c, errorMessage{Type: "error", Message: "Please login first"})
		return
	}

	prof, ok := h.store.View(profileID)
	if !ok {
		h.sendTo(c, errorMessage{Type: "error", Message: "Please login first"})
		return
	}

	session := h.manager.FindOrCreate()
	if _, reason := session.Join(c.id, name, level, prof.StatsBundle(h.catalog)); reason != "" {
		h.sendTo(c, actionFailedMessage{Type: "actionFailed", Error: reason.Message()})
		return
	}

	h.mu.Lock()
	c.gameID = session.ID()
	h.mu.Unlock()

	h.sendTo(c, gameJoinedMessage{
		Type:     "gameJoined",
		GameID:   session.ID(),
		PlayerID: c.id,
		State:    session.Snapshot(),
	})
	h.broadcastToSession(session.ID(), playerJoinedMessage{
		Type:        "playerJoined",
		PlayerID:    c.id,
		PlayerName:  name,
		PlayerLevel: level,
	}, c.id)
}

func (h *Hub) handleStartWave(c *client) {
	session, ok := h.sessionFor(c)
	if !ok {
		return
	}
	if !session.StartWave(c.id) {
		return
	}
	h.broadcastToSession(session.ID(), waveStartedMessage{Type: "waveStarted", Wave: session.Wave()}, "")
}

func (h *Hub) handlePlaceTower(c *client, msg clientMessage) {
	session, ok := h.sessionFor(c)
	if !ok {
		h.sendTo(c, actionFailedMessage{Type: "actionFailed", Error: "Not in a game"})
		return
	}
	if msg.PlotID == nil {
		h.sendTo(c, actionFailedMessage{Type: "actionFailed", Error: "Invalid plot ID"})
		return
	}
	if msg.TowerType == "" {
		h.sendTo(c, actionFailedMessage{Type: "actionFailed", Error: "No tower type selected"})
		return
	}

	result := session.PlaceTower(c.id, *msg.PlotID, catalog.TowerType(msg.TowerType))
	if !result.OK {
		h.sendTo(c, actionFailedMessage{Type: "actionFailed", Error: result.Message()})
		return
	}
	h.broadcastToSession(session.ID(), towerPlacedMessage{
		Type:     "towerPlaced",
		Tower:    result.Tower,
		PlayerID: c.id,
	}, "")
}

func (h *Hub) handleSellTower(c *client, msg clientMessage) {
	session, ok := h.sessionFor(c)
	if !ok || msg.PlotID == nil {
		return
	}

	result := session.SellTower(c.id, *msg.PlotID)
	if !result.OK {
		h.sendTo(c, actionFailedMessage{Type: "actionFailed", Error: result.Reason.Message()})
		return
	}
	h.broadcastToSession(session.ID(), towerSoldMessage{
		Type:     "towerSold",
		PlotID:   *msg.PlotID,
		PlayerID: c.id,
		Refund:   result.Refund,
	}, "")
}

func (h *Hub) handleBuyPerk(c *client, msg clientMessage) {
	h.mu.Lock()
	profileID := c.profileID
	h.mu.Unlock()
	if profileID == "" || msg.PerkID == "" {
		return
	}

	prof, ok := h.store.BuyPerk(h.catalog, profileID, catalog.PerkID(msg.PerkID))
	if !ok {
		h.sendTo(c, actionFailedMessage{Type: "actionFailed", Error: "Could not buy perk"})
		return
	}
	h.sendTo(c, perkBoughtMessage{
		Type:            "perkBought",
		PerkID:          msg.PerkID,
		NewLevel:        prof.Perks[catalog.PerkID(msg.PerkID)],
		RemainingPoints: prof.PerkPoints,
	})
}

func (h *Hub) handleChat(c *client, msg clientMessage) {
	session, ok := h.sessionFor(c)
	if !ok {
		return
	}
	h.mu.Lock()
	name := c.name
	h.mu.Unlock()
	if name == "" {
		return
	}

	text := msg.Message
	if len(text) > maxChatLength {
		text = text[:maxChatLength]
	}
	h.broadcastToSession(session.ID(), chatBroadcastMessage{
		Type:       "chat",
		PlayerID:   c.id,
		PlayerName: name,
		Message:    text,
	}, "")
}

// disconnect removes the client from its session and the registry. Empty
// sessions are dropped immediately instead of waiting for the driver sweep.
func (h *Hub) disconnect(c *client) {
	h.mu.Lock()
	gameID := c.gameID
	delete(h.clients, c.id)
	h.mu.Unlock()

	c.sub.conn.Close()

	if gameID == "" {
		return
	}
	session, ok := h.manager.Get(gameID)
	if !ok {
		return
	}
	session.Leave(c.id)
	h.broadcastToSession(gameID, playerLeftMessage{Type: "playerLeft", PlayerID: c.id}, "")
	if session.Empty() {
		h.manager.Remove(gameID)
	}
}

func (h *Hub) sessionFor(c *client) (*game.Session, bool) {
	h.mu.Lock()
	gameID := c.gameID
	h.mu.Unlock()
	if gameID == "" {
		return nil, false
	}
	return h.manager.Get(gameID)
}

func (h *Hub) sendTo(c *client, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal %T for %s: %v", payload, c.id, err)
		return
	}
	if err := c.sub.send(data); err != nil {
		c.sub.conn.Close()
	}
}

// broadcastToSession sends one payload to every client in the session,
// optionally skipping a single client id. The payload is marshalled once.
func (h *Hub) broadcastToSession(gameID string, payload any, skipID string) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal %T for session %s: %v", payload, gameID, err)
		return
	}

	h.mu.Lock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		if c.gameID == gameID && c.id != skipID {
			targets = append(targets, c)
		}
	}
	h.mu.Unlock()

	for _, c := range targets {
		if err := c.sub.send(data); err != nil {
			c.sub.conn.Close()
		}
	}
}

// profileIDFor maps an in-game player id back to the owning profile, if the
// connection is still alive.
func (h *Hub) profileIDFor(playerID string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[playerID]; ok {
		return c.profileID
	}
	return ""
}
