package websocket

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Envelope is the frame shape both directions on the socket.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type registration struct {
	client *Client
}

type subscription struct {
	clientID string
	room     string
}

type publication struct {
	room     string
	envelope Envelope
	except   string
}

// HubStats is a point-in-time snapshot of the hub state.
type HubStats struct {
	Clients       int            `json:"clients"`
	Rooms         int            `json:"rooms"`
	RoomOccupancy map[string]int `json:"roomOccupancy"`
}

// Hub owns all room membership. A single goroutine processes every
// mutation and publish in arrival order, so no locks guard the maps and
// publish order within a room is delivery order.
type Hub struct {
	register    chan registration
	unregister  chan registration
	subscribe   chan subscription
	unsubscribe chan subscription
	publish     chan publication
	statsReq    chan chan HubStats
	done        chan struct{}

	clients   map[string]*Client
	rooms     map[string]map[string]*Client
	roomsByID map[string]map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		register:    make(chan registration),
		unregister:  make(chan registration),
		subscribe:   make(chan subscription),
		unsubscribe: make(chan subscription),
		publish:     make(chan publication, 256),
		statsReq:    make(chan chan HubStats),
		done:        make(chan struct{}),
		clients:     make(map[string]*Client),
		rooms:       make(map[string]map[string]*Client),
		roomsByID:   make(map[string]map[string]struct{}),
	}
}

// Run processes hub commands until ctx is cancelled. Start it exactly once.
func (h *Hub) Run(ctx context.Context) {
	logrus.Info("[HUB] Relay hub started")
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for _, c := range h.clients {
				c.close()
			}
			logrus.Info("[HUB] Relay hub stopped")
			return
		case reg := <-h.register:
			h.clients[reg.client.ID] = reg.client
			h.roomsByID[reg.client.ID] = make(map[string]struct{})
			logrus.Debugf("[HUB] Client %s connected (%d total)", reg.client.ID, len(h.clients))
		case reg := <-h.unregister:
			h.dropClient(reg.client)
		case sub := <-h.subscribe:
			h.joinRoom(sub.clientID, sub.room)
		case sub := <-h.unsubscribe:
			h.leaveRoom(sub.clientID, sub.room)
		case pub := <-h.publish:
			h.fanOut(pub)
		case reply := <-h.statsReq:
			reply <- h.snapshot()
		}
	}
}

// Register announces a new connection to the hub.
func (h *Hub) Register(c *Client) {
	h.register <- registration{client: c}
}

// Unregister removes the connection and all of its room memberships.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- registration{client: c}
}

// Subscribe adds the client to a room, creating the room on first join.
func (h *Hub) Subscribe(clientID, room string) {
	h.subscribe <- subscription{clientID: clientID, room: room}
}

// Unsubscribe removes the client from a room.
func (h *Hub) Unsubscribe(clientID, room string) {
	h.unsubscribe <- subscription{clientID: clientID, room: room}
}

// Publish fans the event out to every client in the room.
func (h *Hub) Publish(room, event string, data any) {
	h.PublishExcept(room, event, data, "")
}

// PublishExcept fans out to the room while skipping the originating client.
// Publishes after the hub has stopped are dropped rather than blocking the
// caller once the buffer fills.
func (h *Hub) PublishExcept(room, event string, data any, exceptClientID string) {
	select {
	case h.publish <- publication{room: room, envelope: Envelope{Event: event, Data: data}, except: exceptClientID}:
	case <-h.done:
		logrus.Debugf("[HUB] Hub stopped, dropping %s publish to %s", event, room)
	}
}

// Stats blocks until the hub goroutine answers with a snapshot.
func (h *Hub) Stats() HubStats {
	reply := make(chan HubStats, 1)
	h.statsReq <- reply
	return <-reply
}

func (h *Hub) joinRoom(clientID, room string) {
	c, ok := h.clients[clientID]
	if !ok {
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[room] = members
	}
	members[clientID] = c
	h.roomsByID[clientID][room] = struct{}{}
	logrus.Debugf("[HUB] Client %s joined %s (%d members)", clientID, room, len(members))
}

func (h *Hub) leaveRoom(clientID, room string) {
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, clientID)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
	if joined, ok := h.roomsByID[clientID]; ok {
		delete(joined, room)
	}
}

func (h *Hub) dropClient(c *Client) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	for room := range h.roomsByID[c.ID] {
		members := h.rooms[room]
		delete(members, c.ID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(h.roomsByID, c.ID)
	delete(h.clients, c.ID)
	c.close()
	logrus.Debugf("[HUB] Client %s disconnected (%d total)", c.ID, len(h.clients))
}

func (h *Hub) fanOut(pub publication) {
	members, ok := h.rooms[pub.room]
	if !ok {
		return
	}
	for id, c := range members {
		if pub.except != "" && id == pub.except {
			continue
		}
		c.enqueue(pub.envelope)
	}
}

func (h *Hub) snapshot() HubStats {
	occupancy := make(map[string]int, len(h.rooms))
	for room, members := range h.rooms {
		occupancy[room] = len(members)
	}
	return HubStats{
		Clients:       len(h.clients),
		Rooms:         len(h.rooms),
		RoomOccupancy: occupancy,
	}
}
