package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"photo-gallery/internal/gallery"
	"photo-gallery/internal/models"
	dto "photo-gallery/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	queueSize  = 64
	sendBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // dashboard and gallery pages may be served from another origin
	},
}

// Audience is the session a live connection was opened for
type Audience struct {
	Role     models.Role
	FolderID string
}

// Message is the frame written to a live connection
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Frame renders ev for one audience. ok is false when the audience may not
// see the event at all. Photographers get the event as published; a buyer
// only hears about the folder their code unlocked, and only its public view.
func Frame(aud Audience, ev gallery.Event) (frame []byte, ok bool) {
	var msg Message
	switch aud.Role {
	case models.RolePhotographer:
		msg = Message{Type: ev.Type, Data: ev.Data}
	case models.RoleBuyer:
		if ev.Folder == nil || aud.FolderID == "" || ev.Folder.ID != aud.FolderID {
			return nil, false
		}
		msg = Message{Type: ev.Type, Data: dto.NewBuyerFolder(*ev.Folder)}
	default:
		return nil, false
	}

	frame, err := json.Marshal(msg)
	if err != nil {
		log.WithError(err).WithField("type", ev.Type).Error("Failed to encode live event")
		return nil, false
	}
	return frame, true
}

type client struct {
	hub      *Hub
	conn     *websocket.Conn
	audience Audience
	send     chan []byte
}

// Hub delivers gallery events to live connections, each one filtered for the
// session it belongs to.
type Hub struct {
	clients    map[*client]struct{}
	events     chan gallery.Event
	register   chan *client
	unregister chan *client
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]struct{}),
		events:     make(chan gallery.Event, queueSize),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			log.WithField("role", c.audience.Role).Debug("Live connection registered")
		case c := <-h.unregister:
			h.mu.Lock()
			h.drop(c)
			h.mu.Unlock()
		case ev := <-h.events:
			h.deliver(ev)
		}
	}
}

// deliver encodes ev once per distinct audience. A client whose buffer is
// full is disconnected rather than allowed to stall the rest.
func (h *Hub) deliver(ev gallery.Event) {
	type rendered struct {
		frame []byte
		ok    bool
	}
	cache := make(map[Audience]rendered)

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		r, seen := cache[c.audience]
		if !seen {
			r.frame, r.ok = Frame(c.audience, ev)
			cache[c.audience] = r
		}
		if !r.ok {
			continue
		}
		select {
		case c.send <- r.frame:
		default:
			log.WithField("role", c.audience.Role).Warn("Live connection too slow, disconnecting")
			h.drop(c)
		}
	}
}

// drop must be called with mu held
func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// ClientCount is the number of registered connections
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish queues ev for delivery. It never blocks the caller: when the queue
// is full the event is dropped.
func (h *Hub) Publish(ev gallery.Event) {
	select {
	case h.events <- ev:
	default:
		log.WithField("type", ev.Type).Warn("Live event queue full, dropping event")
	}
}

// Serve upgrades the request and registers the connection for aud
func (h *Hub) Serve(c *gin.Context, aud Audience) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	cl := &client{hub: h, conn: conn, audience: aud, send: make(chan []byte, sendBuffer)}
	h.register <- cl

	go cl.writeLoop()
	go cl.readLoop()
}

// readLoop only watches for the peer going away; viewers never send anything
// the server acts on.
func (c *client) readLoop() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
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
