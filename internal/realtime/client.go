package realtime

import (
	"time"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Time allowed to read the next pong from a socket peer
	pongWait = 60 * time.Second

	// Maximum size of an incoming socket message
	maxMessageSize = 4096

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Transports a client can use
const (
	TransportSSE    = "sse"
	TransportSocket = "websocket"
)

// Client is one subscriber of a hub
type Client struct {
	hub         *Hub
	id          string
	transport   string
	send        chan Event
	connectedAt time.Time
}

// NewClient creates a new client for a hub
func NewClient(hub *Hub, id, transport string) *Client {
	return &Client{
		hub:         hub,
		id:          id,
		transport:   transport,
		send:        make(chan Event, sendBufferSize),
		connectedAt: time.Now(),
	}
}
